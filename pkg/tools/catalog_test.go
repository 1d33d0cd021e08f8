package tools

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-deployment-service/pkg/api"
	"mcp-deployment-service/pkg/errors"
)

func TestDefaultTools_UniqueNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, tool := range DefaultTools(&fakeBackend{}) {
		assert.False(t, seen[tool.Name()], "duplicate tool name %s", tool.Name())
		assert.NotEmpty(t, tool.Description(), "tool %s has no description", tool.Name())
		seen[tool.Name()] = true
	}

	registry, err := NewDefaultRegistry(&fakeBackend{}, nil)
	require.NoError(t, err)
	assert.True(t, registry.Sealed())
	assert.Equal(t, len(seen), registry.Len())
}

func TestDefaultTools_MissingRequiredFieldNeverReachesBackend(t *testing.T) {
	for _, tool := range DefaultTools(nil) {
		for _, field := range tool.InputSchema().Fields {
			if !field.Required {
				continue
			}

			t.Run(tool.Name()+"/"+field.Name, func(t *testing.T) {
				backend := &fakeBackend{}
				registry, err := NewDefaultRegistry(backend, nil)
				require.NoError(t, err)

				args := sampleArguments(tool.InputSchema())
				delete(args, field.Name)

				_, err = registry.Invoke(context.Background(), tool.Name(), args)

				var validationErr *errors.ValidationError
				require.ErrorAs(t, err, &validationErr)
				assert.Contains(t, validationErr.Fields(), field.Name)
				assert.Equal(t, 0, backend.callCount())
			})
		}
	}
}

func TestDefaultTools_NotFoundPropagates(t *testing.T) {
	for _, tool := range DefaultTools(nil) {
		t.Run(tool.Name(), func(t *testing.T) {
			notFound := errors.NewHTTPStatusError(http.StatusNotFound, "Resource not found.")
			backend := &fakeBackend{err: notFound}
			registry, err := NewDefaultRegistry(backend, nil)
			require.NoError(t, err)

			_, err = registry.Invoke(context.Background(), tool.Name(), sampleArguments(tool.InputSchema()))

			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Same(t, notFound, apiErr)
			status, ok := apiErr.StatusCode()
			assert.True(t, ok)
			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, "Resource not found.", apiErr.Message)
			assert.Equal(t, 1, backend.callCount())
		})
	}
}

func TestGetServer_RoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/servers/0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b", r.URL.Path)
		w.Write([]byte(`{"uuid":"abc","name":"x"}`))
	}))
	defer srv.Close()

	client, err := api.NewClient(srv.URL+"/api/v1", "token")
	require.NoError(t, err)
	registry, err := NewDefaultRegistry(client, nil, WithStrictOutput(true))
	require.NoError(t, err)

	result, err := registry.Invoke(context.Background(), "get_server", map[string]interface{}{
		"uuid": "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b",
	})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Text()), &decoded))
	assert.Equal(t, "abc", decoded["uuid"])
	assert.Equal(t, "x", decoded["name"])
}

func TestFreeFormIdentifiers_EscapedOnce(t *testing.T) {
	tests := []struct {
		tool    string
		args    map[string]interface{}
		escaped string
	}{
		{"get_registry", map[string]interface{}{"registry_id": "my registry"}, "/api/v1/registries/my%20registry"},
		{"get_registry", map[string]interface{}{"registry_id": "a/b"}, "/api/v1/registries/a%2Fb"},
		{"get_project_environment", map[string]interface{}{
			"uuid":             "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b",
			"environment_name": "staging eu",
		}, "/api/v1/projects/0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b/staging%20eu"},
	}

	for _, tt := range tests {
		t.Run(tt.escaped, func(t *testing.T) {
			var escaped string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				escaped = r.URL.EscapedPath()
				w.Write([]byte(`{"name":"x"}`))
			}))
			defer srv.Close()

			client, err := api.NewClient(srv.URL+"/api/v1", "token")
			require.NoError(t, err)
			registry, err := NewDefaultRegistry(client, nil, WithStrictOutput(true))
			require.NoError(t, err)

			_, err = registry.Invoke(context.Background(), tt.tool, tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.escaped, escaped)
		})
	}
}

func TestListTools_EmptyBodyPassesStrictOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := api.NewClient(srv.URL, "token")
	require.NoError(t, err)
	registry, err := NewDefaultRegistry(client, nil, WithStrictOutput(true))
	require.NoError(t, err)

	calls := map[string]map[string]interface{}{
		"list_servers":             nil,
		"list_projects":            nil,
		"list_services":            nil,
		"list_deployments":         nil,
		"list_private_keys":        nil,
		"list_registries":          nil,
		"list_deploy_keys":         nil,
		"list_teams":               nil,
		"get_current_team_members": nil,
		"get_server_domains":       {"uuid": "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b"},
		"get_server_resources":     {"uuid": "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b"},
	}
	for name, args := range calls {
		t.Run(name, func(t *testing.T) {
			result, err := registry.Invoke(context.Background(), name, args)
			require.NoError(t, err)
			assert.Equal(t, "[]", result.Text())
		})
	}
}

func TestCreateProject(t *testing.T) {
	var body map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/projects", r.URL.Path)
		json.NewDecoder(r.Body).Decode(&body)
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"uuid":"p-1"}`))
	}))
	defer srv.Close()

	client, err := api.NewClient(srv.URL, "token")
	require.NoError(t, err)
	registry, err := NewDefaultRegistry(client, nil, WithStrictOutput(true))
	require.NoError(t, err)

	result, err := registry.Invoke(context.Background(), "create_project", map[string]interface{}{"name": "demo"})
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{"name": "demo"}, body)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Text()), &decoded))
	assert.Equal(t, true, decoded["success"])
	assert.Equal(t, "p-1", decoded["uuid"])
	assert.Equal(t, "Project created successfully", decoded["message"])
}

func TestDeleteRegistry_DefaultMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/registries/r1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := api.NewClient(srv.URL, "token")
	require.NoError(t, err)
	registry, err := NewDefaultRegistry(client, nil, WithStrictOutput(true))
	require.NoError(t, err)

	result, err := registry.Invoke(context.Background(), "delete_registry", map[string]interface{}{"registry_id": "r1"})
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(result.Text()), &decoded))
	assert.Equal(t, map[string]interface{}{
		"success": true,
		"message": "Registry deleted successfully",
	}, decoded)
}

func TestCreateServer_DefaultsAndBody(t *testing.T) {
	backend := &fakeBackend{resp: &api.Response{Status: 201, Data: map[string]interface{}{"uuid": "s-1"}}}
	registry, err := NewDefaultRegistry(backend, nil, WithStrictOutput(true))
	require.NoError(t, err)

	_, err = registry.Invoke(context.Background(), "create_server", map[string]interface{}{
		"name":             "web-1",
		"ip":               "10.0.0.5",
		"private_key_uuid": "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b",
	})
	require.NoError(t, err)

	call := backend.lastCall()
	assert.Equal(t, "POST", call.Method)
	assert.Equal(t, "/servers", call.Path)
	assert.Equal(t, map[string]interface{}{
		"name":             "web-1",
		"ip":               "10.0.0.5",
		"port":             22,
		"user":             "root",
		"private_key_uuid": "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b",
	}, call.Body)
}

func TestCreateServer_InvalidFormats(t *testing.T) {
	backend := &fakeBackend{}
	registry, err := NewDefaultRegistry(backend, nil)
	require.NoError(t, err)

	_, err = registry.Invoke(context.Background(), "create_server", map[string]interface{}{
		"name":             "web-1",
		"ip":               "10.0.0",
		"port":             0,
		"private_key_uuid": "abc",
	})

	var validationErr *errors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{"ip", "port", "private_key_uuid"}, validationErr.Fields())
	assert.Equal(t, 0, backend.callCount())
}

func TestDeploy(t *testing.T) {
	t.Run("RequiresUUIDOrTag", func(t *testing.T) {
		backend := &fakeBackend{}
		registry, err := NewDefaultRegistry(backend, nil)
		require.NoError(t, err)

		_, err = registry.Invoke(context.Background(), "deploy", map[string]interface{}{"force": true})

		var validationErr *errors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{"uuid", "tag"}, validationErr.Fields())
		assert.Equal(t, 0, backend.callCount())
	})

	t.Run("QueryParameters", func(t *testing.T) {
		backend := &fakeBackend{}
		registry, err := NewDefaultRegistry(backend, nil)
		require.NoError(t, err)

		_, err = registry.Invoke(context.Background(), "deploy", map[string]interface{}{"tag": "prod"})
		require.NoError(t, err)

		call := backend.lastCall()
		assert.Equal(t, "/deploy", call.Path)
		assert.Equal(t, "prod", call.Query.Get("tag"))
		assert.Equal(t, "false", call.Query.Get("force"))
		assert.False(t, call.Query.Has("uuid"))
	})

	t.Run("TargetLists", func(t *testing.T) {
		backend := &fakeBackend{}
		registry, err := NewDefaultRegistry(backend, nil)
		require.NoError(t, err)

		_, err = registry.Invoke(context.Background(), "deploy", map[string]interface{}{
			"uuid":  []interface{}{"u-1", "u-2"},
			"tag":   "prod, edge",
			"force": "true",
		})
		require.NoError(t, err)

		call := backend.lastCall()
		assert.Equal(t, "u-1,u-2", call.Query.Get("uuid"))
		assert.Equal(t, "prod,edge", call.Query.Get("tag"))
		assert.Equal(t, "true", call.Query.Get("force"))
	})

	t.Run("BlankTargetRejected", func(t *testing.T) {
		backend := &fakeBackend{}
		registry, err := NewDefaultRegistry(backend, nil)
		require.NoError(t, err)

		_, err = registry.Invoke(context.Background(), "deploy", map[string]interface{}{"tag": " , "})

		var validationErr *errors.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, []string{"tag"}, validationErr.Fields())
		assert.Equal(t, 0, backend.callCount())
	})
}

func TestDeleteService_QueryDefaults(t *testing.T) {
	backend := &fakeBackend{}
	registry, err := NewDefaultRegistry(backend, nil)
	require.NoError(t, err)

	_, err = registry.Invoke(context.Background(), "delete_service", map[string]interface{}{
		"uuid":           "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b",
		"delete_volumes": false,
	})
	require.NoError(t, err)

	call := backend.lastCall()
	assert.Equal(t, "DELETE", call.Method)
	assert.Equal(t, "false", call.Query.Get("delete_volumes"))
	assert.Equal(t, "true", call.Query.Get("delete_configurations"))
	assert.Equal(t, "true", call.Query.Get("docker_cleanup"))
}

func TestServiceActions(t *testing.T) {
	for _, action := range []string{"start", "stop", "restart"} {
		t.Run(action, func(t *testing.T) {
			backend := &fakeBackend{}
			registry, err := NewDefaultRegistry(backend, nil, WithStrictOutput(true))
			require.NoError(t, err)

			result, err := registry.Invoke(context.Background(), action+"_service", map[string]interface{}{
				"uuid": "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b",
			})
			require.NoError(t, err)

			assert.True(t, strings.HasSuffix(backend.lastCall().Path, "/"+action))
			assert.Contains(t, result.Text(), "Service "+action+" requested")
		})
	}
}

func TestUpdateTools_RequireAChange(t *testing.T) {
	for _, name := range []string{"update_server", "update_project", "update_registry", "update_private_key"} {
		t.Run(name, func(t *testing.T) {
			backend := &fakeBackend{}
			registry, err := NewDefaultRegistry(backend, nil)
			require.NoError(t, err)

			tool, err := registry.GetTool(name)
			require.NoError(t, err)

			args := map[string]interface{}{}
			for _, field := range tool.InputSchema().Fields {
				if field.Required {
					args[field.Name] = sampleValue(field)
				}
			}

			_, err = registry.Invoke(context.Background(), name, args)

			var validationErr *errors.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, 0, backend.callCount())
		})
	}
}

func TestGetTeam_Path(t *testing.T) {
	backend := &fakeBackend{}
	registry, err := NewDefaultRegistry(backend, nil)
	require.NoError(t, err)

	_, err = registry.Invoke(context.Background(), "get_team_members", map[string]interface{}{"team_id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/teams/7/members", backend.lastCall().Path)
}
