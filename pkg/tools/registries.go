package tools

import (
	"context"

	"mcp-deployment-service/pkg/schema"
)

var registryOutput = schema.OpenObject(
	schema.String("name", "Registry name").Optional(),
	schema.String("url", "Registry URL").Optional(),
	schema.String("username", "Registry user").Optional(),
)

func registryIDField() schema.Field {
	return schema.NonEmptyString("registry_id", "Container registry ID")
}

// ListRegistriesTool lists all container registries
type ListRegistriesTool struct{ Base }

// NewListRegistriesTool creates a new ListRegistriesTool instance
func NewListRegistriesTool(backend Backend) *ListRegistriesTool {
	return &ListRegistriesTool{NewBase(backend,
		"list_registries",
		"List all container registries",
		schema.Object(),
		schema.Array(registryOutput),
	)}
}

// Execute runs the tool with validated arguments
func (t *ListRegistriesTool) Execute(ctx context.Context, _ schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, "/registries", nil)
	if err != nil {
		return Result{}, err
	}
	return ListResult(resp), nil
}

// GetRegistryTool fetches one registry
type GetRegistryTool struct{ Base }

// NewGetRegistryTool creates a new GetRegistryTool instance
func NewGetRegistryTool(backend Backend) *GetRegistryTool {
	return &GetRegistryTool{NewBase(backend,
		"get_registry",
		"Get details of a container registry",
		schema.Object(registryIDField()),
		registryOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *GetRegistryTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIGet(ctx, resourcePath("registries", input.String("registry_id")), nil)
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// CreateRegistryTool adds a container registry
type CreateRegistryTool struct{ Base }

// NewCreateRegistryTool creates a new CreateRegistryTool instance
func NewCreateRegistryTool(backend Backend) *CreateRegistryTool {
	return &CreateRegistryTool{NewBase(backend,
		"create_registry",
		"Add a container registry",
		schema.Object(
			schema.NonEmptyString("name", "Registry name"),
			schema.URL("url", "Registry URL"),
			schema.String("username", "Registry user").Optional(),
			schema.String("password", "Registry password or token").Optional(),
		),
		createdOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *CreateRegistryTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIPost(ctx, "/registries", input.Pick("name", "url", "username", "password"))
	if err != nil {
		return Result{}, err
	}
	return CreatedResult("registry", resp), nil
}

// UpdateRegistryTool changes registry settings
type UpdateRegistryTool struct{ Base }

// NewUpdateRegistryTool creates a new UpdateRegistryTool instance
func NewUpdateRegistryTool(backend Backend) *UpdateRegistryTool {
	return &UpdateRegistryTool{NewBase(backend,
		"update_registry",
		"Update the settings of a container registry",
		schema.Object(
			registryIDField(),
			schema.NonEmptyString("name", "Registry name").Optional(),
			schema.URL("url", "Registry URL").Optional(),
			schema.String("username", "Registry user").Optional(),
			schema.String("password", "Registry password or token").Optional(),
		),
		registryOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *UpdateRegistryTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	if err := requireAnyOf(t.Name(), input, "name", "url", "username", "password"); err != nil {
		return Result{}, err
	}

	resp, err := t.APIPatch(ctx, resourcePath("registries", input.String("registry_id")), input.Except("registry_id"))
	if err != nil {
		return Result{}, err
	}
	return ResponseResult(resp), nil
}

// DeleteRegistryTool removes a container registry
type DeleteRegistryTool struct{ Base }

// NewDeleteRegistryTool creates a new DeleteRegistryTool instance
func NewDeleteRegistryTool(backend Backend) *DeleteRegistryTool {
	return &DeleteRegistryTool{NewBase(backend,
		"delete_registry",
		"Delete a container registry",
		schema.Object(registryIDField()),
		messageOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *DeleteRegistryTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIDelete(ctx, resourcePath("registries", input.String("registry_id")), nil)
	if err != nil {
		return Result{}, err
	}
	return DeletedResult("registry", resp), nil
}

// TestRegistryTool checks the stored credentials against the registry
type TestRegistryTool struct{ Base }

// NewTestRegistryTool creates a new TestRegistryTool instance
func NewTestRegistryTool(backend Backend) *TestRegistryTool {
	return &TestRegistryTool{NewBase(backend,
		"test_registry",
		"Test the connection and credentials of a container registry",
		schema.Object(registryIDField()),
		messageOutput,
	)}
}

// Execute runs the tool with validated arguments
func (t *TestRegistryTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	resp, err := t.APIPost(ctx, resourcePath("registries", input.String("registry_id"), "test"), nil)
	if err != nil {
		return Result{}, err
	}
	return ActionResult("Registry connection succeeded", resp), nil
}
