package schema

import (
	"encoding/json"
	stderrors "errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mcp-deployment-service/pkg/errors"
)

func serverInput() Schema {
	return Object(
		NonEmptyString("name", "Server name"),
		String("description", "Description").Optional(),
		IPv4("ip", "Address"),
		Port("port", "SSH port").WithDefault(22),
		String("user", "SSH user").WithDefault("root"),
		UUID("private_key_uuid", "Key"),
		Boolean("is_build_server", "Build server").Optional(),
	)
}

func violationFields(t *testing.T, err error) []string {
	t.Helper()
	var validationErr *errors.ValidationError
	require.True(t, stderrors.As(err, &validationErr), "expected ValidationError, got %v", err)
	return validationErr.Fields()
}

func TestValidateAppliesDefaultsAndCoerces(t *testing.T) {
	values, err := serverInput().Validate(map[string]interface{}{
		"name":             "web-1",
		"ip":               "10.0.0.5",
		"private_key_uuid": "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b",
		"is_build_server":  "true",
	})
	require.NoError(t, err)

	assert.Equal(t, "web-1", values.String("name"))
	assert.Equal(t, 22, values.Int("port"))
	assert.Equal(t, "root", values.String("user"))
	assert.True(t, values.Bool("is_build_server"))
	assert.False(t, values.Has("description"))
}

func TestValidateIntegralFloat(t *testing.T) {
	s := Object(Port("port", "Port"))

	values, err := s.Validate(map[string]interface{}{"port": float64(2222)})
	require.NoError(t, err)
	assert.Equal(t, 2222, values.Int("port"))

	values, err = s.Validate(map[string]interface{}{"port": "8080"})
	require.NoError(t, err)
	assert.Equal(t, 8080, values.Int("port"))

	_, err = s.Validate(map[string]interface{}{"port": 22.5})
	assert.Equal(t, []string{"port"}, violationFields(t, err))
}

func TestValidateIntegralJSONNumber(t *testing.T) {
	s := Object(Port("port", "Port"), Integer("limit", "Limit").Optional())

	values, err := s.Validate(map[string]interface{}{"port": json.Number("22.0")})
	require.NoError(t, err)
	assert.Equal(t, 22, values.Int("port"))

	values, err = s.Validate(map[string]interface{}{"port": json.Number("2e3")})
	require.NoError(t, err)
	assert.Equal(t, 2000, values.Int("port"))

	_, err = s.Validate(map[string]interface{}{"port": json.Number("22.5")})
	assert.Equal(t, []string{"port"}, violationFields(t, err))

	_, err = s.Validate(map[string]interface{}{"port": 22, "limit": json.Number("1e300")})
	assert.Equal(t, []string{"limit"}, violationFields(t, err))
}

func TestValidateRejectsFloatsBeyondIntRange(t *testing.T) {
	s := Object(Integer("limit", "Limit"))

	for _, v := range []float64{1e19, -1e19, math.MaxFloat64, math.Inf(1), math.NaN()} {
		_, err := s.Validate(map[string]interface{}{"limit": v})
		assert.Equal(t, []string{"limit"}, violationFields(t, err), "value %v", v)
	}

	values, err := s.Validate(map[string]interface{}{"limit": float64(1 << 52)})
	require.NoError(t, err)
	assert.Equal(t, 1<<52, values.Int("limit"))
}

func TestValidateCollectsAllViolations(t *testing.T) {
	_, err := serverInput().Validate(map[string]interface{}{
		"name":             "  ",
		"ip":               "300.1.1.1",
		"port":             70000,
		"private_key_uuid": "not-a-uuid",
	})

	assert.Equal(t, []string{"name", "ip", "port", "private_key_uuid"}, violationFields(t, err))
}

func TestValidateMissingRequired(t *testing.T) {
	_, err := Object(NonEmptyString("name", "Name")).Validate(map[string]interface{}{})

	var validationErr *errors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Len(t, validationErr.Violations, 1)
	assert.Equal(t, "name", validationErr.Violations[0].Field)
	assert.Equal(t, "is required", validationErr.Violations[0].Reason)
}

func TestValidateNullIsAbsent(t *testing.T) {
	values, err := Object(String("user", "User").WithDefault("root")).
		Validate(map[string]interface{}{"user": nil})
	require.NoError(t, err)
	assert.Equal(t, "root", values.String("user"))
}

func TestValidateStripsUnknownKeys(t *testing.T) {
	values, err := Object(String("name", "Name")).Validate(map[string]interface{}{
		"name":  "demo",
		"extra": 1,
	})
	require.NoError(t, err)
	assert.False(t, values.Has("extra"))
}

func TestValidateEnum(t *testing.T) {
	s := Object(Enum("type", "Service type", "redis", "postgresql"))

	_, err := s.Validate(map[string]interface{}{"type": "mysql"})
	assert.Equal(t, []string{"type"}, violationFields(t, err))

	values, err := s.Validate(map[string]interface{}{"type": "redis"})
	require.NoError(t, err)
	assert.Equal(t, "redis", values.String("type"))
}

func TestValidateStringList(t *testing.T) {
	s := Object(StringList("tags", "Tags"))

	values, err := s.Validate(map[string]interface{}{"tags": []interface{}{"a", "b"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, values.Strings("tags"))

	_, err = s.Validate(map[string]interface{}{"tags": []interface{}{"a", 2}})
	assert.Equal(t, []string{"tags[1]"}, violationFields(t, err))
}

func TestValidateStringListFromCommaSeparated(t *testing.T) {
	f := StringList("tags", "Tags")
	f.NonEmpty = true
	s := Object(f)

	values, err := s.Validate(map[string]interface{}{"tags": " a, b,,c "})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, values.Strings("tags"))

	_, err = s.Validate(map[string]interface{}{"tags": " , "})
	assert.Equal(t, []string{"tags"}, violationFields(t, err))

	violations := s.Check(map[string]interface{}{"tags": "a,b"})
	require.Len(t, violations, 1)
	assert.Equal(t, "tags", violations[0].Field)
}

func TestValidateURL(t *testing.T) {
	s := Object(URL("url", "Registry URL"))

	_, err := s.Validate(map[string]interface{}{"url": "https://registry.example.com"})
	assert.NoError(t, err)

	_, err = s.Validate(map[string]interface{}{"url": "registry.example.com"})
	assert.Error(t, err)
}

func TestValidateRejectsNonObjectSchema(t *testing.T) {
	_, err := Array(Any()).Validate(map[string]interface{}{})
	var validationErr *errors.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestCheck(t *testing.T) {
	item := OpenObject(String("uuid", "UUID"), String("name", "Name"))

	t.Run("conforming array", func(t *testing.T) {
		violations := Array(item).Check([]interface{}{
			map[string]interface{}{"uuid": "abc", "name": "x", "extra": true},
		})
		assert.Empty(t, violations)
	})

	t.Run("nested paths", func(t *testing.T) {
		violations := Array(item).Check([]interface{}{
			map[string]interface{}{"uuid": "abc", "name": "x"},
			map[string]interface{}{"uuid": 7},
		})
		require.Len(t, violations, 2)
		assert.Equal(t, "[1].uuid", violations[0].Field)
		assert.Equal(t, "[1].name", violations[1].Field)
	})

	t.Run("closed object rejects extra keys", func(t *testing.T) {
		violations := Object(Boolean("success", ""), String("message", "")).Check(map[string]interface{}{
			"success": true, "message": "ok", "id": 3,
		})
		require.Len(t, violations, 1)
		assert.Equal(t, "id", violations[0].Field)
	})

	t.Run("no string coercion", func(t *testing.T) {
		violations := Object(Boolean("success", "")).Check(map[string]interface{}{"success": "true"})
		assert.Len(t, violations, 1)
	})

	t.Run("text", func(t *testing.T) {
		assert.Empty(t, Text().Check("4.0.0"))
		assert.NotEmpty(t, Text().Check(map[string]interface{}{}))
	})

	t.Run("wrong top-level type", func(t *testing.T) {
		assert.NotEmpty(t, Array(item).Check(map[string]interface{}{}))
	})
}

func TestJSONSchema(t *testing.T) {
	doc := serverInput().JSONSchema()

	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Equal(t, []string{"name", "ip", "private_key_uuid"}, doc["required"])

	props := doc["properties"].(map[string]interface{})
	port := props["port"].(map[string]interface{})
	assert.Equal(t, "integer", port["type"])
	assert.Equal(t, 22, port["default"])
	assert.Equal(t, int64(1), port["minimum"])
	assert.Equal(t, int64(65535), port["maximum"])

	key := props["private_key_uuid"].(map[string]interface{})
	assert.Equal(t, "uuid", key["format"])
	assert.Equal(t, 1, key["minLength"])
}

func TestValuesPick(t *testing.T) {
	values := Values{"name": "demo", "port": 22}

	assert.Equal(t, map[string]interface{}{"name": "demo"}, values.Pick("name", "description"))
	assert.Equal(t, map[string]interface{}{"port": 22}, values.Except("name"))
}
