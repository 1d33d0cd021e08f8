package tools

import (
	"mcp-deployment-service/pkg/errors"
	"mcp-deployment-service/pkg/schema"
)

// Output shapes shared by the concrete tools. Resource objects are open
// because the backend adds fields over time; only the keys tools rely on
// are typed.
var (
	resourceOutput = schema.OpenObject(
		schema.String("uuid", "Resource UUID").Optional(),
		schema.String("name", "Resource name").Optional(),
		schema.String("description", "Resource description").Optional(),
	)

	resourceListOutput = schema.Array(resourceOutput)

	messageOutput = schema.OpenObject(
		schema.Boolean("success", "Whether the operation succeeded").Optional(),
		schema.String("message", "Outcome reported by the backend"),
	)

	createdOutput = schema.OpenObject(
		schema.Boolean("success", "Always true for a created resource"),
		schema.String("message", "Confirmation message"),
	)
)

// uuidInput is the input of tools addressing one resource by UUID
func uuidInput(resource string) schema.Schema {
	return schema.Object(schema.UUID("uuid", resource+" UUID"))
}

// requireAnyOf fails with a validation error unless one of names is present
func requireAnyOf(tool string, input schema.Values, names ...string) error {
	for _, name := range names {
		if input.Has(name) {
			return nil
		}
	}
	violations := make([]errors.FieldViolation, 0, len(names))
	for _, name := range names {
		violations = append(violations, errors.FieldViolation{
			Field:  name,
			Reason: "at least one of these fields is required",
		})
	}
	return errors.NewValidationError(violations...).WithTool(tool)
}
