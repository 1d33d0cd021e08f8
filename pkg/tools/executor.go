// Package tools provides the tool contract, the concrete deployment tools and
// the registry that validates and dispatches invocations.
//
// Execution guarantees:
// - Arguments are validated before a tool runs, so invalid input never reaches the backend
// - Argument values are redacted and truncated before they are logged
// - In strict mode every result is checked against the tool's output schema
//
// Backend errors pass through unchanged so the protocol layer can report
// the HTTP status and message to the caller.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mcp-deployment-service/pkg/errors"
	"mcp-deployment-service/pkg/logging"
	"mcp-deployment-service/pkg/schema"
)

// ToolExecutor validates arguments, runs a tool and optionally checks its output
type ToolExecutor struct {
	logger       *logging.StructuredLogger
	strictOutput bool
}

// NewToolExecutor creates a new ToolExecutor
func NewToolExecutor(logger *logging.StructuredLogger) *ToolExecutor {
	return &ToolExecutor{logger: logger}
}

// SetStrictOutput enables output schema checking
func (te *ToolExecutor) SetStrictOutput(strict bool) {
	te.strictOutput = strict
}

// Execute validates arguments and executes a tool
func (te *ToolExecutor) Execute(ctx context.Context, tool Tool, arguments map[string]interface{}) (Result, error) {
	logger := te.logger.WithContext("tool", tool.Name())

	input, err := te.ValidateArguments(tool, arguments)
	if err != nil {
		logger.WithError(err).Warn("Tool argument validation failed")
		return Result{}, err
	}

	// Log execution (with sanitized arguments)
	for k, v := range te.sanitizeArguments(input) {
		logger = logger.WithContext(fmt.Sprintf("arg_%s", k), v)
	}
	logger.Debug("Executing tool")

	result, err := tool.Execute(ctx, input)
	if err != nil {
		return Result{}, err
	}

	if te.strictOutput {
		if err := te.CheckOutput(tool, result); err != nil {
			te.logger.WithContext("tool", tool.Name()).
				WithError(err).
				Error("Tool output violated its schema")
			return Result{}, err
		}
	}

	return result, nil
}

// ValidateArguments applies the tool's input schema to raw arguments
func (te *ToolExecutor) ValidateArguments(tool Tool, arguments map[string]interface{}) (schema.Values, error) {
	if arguments == nil {
		arguments = map[string]interface{}{}
	}

	input, err := tool.InputSchema().Validate(arguments)
	if err != nil {
		if validationErr, ok := err.(*errors.ValidationError); ok {
			return nil, validationErr.WithTool(tool.Name())
		}
		return nil, err
	}
	return input, nil
}

// CheckOutput decodes the result text and verifies it against the output
// schema. Text that is not JSON is checked as a plain string.
func (te *ToolExecutor) CheckOutput(tool Tool, result Result) error {
	var violations []errors.FieldViolation

	if len(result.Content) == 0 {
		violations = append(violations, errors.FieldViolation{Field: "content", Reason: "must contain at least one item"})
	}
	for i, c := range result.Content {
		if c.Type != ContentTypeText {
			violations = append(violations, errors.FieldViolation{
				Field:  fmt.Sprintf("content[%d].type", i),
				Reason: fmt.Sprintf("must be %q", ContentTypeText),
			})
		}
	}
	if len(violations) == 0 {
		violations = tool.OutputSchema().Check(decodeText(result.Text()))
	}

	if len(violations) > 0 {
		return &errors.OutputContractError{Tool: tool.Name(), Violations: violations}
	}
	return nil
}

func decodeText(text string) interface{} {
	decoder := json.NewDecoder(strings.NewReader(text))
	decoder.UseNumber()

	var value interface{}
	if err := decoder.Decode(&value); err != nil || decoder.More() {
		return text
	}
	return value
}

// sanitizeArguments prepares arguments for logging: secrets are redacted
// and long strings are truncated.
func (te *ToolExecutor) sanitizeArguments(arguments map[string]interface{}) map[string]interface{} {
	const maxLogLength = 100

	sanitized := logging.SanitizeLogData(arguments)
	for key, value := range sanitized {
		if strValue, ok := value.(string); ok && len(strValue) > maxLogLength {
			sanitized[key] = fmt.Sprintf("%s... [%d chars]", strValue[:maxLogLength], len(strValue))
		}
	}
	return sanitized
}
