package errors

import (
	stderrors "errors"
	"fmt"
	"strings"

	"mcp-deployment-service/internal/models"
)

// FieldViolation describes one offending field and why it was rejected.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (v FieldViolation) String() string {
	if v.Field == "" {
		return v.Reason
	}
	return fmt.Sprintf("%s: %s", v.Field, v.Reason)
}

func joinViolations(violations []FieldViolation) string {
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}

// ValidationError is returned when tool input fails its schema.
// It never reaches the backend.
type ValidationError struct {
	Tool       string           `json:"tool,omitempty"`
	Violations []FieldViolation `json:"violations"`
}

// NewValidationError creates a validation error from field violations
func NewValidationError(violations ...FieldViolation) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Tool, joinViolations(e.Violations))
	}
	return "validation failed: " + joinViolations(e.Violations)
}

// WithTool records which tool rejected the input
func (e *ValidationError) WithTool(name string) *ValidationError {
	e.Tool = name
	return e
}

// Fields returns the offending field paths in order
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

// APIError is a backend HTTP or transport failure. HTTPStatus is nil when
// no response was received.
type APIError struct {
	HTTPStatus *int   `json:"http_status"`
	Message    string `json:"message"`
	Method     string `json:"method,omitempty"`
	Path       string `json:"path,omitempty"`
	Cause      error  `json:"-"`
}

// NewHTTPStatusError creates an API error for a non-2xx backend response
func NewHTTPStatusError(status int, message string) *APIError {
	return &APIError{HTTPStatus: &status, Message: message}
}

// NewTransportError creates an API error for a request that never got a response
func NewTransportError(message string, cause error) *APIError {
	return &APIError{Message: message, Cause: cause}
}

func (e *APIError) Error() string {
	if e.HTTPStatus != nil {
		return fmt.Sprintf("api error (status %d): %s", *e.HTTPStatus, e.Message)
	}
	return "api error: " + e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the HTTP status and whether one was received
func (e *APIError) StatusCode() (int, bool) {
	if e.HTTPStatus == nil {
		return 0, false
	}
	return *e.HTTPStatus, true
}

// WithRequest records the request that failed
func (e *APIError) WithRequest(method, path string) *APIError {
	e.Method = method
	e.Path = path
	return e
}

// OutputContractError signals a tool bug: its result does not satisfy its
// declared output schema.
type OutputContractError struct {
	Tool       string
	Violations []FieldViolation
}

func (e *OutputContractError) Error() string {
	return fmt.Sprintf("tool %s produced output violating its contract: %s", e.Tool, joinViolations(e.Violations))
}

// DuplicateNameError is returned when a tool name is registered twice.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("tool %s already registered", e.Name)
}

// UnknownToolError is returned when invoking a name that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("tool not found: %s", e.Name)
}

// ConfigurationError is a startup-fatal configuration problem.
type ConfigurationError struct {
	Option  string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("configuration error: %s: %s", e.Option, e.Message)
	}
	return "configuration error: " + e.Message
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// CategoryOf classifies any error into the taxonomy. Unrecognised errors
// are reported as system errors.
func CategoryOf(err error) ErrorCategory {
	var (
		validationErr *ValidationError
		apiErr        *APIError
		outputErr     *OutputContractError
		duplicateErr  *DuplicateNameError
		unknownErr    *UnknownToolError
		configErr     *ConfigurationError
		structuredErr *StructuredError
	)
	switch {
	case err == nil:
		return ""
	case stderrors.As(err, &validationErr):
		return ErrorCategoryValidation
	case stderrors.As(err, &apiErr):
		return ErrorCategoryAPI
	case stderrors.As(err, &outputErr):
		return ErrorCategoryOutputContract
	case stderrors.As(err, &duplicateErr), stderrors.As(err, &unknownErr):
		return ErrorCategoryRegistry
	case stderrors.As(err, &configErr):
		return ErrorCategoryConfiguration
	case stderrors.As(err, &structuredErr):
		return structuredErr.Category
	default:
		return ErrorCategorySystem
	}
}

// ToMCPError converts a framework error into a JSON-RPC error object.
// API errors are not protocol errors and are reported through the tool
// result instead, see APIErrorPayload.
func ToMCPError(err error) *models.MCPError {
	var (
		validationErr *ValidationError
		unknownErr    *UnknownToolError
		outputErr     *OutputContractError
		structuredErr *StructuredError
	)
	switch {
	case stderrors.As(err, &validationErr):
		return &models.MCPError{
			Code:    models.ErrorCodeInvalidParams,
			Message: validationErr.Error(),
			Data: map[string]interface{}{
				"category":   ErrorCategoryValidation,
				"code":       ErrCodeValidationFailed,
				"tool":       validationErr.Tool,
				"violations": validationErr.Violations,
			},
		}
	case stderrors.As(err, &unknownErr):
		return &models.MCPError{
			Code:    models.ErrorCodeInvalidParams,
			Message: unknownErr.Error(),
			Data: map[string]interface{}{
				"category":  ErrorCategoryRegistry,
				"code":      ErrCodeUnknownTool,
				"tool_name": unknownErr.Name,
			},
		}
	case stderrors.As(err, &outputErr):
		return &models.MCPError{
			Code:    models.ErrorCodeInternalError,
			Message: "internal error: tool output violated its contract",
			Data: map[string]interface{}{
				"category":   ErrorCategoryOutputContract,
				"code":       ErrCodeOutputContractViolation,
				"tool":       outputErr.Tool,
				"violations": outputErr.Violations,
			},
		}
	case stderrors.As(err, &structuredErr):
		return structuredErr.ToMCPError()
	default:
		return NewSystemError(ErrCodeToolExecutionFailed, "Tool execution failed", err).
			WithDetails(err.Error()).
			ToMCPError()
	}
}

// APIErrorPayload is the caller-visible body for a backend failure.
func APIErrorPayload(err *APIError) map[string]interface{} {
	var status interface{}
	if code, ok := err.StatusCode(); ok {
		status = code
	}
	return map[string]interface{}{
		"error": map[string]interface{}{
			"category":    ErrorCategoryAPI,
			"http_status": status,
			"message":     err.Message,
		},
	}
}
