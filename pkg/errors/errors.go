package errors

import (
	"fmt"
	"time"

	"mcp-deployment-service/internal/models"
)

// ErrorCategory represents different types of errors in the system
type ErrorCategory string

const (
	// Startup configuration errors
	ErrorCategoryConfiguration ErrorCategory = "configuration"
	// Tool input validation errors
	ErrorCategoryValidation ErrorCategory = "validation"
	// Backend HTTP or transport errors
	ErrorCategoryAPI ErrorCategory = "api"
	// Tool registry integrity errors
	ErrorCategoryRegistry ErrorCategory = "registry"
	// A tool produced a result that violates its own output schema
	ErrorCategoryOutputContract ErrorCategory = "output_contract"
	// MCP protocol related errors
	ErrorCategoryMCP ErrorCategory = "mcp"
	// System/internal errors
	ErrorCategorySystem ErrorCategory = "system"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	ErrorSeverityLow      ErrorSeverity = "low"
	ErrorSeverityMedium   ErrorSeverity = "medium"
	ErrorSeverityHigh     ErrorSeverity = "high"
	ErrorSeverityCritical ErrorSeverity = "critical"
)

// StructuredError represents a structured error with additional context
type StructuredError struct {
	Category    ErrorCategory          `json:"category"`
	Severity    ErrorSeverity          `json:"severity"`
	Code        string                 `json:"code"`
	Message     string                 `json:"message"`
	Details     string                 `json:"details,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	Timestamp   time.Time              `json:"timestamp"`
	Recoverable bool                   `json:"recoverable"`
	Cause       error                  `json:"-"` // Original error, not serialized
}

// Error implements the error interface
func (se *StructuredError) Error() string {
	if se.Details != "" {
		return fmt.Sprintf("[%s:%s] %s: %s", se.Category, se.Code, se.Message, se.Details)
	}
	return fmt.Sprintf("[%s:%s] %s", se.Category, se.Code, se.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (se *StructuredError) Unwrap() error {
	return se.Cause
}

// ToMCPError converts a StructuredError to an MCP protocol error
func (se *StructuredError) ToMCPError() *models.MCPError {
	var mcpCode int
	switch se.Category {
	case ErrorCategoryValidation:
		mcpCode = models.ErrorCodeInvalidParams
	case ErrorCategoryRegistry:
		if se.Code == ErrCodeUnknownTool {
			mcpCode = models.ErrorCodeInvalidParams
		} else {
			mcpCode = models.ErrorCodeInternalError
		}
	case ErrorCategoryMCP:
		if se.Code == ErrCodeInvalidParams {
			mcpCode = models.ErrorCodeInvalidParams
		} else {
			mcpCode = models.ErrorCodeInvalidRequest
		}
	default:
		mcpCode = models.ErrorCodeInternalError
	}

	return &models.MCPError{
		Code:    mcpCode,
		Message: se.Message,
		Data: map[string]interface{}{
			"category":  se.Category,
			"code":      se.Code,
			"severity":  se.Severity,
			"timestamp": se.Timestamp,
			"context":   se.Context,
		},
	}
}

// NewStructuredError creates a new structured error
func NewStructuredError(category ErrorCategory, severity ErrorSeverity, code, message string) *StructuredError {
	return &StructuredError{
		Category:    category,
		Severity:    severity,
		Code:        code,
		Message:     message,
		Timestamp:   time.Now(),
		Recoverable: severity != ErrorSeverityCritical,
		Context:     make(map[string]interface{}),
	}
}

// WithDetails adds details to the error
func (se *StructuredError) WithDetails(details string) *StructuredError {
	se.Details = details
	return se
}

// WithContext adds context information to the error
func (se *StructuredError) WithContext(key string, value interface{}) *StructuredError {
	if se.Context == nil {
		se.Context = make(map[string]interface{})
	}
	se.Context[key] = value
	return se
}

// WithCause sets the underlying cause error
func (se *StructuredError) WithCause(err error) *StructuredError {
	se.Cause = err
	return se
}

// IsRecoverable returns whether the error is recoverable
func (se *StructuredError) IsRecoverable() bool {
	return se.Recoverable
}

// NewMCPError creates an MCP protocol related error
func NewMCPError(code, message string, err error) *StructuredError {
	return NewStructuredError(ErrorCategoryMCP, ErrorSeverityMedium, code, message).WithCause(err)
}

// NewInvalidParamsError creates a protocol-level invalid params error,
// used when a request envelope itself is malformed (e.g. tools/call without a name)
func NewInvalidParamsError(message string, err error) *StructuredError {
	return NewStructuredError(ErrorCategoryMCP, ErrorSeverityLow, ErrCodeInvalidParams, message).WithCause(err)
}

// NewSystemError creates a system/internal error
func NewSystemError(code, message string, err error) *StructuredError {
	return NewStructuredError(ErrorCategorySystem, ErrorSeverityCritical, code, message).WithCause(err)
}

// Common error codes
const (
	// MCP protocol error codes
	ErrCodeInvalidRequest = "INVALID_REQUEST"
	ErrCodeMethodNotFound = "METHOD_NOT_FOUND"
	ErrCodeInvalidParams  = "INVALID_PARAMS"
	ErrCodeParseError     = "PARSE_ERROR"

	// Tool framework error codes
	ErrCodeValidationFailed        = "VALIDATION_FAILED"
	ErrCodeUnknownTool             = "UNKNOWN_TOOL"
	ErrCodeDuplicateTool           = "DUPLICATE_TOOL"
	ErrCodeRegistryNotSealed       = "REGISTRY_NOT_SEALED"
	ErrCodeRegistrySealed          = "REGISTRY_SEALED"
	ErrCodeOutputContractViolation = "OUTPUT_CONTRACT_VIOLATION"
	ErrCodeBackendRequestFailed    = "BACKEND_REQUEST_FAILED"

	// System error codes
	ErrCodeInvalidConfiguration    = "INVALID_CONFIGURATION"
	ErrCodeToolExecutionFailed     = "TOOL_EXECUTION_FAILED"
	ErrCodeResultSerializationFail = "TOOL_RESULT_SERIALIZATION_FAILED"
	ErrCodeUnexpectedPanic         = "UNEXPECTED_PANIC"
)
