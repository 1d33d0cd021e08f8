package server

import (
	"mcp-deployment-service/internal/models"
	"mcp-deployment-service/pkg/errors"
)

// nullIDError is an error response whose request id could not be read.
// JSON-RPC requires "id": null here, which MCPMessage would omit.
type nullIDError struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      interface{}      `json:"id"`
	Error   *models.MCPError `json:"error"`
}

func newNullIDError(code int, message string) *nullIDError {
	return &nullIDError{
		JSONRPC: "2.0",
		Error: &models.MCPError{
			Code:    code,
			Message: message,
		},
	}
}

func newNullIDStructuredError(structuredErr *errors.StructuredError) *nullIDError {
	return &nullIDError{JSONRPC: "2.0", Error: structuredErr.ToMCPError()}
}

// createErrorResponse creates an MCP error response
func (s *MCPServer) createErrorResponse(id interface{}, code int, message string) *models.MCPMessage {
	return &models.MCPMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error: &models.MCPError{
			Code:    code,
			Message: message,
		},
	}
}

// createStructuredErrorResponse creates an MCP error response from a structured error
func (s *MCPServer) createStructuredErrorResponse(id interface{}, structuredErr *errors.StructuredError) *models.MCPMessage {
	return &models.MCPMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   structuredErr.ToMCPError(),
	}
}

// createToolErrorResponse maps a tool framework error onto a JSON-RPC error
func (s *MCPServer) createToolErrorResponse(id interface{}, err error) *models.MCPMessage {
	return &models.MCPMessage{
		JSONRPC: "2.0",
		ID:      id,
		Error:   errors.ToMCPError(err),
	}
}
