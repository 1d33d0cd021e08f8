package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"mcp-deployment-service/internal/models"
	"mcp-deployment-service/pkg/errors"
	"mcp-deployment-service/pkg/schema"
	"mcp-deployment-service/pkg/tools"
)

// handleToolsList handles the tools/list method
func (s *MCPServer) handleToolsList(message *models.MCPMessage) *models.MCPMessage {
	if s.registry == nil {
		structuredErr := errors.NewSystemError("TOOLS_NOT_INITIALIZED",
			"Tools system not initialized", nil)
		return s.createStructuredErrorResponse(message.ID, structuredErr)
	}

	return &models.MCPMessage{
		JSONRPC: "2.0",
		ID:      message.ID,
		Result: models.MCPToolsListResult{
			Tools: Catalog(s.registry.List()),
		},
	}
}

// Catalog renders tool definitions in their MCP wire form
func Catalog(definitions []tools.ToolDefinition) []models.MCPTool {
	mcpTools := make([]models.MCPTool, 0, len(definitions))
	for _, def := range definitions {
		mcpTools = append(mcpTools, toMCPTool(def))
	}
	return mcpTools
}

// toMCPTool renders a definition for the wire. MCP only accepts object
// output schemas, so text and array outputs are not advertised.
func toMCPTool(def tools.ToolDefinition) models.MCPTool {
	tool := models.MCPTool{
		Name:        def.Name,
		Description: def.Description,
		InputSchema: def.InputSchema.JSONSchema(),
	}
	if def.OutputSchema.Kind == schema.KindObject {
		tool.OutputSchema = def.OutputSchema.JSONSchema()
	}
	return tool
}

// handleToolsCall handles the tools/call method
func (s *MCPServer) handleToolsCall(ctx context.Context, message *models.MCPMessage) *models.MCPMessage {
	if s.registry == nil {
		structuredErr := errors.NewSystemError("TOOLS_NOT_INITIALIZED",
			"Tools system not initialized", nil)
		return s.createStructuredErrorResponse(message.ID, structuredErr)
	}

	var params models.MCPToolsCallParams
	if message.Params != nil {
		if err := decodeParams(message.Params, &params); err != nil {
			return s.createStructuredErrorResponse(message.ID,
				errors.NewInvalidParamsError("Invalid parameters format", err))
		}
	}

	if params.Name == "" {
		return s.createStructuredErrorResponse(message.ID,
			errors.NewInvalidParamsError("Missing required parameter: name", nil))
	}

	startTime := time.Now()
	result, err := s.invokeTool(ctx, params.Name, params.Arguments)
	s.loggingManager.LogToolInvocation(params.Name, time.Since(startTime), err)

	if err != nil {
		return s.handleToolExecutionError(message.ID, params.Name, err)
	}

	return &models.MCPMessage{
		JSONRPC: "2.0",
		ID:      message.ID,
		Result:  toCallResult(result),
	}
}

// invokeTool runs the tool and turns a panic into a system error
func (s *MCPServer) invokeTool(ctx context.Context, name string, arguments map[string]interface{}) (result tools.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithContext("tool", name).
				WithContext("panic", fmt.Sprintf("%v", r)).
				Error("Tool panicked")
			err = errors.NewSystemError(errors.ErrCodeUnexpectedPanic,
				"Tool execution failed unexpectedly", fmt.Errorf("panic: %v", r)).
				WithContext("tool_name", name)
		}
	}()

	return s.registry.Invoke(ctx, name, arguments)
}

// handleToolExecutionError reports backend failures as a tool result with
// isError set and everything else as a JSON-RPC error.
func (s *MCPServer) handleToolExecutionError(id interface{}, toolName string, err error) *models.MCPMessage {
	var apiErr *errors.APIError
	if stderrors.As(err, &apiErr) {
		text, marshalErr := json.MarshalIndent(errors.APIErrorPayload(apiErr), "", "  ")
		if marshalErr != nil {
			structuredErr := errors.NewSystemError(errors.ErrCodeResultSerializationFail,
				"Failed to serialize tool result", marshalErr).
				WithContext("tool_name", toolName)
			return s.createStructuredErrorResponse(id, structuredErr)
		}

		return &models.MCPMessage{
			JSONRPC: "2.0",
			ID:      id,
			Result: models.MCPToolsCallResult{
				Content: []models.MCPToolContent{{Type: tools.ContentTypeText, Text: string(text)}},
				IsError: true,
			},
		}
	}

	return s.createToolErrorResponse(id, err)
}

func toCallResult(result tools.Result) models.MCPToolsCallResult {
	content := make([]models.MCPToolContent, 0, len(result.Content))
	for _, c := range result.Content {
		content = append(content, models.MCPToolContent{Type: c.Type, Text: c.Text})
	}
	return models.MCPToolsCallResult{Content: content}
}
