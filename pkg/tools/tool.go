package tools

import (
	"context"
	"net/url"

	"mcp-deployment-service/pkg/api"
	"mcp-deployment-service/pkg/schema"
)

// Tool represents one backend operation exposed via MCP
type Tool interface {
	// Name returns the unique identifier for the tool
	Name() string

	// Description returns a human-readable description
	Description() string

	// InputSchema returns the constraints applied to caller arguments
	InputSchema() schema.Schema

	// OutputSchema returns the shape the tool promises to produce
	OutputSchema() schema.Schema

	// Execute runs the tool with validated arguments
	Execute(ctx context.Context, input schema.Values) (Result, error)
}

// Backend is the API client a tool calls. *api.Client implements it.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values) (*api.Response, error)
	Post(ctx context.Context, path string, body interface{}) (*api.Response, error)
	Patch(ctx context.Context, path string, body interface{}) (*api.Response, error)
	Delete(ctx context.Context, path string, query url.Values) (*api.Response, error)
}

var _ Backend = (*api.Client)(nil)

// ToolDefinition represents metadata about a tool
type ToolDefinition struct {
	Name         string
	Description  string
	InputSchema  schema.Schema
	OutputSchema schema.Schema
}

// NewToolDefinition creates a ToolDefinition from a Tool
func NewToolDefinition(tool Tool) ToolDefinition {
	return ToolDefinition{
		Name:         tool.Name(),
		Description:  tool.Description(),
		InputSchema:  tool.InputSchema(),
		OutputSchema: tool.OutputSchema(),
	}
}

// ContentTypeText is the only content type tools produce
const ContentTypeText = "text"

// Content is one item of a tool result
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is what a tool returns to its caller
type Result struct {
	Content []Content `json:"content"`
}

// Text joins the text of all content items
func (r Result) Text() string {
	if len(r.Content) == 1 {
		return r.Content[0].Text
	}
	var text string
	for i, c := range r.Content {
		if i > 0 {
			text += "\n"
		}
		text += c.Text
	}
	return text
}
