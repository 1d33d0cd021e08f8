package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"mcp-deployment-service/pkg/api"
	"mcp-deployment-service/pkg/schema"
)

// Base carries the descriptor of a tool and the helpers shared by every
// concrete tool. Tools embed it and implement Execute.
type Base struct {
	name         string
	description  string
	inputSchema  schema.Schema
	outputSchema schema.Schema
	backend      Backend
}

// NewBase creates the shared part of a tool bound to backend
func NewBase(backend Backend, name, description string, input, output schema.Schema) Base {
	return Base{
		name:         name,
		description:  description,
		inputSchema:  input,
		outputSchema: output,
		backend:      backend,
	}
}

// Name returns the unique identifier for the tool
func (b Base) Name() string {
	return b.name
}

// Description returns a human-readable description
func (b Base) Description() string {
	return b.description
}

// InputSchema returns the constraints applied to caller arguments
func (b Base) InputSchema() schema.Schema {
	return b.inputSchema
}

// OutputSchema returns the shape the tool promises to produce
func (b Base) OutputSchema() schema.Schema {
	return b.outputSchema
}

// APIGet calls the backend. Errors are returned unchanged.
func (b Base) APIGet(ctx context.Context, path string, query url.Values) (*api.Response, error) {
	return b.backend.Get(ctx, path, query)
}

// APIPost calls the backend. Errors are returned unchanged.
func (b Base) APIPost(ctx context.Context, path string, body interface{}) (*api.Response, error) {
	return b.backend.Post(ctx, path, body)
}

// APIPatch calls the backend. Errors are returned unchanged.
func (b Base) APIPatch(ctx context.Context, path string, body interface{}) (*api.Response, error) {
	return b.backend.Patch(ctx, path, body)
}

// APIDelete calls the backend. Errors are returned unchanged.
func (b Base) APIDelete(ctx context.Context, path string, query url.Values) (*api.Response, error) {
	return b.backend.Delete(ctx, path, query)
}

// FormatResponse renders data as the text payload of a result. Strings are
// returned verbatim, everything else is indented JSON.
func (b Base) FormatResponse(data interface{}) string {
	return FormatResponse(data)
}

// FormatResponse is the package-level form of Base.FormatResponse
func FormatResponse(data interface{}) string {
	if s, ok := data.(string); ok {
		return s
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(out)
}

// TextResult wraps text in a single-item result
func TextResult(text string) Result {
	return Result{Content: []Content{{Type: ContentTypeText, Text: text}}}
}

// JSONResult formats data into a single-item result
func JSONResult(data interface{}) Result {
	return TextResult(FormatResponse(data))
}

// ResponseResult formats the body of a backend response
func ResponseResult(resp *api.Response) Result {
	if resp == nil {
		return JSONResult(nil)
	}
	return JSONResult(resp.Data)
}

// ListResult formats the body of a list response. An empty body is
// rendered as an empty list.
func ListResult(resp *api.Response) Result {
	if resp == nil || resp.Data == nil {
		return JSONResult([]interface{}{})
	}
	if text, ok := resp.Data.(string); ok && strings.TrimSpace(text) == "" {
		return JSONResult([]interface{}{})
	}
	return JSONResult(resp.Data)
}

// DeletedResult reports a completed delete. When the backend sends no body
// the result is {"success": true, "message": "<Resource> deleted successfully"}.
func DeletedResult(resource string, resp *api.Response) Result {
	return messageResult(resp, fmt.Sprintf("%s deleted successfully", capitalize(resource)))
}

// ActionResult reports a state change such as start or stop
func ActionResult(message string, resp *api.Response) Result {
	return messageResult(resp, message)
}

// CreatedResult reports a created resource. The backend fields, usually the
// new identifier, are merged next to the success message.
func CreatedResult(resource string, resp *api.Response) Result {
	payload := map[string]interface{}{
		"success": true,
		"message": fmt.Sprintf("%s created successfully", capitalize(resource)),
	}
	if resp != nil && resp.Data != nil {
		if fields, ok := resp.Data.(map[string]interface{}); ok {
			for k, v := range fields {
				if k == "success" || k == "message" {
					continue
				}
				payload[k] = v
			}
		} else {
			payload["data"] = resp.Data
		}
	}
	return JSONResult(payload)
}

func messageResult(resp *api.Response, message string) Result {
	if resp == nil || resp.Data == nil {
		return JSONResult(map[string]interface{}{
			"success": true,
			"message": message,
		})
	}
	if text, ok := resp.Data.(string); ok && strings.TrimSpace(text) == "" {
		return JSONResult(map[string]interface{}{
			"success": true,
			"message": message,
		})
	}
	return JSONResult(resp.Data)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// resourcePath builds /collection/id with the id path-escaped
func resourcePath(collection, id string, suffix ...string) string {
	parts := append([]string{collection, url.PathEscape(id)}, suffix...)
	return "/" + strings.Join(parts, "/")
}
