package tools

import (
	"context"
	"net/url"
	"sync"

	"mcp-deployment-service/pkg/api"
	"mcp-deployment-service/pkg/schema"
)

// backendCall records one request made through fakeBackend
type backendCall struct {
	Method string
	Path   string
	Query  url.Values
	Body   interface{}
}

// fakeBackend answers every request with the same canned response
type fakeBackend struct {
	mu    sync.Mutex
	calls []backendCall
	resp  *api.Response
	err   error
}

func (f *fakeBackend) record(method, path string, query url.Values, body interface{}) (*api.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, backendCall{Method: method, Path: path, Query: query, Body: body})
	if f.err != nil {
		return nil, f.err
	}
	if f.resp == nil {
		return &api.Response{Status: 200}, nil
	}
	return f.resp, nil
}

func (f *fakeBackend) Get(_ context.Context, path string, query url.Values) (*api.Response, error) {
	return f.record("GET", path, query, nil)
}

func (f *fakeBackend) Post(_ context.Context, path string, body interface{}) (*api.Response, error) {
	return f.record("POST", path, nil, body)
}

func (f *fakeBackend) Patch(_ context.Context, path string, body interface{}) (*api.Response, error) {
	return f.record("PATCH", path, nil, body)
}

func (f *fakeBackend) Delete(_ context.Context, path string, query url.Values) (*api.Response, error) {
	return f.record("DELETE", path, query, nil)
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) lastCall() backendCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

// mockTool is a configurable Tool for registry tests
type mockTool struct {
	name        string
	description string
	input       schema.Schema
	output      schema.Schema
	executeFunc func(ctx context.Context, input schema.Values) (Result, error)
}

func (m *mockTool) Name() string                { return m.name }
func (m *mockTool) Description() string         { return m.description }
func (m *mockTool) InputSchema() schema.Schema  { return m.input }
func (m *mockTool) OutputSchema() schema.Schema { return m.output }

func (m *mockTool) Execute(ctx context.Context, input schema.Values) (Result, error) {
	if m.executeFunc != nil {
		return m.executeFunc(ctx, input)
	}
	return JSONResult(map[string]interface{}{"result": "success"}), nil
}

func newMockTool(name string) *mockTool {
	return &mockTool{
		name:        name,
		description: "A test tool",
		input:       schema.Object(schema.NonEmptyString("param1", "Parameter").Optional()),
		output:      schema.Any(),
	}
}

// sampleArguments builds arguments satisfying every field of s
func sampleArguments(s schema.Schema) map[string]interface{} {
	args := make(map[string]interface{}, len(s.Fields))
	for _, f := range s.Fields {
		args[f.Name] = sampleValue(f)
	}
	return args
}

func sampleValue(f schema.Field) interface{} {
	if len(f.Enum) > 0 {
		return f.Enum[0]
	}
	switch f.Type {
	case schema.TypeInteger:
		if f.Min != nil && *f.Min > 0 {
			return float64(*f.Min)
		}
		return float64(1)
	case schema.TypeNumber:
		return 1.5
	case schema.TypeBoolean:
		return true
	case schema.TypeArray:
		return []interface{}{"a"}
	case schema.TypeObject:
		return map[string]interface{}{}
	}
	switch f.Format {
	case schema.FormatUUID:
		return "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b"
	case schema.FormatIPv4:
		return "10.0.0.1"
	case schema.FormatURI:
		return "https://registry.example.com"
	}
	return "value"
}
