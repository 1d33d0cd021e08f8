package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestMCPMessage_IsNotification(t *testing.T) {
	tests := []struct {
		name    string
		message MCPMessage
		want    bool
	}{
		{"request with string id", MCPMessage{JSONRPC: "2.0", ID: "1", Method: "tools/list"}, false},
		{"request with numeric id", MCPMessage{JSONRPC: "2.0", ID: float64(0), Method: "ping"}, false},
		{"notification", MCPMessage{JSONRPC: "2.0", Method: "notifications/initialized"}, true},
		{"response without method", MCPMessage{JSONRPC: "2.0"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.message.IsNotification(); got != tt.want {
				t.Errorf("IsNotification() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMCPToolsCallResult_IsErrorOmittedOnSuccess(t *testing.T) {
	result := MCPToolsCallResult{
		Content: []MCPToolContent{{Type: "text", Text: "ok"}},
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Failed to marshal result: %v", err)
	}

	if strings.Contains(string(data), "isError") {
		t.Errorf("Expected isError to be omitted for successful results, got %s", data)
	}

	result.IsError = true
	data, err = json.Marshal(result)
	if err != nil {
		t.Fatalf("Failed to marshal result: %v", err)
	}
	if !strings.Contains(string(data), `"isError":true`) {
		t.Errorf("Expected isError flag in %s", data)
	}
}

func TestMCPTool_OutputSchemaOptional(t *testing.T) {
	tool := MCPTool{
		Name:        "list_servers",
		InputSchema: map[string]interface{}{"type": "object"},
	}

	data, err := json.Marshal(tool)
	if err != nil {
		t.Fatalf("Failed to marshal tool: %v", err)
	}

	if strings.Contains(string(data), "outputSchema") {
		t.Errorf("Expected outputSchema to be omitted when empty, got %s", data)
	}
	if !strings.Contains(string(data), `"inputSchema":{"type":"object"}`) {
		t.Errorf("Expected inputSchema in %s", data)
	}
}

func TestMCPToolsCallParams_DecodesArguments(t *testing.T) {
	raw := `{"name":"create_server","arguments":{"name":"edge","port":2222}}`

	var params MCPToolsCallParams
	if err := json.Unmarshal([]byte(raw), &params); err != nil {
		t.Fatalf("Failed to unmarshal params: %v", err)
	}

	if params.Name != "create_server" {
		t.Errorf("Expected name create_server, got %s", params.Name)
	}
	if params.Arguments["port"] != float64(2222) {
		t.Errorf("Expected port to decode as float64 2222, got %#v", params.Arguments["port"])
	}
}
