package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"mcp-deployment-service/pkg/errors"
)

// Helper to create test logger with buffer
func newTestLogger() (*StructuredLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewStructuredLoggerWithWriter("test", &buf, slog.LevelDebug), &buf
}

func TestStructuredLogger(t *testing.T) {
	t.Run("Initialization", func(t *testing.T) {
		logger := NewStructuredLogger("test-component")
		if logger.component != "test-component" || logger.context == nil {
			t.Error("Expected logger to be initialized correctly")
		}
	})

	t.Run("WithContext immutability", func(t *testing.T) {
		logger := NewStructuredLogger("test")
		newLogger := logger.WithContext("tool", "list_servers").WithContext("count", 42)

		if len(logger.context) != 0 || len(newLogger.context) != 2 {
			t.Error("Expected WithContext to return new logger without modifying original")
		}
		if newLogger.context["tool"] != "list_servers" {
			t.Errorf("Expected tool to be 'list_servers', got %v", newLogger.context["tool"])
		}
	})

	t.Run("WithError adds category and status", func(t *testing.T) {
		logger := NewStructuredLogger("test")
		newLogger := logger.WithError(errors.NewHTTPStatusError(404, "Server not found"))

		if newLogger.context["error_category"] != string(errors.ErrorCategoryAPI) {
			t.Errorf("Expected api error category, got %v", newLogger.context["error_category"])
		}
		if newLogger.context["http_status"] != 404 {
			t.Errorf("Expected http_status 404, got %v", newLogger.context["http_status"])
		}
	})

	t.Run("WithError adds structured error fields", func(t *testing.T) {
		logger := NewStructuredLogger("test")
		err := errors.NewMCPError(errors.ErrCodeInvalidRequest, "bad", nil).WithContext("method", "x")

		newLogger := logger.WithError(err)
		if newLogger.context["error_code"] != errors.ErrCodeInvalidRequest {
			t.Errorf("Expected error_code, got %v", newLogger.context["error_code"])
		}
		if newLogger.context["error_ctx_method"] != "x" {
			t.Errorf("Expected error_ctx_method, got %v", newLogger.context["error_ctx_method"])
		}
	})

	t.Run("WithError nil is a no-op", func(t *testing.T) {
		logger := NewStructuredLogger("test")
		if logger.WithError(nil) != logger {
			t.Error("Expected WithError(nil) to return the same logger")
		}
	})

	t.Run("Log levels", func(t *testing.T) {
		logger, buf := newTestLogger()

		logger.Debug("debug message")
		logger.Info("info message")
		logger.Warn("warn message")
		logger.Error("error message")

		output := buf.String()
		for _, want := range []string{"debug message", "info message", "warn message", "error message"} {
			if !strings.Contains(output, want) {
				t.Errorf("Expected %q in output", want)
			}
		}
	})

	t.Run("Level filtering", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLoggerWithWriter("test", &buf, slog.LevelWarn)

		logger.Info("hidden")
		logger.Warn("shown")

		if strings.Contains(buf.String(), "hidden") {
			t.Error("Expected info message to be filtered at WARN level")
		}
		if !strings.Contains(buf.String(), "shown") {
			t.Error("Expected warn message in output")
		}
	})

	t.Run("Context in output", func(t *testing.T) {
		logger, buf := newTestLogger()
		logger.WithContext("request_id", 123).
			WithContext("tool", "create_project").
			Info("Executing tool")

		var logEntry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
			t.Fatalf("Failed to parse log output: %v", err)
		}

		if logEntry["request_id"] != float64(123) {
			t.Error("Expected request_id in log output")
		}
		if logEntry["tool"] != "create_project" {
			t.Error("Expected tool in log output")
		}
		if logEntry["component"] != "test" {
			t.Error("Expected component in log output")
		}
		if logEntry["message"] != "Executing tool" {
			t.Error("Expected message key in log output")
		}
		if _, ok := logEntry["timestamp"]; !ok {
			t.Error("Expected timestamp key in log output")
		}
	})

	t.Run("Sensitive data redaction", func(t *testing.T) {
		logger, buf := newTestLogger()
		logger.WithContext("password", "secret123").
			WithContext("token", "abc123xyz").
			Info("Login attempt")

		output := buf.String()
		if strings.Contains(output, "secret123") || strings.Contains(output, "abc123xyz") {
			t.Error("Expected sensitive values to be redacted")
		}
		if !strings.Contains(output, "[REDACTED]") {
			t.Error("Expected [REDACTED] in output")
		}
	})

	t.Run("Backend request logging", func(t *testing.T) {
		logger, buf := newTestLogger()
		logger.LogBackendRequest("GET", "/servers", 200, 15*time.Millisecond, nil)

		var logEntry map[string]any
		if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
			t.Fatalf("Failed to parse log output: %v", err)
		}
		if logEntry["http_path"] != "/servers" || logEntry["http_status"] != float64(200) {
			t.Errorf("Unexpected log entry %v", logEntry)
		}
	})
}

func TestSanitization(t *testing.T) {
	t.Run("Sensitive keys", func(t *testing.T) {
		tests := []struct {
			key      string
			value    string
			expected string
		}{
			{"password", "secret", "[REDACTED]"},
			{"api_token", "xyz123", "[REDACTED]"},
			{"private_key", "-----BEGIN", "[REDACTED]"},
			{"username", "john", "john"},
			{"arg_name", "demo", "demo"},
		}

		for _, tt := range tests {
			result := sanitizeValue(tt.key, tt.value)
			if result != tt.expected {
				t.Errorf("sanitizeValue(%q, %q) = %v, want %v", tt.key, tt.value, result, tt.expected)
			}
		}
	})

	t.Run("Long alphanumeric strings", func(t *testing.T) {
		result := sanitizeValue("data", strings.Repeat("a", 40))
		if !strings.Contains(result.(string), "[MASKED:") {
			t.Error("Expected long alphanumeric string to be masked")
		}
	})

	t.Run("UUIDs are kept", func(t *testing.T) {
		id := "0b0e6c7d-4b9b-4f6f-9b8a-1d2c3e4f5a6b"
		if sanitizeValue("uuid", id) != id {
			t.Error("Expected UUID to pass through unmasked")
		}
	})

	t.Run("SanitizeLogData", func(t *testing.T) {
		out := SanitizeLogData(map[string]interface{}{"password": "x", "name": "demo"})
		if out["password"] != "[REDACTED]" || out["name"] != "demo" {
			t.Errorf("Unexpected sanitized data %v", out)
		}
	})
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"INFO":    slog.LevelInfo,
		"invalid": slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}
