package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"mcp-deployment-service/pkg/errors"
)

// LogLevel represents the severity level of a log entry
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// ParseLevel converts a level name to a slog level. Unknown names map to INFO.
func ParseLevel(level string) slog.Level {
	switch LogLevel(strings.ToUpper(strings.TrimSpace(level))) {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogContext represents contextual information for log entries
type LogContext map[string]interface{}

// StructuredLogger provides structured logging capabilities
type StructuredLogger struct {
	logger    *slog.Logger
	component string
	context   LogContext
}

// NewStructuredLogger creates a new structured logger writing JSON to stderr.
// Stdout is reserved for the MCP protocol stream.
func NewStructuredLogger(component string) *StructuredLogger {
	return NewStructuredLoggerWithWriter(component, os.Stderr, slog.LevelInfo)
}

// NewStructuredLoggerWithWriter creates a structured logger bound to the given writer and level
func NewStructuredLoggerWithWriter(component string, w io.Writer, level slog.Leveler) *StructuredLogger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.TimeKey:
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano)),
				}
			case slog.MessageKey:
				return slog.Attr{Key: "message", Value: a.Value}
			}
			return a
		},
	}

	return &StructuredLogger{
		logger:    slog.New(slog.NewJSONHandler(w, opts)),
		component: component,
		context:   make(LogContext),
	}
}

// NewNopLogger returns a logger that discards everything
func NewNopLogger() *StructuredLogger {
	return NewStructuredLoggerWithWriter("nop", io.Discard, slog.LevelError+4)
}

// WithContext adds context to the logger (returns a new logger instance)
func (sl *StructuredLogger) WithContext(key string, value interface{}) *StructuredLogger {
	newLogger := &StructuredLogger{
		logger:    sl.logger,
		component: sl.component,
		context:   make(LogContext, len(sl.context)+1),
	}

	for k, v := range sl.context {
		newLogger.context[k] = v
	}

	newLogger.context[key] = value
	return newLogger
}

// WithFields adds several context entries at once
func (sl *StructuredLogger) WithFields(fields map[string]interface{}) *StructuredLogger {
	newLogger := sl
	for k, v := range fields {
		newLogger = newLogger.WithContext(k, v)
	}
	return newLogger
}

// WithError adds error information to the logger context
func (sl *StructuredLogger) WithError(err error) *StructuredLogger {
	if err == nil {
		return sl
	}

	newLogger := sl.WithContext("error", err.Error()).
		WithContext("error_category", string(errors.CategoryOf(err)))

	if apiErr, ok := err.(*errors.APIError); ok {
		if status, hasStatus := apiErr.StatusCode(); hasStatus {
			newLogger = newLogger.WithContext("http_status", status)
		}
	}

	if structuredErr, ok := err.(*errors.StructuredError); ok {
		newLogger = newLogger.
			WithContext("error_code", structuredErr.Code).
			WithContext("error_severity", structuredErr.Severity).
			WithContext("error_recoverable", structuredErr.IsRecoverable())

		for k, v := range structuredErr.Context {
			newLogger = newLogger.WithContext(fmt.Sprintf("error_ctx_%s", k), v)
		}
	}

	return newLogger
}

// buildLogAttributes creates slog attributes from context, in stable key order
func (sl *StructuredLogger) buildLogAttributes() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("component", sl.component),
	}

	keys := make([]string, 0, len(sl.context))
	for key := range sl.context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		attrs = append(attrs, slog.Any(key, sanitizeValue(key, sl.context[key])))
	}

	return attrs
}

func (sl *StructuredLogger) log(level slog.Level, message string) {
	ctx := context.Background()
	if !sl.logger.Enabled(ctx, level) {
		return
	}
	sl.logger.LogAttrs(ctx, level, message, sl.buildLogAttributes()...)
}

// Debug logs a debug message
func (sl *StructuredLogger) Debug(message string) {
	sl.log(slog.LevelDebug, message)
}

// Info logs an info message
func (sl *StructuredLogger) Info(message string) {
	sl.log(slog.LevelInfo, message)
}

// Warn logs a warning message
func (sl *StructuredLogger) Warn(message string) {
	sl.log(slog.LevelWarn, message)
}

// Error logs an error message
func (sl *StructuredLogger) Error(message string) {
	sl.log(slog.LevelError, message)
}

// LogMCPMessage logs an MCP protocol message with timing information
func (sl *StructuredLogger) LogMCPMessage(method string, requestID interface{}, duration time.Duration, success bool) {
	logger := sl.WithContext("mcp_method", method).
		WithContext("request_id", requestID).
		WithContext("duration_ms", duration.Milliseconds()).
		WithContext("success", success)

	if success {
		logger.Info("MCP message processed successfully")
	} else {
		logger.Warn("MCP message processing failed")
	}
}

// LogStartup logs application startup events
func (sl *StructuredLogger) LogStartup(event string, details map[string]interface{}) {
	sl.WithContext("startup_event", event).WithFields(details).Info("Application startup event")
}

// LogShutdown logs application shutdown events
func (sl *StructuredLogger) LogShutdown(event string, details map[string]interface{}) {
	sl.WithContext("shutdown_event", event).WithFields(details).Info("Application shutdown event")
}

// LogBackendRequest logs one outbound call to the deployment API
func (sl *StructuredLogger) LogBackendRequest(method, path string, status int, duration time.Duration, err error) {
	logger := sl.WithContext("http_method", method).
		WithContext("http_path", path).
		WithContext("duration_ms", duration.Milliseconds())
	if status > 0 {
		logger = logger.WithContext("http_status", status)
	}

	if err != nil {
		logger.WithError(err).Debug("Backend request failed")
		return
	}
	logger.Debug("Backend request completed")
}

// LogFileSystemEvent logs file system monitoring events
func (sl *StructuredLogger) LogFileSystemEvent(eventType string, path string, details map[string]interface{}) {
	sl.WithContext("fs_event_type", eventType).
		WithContext("fs_path", path).
		WithFields(details).
		Info("File system event detected")
}

// SanitizeLogData removes or masks sensitive information from log data
func SanitizeLogData(data map[string]interface{}) map[string]interface{} {
	sanitized := make(map[string]interface{}, len(data))
	for k, v := range data {
		sanitized[k] = sanitizeValue(k, v)
	}
	return sanitized
}

var sensitiveKeys = []string{
	"password", "token", "secret", "key", "auth", "credential",
	"private", "confidential", "sensitive",
}

// sanitizeValue masks a single context value based on its key and content
func sanitizeValue(key string, value interface{}) interface{} {
	keyLower := strings.ToLower(key)
	for _, sensitiveKey := range sensitiveKeys {
		if strings.Contains(keyLower, sensitiveKey) {
			return "[REDACTED]"
		}
	}

	if str, ok := value.(string); ok {
		return sanitizeStringValue(str)
	}
	return value
}

// sanitizeStringValue masks strings that look like tokens or keys
func sanitizeStringValue(value string) interface{} {
	if len(value) > 20 && isAlphanumeric(value) {
		return fmt.Sprintf("[MASKED:%d_chars]", len(value))
	}
	return value
}

// isAlphanumeric checks if a string contains only alphanumeric characters
func isAlphanumeric(s string) bool {
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
			return false
		}
	}
	return true
}
