// Package server implements the MCP JSON-RPC loop that exposes the tool
// registry to an MCP host over newline-delimited stdio.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"sync"
	"time"

	"mcp-deployment-service/internal/models"
	"mcp-deployment-service/pkg/errors"
	"mcp-deployment-service/pkg/logging"
	"mcp-deployment-service/pkg/tools"
)

// MetricsSource supplies extra metrics for server/performance
type MetricsSource func(ctx context.Context) (map[string]interface{}, error)

// MCPServer represents the main MCP server
type MCPServer struct {
	serverInfo      models.MCPServerInfo
	capabilities    models.MCPCapabilities
	initialized     bool
	protocolVersion string

	registry       *tools.Registry
	metrics        MetricsSource
	maxMessageSize int

	// Logging
	loggingManager *logging.LoggingManager
	logger         *logging.StructuredLogger

	// Synchronization
	mu sync.RWMutex
}

// Option configures an MCPServer
type Option func(*MCPServer)

// WithMetricsSource adds a metrics provider to server/performance
func WithMetricsSource(source MetricsSource) Option {
	return func(s *MCPServer) {
		s.metrics = source
	}
}

// WithMaxMessageSize bounds a single input line in bytes
func WithMaxMessageSize(n int) Option {
	return func(s *MCPServer) {
		if n > 0 {
			s.maxMessageSize = n
		}
	}
}

// WithServerInfo overrides the name and version reported to clients
func WithServerInfo(name, version string) Option {
	return func(s *MCPServer) {
		s.serverInfo = models.MCPServerInfo{Name: name, Version: version}
	}
}

// NewMCPServer creates a server over a sealed registry. A nil logging
// manager gets a default one writing to stderr.
func NewMCPServer(registry *tools.Registry, loggingManager *logging.LoggingManager, opts ...Option) *MCPServer {
	if loggingManager == nil {
		loggingManager = logging.NewLoggingManager()
	}

	s := &MCPServer{
		serverInfo: models.MCPServerInfo{
			Name:    ServerName,
			Version: ServerVersion,
		},
		capabilities: models.MCPCapabilities{
			Tools: &models.MCPToolCapabilities{
				ListChanged: false,
			},
		},
		registry:       registry,
		maxMessageSize: maxMessageSize,
		loggingManager: loggingManager,
		logger:         loggingManager.GetLogger("server"),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// inputLine is one line read from the client
type inputLine struct {
	data    []byte
	tooLong bool
}

// Initialized reports whether the client has completed the handshake
func (s *MCPServer) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Serve reads newline-delimited JSON-RPC messages from r and writes
// responses to w until r is exhausted or ctx is cancelled. Requests are
// handled one at a time in arrival order.
func (s *MCPServer) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	startTime := time.Now()
	toolCount := 0
	if s.registry != nil {
		toolCount = s.registry.Len()
	}
	s.loggingManager.LogStartupSequence("server_ready", map[string]interface{}{
		"tools": toolCount,
	}, 0, true)
	s.logger.WithContext("tools", toolCount).Info("MCP deployment service started")

	lines := make(chan inputLine)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		reader := newLineReader(r, s.maxMessageSize)
		for {
			data, err := reader.next()
			if err != nil && !stderrors.Is(err, errLineTooLong) {
				if err != io.EOF {
					readErr <- err
				}
				return
			}
			select {
			case lines <- inputLine{data: data, tooLong: err != nil}:
			case <-ctx.Done():
				return
			}
		}
	}()

	encoder := json.NewEncoder(w)

	for {
		select {
		case <-ctx.Done():
			s.logShutdown(startTime, "context_cancelled")
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				s.logShutdown(startTime, "input_closed")
				select {
				case err := <-readErr:
					if err != nil {
						return fmt.Errorf("failed to read input: %w", err)
					}
				default:
				}
				return nil
			}

			var response interface{}
			if line.tooLong {
				s.logger.WithContext("max_bytes", s.maxMessageSize).Warn("Discarded oversized message")
				response = newNullIDStructuredError(errors.NewMCPError(errors.ErrCodeInvalidRequest,
					"Invalid Request: message exceeds maximum size", errLineTooLong).
					WithContext("max_bytes", s.maxMessageSize))
			} else {
				response = s.processLine(ctx, line.data)
			}
			if response == nil {
				continue
			}
			if err := encoder.Encode(response); err != nil {
				s.logger.WithError(err).Error("Failed to write response")
				return fmt.Errorf("failed to write response: %w", err)
			}
		}
	}
}

// processLine decodes one input line and dispatches it. It returns the
// value to write back, or nil when nothing must be sent.
func (s *MCPServer) processLine(ctx context.Context, line []byte) interface{} {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	var message models.MCPMessage
	decoder := json.NewDecoder(bytes.NewReader(line))
	decoder.UseNumber()
	if err := decoder.Decode(&message); err != nil {
		s.logger.WithError(err).Warn("Failed to parse JSON-RPC message")
		return newNullIDError(models.ErrorCodeParseError, "Parse error")
	}

	if message.JSONRPC != "2.0" || (message.Method == "" && message.ID != nil) {
		if message.ID == nil {
			return newNullIDError(models.ErrorCodeInvalidRequest, "Invalid Request")
		}
		return s.createStructuredErrorResponse(message.ID,
			errors.NewMCPError(errors.ErrCodeInvalidRequest, "Invalid Request", nil).
				WithContext("jsonrpc", message.JSONRPC))
	}

	if message.Method == "" {
		// A response or empty envelope from the client; nothing to answer.
		return nil
	}

	response := s.HandleMessage(ctx, &message)
	if message.IsNotification() || response == nil {
		return nil
	}
	return response
}

// HandleMessage processes individual MCP messages
func (s *MCPServer) HandleMessage(ctx context.Context, message *models.MCPMessage) *models.MCPMessage {
	startTime := time.Now()
	var response *models.MCPMessage
	success := true
	var errorMsg string

	defer func() {
		s.loggingManager.LogMCPRequest(message.Method, message.ID, time.Since(startTime), success, errorMsg)
	}()

	switch message.Method {
	case methodInitialize:
		response = s.handleInitialize(message)
	case methodInitialized:
		response = s.handleInitialized(message)
	case methodCancelled:
		response = nil
	case methodPing:
		response = s.handlePing(message)
	case methodToolsList:
		response = s.handleToolsList(message)
	case methodToolsCall:
		response = s.handleToolsCall(ctx, message)
	case methodServerPerformance:
		response = s.handlePerformanceMetrics(ctx, message)
	default:
		success = false
		errorMsg = "Method not found"
		response = s.createErrorResponse(message.ID, models.ErrorCodeMethodNotFound, "Method not found")
	}

	if response != nil && response.Error != nil {
		success = false
		errorMsg = response.Error.Message
	}

	return response
}

func (s *MCPServer) logShutdown(startTime time.Time, reason string) {
	s.loggingManager.LogShutdownSequence("shutdown_complete", map[string]interface{}{
		"reason":      reason,
		"uptime_ms":   time.Since(startTime).Milliseconds(),
		"initialized": s.Initialized(),
	}, 0, true)
}
