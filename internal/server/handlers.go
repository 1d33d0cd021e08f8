package server

import (
	"bytes"
	"context"
	"encoding/json"
	"runtime"
	"time"

	"mcp-deployment-service/internal/models"
)

// handleInitialize answers the version probe. A supported client revision
// is echoed back, anything else gets the newest revision we speak.
func (s *MCPServer) handleInitialize(message *models.MCPMessage) *models.MCPMessage {
	var params models.MCPInitializeParams
	if message.Params != nil {
		if err := decodeParams(message.Params, &params); err != nil {
			return s.createErrorResponse(message.ID, models.ErrorCodeInvalidParams, "Invalid parameters format")
		}
	}

	version := negotiateProtocolVersion(params.ProtocolVersion)

	s.mu.Lock()
	s.protocolVersion = version
	s.mu.Unlock()

	s.logger.WithContext("client_name", params.ClientInfo.Name).
		WithContext("client_version", params.ClientInfo.Version).
		WithContext("requested_protocol", params.ProtocolVersion).
		WithContext("protocol", version).
		Info("MCP client connected")

	return &models.MCPMessage{
		JSONRPC: "2.0",
		ID:      message.ID,
		Result: models.MCPInitializeResult{
			ProtocolVersion: version,
			Capabilities:    s.capabilities,
			ServerInfo:      s.serverInfo,
		},
	}
}

// handleInitialized handles the notifications/initialized method
func (s *MCPServer) handleInitialized(message *models.MCPMessage) *models.MCPMessage {
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	s.logger.Info("MCP server initialized successfully")
	return nil
}

// handlePing answers with an empty result
func (s *MCPServer) handlePing(message *models.MCPMessage) *models.MCPMessage {
	return &models.MCPMessage{
		JSONRPC: "2.0",
		ID:      message.ID,
		Result:  map[string]interface{}{},
	}
}

// handlePerformanceMetrics handles requests for server performance metrics
func (s *MCPServer) handlePerformanceMetrics(ctx context.Context, message *models.MCPMessage) *models.MCPMessage {
	s.mu.RLock()
	serverMetrics := map[string]interface{}{
		"server_info":      s.serverInfo,
		"initialized":      s.initialized,
		"protocol_version": s.protocolVersion,
	}
	s.mu.RUnlock()

	if s.registry != nil {
		serverMetrics["tool_metrics"] = s.registry.GetPerformanceMetrics()
	}
	serverMetrics["logging_stats"] = s.loggingManager.GetStats()
	serverMetrics["goroutines"] = runtime.NumGoroutine()
	serverMetrics["memory_stats"] = getMemoryStats()
	serverMetrics["timestamp"] = time.Now().Format(time.RFC3339)

	if s.metrics != nil {
		telemetry, err := s.metrics(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("Failed to collect telemetry snapshot")
		} else {
			serverMetrics["telemetry"] = telemetry
		}
	}

	return &models.MCPMessage{
		JSONRPC: "2.0",
		ID:      message.ID,
		Result:  serverMetrics,
	}
}

// decodeParams converts the generic params value into a typed struct.
// Numbers stay json.Number so large identifiers survive.
func decodeParams(params interface{}, target interface{}) error {
	paramsBytes, err := json.Marshal(params)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(bytes.NewReader(paramsBytes))
	decoder.UseNumber()
	return decoder.Decode(target)
}

// getMemoryStats returns current memory statistics
func getMemoryStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return map[string]interface{}{
		"alloc_bytes":       m.Alloc,
		"total_alloc_bytes": m.TotalAlloc,
		"sys_bytes":         m.Sys,
		"num_gc":            m.NumGC,
		"gc_cpu_fraction":   m.GCCPUFraction,
	}
}
