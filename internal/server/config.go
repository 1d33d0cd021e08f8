package server

// Server identity reported during initialize
const (
	ServerName    = "mcp-deployment-service"
	ServerVersion = "1.0.0"
)

// SupportedProtocolVersions lists the MCP revisions this server speaks, newest first
var SupportedProtocolVersions = []string{
	"2025-06-18",
	"2025-03-26",
	"2024-11-05",
}

// LatestProtocolVersion is answered when the client asks for an unknown revision
var LatestProtocolVersion = SupportedProtocolVersions[0]

// MCP method names
const (
	methodInitialize        = "initialize"
	methodInitialized       = "notifications/initialized"
	methodCancelled         = "notifications/cancelled"
	methodPing              = "ping"
	methodToolsList         = "tools/list"
	methodToolsCall         = "tools/call"
	methodServerPerformance = "server/performance"
)

// maxMessageSize bounds a single newline-delimited request
const maxMessageSize = 10 * 1024 * 1024

func negotiateProtocolVersion(requested string) string {
	for _, v := range SupportedProtocolVersions {
		if v == requested {
			return v
		}
	}
	return LatestProtocolVersion
}
