package mcpconst

import "net/http"

// SessionIDHeader is the HTTP header a streamable HTTP server uses to assign
// a session id after initialize. The client echoes it on every later request.
var SessionIDHeader = http.CanonicalHeaderKey("mcp-session-id")

// Method is a typed string for JSON-RPC method names.
type Method string

// Defines the standard JSON-RPC methods for MCP.
const (
	Initialize               Method = "initialize"
	NotificationsInitialized Method = "notifications/initialized"
	ToolsList                Method = "tools/list"
	ToolsCall                Method = "tools/call"
	Ping                     Method = "ping"
)

// ProtocolVersion is the MCP revision this client speaks.
const ProtocolVersion = "2024-11-05"

// Identity reported to servers in the initialize handshake.
const (
	ClientName    = "rube-iks-cube"
	ClientVersion = "0.1.0"
)
