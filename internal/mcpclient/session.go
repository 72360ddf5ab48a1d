package mcpclient

import (
	"net/http"
	"time"

	"github.com/fzzzy/rube-iks-cube/internal/jsonrpc"
	"github.com/fzzzy/rube-iks-cube/internal/mcpconst"
	"github.com/sourcegraph/jsonrpc2"
)

// DefaultTimeout bounds each HTTP exchange when the config does not say
// otherwise. An unresponsive server surfaces as a TimeoutError instead of
// stalling the caller forever.
const DefaultTimeout = 30 * time.Second

type handshakeState int

const (
	stateUnstarted handshakeState = iota
	stateInitializeSent
	stateInitialized
	stateNotifiedReady
)

// SessionConfig describes how to open sessions against one MCP endpoint.
type SessionConfig struct {
	Endpoint   string
	Credential Credential
	Headers    map[string]string
	Timeout    time.Duration
	// HTTPClient overrides the default client, mainly for tests. Its own
	// timeout wins over Timeout when set.
	HTTPClient *http.Client
}

// Session is one logical connection to an MCP server: endpoint, credential,
// the monotonic request id counter, and the server-assigned session id once
// the handshake has run. A session is owned by exactly one caller and holds
// at most one request in flight; it is not safe for concurrent use.
type Session struct {
	endpoint  string
	cred      Credential
	headers   map[string]string
	client    *http.Client
	nextID    uint64
	sessionID string
	state     handshakeState
}

// NewSession builds an unconnected session. Nothing touches the network
// until the handshake runs.
func NewSession(cfg SessionConfig) *Session {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Session{
		endpoint: cfg.Endpoint,
		cred:     cfg.Credential,
		headers:  cfg.Headers,
		client:   hc,
		nextID:   1,
	}
}

// SessionID is the server-assigned session identifier, empty until the
// handshake has completed.
func (s *Session) SessionID() string { return s.sessionID }

// Ready reports whether the handshake has reached the notified-ready state.
func (s *Session) Ready() bool { return s.state == stateNotifiedReady }

// nextRequest assigns the next monotonic id, starting at 1. Notifications do
// not consume an id: they carry none on the wire and receive no response.
// Not safe across concurrent callers, per the single in-flight model.
func (s *Session) nextRequest(method mcpconst.Method, params any) (*jsonrpc2.Request, error) {
	if jsonrpc.IsNotification(string(method)) {
		return jsonrpc.NewRequest(0, string(method), params)
	}
	id := s.nextID
	s.nextID++
	return jsonrpc.NewRequest(id, string(method), params)
}
