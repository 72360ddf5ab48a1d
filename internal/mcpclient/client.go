package mcpclient

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/fzzzy/rube-iks-cube/internal/mcpconst"
)

// Tool describes one remote capability advertised by tools/list. Read-only;
// its lifetime is the listing call that produced it.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"inputSchema,omitempty"`
}

// ListTools sends tools/list on an already-initialized session. A result
// with no tools key, or a tools value that is not an array, is an empty
// listing rather than an error: servers may legitimately expose zero tools.
func (s *Session) ListTools(ctx context.Context) ([]Tool, error) {
	if s.state != stateNotifiedReady {
		return nil, ErrSessionNotReady
	}

	req, err := s.nextRequest(mcpconst.ToolsList, map[string]any{})
	if err != nil {
		return nil, err
	}
	msg, err := s.roundTrip(ctx, string(mcpconst.ToolsList), req)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.Response == nil {
		return nil, &TransportError{Op: string(mcpconst.ToolsList), Err: errors.New("no response to tools/list")}
	}
	if msg.IsError() {
		return nil, msg.Response.Error
	}

	var result struct {
		Tools []Tool `json:"tools"`
	}
	if msg.Response.Result != nil {
		// A shape mismatch here means zero tools, not a failure.
		_ = json.Unmarshal(*msg.Response.Result, &result)
	}
	if result.Tools == nil {
		return []Tool{}, nil
	}
	return result.Tools, nil
}

type callToolParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// CallTool invokes one named tool on an already-initialized session.
// Nil arguments default to an empty mapping. A JSON-RPC error response or a
// malformed result shape becomes a ToolCallError naming the tool; transport
// and authorization failures propagate unchanged.
func (s *Session) CallTool(ctx context.Context, name string, arguments map[string]any) (map[string]any, error) {
	if s.state != stateNotifiedReady {
		return nil, ErrSessionNotReady
	}
	if arguments == nil {
		arguments = map[string]any{}
	}

	req, err := s.nextRequest(mcpconst.ToolsCall, callToolParams{Name: name, Arguments: arguments})
	if err != nil {
		return nil, err
	}
	msg, err := s.roundTrip(ctx, string(mcpconst.ToolsCall), req)
	if err != nil {
		return nil, err
	}
	if msg == nil || msg.Response == nil {
		return nil, &ToolCallError{Tool: name, Err: errors.New("no response to tools/call")}
	}
	if msg.IsError() {
		return nil, &ToolCallError{Tool: name, Err: msg.Response.Error}
	}
	if msg.Response.Result == nil {
		return nil, &ToolCallError{Tool: name, Err: errors.New("response carried no result")}
	}

	var result map[string]any
	if err := json.Unmarshal(*msg.Response.Result, &result); err != nil {
		return nil, &ToolCallError{Tool: name, Err: err}
	}
	if result == nil {
		result = map[string]any{}
	}
	return result, nil
}

// Client opens a fresh Session per logical operation: connect, handshake,
// one request, done. No session reuse or connection pooling; simple and
// stateless at the cost of a handshake per call.
type Client struct {
	cfg SessionConfig
}

// NewClient wraps a session config for single-shot operations.
func NewClient(cfg SessionConfig) *Client {
	return &Client{cfg: cfg}
}

// WithCredential returns a copy of the client whose sessions attach cred.
// The receiver is unchanged: credentials are replaced, never mutated.
func (c *Client) WithCredential(cred Credential) *Client {
	cfg := c.cfg
	cfg.Credential = cred
	return &Client{cfg: cfg}
}

// ListTools opens a session, runs the handshake, and lists tools.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	s := NewSession(c.cfg)
	if err := s.Handshake(ctx); err != nil {
		return nil, err
	}
	return s.ListTools(ctx)
}

// CallTool opens a session, runs the handshake, and invokes one tool.
func (c *Client) CallTool(ctx context.Context, name string, arguments map[string]any) (map[string]any, error) {
	s := NewSession(c.cfg)
	if err := s.Handshake(ctx); err != nil {
		return nil, err
	}
	return s.CallTool(ctx, name, arguments)
}
