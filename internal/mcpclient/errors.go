package mcpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPDetail carries the HTTP-layer evidence for a failed exchange: status
// code, response headers, and the raw body where available. Callers classify
// errors by matching on the error types below and reading this struct, never
// by sniffing attributes off an opaque error.
type HTTPDetail struct {
	StatusCode int
	Headers    http.Header
	Body       string
}

// TransportError is a connection or HTTP-layer failure: DNS, TLS, a refused
// connection, or a non-2xx status that is not an authorization failure. Fatal
// to the current operation; not retried except via the single
// reauthentication cycle.
type TransportError struct {
	Op     string
	Detail *HTTPDetail
	Err    error
}

func (e *TransportError) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("transport error during %s: server returned status %d: %s", e.Op, e.Detail.StatusCode, e.Detail.Body)
	}
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// TimeoutError is a send or receive that ran past the configured deadline.
// The original design waited indefinitely; here expiry is its own kind so
// callers can tell a stalled server from a broken one.
type TimeoutError struct {
	Op  string
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out during %s: %v", e.Op, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// AuthRequiredError is an HTTP 401/403 surfaced during the handshake or a
// call. It triggers exactly one OAuth-and-retry cycle in the Authenticator;
// the client itself never retries it.
type AuthRequiredError struct {
	Detail *HTTPDetail
}

func (e *AuthRequiredError) Error() string {
	if e.Detail != nil {
		return fmt.Sprintf("authentication required: server returned status %d: %s", e.Detail.StatusCode, e.Detail.Body)
	}
	return "authentication required"
}

// HandshakeError is a non-auth failure during the initialize exchange.
type HandshakeError struct {
	Err error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("mcp handshake failed: %v", e.Err)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// AuthFailedError is terminal: the OAuth flow did not yield usable
// credentials, or the retried operation failed authentication again.
type AuthFailedError struct {
	Err error
}

func (e *AuthFailedError) Error() string {
	return fmt.Sprintf("authentication failed: %v", e.Err)
}

func (e *AuthFailedError) Unwrap() error { return e.Err }

// ToolCallError is a server-side failure of one named tool invocation.
type ToolCallError struct {
	Tool string
	Err  error
}

func (e *ToolCallError) Error() string {
	return fmt.Sprintf("tool call %q failed: %v", e.Tool, e.Err)
}

func (e *ToolCallError) Unwrap() error { return e.Err }

// ErrSessionNotReady is returned when a tool operation runs on a session
// whose handshake has not reached the notified-ready state. This is a
// programming error in the caller, not a recoverable server condition.
var ErrSessionNotReady = errors.New("mcp session not ready: handshake has not completed")
