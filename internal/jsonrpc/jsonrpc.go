package jsonrpc

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sourcegraph/jsonrpc2"
)

const notificationPrefix = "notifications/"

// IsNotification reports whether a method name is a notification, following
// the MCP convention of prefixing notification methods with "notifications/".
func IsNotification(method string) bool {
	return strings.HasPrefix(method, notificationPrefix)
}

// NewRequest builds an outgoing JSON-RPC 2.0 request envelope. Methods with
// the "notifications/" prefix become notifications: they carry no id on the
// wire and expect no response. Params are marshaled up front so a bad params
// value fails here rather than mid-send; nil params are omitted entirely.
func NewRequest(id uint64, method string, params any) (*jsonrpc2.Request, error) {
	var rawParams *json.RawMessage
	if params != nil {
		paramsMsg, err := json.Marshal(params)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal params: %w", err)
		}
		rawParams = (*json.RawMessage)(&paramsMsg)
	}

	return &jsonrpc2.Request{
		Method: method,
		Params: rawParams,
		ID:     jsonrpc2.ID{Num: id},
		Notif:  IsNotification(method),
	}, nil
}

// Message is a classified inbound envelope. Exactly one field is set.
type Message struct {
	// Response holds a response or error-response envelope.
	Response *jsonrpc2.Response
	// Notification holds a server-initiated notification.
	Notification *jsonrpc2.Request
}

// IsError reports whether the message is an error response.
func (m *Message) IsError() bool {
	return m.Response != nil && m.Response.Error != nil
}

// ProtocolError marks a payload that is not valid JSON-RPC 2.0. It indicates
// a server/client version mismatch and is fatal to the current operation.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("jsonrpc protocol error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("jsonrpc protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// Classify parses a raw payload into a response, error response, or
// notification. Anything else, including a missing or wrong jsonrpc version
// marker, fails with a ProtocolError.
//
// The probe decodes to a field map first: "result": null and an absent result
// are different envelopes, so key presence matters, not value shape.
func Classify(raw []byte) (*Message, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, &ProtocolError{Reason: "payload is not a JSON-RPC envelope", Err: err}
	}

	var version string
	if err := json.Unmarshal(fields["jsonrpc"], &version); err != nil || version != "2.0" {
		return nil, &ProtocolError{Reason: fmt.Sprintf("missing or unsupported jsonrpc version %s", fields["jsonrpc"])}
	}

	_, hasID := fields["id"]
	_, hasMethod := fields["method"]
	_, hasResult := fields["result"]
	_, hasError := fields["error"]

	switch {
	case hasMethod && !hasID:
		var notif jsonrpc2.Request
		if err := json.Unmarshal(raw, &notif); err != nil {
			return nil, &ProtocolError{Reason: "malformed notification envelope", Err: err}
		}
		notif.Notif = true
		return &Message{Notification: &notif}, nil

	case !hasMethod && hasID && (hasResult || hasError):
		var resp jsonrpc2.Response
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, &ProtocolError{Reason: "malformed response envelope", Err: err}
		}
		return &Message{Response: &resp}, nil

	default:
		return nil, &ProtocolError{Reason: "envelope is neither a response nor a notification"}
	}
}
