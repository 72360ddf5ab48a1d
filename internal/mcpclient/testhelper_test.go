package mcpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

// fakeMCP is a scriptable streamable HTTP MCP server for tests. It records
// the order of methods it saw and answers initialize / notifications/
// initialized / tools requests the way a compliant server would.
type fakeMCP struct {
	mu      sync.Mutex
	methods []string

	sessionID    string
	tools        []map[string]any
	omitToolsKey bool
	callResult   map[string]any
	callErrorMsg string
	requireToken string
	sse          bool
	initFailures int // how many initial initialize calls to reject with 401
}

func newFakeMCP() *fakeMCP {
	return &fakeMCP{
		sessionID:  "sess-1",
		callResult: map[string]any{"content": []any{map[string]any{"type": "text", "text": "ok"}}},
	}
}

func (f *fakeMCP) seenMethods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.methods...)
}

func (f *fakeMCP) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		var envelope struct {
			ID     *json.RawMessage `json:"id"`
			Method string           `json:"method"`
			Params json.RawMessage  `json:"params"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.methods = append(f.methods, envelope.Method)
		rejectInit := envelope.Method == "initialize" && f.initFailures > 0
		if rejectInit {
			f.initFailures--
		}
		f.mu.Unlock()

		if f.requireToken != "" && r.Header.Get("Authorization") != "Bearer "+f.requireToken {
			w.Header().Set("WWW-Authenticate", `Bearer realm="test"`)
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}
		if rejectInit {
			http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
			return
		}

		switch envelope.Method {
		case "initialize":
			w.Header().Set("Mcp-Session-Id", f.sessionID)
			f.reply(w, envelope.ID, map[string]any{})

		case "notifications/initialized":
			if r.Header.Get("Mcp-Session-Id") != f.sessionID {
				http.Error(w, "missing session id", http.StatusBadRequest)
				return
			}
			w.WriteHeader(http.StatusAccepted)

		case "tools/list":
			result := map[string]any{}
			if !f.omitToolsKey {
				tools := f.tools
				if tools == nil {
					tools = []map[string]any{}
				}
				result["tools"] = tools
			}
			f.reply(w, envelope.ID, result)

		case "tools/call":
			if f.callErrorMsg != "" {
				f.replyError(w, envelope.ID, -32000, f.callErrorMsg)
				return
			}
			f.reply(w, envelope.ID, f.callResult)

		default:
			f.replyError(w, envelope.ID, -32601, "method not found")
		}
	})
}

func (f *fakeMCP) reply(w http.ResponseWriter, id *json.RawMessage, result any) {
	payload, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	})
	if f.sse {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprintf(w, "event: message\ndata: %s\n\n", payload)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}

func (f *fakeMCP) replyError(w http.ResponseWriter, id *json.RawMessage, code int, message string) {
	payload, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   map[string]any{"code": code, "message": message},
	})
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(payload)
}
