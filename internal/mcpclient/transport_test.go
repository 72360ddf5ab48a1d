package mcpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fzzzy/rube-iks-cube/internal/jsonrpc"
	"github.com/fzzzy/rube-iks-cube/internal/mcpconst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTripUnauthorizedBecomesAuthRequired(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", `Bearer realm="test"`)
		http.Error(w, `{"error":"token expired"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	s := NewSession(SessionConfig{Endpoint: ts.URL})
	req, err := s.nextRequest(mcpconst.ToolsList, nil)
	require.NoError(t, err)

	_, err = s.roundTrip(context.Background(), "tools/list", req)

	var authErr *AuthRequiredError
	require.ErrorAs(t, err, &authErr)
	require.NotNil(t, authErr.Detail)
	assert.Equal(t, http.StatusUnauthorized, authErr.Detail.StatusCode)
	assert.Contains(t, authErr.Detail.Body, "token expired")
	assert.Equal(t, `Bearer realm="test"`, authErr.Detail.Headers.Get("WWW-Authenticate"))
}

func TestRoundTripForbiddenBecomesAuthRequired(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no", http.StatusForbidden)
	}))
	defer ts.Close()

	s := NewSession(SessionConfig{Endpoint: ts.URL})
	req, err := s.nextRequest(mcpconst.ToolsList, nil)
	require.NoError(t, err)

	_, err = s.roundTrip(context.Background(), "tools/list", req)

	var authErr *AuthRequiredError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, http.StatusForbidden, authErr.Detail.StatusCode)
}

func TestRoundTripServerErrorBecomesTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	s := NewSession(SessionConfig{Endpoint: ts.URL})
	req, err := s.nextRequest(mcpconst.ToolsList, nil)
	require.NoError(t, err)

	_, err = s.roundTrip(context.Background(), "tools/list", req)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusInternalServerError, transportErr.Detail.StatusCode)
	assert.Contains(t, transportErr.Error(), "boom")
}

func TestRoundTripSendsCredentialAndSessionHeaders(t *testing.T) {
	var gotAuth, gotSession, gotExtra string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotSession = r.Header.Get(mcpconst.SessionIDHeader)
		gotExtra = r.Header.Get("X-Extra")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer ts.Close()

	s := NewSession(SessionConfig{
		Endpoint:   ts.URL,
		Credential: BearerToken("tok-123"),
		Headers:    map[string]string{"X-Extra": "yes"},
	})
	s.sessionID = "sess-77"
	req, err := s.nextRequest(mcpconst.ToolsList, nil)
	require.NoError(t, err)

	msg, err := s.roundTrip(context.Background(), "tools/list", req)
	require.NoError(t, err)
	assert.Nil(t, msg, "202 with empty body means no envelope")

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "sess-77", gotSession)
	assert.Equal(t, "yes", gotExtra)
}

func TestRoundTripParsesSSEResponses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("event: message\ndata: {\"jsonrpc\":\"2.0\",\"id\":1,\"result\":{\"ok\":true}}\n\n"))
	}))
	defer ts.Close()

	s := NewSession(SessionConfig{Endpoint: ts.URL})
	req, err := s.nextRequest(mcpconst.ToolsList, nil)
	require.NoError(t, err)

	msg, err := s.roundTrip(context.Background(), "tools/list", req)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.NotNil(t, msg.Response)
	assert.False(t, msg.IsError())
	assert.JSONEq(t, `{"ok":true}`, string(*msg.Response.Result))
}

func TestRoundTripSSEKeepsLastDataLine(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = w.Write([]byte("data: {\"jsonrpc\":\"2.0\",\"method\":\"notifications/progress\"}\n\n"))
		_, _ = w.Write([]byte("data: {\"jsonrpc\":\"2.0\",\"id\":1,\"result\":{}}\n\n"))
	}))
	defer ts.Close()

	s := NewSession(SessionConfig{Endpoint: ts.URL})
	req, err := s.nextRequest(mcpconst.ToolsList, nil)
	require.NoError(t, err)

	msg, err := s.roundTrip(context.Background(), "tools/list", req)
	require.NoError(t, err)
	require.NotNil(t, msg.Response)
}

func TestRoundTripGarbageBecomesProtocolError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("this is not an envelope"))
	}))
	defer ts.Close()

	s := NewSession(SessionConfig{Endpoint: ts.URL})
	req, err := s.nextRequest(mcpconst.ToolsList, nil)
	require.NoError(t, err)

	_, err = s.roundTrip(context.Background(), "tools/list", req)

	var protoErr *jsonrpc.ProtocolError
	require.ErrorAs(t, err, &protoErr)
}

func TestRoundTripTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer ts.Close()

	s := NewSession(SessionConfig{Endpoint: ts.URL, Timeout: 30 * time.Millisecond})
	req, err := s.nextRequest(mcpconst.ToolsList, nil)
	require.NoError(t, err)

	_, err = s.roundTrip(context.Background(), "tools/list", req)

	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestRoundTripCapturesAssignedSessionID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Mcp-Session-Id", "sess-1")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{}}`))
	}))
	defer ts.Close()

	s := NewSession(SessionConfig{Endpoint: ts.URL})
	req, err := s.nextRequest(mcpconst.Initialize, nil)
	require.NoError(t, err)

	_, err = s.roundTrip(context.Background(), "initialize", req)
	require.NoError(t, err)
	assert.Equal(t, "sess-1", s.SessionID())
}
