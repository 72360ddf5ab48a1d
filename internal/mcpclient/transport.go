package mcpclient

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/fzzzy/rube-iks-cube/internal/jsonrpc"
	"github.com/fzzzy/rube-iks-cube/internal/mcpconst"
	"github.com/sourcegraph/jsonrpc2"
)

// roundTrip sends one envelope over the streamable HTTP transport and
// returns the classified reply, if any. Notifications and empty 2xx replies
// return a nil message. The server may answer either with plain JSON or with
// an SSE stream, where the last "data:" line carries the envelope.
func (s *Session) roundTrip(ctx context.Context, op string, req *jsonrpc2.Request) (*jsonrpc.Message, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("error putting together jsonrpc request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json, text/event-stream")
	for header, val := range s.headers {
		httpReq.Header.Set(header, val)
	}
	if s.cred != nil {
		s.cred.apply(httpReq.Header)
	}
	if s.sessionID != "" {
		httpReq.Header.Set(mcpconst.SessionIDHeader, s.sessionID)
	}

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Op: op, Err: err}
		}
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		detail := readDetail(httpResp)
		if httpResp.StatusCode == http.StatusUnauthorized || httpResp.StatusCode == http.StatusForbidden {
			return nil, &AuthRequiredError{Detail: detail}
		}
		return nil, &TransportError{Op: op, Detail: detail}
	}

	// The server assigns the session id in a response header once, after
	// initialize. Keep whatever it last sent.
	if sid := httpResp.Header.Get(mcpconst.SessionIDHeader); sid != "" {
		s.sessionID = sid
	}

	respBody, err := readEnvelopeBody(httpResp)
	if err != nil {
		if isTimeout(err) {
			return nil, &TimeoutError{Op: op, Err: err}
		}
		return nil, &TransportError{Op: op, Err: err}
	}
	if len(respBody) == 0 {
		// A 200/202 with an empty body is fine, e.g. for notifications.
		return nil, nil
	}

	return jsonrpc.Classify(respBody)
}

// readEnvelopeBody extracts the raw envelope from either a plain JSON body
// or an SSE stream, where we scan for the last "data:" line.
func readEnvelopeBody(httpResp *http.Response) ([]byte, error) {
	contentType := httpResp.Header.Get("Content-Type")

	if strings.Contains(contentType, "text/event-stream") {
		scanner := bufio.NewScanner(httpResp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		var lastData string
		for scanner.Scan() {
			line := scanner.Text()
			if strings.HasPrefix(line, "data: ") {
				lastData = strings.TrimPrefix(line, "data: ")
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read mcp server SSE response: %w", err)
		}
		return []byte(lastData), nil
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read mcp server response: %w", err)
	}
	return body, nil
}

// readDetail snapshots the HTTP evidence for a failed exchange so error
// classification stays structural.
func readDetail(httpResp *http.Response) *HTTPDetail {
	body, _ := io.ReadAll(io.LimitReader(httpResp.Body, 64*1024))
	return &HTTPDetail{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header.Clone(),
		Body:       string(body),
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
