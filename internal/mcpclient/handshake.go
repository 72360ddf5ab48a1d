package mcpclient

import (
	"context"
	"errors"
	"log"

	"github.com/fzzzy/rube-iks-cube/internal/mcpconst"
)

// initializeParams is the fixed handshake payload. Values match what the
// server expects from this client identity.
type initializeParams struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    clientCapabilities `json:"capabilities"`
	ClientInfo      clientInfo         `json:"clientInfo"`
}

type clientCapabilities struct {
	Roots rootsCapability `json:"roots"`
}

type rootsCapability struct {
	ListChanged bool `json:"listChanged"`
}

type clientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Handshake drives the mandatory initialize / notifications/initialized
// exchange. It must complete before any tool operation runs on the session.
//
// An HTTP 401/403 anywhere in the exchange surfaces as AuthRequiredError and
// is never retried here; any other failure becomes a HandshakeError.
func (s *Session) Handshake(ctx context.Context) error {
	params := initializeParams{
		ProtocolVersion: mcpconst.ProtocolVersion,
		Capabilities:    clientCapabilities{Roots: rootsCapability{ListChanged: true}},
		ClientInfo:      clientInfo{Name: mcpconst.ClientName, Version: mcpconst.ClientVersion},
	}
	req, err := s.nextRequest(mcpconst.Initialize, params)
	if err != nil {
		return &HandshakeError{Err: err}
	}

	s.state = stateInitializeSent
	msg, err := s.roundTrip(ctx, string(mcpconst.Initialize), req)
	if err != nil {
		var authErr *AuthRequiredError
		if errors.As(err, &authErr) {
			return err
		}
		return &HandshakeError{Err: err}
	}
	if msg == nil || msg.Response == nil {
		return &HandshakeError{Err: errors.New("no response to initialize")}
	}
	if msg.IsError() {
		return &HandshakeError{Err: msg.Response.Error}
	}

	s.state = stateInitialized
	log.Printf("mcp session established: %s", s.sessionID)

	note, err := s.nextRequest(mcpconst.NotificationsInitialized, map[string]any{})
	if err != nil {
		return &HandshakeError{Err: err}
	}
	if _, err := s.roundTrip(ctx, string(mcpconst.NotificationsInitialized), note); err != nil {
		var authErr *AuthRequiredError
		if errors.As(err, &authErr) {
			return err
		}
		return &HandshakeError{Err: err}
	}

	s.state = stateNotifiedReady
	return nil
}
