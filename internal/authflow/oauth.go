package authflow

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/fzzzy/rube-iks-cube/internal/mcpclient"
	"golang.org/x/oauth2"
)

// Scope requested on every authorization attempt.
const authScope = "openid profile email"

// stateBytes is the entropy behind each CSRF state value.
const stateBytes = 32

// Endpoints configures the external OAuth 2.0 collaborators: the
// authorization endpoint (GET, query string) and the token endpoint
// (POST, form-encoded exchange).
type Endpoints struct {
	AuthorizationURL string
	TokenURL         string
	ClientID         string
	ClientSecret     string
	RedirectURI      string
}

// Flow drives the interactive OAuth 2.0 authorization-code flow. There is no
// local redirect listener: the user completes login in a browser and pastes
// a token back by hand. No PKCE and no enforced state round-trip; the state
// exists for protocol completeness.
type Flow struct {
	endpoints Endpoints

	in          *bufio.Reader
	out         io.Writer
	openBrowser func(url string) error
}

// NewFlow builds a flow that prompts on stdin/stdout and opens the system
// browser.
func NewFlow(ep Endpoints) *Flow {
	return &Flow{
		endpoints:   ep,
		in:          bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		openBrowser: openInBrowser,
	}
}

// BeginAuthorization builds the authorization URL for the code flow with a
// fresh CSRF-resistant state. The client id is included only when
// configured; login_hint and email carry the user's address to the provider.
func (f *Flow) BeginAuthorization(email string) (authURL string, state string, err error) {
	state, err = newState()
	if err != nil {
		return "", "", err
	}

	params := url.Values{}
	params.Set("response_type", "code")
	params.Set("redirect_uri", f.endpoints.RedirectURI)
	params.Set("scope", authScope)
	params.Set("state", state)
	params.Set("login_hint", email)
	params.Set("email", email)
	if f.endpoints.ClientID != "" {
		params.Set("client_id", f.endpoints.ClientID)
	}

	return f.endpoints.AuthorizationURL + "?" + params.Encode(), state, nil
}

// newState returns a fresh URL-safe state token with stateBytes of entropy.
func newState() (string, error) {
	var b [stateBytes]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("generating oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b[:]), nil
}

// ExchangeCode trades an explicit authorization code for a bearer token at
// the token endpoint. The interactive paste path never calls this; it is the
// alternative path for when a code is actually available. Failures return a
// nil credential and are not retried.
func (f *Flow) ExchangeCode(ctx context.Context, code string) (mcpclient.Credential, error) {
	conf := &oauth2.Config{
		ClientID:     f.endpoints.ClientID,
		ClientSecret: f.endpoints.ClientSecret,
		RedirectURL:  f.endpoints.RedirectURI,
		Scopes:       strings.Fields(authScope),
		Endpoint: oauth2.Endpoint{
			AuthURL:  f.endpoints.AuthorizationURL,
			TokenURL: f.endpoints.TokenURL,
		},
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token endpoint returned an empty access token")
	}
	return mcpclient.BearerToken(tok.AccessToken), nil
}
