package mcpclient

import "net/http"

// Credential is attached to a Session at construction and applied to every
// outgoing request. A nil Credential means unauthenticated. Credentials are
// immutable values: replacing one always means constructing a new Session,
// never mutating in place.
type Credential interface {
	apply(h http.Header)
	// Redacted is a loggable form that never exposes the secret.
	Redacted() string
}

// BearerToken authorizes requests with an Authorization: Bearer header.
type BearerToken string

func (t BearerToken) apply(h http.Header) {
	h.Set("Authorization", "Bearer "+string(t))
}

func (t BearerToken) Redacted() string { return "Authorization: ***MASKED***" }

// DefaultAPIKeyHeader is used when an APIKey does not name its header.
const DefaultAPIKeyHeader = "X-API-Key"

// APIKey authorizes requests with a named API-key header. Mutually exclusive
// with BearerToken for any one Session.
type APIKey struct {
	Header string
	Value  string
}

func (k APIKey) apply(h http.Header) {
	name := k.Header
	if name == "" {
		name = DefaultAPIKeyHeader
	}
	h.Set(name, k.Value)
}

func (k APIKey) Redacted() string {
	name := k.Header
	if name == "" {
		name = DefaultAPIKeyHeader
	}
	return name + ": ***MASKED***"
}
