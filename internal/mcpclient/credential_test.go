package mcpclient

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBearerTokenApply(t *testing.T) {
	h := http.Header{}
	BearerToken("abc123").apply(h)
	assert.Equal(t, "Bearer abc123", h.Get("Authorization"))
}

func TestAPIKeyApply(t *testing.T) {
	h := http.Header{}
	APIKey{Value: "k-1"}.apply(h)
	assert.Equal(t, "k-1", h.Get(DefaultAPIKeyHeader))

	h = http.Header{}
	APIKey{Header: "X-Custom", Value: "k-2"}.apply(h)
	assert.Equal(t, "k-2", h.Get("X-Custom"))
}

func TestRedactedNeverLeaksSecrets(t *testing.T) {
	assert.NotContains(t, BearerToken("super-secret").Redacted(), "super-secret")
	assert.NotContains(t, APIKey{Value: "super-secret"}.Redacted(), "super-secret")
}
