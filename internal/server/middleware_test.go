package server

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func basicHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

func TestParseBasicAuth(t *testing.T) {
	user, secret, ok := parseBasicAuth(basicHeader("alice", "s3cret"))
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "s3cret", secret)

	// Passwords may contain colons.
	user, secret, ok = parseBasicAuth(basicHeader("alice", "a:b:c"))
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "a:b:c", secret)
}

func TestParseBasicAuthRejectsMalformedHeaders(t *testing.T) {
	for _, header := range []string{
		"",
		"Bearer abc123",
		"Basic",
		"Basic %%%not-base64%%%",
		"Basic " + base64.StdEncoding.EncodeToString([]byte("no-separator")),
		"Basic " + base64.StdEncoding.EncodeToString([]byte(":password-only")),
	} {
		_, _, ok := parseBasicAuth(header)
		assert.False(t, ok, header)
	}
}

func TestParseBasicAuthIsCaseInsensitiveScheme(t *testing.T) {
	_, _, ok := parseBasicAuth("basic " + base64.StdEncoding.EncodeToString([]byte("a:b")))
	assert.True(t, ok)
}
