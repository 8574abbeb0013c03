package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	encoded, err := Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))

	assert.True(t, Verify("correct horse battery staple", encoded))
	assert.False(t, Verify("wrong", encoded))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("secret")
	require.NoError(t, err)
	second, err := Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	assert.True(t, Verify("secret", first))
	assert.True(t, Verify("secret", second))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	assert.False(t, Verify("secret", ""))
	assert.False(t, Verify("secret", "not-an-encoded-hash"))
	assert.False(t, Verify("secret", "$argon2id$v=19$m=65536,t=1,p=4$bad$bad"))
}
