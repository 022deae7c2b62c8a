package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := Hash("secret123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hashed, "$argon2id$"))

	assert.True(t, Verify("secret123", hashed))
	assert.False(t, Verify("wrong", hashed))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("secret123")
	require.NoError(t, err)
	second, err := Hash("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, Verify("secret123", "not-a-hash"))
	assert.False(t, Verify("secret123", ""))
}
