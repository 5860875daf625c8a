package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureToken(t *testing.T) {
	token, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.Len(t, token, 64) // hex encoding doubles the byte length

	// Two tokens should never collide
	other, err := GenerateSecureToken(32)
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestGenerateTempPassword(t *testing.T) {
	password, err := GenerateTempPassword(12)
	require.NoError(t, err)
	assert.Len(t, password, 12)

	// Ambiguous characters are excluded from the charset
	for _, c := range password {
		assert.NotContains(t, "0O1lI", string(c))
	}
}
