package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret@123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret@123", hash)

	assert.True(t, CheckPassword(hash, "Secret@123"))
	assert.False(t, CheckPassword(hash, "Wrong@1234"))
}
