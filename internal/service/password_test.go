package service_test

import (
	"strings"
	"testing"

	"github.com/mira/mood-journal-website/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := service.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	// Fresh salt every time
	other, err := service.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := service.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	t.Run("matching password", func(t *testing.T) {
		ok, err := service.VerifyPassword(hash, "correct horse battery staple")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password", func(t *testing.T) {
		ok, err := service.VerifyPassword(hash, "wrong password")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty hash never matches", func(t *testing.T) {
		// Federated accounts store no hash; any password attempt fails cleanly.
		ok, err := service.VerifyPassword("", "anything")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed hash", func(t *testing.T) {
		_, err := service.VerifyPassword("not-a-phc-string", "anything")
		assert.Error(t, err)
	})
}
