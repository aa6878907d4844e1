package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to limit within window", func(t *testing.T) {
		l := NewMemoryLimiter()

		for i := 0; i < 3; i++ {
			ok, err := l.Allow(ctx, "1.2.3.4", 3, time.Minute)
			require.NoError(t, err)
			assert.True(t, ok, "attempt %d should be allowed", i+1)
		}

		ok, err := l.Allow(ctx, "1.2.3.4", 3, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys are independent", func(t *testing.T) {
		l := NewMemoryLimiter()

		ok, err := l.Allow(ctx, "1.2.3.4", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.Allow(ctx, "5.6.7.8", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.Allow(ctx, "1.2.3.4", 1, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("window expiry restarts the counter", func(t *testing.T) {
		l := NewMemoryLimiter()
		current := time.Now()
		l.now = func() time.Time { return current }

		ok, err := l.Allow(ctx, "1.2.3.4", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = l.Allow(ctx, "1.2.3.4", 1, time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)

		current = current.Add(61 * time.Second)

		ok, err = l.Allow(ctx, "1.2.3.4", 1, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("zero limit always allows", func(t *testing.T) {
		l := NewMemoryLimiter()
		ok, err := l.Allow(ctx, "1.2.3.4", 0, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestMemoryLimiter_Reset(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter()

	ok, err := l.Allow(ctx, "1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = l.Allow(ctx, "1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, l.Reset(ctx, "1.2.3.4"))

	ok, err = l.Allow(ctx, "1.2.3.4", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
