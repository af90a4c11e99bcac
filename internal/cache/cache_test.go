// file: internal/cache/cache_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryCacheSetGetDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, ok := c.Get(ctx, "missing")
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	val, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, c.Delete(ctx, "k"))
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheTTLExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 10*time.Millisecond))
	_, ok := c.Get(ctx, "k")
	assert.True(t, ok)

	time.Sleep(20 * time.Millisecond)
	_, ok = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCacheIncrement(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	n, err := c.Increment(ctx, "attempts", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = c.Increment(ctx, "attempts", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// Counters read back as their decimal form, matching Redis
	val, ok := c.Get(ctx, "attempts")
	require.True(t, ok)
	assert.Equal(t, []byte("2"), val)
}

func TestMemoryCacheIncrementResetAfterExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	_, err := c.Increment(ctx, "attempts", 10*time.Millisecond)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	n, err := c.Increment(ctx, "attempts", 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestNewFallsBackToMemory(t *testing.T) {
	c, err := New("", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Set(context.Background(), "k", []byte("v"), 0))
	require.NoError(t, c.Close())
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not-a-redis-url", zap.NewNop())
	assert.Error(t, err)
}
