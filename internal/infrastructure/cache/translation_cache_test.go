package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheHitAndExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Hour, 10).WithClock(func() time.Time { return now })

	key := Key{Text: "Hello", Source: "en", Target: "fr"}
	require.NoError(t, c.Set(ctx, key, "Bonjour"))

	entry, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Bonjour", entry.TranslatedText)

	now = now.Add(time.Hour + time.Second)
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, c.Size(), "expired entry is dropped on read")
}

func TestMemoryCacheExpiryKeepsConcurrentRefresh(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Hour, 10).WithClock(func() time.Time { return now })
	key := Key{Text: "Hello", Source: "en", Target: "fr"}

	require.NoError(t, c.Set(ctx, key, "old"))
	now = now.Add(2 * time.Hour)

	// The refresh lands between Get's expiry check and its delete.
	refreshed := false
	c.WithClock(func() time.Time {
		if !refreshed {
			refreshed = true
			require.NoError(t, c.Set(ctx, key, "new"))
		}
		return now
	})

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	entry, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", entry.TranslatedText)
}

func TestMemoryCacheEvictsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Hour, 2).WithClock(func() time.Time { return now })

	first := Key{Text: "a", Source: "en", Target: "fr"}
	second := Key{Text: "b", Source: "en", Target: "fr"}
	third := Key{Text: "c", Source: "en", Target: "fr"}

	require.NoError(t, c.Set(ctx, first, "A"))
	now = now.Add(time.Second)
	require.NoError(t, c.Set(ctx, second, "B"))
	now = now.Add(time.Second)
	require.NoError(t, c.Set(ctx, third, "C"))

	assert.Equal(t, 2, c.Size())
	_, ok, _ := c.Get(ctx, first)
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, third)
	assert.True(t, ok)
}

func TestMemoryCacheSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute, 10).WithClock(func() time.Time { return now })

	require.NoError(t, c.Set(ctx, Key{Text: "old", Source: "en", Target: "de"}, "alt"))
	now = now.Add(2 * time.Minute)
	require.NoError(t, c.Set(ctx, Key{Text: "new", Source: "en", Target: "de"}, "neu"))

	assert.Equal(t, 1, c.Sweep())
	assert.Equal(t, 1, c.Size())
}

func TestKeyHashDistinguishesDirection(t *testing.T) {
	a := Key{Text: "hola", Source: "es", Target: "en"}
	b := Key{Text: "hola", Source: "en", Target: "es"}
	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	c := NewRedisCache(client, "test", time.Hour)
	key := Key{Text: "Thank you", Source: "en", Target: "es"}

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, "Gracias"))
	entry, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Gracias", entry.TranslatedText)

	mr.FastForward(time.Hour + time.Second)
	_, ok, err = c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}
