package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewRateCache(client)
	ctx := context.Background()

	key := "PLN:USD"
	value := []byte("0.25")

	// Get before set => nil
	result, err := cache.Get(ctx, key)
	assert.NoError(t, err)
	assert.Nil(t, result)

	// Set
	err = cache.Set(ctx, key, value, 10*time.Minute)
	require.NoError(t, err)

	// Get after set
	result, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

func TestRateCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewRateCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "EUR:USD", []byte("1.08"), 1*time.Second)
	require.NoError(t, err)

	// Fast-forward time in miniredis
	s.FastForward(2 * time.Second)

	result, err := cache.Get(ctx, "EUR:USD")
	assert.NoError(t, err)
	assert.Nil(t, result, "expired key should return nil")
}

func TestRateCache_OverwriteKey(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewRateCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "PLN:USD", []byte("0.25"), 1*time.Hour)
	require.NoError(t, err)

	err = cache.Set(ctx, "PLN:USD", []byte("0.26"), 1*time.Hour)
	require.NoError(t, err)

	result, err := cache.Get(ctx, "PLN:USD")
	require.NoError(t, err)
	assert.Equal(t, []byte("0.26"), result)
}

func TestRateCache_KeysAreNamespaced(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewRateCache(client)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "PLN:USD", []byte("0.25"), time.Hour))

	val, err := s.Get("rate:PLN:USD")
	require.NoError(t, err)
	assert.Equal(t, "0.25", val)
}
