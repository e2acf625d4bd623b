package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"learnhub_backend/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	return New(redis.NewClient(&redis.Options{Addr: mr.Addr()})), mr
}

func TestGetOrComputePopulatesOnMiss(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	computed := 0
	var got []string
	err := c.GetOrCompute(ctx, "key", time.Minute, &got, func() (interface{}, error) {
		computed++
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, 1, computed)
	assert.True(t, mr.Exists("key"))
	assert.Equal(t, time.Minute, mr.TTL("key"))

	// Second read is served from the cache.
	var again []string
	err = c.GetOrCompute(ctx, "key", time.Minute, &again, func() (interface{}, error) {
		computed++
		return nil, errors.New("must not be called")
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again)
	assert.Equal(t, 1, computed)
}

func TestGetOrComputeZeroTTLNeverExpires(t *testing.T) {
	c, mr := newCache(t)

	var got int
	err := c.GetOrCompute(context.Background(), "forever", 0, &got, func() (interface{}, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), mr.TTL("forever"))

	mr.FastForward(24 * time.Hour)
	assert.True(t, mr.Exists("forever"))
}

func TestGetOrComputeDropsCorruptEntry(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("key", "not json at all"))

	var got []string
	err := c.GetOrCompute(context.Background(), "key", time.Minute, &got, func() (interface{}, error) {
		return []string{"fresh"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, got)
}

func TestGetOrComputePropagatesComputeError(t *testing.T) {
	c, _ := newCache(t)

	var got []string
	err := c.GetOrCompute(context.Background(), "key", time.Minute, &got, func() (interface{}, error) {
		return nil, errors.New("database down")
	})
	assert.EqualError(t, err, "database down")
}

func TestGetOrComputeDegradesWithoutRedis(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	var got int
	err := c.GetOrCompute(context.Background(), "key", time.Minute, &got, func() (interface{}, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestInvalidate(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("a", "1"))
	require.NoError(t, mr.Set("b", "2"))

	require.NoError(t, c.Invalidate(context.Background(), "a", "b"))
	assert.False(t, mr.Exists("a"))
	assert.False(t, mr.Exists("b"))
}
