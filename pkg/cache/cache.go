package cache

import (
	"context"
	"encoding/json"
	"time"

	"learnhub_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Cache is a read-through JSON cache over redis. Entries are populated
// lazily on first miss and never invalidated on write: the catalog is
// read-mostly and a bounded staleness window is accepted. Concurrent misses
// may recompute the same value; last write wins and both results are valid.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// GetOrCompute unmarshals the cached value for key into dest, or runs
// compute, stores the result with ttl (0 means no expiry) and unmarshals it
// into dest. Redis failures degrade to computing directly: the cache is
// advisory, never a source of truth.
func (c *Cache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest interface{}, compute func() (interface{}, error)) error {
	if c.rdb != nil {
		val, err := c.rdb.Get(ctx, key).Result()
		if err == nil {
			if err := json.Unmarshal([]byte(val), dest); err == nil {
				return nil
			}
			// Corrupt entry, fall through and recompute.
			logger.Log.Warn("dropping unreadable cache entry", zap.String("key", key))
			c.rdb.Del(ctx, key)
		} else if err != redis.Nil {
			logger.Log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	value, err := compute()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
			logger.Log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return json.Unmarshal(raw, dest)
}

// Invalidate drops keys explicitly. Used by administrative actions only;
// regular writes rely on TTL expiry.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if c.rdb == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}
