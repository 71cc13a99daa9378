package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheConfig describes the key prefix and TTL used for one cached entity.
type CacheConfig struct {
	Prefix string
	TTL    time.Duration
}

var QuizCacheConfig = CacheConfig{Prefix: "quiz", TTL: 10 * time.Minute}

// CacheHelper wraps a Redis client with JSON serialization and a key prefix.
// A nil client degrades to a no-op so callers never branch on cache
// availability.
type CacheHelper struct {
	client *redis.Client
	prefix string
}

func NewCacheHelper(client *redis.Client, prefix string) *CacheHelper {
	return &CacheHelper{client: client, prefix: prefix}
}

// Key builds a colon-separated cache key under the helper's prefix.
func (c *CacheHelper) Key(parts ...string) string {
	return c.prefix + ":" + strings.Join(parts, ":")
}

// Get loads key into dest. The boolean reports whether the key was present.
func (c *CacheHelper) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed for %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed for %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key for ttl.
func (c *CacheHelper) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed for %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set failed for %s: %w", key, err)
	}
	return nil
}

// Delete removes the given keys.
func (c *CacheHelper) Delete(ctx context.Context, keys ...string) error {
	if c.client == nil || len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache delete failed: %w", err)
	}
	return nil
}

// CacheOrExecute returns the cached value for key when present, otherwise
// runs execute, caches its result for ttl and stores it into dest. Cache
// write failures are swallowed; the fresh value still reaches the caller.
func (c *CacheHelper) CacheOrExecute(
	ctx context.Context,
	key string,
	dest any,
	ttl time.Duration,
	execute func() (any, error),
) error {
	found, err := c.Get(ctx, key, dest)
	if err == nil && found {
		return nil
	}

	value, err := execute()
	if err != nil {
		return err
	}

	_ = c.Set(ctx, key, value, ttl)

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	return json.Unmarshal(data, dest)
}
