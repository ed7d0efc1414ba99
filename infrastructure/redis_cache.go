package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"astraldraw/domain/interfaces"

	"github.com/redis/go-redis/v9"
)

const cacheNamespace = "astraldraw"

// RedisCacheStore implements the CacheStore interface on top of Redis.
// Values are stored as JSON under a namespaced key.
type RedisCacheStore struct {
	client redis.UniversalClient
}

// NewRedisCacheStore creates a cache store against the given Redis addresses.
// A single address gets a plain client, multiple addresses a cluster client.
func NewRedisCacheStore(addrs []string, password string) *RedisCacheStore {
	var rdb redis.UniversalClient

	if len(addrs) > 1 {
		rdb = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:    addrs,
			Password: password,
		})
	} else {
		addr := "localhost:6379"
		if len(addrs) == 1 {
			addr = addrs[0]
		}
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       0,
		})
	}

	return &RedisCacheStore{client: rdb}
}

// Get loads the JSON value at key into dest, reporting whether it was present
func (c *RedisCacheStore) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.namespaced(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read cache key %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return true, nil
}

// Set stores value at key as JSON with the given TTL
func (c *RedisCacheStore) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}

	if err := c.client.Set(ctx, c.namespaced(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

// Delete removes a single key
func (c *RedisCacheStore) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.namespaced(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

// DeleteMany removes a set of keys in one round trip
func (c *RedisCacheStore) DeleteMany(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = c.namespaced(key)
	}

	if err := c.client.Del(ctx, namespaced...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache keys: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connections
func (c *RedisCacheStore) Close() error {
	return c.client.Close()
}

func (c *RedisCacheStore) namespaced(key string) string {
	return cacheNamespace + ":" + key
}

var _ interfaces.CacheStore = (*RedisCacheStore)(nil)
