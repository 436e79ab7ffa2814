package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

var errNoClient = errors.New("Redis client is not initialized")

// Cache is a thin JSON layer over Redis used for read-through patient
// lookups. A nil *Cache is valid and caches nothing.
type Cache struct {
	client *redis.Client
	prefix string
}

// NewCache creates a new Cache instance, ensuring that client is not nil.
func NewCache(client *redis.Client, prefix string) (*Cache, error) {
	if client == nil {
		return nil, errNoClient
	}
	return &Cache{client: client, prefix: prefix}, nil
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c == nil {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.client.Del(ctx, full...).Err()
}

// DeleteAll removes every key under the cache prefix matching pattern.
func (c *Cache) DeleteAll(ctx context.Context, pattern string) error {
	if c == nil {
		return nil
	}
	// Use SCAN for better efficiency on large datasets
	iter := c.client.Scan(ctx, 0, c.key(pattern), 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// SetJSON stores value encoded as JSON.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to encode cache value")
	}
	return c.client.Set(ctx, c.key(key), data, expiration).Err()
}

// GetJSON decodes the cached value into dst. A miss returns false and no error.
func (c *Cache) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err == redis.Nil {
		return false, nil // key does not exist
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, errors.Wrap(err, "failed to decode cache value")
	}
	return true, nil
}
