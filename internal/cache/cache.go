// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anatraveneta/escoba/engine"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "escoba:suggest:"

// Cache stores ranked suggestions in redis, keyed by the round hash. A nil
// *Cache is valid and caches nothing.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects to the redis server at url and pings it.
func New(ctx context.Context, url string, ttl time.Duration) (*Cache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Cache{rdb: rdb, ttl: ttl}, nil
}

// Key returns the redis key for a round hash.
func Key(hash uint64) string {
	return fmt.Sprintf("%s%016x", keyPrefix, hash)
}

// Get returns the cached ranking for hash. A miss returns ok=false and no error.
func (c *Cache) Get(ctx context.Context, hash uint64) ([]engine.Evaluation, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	data, err := c.rdb.Get(ctx, Key(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var ranked []engine.Evaluation
	if err := json.Unmarshal(data, &ranked); err != nil {
		return nil, false, fmt.Errorf("decode cached ranking: %w", err)
	}
	return ranked, true, nil
}

// Put stores a ranking under hash for the configured TTL.
func (c *Cache) Put(ctx context.Context, hash uint64, ranked []engine.Evaluation) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(ranked)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Key(hash), data, c.ttl).Err()
}

// Close releases the redis connection.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.rdb.Close()
}
