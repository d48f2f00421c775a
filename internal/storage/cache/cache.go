// Package cache keeps short-lived copies of hot read models such as the catalog listing.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a byte oriented key value cache with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisCache stores entries in Redis.
type RedisCache struct {
	client redisClient
}

// NewRedisCache wraps a go-redis client.
func NewRedisCache(client redisClient) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	bs, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return bs, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Ping checks connectivity.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// NopCache never stores anything.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, string) error                     { return nil }

// GetJSON decodes a cached JSON value into dst. Undecodable entries count as a miss.
func GetJSON(ctx context.Context, c Cache, key string, dst any) (bool, error) {
	bs, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(bs, dst); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON stores value encoded as JSON.
func SetJSON(ctx context.Context, c Cache, key string, value any, ttl time.Duration) error {
	bs, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, bs, ttl)
}
