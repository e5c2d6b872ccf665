// Package cache is the read-through cache layer over redis. Caching is
// best effort: every connectivity failure degrades to a miss or no-op
// and is logged, never returned to the caller.
package cache

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Default TTLs: list results churn faster than detail views.
const (
	ListTTL   = 5 * time.Minute
	DetailTTL = 10 * time.Minute
)

// Client is the cache contract injected into services. Get reports a
// miss via the bool; absence is never an error.
type Client interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	DeletePattern(ctx context.Context, pattern string) int
	Close() error
}

type redisCache struct {
	rdb *redis.Client
}

// NewRedis wraps a connected redis client. The caller owns connecting;
// a dead client just means every Get is a miss.
func NewRedis(rdb *redis.Client) Client {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("key", key).Msg("cache get failed, treating as miss")
		}
		return "", false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		logger.Warn().Err(err).Strs("keys", keys).Msg("cache delete failed")
	}
}

// DeletePattern removes every key matching a glob pattern using SCAN,
// returning the number of keys deleted.
func (c *redisCache) DeletePattern(ctx context.Context, pattern string) int {
	deleted := 0
	iter := c.rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn().Err(err).Str("key", iter.Val()).Msg("cache delete failed")
			continue
		}
		deleted++
	}
	if err := iter.Err(); err != nil {
		logger.Warn().Err(err).Str("pattern", pattern).Msg("cache scan failed")
	}
	return deleted
}

func (c *redisCache) Close() error {
	return c.rdb.Close()
}
