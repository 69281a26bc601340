// SPDX-License-Identifier: MIT

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	xglog "github.com/ManuGH/vodplay/internal/log"
)

const (
	defaultRedisPrefix = "vodplay:cache:"
	redisOpTimeout     = 2 * time.Second
)

// RedisCache is a Redis-backed implementation of Cache. Expiry is delegated
// to Redis key TTLs.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
	stats  struct {
		hits   atomic.Int64
		misses atomic.Int64
		sets   atomic.Int64
	}
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr      string // Redis server address (host:port)
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisCache connects to Redis and verifies the connection with PING.
func NewRedisCache(config RedisConfig) (*RedisCache, error) {
	if config.Addr == "" {
		return nil, errors.New("redis cache: addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr:         config.Addr,
		Password:     config.Password,
		DB:           config.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	c := newRedisCacheWithClient(client, config.KeyPrefix)
	c.logger.Info().
		Str("event", "cache.redis.connected").
		Str("addr", config.Addr).
		Int("db", config.DB).
		Msg("connected to Redis cache")
	return c, nil
}

func newRedisCacheWithClient(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisCache{
		client: client,
		prefix: prefix,
		logger: xglog.WithComponent("cache"),
	}
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.stats.misses.Add(1)
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis get failed")
		c.stats.misses.Add(1)
		return nil, false
	}
	c.stats.hits.Add(1)
	return val, true
}

// Set stores a value in Redis with TTL. A non-positive TTL never expires.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if ttl < 0 {
		ttl = 0
	}
	if err := c.client.Set(ctx, c.prefix+key, value, ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis set failed")
		return
	}
	c.stats.sets.Add(1)
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("redis delete failed")
	}
}

// Stats returns cache statistics. CurrentSize counts keys under the prefix.
func (c *RedisCache) Stats() Stats {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	size := 0
	iter := c.client.Scan(ctx, 0, c.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		size++
	}
	if err := iter.Err(); err != nil {
		c.logger.Warn().Err(err).Msg("redis scan failed")
	}

	return Stats{
		Hits:        c.stats.hits.Load(),
		Misses:      c.stats.misses.Load(),
		Sets:        c.stats.sets.Load(),
		CurrentSize: size,
	}
}

// HealthCheck checks if Redis is available.
func (c *RedisCache) HealthCheck(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
