package cache

import (
	"context"
	"time"

	"community-calendar/core/config"
	"community-calendar/core/logger"

	"github.com/redis/go-redis/v9"
)

// Cache is a thin key-value layer over redis. A nil Cache (redis not
// configured or unreachable) degrades to a no-op so callers never branch.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
	Delete(ctx context.Context, keys ...string)
	Ping(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
}

func NewRedisCache(cfg config.RedisConfig) Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Cache:Init", "addr", cfg.Addr, "error", err)
		return noopCache{}
	}

	logger.Info("Cache initialized", "addr", cfg.Addr)
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Error("Cache:Get", "key", key, "error", err)
		}
		return "", false
	}
	return val, true
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Error("Cache:Set", "key", key, "error", err)
	}
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Error("Cache:Delete", "keys", keys, "error", err)
	}
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string) (string, bool)          { return "", false }
func (noopCache) Set(ctx context.Context, key, value string, _ time.Duration) {}
func (noopCache) Delete(ctx context.Context, keys ...string)                  {}
func (noopCache) Ping(ctx context.Context) error                              { return nil }

// NewNoopCache returns a cache that stores nothing. Used in tests and when
// redis is disabled.
func NewNoopCache() Cache {
	return noopCache{}
}
