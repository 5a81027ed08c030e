package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/linkshort/internal/shortener"
	"go.uber.org/zap"
)

// cacheOpTimeout bounds every cache operation so a slow cache cannot stall
// the redirect path.
const cacheOpTimeout = 250 * time.Millisecond

// RedisCache is a Redis implementation of shortener.Cache. Entries carry only
// the destination string. Every failure degrades to a miss or no-op and is
// logged here, never surfaced to callers.
type RedisCache struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisCache creates a new Redis-backed destination cache.
func NewRedisCache(client *redis.Client, logger *zap.Logger) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: "url:",
		logger: logger,
	}
}

func (c *RedisCache) Get(ctx context.Context, code shortener.Code) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	destination, err := c.client.Get(ctx, c.prefix+string(code)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache get failed",
				zap.String("code", string(code)),
				zap.Error(err),
			)
		}

		return "", false
	}

	return destination, true
}

func (c *RedisCache) Set(ctx context.Context, code shortener.Code, destination string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	if err := c.client.Set(ctx, c.prefix+string(code), destination, ttl).Err(); err != nil {
		c.logger.Warn("cache set failed",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}
}

func (c *RedisCache) Delete(ctx context.Context, code shortener.Code) {
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	if err := c.client.Del(ctx, c.prefix+string(code)).Err(); err != nil {
		c.logger.Warn("cache delete failed",
			zap.String("code", string(code)),
			zap.Error(err),
		)
	}
}

// Compile-time check.
var _ shortener.Cache = (*RedisCache)(nil)
