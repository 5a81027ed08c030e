package store

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/serroba/linkshort/internal/ratelimit"
)

// RateLimitRedisStore implements ratelimit.Store on a Redis sorted set per
// key, so counters survive restarts and are shared across replicas. Scores
// are request timestamps in nanoseconds; members are unique so concurrent
// requests in the same nanosecond still count separately.
type RateLimitRedisStore struct {
	client *redis.Client
	prefix string
}

// NewRateLimitRedisStore creates a Redis-backed sliding window store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()
	redisKey := s.prefix + key

	pipe := s.client.TxPipeline()

	pipe.ZRemRangeByScore(ctx, redisKey, "0", formatScore(now.Add(-window)))
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: uuid.NewString(),
	})
	count := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return count.Val(), nil
}

func formatScore(t time.Time) string {
	return strconv.FormatInt(t.UnixNano(), 10)
}

// Compile-time check.
var _ ratelimit.Store = (*RateLimitRedisStore)(nil)
