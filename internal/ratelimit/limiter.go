package ratelimit

import (
	"context"
	"fmt"
)

// LimitExceeded describes the first limit a request overran.
type LimitExceeded struct {
	Config LimitConfig
	Count  int64
}

// Limiter decides whether a request identified by a client key may proceed
// through an endpoint's configured limits.
type Limiter interface {
	// Allow evaluates every limit. It returns false and the exceeded limit's
	// details when any window is over its max (nil when allowed).
	Allow(ctx context.Context, clientKey, path string, limits []LimitConfig) (bool, *LimitExceeded, error)
}

// SlidingWindowLimiter enforces window/max pairs using a sliding window over
// a Store. All windows must pass.
type SlidingWindowLimiter struct {
	store Store
}

// NewSlidingWindowLimiter creates a new sliding window rate limiter.
func NewSlidingWindowLimiter(store Store) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{store: store}
}

func (l *SlidingWindowLimiter) Allow(
	ctx context.Context, clientKey, path string, limits []LimitConfig,
) (bool, *LimitExceeded, error) {
	for _, limit := range limits {
		count, err := l.store.Record(ctx, l.buildKey(clientKey, path, limit), limit.Window)
		if err != nil {
			return false, nil, err
		}

		if count > limit.Max {
			return false, &LimitExceeded{Config: limit, Count: count}, nil
		}
	}

	return true, nil, nil
}

// buildKey combines client, route template, and window so each pair is
// tracked independently.
func (l *SlidingWindowLimiter) buildKey(clientKey, path string, limit LimitConfig) string {
	return fmt.Sprintf("%s:%s:%d", clientKey, path, limit.Window.Milliseconds())
}

// Compile-time check.
var _ Limiter = (*SlidingWindowLimiter)(nil)
