package store

import (
	"context"
	"time"

	"github.com/serroba/linkshort/internal/shortener"
)

// NoopCache is the shortener.Cache used when no cache is configured: every
// get misses and writes are discarded, preserving correctness without
// conditional branching in callers.
type NoopCache struct{}

// NewNoopCache creates a no-op cache.
func NewNoopCache() *NoopCache {
	return &NoopCache{}
}

func (NoopCache) Get(context.Context, shortener.Code) (string, bool) { return "", false }

func (NoopCache) Set(context.Context, shortener.Code, string, time.Duration) {}

func (NoopCache) Delete(context.Context, shortener.Code) {}

// Compile-time check.
var _ shortener.Cache = NoopCache{}
