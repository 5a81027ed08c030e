package shortener

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// RedirectResolver answers "where does this code go, and is it still valid".
// Reads follow cache-aside: the cache is consulted first and repopulated from
// the durable store on a miss. Lifecycle (inactive/expired) is evaluated
// lazily at resolution time; there is no background sweep.
type RedirectResolver struct {
	store    LinkStore
	cache    Cache
	recorder *ClickRecorder
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewRedirectResolver creates a resolver. cacheTTL bounds how long a cached
// destination may be served without re-validation against the store.
func NewRedirectResolver(
	store LinkStore,
	cache Cache,
	recorder *ClickRecorder,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *RedirectResolver {
	return &RedirectResolver{
		store:    store,
		cache:    cache,
		recorder: recorder,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Resolve returns the destination for a code, recording the click.
//
// On a cache hit the destination is returned immediately and the click is
// recorded detached (fire-and-forget). On a miss the durable store is
// consulted, lifecycle rules applied, the cache repopulated best-effort, and
// the click recorded synchronously so the first resolution is consistent.
//
// Failures: ErrNotFound for unknown codes, a GoneError for inactive or
// expired links, an InfraError when the store is unavailable.
func (r *RedirectResolver) Resolve(ctx context.Context, code Code, click ClickEvent) (string, error) {
	if click.Timestamp.IsZero() {
		click.Timestamp = r.now()
	}

	if destination, ok := r.cache.Get(ctx, code); ok {
		r.recorder.RecordDetached(code, click)

		return destination, nil
	}

	link, err := r.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", ErrNotFound
		}

		return "", &InfraError{Op: "find link", Err: err}
	}

	if !link.Active {
		return "", &GoneError{Reason: ReasonInactive}
	}

	if link.Expired(r.now()) {
		return "", &GoneError{Reason: ReasonExpired}
	}

	// Best-effort repopulate; the cache logs its own failures.
	if ttl := clampTTL(r.cacheTTL, link.ExpiresAt, r.now()); ttl > 0 {
		r.cache.Set(ctx, code, link.OriginalURL, ttl)
	}

	r.recorder.RecordLoaded(ctx, link, click)

	return link.OriginalURL, nil
}

// clampTTL caps the cache TTL so entries for expiring links never outlive
// the link itself.
func clampTTL(ttl time.Duration, expiresAt *time.Time, now time.Time) time.Duration {
	if expiresAt == nil {
		return ttl
	}

	if until := expiresAt.Sub(now); until < ttl {
		return until
	}

	return ttl
}
