package shortener

import (
	"context"
	"errors"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// maxGenerateAttempts bounds the collision retry loop when minting random
// codes. Exhausting it means the code space is pathologically crowded and is
// treated as an infrastructure failure, not a conflict.
const maxGenerateAttempts = 5

// ShortenRequest carries the validated inputs for creating a short link.
type ShortenRequest struct {
	OriginalURL string
	CustomCode  Code       // empty to mint a random code
	ExpiresAt   *time.Time // nil for no expiry
	Owner       *Identity  // nil for anonymous links
}

// AnalyticsReport summarizes a link's usage.
type AnalyticsReport struct {
	OriginalURL  string
	Code         Code
	TotalClicks  int64
	CreatedAt    time.Time
	ClickHistory []ClickEvent
	ClicksByDate map[string]int
}

// ShortenService creates and manages short links.
type ShortenService struct {
	store    LinkStore
	cache    Cache
	generate CodeGenerator
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewShortenService creates a shorten service.
func NewShortenService(
	store LinkStore,
	cache Cache,
	generate CodeGenerator,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *ShortenService {
	return &ShortenService{
		store:    store,
		cache:    cache,
		generate: generate,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Shorten creates a new short link.
//
// Custom codes are attempted exactly once; a duplicate surfaces as
// ErrDuplicateCode so the caller can render a conflict. Generated codes
// retry on duplicates up to maxGenerateAttempts, since the store's insert is
// the uniqueness gate and concurrent requests can mint the same code.
func (s *ShortenService) Shorten(ctx context.Context, req ShortenRequest) (*ShortLink, error) {
	if !validAbsoluteURL(req.OriginalURL) {
		return nil, ErrInvalidURL
	}

	link := &ShortLink{
		OriginalURL: req.OriginalURL,
		ExpiresAt:   req.ExpiresAt,
		Active:      true,
	}
	if req.Owner != nil {
		link.OwnerID = req.Owner.UserID
	}

	if req.CustomCode != "" {
		if !ValidCustomCode(req.CustomCode) {
			return nil, ErrInvalidCode
		}

		link.Code = req.CustomCode

		if err := s.store.Create(ctx, link); err != nil {
			if errors.Is(err, ErrDuplicateCode) {
				return nil, ErrDuplicateCode
			}

			return nil, &InfraError{Op: "create link", Err: err}
		}
	} else {
		if err := s.createWithGeneratedCode(ctx, link); err != nil {
			return nil, err
		}
	}

	// Best-effort cache populate so the first redirect is warm.
	if ttl := clampTTL(s.cacheTTL, link.ExpiresAt, s.now()); ttl > 0 {
		s.cache.Set(ctx, link.Code, link.OriginalURL, ttl)
	}

	return link, nil
}

func (s *ShortenService) createWithGeneratedCode(ctx context.Context, link *ShortLink) error {
	for attempt := 1; attempt <= maxGenerateAttempts; attempt++ {
		link.Code = s.generate()

		err := s.store.Create(ctx, link)
		if err == nil {
			return nil
		}

		if !errors.Is(err, ErrDuplicateCode) {
			return &InfraError{Op: "create link", Err: err}
		}

		s.logger.Warn("short code collision, retrying",
			zap.String("code", string(link.Code)),
			zap.Int("attempt", attempt),
		)
	}

	return &InfraError{Op: "create link", Err: errors.New("exhausted short code attempts")}
}

// ListByOwner returns the owner's links, newest first.
func (s *ShortenService) ListByOwner(ctx context.Context, owner Identity) ([]*ShortLink, error) {
	links, err := s.store.ListByOwner(ctx, owner.UserID)
	if err != nil {
		return nil, &InfraError{Op: "list links", Err: err}
	}

	return links, nil
}

// Analytics returns the usage report for a code. Ownership is enforced only
// when the link has an owner; anonymous links are visible to any caller.
func (s *ShortenService) Analytics(ctx context.Context, code Code, requester *Identity) (*AnalyticsReport, error) {
	link, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, &InfraError{Op: "find link", Err: err}
	}

	if !link.OwnedBy(requester) {
		return nil, ErrNotAuthorized
	}

	history, err := s.store.Clicks(ctx, code)
	if err != nil {
		return nil, &InfraError{Op: "load clicks", Err: err}
	}

	byDate := make(map[string]int, len(history))
	for _, click := range history {
		byDate[click.Timestamp.UTC().Format(time.DateOnly)]++
	}

	return &AnalyticsReport{
		OriginalURL:  link.OriginalURL,
		Code:         link.Code,
		TotalClicks:  link.ClickCount,
		CreatedAt:    link.CreatedAt,
		ClickHistory: history,
		ClicksByDate: byDate,
	}, nil
}

// Deactivate marks a link inactive after an ownership check. The cache entry
// is invalidated before the durable update so a stale destination cannot be
// served for the full TTL afterwards.
func (s *ShortenService) Deactivate(ctx context.Context, id string, requester *Identity) error {
	link, err := s.authorize(ctx, id, requester)
	if err != nil {
		return err
	}

	s.cache.Delete(ctx, link.Code)

	if err := s.store.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return &InfraError{Op: "deactivate link", Err: err}
	}

	return nil
}

// Delete removes a link after an ownership check, invalidating the cache
// entry before the durable delete.
func (s *ShortenService) Delete(ctx context.Context, id string, requester *Identity) error {
	link, err := s.authorize(ctx, id, requester)
	if err != nil {
		return err
	}

	s.cache.Delete(ctx, link.Code)

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}

		return &InfraError{Op: "delete link", Err: err}
	}

	return nil
}

func (s *ShortenService) authorize(ctx context.Context, id string, requester *Identity) (*ShortLink, error) {
	link, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}

		return nil, &InfraError{Op: "find link", Err: err}
	}

	if !link.OwnedBy(requester) {
		return nil, ErrNotAuthorized
	}

	return link, nil
}

// validAbsoluteURL reports whether s parses as an absolute http(s) URL with a
// host.
func validAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
