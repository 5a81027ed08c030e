package shortener

import (
	"context"
	"time"
)

// Code represents a short link code.
type Code string

// Identity identifies an authenticated caller. Resolution of credentials into
// an Identity happens upstream; the core only ever sees the result.
type Identity struct {
	UserID string
}

// ShortLink is the persistent record mapping a short code to a destination URL.
type ShortLink struct {
	ID          string
	Code        Code
	OriginalURL string
	OwnerID     string // empty for anonymous links
	ClickCount  int64
	ExpiresAt   *time.Time
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expired reports whether the link's expiry, if set, has passed.
func (l *ShortLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// OwnedBy reports whether the given identity may manage this link.
// Anonymous links (no owner) are manageable by anyone.
func (l *ShortLink) OwnedBy(requester *Identity) bool {
	if l.OwnerID == "" {
		return true
	}

	return requester != nil && requester.UserID == l.OwnerID
}

// ClickEvent is one recorded visit to a short code. Request metadata is
// captured verbatim, never validated or normalized.
type ClickEvent struct {
	Timestamp time.Time
	IPAddress string
	UserAgent string
	Referrer  string
}

// LinkStore is the durable, authoritative record keeper for short links.
// Its Create is the single uniqueness gate for short codes: callers treat
// ErrDuplicateCode as an expected, retryable outcome, not a prior-existence
// check failure.
type LinkStore interface {
	// Create inserts a new link, assigning ID/CreatedAt/UpdatedAt.
	// Returns ErrDuplicateCode if the code is already taken.
	Create(ctx context.Context, link *ShortLink) error

	FindByCode(ctx context.Context, code Code) (*ShortLink, error)
	FindByID(ctx context.Context, id string) (*ShortLink, error)

	// ListByOwner returns the owner's links ordered by creation time, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*ShortLink, error)

	// IncrementClickAndAppend atomically increments the click counter and
	// appends the event. Concurrent calls for the same code must all be
	// reflected in the final count.
	IncrementClickAndAppend(ctx context.Context, code Code, event ClickEvent) error

	// Clicks returns the link's click history in insertion order.
	Clicks(ctx context.Context, code Code) ([]ClickEvent, error)

	SetActive(ctx context.Context, id string, active bool) error
	Delete(ctx context.Context, id string) error
}

// Cache is an optional code->destination cache. Implementations never surface
// failures: a broken or absent cache degrades Get to a miss and Set/Delete to
// no-ops, logging at the point of occurrence.
type Cache interface {
	Get(ctx context.Context, code Code) (destination string, ok bool)
	Set(ctx context.Context, code Code, destination string, ttl time.Duration)
	Delete(ctx context.Context, code Code)
}
