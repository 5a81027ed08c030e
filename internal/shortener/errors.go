package shortener

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the code or id does not exist.
	ErrNotFound = errors.New("link not found")

	// ErrDuplicateCode indicates the short code is already taken. Surfaced
	// verbatim for custom codes; retried internally for generated ones.
	ErrDuplicateCode = errors.New("short code already taken")

	// ErrInvalidURL indicates the destination is not a valid absolute URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrInvalidCode indicates a custom code violates length or character
	// set constraints.
	ErrInvalidCode = errors.New("invalid short code")

	// ErrNotAuthorized indicates the requester is not the link's owner.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrGone matches any GoneError via errors.Is.
	ErrGone = errors.New("link gone")
)

// Gone reasons.
const (
	ReasonInactive = "inactive"
	ReasonExpired  = "expired"
)

// GoneError indicates a link that once existed but is no longer served,
// either deactivated or past its expiry. Distinct from ErrNotFound so callers
// can render 410 vs 404.
type GoneError struct {
	Reason string
}

func (e *GoneError) Error() string {
	return "link gone: " + e.Reason
}

func (e *GoneError) Is(target error) bool {
	return target == ErrGone
}

// InfraError wraps a durable-store failure that is fatal to the current
// operation.
type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}
