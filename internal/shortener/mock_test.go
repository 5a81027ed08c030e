package shortener_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/serroba/linkshort/internal/shortener"
)

var errMock = errors.New("mock error")

const testURL = "https://example.com/very/long/path"

// fakeCache is an in-memory shortener.Cache that records operations so tests
// can assert on populate/invalidate behavior.
type fakeCache struct {
	mu      sync.Mutex
	entries map[shortener.Code]string
	ttls    map[shortener.Code]time.Duration
	deletes []shortener.Code
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		entries: make(map[shortener.Code]string),
		ttls:    make(map[shortener.Code]time.Duration),
	}
}

func (c *fakeCache) Get(_ context.Context, code shortener.Code) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	destination, ok := c.entries[code]

	return destination, ok
}

func (c *fakeCache) Set(_ context.Context, code shortener.Code, destination string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[code] = destination
	c.ttls[code] = ttl
}

func (c *fakeCache) Delete(_ context.Context, code shortener.Code) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, code)
	c.deletes = append(c.deletes, code)
}

func (c *fakeCache) ttl(code shortener.Code) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.ttls[code]
}

func (c *fakeCache) deleted() []shortener.Code {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]shortener.Code(nil), c.deletes...)
}

// errStore wraps a LinkStore and injects failures.
type errStore struct {
	shortener.LinkStore

	mu            sync.Mutex
	duplicates    int // number of Creates that fail with ErrDuplicateCode before delegating
	createErr     error
	createCalls   int
	findByCodeErr error
	incrementErr  error
	deleteLog     *[]string // optional shared op log, appended to as "store.Delete"
}

func (s *errStore) Create(ctx context.Context, link *shortener.ShortLink) error {
	s.mu.Lock()
	s.createCalls++
	if s.createErr != nil {
		s.mu.Unlock()

		return s.createErr
	}

	if s.duplicates > 0 {
		s.duplicates--
		s.mu.Unlock()

		return shortener.ErrDuplicateCode
	}
	s.mu.Unlock()

	return s.LinkStore.Create(ctx, link)
}

func (s *errStore) FindByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	if s.findByCodeErr != nil {
		return nil, s.findByCodeErr
	}

	return s.LinkStore.FindByCode(ctx, code)
}

func (s *errStore) IncrementClickAndAppend(
	ctx context.Context, code shortener.Code, event shortener.ClickEvent,
) error {
	if s.incrementErr != nil {
		return s.incrementErr
	}

	return s.LinkStore.IncrementClickAndAppend(ctx, code, event)
}

func (s *errStore) Delete(ctx context.Context, id string) error {
	if s.deleteLog != nil {
		*s.deleteLog = append(*s.deleteLog, "store.Delete")
	}

	return s.LinkStore.Delete(ctx, id)
}
