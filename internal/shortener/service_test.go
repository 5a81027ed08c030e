package shortener_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/linkshort/internal/shortener"
	"github.com/serroba/linkshort/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const cacheTTL = time.Hour

func newTestService(s shortener.LinkStore, c shortener.Cache) *shortener.ShortenService {
	generate, _ := shortener.NewCodeGenerator(7)

	return shortener.NewShortenService(s, c, generate, cacheTTL, zap.NewNop())
}

func TestShorten(t *testing.T) {
	t.Run("creates link with generated code", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
		})

		require.NoError(t, err)
		assert.Len(t, string(link.Code), 7)
		assert.Equal(t, testURL, link.OriginalURL)
		assert.NotEmpty(t, link.ID)
		assert.True(t, link.Active)
		assert.Empty(t, link.OwnerID)
	})

	t.Run("creates link with custom code", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
			CustomCode:  "my-link",
		})

		require.NoError(t, err)
		assert.Equal(t, shortener.Code("my-link"), link.Code)
	})

	t.Run("attaches owner when identity given", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
			Owner:       &shortener.Identity{UserID: "user-1"},
		})

		require.NoError(t, err)
		assert.Equal(t, "user-1", link.OwnerID)
	})

	t.Run("rejects invalid urls", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		for _, rawURL := range []string{"", "not a url", "ftp://example.com/file", "/relative/path", "example.com"} {
			_, err := service.Shorten(context.Background(), shortener.ShortenRequest{OriginalURL: rawURL})

			assert.ErrorIs(t, err, shortener.ErrInvalidURL, "url %q", rawURL)
		}
	})

	t.Run("rejects invalid custom codes", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		_, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
			CustomCode:  "a b",
		})

		assert.ErrorIs(t, err, shortener.ErrInvalidCode)
	})

	t.Run("custom code conflict surfaces without retry", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		first, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: "https://example.com/one",
			CustomCode:  "taken",
		})
		require.NoError(t, err)

		_, err = service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: "https://example.com/two",
			CustomCode:  "taken",
		})
		assert.ErrorIs(t, err, shortener.ErrDuplicateCode)

		// First mapping unaffected
		got, err := memStore.FindByCode(context.Background(), "taken")
		require.NoError(t, err)
		assert.Equal(t, first.OriginalURL, got.OriginalURL)
	})

	t.Run("retries generated code on duplicate", func(t *testing.T) {
		wrapped := &errStore{LinkStore: store.NewMemoryStore(), duplicates: 2}
		service := newTestService(wrapped, store.NewNoopCache())

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
		})

		require.NoError(t, err)
		assert.NotEmpty(t, link.Code)
		assert.Equal(t, 3, wrapped.createCalls)
	})

	t.Run("fails after exhausting collision retries", func(t *testing.T) {
		wrapped := &errStore{LinkStore: store.NewMemoryStore(), duplicates: 100}
		service := newTestService(wrapped, store.NewNoopCache())

		_, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
		})

		require.Error(t, err)
		assert.NotErrorIs(t, err, shortener.ErrDuplicateCode)

		var infraErr *shortener.InfraError
		assert.ErrorAs(t, err, &infraErr)
	})

	t.Run("wraps store failures as infrastructure errors", func(t *testing.T) {
		wrapped := &errStore{LinkStore: store.NewMemoryStore(), createErr: errMock}
		service := newTestService(wrapped, store.NewNoopCache())

		_, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
		})

		var infraErr *shortener.InfraError
		require.ErrorAs(t, err, &infraErr)
		assert.ErrorIs(t, err, errMock)
	})

	t.Run("populates cache on success", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		cache := newFakeCache()
		service := newTestService(memStore, cache)

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
		})
		require.NoError(t, err)

		destination, ok := cache.Get(context.Background(), link.Code)
		assert.True(t, ok)
		assert.Equal(t, testURL, destination)
		assert.Equal(t, cacheTTL, cache.ttl(link.Code))
	})

	t.Run("clamps cache ttl to expiry", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		cache := newFakeCache()
		service := newTestService(memStore, cache)

		expiresAt := time.Now().Add(10 * time.Minute)
		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
			ExpiresAt:   &expiresAt,
		})
		require.NoError(t, err)

		assert.LessOrEqual(t, cache.ttl(link.Code), 10*time.Minute)
	})

	t.Run("does not cache already-expired links", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		cache := newFakeCache()
		service := newTestService(memStore, cache)

		expiresAt := time.Now().Add(-time.Minute)
		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
			ExpiresAt:   &expiresAt,
		})
		require.NoError(t, err)

		_, ok := cache.Get(context.Background(), link.Code)
		assert.False(t, ok)
	})
}

func TestListByOwner(t *testing.T) {
	t.Run("returns owned links newest first", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())
		owner := shortener.Identity{UserID: "user-1"}

		first, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: "https://example.com/first", Owner: &owner,
		})
		require.NoError(t, err)

		second, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: "https://example.com/second", Owner: &owner,
		})
		require.NoError(t, err)

		// Another owner's link must not appear
		_, err = service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: "https://example.com/other",
			Owner:       &shortener.Identity{UserID: "user-2"},
		})
		require.NoError(t, err)

		links, err := service.ListByOwner(context.Background(), owner)

		require.NoError(t, err)
		require.Len(t, links, 2)
		assert.Equal(t, second.Code, links[0].Code)
		assert.Equal(t, first.Code, links[1].Code)
	})
}

func TestAnalytics(t *testing.T) {
	record := func(t *testing.T, s shortener.LinkStore, code shortener.Code, ts time.Time) {
		t.Helper()

		err := s.IncrementClickAndAppend(context.Background(), code, shortener.ClickEvent{
			Timestamp: ts,
			UserAgent: "TestAgent/1.0",
		})
		require.NoError(t, err)
	}

	t.Run("buckets clicks by utc calendar day", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{OriginalURL: testURL})
		require.NoError(t, err)

		record(t, memStore, link.Code, time.Date(2024, 1, 1, 23, 59, 59, 0, time.UTC))
		record(t, memStore, link.Code, time.Date(2024, 1, 2, 0, 0, 1, 0, time.UTC))

		report, err := service.Analytics(context.Background(), link.Code, nil)

		require.NoError(t, err)
		assert.Equal(t, int64(2), report.TotalClicks)
		assert.Len(t, report.ClickHistory, 2)
		assert.Equal(t, map[string]int{"2024-01-01": 1, "2024-01-02": 1}, report.ClicksByDate)
	})

	t.Run("converts timestamps to utc before bucketing", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{OriginalURL: testURL})
		require.NoError(t, err)

		// 01:00+02:00 is 23:00 UTC the previous day
		zone := time.FixedZone("UTC+2", 2*60*60)
		record(t, memStore, link.Code, time.Date(2024, 1, 2, 1, 0, 0, 0, zone))

		report, err := service.Analytics(context.Background(), link.Code, nil)

		require.NoError(t, err)
		assert.Equal(t, map[string]int{"2024-01-01": 1}, report.ClicksByDate)
	})

	t.Run("returns not found for unknown code", func(t *testing.T) {
		service := newTestService(store.NewMemoryStore(), store.NewNoopCache())

		_, err := service.Analytics(context.Background(), "doesnotexist", nil)

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("rejects non-owner for owned links", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
			Owner:       &shortener.Identity{UserID: "user-1"},
		})
		require.NoError(t, err)

		_, err = service.Analytics(context.Background(), link.Code, &shortener.Identity{UserID: "user-2"})
		assert.ErrorIs(t, err, shortener.ErrNotAuthorized)

		_, err = service.Analytics(context.Background(), link.Code, nil)
		assert.ErrorIs(t, err, shortener.ErrNotAuthorized)
	})

	t.Run("allows anyone for anonymous links", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{OriginalURL: testURL})
		require.NoError(t, err)

		_, err = service.Analytics(context.Background(), link.Code, &shortener.Identity{UserID: "anyone"})
		assert.NoError(t, err)
	})
}

func TestDeactivate(t *testing.T) {
	t.Run("invalidates cache and stops resolution", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		cache := newFakeCache()
		service := newTestService(memStore, cache)

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{OriginalURL: testURL})
		require.NoError(t, err)

		// Cached by Shorten; deactivation must remove the entry
		err = service.Deactivate(context.Background(), link.ID, nil)
		require.NoError(t, err)

		_, ok := cache.Get(context.Background(), link.Code)
		assert.False(t, ok)
		assert.Contains(t, cache.deleted(), link.Code)

		recorder := shortener.NewClickRecorder(memStore, nil, zap.NewNop())
		resolver := shortener.NewRedirectResolver(memStore, cache, recorder, cacheTTL, zap.NewNop())

		_, err = resolver.Resolve(context.Background(), link.Code, shortener.ClickEvent{})
		assert.ErrorIs(t, err, shortener.ErrGone)
	})

	t.Run("rejects non-owner", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
			Owner:       &shortener.Identity{UserID: "user-1"},
		})
		require.NoError(t, err)

		err = service.Deactivate(context.Background(), link.ID, &shortener.Identity{UserID: "user-2"})
		assert.ErrorIs(t, err, shortener.ErrNotAuthorized)
	})
}

func TestDelete(t *testing.T) {
	t.Run("invalidates cache before durable delete", func(t *testing.T) {
		var opLog []string

		memStore := store.NewMemoryStore()
		wrapped := &errStore{LinkStore: memStore, deleteLog: &opLog}
		cache := &orderedCache{fakeCache: newFakeCache(), opLog: &opLog}
		service := newTestService(wrapped, cache)

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{OriginalURL: testURL})
		require.NoError(t, err)

		err = service.Delete(context.Background(), link.ID, nil)
		require.NoError(t, err)

		assert.Equal(t, []string{"cache.Delete", "store.Delete"}, opLog)

		_, err = memStore.FindByCode(context.Background(), link.Code)
		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})

	t.Run("rejects non-owner and keeps the link", func(t *testing.T) {
		memStore := store.NewMemoryStore()
		service := newTestService(memStore, store.NewNoopCache())

		link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
			OriginalURL: testURL,
			Owner:       &shortener.Identity{UserID: "user-1"},
		})
		require.NoError(t, err)

		err = service.Delete(context.Background(), link.ID, &shortener.Identity{UserID: "user-2"})
		assert.ErrorIs(t, err, shortener.ErrNotAuthorized)

		_, err = memStore.FindByCode(context.Background(), link.Code)
		assert.NoError(t, err)
	})

	t.Run("returns not found for unknown id", func(t *testing.T) {
		service := newTestService(store.NewMemoryStore(), store.NewNoopCache())

		err := service.Delete(context.Background(), "no-such-id", nil)

		assert.ErrorIs(t, err, shortener.ErrNotFound)
	})
}

// orderedCache appends cache deletes to the shared op log so tests can assert
// invalidation ordering.
type orderedCache struct {
	*fakeCache
	opLog *[]string
}

func (c *orderedCache) Delete(ctx context.Context, code shortener.Code) {
	*c.opLog = append(*c.opLog, "cache.Delete")
	c.fakeCache.Delete(ctx, code)
}

func TestEndToEndScenario(t *testing.T) {
	memStore := store.NewMemoryStore()
	cache := store.NewNoopCache()
	service := newTestService(memStore, cache)
	recorder := shortener.NewClickRecorder(memStore, nil, zap.NewNop())
	resolver := shortener.NewRedirectResolver(memStore, cache, recorder, cacheTTL, zap.NewNop())

	link, err := service.Shorten(context.Background(), shortener.ShortenRequest{
		OriginalURL: "https://example.com/a/b",
		CustomCode:  "abc",
	})
	require.NoError(t, err)
	assert.Equal(t, shortener.Code("abc"), link.Code)

	destination, err := resolver.Resolve(context.Background(), "abc", shortener.ClickEvent{})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a/b", destination)

	got, err := memStore.FindByCode(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ClickCount)

	destination, err = resolver.Resolve(context.Background(), "abc", shortener.ClickEvent{})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a/b", destination)

	got, err = memStore.FindByCode(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ClickCount)

	err = service.Delete(context.Background(), link.ID, nil)
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "abc", shortener.ClickEvent{})
	assert.ErrorIs(t, err, shortener.ErrNotFound)
	// Deleted is "never existed", not "gone"
	assert.NotErrorIs(t, err, shortener.ErrGone)
}
