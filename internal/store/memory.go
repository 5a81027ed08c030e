package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/linkshort/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.LinkStore. The
// mutex makes every operation, including increment-and-append, atomic.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*memoryLink
	byCode  map[shortener.Code]*memoryLink
	nextSeq int64
}

type memoryLink struct {
	link   shortener.ShortLink
	clicks []shortener.ClickEvent
	seq    int64 // creation order tiebreaker for ListByOwner
}

// NewMemoryStore creates a new in-memory link store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[string]*memoryLink),
		byCode: make(map[shortener.Code]*memoryLink),
	}
}

func (m *MemoryStore) Create(_ context.Context, link *shortener.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byCode[link.Code]; exists {
		return shortener.ErrDuplicateCode
	}

	now := time.Now()
	link.ID = uuid.NewString()
	link.CreatedAt = now
	link.UpdatedAt = now

	m.nextSeq++
	entry := &memoryLink{link: *link, seq: m.nextSeq}
	m.byID[link.ID] = entry
	m.byCode[link.Code] = entry

	return nil
}

func (m *MemoryStore) FindByCode(_ context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.byCode[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	link := entry.link

	return &link, nil
}

func (m *MemoryStore) FindByID(_ context.Context, id string) (*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.byID[id]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	link := entry.link

	return &link, nil
}

func (m *MemoryStore) ListByOwner(_ context.Context, ownerID string) ([]*shortener.ShortLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var entries []*memoryLink

	for _, entry := range m.byID {
		if entry.link.OwnerID == ownerID && ownerID != "" {
			entries = append(entries, entry)
		}
	}

	// Newest first
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq > entries[j].seq
	})

	links := make([]*shortener.ShortLink, 0, len(entries))

	for _, entry := range entries {
		link := entry.link
		links = append(links, &link)
	}

	return links, nil
}

func (m *MemoryStore) IncrementClickAndAppend(
	_ context.Context, code shortener.Code, event shortener.ClickEvent,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.byCode[code]
	if !ok {
		return shortener.ErrNotFound
	}

	entry.link.ClickCount++
	entry.link.UpdatedAt = time.Now()
	entry.clicks = append(entry.clicks, event)

	return nil
}

func (m *MemoryStore) Clicks(_ context.Context, code shortener.Code) ([]shortener.ClickEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.byCode[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	clicks := make([]shortener.ClickEvent, len(entry.clicks))
	copy(clicks, entry.clicks)

	return clicks, nil
}

func (m *MemoryStore) SetActive(_ context.Context, id string, active bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.byID[id]
	if !ok {
		return shortener.ErrNotFound
	}

	entry.link.Active = active
	entry.link.UpdatedAt = time.Now()

	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.byID[id]
	if !ok {
		return shortener.ErrNotFound
	}

	delete(m.byID, id)
	delete(m.byCode, entry.link.Code)

	return nil
}

// Compile-time check.
var _ shortener.LinkStore = (*MemoryStore)(nil)
