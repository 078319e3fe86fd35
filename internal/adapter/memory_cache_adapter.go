package adapter

import (
	"context"
	"sync"
	"time"

	"quiz-maker/internal/domain"
)

type memoryCacheItem struct {
	value     []byte
	expiresAt time.Time
}

func (i memoryCacheItem) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && !now.Before(i.expiresAt)
}

// MemoryCacheAdapter is a process-local domain.Cache used when no Redis is configured.
// Expired entries are evicted lazily on access.
type MemoryCacheAdapter struct {
	mu    sync.Mutex
	items map[string]memoryCacheItem
	now   func() time.Time
}

var _ domain.Cache = (*MemoryCacheAdapter)(nil)

func NewMemoryCacheAdapter() *MemoryCacheAdapter {
	return &MemoryCacheAdapter{
		items: make(map[string]memoryCacheItem),
		now:   time.Now,
	}
}

// lookupLocked returns the live item for key, dropping it if it has expired.
func (m *MemoryCacheAdapter) lookupLocked(key string) (memoryCacheItem, bool) {
	item, ok := m.items[key]
	if !ok {
		return memoryCacheItem{}, false
	}
	if item.expired(m.now()) {
		delete(m.items, key)
		return memoryCacheItem{}, false
	}
	return item, true
}

func (m *MemoryCacheAdapter) deadline(ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return m.now().Add(ttl)
}

func (m *MemoryCacheAdapter) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookupLocked(key)
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	return append([]byte(nil), item.value...), nil
}

func (m *MemoryCacheAdapter) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = memoryCacheItem{
		value:     append([]byte(nil), value...),
		expiresAt: m.deadline(ttl),
	}
	return nil
}

func (m *MemoryCacheAdapter) Touch(_ context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.lookupLocked(key)
	if !ok {
		return domain.ErrCacheMiss
	}
	item.expiresAt = m.deadline(ttl)
	m.items[key] = item
	return nil
}

func (m *MemoryCacheAdapter) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *MemoryCacheAdapter) Ping(context.Context) error {
	return nil
}
