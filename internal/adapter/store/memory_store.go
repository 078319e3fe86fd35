package store

import (
	"context"
	"sync"

	"quiz-maker/internal/domain"
)

// MemoryStore keeps slices in process memory. Nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
	subs   *subscribers
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values: make(map[string][]byte),
		subs:   newSubscribers(),
	}
}

var _ domain.Store = (*MemoryStore)(nil)

func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return nil, domain.ErrSliceNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.values[key] = append([]byte(nil), value...)
	m.mu.Unlock()

	m.subs.notify(key, value)
	return nil
}

func (m *MemoryStore) Subscribe(ctx context.Context, key string, fn func([]byte)) error {
	m.subs.add(ctx, key, fn)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
