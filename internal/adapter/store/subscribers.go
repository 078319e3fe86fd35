// Package store implements domain.Store on memory, SQLite and Redis.
package store

import (
	"context"
	"sync"
)

// subscribers fans saved values out to in-process listeners, keyed by slice.
type subscribers struct {
	mu     sync.Mutex
	nextID int
	byKey  map[string]map[int]func([]byte)
}

func newSubscribers() *subscribers {
	return &subscribers{byKey: make(map[string]map[int]func([]byte))}
}

// add registers fn until ctx is done.
func (s *subscribers) add(ctx context.Context, key string, fn func([]byte)) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	if s.byKey[key] == nil {
		s.byKey[key] = make(map[int]func([]byte))
	}
	s.byKey[key][id] = fn
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.byKey[key], id)
		if len(s.byKey[key]) == 0 {
			delete(s.byKey, key)
		}
	}()
}

func (s *subscribers) notify(key string, value []byte) {
	s.mu.Lock()
	fns := make([]func([]byte), 0, len(s.byKey[key]))
	for _, fn := range s.byKey[key] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(append([]byte(nil), value...))
	}
}
