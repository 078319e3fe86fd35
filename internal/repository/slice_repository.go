package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/logger"

	"go.uber.org/zap"
)

// SliceRepository persists one kind of slice state as JSON in a domain.Store.
// Updates run load -> reduce -> save under a per-key mutex, so writers within the
// process never lose each other's changes; across processes the last write wins.
type SliceRepository[T any] struct {
	store   domain.Store
	initial func() T

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewSliceRepository returns a repository whose absent slices read as initial().
func NewSliceRepository[T any](store domain.Store, initial func() T) *SliceRepository[T] {
	return &SliceRepository[T]{
		store:   store,
		initial: initial,
		locks:   make(map[string]*sync.Mutex),
	}
}

func (r *SliceRepository[T]) lock(key string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[key]
	if !ok {
		l = &sync.Mutex{}
		r.locks[key] = l
	}
	return l
}

// Get returns the stored state, or the initial state if nothing was saved yet.
func (r *SliceRepository[T]) Get(ctx context.Context, key string) (T, error) {
	raw, err := r.store.Load(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrSliceNotFound) {
			return r.initial(), nil
		}
		var zero T
		return zero, domain.NewInternalError(fmt.Sprintf("failed to load %s", key), err)
	}
	return r.decode(key, raw)
}

// Update applies reduce to the current state and saves the result. A reduce error
// aborts the update and is returned as is.
func (r *SliceRepository[T]) Update(ctx context.Context, key string, reduce func(T) (T, error)) (T, error) {
	l := r.lock(key)
	l.Lock()
	defer l.Unlock()

	current, err := r.Get(ctx, key)
	if err != nil {
		return current, err
	}
	next, err := reduce(current)
	if err != nil {
		return current, err
	}

	raw, err := json.Marshal(next)
	if err != nil {
		return current, domain.NewInternalError(fmt.Sprintf("failed to encode %s", key), err)
	}
	if err := r.store.Save(ctx, key, raw); err != nil {
		logger.Get().Error("Failed to save slice", zap.String("key", key), zap.Error(err))
		return current, domain.NewInternalError(fmt.Sprintf("failed to save %s", key), err)
	}
	return next, nil
}

// Watch calls fn with every state saved under key until ctx is done. Values that fail
// to decode are logged and skipped.
func (r *SliceRepository[T]) Watch(ctx context.Context, key string, fn func(T)) error {
	return r.store.Subscribe(ctx, key, func(raw []byte) {
		state, err := r.decode(key, raw)
		if err != nil {
			logger.Get().Warn("Ignoring undecodable slice update", zap.String("key", key), zap.Error(err))
			return
		}
		fn(state)
	})
}

func (r *SliceRepository[T]) decode(key string, raw []byte) (T, error) {
	var state T
	if err := json.Unmarshal(raw, &state); err != nil {
		var zero T
		return zero, domain.NewInternalError(fmt.Sprintf("failed to decode %s", key), err)
	}
	return state, nil
}
