package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/timer"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	var verrs domain.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	require.True(t, verrs.HasField(field), "expected a %q field error, got %v", field, verrs)
}

type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) Generate(ctx context.Context, req domain.QuizRequest) ([]domain.Question, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if v := args.Get(0); v != nil {
		return v.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCache) Touch(ctx context.Context, key string, ttl time.Duration) error {
	return m.Called(ctx, key, ttl).Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type manualHandle struct {
	mu      sync.Mutex
	stopped bool
}

func (h *manualHandle) Stop() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	was := !h.stopped
	h.stopped = true
	return was
}

type manualTask struct {
	d      time.Duration
	f      func()
	handle *manualHandle
}

// manualScheduler only runs callbacks when a test fires them.
type manualScheduler struct {
	mu    sync.Mutex
	tasks []*manualTask
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) timer.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &manualTask{d: d, f: f, handle: &manualHandle{}}
	s.tasks = append(s.tasks, t)
	return t.handle
}

func (s *manualScheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *manualScheduler) task(i int) *manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tasks[i]
}

// fireLast expires the most recently scheduled countdown.
func (s *manualScheduler) fireLast() {
	s.mu.Lock()
	t := s.tasks[len(s.tasks)-1]
	s.mu.Unlock()
	t.f()
}
