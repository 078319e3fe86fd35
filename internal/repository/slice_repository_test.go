package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quiz-maker/internal/adapter/store"
	"quiz-maker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStore) Save(ctx context.Context, key string, value []byte) error {
	return m.Called(ctx, key, value).Error(0)
}

func (m *MockStore) Subscribe(ctx context.Context, key string, fn func([]byte)) error {
	return m.Called(ctx, key, fn).Error(0)
}

func (m *MockStore) Ping(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockStore) Close() error { return m.Called().Error(0) }

func TestSliceRepository_GetDefaults(t *testing.T) {
	repo := NewSliceRepository(store.NewMemoryStore(), domain.DefaultSettings)

	state, err := repo.Get(context.Background(), domain.SliceSettings)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, state.Theme)
}

func TestSliceRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewSliceRepository(store.NewMemoryStore(), func() domain.ReviewState { return domain.ReviewState{} })

	_, err := repo.Update(ctx, domain.SliceReviews, func(s domain.ReviewState) (domain.ReviewState, error) {
		return domain.AddReview(s, domain.Review{Rating: 4})
	})
	require.NoError(t, err)

	_, err = repo.Update(ctx, domain.SliceReviews, func(s domain.ReviewState) (domain.ReviewState, error) {
		return domain.AddReview(s, domain.Review{Rating: 9})
	})
	assert.Error(t, err, "reducer errors abort the update")

	state, err := repo.Get(ctx, domain.SliceReviews)
	require.NoError(t, err)
	assert.Equal(t, []domain.Review{{Rating: 4}}, state.Reviews)
}

func TestSliceRepository_ConcurrentUpdatesAreSerialized(t *testing.T) {
	ctx := context.Background()
	repo := NewSliceRepository(store.NewMemoryStore(), func() domain.ReviewState { return domain.ReviewState{} })

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(rating int) {
			defer wg.Done()
			_, err := repo.Update(ctx, domain.SliceReviews, func(s domain.ReviewState) (domain.ReviewState, error) {
				return domain.AddReview(s, domain.Review{Rating: rating})
			})
			assert.NoError(t, err)
		}(i%5 + 1)
	}
	wg.Wait()

	state, err := repo.Get(ctx, domain.SliceReviews)
	require.NoError(t, err)
	assert.Len(t, state.Reviews, 50)
}

func TestSliceRepository_StoreErrors(t *testing.T) {
	ctx := context.Background()
	ms := new(MockStore)
	repo := NewSliceRepository(ms, domain.DefaultSettings)

	ms.On("Load", ctx, domain.SliceSettings).Return(nil, errors.New("unreachable")).Once()
	_, err := repo.Get(ctx, domain.SliceSettings)
	assert.Equal(t, domain.CodeInternal, domain.CodeOf(err))

	ms.On("Load", ctx, domain.SliceSettings).Return([]byte(`{"theme":`), nil).Once()
	_, err = repo.Get(ctx, domain.SliceSettings)
	assert.Equal(t, domain.CodeInternal, domain.CodeOf(err))

	ms.On("Load", ctx, domain.SliceSettings).Return(nil, domain.ErrSliceNotFound).Once()
	ms.On("Save", ctx, domain.SliceSettings, []byte(`{"theme":"dark"}`)).Return(errors.New("read-only")).Once()
	_, err = repo.Update(ctx, domain.SliceSettings, func(s domain.SettingsState) (domain.SettingsState, error) {
		return domain.SetTheme(s, domain.ThemeDark)
	})
	assert.Equal(t, domain.CodeInternal, domain.CodeOf(err))
	ms.AssertExpectations(t)
}

func TestSliceRepository_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := store.NewMemoryStore()
	repo := NewSliceRepository(s, domain.DefaultSettings)

	updates := make(chan domain.SettingsState, 2)
	require.NoError(t, repo.Watch(ctx, domain.SliceSettings, func(st domain.SettingsState) { updates <- st }))

	require.NoError(t, s.Save(ctx, domain.SliceSettings, []byte("not json")))
	require.NoError(t, s.Save(ctx, domain.SliceSettings, []byte(`{"theme":"dark"}`)))

	select {
	case st := <-updates:
		assert.Equal(t, domain.ThemeDark, st.Theme)
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}
	assert.Empty(t, updates)
}
