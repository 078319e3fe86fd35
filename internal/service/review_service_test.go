package service

import (
	"context"
	"testing"
	"time"

	"quiz-maker/internal/adapter/store"
	"quiz-maker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewService_AddReviewAndStats(t *testing.T) {
	ctx := context.Background()
	svc := NewReviewService(store.NewMemoryStore())

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.Average)

	for _, rating := range []int{5, 4, 4} {
		require.NoError(t, svc.AddReview(ctx, rating))
	}
	stats, err = svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 4.3, stats.Average)
	assert.Equal(t, [domain.MaxRating]int{0, 0, 0, 2, 1}, stats.Counts)

	for _, rating := range []int{0, 6} {
		err := svc.AddReview(ctx, rating)
		requireFieldError(t, err, "rating")
	}
}

func TestReviewService_WatchPicksUpForeignWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shared := store.NewMemoryStore()
	reader := NewReviewService(shared)
	writer := NewReviewService(shared)

	_, err := reader.Stats(ctx)
	require.NoError(t, err)

	go func() { _ = reader.Watch(ctx) }()
	require.Eventually(t, func() bool {
		_ = writer.AddReview(ctx, 2)
		stats, err := reader.Stats(ctx)
		return err == nil && stats.Total > 0
	}, time.Second, 10*time.Millisecond)
}
