package service

import (
	"context"
	"sync"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/logger"
	"quiz-maker/internal/repository"

	"go.uber.org/zap"
)

// ReviewService collects star ratings and aggregates them for the admin view.
type ReviewService interface {
	AddReview(ctx context.Context, rating int) error
	Stats(ctx context.Context) (domain.ReviewStats, error)
	// Watch keeps cached stats current with saves from any process sharing the store.
	Watch(ctx context.Context) error
}

type reviewServiceImpl struct {
	repo *repository.SliceRepository[domain.ReviewState]

	mu     sync.RWMutex
	cached *domain.ReviewStats
}

func NewReviewService(store domain.Store) ReviewService {
	return &reviewServiceImpl{
		repo: repository.NewSliceRepository(store, func() domain.ReviewState { return domain.ReviewState{} }),
	}
}

func (s *reviewServiceImpl) AddReview(ctx context.Context, rating int) error {
	review := domain.Review{Rating: rating}
	if err := review.Validate(); err != nil {
		return err
	}

	state, err := s.repo.Update(ctx, domain.SliceReviews, func(state domain.ReviewState) (domain.ReviewState, error) {
		return domain.AddReview(state, review)
	})
	if err != nil {
		return err
	}
	s.setCached(state.Stats())
	logger.Get().Info("Review submitted", zap.Int("rating", rating), zap.Int("total_reviews", len(state.Reviews)))
	return nil
}

func (s *reviewServiceImpl) Stats(ctx context.Context) (domain.ReviewStats, error) {
	s.mu.RLock()
	cached := s.cached
	s.mu.RUnlock()
	if cached != nil {
		return *cached, nil
	}

	state, err := s.repo.Get(ctx, domain.SliceReviews)
	if err != nil {
		return domain.ReviewStats{}, err
	}
	stats := state.Stats()
	s.setCached(stats)
	return stats, nil
}

func (s *reviewServiceImpl) Watch(ctx context.Context) error {
	return s.repo.Watch(ctx, domain.SliceReviews, func(state domain.ReviewState) {
		s.setCached(state.Stats())
	})
}

func (s *reviewServiceImpl) setCached(stats domain.ReviewStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = &stats
}
