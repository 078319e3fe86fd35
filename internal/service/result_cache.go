package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"quiz-maker/internal/cache"
	"quiz-maker/internal/domain"
	"quiz-maker/internal/logger"

	"go.uber.org/zap"
)

// ErrResultNotFound is returned when no finished result is cached for a session.
var ErrResultNotFound = domain.NewNotFoundError("quiz result not found or expired")

// ResultCacheService keeps finished quiz results for the results view.
type ResultCacheService interface {
	Put(ctx context.Context, result *domain.QuizResult) error
	Get(ctx context.Context, sessionID string) (*domain.QuizResult, error)
}

type resultCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

func NewResultCacheService(c domain.Cache, ttl time.Duration) ResultCacheService {
	if c == nil {
		logger.Get().Warn("ResultCacheService initialized with nil cache. Service will be no-op.")
		return &noopResultCacheService{}
	}
	return &resultCacheServiceImpl{cache: c, ttl: ttl}
}

func resultKey(sessionID string) string {
	return cache.GenerateCacheKey("quiz", "result", sessionID)
}

func (s *resultCacheServiceImpl) Put(ctx context.Context, result *domain.QuizResult) error {
	if result == nil {
		return domain.NewInternalError("cannot cache nil result", nil)
	}

	key := resultKey(result.SessionID)
	data, err := json.Marshal(result)
	if err != nil {
		return domain.NewInternalError("failed to marshal result for caching", err)
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		logger.Get().Error("Failed to cache quiz result", zap.Error(err), zap.String("key", key))
		return domain.NewInternalError(fmt.Sprintf("failed to cache result for key %s", key), err)
	}
	logger.Get().Debug("Cached quiz result", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

// Get returns the cached result and restarts its TTL, so a result stays available while
// the results view keeps reading it.
func (s *resultCacheServiceImpl) Get(ctx context.Context, sessionID string) (*domain.QuizResult, error) {
	key := resultKey(sessionID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, ErrResultNotFound
		}
		logger.Get().Error("Failed to get quiz result from cache", zap.Error(err), zap.String("key", key))
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get result for key %s", key), err)
	}
	if len(data) == 0 {
		return nil, ErrResultNotFound
	}

	var result domain.QuizResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal result for key %s", key), err)
	}

	if err := s.cache.Touch(ctx, key, s.ttl); err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		logger.Get().Warn("Failed to extend cached quiz result", zap.Error(err), zap.String("key", key))
	}
	return &result, nil
}

type noopResultCacheService struct{}

func (noopResultCacheService) Put(context.Context, *domain.QuizResult) error { return nil }

func (noopResultCacheService) Get(context.Context, string) (*domain.QuizResult, error) {
	return nil, ErrResultNotFound
}
