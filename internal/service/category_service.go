package service

import (
	"context"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/dto"
	"quiz-maker/internal/logger"
	"quiz-maker/internal/repository"
	"quiz-maker/internal/validation"

	"go.uber.org/zap"
)

// CategoryService manages per-user custom categories and gates quiz start.
type CategoryService interface {
	ListCategories(ctx context.Context, user *domain.User) (dto.CategoriesResponse, error)
	AddCategory(ctx context.Context, user *domain.User, name string) ([]string, error)
	// DeleteCategory removes a custom category. Built-in and unknown names are a no-op.
	DeleteCategory(ctx context.Context, user *domain.User, name string) ([]string, error)
	ValidateStart(category, difficulty string, count int) (domain.QuizRequest, error)
}

type categoryServiceImpl struct {
	repo      *repository.SliceRepository[domain.CustomCategories]
	validator *validation.Validator
}

func NewCategoryService(store domain.Store) CategoryService {
	return &categoryServiceImpl{
		repo:      repository.NewSliceRepository(store, func() domain.CustomCategories { return domain.CustomCategories{} }),
		validator: validation.NewValidator(),
	}
}

func requireUser(user *domain.User) error {
	if user == nil || user.Sub == "" {
		return domain.NewUnauthorizedError("you must be logged in to manage categories")
	}
	return nil
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, user *domain.User) (dto.CategoriesResponse, error) {
	custom := domain.CustomCategories{}
	if user != nil && user.Sub != "" {
		var err error
		custom, err = s.repo.Get(ctx, domain.CustomCategoriesKey(user.Sub))
		if err != nil {
			return dto.CategoriesResponse{}, err
		}
	}
	return dto.CategoriesResponse{
		BuiltIn: append([]string(nil), domain.BuiltInCategories...),
		Custom:  append([]string{}, custom...),
		All:     custom.All(),
	}, nil
}

func (s *categoryServiceImpl) AddCategory(ctx context.Context, user *domain.User, name string) ([]string, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	next, err := s.repo.Update(ctx, domain.CustomCategoriesKey(user.Sub), func(c domain.CustomCategories) (domain.CustomCategories, error) {
		return domain.AddCustomCategory(c, name)
	})
	if err != nil {
		return nil, err
	}
	logger.Get().Info("Custom category added", zap.String("user_id", user.Sub), zap.Int("custom_count", len(next)))
	return next, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, user *domain.User, name string) ([]string, error) {
	if err := requireUser(user); err != nil {
		return nil, err
	}
	key := domain.CustomCategoriesKey(user.Sub)
	if domain.IsBuiltInCategory(name) {
		current, err := s.repo.Get(ctx, key)
		return current, err
	}

	return s.repo.Update(ctx, key, func(c domain.CustomCategories) (domain.CustomCategories, error) {
		next, _ := domain.RemoveCustomCategory(c, name)
		return next, nil
	})
}

func (s *categoryServiceImpl) ValidateStart(category, difficulty string, count int) (domain.QuizRequest, error) {
	return s.validator.ValidateQuizSetup(category, difficulty, count)
}
