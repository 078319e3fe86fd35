package service

import (
	"context"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/logger"
	"quiz-maker/internal/repository"

	"go.uber.org/zap"
)

type SettingsService interface {
	GetSettings(ctx context.Context) (domain.SettingsState, error)
	SetTheme(ctx context.Context, theme string) (domain.SettingsState, error)
}

type settingsServiceImpl struct {
	repo *repository.SliceRepository[domain.SettingsState]
}

func NewSettingsService(store domain.Store) SettingsService {
	return &settingsServiceImpl{repo: repository.NewSliceRepository(store, domain.DefaultSettings)}
}

func (s *settingsServiceImpl) GetSettings(ctx context.Context) (domain.SettingsState, error) {
	return s.repo.Get(ctx, domain.SliceSettings)
}

func (s *settingsServiceImpl) SetTheme(ctx context.Context, theme string) (domain.SettingsState, error) {
	state, err := s.repo.Update(ctx, domain.SliceSettings, func(state domain.SettingsState) (domain.SettingsState, error) {
		return domain.SetTheme(state, domain.Theme(theme))
	})
	if err != nil {
		return state, err
	}
	logger.Get().Debug("Theme updated", zap.String("theme", theme))
	return state, nil
}
