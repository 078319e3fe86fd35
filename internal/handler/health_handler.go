package handler

import (
	"context"
	"time"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	store domain.Store
	cache domain.Cache
}

func NewHealthHandler(store domain.Store, cache domain.Cache) *HealthHandler {
	return &HealthHandler{store: store, cache: cache}
}

// HealthResponse reports the state of each backend.
type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
	Cache  string `json:"cache"`
}

func pingStatus(ctx context.Context, name string, ping func(context.Context) error) string {
	if err := ping(ctx); err != nil {
		logger.Get().Warn("Health check failed", zap.String("component", name), zap.Error(err))
		return "down"
	}
	return "up"
}

// Health godoc
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handler.HealthResponse
// @Failure 503 {object} handler.HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{
		Status: "ok",
		Store:  pingStatus(ctx, "store", h.store.Ping),
		Cache:  pingStatus(ctx, "cache", h.cache.Ping),
	}
	if resp.Store != "up" || resp.Cache != "up" {
		resp.Status = "degraded"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
