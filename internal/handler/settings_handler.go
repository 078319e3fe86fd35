package handler

import (
	"quiz-maker/internal/dto"
	"quiz-maker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settings service.SettingsService
}

func NewSettingsHandler(settings service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSettings godoc
// @Summary Display settings
// @Tags settings
// @Produce json
// @Success 200 {object} domain.SettingsState
// @Router /settings [get]
func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	settings, err := h.settings.GetSettings(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(settings)
}

// SetTheme godoc
// @Summary Change the display theme
// @Tags settings
// @Accept json
// @Produce json
// @Param request body dto.ThemeRequest true "light or dark"
// @Success 200 {object} domain.SettingsState
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /settings/theme [put]
func (h *SettingsHandler) SetTheme(c *fiber.Ctx) error {
	var req dto.ThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	settings, err := h.settings.SetTheme(c.UserContext(), req.Theme)
	if err != nil {
		return err
	}
	return c.JSON(settings)
}
