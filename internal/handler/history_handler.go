package handler

import (
	"quiz-maker/internal/middleware"
	"quiz-maker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type HistoryHandler struct {
	history service.HistoryService
}

func NewHistoryHandler(history service.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// GetHistory godoc
// @Summary Quiz history of the current user
// @Description Sorted by endTime descending unless sort is given; a chosen column defaults to ascending
// @Tags history
// @Produce json
// @Security ApiKeyAuth
// @Param sort query string false "category, difficulty, score, totalQuestions or endTime"
// @Param order query string false "asc or desc"
// @Success 200 {array} dto.HistoryEntryResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /history [get]
func (h *HistoryHandler) GetHistory(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	entries, err := h.history.List(c.UserContext(), user.Sub, c.Query("sort"), c.Query("order"))
	if err != nil {
		return err
	}
	return c.JSON(entries)
}
