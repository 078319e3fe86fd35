package handler

import (
	"quiz-maker/internal/dto"
	"quiz-maker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ReviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// SubmitReview godoc
// @Summary Rate the quiz experience
// @Tags reviews
// @Accept json
// @Produce json
// @Param request body dto.ReviewRequest true "Rating from 1 to 5"
// @Success 201 {object} dto.MessageResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) SubmitReview(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	if err := h.reviews.AddReview(c.UserContext(), req.Rating); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MessageResponse{Message: "Thanks for your feedback!"})
}

// GetReviewStats godoc
// @Summary Review statistics
// @Description Total count, average rating and per-star counts. Admin only.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} domain.ReviewStats
// @Failure 401 {object} middleware.ErrorResponse
// @Failure 403 {object} middleware.ErrorResponse
// @Router /admin/reviews/stats [get]
func (h *ReviewHandler) GetReviewStats(c *fiber.Ctx) error {
	stats, err := h.reviews.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(stats)
}
