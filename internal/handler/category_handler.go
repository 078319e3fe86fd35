package handler

import (
	"time"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/dto"
	"quiz-maker/internal/middleware"
	"quiz-maker/internal/service"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	categories service.CategoryService
}

func NewCategoryHandler(categories service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// GetCategories godoc
// @Summary List quiz categories
// @Description Returns the built-in categories and, for a logged-in user, their custom ones
// @Tags categories
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.CategoriesResponse
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c *fiber.Ctx) error {
	resp, err := h.categories.ListCategories(c.UserContext(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// AddCategory godoc
// @Summary Add a custom category
// @Description Names are trimmed, must be 4 to 80 characters and unique. At most 5 per user.
// @Tags categories
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.AddCategoryRequest true "Category"
// @Success 201 {object} dto.CategoriesResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /categories [post]
func (h *CategoryHandler) AddCategory(c *fiber.Ctx) error {
	var req dto.AddCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	user := middleware.CurrentUser(c)
	if _, err := h.categories.AddCategory(c.UserContext(), user, req.Name); err != nil {
		return err
	}
	resp, err := h.categories.ListCategories(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// DeleteCategory godoc
// @Summary Delete a custom category
// @Description Built-in categories are never removed
// @Tags categories
// @Produce json
// @Security ApiKeyAuth
// @Param name path string true "Category name"
// @Success 200 {object} dto.CategoriesResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /categories/{name} [delete]
func (h *CategoryHandler) DeleteCategory(c *fiber.Ctx) error {
	name := middleware.CategoryName(c)
	user := middleware.CurrentUser(c)
	if _, err := h.categories.DeleteCategory(c.UserContext(), user, name); err != nil {
		return err
	}
	resp, err := h.categories.ListCategories(c.UserContext(), user)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetDifficulties godoc
// @Summary List difficulties
// @Description Returns the fixed difficulties with their per-question time limit
// @Tags categories
// @Produce json
// @Success 200 {object} dto.DifficultiesResponse
// @Router /difficulties [get]
func (h *CategoryHandler) GetDifficulties(c *fiber.Ctx) error {
	resp := dto.DifficultiesResponse{Difficulties: make([]dto.DifficultyInfo, 0, len(domain.Difficulties))}
	for _, d := range domain.Difficulties {
		resp.Difficulties = append(resp.Difficulties, dto.DifficultyInfo{
			Name:             d,
			TimeLimitSeconds: int(d.TimerDuration() / time.Second),
		})
	}
	return c.JSON(resp)
}
