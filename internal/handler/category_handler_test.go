package handler_test

import (
	"net/url"
	"testing"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/dto"
	"quiz-maker/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler(t *testing.T) {
	s := newTestServer(t)

	var list dto.CategoriesResponse
	require.Equal(t, fiber.StatusOK, s.call(t, fiber.MethodGet, "/api/categories", "", nil, &list))
	assert.Equal(t, domain.BuiltInCategories, list.All)
	assert.Empty(t, list.Custom)

	var errResp middleware.ErrorResponse
	status := s.call(t, fiber.MethodPost, "/api/categories", "", dto.AddCategoryRequest{Name: "Kubernetes"}, &errResp)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	require.Equal(t, fiber.StatusCreated,
		s.call(t, fiber.MethodPost, "/api/categories", aliceToken, dto.AddCategoryRequest{Name: "Machine Learning"}, &list))
	assert.Equal(t, []string{"Machine Learning"}, list.Custom)

	var verr middleware.ValidationErrorResponse
	status = s.call(t, fiber.MethodPost, "/api/categories", aliceToken, dto.AddCategoryRequest{Name: "Go"}, &verr)
	assert.Equal(t, fiber.StatusBadRequest, status)
	require.Len(t, verr.Errors, 1)
	assert.Equal(t, "category", verr.Errors[0].Field)

	require.Equal(t, fiber.StatusOK,
		s.call(t, fiber.MethodDelete, "/api/categories/"+url.PathEscape("Computer Networks"), aliceToken, nil, &list))
	assert.Contains(t, list.All, "Computer Networks")

	require.Equal(t, fiber.StatusOK,
		s.call(t, fiber.MethodDelete, "/api/categories/"+url.PathEscape("Machine Learning"), aliceToken, nil, &list))
	assert.Empty(t, list.Custom)
}

func TestCategoryHandler_GetDifficulties(t *testing.T) {
	s := newTestServer(t)

	var resp dto.DifficultiesResponse
	require.Equal(t, fiber.StatusOK, s.call(t, fiber.MethodGet, "/api/difficulties", "", nil, &resp))
	assert.Equal(t, []dto.DifficultyInfo{
		{Name: domain.DifficultyEasy, TimeLimitSeconds: 30},
		{Name: domain.DifficultyMedium, TimeLimitSeconds: 20},
		{Name: domain.DifficultyHard, TimeLimitSeconds: 10},
	}, resp.Difficulties)
}
