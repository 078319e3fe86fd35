package middleware_test

import (
	"net/http/httptest"
	"strings"
	"testing"

	"quiz-maker/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSessionID(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/sessions/:id", middleware.NewValidationMiddleware().ValidateSessionID(), func(c *fiber.Ctx) error {
		return c.SendString(middleware.SessionID(c))
	})

	tests := []struct {
		id         string
		wantStatus int
	}{
		{"01HZX3J6Y8W6QK3V5T0N8R2M4C", fiber.StatusOK},
		{"not-a-ulid", fiber.StatusBadRequest},
		{"01HZX3J6Y8W6QK3V5T0N8R2M4", fiber.StatusBadRequest},
	}
	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/sessions/"+tt.id, nil))
		require.NoError(t, err)
		assert.Equal(t, tt.wantStatus, resp.StatusCode, tt.id)
	}
}

func TestValidateCategoryName(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	var got string
	app.Delete("/categories/:name", middleware.NewValidationMiddleware().ValidateCategoryName(), func(c *fiber.Ctx) error {
		got = middleware.CategoryName(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, "/categories/Machine%20Learning", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "Machine Learning", got)

	for _, path := range []string{
		"/categories/%20%20",
		"/categories/" + strings.Repeat("x", 81),
	} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodDelete, path, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestRequireJSON(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Post("/reviews", middleware.RequireJSON(), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	tests := []struct {
		contentType string
		wantStatus  int
	}{
		{fiber.MIMEApplicationJSON, fiber.StatusCreated},
		{fiber.MIMEApplicationJSONCharsetUTF8, fiber.StatusCreated},
		{fiber.MIMETextPlain, fiber.StatusUnsupportedMediaType},
		{"", fiber.StatusUnsupportedMediaType},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(fiber.MethodPost, "/reviews", strings.NewReader(`{"rating":5}`))
		if tt.contentType != "" {
			req.Header.Set(fiber.HeaderContentType, tt.contentType)
		}
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, tt.wantStatus, resp.StatusCode, tt.contentType)
	}
}
