package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler_DomainErrors(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{domain.NewNotFoundError("quiz session not found"), fiber.StatusNotFound},
		{domain.NewUnauthorizedError("login required"), fiber.StatusUnauthorized},
		{domain.NewForbiddenError("admin only"), fiber.StatusForbidden},
		{domain.NewStaleAnswerError(2, 1), fiber.StatusConflict},
		{domain.NewInvalidStateError("quiz has not finished"), fiber.StatusConflict},
		{domain.NewConfirmationRequiredError(), fiber.StatusConflict},
		{domain.NewExhaustedRetriesError(4, nil), fiber.StatusBadGateway},
		{domain.NewMalformedResponseError("no JSON", nil), fiber.StatusBadGateway},
		{domain.NewTransientFailureError(errors.New("timeout")), fiber.StatusServiceUnavailable},
		{fmt.Errorf("wrapped: %w", domain.NewInternalError("boom", nil)), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		code := domain.CodeOf(tt.err)
		t.Run(string(code), func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(code), body.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
		})
	}
}

func TestErrorHandler_StaleAnswerCarriesContext(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error { return domain.NewStaleAnswerError(4, 3) })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(4), body.Details["current_index"])
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      domain.ValidationErrors
		wantCode domain.ErrorCode
	}{
		{
			name:     "missing only",
			err:      domain.ValidationErrors{domain.NewMissingInputError("category", "Please select a category.")},
			wantCode: domain.CodeMissingInput,
		},
		{
			name: "mixed",
			err: domain.ValidationErrors{
				domain.NewMissingInputError("category", "Please select a category."),
				domain.NewFieldValidationError("number_of_questions", "Number of questions must be between 10 and 30.", 5),
			},
			wantCode: domain.CodeValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var body middleware.ValidationErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, string(tt.wantCode), body.Code)
			assert.Len(t, body.Errors, len(tt.err))
		})
	}
}

func TestErrorHandler_FiberAndUnknownErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("database exploded") })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var notFound middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&notFound))
	assert.Equal(t, string(domain.CodeNotFound), notFound.Code)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Internal server error", body.Message)
}

func TestErrorHandler_UnnamedHTTPStatus(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error { return fiber.ErrTooManyRequests })

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "HTTP_ERROR", body.Code)
}
