package middleware

import (
	"net/url"
	"strings"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by the validation middleware.
const (
	SessionIDKey    = "session_id"
	CategoryNameKey = "category_name"
)

// ValidationMiddleware rejects malformed path parameters and request bodies before they
// reach a handler. Failures are returned as domain.ValidationErrors for ErrorHandler.
type ValidationMiddleware struct {
	validator *validation.Validator
}

func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateSessionID checks the :id parameter and stores it under SessionIDKey.
func (vm *ValidationMiddleware) ValidateSessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if errs := vm.validator.ValidateSessionID(id); len(errs) > 0 {
			return errs
		}
		c.Locals(SessionIDKey, id)
		return c.Next()
	}
}

// ValidateCategoryName unescapes the :name parameter and stores it under CategoryNameKey.
func (vm *ValidationMiddleware) ValidateCategoryName() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Params("name")
		name, err := url.PathUnescape(raw)
		if err != nil {
			return domain.NewValidationError("name", "category name is not properly escaped", raw)
		}
		if errs := vm.validator.ValidateCategoryParam(name); len(errs) > 0 {
			return errs
		}
		c.Locals(CategoryNameKey, name)
		return c.Next()
	}
}

// RequireJSON answers 415 to requests whose body is not declared as JSON.
func RequireJSON() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ct := strings.ToLower(c.Get(fiber.HeaderContentType))
		if !strings.HasPrefix(ct, fiber.MIMEApplicationJSON) {
			return fiber.NewError(fiber.StatusUnsupportedMediaType, "Content-Type must be application/json")
		}
		return c.Next()
	}
}

// SessionID returns the id stored by ValidateSessionID, falling back to the raw parameter.
func SessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals(SessionIDKey).(string); ok {
		return id
	}
	return c.Params("id")
}

// CategoryName returns the name stored by ValidateCategoryName.
func CategoryName(c *fiber.Ctx) string {
	name, _ := c.Locals(CategoryNameKey).(string)
	return name
}
