package middleware

import (
	"strings"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/logger"
	"quiz-maker/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserKey             = "user" // Key for storing *domain.User in fiber.Ctx locals
)

// CurrentUser returns the authenticated user stored by Protected or OptionalAuth, or nil.
func CurrentUser(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals(UserKey).(*domain.User)
	return user
}

func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get(AuthorizationHeader)
	if !strings.HasPrefix(authHeader, BearerSchema) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
	return token, token != ""
}

// Protected requires a valid session JWT and stores the user in the context.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Get(AuthorizationHeader) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "MISSING_AUTH_HEADER",
				Message: "Authorization header is missing",
				Status:  fiber.StatusUnauthorized,
			})
		}

		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_AUTH_SCHEME",
				Message: "Authorization scheme is not Bearer or the token is empty",
				Status:  fiber.StatusUnauthorized,
			})
		}

		user, err := authService.ValidateJWT(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
				Code:    "INVALID_TOKEN",
				Message: err.Error(),
				Status:  fiber.StatusUnauthorized,
			})
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// OptionalAuth stores the user when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Next()
		}

		user, err := authService.ValidateJWT(tokenString)
		if err != nil {
			logger.Get().Debug("OptionalAuth: JWT validation failed, proceeding as anonymous.", zap.Error(err))
			return c.Next()
		}

		c.Locals(UserKey, user)
		return c.Next()
	}
}

// AdminOnly must run after Protected. It rejects users other than the configured admin.
func AdminOnly(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return domain.NewUnauthorizedError("authentication required")
		}
		if !authService.IsAdmin(user) {
			logger.Get().Warn("Non-admin user denied", zap.String("user_id", user.Sub), zap.String("path", c.Path()))
			return domain.NewForbiddenError("admin access required")
		}
		return c.Next()
	}
}
