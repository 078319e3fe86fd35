package handler

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"quiz-maker/internal/dto"
	"quiz-maker/internal/logger"
	"quiz-maker/internal/middleware"
	"quiz-maker/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const oauthStateCookieName = "oauthstate"

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login initiates the OAuth2 login flow.
// @Summary Initiate login
// @Description Redirects the user to the identity provider's consent page.
// @Tags auth
// @Success 307 {string} string "Redirects to the identity provider"
// @Router /auth/login [get]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		logger.Get().Error("Failed to generate random state for OAuth", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(middleware.ErrorResponse{
			Code: "OAUTH_STATE_GENERATION_ERROR", Message: "Could not generate state for OAuth flow", Status: fiber.StatusInternalServerError,
		})
	}
	state := base64.URLEncoding.EncodeToString(b)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})
	return c.Redirect(h.authService.GetLoginURL(state), fiber.StatusTemporaryRedirect)
}

// Callback handles the redirect back from the identity provider.
// @Summary OAuth2 callback
// @Description Exchanges the authorization code, loads the user profile and issues a session JWT.
// @Tags auth
// @Produce json
// @Param code query string true "Authorization code"
// @Param state query string true "State string for CSRF protection"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid state or code"
// @Failure 502 {object} middleware.ErrorResponse "Identity provider failure"
// @Router /auth/callback [get]
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	appLogger := logger.Get()
	code := c.Query("code")
	receivedState := c.Query("state")
	expectedState := c.Cookies(oauthStateCookieName)

	c.Cookie(&fiber.Cookie{
		Name:     oauthStateCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   c.Secure(),
		SameSite: "Lax",
		Path:     "/",
	})

	if code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
			Code: "MISSING_CODE", Message: "Authorization code is missing", Status: fiber.StatusBadRequest,
		})
	}

	accessToken, user, err := h.authService.HandleCallback(c.UserContext(), code, receivedState, expectedState)
	if err != nil {
		appLogger.Warn("OAuth callback failed", zap.Error(err))
		switch {
		case errors.Is(err, service.ErrInvalidAuthState):
			return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
				Code: "INVALID_OAUTH_STATE", Message: "OAuth state mismatch or missing", Status: fiber.StatusBadRequest,
			})
		case errors.Is(err, service.ErrFailedToExchangeToken):
			return c.Status(fiber.StatusBadRequest).JSON(middleware.ErrorResponse{
				Code: "OAUTH_CALLBACK_ERROR", Message: err.Error(), Status: fiber.StatusBadRequest,
			})
		default:
			return c.Status(fiber.StatusBadGateway).JSON(middleware.ErrorResponse{
				Code: "OAUTH_PROCESSING_ERROR", Message: "Error processing login", Status: fiber.StatusBadGateway,
			})
		}
	}

	return c.JSON(dto.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.authService.AccessTokenTTL() / time.Second),
		User: dto.UserProfile{
			Sub:     user.Sub,
			Email:   user.Email,
			Name:    user.Name,
			Picture: user.Picture,
			IsAdmin: h.authService.IsAdmin(user),
		},
	})
}

// Logout godoc
// @Summary Logout user
// @Description Session JWTs are stateless; the client drops its token and visits the returned provider logout URL.
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.LogoutResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if user := middleware.CurrentUser(c); user != nil {
		logger.Get().Info("User logged out", zap.String("user_id", user.Sub))
	}
	return c.JSON(dto.LogoutResponse{LogoutURL: h.authService.LogoutURL()})
}

// Me godoc
// @Summary Current user
// @Description Returns the profile carried by the session JWT
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserProfile
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(dto.UserProfile{
		Sub:     user.Sub,
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
		IsAdmin: h.authService.IsAdmin(user),
	})
}
