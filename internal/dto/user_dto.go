package dto

import (
	"github.com/golang-jwt/jwt/v5"
)

// UserInfo is the identity provider's userinfo payload.
type UserInfo struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// AuthClaims defines the custom claims for the session JWT.
type AuthClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// LoginResponse is returned after a successful OAuth callback.
// @Description Session token and user profile
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        UserProfile `json:"user"`
}

// UserProfile is the authenticated user as shown to clients.
// @Description Authenticated user profile
type UserProfile struct {
	Sub     string `json:"sub"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	IsAdmin bool   `json:"is_admin"`
}

// LogoutResponse carries the provider URL the client should visit to end its session.
// @Description Logout response
type LogoutResponse struct {
	LogoutURL string `json:"logout_url,omitempty"`
}

// MessageResponse represents a generic message response.
// @Description Generic message response
type MessageResponse struct {
	Message string `json:"message"`
}
