package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"quiz-maker/internal/config"
	"quiz-maker/internal/domain"
	"quiz-maker/internal/dto"
	"quiz-maker/internal/logger"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

var (
	ErrInvalidAuthState      = errors.New("invalid oauth state")
	ErrFailedToExchangeToken = errors.New("failed to exchange oauth token")
	ErrFailedToGetUserInfo   = errors.New("failed to get user info")
	ErrInvalidJWTToken       = errors.New("invalid jwt token")
)

// AuthService delegates identity to an OAuth2 provider and issues session tokens.
type AuthService interface {
	GetLoginURL(state string) string
	HandleCallback(ctx context.Context, code, receivedState, expectedState string) (string, *domain.User, error)
	CreateJWT(user *domain.User) (string, error)
	ValidateJWT(tokenString string) (*domain.User, error)
	LogoutURL() string
	IsAdmin(user *domain.User) bool
	AccessTokenTTL() time.Duration
}

type authServiceImpl struct {
	oauth2Config *oauth2.Config
	authCfg      config.AuthConfig
	now          func() time.Time
}

func NewAuthService(authCfg config.AuthConfig) (AuthService, error) {
	if len(authCfg.JWTSecret) < 32 {
		return nil, errors.New("auth.jwt_secret must be at least 32 bytes long")
	}
	return &authServiceImpl{
		oauth2Config: &oauth2.Config{
			ClientID:     authCfg.OAuth.ClientID,
			ClientSecret: authCfg.OAuth.ClientSecret,
			RedirectURL:  authCfg.OAuth.RedirectURL,
			Scopes:       authCfg.OAuth.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authCfg.OAuth.AuthURL,
				TokenURL: authCfg.OAuth.TokenURL,
			},
		},
		authCfg: authCfg,
		now:     time.Now,
	}, nil
}

func (s *authServiceImpl) GetLoginURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

func (s *authServiceImpl) HandleCallback(ctx context.Context, code, receivedState, expectedState string) (string, *domain.User, error) {
	if receivedState == "" || receivedState != expectedState {
		return "", nil, ErrInvalidAuthState
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFailedToExchangeToken, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.authCfg.OAuth.UserInfoURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFailedToGetUserInfo, err)
	}
	resp, err := s.oauth2Config.Client(ctx, token).Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFailedToGetUserInfo, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("%w: status %d", ErrFailedToGetUserInfo, resp.StatusCode)
	}

	var info dto.UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", nil, fmt.Errorf("failed to decode user info: %w", err)
	}

	user := &domain.User{Sub: info.Sub, Email: info.Email, Name: info.Name, Picture: info.Picture}
	if err := user.Validate(); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrFailedToGetUserInfo, err)
	}

	accessToken, err := s.CreateJWT(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to create access token: %w", err)
	}
	logger.Get().Info("User logged in", zap.String("user_id", user.Sub), zap.String("email", user.Email))
	return accessToken, user, nil
}

func (s *authServiceImpl) CreateJWT(user *domain.User) (string, error) {
	now := s.now()
	claims := dto.AuthClaims{
		Email:   user.Email,
		Name:    user.Name,
		Picture: user.Picture,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Sub,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.authCfg.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.authCfg.JWTSecret))
}

func (s *authServiceImpl) ValidateJWT(tokenString string) (*domain.User, error) {
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authCfg.JWTSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Get().Debug("JWT token expired", zap.Error(err))
		} else {
			logger.Get().Warn("JWT validation failed", zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	claims, ok := token.Claims.(*dto.AuthClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidJWTToken
	}
	return &domain.User{Sub: claims.Subject, Email: claims.Email, Name: claims.Name, Picture: claims.Picture}, nil
}

func (s *authServiceImpl) LogoutURL() string {
	return s.authCfg.OAuth.LogoutURL
}

func (s *authServiceImpl) IsAdmin(user *domain.User) bool {
	return user.IsAdmin(s.authCfg.AdminEmail)
}

func (s *authServiceImpl) AccessTokenTTL() time.Duration {
	return s.authCfg.AccessTokenTTL
}
