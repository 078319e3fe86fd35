package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"quiz-maker/internal/config"
	"quiz-maker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "0123456789abcdef0123456789abcdef"

func newTestProvider(t *testing.T, userInfo map[string]string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer provider-token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(userInfo)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testAuthConfig(baseURL string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:      testJWTSecret,
		AccessTokenTTL: time.Hour,
		AdminEmail:     "Admin@Example.com",
		OAuth: config.OAuthConfig{
			ClientID:     "client",
			ClientSecret: "secret",
			RedirectURL:  "http://localhost:8090/api/auth/callback",
			AuthURL:      baseURL + "/authorize",
			TokenURL:     baseURL + "/oauth/token",
			UserInfoURL:  baseURL + "/userinfo",
			LogoutURL:    baseURL + "/v2/logout",
			Scopes:       []string{"openid", "profile", "email"},
		},
	}
}

func TestNewAuthService_RejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig("http://idp.local")
	cfg.JWTSecret = "short"
	_, err := NewAuthService(cfg)
	assert.Error(t, err)
}

func TestAuthService_GetLoginURL(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig("http://idp.local"))
	require.NoError(t, err)

	u, err := url.Parse(svc.GetLoginURL("state-123"))
	require.NoError(t, err)
	assert.Equal(t, "/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "state-123", q.Get("state"))
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid profile email", q.Get("scope"))
}

func TestAuthService_HandleCallback(t *testing.T) {
	srv := newTestProvider(t, map[string]string{
		"sub":   "auth0|alice",
		"email": "alice@example.com",
		"name":  "Alice",
	})
	svc, err := NewAuthService(testAuthConfig(srv.URL))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		token, user, err := svc.HandleCallback(ctx, "good-code", "s1", "s1")
		require.NoError(t, err)
		assert.Equal(t, "auth0|alice", user.Sub)
		assert.NotEmpty(t, token)

		parsed, err := svc.ValidateJWT(token)
		require.NoError(t, err)
		assert.Equal(t, user, parsed)
	})

	t.Run("state mismatch", func(t *testing.T) {
		_, _, err := svc.HandleCallback(ctx, "good-code", "s1", "s2")
		assert.ErrorIs(t, err, ErrInvalidAuthState)
	})

	t.Run("rejected code", func(t *testing.T) {
		_, _, err := svc.HandleCallback(ctx, "bad-code", "s1", "s1")
		assert.ErrorIs(t, err, ErrFailedToExchangeToken)
	})
}

func TestAuthService_HandleCallback_IncompleteProfile(t *testing.T) {
	srv := newTestProvider(t, map[string]string{"sub": "auth0|nomail"})
	svc, err := NewAuthService(testAuthConfig(srv.URL))
	require.NoError(t, err)

	_, _, err = svc.HandleCallback(context.Background(), "good-code", "s", "s")
	assert.ErrorIs(t, err, ErrFailedToGetUserInfo)
}

func TestAuthService_ValidateJWT(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig("http://idp.local"))
	require.NoError(t, err)
	impl := svc.(*authServiceImpl)
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	impl.now = func() time.Time { return issued }

	token, err := svc.CreateJWT(alice)
	require.NoError(t, err)

	impl.now = func() time.Time { return issued.Add(59 * time.Minute) }
	user, err := svc.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, alice.Email, user.Email)

	impl.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = svc.ValidateJWT(token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	other := testAuthConfig("http://idp.local")
	other.JWTSecret = "ffffffffffffffffffffffffffffffff"
	otherSvc, err := NewAuthService(other)
	require.NoError(t, err)
	otherSvc.(*authServiceImpl).now = func() time.Time { return issued }
	_, err = otherSvc.ValidateJWT(token)
	assert.ErrorIs(t, err, ErrInvalidJWTToken)

	_, err = svc.ValidateJWT("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestAuthService_IsAdmin(t *testing.T) {
	svc, err := NewAuthService(testAuthConfig("http://idp.local"))
	require.NoError(t, err)

	assert.True(t, svc.IsAdmin(&domain.User{Sub: "x", Email: "admin@example.com"}))
	assert.False(t, svc.IsAdmin(alice))
	assert.False(t, svc.IsAdmin(nil))
	assert.Equal(t, "http://idp.local/v2/logout", svc.LogoutURL())
	assert.Equal(t, time.Hour, svc.AccessTokenTTL())
}
