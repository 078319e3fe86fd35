package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"quiz-maker/internal/adapter"
	"quiz-maker/internal/adapter/store"
	"quiz-maker/internal/domain"
	"quiz-maker/internal/handler"
	"quiz-maker/internal/middleware"
	"quiz-maker/internal/service"
	"quiz-maker/internal/timer"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) GetLoginURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockAuthService) HandleCallback(ctx context.Context, code, receivedState, expectedState string) (string, *domain.User, error) {
	args := m.Called(ctx, code, receivedState, expectedState)
	user, _ := args.Get(1).(*domain.User)
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthService) CreateJWT(user *domain.User) (string, error) {
	args := m.Called(user)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateJWT(tokenString string) (*domain.User, error) {
	args := m.Called(tokenString)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *MockAuthService) LogoutURL() string {
	return m.Called().String(0)
}

func (m *MockAuthService) IsAdmin(user *domain.User) bool {
	return m.Called(user).Bool(0)
}

func (m *MockAuthService) AccessTokenTTL() time.Duration {
	return m.Called().Get(0).(time.Duration)
}

type MockQuestionSource struct {
	mock.Mock
}

func (m *MockQuestionSource) Generate(ctx context.Context, req domain.QuizRequest) ([]domain.Question, error) {
	args := m.Called(ctx, req)
	qs, _ := args.Get(0).([]domain.Question)
	return qs, args.Error(1)
}

// idleHandle and idleScheduler keep countdowns from ever firing during handler tests.
type idleHandle struct{}

func (idleHandle) Stop() bool { return true }

type idleScheduler struct{}

func (idleScheduler) AfterFunc(time.Duration, func()) timer.Handle { return idleHandle{} }

var (
	alice = &domain.User{Sub: "auth0|alice", Email: "alice@example.com", Name: "Alice"}
	admin = &domain.User{Sub: "auth0|admin", Email: "admin@example.com"}
)

const (
	aliceToken = "Bearer alice-token"
	adminToken = "Bearer admin-token"
)

type testServer struct {
	app    *fiber.App
	auth   *MockAuthService
	source *MockQuestionSource
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := store.NewMemoryStore()
	cache := adapter.NewMemoryCacheAdapter()

	auth := new(MockAuthService)
	auth.On("ValidateJWT", "alice-token").Return(alice, nil).Maybe()
	auth.On("ValidateJWT", "admin-token").Return(admin, nil).Maybe()
	auth.On("IsAdmin", admin).Return(true).Maybe()
	auth.On("IsAdmin", alice).Return(false).Maybe()

	source := new(MockQuestionSource)
	categories := service.NewCategoryService(st)
	history := service.NewHistoryService(st)
	sessions := service.NewQuizSessionService(
		source,
		categories,
		history,
		service.NewResultCacheService(cache, time.Hour),
		service.WithTimerFactory(func() *timer.Countdown { return timer.New(timer.WithScheduler(idleScheduler{})) }),
	)
	t.Cleanup(sessions.Shutdown)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app, auth, handler.Handlers{
		Auth:     handler.NewAuthHandler(auth),
		Quiz:     handler.NewQuizHandler(sessions),
		Category: handler.NewCategoryHandler(categories),
		History:  handler.NewHistoryHandler(history),
		Review:   handler.NewReviewHandler(service.NewReviewService(st)),
		Settings: handler.NewSettingsHandler(service.NewSettingsService(st)),
		Health:   handler.NewHealthHandler(st, cache),
	})
	return &testServer{app: app, auth: auth, source: source}
}

// call sends a JSON request and decodes the response body into out when out is non-nil.
func (s *testServer) call(t *testing.T, method, path, authHeader string, body interface{}, out interface{}) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set(middleware.AuthorizationHeader, authHeader)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func questions(n int) []domain.Question {
	qs := make([]domain.Question, n)
	for i := range qs {
		if i%5 == 4 {
			qs[i] = domain.Question{Type: domain.TrueFalse, Text: fmt.Sprintf("Statement %d", i), CorrectAnswer: domain.AnswerTrue}
			continue
		}
		qs[i] = domain.Question{
			Type:          domain.MultipleChoice,
			Text:          fmt.Sprintf("Question %d", i),
			Options:       map[string]string{"A": "one", "B": "two", "C": "three", "D": "four"},
			CorrectAnswer: "B",
		}
	}
	return qs
}
