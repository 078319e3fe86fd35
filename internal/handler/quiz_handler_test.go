package handler_test

import (
	"testing"
	"time"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/dto"
	"quiz-maker/internal/middleware"
	"quiz-maker/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (s *testServer) startQuiz(t *testing.T, authHeader string) string {
	t.Helper()
	var started dto.SessionResponse
	status := s.call(t, fiber.MethodPost, "/api/quiz/sessions", authHeader,
		dto.StartQuizRequest{Category: "Algorithms", Difficulty: "Easy", NumberOfQuestions: 10}, &started)
	require.Equal(t, fiber.StatusAccepted, status)
	require.NotEmpty(t, started.ID)

	require.Eventually(t, func() bool {
		var got dto.SessionResponse
		return s.call(t, fiber.MethodGet, "/api/quiz/sessions/"+started.ID, authHeader, nil, &got) == fiber.StatusOK &&
			got.State != session.StateLoading
	}, time.Second, 5*time.Millisecond)
	return started.ID
}

func intPtr(i int) *int { return &i }

func TestQuizHandler_FullQuiz(t *testing.T) {
	s := newTestServer(t)
	qs := questions(10)
	s.source.On("Generate", mock.Anything, domain.QuizRequest{Category: "Algorithms", Difficulty: domain.DifficultyEasy, Count: 10}).
		Return(qs, nil).Once()

	id := s.startQuiz(t, aliceToken)

	var current dto.SessionResponse
	require.Equal(t, fiber.StatusOK, s.call(t, fiber.MethodGet, "/api/quiz/sessions/"+id, aliceToken, nil, &current))
	assert.Equal(t, session.StateInProgress, current.State)
	require.NotNil(t, current.CurrentQuestion)
	assert.Equal(t, "Question 0", current.CurrentQuestion.Text)
	assert.Equal(t, 30, current.TimeLimitSeconds)

	var res dto.AnswerResponse
	for i, q := range qs {
		status := s.call(t, fiber.MethodPost, "/api/quiz/sessions/"+id+"/answers", aliceToken,
			dto.SubmitAnswerRequest{QuestionIndex: intPtr(i), Answer: q.CorrectAnswer}, &res)
		require.Equal(t, fiber.StatusOK, status)
		assert.True(t, res.Correct)
	}
	assert.True(t, res.Finished)

	var result dto.QuizResultResponse
	require.Equal(t, fiber.StatusOK, s.call(t, fiber.MethodGet, "/api/quiz/sessions/"+id+"/result", aliceToken, nil, &result))
	assert.Equal(t, 10, result.Summary.Score)
	assert.Equal(t, 100.0, result.Summary.Percentage)
	assert.Equal(t, "Perfect Score! You're an absolute genius!", result.Summary.Feedback)

	var history []dto.HistoryEntryResponse
	require.Equal(t, fiber.StatusOK, s.call(t, fiber.MethodGet, "/api/history", aliceToken, nil, &history))
	require.Len(t, history, 1)
	assert.Equal(t, 10, history[0].TotalQuestions)
}

func TestQuizHandler_AnswerConflicts(t *testing.T) {
	s := newTestServer(t)
	s.source.On("Generate", mock.Anything, mock.Anything).Return(questions(10), nil).Once()
	id := s.startQuiz(t, "")

	var errResp middleware.ErrorResponse
	status := s.call(t, fiber.MethodPost, "/api/quiz/sessions/"+id+"/answers", "",
		dto.SubmitAnswerRequest{QuestionIndex: intPtr(3), Answer: "B"}, &errResp)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, string(domain.CodeStaleAnswer), errResp.Code)

	var verr middleware.ValidationErrorResponse
	status = s.call(t, fiber.MethodPost, "/api/quiz/sessions/"+id+"/answers", "",
		dto.SubmitAnswerRequest{Answer: "B"}, &verr)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, string(domain.CodeMissingInput), verr.Code)

	status = s.call(t, fiber.MethodGet, "/api/quiz/sessions/"+id+"/result", "", nil, &errResp)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, string(domain.CodeInvalidState), errResp.Code)

	status = s.call(t, fiber.MethodGet, "/api/quiz/sessions/"+id, aliceToken, nil, &errResp)
	assert.Equal(t, fiber.StatusNotFound, status, "anonymous sessions are hidden from logged-in users")
}

func TestQuizHandler_Quit(t *testing.T) {
	s := newTestServer(t)
	s.source.On("Generate", mock.Anything, mock.Anything).Return(questions(10), nil).Once()
	id := s.startQuiz(t, aliceToken)

	var errResp middleware.ErrorResponse
	status := s.call(t, fiber.MethodDelete, "/api/quiz/sessions/"+id, aliceToken, nil, &errResp)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, string(domain.CodeConfirmationRequired), errResp.Code)

	var msg dto.MessageResponse
	assert.Equal(t, fiber.StatusOK, s.call(t, fiber.MethodDelete, "/api/quiz/sessions/"+id+"?confirm=true", aliceToken, nil, &msg))
	assert.Equal(t, fiber.StatusNotFound, s.call(t, fiber.MethodGet, "/api/quiz/sessions/"+id, aliceToken, nil, nil))
}

func TestQuizHandler_GenerationFailure(t *testing.T) {
	s := newTestServer(t)
	s.source.On("Generate", mock.Anything, mock.Anything).
		Return(nil, domain.NewExhaustedRetriesError(4, domain.NewMalformedResponseError("no JSON", nil))).Once()
	id := s.startQuiz(t, aliceToken)

	var got dto.SessionResponse
	require.Equal(t, fiber.StatusOK, s.call(t, fiber.MethodGet, "/api/quiz/sessions/"+id, aliceToken, nil, &got))
	assert.Equal(t, session.StateErrored, got.State)
	assert.Equal(t, domain.ExhaustedRetriesMessage, got.Error)
	assert.Nil(t, got.CurrentQuestion)

	var history []dto.HistoryEntryResponse
	require.Equal(t, fiber.StatusOK, s.call(t, fiber.MethodGet, "/api/history", aliceToken, nil, &history))
	assert.Empty(t, history)
}

func TestQuizHandler_StartValidation(t *testing.T) {
	s := newTestServer(t)

	var verr middleware.ValidationErrorResponse
	status := s.call(t, fiber.MethodPost, "/api/quiz/sessions", "",
		dto.StartQuizRequest{NumberOfQuestions: 10}, &verr)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, string(domain.CodeMissingInput), verr.Code)
	assert.Len(t, verr.Errors, 2)

	status = s.call(t, fiber.MethodPost, "/api/quiz/sessions", "",
		dto.StartQuizRequest{Category: "Algorithms", Difficulty: "Easy", NumberOfQuestions: 9}, &verr)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, string(domain.CodeValidation), verr.Code)

	status = s.call(t, fiber.MethodGet, "/api/quiz/sessions/not-a-session-id", "", nil, &verr)
	assert.Equal(t, fiber.StatusBadRequest, status)
	s.source.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}
