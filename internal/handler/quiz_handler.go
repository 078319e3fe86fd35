package handler

import (
	"quiz-maker/internal/domain"
	"quiz-maker/internal/dto"
	"quiz-maker/internal/logger"
	"quiz-maker/internal/middleware"
	"quiz-maker/internal/service"
	"quiz-maker/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// QuizHandler handles quiz session HTTP requests
type QuizHandler struct {
	sessions  service.QuizSessionService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(sessions service.QuizSessionService) *QuizHandler {
	return &QuizHandler{sessions: sessions, validator: validation.NewValidator()}
}

func invalidBody(err error) error {
	logger.Get().Debug("Failed to parse request body", zap.Error(err))
	return domain.NewValidationError("body", "Invalid request body", nil)
}

// StartQuiz godoc
// @Summary Start a quiz session
// @Description Validates the setup form and starts generating questions. Poll the session until it leaves the loading state.
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.StartQuizRequest true "Quiz setup"
// @Success 202 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /quiz/sessions [post]
func (h *QuizHandler) StartQuiz(c *fiber.Ctx) error {
	var req dto.StartQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}

	resp, err := h.sessions.Start(c.UserContext(), middleware.CurrentUser(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// GetSession godoc
// @Summary Get a quiz session
// @Description Returns the session state, the current question without its answer and the time left on it
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /quiz/sessions/{id} [get]
func (h *QuizHandler) GetSession(c *fiber.Ctx) error {
	resp, err := h.sessions.Get(c.UserContext(), middleware.CurrentUser(c), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// SubmitAnswer godoc
// @Summary Answer the current question
// @Description Records the answer for question_index, which must be the current question
// @Tags quiz
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param request body dto.SubmitAnswerRequest true "Answer"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Stale answer or session not in progress"
// @Router /quiz/sessions/{id}/answers [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(err)
	}
	if errs := h.validator.ValidateAnswer(req.QuestionIndex, req.Answer); len(errs) > 0 {
		return errs
	}

	resp, err := h.sessions.Answer(c.UserContext(), middleware.CurrentUser(c), middleware.SessionID(c), *req.QuestionIndex, req.Answer)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// QuitQuiz godoc
// @Summary Quit a quiz session
// @Description Abandons the session without recording history. Requires confirm=true.
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Param confirm query bool true "Confirm quitting"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Confirmation required"
// @Router /quiz/sessions/{id} [delete]
func (h *QuizHandler) QuitQuiz(c *fiber.Ctx) error {
	if err := h.sessions.Quit(c.UserContext(), middleware.CurrentUser(c), middleware.SessionID(c), c.QueryBool("confirm")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Quiz abandoned"})
}

// GetResult godoc
// @Summary Get the result of a finished quiz
// @Description Returns questions, answers, score and the summary with percentage, feedback and elapsed time
// @Tags quiz
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Session ID"
// @Success 200 {object} dto.QuizResultResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Quiz has not finished"
// @Router /quiz/sessions/{id}/result [get]
func (h *QuizHandler) GetResult(c *fiber.Ctx) error {
	resp, err := h.sessions.Result(c.UserContext(), middleware.CurrentUser(c), middleware.SessionID(c))
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
