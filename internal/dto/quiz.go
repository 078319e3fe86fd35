package dto

import (
	"time"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/session"
)

// StartQuizRequest represents the quiz setup form.
// @Description Request body for starting a quiz session
type StartQuizRequest struct {
	Category          string `json:"category"`
	Difficulty        string `json:"difficulty"`
	NumberOfQuestions int    `json:"number_of_questions"`
}

// SubmitAnswerRequest answers the question at QuestionIndex.
// @Description Request body for answering the current question
type SubmitAnswerRequest struct {
	QuestionIndex *int   `json:"question_index"`
	Answer        string `json:"answer"`
}

// SessionResponse is the live view of a quiz session.
// @Description Quiz session state
type SessionResponse struct {
	session.Snapshot
	TimeRemainingSeconds int `json:"time_remaining_seconds"`
}

// AnswerResponse reports the effect of an answer and the resulting session state.
// @Description Result of submitting an answer
type AnswerResponse struct {
	Correct  bool            `json:"correct"`
	Finished bool            `json:"finished"`
	Session  SessionResponse `json:"session"`
}

// ResultSummary holds the statistics derived from a finished quiz.
type ResultSummary struct {
	Score          int     `json:"score"`
	TotalQuestions int     `json:"total_questions"`
	Percentage     float64 `json:"percentage"`
	Feedback       string  `json:"feedback"`
	ElapsedSeconds int     `json:"elapsed_seconds"`
	Elapsed        string  `json:"elapsed"`
}

// QuizResultResponse is the payload of the results view.
// @Description Finished quiz with its summary
type QuizResultResponse struct {
	Result  *domain.QuizResult `json:"result"`
	Summary ResultSummary      `json:"summary"`
}

// HistoryEntryResponse is one row of the history view.
// @Description Completed quiz history entry
type HistoryEntryResponse struct {
	Category       string            `json:"category"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	Percentage     float64           `json:"percentage"`
	ElapsedSeconds int               `json:"elapsed_seconds"`
	Elapsed        string            `json:"elapsed"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time"`
}

// CategoriesResponse lists built-in and custom categories.
// @Description Available quiz categories
type CategoriesResponse struct {
	BuiltIn []string `json:"built_in"`
	Custom  []string `json:"custom"`
	All     []string `json:"all"`
}

// AddCategoryRequest adds a custom category.
// @Description Request body for adding a custom category
type AddCategoryRequest struct {
	Name string `json:"name"`
}

// DifficultiesResponse lists difficulties with their per-question time limit.
type DifficultiesResponse struct {
	Difficulties []DifficultyInfo `json:"difficulties"`
}

type DifficultyInfo struct {
	Name             domain.Difficulty `json:"name"`
	TimeLimitSeconds int               `json:"time_limit_seconds"`
}

// ReviewRequest rates the quiz experience.
// @Description Request body for a star rating
type ReviewRequest struct {
	Rating int `json:"rating"`
}

// ThemeRequest updates the display theme.
// @Description Request body for changing the theme
type ThemeRequest struct {
	Theme string `json:"theme"`
}
