package domain

import (
	"context"
	"strings"
	"time"
)

// QuestionType is the kind of question the generator may produce.
type QuestionType string

const (
	MultipleChoice QuestionType = "multiple-choice"
	TrueFalse      QuestionType = "true-false"
)

const (
	AnswerTrue  = "True"
	AnswerFalse = "False"
)

// Question is a single generated question. It is immutable once parsed.
type Question struct {
	Type          QuestionType      `json:"type"`
	Text          string            `json:"question"`
	Options       map[string]string `json:"options,omitempty"`
	CorrectAnswer string            `json:"answer"`
}

// Validate checks the answer-key invariants for the question's type.
func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("question", "question text is required", nil)
	}
	switch q.Type {
	case MultipleChoice:
		if len(q.Options) < 2 {
			return NewValidationError("options", "multiple-choice questions need at least two options", len(q.Options))
		}
		if _, ok := q.Options[q.CorrectAnswer]; !ok {
			return NewValidationError("answer", "answer must be one of the option labels", q.CorrectAnswer)
		}
	case TrueFalse:
		if len(q.Options) > 0 {
			return NewValidationError("options", "true-false questions take no options", len(q.Options))
		}
		if q.CorrectAnswer != AnswerTrue && q.CorrectAnswer != AnswerFalse {
			return NewValidationError("answer", "true-false answer must be True or False", q.CorrectAnswer)
		}
	default:
		return NewValidationError("type", "unsupported question type", q.Type)
	}
	return nil
}

// IsCorrect compares a submitted answer with the key. Matching is exact and case-sensitive.
func (q *Question) IsCorrect(answer string) bool {
	return answer == q.CorrectAnswer
}

// Difficulty is the fixed difficulty enumeration.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Difficulties lists the supported values in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// ParseDifficulty accepts the enumeration case-insensitively.
func ParseDifficulty(s string) (Difficulty, bool) {
	for _, d := range Difficulties {
		if strings.EqualFold(strings.TrimSpace(s), string(d)) {
			return d, true
		}
	}
	return "", false
}

// TimerDuration is the per-question countdown for the difficulty.
func (d Difficulty) TimerDuration() time.Duration {
	switch d {
	case DifficultyEasy:
		return 30 * time.Second
	case DifficultyMedium:
		return 20 * time.Second
	default:
		return 10 * time.Second
	}
}

// Question count bounds accepted at quiz start.
const (
	MinQuestionCount = 10
	MaxQuestionCount = 30
)

// QuizRequest is the setup payload handed to the generator.
type QuizRequest struct {
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
	Count      int        `json:"number_of_questions"`
}

// TextGenerator is the opaque remote generative-text call.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// QuestionSource produces a question set for a quiz request.
type QuestionSource interface {
	Generate(ctx context.Context, req QuizRequest) ([]Question, error)
}

// QuizResult is the payload handed to the results view once a session finishes.
type QuizResult struct {
	SessionID      string         `json:"session_id"`
	UserID         string         `json:"user_id,omitempty"`
	Questions      []Question     `json:"questions"`
	Answers        map[int]string `json:"user_answers"`
	Score          int            `json:"score"`
	TotalQuestions int            `json:"total_questions"`
	Category       string         `json:"category"`
	Difficulty     Difficulty     `json:"difficulty"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        time.Time      `json:"end_time"`
}
