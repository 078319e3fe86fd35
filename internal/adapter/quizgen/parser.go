package quizgen

import (
	"encoding/json"
	"regexp"
	"strings"

	"quiz-maker/internal/domain"
)

var (
	fencePattern = regexp.MustCompile("```(?:json|JSON|questions)?")
	thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)
)

// CleanResponse strips reasoning blocks and code fences around the payload.
func CleanResponse(raw string) string {
	cleaned := thinkPattern.ReplaceAllString(raw, "")
	cleaned = fencePattern.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

type questionsEnvelope struct {
	Questions []domain.Question `json:"questions"`
}

// ParseResponse decodes a raw generator response into questions. The cleaned text must
// start with '{' (an object with a "questions" array) or '[' (a bare array).
func ParseResponse(raw string) ([]domain.Question, error) {
	text := CleanResponse(raw)
	if text == "" {
		return nil, domain.NewMalformedResponseError("empty response from question generator", nil)
	}

	var questions []domain.Question
	switch text[0] {
	case '{':
		var env questionsEnvelope
		if err := json.Unmarshal([]byte(text), &env); err != nil {
			return nil, domain.NewMalformedResponseError("invalid JSON format received", err)
		}
		questions = env.Questions
	case '[':
		if err := json.Unmarshal([]byte(text), &questions); err != nil {
			return nil, domain.NewMalformedResponseError("invalid JSON format received", err)
		}
	default:
		return nil, domain.NewMalformedResponseError("invalid JSON format received", nil)
	}

	if len(questions) == 0 {
		return nil, domain.NewMalformedResponseError("response contained no questions", nil)
	}
	return questions, nil
}
