package session

import (
	"errors"
	"time"

	"quiz-maker/internal/domain"
)

// QuestionView is a question without its answer key.
type QuestionView struct {
	Index   int                 `json:"index"`
	Type    domain.QuestionType `json:"type"`
	Text    string              `json:"question"`
	Options map[string]string   `json:"options,omitempty"`
}

// Snapshot is a read-only copy of the session for API responses.
type Snapshot struct {
	ID               string            `json:"id"`
	State            State             `json:"state"`
	Category         string            `json:"category"`
	Difficulty       domain.Difficulty `json:"difficulty"`
	RequestedCount   int               `json:"requested_count"`
	TotalQuestions   int               `json:"total_questions"`
	CurrentIndex     int               `json:"current_index"`
	Score            int               `json:"score"`
	Answers          map[int]string    `json:"answers"`
	CurrentQuestion  *QuestionView     `json:"current_question,omitempty"`
	TimeLimitSeconds int               `json:"time_limit_seconds"`
	StartedAt        *time.Time        `json:"started_at,omitempty"`
	FinishedAt       *time.Time        `json:"finished_at,omitempty"`
	Error            string            `json:"error,omitempty"`
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		ID:               s.id,
		State:            s.state,
		Category:         s.request.Category,
		Difficulty:       s.request.Difficulty,
		RequestedCount:   s.request.Count,
		TotalQuestions:   len(s.questions),
		CurrentIndex:     s.currentIndex,
		Score:            s.score,
		Answers:          make(map[int]string, len(s.answers)),
		TimeLimitSeconds: int(s.request.Difficulty.TimerDuration() / time.Second),
	}
	for i, a := range s.answers {
		snap.Answers[i] = a
	}
	if s.state == StateInProgress {
		q := s.questions[s.currentIndex]
		snap.CurrentQuestion = &QuestionView{
			Index:   s.currentIndex,
			Type:    q.Type,
			Text:    q.Text,
			Options: q.Options,
		}
	}
	if !s.startedAt.IsZero() {
		started := s.startedAt
		snap.StartedAt = &started
	}
	if !s.finishedAt.IsZero() {
		finished := s.finishedAt
		snap.FinishedAt = &finished
	}
	if s.err != nil {
		// Generation failures surface their user-facing message only.
		var de *domain.DomainError
		if errors.As(s.err, &de) {
			snap.Error = de.Message
		} else {
			snap.Error = domain.ExhaustedRetriesMessage
		}
	}
	return snap
}
