package domain

import (
	"time"
)

// HistoryEntry is one completed quiz. Entries are append-only.
type HistoryEntry struct {
	UserID         string     `json:"userId"`
	Category       string     `json:"category"`
	Difficulty     Difficulty `json:"difficulty"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        time.Time  `json:"endTime"`
}

// NewHistoryEntry builds the entry recorded for a finished quiz.
func NewHistoryEntry(userID string, result *QuizResult) HistoryEntry {
	return HistoryEntry{
		UserID:         userID,
		Category:       result.Category,
		Difficulty:     result.Difficulty,
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		StartTime:      result.StartTime,
		EndTime:        result.EndTime,
	}
}

// Equal compares every field. Timestamps compare by instant.
func (e HistoryEntry) Equal(o HistoryEntry) bool {
	return e.UserID == o.UserID &&
		e.Category == o.Category &&
		e.Difficulty == o.Difficulty &&
		e.Score == o.Score &&
		e.TotalQuestions == o.TotalQuestions &&
		e.StartTime.Equal(o.StartTime) &&
		e.EndTime.Equal(o.EndTime)
}

// ElapsedSeconds is the whole-second duration of the quiz, never negative.
func (e HistoryEntry) ElapsedSeconds() int {
	return ElapsedSeconds(e.StartTime, e.EndTime)
}

// ElapsedSeconds returns end-start truncated to whole seconds.
func ElapsedSeconds(start, end time.Time) int {
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start) / time.Second)
}

// HistoryState is the persisted "history" slice.
type HistoryState struct {
	History []HistoryEntry `json:"history"`
}

// AddToHistory returns the state with entry appended, unless an identical entry exists.
// The second return value reports whether the entry was appended.
func AddToHistory(state HistoryState, entry HistoryEntry) (HistoryState, bool) {
	for _, e := range state.History {
		if e.Equal(entry) {
			return state, false
		}
	}
	next := make([]HistoryEntry, len(state.History), len(state.History)+1)
	copy(next, state.History)
	return HistoryState{History: append(next, entry)}, true
}
