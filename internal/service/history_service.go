package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/dto"
	"quiz-maker/internal/logger"
	"quiz-maker/internal/repository"

	"go.uber.org/zap"
)

// History sort keys accepted by List.
const (
	SortByCategory       = "category"
	SortByDifficulty     = "difficulty"
	SortByScore          = "score"
	SortByTotalQuestions = "totalQuestions"
	SortByEndTime        = "endTime"
)

type feedbackBand struct {
	min     float64
	message string
}

var feedbackBands = []feedbackBand{
	{100, "Perfect Score! You're an absolute genius!"},
	{90, "Amazing! Almost perfect!"},
	{80, "Great job! You’re really good!"},
	{70, "Good effort! You did well!"},
	{60, "Not bad! You're on the right track!"},
	{50, "Keep going! You're almost there!"},
	{40, "You can do better! Keep practicing!"},
	{30, "Don't give up! Practice makes perfect!"},
	{0, "It’s okay! Keep practicing and you’ll get there!"},
}

// HistoryService records finished quizzes and serves the history view.
type HistoryService interface {
	// Record appends the result for user unless an identical entry exists. It reports
	// whether an entry was added; without a user it does nothing.
	Record(ctx context.Context, user *domain.User, result *domain.QuizResult) (bool, error)
	List(ctx context.Context, userID string, sortKey string, order string) ([]dto.HistoryEntryResponse, error)
	Summary(result *domain.QuizResult) dto.ResultSummary
}

type historyServiceImpl struct {
	repo *repository.SliceRepository[domain.HistoryState]
}

func NewHistoryService(store domain.Store) HistoryService {
	return &historyServiceImpl{
		repo: repository.NewSliceRepository(store, func() domain.HistoryState { return domain.HistoryState{} }),
	}
}

func (s *historyServiceImpl) Record(ctx context.Context, user *domain.User, result *domain.QuizResult) (bool, error) {
	if user == nil || user.Sub == "" {
		logger.Get().Debug("Skipping history record for anonymous quiz")
		return false, nil
	}
	if result == nil {
		return false, domain.NewInternalError("cannot record nil result", nil)
	}

	entry := domain.NewHistoryEntry(user.Sub, result)
	added := false
	_, err := s.repo.Update(ctx, domain.SliceHistory, func(state domain.HistoryState) (domain.HistoryState, error) {
		var next domain.HistoryState
		next, added = domain.AddToHistory(state, entry)
		return next, nil
	})
	if err != nil {
		return false, err
	}

	if added {
		logger.Get().Info("Recorded quiz result",
			zap.String("user_id", user.Sub),
			zap.String("category", entry.Category),
			zap.Int("score", entry.Score),
			zap.Int("total", entry.TotalQuestions),
			zap.Int("elapsed_seconds", entry.ElapsedSeconds()),
		)
	} else {
		logger.Get().Debug("Duplicate history entry ignored", zap.String("user_id", user.Sub))
	}
	return added, nil
}

func (s *historyServiceImpl) List(ctx context.Context, userID string, sortKey string, order string) ([]dto.HistoryEntryResponse, error) {
	less, err := historyLess(sortKey)
	if err != nil {
		return nil, err
	}
	// The default view is newest first; picking a column sorts it ascending.
	order = strings.ToLower(order)
	if order == "" {
		order = "asc"
		if sortKey == "" {
			order = "desc"
		}
	}
	if order != "asc" && order != "desc" {
		return nil, domain.NewValidationError("order", "order must be asc or desc", order)
	}
	desc := order == "desc"

	state, err := s.repo.Get(ctx, domain.SliceHistory)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.HistoryEntry, 0, len(state.History))
	for _, e := range state.History {
		if e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if desc {
			return less(entries[j], entries[i])
		}
		return less(entries[i], entries[j])
	})

	resp := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, e := range entries {
		elapsed := e.ElapsedSeconds()
		resp = append(resp, dto.HistoryEntryResponse{
			Category:       e.Category,
			Difficulty:     e.Difficulty,
			Score:          e.Score,
			TotalQuestions: e.TotalQuestions,
			Percentage:     percentage(e.Score, e.TotalQuestions),
			ElapsedSeconds: elapsed,
			Elapsed:        FormatElapsed(elapsed),
			StartTime:      e.StartTime,
			EndTime:        e.EndTime,
		})
	}
	return resp, nil
}

func historyLess(sortKey string) (func(a, b domain.HistoryEntry) bool, error) {
	switch sortKey {
	case SortByCategory:
		return func(a, b domain.HistoryEntry) bool {
			return strings.ToUpper(a.Category) < strings.ToUpper(b.Category)
		}, nil
	case SortByDifficulty:
		return func(a, b domain.HistoryEntry) bool {
			return strings.ToUpper(string(a.Difficulty)) < strings.ToUpper(string(b.Difficulty))
		}, nil
	case SortByScore:
		return func(a, b domain.HistoryEntry) bool { return a.Score < b.Score }, nil
	case SortByTotalQuestions:
		return func(a, b domain.HistoryEntry) bool { return a.TotalQuestions < b.TotalQuestions }, nil
	case SortByEndTime, "":
		return func(a, b domain.HistoryEntry) bool { return a.EndTime.Before(b.EndTime) }, nil
	default:
		return nil, domain.NewValidationError("sort", "unsupported sort key", sortKey)
	}
}

func (s *historyServiceImpl) Summary(result *domain.QuizResult) dto.ResultSummary {
	pct := percentage(result.Score, result.TotalQuestions)
	elapsed := domain.ElapsedSeconds(result.StartTime, result.EndTime)
	return dto.ResultSummary{
		Score:          result.Score,
		TotalQuestions: result.TotalQuestions,
		Percentage:     pct,
		Feedback:       FeedbackFor(pct),
		ElapsedSeconds: elapsed,
		Elapsed:        FormatElapsed(elapsed),
	}
}

// FeedbackFor returns the message of the first band whose minimum pct reaches.
func FeedbackFor(pct float64) string {
	for _, band := range feedbackBands {
		if pct >= band.min {
			return band.message
		}
	}
	return feedbackBands[len(feedbackBands)-1].message
}

// FormatElapsed renders whole seconds as m:ss.
func FormatElapsed(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*10000) / 100
}
