package service

import (
	"context"
	"math"
	"sync"
	"time"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/dto"
	"quiz-maker/internal/logger"
	"quiz-maker/internal/session"
	"quiz-maker/internal/timer"
	"quiz-maker/internal/util"

	"go.uber.org/zap"
)

const defaultGenerationTimeout = 2 * time.Minute

// QuizSessionService runs quiz sessions from setup to result. Question generation runs in
// the background; clients poll the session until it leaves the loading state.
type QuizSessionService interface {
	Start(ctx context.Context, user *domain.User, req dto.StartQuizRequest) (dto.SessionResponse, error)
	Get(ctx context.Context, user *domain.User, id string) (dto.SessionResponse, error)
	Answer(ctx context.Context, user *domain.User, id string, index int, answer string) (dto.AnswerResponse, error)
	// Quit abandons a session. Without confirm it fails with CONFIRMATION_REQUIRED.
	Quit(ctx context.Context, user *domain.User, id string, confirm bool) error
	Result(ctx context.Context, user *domain.User, id string) (dto.QuizResultResponse, error)
	// Shutdown cancels pending generations and stops every timer.
	Shutdown()
}

type liveSession struct {
	// mu serializes transitions with the timer restart that follows them.
	mu    sync.Mutex
	sess  *session.Session
	timer *timer.Countdown
	user  *domain.User
}

type quizSessionServiceImpl struct {
	source     domain.QuestionSource
	categories CategoryService
	history    HistoryService
	results    ResultCacheService

	newTimer          func() *timer.Countdown
	generationTimeout time.Duration
	erroredTTL        time.Duration

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu       sync.Mutex
	sessions map[string]*liveSession
}

type QuizSessionOption func(*quizSessionServiceImpl)

// WithTimerFactory replaces the per-session countdown constructor, mainly for tests.
func WithTimerFactory(f func() *timer.Countdown) QuizSessionOption {
	return func(s *quizSessionServiceImpl) { s.newTimer = f }
}

func WithGenerationTimeout(d time.Duration) QuizSessionOption {
	return func(s *quizSessionServiceImpl) {
		if d > 0 {
			s.generationTimeout = d
		}
	}
}

// WithErroredSessionTTL sets how long a failed session stays readable.
func WithErroredSessionTTL(d time.Duration) QuizSessionOption {
	return func(s *quizSessionServiceImpl) { s.erroredTTL = d }
}

func NewQuizSessionService(
	source domain.QuestionSource,
	categories CategoryService,
	history HistoryService,
	results ResultCacheService,
	opts ...QuizSessionOption,
) QuizSessionService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &quizSessionServiceImpl{
		source:            source,
		categories:        categories,
		history:           history,
		results:           results,
		newTimer:          func() *timer.Countdown { return timer.New() },
		generationTimeout: defaultGenerationTimeout,
		erroredTTL:        time.Hour,
		baseCtx:           ctx,
		cancel:            cancel,
		sessions:          make(map[string]*liveSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *quizSessionServiceImpl) Start(ctx context.Context, user *domain.User, in dto.StartQuizRequest) (dto.SessionResponse, error) {
	req, err := s.categories.ValidateStart(in.Category, in.Difficulty, in.NumberOfQuestions)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	live := &liveSession{
		sess:  session.New(util.NewULID(), ownerID(user), req),
		timer: s.newTimer(),
		user:  user,
	}
	s.mu.Lock()
	s.sessions[live.sess.ID()] = live
	s.mu.Unlock()

	logger.Get().Info("Quiz session started",
		zap.String("session_id", live.sess.ID()),
		zap.String("user_id", live.sess.UserID()),
		zap.String("category", req.Category),
		zap.String("difficulty", string(req.Difficulty)),
		zap.Int("count", req.Count),
	)

	s.wg.Add(1)
	go s.generate(live)

	return s.response(live), nil
}

func (s *quizSessionServiceImpl) generate(live *liveSession) {
	defer s.wg.Done()
	l := logger.Get().With(zap.String("session_id", live.sess.ID()))

	ctx, cancel := context.WithTimeout(s.baseCtx, s.generationTimeout)
	defer cancel()
	questions, genErr := s.source.Generate(ctx, live.sess.Request())

	if _, ok := s.lookup(live.sess.ID()); !ok {
		l.Info("Dropping questions for a discarded session")
		return
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	if genErr != nil {
		if err := live.sess.Fail(genErr); err != nil {
			l.Warn("Could not mark session as failed", zap.Error(err))
		}
		l.Warn("Question generation failed", zap.Error(genErr))
		s.expireLater(live.sess.ID())
		return
	}
	if err := live.sess.Load(questions); err != nil {
		l.Warn("Could not load generated questions", zap.Error(err))
		if live.sess.State() == session.StateErrored {
			s.expireLater(live.sess.ID())
		}
		return
	}
	s.startTimer(live, 0)
}

func (s *quizSessionServiceImpl) startTimer(live *liveSession, index int) {
	d := live.sess.Request().Difficulty.TimerDuration()
	live.timer.Start(d, func() { s.onTimeUp(live, index) })
}

func (s *quizSessionServiceImpl) onTimeUp(live *liveSession, index int) {
	live.mu.Lock()
	out, applied := live.sess.TimeUp(index)
	if !applied {
		live.mu.Unlock()
		return
	}
	logger.Get().Debug("Question timed out", zap.String("session_id", live.sess.ID()), zap.Int("index", index))
	s.advance(live, out)
	live.mu.Unlock()

	if out.Finished {
		s.finish(s.baseCtx, live)
	}
}

// advance restarts the countdown for the next question or stops it on finish.
// live.mu must be held.
func (s *quizSessionServiceImpl) advance(live *liveSession, out session.Outcome) {
	if out.Finished {
		live.timer.Stop()
		return
	}
	s.startTimer(live, out.NextIndex)
}

func (s *quizSessionServiceImpl) finish(ctx context.Context, live *liveSession) {
	l := logger.Get().With(zap.String("session_id", live.sess.ID()))
	result, err := live.sess.Result()
	if err != nil {
		l.Error("Finished session has no result", zap.Error(err))
		return
	}

	if _, err := s.history.Record(ctx, live.user, result); err != nil {
		l.Error("Failed to record quiz history", zap.Error(err))
	}

	// The live session keeps serving the result until it is cached.
	if err := s.results.Put(ctx, result); err != nil {
		l.Error("Failed to cache quiz result", zap.Error(err))
		return
	}
	s.remove(live.sess.ID())
	l.Info("Quiz session finished", zap.Int("score", result.Score), zap.Int("total", result.TotalQuestions))
}

func (s *quizSessionServiceImpl) Get(ctx context.Context, user *domain.User, id string) (dto.SessionResponse, error) {
	if live, ok := s.lookup(id); ok {
		if err := checkOwner(live.sess.UserID(), user); err != nil {
			return dto.SessionResponse{}, err
		}
		return s.response(live), nil
	}

	result, err := s.results.Get(ctx, id)
	if err != nil {
		return dto.SessionResponse{}, err
	}
	if err := checkOwner(result.UserID, user); err != nil {
		return dto.SessionResponse{}, err
	}
	return dto.SessionResponse{Snapshot: snapshotFromResult(result)}, nil
}

func (s *quizSessionServiceImpl) Answer(ctx context.Context, user *domain.User, id string, index int, answer string) (dto.AnswerResponse, error) {
	live, ok := s.lookup(id)
	if !ok {
		return dto.AnswerResponse{}, domain.NewNotFoundError("quiz session not found")
	}
	if err := checkOwner(live.sess.UserID(), user); err != nil {
		return dto.AnswerResponse{}, err
	}

	live.mu.Lock()
	out, err := live.sess.SubmitAnswer(index, answer)
	if err != nil {
		live.mu.Unlock()
		return dto.AnswerResponse{}, err
	}
	s.advance(live, out)
	live.mu.Unlock()

	if out.Finished {
		s.finish(context.WithoutCancel(ctx), live)
	}
	return dto.AnswerResponse{
		Correct:  out.Correct,
		Finished: out.Finished,
		Session:  s.response(live),
	}, nil
}

func (s *quizSessionServiceImpl) Quit(ctx context.Context, user *domain.User, id string, confirm bool) error {
	live, ok := s.lookup(id)
	if !ok {
		return domain.NewNotFoundError("quiz session not found")
	}
	if err := checkOwner(live.sess.UserID(), user); err != nil {
		return err
	}
	if !confirm {
		return domain.NewConfirmationRequiredError()
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	// A failed session is simply dismissed.
	if live.sess.State() != session.StateErrored {
		if err := live.sess.Abandon(); err != nil {
			return err
		}
	}
	live.timer.Stop()
	s.remove(id)
	logger.Get().Info("Quiz session abandoned", zap.String("session_id", id))
	return nil
}

func (s *quizSessionServiceImpl) Result(ctx context.Context, user *domain.User, id string) (dto.QuizResultResponse, error) {
	var (
		result *domain.QuizResult
		err    error
	)
	if live, ok := s.lookup(id); ok {
		if err := checkOwner(live.sess.UserID(), user); err != nil {
			return dto.QuizResultResponse{}, err
		}
		result, err = live.sess.Result()
	} else {
		result, err = s.results.Get(ctx, id)
		if err == nil {
			err = checkOwner(result.UserID, user)
		}
	}
	if err != nil {
		return dto.QuizResultResponse{}, err
	}
	return dto.QuizResultResponse{Result: result, Summary: s.history.Summary(result)}, nil
}

func (s *quizSessionServiceImpl) Shutdown() {
	s.cancel()
	s.mu.Lock()
	for _, live := range s.sessions {
		live.timer.Stop()
	}
	s.mu.Unlock()
	s.wg.Wait()
}

func (s *quizSessionServiceImpl) lookup(id string) (*liveSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	live, ok := s.sessions[id]
	return live, ok
}

func (s *quizSessionServiceImpl) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *quizSessionServiceImpl) expireLater(id string) {
	if s.erroredTTL <= 0 {
		s.remove(id)
		return
	}
	time.AfterFunc(s.erroredTTL, func() { s.remove(id) })
}

func (s *quizSessionServiceImpl) response(live *liveSession) dto.SessionResponse {
	remaining := live.timer.Remaining()
	return dto.SessionResponse{
		Snapshot:             live.sess.Snapshot(),
		TimeRemainingSeconds: int(math.Ceil(remaining.Seconds())),
	}
}

func snapshotFromResult(r *domain.QuizResult) session.Snapshot {
	answers := make(map[int]string, len(r.Answers))
	for i, a := range r.Answers {
		answers[i] = a
	}
	start, end := r.StartTime, r.EndTime
	return session.Snapshot{
		ID:               r.SessionID,
		State:            session.StateFinished,
		Category:         r.Category,
		Difficulty:       r.Difficulty,
		RequestedCount:   r.TotalQuestions,
		TotalQuestions:   r.TotalQuestions,
		CurrentIndex:     r.TotalQuestions,
		Score:            r.Score,
		Answers:          answers,
		TimeLimitSeconds: int(r.Difficulty.TimerDuration() / time.Second),
		StartedAt:        &start,
		FinishedAt:       &end,
	}
}

func ownerID(user *domain.User) string {
	if user == nil {
		return ""
	}
	return user.Sub
}

// checkOwner hides sessions of other users behind NOT_FOUND.
func checkOwner(owner string, caller *domain.User) error {
	if owner != ownerID(caller) {
		return domain.NewNotFoundError("quiz session not found")
	}
	return nil
}
