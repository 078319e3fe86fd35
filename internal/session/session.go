// Package session implements the quiz progression state machine.
//
// A session moves Loading -> InProgress -> Finished. Loading can also end in Errored when
// no questions could be produced, and Loading or InProgress can be Abandoned on a
// confirmed quit. Finished, Errored and Abandoned are terminal.
package session

import (
	"sync"
	"time"

	"quiz-maker/internal/domain"
)

type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateFinished   State = "finished"
	StateErrored    State = "errored"
	StateAbandoned  State = "abandoned"
)

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateFinished || s == StateErrored || s == StateAbandoned
}

// Outcome describes the effect of one processed answer.
type Outcome struct {
	Index     int  `json:"index"`
	Correct   bool `json:"correct"`
	Finished  bool `json:"finished"`
	NextIndex int  `json:"next_index"`
}

// Session holds the state of one quiz attempt. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	id      string
	userID  string
	request domain.QuizRequest
	now     func() time.Time

	state        State
	questions    []domain.Question
	currentIndex int
	answers      map[int]string
	score        int
	startedAt    time.Time
	finishedAt   time.Time
	err          error
}

type Option func(*Session)

// WithClock replaces time.Now for start and finish timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New returns a session in the Loading state.
func New(id, userID string, req domain.QuizRequest, opts ...Option) *Session {
	s := &Session{
		id:      id,
		userID:  userID,
		request: req,
		now:     time.Now,
		state:   StateLoading,
		answers: make(map[int]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string     { return s.id }
func (s *Session) UserID() string { return s.userID }

func (s *Session) Request() domain.QuizRequest { return s.request }

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentIndex is the index of the question awaiting an answer.
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

// Load moves a Loading session to InProgress. An empty set moves it to Errored instead.
func (s *Session) Load(questions []domain.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoading {
		return domain.NewInvalidStateError("questions can only be loaded while the quiz is loading").
			WithContext("state", s.state)
	}
	if len(questions) == 0 {
		s.state = StateErrored
		s.err = domain.NewMalformedResponseError("no questions were generated", nil)
		return s.err
	}

	s.questions = append([]domain.Question(nil), questions...)
	s.startedAt = s.now()
	s.state = StateInProgress
	return nil
}

// Fail moves a Loading session to Errored with cause.
func (s *Session) Fail(cause error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateLoading {
		return domain.NewInvalidStateError("only a loading quiz can fail").WithContext("state", s.state)
	}
	s.state = StateErrored
	s.err = cause
	return nil
}

// Err returns the failure recorded by Fail, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// SubmitAnswer records answer for the question at index. index must be the current
// question; a repeated submission for an already processed index returns a STALE_ANSWER
// error and leaves the score untouched.
func (s *Session) SubmitAnswer(index int, answer string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return Outcome{}, domain.NewInvalidStateError("answers are only accepted while the quiz is in progress").
			WithContext("state", s.state)
	}
	if index != s.currentIndex {
		return Outcome{}, domain.NewStaleAnswerError(s.currentIndex, index)
	}
	return s.advanceLocked(answer), nil
}

// TimeUp records an empty answer for index. It never fails: a call for a question that
// is no longer current, or outside InProgress, is ignored and reports false.
func (s *Session) TimeUp(index int) (Outcome, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress || index != s.currentIndex {
		return Outcome{}, false
	}
	return s.advanceLocked(""), true
}

func (s *Session) advanceLocked(answer string) Outcome {
	index := s.currentIndex
	correct := s.questions[index].IsCorrect(answer)

	s.answers[index] = answer
	if correct {
		s.score++
	}

	out := Outcome{Index: index, Correct: correct}
	if index == len(s.questions)-1 {
		s.currentIndex = len(s.questions)
		s.finishedAt = s.now()
		s.state = StateFinished
		out.Finished = true
		out.NextIndex = s.currentIndex
		return out
	}
	s.currentIndex++
	out.NextIndex = s.currentIndex
	return out
}

// Abandon discards a Loading or InProgress session. Confirmation is the caller's concern.
func (s *Session) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return domain.NewInvalidStateError("quiz has already ended").WithContext("state", s.state)
	}
	s.state = StateAbandoned
	return nil
}

// Result returns the full payload of a Finished session.
func (s *Session) Result() (*domain.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateFinished {
		return nil, domain.NewInvalidStateError("quiz has not finished").WithContext("state", s.state)
	}

	answers := make(map[int]string, len(s.answers))
	for i, a := range s.answers {
		answers[i] = a
	}
	return &domain.QuizResult{
		SessionID:      s.id,
		UserID:         s.userID,
		Questions:      append([]domain.Question(nil), s.questions...),
		Answers:        answers,
		Score:          s.score,
		TotalQuestions: len(s.questions),
		Category:       s.request.Category,
		Difficulty:     s.request.Difficulty,
		StartTime:      s.startedAt,
		EndTime:        s.finishedAt,
	}, nil
}
