// Package quizgen turns a generative-text backend into a source of validated quiz questions.
package quizgen

import (
	"context"
	"errors"
	"time"

	"quiz-maker/internal/domain"
	"quiz-maker/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = 2 * time.Second

	// Share of true-false questions the prompt asks the generator to stay under.
	maxTrueFalseShare = 0.2
)

// QuestionGenerator implements domain.QuestionSource with a bounded retry loop:
// one attempt plus up to maxRetries retries, a fixed delay between attempts.
type QuestionGenerator struct {
	llm        domain.TextGenerator
	maxRetries int
	retryDelay time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

type Option func(*QuestionGenerator)

func WithMaxRetries(n int) Option {
	return func(g *QuestionGenerator) {
		if n >= 0 {
			g.maxRetries = n
		}
	}
}

func WithRetryDelay(d time.Duration) Option {
	return func(g *QuestionGenerator) { g.retryDelay = d }
}

// WithSleep replaces the delay between attempts, mainly for tests.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(g *QuestionGenerator) { g.sleep = sleep }
}

func NewQuestionGenerator(llm domain.TextGenerator, opts ...Option) *QuestionGenerator {
	g := &QuestionGenerator{
		llm:        llm,
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var _ domain.QuestionSource = (*QuestionGenerator)(nil)

// Generate blocks until a usable question set is produced, ctx is done, or retries are
// exhausted. Exhaustion returns an EXHAUSTED_RETRIES error wrapping the last failure.
func (g *QuestionGenerator) Generate(ctx context.Context, req domain.QuizRequest) ([]domain.Question, error) {
	l := logger.Get().With(
		zap.String("category", req.Category),
		zap.String("difficulty", string(req.Difficulty)),
		zap.Int("count", req.Count),
	)
	prompt := BuildPrompt(req)
	attempts := g.maxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			if err := g.sleep(ctx, g.retryDelay); err != nil {
				return nil, err
			}
		}

		questions, err := g.attempt(ctx, prompt, req, l)
		if err == nil {
			l.Info("Generated quiz questions", zap.Int("attempt", attempt), zap.Int("questions", len(questions)))
			return questions, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		lastErr = err
		l.Warn("Question generation attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.String("code", string(domain.CodeOf(err))),
			zap.Error(err),
		)
	}

	l.Error("Question generation exhausted retries", zap.Int("attempts", attempts), zap.Error(lastErr))
	return nil, domain.NewExhaustedRetriesError(attempts, lastErr)
}

func (g *QuestionGenerator) attempt(ctx context.Context, prompt string, req domain.QuizRequest, l *zap.Logger) ([]domain.Question, error) {
	raw, err := g.llm.GenerateText(ctx, prompt)
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) {
			return nil, err
		}
		return nil, domain.NewTransientFailureError(err)
	}

	parsed, err := ParseResponse(raw)
	if err != nil {
		l.Debug("Unparseable generator response", zap.String("raw_response", raw))
		return nil, err
	}

	return selectQuestions(parsed, req.Count, l)
}

// selectQuestions drops structurally invalid questions and truncates surplus ones.
// A short set is accepted; the true-false share is only reported.
func selectQuestions(parsed []domain.Question, count int, l *zap.Logger) ([]domain.Question, error) {
	valid := make([]domain.Question, 0, len(parsed))
	for i := range parsed {
		if err := parsed[i].Validate(); err != nil {
			l.Warn("Dropping invalid generated question", zap.Int("index", i), zap.Error(err))
			continue
		}
		valid = append(valid, parsed[i])
	}
	if len(valid) == 0 {
		return nil, domain.NewMalformedResponseError("response contained no valid questions", nil)
	}

	if count > 0 && len(valid) > count {
		l.Info("Truncating surplus generated questions", zap.Int("received", len(valid)), zap.Int("requested", count))
		valid = valid[:count]
	} else if len(valid) < count {
		l.Warn("Generator returned fewer questions than requested", zap.Int("received", len(valid)), zap.Int("requested", count))
	}

	trueFalse := 0
	for _, q := range valid {
		if q.Type == domain.TrueFalse {
			trueFalse++
		}
	}
	if float64(trueFalse) > maxTrueFalseShare*float64(len(valid)) {
		l.Warn("True/false share above requested cap", zap.Int("true_false", trueFalse), zap.Int("total", len(valid)))
	}
	return valid, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
