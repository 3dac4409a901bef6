package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/fadilmartias/pitch-grader/internal/config"
	"github.com/fadilmartias/pitch-grader/internal/deadline"
	"github.com/fadilmartias/pitch-grader/internal/model"
	"github.com/fadilmartias/pitch-grader/internal/util"
	"github.com/google/uuid"
)

const (
	SchemaFailurePrefix = "Schema/LLM failure: "

	// TimestampLayout is ISO-8601 in UTC with millisecond precision.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

type GraderInterface interface {
	Grade(ctx context.Context, filename, text string) model.GradingResult
}

type Grader struct {
	completer Completer
	timeout   time.Duration
	now       func() time.Time
	newID     func() string
}

type GraderOption func(*Grader)

// WithTimeout overrides the per-attempt deadline.
func WithTimeout(d time.Duration) GraderOption {
	return func(g *Grader) { g.timeout = d }
}

// WithClock overrides the clock used for result timestamps.
func WithClock(now func() time.Time) GraderOption {
	return func(g *Grader) { g.now = now }
}

func NewGrader(completer Completer, opts ...GraderOption) *Grader {
	g := &Grader{
		completer: completer,
		timeout:   deadline.GradingTimeout,
		now:       time.Now,
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewGraderFromConfig builds a grader for the configured provider. A missing
// API key is reported as a *util.ConfigurationError.
func NewGraderFromConfig(ctx context.Context) (*Grader, error) {
	var (
		completer Completer
		err       error
	)
	switch provider := config.LoadLLMConfig().Provider; provider {
	case config.ProviderOpenAI:
		completer, err = NewOpenAIService(config.LoadOpenAIConfig())
	case config.ProviderGemini:
		completer, err = NewGeminiService(ctx, config.LoadGeminiConfig())
	default:
		err = fmt.Errorf("%w: unknown LLM_PROVIDER %q", util.ErrConfigurationMissing, provider)
	}
	if err != nil {
		return nil, err
	}
	return NewGrader(completer), nil
}

type gradeState int

const (
	stateFirstAttempt gradeState = iota
	stateRetry
	stateFallback
	stateDone
)

// Grade scores the deck text. Model and schema failures never surface as
// errors: after two failed attempts the fallback result is returned instead.
func (g *Grader) Grade(ctx context.Context, filename, text string) model.GradingResult {
	runID := g.newID()
	timestamp := g.now().UTC().Format(TimestampLayout)

	effective := text
	if utf8.RuneCountInString(text) < MinViableTextLength {
		effective = UnreadableSentinel
	}

	req := CompletionRequest{
		System:     SystemPrompt,
		User:       BuildUserPrompt(runID, filename, timestamp, effective),
		SchemaName: SchemaName,
		Schema:     GradingSchema,
		Pinned:     true,
	}

	var (
		result  model.GradingResult
		lastErr error
	)
	state := stateFirstAttempt
	for state != stateDone {
		switch state {
		case stateFirstAttempt:
			raw, err := g.complete(ctx, req)
			if err == nil {
				result = Normalize(raw, filename, runID, timestamp)
				state = stateDone
				continue
			}
			if errors.Is(err, util.ErrSchemaRejection) {
				log.Printf("[grader] run %s: decoding parameters rejected by %s, retrying without them: %v", runID, g.completer.Name(), err)
			} else {
				log.Printf("[grader] run %s: first attempt failed, retrying with relaxed parameters: %v", runID, err)
			}
			req.Pinned = false
			state = stateRetry

		case stateRetry:
			raw, err := g.complete(ctx, req)
			if err == nil {
				result = Normalize(raw, filename, runID, timestamp)
				state = stateDone
				continue
			}
			log.Printf("[grader] run %s: retry failed: %v", runID, err)
			lastErr = err
			state = stateFallback

		case stateFallback:
			result = model.NewFallbackResult(filename, runID, timestamp, SchemaFailurePrefix+lastErr.Error())
			state = stateDone
		}
	}

	// run identity belongs to the grader, not to the model
	if result.RunID != runID || result.Filename != filename || result.Timestamp != timestamp {
		log.Printf("[grader] run %s: model echoed run_id=%q filename=%q timestamp=%q, keeping server values",
			runID, result.RunID, result.Filename, result.Timestamp)
		result.RunID, result.Filename, result.Timestamp = runID, filename, timestamp
	}
	return result
}

func (g *Grader) complete(ctx context.Context, req CompletionRequest) (string, error) {
	raw, err := deadline.Race(ctx, g.timeout, func(ctx context.Context) (string, error) {
		return g.completer.Complete(ctx, req)
	})
	if err != nil && !errors.Is(err, util.ErrSchemaRejection) && !errors.Is(err, util.ErrModelCallFailure) {
		err = fmt.Errorf("%w: %w", util.ErrModelCallFailure, err)
	}
	return raw, err
}

// Now formats the current instant the way results carry it.
func Now() string {
	return time.Now().UTC().Format(TimestampLayout)
}
