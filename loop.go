package termagent

import (
	"context"
	"fmt"
	"time"
)

// ToolExecutor executes a single declared action and returns a
// structured observation. It never lets a failure of the underlying
// operation escape as an error or a panic: missing files, non-zero
// exits, timeouts, and permission errors are all folded into a
// [Failure] observation the model can react to.
type ToolExecutor interface {
	Execute(ctx context.Context, action *Action) Observation
}

// PromptBuilder renders the goal and the running transcript into the
// next completion request. Build must be a pure function of its
// inputs: no side effects, no hidden state, identical output for
// identical input.
type PromptBuilder interface {
	Build(goal string, transcript *Transcript) string
}

// LoopState is the terminal state of a run. Transitions only move
// forward; no state is revisited.
type LoopState string

const (
	// LoopRunning: the run is still in progress. Never seen in a
	// RunResult.
	LoopRunning LoopState = "running"

	// LoopCompleted: the model produced a final answer.
	LoopCompleted LoopState = "completed"

	// LoopFailed: an unrecoverable condition ended the run (fatal
	// service error, exhausted retry budget, repeated malformed
	// responses).
	LoopFailed LoopState = "failed"

	// LoopAborted: the step budget ran out without a final answer.
	LoopAborted LoopState = "aborted"
)

// RunResult is the outcome of one [Loop.Run] invocation. A terminated
// run always yields either a final answer or a clear terminal status
// plus the transcript for diagnosis — never a silent hang or an
// unexplained abort.
type RunResult struct {
	State LoopState

	// FinalAnswer is set when State == LoopCompleted.
	FinalAnswer string

	// FailureKind classifies the termination when State is LoopFailed
	// or LoopAborted.
	FailureKind ErrorKind

	// Err is the underlying error for LoopFailed, nil otherwise.
	Err error

	// Transcript holds every step recorded before termination.
	Transcript *Transcript
}

// Defaults for a new [Loop].
const (
	// DefaultMaxSteps bounds the number of Think-Act-Observe cycles.
	// This is the primary guard against infinite loops: the model's
	// stopping behavior cannot be trusted.
	DefaultMaxSteps = 10

	// DefaultParseRetryBudget is how many consecutive malformed
	// responses are fed back to the model before the run fails.
	DefaultParseRetryBudget = 2

	// DefaultCompletionRetries is how many times a transient
	// completion failure is retried.
	DefaultCompletionRetries = 3

	// DefaultCompletionBackoff is the initial backoff before a
	// completion retry; it doubles on every attempt.
	DefaultCompletionBackoff = 500 * time.Millisecond
)

// Loop drives the ReAct cycle: build prompt, request completion,
// parse, execute, observe, repeat — until completion, termination, or
// failure.
//
// A Loop holds no per-run state and is safe to reuse for sequential
// runs. Each run owns an independent transcript; concurrent runs must
// not share a working directory, since the tool executor performs
// filesystem and process side effects.
type Loop struct {
	client            CompletionClient
	parser            ActionParser
	executor          ToolExecutor
	prompts           PromptBuilder
	observer          Observer
	timeProvider      TimeProvider
	maxSteps          int
	parseRetryBudget  int
	completionRetries int
	completionBackoff time.Duration

	// sleep is swapped out in tests to avoid real backoff delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewLoop creates a Loop with default budgets. Panics if any component
// is nil.
func NewLoop(
	client CompletionClient,
	parser ActionParser,
	executor ToolExecutor,
	prompts PromptBuilder,
) *Loop {
	if client == nil || parser == nil || executor == nil || prompts == nil {
		panic("termagent: NewLoop requires a non-nil client, parser, executor, and prompt builder")
	}
	return &Loop{
		client:            client,
		parser:            parser,
		executor:          executor,
		prompts:           prompts,
		observer:          NopObserver{},
		timeProvider:      NewDefaultTimeProvider(),
		maxSteps:          DefaultMaxSteps,
		parseRetryBudget:  DefaultParseRetryBudget,
		completionRetries: DefaultCompletionRetries,
		completionBackoff: DefaultCompletionBackoff,
		sleep:             sleepCtx,
	}
}

// WithMaxSteps sets the step budget. Panics if n < 1.
func (l *Loop) WithMaxSteps(n int) *Loop {
	if n < 1 {
		panic("termagent: maxSteps must be >= 1")
	}
	l.maxSteps = n
	return l
}

// WithParseRetryBudget sets how many consecutive malformed responses
// are tolerated before the run fails. Zero fails on the first
// malformed response.
func (l *Loop) WithParseRetryBudget(n int) *Loop {
	if n < 0 {
		panic("termagent: parse retry budget must be >= 0")
	}
	l.parseRetryBudget = n
	return l
}

// WithCompletionRetry sets the retry count and initial backoff for
// transient completion failures.
func (l *Loop) WithCompletionRetry(retries int, backoff time.Duration) *Loop {
	if retries < 0 {
		panic("termagent: completion retries must be >= 0")
	}
	l.completionRetries = retries
	l.completionBackoff = backoff
	return l
}

// WithObserver sets the observer notified as steps complete.
func (l *Loop) WithObserver(o Observer) *Loop {
	if o == nil {
		o = NopObserver{}
	}
	l.observer = o
	return l
}

// WithTimeProvider sets the time provider used to timestamp steps.
// Use this to inject a mock provider for testing.
func (l *Loop) WithTimeProvider(tp TimeProvider) *Loop {
	if tp == nil {
		tp = NewDefaultTimeProvider()
	}
	l.timeProvider = tp
	return l
}

// Run executes the ReAct loop for the given goal until the model
// produces a final answer, the step budget runs out, or an
// unrecoverable failure occurs.
//
// The returned error is non-nil only for caller-side conditions: an
// empty goal or a cancelled context. A cancelled step is not appended
// to the transcript. All model- and tool-side failures are reported
// through RunResult.State instead.
func (l *Loop) Run(ctx context.Context, goal string) (*RunResult, error) {
	if goal == "" {
		return nil, fmt.Errorf("termagent: goal must not be empty")
	}

	transcript := NewTranscript()
	consecutiveMalformed := 0

	for step := 0; step < l.maxSteps; step++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		promptText := l.prompts.Build(goal, transcript)

		text, err := l.complete(ctx, promptText)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			kind := ErrServiceFatal
			if IsTransient(err) {
				kind = ErrServiceTransient
			}
			return l.finish(&RunResult{
				State:       LoopFailed,
				FailureKind: kind,
				Err:         err,
				Transcript:  transcript,
			}), nil
		}

		parsed := l.parser.Parse(text)
		switch parsed.Kind {
		case ParseFinal:
			final := &Step{
				Thought:     parsed.Thought,
				FinalAnswer: parsed.FinalAnswer,
				Timestamp:   l.timeProvider.Now(),
			}
			transcript.Append(final)
			l.observer.OnStep(final)
			return l.finish(&RunResult{
				State:       LoopCompleted,
				FinalAnswer: parsed.FinalAnswer,
				Transcript:  transcript,
			}), nil

		case ParseAction:
			consecutiveMalformed = 0
			obs := l.executor.Execute(ctx, parsed.Action)
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			l.appendStep(transcript, &Step{
				Thought:     parsed.Thought,
				Action:      parsed.Action,
				Observation: &obs,
			})

		case ParseMalformed:
			consecutiveMalformed++
			if consecutiveMalformed > l.parseRetryBudget {
				return l.finish(&RunResult{
					State:       LoopFailed,
					FailureKind: ErrParseMalformed,
					Err:         fmt.Errorf("model response malformed %d times in a row: %w", consecutiveMalformed, parsed.Err),
					Transcript:  transcript,
				}), nil
			}
			// Feed the mistake back so the model can correct itself.
			obs := Failuref(ErrParseMalformed,
				"your response could not be parsed: %v. "+
					"Reply with either an Action and Action Input, or a Final Answer.",
				parsed.Err)
			l.appendStep(transcript, &Step{
				Thought:     parsed.Thought,
				Observation: &obs,
			})
		}
	}

	return l.finish(&RunResult{
		State:       LoopAborted,
		FailureKind: ErrMaxStepsExceeded,
		Transcript:  transcript,
	}), nil
}

// appendStep timestamps, records, and publishes one step.
func (l *Loop) appendStep(transcript *Transcript, step *Step) {
	step.Timestamp = l.timeProvider.Now()
	transcript.Append(step)
	l.observer.OnStep(step)
}

// finish publishes the terminal result and returns it.
func (l *Loop) finish(result *RunResult) *RunResult {
	l.observer.OnRunEnd(result)
	return result
}

// complete requests a completion, retrying transient failures with
// doubling backoff up to the configured budget.
func (l *Loop) complete(ctx context.Context, promptText string) (string, error) {
	backoff := l.completionBackoff
	for attempt := 0; ; attempt++ {
		text, err := l.client.Complete(ctx, promptText)
		if err == nil {
			return text, nil
		}
		if !IsTransient(err) || attempt >= l.completionRetries {
			return "", err
		}
		if serr := l.sleep(ctx, backoff); serr != nil {
			return "", serr
		}
		backoff *= 2
	}
}

// sleepCtx sleeps for d or until ctx is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
