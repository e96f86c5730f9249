package termagent

import "time"

// Step is the record of one Think -> Act -> Observe cycle.
//
// Invariant: a step either carries an Action plus its Observation (or a
// synthetic Observation with no Action, for parse-failure feedback), or
// it is the terminal step carrying FinalAnswer and nothing else.
type Step struct {
	// Thought is the model's free-text reasoning for this cycle.
	Thought string

	// Action is the parsed tool invocation, nil for synthetic
	// observations and for the terminal step.
	Action *Action

	// Observation is the result of executing Action, nil for the
	// terminal step.
	Observation *Observation

	// FinalAnswer is non-empty only on the terminal step.
	FinalAnswer string

	// Timestamp records when the step was appended.
	Timestamp time.Time
}

// IsTerminal reports whether this is the terminal step of a run.
func (s *Step) IsTerminal() bool {
	return s.FinalAnswer != ""
}

// Transcript is the append-only history of steps for one agent run. It
// is owned exclusively by a single [Loop.Run] invocation and discarded
// at run end; there is no cross-session persistence.
type Transcript struct {
	steps []*Step
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{}
}

// Append adds a step. Panics if the transcript has already been closed
// by a terminal step; the terminal step is always last.
func (t *Transcript) Append(step *Step) {
	if n := len(t.steps); n > 0 && t.steps[n-1].IsTerminal() {
		panic("termagent: append to a closed transcript")
	}
	t.steps = append(t.steps, step)
}

// Steps returns the recorded steps in chronological order. The
// returned slice is a copy; the steps themselves are shared.
func (t *Transcript) Steps() []*Step {
	out := make([]*Step, len(t.steps))
	copy(out, t.steps)
	return out
}

// Len returns the number of recorded steps.
func (t *Transcript) Len() int {
	return len(t.steps)
}

// Last returns up to n of the most recent steps in chronological
// order. Useful for failure summaries.
func (t *Transcript) Last(n int) []*Step {
	if n >= len(t.steps) {
		return t.Steps()
	}
	out := make([]*Step, n)
	copy(out, t.steps[len(t.steps)-n:])
	return out
}
