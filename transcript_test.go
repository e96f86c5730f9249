package termagent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func obsStep(thought string) *Step {
	obs := Success("ok", false)
	return &Step{
		Thought:     thought,
		Action:      NewRunCommand("true"),
		Observation: &obs,
	}
}

func TestTranscript_AppendOrder(t *testing.T) {
	tr := NewTranscript()
	a := obsStep("first")
	b := obsStep("second")

	tr.Append(a)
	tr.Append(b)

	require.Equal(t, 2, tr.Len())
	steps := tr.Steps()
	assert.Same(t, a, steps[0])
	assert.Same(t, b, steps[1])
}

func TestTranscript_StepsReturnsCopy(t *testing.T) {
	tr := NewTranscript()
	tr.Append(obsStep("only"))

	steps := tr.Steps()
	steps[0] = nil

	require.Equal(t, 1, tr.Len())
	assert.NotNil(t, tr.Steps()[0])
}

func TestTranscript_AppendAfterTerminalPanics(t *testing.T) {
	tr := NewTranscript()
	tr.Append(&Step{FinalAnswer: "done"})

	assert.Panics(t, func() {
		tr.Append(obsStep("too late"))
	})
}

func TestTranscript_Last(t *testing.T) {
	tr := NewTranscript()
	a := obsStep("a")
	b := obsStep("b")
	c := obsStep("c")
	tr.Append(a)
	tr.Append(b)
	tr.Append(c)

	last := tr.Last(2)
	require.Len(t, last, 2)
	assert.Same(t, b, last[0])
	assert.Same(t, c, last[1])

	// Asking for more than recorded returns everything.
	assert.Len(t, tr.Last(10), 3)
}

func TestStep_IsTerminal(t *testing.T) {
	assert.False(t, obsStep("working").IsTerminal())
	assert.True(t, (&Step{FinalAnswer: "the answer"}).IsTerminal())
}
