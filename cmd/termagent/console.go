package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/coryvant/termagent"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// consoleObserver streams each step to the terminal as it happens:
// thoughts dimmed, actions in blue, failed observations in red.
type consoleObserver struct {
	out io.Writer
}

func newConsoleObserver(out io.Writer) *consoleObserver {
	return &consoleObserver{out: out}
}

// OnStep implements [termagent.Observer].
func (c *consoleObserver) OnStep(step *termagent.Step) {
	if step.Thought != "" {
		fmt.Fprintf(c.out, "%sThought: %s%s\n", colorDim, step.Thought, colorReset)
	}
	if step.IsTerminal() {
		return
	}
	if step.Action != nil {
		fmt.Fprintf(c.out, "%s%s%s\n", colorBlue, step.Action, colorReset)
	}
	if step.Observation != nil {
		c.printObservation(step.Observation)
	}
	fmt.Fprintln(c.out)
}

func (c *consoleObserver) printObservation(obs *termagent.Observation) {
	color := colorReset
	if !obs.OK() {
		color = colorRed
	}
	for _, line := range strings.Split(obs.Render(), "\n") {
		fmt.Fprintf(c.out, "%s  %s%s\n", color, line, colorReset)
	}
}

// OnRunEnd implements [termagent.Observer]. The final outcome is
// printed by the session, not here.
func (c *consoleObserver) OnRunEnd(*termagent.RunResult) {}

// Compile-time check that consoleObserver implements
// termagent.Observer.
var _ termagent.Observer = (*consoleObserver)(nil)
