// Package loggers provides observers that record loop activity.
// Records are written as YAML with block scalars so multi-line
// thoughts and tool output stay readable. Nothing is truncated: the
// log is where the full output lives after the prompt's own
// truncation.
package loggers

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/coryvant/termagent"
)

// StepLogger implements [termagent.Observer] by appending one YAML
// document per step and a closing document per run to a writer. Safe
// for use from a single loop; writes are serialized internally so a
// shared writer stays coherent.
type StepLogger struct {
	mu  sync.Mutex
	out io.Writer
}

// NewStepLogger creates a StepLogger writing to stdout.
func NewStepLogger() *StepLogger {
	return &StepLogger{out: os.Stdout}
}

// NewStepLoggerWithWriter creates a StepLogger writing to w.
func NewStepLoggerWithWriter(w io.Writer) *StepLogger {
	return &StepLogger{out: w}
}

// stepRecord is the YAML shape of a logged step.
type stepRecord struct {
	Time        string            `yaml:"time"`
	Thought     string            `yaml:"thought,omitempty"`
	Tool        string            `yaml:"tool,omitempty"`
	Args        map[string]string `yaml:"args,omitempty"`
	Output      string            `yaml:"output,omitempty"`
	Truncated   bool              `yaml:"truncated,omitempty"`
	ErrorKind   string            `yaml:"error_kind,omitempty"`
	Error       string            `yaml:"error,omitempty"`
	FinalAnswer string            `yaml:"final_answer,omitempty"`
}

// runRecord is the YAML shape of a finished run.
type runRecord struct {
	Time        string `yaml:"time"`
	State       string `yaml:"state"`
	Steps       int    `yaml:"steps"`
	FinalAnswer string `yaml:"final_answer,omitempty"`
	FailureKind string `yaml:"failure_kind,omitempty"`
	Error       string `yaml:"error,omitempty"`
}

// OnStep implements [termagent.Observer].
func (l *StepLogger) OnStep(step *termagent.Step) {
	record := stepRecord{
		Time:        step.Timestamp.Format(time.RFC3339),
		Thought:     step.Thought,
		FinalAnswer: step.FinalAnswer,
	}
	if step.Action != nil {
		record.Tool = string(step.Action.Tool)
		record.Args = step.Action.Args
	}
	if step.Observation != nil {
		record.Output = step.Observation.Output
		record.Truncated = step.Observation.Truncated
		record.ErrorKind = string(step.Observation.Kind)
		record.Error = step.Observation.Message
	}
	l.write(record)
}

// OnRunEnd implements [termagent.Observer].
func (l *StepLogger) OnRunEnd(result *termagent.RunResult) {
	record := runRecord{
		Time:        time.Now().Format(time.RFC3339),
		State:       string(result.State),
		FinalAnswer: result.FinalAnswer,
		FailureKind: string(result.FailureKind),
	}
	if result.Transcript != nil {
		record.Steps = result.Transcript.Len()
	}
	if result.Err != nil {
		record.Error = result.Err.Error()
	}
	l.write(record)
}

// write marshals the record as its own YAML document.
func (l *StepLogger) write(v any) {
	data, err := yaml.Marshal(v)
	if err != nil {
		l.mu.Lock()
		fmt.Fprintf(l.out, "# failed to marshal log record: %v\n", err)
		l.mu.Unlock()
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.out, "---\n%s", data)
}

// Compile-time check that StepLogger implements termagent.Observer.
var _ termagent.Observer = (*StepLogger)(nil)
