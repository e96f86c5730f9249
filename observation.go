package termagent

import "fmt"

// ErrorKind classifies a failure so the loop and the model can react
// to it. Tool and file failures are recoverable: they become
// observations the model sees and the loop keeps going. Only service
// failures, repeated malformed responses, and step-budget exhaustion
// terminate a run.
type ErrorKind string

const (
	// ErrParseMalformed: the completion text matched neither the action
	// grammar nor the final-answer grammar.
	ErrParseMalformed ErrorKind = "parse_malformed"

	// ErrPolicyDenied: the command matched the deny policy and was never
	// executed.
	ErrPolicyDenied ErrorKind = "policy_denied"

	// ErrToolNotFound: the command could not be started (e.g. the binary
	// does not exist).
	ErrToolNotFound ErrorKind = "tool_not_found"

	// ErrToolTimeout: the command exceeded its wall-clock timeout and
	// was killed.
	ErrToolTimeout ErrorKind = "tool_timeout"

	// ErrToolPermission: the operation was denied by the operating
	// system.
	ErrToolPermission ErrorKind = "tool_permission"

	// ErrFileNotFound: the requested file or directory does not exist.
	ErrFileNotFound ErrorKind = "file_not_found"

	// ErrFileTooLarge: the file exceeds the configured size cap.
	ErrFileTooLarge ErrorKind = "file_too_large"

	// ErrNotADirectory: list_directory was pointed at a non-directory.
	ErrNotADirectory ErrorKind = "not_a_directory"

	// ErrServiceTransient: the completion service failed in a retryable
	// way and the retry budget was exhausted.
	ErrServiceTransient ErrorKind = "service_transient"

	// ErrServiceFatal: the completion service failed in a
	// non-retryable way (e.g. invalid credentials).
	ErrServiceFatal ErrorKind = "service_fatal"

	// ErrMaxStepsExceeded: the loop reached its step budget without a
	// final answer.
	ErrMaxStepsExceeded ErrorKind = "max_steps_exceeded"
)

// Observation is the structured result of executing one action, fed
// back to the model on the next iteration. It is either a success
// carrying (possibly truncated) output, or a failure carrying an
// [ErrorKind] and a message.
type Observation struct {
	// Output is the captured result text. Populated on success only.
	Output string

	// Truncated reports whether Output was cut at the configured byte
	// cap. Observations never grow unboundedly; this keeps prompts
	// within context limits.
	Truncated bool

	// Kind is empty on success and set to the failure classification
	// otherwise.
	Kind ErrorKind

	// Message describes the failure in text the model can react to.
	Message string
}

// Success creates a successful observation.
func Success(output string, truncated bool) Observation {
	return Observation{Output: output, Truncated: truncated}
}

// Failure creates a failed observation.
func Failure(kind ErrorKind, message string) Observation {
	return Observation{Kind: kind, Message: message}
}

// Failuref creates a failed observation with a formatted message.
func Failuref(kind ErrorKind, format string, args ...any) Observation {
	return Failure(kind, fmt.Sprintf(format, args...))
}

// OK reports whether the observation is a success.
func (o Observation) OK() bool {
	return o.Kind == ""
}

// Render returns the text shown to the model for this observation.
func (o Observation) Render() string {
	if !o.OK() {
		return fmt.Sprintf("ERROR (%s): %s", o.Kind, o.Message)
	}
	out := o.Output
	if out == "" {
		out = "(no output)"
	}
	if o.Truncated {
		out += "\n[output truncated]"
	}
	return out
}

// Truncate cuts s at max bytes, reporting whether anything was cut.
// Content under the cap round-trips verbatim. The cut never splits a
// UTF-8 sequence: trailing continuation bytes are dropped.
func Truncate(s string, max int) (string, bool) {
	if max <= 0 || len(s) <= max {
		return s, false
	}
	cut := s[:max]
	// Back off any partial rune at the boundary.
	for len(cut) > 0 && cut[len(cut)-1]&0xC0 == 0x80 {
		cut = cut[:len(cut)-1]
	}
	return cut, true
}
