// Package tools executes parsed actions against the local machine:
// shell commands, file reads, directory listings, and file searches.
//
// The Executor is the only component that touches the operating
// system. Every failure mode is reported as an in-band
// [termagent.Observation] so the loop can feed it back to the model,
// and every output is truncated to a configurable byte cap before it
// reaches a prompt. Shell commands pass a [DenyPolicy] check before a
// process is spawned.
package tools

import (
	"context"
	"time"

	"github.com/coryvant/termagent"
)

// Defaults for a new [Executor].
const (
	// DefaultCommandTimeout bounds a single shell command.
	DefaultCommandTimeout = 30 * time.Second

	// DefaultMaxOutputBytes caps the observation text for any tool.
	DefaultMaxOutputBytes = 16 * 1024

	// DefaultMaxFileBytes caps the size of a file read_file will open.
	DefaultMaxFileBytes = 1 << 20
)

// CommandRunner runs a shell command in dir and returns its combined
// output, exit code, and any error that prevented the command from
// running at all. A non-zero exit is not a runner error.
type CommandRunner func(ctx context.Context, dir, command string) (output []byte, exitCode int, err error)

// Executor implements [termagent.ToolExecutor] against the local
// filesystem and /bin/sh.
type Executor struct {
	workDir        string
	policy         *DenyPolicy
	commandTimeout time.Duration
	maxOutputBytes int
	maxFileBytes   int64
	runner         CommandRunner
}

// NewExecutor creates an Executor rooted at workDir with the default
// deny policy, timeout, and output caps.
func NewExecutor(workDir string) *Executor {
	return &Executor{
		workDir:        workDir,
		policy:         MustNewDenyPolicy(DefaultDenyPatterns()),
		commandTimeout: DefaultCommandTimeout,
		maxOutputBytes: DefaultMaxOutputBytes,
		maxFileBytes:   DefaultMaxFileBytes,
		runner:         runShell,
	}
}

// WithPolicy replaces the deny policy. A nil policy denies nothing.
func (e *Executor) WithPolicy(p *DenyPolicy) *Executor {
	e.policy = p
	return e
}

// WithCommandTimeout sets the per-command timeout. Panics if d <= 0.
func (e *Executor) WithCommandTimeout(d time.Duration) *Executor {
	if d <= 0 {
		panic("tools: command timeout must be positive")
	}
	e.commandTimeout = d
	return e
}

// WithMaxOutputBytes sets the observation byte cap. Panics if n < 1.
func (e *Executor) WithMaxOutputBytes(n int) *Executor {
	if n < 1 {
		panic("tools: max output bytes must be >= 1")
	}
	e.maxOutputBytes = n
	return e
}

// WithMaxFileBytes sets the largest file read_file will open. Panics
// if n < 1.
func (e *Executor) WithMaxFileBytes(n int64) *Executor {
	if n < 1 {
		panic("tools: max file bytes must be >= 1")
	}
	e.maxFileBytes = n
	return e
}

// WithRunner replaces the shell runner. Used in tests and for callers
// that want a different shell or a sandboxed runner.
func (e *Executor) WithRunner(r CommandRunner) *Executor {
	if r == nil {
		panic("tools: runner cannot be nil")
	}
	e.runner = r
	return e
}

// WorkDir returns the directory commands and relative paths resolve
// against.
func (e *Executor) WorkDir() string {
	return e.workDir
}

// SetWorkDir changes the working directory for subsequent actions.
func (e *Executor) SetWorkDir(dir string) {
	e.workDir = dir
}

// Execute implements [termagent.ToolExecutor]. It never returns an
// error: every failure is an observation the model can react to.
func (e *Executor) Execute(ctx context.Context, action *termagent.Action) termagent.Observation {
	if err := action.Validate(); err != nil {
		return termagent.Failuref(termagent.ErrToolNotFound, "invalid action: %v", err)
	}
	switch action.Tool {
	case termagent.ToolRunCommand:
		return e.runCommand(ctx, action.Command())
	case termagent.ToolReadFile:
		return e.readFile(action.Path())
	case termagent.ToolListDirectory:
		return e.listDirectory(action.Path())
	case termagent.ToolFindFiles:
		return e.findFiles(action.Pattern())
	default:
		return termagent.Failuref(termagent.ErrToolNotFound, "no executor for tool %q", action.Tool)
	}
}

// Compile-time check that Executor implements termagent.ToolExecutor.
var _ termagent.ToolExecutor = (*Executor)(nil)
