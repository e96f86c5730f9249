package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/coryvant/termagent"
)

// exitCommandNotFound is what POSIX shells exit with when the command
// named on the line does not exist.
const exitCommandNotFound = 127

// runCommand checks the deny policy, then hands the command to the
// runner under the configured timeout. Non-zero exits are successes
// with the exit status noted in the output: the model decides what a
// failing grep means, not the executor.
func (e *Executor) runCommand(ctx context.Context, command string) termagent.Observation {
	if pattern, denied := e.policy.Match(command); denied {
		return termagent.Failuref(termagent.ErrPolicyDenied,
			"command matches deny pattern %q and was not executed", pattern)
	}

	runCtx, cancel := context.WithTimeout(ctx, e.commandTimeout)
	defer cancel()

	out, exitCode, err := e.runner(runCtx, e.workDir, command)

	// A killed process surfaces as a -1 exit, so check the deadline
	// before interpreting either the error or the exit code.
	if errors.Is(runCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return termagent.Failuref(termagent.ErrToolTimeout,
			"command did not finish within %s and was killed", e.commandTimeout)
	}
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return termagent.Failuref(termagent.ErrToolPermission,
				"command could not be started: %v", err)
		}
		return termagent.Failuref(termagent.ErrToolNotFound,
			"command could not be started: %v", err)
	}

	text, truncated := termagent.Truncate(string(out), e.maxOutputBytes)
	if exitCode == exitCommandNotFound {
		return termagent.Failuref(termagent.ErrToolNotFound,
			"command not found (exit %d): %s", exitCode, strings.TrimSpace(text))
	}
	if exitCode != 0 {
		text = fmt.Sprintf("%s\n[exit status %d]", text, exitCode)
	}
	return termagent.Success(text, truncated)
}

// runShell is the default [CommandRunner]: /bin/sh -c in its own
// process group, so a timeout kills the whole pipeline rather than
// just the shell.
func runShell(ctx context.Context, dir, command string) ([]byte, int, error) {
	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	cmd.Dir = dir
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = 2 * time.Second

	out, err := cmd.CombinedOutput()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, exitErr.ExitCode(), nil
	}
	if err != nil {
		return out, 0, err
	}
	return out, 0, nil
}
