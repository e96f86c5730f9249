package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"github.com/coryvant/termagent"
	"github.com/coryvant/termagent/tools"
)

// historyWindow is how many recent requests are summarized into the
// next goal so follow-ups like "now count them" resolve naturally.
const historyWindow = 5

// exchange is one past request and, when the run completed, its
// answer.
type exchange struct {
	request string
	answer  string
}

// session runs goals against a wired loop, one at a time.
type session struct {
	loop     *termagent.Loop
	executor *tools.Executor
	out      io.Writer
	history  []exchange
}

// runOnce executes a single goal and exits non-zero unless the loop
// completed with an answer.
func (s *session) runOnce(goal string) error {
	ctx, cancel := runCtx()
	defer cancel()

	result, err := s.loop.Run(ctx, goal)
	if err != nil {
		return err
	}
	s.printResult(result)
	if result.State != termagent.LoopCompleted {
		return fmt.Errorf("run %s: %v", result.State, result.Err)
	}
	return nil
}

// repl reads requests until exit/quit/bye or EOF. `cd` is handled
// here rather than sent to the model: changing the working directory
// is session state, not a task.
func (s *session) repl() error {
	rl, err := readline.New(colorCyan + colorBold + "termagent> " + colorReset)
	if err != nil {
		return fmt.Errorf("create readline: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(s.out, "%sTerminal assistant. Describe a task, or 'exit' to leave.%s\n",
		colorDim, colorReset)
	fmt.Fprintf(s.out, "%sWorking directory: %s%s\n\n", colorDim, s.executor.WorkDir(), colorReset)

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Fprintf(s.out, "%sGoodbye!%s\n", colorGreen, colorReset)
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		input := strings.TrimSpace(line)
		switch {
		case input == "":
			continue
		case input == "exit" || input == "quit" || input == "bye":
			fmt.Fprintf(s.out, "%sGoodbye!%s\n", colorGreen, colorReset)
			return nil
		case input == "cd" || strings.HasPrefix(input, "cd "):
			s.changeDir(strings.TrimSpace(strings.TrimPrefix(input, "cd")))
			continue
		}

		s.runGoal(input)
	}
}

// runGoal runs one request with interrupt handling and records it in
// the session history.
func (s *session) runGoal(input string) {
	ctx, cancel := runCtx()
	defer cancel()

	result, err := s.loop.Run(ctx, s.withHistory(input))
	entry := exchange{request: input}
	if err != nil {
		s.history = append(s.history, entry)
		if ctx.Err() != nil {
			fmt.Fprintf(s.out, "\n%sRun cancelled.%s\n\n", colorYellow, colorReset)
			return
		}
		fmt.Fprintf(s.out, "\n%sError: %v%s\n\n", colorRed, err, colorReset)
		return
	}
	if result.State == termagent.LoopCompleted {
		entry.answer = result.FinalAnswer
	}
	s.history = append(s.history, entry)
	s.printResult(result)
}

// withHistory prepends the last few requests so the model can resolve
// references to earlier work.
func (s *session) withHistory(input string) string {
	if len(s.history) == 0 {
		return input
	}
	recent := s.history
	if len(recent) > historyWindow {
		recent = recent[len(recent)-historyWindow:]
	}
	var sb strings.Builder
	sb.WriteString("Earlier requests in this session, oldest first:\n")
	for _, h := range recent {
		sb.WriteString("- ")
		sb.WriteString(h.request)
		if h.answer != "" {
			sb.WriteString(" -> ")
			sb.WriteString(h.answer)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\nCurrent request: ")
	sb.WriteString(input)
	return sb.String()
}

// changeDir updates the executor's working directory. Bare `cd` goes
// home, mirroring the shell.
func (s *session) changeDir(target string) {
	if target == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(s.out, "%scd: %v%s\n", colorRed, err, colorReset)
			return
		}
		target = home
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(s.executor.WorkDir(), target)
	}
	target = filepath.Clean(target)

	info, err := os.Stat(target)
	switch {
	case err != nil:
		fmt.Fprintf(s.out, "%scd: %s: no such directory%s\n", colorRed, target, colorReset)
	case !info.IsDir():
		fmt.Fprintf(s.out, "%scd: %s: not a directory%s\n", colorRed, target, colorReset)
	default:
		s.executor.SetWorkDir(target)
		fmt.Fprintf(s.out, "%sWorking directory: %s%s\n", colorDim, target, colorReset)
	}
}

// printResult renders the outcome of a run.
func (s *session) printResult(result *termagent.RunResult) {
	switch result.State {
	case termagent.LoopCompleted:
		fmt.Fprintf(s.out, "\n%s%sAnswer:%s %s\n\n",
			colorBold, colorGreen, colorReset, result.FinalAnswer)
	case termagent.LoopAborted:
		fmt.Fprintf(s.out, "\n%sStopped after %d steps without an answer.%s\n\n",
			colorYellow, result.Transcript.Len(), colorReset)
	default:
		fmt.Fprintf(s.out, "\n%sFailed (%s): %v%s\n\n",
			colorRed, result.FailureKind, result.Err, colorReset)
	}
}
