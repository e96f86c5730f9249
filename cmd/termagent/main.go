// Command termagent is a terminal assistant: it takes a natural
// language request, reasons about it, and works through shell
// commands and file inspections until it can answer.
//
// With a goal on the command line it runs once and exits; without one
// it starts an interactive session.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coryvant/termagent"
	"github.com/coryvant/termagent/config"
	"github.com/coryvant/termagent/loggers"
	"github.com/coryvant/termagent/models"
	"github.com/coryvant/termagent/parser"
	"github.com/coryvant/termagent/prompt"
	"github.com/coryvant/termagent/tools"
)

// rootFlags are the command-line overrides layered over the config
// file.
type rootFlags struct {
	configPath string
	model      string
	workDir    string
	logFile    string
	maxSteps   int
	timeout    time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%sError: %v%s\n", colorRed, err, colorReset)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "termagent [goal]",
		Short: "An assistant that answers questions by running terminal commands",
		Long: "termagent interleaves reasoning with shell commands and file\n" +
			"inspections until it can answer your request. Pass the request as\n" +
			"arguments for a single run, or start it bare for an interactive\n" +
			"session.",
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cfg.APIKey == "" {
				return fmt.Errorf("no API key: set %s or %s",
					config.EnvAPIKey, config.EnvGeminiAPIKey)
			}

			session, cleanup, err := newSession(cfg, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) > 0 {
				return session.runOnce(strings.Join(args, " "))
			}
			return session.repl()
		},
	}

	cmd.Flags().StringVarP(&flags.configPath, "config", "c", "", "path to a YAML config file")
	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "model name (overrides config)")
	cmd.Flags().StringVarP(&flags.workDir, "workdir", "w", "", "working directory for commands")
	cmd.Flags().StringVar(&flags.logFile, "log", "", "append YAML step records to this file")
	cmd.Flags().IntVar(&flags.maxSteps, "max-steps", 0, "maximum reasoning steps per request")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "per-command timeout")

	return cmd
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.model != "" {
		cfg.Model = flags.model
	}
	if flags.workDir != "" {
		cfg.WorkDir = flags.workDir
	}
	if flags.logFile != "" {
		cfg.LogFile = flags.logFile
	}
	if flags.maxSteps > 0 {
		cfg.MaxSteps = flags.maxSteps
	}
	if flags.timeout > 0 {
		cfg.CommandTimeout = config.Duration(flags.timeout)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newSession wires the loop from the configuration. The returned
// cleanup closes the log file, if any.
func newSession(cfg *config.Config, out io.Writer) (*session, func(), error) {
	client, err := buildClient(cfg)
	if err != nil {
		return nil, nil, err
	}

	workDir, err := filepath.Abs(cfg.WorkDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve workdir: %w", err)
	}
	executor := tools.NewExecutor(workDir).
		WithPolicy(cfg.DenyPolicy()).
		WithCommandTimeout(cfg.CommandTimeout.Std()).
		WithMaxOutputBytes(cfg.MaxOutputBytes).
		WithMaxFileBytes(cfg.MaxFileBytes)

	catalog := termagent.DefaultCatalog()
	actionParser, err := parser.New(catalog)
	if err != nil {
		return nil, nil, err
	}
	builder := prompt.NewBuilder(catalog).
		WithMaxPromptBytes(cfg.MaxPromptBytes).
		WithKeepRecent(cfg.KeepRecent)

	observer := termagent.Observer(newConsoleObserver(out))
	cleanup := func() {}
	if cfg.LogFile != "" {
		logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		observer = termagent.MultiObserver{observer, loggers.NewStepLoggerWithWriter(logFile)}
		cleanup = func() { logFile.Close() }
	}

	loop := termagent.NewLoop(client, actionParser, executor, builder).
		WithMaxSteps(cfg.MaxSteps).
		WithCompletionRetry(cfg.CompletionRetries, cfg.CompletionBackoff.Std()).
		WithObserver(observer)

	return &session{loop: loop, executor: executor, out: out}, cleanup, nil
}

func buildClient(cfg *config.Config) (termagent.CompletionClient, error) {
	if cfg.BaseURL == models.GeminiOpenAIBaseURL {
		return models.NewGeminiClient(cfg.APIKey, cfg.Model)
	}
	return models.NewOpenAICompatClient(cfg.APIKey, cfg.BaseURL, cfg.Model)
}

// runCtx returns a context cancelled by SIGINT or SIGTERM, so Ctrl-C
// stops the current run at the next step boundary.
func runCtx() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
