// Package config loads assistant settings from a YAML file layered
// over built-in defaults, with the API key sourced from the
// environment so it never lives in a config file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coryvant/termagent"
	"github.com/coryvant/termagent/models"
	"github.com/coryvant/termagent/prompt"
	"github.com/coryvant/termagent/tools"
)

// Environment variables consulted for the API key, in order.
const (
	EnvAPIKey       = "TERMAGENT_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// Config holds every tunable of the assistant. Zero values mean "use
// the default"; Load fills them in.
type Config struct {
	// Model is the model name sent to the provider.
	Model string `yaml:"model"`

	// BaseURL is an OpenAI-compatible endpoint.
	BaseURL string `yaml:"base_url"`

	// APIKey is resolved from the environment, never from YAML.
	APIKey string `yaml:"-"`

	// MaxSteps bounds the loop's iterations per request.
	MaxSteps int `yaml:"max_steps"`

	// CommandTimeout bounds a single shell command.
	CommandTimeout Duration `yaml:"command_timeout"`

	// MaxOutputBytes caps tool output fed back into the prompt.
	MaxOutputBytes int `yaml:"max_output_bytes"`

	// MaxFileBytes caps the size of a file read_file will open.
	MaxFileBytes int64 `yaml:"max_file_bytes"`

	// MaxPromptBytes bounds the rendered prompt size.
	MaxPromptBytes int `yaml:"max_prompt_bytes"`

	// KeepRecent is how many recent steps always render verbatim.
	KeepRecent int `yaml:"keep_recent"`

	// CompletionRetries is how many times a transient completion
	// failure is retried.
	CompletionRetries int `yaml:"completion_retries"`

	// CompletionBackoff is the initial retry delay; it doubles per
	// attempt.
	CompletionBackoff Duration `yaml:"completion_backoff"`

	// DenyPatterns replaces the built-in command deny list when set.
	DenyPatterns []string `yaml:"deny_patterns"`

	// WorkDir is where commands run and relative paths resolve.
	// Defaults to the current directory.
	WorkDir string `yaml:"work_dir"`

	// LogFile receives YAML step records when set.
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Model:             models.DefaultModelName,
		BaseURL:           models.GeminiOpenAIBaseURL,
		MaxSteps:          termagent.DefaultMaxSteps,
		CommandTimeout:    Duration(tools.DefaultCommandTimeout),
		MaxOutputBytes:    tools.DefaultMaxOutputBytes,
		MaxFileBytes:      tools.DefaultMaxFileBytes,
		MaxPromptBytes:    prompt.DefaultMaxPromptBytes,
		KeepRecent:        prompt.DefaultKeepRecent,
		CompletionRetries: termagent.DefaultCompletionRetries,
		CompletionBackoff: Duration(termagent.DefaultCompletionBackoff),
		WorkDir:           ".",
	}
}

// Load reads the YAML file at path over the defaults and resolves the
// API key from the environment. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.APIKey = os.Getenv(EnvAPIKey)
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv(EnvGeminiAPIKey)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the assistant cannot
// run with. The API key is checked separately at startup so commands
// that never call the model still work without one.
func (c *Config) Validate() error {
	switch {
	case c.Model == "":
		return fmt.Errorf("config: model cannot be empty")
	case c.BaseURL == "":
		return fmt.Errorf("config: base_url cannot be empty")
	case c.MaxSteps < 1:
		return fmt.Errorf("config: max_steps must be >= 1, got %d", c.MaxSteps)
	case c.CommandTimeout <= 0:
		return fmt.Errorf("config: command_timeout must be positive, got %s", c.CommandTimeout.Std())
	case c.MaxOutputBytes < 1:
		return fmt.Errorf("config: max_output_bytes must be >= 1, got %d", c.MaxOutputBytes)
	case c.MaxFileBytes < 1:
		return fmt.Errorf("config: max_file_bytes must be >= 1, got %d", c.MaxFileBytes)
	case c.MaxPromptBytes < 1:
		return fmt.Errorf("config: max_prompt_bytes must be >= 1, got %d", c.MaxPromptBytes)
	case c.KeepRecent < 1:
		return fmt.Errorf("config: keep_recent must be >= 1, got %d", c.KeepRecent)
	case c.CompletionRetries < 0:
		return fmt.Errorf("config: completion_retries cannot be negative, got %d", c.CompletionRetries)
	case c.CompletionBackoff <= 0:
		return fmt.Errorf("config: completion_backoff must be positive, got %s", c.CompletionBackoff.Std())
	}
	if _, err := tools.NewDenyPolicy(c.DenyPatterns); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// DenyPolicy builds the deny policy from DenyPatterns, falling back to
// the built-in list when none are configured. Call Validate first; bad
// patterns panic here.
func (c *Config) DenyPolicy() *tools.DenyPolicy {
	patterns := c.DenyPatterns
	if len(patterns) == 0 {
		patterns = tools.DefaultDenyPatterns()
	}
	return tools.MustNewDenyPolicy(patterns)
}
