package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termagent.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvGeminiAPIKey, "")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.0-flash", cfg.Model)
	assert.Contains(t, cfg.BaseURL, "generativelanguage.googleapis.com")
	assert.Equal(t, 10, cfg.MaxSteps)
	assert.Equal(t, 30*time.Second, cfg.CommandTimeout.Std())
	assert.Empty(t, cfg.APIKey)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
model: gemini-2.5-pro
max_steps: 25
command_timeout: 90s
keep_recent: 3
deny_patterns:
  - '\bcurl\b'
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, 25, cfg.MaxSteps)
	assert.Equal(t, 90*time.Second, cfg.CommandTimeout.Std())
	assert.Equal(t, 3, cfg.KeepRecent)
	assert.Equal(t, []string{`\bcurl\b`}, cfg.DenyPatterns)

	// Untouched fields keep their defaults.
	assert.Contains(t, cfg.BaseURL, "generativelanguage.googleapis.com")
	assert.Equal(t, 10, Default().MaxSteps)
}

func TestLoad_APIKeyFromEnvironment(t *testing.T) {
	t.Run("primary variable wins", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "primary-key")
		t.Setenv(EnvGeminiAPIKey, "fallback-key")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "primary-key", cfg.APIKey)
	})

	t.Run("falls back to gemini variable", func(t *testing.T) {
		t.Setenv(EnvAPIKey, "")
		t.Setenv(EnvGeminiAPIKey, "fallback-key")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, "fallback-key", cfg.APIKey)
	})
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "invalid yaml", content: "model: [unterminated"},
		{name: "bad duration", content: "command_timeout: soon"},
		{name: "zero max steps", content: "max_steps: 0"},
		{name: "negative retries", content: "completion_retries: -1"},
		{name: "bad deny pattern", content: "deny_patterns: ['[unclosed']"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_DenyPolicy(t *testing.T) {
	t.Run("built-in list by default", func(t *testing.T) {
		policy := Default().DenyPolicy()
		_, denied := policy.Match("sudo rm -rf /")
		assert.True(t, denied)
	})

	t.Run("configured patterns replace the list", func(t *testing.T) {
		cfg := Default()
		cfg.DenyPatterns = []string{`\bwget\b`}
		policy := cfg.DenyPolicy()

		_, denied := policy.Match("wget http://example.com")
		assert.True(t, denied)
		_, denied = policy.Match("sudo ls")
		assert.False(t, denied)
	})
}
