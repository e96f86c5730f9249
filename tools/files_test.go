package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coryvant/termagent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTree builds a small project-like tree for the file tools.
func seedTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	write := func(rel, content string) {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	write("README.md", "# demo project\n")
	write("main.go", "package main\n")
	write("src/util.go", "package src\n")
	write("src/util_test.go", "package src\n")
	write("docs/notes.txt", "remember the milk\n")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "empty"), 0o755))
	return dir
}

func TestReadFile(t *testing.T) {
	dir := seedTree(t)
	exec := NewExecutor(dir)

	t.Run("reads relative path", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewReadFile("README.md"))
		require.True(t, obs.OK())
		assert.Equal(t, "# demo project\n", obs.Output)
	})

	t.Run("reads nested path", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewReadFile("src/util.go"))
		require.True(t, obs.OK())
		assert.Equal(t, "package src\n", obs.Output)
	})

	t.Run("missing file", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewReadFile("ghost.txt"))
		assert.Equal(t, termagent.ErrFileNotFound, obs.Kind)
		assert.Contains(t, obs.Message, "ghost.txt")
	})

	t.Run("directory is not a file", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewReadFile("src"))
		assert.Equal(t, termagent.ErrToolPermission, obs.Kind)
	})

	t.Run("oversized file refused", func(t *testing.T) {
		big := filepath.Join(dir, "big.log")
		require.NoError(t, os.WriteFile(big, []byte(strings.Repeat("a", 512)), 0o644))

		obs := NewExecutor(dir).WithMaxFileBytes(100).
			Execute(context.Background(), termagent.NewReadFile("big.log"))
		assert.Equal(t, termagent.ErrFileTooLarge, obs.Kind)
	})

	t.Run("binary file summarized", func(t *testing.T) {
		bin := filepath.Join(dir, "blob.bin")
		require.NoError(t, os.WriteFile(bin, []byte{0x7f, 'E', 'L', 'F', 0x00, 0x01}, 0o644))

		obs := exec.Execute(context.Background(), termagent.NewReadFile("blob.bin"))
		require.True(t, obs.OK())
		assert.Contains(t, obs.Output, "binary")
	})

	t.Run("long file truncated", func(t *testing.T) {
		long := filepath.Join(dir, "long.txt")
		require.NoError(t, os.WriteFile(long, []byte(strings.Repeat("b", 512)), 0o644))

		obs := NewExecutor(dir).WithMaxOutputBytes(64).
			Execute(context.Background(), termagent.NewReadFile("long.txt"))
		require.True(t, obs.OK())
		assert.True(t, obs.Truncated)
		assert.Len(t, obs.Output, 64)
	})
}

func TestListDirectory(t *testing.T) {
	dir := seedTree(t)
	exec := NewExecutor(dir)

	t.Run("lists sorted entries with markers", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewListDirectory("."))
		require.True(t, obs.OK())

		lines := strings.Split(obs.Output, "\n")
		assert.Contains(t, lines, "[file] README.md")
		assert.Contains(t, lines, "[file] main.go")
		assert.Contains(t, lines, "[dir]  src/")

		// os.ReadDir sorts by name, so the rendering is deterministic.
		srcIdx := strings.Index(obs.Output, "src/")
		readmeIdx := strings.Index(obs.Output, "README.md")
		assert.Less(t, readmeIdx, srcIdx)
	})

	t.Run("empty directory", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewListDirectory("empty"))
		require.True(t, obs.OK())
		assert.Equal(t, "(empty directory)", obs.Output)
	})

	t.Run("missing directory", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewListDirectory("nowhere"))
		assert.Equal(t, termagent.ErrFileNotFound, obs.Kind)
	})

	t.Run("file is not a directory", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewListDirectory("README.md"))
		assert.Equal(t, termagent.ErrNotADirectory, obs.Kind)
	})
}

func TestFindFiles(t *testing.T) {
	dir := seedTree(t)
	exec := NewExecutor(dir)

	t.Run("glob on base name", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewFindFiles("*.go"))
		require.True(t, obs.OK())

		lines := strings.Split(obs.Output, "\n")
		assert.Equal(t, []string{
			"main.go",
			filepath.Join("src", "util.go"),
			filepath.Join("src", "util_test.go"),
		}, lines)
	})

	t.Run("substring on relative path", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewFindFiles("notes"))
		require.True(t, obs.OK())
		assert.Equal(t, filepath.Join("docs", "notes.txt"), obs.Output)
	})

	t.Run("no matches", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewFindFiles("*.rs"))
		require.True(t, obs.OK())
		assert.Contains(t, obs.Output, "no files matching")
	})

	t.Run("git directory skipped", func(t *testing.T) {
		gitFile := filepath.Join(dir, ".git", "config")
		require.NoError(t, os.MkdirAll(filepath.Dir(gitFile), 0o755))
		require.NoError(t, os.WriteFile(gitFile, []byte("[core]\n"), 0o644))

		obs := exec.Execute(context.Background(), termagent.NewFindFiles("config"))
		require.True(t, obs.OK())
		assert.Contains(t, obs.Output, "no files matching")
	})

	t.Run("invalid glob", func(t *testing.T) {
		obs := exec.Execute(context.Background(), termagent.NewFindFiles("[unclosed"))
		assert.False(t, obs.OK())
	})
}
