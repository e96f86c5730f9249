package tools

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/coryvant/termagent"
)

// listDirectory lists the entries of a directory, one per line,
// directories marked and sorted by name.
func (e *Executor) listDirectory(path string) termagent.Observation {
	resolved := e.resolve(path)

	info, err := os.Stat(resolved)
	if err != nil {
		return statFailure(path, err)
	}
	if !info.IsDir() {
		return termagent.Failuref(termagent.ErrNotADirectory,
			"%s is not a directory", path)
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		if errors.Is(err, syscall.ENOTDIR) {
			return termagent.Failuref(termagent.ErrNotADirectory, "%s is not a directory", path)
		}
		return statFailure(path, err)
	}
	if len(entries) == 0 {
		return termagent.Success("(empty directory)", false)
	}

	var sb strings.Builder
	for _, entry := range entries {
		if entry.IsDir() {
			fmt.Fprintf(&sb, "[dir]  %s/\n", entry.Name())
		} else {
			fmt.Fprintf(&sb, "[file] %s\n", entry.Name())
		}
	}
	text, truncated := termagent.Truncate(strings.TrimRight(sb.String(), "\n"), e.maxOutputBytes)
	return termagent.Success(text, truncated)
}
