package tools

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coryvant/termagent"
)

// maxFindResults bounds a find_files sweep so a match-everything
// pattern in a large tree cannot flood the prompt.
const maxFindResults = 500

// findFiles walks the working directory and returns files whose base
// name matches the glob pattern, or whose relative path contains the
// pattern when it has no glob metacharacters. Hidden VCS directories
// are skipped, and unreadable subtrees are passed over rather than
// failing the whole search.
func (e *Executor) findFiles(pattern string) termagent.Observation {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return termagent.Failuref(termagent.ErrToolNotFound,
			"invalid pattern %q: %v", pattern, err)
	}

	isGlob := strings.ContainsAny(pattern, "*?[")
	var matches []string
	walkErr := filepath.WalkDir(e.workDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return fs.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(e.workDir, path)
		if relErr != nil {
			rel = path
		}
		matched := false
		if isGlob {
			matched, _ = filepath.Match(pattern, d.Name())
		} else {
			matched = strings.Contains(rel, pattern)
		}
		if matched {
			matches = append(matches, rel)
			if len(matches) >= maxFindResults {
				return fs.SkipAll
			}
		}
		return nil
	})
	if walkErr != nil {
		return statFailure(e.workDir, walkErr)
	}

	if len(matches) == 0 {
		return termagent.Success(fmt.Sprintf("no files matching %q", pattern), false)
	}
	sort.Strings(matches)

	text := strings.Join(matches, "\n")
	if len(matches) >= maxFindResults {
		text += fmt.Sprintf("\n[search stopped after %d matches]", maxFindResults)
	}
	text, truncated := termagent.Truncate(text, e.maxOutputBytes)
	return termagent.Success(text, truncated)
}
