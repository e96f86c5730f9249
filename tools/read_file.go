package tools

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/coryvant/termagent"
)

// readFile returns the file's contents, truncated to the output cap.
// Files over the size cap are refused outright rather than partially
// read, and binary files are summarized instead of dumped into the
// prompt.
func (e *Executor) readFile(path string) termagent.Observation {
	resolved := e.resolve(path)

	info, err := os.Stat(resolved)
	if err != nil {
		return statFailure(path, err)
	}
	if info.IsDir() {
		return termagent.Failuref(termagent.ErrToolPermission,
			"%s is a directory, not a file", path)
	}
	if info.Size() > e.maxFileBytes {
		return termagent.Failuref(termagent.ErrFileTooLarge,
			"%s is %d bytes, over the %d byte limit", path, info.Size(), e.maxFileBytes)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return statFailure(path, err)
	}
	if bytes.IndexByte(data, 0) >= 0 {
		return termagent.Success(
			fmt.Sprintf("%s appears to be a binary file (%d bytes)", path, len(data)), false)
	}

	text, truncated := termagent.Truncate(string(data), e.maxOutputBytes)
	return termagent.Success(text, truncated)
}

// resolve turns a relative path into one under the working directory.
// Absolute paths are used as given.
func (e *Executor) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(e.workDir, path)
}

// statFailure maps a filesystem error onto an observation kind.
func statFailure(path string, err error) termagent.Observation {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return termagent.Failuref(termagent.ErrFileNotFound, "%s does not exist", path)
	case errors.Is(err, fs.ErrPermission):
		return termagent.Failuref(termagent.ErrToolPermission, "%s is not readable: %v", path, err)
	default:
		return termagent.Failuref(termagent.ErrToolPermission, "cannot access %s: %v", path, err)
	}
}
