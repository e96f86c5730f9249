package termagent

import "fmt"

// ToolName identifies one of the closed set of tools the agent may
// invoke. Model output naming anything outside the set never becomes
// an Action.
type ToolName string

const (
	// ToolRunCommand executes a shell command in the working directory.
	ToolRunCommand ToolName = "run_command"

	// ToolReadFile reads the contents of a file.
	ToolReadFile ToolName = "read_file"

	// ToolListDirectory lists the entries of a directory.
	ToolListDirectory ToolName = "list_directory"

	// ToolFindFiles finds files matching a glob pattern.
	ToolFindFiles ToolName = "find_files"
)

// Action is one parsed tool invocation: a tool name plus an argument
// mapping from parameter name to value. Actions are produced by the
// parser from model output and consumed by the tool executor.
//
// Invariant: arguments are non-empty strings. Paths are resolved
// relative to the working directory fixed at loop start, never against
// the process's ambient working directory.
type Action struct {
	Tool ToolName
	Args map[string]string
}

// NewRunCommand creates a run_command action.
func NewRunCommand(command string) *Action {
	return &Action{Tool: ToolRunCommand, Args: map[string]string{"command": command}}
}

// NewReadFile creates a read_file action.
func NewReadFile(path string) *Action {
	return &Action{Tool: ToolReadFile, Args: map[string]string{"path": path}}
}

// NewListDirectory creates a list_directory action.
func NewListDirectory(path string) *Action {
	return &Action{Tool: ToolListDirectory, Args: map[string]string{"path": path}}
}

// NewFindFiles creates a find_files action.
func NewFindFiles(pattern string) *Action {
	return &Action{Tool: ToolFindFiles, Args: map[string]string{"pattern": pattern}}
}

// Arg returns the named argument, or "" if absent.
func (a *Action) Arg(name string) string {
	if a == nil || a.Args == nil {
		return ""
	}
	return a.Args[name]
}

// Command returns the "command" argument for run_command actions.
func (a *Action) Command() string { return a.Arg("command") }

// Path returns the "path" argument for read_file and list_directory
// actions.
func (a *Action) Path() string { return a.Arg("path") }

// Pattern returns the "pattern" argument for find_files actions.
func (a *Action) Pattern() string { return a.Arg("pattern") }

// Validate checks that the action names a known tool and carries a
// non-empty primary argument.
func (a *Action) Validate() error {
	if a == nil {
		return fmt.Errorf("action is nil")
	}
	spec := LookupTool(a.Tool)
	if spec == nil {
		return fmt.Errorf("unknown tool %q", a.Tool)
	}
	if a.Arg(spec.Primary) == "" {
		return fmt.Errorf("tool %q requires a non-empty %q argument", a.Tool, spec.Primary)
	}
	return nil
}

// String renders the action in the same form the model writes it,
// useful for logs and transcripts.
func (a *Action) String() string {
	if a == nil {
		return "<nil>"
	}
	spec := LookupTool(a.Tool)
	if spec != nil {
		return fmt.Sprintf("%s(%s)", a.Tool, a.Arg(spec.Primary))
	}
	return fmt.Sprintf("%s(%v)", a.Tool, a.Args)
}
