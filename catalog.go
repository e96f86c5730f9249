package termagent

// ToolSpec describes one tool to both the model and the parser: the
// name the model uses in Action directives, a description for the
// system prompt, the primary parameter (the one a bare scalar Action
// Input is assigned to), and a JSON Schema for argument validation.
//
// The Schema field is a raw map so the core package stays free of
// schema-compiler dependencies; the parser compiles it at construction.
type ToolSpec struct {
	Name        ToolName
	Description string
	Primary     string
	Schema      map[string]any
}

// stringParam builds a single-parameter object schema with one required
// non-empty string property.
func stringParam(name, description string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			name: map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": description,
			},
		},
		"required":             []any{name},
		"additionalProperties": false,
	}
}

// DefaultCatalog returns the specs for the built-in tools. The catalog
// is the single source of truth consumed by the parser (validation),
// the prompt builder (tool descriptions), and the tool executor
// (dispatch).
func DefaultCatalog() []*ToolSpec {
	return []*ToolSpec{
		{
			Name: ToolRunCommand,
			Description: "Executes a shell command in the working directory and returns " +
				"its combined output. Use this for running terminal commands.",
			Primary: "command",
			Schema:  stringParam("command", "The shell command to execute."),
		},
		{
			Name: ToolReadFile,
			Description: "Reads the contents of a file. Input should be the path to the " +
				"file, relative to the working directory.",
			Primary: "path",
			Schema:  stringParam("path", "Path of the file to read."),
		},
		{
			Name: ToolListDirectory,
			Description: "Lists the contents of a directory. Input should be the path to " +
				"the directory, or '.' for the working directory.",
			Primary: "path",
			Schema:  stringParam("path", "Path of the directory to list."),
		},
		{
			Name: ToolFindFiles,
			Description: "Finds files under the working directory whose name matches a " +
				"glob pattern like '*.py', or contains the given term.",
			Primary: "pattern",
			Schema:  stringParam("pattern", "Glob pattern or search term."),
		},
	}
}

// defaultCatalogByName is built once for LookupTool.
var defaultCatalogByName = func() map[ToolName]*ToolSpec {
	m := make(map[ToolName]*ToolSpec)
	for _, spec := range DefaultCatalog() {
		m[spec.Name] = spec
	}
	return m
}()

// LookupTool returns the default catalog spec for the given tool, or
// nil if the tool is unknown.
func LookupTool(name ToolName) *ToolSpec {
	return defaultCatalogByName[name]
}
