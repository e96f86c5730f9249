// Package parser extracts structured actions and final answers from
// raw completion text.
//
// The grammar is the classic ReAct line form:
//
//	Thought: I should look at the directory first
//	Action: list_directory
//	Action Input: .
//
// or, to terminate:
//
//	Thought: I have what I need
//	Final Answer: the directory contains a.txt and b.py
//
// Action Input accepts either a bare scalar (assigned to the tool's
// primary parameter) or a YAML mapping for multi-parameter calls.
// Keyword matching is case-insensitive and whitespace tolerant, and
// markdown code fences are stripped. Anything matching neither form is
// reported as malformed — never coerced into an action.
package parser

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/coryvant/termagent"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

var (
	// "Action:" on its own line. Does not match "Action Input:" since
	// the colon must follow immediately after the keyword.
	reAction = regexp.MustCompile(`(?im)^[ \t]*action[ \t]*:[ \t]*([^\n]+)$`)

	// "Action Input:" up to the next marker or end of text.
	reActionInput = regexp.MustCompile(
		`(?is)action[ \t]*input[ \t]*:[ \t]*(.*?)(?:\n[ \t]*(?:observation|thought|final[ \t]*answer)[ \t]*:|\z)`)

	// "Final Answer:" up to end of text.
	reFinalAnswer = regexp.MustCompile(`(?is)final[ \t]*answer[ \t]*:[ \t]*(.*)\z`)

	// "Thought:" up to the next marker or end of text.
	reThought = regexp.MustCompile(
		`(?is)thought[ \t]*:[ \t]*(.*?)(?:\n[ \t]*(?:action|final[ \t]*answer|observation)[ \t]*:|\z)`)

	// Markdown code fence lines.
	reFenceLine = regexp.MustCompile("(?m)^[ \t]*```[a-zA-Z0-9]*[ \t]*$\n?")
)

// compiledTool pairs a tool spec with its compiled argument schema.
type compiledTool struct {
	spec   *termagent.ToolSpec
	schema *jsonschema.Schema
}

// Parser implements [termagent.ActionParser] against a tool catalog.
// Parsed arguments are validated against each tool's JSON Schema, so a
// directive naming a known tool with bad arguments is malformed, not a
// partially-populated action.
type Parser struct {
	tools map[termagent.ToolName]*compiledTool
}

// New creates a Parser for the given catalog. Returns an error if any
// tool schema does not compile.
func New(catalog []*termagent.ToolSpec) (*Parser, error) {
	p := &Parser{tools: make(map[termagent.ToolName]*compiledTool, len(catalog))}
	for _, spec := range catalog {
		schema, err := compileSchema(spec.Schema)
		if err != nil {
			return nil, fmt.Errorf("compile schema for tool %q: %w", spec.Name, err)
		}
		p.tools[spec.Name] = &compiledTool{spec: spec, schema: schema}
	}
	return p, nil
}

// MustNew is like New but panics on error. Use for catalogs defined at
// init time.
func MustNew(catalog []*termagent.ToolSpec) *Parser {
	p, err := New(catalog)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse implements [termagent.ActionParser].
//
// Tie-break: when the text carries both an Action directive and a
// Final Answer, the action wins — the loop always prefers to act and
// observe before concluding.
func (p *Parser) Parse(text string) *termagent.ParseResult {
	cleaned := reFenceLine.ReplaceAllString(text, "")
	thought := extractThought(cleaned)

	if m := reAction.FindStringSubmatch(cleaned); m != nil {
		action, err := p.buildAction(m[1], cleaned)
		if err != nil {
			return &termagent.ParseResult{
				Kind:    termagent.ParseMalformed,
				Thought: thought,
				Err:     err,
			}
		}
		return &termagent.ParseResult{
			Kind:    termagent.ParseAction,
			Thought: thought,
			Action:  action,
		}
	}

	if m := reFinalAnswer.FindStringSubmatch(cleaned); m != nil {
		answer := strings.TrimSpace(m[1])
		if answer == "" {
			return &termagent.ParseResult{
				Kind:    termagent.ParseMalformed,
				Thought: thought,
				Err:     fmt.Errorf("Final Answer directive is empty"),
			}
		}
		return &termagent.ParseResult{
			Kind:        termagent.ParseFinal,
			Thought:     thought,
			FinalAnswer: answer,
		}
	}

	return &termagent.ParseResult{
		Kind:    termagent.ParseMalformed,
		Thought: thought,
		Err:     fmt.Errorf("no Action or Final Answer directive found"),
	}
}

// buildAction resolves the tool name, parses Action Input, and
// validates the arguments against the tool's schema.
func (p *Parser) buildAction(rawName, cleaned string) (*termagent.Action, error) {
	name := normalizeToolName(rawName)
	tool, ok := p.tools[termagent.ToolName(name)]
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", name)
	}

	inputMatch := reActionInput.FindStringSubmatch(cleaned)
	if inputMatch == nil {
		return nil, fmt.Errorf("action %q is missing an Action Input", name)
	}
	raw := strings.TrimSpace(inputMatch[1])
	if raw == "" {
		return nil, fmt.Errorf("Action Input for %q is empty", name)
	}

	args, err := p.parseInput(tool, raw)
	if err != nil {
		return nil, err
	}
	if err := tool.schema.Validate(args); err != nil {
		return nil, fmt.Errorf("invalid arguments for %q: %w", name, err)
	}

	stringArgs := make(map[string]string, len(args))
	for k, v := range args {
		switch val := v.(type) {
		case string:
			stringArgs[k] = val
		default:
			stringArgs[k] = fmt.Sprintf("%v", val)
		}
	}

	action := &termagent.Action{Tool: tool.spec.Name, Args: stringArgs}
	if err := action.Validate(); err != nil {
		return nil, err
	}
	return action, nil
}

// parseInput interprets the raw Action Input as either a YAML mapping
// of declared parameters or a bare scalar for the primary parameter.
//
// A YAML mapping is only taken at face value when it names at least
// one declared parameter: commands containing colons (e.g.
// `echo deploy: done`) parse as mappings with unrecognized keys and
// must fall back to the scalar interpretation. A mapping that mixes
// declared and undeclared keys is an error, not a fallback — the model
// clearly attempted structured arguments and got them wrong.
func (p *Parser) parseInput(tool *compiledTool, raw string) (map[string]any, error) {
	var parsed any
	if err := yaml.Unmarshal([]byte(raw), &parsed); err == nil {
		if mapping, ok := parsed.(map[string]any); ok && len(mapping) > 0 {
			declared, undeclared := splitKeys(tool.spec, mapping)
			switch {
			case len(undeclared) == 0:
				return mapping, nil
			case len(declared) > 0:
				return nil, fmt.Errorf(
					"unknown parameter(s) %v for tool %q", undeclared, tool.spec.Name)
			}
		}
	}
	return map[string]any{tool.spec.Primary: unquote(raw)}, nil
}

// unquote strips one pair of symmetric wrapping quotes, leaving
// interior quoting intact.
func unquote(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if first == last && (first == '"' || first == '\'' || first == '`') {
			return s[1 : len(s)-1]
		}
	}
	return s
}

// splitKeys partitions the mapping's keys into declared schema
// properties and everything else.
func splitKeys(spec *termagent.ToolSpec, mapping map[string]any) (declared, undeclared []string) {
	props, _ := spec.Schema["properties"].(map[string]any)
	for key := range mapping {
		if _, ok := props[key]; ok {
			declared = append(declared, key)
		} else {
			undeclared = append(undeclared, key)
		}
	}
	return declared, undeclared
}

// normalizeToolName trims decoration the model tends to add around
// tool names: whitespace, backticks, quotes, and casing.
func normalizeToolName(raw string) string {
	name := strings.TrimSpace(raw)
	name = strings.Trim(name, "`\"'*")
	return strings.ToLower(strings.TrimSpace(name))
}

// extractThought returns the thought text when present.
func extractThought(text string) string {
	if m := reThought.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// compileSchema compiles a raw schema map into a validator.
func compileSchema(raw map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(encoded)))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", doc); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	compiled, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return compiled, nil
}

// Compile-time check that Parser implements termagent.ActionParser.
var _ termagent.ActionParser = (*Parser)(nil)
