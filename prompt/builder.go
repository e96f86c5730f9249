// Package prompt renders the goal and the running transcript into the
// next completion request.
//
// Build is a pure function of its inputs: the system prompt and tool
// catalog are fixed at construction, steps render in chronological
// order, and the total size is bounded. When the rendered transcript
// would exceed the configured budget, the oldest steps are elided and
// replaced with a single placeholder — the goal and the most recent
// steps always survive verbatim, because recency is more
// decision-relevant than history.
package prompt

import (
	"bytes"
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/coryvant/termagent"
)

//go:embed system.tmpl
var systemTemplateContent string

// DefaultSystemTemplate is the default template for the system prompt.
// It explains the Think-Act-Observe cycle and the directive format to
// the model. Replace it via [Builder.WithSystemTemplate].
var DefaultSystemTemplate = template.Must(
	template.New("termagent_system").Parse(systemTemplateContent),
)

// TemplateData is the data passed to the system template.
type TemplateData struct {
	// ToolsPrompt describes the available tools, one block per tool.
	ToolsPrompt string
}

// Defaults for a new [Builder].
const (
	// DefaultMaxPromptBytes bounds the rendered prompt size.
	DefaultMaxPromptBytes = 32 * 1024

	// DefaultKeepRecent is how many of the most recent steps are
	// always rendered verbatim, regardless of the byte budget.
	DefaultKeepRecent = 5
)

// Builder implements [termagent.PromptBuilder].
type Builder struct {
	systemPrompt   string
	maxPromptBytes int
	keepRecent     int
}

// NewBuilder creates a Builder for the given tool catalog with the
// default template and budgets. Panics if the template fails to
// execute; the default template is static and cannot fail.
func NewBuilder(catalog []*termagent.ToolSpec) *Builder {
	return newBuilder(catalog, DefaultSystemTemplate)
}

// NewBuilderWithTemplate creates a Builder rendering the system prompt
// from a custom template. The template receives a [TemplateData].
func NewBuilderWithTemplate(catalog []*termagent.ToolSpec, tmpl *template.Template) (*Builder, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, TemplateData{ToolsPrompt: toolsPrompt(catalog)}); err != nil {
		return nil, fmt.Errorf("execute system template: %w", err)
	}
	return &Builder{
		systemPrompt:   buf.String(),
		maxPromptBytes: DefaultMaxPromptBytes,
		keepRecent:     DefaultKeepRecent,
	}, nil
}

func newBuilder(catalog []*termagent.ToolSpec, tmpl *template.Template) *Builder {
	b, err := NewBuilderWithTemplate(catalog, tmpl)
	if err != nil {
		panic(fmt.Sprintf("prompt: default template failed: %v", err))
	}
	return b
}

// WithMaxPromptBytes sets the rendered size budget. Panics if n < 1.
func (b *Builder) WithMaxPromptBytes(n int) *Builder {
	if n < 1 {
		panic("prompt: max prompt bytes must be >= 1")
	}
	b.maxPromptBytes = n
	return b
}

// WithKeepRecent sets how many recent steps always render verbatim.
// Panics if n < 1.
func (b *Builder) WithKeepRecent(n int) *Builder {
	if n < 1 {
		panic("prompt: keep recent must be >= 1")
	}
	b.keepRecent = n
	return b
}

// Build implements [termagent.PromptBuilder].
func (b *Builder) Build(goal string, transcript *termagent.Transcript) string {
	var sb strings.Builder
	sb.WriteString(b.systemPrompt)
	sb.WriteString("\nUser request: ")
	sb.WriteString(goal)
	sb.WriteString("\n")

	steps := transcript.Steps()
	rendered := make([]string, len(steps))
	total := sb.Len()
	for i, step := range steps {
		rendered[i] = renderStep(step)
		total += len(rendered[i])
	}

	// Elide oldest steps until the budget holds, keeping at least the
	// most recent keepRecent steps.
	elided := 0
	for total > b.maxPromptBytes && len(steps)-elided > b.keepRecent {
		total -= len(rendered[elided])
		elided++
	}

	if elided > 0 {
		fmt.Fprintf(&sb, "\n[%d earlier step(s) elided to fit the context budget]\n", elided)
	}
	for _, r := range rendered[elided:] {
		sb.WriteString("\n")
		sb.WriteString(r)
	}

	if len(steps) == 0 {
		sb.WriteString("\nBegin! Reply with a Thought and either an Action with an Action Input, or a Final Answer.\n")
	} else {
		sb.WriteString("\nContinue. Reply with a Thought and either an Action with an Action Input, or a Final Answer.\n")
	}
	return sb.String()
}

// renderStep renders one step in the same directive form the model
// writes, so the transcript reads back naturally.
func renderStep(step *termagent.Step) string {
	var sb strings.Builder
	if step.Thought != "" {
		sb.WriteString("Thought: ")
		sb.WriteString(step.Thought)
		sb.WriteString("\n")
	}
	if step.IsTerminal() {
		sb.WriteString("Final Answer: ")
		sb.WriteString(step.FinalAnswer)
		sb.WriteString("\n")
		return sb.String()
	}
	if step.Action != nil {
		sb.WriteString("Action: ")
		sb.WriteString(string(step.Action.Tool))
		sb.WriteString("\nAction Input: ")
		sb.WriteString(renderArgs(step.Action))
		sb.WriteString("\n")
	}
	if step.Observation != nil {
		sb.WriteString("Observation: ")
		sb.WriteString(step.Observation.Render())
		sb.WriteString("\n")
	}
	return sb.String()
}

// renderArgs renders the primary argument as a bare scalar and falls
// back to sorted key: value lines for multi-parameter calls. Sorting
// keeps Build deterministic.
func renderArgs(action *termagent.Action) string {
	spec := termagent.LookupTool(action.Tool)
	if spec != nil && len(action.Args) == 1 {
		if v, ok := action.Args[spec.Primary]; ok {
			return v
		}
	}

	keys := make([]string, 0, len(action.Args))
	for k := range action.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "\n  %s: %s", k, action.Args[k])
	}
	return sb.String()
}

// toolsPrompt renders the tool catalog block for the system prompt.
func toolsPrompt(catalog []*termagent.ToolSpec) string {
	var sb strings.Builder
	for _, spec := range catalog {
		fmt.Fprintf(&sb, "%s: %s\n", spec.Name, spec.Description)
	}
	return sb.String()
}

// Compile-time check that Builder implements termagent.PromptBuilder.
var _ termagent.PromptBuilder = (*Builder)(nil)
