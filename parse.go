package termagent

// ParseKind tags the outcome of parsing one completion response.
type ParseKind int

const (
	// ParseMalformed: the text matched neither recognized form. It is
	// never silently coerced into an action.
	ParseMalformed ParseKind = iota

	// ParseAction: the text contained a well-formed action directive.
	ParseAction

	// ParseFinal: the text contained a final answer and no action.
	ParseFinal
)

// ParseResult is the tagged outcome of parsing completion text.
type ParseResult struct {
	Kind ParseKind

	// Thought is the model's reasoning text, when present. Populated
	// for all kinds as a best effort.
	Thought string

	// Action is set when Kind == ParseAction.
	Action *Action

	// FinalAnswer is set when Kind == ParseFinal.
	FinalAnswer string

	// Err describes why the text was malformed, set when
	// Kind == ParseMalformed. It is fed back to the model as an
	// observation so it can correct itself.
	Err error
}

// ActionParser extracts a structured action or a final-answer signal
// from raw completion text. The grammar is small and closed; tolerance
// is limited to formatting deviations (whitespace, keyword casing,
// code fences).
//
// Tie-break rule: if the text contains both an action directive and a
// final answer, the action takes precedence. Acting affords new
// information; concluding does not.
type ActionParser interface {
	Parse(text string) *ParseResult
}
