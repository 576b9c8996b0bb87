// Package decision models one parsed model turn and extracts it from raw,
// possibly malformed generated text.
package decision

// ToolAction is a single tool invocation proposed by the model.
// Immutable once created; produced only by Parse.
type ToolAction struct {
	Tool string
	Args map[string]any
}

// Decision is one parsed model turn. A well-formed decision carries either
// at least one action with no final answer, or a final answer with no
// actions. The degenerate case (neither) is the malformed-turn result the
// loop recovers from; it is represented, not rejected.
type Decision struct {
	// RawText is the generated text with reasoning markup removed when a
	// payload was decoded, or the original text verbatim on a malformed
	// turn (the loop needs the untouched text for its prose fallback).
	RawText string

	Thought string
	Actions []ToolAction

	// FinalAnswer is empty when absent; the parser treats an explicit
	// empty string in the payload the same as a missing key.
	FinalAnswer string
}

// IsMalformed reports the degenerate no-actions, no-answer case.
func (d Decision) IsMalformed() bool {
	return len(d.Actions) == 0 && d.FinalAnswer == ""
}
