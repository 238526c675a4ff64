package engine

import "fmt"

// DecodeError reports malformed metadata syntax. Message carries the
// underlying YAML parser's message verbatim.
type DecodeError struct {
	Message string
}

func (e *DecodeError) Error() string {
	return "engine: decode metadata: " + e.Message
}

// Issue is a single validation finding addressed by a dotted/bracket path
// rooted at the document, e.g. columns[0].tasks[1].priority.
type Issue struct {
	Path    string
	Message string
}

func (i Issue) String() string {
	if i.Path == "" {
		return i.Message
	}
	return i.Path + ": " + i.Message
}

// ValidationFailure wraps a non-empty ordered list of issues as an error
// value for callers that want decode-and-validate in one step.
type ValidationFailure struct {
	Issues []Issue
}

func (e *ValidationFailure) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("engine: validation failed: %s", e.Issues[0])
	}
	return fmt.Sprintf("engine: validation failed with %d issues (first: %s)", len(e.Issues), e.Issues[0])
}
