package engine

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedTextDiff renders a classic unified patch between two serialized
// documents, for human review alongside the structural diff. Context is the
// number of unchanged lines around each hunk; values below one default to
// three. An empty result means the texts are identical.
func UnifiedTextDiff(fromName, toName, from, to string, context int) (string, error) {
	if context <= 0 {
		context = 3
	}
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(from),
		B:        difflib.SplitLines(to),
		FromFile: fromName,
		ToFile:   toName,
		Context:  context,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("engine: text diff: %w", err)
	}
	return text, nil
}
