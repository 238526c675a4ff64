package engine

import (
	"errors"
	"strings"
)

// Delimiter is the fence line that opens and closes a metadata block.
const Delimiter = "---"

var (
	// ErrNoFrontmatter indicates the document does not start with a fence.
	ErrNoFrontmatter = errors.New("engine: document does not start with a frontmatter delimiter")
	// ErrUnterminatedFrontmatter indicates the opening fence is never closed.
	ErrUnterminatedFrontmatter = errors.New("engine: frontmatter block is never closed")
)

// ExtractFrontmatter splits raw document text into the metadata block found
// between the two fence lines and the free-form body that follows. Line 0,
// trimmed, must equal the delimiter. The body is returned verbatim and never
// interpreted.
func ExtractFrontmatter(text string) (block string, body string, err error) {
	lines := strings.Split(text, "\n")
	if strings.TrimSpace(lines[0]) != Delimiter {
		return "", "", ErrNoFrontmatter
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == Delimiter {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), nil
		}
	}
	return "", "", ErrUnterminatedFrontmatter
}
