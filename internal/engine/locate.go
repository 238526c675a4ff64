package engine

import (
	"strconv"
	"strings"
)

// Location points at a line in the original document text. Lines are
// 1-indexed. Column is always 0: scanning is deliberately line-granular
// because decoding discards exact positions.
type Location struct {
	Line   int
	Column int
}

// FindTaskLocation scans raw text for the line declaring the given task or
// subtask id. Compact entries (`- id: x`) resolve to their own line;
// expanded entries (a bare `-` line followed by `id: x`) resolve to the dash
// line. The earliest occurrence wins when ids are duplicated. It reports
// false when the id does not appear.
func FindTaskLocation(text, id string) (Location, bool) {
	lines := strings.Split(text, "\n")
	needle := "id: " + id
	for i, line := range lines {
		if !containsField(line, needle) {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "-") && i > 0 && strings.TrimSpace(lines[i-1]) == "-" {
			return Location{Line: i}, true
		}
		return Location{Line: i + 1}, true
	}
	return Location{}, false
}

// FindRuleLocation locates a rule by numeric id within one rule-type list
// (always, never, prefer, context). It is a single stateful forward pass
// over the raw lines: it tracks whether the scan is inside the metadata
// block, inside the top-level rules section, and inside the target rule-type
// subsection, and stops entirely at the closing fence. Decoding is never
// involved, so the result reflects the exact source line.
func FindRuleLocation(text string, id int, ruleType string) (Location, bool) {
	lines := strings.Split(text, "\n")
	inFrontmatter := false
	inRules := false
	inTarget := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == Delimiter {
			if inFrontmatter {
				// Closing fence: rules can only live in the metadata block.
				return Location{}, false
			}
			inFrontmatter = true
			continue
		}
		if !inFrontmatter || trimmed == "" {
			continue
		}
		indented := line[0] == ' ' || line[0] == '\t'
		if !indented {
			// A top-level key ends the rules section.
			inRules = trimmed == "rules:"
			inTarget = false
			continue
		}
		if inRules && isRuleTypeKey(trimmed) {
			// Another rule-type key ends only the subsection; the rules
			// section itself stays active.
			inTarget = strings.TrimSuffix(trimmed, ":") == ruleType
			continue
		}
		if !inTarget {
			continue
		}
		value, ok := idFieldValue(trimmed)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil || n != id {
			continue
		}
		if !strings.HasPrefix(trimmed, "-") && i > 0 && strings.TrimSpace(lines[i-1]) == "-" {
			return Location{Line: i}, true
		}
		return Location{Line: i + 1}, true
	}
	return Location{}, false
}

// containsField reports whether line contains needle followed by a field
// boundary, so id task-1 does not match task-10.
func containsField(line, needle string) bool {
	for start := 0; ; {
		idx := strings.Index(line[start:], needle)
		if idx < 0 {
			return false
		}
		end := start + idx + len(needle)
		if end == len(line) || line[end] == ' ' || line[end] == '\t' || line[end] == '\r' {
			return true
		}
		start = end
	}
}

func isRuleTypeKey(trimmed string) bool {
	switch trimmed {
	case "always:", "never:", "prefer:", "context:":
		return true
	}
	return false
}

// idFieldValue extracts the value of an `id:` field from a trimmed line,
// tolerating a leading list dash.
func idFieldValue(trimmed string) (string, bool) {
	entry := trimmed
	if strings.HasPrefix(entry, "-") {
		entry = strings.TrimLeft(entry[1:], " \t")
	}
	if !strings.HasPrefix(entry, "id:") {
		return "", false
	}
	return strings.TrimSpace(entry[len("id:"):]), true
}
