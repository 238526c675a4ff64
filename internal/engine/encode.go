package engine

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// EncodeOptions controls how documents are rendered back to text.
type EncodeOptions struct {
	// Indent is the number of spaces per nesting level. Defaults to 2.
	Indent int
	// LineWidth caps the rendered width of plain string scalars; longer
	// values fold at spaces onto continuation lines. Zero means unbounded.
	// Quoted scalars never fold.
	LineWidth int
	// TrailingNewline forces the output to end with a newline. On by default.
	TrailingNewline bool
}

// DefaultEncodeOptions returns the documented defaults: two-space indent,
// unbounded line width, forced trailing newline.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: 2, LineWidth: 0, TrailingNewline: true}
}

func (o EncodeOptions) withDefaults() EncodeOptions {
	if o.Indent <= 0 {
		o.Indent = 2
	}
	return o
}

// EncodeDocument renders the full delimited text form: opening fence,
// metadata block, closing fence, and the verbatim body. Key insertion order
// is preserved exactly and absent optional fields are omitted, never emitted
// as explicit nulls, so decoding the result reproduces the document.
func EncodeDocument(doc *Document, opts EncodeOptions) string {
	opts = opts.withDefaults()
	var sb strings.Builder
	sb.WriteString(Delimiter)
	sb.WriteByte('\n')
	sb.WriteString(EncodeMetadata(doc.Meta, opts))
	sb.WriteString(Delimiter)
	sb.WriteByte('\n')
	sb.WriteString(doc.Body)
	out := sb.String()
	if opts.TrailingNewline && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out
}

// EncodeMetadata renders only the metadata block, without fences. A null
// tree renders to the empty string.
func EncodeMetadata(meta Value, opts EncodeOptions) string {
	opts = opts.withDefaults()
	if meta.Kind == KindNull {
		return ""
	}
	var sb strings.Builder
	writeBlock(&sb, meta, "", opts)
	return sb.String()
}

// writeBlock renders a value in block style at the given left pad. Every
// line it emits starts with pad and ends with a newline.
func writeBlock(sb *strings.Builder, v Value, pad string, opts EncodeOptions) {
	indent := strings.Repeat(" ", opts.Indent)
	switch v.Kind {
	case KindMapping:
		if len(v.Map) == 0 {
			sb.WriteString(pad + "{}\n")
			return
		}
		for _, entry := range v.Map {
			key := scalarKey(entry.Key)
			child := entry.Value
			switch {
			case child.Kind == KindSequence && len(child.Seq) > 0,
				child.Kind == KindMapping && len(child.Map) > 0:
				sb.WriteString(pad + key + ":\n")
				writeBlock(sb, child, pad+indent, opts)
			case child.Kind == KindSequence:
				sb.WriteString(pad + key + ": []\n")
			case child.Kind == KindMapping:
				sb.WriteString(pad + key + ": {}\n")
			default:
				writeScalarLine(sb, pad+key+": ", child, pad+indent, opts)
			}
		}
	case KindSequence:
		itemPad := pad + "  "
		for _, item := range v.Seq {
			switch {
			case item.Kind == KindSequence && len(item.Seq) > 0,
				item.Kind == KindMapping && len(item.Map) > 0:
				var inner strings.Builder
				writeBlock(&inner, item, itemPad, opts)
				rendered := inner.String()
				sb.WriteString(pad + "- " + rendered[len(itemPad):])
			case item.Kind == KindSequence:
				sb.WriteString(pad + "- []\n")
			case item.Kind == KindMapping:
				sb.WriteString(pad + "- {}\n")
			default:
				writeScalarLine(sb, pad+"- ", item, itemPad, opts)
			}
		}
	default:
		writeScalarLine(sb, pad, v, pad+indent, opts)
	}
}

// writeScalarLine emits prefix plus the scalar, folding plain strings at
// spaces when they exceed the configured line width.
func writeScalarLine(sb *strings.Builder, prefix string, v Value, contPad string, opts EncodeOptions) {
	text, plain := scalarLiteral(v)
	if plain && opts.LineWidth > 0 && len(prefix)+len(text) > opts.LineWidth {
		if segments := foldPlain(text, opts.LineWidth, len(prefix), len(contPad)); len(segments) > 1 {
			sb.WriteString(prefix + segments[0] + "\n")
			for _, segment := range segments[1:] {
				sb.WriteString(contPad + segment + "\n")
			}
			return
		}
	}
	sb.WriteString(prefix + text + "\n")
}

// scalarLiteral renders a scalar and reports whether it was emitted in plain
// (unquoted, foldable) style.
func scalarLiteral(v Value) (string, bool) {
	switch v.Kind {
	case KindNull:
		return "null", false
	case KindBool:
		return strconv.FormatBool(v.Bool), false
	case KindNumber:
		return formatNumber(v.Number), false
	case KindString:
		if plainSafe(v.Str) {
			return v.Str, true
		}
		return strconv.Quote(v.Str), false
	}
	return "null", false
}

func scalarKey(key string) string {
	if plainSafe(key) {
		return key
	}
	return strconv.Quote(key)
}

// plainSafe reports whether a string can be emitted without quotes and
// decode back to the identical string. The check is conservative: anything
// doubtful gets quoted.
func plainSafe(s string) bool {
	if s == "" || s != strings.TrimSpace(s) {
		return false
	}
	if resemblesOtherScalar(s) {
		return false
	}
	if strings.ContainsAny(string(s[0]), "-?:,[]{}#&*!|>'\"%@`") {
		return false
	}
	for _, r := range s {
		if r < 0x20 || r == 0x7f {
			return false
		}
	}
	if strings.Contains(s, ": ") || strings.HasSuffix(s, ":") || strings.Contains(s, " #") {
		return false
	}
	return true
}

// resemblesOtherScalar reports whether the text would reparse as a
// non-string scalar and therefore needs quoting to stay a string.
func resemblesOtherScalar(s string) bool {
	switch strings.ToLower(s) {
	case "null", "~", "true", "false", "yes", "no", "on", "off",
		".inf", "+.inf", "-.inf", ".nan":
		return true
	}
	if _, err := strconv.ParseFloat(s, 64); err == nil {
		return true
	}
	if _, err := strconv.ParseInt(s, 0, 64); err == nil {
		return true
	}
	return false
}

// foldPlain splits a plain scalar into width-bounded segments at spaces. It
// gives up (returns a single segment) when any segment would itself need
// quoting, because folded lines must stay plain to reparse correctly.
func foldPlain(text string, width, usedFirst, usedCont int) []string {
	if strings.Contains(text, "  ") {
		// Folding rejoins with single spaces; runs of spaces would be lost.
		return []string{text}
	}
	words := strings.Fields(text)
	if len(words) < 2 {
		return []string{text}
	}
	var segments []string
	current := words[0]
	budget := width - usedFirst
	for _, word := range words[1:] {
		if len(current)+1+len(word) > budget && current != "" {
			segments = append(segments, current)
			current = word
			budget = width - usedCont
			continue
		}
		current += " " + word
	}
	segments = append(segments, current)
	if len(segments) < 2 {
		return []string{text}
	}
	for _, segment := range segments {
		if !plainSafe(segment) {
			return []string{text}
		}
	}
	return segments
}

// formatNumber renders a number in normalized form: integral values without
// a fractional part, everything else in shortest float notation.
func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	case math.IsNaN(f):
		return ".nan"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// DebugString renders a decoded tree in an indented, sorted-keys diagnostic
// form. It is for logs and failure messages only and is not round-trip safe.
func DebugString(meta Value) string {
	var sb strings.Builder
	writeDebug(&sb, meta, "")
	return strings.TrimRight(sb.String(), "\n")
}

func writeDebug(sb *strings.Builder, v Value, pad string) {
	switch v.Kind {
	case KindMapping:
		if len(v.Map) == 0 {
			sb.WriteString(pad + "{}\n")
			return
		}
		keys := make([]string, 0, len(v.Map))
		byKey := make(map[string]Value, len(v.Map))
		for _, entry := range v.Map {
			keys = append(keys, entry.Key)
			byKey[entry.Key] = entry.Value
		}
		sort.Strings(keys)
		for _, key := range keys {
			child := byKey[key]
			if child.Kind == KindMapping || child.Kind == KindSequence {
				sb.WriteString(pad + key + ":\n")
				writeDebug(sb, child, pad+"  ")
				continue
			}
			sb.WriteString(pad + key + ": " + debugScalar(child) + "\n")
		}
	case KindSequence:
		if len(v.Seq) == 0 {
			sb.WriteString(pad + "[]\n")
			return
		}
		for _, item := range v.Seq {
			if item.Kind == KindMapping || item.Kind == KindSequence {
				sb.WriteString(pad + "-\n")
				writeDebug(sb, item, pad+"  ")
				continue
			}
			sb.WriteString(pad + "- " + debugScalar(item) + "\n")
		}
	default:
		sb.WriteString(pad + debugScalar(v) + "\n")
	}
}

func debugScalar(v Value) string {
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.Str)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindNumber:
		return formatNumber(v.Number)
	}
	return "null"
}
