package engine

import (
	"fmt"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MergeWarning records one duplicate-column consolidation. Warnings are
// returned alongside a successful decode; they never suppress success.
type MergeWarning struct {
	ColumnID    string
	ColumnTitle string
	TaskCount   int
}

func (w MergeWarning) String() string {
	return fmt.Sprintf("duplicate column %q (title %q): merged %d task(s) into the first occurrence",
		w.ColumnID, w.ColumnTitle, w.TaskCount)
}

// Document is the decoded form of a board file: the metadata tree, the
// untouched body text, and any consolidation warnings emitted during decode.
type Document struct {
	Meta     Value
	Body     string
	Warnings []MergeWarning
}

// Parse extracts, decodes, and consolidates a raw document in one step.
func Parse(text string) (*Document, error) {
	block, body, err := ExtractFrontmatter(text)
	if err != nil {
		return nil, err
	}
	meta, warnings, err := DecodeMetadata(block)
	if err != nil {
		return nil, err
	}
	return &Document{Meta: meta, Body: body, Warnings: warnings}, nil
}

// DecodeMetadata decodes a metadata block into the tagged Value tree and runs
// duplicate-column consolidation on the result.
func DecodeMetadata(block string) (Value, []MergeWarning, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return Value{}, nil, &DecodeError{Message: err.Error()}
	}
	value, err := fromYAMLNode(&root)
	if err != nil {
		return Value{}, nil, &DecodeError{Message: err.Error()}
	}
	consolidated, warnings := consolidateColumns(value)
	return consolidated, warnings, nil
}

func fromYAMLNode(node *yaml.Node) (Value, error) {
	switch node.Kind {
	case 0:
		// yaml.Unmarshal leaves the node zero-valued for empty input.
		return Null(), nil
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return fromYAMLNode(node.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(node.Alias)
	case yaml.ScalarNode:
		return scalarFromNode(node)
	case yaml.SequenceNode:
		seq := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := fromYAMLNode(child)
			if err != nil {
				return Value{}, err
			}
			seq = append(seq, v)
		}
		return Value{Kind: KindSequence, Seq: seq}, nil
	case yaml.MappingNode:
		entries := make([]MapEntry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping keys must be scalars", keyNode.Line)
			}
			v, err := fromYAMLNode(node.Content[i+1])
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, MapEntry{Key: keyNode.Value, Value: v})
		}
		return Value{Kind: KindMapping, Map: entries}, nil
	}
	return Value{}, fmt.Errorf("line %d: unsupported node kind", node.Line)
}

func scalarFromNode(node *yaml.Node) (Value, error) {
	switch node.Tag {
	case "!!null":
		return Null(), nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return StringValue(node.Value), nil
		}
		return BoolValue(b), nil
	case "!!int":
		if n, err := strconv.ParseInt(node.Value, 0, 64); err == nil {
			return NumberValue(float64(n)), nil
		}
		if f, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return NumberValue(f), nil
		}
		return StringValue(node.Value), nil
	case "!!float":
		switch node.Value {
		case ".inf", "+.inf", ".Inf", "+.Inf":
			return NumberValue(math.Inf(1)), nil
		case "-.inf", "-.Inf":
			return NumberValue(math.Inf(-1)), nil
		case ".nan", ".NaN":
			return NumberValue(math.NaN()), nil
		}
		if f, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return NumberValue(f), nil
		}
		return StringValue(node.Value), nil
	default:
		// Strings, timestamps, and any custom tag keep their raw text. Date
		// strings (dueDate) stay opaque strings on purpose.
		return StringValue(node.Value), nil
	}
}

// consolidateColumns merges duplicate-id columns in a single stable-order
// pass: the first occurrence keeps its position and metadata, repeats append
// their tasks onto it and are dropped. One warning is emitted per merge.
// Running the pass on an already-consolidated tree is a no-op.
func consolidateColumns(root Value) (Value, []MergeWarning) {
	cols, ok := root.Get("columns")
	if !ok || cols.Kind != KindSequence {
		return root, nil
	}
	kept := make([]Value, 0, len(cols.Seq))
	index := make(map[string]int, len(cols.Seq))
	var warnings []MergeWarning
	for _, col := range cols.Seq {
		id, ok := columnKey(col)
		if !ok {
			kept = append(kept, col)
			continue
		}
		at, seen := index[id]
		if !seen {
			index[id] = len(kept)
			kept = append(kept, col)
			continue
		}
		merged, count := appendColumnTasks(kept[at], col)
		kept[at] = merged
		warnings = append(warnings, MergeWarning{
			ColumnID:    id,
			ColumnTitle: columnTitleText(merged),
			TaskCount:   count,
		})
	}
	if len(warnings) == 0 {
		return root, nil
	}
	return root.withKey("columns", Value{Kind: KindSequence, Seq: kept}), warnings
}

func columnKey(col Value) (string, bool) {
	id, ok := col.Get("id")
	if !ok {
		return "", false
	}
	text, ok := scalarText(id)
	if !ok || text == "" {
		return "", false
	}
	return text, true
}

func columnTitleText(col Value) string {
	title, ok := col.Get("title")
	if !ok {
		return ""
	}
	text, _ := scalarText(title)
	return text
}

// appendColumnTasks concatenates the duplicate column's tasks onto the kept
// column, preserving order. The kept column's other fields win.
func appendColumnTasks(kept, dup Value) (Value, int) {
	dupTasks, ok := dup.Get("tasks")
	if !ok || dupTasks.Kind != KindSequence || len(dupTasks.Seq) == 0 {
		return kept, 0
	}
	keptTasks, ok := kept.Get("tasks")
	var merged []Value
	if ok && keptTasks.Kind == KindSequence {
		merged = make([]Value, 0, len(keptTasks.Seq)+len(dupTasks.Seq))
		merged = append(merged, keptTasks.Seq...)
	}
	merged = append(merged, dupTasks.Seq...)
	return kept.withKey("tasks", Value{Kind: KindSequence, Seq: merged}), len(dupTasks.Seq)
}

// scalarText renders a scalar value as its textual form. Sequences and
// mappings report false.
func scalarText(v Value) (string, bool) {
	switch v.Kind {
	case KindString:
		return v.Str, true
	case KindNumber:
		return formatNumber(v.Number), true
	case KindBool:
		return strconv.FormatBool(v.Bool), true
	case KindNull:
		return "", true
	}
	return "", false
}
