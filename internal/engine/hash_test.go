package engine

import "testing"

func parseBoardDoc(t *testing.T, text string) *Document {
	t.Helper()
	doc, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestHashDeterminism(t *testing.T) {
	doc := parseBoardDoc(t, fullBoardDoc)
	first := HashMetadata(doc.Meta)
	second := HashMetadata(doc.Meta)
	if first == "" || first != second {
		t.Fatalf("hash must be deterministic: %q vs %q", first, second)
	}
}

func TestHashIgnoresKeyOrder(t *testing.T) {
	a := parseBoardDoc(t, "---\ntitle: T\ncolumns: []\nschema: s\n---\n")
	b := parseBoardDoc(t, "---\nschema: s\ntitle: T\ncolumns: []\n---\n")
	if HashMetadata(a.Meta) != HashMetadata(b.Meta) {
		t.Fatalf("key order must not affect the hash")
	}
}

func TestHashIgnoresIncidentalFormatting(t *testing.T) {
	a := parseBoardDoc(t, "---\ntitle: \"T\"\ncolumns: []\n---\n")
	b := parseBoardDoc(t, "---\ntitle: T\ncolumns:   []\n---\n")
	if HashMetadata(a.Meta) != HashMetadata(b.Meta) {
		t.Fatalf("quoting and whitespace must not affect the hash")
	}
}

func TestHashChangesOnFieldChange(t *testing.T) {
	a := parseBoardDoc(t, fullBoardDoc)
	changed := parseBoardDoc(t, fullBoardDoc)
	board, err := BoardFromValue(changed.Meta)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	board.Columns[0].Tasks[0].Priority = "low"
	changed.Meta = board.Value()
	if HashMetadata(a.Meta) == HashMetadata(changed.Meta) {
		t.Fatalf("a task field change must change the hash")
	}
}

func TestHashDistinguishesStringAndNumber(t *testing.T) {
	a := MappingValue(MapEntry{Key: "v", Value: StringValue("1")})
	b := MappingValue(MapEntry{Key: "v", Value: NumberValue(1)})
	if HashMetadata(a) == HashMetadata(b) {
		t.Fatalf("scalar kinds must be distinguished")
	}
}

func TestHashDocumentCoversBody(t *testing.T) {
	a := parseBoardDoc(t, "---\ntitle: T\ncolumns: []\n---\nbody one\n")
	b := parseBoardDoc(t, "---\ntitle: T\ncolumns: []\n---\nbody two\n")
	if HashDocument(a) == HashDocument(b) {
		t.Fatalf("body changes must change the document hash")
	}
	if HashMetadata(a.Meta) != HashMetadata(b.Meta) {
		t.Fatalf("metadata hash must ignore the body")
	}
}
