package engine

import (
	"path/filepath"
	"strings"
)

// DocKind classifies what a decoded document is.
type DocKind string

const (
	DocKindBoard   DocKind = "board"
	DocKindTask    DocKind = "task"
	DocKindUnknown DocKind = "unknown"
)

// Renderer hints understood by display layers.
const (
	RendererKanban = "kanban"
	RendererCard   = "card"
	RendererPlain  = "plain"
)

// SchemaHint names a renderer and the top-level keys a document must carry
// for that renderer to apply.
type SchemaHint struct {
	Renderer     string
	RequiredKeys []string
}

// InferType classifies a decoded tree and picks a renderer hint. Decision
// order for the kind: an explicit recognized `type` field wins, then a
// filename suffix pattern when a filename is supplied, then shape inference
// (a `columns` sequence implies a board). The renderer comes from the first
// matching schema hint, else a per-kind default. InferType never fails; the
// worst case is (DocKindUnknown, RendererPlain).
func InferType(meta Value, filename string, hints []SchemaHint) (DocKind, string) {
	kind := inferKind(meta, filename)
	return kind, inferRenderer(meta, kind, hints)
}

func inferKind(meta Value, filename string) DocKind {
	if t, ok := meta.Get("type"); ok && t.Kind == KindString {
		switch t.Str {
		case "board":
			return DocKindBoard
		case "task":
			return DocKindTask
		}
	}
	if filename != "" {
		name := strings.ToLower(filepath.Base(filename))
		switch {
		case strings.HasSuffix(name, ".board.md"), strings.HasSuffix(name, ".knbn.md"):
			return DocKindBoard
		case strings.HasSuffix(name, ".task.md"):
			return DocKindTask
		}
	}
	if cols, ok := meta.Get("columns"); ok && cols.Kind == KindSequence {
		return DocKindBoard
	}
	return DocKindUnknown
}

func inferRenderer(meta Value, kind DocKind, hints []SchemaHint) string {
	for _, hint := range hints {
		if hint.Renderer == "" || len(hint.RequiredKeys) == 0 {
			continue
		}
		matched := true
		for _, key := range hint.RequiredKeys {
			if !meta.HasKey(key) {
				matched = false
				break
			}
		}
		if matched {
			return hint.Renderer
		}
	}
	switch kind {
	case DocKindBoard:
		return RendererKanban
	case DocKindTask:
		return RendererCard
	}
	return RendererPlain
}
