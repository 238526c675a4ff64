package engine

import (
	"strings"
	"testing"
)

func TestUnifiedTextDiffIdentical(t *testing.T) {
	text := "---\ntitle: T\ncolumns: []\n---\n"
	got, err := UnifiedTextDiff("a.board.md", "b.board.md", text, text, 3)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if got != "" {
		t.Fatalf("identical inputs must diff empty, got %q", got)
	}
}

func TestUnifiedTextDiffChangedLine(t *testing.T) {
	from := "---\ntitle: T\ncolumns: []\n---\n"
	to := "---\ntitle: U\ncolumns: []\n---\n"
	got, err := UnifiedTextDiff("before", "after", from, to, 3)
	if err != nil {
		t.Fatalf("diff: %v", err)
	}
	if !strings.Contains(got, "-title: T") || !strings.Contains(got, "+title: U") {
		t.Fatalf("expected +/- lines:\n%s", got)
	}
	if !strings.Contains(got, "--- before") || !strings.Contains(got, "+++ after") {
		t.Fatalf("expected file headers:\n%s", got)
	}
}
