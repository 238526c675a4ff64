package engine

import "testing"

const locateTasksDoc = `---
title: T
columns:
  - id: c1
  - id: task-7
  - id: task-70
  -
    id: task-11
  - id: task-7
---
body mentions id: task-7 but the scan found it earlier
`

func TestFindTaskLocationCompact(t *testing.T) {
	loc, ok := FindTaskLocation(locateTasksDoc, "task-7")
	if !ok {
		t.Fatalf("expected a match")
	}
	if loc.Line != 5 || loc.Column != 0 {
		t.Fatalf("expected line 5 column 0, got %+v", loc)
	}
}

func TestFindTaskLocationExpanded(t *testing.T) {
	// The bare dash line, not the id line, is the entry location.
	loc, ok := FindTaskLocation(locateTasksDoc, "task-11")
	if !ok {
		t.Fatalf("expected a match")
	}
	if loc.Line != 7 {
		t.Fatalf("expected dash line 7, got %+v", loc)
	}
}

func TestFindTaskLocationEarliestDuplicateWins(t *testing.T) {
	loc, _ := FindTaskLocation(locateTasksDoc, "task-7")
	if loc.Line != 5 {
		t.Fatalf("duplicate ids must resolve to the earliest line, got %+v", loc)
	}
}

func TestFindTaskLocationIDBoundary(t *testing.T) {
	loc, ok := FindTaskLocation(locateTasksDoc, "task-70")
	if !ok || loc.Line != 6 {
		t.Fatalf("expected task-70 on line 6, got %+v ok=%v", loc, ok)
	}
}

func TestFindTaskLocationNotFound(t *testing.T) {
	if _, ok := FindTaskLocation(locateTasksDoc, "task-404"); ok {
		t.Fatalf("expected not found")
	}
}

const locateRulesDoc = `---
title: T
rules:
  always:
    - id: 1
      rule: Keep tests green
    - id: 2
      rule: Small commits
  never:
    -
      id: 1
      rule: No force push
columns: []
---
id: 1
`

func TestFindRuleLocationCompact(t *testing.T) {
	loc, ok := FindRuleLocation(locateRulesDoc, 1, "always")
	if !ok || loc.Line != 5 {
		t.Fatalf("expected line 5, got %+v ok=%v", loc, ok)
	}
	loc, ok = FindRuleLocation(locateRulesDoc, 2, "always")
	if !ok || loc.Line != 7 {
		t.Fatalf("expected line 7, got %+v ok=%v", loc, ok)
	}
}

func TestFindRuleLocationExpanded(t *testing.T) {
	loc, ok := FindRuleLocation(locateRulesDoc, 1, "never")
	if !ok || loc.Line != 10 {
		t.Fatalf("expected dash line 10, got %+v ok=%v", loc, ok)
	}
}

func TestFindRuleLocationScopedToRuleType(t *testing.T) {
	// id 3 exists nowhere; id 1 exists in always and never but not prefer.
	if _, ok := FindRuleLocation(locateRulesDoc, 3, "always"); ok {
		t.Fatalf("expected not found for id 3")
	}
	if _, ok := FindRuleLocation(locateRulesDoc, 1, "prefer"); ok {
		t.Fatalf("expected not found in prefer list")
	}
}

func TestFindRuleLocationStopsAtClosingFence(t *testing.T) {
	// The body contains "id: 1" but the scan must exit at the closing fence.
	text := "---\ntitle: T\nrules:\n  always: []\ncolumns: []\n---\nrules:\n  always:\n    - id: 1\n"
	if _, ok := FindRuleLocation(text, 1, "always"); ok {
		t.Fatalf("scan must not continue past the metadata block")
	}
}

func TestFindRuleLocationTopLevelKeyEndsRulesSection(t *testing.T) {
	// A rules-shaped subtree under another top-level key must not match.
	text := `---
rules:
  always:
    - id: 9
      rule: Real
other:
  always:
    - id: 1
      rule: Decoy
---
`
	if _, ok := FindRuleLocation(text, 1, "always"); ok {
		t.Fatalf("decoy under another top-level key must not match")
	}
	loc, ok := FindRuleLocation(text, 9, "always")
	if !ok || loc.Line != 4 {
		t.Fatalf("expected real rule at line 4, got %+v ok=%v", loc, ok)
	}
}
