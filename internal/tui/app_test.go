package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"boardfile/internal/engine"
)

func testRefs(t *testing.T) []BoardRef {
	t.Helper()
	doc, err := engine.Parse(`---
title: Sprint
columns:
  - id: todo
    title: To Do
    tasks:
      - id: task-1
        title: First
        priority: high
        subtasks:
          - id: sub-1
            title: Step
            completed: false
      - id: task-2
        title: Second
  - id: done
    title: Done
    tasks: []
---
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	board, err := engine.BoardFromValue(doc.Meta)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	return []BoardRef{{Path: "sprint.board.md", Doc: doc, Board: board}}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, app *App, keys ...string) *App {
	t.Helper()
	var model tea.Model = app
	for _, k := range keys {
		model, _ = model.Update(key(k))
	}
	return model.(*App)
}

func TestSingleBoardSkipsPicker(t *testing.T) {
	app := NewApp(testRefs(t))
	if app.state != stateBoard {
		t.Fatalf("expected board view, got state %d", app.state)
	}
	view := app.View()
	for _, want := range []string{"Sprint", "To Do", "First", "Second", "Done"} {
		if !strings.Contains(view, want) {
			t.Fatalf("missing %q in view:\n%s", want, view)
		}
	}
}

func TestNavigationAndDetail(t *testing.T) {
	app := NewApp(testRefs(t))
	app = send(t, app, "down")
	if task, _ := app.selectedTask(); task.ID != "task-2" {
		t.Fatalf("expected task-2 selected, got %q", task.ID)
	}
	app = send(t, app, "up", "enter")
	if app.state != stateDetail {
		t.Fatalf("enter must open the detail view")
	}
	view := app.View()
	for _, want := range []string{"First", "task-1", "high", "[ ] Step"} {
		if !strings.Contains(view, want) {
			t.Fatalf("missing %q in detail:\n%s", want, view)
		}
	}
	app = send(t, app, "esc")
	if app.state != stateBoard {
		t.Fatalf("esc must return to the board")
	}
}

func TestNavigationStaysInBounds(t *testing.T) {
	app := NewApp(testRefs(t))
	app = send(t, app, "up", "left", "down", "down", "down")
	if task, _ := app.selectedTask(); task.ID != "task-2" {
		t.Fatalf("selection must clamp to the last task, got %q", task.ID)
	}
	app = send(t, app, "right", "right", "right")
	if app.col != 1 {
		t.Fatalf("column selection must clamp, got %d", app.col)
	}
	// Enter on an empty column is a no-op.
	app = send(t, app, "enter")
	if app.state != stateBoard {
		t.Fatalf("enter on an empty column must not open details")
	}
}

func TestQuitKey(t *testing.T) {
	app := NewApp(testRefs(t))
	var model tea.Model = app
	_, cmd := model.Update(key("q"))
	if cmd == nil {
		t.Fatalf("q must quit")
	}
}

func TestMergeWarningBanner(t *testing.T) {
	refs := testRefs(t)
	refs[0].Doc.Warnings = []engine.MergeWarning{{ColumnID: "todo", ColumnTitle: "To Do", TaskCount: 1}}
	app := NewApp(refs)
	if !strings.Contains(app.View(), "merged on load") {
		t.Fatalf("merge warnings must be surfaced:\n%s", app.View())
	}
}
