package board

import (
	"errors"
	"testing"

	"boardfile/internal/engine"
)

func testBoard() *engine.Board {
	return &engine.Board{
		Title: "Sprint",
		Columns: []engine.Column{
			{ID: "todo", Title: "To Do", Tasks: []engine.Task{
				{ID: "task-1", Title: "One"},
				{ID: "task-2", Title: "Two"},
			}},
			{ID: "done", Title: "Done", Tasks: []engine.Task{}},
		},
		Archive: []engine.Task{{ID: "task-0", Title: "Old"}},
	}
}

func TestAddTask(t *testing.T) {
	b := testBoard()
	out, err := AddTask(b, "done", engine.Task{ID: "task-3", Title: "Three"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(out.Columns[1].Tasks) != 1 || out.Columns[1].Tasks[0].ID != "task-3" {
		t.Fatalf("task not appended: %+v", out.Columns[1])
	}
	if len(b.Columns[1].Tasks) != 0 {
		t.Fatalf("input board must not be mutated")
	}

	if _, err := AddTask(b, "missing", engine.Task{ID: "task-4"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := AddTask(b, "done", engine.Task{ID: "task-1"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if _, err := AddTask(b, "done", engine.Task{ID: "task-0"}); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("archived ids must also collide, got %v", err)
	}
}

func TestMoveTask(t *testing.T) {
	b := testBoard()
	out, err := MoveTask(b, "task-1", "done")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(out.Columns[0].Tasks) != 1 || out.Columns[0].Tasks[0].ID != "task-2" {
		t.Fatalf("task not detached: %+v", out.Columns[0])
	}
	if len(out.Columns[1].Tasks) != 1 || out.Columns[1].Tasks[0].ID != "task-1" {
		t.Fatalf("task not attached: %+v", out.Columns[1])
	}

	changes := engine.DiffBoards(b, out)
	if len(changes) != 1 || changes[0].Field != "column" {
		t.Fatalf("a move must diff as a single column change, got %v", changes)
	}
}

func TestMoveTaskOutOfArchive(t *testing.T) {
	b := testBoard()
	out, err := MoveTask(b, "task-0", "todo")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(out.Archive) != 0 {
		t.Fatalf("archive entry not removed: %+v", out.Archive)
	}
	if _, column, ok := out.FindTask("task-0"); !ok || column != "todo" {
		t.Fatalf("task not in todo: %q %v", column, ok)
	}
}

func TestArchiveTask(t *testing.T) {
	b := testBoard()
	out, err := ArchiveTask(b, "task-2")
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, column, ok := out.FindTask("task-2"); !ok || column != "archive" {
		t.Fatalf("task not archived: %q %v", column, ok)
	}
	if out.TaskCount() != 1 {
		t.Fatalf("expected one active task, got %d", out.TaskCount())
	}
}

func TestDeleteTask(t *testing.T) {
	b := testBoard()
	out, err := DeleteTask(b, "task-1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, ok := out.FindTask("task-1"); ok {
		t.Fatalf("task still present")
	}
	if _, err := DeleteTask(b, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	out, err = DeleteTask(b, "task-0")
	if err != nil {
		t.Fatalf("delete archived: %v", err)
	}
	if len(out.Archive) != 0 {
		t.Fatalf("archived task still present: %+v", out.Archive)
	}
}

func TestUpdateTaskKeepsPosition(t *testing.T) {
	b := testBoard()
	out, err := UpdateTask(b, engine.Task{ID: "task-1", Title: "One, renamed", Priority: "high"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out.Columns[0].Tasks[0].Title != "One, renamed" {
		t.Fatalf("task not replaced in place: %+v", out.Columns[0].Tasks)
	}
	if out.Columns[0].Tasks[1].ID != "task-2" {
		t.Fatalf("sibling order disturbed: %+v", out.Columns[0].Tasks)
	}
}

func TestSetSubtaskCompleted(t *testing.T) {
	b := testBoard()
	b.Columns[0].Tasks[0].Subtasks = []engine.Subtask{{ID: "sub-1", Title: "Step"}}
	out, err := SetSubtaskCompleted(b, "task-1", "sub-1", true)
	if err != nil {
		t.Fatalf("set: %v", err)
	}
	if !out.Columns[0].Tasks[0].Subtasks[0].Completed {
		t.Fatalf("subtask not completed")
	}
	if b.Columns[0].Tasks[0].Subtasks[0].Completed {
		t.Fatalf("input board must not be mutated")
	}
	if _, err := SetSubtaskCompleted(b, "task-1", "sub-404", true); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddColumn(t *testing.T) {
	b := testBoard()
	out, err := AddColumn(b, "review", "In Review")
	if err != nil {
		t.Fatalf("add column: %v", err)
	}
	if len(out.Columns) != 3 || out.Columns[2].ID != "review" {
		t.Fatalf("column not appended: %+v", out.Columns)
	}
	if _, err := AddColumn(b, "todo", "Again"); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
}

func TestRemoveColumn(t *testing.T) {
	b := testBoard()
	if _, err := RemoveColumn(b, "todo", false); err == nil {
		t.Fatalf("expected a refusal for a non-empty column")
	}
	out, err := RemoveColumn(b, "todo", true)
	if err != nil {
		t.Fatalf("force remove: %v", err)
	}
	if len(out.Columns) != 1 || out.Columns[0].ID != "done" {
		t.Fatalf("column not removed: %+v", out.Columns)
	}
	if len(out.Archive) != 3 {
		t.Fatalf("orphaned tasks must be archived, got %+v", out.Archive)
	}
}
