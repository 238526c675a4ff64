package engine

import "testing"

func boardFromDoc(t *testing.T, text string) *Board {
	t.Helper()
	doc, err := Parse(text)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	board, err := BoardFromValue(doc.Meta)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	return board
}

func TestDiffBoardsIdentical(t *testing.T) {
	board := boardFromDoc(t, fullBoardDoc)
	if changes := DiffBoards(board, board); len(changes) != 0 {
		t.Fatalf("identical boards must diff empty, got %v", changes)
	}
}

func TestDiffBoardsTaskRemoved(t *testing.T) {
	before := boardFromDoc(t, fullBoardDoc)
	after := before.Clone()
	after.Columns[0].Tasks = nil
	changes := DiffBoards(before, after)
	if len(changes) != 1 {
		t.Fatalf("expected exactly one change, got %v", changes)
	}
	c := changes[0]
	if c.Kind != ChangeRemoved || c.EntityID != "task-1" || c.Path != "tasks.task-1" {
		t.Fatalf("unexpected change %+v", c)
	}
}

func TestDiffBoardsTaskAdded(t *testing.T) {
	before := boardFromDoc(t, fullBoardDoc)
	after := before.Clone()
	after.Columns[1].Tasks = append(after.Columns[1].Tasks, Task{ID: "task-2", Title: "New"})
	changes := DiffBoards(before, after)
	if len(changes) != 1 {
		t.Fatalf("expected exactly one change, got %v", changes)
	}
	if changes[0].Kind != ChangeAdded || changes[0].EntityID != "task-2" {
		t.Fatalf("unexpected change %+v", changes[0])
	}
}

func TestDiffBoardsCrossColumnMove(t *testing.T) {
	before := boardFromDoc(t, fullBoardDoc)
	after := before.Clone()
	moved := after.Columns[0].Tasks[0]
	after.Columns[0].Tasks = nil
	after.Columns[1].Tasks = append(after.Columns[1].Tasks, moved)
	changes := DiffBoards(before, after)
	if len(changes) != 1 {
		t.Fatalf("a move must never be an add plus a remove, got %v", changes)
	}
	c := changes[0]
	if c.Kind != ChangeModified || c.Field != "column" || c.Old != "todo" || c.New != "doing" {
		t.Fatalf("unexpected change %+v", c)
	}
}

func TestDiffBoardsReorderIsInvisible(t *testing.T) {
	before := boardFromDoc(t, fullBoardDoc)
	after := before.Clone()
	after.Columns[0], after.Columns[1] = after.Columns[1], after.Columns[0]
	if changes := DiffBoards(before, after); len(changes) != 0 {
		t.Fatalf("column reorder must diff empty, got %v", changes)
	}

	two := before.Clone()
	two.Columns[0].Tasks = append(two.Columns[0].Tasks, Task{ID: "task-9", Title: "Second"})
	shuffled := two.Clone()
	shuffled.Columns[0].Tasks[0], shuffled.Columns[0].Tasks[1] = shuffled.Columns[0].Tasks[1], shuffled.Columns[0].Tasks[0]
	if changes := DiffBoards(two, shuffled); len(changes) != 0 {
		t.Fatalf("task reorder within a column must diff empty, got %v", changes)
	}
}

func TestDiffBoardsFieldModifications(t *testing.T) {
	before := boardFromDoc(t, fullBoardDoc)
	after := before.Clone()
	after.Title = "Release Train v2"
	after.Columns[0].Tasks[0].Priority = "low"
	after.Columns[0].Tasks[0].Tags = []string{"docs"}
	changes := DiffBoards(before, after)
	if len(changes) != 3 {
		t.Fatalf("expected three changes, got %v", changes)
	}
	byField := map[string]Change{}
	for _, c := range changes {
		byField[c.Field] = c
	}
	if c := byField["title"]; c.Path != "title" || c.Old != "Release Train" || c.New != "Release Train v2" {
		t.Fatalf("unexpected title change %+v", c)
	}
	if c := byField["priority"]; c.Path != "tasks.task-1" || c.Old != "high" || c.New != "low" {
		t.Fatalf("unexpected priority change %+v", c)
	}
	if c := byField["tags"]; c.Old != "docs, launch" || c.New != "docs" {
		t.Fatalf("unexpected tags change %+v", c)
	}
}

func TestDiffBoardsSubtasks(t *testing.T) {
	before := boardFromDoc(t, fullBoardDoc)
	after := before.Clone()
	after.Columns[0].Tasks[0].Subtasks[1].Completed = true
	changes := DiffBoards(before, after)
	if len(changes) != 1 {
		t.Fatalf("expected one change, got %v", changes)
	}
	c := changes[0]
	if c.Path != "tasks.task-1.subtasks.sub-2" || c.Field != "completed" || c.Old != "false" || c.New != "true" {
		t.Fatalf("unexpected change %+v", c)
	}
}

func TestDiffBoardsRules(t *testing.T) {
	before := boardFromDoc(t, fullBoardDoc)
	after := before.Clone()
	after.Rules.Always[0].Rule = "Keep every test green"
	after.Rules.Never = nil
	after.Rules.Prefer = []Rule{{ID: 1, Rule: "Small focused changes"}}
	changes := DiffBoards(before, after)
	if len(changes) != 3 {
		t.Fatalf("expected three changes, got %v", changes)
	}
	byPath := map[string]Change{}
	for _, c := range changes {
		byPath[c.Path] = c
	}
	if c := byPath["rules.always.1"]; c.Kind != ChangeModified || c.Field != "rule" {
		t.Fatalf("unexpected always change %+v", c)
	}
	if c := byPath["rules.never.1"]; c.Kind != ChangeRemoved {
		t.Fatalf("unexpected never change %+v", c)
	}
	if c := byPath["rules.prefer.1"]; c.Kind != ChangeAdded {
		t.Fatalf("unexpected prefer change %+v", c)
	}
}

func TestDiffBoardsArchiveIsAColumn(t *testing.T) {
	before := boardFromDoc(t, fullBoardDoc)
	after := before.Clone()
	moved := after.Columns[0].Tasks[0]
	after.Columns[0].Tasks = nil
	after.Archive = append(after.Archive, moved)
	changes := DiffBoards(before, after)
	if len(changes) != 1 {
		t.Fatalf("archiving must be a column move, got %v", changes)
	}
	if changes[0].Field != "column" || changes[0].New != "archive" {
		t.Fatalf("unexpected change %+v", changes[0])
	}
}
