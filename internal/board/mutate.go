// Package board applies edits to the typed board model. Every operation is
// pure: it deep-copies the input and returns a new board, so callers can
// diff before and after states or discard a failed edit.
package board

import (
	"errors"
	"fmt"

	"boardfile/internal/engine"
)

// ErrNotFound reports a missing task or column id.
var ErrNotFound = errors.New("board: not found")

// ErrDuplicateID reports an id collision an edit would introduce.
var ErrDuplicateID = errors.New("board: duplicate id")

// AddTask appends the task to the column with the given id.
func AddTask(b *engine.Board, columnID string, task engine.Task) (*engine.Board, error) {
	if task.ID == "" {
		return nil, fmt.Errorf("board: a task id is required")
	}
	if _, _, ok := b.FindTask(task.ID); ok {
		return nil, fmt.Errorf("%w: task %s", ErrDuplicateID, task.ID)
	}
	out := b.Clone()
	for i := range out.Columns {
		if out.Columns[i].ID == columnID {
			out.Columns[i].Tasks = append(out.Columns[i].Tasks, task.Clone())
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: column %s", ErrNotFound, columnID)
}

// MoveTask moves a task to the end of another column. Moving to the same
// column is a no-op that still returns a fresh copy. The pseudo column
// "archive" is a valid destination.
func MoveTask(b *engine.Board, taskID, toColumnID string) (*engine.Board, error) {
	task, fromColumnID, ok := b.FindTask(taskID)
	if !ok {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	out := b.Clone()
	if fromColumnID == toColumnID {
		return out, nil
	}
	if err := detachTask(out, taskID, fromColumnID); err != nil {
		return nil, err
	}
	if toColumnID == "archive" {
		out.Archive = append(out.Archive, task.Clone())
		return out, nil
	}
	for i := range out.Columns {
		if out.Columns[i].ID == toColumnID {
			out.Columns[i].Tasks = append(out.Columns[i].Tasks, task.Clone())
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: column %s", ErrNotFound, toColumnID)
}

// ArchiveTask moves a task to the archive.
func ArchiveTask(b *engine.Board, taskID string) (*engine.Board, error) {
	return MoveTask(b, taskID, "archive")
}

// DeleteTask removes a task from wherever it lives, archive included.
func DeleteTask(b *engine.Board, taskID string) (*engine.Board, error) {
	if _, _, ok := b.FindTask(taskID); !ok {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	out := b.Clone()
	_, fromColumnID, _ := out.FindTask(taskID)
	if err := detachTask(out, taskID, fromColumnID); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateTask replaces the task with the same id in place, keeping its column
// and position.
func UpdateTask(b *engine.Board, task engine.Task) (*engine.Board, error) {
	out := b.Clone()
	for ci := range out.Columns {
		for ti := range out.Columns[ci].Tasks {
			if out.Columns[ci].Tasks[ti].ID == task.ID {
				out.Columns[ci].Tasks[ti] = task.Clone()
				return out, nil
			}
		}
	}
	for i := range out.Archive {
		if out.Archive[i].ID == task.ID {
			out.Archive[i] = task.Clone()
			return out, nil
		}
	}
	return nil, fmt.Errorf("%w: task %s", ErrNotFound, task.ID)
}

// SetSubtaskCompleted flips one subtask checkbox.
func SetSubtaskCompleted(b *engine.Board, taskID, subtaskID string, completed bool) (*engine.Board, error) {
	task, _, ok := b.FindTask(taskID)
	if !ok {
		return nil, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	updated := task.Clone()
	for i := range updated.Subtasks {
		if updated.Subtasks[i].ID == subtaskID {
			updated.Subtasks[i].Completed = completed
			return UpdateTask(b, updated)
		}
	}
	return nil, fmt.Errorf("%w: subtask %s", ErrNotFound, subtaskID)
}

// AddColumn appends an empty column.
func AddColumn(b *engine.Board, id, title string) (*engine.Board, error) {
	if id == "" || title == "" {
		return nil, fmt.Errorf("board: a column id and title are required")
	}
	if _, ok := b.FindColumn(id); ok {
		return nil, fmt.Errorf("%w: column %s", ErrDuplicateID, id)
	}
	out := b.Clone()
	out.Columns = append(out.Columns, engine.Column{ID: id, Title: title, Tasks: []engine.Task{}})
	return out, nil
}

// RemoveColumn drops a column. It refuses to drop a column that still holds
// tasks unless force is set, in which case the tasks are archived.
func RemoveColumn(b *engine.Board, id string, force bool) (*engine.Board, error) {
	col, ok := b.FindColumn(id)
	if !ok {
		return nil, fmt.Errorf("%w: column %s", ErrNotFound, id)
	}
	if len(col.Tasks) > 0 && !force {
		return nil, fmt.Errorf("board: column %s still holds %d tasks", id, len(col.Tasks))
	}
	out := b.Clone()
	for i := range out.Columns {
		if out.Columns[i].ID != id {
			continue
		}
		for _, task := range out.Columns[i].Tasks {
			out.Archive = append(out.Archive, task)
		}
		out.Columns = append(out.Columns[:i], out.Columns[i+1:]...)
		return out, nil
	}
	return nil, fmt.Errorf("%w: column %s", ErrNotFound, id)
}

func detachTask(b *engine.Board, taskID, columnID string) error {
	if columnID == "archive" {
		for i := range b.Archive {
			if b.Archive[i].ID == taskID {
				b.Archive = append(b.Archive[:i], b.Archive[i+1:]...)
				return nil
			}
		}
		return fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	for ci := range b.Columns {
		if b.Columns[ci].ID != columnID {
			continue
		}
		tasks := b.Columns[ci].Tasks
		for i := range tasks {
			if tasks[i].ID == taskID {
				b.Columns[ci].Tasks = append(tasks[:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("%w: task %s", ErrNotFound, taskID)
}
