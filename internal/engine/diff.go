package engine

import (
	"fmt"
	"strconv"
	"strings"
)

// ChangeKind names what happened to an entity between two documents.
type ChangeKind string

const (
	ChangeAdded    ChangeKind = "added"
	ChangeRemoved  ChangeKind = "removed"
	ChangeModified ChangeKind = "modified"
)

// Change is one structural difference between two boards. Entities are
// addressed by id, never by array index, so reordering a column or task is
// never reported as an add plus a remove. Field modifications carry the old
// and new scalar values so a collaborating client can apply the change as an
// incremental patch.
type Change struct {
	Path     string
	EntityID string
	Kind     ChangeKind
	Field    string
	Old      string
	New      string
}

// DiffBoards computes the ordered structural diff from before to after.
// Both boards must already be validated; behavior on malformed input is
// unspecified. DiffBoards(b, b) is always empty.
func DiffBoards(before, after *Board) []Change {
	var changes []Change
	changes = diffBoardFields(before, after, changes)
	changes = diffRules(before.Rules, after.Rules, changes)
	changes = diffColumns(before, after, changes)
	changes = diffTasks(before, after, changes)
	return changes
}

func diffBoardFields(before, after *Board, changes []Change) []Change {
	changes = diffScalar("title", "title", before.Title, after.Title, changes)
	changes = diffScalar("protocolVersion", "protocolVersion", before.ProtocolVersion, after.ProtocolVersion, changes)
	changes = diffScalar("schema", "schema", before.Schema, after.Schema, changes)
	changes = diffScalar("agent.instructions", "instructions",
		strings.Join(before.AgentInstructions, "\n"), strings.Join(after.AgentInstructions, "\n"), changes)
	changes = diffScalar("statsConfig.columns", "columns",
		strings.Join(statsColumns(before), ","), strings.Join(statsColumns(after), ","), changes)
	return changes
}

func statsColumns(b *Board) []string {
	if b.StatsConfig == nil {
		return nil
	}
	return b.StatsConfig.Columns
}

func diffScalar(path, field, from, to string, changes []Change) []Change {
	if from == to {
		return changes
	}
	return append(changes, Change{Path: path, Kind: ChangeModified, Field: field, Old: from, New: to})
}

func diffRules(before, after *Rules, changes []Change) []Change {
	empty := Rules{}
	if before == nil {
		before = &empty
	}
	if after == nil {
		after = &empty
	}
	beforeLists := before.RuleLists()
	afterLists := after.RuleLists()
	for i := range beforeLists {
		ruleType := beforeLists[i].Type
		oldRules := beforeLists[i].Rules
		newRules := afterLists[i].Rules
		newByID := make(map[int]Rule, len(newRules))
		for _, rule := range newRules {
			newByID[rule.ID] = rule
		}
		oldByID := make(map[int]Rule, len(oldRules))
		for _, rule := range oldRules {
			oldByID[rule.ID] = rule
			path := fmt.Sprintf("rules.%s.%d", ruleType, rule.ID)
			replacement, ok := newByID[rule.ID]
			if !ok {
				changes = append(changes, Change{Path: path, EntityID: strconv.Itoa(rule.ID), Kind: ChangeRemoved})
				continue
			}
			if replacement.Rule != rule.Rule {
				changes = append(changes, Change{
					Path: path, EntityID: strconv.Itoa(rule.ID), Kind: ChangeModified,
					Field: "rule", Old: rule.Rule, New: replacement.Rule,
				})
			}
		}
		for _, rule := range newRules {
			if _, ok := oldByID[rule.ID]; !ok {
				changes = append(changes, Change{
					Path:     fmt.Sprintf("rules.%s.%d", ruleType, rule.ID),
					EntityID: strconv.Itoa(rule.ID),
					Kind:     ChangeAdded,
				})
			}
		}
	}
	return changes
}

func diffColumns(before, after *Board, changes []Change) []Change {
	afterByID := make(map[string]Column, len(after.Columns))
	for _, col := range after.Columns {
		afterByID[col.ID] = col
	}
	beforeByID := make(map[string]Column, len(before.Columns))
	for _, col := range before.Columns {
		beforeByID[col.ID] = col
		path := "columns." + col.ID
		replacement, ok := afterByID[col.ID]
		if !ok {
			changes = append(changes, Change{Path: path, EntityID: col.ID, Kind: ChangeRemoved})
			continue
		}
		if replacement.Title != col.Title {
			changes = append(changes, Change{
				Path: path, EntityID: col.ID, Kind: ChangeModified,
				Field: "title", Old: col.Title, New: replacement.Title,
			})
		}
	}
	for _, col := range after.Columns {
		if _, ok := beforeByID[col.ID]; !ok {
			changes = append(changes, Change{Path: "columns." + col.ID, EntityID: col.ID, Kind: ChangeAdded})
		}
	}
	return changes
}

type taskRef struct {
	task   Task
	column string
}

// taskIndex flattens every task, archive included, keyed by id. Order is
// board order: columns left to right, archive last.
func taskIndex(b *Board) (map[string]taskRef, []string) {
	index := make(map[string]taskRef)
	var order []string
	for _, col := range b.Columns {
		for _, task := range col.Tasks {
			if _, ok := index[task.ID]; ok {
				continue
			}
			index[task.ID] = taskRef{task: task, column: col.ID}
			order = append(order, task.ID)
		}
	}
	for _, task := range b.Archive {
		if _, ok := index[task.ID]; ok {
			continue
		}
		index[task.ID] = taskRef{task: task, column: "archive"}
		order = append(order, task.ID)
	}
	return index, order
}

func diffTasks(before, after *Board, changes []Change) []Change {
	oldIndex, oldOrder := taskIndex(before)
	newIndex, newOrder := taskIndex(after)
	for _, id := range oldOrder {
		old := oldIndex[id]
		path := "tasks." + id
		replacement, ok := newIndex[id]
		if !ok {
			changes = append(changes, Change{Path: path, EntityID: id, Kind: ChangeRemoved})
			continue
		}
		if replacement.column != old.column {
			changes = append(changes, Change{
				Path: path, EntityID: id, Kind: ChangeModified,
				Field: "column", Old: old.column, New: replacement.column,
			})
		}
		changes = diffTaskFields(path, id, old.task, replacement.task, changes)
		changes = diffSubtasks(path, old.task, replacement.task, changes)
	}
	for _, id := range newOrder {
		if _, ok := oldIndex[id]; !ok {
			changes = append(changes, Change{Path: "tasks." + id, EntityID: id, Kind: ChangeAdded})
		}
	}
	return changes
}

func diffTaskFields(path, id string, old, cur Task, changes []Change) []Change {
	fields := []struct {
		name string
		from string
		to   string
	}{
		{"title", old.Title, cur.Title},
		{"description", old.Description, cur.Description},
		{"assignee", old.Assignee, cur.Assignee},
		{"priority", old.Priority, cur.Priority},
		{"dueDate", old.DueDate, cur.DueDate},
		{"template", old.Template, cur.Template},
		{"tags", strings.Join(old.Tags, ", "), strings.Join(cur.Tags, ", ")},
		{"relatedFiles", strings.Join(old.RelatedFiles, ", "), strings.Join(cur.RelatedFiles, ", ")},
	}
	for _, f := range fields {
		if f.from == f.to {
			continue
		}
		changes = append(changes, Change{
			Path: path, EntityID: id, Kind: ChangeModified,
			Field: f.name, Old: f.from, New: f.to,
		})
	}
	return changes
}

func diffSubtasks(taskPath string, old, cur Task, changes []Change) []Change {
	newByID := make(map[string]Subtask, len(cur.Subtasks))
	for _, sub := range cur.Subtasks {
		newByID[sub.ID] = sub
	}
	oldByID := make(map[string]Subtask, len(old.Subtasks))
	for _, sub := range old.Subtasks {
		oldByID[sub.ID] = sub
		path := taskPath + ".subtasks." + sub.ID
		replacement, ok := newByID[sub.ID]
		if !ok {
			changes = append(changes, Change{Path: path, EntityID: sub.ID, Kind: ChangeRemoved})
			continue
		}
		if replacement.Title != sub.Title {
			changes = append(changes, Change{
				Path: path, EntityID: sub.ID, Kind: ChangeModified,
				Field: "title", Old: sub.Title, New: replacement.Title,
			})
		}
		if replacement.Completed != sub.Completed {
			changes = append(changes, Change{
				Path: path, EntityID: sub.ID, Kind: ChangeModified,
				Field: "completed", Old: strconv.FormatBool(sub.Completed), New: strconv.FormatBool(replacement.Completed),
			})
		}
	}
	for _, sub := range cur.Subtasks {
		if _, ok := oldByID[sub.ID]; !ok {
			changes = append(changes, Change{Path: taskPath + ".subtasks." + sub.ID, EntityID: sub.ID, Kind: ChangeAdded})
		}
	}
	return changes
}
