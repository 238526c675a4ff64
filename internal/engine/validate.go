package engine

import (
	"fmt"
	"math"
	"strings"
)

const (
	minStatsColumns = 1
	maxStatsColumns = 4
)

var (
	taskPriorities = []string{"low", "medium", "high", "critical"}
	taskTemplates  = []string{"bug", "feature", "refactor"}
	ruleTypes      = []string{"always", "never", "prefer", "context"}
)

// ValidateBoard checks a decoded metadata tree against the board data model,
// independent of how the tree was produced. The walk is exhaustive, never
// fail-fast: every sibling is checked regardless of earlier findings. An
// empty result means the tree is valid.
func ValidateBoard(meta Value) []Issue {
	if meta.Kind != KindMapping {
		return []Issue{{Path: "", Message: "metadata must be a mapping"}}
	}
	var issues []Issue
	if title, ok := meta.Get("title"); !ok || title.Kind != KindString || strings.TrimSpace(title.Str) == "" {
		issues = append(issues, Issue{Path: "title", Message: "must be a non-empty string"})
	}
	cols, ok := meta.Get("columns")
	switch {
	case !ok:
		issues = append(issues, Issue{Path: "columns", Message: "is required"})
	case cols.Kind != KindSequence:
		issues = append(issues, Issue{Path: "columns", Message: "must be an array"})
	default:
		for i, col := range cols.Seq {
			issues = validateColumn(fmt.Sprintf("columns[%d]", i), col, issues)
		}
	}
	if rules, ok := meta.Get("rules"); ok {
		issues = validateRules("rules", rules, issues)
	}
	if stats, ok := meta.Get("statsConfig"); ok {
		issues = validateStatsConfig("statsConfig", stats, issues)
	}
	return issues
}

func validateColumn(path string, col Value, issues []Issue) []Issue {
	if col.Kind != KindMapping {
		return append(issues, Issue{Path: path, Message: "must be a mapping"})
	}
	issues = requireNonEmptyString(path+".id", col, "id", issues)
	issues = requireNonEmptyString(path+".title", col, "title", issues)
	tasks, ok := col.Get("tasks")
	switch {
	case !ok:
		issues = append(issues, Issue{Path: path + ".tasks", Message: "is required"})
	case tasks.Kind != KindSequence:
		issues = append(issues, Issue{Path: path + ".tasks", Message: "must be an array"})
	default:
		for i, task := range tasks.Seq {
			issues = validateTask(fmt.Sprintf("%s.tasks[%d]", path, i), task, issues)
		}
	}
	return issues
}

func validateTask(path string, task Value, issues []Issue) []Issue {
	if task.Kind != KindMapping {
		return append(issues, Issue{Path: path, Message: "must be a mapping"})
	}
	issues = requireNonEmptyString(path+".id", task, "id", issues)
	issues = requireNonEmptyString(path+".title", task, "title", issues)
	if priority, ok := task.Get("priority"); ok {
		if priority.Kind != KindString || !containsString(taskPriorities, priority.Str) {
			issues = append(issues, Issue{
				Path:    path + ".priority",
				Message: "must be one of " + quotedList(taskPriorities),
			})
		}
	}
	if template, ok := task.Get("template"); ok {
		if template.Kind != KindString || !containsString(taskTemplates, template.Str) {
			issues = append(issues, Issue{
				Path:    path + ".template",
				Message: "must be one of " + quotedList(taskTemplates),
			})
		}
	}
	issues = validateStringArray(path+".tags", task, "tags", issues)
	issues = validateStringArray(path+".relatedFiles", task, "relatedFiles", issues)
	if subtasks, ok := task.Get("subtasks"); ok {
		if subtasks.Kind != KindSequence {
			issues = append(issues, Issue{Path: path + ".subtasks", Message: "must be an array"})
		} else {
			for i, sub := range subtasks.Seq {
				issues = validateSubtask(fmt.Sprintf("%s.subtasks[%d]", path, i), sub, issues)
			}
		}
	}
	return issues
}

func validateSubtask(path string, sub Value, issues []Issue) []Issue {
	if sub.Kind != KindMapping {
		return append(issues, Issue{Path: path, Message: "must be a mapping"})
	}
	issues = requireNonEmptyString(path+".id", sub, "id", issues)
	issues = requireNonEmptyString(path+".title", sub, "title", issues)
	if completed, ok := sub.Get("completed"); !ok || completed.Kind != KindBool {
		issues = append(issues, Issue{Path: path + ".completed", Message: "must be a boolean"})
	}
	return issues
}

func validateRules(path string, rules Value, issues []Issue) []Issue {
	if rules.Kind != KindMapping {
		return append(issues, Issue{Path: path, Message: "must be an object"})
	}
	for _, ruleType := range ruleTypes {
		list, ok := rules.Get(ruleType)
		if !ok {
			continue
		}
		listPath := path + "." + ruleType
		if list.Kind != KindSequence {
			issues = append(issues, Issue{Path: listPath, Message: "must be an array"})
			continue
		}
		for i, rule := range list.Seq {
			issues = validateRule(fmt.Sprintf("%s[%d]", listPath, i), rule, issues)
		}
	}
	return issues
}

func validateRule(path string, rule Value, issues []Issue) []Issue {
	if rule.Kind != KindMapping {
		return append(issues, Issue{Path: path, Message: "must be a mapping"})
	}
	if id, ok := rule.Get("id"); !ok || id.Kind != KindNumber || id.Number != math.Trunc(id.Number) {
		issues = append(issues, Issue{Path: path + ".id", Message: "must be an integer"})
	}
	issues = requireNonEmptyString(path+".rule", rule, "rule", issues)
	return issues
}

func validateStatsConfig(path string, stats Value, issues []Issue) []Issue {
	if stats.Kind != KindMapping {
		return append(issues, Issue{Path: path, Message: "must be an object"})
	}
	cols, ok := stats.Get("columns")
	if !ok {
		return issues
	}
	if cols.Kind != KindSequence {
		return append(issues, Issue{Path: path + ".columns", Message: "must be an array"})
	}
	if len(cols.Seq) < minStatsColumns || len(cols.Seq) > maxStatsColumns {
		issues = append(issues, Issue{
			Path:    path + ".columns",
			Message: fmt.Sprintf("must contain between %d and %d entries", minStatsColumns, maxStatsColumns),
		})
	}
	return issues
}

func validateStringArray(path string, parent Value, key string, issues []Issue) []Issue {
	list, ok := parent.Get(key)
	if !ok {
		return issues
	}
	if list.Kind != KindSequence {
		return append(issues, Issue{Path: path, Message: "must be an array of strings"})
	}
	for i, item := range list.Seq {
		if item.Kind != KindString {
			issues = append(issues, Issue{Path: fmt.Sprintf("%s[%d]", path, i), Message: "must be a string"})
		}
	}
	return issues
}

func requireNonEmptyString(path string, parent Value, key string, issues []Issue) []Issue {
	v, ok := parent.Get(key)
	if !ok || v.Kind != KindString || strings.TrimSpace(v.Str) == "" {
		return append(issues, Issue{Path: path, Message: "must be a non-empty string"})
	}
	return issues
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}

func quotedList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, ", ")
}
