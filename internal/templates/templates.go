// Package templates instantiates new tasks from the built-in template
// catalog. Templates pre-fill tags, a description skeleton, and the template
// marker the validator recognizes.
package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"boardfile/internal/engine"
)

// Template describes one catalog entry. Description is a skeleton with
// {{title}} placeholders substituted at instantiation time.
type Template struct {
	Name        string
	Summary     string
	Description string
	Tags        []string
	Priority    string
	Subtasks    []string
}

var catalog = map[string]Template{
	"bug": {
		Name:    "bug",
		Summary: "Defect report with reproduction steps",
		Description: "## Summary\n\n{{title}}\n\n## Steps to reproduce\n\n1.\n\n" +
			"## Expected\n\n## Actual\n",
		Tags:     []string{"bug"},
		Priority: "high",
		Subtasks: []string{"Reproduce", "Fix", "Add regression test"},
	},
	"feature": {
		Name:        "feature",
		Summary:     "New capability with acceptance criteria",
		Description: "## Goal\n\n{{title}}\n\n## Acceptance criteria\n\n- [ ]\n",
		Tags:        []string{"feature"},
		Priority:    "medium",
		Subtasks:    []string{"Design", "Implement", "Document"},
	},
	"refactor": {
		Name:        "refactor",
		Summary:     "Behavior-preserving restructuring",
		Description: "## Motivation\n\n{{title}}\n\n## Out of scope\n\n- Behavior changes\n",
		Tags:        []string{"refactor"},
		Priority:    "low",
		Subtasks:    []string{"Map the blast radius", "Restructure", "Verify no behavior change"},
	},
}

// Names returns the catalog entries in sorted order.
func Names() []string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the template with the given name.
func Lookup(name string) (Template, bool) {
	tpl, ok := catalog[strings.ToLower(strings.TrimSpace(name))]
	return tpl, ok
}

// NewTask instantiates a task from the named template. Task and subtask ids
// are fresh UUIDs so exports and location lookups stay unambiguous.
func NewTask(templateName, title string) (engine.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return engine.Task{}, fmt.Errorf("templates: a task title is required")
	}
	tpl, ok := Lookup(templateName)
	if !ok {
		return engine.Task{}, fmt.Errorf("templates: unknown template %q, have %s",
			templateName, strings.Join(Names(), ", "))
	}
	task := engine.Task{
		ID:          "task-" + uuid.NewString(),
		Title:       title,
		Description: substitute(tpl.Description, title),
		Tags:        append([]string(nil), tpl.Tags...),
		Priority:    tpl.Priority,
		Template:    tpl.Name,
	}
	for _, subTitle := range tpl.Subtasks {
		task.Subtasks = append(task.Subtasks, engine.Subtask{
			ID:    "sub-" + uuid.NewString(),
			Title: subTitle,
		})
	}
	return task, nil
}

func substitute(text, title string) string {
	return strings.ReplaceAll(text, "{{title}}", title)
}
