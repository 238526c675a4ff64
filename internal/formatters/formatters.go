// Package formatters projects tasks and boards into external exchange
// formats: GitHub-flavored issue markdown and JSON tickets.
package formatters

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"

	"boardfile/internal/engine"
)

// Ticket is the JSON projection of a task for external trackers.
type Ticket struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	Column       string      `json:"column,omitempty"`
	Assignee     string      `json:"assignee,omitempty"`
	Priority     string      `json:"priority,omitempty"`
	DueDate      string      `json:"dueDate,omitempty"`
	Template     string      `json:"template,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
	RelatedFiles []string    `json:"relatedFiles,omitempty"`
	Subtasks     []SubTicket `json:"subtasks,omitempty"`
}

// SubTicket mirrors one subtask inside a Ticket.
type SubTicket struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// JSONTicket renders one task as an indented JSON document.
func JSONTicket(task engine.Task, column string) ([]byte, error) {
	ticket := Ticket{
		ID:           task.ID,
		Title:        task.Title,
		Description:  task.Description,
		Column:       column,
		Assignee:     task.Assignee,
		Priority:     task.Priority,
		DueDate:      task.DueDate,
		Template:     task.Template,
		Tags:         task.Tags,
		RelatedFiles: task.RelatedFiles,
	}
	for _, sub := range task.Subtasks {
		ticket.Subtasks = append(ticket.Subtasks, SubTicket{
			ID: sub.ID, Title: sub.Title, Completed: sub.Completed,
		})
	}
	data, err := sonic.ConfigStd.MarshalIndent(ticket, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("formatters: encode ticket %s: %w", task.ID, err)
	}
	return data, nil
}

// GitHubIssue renders one task as issue-ready markdown: title heading,
// metadata list, description, and a subtask checklist.
func GitHubIssue(task engine.Task, column string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n\n", task.Title)

	var meta []string
	if column != "" {
		meta = append(meta, fmt.Sprintf("**Column:** %s", column))
	}
	if task.Priority != "" {
		meta = append(meta, fmt.Sprintf("**Priority:** %s", task.Priority))
	}
	if task.Assignee != "" {
		meta = append(meta, fmt.Sprintf("**Assignee:** @%s", task.Assignee))
	}
	if task.DueDate != "" {
		meta = append(meta, fmt.Sprintf("**Due:** %s", task.DueDate))
	}
	if len(task.Tags) > 0 {
		meta = append(meta, fmt.Sprintf("**Labels:** %s", strings.Join(task.Tags, ", ")))
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, " · "))
		b.WriteString("\n\n")
	}

	if task.Description != "" {
		b.WriteString(strings.TrimRight(task.Description, "\n"))
		b.WriteString("\n\n")
	}

	if len(task.Subtasks) > 0 {
		b.WriteString("### Checklist\n\n")
		for _, sub := range task.Subtasks {
			mark := " "
			if sub.Completed {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, sub.Title)
		}
		b.WriteString("\n")
	}

	if len(task.RelatedFiles) > 0 {
		b.WriteString("### Related files\n\n")
		for _, file := range task.RelatedFiles {
			fmt.Fprintf(&b, "- `%s`\n", file)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "<!-- boardfile:%s -->\n", task.ID)
	return b.String()
}

// BoardSummary renders a one-table status overview for a board.
func BoardSummary(b *engine.Board) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", b.Title)
	sb.WriteString("| Column | Tasks |\n|---|---|\n")
	for _, col := range b.Columns {
		fmt.Fprintf(&sb, "| %s | %d |\n", col.Title, len(col.Tasks))
	}
	if len(b.Archive) > 0 {
		fmt.Fprintf(&sb, "| Archive | %d |\n", len(b.Archive))
	}
	return sb.String()
}
