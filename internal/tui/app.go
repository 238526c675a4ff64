// internal/tui/app.go
//
// This is the interactive board viewer. It uses bubbletea, which follows
// The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"boardfile/internal/engine"
)

// appState represents which "screen" we're on
type appState int

const (
	statePicker appState = iota // Board picker when several boards exist
	stateBoard                  // Kanban column view
	stateDetail                 // Single task detail
)

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	columnStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	focusColumnStyle = columnStyle.Copy().BorderForeground(lipgloss.Color("#5B8DEF"))
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	dimStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	warnStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	priorityStyle    = map[string]lipgloss.Style{
		"critical": lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		"high":     lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9F43")),
		"medium":   lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")),
		"low":      lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
	}
)

// BoardRef is one openable board handed to the viewer by the CLI.
type BoardRef struct {
	Path  string
	Doc   *engine.Document
	Board *engine.Board
}

// boardItem implements list.Item for the picker screen.
type boardItem struct {
	ref BoardRef
}

func (i boardItem) Title() string { return i.ref.Board.Title }
func (i boardItem) Description() string {
	return fmt.Sprintf("%s · %d tasks", i.ref.Path, i.ref.Board.TaskCount())
}
func (i boardItem) FilterValue() string { return i.ref.Board.Title }

// App is the viewer model. In bubbletea, this holds ALL your state.
type App struct {
	state  appState
	picker list.Model
	refs   []BoardRef

	current BoardRef
	col     int
	row     []int

	width  int
	height int
}

// NewApp creates the viewer. With a single board the picker is skipped.
func NewApp(refs []BoardRef) *App {
	items := make([]list.Item, len(refs))
	for i, ref := range refs {
		items[i] = boardItem{ref: ref}
	}
	picker := list.New(items, list.NewDefaultDelegate(), 0, 0)
	picker.Title = "Boards"
	picker.SetShowStatusBar(false)
	picker.SetFilteringEnabled(false)

	app := &App{state: statePicker, picker: picker, refs: refs}
	if len(refs) == 1 {
		app.open(refs[0])
	}
	return app
}

func (a *App) open(ref BoardRef) {
	a.current = ref
	a.col = 0
	a.row = make([]int, len(ref.Board.Columns))
	a.state = stateBoard
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return nil
}

// Update handles all incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.picker.SetSize(msg.Width, msg.Height-2)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return a, tea.Quit
		}
		switch a.state {
		case statePicker:
			return a.updatePicker(msg)
		case stateBoard:
			return a.updateBoard(msg)
		case stateDetail:
			return a.updateDetail(msg)
		}
	}
	return a, nil
}

func (a *App) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		if item, ok := a.picker.SelectedItem().(boardItem); ok {
			a.open(item.ref)
		}
		return a, nil
	}
	var cmd tea.Cmd
	a.picker, cmd = a.picker.Update(msg)
	return a, cmd
}

func (a *App) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := a.current.Board.Columns
	switch msg.String() {
	case "esc":
		if len(a.refs) > 1 {
			a.state = statePicker
		}
	case "left", "h":
		if a.col > 0 {
			a.col--
		}
	case "right", "l":
		if a.col < len(cols)-1 {
			a.col++
		}
	case "up", "k":
		if len(cols) > 0 && a.row[a.col] > 0 {
			a.row[a.col]--
		}
	case "down", "j":
		if len(cols) > 0 && a.row[a.col] < len(cols[a.col].Tasks)-1 {
			a.row[a.col]++
		}
	case "enter":
		if task, ok := a.selectedTask(); ok && task.ID != "" {
			a.state = stateDetail
		}
	}
	return a, nil
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" || msg.String() == "enter" {
		a.state = stateBoard
	}
	return a, nil
}

func (a *App) selectedTask() (engine.Task, bool) {
	cols := a.current.Board.Columns
	if a.col >= len(cols) || len(cols[a.col].Tasks) == 0 {
		return engine.Task{}, false
	}
	row := a.row[a.col]
	if row >= len(cols[a.col].Tasks) {
		return engine.Task{}, false
	}
	return cols[a.col].Tasks[row], true
}

// View renders the current screen.
func (a *App) View() string {
	switch a.state {
	case statePicker:
		return a.picker.View()
	case stateDetail:
		return a.viewDetail()
	default:
		return a.viewBoard()
	}
}

func (a *App) viewBoard() string {
	b := a.current.Board
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(b.Title))
	sb.WriteString("\n")
	if n := len(a.current.Doc.Warnings); n > 0 {
		sb.WriteString(warnStyle.Render(fmt.Sprintf("%d duplicate column(s) merged on load", n)))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	rendered := make([]string, 0, len(b.Columns))
	for ci, col := range b.Columns {
		rendered = append(rendered, a.renderColumn(ci, col))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("←/→ column · ↑/↓ task · enter details · esc back · q quit"))
	return sb.String()
}

func (a *App) renderColumn(ci int, col engine.Column) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s (%d)\n", col.Title, len(col.Tasks)))
	for ti, task := range col.Tasks {
		line := task.Title
		if style, ok := priorityStyle[task.Priority]; ok {
			line = style.Render("● ") + line
		} else {
			line = "  " + line
		}
		if ci == a.col && ti == a.row[ci] {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	if len(col.Tasks) == 0 {
		sb.WriteString(dimStyle.Render("  (empty)"))
		sb.WriteString("\n")
	}
	style := columnStyle
	if ci == a.col {
		style = focusColumnStyle
	}
	return style.Render(strings.TrimRight(sb.String(), "\n"))
}

func (a *App) viewDetail() string {
	task, ok := a.selectedTask()
	if !ok {
		return "no task selected"
	}
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(task.Title))
	sb.WriteString("\n\n")
	writeField := func(name, value string) {
		if value != "" {
			sb.WriteString(dimStyle.Render(name+": ") + value + "\n")
		}
	}
	writeField("id", task.ID)
	writeField("priority", task.Priority)
	writeField("assignee", task.Assignee)
	writeField("due", task.DueDate)
	writeField("tags", strings.Join(task.Tags, ", "))
	writeField("template", task.Template)
	if task.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(task.Description)
		sb.WriteString("\n")
	}
	if len(task.Subtasks) > 0 {
		sb.WriteString("\n")
		for _, sub := range task.Subtasks {
			mark := "[ ]"
			if sub.Completed {
				mark = "[x]"
			}
			sb.WriteString(fmt.Sprintf("%s %s\n", mark, sub.Title))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render("esc back · q quit"))
	return sb.String()
}

// Run starts the bubbletea program over the given boards.
func Run(refs []BoardRef) error {
	if len(refs) == 0 {
		return fmt.Errorf("tui: no boards to show")
	}
	p := tea.NewProgram(NewApp(refs), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
