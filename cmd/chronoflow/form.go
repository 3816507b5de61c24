package main

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/td0m/chronoflow/internal/ui"
	"github.com/td0m/chronoflow/pkg/dateinput"
	"github.com/td0m/chronoflow/pkg/task"
)

var errBadDue = errors.New("due date not understood")

const (
	fieldTitle = iota
	fieldDue
	fieldPriority
	fieldCategory
	fieldCount
)

var (
	formHeader = lipgloss.NewStyle().Foreground(ui.Primary).Bold(true).Padding(1, 1, 1, 1)
	formLabel  = lipgloss.NewStyle().Foreground(ui.Faded).Width(10).PaddingLeft(1)
	formFocus  = lipgloss.NewStyle().Foreground(ui.Blue).Bold(true).Width(10).PaddingLeft(1)
)

// form edits the four user-controlled fields of a task
type form struct {
	// original is the task being edited, zero when creating
	original task.Task

	title    textinput.Model
	due      dateinput.Model
	priority task.Priority
	category textinput.Model

	focus int
	err   string
}

func newForm(t *task.Task, day time.Time) form {
	f := form{
		title:    textinput.NewModel(),
		due:      dateinput.NewModel(),
		category: textinput.NewModel(),
		priority: task.Medium,
	}
	f.title.Prompt = ""
	f.title.Placeholder = "What needs doing?"
	f.title.CharLimit = 120
	f.category.Prompt = ""
	f.category.Placeholder = "Work, Design, Personal..."
	f.category.CharLimit = 40

	if t != nil {
		f.original = *t
		f.title.SetValue(t.Title)
		due := t.DueDate
		f.due.SetValue(&due)
		f.priority = t.Priority
		f.category.SetValue(t.Category)
	} else {
		f.due.SetValue(&day)
	}
	f.setFocus(fieldTitle)
	return f
}

func (f form) editing() bool {
	return f.original.ID != ""
}

func (f *form) setFocus(i int) {
	f.focus = (i + fieldCount) % fieldCount
	f.title.Blur()
	f.due.Blur()
	f.category.Blur()
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldDue:
		f.due.Focus()
	case fieldCategory:
		f.category.Focus()
	}
}

// Update moves between fields and forwards keys to the focused one
func (f form) Update(msg tea.KeyMsg) (form, tea.Cmd) {
	var cmd tea.Cmd
	switch msg.String() {
	case "tab", "down":
		f.setFocus(f.focus + 1)
		return f, nil
	case "shift+tab", "up":
		f.setFocus(f.focus - 1)
		return f, nil
	}
	f.err = ""
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDue:
		f.due, cmd = f.due.Update(msg)
	case fieldPriority:
		switch msg.String() {
		case "left", "h":
			f.priority = cyclePriority(f.priority, -1)
		case "right", "l", " ":
			f.priority = cyclePriority(f.priority, 1)
		}
	case fieldCategory:
		f.category, cmd = f.category.Update(msg)
	}
	return f, cmd
}

func cyclePriority(p task.Priority, inc int) task.Priority {
	all := task.Priorities()
	i := 0
	for j, q := range all {
		if q == p {
			i = j
		}
	}
	return all[(i+inc+len(all))%len(all)]
}

// Draft returns the entered fields; it fails while the due date does not parse
func (f form) Draft() (task.Draft, error) {
	due := f.due.Value()
	if due == nil {
		return task.Draft{}, errBadDue
	}
	return task.Draft{
		Title:    strings.TrimSpace(f.title.Value()),
		DueDate:  *due,
		Priority: f.priority,
		Category: strings.TrimSpace(f.category.Value()),
	}, nil
}

func (f form) View() string {
	header := "Create New Task"
	if f.editing() {
		header = "Edit Task"
	}
	label := func(i int, s string) string {
		if f.focus == i {
			return formFocus.Render(s)
		}
		return formLabel.Render(s)
	}

	priorities := []string{}
	for _, p := range task.Priorities() {
		style := lipgloss.NewStyle().Foreground(ui.Faded).Padding(0, 1)
		if p == f.priority {
			style = style.Copy().Foreground(ui.PriorityColor(p)).Bold(true).Underline(true)
		}
		priorities = append(priorities, style.Render(string(p)))
	}

	s := formHeader.Render(header) + "\n"
	s += label(fieldTitle, "title") + f.title.View() + "\n"
	s += label(fieldDue, "due") + f.due.View() + "\n"
	s += label(fieldPriority, "priority") + strings.Join(priorities, "") + "\n"
	s += label(fieldCategory, "category") + f.category.View() + "\n"
	if f.err != "" {
		s += "\n" + ui.Error.Render(f.err) + "\n"
	}
	return s
}
