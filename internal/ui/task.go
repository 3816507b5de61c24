package ui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/td0m/chronoflow/pkg/dateinput"
	"github.com/td0m/chronoflow/pkg/task"
)

var (
	TaskIcon     = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	TaskTitle    = lipgloss.NewStyle().Bold(true)
	SubTaskTitle = lipgloss.NewStyle().Foreground(Secondary)

	TaskDivider = lipgloss.NewStyle().Foreground(Faded).Padding(0, 1).Render("∙")
	Badge       = lipgloss.NewStyle().Bold(true)

	Notice = lipgloss.NewStyle().Foreground(Orange).Padding(0, 1)
	Error  = lipgloss.NewStyle().Foreground(Red).Padding(0, 1)
)

// TaskLine renders one task of the list and calendar views
func TaskLine(t task.Task, selected bool, now time.Time) string {
	icon := "○"
	title := TaskTitle
	if t.Completed {
		icon = "●"
		title = SubTaskTitle.Copy().Strikethrough(true)
	}
	if selected {
		title = title.Copy().Background(Faded)
	}

	s := TaskIcon.Render(icon)
	s += title.Render(displayTitle(t))
	s += TaskDivider
	s += Badge.Copy().Foreground(PriorityColor(t.Priority)).Render(string(t.Priority))
	if t.Category != "" {
		s += TaskDivider
		s += SubTaskTitle.Render(t.Category)
	}
	s += TaskDivider
	color := DueColor(t.DueDate, now)
	if t.Completed {
		color = Faded
	}
	s += lipgloss.NewStyle().Foreground(color).Render(dueText(t, now))
	return s
}

// TaskText is TaskLine without styling, for output that is read by scripts or piped
func TaskText(t task.Task, now time.Time) string {
	icon := "[ ]"
	if t.Completed {
		icon = "[x]"
	}
	fields := []string{displayTitle(t), string(t.Priority)}
	if t.Category != "" {
		fields = append(fields, t.Category)
	}
	fields = append(fields, dueText(t, now))
	return icon + " " + strings.Join(fields, " · ")
}

func displayTitle(t task.Task) string {
	if t.Title == "" {
		return "(untitled)"
	}
	return t.Title
}

func dueText(t task.Task, now time.Time) string {
	return t.DueDate.Format("Jan 2") + " (" + dateinput.Relative(t.DueDate, now) + ")"
}
