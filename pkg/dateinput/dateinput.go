package dateinput

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	indicator = lipgloss.NewStyle().Padding(0, 1).Bold(true)
	checkmark = indicator.Copy().
			Foreground(lipgloss.AdaptiveColor{Light: "#00ad3b", Dark: "#73F59F"}).
			Render("✓")

	cross = indicator.Copy().
		Foreground(lipgloss.AdaptiveColor{Light: "", Dark: "#FF5047"}).
		Render("✗")
)

// Model is a text input that parses what is typed into a due date as you type
type Model struct {
	i     textinput.Model
	value *time.Time
	now   func() time.Time
}

func NewModel() Model {
	i := textinput.NewModel()
	i.CharLimit = 32
	i.Prompt = ""
	i.Placeholder = "tomorrow, fri, in 2 weeks, 21/04"
	return Model{
		i:   i,
		now: time.Now,
	}
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.i, cmd = m.i.Update(msg)
		m.value = nil
		if t, err := Parse(m.i.Value(), m.now()); err == nil {
			m.value = &t
		}
		return m, cmd
	}
	return m, nil
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m Model) View() string {
	indicator := cross
	if m.i.Value() == "" {
		indicator = ""
	} else if m.value != nil {
		indicator = checkmark + " " + m.value.Format("Mon 2 Jan 2006") + " (" + Relative(*m.value, m.now()) + ")"
	}
	return m.i.View() + indicator
}

func (m *Model) Focus() {
	m.i.Focus()
}

func (m *Model) Blur() {
	m.i.Blur()
}

// Value is the parsed date, nil while the input does not parse
func (m Model) Value() *time.Time {
	return m.value
}

func (m *Model) SetValue(t *time.Time) {
	m.value = t
	if t == nil {
		m.i.SetValue("")
		return
	}
	m.i.SetValue(t.Format("02/01/2006"))
}

// Relative describes how far t is from now in whole days, like "in 3 days" or "2 weeks ago"
func Relative(t, now time.Time) string {
	days := int(startOfDay(t).Sub(startOfDay(now)).Hours()) / 24
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days < 0:
		return span(-days) + " ago"
	default:
		return "in " + span(days)
	}
}

func span(days int) string {
	unit, n := "day", days
	switch {
	case days >= 62:
		unit, n = "month", days/31
	case days >= 14:
		unit, n = "week", days/7
	}
	if n > 1 {
		unit += "s"
	}
	return strconv.Itoa(n) + " " + unit
}
