package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/td0m/chronoflow/internal/ui"
	"github.com/td0m/chronoflow/pkg/suggest"
	"github.com/td0m/chronoflow/pkg/task"
	"github.com/td0m/chronoflow/pkg/view"
)

const (
	headerHeight = 3
	footerHeight = 1
)

const (
	tabList = iota
	tabCalendar
)

type mode int

const (
	modeNormal mode = iota
	modeFilter
	modeForm
	modeSuggest
)

var (
	help       = lipgloss.NewStyle().Foreground(ui.Faded).Padding(0, 1)
	status     = lipgloss.NewStyle().Foreground(ui.Secondary).Padding(0, 1)
	modalTitle = lipgloss.NewStyle().Foreground(ui.Primary).Bold(true).Padding(1, 1, 1, 1)
	modalItem  = lipgloss.NewStyle().Foreground(ui.Blue).Bold(true).PaddingLeft(1)
	modalText  = lipgloss.NewStyle().Foreground(ui.Secondary).PaddingLeft(4)
)

type suggestionsMsg struct {
	seq         int
	suggestions []suggest.Suggestion
	err         error
}

type app struct {
	env  *env
	mode mode

	viewport viewport.Model
	tabs     ui.Tabs
	filter   textinput.Model
	form     form

	cursor   int
	visible  []task.Task
	selected time.Time

	status    string
	statusErr bool

	suggestSeq  int
	suggestions []suggest.Suggestion
}

func runTUI(e *env) error {
	p := tea.NewProgram(newApp(e))
	p.EnterAltScreen()
	defer p.ExitAltScreen()

	return p.Start()
}

func newApp(e *env) *app {
	f := textinput.NewModel()
	f.Prompt = "/"
	f.Placeholder = "filter by category"
	f.CharLimit = 64

	m := &app{
		env:      e,
		tabs:     ui.NewTabs([]string{"List", "Calendar"}),
		filter:   f,
		selected: view.StartOfDay(e.now()),
	}
	m.refresh()
	if n := len(view.Overdue(e.store.Tasks(), e.now())); n > 0 {
		m.notify(fmt.Sprintf("Overdue Tasks: you have %d overdue task(s). Better get to it!", n), true)
	}
	m.render()
	return m
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m *app) Init() tea.Cmd {
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height - headerHeight - footerHeight
		m.tabs.Width = msg.Width
		m.setCursor(m.cursor) // make sure cursor is visible
	case suggestionsMsg:
		m.gotSuggestions(msg)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEsc:
			m.escape()
		default:
			cmd = m.keyUpdate(msg)
		}
	}
	m.render()
	return m, cmd
}

// handle keys differently based on the current mode
func (m *app) keyUpdate(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.mode {
	case modeFilter:
		if msg.Type == tea.KeyEnter {
			m.mode = modeNormal
			m.filter.Blur()
			return nil
		}
		m.filter, cmd = m.filter.Update(msg)
		m.refresh()
		m.setCursor(0)
	case modeForm:
		if msg.Type == tea.KeyEnter {
			m.saveForm()
			return nil
		}
		m.form, cmd = m.form.Update(msg)
	case modeSuggest:
		if msg.Type == tea.KeyEnter || msg.String() == "q" {
			m.escape()
		}
	case modeNormal:
		cmd = m.normalUpdate(msg)
	}
	return cmd
}

func (m *app) normalUpdate(msg tea.KeyMsg) tea.Cmd {
	m.status = ""
	switch msg.String() {
	case "q":
		return tea.Quit
	case "tab", "shift+tab", "alt+1", "alt+2":
		m.tabs, _ = m.tabs.Update(msg)
		m.refresh()
		m.setCursor(0)
	case "j", "down":
		m.setCursor(m.cursor + 1)
	case "k", "up":
		m.setCursor(m.cursor - 1)
	case "g":
		m.setCursor(0)
	case "G":
		m.setCursor(len(m.visible))
	case "ctrl+d":
		m.setCursor(m.cursor + 10)
	case "ctrl+u":
		m.setCursor(m.cursor - 10)
	case "n":
		m.openForm(nil)
	case "e", "enter":
		if t, ok := m.atCursor(); ok {
			m.openForm(&t)
		}
	case " ", "t":
		m.toggle()
	case "d", tea.KeyDelete.String():
		m.remove()
	case "S":
		return m.startSuggest()
	}

	if m.tabs.Value() == tabList {
		switch msg.String() {
		case "/":
			m.mode = modeFilter
			m.filter.Focus()
		case "s":
			m.env.sortBy = m.env.sortBy.Next()
			m.refresh()
			m.notify("sorted by "+m.env.sortBy.Label(), false)
		}
		return nil
	}

	switch msg.String() {
	case "h", "left":
		m.moveDay(-1)
	case "l", "right":
		m.moveDay(1)
	case "H":
		m.moveDay(-7)
	case "L":
		m.moveDay(7)
	case ".":
		m.selected = view.StartOfDay(m.env.now())
		m.refresh()
		m.setCursor(0)
	}
	return nil
}

func (m *app) escape() {
	switch m.mode {
	case modeFilter:
		m.filter.Blur()
	case modeSuggest:
		// the request keeps running, its reply is dropped by gotSuggestions
		m.suggestions = nil
	}
	m.mode = modeNormal
}

func (m *app) moveDay(days int) {
	m.selected = m.selected.AddDate(0, 0, days)
	m.refresh()
	m.setCursor(0)
}

func (m *app) openForm(t *task.Task) {
	day := m.selected
	if m.tabs.Value() == tabList {
		day = view.StartOfDay(m.env.now())
	}
	m.form = newForm(t, day)
	m.mode = modeForm
}

func (m *app) saveForm() {
	d, err := m.form.Draft()
	if err != nil {
		m.form.err = err.Error()
		return
	}
	if m.form.editing() {
		t := d.Apply(m.form.original)
		if err := m.env.store.Update(t); err != nil {
			m.fail("Could not save the task", err)
			return
		}
		m.notify(fmt.Sprintf("Task Updated! %q has been saved.", t.Title), false)
	} else {
		t, err := m.env.store.Create(d)
		if err != nil {
			m.fail("Could not save the task", err)
			return
		}
		m.notify(fmt.Sprintf("Task Created! %q has been added.", t.Title), false)
	}
	m.mode = modeNormal
	m.refresh()
}

func (m *app) toggle() {
	t, ok := m.atCursor()
	if !ok {
		return
	}
	if err := m.env.store.ToggleComplete(t.ID); err != nil {
		m.fail("Could not save the task", err)
		return
	}
	m.refresh()
}

func (m *app) remove() {
	t, ok := m.atCursor()
	if !ok {
		return
	}
	if err := m.env.store.Delete(t.ID); err != nil {
		m.fail("Could not delete the task", err)
		return
	}
	m.notify(fmt.Sprintf("Task Deleted. %q has been removed.", t.Title), true)
	m.refresh()
}

// startSuggest opens the suggestions modal and asks for suggestions in the background.
// While a request is in flight the key does nothing.
func (m *app) startSuggest() tea.Cmd {
	if m.env.suggest.IsLoading() {
		return nil
	}
	m.mode = modeSuggest
	m.suggestions = nil
	m.suggestSeq++

	seq := m.suggestSeq
	svc, tasks := m.env.suggest, m.env.store.Tasks()
	return func() tea.Msg {
		s, err := svc.Suggest(context.Background(), tasks)
		return suggestionsMsg{seq: seq, suggestions: s, err: err}
	}
}

func (m *app) gotSuggestions(msg suggestionsMsg) {
	// closed or replaced while waiting
	if msg.seq != m.suggestSeq || m.mode != modeSuggest {
		return
	}
	if msg.err != nil {
		m.mode = modeNormal
		m.notify("Could not get suggestions", true)
		return
	}
	m.suggestions = msg.suggestions
}

func (m *app) notify(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m *app) fail(s string, err error) {
	m.env.logger.WithError(err).Error(s)
	m.notify(s, true)
}

// refresh rebuilds the visible tasks of the current tab
func (m *app) refresh() {
	all := m.env.store.Tasks()
	if m.tabs.Value() == tabList {
		m.visible = m.env.sorter.List(all, m.env.sortBy, m.filter.Value())
	} else {
		m.visible = m.env.sorter.Sort(view.OnDate(all, m.selected), m.env.sortBy)
	}

	m.tabs.Info = ""
	if n := len(view.Overdue(all, m.env.now())); n > 0 {
		m.tabs.Info = ui.Notice.Render(fmt.Sprintf("%d overdue", n))
	}
	m.setCursor(m.cursor)
}

func (m *app) render() {
	m.viewport.SetContent(m.viewTasks())
}

func (m *app) setCursor(value int) {
	size := len(m.visible)
	m.cursor = clamp(value, 0, max(size-1, 0))

	// for when no tasks
	if size == 0 {
		return
	}

	line := m.linesAbove() + m.cursor
	if line >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.YOffset = line + 1 - m.viewport.Height
	}
	if line < m.viewport.YOffset {
		m.viewport.YOffset = line
	}
	if m.cursor == 0 {
		m.viewport.YOffset = 0
	}
}

// linesAbove is how many lines are rendered before the first task
func (m *app) linesAbove() int {
	if m.tabs.Value() == tabCalendar {
		return strings.Count(m.month(), "\n") + 2
	}
	return 0
}

func (m *app) month() string {
	return ui.Month(m.selected, m.env.now(), view.MarkedDays(m.env.store.Tasks(), m.selected.Location()))
}

func (m *app) viewTasks() string {
	now := m.env.now()
	s := ""
	if m.tabs.Value() == tabCalendar {
		s += m.month() + "\n\n"
		if len(m.visible) == 0 {
			s += help.Render("No tasks for "+m.selected.Format("Mon 2 Jan 2006")+".") + "\n"
		}
	} else if len(m.visible) == 0 {
		s += help.Render("No tasks found.") + "\n"
	}
	for i, t := range m.visible {
		s += ui.TaskLine(t, i == m.cursor, now) + "\n"
	}
	return s
}

func (m *app) viewSuggestions() string {
	s := modalTitle.Render("Smart Suggestions") + "\n"
	if m.suggestions == nil {
		return s + help.Render("Thinking about what matters most...") + "\n"
	}
	for i, sg := range m.suggestions {
		s += modalItem.Render(fmt.Sprintf("%d. %s", i+1, sg.Title)) + "\n"
		s += modalText.Render(sg.Reason) + "\n"
	}
	return s + "\n" + help.Render("esc close")
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m *app) View() string {
	body := m.viewport.View()
	switch m.mode {
	case modeForm:
		body = m.form.View()
	case modeSuggest:
		body = m.viewSuggestions()
	}
	return m.tabs.View() + body + "\n" + m.statusline()
}

func (m *app) statusline() string {
	switch {
	case m.mode == modeFilter:
		return m.filter.View()
	case m.mode == modeForm:
		return help.Render("tab next field · enter save · esc cancel")
	case m.status != "":
		if m.statusErr {
			return ui.Error.Render(m.status)
		}
		return status.Render(m.status)
	case m.tabs.Value() == tabCalendar:
		return help.Render("h/l day · H/L week · . today · n new · e edit · space done · d delete · S suggest")
	default:
		return help.Render("/ filter · s sort (" + m.env.sortBy.Label() + ") · n new · e edit · space done · d delete · S suggest")
	}
}

func (m *app) atCursor() (task.Task, bool) {
	// if no items visible
	if m.cursor >= len(m.visible) {
		return task.Task{}, false
	}
	return m.visible[m.cursor], true
}

func clamp(v, low, high int) int {
	return min(high, max(low, v))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
