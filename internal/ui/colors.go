package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/td0m/chronoflow/pkg/task"
)

const (
	Primary   = lipgloss.Color("#fff")
	Secondary = lipgloss.Color("#888")
	Faded     = lipgloss.Color("#555")

	Blue   = lipgloss.Color("#4db7ff")
	Green  = lipgloss.Color("#00a352")
	Red    = lipgloss.Color("#c42912")
	Yellow = lipgloss.Color("#c4b810")
	Orange = lipgloss.Color("#c27510")
)

// PriorityColor is the badge color of p
func PriorityColor(p task.Priority) lipgloss.Color {
	switch p {
	case task.High:
		return Red
	case task.Medium:
		return Yellow
	case task.Low:
		return Green
	}
	return Faded
}

// DueColor gets more urgent the closer due is to today
func DueColor(due, now time.Time) lipgloss.Color {
	switch days := daysBetween(now, due); {
	case days < 0:
		return Red
	case days <= 2:
		return Orange
	case days <= 14:
		return Blue
	default:
		return Faded
	}
}

func daysBetween(from, to time.Time) int {
	y, m, d := from.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, from.Location())
	to = to.In(from.Location())
	y, m, d = to.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, from.Location())
	return int(end.Sub(start).Round(time.Hour).Hours()) / 24
}
