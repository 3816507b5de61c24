package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	calHeader   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	calWeekday  = lipgloss.NewStyle().Foreground(Secondary)
	calDay      = lipgloss.NewStyle().Foreground(Secondary)
	calMarked   = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	calSelected = lipgloss.NewStyle().Background(Faded).Foreground(Primary).Bold(true)
)

// Month renders the month of selected as a grid starting on Monday.
// Days in marked (midnights in selected's location) are highlighted.
func Month(selected, today time.Time, marked []time.Time) string {
	loc := selected.Location()
	y, m, _ := selected.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, loc)

	has := map[int]bool{}
	for _, d := range marked {
		d = d.In(loc)
		if d.Year() == y && d.Month() == m {
			has[d.Day()] = true
		}
	}
	ty, tm, td := today.In(loc).Date()

	var b strings.Builder
	b.WriteString(calHeader.Render(first.Format("January 2006")) + "\n")
	b.WriteString(calWeekday.Render("Mo Tu We Th Fr Sa Su") + "\n")

	offset := (int(first.Weekday()) + 6) % 7
	b.WriteString(strings.Repeat("   ", offset))
	days := first.AddDate(0, 1, -1).Day()
	for d := 1; d <= days; d++ {
		style := calDay
		if has[d] {
			style = calMarked
		}
		if ty == y && tm == m && td == d {
			style = style.Copy().Underline(true)
		}
		if d == selected.Day() {
			style = calSelected
		}
		b.WriteString(style.Render(fmt.Sprintf("%2d", d)))
		if (offset+d)%7 == 0 {
			b.WriteString("\n")
		} else if d != days {
			b.WriteString(" ")
		}
	}
	return b.String()
}
