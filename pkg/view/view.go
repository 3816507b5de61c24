// Package view derives what the list and calendar show from a task snapshot.
// Nothing here mutates its input.
package view

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/td0m/chronoflow/pkg/task"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortOption string

const (
	ByPriority   SortOption = "priority"
	ByDueDateAsc SortOption = "dueDate-asc"
	ByDueDateDsc SortOption = "dueDate-desc"
	ByTitleAsc   SortOption = "title-asc"
)

var ErrInvalidSort = errors.New("invalid sort option")

var labels = map[SortOption]string{
	ByPriority:   "Priority",
	ByDueDateAsc: "Due Date (Oldest First)",
	ByDueDateDsc: "Due Date (Newest First)",
	ByTitleAsc:   "Title (A-Z)",
}

// SortOptions lists the options in menu order
func SortOptions() []SortOption {
	return []SortOption{ByPriority, ByDueDateAsc, ByDueDateDsc, ByTitleAsc}
}

func ParseSortOption(s string) (SortOption, error) {
	o := SortOption(s)
	if _, ok := labels[o]; !ok {
		return "", ErrInvalidSort
	}
	return o, nil
}

func (o SortOption) Label() string {
	return labels[o]
}

// Next cycles through SortOptions
func (o SortOption) Next() SortOption {
	all := SortOptions()
	for i, opt := range all {
		if opt == o {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

// Sorter orders the list view.
// Titles are compared with the collation rules of its language.
type Sorter struct {
	lang language.Tag
}

func NewSorter(lang language.Tag) Sorter {
	return Sorter{lang: lang}
}

var defaultSorter = NewSorter(language.English)

// Filter keeps the tasks whose category contains category, ignoring case.
// An empty category keeps everything.
func Filter(tasks []task.Task, category string) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	needle := strings.ToLower(category)
	for _, t := range tasks {
		if needle == "" || strings.Contains(strings.ToLower(t.Category), needle) {
			out = append(out, t)
		}
	}
	return out
}

// Sort orders incomplete tasks before completed ones, then by option.
// Ties keep their input order.
func Sort(tasks []task.Task, option SortOption) []task.Task {
	return defaultSorter.Sort(tasks, option)
}

// List is the list view: filter, then sort
func List(tasks []task.Task, option SortOption, category string) []task.Task {
	return defaultSorter.List(tasks, option, category)
}

func (s Sorter) List(tasks []task.Task, option SortOption, category string) []task.Task {
	return s.Sort(Filter(tasks, category), option)
}

func (s Sorter) Sort(tasks []task.Task, option SortOption) []task.Task {
	out := task.Clone(tasks)
	if out == nil {
		out = []task.Task{}
	}
	// collators are not safe for concurrent use
	col := collate.New(s.lang)
	sort.SliceStable(out, func(i, j int) bool {
		return compare(col, out[i], out[j], option) < 0
	})
	return out
}

func compare(col *collate.Collator, a, b task.Task, option SortOption) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}
	switch option {
	case ByPriority:
		return a.Priority.Rank() - b.Priority.Rank()
	case ByDueDateAsc:
		return a.DueDate.Compare(b.DueDate)
	case ByDueDateDsc:
		return b.DueDate.Compare(a.DueDate)
	case ByTitleAsc:
		return col.CompareString(a.Title, b.Title)
	}
	return 0
}

// StartOfDay returns midnight of t's day in t's location
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a falls on the same calendar day as b, seen from b's location
func SameDay(a, b time.Time) bool {
	y1, m1, d1 := a.In(b.Location()).Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// OnDate returns the tasks due on day, whatever the time of day
func OnDate(tasks []task.Task, day time.Time) []task.Task {
	out := []task.Task{}
	for _, t := range tasks {
		if SameDay(t.DueDate, day) {
			out = append(out, t)
		}
	}
	return out
}

// MarkedDays returns every distinct day that has a task due, ascending, as midnight in loc
func MarkedDays(tasks []task.Task, loc *time.Location) []time.Time {
	seen := map[time.Time]bool{}
	out := []time.Time{}
	for _, t := range tasks {
		d := StartOfDay(t.DueDate.In(loc))
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Before(out[j])
	})
	return out
}

// Overdue returns incomplete tasks due before the start of now's day
func Overdue(tasks []task.Task, now time.Time) []task.Task {
	today := StartOfDay(now)
	out := []task.Task{}
	for _, t := range tasks {
		if !t.Completed && t.DueDate.Before(today) {
			out = append(out, t)
		}
	}
	return out
}
