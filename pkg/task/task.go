package task

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ID string

// NewID generates a fresh random (v4) task id.
func NewID() ID {
	return ID(uuid.NewString())
}

type Priority string

const (
	High   Priority = "high"
	Medium Priority = "medium"
	Low    Priority = "low"
)

var ErrInvalidPriority = errors.New("invalid priority, expected 'high', 'medium', or 'low'")

// Priorities lists every priority from most to least urgent.
func Priorities() []Priority {
	return []Priority{High, Medium, Low}
}

// ParsePriority parses a priority case-insensitively
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case High, Medium, Low:
		return p, nil
	}
	return "", ErrInvalidPriority
}

// Rank orders priorities: high < medium < low.
// Unknown values rank after low.
func (p Priority) Rank() int {
	switch p {
	case High:
		return 0
	case Medium:
		return 1
	case Low:
		return 2
	}
	return 3
}

func (p Priority) Valid() bool {
	return p.Rank() < 3
}

func (p Priority) String() string {
	return string(p)
}

type Task struct {
	ID        ID
	Title     string
	DueDate   time.Time
	Priority  Priority
	Category  string
	Completed bool
}

// Draft holds the user supplied fields of a task that does not exist yet
type Draft struct {
	Title    string
	DueDate  time.Time
	Priority Priority
	Category string
}

// Apply returns t with every user editable field replaced by the draft.
// ID and Completed are kept.
func (d Draft) Apply(t Task) Task {
	t.Title = d.Title
	t.DueDate = d.DueDate
	t.Priority = d.Priority
	t.Category = d.Category
	return t
}

// Draft extracts the user editable fields of a task
func (t Task) Draft() Draft {
	return Draft{
		Title:    t.Title,
		DueDate:  t.DueDate,
		Priority: t.Priority,
		Category: t.Category,
	}
}

// Clone copies a list of tasks so callers can't alias the store's slice
func Clone(ts []Task) []Task {
	if ts == nil {
		return nil
	}
	out := make([]Task, len(ts))
	copy(out, ts)
	return out
}
