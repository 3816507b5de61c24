package persist

import (
	"errors"
	"time"

	"github.com/td0m/chronoflow/pkg/task"
)

// dates are always written in UTC with full precision
const dateLayout = time.RFC3339Nano

// record is the stored shape of a task.
// time.Time is kept as a string so that reading it back is explicit.
type record struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	DueDate   string `json:"dueDate"`
	Priority  string `json:"priority"`
	Category  string `json:"category"`
	Completed bool   `json:"completed"`
}

func newRecord(t task.Task) record {
	return record{
		ID:        string(t.ID),
		Title:     t.Title,
		DueDate:   t.DueDate.UTC().Format(dateLayout),
		Priority:  string(t.Priority),
		Category:  t.Category,
		Completed: t.Completed,
	}
}

// task revives a stored record and validates it
func (r record) task() (task.Task, error) {
	if r.ID == "" {
		return task.Task{}, errors.New("missing id")
	}
	due, err := time.Parse(dateLayout, r.DueDate)
	if err != nil {
		return task.Task{}, err
	}
	p, err := task.ParsePriority(r.Priority)
	if err != nil {
		return task.Task{}, err
	}
	return task.Task{
		ID:        task.ID(r.ID),
		Title:     r.Title,
		DueDate:   due,
		Priority:  p,
		Category:  r.Category,
		Completed: r.Completed,
	}, nil
}
