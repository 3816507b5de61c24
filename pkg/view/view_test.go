package view

import (
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/td0m/chronoflow/pkg/task"
)

func at(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ids(ts []task.Task) []task.ID {
	out := []task.ID{}
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func TestSort_Priority(t *testing.T) {
	is := is.New(t)
	tasks := []task.Task{
		{ID: "low", Priority: task.Low},
		{ID: "high1", Priority: task.High},
		{ID: "medium", Priority: task.Medium},
		{ID: "high2", Priority: task.High},
	}
	is.Equal(ids(Sort(tasks, ByPriority)), []task.ID{"high1", "high2", "medium", "low"})
}

func TestSort_IncompleteFirst(t *testing.T) {
	tasks := []task.Task{
		{ID: "done-high", Priority: task.High, DueDate: at("2024-01-01T00:00:00Z"), Title: "A", Completed: true},
		{ID: "open-low", Priority: task.Low, DueDate: at("2024-12-01T00:00:00Z"), Title: "Z"},
		{ID: "done-low", Priority: task.Low, DueDate: at("2024-06-01T00:00:00Z"), Title: "B", Completed: true},
		{ID: "open-high", Priority: task.High, DueDate: at("2024-03-01T00:00:00Z"), Title: "Y"},
	}
	for _, opt := range SortOptions() {
		t.Run(string(opt), func(t *testing.T) {
			is := is.New(t)
			got := Sort(tasks, opt)
			is.Equal(len(got), len(tasks))
			is.True(!got[0].Completed)
			is.True(!got[1].Completed)
			is.True(got[2].Completed)
			is.True(got[3].Completed)
		})
	}
}

func TestSort_Options(t *testing.T) {
	tasks := []task.Task{
		{ID: "b", Title: "banana", DueDate: at("2024-08-20T00:00:00Z"), Priority: task.Low},
		{ID: "a", Title: "apple", DueDate: at("2024-08-25T00:00:00Z"), Priority: task.High},
		{ID: "c", Title: "Cherry", DueDate: at("2024-08-15T00:00:00Z"), Priority: task.Medium},
	}
	tests := []struct {
		opt  SortOption
		want []task.ID
	}{
		{ByPriority, []task.ID{"a", "c", "b"}},
		{ByDueDateAsc, []task.ID{"c", "b", "a"}},
		{ByDueDateDsc, []task.ID{"a", "b", "c"}},
		// case does not win over letters like a byte comparison would
		{ByTitleAsc, []task.ID{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.opt), func(t *testing.T) {
			is := is.New(t)
			is.Equal(ids(Sort(tasks, tt.opt)), tt.want)
		})
	}
}

func TestSort_Stable(t *testing.T) {
	is := is.New(t)
	due := at("2024-08-15T00:00:00Z")
	tasks := []task.Task{
		{ID: "1", Title: "same", DueDate: due},
		{ID: "2", Title: "same", DueDate: due},
		{ID: "3", Title: "same", DueDate: due},
	}
	for _, opt := range SortOptions() {
		is.Equal(ids(Sort(tasks, opt)), []task.ID{"1", "2", "3"})
	}
}

func TestSort_DoesNotMutate(t *testing.T) {
	is := is.New(t)
	tasks := []task.Task{{ID: "2", Title: "b"}, {ID: "1", Title: "a"}}
	_ = Sort(tasks, ByTitleAsc)
	is.Equal(ids(tasks), []task.ID{"2", "1"})
}

func TestFilter(t *testing.T) {
	tasks := []task.Task{
		{ID: "1", Category: "Design"},
		{ID: "2", Category: "QA"},
		{ID: "3", Category: "Development"},
	}
	tests := []struct {
		name   string
		filter string
		want   []task.ID
	}{
		{"case insensitive", "design", []task.ID{"1"}},
		{"empty passes all", "", []task.ID{"1", "2", "3"}},
		{"substring", "E", []task.ID{"1", "3"}},
		{"no match", "ops", []task.ID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := is.New(t)
			is.Equal(ids(Filter(tasks, tt.filter)), tt.want)
		})
	}
}

func TestList(t *testing.T) {
	is := is.New(t)
	got := List(task.Seed(), ByPriority, "")
	// completed "Setup AI suggestion engine" goes last
	is.Equal(ids(got), []task.ID{"1", "2", "4", "3"})

	got = List(task.Seed(), ByDueDateDsc, "de")
	is.Equal(ids(got), []task.ID{"2", "1"})
}

func TestOnDate(t *testing.T) {
	is := is.New(t)
	tasks := []task.Task{
		{ID: "morning", DueDate: at("2024-08-15T09:00:00Z")},
		{ID: "other", DueDate: at("2024-08-16T00:00:00Z")},
		{ID: "night", DueDate: at("2024-08-15T23:00:00Z")},
		{ID: "before", DueDate: at("2024-08-14T23:59:59Z")},
	}
	day := time.Date(2024, 8, 15, 12, 0, 0, 0, time.UTC)
	is.Equal(ids(OnDate(tasks, day)), []task.ID{"morning", "night"})
	is.Equal(len(OnDate(tasks, day.AddDate(1, 0, 0))), 0)
}

func TestOnDate_UsesSelectedLocation(t *testing.T) {
	is := is.New(t)
	tokyo := time.FixedZone("JST", 9*60*60)
	tasks := []task.Task{{ID: "late", DueDate: at("2024-08-15T23:00:00Z")}}
	// 23:00 UTC is already the 16th in Tokyo
	is.Equal(len(OnDate(tasks, time.Date(2024, 8, 15, 0, 0, 0, 0, tokyo))), 0)
	is.Equal(ids(OnDate(tasks, time.Date(2024, 8, 16, 0, 0, 0, 0, tokyo))), []task.ID{"late"})
}

func TestMarkedDays(t *testing.T) {
	is := is.New(t)
	tasks := []task.Task{
		{DueDate: at("2024-08-20T10:00:00Z")},
		{DueDate: at("2024-08-15T09:00:00Z")},
		{DueDate: at("2024-08-15T23:00:00Z")},
	}
	got := MarkedDays(tasks, time.UTC)
	is.Equal(got, []time.Time{
		time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 8, 20, 0, 0, 0, 0, time.UTC),
	})
}

func TestOverdue(t *testing.T) {
	is := is.New(t)
	now := time.Date(2024, 8, 20, 15, 0, 0, 0, time.UTC)
	got := Overdue(task.Seed(), now)
	// due today is not overdue, completed tasks never are
	is.Equal(ids(got), []task.ID{"1"})
}

func TestParseSortOption(t *testing.T) {
	is := is.New(t)
	for _, opt := range SortOptions() {
		got, err := ParseSortOption(string(opt))
		is.NoErr(err)
		is.Equal(got, opt)
		is.True(opt.Label() != "")
	}
	_, err := ParseSortOption("random")
	is.Equal(err, ErrInvalidSort)
	is.Equal(ByTitleAsc.Next(), ByPriority)
}
