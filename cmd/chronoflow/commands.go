package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/td0m/chronoflow/internal/ui"
	"github.com/td0m/chronoflow/pkg/dateinput"
	"github.com/td0m/chronoflow/pkg/task"
	"github.com/td0m/chronoflow/pkg/view"
)

var (
	ErrNoSuchTask  = errors.New("no task with that id")
	ErrAmbiguousID = errors.New("id prefix matches more than one task")
)

func tuiCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list and calendar",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return runTUI(e)
		},
	}
}

func addCmd(e *env) *cobra.Command {
	var d draftFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			draft := task.Draft{
				DueDate:  view.StartOfDay(e.now()),
				Priority: task.Medium,
			}
			if err := d.apply(cmd, &draft, e.now()); err != nil {
				return err
			}
			t, err := e.store.Create(draft)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task Created! %q has been added as %s.\n", t.Title, t.ID)
			return nil
		},
	}
	d.register(cmd)
	cmd.MarkFlagRequired("title")
	return cmd
}

func listCmd(e *env) *cobra.Command {
	var (
		sortBy string
		filter string
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks, incomplete first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sortBy != "" {
				opt, err := view.ParseSortOption(sortBy)
				if err != nil {
					return fmt.Errorf("%w %q, have %v", err, sortBy, view.SortOptions())
				}
				e.sortBy = opt
			}
			out := cmd.OutOrStdout()
			tasks := e.list(filter)
			if len(tasks) == 0 {
				fmt.Fprintln(out, "No tasks found.")
				return nil
			}
			printTasks(out, tasks, e.now())
			overdueNotice(out, e.store.Tasks(), e.now())
			return nil
		},
	}
	cmd.Flags().StringVarP(&sortBy, "sort", "s", "", "priority, dueDate-asc, dueDate-desc or title-asc")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only tasks whose category contains this")
	return cmd
}

func calendarCmd(e *env) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:     "calendar",
		Aliases: []string{"cal"},
		Short:   "Show the month and the tasks due on a day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			now := e.now()
			day := view.StartOfDay(now)
			if date != "" {
				d, err := dateinput.Parse(date, now)
				if err != nil {
					return fmt.Errorf("%w: %q", err, date)
				}
				day = d
			}
			out := cmd.OutOrStdout()
			all := e.store.Tasks()
			fmt.Fprintln(out, ui.Month(day, now, view.MarkedDays(all, day.Location())))
			fmt.Fprintln(out)

			due := view.OnDate(all, day)
			if len(due) == 0 {
				fmt.Fprintf(out, "No tasks for %s.\n", day.Format("Mon 2 Jan 2006"))
				return nil
			}
			printTasks(out, due, now)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day to show, e.g. today, fri, 21/04 (default today)")
	return cmd
}

func toggleCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Mark a task done, or not done again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolve(e.store, args[0])
			if err != nil {
				return err
			}
			if err := e.store.ToggleComplete(t.ID); err != nil {
				return err
			}
			state := "done"
			if t.Completed {
				state = "not done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q is %s.\n", t.Title, state)
			return nil
		},
	}
}

func editCmd(e *env) *cobra.Command {
	var d draftFlags
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolve(e.store, args[0])
			if err != nil {
				return err
			}
			draft := t.Draft()
			if err := d.apply(cmd, &draft, e.now()); err != nil {
				return err
			}
			t = draft.Apply(t)
			if err := e.store.Update(t); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task Updated! %q has been saved.\n", t.Title)
			return nil
		},
	}
	d.register(cmd)
	return cmd
}

func deleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := resolve(e.store, args[0])
			if err != nil {
				return err
			}
			if err := e.store.Delete(t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Task Deleted. %q has been removed.\n", t.Title)
			return nil
		},
	}
}

func suggestCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Ask the model which active tasks to do first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			suggestions, err := e.suggest.Suggest(cmd.Context(), e.store.Tasks())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "Could not get suggestions")
				return err
			}
			for i, s := range suggestions {
				fmt.Fprintf(out, "%d. %s\n   %s\n", i+1, s.Title, s.Reason)
			}
			return nil
		},
	}
}

// draftFlags are the task fields shared by add and edit
type draftFlags struct {
	title    string
	due      string
	priority string
	category string
}

func (d *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&d.title, "title", "t", "", "what needs doing")
	cmd.Flags().StringVarP(&d.due, "due", "d", "", "due date, e.g. tomorrow, fri, in 2 weeks, 21/04/2025")
	cmd.Flags().StringVarP(&d.priority, "priority", "p", "", "high, medium or low")
	cmd.Flags().StringVarP(&d.category, "category", "c", "", "free text category")
}

// apply sets the fields whose flags were given
func (d *draftFlags) apply(cmd *cobra.Command, draft *task.Draft, now time.Time) error {
	flags := cmd.Flags()
	if flags.Changed("title") {
		draft.Title = d.title
	}
	if flags.Changed("due") {
		due, err := dateinput.Parse(d.due, now)
		if err != nil {
			return fmt.Errorf("%w: %q", err, d.due)
		}
		draft.DueDate = due
	}
	if flags.Changed("priority") {
		p, err := task.ParsePriority(d.priority)
		if err != nil {
			return err
		}
		draft.Priority = p
	}
	if flags.Changed("category") {
		draft.Category = d.category
	}
	return nil
}

// resolve finds a task by id or by an unambiguous id prefix
func resolve(store task.StoreManager, id string) (task.Task, error) {
	if t, ok := store.Get(task.ID(id)); ok {
		return t, nil
	}
	var found []task.Task
	for _, t := range store.Tasks() {
		if strings.HasPrefix(string(t.ID), id) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return task.Task{}, fmt.Errorf("%w: %s", ErrNoSuchTask, id)
	case 1:
		return found[0], nil
	default:
		return task.Task{}, fmt.Errorf("%w: %s", ErrAmbiguousID, id)
	}
}

func shortID(id task.ID) string {
	if len(id) > 8 {
		return string(id[:8])
	}
	return string(id)
}

func printTasks(w io.Writer, tasks []task.Task, now time.Time) {
	for _, t := range tasks {
		fmt.Fprintf(w, "%-8s %s\n", shortID(t.ID), ui.TaskText(t, now))
	}
}

func overdueNotice(w io.Writer, tasks []task.Task, now time.Time) {
	if n := len(view.Overdue(tasks, now)); n > 0 {
		fmt.Fprintln(w, ui.Notice.Render(fmt.Sprintf("You have %d overdue task(s). Better get to it!", n)))
	}
}
