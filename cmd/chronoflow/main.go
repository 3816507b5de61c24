package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/td0m/chronoflow/pkg/suggest/providers"
)

func main() {
	e := &env{}
	if err := execute(e, newRootCmd(e)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// execute runs root and then releases whatever e opened, also when the command failed
func execute(e *env, root *cobra.Command) error {
	err := root.Execute()
	if cerr := e.close(); err == nil {
		err = cerr
	}
	return err
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "chronoflow",
		Short: "Plan tasks, see them on a calendar and ask a model what to do first",
		// a bare `chronoflow` opens the interactive view
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(e)
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd.Context(), interactive(cmd))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&e.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/chronoflow/config.yaml)")
	flags.StringVar(&e.storeKind, "store", "", "where tasks are kept: file, redis, sqlite or memory")
	flags.BoolVar(&e.debug, "debug", false, "log at debug level")

	root.AddCommand(tuiCmd(e))
	root.AddCommand(addCmd(e))
	root.AddCommand(listCmd(e))
	root.AddCommand(calendarCmd(e))
	root.AddCommand(toggleCmd(e))
	root.AddCommand(editCmd(e))
	root.AddCommand(deleteCmd(e))
	root.AddCommand(suggestCmd(e))
	return root
}

func interactive(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "tui"
}
