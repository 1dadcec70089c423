package main

import (
	"strings"

	"github.com/spf13/cobra"
)

var searchJSON bool

func newSearchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search tasks by title, description, and notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := a.mgr.Search(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if searchJSON {
				return printJSON(tasks)
			}
			printTaskTable(tasks)
			return nil
		},
	}
	cmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	return cmd
}
