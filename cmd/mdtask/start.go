package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "start <id>",
		Short:             "Start working on a task",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskIDCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.mgr.Start(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Started %s %s\n", idStyle.Render(t.ShortID()), t.Title)
			return nil
		},
	}
}
