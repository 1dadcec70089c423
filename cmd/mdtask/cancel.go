package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "cancel <id>",
		Short:             "Cancel a task",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskIDCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.mgr.Cancel(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Cancelled %s %s\n", idStyle.Render(t.ShortID()), t.Title)
			return nil
		},
	}
}
