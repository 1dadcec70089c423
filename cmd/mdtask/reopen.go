package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReopenCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reopen <id>",
		Short: "Reopen a done or cancelled task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.mgr.Reopen(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Reopened %s %s\n", idStyle.Render(t.ShortID()), t.Title)
			return nil
		},
	}
}
