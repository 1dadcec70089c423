package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var doneHours float64

func newDoneCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "done <id>",
		Short:             "Mark a task as done",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskIDCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, next, err := a.mgr.Complete(args[0], doneHours)
			if err != nil {
				return err
			}
			fmt.Printf("Done %s %s\n", idStyle.Render(t.ShortID()), t.Title)
			if next != nil {
				due := "-"
				if next.DueDate != nil {
					due = next.DueDate.Format(dateLayout)
				}
				fmt.Printf("Next occurrence %s due %s\n", idStyle.Render(next.ShortID()), due)
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&doneHours, "hours", 0, "Actual hours spent")
	return cmd
}
