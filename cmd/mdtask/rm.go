package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmForce bool

func newRmCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "rm <id>",
		Short:             "Delete a task",
		Long:              `Delete a task. Refused while other tasks depend on it or children point at it, unless --force is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskIDCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.mgr.Delete(args[0], rmForce); err != nil {
				return err
			}
			fmt.Println("Deleted")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&rmForce, "force", "f", false, "Delete even with dependents or children")
	return cmd
}
