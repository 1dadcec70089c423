package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRecurCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "recur",
		Short: "Generate due instances of recurring tasks",
		Long: `Scan every recurring task template and create the next instance
for each one whose existing instances are all done or cancelled.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			created, err := a.mgr.GenerateRecurring()
			if err != nil {
				return err
			}
			if len(created) == 0 {
				fmt.Println("Nothing to generate")
				return nil
			}
			for _, t := range created {
				due := "-"
				if t.DueDate != nil {
					due = t.DueDate.Format(dateLayout)
				}
				fmt.Printf("Created %s %s due %s\n", idStyle.Render(t.ShortID()), t.Title, due)
			}
			return nil
		},
	}
}
