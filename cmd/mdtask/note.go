package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newNoteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:               "note <id> <text>",
		Short:             "Add a timestamped note to a task",
		Args:              cobra.MinimumNArgs(2),
		ValidArgsFunction: taskIDCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.mgr.AddNote(args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Printf("Noted on %s %s\n", idStyle.Render(t.ShortID()), t.Title)
			return nil
		},
	}
}
