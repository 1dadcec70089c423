package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	editTitle       string
	editDescription string
	editPriority    string
	editDue         string
	editScheduled   string
	editProject     string
	editTags        []string
	editEstimate    float64
	editClearDue    bool
)

func newEditCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "edit <id>",
		Short:             "Edit a task's fields",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskIDCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(a, cmd, args[0])
		},
	}

	cmd.Flags().StringVar(&editTitle, "title", "", "New title")
	cmd.Flags().StringVarP(&editDescription, "description", "d", "", "New description")
	cmd.Flags().StringVarP(&editPriority, "priority", "p", "", "New priority")
	cmd.Flags().StringVar(&editDue, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&editClearDue, "clear-due", false, "Remove the due date")
	cmd.Flags().StringVar(&editScheduled, "scheduled", "", "New scheduled date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&editProject, "project", "", "New project")
	cmd.Flags().StringSliceVarP(&editTags, "tag", "t", nil, "Replace tags (repeatable)")
	cmd.Flags().Float64Var(&editEstimate, "estimate", 0, "New estimated hours")

	_ = cmd.RegisterFlagCompletionFunc("project", projectCompletion(a))
	_ = cmd.RegisterFlagCompletionFunc("tag", tagCompletion(a))

	return cmd
}

func runEdit(a *app, cmd *cobra.Command, id string) error {
	t, err := a.mgr.Get(id)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("title") {
		t.Title = editTitle
	}
	if cmd.Flags().Changed("description") {
		t.Description = editDescription
	}
	if cmd.Flags().Changed("priority") {
		p, err := parsePriority(editPriority)
		if err != nil {
			return err
		}
		t.Priority = p
	}
	if cmd.Flags().Changed("due") {
		d, err := parseDate(editDue)
		if err != nil {
			return err
		}
		t.DueDate = d
	}
	if editClearDue {
		t.DueDate = nil
	}
	if cmd.Flags().Changed("scheduled") {
		d, err := parseDate(editScheduled)
		if err != nil {
			return err
		}
		t.ScheduledDate = d
	}
	if cmd.Flags().Changed("project") {
		t.Project = editProject
	}
	if cmd.Flags().Changed("tag") {
		t.Tags = editTags
	}
	if cmd.Flags().Changed("estimate") {
		t.EstimatedHours = editEstimate
	}

	if err := a.mgr.Update(t); err != nil {
		return err
	}
	fmt.Printf("Updated %s %s\n", idStyle.Render(t.ShortID()), t.Title)
	return nil
}
