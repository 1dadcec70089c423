package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mdtask/mdtask/internal/task"
)

var (
	addDescription string
	addPriority    string
	addDue         string
	addScheduled   string
	addStart       string
	addProject     string
	addTags        []string
	addParent      string
	addDependsOn   []string
	addRecur       string
	addEstimate    float64
)

func newAddCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new task",
		Long: `Add a new task. The title is the remaining arguments joined
with spaces, so quoting is optional.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(a, args)
		},
	}

	cmd.Flags().StringVarP(&addDescription, "description", "d", "", "Longer description")
	cmd.Flags().StringVarP(&addPriority, "priority", "p", "", "Priority (low, medium, high, urgent)")
	cmd.Flags().StringVar(&addDue, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&addScheduled, "scheduled", "", "Scheduled date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&addStart, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&addProject, "project", "", "Project name")
	cmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "Tag (repeatable)")
	cmd.Flags().StringVar(&addParent, "parent", "", "Parent task id or prefix")
	cmd.Flags().StringSliceVar(&addDependsOn, "depends-on", nil, "Dependency task id or prefix (repeatable)")
	cmd.Flags().StringVar(&addRecur, "recur", "", `Recurrence, e.g. "every week" or "every 2 days"`)
	cmd.Flags().Float64Var(&addEstimate, "estimate", 0, "Estimated hours")

	_ = cmd.RegisterFlagCompletionFunc("project", projectCompletion(a))
	_ = cmd.RegisterFlagCompletionFunc("tag", tagCompletion(a))

	return cmd
}

func runAdd(a *app, args []string) error {
	t := task.New(strings.Join(args, " "))
	t.Description = addDescription
	t.Project = addProject
	t.Tags = addTags
	t.ParentID = addParent
	t.Dependencies = addDependsOn
	t.EstimatedHours = addEstimate

	if addPriority != "" {
		p, err := parsePriority(addPriority)
		if err != nil {
			return err
		}
		t.Priority = p
	}

	var err error
	if t.DueDate, err = parseDate(addDue); err != nil {
		return err
	}
	if t.ScheduledDate, err = parseDate(addScheduled); err != nil {
		return err
	}
	if t.StartDate, err = parseDate(addStart); err != nil {
		return err
	}

	if addRecur != "" {
		rule := codec.ParseRecurrence(addRecur)
		if rule == nil {
			return fmt.Errorf("invalid recurrence %q", addRecur)
		}
		t.Recurrence = rule
	}

	dup, err := a.mgr.FindDuplicate(t)
	if err != nil {
		return err
	}
	if dup != nil {
		fmt.Printf("Note: looks like a duplicate of %s %q\n", dup.ShortID(), dup.Title)
	}

	if err := a.mgr.Add(t); err != nil {
		return err
	}

	fmt.Printf("Added %s %s\n", idStyle.Render(t.ShortID()), titleStyle.Render(t.Title))
	return nil
}
