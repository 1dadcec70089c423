package main

import (
	"github.com/spf13/cobra"

	"github.com/mdtask/mdtask/internal/storage"
)

var (
	listJSON     bool
	listAll      bool
	listStatus   string
	listPriority string
	listProject  string
	listTag      string
)

func newListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Long: `List tasks sorted by priority and due date. Done and cancelled
tasks are hidden unless --all or --status says otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(a)
		},
	}

	cmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	cmd.Flags().BoolVarP(&listAll, "all", "a", false, "Include done and cancelled tasks")
	cmd.Flags().StringVar(&listStatus, "status", "", "Filter by status")
	cmd.Flags().StringVarP(&listPriority, "priority", "p", "", "Filter by priority")
	cmd.Flags().StringVar(&listProject, "project", "", "Filter by project")
	cmd.Flags().StringVarP(&listTag, "tag", "t", "", "Filter by tag")

	_ = cmd.RegisterFlagCompletionFunc("project", projectCompletion(a))
	_ = cmd.RegisterFlagCompletionFunc("tag", tagCompletion(a))

	return cmd
}

func runList(a *app) error {
	status, err := parseStatus(listStatus)
	if err != nil {
		return err
	}
	priority, err := parsePriority(listPriority)
	if err != nil {
		return err
	}

	tasks, err := a.mgr.List(storage.Filter{
		Status:      status,
		Priority:    priority,
		Project:     listProject,
		Tag:         listTag,
		IncludeDone: listAll,
	})
	if err != nil {
		return err
	}

	if listJSON {
		return printJSON(tasks)
	}

	printTaskTable(tasks)
	return nil
}
