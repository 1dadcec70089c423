package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdtask/mdtask/internal/inline"
	"github.com/mdtask/mdtask/internal/task"
)

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func formatRule(rule *task.RecurrenceRule) string {
	return inline.FormatRecurrence(rule)
}

var showJSON bool

func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Show one task in full",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskIDCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(a, args[0])
		},
	}
	cmd.Flags().BoolVar(&showJSON, "json", false, "Output in JSON format")
	return cmd
}

func runShow(a *app, id string) error {
	t, err := a.mgr.Get(id)
	if err != nil {
		return err
	}

	if showJSON {
		return printJSON(t)
	}

	fmt.Println(titleStyle.Render(t.Title))
	fmt.Printf("%s %s\n\n", statusGlyph(t.Status), idStyle.Render(t.ID))

	printField("Status", string(t.Status))
	printField("Priority", renderPriority(t.Priority))
	printDateField("Due", t.DueDate)
	printDateField("Scheduled", t.ScheduledDate)
	printDateField("Start", t.StartDate)
	printDateField("Completed", t.CompletedAt)
	if t.EstimatedHours > 0 {
		printField("Estimate", fmt.Sprintf("%.1fh", t.EstimatedHours))
	}
	if t.ActualHours > 0 {
		printField("Actual", fmt.Sprintf("%.1fh", t.ActualHours))
	}
	if t.Project != "" {
		printField("Project", t.Project)
	}
	if len(t.Tags) > 0 {
		printField("Tags", strings.Join(t.Tags, ", "))
	}
	if t.ParentID != "" {
		printParentField(a, t.ParentID)
	}
	if len(t.Dependencies) > 0 {
		printDependencies(a, t)
	}
	if t.Recurrence != nil {
		printField("Repeats", formatRule(t.Recurrence))
	}
	if t.SourceFile != "" {
		printField("Source", fmt.Sprintf("%s:%d", t.SourceFile, t.SourceLine))
	}

	if t.Description != "" {
		fmt.Printf("\n%s\n", t.Description)
	}
	if len(t.Notes) > 0 {
		fmt.Printf("\n%s\n", headerStyle.Render("Notes"))
		for _, n := range t.Notes {
			stamp := ""
			if !n.CreatedAt.IsZero() {
				stamp = dimStyle.Render(n.CreatedAt.Format("2006-01-02 15:04")) + " "
			}
			fmt.Printf("  %s%s\n", stamp, n.Content)
		}
	}
	return nil
}

func printField(name, value string) {
	fmt.Printf("%-11s %s\n", headerStyle.Render(name+":"), value)
}

func printDateField(name string, d *time.Time) {
	if d == nil {
		return
	}
	printField(name, d.Format(dateLayout))
}

func printDependencies(a *app, t *task.Task) {
	var parts []string
	for _, dep := range t.Dependencies {
		d, err := a.repo.Get(dep)
		if err != nil || d == nil {
			parts = append(parts, shorten(dep))
			continue
		}
		label := fmt.Sprintf("%s %s", d.ShortID(), d.Title)
		if d.IsOpen() {
			label += " (open)"
		}
		parts = append(parts, label)
	}
	printField("Depends on", strings.Join(parts, "; "))
}

func printParentField(a *app, parentID string) {
	p, err := a.repo.Get(parentID)
	if err != nil || p == nil {
		printField("Parent", shorten(parentID))
		return
	}
	printField("Parent", fmt.Sprintf("%s %s", p.ShortID(), p.Title))
}

func shorten(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
