package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mdtask/mdtask/internal/analyze"
)

var analyzeApply bool

func newAnalyzeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <id>",
		Short: "Ask the configured analyzer for triage suggestions",
		Long: `Run the external analyzer command (config: [analyzer] command) on a
task and print its suggestion. With --apply, structured suggestions
are written back to the task.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: taskIDCompletion(a),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(a, args[0])
		},
	}
	cmd.Flags().BoolVar(&analyzeApply, "apply", false, "Apply structured suggestions to the task")
	return cmd
}

func runAnalyze(a *app, id string) error {
	capability := analyze.DetectCapability(a.cfg.Analyzer.Command)
	analyzer := analyze.NewCommandAnalyzer(capability, a.log)
	if analyzer == nil {
		if a.cfg.Analyzer.Command == "" {
			return fmt.Errorf("no analyzer configured; set [analyzer] command in the config")
		}
		return fmt.Errorf("analyzer command %q not found on PATH", a.cfg.Analyzer.Command)
	}

	t, err := a.mgr.Get(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := analyzer.Analyze(ctx, t)
	if err != nil {
		return err
	}

	if res.Structured == nil {
		fmt.Println(res.FreeText)
		return nil
	}

	s := res.Structured
	if s.Summary != "" {
		fmt.Println(s.Summary)
	}
	if s.Priority != "" {
		printField("Priority", renderPriority(s.Priority))
	}
	if s.EstimatedHours > 0 {
		printField("Estimate", fmt.Sprintf("%.1fh", s.EstimatedHours))
	}
	if s.Project != "" {
		printField("Project", s.Project)
	}
	if len(s.Tags) > 0 {
		printField("Tags", strings.Join(s.Tags, ", "))
	}

	if !analyzeApply {
		return nil
	}

	if s.Priority != "" {
		t.Priority = s.Priority
	}
	if s.EstimatedHours > 0 {
		t.EstimatedHours = s.EstimatedHours
	}
	if s.Project != "" && t.Project == "" {
		t.Project = s.Project
	}
	for _, tag := range s.Tags {
		if !t.HasTag(tag) {
			t.Tags = append(t.Tags, tag)
		}
	}
	if err := a.mgr.Update(t); err != nil {
		return err
	}
	fmt.Printf("Applied to %s %s\n", idStyle.Render(t.ShortID()), t.Title)
	return nil
}
