package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mdtask/mdtask/internal/config"
	"github.com/mdtask/mdtask/internal/inline"
	"github.com/mdtask/mdtask/internal/logging"
	"github.com/mdtask/mdtask/internal/manager"
	"github.com/mdtask/mdtask/internal/storage"
	"github.com/mdtask/mdtask/internal/task"
)

// codec parses and renders Obsidian-style inline task lines.
var codec inline.Codec

// app wires configuration, logging, storage, and the manager together
// once so every command works against the same instances.
type app struct {
	cfg  *config.Config
	log  zerolog.Logger
	repo *storage.Repository
	mgr  *manager.Manager
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Logging, false)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	placement := storage.NewPlacement(
		cfg.Storage.Dir,
		storage.Organization(cfg.Storage.Organization),
		storage.KanbanDirs{
			Backlog:    cfg.Storage.Kanban.Backlog,
			InProgress: cfg.Storage.Kanban.InProgress,
			Done:       cfg.Storage.Kanban.Done,
			Cancelled:  cfg.Storage.Kanban.Cancelled,
		},
	)
	store := storage.NewStore(placement, storage.Format(cfg.Storage.Format), log)
	repo := storage.NewRepository(store)

	return &app{
		cfg:  cfg,
		log:  log,
		repo: repo,
		mgr:  manager.New(repo, log),
	}, nil
}

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD flag value.
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &d, nil
}

// taskIDCompletion offers open task short ids for positional args.
func taskIDCompletion(a *app) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		comps, err := a.mgr.TaskCompletions(toComplete)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		out := make([]string, len(comps))
		for i, c := range comps {
			out[i] = c.Value + "\t" + c.Description
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// projectCompletion offers known project names for --project flags.
func projectCompletion(a *app) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		comps, err := a.mgr.ProjectCompletions(toComplete)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		out := make([]string, len(comps))
		for i, c := range comps {
			out[i] = c.Value
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// tagCompletion offers known tags for --tag flags.
func tagCompletion(a *app) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		comps, err := a.mgr.TagCompletions(toComplete)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		out := make([]string, len(comps))
		for i, c := range comps {
			out[i] = c.Value
		}
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// parseStatus validates a --status flag value.
func parseStatus(s string) (task.Status, error) {
	if s == "" {
		return "", nil
	}
	st := task.Status(s)
	if !task.ValidStatus(st) {
		return "", fmt.Errorf("invalid status %q (pending, in_progress, done, cancelled)", s)
	}
	return st, nil
}

// parsePriority validates a --priority flag value.
func parsePriority(s string) (task.Priority, error) {
	if s == "" {
		return "", nil
	}
	p := task.Priority(s)
	if !task.ValidPriority(p) {
		return "", fmt.Errorf("invalid priority %q (lowest, low, medium, high, urgent)", s)
	}
	return p, nil
}
