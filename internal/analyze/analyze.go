// Package analyze asks an external command for task triage
// suggestions and parses whatever comes back, structured or not.
package analyze

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mdtask/mdtask/internal/task"
)

// Analyzer produces a triage suggestion for a task.
type Analyzer interface {
	Analyze(ctx context.Context, t *task.Task) (*AnalysisResult, error)
}

// Capability reports whether an analyzer command is usable. Detection
// happens once at startup so every command can degrade gracefully.
type Capability struct {
	Available bool
	Path      string
	Command   string
}

// DetectCapability looks the command up on PATH.
func DetectCapability(command string) Capability {
	if command == "" {
		return Capability{}
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return Capability{Command: command}
	}
	return Capability{Available: true, Path: path, Command: command}
}

// Suggestion is the structured form an analyzer may return.
type Suggestion struct {
	Priority       task.Priority `json:"priority"`
	EstimatedHours float64       `json:"estimated_hours"`
	Tags           []string      `json:"tags"`
	Project        string        `json:"project"`
	Summary        string        `json:"summary"`
}

// AnalysisResult is either a structured suggestion or, when the output
// is not usable JSON, the raw text. Exactly one of the two is set.
type AnalysisResult struct {
	Structured *Suggestion
	FreeText   string
}

// ParseResult interprets analyzer output. Fields are decoded one by
// one so a single malformed value does not discard the rest; output
// that is not a JSON object at all becomes free text. Never fails.
func ParseResult(output []byte) *AnalysisResult {
	trimmed := bytes.TrimSpace(output)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return &AnalysisResult{FreeText: string(trimmed)}
	}

	s := &Suggestion{}
	decode := func(key string, dst any) {
		raw, ok := fields[key]
		if !ok {
			return
		}
		// A bad field is dropped, not fatal.
		_ = json.Unmarshal(raw, dst)
	}
	decode("priority", &s.Priority)
	decode("estimated_hours", &s.EstimatedHours)
	decode("tags", &s.Tags)
	decode("project", &s.Project)
	decode("summary", &s.Summary)

	if !task.ValidPriority(s.Priority) {
		s.Priority = ""
	}
	return &AnalysisResult{Structured: s}
}

// CommandAnalyzer shells out to the detected command, feeding it a
// plain-text description of the task on stdin.
type CommandAnalyzer struct {
	cap Capability
	log zerolog.Logger
}

// NewCommandAnalyzer wraps a detected capability. Returns nil when the
// command is unavailable; callers treat a nil analyzer as the feature
// being off.
func NewCommandAnalyzer(c Capability, log zerolog.Logger) *CommandAnalyzer {
	if !c.Available {
		return nil
	}
	return &CommandAnalyzer{cap: c, log: log}
}

// Analyze runs the command and parses its output.
func (a *CommandAnalyzer) Analyze(ctx context.Context, t *task.Task) (*AnalysisResult, error) {
	cmd := exec.CommandContext(ctx, a.cap.Path)
	cmd.Stdin = strings.NewReader(Prompt(t))

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("run analyzer %s: %w", a.cap.Command, err)
	}

	res := ParseResult(out)
	a.log.Debug().
		Str("id", t.ShortID()).
		Bool("structured", res.Structured != nil).
		Msg("task analyzed")
	return res, nil
}

// Prompt renders the task as the analyzer's input.
func Prompt(t *task.Task) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggest priority, estimated_hours, tags, project and a one-line summary as JSON for this task.\n\n")
	fmt.Fprintf(&b, "Title: %s\n", t.Title)
	if t.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", t.Description)
	}
	if t.Project != "" {
		fmt.Fprintf(&b, "Project: %s\n", t.Project)
	}
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(t.Tags, ", "))
	}
	if t.DueDate != nil {
		fmt.Fprintf(&b, "Due: %s\n", t.DueDate.Format("2006-01-02"))
	}
	return b.String()
}
