package vault

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdtask/mdtask/internal/inline"
	"github.com/mdtask/mdtask/internal/storage"
	"github.com/mdtask/mdtask/internal/task"
)

// DuplicatePolicy decides what happens when an imported line matches a
// stored task by title and due day.
type DuplicatePolicy string

const (
	// DupSkip leaves the stored task alone and skips the line.
	DupSkip DuplicatePolicy = "skip"
	// DupUpdate overwrites the stored task's inline-representable
	// fields with the line's values.
	DupUpdate DuplicatePolicy = "update"
	// DupForce imports the line as a brand-new task.
	DupForce DuplicatePolicy = "force"
)

// ImportOptions tunes one import run.
type ImportOptions struct {
	Policy DuplicatePolicy
	// DryRun parses and reports without persisting or rewriting.
	DryRun bool
	// ReplaceLines rewrites imported lines in the source file as wiki
	// links to the created tasks.
	ReplaceLines bool
}

// ImportResult tallies one import run.
type ImportResult struct {
	Created []*task.Task
	Updated []*task.Task
	Skipped []*task.Task
}

// Importer converts inline task lines from vault files into stored
// tasks, keeping provenance so the tasks can link back.
type Importer struct {
	repo      *storage.Repository
	vaultRoot string
	codec     inline.Codec
	log       zerolog.Logger
}

// NewImporter creates an importer. vaultRoot may be blank when the
// source files are not inside a vault; provenance then records the
// path as given.
func NewImporter(repo *storage.Repository, vaultRoot string, log zerolog.Logger) *Importer {
	return &Importer{repo: repo, vaultRoot: vaultRoot, log: log}
}

// ImportFile imports every inline task line in one file.
func (im *Importer) ImportFile(path string, opts ImportOptions) (*ImportResult, error) {
	if opts.Policy == "" {
		opts.Policy = DupSkip
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read import file: %w", err)
	}

	res := &ImportResult{}
	replacements := make(map[int]string)

	for i, line := range strings.Split(string(content), "\n") {
		p, err := im.codec.FromLine(line)
		if err != nil || p.Title == "" {
			continue
		}

		t := im.taskFromLine(p, path, i+1)

		dup, err := im.repo.FindDuplicate(t)
		if err != nil {
			return res, err
		}
		if dup != nil {
			switch opts.Policy {
			case DupSkip:
				res.Skipped = append(res.Skipped, dup)
				continue
			case DupUpdate:
				applyParsed(dup, p, im.codec)
				if !opts.DryRun {
					if err := im.repo.Update(dup); err != nil {
						return res, err
					}
				}
				res.Updated = append(res.Updated, dup)
				continue
			}
		}

		if !opts.DryRun {
			if err := im.repo.Create(t); err != nil {
				return res, err
			}
		}
		res.Created = append(res.Created, t)
		if opts.ReplaceLines {
			replacements[i] = TaskLink(im.vaultRoot, im.repo.Store().Placement(), t)
		}

		im.log.Debug().
			Str("id", t.ShortID()).
			Str("source", t.SourceFile).
			Int("line", t.SourceLine).
			Bool("dry_run", opts.DryRun).
			Msg("imported inline task")
	}

	if opts.ReplaceLines && !opts.DryRun {
		if err := ReplaceLines(path, replacements); err != nil {
			return res, err
		}
	}
	return res, nil
}

// ImportAll imports several files, merging the results. The first
// failure stops the run.
func (im *Importer) ImportAll(paths []string, opts ImportOptions) (*ImportResult, error) {
	total := &ImportResult{}
	for _, p := range paths {
		res, err := im.ImportFile(p, opts)
		if res != nil {
			total.Created = append(total.Created, res.Created...)
			total.Updated = append(total.Updated, res.Updated...)
			total.Skipped = append(total.Skipped, res.Skipped...)
		}
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// taskFromLine builds a task from a parsed inline line, recording
// provenance. The created marker's presence decides whether the line
// carried its own creation date.
func (im *Importer) taskFromLine(p *inline.ParsedLine, path string, lineNo int) *task.Task {
	t := task.New(p.Title)
	if p.Priority != "" {
		t.Priority = p.Priority
	}
	t.DueDate = p.DueDate
	t.ScheduledDate = p.ScheduledDate
	t.StartDate = p.StartDate
	t.Tags = p.Tags
	t.Recurrence = im.codec.ParseRecurrence(p.RecurrenceText)

	if p.Completed {
		t.Status = task.StatusDone
		if p.CompletedAt != nil {
			t.CompletedAt = p.CompletedAt
		} else {
			now := time.Now()
			t.CompletedAt = &now
		}
	}

	t.InlineHasCreated = p.CreatedAt != nil
	if p.CreatedAt != nil {
		t.CreatedAt = *p.CreatedAt
	}

	t.SourceFile = im.sourceRef(path)
	t.SourceLine = lineNo
	return t
}

func (im *Importer) sourceRef(path string) string {
	if im.vaultRoot == "" {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(im.vaultRoot, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

// applyParsed overwrites a stored task's inline-representable fields
// with the line's values.
func applyParsed(t *task.Task, p *inline.ParsedLine, codec inline.Codec) {
	if p.Priority != "" {
		t.Priority = p.Priority
	}
	t.DueDate = p.DueDate
	t.ScheduledDate = p.ScheduledDate
	t.StartDate = p.StartDate
	if len(p.Tags) > 0 {
		t.Tags = p.Tags
	}
	if rule := codec.ParseRecurrence(p.RecurrenceText); rule != nil {
		t.Recurrence = rule
	}
	if p.Completed && t.Status != task.StatusDone {
		t.Complete(0)
		if p.CompletedAt != nil {
			t.CompletedAt = p.CompletedAt
		}
	}
}
