package storage

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mdtask/mdtask/internal/task"
)

// The record is the authoritative representation of a task inside its
// file: a YAML frontmatter block followed by the body (description,
// then an optional "## Notes" section with one line per note).

const (
	frontmatterFence = "---"
	notesHeading     = "## Notes"
	noteTimeLayout   = "2006-01-02 15:04"
)

// frontmatter mirrors the task's structured fields. Absent optional
// fields are not written.
type frontmatter struct {
	ID       string        `yaml:"id"`
	Title    string        `yaml:"title"`
	Status   task.Status   `yaml:"status"`
	Priority task.Priority `yaml:"priority"`

	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`

	DueDate       *time.Time `yaml:"due_date,omitempty"`
	ScheduledDate *time.Time `yaml:"scheduled_date,omitempty"`
	StartDate     *time.Time `yaml:"start_date,omitempty"`
	CompletedAt   *time.Time `yaml:"completed_at,omitempty"`

	EstimatedHours float64 `yaml:"estimated_hours,omitempty"`
	ActualHours    float64 `yaml:"actual_hours,omitempty"`

	Tags    []string `yaml:"tags,omitempty"`
	Project string   `yaml:"project,omitempty"`

	ParentID     string   `yaml:"parent_id,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`

	Recurrence         *task.RecurrenceRule `yaml:"recurrence,omitempty"`
	RecurrenceParentID string               `yaml:"recurrence_parent_id,omitempty"`

	SourceFile string `yaml:"source_file,omitempty"`
	SourceLine int    `yaml:"source_line,omitempty"`

	// Stored only when false; absence means true.
	InlineHasCreated *bool `yaml:"inline_has_created,omitempty"`
}

// EncodeRecord serializes the task's structured fields and body into
// file content. The body is the description followed by the notes
// section when notes exist.
func EncodeRecord(t *task.Task) ([]byte, error) {
	return EncodeRecordWithBody(t, EncodeBody(t))
}

// EncodeRecordWithBody serializes the frontmatter block followed by a
// caller-supplied body. Used when the body carries extra material
// beyond the description and notes.
func EncodeRecordWithBody(t *task.Task, body string) ([]byte, error) {
	fm := frontmatter{
		ID:                 t.ID,
		Title:              t.Title,
		Status:             t.Status,
		Priority:           t.Priority,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
		DueDate:            t.DueDate,
		ScheduledDate:      t.ScheduledDate,
		StartDate:          t.StartDate,
		CompletedAt:        t.CompletedAt,
		EstimatedHours:     t.EstimatedHours,
		ActualHours:        t.ActualHours,
		Tags:               t.Tags,
		Project:            t.Project,
		ParentID:           t.ParentID,
		Dependencies:       t.Dependencies,
		Recurrence:         t.Recurrence,
		RecurrenceParentID: t.RecurrenceParentID,
		SourceFile:         t.SourceFile,
		SourceLine:         t.SourceLine,
	}
	if !t.InlineHasCreated {
		f := false
		fm.InlineHasCreated = &f
	}

	meta, err := yaml.Marshal(&fm)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterFence + "\n")
	b.Write(meta)
	b.WriteString(frontmatterFence + "\n")
	b.WriteString(body)
	return []byte(b.String()), nil
}

// EncodeBody renders the description and notes section without the
// frontmatter block.
func EncodeBody(t *task.Task) string {
	var parts []string
	if t.Description != "" {
		parts = append(parts, t.Description)
	}
	if len(t.Notes) > 0 {
		parts = append(parts, "\n"+notesHeading+"\n")
		for _, n := range t.Notes {
			parts = append(parts, fmt.Sprintf("- [%s] %s", n.CreatedAt.Format(noteTimeLayout), n.Content))
		}
	}
	return strings.Join(parts, "\n")
}

// DecodeRecord reconstructs a task from file content. Dangling parent
// or dependency references are tolerated; missing identity or title
// aborts decoding of this record only.
func DecodeRecord(content []byte) (*task.Task, error) {
	meta, body, err := splitFrontmatter(string(content))
	if err != nil {
		return nil, err
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(meta), &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	if fm.ID == "" {
		return nil, fmt.Errorf("%w: missing id", ErrMalformedRecord)
	}
	if fm.Title == "" {
		return nil, fmt.Errorf("%w: missing title", ErrMalformedRecord)
	}

	t := &task.Task{
		ID:                 fm.ID,
		Title:              fm.Title,
		Status:             fm.Status,
		Priority:           fm.Priority,
		CreatedAt:          fm.CreatedAt,
		UpdatedAt:          fm.UpdatedAt,
		DueDate:            fm.DueDate,
		ScheduledDate:      fm.ScheduledDate,
		StartDate:          fm.StartDate,
		CompletedAt:        fm.CompletedAt,
		EstimatedHours:     fm.EstimatedHours,
		ActualHours:        fm.ActualHours,
		Tags:               fm.Tags,
		Project:            fm.Project,
		ParentID:           fm.ParentID,
		Dependencies:       fm.Dependencies,
		Recurrence:         fm.Recurrence,
		RecurrenceParentID: fm.RecurrenceParentID,
		SourceFile:         fm.SourceFile,
		SourceLine:         fm.SourceLine,
		InlineHasCreated:   fm.InlineHasCreated == nil || *fm.InlineHasCreated,
	}
	if t.Status == "" {
		t.Status = task.StatusPending
	}
	if t.Priority == "" {
		t.Priority = task.PriorityMedium
	}

	t.Description, t.Notes = DecodeBody(body)
	return t, nil
}

// DecodeBody splits the body into description and notes. A note line
// whose timestamp cannot be parsed degrades to raw content; body
// decoding never fails.
func DecodeBody(body string) (string, []task.Note) {
	idx := strings.Index(body, notesHeading)
	if idx < 0 {
		return strings.TrimSpace(body), nil
	}

	description := strings.TrimSpace(body[:idx])
	var notes []task.Note

	for _, line := range strings.Split(body[idx+len(notesHeading):], "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "- [") {
			continue
		}
		end := strings.Index(line, "]")
		if end > 3 {
			when, err := time.Parse(noteTimeLayout, line[3:end])
			if err == nil {
				content := strings.TrimPrefix(line[end+1:], " ")
				notes = append(notes, task.Note{Content: content, CreatedAt: when})
				continue
			}
		}
		// Malformed timestamp: keep the text rather than dropping the note.
		notes = append(notes, task.Note{Content: strings.TrimPrefix(line, "- ")})
	}
	return description, notes
}

func splitFrontmatter(content string) (meta, body string, err error) {
	if !strings.HasPrefix(content, frontmatterFence+"\n") {
		return "", "", fmt.Errorf("%w: missing frontmatter", ErrMalformedRecord)
	}
	rest := content[len(frontmatterFence)+1:]
	end := strings.Index(rest, "\n"+frontmatterFence)
	if end < 0 {
		return "", "", fmt.Errorf("%w: unterminated frontmatter", ErrMalformedRecord)
	}
	meta = rest[:end+1]
	body = rest[end+len(frontmatterFence)+1:]
	body = strings.TrimPrefix(body, "\n")
	return meta, body, nil
}
