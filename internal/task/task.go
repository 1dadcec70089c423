// Package task defines the task model and its lifecycle operations.
package task

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the workflow state of a task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// ValidStatus reports whether s is one of the known workflow states.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// Priority represents task priority levels. Medium is the default and
// renders no marker in the inline form.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityLowest Priority = "lowest"
)

// ValidPriority reports whether p is one of the known priority levels.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityLowest:
		return true
	}
	return false
}

// Rank returns a sort rank for the priority, lower is more urgent.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	case PriorityLowest:
		return 4
	}
	return 2
}

// Frequency is the unit of a recurrence rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// ValidFrequency reports whether f is one of the known frequencies.
func ValidFrequency(f Frequency) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyYearly:
		return true
	}
	return false
}

// RecurrenceRule describes how a recurring task repeats.
// DaysOfWeek uses 0=Monday through 6=Sunday.
type RecurrenceRule struct {
	Frequency  Frequency  `yaml:"frequency" json:"frequency"`
	Interval   int        `yaml:"interval" json:"interval"`
	DaysOfWeek []int      `yaml:"days_of_week,omitempty" json:"days_of_week,omitempty"`
	DayOfMonth int        `yaml:"day_of_month,omitempty" json:"day_of_month,omitempty"`
	EndDate    *time.Time `yaml:"end_date,omitempty" json:"end_date,omitempty"`
}

// Note is a timestamped annotation on a task.
type Note struct {
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewNote creates a note timestamped now.
func NewNote(content string) Note {
	return Note{Content: content, CreatedAt: time.Now()}
}

/// Task is the central entity: a self-contained document persisted as
// one file on disk.
type Task struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`

	DueDate       *time.Time `json:"due_date,omitempty"`
	ScheduledDate *time.Time `json:"scheduled_date,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	EstimatedHours float64 `json:"estimated_hours,omitempty"`
	ActualHours    float64 `json:"actual_hours,omitempty"`

	Tags    []string `json:"tags,omitempty"`
	Project string   `json:"project,omitempty"`

	ParentID     string   `json:"parent_id,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`

	Recurrence         *RecurrenceRule `json:"recurrence,omitempty"`
	RecurrenceParentID string          `json:"recurrence_parent_id,omitempty"`

	Notes []Note `json:"notes,omitempty"`

	// Provenance when imported from an external note.
	SourceFile string `json:"source_file,omitempty"`
	SourceLine int    `json:"source_line,omitempty"`

	// InlineHasCreated controls whether the creation-date marker is
	// re-emitted in the inline line. Tasks created locally default to
	// true; tasks imported from a line without the marker carry false.
	InlineHasCreated bool `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates a task with a fresh ID and timestamps.
func New(title string) *Task {
	now := time.Now()
	return &Task{
		ID:               uuid.New().String(),
		Title:            title,
		Status:           StatusPending,
		Priority:         PriorityMedium,
		InlineHasCreated: true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// ShortID returns the first 8 characters of the task ID, used in
// filenames and user-facing references.
func (t *Task) ShortID() string {
	if len(t.ID) < 8 {
		return t.ID
	}
	return t.ID[:8]
}

// IsOpen reports whether the task is still actionable.
func (t *Task) IsOpen() bool {
	return t.Status == StatusPending || t.Status == StatusInProgress
}

// IsRecurring reports whether the task carries a recurrence rule,
// making it a template that spawns dated instances.
func (t *Task) IsRecurring() bool {
	return t.Recurrence != nil
}

// IsRecurrenceInstance reports whether the task was spawned from a
// recurrence template.
func (t *Task) IsRecurrenceInstance() bool {
	return t.RecurrenceParentID != ""
}

// Start moves the task to in_progress.
func (t *Task) Start() {
	t.Status = StatusInProgress
	t.touch()
}

// Complete marks the task done and records the completion time.
// Pass actualHours <= 0 to leave the recorded effort unchanged.
func (t *Task) Complete(actualHours float64) {
	t.Status = StatusDone
	now := time.Now()
	t.CompletedAt = &now
	if actualHours > 0 {
		t.ActualHours = actualHours
	}
	t.touch()
}

// Cancel marks the task cancelled.
func (t *Task) Cancel() {
	t.Status = StatusCancelled
	t.touch()
}

// Reopen reverts a done or cancelled task to pending, clearing the
// completion time.
func (t *Task) Reopen() {
	t.Status = StatusPending
	t.CompletedAt = nil
	t.touch()
}

// AddNote appends a note timestamped now.
func (t *Task) AddNote(content string) {
	t.Notes = append(t.Notes, NewNote(content))
	t.touch()
}

// HasTag reports whether the task carries the given tag.
// Tags are case-sensitive.
func (t *Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}

func (t *Task) touch() {
	t.UpdatedAt = time.Now()
}
