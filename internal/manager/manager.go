// Package manager coordinates task operations across storage and
// recurrence: validation, lifecycle transitions, relationship checks,
// and spawning of recurring instances.
package manager

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdtask/mdtask/internal/recur"
	"github.com/mdtask/mdtask/internal/storage"
	"github.com/mdtask/mdtask/internal/task"
)

// ValidationError reports input the manager refuses to act on.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Manager is the single entry point for task mutations. Reads go
// through it too so prefix resolution behaves the same everywhere.
type Manager struct {
	repo *storage.Repository
	gen  recur.Generator
	log  zerolog.Logger
}

// New creates a manager over the repository.
func New(repo *storage.Repository, log zerolog.Logger) *Manager {
	return &Manager{repo: repo, log: log}
}

// Add validates and persists a new task. Parent and dependency
// references may be id prefixes; they are resolved to full ids before
// the task is stored.
func (m *Manager) Add(t *task.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return validationf("task title must not be empty")
	}
	if !task.ValidStatus(t.Status) {
		return validationf("invalid status %q", t.Status)
	}
	if !task.ValidPriority(t.Priority) {
		return validationf("invalid priority %q", t.Priority)
	}
	if t.Recurrence != nil {
		if !task.ValidFrequency(t.Recurrence.Frequency) {
			return validationf("invalid recurrence frequency %q", t.Recurrence.Frequency)
		}
		if t.RecurrenceParentID != "" {
			return validationf("a task cannot be both a recurrence template and an instance")
		}
	}

	if t.ParentID != "" {
		parent, err := m.repo.Get(t.ParentID)
		if err != nil {
			return err
		}
		if parent == nil {
			return validationf("parent task not found: %s", t.ParentID)
		}
		t.ParentID = parent.ID
	}
	for i, dep := range t.Dependencies {
		d, err := m.repo.Get(dep)
		if err != nil {
			return err
		}
		if d == nil {
			return validationf("dependency task not found: %s", dep)
		}
		t.Dependencies[i] = d.ID
	}

	if err := m.repo.Create(t); err != nil {
		return err
	}
	m.log.Info().Str("id", t.ShortID()).Str("title", t.Title).Msg("task added")
	return nil
}

// Get resolves an id or unique prefix. Unlike the repository, a miss
// is an error here so callers get a printable message.
func (m *Manager) Get(idOrPrefix string) (*task.Task, error) {
	t, err := m.repo.Get(idOrPrefix)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, idOrPrefix)
	}
	return t, nil
}

// Update re-validates and persists an already-loaded task.
func (m *Manager) Update(t *task.Task) error {
	if strings.TrimSpace(t.Title) == "" {
		return validationf("task title must not be empty")
	}
	if !task.ValidStatus(t.Status) {
		return validationf("invalid status %q", t.Status)
	}
	if !task.ValidPriority(t.Priority) {
		return validationf("invalid priority %q", t.Priority)
	}
	if t.Recurrence != nil && t.RecurrenceParentID != "" {
		return validationf("a task cannot be both a recurrence template and an instance")
	}
	return m.repo.Update(t)
}

// Start moves a task to in_progress. Refused while any dependency is
// still open.
func (m *Manager) Start(idOrPrefix string) (*task.Task, error) {
	t, err := m.Get(idOrPrefix)
	if err != nil {
		return nil, err
	}
	blocking, err := m.repo.GetBlockingTasks(t)
	if err != nil {
		return nil, err
	}
	if len(blocking) > 0 {
		titles := make([]string, len(blocking))
		for i, b := range blocking {
			titles[i] = b.Title
		}
		return nil, validationf("task is blocked by %d open task(s): %s",
			len(blocking), strings.Join(titles, ", "))
	}

	t.Start()
	if err := m.repo.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Complete marks a task done, recording actual hours when given. When
// the task is a recurrence instance and no open sibling remains, the
// next instance is created from the template and returned.
func (m *Manager) Complete(idOrPrefix string, actualHours float64) (*task.Task, *task.Task, error) {
	t, err := m.Get(idOrPrefix)
	if err != nil {
		return nil, nil, err
	}

	t.Complete(actualHours)
	if err := m.repo.Update(t); err != nil {
		return nil, nil, err
	}

	next, err := m.generateFor(t.RecurrenceParentID)
	if err != nil {
		return nil, nil, err
	}
	return t, next, nil
}

// Cancel marks a task cancelled.
func (m *Manager) Cancel(idOrPrefix string) (*task.Task, error) {
	return m.transition(idOrPrefix, (*task.Task).Cancel)
}

// Reopen returns a done or cancelled task to pending.
func (m *Manager) Reopen(idOrPrefix string) (*task.Task, error) {
	return m.transition(idOrPrefix, (*task.Task).Reopen)
}

func (m *Manager) transition(idOrPrefix string, apply func(*task.Task)) (*task.Task, error) {
	t, err := m.Get(idOrPrefix)
	if err != nil {
		return nil, err
	}
	apply(t)
	if err := m.repo.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// AddNote appends a timestamped note to a task.
func (m *Manager) AddNote(idOrPrefix, content string) (*task.Task, error) {
	if strings.TrimSpace(content) == "" {
		return nil, validationf("note content must not be empty")
	}
	t, err := m.Get(idOrPrefix)
	if err != nil {
		return nil, err
	}
	t.AddNote(content)
	if err := m.repo.Update(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Delete removes a task. Without force, deletion is refused while
// other tasks depend on it or children point at it.
func (m *Manager) Delete(idOrPrefix string, force bool) error {
	t, err := m.Get(idOrPrefix)
	if err != nil {
		return err
	}

	if !force {
		dependents, err := m.repo.GetDependents(t.ID)
		if err != nil {
			return err
		}
		if len(dependents) > 0 {
			return validationf("cannot delete: %d task(s) depend on this task", len(dependents))
		}
		children, err := m.repo.GetChildren(t.ID)
		if err != nil {
			return err
		}
		if len(children) > 0 {
			return validationf("cannot delete: task has %d child task(s)", len(children))
		}
	}

	if err := m.repo.Delete(t.ID); err != nil {
		return err
	}
	m.log.Info().Str("id", t.ShortID()).Msg("task deleted")
	return nil
}

// List returns tasks passing the filter, sorted by priority (highest
// first) then due date (earliest first, undated last).
func (m *Manager) List(f storage.Filter) ([]*task.Task, error) {
	tasks, err := m.repo.List(f)
	if err != nil {
		return nil, err
	}
	SortTasks(tasks)
	return tasks, nil
}

// SortTasks orders tasks for display: most urgent priority first, then
// due date ascending with undated tasks last, then title.
func SortTasks(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		if ar, br := a.Priority.Rank(), b.Priority.Rank(); ar != br {
			return ar < br
		}
		switch {
		case a.DueDate == nil && b.DueDate == nil:
			return a.Title < b.Title
		case a.DueDate == nil:
			return false
		case b.DueDate == nil:
			return true
		case !a.DueDate.Equal(*b.DueDate):
			return a.DueDate.Before(*b.DueDate)
		}
		return a.Title < b.Title
	})
}

// Search finds tasks matching the query in title, description, or
// notes, sorted like List.
func (m *Manager) Search(query string) ([]*task.Task, error) {
	tasks, err := m.repo.Search(query)
	if err != nil {
		return nil, err
	}
	SortTasks(tasks)
	return tasks, nil
}

// Projects lists the distinct project names in use.
func (m *Manager) Projects() ([]string, error) { return m.repo.Projects() }

// Tags lists the distinct tags in use.
func (m *Manager) Tags() ([]string, error) { return m.repo.Tags() }

// FindDuplicate reports a stored task matching the candidate's title
// and due day, or nil.
func (m *Manager) FindDuplicate(t *task.Task) (*task.Task, error) {
	return m.repo.FindDuplicate(t)
}

// TreeNode is one task with its resolved children.
type TreeNode struct {
	Task     *task.Task
	Children []*TreeNode
}

// Tree builds the parent/child forest. With an empty id the roots are
// all tasks without a parent; otherwise the subtree under the resolved
// task. Done and cancelled tasks are included.
func (m *Manager) Tree(idOrPrefix string) ([]*TreeNode, error) {
	all, err := m.repo.List(storage.Filter{IncludeDone: true})
	if err != nil {
		return nil, err
	}

	byParent := make(map[string][]*task.Task)
	for _, t := range all {
		byParent[t.ParentID] = append(byParent[t.ParentID], t)
	}
	for _, siblings := range byParent {
		SortTasks(siblings)
	}

	var build func(t *task.Task) *TreeNode
	build = func(t *task.Task) *TreeNode {
		node := &TreeNode{Task: t}
		for _, c := range byParent[t.ID] {
			node.Children = append(node.Children, build(c))
		}
		return node
	}

	if idOrPrefix != "" {
		root, err := m.Get(idOrPrefix)
		if err != nil {
			return nil, err
		}
		return []*TreeNode{build(root)}, nil
	}

	var forest []*TreeNode
	for _, t := range all {
		if t.ParentID == "" {
			forest = append(forest, build(t))
		}
	}
	return forest, nil
}

// GenerateRecurring scans every recurrence template and creates the
// next instance for each template whose instances are all closed.
// Returns the created instances.
func (m *Manager) GenerateRecurring() ([]*task.Task, error) {
	all, err := m.repo.List(storage.Filter{IncludeDone: true})
	if err != nil {
		return nil, err
	}

	var created []*task.Task
	for _, t := range all {
		if !t.IsRecurring() {
			continue
		}
		next, err := m.generateNext(t, all)
		if err != nil {
			return created, err
		}
		if next != nil {
			created = append(created, next)
		}
	}
	return created, nil
}

// generateFor creates the next instance for the given template id when
// one is due. A blank id is a no-op.
func (m *Manager) generateFor(templateID string) (*task.Task, error) {
	if templateID == "" {
		return nil, nil
	}
	template, err := m.repo.Get(templateID)
	if err != nil || template == nil {
		return nil, err
	}
	all, err := m.repo.List(storage.Filter{IncludeDone: true})
	if err != nil {
		return nil, err
	}
	return m.generateNext(template, all)
}

func (m *Manager) generateNext(template *task.Task, all []*task.Task) (*task.Task, error) {
	var instances []*task.Task
	for _, t := range all {
		if t.RecurrenceParentID == template.ID {
			instances = append(instances, t)
		}
	}
	if !m.gen.ShouldGenerateNext(template, instances) {
		return nil, nil
	}

	// Advance from the latest instance so occurrences progress instead
	// of repeating the template's own date.
	ref := time.Now()
	if template.DueDate != nil {
		ref = *template.DueDate
	}
	for _, inst := range instances {
		if inst.DueDate != nil && inst.DueDate.After(ref) {
			ref = *inst.DueDate
		}
	}

	next := m.gen.CreateNextInstanceAfter(template, ref)
	if next == nil {
		return nil, nil
	}
	if err := m.repo.Create(next); err != nil {
		return nil, err
	}
	m.log.Info().
		Str("template", template.ShortID()).
		Str("id", next.ShortID()).
		Msg("recurring instance created")
	return next, nil
}

// IsValidation reports whether err is a validation refusal rather than
// a storage failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
