package storage

import (
	"errors"
	"sort"
	"strings"

	"github.com/mdtask/mdtask/internal/task"
)

// Repository provides task-level queries on top of the file store:
// prefix resolution, filtered listing, relationship lookups, and
// duplicate detection.
type Repository struct {
	store *Store
}

// NewRepository wraps a store.
func NewRepository(store *Store) *Repository {
	return &Repository{store: store}
}

// Store exposes the underlying file store.
func (r *Repository) Store() *Store { return r.store }

// Create persists a new task.
func (r *Repository) Create(t *task.Task) error {
	return r.store.Save(t)
}

// Update persists changes to an existing task.
func (r *Repository) Update(t *task.Task) error {
	return r.store.Save(t)
}

// Delete removes the task resolved by the given id or prefix.
func (r *Repository) Delete(idOrPrefix string) error {
	t, err := r.Get(idOrPrefix)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	return r.store.Delete(t.ID)
}

// Get resolves a full id or unique prefix to a task. Matching is
// case-insensitive. Returns (nil, nil) when nothing matches and an
// AmbiguousIDError when the prefix matches more than one task; an
// ambiguous prefix is never resolved silently.
func (r *Repository) Get(idOrPrefix string) (*task.Task, error) {
	matches, err := r.FindByPrefix(idOrPrefix)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	}

	ae := &AmbiguousIDError{Prefix: idOrPrefix}
	for _, m := range matches {
		ae.Matches = append(ae.Matches, Match{ID: m.ID, Title: m.Title})
	}
	return nil, ae
}

// FindByPrefix returns every task whose id starts with the given
// prefix, case-insensitively.
func (r *Repository) FindByPrefix(prefix string) ([]*task.Task, error) {
	want := strings.ToLower(prefix)

	var matches []*task.Task
	seen := make(map[string]bool)
	for _, path := range r.store.Placement().FindByNamePrefix(prefix) {
		t, err := r.store.LoadPath(path)
		if err != nil {
			if errors.Is(err, ErrMalformedRecord) || errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !strings.HasPrefix(strings.ToLower(t.ID), want) || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		matches = append(matches, t)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

// Filter narrows List results. Zero-valued fields match everything.
type Filter struct {
	Status   task.Status
	Priority task.Priority
	Project  string
	Tag      string
	ParentID string

	// IncludeDone keeps done and cancelled tasks, which are otherwise
	// excluded unless the filter asks for their status explicitly.
	IncludeDone bool
}

func (f Filter) matches(t *task.Task) bool {
	if f.Status != "" && t.Status != f.Status {
		return false
	}
	if f.Status == "" && !f.IncludeDone && !t.IsOpen() {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Project != "" && t.Project != f.Project {
		return false
	}
	if f.Tag != "" && !t.HasTag(f.Tag) {
		return false
	}
	if f.ParentID != "" && t.ParentID != f.ParentID {
		return false
	}
	return true
}

// List returns all tasks passing the filter.
func (r *Repository) List(f Filter) ([]*task.Task, error) {
	all, err := r.store.ListAll()
	if err != nil {
		return nil, err
	}
	var out []*task.Task
	for _, t := range all {
		if f.matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

// GetChildren returns the direct children of a task.
func (r *Repository) GetChildren(parentID string) ([]*task.Task, error) {
	return r.List(Filter{ParentID: parentID, IncludeDone: true})
}

// GetDependents returns tasks that list the given id as a dependency.
func (r *Repository) GetDependents(id string) ([]*task.Task, error) {
	all, err := r.store.ListAll()
	if err != nil {
		return nil, err
	}
	var out []*task.Task
	for _, t := range all {
		for _, dep := range t.Dependencies {
			if dep == id {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

// GetBlockingTasks returns the task's dependencies that are still open.
// Dangling dependency ids are ignored.
func (r *Repository) GetBlockingTasks(t *task.Task) ([]*task.Task, error) {
	var blocking []*task.Task
	for _, dep := range t.Dependencies {
		d, err := r.Get(dep)
		if err != nil {
			var ae *AmbiguousIDError
			if errors.As(err, &ae) {
				continue
			}
			return nil, err
		}
		if d != nil && d.IsOpen() {
			blocking = append(blocking, d)
		}
	}
	return blocking, nil
}

// CanStart reports whether no open dependency blocks the task.
func (r *Repository) CanStart(t *task.Task) (bool, error) {
	blocking, err := r.GetBlockingTasks(t)
	if err != nil {
		return false, err
	}
	return len(blocking) == 0, nil
}

// Projects returns the sorted distinct project names in use.
func (r *Repository) Projects() ([]string, error) {
	all, err := r.store.ListAll()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	for _, t := range all {
		if t.Project != "" {
			set[t.Project] = true
		}
	}
	return sortedKeys(set), nil
}

// Tags returns the sorted distinct tags in use.
func (r *Repository) Tags() ([]string, error) {
	all, err := r.store.ListAll()
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	for _, t := range all {
		for _, tag := range t.Tags {
			set[tag] = true
		}
	}
	return sortedKeys(set), nil
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Search returns tasks whose title, description, or notes contain the
// query, case-insensitively. Done and cancelled tasks are included.
func (r *Repository) Search(query string) ([]*task.Task, error) {
	all, err := r.store.ListAll()
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(query)

	var out []*task.Task
	for _, t := range all {
		if searchMatch(t, q) {
			out = append(out, t)
		}
	}
	return out, nil
}

func searchMatch(t *task.Task, q string) bool {
	if strings.Contains(strings.ToLower(t.Title), q) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), q) {
		return true
	}
	for _, n := range t.Notes {
		if strings.Contains(strings.ToLower(n.Content), q) {
			return true
		}
	}
	return false
}

// FindDuplicate returns a stored task considered the same as the
// candidate: equal title after trimming and case-folding, and equal due
// date at day granularity. A dated task never matches an undated one.
// The candidate itself is never returned.
func (r *Repository) FindDuplicate(candidate *task.Task) (*task.Task, error) {
	all, err := r.store.ListAll()
	if err != nil {
		return nil, err
	}
	title := strings.ToLower(strings.TrimSpace(candidate.Title))

	for _, t := range all {
		if t.ID == candidate.ID {
			continue
		}
		if strings.ToLower(strings.TrimSpace(t.Title)) != title {
			continue
		}
		if !sameDueDay(t, candidate) {
			continue
		}
		return t, nil
	}
	return nil, nil
}

func sameDueDay(a, b *task.Task) bool {
	if (a.DueDate == nil) != (b.DueDate == nil) {
		return false
	}
	if a.DueDate == nil {
		return true
	}
	ay, am, ad := a.DueDate.Date()
	by, bm, bd := b.DueDate.Date()
	return ay == by && am == bm && ad == bd
}
