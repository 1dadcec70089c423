package manager

import (
	"strings"

	"github.com/mdtask/mdtask/internal/storage"
	"github.com/mdtask/mdtask/internal/task"
)

// Completion is one shell-completion candidate: the value to insert
// plus a human description shown next to it.
type Completion struct {
	Value       string
	Description string
}

const (
	glyphPending    = "○"
	glyphInProgress = "◐"
)

// TaskCompletions returns open tasks whose short id starts with the
// given prefix, each described by a status glyph and the title.
func (m *Manager) TaskCompletions(prefix string) ([]Completion, error) {
	tasks, err := m.List(storage.Filter{})
	if err != nil {
		return nil, err
	}

	prefix = strings.ToLower(prefix)
	var out []Completion
	for _, t := range tasks {
		short := t.ShortID()
		if !strings.HasPrefix(strings.ToLower(short), prefix) {
			continue
		}
		glyph := glyphPending
		if t.Status == task.StatusInProgress {
			glyph = glyphInProgress
		}
		out = append(out, Completion{Value: short, Description: glyph + " " + t.Title})
	}
	return out, nil
}

// ProjectCompletions returns project names starting with the prefix.
func (m *Manager) ProjectCompletions(prefix string) ([]Completion, error) {
	projects, err := m.Projects()
	if err != nil {
		return nil, err
	}
	return prefixCompletions(projects, prefix), nil
}

// TagCompletions returns tags starting with the prefix.
func (m *Manager) TagCompletions(prefix string) ([]Completion, error) {
	tags, err := m.Tags()
	if err != nil {
		return nil, err
	}
	return prefixCompletions(tags, prefix), nil
}

func prefixCompletions(values []string, prefix string) []Completion {
	prefix = strings.ToLower(prefix)
	var out []Completion
	for _, v := range values {
		if strings.HasPrefix(strings.ToLower(v), prefix) {
			out = append(out, Completion{Value: v})
		}
	}
	return out
}
