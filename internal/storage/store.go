package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mdtask/mdtask/internal/inline"
	"github.com/mdtask/mdtask/internal/task"
)

// Format selects what a task file's body carries.
type Format string

const (
	// FormatFrontmatter writes only the description and notes below the
	// frontmatter block.
	FormatFrontmatter Format = "frontmatter"
	// FormatHybrid additionally writes a checkbox line with inline
	// markers so the file renders as a task in Obsidian.
	FormatHybrid Format = "hybrid"
)

const importedFromPrefix = "Imported from: [["

// Store persists tasks as markdown files, one task per file. Files are
// regenerated wholesale on every save, so repeated saves of the same
// task are idempotent.
type Store struct {
	placement *Placement
	format    Format
	inline    inline.Codec
	log       zerolog.Logger
}

// NewStore creates a file store. An empty format defaults to
// frontmatter-only bodies.
func NewStore(placement *Placement, format Format, log zerolog.Logger) *Store {
	if format == "" {
		format = FormatFrontmatter
	}
	return &Store{placement: placement, format: format, log: log}
}

// Placement exposes the store's path strategy.
func (s *Store) Placement() *Placement { return s.placement }

// Save writes the task to its canonical path, creating directories as
// needed. When a rename or status change moves the canonical path, the
// stale file is removed after the new one is written.
func (s *Store) Save(t *task.Task) error {
	content, err := s.encode(t)
	if err != nil {
		return err
	}

	path := s.placement.PathFor(t)
	old, hadOld := s.placement.FindExisting(t.ID)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create task dir: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write task file: %w", err)
	}

	if hadOld && old != path {
		if err := os.Remove(old); err != nil && !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", old).Msg("failed to remove stale task file")
		}
	}
	return nil
}

func (s *Store) encode(t *task.Task) ([]byte, error) {
	if s.format != FormatHybrid {
		return EncodeRecord(t)
	}

	var b strings.Builder
	b.WriteString(s.inline.ToLine(t, nil))
	b.WriteString("\n")
	if t.SourceFile != "" {
		target := strings.TrimSuffix(t.SourceFile, ".md")
		fmt.Fprintf(&b, "\n%s%s]]\n", importedFromPrefix, target)
	}
	if body := EncodeBody(t); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
	}
	return EncodeRecordWithBody(t, b.String())
}

// Load reads the task with the given full or short id. Returns
// ErrNotFound when no file backs the id.
func (s *Store) Load(id string) (*task.Task, error) {
	path, ok := s.placement.FindExisting(id)
	if !ok {
		return nil, ErrNotFound
	}
	return s.LoadPath(path)
}

// LoadPath reads and decodes one task file. Checkbox lines and import
// provenance lines written by hybrid saves are stripped from the
// description so they never accumulate across save cycles.
func (s *Store) LoadPath(path string) (*task.Task, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read task file: %w", err)
	}

	t, err := DecodeRecord(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t.Description = stripGeneratedLines(t.Description)
	return t, nil
}

// stripGeneratedLines removes checkbox task lines and provenance link
// lines that the hybrid format injects into the body.
func stripGeneratedLines(description string) string {
	if description == "" {
		return ""
	}
	var kept []string
	for _, line := range strings.Split(description, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- [ ]"),
			strings.HasPrefix(trimmed, "- [x]"),
			strings.HasPrefix(trimmed, "- [X]"):
			continue
		case strings.HasPrefix(trimmed, importedFromPrefix),
			strings.HasPrefix(trimmed, "Source: [["):
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// Delete removes the task file for the given full or short id.
func (s *Store) Delete(id string) error {
	path, ok := s.placement.FindExisting(id)
	if !ok {
		return ErrNotFound
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("remove task file: %w", err)
	}
	return nil
}

// Exists reports whether a file backs the given id.
func (s *Store) Exists(id string) bool {
	_, ok := s.placement.FindExisting(id)
	return ok
}

// ListAll loads every task under the storage root. Files that fail to
// decode are skipped with a warning; one bad file never hides the rest.
func (s *Store) ListAll() ([]*task.Task, error) {
	var tasks []*task.Task
	for _, dir := range s.placement.ScanDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("read task dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			path := filepath.Join(dir, e.Name())
			t, err := s.LoadPath(path)
			if err != nil {
				s.log.Warn().Err(err).Str("path", path).Msg("skipping unreadable task file")
				continue
			}
			tasks = append(tasks, t)
		}
	}
	return tasks, nil
}
