package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mdtask/mdtask/internal/task"
)

// Organization selects how task files are laid out on disk.
type Organization string

const (
	// OrgFlat stores every task file directly under the storage root.
	OrgFlat Organization = "flat"
	// OrgKanban stores task files in status-named subdirectories.
	OrgKanban Organization = "kanban"
)

// KanbanDirs names the per-status subdirectories used in kanban mode.
type KanbanDirs struct {
	Backlog    string
	InProgress string
	Done       string
	Cancelled  string
}

// DefaultKanbanDirs returns the standard subdirectory names.
func DefaultKanbanDirs() KanbanDirs {
	return KanbanDirs{
		Backlog:    "Backlog",
		InProgress: "InProgress",
		Done:       "Done",
		Cancelled:  "Cancelled",
	}
}

func (d KanbanDirs) forStatus(s task.Status) string {
	switch s {
	case task.StatusInProgress:
		return d.InProgress
	case task.StatusDone:
		return d.Done
	case task.StatusCancelled:
		return d.Cancelled
	default:
		return d.Backlog
	}
}

const (
	maxTitleLen      = 50
	titlePlaceholder = "task"
)

var (
	illegalChars  = regexp.MustCompile(`[<>:"/\\|?*]`)
	separatorRuns = regexp.MustCompile(`[\s_]+`)
)

// SanitizeTitle converts a task title into a filename-safe fragment:
// illegal characters become underscores, whitespace and underscore
// runs collapse into one underscore, edges are trimmed, and the result
// is truncated. An empty result falls back to a constant placeholder.
func SanitizeTitle(title string) string {
	s := illegalChars.ReplaceAllString(title, "_")
	s = separatorRuns.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > maxTitleLen {
		s = strings.Trim(s[:maxTitleLen], "_")
	}
	if s == "" {
		return titlePlaceholder
	}
	return s
}

// Placement computes on-disk locations for task files.
type Placement struct {
	root   string
	org    Organization
	kanban KanbanDirs
}

// NewPlacement creates a placement strategy rooted at dir.
func NewPlacement(dir string, org Organization, kanban KanbanDirs) *Placement {
	if org == "" {
		org = OrgFlat
	}
	if kanban == (KanbanDirs{}) {
		kanban = DefaultKanbanDirs()
	}
	return &Placement{root: dir, org: org, kanban: kanban}
}

// Root returns the storage root directory.
func (p *Placement) Root() string { return p.root }

// Filename builds the canonical file name for a task:
// <short_id>_<sanitized_title>.md.
func (p *Placement) Filename(t *task.Task) string {
	return t.ShortID() + "_" + SanitizeTitle(t.Title) + ".md"
}

// PathFor computes the canonical path for a task given its current
// title and status. In kanban mode the status picks the subdirectory.
// The path is also the placeholder returned before a first write.
func (p *Placement) PathFor(t *task.Task) string {
	if p.org == OrgKanban {
		return filepath.Join(p.root, p.kanban.forStatus(t.Status), p.Filename(t))
	}
	return filepath.Join(p.root, p.Filename(t))
}

// ScanDirs lists every directory that may hold task files. All kanban
// subdirectories are scanned regardless of the configured mode so a
// mode switch never strands files.
func (p *Placement) ScanDirs() []string {
	return []string{
		p.root,
		filepath.Join(p.root, p.kanban.Backlog),
		filepath.Join(p.root, p.kanban.InProgress),
		filepath.Join(p.root, p.kanban.Done),
		filepath.Join(p.root, p.kanban.Cancelled),
	}
}

// FindExisting locates the file currently backing the task with the
// given full or short id, trying the known naming conventions in every
// scan directory. Filename matches are confirmed against the stored id
// so short-id collisions never resolve to the wrong file. The second
// result is false when no file exists.
func (p *Placement) FindExisting(id string) (string, bool) {
	prefix := shortID(id)
	for _, dir := range p.ScanDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			// Canonical <short_id>_<title>.md plus legacy <id>.md.
			if !strings.HasPrefix(e.Name(), prefix+"_") && e.Name() != id+".md" {
				continue
			}
			path := filepath.Join(dir, e.Name())
			if backsID(path, id) {
				return path, true
			}
		}
	}
	return "", false
}

// backsID reports whether the file's stored id matches the given full
// or short id. Files that fail to decode are accepted on the filename
// match alone.
func backsID(path, id string) bool {
	content, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	t, err := DecodeRecord(content)
	if err != nil {
		return true
	}
	return strings.HasPrefix(strings.ToLower(t.ID), strings.ToLower(id))
}

// FindByNamePrefix returns all task files whose filename-encoded short
// id starts with the given prefix. Prefixes longer than the short id
// are narrowed by the caller after decoding. Matching is
// case-insensitive.
func (p *Placement) FindByNamePrefix(prefix string) []string {
	prefix = strings.ToLower(shortID(prefix))
	var paths []string
	for _, dir := range p.ScanDirs() {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
				continue
			}
			if strings.HasPrefix(strings.ToLower(e.Name()), prefix) {
				paths = append(paths, filepath.Join(dir, e.Name()))
			}
		}
	}
	return paths
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
