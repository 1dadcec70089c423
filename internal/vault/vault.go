// Package vault integrates with an Obsidian vault: locating the vault
// root, collecting markdown files, importing inline task lines, and
// rewriting them as wiki links to the stored tasks.
package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdtask/mdtask/internal/storage"
	"github.com/mdtask/mdtask/internal/task"
)

const vaultMarker = ".obsidian"

// FindVaultRoot walks up from start looking for the directory that
// contains the vault marker. The second result is false when no
// ancestor is a vault.
func FindVaultRoot(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	for {
		if info, err := os.Stat(filepath.Join(dir, vaultMarker)); err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// CollectFiles gathers markdown files to import. A file path is
// returned as-is; a directory is scanned for files matching pattern,
// descending into subdirectories when recursive is set. Anything under
// excludeDir is skipped, which keeps the task storage directory out of
// its own import. A blank or nonexistent excludeDir excludes nothing.
func CollectFiles(path, pattern string, recursive bool, excludeDir string) ([]string, error) {
	if pattern == "" {
		pattern = "*.md"
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat import path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var exclude string
	if excludeDir != "" {
		if abs, err := filepath.Abs(excludeDir); err == nil {
			exclude = abs
		}
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == path {
				return nil
			}
			if abs, err := filepath.Abs(p); err == nil && abs == exclude {
				return filepath.SkipDir
			}
			if d.Name() == vaultMarker {
				return filepath.SkipDir
			}
			if !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		ok, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if ok {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("collect files: %w", err)
	}
	return files, nil
}

// TaskLink renders a wiki link to the task's file, relative to the
// vault root, with the title as display text.
func TaskLink(vaultRoot string, placement *storage.Placement, t *task.Task) string {
	path := placement.PathFor(t)
	target := strings.TrimSuffix(path, ".md")
	if vaultRoot != "" {
		if rel, err := filepath.Rel(vaultRoot, target); err == nil && !strings.HasPrefix(rel, "..") {
			target = rel
		}
	}
	return "[[" + filepath.ToSlash(target) + "|" + t.Title + "]]"
}

// TaskEmbed renders an embed link, which makes Obsidian inline the
// whole task file into the note.
func TaskEmbed(vaultRoot string, placement *storage.Placement, t *task.Task) string {
	return "!" + TaskLink(vaultRoot, placement, t)
}

// ReplaceLines rewrites the file, substituting the listed lines
// (0-based) with new content while preserving each line's original
// indentation.
func ReplaceLines(path string, replacements map[int]string) error {
	if len(replacements) == 0 {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read source file: %w", err)
	}

	lines := strings.Split(string(content), "\n")
	for i, repl := range replacements {
		if i < 0 || i >= len(lines) {
			continue
		}
		indent := lines[i][:len(lines[i])-len(strings.TrimLeft(lines[i], " \t"))]
		lines[i] = indent + repl
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("write source file: %w", err)
	}
	return nil
}

var errNotAVault = errors.New("not inside an Obsidian vault")

// RequireVaultRoot resolves the vault containing path, or fails with a
// descriptive error.
func RequireVaultRoot(path string) (string, error) {
	root, ok := FindVaultRoot(path)
	if !ok {
		return "", fmt.Errorf("%w: %s", errNotAVault, path)
	}
	return root, nil
}
