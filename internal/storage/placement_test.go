package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mdtask/mdtask/internal/task"
)

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Buy milk", "Buy_milk"},
		{"fix: crash/hang on save", "fix_crash_hang_on_save"},
		{"  spaced   out  ", "spaced_out"},
		{`a<b>c:d"e/f\g|h?i*j`, "a_b_c_d_e_f_g_h_i_j"},
		{"___", "task"},
		{"", "task"},
	}
	for _, tc := range cases {
		if got := SanitizeTitle(tc.in); got != tc.want {
			t.Errorf("SanitizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeTitleTruncates(t *testing.T) {
	long := strings.Repeat("abcde ", 20)
	got := SanitizeTitle(long)
	if len(got) > 50 {
		t.Errorf("len = %d, want <= 50", len(got))
	}
	if strings.HasSuffix(got, "_") {
		t.Errorf("truncated title ends in underscore: %q", got)
	}
}

func TestPathForFlat(t *testing.T) {
	p := NewPlacement("/tasks", OrgFlat, DefaultKanbanDirs())

	tk := task.New("Buy milk")
	got := p.PathFor(tk)
	want := filepath.Join("/tasks", tk.ShortID()+"_Buy_milk.md")
	if got != want {
		t.Errorf("PathFor() = %q, want %q", got, want)
	}
}

func TestPathForKanbanFollowsStatus(t *testing.T) {
	p := NewPlacement("/tasks", OrgKanban, DefaultKanbanDirs())

	tk := task.New("Buy milk")
	cases := []struct {
		status task.Status
		dir    string
	}{
		{task.StatusPending, "Backlog"},
		{task.StatusInProgress, "InProgress"},
		{task.StatusDone, "Done"},
		{task.StatusCancelled, "Cancelled"},
	}
	for _, tc := range cases {
		tk.Status = tc.status
		got := p.PathFor(tk)
		if filepath.Base(filepath.Dir(got)) != tc.dir {
			t.Errorf("status %s: PathFor() = %q, want dir %s", tc.status, got, tc.dir)
		}
	}
}

func TestPathForKanbanCustomDirs(t *testing.T) {
	dirs := KanbanDirs{Backlog: "todo", InProgress: "doing", Done: "done", Cancelled: "dropped"}
	p := NewPlacement("/tasks", OrgKanban, dirs)

	tk := task.New("Buy milk")
	tk.Status = task.StatusInProgress
	if got := p.PathFor(tk); filepath.Base(filepath.Dir(got)) != "doing" {
		t.Errorf("PathFor() = %q, want dir doing", got)
	}
}

func TestFindExisting(t *testing.T) {
	root := t.TempDir()
	p := NewPlacement(root, OrgKanban, DefaultKanbanDirs())

	tk := task.New("Hidden away")
	tk.Status = task.StatusDone
	path := p.PathFor(tk)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, ok := p.FindExisting(tk.ID)
	if !ok {
		t.Fatal("FindExisting() found nothing")
	}
	if got != path {
		t.Errorf("FindExisting() = %q, want %q", got, path)
	}

	if _, ok := p.FindExisting("ffffffff-0000-0000-0000-000000000000"); ok {
		t.Error("FindExisting() matched a nonexistent id")
	}
}

func TestFindByNamePrefix(t *testing.T) {
	root := t.TempDir()
	p := NewPlacement(root, OrgFlat, DefaultKanbanDirs())

	for _, name := range []string{"aaaa1111_one.md", "aaaa2222_two.md", "bbbb3333_three.md"} {
		if err := os.WriteFile(filepath.Join(root, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	if got := p.FindByNamePrefix("aaaa"); len(got) != 2 {
		t.Errorf("prefix aaaa matched %d files, want 2", len(got))
	}
	if got := p.FindByNamePrefix("AAAA1111"); len(got) != 1 {
		t.Errorf("case-insensitive prefix matched %d files, want 1", len(got))
	}
	if got := p.FindByNamePrefix("cccc"); len(got) != 0 {
		t.Errorf("prefix cccc matched %d files, want 0", len(got))
	}
}
