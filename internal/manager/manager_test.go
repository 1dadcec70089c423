package manager

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mdtask/mdtask/internal/storage"
	"github.com/mdtask/mdtask/internal/task"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	p := storage.NewPlacement(t.TempDir(), storage.OrgFlat, storage.DefaultKanbanDirs())
	repo := storage.NewRepository(storage.NewStore(p, storage.FormatFrontmatter, zerolog.Nop()))
	return New(repo, zerolog.Nop())
}

func mustAdd(t *testing.T, m *Manager, tk *task.Task) {
	t.Helper()
	if err := m.Add(tk); err != nil {
		t.Fatalf("Add(%q) error = %v", tk.Title, err)
	}
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	m := newTestManager(t)

	err := m.Add(task.New("   "))
	if !IsValidation(err) {
		t.Errorf("Add() error = %v, want validation error", err)
	}
}

func TestAddRejectsUnknownParent(t *testing.T) {
	m := newTestManager(t)

	tk := task.New("Orphan")
	tk.ParentID = "deadbeef"
	err := m.Add(tk)
	if !IsValidation(err) {
		t.Fatalf("Add() error = %v, want validation error", err)
	}
	if !strings.Contains(err.Error(), "parent task not found") {
		t.Errorf("error = %q", err)
	}
}

func TestAddRejectsUnknownDependency(t *testing.T) {
	m := newTestManager(t)

	tk := task.New("Blocked")
	tk.Dependencies = []string{"deadbeef"}
	err := m.Add(tk)
	if !IsValidation(err) || !strings.Contains(err.Error(), "dependency task not found") {
		t.Errorf("Add() error = %v", err)
	}
}

func TestAddExpandsParentPrefix(t *testing.T) {
	m := newTestManager(t)

	parent := task.New("Parent")
	mustAdd(t, m, parent)

	child := task.New("Child")
	child.ParentID = parent.ShortID()
	mustAdd(t, m, child)

	got, err := m.Get(child.ShortID())
	if err != nil {
		t.Fatal(err)
	}
	if got.ParentID != parent.ID {
		t.Errorf("ParentID = %q, want full id %q", got.ParentID, parent.ID)
	}
}

func TestAddRejectsTemplateInstanceCombination(t *testing.T) {
	m := newTestManager(t)

	tk := task.New("Confused")
	tk.Recurrence = &task.RecurrenceRule{Frequency: task.FrequencyDaily, Interval: 1}
	tk.RecurrenceParentID = "some-template"
	if err := m.Add(tk); !IsValidation(err) {
		t.Errorf("Add() error = %v, want validation error", err)
	}
}

func TestGetMissing(t *testing.T) {
	m := newTestManager(t)

	_, err := m.Get("deadbeef")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestStartBlockedByOpenDependency(t *testing.T) {
	m := newTestManager(t)

	dep := task.New("Dependency")
	mustAdd(t, m, dep)

	blocked := task.New("Blocked")
	blocked.Dependencies = []string{dep.ShortID()}
	mustAdd(t, m, blocked)

	_, err := m.Start(blocked.ShortID())
	if !IsValidation(err) || !strings.Contains(err.Error(), "blocked by") {
		t.Fatalf("Start() error = %v, want blocked validation error", err)
	}

	if _, _, err := m.Complete(dep.ShortID(), 0); err != nil {
		t.Fatal(err)
	}
	got, err := m.Start(blocked.ShortID())
	if err != nil {
		t.Fatalf("Start() after unblock error = %v", err)
	}
	if got.Status != task.StatusInProgress {
		t.Errorf("Status = %q, want in_progress", got.Status)
	}
}

func TestCompleteRecordsHours(t *testing.T) {
	m := newTestManager(t)
	tk := task.New("Timed")
	mustAdd(t, m, tk)

	done, next, err := m.Complete(tk.ShortID(), 2.5)
	if err != nil {
		t.Fatal(err)
	}
	if done.Status != task.StatusDone || done.ActualHours != 2.5 {
		t.Errorf("done = %q hours = %v", done.Status, done.ActualHours)
	}
	if done.CompletedAt == nil {
		t.Error("CompletedAt = nil")
	}
	if next != nil {
		t.Errorf("next = %v, want nil for non-recurring task", next)
	}
}

func TestCompleteInstanceSpawnsNext(t *testing.T) {
	m := newTestManager(t)

	due := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	template := task.New("Weekly review")
	template.DueDate = &due
	template.Recurrence = &task.RecurrenceRule{Frequency: task.FrequencyWeekly, Interval: 1}
	mustAdd(t, m, template)

	created, err := m.GenerateRecurring()
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 1 {
		t.Fatalf("GenerateRecurring() created %d, want 1", len(created))
	}
	first := created[0]
	if first.RecurrenceParentID != template.ID {
		t.Errorf("instance parent = %q", first.RecurrenceParentID)
	}

	// While the instance is open, nothing new is generated.
	created, err = m.GenerateRecurring()
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 0 {
		t.Errorf("second GenerateRecurring() created %d, want 0", len(created))
	}

	// Completing the instance spawns the next one.
	_, next, err := m.Complete(first.ShortID(), 0)
	if err != nil {
		t.Fatal(err)
	}
	if next == nil {
		t.Fatal("Complete() spawned no next instance")
	}
	if next.RecurrenceParentID != template.ID {
		t.Errorf("next parent = %q", next.RecurrenceParentID)
	}
	if next.ID == first.ID {
		t.Error("next instance reused the completed instance's id")
	}
	if first.DueDate == nil || next.DueDate == nil {
		t.Fatal("instances must carry due dates")
	}
	if got := first.DueDate.Format("2006-01-02"); got != "2024-01-22" {
		t.Errorf("first due = %s, want 2024-01-22", got)
	}
	if got := next.DueDate.Format("2006-01-02"); got != "2024-01-29" {
		t.Errorf("next due = %s, want 2024-01-29", got)
	}
}

func TestReopenClearsCompletion(t *testing.T) {
	m := newTestManager(t)
	tk := task.New("Round trip")
	mustAdd(t, m, tk)

	if _, _, err := m.Complete(tk.ShortID(), 1); err != nil {
		t.Fatal(err)
	}
	got, err := m.Reopen(tk.ShortID())
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != task.StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
	if got.CompletedAt != nil {
		t.Errorf("CompletedAt = %v, want nil", got.CompletedAt)
	}
}

func TestDeleteRefusesWithDependents(t *testing.T) {
	m := newTestManager(t)

	dep := task.New("Load bearing")
	mustAdd(t, m, dep)
	user := task.New("Depends on it")
	user.Dependencies = []string{dep.ID}
	mustAdd(t, m, user)

	err := m.Delete(dep.ShortID(), false)
	if !IsValidation(err) || !strings.Contains(err.Error(), "depend on this task") {
		t.Fatalf("Delete() error = %v", err)
	}

	if err := m.Delete(dep.ShortID(), true); err != nil {
		t.Errorf("forced Delete() error = %v", err)
	}
}

func TestDeleteRefusesWithChildren(t *testing.T) {
	m := newTestManager(t)

	parent := task.New("Parent")
	mustAdd(t, m, parent)
	child := task.New("Child")
	child.ParentID = parent.ID
	mustAdd(t, m, child)

	err := m.Delete(parent.ShortID(), false)
	if !IsValidation(err) || !strings.Contains(err.Error(), "child task(s)") {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestListSortsByPriorityThenDue(t *testing.T) {
	m := newTestManager(t)

	early := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	late := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	lowEarly := task.New("low early")
	lowEarly.Priority = task.PriorityLow
	lowEarly.DueDate = &early

	highLate := task.New("high late")
	highLate.Priority = task.PriorityHigh
	highLate.DueDate = &late

	highEarly := task.New("high early")
	highEarly.Priority = task.PriorityHigh
	highEarly.DueDate = &early

	highUndated := task.New("high undated")
	highUndated.Priority = task.PriorityHigh

	for _, tk := range []*task.Task{lowEarly, highLate, highEarly, highUndated} {
		mustAdd(t, m, tk)
	}

	got, err := m.List(storage.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"high early", "high late", "high undated", "low early"}
	if len(got) != len(want) {
		t.Fatalf("got %d tasks, want %d", len(got), len(want))
	}
	for i, title := range want {
		if got[i].Title != title {
			t.Errorf("position %d = %q, want %q", i, got[i].Title, title)
		}
	}
}

func TestTree(t *testing.T) {
	m := newTestManager(t)

	root := task.New("Root")
	mustAdd(t, m, root)
	child := task.New("Child")
	child.ParentID = root.ID
	mustAdd(t, m, child)
	grandchild := task.New("Grandchild")
	grandchild.ParentID = child.ID
	mustAdd(t, m, grandchild)
	loner := task.New("Loner")
	mustAdd(t, m, loner)

	forest, err := m.Tree("")
	if err != nil {
		t.Fatal(err)
	}
	if len(forest) != 2 {
		t.Fatalf("forest has %d roots, want 2", len(forest))
	}

	subtree, err := m.Tree(root.ShortID())
	if err != nil {
		t.Fatal(err)
	}
	if len(subtree) != 1 {
		t.Fatalf("subtree has %d roots, want 1", len(subtree))
	}
	node := subtree[0]
	if node.Task.Title != "Root" || len(node.Children) != 1 {
		t.Fatalf("unexpected subtree root %q with %d children", node.Task.Title, len(node.Children))
	}
	if node.Children[0].Task.Title != "Child" || len(node.Children[0].Children) != 1 {
		t.Error("child level wrong")
	}
}

func TestTaskCompletions(t *testing.T) {
	m := newTestManager(t)

	pending := task.New("Pending one")
	started := task.New("Started one")
	finished := task.New("Finished one")
	for _, tk := range []*task.Task{pending, started, finished} {
		mustAdd(t, m, tk)
	}
	if _, err := m.Start(started.ShortID()); err != nil {
		t.Fatal(err)
	}
	if _, _, err := m.Complete(finished.ShortID(), 0); err != nil {
		t.Fatal(err)
	}

	comps, err := m.TaskCompletions("")
	if err != nil {
		t.Fatal(err)
	}
	if len(comps) != 2 {
		t.Fatalf("got %d completions, want 2 (done excluded)", len(comps))
	}
	byValue := make(map[string]string)
	for _, c := range comps {
		byValue[c.Value] = c.Description
	}
	if d := byValue[pending.ShortID()]; !strings.HasPrefix(d, "○") {
		t.Errorf("pending glyph = %q", d)
	}
	if d := byValue[started.ShortID()]; !strings.HasPrefix(d, "◐") {
		t.Errorf("in-progress glyph = %q", d)
	}
}

func TestProjectAndTagCompletions(t *testing.T) {
	m := newTestManager(t)

	a := task.New("A")
	a.Project = "webshop"
	a.Tags = []string{"backend", "bug"}
	mustAdd(t, m, a)

	projects, err := m.ProjectCompletions("web")
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 1 || projects[0].Value != "webshop" {
		t.Errorf("ProjectCompletions = %v", projects)
	}

	tags, err := m.TagCompletions("b")
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 {
		t.Errorf("TagCompletions = %v, want 2 entries", tags)
	}
}
