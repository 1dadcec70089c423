package inline

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mdtask/mdtask/internal/task"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestToLineMinimal(t *testing.T) {
	tk := task.New("Buy groceries")
	tk.InlineHasCreated = false

	line := Codec{}.ToLine(tk, nil)

	if !strings.HasPrefix(line, "- [ ]") {
		t.Errorf("line = %q, want unchecked checkbox prefix", line)
	}
	if !strings.Contains(line, "Buy groceries") {
		t.Errorf("line = %q, want title present", line)
	}
	// Medium priority renders no marker.
	for _, emoji := range []string{"🔺", "⏫", "🔼", "🔽", "⏬"} {
		if strings.Contains(line, emoji) {
			t.Errorf("line = %q, want no priority emoji for medium", line)
		}
	}
}

func TestToLinePriorities(t *testing.T) {
	cases := []struct {
		priority task.Priority
		emoji    string
	}{
		{task.PriorityUrgent, "🔺"},
		{task.PriorityHigh, "⏫"},
		{task.PriorityLow, "🔽"},
		{task.PriorityLowest, "⏬"},
	}
	for _, tc := range cases {
		tk := task.New("Test")
		tk.Priority = tc.priority
		line := Codec{}.ToLine(tk, nil)
		if !strings.Contains(line, tc.emoji) {
			t.Errorf("priority %s: line = %q, want %s", tc.priority, line, tc.emoji)
		}
	}
}

func TestToLineDates(t *testing.T) {
	tk := task.New("Task with dates")
	tk.DueDate = date(2025, 2, 1)
	tk.ScheduledDate = date(2025, 1, 25)
	tk.StartDate = date(2025, 1, 20)
	tk.InlineHasCreated = false

	line := Codec{}.ToLine(tk, nil)

	for _, want := range []string{"📅 2025-02-01", "⏳ 2025-01-25", "🛫 2025-01-20"} {
		if !strings.Contains(line, want) {
			t.Errorf("line = %q, want %q", line, want)
		}
	}
}

func TestToLineCreatedFlag(t *testing.T) {
	tk := task.New("Test")
	tk.CreatedAt = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	// Flag true by default: marker emitted.
	line := Codec{}.ToLine(tk, nil)
	if !strings.Contains(line, "➕ 2025-01-15") {
		t.Errorf("line = %q, want created marker", line)
	}

	// Stored flag false: omitted.
	tk.InlineHasCreated = false
	line = Codec{}.ToLine(tk, nil)
	if strings.Contains(line, "➕") {
		t.Errorf("line = %q, want no created marker", line)
	}

	// Explicit override wins over stored flag.
	yes := true
	line = Codec{}.ToLine(tk, &yes)
	if !strings.Contains(line, "➕ 2025-01-15") {
		t.Errorf("line = %q, want created marker with override", line)
	}

	tk.InlineHasCreated = true
	no := false
	line = Codec{}.ToLine(tk, &no)
	if strings.Contains(line, "➕") {
		t.Errorf("line = %q, want no created marker with override", line)
	}
}

func TestToLineCompleted(t *testing.T) {
	tk := task.New("Done task")
	tk.Complete(0)

	line := Codec{}.ToLine(tk, nil)

	if !strings.HasPrefix(line, "- [x]") {
		t.Errorf("line = %q, want checked checkbox", line)
	}
	if !strings.Contains(line, "✅") {
		t.Errorf("line = %q, want completion marker", line)
	}
}

func TestToLineRecurrence(t *testing.T) {
	tk := task.New("Weekly task")
	tk.Recurrence = &task.RecurrenceRule{Frequency: task.FrequencyWeekly, Interval: 1}
	line := Codec{}.ToLine(tk, nil)
	if !strings.Contains(line, "🔁 every week") {
		t.Errorf("line = %q, want %q", line, "🔁 every week")
	}

	tk.Recurrence.Interval = 2
	line = Codec{}.ToLine(tk, nil)
	if !strings.Contains(line, "every 2 weeks") {
		t.Errorf("line = %q, want %q", line, "every 2 weeks")
	}
}

func TestToLineTags(t *testing.T) {
	tk := task.New("Tagged task")
	tk.Tags = []string{"work", "important"}
	line := Codec{}.ToLine(tk, nil)

	if !strings.Contains(line, "#work") || !strings.Contains(line, "#important") {
		t.Errorf("line = %q, want both hashtags", line)
	}
}

func TestFromLineMinimal(t *testing.T) {
	p, err := Codec{}.FromLine("- [ ] Buy groceries")
	if err != nil {
		t.Fatalf("FromLine() error: %v", err)
	}
	if p.Title != "Buy groceries" {
		t.Errorf("Title = %q, want %q", p.Title, "Buy groceries")
	}
	if p.Completed {
		t.Error("Completed = true, want false")
	}
	if p.Priority != "" {
		t.Errorf("Priority = %q, want empty (medium default)", p.Priority)
	}
	if p.DueDate != nil {
		t.Errorf("DueDate = %v, want nil", p.DueDate)
	}
}

func TestFromLineScenario(t *testing.T) {
	// The directory-import scenario from an external note.
	p, err := Codec{}.FromLine("- [ ] Buy milk 📅 2025-03-01 #errand")
	if err != nil {
		t.Fatalf("FromLine() error: %v", err)
	}
	if p.Title != "Buy milk" {
		t.Errorf("Title = %q, want %q", p.Title, "Buy milk")
	}
	if p.DueDate == nil || !p.DueDate.Equal(*date(2025, 3, 1)) {
		t.Errorf("DueDate = %v, want 2025-03-01", p.DueDate)
	}
	if len(p.Tags) != 1 || p.Tags[0] != "errand" {
		t.Errorf("Tags = %v, want [errand]", p.Tags)
	}
}

func TestFromLinePriorities(t *testing.T) {
	cases := []struct {
		line string
		want task.Priority
	}{
		{"- [ ] Task 🔺", task.PriorityUrgent},
		{"- [ ] Task ⏫", task.PriorityHigh},
		{"- [ ] Task 🔼", task.PriorityMedium},
		{"- [ ] Task 🔽", task.PriorityLow},
		{"- [ ] Task ⏬", task.PriorityLowest},
	}
	for _, tc := range cases {
		p, err := Codec{}.FromLine(tc.line)
		if err != nil {
			t.Fatalf("FromLine(%q) error: %v", tc.line, err)
		}
		if p.Priority != tc.want {
			t.Errorf("FromLine(%q).Priority = %q, want %q", tc.line, p.Priority, tc.want)
		}
	}
}

func TestFromLineCompleted(t *testing.T) {
	p, err := Codec{}.FromLine("- [x] Done task ✅ 2025-01-20")
	if err != nil {
		t.Fatalf("FromLine() error: %v", err)
	}
	if !p.Completed {
		t.Error("Completed = false, want true")
	}
	if p.CompletedAt == nil || !p.CompletedAt.Equal(*date(2025, 1, 20)) {
		t.Errorf("CompletedAt = %v, want 2025-01-20", p.CompletedAt)
	}
}

func TestFromLineFull(t *testing.T) {
	line := "- [ ] Important meeting 🔺 📅 2025-02-01 ⏳ 2025-01-25 🛫 2025-01-20 ➕ 2025-01-15 🔁 every week #work #important"
	p, err := Codec{}.FromLine(line)
	if err != nil {
		t.Fatalf("FromLine() error: %v", err)
	}

	if p.Title != "Important meeting" {
		t.Errorf("Title = %q, want %q", p.Title, "Important meeting")
	}
	if p.Priority != task.PriorityUrgent {
		t.Errorf("Priority = %q, want urgent", p.Priority)
	}
	if p.DueDate == nil || !p.DueDate.Equal(*date(2025, 2, 1)) {
		t.Errorf("DueDate = %v, want 2025-02-01", p.DueDate)
	}
	if p.ScheduledDate == nil || !p.ScheduledDate.Equal(*date(2025, 1, 25)) {
		t.Errorf("ScheduledDate = %v, want 2025-01-25", p.ScheduledDate)
	}
	if p.StartDate == nil || !p.StartDate.Equal(*date(2025, 1, 20)) {
		t.Errorf("StartDate = %v, want 2025-01-20", p.StartDate)
	}
	if p.CreatedAt == nil || !p.CreatedAt.Equal(*date(2025, 1, 15)) {
		t.Errorf("CreatedAt = %v, want 2025-01-15", p.CreatedAt)
	}
	if p.RecurrenceText != "every week" {
		t.Errorf("RecurrenceText = %q, want %q", p.RecurrenceText, "every week")
	}
	if len(p.Tags) != 2 {
		t.Errorf("Tags = %v, want [work important]", p.Tags)
	}
}

func TestFromLineInvalid(t *testing.T) {
	_, err := Codec{}.FromLine("Not a task line")
	if err == nil {
		t.Fatal("FromLine() = nil error, want ParseError")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error type = %T, want *ParseError", err)
	}
	if !strings.Contains(err.Error(), "Not a task line") {
		t.Errorf("error %v should carry the offending line", err)
	}
}

func TestRoundtripNoConflicts(t *testing.T) {
	tk := task.New("Roundtrip test")
	tk.Priority = task.PriorityHigh
	tk.DueDate = date(2025, 2, 1)
	tk.ScheduledDate = date(2025, 1, 25)
	tk.Tags = []string{"test", "roundtrip"}

	c := Codec{}
	line := c.ToLine(tk, nil)
	conflicts, err := c.DetectConflicts(tk, line)
	if err != nil {
		t.Fatalf("DetectConflicts() error: %v", err)
	}
	if len(conflicts) != 0 {
		t.Errorf("conflicts = %v, want none for a line rendered from the same task", conflicts)
	}
}

func TestDetectStatusConflict(t *testing.T) {
	tk := task.New("Test")

	conflicts, err := Codec{}.DetectConflicts(tk, "- [x] Test")
	if err != nil {
		t.Fatalf("DetectConflicts() error: %v", err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1: %v", len(conflicts), conflicts)
	}
	c := conflicts[0]
	if c.Field != "status" || c.TaskValue != "pending" || c.LineValue != "done" {
		t.Errorf("conflict = %+v, want status pending/done", c)
	}
}

func TestDetectPriorityConflict(t *testing.T) {
	tk := task.New("Test")
	tk.Priority = task.PriorityLow

	conflicts, err := Codec{}.DetectConflicts(tk, "- [ ] Test 🔺")
	if err != nil {
		t.Fatalf("DetectConflicts() error: %v", err)
	}

	found := false
	for _, c := range conflicts {
		if c.Field == "priority" {
			found = true
			if c.TaskValue != "low" || c.LineValue != "urgent" {
				t.Errorf("conflict = %+v, want low/urgent", c)
			}
		}
	}
	if !found {
		t.Error("no priority conflict reported")
	}
}

func TestDetectDueDateConflict(t *testing.T) {
	tk := task.New("Test")
	tk.DueDate = date(2025, 2, 1)

	conflicts, err := Codec{}.DetectConflicts(tk, "- [ ] Test 📅 2025-03-01")
	if err != nil {
		t.Fatalf("DetectConflicts() error: %v", err)
	}

	found := false
	for _, c := range conflicts {
		if c.Field == "due_date" {
			found = true
			if c.TaskValue != "2025-02-01" || c.LineValue != "2025-03-01" {
				t.Errorf("conflict = %+v", c)
			}
		}
	}
	if !found {
		t.Error("no due_date conflict reported")
	}
}

func TestDueDateTimeOfDayIsNotAConflict(t *testing.T) {
	tk := task.New("Test")
	due := time.Date(2025, 2, 1, 16, 45, 0, 0, time.UTC)
	tk.DueDate = &due

	conflicts, err := Codec{}.DetectConflicts(tk, "- [ ] Test 📅 2025-02-01")
	if err != nil {
		t.Fatalf("DetectConflicts() error: %v", err)
	}
	for _, c := range conflicts {
		if c.Field == "due_date" {
			t.Errorf("same calendar date flagged as conflict: %+v", c)
		}
	}
}

func TestDetectTagsConflict(t *testing.T) {
	tk := task.New("Test")
	tk.Tags = []string{"work", "important"}

	conflicts, err := Codec{}.DetectConflicts(tk, "- [ ] Test #work #urgent")
	if err != nil {
		t.Fatalf("DetectConflicts() error: %v", err)
	}

	found := false
	for _, c := range conflicts {
		if c.Field == "tags" {
			found = true
		}
	}
	if !found {
		t.Error("no tags conflict reported")
	}
}

func TestDetectMultipleConflicts(t *testing.T) {
	tk := task.New("Test")
	tk.Priority = task.PriorityLow
	tk.DueDate = date(2025, 2, 1)

	conflicts, err := Codec{}.DetectConflicts(tk, "- [x] Test 🔺 📅 2025-03-01")
	if err != nil {
		t.Fatalf("DetectConflicts() error: %v", err)
	}
	if len(conflicts) < 3 {
		t.Fatalf("got %d conflicts, want >= 3: %v", len(conflicts), conflicts)
	}

	fields := map[string]bool{}
	for _, c := range conflicts {
		fields[c.Field] = true
	}
	for _, want := range []string{"status", "priority", "due_date"} {
		if !fields[want] {
			t.Errorf("missing %s conflict in %v", want, conflicts)
		}
	}
}

func TestParseRecurrenceSimple(t *testing.T) {
	cases := []struct {
		text     string
		freq     task.Frequency
		interval int
	}{
		{"daily", task.FrequencyDaily, 1},
		{"weekly", task.FrequencyWeekly, 1},
		{"monthly", task.FrequencyMonthly, 1},
		{"yearly", task.FrequencyYearly, 1},
		{"every day", task.FrequencyDaily, 1},
		{"every week", task.FrequencyWeekly, 1},
		{"every month", task.FrequencyMonthly, 1},
		{"every year", task.FrequencyYearly, 1},
		{"every 2 days", task.FrequencyDaily, 2},
		{"every 3 weeks", task.FrequencyWeekly, 3},
		{"every 6 months", task.FrequencyMonthly, 6},
		{"every 2 years", task.FrequencyYearly, 2},
	}
	for _, tc := range cases {
		rule := Codec{}.ParseRecurrence(tc.text)
		if rule == nil {
			t.Errorf("ParseRecurrence(%q) = nil", tc.text)
			continue
		}
		if rule.Frequency != tc.freq || rule.Interval != tc.interval {
			t.Errorf("ParseRecurrence(%q) = {%s %d}, want {%s %d}",
				tc.text, rule.Frequency, rule.Interval, tc.freq, tc.interval)
		}
	}
}

func TestParseRecurrenceInvalid(t *testing.T) {
	for _, text := range []string{"invalid text", "every", "every 0 days", "sometimes"} {
		if rule := (Codec{}).ParseRecurrence(text); rule != nil {
			t.Errorf("ParseRecurrence(%q) = %+v, want nil", text, rule)
		}
	}
}
