// Package inline converts tasks to and from the compact single-line
// checkbox format used by the Obsidian Tasks plugin convention:
//
//	- [ ] Title ⏫ 📅 2025-02-01 🔁 every week #tag
//
// Only the date (not time-of-day) survives the inline form, so all
// comparisons here are at day granularity.
package inline

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mdtask/mdtask/internal/task"
)

// Field markers.
const (
	MarkerDue        = "📅"
	MarkerScheduled  = "⏳"
	MarkerStart      = "🛫"
	MarkerCreated    = "➕"
	MarkerCompleted  = "✅"
	MarkerRecurrence = "🔁"
)

// Priority emojis. Medium is the default and has no marker on output,
// but 🔼 is still recognized on input.
var priorityEmoji = map[task.Priority]string{
	task.PriorityUrgent: "🔺",
	task.PriorityHigh:   "⏫",
	task.PriorityLow:    "🔽",
	task.PriorityLowest: "⏬",
}

var emojiPriority = map[string]task.Priority{
	"🔺": task.PriorityUrgent,
	"⏫": task.PriorityHigh,
	"🔼": task.PriorityMedium,
	"🔽": task.PriorityLow,
	"⏬": task.PriorityLowest,
}

const dateLayout = "2006-01-02"

var (
	checkboxRe = regexp.MustCompile(`^\s*- \[( |x|X)\]\s*(.*)$`)
	tagRe      = regexp.MustCompile(`#([^\s#]+)`)
	// Recurrence text runs from 🔁 to the next marker, emoji or tag.
	recurrenceRe = regexp.MustCompile(`🔁\s*([^🔺⏫🔼🔽⏬📅⏳🛫➕✅#]*)`)

	everyRe = regexp.MustCompile(`^every\s+(?:(\d+)\s+)?(day|week|month|year)s?$`)
)

func dateRe(marker string) *regexp.Regexp {
	return regexp.MustCompile(marker + `\s*(\d{4}-\d{2}-\d{2})`)
}

var (
	dueRe       = dateRe(MarkerDue)
	scheduledRe = dateRe(MarkerScheduled)
	startRe     = dateRe(MarkerStart)
	createdRe   = dateRe(MarkerCreated)
	completedRe = dateRe(MarkerCompleted)
)

// ParseError indicates a line that is not an inline task at all.
type ParseError struct {
	Line string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("not an inline task line: %q", e.Line)
}

// ParsedLine holds the fields recovered from an inline task line.
// Priority is empty when no priority emoji was present (meaning the
// default, medium). CompletedAt is only meaningful when Completed.
type ParsedLine struct {
	Title          string
	Completed      bool
	Priority       task.Priority
	DueDate        *time.Time
	ScheduledDate  *time.Time
	StartDate      *time.Time
	CreatedAt      *time.Time
	CompletedAt    *time.Time
	RecurrenceText string
	Tags           []string
}

// Conflict records a field that differs between a task's structured
// record and what an inline line encodes.
type Conflict struct {
	Field     string
	TaskValue string
	LineValue string
}

// Codec converts tasks to and from the inline line format.
// The zero value is ready to use.
type Codec struct{}

// ToLine renders the task as a single inline line. includeCreated
// overrides the task's own InlineHasCreated flag when non-nil.
func (c Codec) ToLine(t *task.Task, includeCreated *bool) string {
	var b strings.Builder

	if t.Status == task.StatusDone {
		b.WriteString("- [x] ")
	} else {
		b.WriteString("- [ ] ")
	}
	b.WriteString(t.Title)

	if emoji, ok := priorityEmoji[t.Priority]; ok {
		b.WriteString(" " + emoji)
	}

	writeDate := func(marker string, d *time.Time) {
		if d != nil {
			b.WriteString(" " + marker + " " + d.Format(dateLayout))
		}
	}
	writeDate(MarkerDue, t.DueDate)
	writeDate(MarkerScheduled, t.ScheduledDate)
	writeDate(MarkerStart, t.StartDate)

	withCreated := t.InlineHasCreated
	if includeCreated != nil {
		withCreated = *includeCreated
	}
	if withCreated && !t.CreatedAt.IsZero() {
		b.WriteString(" " + MarkerCreated + " " + t.CreatedAt.Format(dateLayout))
	}

	if t.Recurrence != nil {
		b.WriteString(" " + MarkerRecurrence + " " + FormatRecurrence(t.Recurrence))
	}

	if t.Status == task.StatusDone && t.CompletedAt != nil {
		b.WriteString(" " + MarkerCompleted + " " + t.CompletedAt.Format(dateLayout))
	}

	for _, tag := range t.Tags {
		b.WriteString(" #" + tag)
	}

	return b.String()
}

// FromLine parses an inline task line. It tolerates any ordering and
// subset of markers; the only fatal condition is a line that does not
// begin with the checkbox syntax.
func (c Codec) FromLine(line string) (*ParsedLine, error) {
	m := checkboxRe.FindStringSubmatch(line)
	if m == nil {
		return nil, &ParseError{Line: line}
	}

	p := &ParsedLine{Completed: m[1] != " "}
	rest := m[2]

	parseDate := func(re *regexp.Regexp) *time.Time {
		dm := re.FindStringSubmatch(rest)
		if dm == nil {
			return nil
		}
		rest = strings.Replace(rest, dm[0], "", 1)
		d, err := time.Parse(dateLayout, dm[1])
		if err != nil {
			return nil
		}
		return &d
	}
	p.DueDate = parseDate(dueRe)
	p.ScheduledDate = parseDate(scheduledRe)
	p.StartDate = parseDate(startRe)
	p.CreatedAt = parseDate(createdRe)
	p.CompletedAt = parseDate(completedRe)

	if rm := recurrenceRe.FindStringSubmatch(rest); rm != nil {
		p.RecurrenceText = strings.TrimSpace(rm[1])
		rest = strings.Replace(rest, rm[0], "", 1)
	}

	for _, tm := range tagRe.FindAllStringSubmatch(rest, -1) {
		p.Tags = append(p.Tags, tm[1])
	}
	rest = tagRe.ReplaceAllString(rest, "")

	for emoji, prio := range emojiPriority {
		if strings.Contains(rest, emoji) {
			p.Priority = prio
			rest = strings.Replace(rest, emoji, "", 1)
			break
		}
	}

	p.Title = strings.Join(strings.Fields(rest), " ")
	return p, nil
}

// DetectConflicts compares the task's authoritative fields against an
// existing inline line. Fields the inline form never encodes, like
// notes, are never flagged. Dates are compared at day granularity.
func (c Codec) DetectConflicts(t *task.Task, line string) ([]Conflict, error) {
	p, err := c.FromLine(line)
	if err != nil {
		return nil, err
	}

	var conflicts []Conflict

	taskDone := t.Status == task.StatusDone
	if taskDone != p.Completed {
		lineStatus := task.StatusPending
		if p.Completed {
			lineStatus = task.StatusDone
		}
		conflicts = append(conflicts, Conflict{
			Field:     "status",
			TaskValue: string(t.Status),
			LineValue: string(lineStatus),
		})
	}

	linePriority := p.Priority
	if linePriority == "" {
		linePriority = task.PriorityMedium
	}
	if t.Priority != linePriority {
		conflicts = append(conflicts, Conflict{
			Field:     "priority",
			TaskValue: string(t.Priority),
			LineValue: string(linePriority),
		})
	}

	if !sameDay(t.DueDate, p.DueDate) {
		conflicts = append(conflicts, Conflict{
			Field:     "due_date",
			TaskValue: formatDay(t.DueDate),
			LineValue: formatDay(p.DueDate),
		})
	}

	if !sameTagSet(t.Tags, p.Tags) {
		conflicts = append(conflicts, Conflict{
			Field:     "tags",
			TaskValue: strings.Join(t.Tags, ","),
			LineValue: strings.Join(p.Tags, ","),
		})
	}

	return conflicts, nil
}

// ParseRecurrence converts an informal recurrence phrase into a rule.
// Recognized: "daily", "weekly", "monthly", "yearly", "every <unit>"
// and "every <N> <unit>s". Anything else yields nil, not an error.
func (c Codec) ParseRecurrence(text string) *task.RecurrenceRule {
	text = strings.ToLower(strings.TrimSpace(text))

	switch text {
	case "daily":
		return &task.RecurrenceRule{Frequency: task.FrequencyDaily, Interval: 1}
	case "weekly":
		return &task.RecurrenceRule{Frequency: task.FrequencyWeekly, Interval: 1}
	case "monthly":
		return &task.RecurrenceRule{Frequency: task.FrequencyMonthly, Interval: 1}
	case "yearly":
		return &task.RecurrenceRule{Frequency: task.FrequencyYearly, Interval: 1}
	}

	m := everyRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}

	interval := 1
	if m[1] != "" {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return nil
		}
		interval = n
	}

	var freq task.Frequency
	switch m[2] {
	case "day":
		freq = task.FrequencyDaily
	case "week":
		freq = task.FrequencyWeekly
	case "month":
		freq = task.FrequencyMonthly
	case "year":
		freq = task.FrequencyYearly
	}
	return &task.RecurrenceRule{Frequency: freq, Interval: interval}
}

// FormatRecurrence renders a rule as the phrase used after 🔁,
// e.g. "every week" or "every 2 weeks".
func FormatRecurrence(rule *task.RecurrenceRule) string {
	unit := map[task.Frequency]string{
		task.FrequencyDaily:   "day",
		task.FrequencyWeekly:  "week",
		task.FrequencyMonthly: "month",
		task.FrequencyYearly:  "year",
	}[rule.Frequency]

	if rule.Interval <= 1 {
		return "every " + unit
	}
	return fmt.Sprintf("every %d %ss", rule.Interval, unit)
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func formatDay(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(dateLayout)
}

func sameTagSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
