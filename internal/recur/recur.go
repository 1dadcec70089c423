// Package recur computes occurrence dates for recurring tasks and
// materializes new instances from templates.
package recur

import (
	"sort"
	"time"

	"github.com/mdtask/mdtask/internal/task"
)

// Generator spawns dated task instances from recurrence templates.
// The zero value is ready to use.
type Generator struct{}

// NextOccurrence computes the next occurrence strictly after the given
// date, or nil when the rule's end date has been passed.
func (g Generator) NextOccurrence(rule *task.RecurrenceRule, after time.Time) *time.Time {
	if rule == nil {
		return nil
	}

	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	var next time.Time
	switch rule.Frequency {
	case task.FrequencyDaily:
		next = after.AddDate(0, 0, interval)
	case task.FrequencyWeekly:
		next = nextWeekly(rule, after, interval)
	case task.FrequencyMonthly:
		next = nextMonthly(rule, after, interval)
	case task.FrequencyYearly:
		next = nextYearly(after, interval)
	default:
		return nil
	}

	if rule.EndDate != nil && dayAfter(next, *rule.EndDate) {
		return nil
	}
	return &next
}

// nextWeekly advances by whole weeks, or to the earliest listed
// weekday strictly after the reference when a day set is present.
// Days use 0=Monday through 6=Sunday.
func nextWeekly(rule *task.RecurrenceRule, after time.Time, interval int) time.Time {
	if len(rule.DaysOfWeek) == 0 {
		return after.AddDate(0, 0, 7*interval)
	}

	days := append([]int(nil), rule.DaysOfWeek...)
	sort.Ints(days)

	// time.Weekday has Sunday=0; shift to Monday=0.
	wd := (int(after.Weekday()) + 6) % 7

	for _, d := range days {
		if d > wd {
			return after.AddDate(0, 0, d-wd)
		}
	}
	// No listed day remains this week; wrap to the first listed day of
	// the next interval cycle.
	return after.AddDate(0, 0, 7*interval-wd+days[0])
}

// nextMonthly advances by calendar months, clamping the day-of-month
// to the last valid day when the target month is shorter.
func nextMonthly(rule *task.RecurrenceRule, after time.Time, interval int) time.Time {
	day := after.Day()
	if rule.DayOfMonth > 0 {
		day = rule.DayOfMonth
	}

	y, m, _ := after.Date()
	target := time.Date(y, m, 1, 0, 0, 0, 0, after.Location()).AddDate(0, interval, 0)
	if last := daysInMonth(target.Year(), target.Month()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day,
		after.Hour(), after.Minute(), after.Second(), 0, after.Location())
}

// nextYearly advances by years keeping month and day, with leap-day
// fallback to Feb 28.
func nextYearly(after time.Time, interval int) time.Time {
	y, m, d := after.Date()
	y += interval
	if last := daysInMonth(y, m); d > last {
		d = last
	}
	return time.Date(y, m, d, after.Hour(), after.Minute(), after.Second(), 0, after.Location())
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// dayAfter reports whether a falls on a later calendar day than b.
func dayAfter(a, b time.Time) bool {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return ad.After(bd)
}

// ShouldGenerateNext reports whether a new instance should be spawned
// for the template. At most one open instance exists at a time: a new
// one is due only when there are no instances yet or every existing
// instance reached a terminal state.
func (g Generator) ShouldGenerateNext(template *task.Task, instances []*task.Task) bool {
	if template.Recurrence == nil {
		return false
	}
	for _, inst := range instances {
		if inst.IsOpen() {
			return false
		}
	}
	return true
}

// CreateNextInstance materializes the next instance of the template,
// copying its descriptive fields and setting the due date to the next
// occurrence. The reference date is the template's own due date when
// set, otherwise now. Returns nil when no next occurrence exists.
func (g Generator) CreateNextInstance(template *task.Task) *task.Task {
	ref := time.Now()
	if template.DueDate != nil {
		ref = *template.DueDate
	}

	return g.CreateNextInstanceAfter(template, ref)
}

// CreateNextInstanceAfter materializes the instance for the next
// occurrence strictly after the given reference date. Returns nil when
// the rule has expired.
func (g Generator) CreateNextInstanceAfter(template *task.Task, ref time.Time) *task.Task {
	next := g.NextOccurrence(template.Recurrence, ref)
	if next == nil {
		return nil
	}
	return g.instanceAt(template, *next)
}

// GenerateInstances produces one instance per occurrence between start
// (exclusive) and end (inclusive). Used for backfilling and previews.
func (g Generator) GenerateInstances(template *task.Task, start, end time.Time) []*task.Task {
	var instances []*task.Task

	cur := start
	for {
		next := g.NextOccurrence(template.Recurrence, cur)
		if next == nil || dayAfter(*next, end) {
			break
		}
		instances = append(instances, g.instanceAt(template, *next))
		cur = *next
	}
	return instances
}

func (g Generator) instanceAt(template *task.Task, due time.Time) *task.Task {
	inst := task.New(template.Title)
	inst.Description = template.Description
	inst.Priority = template.Priority
	inst.Tags = append([]string(nil), template.Tags...)
	inst.Project = template.Project
	inst.RecurrenceParentID = template.ID
	inst.DueDate = &due
	return inst
}
