package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mdtask/mdtask/internal/task"
)

// Color palette
var (
	colorCyan    = lipgloss.Color("86")
	colorGreen   = lipgloss.Color("78")
	colorYellow  = lipgloss.Color("221")
	colorRed     = lipgloss.Color("196")
	colorMagenta = lipgloss.Color("213")
	colorGray    = lipgloss.Color("245")
	colorDimGray = lipgloss.Color("239")
)

// Priority colors
var priorityStyles = map[task.Priority]lipgloss.Style{
	task.PriorityUrgent: lipgloss.NewStyle().Foreground(colorRed).Bold(true),
	task.PriorityHigh:   lipgloss.NewStyle().Foreground(colorMagenta),
	task.PriorityMedium: lipgloss.NewStyle().Foreground(colorYellow),
	task.PriorityLow:    lipgloss.NewStyle().Foreground(colorGray),
}

// Status indicator styles
var (
	statusPendingStyle    = lipgloss.NewStyle().Foreground(colorGray)
	statusInProgressStyle = lipgloss.NewStyle().Foreground(colorCyan)
	statusDoneStyle       = lipgloss.NewStyle().Foreground(colorGreen)
	statusCancelledStyle  = lipgloss.NewStyle().Foreground(colorDimGray)
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGray)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	dimStyle    = lipgloss.NewStyle().Foreground(colorDimGray)
	idStyle     = lipgloss.NewStyle().Foreground(colorGray)
)

func statusGlyph(s task.Status) string {
	switch s {
	case task.StatusInProgress:
		return statusInProgressStyle.Render("◐")
	case task.StatusDone:
		return statusDoneStyle.Render("●")
	case task.StatusCancelled:
		return statusCancelledStyle.Render("✗")
	default:
		return statusPendingStyle.Render("○")
	}
}

func renderPriority(p task.Priority) string {
	if style, ok := priorityStyles[p]; ok {
		return style.Render(string(p))
	}
	return string(p)
}

// printTaskRow prints one task as a list row.
func printTaskRow(t *task.Task) {
	due := "-"
	if t.DueDate != nil {
		due = t.DueDate.Format(dateLayout)
	}
	title := t.Title
	if len(title) > 40 {
		title = title[:37] + "..."
	}
	fmt.Printf("%s %s  %-40s %-8s %-10s %s\n",
		statusGlyph(t.Status),
		idStyle.Render(t.ShortID()),
		title,
		renderPriority(t.Priority),
		due,
		dimStyle.Render(t.Project),
	)
}

func printTaskTable(tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return
	}
	header := fmt.Sprintf("  %-8s  %-40s %-8s %-10s %s", "ID", "TITLE", "PRIO", "DUE", "PROJECT")
	fmt.Println(headerStyle.Render(header))
	fmt.Println(strings.Repeat("-", 78))
	for _, t := range tasks {
		printTaskRow(t)
	}
	fmt.Printf("\nTotal: %d\n", len(tasks))
}
