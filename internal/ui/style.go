package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	statusPendingStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	statusInProgressStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	statusCompletedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	statusCancelledStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	overdueStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	headingStyle          = lipgloss.NewStyle().Bold(true)
)

// styleEnabled is replaced in tests to force deterministic output.
var styleEnabled = ansiEnabled

// StyleStatus returns a status value colored for terminal output.
func StyleStatus(status string) string {
	if !styleEnabled() {
		return status
	}

	switch status {
	case "pending":
		return statusPendingStyle.Render(status)
	case "inProgress":
		return statusInProgressStyle.Render(status)
	case "completed":
		return statusCompletedStyle.Render(status)
	case "cancelled":
		return statusCancelledStyle.Render(status)
	default:
		return status
	}
}

// StyleOverdue highlights a due-date cell for an overdue task.
func StyleOverdue(value string) string {
	if !styleEnabled() {
		return value
	}
	return overdueStyle.Render(value)
}

// StyleHeading renders a bold section heading.
func StyleHeading(value string) string {
	if !styleEnabled() {
		return value
	}
	return headingStyle.Render(value)
}

func ansiEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}
