package ui

import (
	"fmt"
	"time"
)

// FormatTimestamp renders an absolute time for detail output.
func FormatTimestamp(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Local().Format("2006-01-02 15:04")
}

// FormatDueIn returns a compact relative due string like "in 2d" or
// "3h overdue".
func FormatDueIn(due time.Time, now time.Time) string {
	if due.IsZero() {
		return "-"
	}
	if due.Before(now) {
		return FormatDurationShort(now.Sub(due)) + " overdue"
	}
	return "in " + FormatDurationShort(due.Sub(now))
}

// FormatDurationShort formats a duration using short units (s/m/h/d).
func FormatDurationShort(duration time.Duration) string {
	if duration < 0 {
		duration = 0
	}

	duration = duration.Truncate(time.Second)
	seconds := int64(duration.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}

	minutes := seconds / 60
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}

	hours := minutes / 60
	if hours < 24 {
		return fmt.Sprintf("%dh", hours)
	}

	days := hours / 24
	return fmt.Sprintf("%dd", days)
}
