package main

import (
	"strings"
	"testing"
	"time"

	"github.com/taskdeck/taskdeck/task"
)

func TestFormatTaskTableListsEveryTask(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	items := []task.ViewItem{
		{Task: task.Task{
			ID:       "t1",
			Title:    "First item",
			Status:   task.StatusPending,
			Priority: task.PriorityHigh,
			DueDate:  now.Add(24 * time.Hour),
		}},
		{Task: task.Task{
			ID:       "t2",
			Title:    "Second item",
			Status:   task.StatusInProgress,
			Priority: task.PriorityLow,
			DueDate:  now.Add(-time.Hour),
		}, Overdue: true},
	}

	got := formatTaskTable(items, now)

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines:\n%s", len(lines), got)
	}
	if !strings.Contains(lines[1], "First item") {
		t.Errorf("expected first row, got %q", lines[1])
	}
	if !strings.Contains(lines[2], "overdue") {
		t.Errorf("expected overdue marker in second row, got %q", lines[2])
	}
}

func TestFormatTaskTableTruncatesLongTitles(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	items := []task.ViewItem{
		{Task: task.Task{
			ID:       "t1",
			Title:    strings.Repeat("x", 200),
			Status:   task.StatusPending,
			Priority: task.PriorityMedium,
			DueDate:  now.Add(time.Hour),
		}},
	}

	got := formatTaskTable(items, now)

	if !strings.Contains(got, "...") {
		t.Fatalf("expected truncated title, got:\n%s", got)
	}
	if strings.Contains(got, strings.Repeat("x", 100)) {
		t.Fatalf("expected title shortened, got:\n%s", got)
	}
}
