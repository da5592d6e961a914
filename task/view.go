package task

import (
	"sort"
	"time"
)

// ViewItem is one task in the derived view, annotated for presentation.
type ViewItem struct {
	Task

	// Overdue is set when the due date has passed and the task is not
	// completed.
	Overdue bool
}

// View is a read-only projection of the canonical list: sorted by due
// date, grouped by status. Cancelled tasks are omitted from the groups
// but remain in the canonical list. A View is recomputed from scratch on
// every derivation and is never authoritative.
type View struct {
	Pending    []ViewItem
	InProgress []ViewItem
	Completed  []ViewItem
}

// DeriveView computes the presentation view of tasks at now. Pure: the
// input is not mutated, and two derivations from the same list are
// structurally equal.
func DeriveView(tasks []Task, now time.Time) View {
	ordered := append([]Task(nil), tasks...)

	// Ascending by due date; ties keep canonical (server) order.
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DueDate.Before(ordered[j].DueDate)
	})

	var view View
	for _, t := range ordered {
		item := ViewItem{
			Task:    t,
			Overdue: t.DueDate.Before(now) && t.Status != StatusCompleted,
		}
		switch t.Status {
		case StatusPending:
			view.Pending = append(view.Pending, item)
		case StatusInProgress:
			view.InProgress = append(view.InProgress, item)
		case StatusCompleted:
			view.Completed = append(view.Completed, item)
		}
	}
	return view
}

// Items returns the view's groups flattened in cycle order.
func (v View) Items() []ViewItem {
	items := make([]ViewItem, 0, len(v.Pending)+len(v.InProgress)+len(v.Completed))
	items = append(items, v.Pending...)
	items = append(items, v.InProgress...)
	items = append(items, v.Completed...)
	return items
}
