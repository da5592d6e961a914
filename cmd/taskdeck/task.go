package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/taskdeck/taskdeck/internal/markdown"
	"github.com/taskdeck/taskdeck/internal/ui"
	"github.com/taskdeck/taskdeck/task"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
}

// task list
var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks sorted by due date and grouped by status",
	RunE:  runTaskList,
}

var (
	taskListJSON   bool
	taskListAll    bool
	taskListStatus string
)

// task show
var taskShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show detailed information about a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskShow,
}

var taskShowJSON bool

// task create
var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskCreate,
}

var (
	taskCreateDescription string
	taskCreateDue         string
	taskCreatePriority    string
)

// task update
var taskUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update fields on a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskUpdate,
}

var (
	taskUpdateTitle       string
	taskUpdateDescription string
	taskUpdateDue         string
	taskUpdateStatus      string
	taskUpdatePriority    string
)

// task advance
var taskAdvanceCmd = &cobra.Command{
	Use:   "advance <id>",
	Short: "Move a task to the next status in the cycle",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdvance,
}

// task cancel
var taskCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskCancel,
}

// task delete
var taskDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDelete,
}

func init() {
	rootCmd.AddCommand(taskCmd)
	taskCmd.AddCommand(taskListCmd, taskShowCmd, taskCreateCmd, taskUpdateCmd,
		taskAdvanceCmd, taskCancelCmd, taskDeleteCmd)
	addTaskFlagAliases(taskCreateCmd, taskUpdateCmd)

	// task list flags
	taskListCmd.Flags().BoolVar(&taskListJSON, "json", false, "Output as JSON")
	taskListCmd.Flags().BoolVar(&taskListAll, "all", false, "Include cancelled tasks")
	taskListCmd.Flags().StringVar(&taskListStatus, "status", "", "Show only one status (pending, inProgress, completed, cancelled)")

	// task show flags
	taskShowCmd.Flags().BoolVar(&taskShowJSON, "json", false, "Output as JSON")

	// task create flags
	taskCreateCmd.Flags().StringVarP(&taskCreateDescription, "description", "d", "", "Description")
	taskCreateCmd.Flags().StringVar(&taskCreateDue, "due", "", "Due date (RFC3339, \"2006-01-02 15:04\", or 2006-01-02)")
	taskCreateCmd.Flags().StringVarP(&taskCreatePriority, "priority", "p", "", "Priority (low, medium, high)")

	// task update flags
	taskUpdateCmd.Flags().StringVar(&taskUpdateTitle, "title", "", "New title")
	taskUpdateCmd.Flags().StringVar(&taskUpdateDescription, "description", "", "New description")
	taskUpdateCmd.Flags().StringVar(&taskUpdateDue, "due", "", "New due date")
	taskUpdateCmd.Flags().StringVar(&taskUpdateStatus, "status", "", "New status (pending, inProgress, completed, cancelled)")
	taskUpdateCmd.Flags().StringVar(&taskUpdatePriority, "priority", "", "New priority (low, medium, high)")
}

// loadedEngine builds the engine and loads the canonical list.
func loadedEngine(cmd *cobra.Command) (*task.Engine, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}
	if err := engine.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return engine, nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	engine, err := loadedEngine(cmd)
	if err != nil {
		return err
	}

	if taskListJSON {
		return printJSON(engine.Tasks())
	}

	now := time.Now()
	view := engine.View(now)

	if taskListStatus != "" {
		status, err := task.ParseStatus(taskListStatus)
		if err != nil {
			return err
		}
		items := statusItems(engine, view, status)
		if len(items) == 0 {
			fmt.Println("No tasks found.")
			return nil
		}
		fmt.Print(formatTaskTable(items, now))
		return nil
	}

	sections := []struct {
		heading string
		items   []task.ViewItem
	}{
		{"Pending", view.Pending},
		{"In progress", view.InProgress},
		{"Completed", view.Completed},
	}
	if taskListAll {
		sections = append(sections, struct {
			heading string
			items   []task.ViewItem
		}{"Cancelled", cancelledItems(engine)})
	}

	printed := false
	for _, section := range sections {
		if len(section.items) == 0 {
			continue
		}
		if printed {
			fmt.Println()
		}
		fmt.Println(ui.StyleHeading(section.heading))
		fmt.Print(formatTaskTable(section.items, now))
		printed = true
	}

	if !printed {
		fmt.Println("No tasks found.")
	}
	return nil
}

// statusItems selects one status group. Cancelled tasks are not part of
// the derived view, so they come from the canonical list directly.
func statusItems(engine *task.Engine, view task.View, status task.Status) []task.ViewItem {
	switch status {
	case task.StatusPending:
		return view.Pending
	case task.StatusInProgress:
		return view.InProgress
	case task.StatusCompleted:
		return view.Completed
	case task.StatusCancelled:
		return cancelledItems(engine)
	default:
		return nil
	}
}

func cancelledItems(engine *task.Engine) []task.ViewItem {
	var items []task.ViewItem
	for _, t := range engine.Tasks() {
		if t.Status == task.StatusCancelled {
			items = append(items, task.ViewItem{Task: t})
		}
	}
	return items
}

func runTaskShow(cmd *cobra.Command, args []string) error {
	engine, err := loadedEngine(cmd)
	if err != nil {
		return err
	}

	found := findTask(engine.Tasks(), args[0])
	if found == nil {
		return task.ErrTaskNotFound
	}

	if taskShowJSON {
		return printJSON(found)
	}

	printTaskDetail(*found, time.Now())
	return nil
}

func runTaskCreate(cmd *cobra.Command, args []string) error {
	engine, err := newEngine()
	if err != nil {
		return err
	}

	due, err := parseDueDate(taskCreateDue)
	if err != nil {
		return err
	}

	created, err := engine.Create(cmd.Context(), task.CreateFields{
		Title:       args[0],
		Description: taskCreateDescription,
		DueDate:     due,
		Priority:    task.Priority(taskCreatePriority),
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created task %s: %s\n", created.ID, created.Title)
	return nil
}

func runTaskUpdate(cmd *cobra.Command, args []string) error {
	engine, err := loadedEngine(cmd)
	if err != nil {
		return err
	}

	fields := task.UpdateFields{}

	// Only set fields that were explicitly provided
	if cmd.Flags().Changed("title") {
		fields.Title = &taskUpdateTitle
	}
	if cmd.Flags().Changed("description") {
		fields.Description = &taskUpdateDescription
	}
	if cmd.Flags().Changed("due") {
		due, err := parseDueDate(taskUpdateDue)
		if err != nil {
			return err
		}
		fields.DueDate = &due
	}
	if cmd.Flags().Changed("status") {
		status := task.Status(taskUpdateStatus)
		fields.Status = &status
	}
	if cmd.Flags().Changed("priority") {
		priority := task.Priority(taskUpdatePriority)
		fields.Priority = &priority
	}

	updated, err := engine.UpdateFields(cmd.Context(), args[0], fields)
	if err != nil {
		return err
	}

	fmt.Printf("Updated task %s: %s\n", updated.ID, updated.Title)
	return nil
}

func runTaskAdvance(cmd *cobra.Command, args []string) error {
	engine, err := loadedEngine(cmd)
	if err != nil {
		return err
	}

	updated, err := engine.AdvanceStatus(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Task %s is now %s\n", updated.ID, updated.Status)
	return nil
}

func runTaskCancel(cmd *cobra.Command, args []string) error {
	engine, err := loadedEngine(cmd)
	if err != nil {
		return err
	}

	updated, err := engine.Cancel(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Cancelled task %s: %s\n", updated.ID, updated.Title)
	return nil
}

func runTaskDelete(cmd *cobra.Command, args []string) error {
	engine, err := loadedEngine(cmd)
	if err != nil {
		return err
	}

	if err := engine.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Printf("Deleted task %s\n", args[0])
	return nil
}

// formatTaskTable renders view items as an aligned table. Due cells for
// overdue tasks are highlighted.
func formatTaskTable(items []task.ViewItem, now time.Time) string {
	builder := ui.NewTableBuilder([]string{"ID", "PRI", "STATUS", "DUE", "TITLE"}, len(items))
	for _, item := range items {
		due := ui.FormatDueIn(item.DueDate, now)
		if item.Overdue {
			due = ui.StyleOverdue(due)
		}
		builder.AddRow([]string{
			item.ID,
			string(item.Priority),
			ui.StyleStatus(string(item.Status)),
			due,
			ui.TruncateTableCell(item.Title),
		})
	}
	return builder.String()
}

// printTaskDetail prints detailed information about a task.
func printTaskDetail(t task.Task, now time.Time) {
	fmt.Printf("ID:       %s\n", t.ID)
	fmt.Printf("Title:    %s\n", t.Title)
	fmt.Printf("Status:   %s\n", ui.StyleStatus(string(t.Status)))
	fmt.Printf("Priority: %s\n", t.Priority)
	fmt.Printf("Due:      %s (%s)\n", ui.FormatTimestamp(t.DueDate), ui.FormatDueIn(t.DueDate, now))

	if !t.CreatedAt.IsZero() {
		fmt.Printf("Created:  %s\n", ui.FormatTimestamp(t.CreatedAt))
	}
	if !t.UpdatedAt.IsZero() {
		fmt.Printf("Updated:  %s\n", ui.FormatTimestamp(t.UpdatedAt))
	}

	if t.Description != "" {
		fmt.Printf("\n%s\n", ui.StyleHeading("Description:"))
		fmt.Println(markdown.Render(terminalWidth(), 2, t.Description))
	}
}

func findTask(tasks []task.Task, id string) *task.Task {
	for i := range tasks {
		if tasks[i].ID == id {
			return &tasks[i]
		}
	}
	return nil
}

func printJSON(value any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width < 20 {
		return 80
	}
	return width
}

// dueDateLayouts are accepted in order. A date without a time component
// means midnight local time.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDueDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	for _, layout := range dueDateLayouts {
		if layout == time.RFC3339 {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed, nil
			}
			continue
		}
		if parsed, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return parsed, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid due date %q (expected RFC3339, \"2006-01-02 15:04\", or 2006-01-02)", value)
}
