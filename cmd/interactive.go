package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/taskdeck/taskdeck/internal/ui"
	"github.com/taskdeck/taskdeck/models"
	"github.com/taskdeck/taskdeck/scheduler"
)

// errExitSession signals a normal exit from the menu loop.
var errExitSession = errors.New("exit session")

// MenuItem represents a menu option
type MenuItem struct {
	Label       string
	Description string
	Action      func() error
}

// runInteractiveSession drives the menu loop. The scheduler lives for the
// whole session: staged and active tasks are in-memory only, and the durable
// completion log is the single thing that outlasts the process.
func runInteractiveSession() error {
	log, err := GetCompletionLog()
	if err != nil {
		return err
	}
	defer func() { _ = log.Close() }()

	sched := scheduler.New(log)

	fmt.Println("Welcome to taskdeck.")
	fmt.Println("Use arrow keys to navigate, Enter to select, and Ctrl+C to exit.")
	fmt.Println()

	for runMenu(sched) {
		// Continue until the user chooses to exit.
	}

	fmt.Println("Goodbye!")
	return nil
}

// runMenu displays the main menu once and handles the selected action.
// It returns false when the session should end.
func runMenu(sched *scheduler.Scheduler) bool {
	staged, active, finished := sched.Counts()

	menuItems := []MenuItem{
		{
			Label:       "Add Task",
			Description: "Stage a new unit of work with a duration estimate",
			Action:      func() error { return handleAddTask(sched) },
		},
		{
			Label:       fmt.Sprintf("Start Task (%d staged)", staged),
			Description: "Pick a staged task and begin working on it",
			Action:      func() error { return handleStartTask(sched) },
		},
		{
			Label:       fmt.Sprintf("Finish Task (%d active)", active),
			Description: "Mark an active task finished and log it",
			Action:      func() error { return handleFinishTask(sched) },
		},
		{
			Label:       fmt.Sprintf("View Staged (%d)", staged),
			Description: "List tasks waiting to be started",
			Action:      func() error { return handleViewTasks("Staged Tasks", sched.Staged()) },
		},
		{
			Label:       fmt.Sprintf("View Active (%d)", active),
			Description: "List tasks currently in progress",
			Action:      func() error { return handleViewTasks("Active Tasks", sched.Active()) },
		},
		{
			Label:       fmt.Sprintf("View Finished (%d)", finished),
			Description: "List tasks completed this session",
			Action:      func() error { return handleViewTasks("Finished Tasks", sched.Finished()) },
		},
		{
			Label:       "Completed Report",
			Description: "Show finished tasks with their actual durations",
			Action:      func() error { return handleCompletedReport(sched) },
		},
		{
			Label:       "Exit",
			Description: "Leave the session (staged and active tasks are discarded)",
			Action:      func() error { return errExitSession },
		},
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ .Label | cyan }}",
		Inactive: "  {{ .Label | white }}",
		Selected: "> {{ .Label | green }}",
		Details: `
{{ "Description:" | faint }} {{ .Description }}`,
	}

	prompt := promptui.Select{
		Label:     "What would you like to do?",
		Items:     menuItems,
		Templates: templates,
		Size:      len(menuItems),
	}

	i, _, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			return false
		}
		fmt.Printf("Selection error: %v\n", err)
		return false
	}

	if err := menuItems[i].Action(); err != nil {
		if errors.Is(err, errExitSession) {
			return false
		}
		fmt.Printf("Error: %v\n", err)
	}
	return true
}

// handleAddTask prompts for a description and an estimate. All parsing and
// input validation of the raw text happens here; the scheduler only ever
// sees a (description, estimate) pair.
func handleAddTask(sched *scheduler.Scheduler) error {
	descPrompt := promptui.Prompt{
		Label: "Task description",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("description must not be empty")
			}
			return nil
		},
	}
	description, err := descPrompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			return nil
		}
		return err
	}

	// The estimate is stored as an opaque number of seconds; any integer is
	// accepted, only non-numbers are rejected.
	estimatePrompt := promptui.Prompt{
		Label: "Estimated duration (seconds)",
		Validate: func(input string) error {
			if _, err := strconv.Atoi(strings.TrimSpace(input)); err != nil {
				return fmt.Errorf("estimate must be a whole number of seconds")
			}
			return nil
		},
	}
	rawEstimate, err := estimatePrompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			return nil
		}
		return err
	}
	estimate, _ := strconv.Atoi(strings.TrimSpace(rawEstimate))

	task := sched.AddTask(strings.TrimSpace(description), estimate)
	fmt.Printf("Added task [#%d] to staged tasks.\n", task.ID)
	return nil
}

// handleStartTask selects a staged task and starts it.
func handleStartTask(sched *scheduler.Scheduler) error {
	task, err := selectTask(sched.Staged(), "Select task to start")
	if err != nil {
		if errors.Is(err, errNoTasks) {
			fmt.Println("No staged tasks to start.")
			return nil
		}
		return err
	}
	if task == nil {
		return nil // cancelled
	}

	started, err := sched.StartTask(task.ID)
	if err != nil {
		if errors.Is(err, scheduler.ErrTaskNotFound) {
			fmt.Printf("Task [#%d] not found in staged tasks.\n", task.ID)
			return nil
		}
		return err
	}
	fmt.Printf("Started task [#%d].\n", started.ID)
	return nil
}

// handleFinishTask selects an active task, finishes it, and reports the log
// append outcome. A failed append is a warning: the transition itself has
// already committed.
func handleFinishTask(sched *scheduler.Scheduler) error {
	task, err := selectTask(sched.Active(), "Select task to finish")
	if err != nil {
		if errors.Is(err, errNoTasks) {
			fmt.Println("No active tasks to finish.")
			return nil
		}
		return err
	}
	if task == nil {
		return nil // cancelled
	}

	finished, err := sched.FinishTask(task.ID)
	if err != nil {
		if errors.Is(err, scheduler.ErrTaskNotFound) {
			fmt.Printf("Task [#%d] not found in active tasks.\n", task.ID)
			return nil
		}
		if errors.Is(err, scheduler.ErrLogAppend) {
			fmt.Printf("Finished task [#%d].\n", finished.ID)
			fmt.Printf("Warning: could not write the completion log: %v\n", err)
			return nil
		}
		return err
	}
	fmt.Printf("Finished task [#%d].\n", finished.ID)
	return nil
}

func handleViewTasks(title string, tasks []models.Task) error {
	fmt.Println(ui.RenderTaskList(title, tasks))
	return nil
}

func handleCompletedReport(sched *scheduler.Scheduler) error {
	lines := sched.CompletedReport()
	fmt.Printf("--- Finished Tasks Log (%d) ---\n", len(lines))
	if len(lines) == 0 {
		fmt.Println("(none)")
		return nil
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

// errNoTasks is returned by selectTask when the collection is empty.
var errNoTasks = errors.New("no tasks available")

// selectTask presents a prompt to pick one task from the given collection.
// It returns (nil, nil) when the user cancels.
func selectTask(tasks []models.Task, label string) (*models.Task, error) {
	if len(tasks) == 0 {
		return nil, errNoTasks
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> #{{ .ID | cyan }} {{ .Description | cyan }} ({{ .Status }})",
		Inactive: "  #{{ .ID }} {{ .Description | faint }} ({{ .Status | faint }})",
		Selected: "> #{{ .ID }} {{ .Description | green }}",
		Details: `
{{ "ID:" | faint }} {{ .ID }}
{{ "Status:" | faint }} {{ .Status }}
{{ "Estimate (sec):" | faint }} {{ .EstimateSeconds }}`,
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     tasks,
		Templates: templates,
		Size:      10,
	}

	i, _, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			return nil, nil
		}
		return nil, err
	}
	return &tasks[i], nil
}
