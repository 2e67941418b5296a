package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// TaskStatus represents the lifecycle stage a task currently occupies.
type TaskStatus string

const (
	StatusStaged   TaskStatus = "staged"
	StatusActive   TaskStatus = "active"
	StatusFinished TaskStatus = "finished"
)

// Task represents one unit of work and its timing.
//
// ID and Description are immutable after creation. EstimateSeconds is an
// opaque integer supplied by the caller; no unit conversion is ever applied
// to it. StartedAt and FinishedAt are nil until the corresponding transition
// stamps them, and each is set exactly once.
type Task struct {
	ID              int        `json:"id" validate:"required,min=1"`
	Description     string     `json:"description" validate:"required"`
	EstimateSeconds int        `json:"estimateSeconds"`
	Status          TaskStatus `json:"status" validate:"required,oneof=staged active finished"`
	CreatedAt       time.Time  `json:"createdAt" validate:"required"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
}

// NewTask creates a staged task. The id is assigned by the owning scheduler,
// never chosen by the caller. The estimate is accepted as-is; zero or
// negative values are not rejected here.
func NewTask(id int, description string, estimateSeconds int) Task {
	return Task{
		ID:              id,
		Description:     description,
		EstimateSeconds: estimateSeconds,
		Status:          StatusStaged,
		CreatedAt:       time.Now(),
	}
}

// MarkActive stamps the start time and moves the task to the active status.
// Callers must only invoke this on a staged task; a second invocation would
// overwrite StartedAt.
func (t *Task) MarkActive() {
	now := time.Now()
	t.Status = StatusActive
	t.StartedAt = &now
}

// MarkFinished stamps the finish time and moves the task to the finished
// status. Same single-invocation contract as MarkActive.
func (t *Task) MarkFinished() {
	now := time.Now()
	t.Status = StatusFinished
	t.FinishedAt = &now
}

// ActualDuration returns FinishedAt-StartedAt. The second return is false
// until both timestamps are set.
func (t *Task) ActualDuration() (time.Duration, bool) {
	if t.StartedAt == nil || t.FinishedAt == nil {
		return 0, false
	}
	return t.FinishedAt.Sub(*t.StartedAt), true
}

// TimestampFormat is the layout used everywhere a task timestamp is shown or
// logged, in local time.
const TimestampFormat = "2006-01-02 15:04:05"

// Describe renders all fields as a single human-readable line. Pure, no side
// effects.
func (t *Task) Describe() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[#%d] %s | status: %s | estimate: %ds", t.ID, t.Description, t.Status, t.EstimateSeconds)
	if t.StartedAt != nil {
		fmt.Fprintf(&sb, " | started: %s", t.StartedAt.Format(TimestampFormat))
	}
	if t.FinishedAt != nil {
		fmt.Fprintf(&sb, " | finished: %s", t.FinishedAt.Format(TimestampFormat))
	}
	return sb.String()
}

// global validator instance
var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ValidateStruct performs validation on any struct that has validation tags.
func ValidateStruct(s interface{}) error {
	if validate == nil {
		// Safeguard for tests running in isolation.
		validate = validator.New()
	}
	err := validate.Struct(s)
	if err != nil {
		validationErrors := err.(validator.ValidationErrors)
		var errorMessages []string
		for _, e := range validationErrors {
			errorMessages = append(errorMessages, fmt.Sprintf("Validation failed on field '%s': rule '%s' (value: '%v')", e.StructNamespace(), e.Tag(), e.Value()))
		}
		return fmt.Errorf("%s", strings.Join(errorMessages, "; "))
	}
	return nil
}
