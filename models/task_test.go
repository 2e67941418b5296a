package models

import (
	"strings"
	"testing"
	"time"
)

func TestTask_ValidateStruct(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
	}{
		{
			name:    "valid staged task",
			task:    NewTask(1, "Write report", 3600),
			wantErr: false,
		},
		{
			name: "empty description",
			task: Task{
				ID:        2,
				Status:    StatusStaged,
				CreatedAt: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "id below one",
			task: Task{
				ID:          0,
				Description: "Sweep the floor",
				Status:      StatusStaged,
				CreatedAt:   time.Now(),
			},
			wantErr: true,
		},
		{
			name: "invalid status",
			task: Task{
				ID:          3,
				Description: "Valid description",
				Status:      "paused",
				CreatedAt:   time.Now(),
			},
			wantErr: true,
		},
		{
			// The estimate is an opaque integer; negative values must pass.
			name:    "negative estimate accepted",
			task:    NewTask(4, "Untimed chore", -5),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.task)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateStruct() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewTask_StartsStaged(t *testing.T) {
	task := NewTask(1, "Write report", 3600)

	if task.Status != StatusStaged {
		t.Errorf("Status = %q, want %q", task.Status, StatusStaged)
	}
	if task.StartedAt != nil || task.FinishedAt != nil {
		t.Error("timestamps must be unset on a new task")
	}
	if task.CreatedAt.IsZero() {
		t.Error("CreatedAt must be stamped on creation")
	}
	if task.EstimateSeconds != 3600 {
		t.Errorf("EstimateSeconds = %d, want 3600", task.EstimateSeconds)
	}
}

func TestTask_MarkActiveThenFinished(t *testing.T) {
	task := NewTask(1, "Write report", 60)

	task.MarkActive()
	if task.Status != StatusActive {
		t.Errorf("Status = %q, want %q", task.Status, StatusActive)
	}
	if task.StartedAt == nil {
		t.Fatal("StartedAt must be set after MarkActive")
	}
	if task.StartedAt.Before(task.CreatedAt) {
		t.Error("StartedAt must not precede CreatedAt")
	}
	if task.FinishedAt != nil {
		t.Error("FinishedAt must stay unset while active")
	}

	task.MarkFinished()
	if task.Status != StatusFinished {
		t.Errorf("Status = %q, want %q", task.Status, StatusFinished)
	}
	if task.FinishedAt == nil {
		t.Fatal("FinishedAt must be set after MarkFinished")
	}
	if task.FinishedAt.Before(*task.StartedAt) {
		t.Error("FinishedAt must not precede StartedAt")
	}

	d, ok := task.ActualDuration()
	if !ok {
		t.Fatal("ActualDuration must be available on a finished task")
	}
	if d < 0 {
		t.Errorf("ActualDuration = %v, want non-negative", d)
	}
}

func TestTask_ActualDuration_Unset(t *testing.T) {
	task := NewTask(1, "Write report", 60)
	if _, ok := task.ActualDuration(); ok {
		t.Error("ActualDuration must report unavailable before the task is finished")
	}

	task.MarkActive()
	if _, ok := task.ActualDuration(); ok {
		t.Error("ActualDuration must report unavailable before the task is finished")
	}
}

func TestTask_Describe(t *testing.T) {
	task := NewTask(7, "Write report", 3600)
	out := task.Describe()

	for _, want := range []string{"[#7]", "Write report", "staged", "3600s"} {
		if !strings.Contains(out, want) {
			t.Errorf("Describe() = %q, missing %q", out, want)
		}
	}
	if strings.Contains(out, "started:") {
		t.Errorf("Describe() = %q, must not mention a start time on a staged task", out)
	}

	task.MarkActive()
	task.MarkFinished()
	out = task.Describe()
	if !strings.Contains(out, "started:") || !strings.Contains(out, "finished:") {
		t.Errorf("Describe() = %q, want both timestamps on a finished task", out)
	}
}
