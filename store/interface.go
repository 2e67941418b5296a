package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskdeck/taskdeck/models"
)

// Record is one durable row of the completion log: the fields of a finished
// task plus its actual elapsed duration in whole seconds.
type Record struct {
	ID              int
	Description     string
	EstimateSeconds int
	StartedAt       time.Time
	FinishedAt      time.Time
	ActualSeconds   int64
}

// CompletionLog is the append-only durable record of finished tasks.
// One record per finished task, written at finish time, independent of the
// in-memory collections. Concurrent writers are not supported.
type CompletionLog interface {
	// Append writes one record for a finished task. The task must carry both
	// timestamps; Append fails otherwise without touching the log.
	Append(task models.Task) error

	// Entries reads back every record in append order. This is the only task
	// state that survives a restart.
	Entries() ([]Record, error)

	// Close releases any resources held by the log.
	Close() error
}

// Config selects and locates the completion log backend.
type Config struct {
	Driver string // "csv" (default) or "sqlite"
	Path   string
}

// ErrNotFinished is returned by Append for a task missing either timestamp.
var ErrNotFinished = errors.New("task is not finished")

// Open initializes the configured completion log backend.
func Open(cfg Config) (CompletionLog, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("completion log path is required")
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "csv":
		return NewCSVLog(cfg.Path), nil
	case "sqlite", "sqlite3":
		return openSQLiteLog(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown completion log driver: %s", cfg.Driver)
	}
}

// parseLogTimestamp reads a stored timestamp back in local time, the same
// zone it was written in.
func parseLogTimestamp(s string) (time.Time, error) {
	ts, err := time.ParseInLocation(models.TimestampFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad log timestamp %q: %w", s, err)
	}
	return ts, nil
}

// recordFromTask converts a finished task into its durable row.
func recordFromTask(task models.Task) (Record, error) {
	if task.StartedAt == nil || task.FinishedAt == nil {
		return Record{}, fmt.Errorf("task #%d: %w", task.ID, ErrNotFinished)
	}
	actual, _ := task.ActualDuration()
	return Record{
		ID:              task.ID,
		Description:     task.Description,
		EstimateSeconds: task.EstimateSeconds,
		StartedAt:       *task.StartedAt,
		FinishedAt:      *task.FinishedAt,
		ActualSeconds:   int64(actual.Seconds()),
	}, nil
}
