package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gofrs/flock"

	"github.com/taskdeck/taskdeck/models"
)

// csvHeader is written once when the log file is newly created or empty.
var csvHeader = []string{
	"ID",
	"Description",
	"Estimated Duration (sec)",
	"Start Time",
	"Finish Time",
	"Actual Duration (sec)",
}

// CSVLog implements CompletionLog on an append-only CSV file. The file is
// opened in append mode on each write, never held open across calls, and
// guarded by a file lock.
type CSVLog struct {
	path string
	flk  *flock.Flock
}

// NewCSVLog creates a CSV-backed completion log at the given path. The file
// itself is created lazily on the first append.
func NewCSVLog(path string) *CSVLog {
	return &CSVLog{
		path: path,
		flk:  flock.New(path + ".lock"),
	}
}

// Append writes one row for the finished task, preceded by the header row if
// the file is new or empty. The write is flushed before Append returns.
func (l *CSVLog) Append(task models.Task) error {
	rec, err := recordFromTask(task)
	if err != nil {
		return err
	}

	// The lock file lives next to the data file, so the directory has to
	// exist before the lock can be taken.
	if err := l.ensureDir(); err != nil {
		return err
	}

	if err := l.flk.Lock(); err != nil {
		return fmt.Errorf("could not lock completion log: %w", err)
	}
	defer func() { _ = l.flk.Unlock() }()

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open completion log %s: %w", l.path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat completion log %s: %w", l.path, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(csvHeader); err != nil {
			return fmt.Errorf("failed to write completion log header: %w", err)
		}
	}
	if err := w.Write(rowFromRecord(rec)); err != nil {
		return fmt.Errorf("failed to write completion log row: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush completion log: %w", err)
	}
	return nil
}

// Entries reads back every logged record in append order. A missing file
// yields an empty slice, not an error.
func (l *CSVLog) Entries() ([]Record, error) {
	if err := l.ensureDir(); err != nil {
		return nil, err
	}

	if err := l.flk.Lock(); err != nil {
		return nil, fmt.Errorf("could not lock completion log: %w", err)
	}
	defer func() { _ = l.flk.Unlock() }()

	f, err := os.Open(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("failed to open completion log %s: %w", l.path, err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(csvHeader)

	records := []Record{}
	first := true
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read completion log %s: %w", l.path, err)
		}
		if first {
			first = false
			if row[0] == csvHeader[0] {
				continue
			}
		}
		rec, err := recordFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("malformed completion log row in %s: %w", l.path, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (l *CSVLog) ensureDir() error {
	dir := filepath.Dir(l.path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}
	return nil
}

// Close releases the file lock. The data file is never held open.
func (l *CSVLog) Close() error {
	if l.flk != nil {
		return l.flk.Unlock()
	}
	return nil
}

func rowFromRecord(rec Record) []string {
	return []string{
		strconv.Itoa(rec.ID),
		rec.Description,
		strconv.Itoa(rec.EstimateSeconds),
		rec.StartedAt.Format(models.TimestampFormat),
		rec.FinishedAt.Format(models.TimestampFormat),
		strconv.FormatInt(rec.ActualSeconds, 10),
	}
}

func recordFromRow(row []string) (Record, error) {
	id, err := strconv.Atoi(row[0])
	if err != nil {
		return Record{}, fmt.Errorf("bad id %q: %w", row[0], err)
	}
	estimate, err := strconv.Atoi(row[2])
	if err != nil {
		return Record{}, fmt.Errorf("bad estimate %q: %w", row[2], err)
	}
	started, err := parseLogTimestamp(row[3])
	if err != nil {
		return Record{}, err
	}
	finished, err := parseLogTimestamp(row[4])
	if err != nil {
		return Record{}, err
	}
	actual, err := strconv.ParseInt(row[5], 10, 64)
	if err != nil {
		return Record{}, fmt.Errorf("bad actual duration %q: %w", row[5], err)
	}
	return Record{
		ID:              id,
		Description:     row[1],
		EstimateSeconds: estimate,
		StartedAt:       started,
		FinishedAt:      finished,
		ActualSeconds:   actual,
	}, nil
}
