package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/taskdeck/taskdeck/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS completions (
	task_id     INTEGER NOT NULL,
	description TEXT    NOT NULL,
	estimate_s  INTEGER NOT NULL,
	started_at  TEXT    NOT NULL,
	finished_at TEXT    NOT NULL,
	actual_s    INTEGER NOT NULL
);
`

// sqliteLog implements CompletionLog on a single-table SQLite database. The
// table is append-only; rows are never updated or deleted.
type sqliteLog struct {
	db *sql.DB
}

func openSQLiteLog(path string) (CompletionLog, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open completion log db %s: %w", path, err)
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate completion log db: %w", err)
	}
	return &sqliteLog{db: db}, nil
}

func (l *sqliteLog) Append(task models.Task) error {
	rec, err := recordFromTask(task)
	if err != nil {
		return err
	}
	_, err = l.db.Exec(
		`INSERT INTO completions(task_id, description, estimate_s, started_at, finished_at, actual_s)
		 VALUES(?,?,?,?,?,?)`,
		rec.ID, rec.Description, rec.EstimateSeconds,
		rec.StartedAt.Format(models.TimestampFormat),
		rec.FinishedAt.Format(models.TimestampFormat),
		rec.ActualSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to append completion row: %w", err)
	}
	return nil
}

func (l *sqliteLog) Entries() ([]Record, error) {
	rows, err := l.db.Query(
		`SELECT task_id, description, estimate_s, started_at, finished_at, actual_s
		 FROM completions ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("failed to read completion rows: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		var rec Record
		var started, finished string
		if err := rows.Scan(&rec.ID, &rec.Description, &rec.EstimateSeconds, &started, &finished, &rec.ActualSeconds); err != nil {
			return nil, fmt.Errorf("failed to scan completion row: %w", err)
		}
		if rec.StartedAt, err = parseLogTimestamp(started); err != nil {
			return nil, err
		}
		if rec.FinishedAt, err = parseLogTimestamp(finished); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completion rows: %w", err)
	}
	return records, nil
}

func (l *sqliteLog) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}
