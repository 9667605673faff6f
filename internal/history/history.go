// Package history keeps an append-only ledger of processing runs in a
// local SQLite database. Records are never updated or deleted; the
// ledger exists so `toolcrate history` can answer "what happened on the
// last scheduled run" without digging through cron logs.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/toolcrate/toolcrate/internal/queue"
)

const schema = `
CREATE TABLE IF NOT EXISTS run_entries (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	run_at    TIMESTAMP NOT NULL,
	profile   TEXT NOT NULL,
	entry     TEXT NOT NULL,
	outcome   TEXT NOT NULL,
	detail    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_run_entries_run_at ON run_entries(run_at);
`

// Record is one ledger row: the outcome of one entry in one run.
type Record struct {
	ID      int64
	RunAt   time.Time
	Profile string
	Entry   string
	Outcome string
	Detail  string
}

// Store wraps the ledger database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the ledger database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordRun appends one row per outcome of the finished run.
func (s *Store) RecordRun(ctx context.Context, profile string, runAt time.Time, res *queue.RunResult) error {
	if len(res.Outcomes) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO run_entries (run_at, profile, entry, outcome, detail) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	defer stmt.Close()

	for _, o := range res.Outcomes {
		outcome, detail := "success", ""
		if o.Err != nil {
			outcome, detail = "failure", o.Err.Error()
		}
		if _, err := stmt.ExecContext(ctx, runAt.UTC(), profile, o.Entry.Text, outcome, detail); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Recent returns the newest records, newest first, up to limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, run_at, profile, entry, outcome, detail FROM run_entries ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.RunAt, &r.Profile, &r.Entry, &r.Outcome, &r.Detail); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
