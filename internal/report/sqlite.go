// Package report exports job results to a SQLite database so they can be
// queried after the run.
package report

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/agentic-research/gmextract/internal/jobs"
	_ "modernc.org/sqlite"
)

// Row kinds stored in job_results.kind.
const (
	KindLine  = "line"
	KindEntry = "entry"
)

// SQLiteWriter implements jobs.ResultSink.
type SQLiteWriter struct {
	db   *sql.DB
	stmt *sql.Stmt
	mu   sync.Mutex
}

// NewSQLiteWriter replaces any database at dbPath with a fresh one.
func NewSQLiteWriter(dbPath string) (*SQLiteWriter, error) {
	if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("remove old report %s: %w", dbPath, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = MEMORY"); err != nil {
		_ = db.Close()
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS job_results (
		job TEXT NOT NULL,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		name TEXT,
		description TEXT,
		line TEXT,
		PRIMARY KEY (job, seq)
	);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	stmt, err := db.Prepare(`
		INSERT OR REPLACE INTO job_results (job, seq, kind, name, description, line)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &SQLiteWriter{db: db, stmt: stmt}, nil
}

// WriteResult stores one result in a single transaction, replacing earlier
// rows of the same job.
func (w *SQLiteWriter) WriteResult(r jobs.Result) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	tx, err := w.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if _, err := tx.Exec(`DELETE FROM job_results WHERE job = ?`, r.Job); err != nil {
		return fmt.Errorf("clear %s: %w", r.Job, err)
	}

	stmt := tx.Stmt(w.stmt)
	if r.Layout == jobs.Pairs {
		for i, e := range r.Entries {
			if _, err := stmt.Exec(r.Job, i, KindEntry, e.Name, e.Description, nil); err != nil {
				return fmt.Errorf("insert %s #%d: %w", r.Job, i, err)
			}
		}
	} else {
		for i, line := range r.Lines {
			if _, err := stmt.Exec(r.Job, i, KindLine, nil, nil, line); err != nil {
				return fmt.Errorf("insert %s #%d: %w", r.Job, i, err)
			}
		}
	}
	return tx.Commit()
}

// Close releases the database.
func (w *SQLiteWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stmt != nil {
		_ = w.stmt.Close()
	}
	return w.db.Close()
}

var _ jobs.ResultSink = (*SQLiteWriter)(nil)
