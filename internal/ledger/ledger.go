// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger keeps an audit trail of import runs in SQLite: which run
// wrote which file with which title. It never influences what is written.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pubimport/pkg/types"
)

// FileName is the ledger database name inside the publications directory.
const FileName = ".pubimport.db"

// Store manages the ledger database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Run is one invocation of an importer.
type Run struct {
	ID         string
	Source     string
	Identifier string
	StartedAt  time.Time
	FinishedAt time.Time
	Written    int
}

// Entry is the latest known state of one output file.
type Entry struct {
	Path      string
	Title     string
	Year      int
	Source    string
	RunID     string
	UpdatedAt time.Time
}

// Collision is an output path that has held more than one title.
type Collision struct {
	Path   string
	Titles []string
}

// Open opens or creates the ledger database at path, creating its parent
// directory and schema as needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			identifier TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			written INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS writes (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			path TEXT NOT NULL,
			title TEXT NOT NULL,
			year INTEGER NOT NULL,
			source TEXT,
			written_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_writes_path ON writes(path)`,
		`CREATE TABLE IF NOT EXISTS files (
			path TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			year INTEGER NOT NULL,
			source TEXT,
			run_id TEXT NOT NULL REFERENCES runs(id),
			updated_at TEXT NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun records the start of an import and returns its run.
func (s *Store) BeginRun(ctx context.Context, source, identifier string) (Run, error) {
	run := Run{
		ID:         uuid.NewString(),
		Source:     source,
		Identifier: identifier,
		StartedAt:  s.now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, source, identifier, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Source, run.Identifier, formatTime(run.StartedAt))
	if err != nil {
		return Run{}, fmt.Errorf("inserting run: %w", err)
	}
	return run, nil
}

// FinishRun stamps run as finished with the number of records written.
func (s *Store) FinishRun(ctx context.Context, run Run, written int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, written = ? WHERE id = ?`,
		formatTime(s.now().UTC()), written, run.ID)
	if err != nil {
		return fmt.Errorf("finishing run %s: %w", run.ID, err)
	}
	return nil
}

// Recorder returns a publication recorder that attributes writes to run.
func (s *Store) Recorder(run Run) *RunRecorder {
	return &RunRecorder{store: s, run: run}
}

// RunRecorder logs each written file against one run.
type RunRecorder struct {
	store *Store
	run   Run
}

// Record appends the write to the history and updates the file's latest state.
func (r *RunRecorder) Record(ctx context.Context, path string, p types.Publication) error {
	ts := formatTime(r.store.now().UTC())

	tx, err := r.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO writes (run_id, path, title, year, source, written_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.run.ID, path, p.Title, p.Year, p.Source, ts); err != nil {
		return fmt.Errorf("inserting write: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO files (path, title, year, source, run_id, updated_at) VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET
			title = excluded.title, year = excluded.year, source = excluded.source,
			run_id = excluded.run_id, updated_at = excluded.updated_at`,
		path, p.Title, p.Year, p.Source, r.run.ID, ts); err != nil {
		return fmt.Errorf("upserting file: %w", err)
	}
	return tx.Commit()
}

// Entries returns the latest state of every recorded file, ordered by path.
func (s *Store) Entries(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, title, year, COALESCE(source, ''), run_id, updated_at FROM files ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("querying files: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var updated string
		if err := rows.Scan(&e.Path, &e.Title, &e.Year, &e.Source, &e.RunID, &updated); err != nil {
			return nil, fmt.Errorf("scanning file row: %w", err)
		}
		e.UpdatedAt = parseTime(updated)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Runs returns every recorded run, most recent first.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, identifier, started_at, COALESCE(finished_at, ''), written
		 FROM runs ORDER BY started_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Source, &r.Identifier, &started, &finished, &r.Written); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		r.StartedAt = parseTime(started)
		r.FinishedAt = parseTime(finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Collisions returns every path that has been written with more than one
// distinct title, across all runs.
func (s *Store) Collisions(ctx context.Context) ([]Collision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path, title FROM writes
		 WHERE path IN (SELECT path FROM writes GROUP BY path HAVING COUNT(DISTINCT title) > 1)
		 GROUP BY path, title
		 ORDER BY path, MIN(rowid)`)
	if err != nil {
		return nil, fmt.Errorf("querying collisions: %w", err)
	}
	defer rows.Close()

	byPath := make(map[string][]string)
	for rows.Next() {
		var path, title string
		if err := rows.Scan(&path, &title); err != nil {
			return nil, fmt.Errorf("scanning collision row: %w", err)
		}
		byPath[path] = append(byPath[path], title)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(byPath))
	for p := range byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]Collision, 0, len(paths))
	for _, p := range paths {
		out = append(out, Collision{Path: p, Titles: byPath[p]})
	}
	return out, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	if strings.TrimSpace(s) == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
