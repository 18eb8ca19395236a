// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records every conversion attempt in a SQLite database so
// past runs can be listed, summarized and exported.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/vectorconv/pkg/types"
)

// Entry is one recorded conversion.
type Entry struct {
	ID         int64     `json:"id" yaml:"id"`
	RunID      string    `json:"run_id" yaml:"run_id"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at"`
	Kind       string    `json:"kind" yaml:"kind"`
	Input      string    `json:"input" yaml:"input"`
	Output     string    `json:"output" yaml:"output"`
	Engine     string    `json:"engine,omitempty" yaml:"engine,omitempty"`
	Status     string    `json:"status" yaml:"status"`
	Error      string    `json:"error,omitempty" yaml:"error,omitempty"`
	Bytes      int64     `json:"bytes" yaml:"bytes"`
	DurationMS int64     `json:"duration_ms" yaml:"duration_ms"`
}

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Kind   types.Kind
	Status types.Status
	RunID  string
	Limit  int
}

// KindSummary counts the recorded outcomes of one conversion kind.
type KindSummary struct {
	Kind      string `json:"kind" yaml:"kind"`
	Converted int    `json:"converted" yaml:"converted"`
	Skipped   int    `json:"skipped" yaml:"skipped"`
	Failed    int    `json:"failed" yaml:"failed"`
	Bytes     int64  `json:"bytes" yaml:"bytes"`
}

// Store manages the history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the history database at path, creating its
// directory and schema when missing.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			kind TEXT NOT NULL,
			input TEXT NOT NULL,
			output TEXT,
			engine TEXT,
			status TEXT NOT NULL,
			error TEXT,
			bytes INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_run_id ON conversions(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_kind ON conversions(kind)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_status ON conversions(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record stores r under runID.
func (s *Store) Record(ctx context.Context, runID string, r types.Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversions (run_id, created_at, kind, input, output, engine, status, error, bytes, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		runID,
		s.now().UTC().Format(time.RFC3339Nano),
		string(r.Kind),
		r.Input,
		r.Output,
		r.Engine,
		string(r.Status),
		r.Error(),
		r.Bytes,
		r.Duration.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("inserting conversion: %w", err)
	}
	return nil
}

// List returns the entries matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		where []string
		args  []any
	)
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.RunID != "" {
		where = append(where, "run_id = ?")
		args = append(args, f.RunID)
	}

	query := `SELECT id, run_id, created_at, kind, input, output, engine, status, error, bytes, duration_ms
		FROM conversions`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                      Entry
			created                string
			output, engine, errMsg sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.RunID, &created, &e.Kind, &e.Input, &output, &engine,
			&e.Status, &errMsg, &e.Bytes, &e.DurationMS); err != nil {
			return nil, fmt.Errorf("scanning conversion: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		e.Output = output.String
		e.Engine = engine.String
		e.Error = errMsg.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summary returns outcome counts per conversion kind.
func (s *Store) Summary(ctx context.Context) ([]KindSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind,
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
			SUM(bytes)
		FROM conversions
		GROUP BY kind
		ORDER BY kind`,
		string(types.StatusConverted), string(types.StatusSkipped), string(types.StatusFailed))
	if err != nil {
		return nil, fmt.Errorf("summarizing conversions: %w", err)
	}
	defer rows.Close()

	var out []KindSummary
	for rows.Next() {
		var k KindSummary
		if err := rows.Scan(&k.Kind, &k.Converted, &k.Skipped, &k.Failed, &k.Bytes); err != nil {
			return nil, fmt.Errorf("scanning summary: %w", err)
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
