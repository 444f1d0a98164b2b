// ABOUTME: SQLite database layer for push run history.
// ABOUTME: Stores one row per run and supports filtered queries.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite handle and exposes helpers for persistence operations.
type Store struct {
	sql *sql.DB
}

// RunRecord mirrors the runs table schema.
type RunRecord struct {
	ID         int64     `json:"id"`
	RepoPath   string    `json:"repo_path"`
	Message    string    `json:"message"`
	Outcome    string    `json:"outcome"`
	Completed  []string  `json:"completed"`
	FailedStep string    `json:"failed_step,omitempty"`
	Command    string    `json:"command,omitempty"`
	ExitCode   int       `json:"exit_code"`
	Stdout     string    `json:"stdout,omitempty"`
	Stderr     string    `json:"stderr,omitempty"`
	AuthHint   bool      `json:"auth_hint"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// RunQuery filters QueryRuns. Zero values disable a filter.
type RunQuery struct {
	Limit   int
	Since   *time.Time
	Search  string
	Outcome string
}

// Open creates (if necessary) and opens the SQLite database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("database path is empty")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("configuring sqlite: %w", err)
	}

	store := &Store{sql: conn}
	if err := store.migrate(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return store, nil
}

// Close releases the underlying SQL handle.
func (s *Store) Close() error {
	if s == nil || s.sql == nil {
		return nil
	}
	return s.sql.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
            id INTEGER PRIMARY KEY,
            repo_path TEXT NOT NULL,
            message TEXT NOT NULL DEFAULT '',
            outcome TEXT NOT NULL,
            completed TEXT NOT NULL DEFAULT '',
            failed_step TEXT,
            command TEXT,
            exit_code INTEGER DEFAULT 0,
            stdout TEXT,
            stderr TEXT,
            auth_hint INTEGER DEFAULT 0,
            started_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            finished_at DATETIME DEFAULT CURRENT_TIMESTAMP
        );`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_outcome ON runs(outcome);`,
	}

	for _, stmt := range stmts {
		if _, err := s.sql.Exec(stmt); err != nil {
			return fmt.Errorf("running migration: %w", err)
		}
	}

	return nil
}

// LogRun persists a run and returns its row ID.
func (s *Store) LogRun(ctx context.Context, rec RunRecord) (int64, error) {
	if s == nil || s.sql == nil {
		return 0, errors.New("database not initialized")
	}
	if rec.Outcome == "" {
		return 0, errors.New("run outcome is empty")
	}

	started := rec.StartedAt
	if started.IsZero() {
		started = time.Now()
	}
	finished := rec.FinishedAt
	if finished.IsZero() {
		finished = started
	}

	res, err := s.sql.ExecContext(ctx,
		`INSERT INTO runs (
            repo_path, message, outcome, completed, failed_step, command,
            exit_code, stdout, stderr, auth_hint, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
		rec.RepoPath,
		rec.Message,
		rec.Outcome,
		strings.Join(rec.Completed, ","),
		rec.FailedStep,
		rec.Command,
		rec.ExitCode,
		rec.Stdout,
		rec.Stderr,
		boolToInt(rec.AuthHint),
		started.UTC(),
		finished.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// QueryRuns returns persisted runs, newest first, applying the optional filters.
func (s *Store) QueryRuns(ctx context.Context, q RunQuery) ([]RunRecord, error) {
	if s == nil || s.sql == nil {
		return nil, errors.New("database not initialized")
	}
	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}

	clauses := []string{"1=1"}
	args := []interface{}{}

	if q.Since != nil && !q.Since.IsZero() {
		clauses = append(clauses, "started_at >= ?")
		args = append(args, q.Since.UTC())
	}

	if q.Search != "" {
		like := fmt.Sprintf("%%%s%%", q.Search)
		clauses = append(clauses, "(repo_path LIKE ? OR message LIKE ?)")
		args = append(args, like, like)
	}

	if q.Outcome != "" {
		clauses = append(clauses, "outcome = ?")
		args = append(args, q.Outcome)
	}

	query := fmt.Sprintf(`SELECT id, repo_path, message, outcome, completed,
            failed_step, command, exit_code, stdout, stderr, auth_hint,
            started_at, finished_at
        FROM runs
        WHERE %s
        ORDER BY started_at DESC, id DESC
        LIMIT ?;`, strings.Join(clauses, " AND "))
	args = append(args, limit)

	rows, err := s.sql.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []RunRecord
	for rows.Next() {
		var rec RunRecord
		var completed string
		var failedStep, command, stdout, stderr sql.NullString
		var authHint int
		if err := rows.Scan(
			&rec.ID,
			&rec.RepoPath,
			&rec.Message,
			&rec.Outcome,
			&completed,
			&failedStep,
			&command,
			&rec.ExitCode,
			&stdout,
			&stderr,
			&authHint,
			&rec.StartedAt,
			&rec.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		rec.Completed = splitSteps(completed)
		rec.FailedStep = failedStep.String
		rec.Command = command.String
		rec.Stdout = stdout.String
		rec.Stderr = stderr.String
		rec.AuthHint = authHint == 1
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}

	return results, nil
}

func splitSteps(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, ",")
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
