// Package store persists an audit trail of diagnostic invocations in SQLite.
// It sits outside the collector data path: records returned to callers never
// depend on it.
package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is a SQLite-backed invocation log.
type Store struct{ db *sql.DB }

//go:embed migrations/*.sql
var migrationFS embed.FS

// Invocation is one logged collector call.
type Invocation struct {
	ID         int64
	Tool       string
	Code       int
	Message    string
	Records    int
	DurationMS int64
	CreatedAt  time.Time
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema, err := migrationFS.ReadFile("migrations/0001_init.sql")
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// RecordInvocation appends one invocation to the log.
func (s *Store) RecordInvocation(ctx context.Context, inv Invocation) error {
	created := inv.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (tool, code, message, records, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		inv.Tool, inv.Code, inv.Message, inv.Records, inv.DurationMS, created.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

// Recent returns the newest invocations, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Invocation, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, tool, code, message, records, duration_ms, created_at
		 FROM invocations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()
	var out []Invocation
	for rows.Next() {
		var inv Invocation
		var created string
		if err := rows.Scan(&inv.ID, &inv.Tool, &inv.Code, &inv.Message, &inv.Records, &inv.DurationMS, &created); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		inv.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Store) Ping(ctx context.Context) error {
	if s.db == nil {
		return errors.New("db not initialized")
	}
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error { return s.db.Close() }
