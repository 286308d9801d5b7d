// Package store persists template metadata in a local SQLite database.
// The archive payloads live next to it on disk; the store only tracks
// the descriptive record keyed by template name.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.

	"github.com/papapumpkin/stencil/internal/template"
)

// schema contains the DDL executed on first open. Using IF NOT EXISTS
// makes it safe to run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS templates (
    name            TEXT PRIMARY KEY,
    description     TEXT NOT NULL DEFAULT '',
    commands        TEXT NOT NULL DEFAULT '[]',
    ignore          TEXT NOT NULL DEFAULT '[]',
    compressed_size INTEGER NOT NULL DEFAULT 0,
    created         TEXT NOT NULL,
    used            TEXT
);
`

// Store is the SQLite-backed metadata database. All writes go through a
// single connection so concurrent invocations serialize cleanly.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath, enables WAL mode and a
// busy timeout, and creates the schema if it does not exist.
func New(ctx context.Context, dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	// Limit to one connection. SQLite only supports a single writer;
	// one connection avoids SQLITE_BUSY contention between pooled
	// connections that each need their own PRAGMA setup.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: enable WAL mode: %w", err)
	}

	// Busy timeout avoids SQLITE_BUSY when another stencil process
	// holds the write lock.
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: set busy timeout: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Insert stores a new record. When replace is false an existing record
// under the same name is an error; when true it is overwritten.
func (s *Store) Insert(ctx context.Context, rec template.Record, replace bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx for insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if !replace {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM templates WHERE name = ?", rec.Name).Scan(&one)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %q", template.ErrTemplateExists, rec.Name)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("store: check existing %q: %w", rec.Name, err)
		}
	}

	commands, ignore, err := encodeLists(rec)
	if err != nil {
		return err
	}

	const q = `
		INSERT INTO templates (name, description, commands, ignore, compressed_size, created, used)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description     = excluded.description,
			commands        = excluded.commands,
			ignore          = excluded.ignore,
			compressed_size = excluded.compressed_size,
			created         = excluded.created,
			used            = excluded.used`
	if _, err := tx.ExecContext(ctx, q,
		rec.Name, rec.Description, commands, ignore,
		rec.CompressedSize, formatTime(rec.Created), formatUsed(rec.Used)); err != nil {
		return fmt.Errorf("store: insert template %q: %w", rec.Name, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit insert: %w", err)
	}
	return nil
}

// Get returns the record stored under name.
func (s *Store) Get(ctx context.Context, name string) (template.Record, error) {
	const q = `SELECT name, description, commands, ignore, compressed_size, created, used
		FROM templates WHERE name = ?`
	rec, err := scanRecord(s.db.QueryRowContext(ctx, q, name))
	if errors.Is(err, sql.ErrNoRows) {
		return template.Record{}, fmt.Errorf("%w: %q", template.ErrTemplateNotFound, name)
	}
	if err != nil {
		return template.Record{}, fmt.Errorf("store: get template %q: %w", name, err)
	}
	return rec, nil
}

// Has reports whether a record exists under name.
func (s *Store) Has(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM templates WHERE name = ?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("store: check template %q: %w", name, err)
	}
	return true, nil
}

// List returns every record ordered by name.
func (s *Store) List(ctx context.Context) ([]template.Record, error) {
	const q = `SELECT name, description, commands, ignore, compressed_size, created, used
		FROM templates ORDER BY name`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("store: list templates: %w", err)
	}
	defer rows.Close()

	var result []template.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan template: %w", err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate templates: %w", err)
	}
	return result, nil
}

// Remove deletes the record stored under name.
func (s *Store) Remove(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM templates WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("store: remove template %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: remove rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", template.ErrTemplateNotFound, name)
	}
	return nil
}

// Update replaces the record stored under key with rec, re-keying the
// row when rec.Name differs from key. Renaming onto an existing name is
// rejected so no record is silently lost.
func (s *Store) Update(ctx context.Context, key string, rec template.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx for update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	if rec.Name != key {
		var one int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM templates WHERE name = ?", rec.Name).Scan(&one)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %q", template.ErrTemplateExists, rec.Name)
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("store: check rename target %q: %w", rec.Name, err)
		}
	}

	commands, ignore, err := encodeLists(rec)
	if err != nil {
		return err
	}

	const q = `
		UPDATE templates SET
			name            = ?,
			description     = ?,
			commands        = ?,
			ignore          = ?,
			compressed_size = ?,
			created         = ?,
			used            = ?
		WHERE name = ?`
	res, err := tx.ExecContext(ctx, q,
		rec.Name, rec.Description, commands, ignore,
		rec.CompressedSize, formatTime(rec.Created), formatUsed(rec.Used), key)
	if err != nil {
		return fmt.Errorf("store: update template %q: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: update rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %q", template.ErrTemplateNotFound, key)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit update: %w", err)
	}
	return nil
}

// Touch records a usage timestamp for name. The stored value only moves
// forward so out-of-order writers cannot roll it back.
func (s *Store) Touch(ctx context.Context, name string, when time.Time) error {
	const q = `UPDATE templates SET used = ? WHERE name = ? AND (used IS NULL OR used < ?)`
	ts := formatTime(when)
	if _, err := s.db.ExecContext(ctx, q, ts, name, ts); err != nil {
		return fmt.Errorf("store: touch template %q: %w", name, err)
	}
	return nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (template.Record, error) {
	var rec template.Record
	var commands, ignore, created string
	var used sql.NullString
	if err := row.Scan(&rec.Name, &rec.Description, &commands, &ignore,
		&rec.CompressedSize, &created, &used); err != nil {
		return template.Record{}, err
	}

	if err := json.Unmarshal([]byte(commands), &rec.Commands); err != nil {
		return template.Record{}, fmt.Errorf("decode commands: %w", err)
	}
	if err := json.Unmarshal([]byte(ignore), &rec.Ignore); err != nil {
		return template.Record{}, fmt.Errorf("decode ignore patterns: %w", err)
	}

	ts, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return template.Record{}, fmt.Errorf("parse created timestamp: %w", err)
	}
	rec.Created = ts

	if used.Valid {
		ts, err := time.Parse(time.RFC3339Nano, used.String)
		if err != nil {
			return template.Record{}, fmt.Errorf("parse used timestamp: %w", err)
		}
		rec.Used = &ts
	}
	return rec, nil
}

func encodeLists(rec template.Record) (commands, ignore string, err error) {
	c, err := json.Marshal(emptyIfNil(rec.Commands))
	if err != nil {
		return "", "", fmt.Errorf("store: encode commands for %q: %w", rec.Name, err)
	}
	i, err := json.Marshal(emptyIfNil(rec.Ignore))
	if err != nil {
		return "", "", fmt.Errorf("store: encode ignore patterns for %q: %w", rec.Name, err)
	}
	return string(c), string(i), nil
}

// emptyIfNil keeps nil slices from serializing as JSON null.
func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatUsed(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
