// Package tape keeps a diagnostic log of completed calculations in SQLite,
// the way a desk calculator prints its paper tape. Engine state itself is
// never persisted.
package tape

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"go-chi-calculator/internal/session"
)

//go:embed schema.sql
var schemaSQL string

// DefaultLimit is used by Recent when limit is not positive.
const DefaultLimit = 50

// Entry is one recorded calculation.
type Entry struct {
	ID         int64     `json:"id"`
	SessionID  string    `json:"session_id"`
	Expression string    `json:"expression"`
	Result     string    `json:"result"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Tape is a SQLite-backed session.Recorder.
type Tape struct {
	db *sql.DB
}

// Open creates or opens the tape database at path.
func Open(path string) (*Tape, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tape database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to tape database: %w", err)
	}

	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Tape{db: db}, nil
}

func (t *Tape) Close() error {
	if t.db == nil {
		return nil
	}
	return t.db.Close()
}

// Record appends c to the tape.
func (t *Tape) Record(ctx context.Context, c session.Calculation) error {
	_, err := t.db.ExecContext(ctx,
		`INSERT INTO calculations (session_id, expression, result, recorded_at) VALUES (?, ?, ?, ?)`,
		c.SessionID, c.Expression, c.Result, c.At.UTC().UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert calculation: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (t *Tape) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := t.db.QueryContext(ctx,
		`SELECT id, session_id, expression, result, recorded_at
		 FROM calculations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query calculations: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var (
			e  Entry
			ns int64
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Expression, &e.Result, &ns); err != nil {
			return nil, fmt.Errorf("scan calculation: %w", err)
		}
		e.RecordedAt = time.Unix(0, ns).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate calculations: %w", err)
	}
	return entries, nil
}
