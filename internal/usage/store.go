// Package usage keeps launch history for app categories and ranks launch
// targets by how recently and how often they were used.
package usage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Entry is the recorded history of one launch target.
type Entry struct {
	Caller   string
	Target   string
	Count    int
	LastUsed time.Time
}

// Store is a SQLite-backed usage history.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the usage database at path. ":memory:" keeps the
// history in memory.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create usage dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open usage db: %w", err)
	}
	db.SetMaxOpenConns(1)
	s, err := New(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, creating the schema when needed.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db, now: time.Now}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize usage schema: %w", err)
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS launch_usage (
			caller TEXT NOT NULL,
			target TEXT NOT NULL,
			count INTEGER NOT NULL DEFAULT 0,
			last_used INTEGER NOT NULL,
			PRIMARY KEY (caller, target)
		);
		CREATE INDEX IF NOT EXISTS idx_usage_caller ON launch_usage(caller, last_used);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record counts one launch of target on behalf of caller.
func (s *Store) Record(caller, target string) error {
	if caller == "" || target == "" {
		return fmt.Errorf("usage: caller and target are required")
	}
	_, err := s.db.Exec(`
		INSERT INTO launch_usage (caller, target, count, last_used)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(caller, target) DO UPDATE SET
			count = count + 1,
			last_used = excluded.last_used`,
		caller, target, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("record usage: %w", err)
	}
	return nil
}

// Ranked returns the targets used by caller, most recent first. Ties fall
// back to launch count and then target name.
func (s *Store) Ranked(caller string) ([]string, error) {
	entries, err := s.Entries(caller)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Target)
	}
	return out, nil
}

// Entries returns the full history of caller in rank order.
func (s *Store) Entries(caller string) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT caller, target, count, last_used FROM launch_usage
		WHERE caller = ?
		ORDER BY last_used DESC, count DESC, target ASC`, caller)
	if err != nil {
		return nil, fmt.Errorf("query usage: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var last int64
		if err := rows.Scan(&e.Caller, &e.Target, &e.Count, &last); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		e.LastUsed = time.Unix(0, last)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Reset forgets the history of caller.
func (s *Store) Reset(caller string) error {
	_, err := s.db.Exec("DELETE FROM launch_usage WHERE caller = ?", caller)
	return err
}

func (s *Store) Close() error {
	return s.db.Close()
}
