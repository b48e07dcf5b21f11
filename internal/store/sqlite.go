// Package store persists the category snapshot in a key-value region
// shared between the main app and the widget host.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite is a shared preference region backed by a SQLite file. Values are
// namespaced by suite so several apps can share one database.
type SQLite struct {
	db    *sql.DB
	path  string
	suite string
}

// OpenSQLite opens or creates the shared database at dbPath.
func OpenSQLite(dbPath, suite string) (*SQLite, error) {
	if suite == "" {
		return nil, errors.New("store: empty suite")
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(2000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db, path: dbPath, suite: suite}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Path is the database file location.
func (s *SQLite) Path() string {
	return s.path
}

// Suite is the namespace this region reads and writes.
func (s *SQLite) Suite() string {
	return s.suite
}

// Get returns the value stored under key. ok is false when the key is absent.
func (s *SQLite) Get(key string) (value []byte, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM preferences WHERE suite = ? AND key = ?", s.suite, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (s *SQLite) Set(key string, value []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.Exec(`INSERT OR REPLACE INTO preferences (suite, key, value, updated_at)
		VALUES (?, ?, ?, ?)`, s.suite, key, value, now)
	return err
}

// Delete removes key. Missing keys are not an error.
func (s *SQLite) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM preferences WHERE suite = ? AND key = ?", s.suite, key)
	return err
}

// Keys lists the keys present in this suite.
func (s *SQLite) Keys() ([]string, error) {
	rows, err := s.db.Query("SELECT key FROM preferences WHERE suite = ? ORDER BY key", s.suite)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// UpdatedAt returns when key was last written, or the zero time.
func (s *SQLite) UpdatedAt(key string) (time.Time, error) {
	var ts string
	err := s.db.QueryRow("SELECT updated_at FROM preferences WHERE suite = ? AND key = ?", s.suite, key).Scan(&ts)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	t, _ := time.Parse(time.RFC3339Nano, ts)
	return t, nil
}
