package localstore

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

const (
	scopeLocal   = "local"
	scopeSession = "session"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	scope      TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (scope, key)
)`

// SQLiteStore keeps the client's local and session storage in one SQLite
// file, each in its own scope.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func Open(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Path() string {
	return s.path
}

// Local is storage that survives logout-free restarts.
func (s *SQLiteStore) Local() *Area {
	return &Area{db: s.db, scope: scopeLocal}
}

// Session is storage cleared on logout.
func (s *SQLiteStore) Session() *Area {
	return &Area{db: s.db, scope: scopeSession}
}

// Area is one scope of the store.
type Area struct {
	db    *sql.DB
	scope string
}

func (a *Area) Get(key string) (string, bool, error) {
	var value string
	err := a.db.QueryRow(`SELECT value FROM kv WHERE scope = ? AND key = ?`, a.scope, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return value, true, nil
}

func (a *Area) Set(key, value string) error {
	_, err := a.db.Exec(`
		INSERT INTO kv (scope, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (scope, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		a.scope, key, value)
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (a *Area) Remove(key string) error {
	if _, err := a.db.Exec(`DELETE FROM kv WHERE scope = ? AND key = ?`, a.scope, key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

func (a *Area) Clear() error {
	if _, err := a.db.Exec(`DELETE FROM kv WHERE scope = ?`, a.scope); err != nil {
		return fmt.Errorf("failed to clear %s storage: %w", a.scope, err)
	}
	return nil
}

// Keys lists the keys in this scope, sorted.
func (a *Area) Keys() ([]string, error) {
	rows, err := a.db.Query(`SELECT key FROM kv WHERE scope = ? ORDER BY key`, a.scope)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
