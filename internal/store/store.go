package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS tasks (
		id                  INTEGER PRIMARY KEY AUTOINCREMENT,
		title               TEXT NOT NULL,
		completed           INTEGER NOT NULL DEFAULT 0,
		pomodoros_completed INTEGER NOT NULL DEFAULT 0,
		total_minutes       INTEGER NOT NULL DEFAULT 0,
		total_break_minutes INTEGER NOT NULL DEFAULT 0,
		energy_level        INTEGER,
		has_been_completed  INTEGER NOT NULL DEFAULT 0,
		created_at          TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		due_date            TEXT,
		start_time          TEXT,
		end_time            TEXT
	);

	CREATE TABLE IF NOT EXISTS subtasks (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		task_id     INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		title       TEXT NOT NULL,
		completed   INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE INDEX IF NOT EXISTS idx_subtasks_task ON subtasks(task_id);

	CREATE TABLE IF NOT EXISTS history (
		date                     TEXT PRIMARY KEY,
		total_pomodoros          INTEGER NOT NULL DEFAULT 0,
		total_minutes            INTEGER NOT NULL DEFAULT 0,
		total_break_minutes      INTEGER NOT NULL DEFAULT 0,
		total_meditation_minutes INTEGER NOT NULL DEFAULT 0,
		tasks_completed          INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('focus_minutes',       '25'),
		('short_break_minutes', '5'),
		('long_break_minutes',  '15'),
		('alarm_enabled',       '1'),
		('meditation_minutes',  '10'),
		('breath_in_seconds',   '4'),
		('hold_in_seconds',     '2'),
		('breath_out_seconds',  '6'),
		('hold_out_seconds',    '2'),
		('active_task',         '');
	`
	_, err := s.db.Exec(ddl)
	return err
}

// DefaultDBPath returns ~/.config/flowstate/flowstate.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "flowstate", "flowstate.db"), nil
}
