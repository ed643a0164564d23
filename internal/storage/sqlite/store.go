package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hsnsag/pillbox/internal/models"
)

// Store persists all records in a single SQLite database file. It is the
// default strategy for `.db` paths.
type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{
		path: path,
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS medications (
	med_id    INTEGER PRIMARY KEY,
	med_name  TEXT NOT NULL,
	dose      TEXT NOT NULL,
	times_csv TEXT NOT NULL,
	days_mask TEXT NOT NULL,
	active    INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS dose_log (
	log_id       INTEGER PRIMARY KEY,
	med_id       INTEGER NOT NULL,
	scheduled_dt TEXT NOT NULL,
	action       TEXT NOT NULL,
	actual_dt    TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_dose_log_key ON dose_log (med_id, scheduled_dt);

CREATE TABLE IF NOT EXISTS snoozes (
	med_id       INTEGER NOT NULL,
	scheduled_dt TEXT NOT NULL,
	new_dt       TEXT NOT NULL,
	PRIMARY KEY (med_id, scheduled_dt)
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value INTEGER NOT NULL
);
`

func (s *Store) Init() error {
	// Create config directory if it doesn't exist
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	// Initialize default settings if not present or incomplete
	settings, err := s.GetSettings()
	if err != nil || settings.Validate() != nil {
		if err := s.SaveSettings(models.DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'pillbox init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return s.validateSchema()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// validateSchema checks that every expected table is present.
func (s *Store) validateSchema() error {
	for _, table := range []string{"medications", "dose_log", "snoozes", "settings"} {
		ok, err := s.tableExists(table)
		if err != nil {
			return fmt.Errorf("failed to inspect schema: %w", err)
		}
		if !ok {
			return fmt.Errorf("database at %s is missing table %q, run 'pillbox init'", s.path, table)
		}
	}
	return nil
}

// tableExists checks if a table exists in the SQLite database.
// The check is case-insensitive to match SQLite's behavior.
func (s *Store) tableExists(tableName string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection.
// Returns nil if the database has not been initialized or loaded.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
