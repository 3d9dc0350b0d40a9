// Package sqlite implements the storage provider on a single-file SQLite
// database using the CGo-free modernc.org driver, so the binary stays
// portable across platforms without a C toolchain.
package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"ritual/internal/constants"
	"ritual/internal/migration"
	"ritual/internal/models"
	"ritual/migrations"
)

type Store struct {
	path string
	db   *sql.DB
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Connection options applied to every pooled connection. foreign_keys is
// off by default in SQLite, and the backup manager opens a second read-only
// connection, so writes need a busy timeout.
const dsnOptions = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// open opens the database file and remembers the handle. The driver creates
// the file on first write if it does not exist.
func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path+dsnOptions)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db
	return nil
}

// migrationsFS returns the embedded SQLite migration scripts.
func migrationsFS() (fs.FS, error) {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return nil, fmt.Errorf("failed to access sqlite migrations: %w", err)
	}
	return subFS, nil
}

func (s *Store) Init() error {
	// The database lives under the config directory, which may not exist yet
	// on a fresh install.
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return s.seedDefaultSettings()
}

// seedDefaultSettings writes baseline settings when none exist, or when an
// older database left the row incomplete.
func (s *Store) seedDefaultSettings() error {
	settings, err := s.GetSettings()
	if err == nil && settings.Timezone != "" {
		return nil
	}

	defaults := models.Settings{
		Timezone:         constants.DefaultTimezone,
		DefaultTimeframe: constants.DefaultTimeframeSetting,
		AutoBackup:       constants.DefaultAutoBackup,
		MaxBackups:       constants.DefaultMaxBackups,
	}
	if err := s.SaveSettings(defaults); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'ritual init' first")
	}

	if err := s.open(); err != nil {
		return err
	}

	// Refuse to run against a schema newer than this build understands.
	return s.validateSchemaVersion()
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// tableExists reports whether the named table exists. The lookup is
// case-insensitive to match SQLite's own name handling.
func (s *Store) tableExists(tableName string) (bool, error) {
	var count int
	row := s.db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type='table' AND name COLLATE NOCASE = ?", tableName)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) runMigrations() error {
	subFS, err := migrationsFS()
	if err != nil {
		return err
	}

	runner := migration.NewRunner(s.db, subFS)
	_, err = runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	return err
}

func (s *Store) validateSchemaVersion() error {
	subFS, err := migrationsFS()
	if err != nil {
		return err
	}

	return migration.NewRunner(s.db, subFS).ValidateVersion()
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB exposes the underlying handle for maintenance commands that need
// raw SQL access. It is nil before Init or Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
