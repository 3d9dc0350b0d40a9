package migration

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

// writeMigrationDir materializes a set of migration scripts on disk and
// returns a runner over them.
func writeMigrationDir(t *testing.T, db *sql.DB, scripts map[string]string) (*Runner, string) {
	t.Helper()

	dir := t.TempDir()
	for filename, content := range scripts {
		if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write migration %s: %v", filename, err)
		}
	}

	return NewRunner(db, os.DirFS(dir)), dir
}

func TestVersionBookkeeping(t *testing.T) {
	db := openTestDB(t)
	runner, _ := writeMigrationDir(t, db, map[string]string{
		"001_init.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	})

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("fresh database should be at version 0, got %d", version)
	}

	if err := runner.SetVersion(5); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	version, err = runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 5 {
		t.Errorf("expected version 5 after SetVersion, got %d", version)
	}
}

func TestReadMigrationFilesSortsByVersion(t *testing.T) {
	db := openTestDB(t)
	runner, _ := writeMigrationDir(t, db, map[string]string{
		"003_archive.sql": "ALTER TABLE habits ADD COLUMN archived_at TEXT;",
		"001_init.sql":    "CREATE TABLE habits (id TEXT PRIMARY KEY);",
		"002_streaks.sql": "CREATE TABLE completions (id TEXT PRIMARY KEY);",
	})

	migrations, err := runner.ReadMigrationFiles()
	if err != nil {
		t.Fatalf("ReadMigrationFiles failed: %v", err)
	}

	want := []struct {
		version int
		name    string
	}{
		{1, "init"},
		{2, "streaks"},
		{3, "archive"},
	}
	if len(migrations) != len(want) {
		t.Fatalf("expected %d migrations, got %d", len(want), len(migrations))
	}
	for i, w := range want {
		if migrations[i].Version != w.version || migrations[i].Name != w.name {
			t.Errorf("migration %d: want version %d name %q, got version %d name %q",
				i, w.version, w.name, migrations[i].Version, migrations[i].Name)
		}
	}
}

func TestApplyMigrationsFreshDatabase(t *testing.T) {
	db := openTestDB(t)
	runner, _ := writeMigrationDir(t, db, map[string]string{
		"001_habits.sql":      "CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT);",
		"002_completions.sql": "CREATE TABLE completions (id TEXT PRIMARY KEY, habit_id TEXT, day TEXT);",
	})

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migrations applied, got %d", count)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	for _, table := range []string{"habits", "completions"} {
		var n int
		err = db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&n)
		if err != nil || n != 1 {
			t.Errorf("%s table was not created", table)
		}
	}
}

func TestApplyMigrationsPicksUpNewScripts(t *testing.T) {
	db := openTestDB(t)
	runner, dir := writeMigrationDir(t, db, map[string]string{
		"001_habits.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY, name TEXT);",
	})

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (1st) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 migration applied, got %d", count)
	}

	// A later release ships another script into the same directory.
	next := "CREATE TABLE completions (id TEXT PRIMARY KEY, habit_id TEXT);"
	if err := os.WriteFile(filepath.Join(dir, "002_completions.sql"), []byte(next), 0644); err != nil {
		t.Fatalf("failed to write new migration: %v", err)
	}

	count, err = runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (2nd) failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 more migration applied, got %d", count)
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}
}

func TestApplyMigrationsAlreadyCurrent(t *testing.T) {
	db := openTestDB(t)
	runner, _ := writeMigrationDir(t, db, map[string]string{
		"001_habits.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	})

	if _, err := runner.ApplyMigrations(nil); err != nil {
		t.Fatalf("ApplyMigrations (1st) failed: %v", err)
	}

	count, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations (2nd) failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no migrations applied on second run, got %d", count)
	}
}

func TestFailedMigrationRollsBack(t *testing.T) {
	db := openTestDB(t)
	runner, _ := writeMigrationDir(t, db, map[string]string{
		"001_habits.sql": `
			CREATE TABLE habits (id TEXT PRIMARY KEY);
			THIS IS INVALID SQL;
		`,
	})

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should have failed with invalid SQL")
	}

	version, err := runner.GetCurrentVersion()
	if err != nil {
		t.Fatalf("GetCurrentVersion failed: %v", err)
	}
	if version != 0 {
		t.Errorf("expected version 0 after failed migration, got %d", version)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='habits'").Scan(&count); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if count != 0 {
		t.Error("habits table should not exist after failed migration")
	}
}

func TestNewerSchemaRefused(t *testing.T) {
	db := openTestDB(t)
	runner, _ := writeMigrationDir(t, db, map[string]string{
		"001_habits.sql": "CREATE TABLE habits (id TEXT PRIMARY KEY);",
	})

	// Simulate a database written by a newer release.
	if err := runner.SetVersion(10); err != nil {
		t.Fatalf("SetVersion failed: %v", err)
	}

	if err := runner.ValidateVersion(); err == nil {
		t.Fatal("ValidateVersion should refuse a newer database")
	}

	if _, err := runner.ApplyMigrations(nil); err == nil {
		t.Fatal("ApplyMigrations should refuse a newer database")
	}
}

func TestGetLatestVersionIgnoresFileOrder(t *testing.T) {
	db := openTestDB(t)
	runner, _ := writeMigrationDir(t, db, map[string]string{
		"001_habits.sql":  "CREATE TABLE habits (id TEXT);",
		"003_archive.sql": "ALTER TABLE habits ADD COLUMN archived_at TEXT;",
		"002_streaks.sql": "CREATE TABLE completions (id TEXT);",
	})

	latest, err := runner.GetLatestVersion()
	if err != nil {
		t.Fatalf("GetLatestVersion failed: %v", err)
	}
	if latest != 3 {
		t.Errorf("expected latest version 3, got %d", latest)
	}
}

func TestRejectsMalformedFilenames(t *testing.T) {
	tests := []struct {
		name    string
		scripts map[string]string
	}{
		{
			name: "no underscore",
			scripts: map[string]string{
				"001habits.sql": "CREATE TABLE habits (id TEXT);",
			},
		},
		{
			name: "non-numeric version",
			scripts: map[string]string{
				"abc_habits.sql": "CREATE TABLE habits (id TEXT);",
			},
		},
		{
			name: "zero version",
			scripts: map[string]string{
				"000_habits.sql": "CREATE TABLE habits (id TEXT);",
			},
		},
		{
			name: "duplicate versions",
			scripts: map[string]string{
				"001_first.sql":  "CREATE TABLE a (id TEXT);",
				"001_second.sql": "CREATE TABLE b (id TEXT);",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner, _ := writeMigrationDir(t, openTestDB(t), tt.scripts)

			if _, err := runner.ReadMigrationFiles(); err == nil {
				t.Error("ReadMigrationFiles should have rejected the migration set")
			}
		})
	}
}
