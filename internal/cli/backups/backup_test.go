package backups

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"ritual/internal/cli"
	"ritual/internal/models"
	"ritual/internal/storage/postgres"
	"ritual/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return &cli.Context{Store: store}
}

func addTestHabit(t *testing.T, ctx *cli.Context, name string) {
	t.Helper()

	rule, err := models.NewDailyRule(1, nil)
	if err != nil {
		t.Fatalf("failed to build rule: %v", err)
	}
	now := time.Now()
	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      name,
		Rule:      rule,
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := ctx.Store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
}

func TestBackupCreate(t *testing.T) {
	ctx := setupTestContext(t)
	addTestHabit(t, ctx, "Meditate")

	cmd := BackupCreateCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	mgr, err := manager(ctx)
	if err != nil {
		t.Fatalf("failed to build manager: %v", err)
	}
	backups, err := mgr.ListBackups()
	if err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
	if len(backups) != 1 {
		t.Errorf("expected 1 backup, got %d", len(backups))
	}
}

func TestBackupListRuns(t *testing.T) {
	ctx := setupTestContext(t)
	addTestHabit(t, ctx, "Meditate")

	create := BackupCreateCmd{}
	if err := create.Run(ctx); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	list := BackupListCmd{}
	if err := list.Run(ctx); err != nil {
		t.Fatalf("failed to list backups: %v", err)
	}
}

func TestBackupRequiresSQLite(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://localhost:5432/ritual")}

	_, err := manager(ctx)
	if err == nil {
		t.Fatal("expected non-SQLite storage to be rejected")
	}
	if !strings.Contains(err.Error(), "SQLite") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBackupRestore(t *testing.T) {
	ctx := setupTestContext(t)
	addTestHabit(t, ctx, "Meditate")

	create := BackupCreateCmd{}
	if err := create.Run(ctx); err != nil {
		t.Fatalf("failed to create backup: %v", err)
	}

	mgr, err := manager(ctx)
	if err != nil {
		t.Fatalf("failed to build manager: %v", err)
	}
	backups, err := mgr.ListBackups()
	if err != nil || len(backups) == 0 {
		t.Fatalf("expected a backup to restore, got %d (err %v)", len(backups), err)
	}

	// Diverge from the backup, then roll back to it.
	addTestHabit(t, ctx, "Gym")

	restore := BackupRestoreCmd{Filename: filepath.Base(backups[0].Path), Force: true}
	if err := restore.Run(ctx); err != nil {
		t.Fatalf("failed to restore backup: %v", err)
	}

	// The restore swaps the file under the closed handle; reopen fresh.
	reopened := sqlite.NewStore(ctx.Store.GetConfigPath())
	if err := reopened.Load(); err != nil {
		t.Fatalf("failed to reopen restored database: %v", err)
	}
	defer reopened.Close()

	habits, err := reopened.GetAllHabits(false, false)
	if err != nil {
		t.Fatalf("failed to list habits after restore: %v", err)
	}
	if len(habits) != 1 || habits[0].Name != "Meditate" {
		t.Errorf("expected restored database with only Meditate, got %+v", habits)
	}
}

func TestBackupRestoreMissingFile(t *testing.T) {
	ctx := setupTestContext(t)

	restore := BackupRestoreCmd{Filename: "ritual-99999999-9999.db", Force: true}
	err := restore.Run(ctx)
	if err == nil {
		t.Fatal("expected missing backup file to be rejected")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("unexpected error: %v", err)
	}
}
