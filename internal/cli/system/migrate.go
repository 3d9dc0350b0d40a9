package system

import (
	"fmt"
	"io/fs"

	"ritual/internal/cli"
	"ritual/internal/migration"
	"ritual/internal/storage/sqlite"
	"ritual/migrations"
)

type MigrateCmd struct{}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	store, ok := ctx.Store.(*sqlite.Store)
	if !ok {
		// PostgreSQL schemas are migrated during Init/Load.
		return fmt.Errorf("manual migration is only supported for SQLite storage")
	}

	db := store.GetDB()
	if db == nil {
		return fmt.Errorf("database not loaded")
	}

	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		return fmt.Errorf("failed to access migrations: %w", err)
	}

	runner := migration.NewRunner(db, subFS)
	applied, err := runner.ApplyMigrations(func(msg string) {
		fmt.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if applied == 0 {
		fmt.Println("No migrations to apply. Database is up to date.")
	}
	return nil
}
