package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ritual/internal/cli"
	"ritual/internal/storage"
	"ritual/internal/storage/postgres"
	"ritual/internal/storage/sqlite"
)

type InitCmd struct {
	Force  bool   `help:"Reinitialize, deleting any existing SQLite database."`
	Source string `help:"Copy data from an existing database (path or postgres:// URL)."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, ok := ctx.Store.(*sqlite.Store); ok {
			path := ctx.Store.GetConfigPath()
			if _, err := os.Stat(path); err == nil {
				// Never delete the database we are about to copy from.
				absPath, _ := filepath.Abs(path)
				absSource, _ := filepath.Abs(c.Source)
				if c.Source != "" && absPath == absSource {
					return fmt.Errorf("source database is the target database, refusing to delete it")
				}
				if err := ctx.Store.Close(); err != nil {
					return fmt.Errorf("failed to close database: %w", err)
				}
				if err := os.Remove(path); err != nil {
					return fmt.Errorf("failed to remove existing database: %w", err)
				}
			}
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	if c.Source != "" {
		if err := migrateData(ctx, c.Source); err != nil {
			return err
		}
	}

	fmt.Printf("Initialized ritual database at %s\n", ctx.Store.GetConfigPath())
	return nil
}

// migrateData copies settings, habits, and completions from another ritual
// database into the freshly initialized store. Soft-deleted rows come along
// so restore still works after the move.
func migrateData(ctx *cli.Context, source string) error {
	var src storage.Provider
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") {
		if _, err := postgres.ValidateConnString(source); err != nil {
			return fmt.Errorf("invalid source connection string: %w", err)
		}
		src = postgres.New(source)
	} else {
		src = sqlite.NewStore(source)
	}

	if err := src.Load(); err != nil {
		return fmt.Errorf("failed to open source database: %w", err)
	}
	defer src.Close()

	fmt.Printf("Migrating data from %s...\n", src.GetConfigPath())

	if settings, err := src.GetSettings(); err == nil && settings.Timezone != "" {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to migrate settings: %w", err)
		}
	}

	habits, err := src.GetAllHabits(true, true)
	if err != nil {
		return fmt.Errorf("failed to read source habits: %w", err)
	}
	for _, habit := range habits {
		if err := ctx.Store.AddHabit(habit); err != nil {
			return fmt.Errorf("failed to migrate habit %q: %w", habit.Name, err)
		}
	}

	completions, err := src.GetAllCompletions()
	if err != nil {
		return fmt.Errorf("failed to read source completions: %w", err)
	}
	for _, completion := range completions {
		if err := ctx.Store.UpdateCompletion(completion); err != nil {
			return fmt.Errorf("failed to migrate completion for day %s: %w", completion.Day, err)
		}
	}

	fmt.Printf("Migrated %d habits and %d completions\n", len(habits), len(completions))
	return nil
}
