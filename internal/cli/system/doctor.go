package system

import (
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"ritual/internal/backup"
	"ritual/internal/cli"
	"ritual/internal/constants"
	"ritual/internal/keyring"
	"ritual/internal/logger"
	"ritual/internal/migration"
	"ritual/internal/models"
	"ritual/internal/storage/sqlite"
	"ritual/internal/timeutil"
	"ritual/internal/validation"
	"ritual/migrations"
)

var listProcessesFunc = ps.Processes

type DoctorCmd struct {
	Fix bool `help:"Apply automatic fixes for fixable conflicts."`
}

func (c *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Database connectivity
	settings, settingsErr := ctx.Store.GetSettings()
	if settingsErr != nil {
		fmt.Printf("❌ database: FAIL (%v)\n", settingsErr)
		hasError = true
	} else {
		fmt.Println("✓ database: OK")
	}

	// The app timezone drives every day-boundary computation.
	if settingsErr == nil {
		if err := timeutil.ValidateTimezone(settings.Timezone); err != nil {
			fmt.Printf("❌ timezone: FAIL (%v)\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ timezone: OK (%s)\n", settings.Timezone)
		}
	}

	// Schema version and backups only apply to the SQLite file backend.
	if store, ok := ctx.Store.(*sqlite.Store); ok && store.GetDB() != nil {
		if !checkSchema(store) {
			hasError = true
		}
		checkBackups(store)
	} else {
		fmt.Println("⊘ schema: SKIPPED (PostgreSQL storage)")
		fmt.Println("⊘ backups: SKIPPED (PostgreSQL storage)")
	}

	// Clock sanity: streaks and grace windows trust the system clock.
	year := time.Now().Year()
	if year < 2020 || year > 2100 {
		fmt.Printf("❌ clock: FAIL (system year %d looks wrong)\n", year)
		hasError = true
	} else {
		fmt.Println("✓ clock: OK")
	}

	// Concurrent ritual processes can hold the SQLite write lock.
	switch others, err := countRitualProcesses(); {
	case err != nil:
		fmt.Printf("⚠ processes: WARNING (%v)\n", err)
	case others > 0:
		fmt.Printf("⚠ processes: WARNING (%d other ritual process(es) running)\n", others)
	default:
		fmt.Println("✓ processes: OK")
	}

	if keyring.IsAvailable() {
		fmt.Println("✓ keyring: OK")
	} else {
		fmt.Println("⚠ keyring: WARNING (OS keyring unavailable; PostgreSQL credentials cannot be stored)")
	}

	// Probe the log file only when logging went through Init (tests skip it).
	if logPath := logger.GetLogPath(); logPath == "" {
		fmt.Println("⊘ log file: SKIPPED (logging not initialized)")
	} else if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600); err != nil {
		fmt.Printf("⚠ log file: WARNING (%v)\n", err)
	} else {
		f.Close()
		fmt.Printf("✓ log file: OK (%s)\n", logPath)
	}

	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		fmt.Printf("❌ habits: FAIL (%v)\n", err)
		return fmt.Errorf("diagnostics failed")
	}
	completions, err := ctx.Store.GetAllCompletions()
	if err != nil {
		fmt.Printf("❌ completions: FAIL (%v)\n", err)
		return fmt.Errorf("diagnostics failed")
	}

	validator := validation.New()
	habitResult := validator.ValidateHabits(habits)
	completionResult := validator.ValidateCompletions(completions, habits)

	if habitResult.HasConflicts() {
		fmt.Printf("❌ habit integrity: FAIL (%d conflict(s))\n", len(habitResult.Conflicts))
		hasError = true
	} else {
		fmt.Println("✓ habit integrity: OK")
	}
	if completionResult.HasConflicts() {
		fmt.Printf("❌ completion integrity: FAIL (%d conflict(s))\n", len(completionResult.Conflicts))
		hasError = true
	} else {
		fmt.Println("✓ completion integrity: OK")
	}

	conflicts := append(habitResult.Conflicts, completionResult.Conflicts...)
	if len(conflicts) > 0 {
		fmt.Println()
		result := validation.ValidationResult{Conflicts: conflicts}
		fmt.Println(result.FormatReport())
	}

	if c.Fix && len(conflicts) > 0 {
		fmt.Println()
		ctx.PerformAutomaticBackup()
		applyFixes(ctx, conflicts, habits)
	}

	fmt.Println()
	if hasError {
		if c.Fix {
			return fmt.Errorf("diagnostics found problems; re-run 'ritual doctor' to verify the fixes")
		}
		return fmt.Errorf("diagnostics found problems (run 'ritual doctor --fix' to fix what can be fixed automatically)")
	}
	fmt.Println("All diagnostics passed!")
	return nil
}

func checkSchema(store *sqlite.Store) bool {
	subFS, err := fs.Sub(migrations.FS, "sqlite")
	if err != nil {
		fmt.Printf("❌ schema: FAIL (%v)\n", err)
		return false
	}

	runner := migration.NewRunner(store.GetDB(), subFS)
	current, err := runner.GetCurrentVersion()
	if err != nil {
		fmt.Printf("❌ schema: FAIL (%v)\n", err)
		return false
	}
	latest, err := runner.GetLatestVersion()
	if err != nil {
		fmt.Printf("❌ schema: FAIL (%v)\n", err)
		return false
	}

	switch {
	case current > latest:
		fmt.Printf("❌ schema: FAIL (database version %d is newer than supported %d)\n", current, latest)
		return false
	case current < latest:
		fmt.Printf("⚠ schema: WARNING (version %d behind latest %d - run 'ritual migrate')\n", current, latest)
		return true
	default:
		fmt.Printf("✓ schema: OK (version %d)\n", current)
		return true
	}
}

// countRitualProcesses reports how many other ritual processes are running.
func countRitualProcesses() (int, error) {
	procs, err := listProcessesFunc()
	if err != nil {
		return 0, err
	}

	others := 0
	for _, p := range procs {
		if p.Pid() == os.Getpid() {
			continue
		}
		if strings.HasPrefix(p.Executable(), constants.AppName) {
			others++
		}
	}
	return others, nil
}

func checkBackups(store *sqlite.Store) {
	mgr := backup.NewManager(store.GetConfigPath())
	backups, err := mgr.ListBackups()
	switch {
	case err != nil:
		fmt.Printf("⚠ backups: WARNING (%v)\n", err)
	case len(backups) == 0:
		fmt.Println("⚠ backups: WARNING (no backups found - run 'ritual backup create')")
	default:
		fmt.Printf("✓ backups: OK (%d available, newest %s)\n",
			len(backups), backups[0].Timestamp.Format("2006-01-02 15:04"))
	}
}

func applyFixes(ctx *cli.Context, conflicts []validation.Conflict, habits []models.Habit) {
	fixes := validation.AutoFixDuplicateHabits(conflicts, habits, func(id string) error {
		return ctx.Store.DeleteHabit(id)
	})
	fixes = append(fixes, validation.AutoFixOrphanedCompletions(conflicts, func(habitID, day string) error {
		return ctx.Store.DeleteCompletion(habitID, day)
	})...)

	if len(fixes) == 0 {
		fmt.Println("No automatic fixes available for these conflicts.")
		return
	}
	for _, fix := range fixes {
		fmt.Printf("  %s\n", fix.Action)
	}
	fmt.Printf("Applied %d automatic fix(es).\n", len(fixes))
}
