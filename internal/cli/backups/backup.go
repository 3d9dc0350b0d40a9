package backups

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ritual/internal/backup"
	"ritual/internal/cli"
	"ritual/internal/storage/sqlite"
)

type BackupCmd struct {
	Create  BackupCreateCmd  `cmd:"" help:"Create a backup of the database."`
	List    BackupListCmd    `cmd:"" help:"List available backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore the database from a backup."`
}

// manager builds a backup manager for the store, applying the retention
// setting. Backups read the database file directly, so only SQLite storage
// is supported.
func manager(ctx *cli.Context) (*backup.Manager, error) {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil, fmt.Errorf("backups are only supported for SQLite storage")
	}

	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if settings, err := ctx.Store.GetSettings(); err == nil && settings.MaxBackups > 0 {
		mgr.SetMaxBackups(settings.MaxBackups)
	}
	return mgr, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	path, err := mgr.CreateBackup()
	if err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}

	fmt.Printf("Created backup: %s\n", path)
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Println("No backups found.")
		return nil
	}

	keep := backup.MaxBackups
	if settings, err := ctx.Store.GetSettings(); err == nil && settings.MaxBackups > 0 {
		keep = settings.MaxBackups
	}

	fmt.Printf("Available backups (%d total, keeping most recent %d):\n\n", len(backups), keep)
	for _, b := range backups {
		fmt.Printf("  %s  %s  %.1f KB\n",
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			float64(b.Size)/1024)
	}

	return nil
}

type BackupRestoreCmd struct {
	Filename string `arg:"" help:"Backup file to restore (name or path)."`
	Force    bool   `help:"Skip the confirmation prompt."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	mgr, err := manager(ctx)
	if err != nil {
		return err
	}

	backupPath := c.Filename
	if !filepath.IsAbs(backupPath) {
		if _, err := os.Stat(backupPath); err != nil {
			backupPath = filepath.Join(mgr.GetBackupDir(), c.Filename)
		}
	}
	if _, err := os.Stat(backupPath); err != nil {
		return fmt.Errorf("backup file not found: %s", c.Filename)
	}

	if !c.Force {
		fmt.Printf("Restore will replace the current database with %s.\n", filepath.Base(backupPath))
		fmt.Print("Continue? (y/N): ")
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("Restore cancelled.")
			return nil
		}
	}

	// Close the live handle so the database file can be swapped underneath.
	if err := ctx.Store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if err := mgr.RestoreBackup(backupPath); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	fmt.Printf("Restored database from %s\n", filepath.Base(backupPath))
	fmt.Println("(A backup of the previous database was created first)")
	return nil
}
