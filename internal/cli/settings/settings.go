package settings

import (
	"fmt"

	"ritual/internal/cli"
	"ritual/internal/timeutil"
)

// SettingsCmd reads or updates app settings. Flags are pointers so an
// unspecified flag leaves the stored value alone.
type SettingsCmd struct {
	List             bool    `help:"List current settings."`
	Timezone         *string `help:"IANA timezone for day boundaries (e.g. America/New_York)."`
	DefaultTimeframe *string `help:"Default stats timeframe: daily, weekly, or monthly."`
	AutoBackup       *bool   `help:"Back up automatically before destructive operations."`
	MaxBackups       *int    `help:"Number of rotated backups to keep."`
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List || (c.Timezone == nil && c.DefaultTimeframe == nil && c.AutoBackup == nil && c.MaxBackups == nil) {
		fmt.Println("Current settings:")
		fmt.Printf("  timezone:          %s\n", settings.Timezone)
		fmt.Printf("  default timeframe: %s\n", settings.DefaultTimeframe)
		fmt.Printf("  auto backup:       %t\n", settings.AutoBackup)
		fmt.Printf("  max backups:       %d\n", settings.MaxBackups)
		return nil
	}

	updated := false

	if c.Timezone != nil {
		if err := timeutil.ValidateTimezone(*c.Timezone); err != nil {
			return err
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.DefaultTimeframe != nil {
		tf, err := timeutil.ParseTimeframe(*c.DefaultTimeframe)
		if err != nil {
			return err
		}
		settings.DefaultTimeframe = string(tf)
		updated = true
	}
	if c.AutoBackup != nil {
		settings.AutoBackup = *c.AutoBackup
		updated = true
	}
	if c.MaxBackups != nil {
		if *c.MaxBackups < 1 {
			return fmt.Errorf("max backups must be at least 1, got %d", *c.MaxBackups)
		}
		settings.MaxBackups = *c.MaxBackups
		updated = true
	}

	if !updated {
		fmt.Println("No changes specified. Use --help to see available settings.")
		return nil
	}

	if err := ctx.Store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Println("Settings updated.")
	return nil
}
