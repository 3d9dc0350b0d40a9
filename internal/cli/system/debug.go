package system

import (
	"encoding/json"
	"fmt"
	"time"

	"ritual/internal/cli"
	"ritual/internal/constants"
	"ritual/internal/timeutil"
)

// DebugCmd dumps raw records for troubleshooting. Output is JSON,
// not a stable interface.
type DebugCmd struct {
	DBPath   DebugDBPathCmd   `cmd:"" help:"Print the resolved database path."`
	Habit    DebugHabitCmd    `cmd:"" help:"Dump a habit as JSON."`
	Day      DebugDayCmd      `cmd:"" help:"Dump completions for a day as JSON."`
	Settings DebugSettingsCmd `cmd:"" help:"Dump settings as JSON."`
}

type DebugDBPathCmd struct{}

func (c *DebugDBPathCmd) Run(ctx *cli.Context) error {
	fmt.Println(ctx.Store.GetConfigPath())
	return nil
}

type DebugHabitCmd struct {
	Name string `arg:"" help:"Habit name."`
}

func (c *DebugHabitCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}
	return dumpJSON(habit)
}

type DebugDayCmd struct {
	Day string `arg:"" optional:"" help:"Day (YYYY-MM-DD or \"today\")." default:"today"`
}

func (c *DebugDayCmd) Run(ctx *cli.Context) error {
	day := c.Day
	if day == "" || day == "today" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		today, err := timeutil.GetTodayInTimezone(settings.Timezone)
		if err != nil {
			return err
		}
		day = today
	} else if !isValidDate(day) {
		return fmt.Errorf("invalid date: %s (expected YYYY-MM-DD or \"today\")", day)
	}

	completions, err := ctx.Store.GetCompletionsForDay(day)
	if err != nil {
		return err
	}

	fmt.Printf("Completions for %s:\n", day)
	return dumpJSON(completions)
}

type DebugSettingsCmd struct{}

func (c *DebugSettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return err
	}
	return dumpJSON(settings)
}

func dumpJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func isValidDate(s string) bool {
	_, err := time.Parse(constants.DateFormat, s)
	return err == nil
}
