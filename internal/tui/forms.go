package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"ritual/internal/cli"
	"ritual/internal/constants"
	"ritual/internal/models"
	"ritual/internal/timeutil"
)

type HabitFormModel struct {
	Name     string
	Kind     models.RuleKind
	Value    string
	Days     string
	Time     string
	Notes    string
	Timezone string
}

type SettingsFormModel struct {
	Timezone         string
	DefaultTimeframe string
	AutoBackup       bool
	MaxBackups       string
}

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[models.RuleKind]().
				Title("Frequency").
				Options(
					huh.NewOption("Daily", models.KindDaily),
					huh.NewOption("Weekly", models.KindWeekly),
					huh.NewOption("Custom time", models.KindCustom),
				).
				Value(&fm.Kind),
			huh.NewInput().
				Title("Times per period").
				Value(&fm.Value).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i < 1 {
						return fmt.Errorf("must be a positive number")
					}
					return nil
				}),
			huh.NewInput().
				Title("Weekdays").
				Description("Comma-separated (mon,thu). Daily habits may leave this empty.").
				Value(&fm.Days).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						if fm.Kind == models.KindDaily {
							return nil
						}
						return fmt.Errorf("%s habits need at least one weekday", fm.Kind)
					}
					_, err := cli.ParseWeekdays(s)
					return err
				}),
			huh.NewInput().
				Title("Time (HH:MM)").
				Description("Only for custom frequency").
				Value(&fm.Time).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						if fm.Kind == models.KindCustom {
							return fmt.Errorf("custom habits need a time of day")
						}
						return nil
					}
					if _, err := time.Parse(constants.TimeFormat, s); err != nil {
						return fmt.Errorf("invalid time format, use HH:MM")
					}
					return nil
				}),
			huh.NewInput().
				Title("Notes").
				Value(&fm.Notes),
			huh.NewInput().
				Title("Timezone (IANA name or 'Local')").
				Description("Leave empty to use the app-wide setting").
				Value(&fm.Timezone).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					return timeutil.ValidateTimezone(s)
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewSettingsForm creates a new form for editing settings
func NewSettingsForm(fm *SettingsFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Timezone (IANA name or 'Local')").
				Description("Examples: Local, UTC, America/New_York, Europe/London, Asia/Tokyo").
				Value(&fm.Timezone).
				Validate(timeutil.ValidateTimezone),
			huh.NewSelect[string]().
				Title("Default Timeframe").
				Options(
					huh.NewOption("Daily", string(timeutil.TimeframeDaily)),
					huh.NewOption("Weekly", string(timeutil.TimeframeWeekly)),
					huh.NewOption("Monthly", string(timeutil.TimeframeMonthly)),
				).
				Value(&fm.DefaultTimeframe),
			huh.NewConfirm().
				Title("Auto Backup").
				Description("Back up the database before destructive operations").
				Value(&fm.AutoBackup),
			huh.NewInput().
				Title("Max Backups").
				Value(&fm.MaxBackups).
				Validate(func(s string) error {
					i, err := strconv.Atoi(s)
					if err != nil {
						return err
					}
					if i < 1 {
						return fmt.Errorf("must keep at least one backup")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

// buildHabitRule assembles the rule the completed form describes. Field
// validators have already vetted the pieces individually.
func buildHabitRule(fm *HabitFormModel) (models.Rule, error) {
	value, err := strconv.Atoi(strings.TrimSpace(fm.Value))
	if err != nil {
		return models.Rule{}, fmt.Errorf("invalid value: %w", err)
	}

	var days []time.Weekday
	if strings.TrimSpace(fm.Days) != "" {
		days, err = cli.ParseWeekdays(fm.Days)
		if err != nil {
			return models.Rule{}, err
		}
	}

	switch fm.Kind {
	case models.KindWeekly:
		return models.NewWeeklyRule(value, days)
	case models.KindCustom:
		return models.NewCustomRule(value, strings.TrimSpace(fm.Time), days)
	default:
		return models.NewDailyRule(value, days)
	}
}
