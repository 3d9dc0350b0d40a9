package habits

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"ritual/internal/cli"
	"ritual/internal/constants"
	"ritual/internal/models"
	"ritual/internal/recurrence"
	"ritual/internal/timeutil"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits with their streaks."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit an existing habit."`
	Done    HabitDoneCmd    `cmd:"" help:"Mark a habit done for a day (toggles)."`
	Today   HabitTodayCmd   `cmd:"" help:"Show today's habit status."`
	Next    HabitNextCmd    `cmd:"" help:"Show the next scheduled date."`
	Log     HabitLogCmd     `cmd:"" help:"Show completion history (ASCII grid)."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit (soft delete)."`
	Restore HabitRestoreCmd `cmd:"" help:"Restore a deleted habit."`
}

type HabitAddCmd struct {
	Name     string `arg:"" help:"Habit name."`
	Kind     string `help:"Rule kind." enum:"daily,weekly,custom" default:"daily"`
	Value    int    `help:"Cadence value (e.g. times per period)." default:"1"`
	Days     string `help:"Comma-separated weekdays (e.g. mon,wed,fri)."`
	Time     string `help:"Clock time for custom rules (HH:MM)."`
	Notes    string `help:"Optional notes."`
	Timezone string `help:"IANA timezone for day boundaries (default: app setting)."`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	// Check if habit with same name already exists
	if _, err := ctx.Store.GetHabitByName(c.Name); err == nil {
		return fmt.Errorf("habit with name %q already exists", c.Name)
	}

	rule, err := buildRule(c.Kind, c.Value, c.Days, c.Time)
	if err != nil {
		return err
	}

	tz := c.Timezone
	if tz == "" {
		settings, err := ctx.Store.GetSettings()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		tz = settings.Timezone
	}
	if err := timeutil.ValidateTimezone(tz); err != nil {
		return err
	}

	now := time.Now()
	habit := models.Habit{
		ID:        uuid.New().String(),
		Name:      c.Name,
		Notes:     c.Notes,
		Rule:      rule,
		Timezone:  tz,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := ctx.Store.AddHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s)\n", c.Name, rule.Describe())
	return nil
}

func buildRule(kind string, value int, days, clock string) (models.Rule, error) {
	var weekdays []time.Weekday
	if days != "" {
		parsed, err := cli.ParseWeekdays(days)
		if err != nil {
			return models.Rule{}, err
		}
		weekdays = parsed
	}

	switch models.RuleKind(kind) {
	case models.KindDaily:
		return models.NewDailyRule(value, weekdays)
	case models.KindWeekly:
		if len(weekdays) == 0 {
			return models.Rule{}, fmt.Errorf("weekly habits need --days (e.g. --days mon,thu)")
		}
		return models.NewWeeklyRule(value, weekdays)
	case models.KindCustom:
		if clock == "" {
			return models.Rule{}, fmt.Errorf("custom habits need --time (HH:MM)")
		}
		if len(weekdays) == 0 {
			return models.Rule{}, fmt.Errorf("custom habits need --days (e.g. --days tue,sat)")
		}
		return models.NewCustomRule(value, clock, weekdays)
	default:
		return models.Rule{}, fmt.Errorf("unknown rule kind: %s", kind)
	}
}

type HabitListCmd struct {
	Archived bool `help:"Include archived habits."`
	Deleted  bool `help:"Include deleted habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(c.Archived, c.Deleted)
	if err != nil {
		return err
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	for _, habit := range habits {
		status := ""
		if habit.DeletedAt != nil {
			status = " [DELETED]"
		} else if habit.ArchivedAt != nil {
			status = " [ARCHIVED]"
		}

		loc, err := cli.HabitLocation(habit, settings)
		if err != nil {
			return err
		}
		completions, err := ctx.Store.GetCompletionsForHabit(habit.ID, "", "")
		if err != nil {
			return err
		}

		streak := recurrence.CurrentStreak(cli.CompletionInstants(completions, loc), habit.Rule, time.Now().In(loc))
		streakLabel := fmt.Sprintf("streak %d", streak.Length)
		if streak.Length > 0 && !streak.Active {
			streakLabel = fmt.Sprintf("streak 0 (was %d)", streak.Length)
		}

		fmt.Printf("%-24s %-26s %s%s\n", habit.Name, habit.Rule.Describe(), streakLabel, status)
	}

	return nil
}

type HabitEditCmd struct {
	Name     string  `arg:"" help:"Habit name to edit."`
	NewName  *string `help:"New habit name."`
	Notes    *string `help:"New notes."`
	Kind     *string `help:"New rule kind (daily, weekly, custom)."`
	Value    *int    `help:"New cadence value."`
	Days     *string `help:"New comma-separated weekdays."`
	Time     *string `help:"New clock time for custom rules (HH:MM)."`
	Timezone *string `help:"New IANA timezone."`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	if c.NewName != nil && *c.NewName != habit.Name {
		if _, err := ctx.Store.GetHabitByName(*c.NewName); err == nil {
			return fmt.Errorf("habit with name %q already exists", *c.NewName)
		}
		habit.Name = *c.NewName
	}
	if c.Notes != nil {
		habit.Notes = *c.Notes
	}
	if c.Timezone != nil {
		if err := timeutil.ValidateTimezone(*c.Timezone); err != nil {
			return err
		}
		habit.Timezone = *c.Timezone
	}

	if c.Kind != nil || c.Value != nil || c.Days != nil || c.Time != nil {
		kind := string(habit.Rule.Kind)
		value := habit.Rule.Value
		days := describeDayFlags(habit.Rule.ScheduleDays())
		clock := ""
		if habit.Rule.Custom != nil {
			clock = habit.Rule.Custom.Time
		}

		if c.Kind != nil {
			kind = *c.Kind
		}
		if c.Value != nil {
			value = *c.Value
		}
		if c.Days != nil {
			days = *c.Days
		}
		if c.Time != nil {
			clock = *c.Time
		}

		rule, err := buildRule(kind, value, days, clock)
		if err != nil {
			return err
		}
		habit.Rule = rule
	}

	habit.UpdatedAt = time.Now()
	if err := ctx.Store.UpdateHabit(habit); err != nil {
		return err
	}

	fmt.Printf("Updated habit: %s (%s)\n", habit.Name, habit.Rule.Describe())
	return nil
}

// describeDayFlags renders a weekday set back into the --days flag form so
// edits can round-trip unchanged fields through buildRule.
func describeDayFlags(days []time.Weekday) string {
	if len(days) == 0 {
		return ""
	}
	names := make([]string, 0, len(days))
	for _, wd := range days {
		names = append(names, strings.ToLower(wd.String()[:3]))
	}
	return strings.Join(names, ",")
}

type HabitDoneCmd struct {
	Name string `arg:"" help:"Habit name."`
	Date string `help:"Day to mark (YYYY-MM-DD, default: today)." default:""`
	Note string `help:"Optional note for this completion." default:""`
}

func (c *HabitDoneCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	loc, err := cli.HabitLocation(habit, settings)
	if err != nil {
		return err
	}
	now := time.Now().In(loc)

	day := c.Date
	if day == "" {
		day = now.Format(constants.DateFormat)
	} else if _, err := time.Parse(constants.DateFormat, day); err != nil {
		return fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", day)
	}

	// Toggle: a second mark on the same day removes the completion.
	if _, err := ctx.Store.GetCompletion(habit.ID, day); err == nil {
		if err := ctx.Store.DeleteCompletion(habit.ID, day); err != nil {
			return err
		}
		fmt.Printf("Unmarked %q for %s\n", c.Name, day)
		return nil
	}

	instant, err := cli.CompletionInstant(habit.Rule, day, now, loc)
	if err != nil {
		return err
	}

	completion := models.Completion{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		Day:         day,
		CompletedAt: instant,
		Note:        c.Note,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := ctx.Store.AddCompletion(completion); err != nil {
		return err
	}

	fmt.Printf("Marked %q done for %s\n", c.Name, day)

	marked, err := timeutil.ParseDateInLocation(day, loc)
	if err == nil && !cli.ScheduledOn(habit.Rule, marked.Weekday()) {
		fmt.Printf("Note: %s is a %s, which this habit's rule (%s) does not schedule.\n",
			day, marked.Weekday(), habit.Rule.Describe())
	}
	return nil
}

type HabitTodayCmd struct{}

func (c *HabitTodayCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(false, false)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	fmt.Println("Today's habits:")
	fmt.Println()

	recorded, due := 0, 0
	for _, habit := range habits {
		loc, err := cli.HabitLocation(habit, settings)
		if err != nil {
			return err
		}
		now := time.Now().In(loc)
		if !cli.ScheduledOn(habit.Rule, now.Weekday()) {
			continue
		}
		due++

		day := now.Format(constants.DateFormat)
		status := "[ ]"
		if _, err := ctx.Store.GetCompletion(habit.ID, day); err == nil {
			status = "[x]"
			recorded++
		}
		fmt.Printf("%s %s (%s)\n", status, habit.Name, habit.Rule.Describe())
	}

	if due == 0 {
		fmt.Println("Nothing scheduled for today.")
		return nil
	}
	fmt.Printf("\nRecorded: %d/%d\n", recorded, due)
	return nil
}

type HabitNextCmd struct {
	Name string `arg:"" optional:"" help:"Habit name (default: all habits)."`
}

func (c *HabitNextCmd) Run(ctx *cli.Context) error {
	var habits []models.Habit
	if c.Name != "" {
		habit, err := ctx.Store.GetHabitByName(c.Name)
		if err != nil {
			return fmt.Errorf("habit %q not found", c.Name)
		}
		habits = []models.Habit{habit}
	} else {
		all, err := ctx.Store.GetAllHabits(false, false)
		if err != nil {
			return err
		}
		habits = all
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	for _, habit := range habits {
		loc, err := cli.HabitLocation(habit, settings)
		if err != nil {
			return err
		}
		now := time.Now().In(loc)

		next := recurrence.NextQualifyingDate(now, habit.Rule)
		if next.IsZero() {
			fmt.Printf("%-24s no upcoming date\n", habit.Name)
			continue
		}

		when := fmt.Sprintf("%s (%s)", next.Format(constants.DateFormat), next.Weekday().String()[:3])
		if habit.Rule.Kind == models.KindCustom && habit.Rule.Custom != nil {
			when += " at " + habit.Rule.Custom.Time
		}
		fmt.Printf("%-24s %s\n", habit.Name, when)
	}

	return nil
}

type HabitLogCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show log for a specific habit only."`
}

func (c *HabitLogCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(false, false)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	var selected []models.Habit
	if c.Habit != "" {
		for _, h := range habits {
			if h.Name == c.Habit {
				selected = []models.Habit{h}
				break
			}
		}
		if len(selected) == 0 {
			return fmt.Errorf("habit %q not found", c.Habit)
		}
	} else {
		selected = habits
	}

	endDay := time.Now()
	startDay := endDay.AddDate(0, 0, -(c.Days - 1))

	fmt.Printf("Completion log (last %d days):\n\n", c.Days)

	const nameWidth = 20
	fmt.Print(strings.Repeat(" ", nameWidth))
	for i := 0; i < c.Days; i++ {
		day := startDay.AddDate(0, 0, i)
		fmt.Printf(" %5s", day.Format("01/02"))
	}
	fmt.Println()

	fmt.Print(strings.Repeat("-", nameWidth))
	for i := 0; i < c.Days; i++ {
		fmt.Print("------")
	}
	fmt.Println()

	for _, habit := range selected {
		name := habit.Name
		if len(name) > nameWidth {
			name = name[:nameWidth-3] + "..."
		} else {
			name = name + strings.Repeat(" ", nameWidth-len(name))
		}
		fmt.Print(name)

		completions, err := ctx.Store.GetCompletionsForHabit(
			habit.ID,
			startDay.Format(constants.DateFormat),
			endDay.Format(constants.DateFormat),
		)
		if err != nil {
			return err
		}

		completedDays := make(map[string]bool)
		for _, completion := range completions {
			completedDays[completion.Day] = true
		}

		for i := 0; i < c.Days; i++ {
			day := startDay.AddDate(0, 0, i)
			if completedDays[day.Format(constants.DateFormat)] {
				fmt.Print("  x   ")
			} else if cli.ScheduledOn(habit.Rule, day.Weekday()) {
				fmt.Print("  .   ")
			} else {
				fmt.Print("      ")
			}
		}
		fmt.Println()
	}

	return nil
}

type HabitArchiveCmd struct {
	Name      string `arg:"" help:"Habit name to archive."`
	Unarchive bool   `help:"Unarchive the habit instead."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	if c.Unarchive {
		if err := ctx.Store.UnarchiveHabit(habit.ID); err != nil {
			return err
		}
		fmt.Printf("Unarchived habit: %s\n", c.Name)
	} else {
		if err := ctx.Store.ArchiveHabit(habit.ID); err != nil {
			return err
		}
		fmt.Printf("Archived habit: %s\n", c.Name)
	}

	return nil
}

type HabitDeleteCmd struct {
	Name string `arg:"" help:"Habit name to delete."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	habit, err := ctx.Store.GetHabitByName(c.Name)
	if err != nil {
		return fmt.Errorf("habit %q not found", c.Name)
	}

	ctx.PerformAutomaticBackup()

	if err := ctx.Store.DeleteHabit(habit.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted habit: %s\n", c.Name)
	fmt.Println("(This is a soft delete. Use 'ritual habit restore' to undo)")
	return nil
}

type HabitRestoreCmd struct {
	Name string `arg:"" help:"Habit name to restore."`
}

func (c *HabitRestoreCmd) Run(ctx *cli.Context) error {
	habits, err := ctx.Store.GetAllHabits(true, true)
	if err != nil {
		return err
	}

	var found *models.Habit
	for i := range habits {
		if habits[i].Name == c.Name && habits[i].DeletedAt != nil {
			found = &habits[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("deleted habit %q not found", c.Name)
	}

	if err := ctx.Store.RestoreHabit(found.ID); err != nil {
		return err
	}

	fmt.Printf("Restored habit: %s\n", c.Name)
	return nil
}
