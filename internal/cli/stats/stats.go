package stats

import (
	"fmt"
	"time"

	"ritual/internal/cli"
	"ritual/internal/constants"
	"ritual/internal/models"
	"ritual/internal/recurrence"
	"ritual/internal/timeutil"
)

type StatsCmd struct {
	Streaks StatsStreaksCmd `cmd:"" help:"Show current and longest streaks."`
	Summary StatsSummaryCmd `cmd:"" help:"Show completion rates for a timeframe."`
}

type StatsStreaksCmd struct {
	Name     string `arg:"" optional:"" help:"Habit name (default: all habits)."`
	Archived bool   `help:"Include archived habits."`
}

func (c *StatsStreaksCmd) Run(ctx *cli.Context) error {
	var habits []models.Habit
	if c.Name != "" {
		habit, err := ctx.Store.GetHabitByName(c.Name)
		if err != nil {
			return fmt.Errorf("habit %q not found", c.Name)
		}
		habits = []models.Habit{habit}
	} else {
		all, err := ctx.Store.GetAllHabits(c.Archived, false)
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

	fmt.Printf("%-24s %8s %8s  %s\n", "HABIT", "CURRENT", "LONGEST", "STATUS")
	for _, habit := range habits {
		loc, err := cli.HabitLocation(habit, settings)
		if err != nil {
			return err
		}
		completions, err := ctx.Store.GetCompletionsForHabit(habit.ID, "", "")
		if err != nil {
			return err
		}

		instants := cli.CompletionInstants(completions, loc)
		current := recurrence.CurrentStreak(instants, habit.Rule, time.Now().In(loc))
		longest := recurrence.LongestStreak(instants, habit.Rule)

		// A lapsed run displays as zero; its achieved length moves to the
		// status column so history stays inspectable.
		shown := current.Length
		status := "-"
		if current.Length > 0 {
			if current.Active {
				status = "active"
			} else {
				shown = 0
				status = fmt.Sprintf("lapsed (was %d)", current.Length)
			}
		}
		fmt.Printf("%-24s %8d %8d  %s\n", habit.Name, shown, longest, status)
	}

	return nil
}

type StatsSummaryCmd struct {
	Timeframe string `help:"Reporting window: daily, weekly, or monthly (default: app setting)."`
}

func (c *StatsSummaryCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	name := c.Timeframe
	if name == "" {
		name = settings.DefaultTimeframe
	}
	tf, err := timeutil.ParseTimeframe(name)
	if err != nil {
		return err
	}

	loc, err := timeutil.LoadLocation(settings.Timezone)
	if err != nil {
		return err
	}
	rng, err := timeutil.ResolveRange(tf, time.Now().In(loc))
	if err != nil {
		return err
	}

	habits, err := ctx.Store.GetAllHabits(false, false)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	startDay := rng.Start.Format(constants.DateFormat)
	endDay := rng.End.Format(constants.DateFormat)
	fmt.Printf("Summary %s to %s (%s):\n\n", startDay, endDay, tf)

	totalDone, totalExpected := 0, 0
	for _, habit := range habits {
		expected := countScheduled(rng, habit.Rule)
		done, err := ctx.Store.CountCompletions(habit.ID, startDay, endDay)
		if err != nil {
			return err
		}

		totalDone += done
		totalExpected += expected

		if expected == 0 {
			fmt.Printf("%-24s %3d done (nothing scheduled)\n", habit.Name, done)
			continue
		}
		fmt.Printf("%-24s %3d/%-3d %5.1f%%\n", habit.Name, done, expected, rate(done, expected))
	}

	if totalExpected > 0 {
		fmt.Printf("\nOverall: %d/%d %5.1f%%\n", totalDone, totalExpected, rate(totalDone, totalExpected))
	}
	return nil
}

// countScheduled walks the range day by day and counts the days the rule
// recurs on.
func countScheduled(rng timeutil.DateRange, rule models.Rule) int {
	n := 0
	for d := rng.Start; !d.After(rng.End); d = d.AddDate(0, 0, 1) {
		if cli.ScheduledOn(rule, d.Weekday()) {
			n++
		}
	}
	return n
}

func rate(done, expected int) float64 {
	return 100 * float64(done) / float64(expected)
}
