package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"ritual/internal/backup"
	"ritual/internal/constants"
	"ritual/internal/logger"
	"ritual/internal/models"
	"ritual/internal/storage"
	"ritual/internal/timeutil"
)

type Context struct {
	Store storage.Provider
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	settings, err := c.Store.GetSettings()
	if err == nil && !settings.AutoBackup {
		return
	}

	mgr := backup.NewManager(c.Store.GetConfigPath())
	if err == nil && settings.MaxBackups > 0 {
		mgr.SetMaxBackups(settings.MaxBackups)
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ParseWeekdays parses a comma-separated list of weekdays
func ParseWeekdays(s string) ([]time.Weekday, error) {
	parts := strings.Split(s, ",")
	var weekdays []time.Weekday

	dayMap := map[string]time.Weekday{
		"sun":       time.Sunday,
		"sunday":    time.Sunday,
		"mon":       time.Monday,
		"monday":    time.Monday,
		"tue":       time.Tuesday,
		"tuesday":   time.Tuesday,
		"wed":       time.Wednesday,
		"wednesday": time.Wednesday,
		"thu":       time.Thursday,
		"thursday":  time.Thursday,
		"fri":       time.Friday,
		"friday":    time.Friday,
		"sat":       time.Saturday,
		"saturday":  time.Saturday,
	}

	for _, part := range parts {
		part = strings.TrimSpace(strings.ToLower(part))
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
		} else {
			// Try parsing as number (0=Sunday, 6=Saturday)
			num, err := strconv.Atoi(part)
			if err == nil && num >= 0 && num <= 6 {
				weekdays = append(weekdays, time.Weekday(num))
			} else {
				return nil, fmt.Errorf("invalid weekday: %s", part)
			}
		}
	}

	return weekdays, nil
}

// HabitLocation resolves the timezone a habit's rule is evaluated in,
// falling back to the app-wide setting when the habit carries none.
func HabitLocation(habit models.Habit, settings models.Settings) (*time.Location, error) {
	tz := habit.Timezone
	if tz == "" {
		tz = settings.Timezone
	}
	return timeutil.LoadLocation(tz)
}

// CompletionInstant pins a completion on day to the instant the streak
// calculator scores. Custom rules score the schedule's clock time, a
// backdated day scores its midnight, and today scores the current moment.
func CompletionInstant(rule models.Rule, day string, now time.Time, loc *time.Location) (time.Time, error) {
	if rule.Kind == models.KindCustom && rule.Custom != nil {
		return timeutil.CombineDateAndTime(day, rule.Custom.Time, loc)
	}

	today, err := timeutil.Format(now, constants.DateFormat, loc)
	if err != nil {
		return time.Time{}, err
	}
	if day == today {
		return now.In(loc), nil
	}
	return timeutil.ParseDateInLocation(day, loc)
}

// CompletionInstants extracts the scored instants from completions,
// converted into the habit's location.
func CompletionInstants(completions []models.Completion, loc *time.Location) []time.Time {
	out := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		out = append(out, c.CompletedAt.In(loc))
	}
	return out
}

// ScheduledOn reports whether the rule schedules the given weekday. Daily
// rules schedule every day regardless of their day list.
func ScheduledOn(rule models.Rule, wd time.Weekday) bool {
	if rule.Kind == models.KindDaily {
		return true
	}
	for _, d := range rule.ScheduleDays() {
		if d == wd {
			return true
		}
	}
	return false
}
