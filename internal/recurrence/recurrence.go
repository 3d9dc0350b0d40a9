package recurrence

import (
	"time"

	"ritual/internal/constants"
	"ritual/internal/models"
	"ritual/internal/timeutil"
)

// IsQualifyingDate reports whether date counts as an occurrence of the rule
// relative to now. Both instants must already be in the habit's timezone.
// A malformed or unrecognized rule never qualifies; qualification is a
// predicate, not a validator.
func IsQualifyingDate(date time.Time, rule models.Rule, now time.Time) bool {
	switch rule.Kind {
	case models.KindDaily:
		// Completing today or yesterday counts; the one-day lookback is the
		// grace period before a daily habit lapses.
		return timeutil.SameCalendarDay(date, now) ||
			timeutil.SameCalendarDay(date, now.AddDate(0, 0, -1))
	case models.KindWeekly:
		return timeutil.SameCalendarWeek(date, now) &&
			containsWeekday(rule.Days, date.Weekday())
	case models.KindCustom:
		if rule.Custom == nil {
			return false
		}
		return containsWeekday(rule.Custom.Days, date.Weekday()) &&
			date.Format(constants.TimeFormat) == rule.Custom.Time
	default:
		return false
	}
}

// NextQualifyingDate returns the first date after the reference date that
// the rule's day progression reaches. Weekly and custom rules pick the
// smallest listed weekday not yet passed this week, or the smallest listed
// weekday next week; a custom schedule's clock time gates qualification but
// never moves the day. Day sets are non-empty for validated rules; without
// one there is nothing to reach and the zero time comes back.
func NextQualifyingDate(after time.Time, rule models.Rule) time.Time {
	switch rule.Kind {
	case models.KindDaily:
		return after.AddDate(0, 0, 1)
	case models.KindWeekly:
		return nextOnDays(after, rule.Days)
	case models.KindCustom:
		if rule.Custom == nil {
			return time.Time{}
		}
		return nextOnDays(after, rule.Custom.Days)
	default:
		return time.Time{}
	}
}

const noWeekday = time.Weekday(8)

func nextOnDays(after time.Time, days []time.Weekday) time.Time {
	wd := after.Weekday()
	thisWeek, nextWeek := noWeekday, noWeekday
	for _, d := range days {
		if d > wd && d < thisWeek {
			thisWeek = d
		}
		if d < nextWeek {
			nextWeek = d
		}
	}
	if thisWeek != noWeekday {
		return after.AddDate(0, 0, int(thisWeek-wd))
	}
	if nextWeek == noWeekday {
		return time.Time{}
	}
	return after.AddDate(0, 0, constants.DaysPerWeek-int(wd)+int(nextWeek))
}

func containsWeekday(days []time.Weekday, wd time.Weekday) bool {
	for _, d := range days {
		if d == wd {
			return true
		}
	}
	return false
}
