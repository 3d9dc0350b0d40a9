package recurrence

import (
	"sort"
	"time"

	"ritual/internal/constants"
	"ritual/internal/models"
	"ritual/internal/timeutil"
)

// StreakResult reports a consecutive-completion count and whether the run
// is still alive relative to now. A lapsed streak keeps its raw length so
// history stays inspectable; callers display it as zero.
type StreakResult struct {
	Length int  `json:"length"`
	Active bool `json:"active"`
}

// CurrentStreak computes the unbroken run of qualifying completions ending
// at the most recent one. Completions may arrive in any order; the
// calculator sorts its own copy and never touches the input. A single
// backward scan stops at the first gap, so cost stays linear in the history
// after sorting.
func CurrentStreak(completions []time.Time, rule models.Rule, now time.Time) StreakResult {
	days := uniqueDaysDescending(completions)
	if len(days) == 0 {
		return StreakResult{}
	}

	streak := 1
	for i := 0; i < len(days)-1; i++ {
		if !consecutive(days[i], days[i+1], rule) {
			break
		}
		streak++
	}

	return StreakResult{
		Length: streak,
		Active: withinValidityWindow(days[0], rule, now),
	}
}

// LongestStreak scans the full history for the longest run of consecutive
// completions, counting through gaps instead of stopping at the first one.
func LongestStreak(completions []time.Time, rule models.Rule) int {
	days := uniqueDaysDescending(completions)
	if len(days) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 0; i < len(days)-1; i++ {
		if consecutive(days[i], days[i+1], rule) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// consecutive reports whether current directly extends older under the rule.
func consecutive(current, older time.Time, rule models.Rule) bool {
	switch rule.Kind {
	case models.KindDaily:
		return timeutil.DaysBetween(older, current) == 1
	case models.KindWeekly:
		return timeutil.WeeksBetween(older, current) == 1
	case models.KindCustom:
		next := NextQualifyingDate(older, rule)
		return !next.IsZero() && timeutil.SameCalendarDay(current, next)
	default:
		return false
	}
}

// withinValidityWindow reports whether the most recent completion keeps the
// streak alive relative to now. Kept separate from IsQualifyingDate:
// qualifying as an occurrence and keeping a streak alive are distinct
// policies even where the checks currently coincide.
func withinValidityWindow(mostRecent time.Time, rule models.Rule, now time.Time) bool {
	switch rule.Kind {
	case models.KindDaily:
		return timeutil.SameCalendarDay(mostRecent, now) ||
			timeutil.SameCalendarDay(mostRecent, now.AddDate(0, 0, -1))
	case models.KindWeekly:
		return timeutil.SameCalendarWeek(mostRecent, now) &&
			containsWeekday(rule.Days, mostRecent.Weekday())
	case models.KindCustom:
		if rule.Custom == nil {
			return false
		}
		return containsWeekday(rule.Custom.Days, mostRecent.Weekday()) &&
			mostRecent.Format(constants.TimeFormat) == rule.Custom.Time
	default:
		return false
	}
}

// uniqueDaysDescending sorts a copy of the completions newest first and
// collapses entries sharing a calendar day, keeping each day's latest
// instant. Completions form a set; one fulfillment per day is what counts.
func uniqueDaysDescending(completions []time.Time) []time.Time {
	if len(completions) == 0 {
		return nil
	}

	sorted := append([]time.Time(nil), completions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].After(sorted[j]) })

	days := make([]time.Time, 0, len(sorted))
	days = append(days, sorted[0])
	for _, t := range sorted[1:] {
		if !timeutil.SameCalendarDay(t, days[len(days)-1]) {
			days = append(days, t)
		}
	}
	return days
}
