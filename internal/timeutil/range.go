package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Timeframe names a reporting window resolved to a concrete date range.
type Timeframe string

const (
	TimeframeDaily   Timeframe = "daily"
	TimeframeWeekly  Timeframe = "weekly"
	TimeframeMonthly Timeframe = "monthly"
)

// ErrInvalidTimeframe indicates an unrecognized timeframe name
var ErrInvalidTimeframe = errors.New("invalid timeframe")

// DateRange is an inclusive start/end pair of instants, Start <= End.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseTimeframe converts user input into a Timeframe.
func ParseTimeframe(s string) (Timeframe, error) {
	switch Timeframe(strings.ToLower(strings.TrimSpace(s))) {
	case TimeframeDaily:
		return TimeframeDaily, nil
	case TimeframeWeekly:
		return TimeframeWeekly, nil
	case TimeframeMonthly:
		return TimeframeMonthly, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
}

// ResolveRange computes the inclusive reporting bounds for a timeframe.
// The end is always the end-of-day boundary of now and the start is the
// start-of-day boundary of the offset date, so both boundary days are
// covered in full.
func ResolveRange(tf Timeframe, now time.Time) (DateRange, error) {
	var start time.Time
	switch tf {
	case TimeframeDaily:
		start = StartOfDay(now.AddDate(0, 0, -1))
	case TimeframeWeekly:
		start = StartOfDay(now.AddDate(0, 0, -7))
	case TimeframeMonthly:
		start = StartOfDay(AddMonthsClamped(now, -1))
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrInvalidTimeframe, tf)
	}
	return DateRange{Start: start, End: EndOfDay(now)}, nil
}

// AddMonthsClamped shifts t by the given number of months, clamping the day
// to the target month's length instead of letting it normalize past the end
// (Mar 31 minus one month is Feb 28/29, not Mar 2).
func AddMonthsClamped(t time.Time, months int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(months), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	lastDay := time.Date(first.Year(), first.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
