package timeutil

import (
	"errors"
	"fmt"
	"math"
	"time"

	"ritual/internal/constants"
)

var (
	// ErrInvalidInstant indicates a zero or missing timestamp
	ErrInvalidInstant = errors.New("invalid instant")

	// ErrInvalidFormat indicates a layout that cannot render or match the value
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidTimezone indicates an unrecognized timezone identifier
	ErrInvalidTimezone = errors.New("invalid timezone")
)

// supportedLayout reports whether layout is one of the fixed formats used
// for serialized dates and times.
func supportedLayout(layout string) bool {
	switch layout {
	case constants.DateFormat, constants.TimeFormat, constants.DateTimeFormat:
		return true
	}
	return false
}

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, timezone)
	}
	return loc, nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) error {
	_, err := LoadLocation(timezone)
	return err
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, err
	}
	return time.Now().In(loc), nil
}

// Format renders t in loc using one of the supported layouts. It fails
// rather than substituting defaults: a zero instant, an unsupported layout,
// or a nil location is a caller bug that must surface.
func Format(t time.Time, layout string, loc *time.Location) (string, error) {
	if t.IsZero() {
		return "", ErrInvalidInstant
	}
	if !supportedLayout(layout) {
		return "", fmt.Errorf("%w: unsupported layout %q", ErrInvalidFormat, layout)
	}
	if loc == nil {
		return "", fmt.Errorf("%w: nil location", ErrInvalidTimezone)
	}
	return t.In(loc).Format(layout), nil
}

// Parse is the inverse of Format. A parsed date yields midnight in loc; a
// parsed time yields a zero-date clock reading in loc.
func Parse(text, layout string, loc *time.Location) (time.Time, error) {
	if text == "" {
		return time.Time{}, ErrInvalidInstant
	}
	if !supportedLayout(layout) {
		return time.Time{}, fmt.Errorf("%w: unsupported layout %q", ErrInvalidFormat, layout)
	}
	if loc == nil {
		return time.Time{}, fmt.Errorf("%w: nil location", ErrInvalidTimezone)
	}
	t, err := time.ParseInLocation(layout, text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q does not match %q", ErrInvalidFormat, text, layout)
	}
	return t, nil
}

// GetTodayInTimezone returns today's date string (YYYY-MM-DD) in the specified timezone.
// This ensures that "today" is determined by the user's configured timezone, not the system timezone.
func GetTodayInTimezone(timezone string) (string, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return "", err
	}
	return now.Format(constants.DateFormat), nil
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) to midnight in the specified timezone.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	return Parse(dateStr, constants.DateFormat, loc)
}

// CombineDateAndTime combines a date string (YYYY-MM-DD) and time string (HH:MM)
// into a single time.Time in the specified timezone.
func CombineDateAndTime(dateStr, timeStr string, loc *time.Location) (time.Time, error) {
	date, err := Parse(dateStr, constants.DateFormat, loc)
	if err != nil {
		return time.Time{}, err
	}
	timeOfDay, err := Parse(timeStr, constants.TimeFormat, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		loc,
	), nil
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of t's calendar day.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// SameCalendarDay reports whether a and b fall on the same calendar date.
// Both arguments must already be in the timezone the comparison is meant for.
func SameCalendarDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// StartOfWeek returns midnight of the Sunday starting t's calendar week.
// Weeks start on Sunday, matching weekday index 0 = Sunday.
func StartOfWeek(t time.Time) time.Time {
	return StartOfDay(t.AddDate(0, 0, -int(t.Weekday())))
}

// SameCalendarWeek reports whether a and b fall in the same Sunday-started week.
func SameCalendarWeek(a, b time.Time) bool {
	return StartOfWeek(a).Equal(StartOfWeek(b))
}

// DaysBetween returns the number of calendar days from a to b (negative when
// b precedes a). Rounding absorbs the 23- and 25-hour days around DST shifts.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(StartOfDay(b).Sub(StartOfDay(a)).Hours() / 24))
}

// WeeksBetween returns the number of calendar weeks from a's week to b's week.
func WeeksBetween(a, b time.Time) int {
	return DaysBetween(StartOfWeek(a), StartOfWeek(b)) / constants.DaysPerWeek
}
