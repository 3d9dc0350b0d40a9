package models

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"ritual/internal/constants"
)

// RuleKind discriminates the closed set of frequency rule variants.
type RuleKind string

const (
	KindDaily  RuleKind = "daily"
	KindWeekly RuleKind = "weekly"
	KindCustom RuleKind = "custom"
)

// ErrInvalidRule indicates a malformed frequency rule
var ErrInvalidRule = errors.New("invalid frequency rule")

// CustomSchedule pins a custom rule to a clock time on selected weekdays.
type CustomSchedule struct {
	Time string         `json:"time"` // HH:MM format
	Days []time.Weekday `json:"days"`
}

// Rule describes how often a habit recurs. A rule is immutable once built;
// edits replace it wholesale. Custom is non-nil exactly when Kind is
// KindCustom.
type Rule struct {
	Kind   RuleKind        `json:"kind"`
	Value  int             `json:"value"`
	Days   []time.Weekday  `json:"days,omitempty"`
	Custom *CustomSchedule `json:"customSchedule,omitempty"`
}

// NewDailyRule builds a daily rule. An empty day list means all seven weekdays.
func NewDailyRule(value int, days []time.Weekday) (Rule, error) {
	if len(days) == 0 {
		days = allWeekdays()
	}
	r := Rule{Kind: KindDaily, Value: value, Days: normalizeDays(days)}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// NewWeeklyRule builds a weekly rule recurring on the given weekdays.
func NewWeeklyRule(value int, days []time.Weekday) (Rule, error) {
	r := Rule{Kind: KindWeekly, Value: value, Days: normalizeDays(days)}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// NewCustomRule builds a custom rule pinned to a clock time on the given weekdays.
func NewCustomRule(value int, timeOfDay string, days []time.Weekday) (Rule, error) {
	r := Rule{
		Kind:   KindCustom,
		Value:  value,
		Custom: &CustomSchedule{Time: timeOfDay, Days: normalizeDays(days)},
	}
	if err := r.Validate(); err != nil {
		return Rule{}, err
	}
	return r, nil
}

// Validate checks the rule's structural invariants. Rules loaded from
// storage or decoded from JSON must pass through here before evaluation.
func (r Rule) Validate() error {
	switch r.Kind {
	case KindDaily, KindWeekly, KindCustom:
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidRule, r.Kind)
	}

	if r.Value < 1 {
		return fmt.Errorf("%w: value must be >= 1, got %d", ErrInvalidRule, r.Value)
	}

	if err := validateDays(r.Days); err != nil {
		return err
	}

	if r.Kind == KindCustom {
		if r.Custom == nil {
			return fmt.Errorf("%w: custom rule requires a schedule", ErrInvalidRule)
		}
		if _, err := time.Parse(constants.TimeFormat, r.Custom.Time); err != nil {
			return fmt.Errorf("%w: schedule time %q is not HH:MM", ErrInvalidRule, r.Custom.Time)
		}
		if len(r.Custom.Days) == 0 {
			return fmt.Errorf("%w: custom rule needs at least one weekday", ErrInvalidRule)
		}
		if err := validateDays(r.Custom.Days); err != nil {
			return err
		}
		return nil
	}

	if r.Custom != nil {
		return fmt.Errorf("%w: schedule is only allowed on custom rules", ErrInvalidRule)
	}
	if r.Kind == KindWeekly && len(r.Days) == 0 {
		return fmt.Errorf("%w: weekly rule needs at least one weekday", ErrInvalidRule)
	}

	return nil
}

// ScheduleDays returns the weekday set the rule recurs on.
func (r Rule) ScheduleDays() []time.Weekday {
	if r.Kind == KindCustom {
		if r.Custom == nil {
			return nil
		}
		return r.Custom.Days
	}
	return r.Days
}

// Describe renders the rule for display, e.g. "weekly on Mon,Wed,Fri".
func (r Rule) Describe() string {
	switch r.Kind {
	case KindDaily:
		return "daily"
	case KindWeekly:
		return fmt.Sprintf("weekly on %s", describeDays(r.Days))
	case KindCustom:
		if r.Custom == nil {
			return "custom"
		}
		return fmt.Sprintf("%s on %s", r.Custom.Time, describeDays(r.Custom.Days))
	default:
		return "unknown"
	}
}

func describeDays(days []time.Weekday) string {
	if len(days) == 7 {
		return "every day"
	}
	names := make([]string, 0, len(days))
	for _, wd := range days {
		names = append(names, wd.String()[:3])
	}
	return strings.Join(names, ",")
}

func allWeekdays() []time.Weekday {
	return []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
}

func normalizeDays(days []time.Weekday) []time.Weekday {
	if days == nil {
		return nil
	}
	out := append([]time.Weekday(nil), days...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func validateDays(days []time.Weekday) error {
	seen := make(map[time.Weekday]bool, len(days))
	for _, wd := range days {
		if wd < time.Sunday || wd > time.Saturday {
			return fmt.Errorf("%w: weekday %d out of range [0,6]", ErrInvalidRule, int(wd))
		}
		if seen[wd] {
			return fmt.Errorf("%w: duplicate weekday %s", ErrInvalidRule, wd)
		}
		seen[wd] = true
	}
	return nil
}
