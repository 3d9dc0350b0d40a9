package validation

import (
	"fmt"
	"sort"
	"time"

	"ritual/internal/constants"
	"ritual/internal/models"
	"ritual/internal/timeutil"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateHabitName    ConflictType = "duplicate_habit_name"
	ConflictInvalidRule           ConflictType = "invalid_rule"
	ConflictInvalidTimezone       ConflictType = "invalid_timezone"
	ConflictInvalidDate           ConflictType = "invalid_date"
	ConflictOrphanedCompletion    ConflictType = "orphaned_completion"
	ConflictUnscheduledCompletion ConflictType = "unscheduled_completion"
)

// Conflict represents a detected problem in stored habits or completions
type Conflict struct {
	Type        ConflictType
	Description string
	Day         string   // YYYY-MM-DD format (if applicable)
	Items       []string // Habit names involved
	HabitIDs    []string // IDs of habits involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string
	SourceConflict Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range vr.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks stored habits and completions for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateHabits checks habits for duplicate names, malformed rules, and
// unrecognized timezones. Soft-deleted habits are skipped; archived habits
// are still checked since unarchiving brings them back.
func (v *Validator) ValidateHabits(habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	nameCount := make(map[string][]string)
	for _, habit := range habits {
		if habit.DeletedAt != nil {
			continue
		}
		if habit.Name == "" {
			continue
		}
		nameCount[habit.Name] = append(nameCount[habit.Name], habit.ID)
	}

	for name, ids := range nameCount {
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateHabitName,
				Description: fmt.Sprintf("Duplicate habit name: \"%s\" (IDs: %v)", name, ids),
				Items:       []string{name},
				HabitIDs:    ids,
			})
		}
	}

	for _, habit := range habits {
		if habit.DeletedAt != nil {
			continue
		}

		if err := habit.Rule.Validate(); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidRule,
				Description: fmt.Sprintf("Habit \"%s\" has an invalid rule: %v", habit.Name, err),
				Items:       []string{habit.Name},
				HabitIDs:    []string{habit.ID},
			})
		}

		if err := timeutil.ValidateTimezone(habit.Timezone); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidTimezone,
				Description: fmt.Sprintf("Habit \"%s\" has an invalid timezone: %s", habit.Name, habit.Timezone),
				Items:       []string{habit.Name},
				HabitIDs:    []string{habit.ID},
			})
		}
	}

	return result
}

// ValidateCompletions checks completions against the habit set: days must be
// well-formed dates, every completion must reference a known habit, and the
// day must fall on a weekday the habit's rule schedules.
func (v *Validator) ValidateCompletions(completions []models.Completion, habits []models.Habit) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	habitMap := make(map[string]models.Habit)
	for _, habit := range habits {
		habitMap[habit.ID] = habit
	}

	for _, completion := range completions {
		if completion.DeletedAt != nil {
			continue
		}

		day, err := time.Parse(constants.DateFormat, completion.Day)
		if err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Completion %s has a malformed day: %q", completion.ID, completion.Day),
				Day:         completion.Day,
				HabitIDs:    []string{completion.HabitID},
			})
			continue
		}

		if completion.CompletedAt.IsZero() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("Completion %s has no completion instant", completion.ID),
				Day:         completion.Day,
				HabitIDs:    []string{completion.HabitID},
			})
		}

		habit, ok := habitMap[completion.HabitID]
		if !ok {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictOrphanedCompletion,
				Description: fmt.Sprintf("Completion on %s references missing habit ID: %s", completion.Day, completion.HabitID),
				Day:         completion.Day,
				HabitIDs:    []string{completion.HabitID},
			})
			continue
		}

		// Daily rules accept any weekday. Weekly and custom rules only
		// schedule the days they list; a completion elsewhere means the rule
		// was edited after the fact or the row was written by hand.
		if habit.Rule.Kind != models.KindDaily && habit.Rule.Validate() == nil {
			if !scheduledOn(habit.Rule, day.Weekday()) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type: ConflictUnscheduledCompletion,
					Description: fmt.Sprintf("Habit \"%s\" completed on %s (%s), which its rule does not schedule",
						habit.Name, completion.Day, day.Weekday().String()[:3]),
					Day:      completion.Day,
					Items:    []string{habit.Name},
					HabitIDs: []string{habit.ID},
				})
			}
		}
	}

	return result
}

func scheduledOn(rule models.Rule, wd time.Weekday) bool {
	for _, d := range rule.ScheduleDays() {
		if d == wd {
			return true
		}
	}
	return false
}

// AutoFixDuplicateHabits resolves duplicate-name conflicts by keeping the
// oldest habit and soft-deleting the rest. Returns the actions taken.
func AutoFixDuplicateHabits(conflicts []Conflict, habits []models.Habit, deleteFunc func(id string) error) []FixAction {
	actions := []FixAction{}

	habitMap := make(map[string]models.Habit)
	for _, habit := range habits {
		habitMap[habit.ID] = habit
	}

	for _, conflict := range conflicts {
		if conflict.Type != ConflictDuplicateHabitName {
			continue
		}
		if len(conflict.HabitIDs) <= 1 {
			continue
		}

		var candidates []models.Habit
		for _, id := range conflict.HabitIDs {
			if habit, ok := habitMap[id]; ok && habit.DeletedAt == nil {
				candidates = append(candidates, habit)
			}
		}
		if len(candidates) <= 1 {
			continue
		}

		// Oldest first; ID ordering breaks creation-time ties.
		sort.Slice(candidates, func(i, j int) bool {
			if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
				return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
			}
			return candidates[i].ID < candidates[j].ID
		})

		keep := candidates[0]
		var deletedIDs, failedIDs []string
		for _, habit := range candidates[1:] {
			if err := deleteFunc(habit.ID); err == nil {
				deletedIDs = append(deletedIDs, habit.ID)
			} else {
				failedIDs = append(failedIDs, habit.ID)
			}
		}

		if len(deletedIDs) > 0 {
			action := fmt.Sprintf("Removed %d duplicate habit(s) named \"%s\" (kept ID: %s, removed: %v)",
				len(deletedIDs), keep.Name, keep.ID, deletedIDs)
			if len(failedIDs) > 0 {
				action += fmt.Sprintf(" (failed to remove: %v)", failedIDs)
			}
			actions = append(actions, FixAction{Action: action, SourceConflict: conflict})
		} else if len(failedIDs) > 0 {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to remove duplicates of \"%s\": %v", keep.Name, failedIDs),
				SourceConflict: conflict,
			})
		}
	}

	return actions
}

// AutoFixOrphanedCompletions soft-deletes completions whose habit no longer
// exists. Returns the actions taken.
func AutoFixOrphanedCompletions(conflicts []Conflict, deleteFunc func(habitID, day string) error) []FixAction {
	actions := []FixAction{}

	for _, conflict := range conflicts {
		if conflict.Type != ConflictOrphanedCompletion {
			continue
		}
		if len(conflict.HabitIDs) == 0 || conflict.Day == "" {
			continue
		}

		habitID := conflict.HabitIDs[0]
		if err := deleteFunc(habitID, conflict.Day); err != nil {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to remove orphaned completion on %s: %v", conflict.Day, err),
				SourceConflict: conflict,
			})
			continue
		}
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Removed orphaned completion on %s (habit ID: %s)", conflict.Day, habitID),
			SourceConflict: conflict,
		})
	}

	return actions
}
