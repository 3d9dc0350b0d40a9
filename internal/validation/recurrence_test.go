package validation

import (
	"testing"
	"time"

	"ritual/internal/models"
)

// 2025-06-02 is a Monday.

func TestValidateCompletions_DailyAcceptsAnyWeekday(t *testing.T) {
	validator := New()

	habits := []models.Habit{habit(t, "1", "Meditate", dailyRule(t))}
	completions := []models.Completion{
		{ID: "c1", HabitID: "1", Day: "2025-06-02", CompletedAt: time.Now()},
		{ID: "c2", HabitID: "1", Day: "2025-06-07", CompletedAt: time.Now()},
	}

	result := validator.ValidateCompletions(completions, habits)
	if result.HasConflicts() {
		t.Errorf("expected no conflicts for daily completions, got: %s", result.FormatReport())
	}
}

func TestValidateCompletions_WeeklyUnscheduledDay(t *testing.T) {
	validator := New()

	weekly, err := models.NewWeeklyRule(1, []time.Weekday{time.Monday, time.Thursday})
	if err != nil {
		t.Fatalf("NewWeeklyRule failed: %v", err)
	}

	habits := []models.Habit{habit(t, "1", "Gym", weekly)}
	completions := []models.Completion{
		{ID: "c1", HabitID: "1", Day: "2025-06-02", CompletedAt: time.Now()}, // Monday, scheduled
		{ID: "c2", HabitID: "1", Day: "2025-06-04", CompletedAt: time.Now()}, // Wednesday, not scheduled
	}

	result := validator.ValidateCompletions(completions, habits)

	unscheduled := 0
	for _, conflict := range result.Conflicts {
		if conflict.Type == ConflictUnscheduledCompletion {
			unscheduled++
			if conflict.Day != "2025-06-04" {
				t.Errorf("expected the Wednesday completion to be flagged, got %s", conflict.Day)
			}
		}
	}
	if unscheduled != 1 {
		t.Errorf("expected 1 unscheduled-completion conflict, got %d", unscheduled)
	}
}

func TestValidateCompletions_CustomUnscheduledDay(t *testing.T) {
	validator := New()

	custom, err := models.NewCustomRule(1, "07:30", []time.Weekday{time.Tuesday, time.Saturday})
	if err != nil {
		t.Fatalf("NewCustomRule failed: %v", err)
	}

	habits := []models.Habit{habit(t, "1", "Run", custom)}
	completions := []models.Completion{
		{ID: "c1", HabitID: "1", Day: "2025-06-03", CompletedAt: time.Now()}, // Tuesday, scheduled
		{ID: "c2", HabitID: "1", Day: "2025-06-02", CompletedAt: time.Now()}, // Monday, not scheduled
	}

	result := validator.ValidateCompletions(completions, habits)

	unscheduled := 0
	for _, conflict := range result.Conflicts {
		if conflict.Type == ConflictUnscheduledCompletion {
			unscheduled++
		}
	}
	if unscheduled != 1 {
		t.Errorf("expected 1 unscheduled-completion conflict, got %d", unscheduled)
	}
}

func TestValidateCompletions_BrokenRuleSkipsScheduleCheck(t *testing.T) {
	validator := New()

	// The rule itself is flagged by ValidateHabits; the schedule check must
	// not pile on for every completion.
	habits := []models.Habit{habit(t, "1", "Gym", models.Rule{Kind: models.KindWeekly, Value: 1})}
	completions := []models.Completion{
		{ID: "c1", HabitID: "1", Day: "2025-06-04", CompletedAt: time.Now()},
	}

	result := validator.ValidateCompletions(completions, habits)
	for _, conflict := range result.Conflicts {
		if conflict.Type == ConflictUnscheduledCompletion {
			t.Errorf("expected no schedule conflicts for an invalid rule, got: %s", conflict.Description)
		}
	}
}
