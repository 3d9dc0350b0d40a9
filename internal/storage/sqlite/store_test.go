package sqlite

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"ritual/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store
}

func testHabit(t *testing.T, name string, rule models.Rule) models.Habit {
	t.Helper()

	now := time.Now()
	return models.Habit{
		ID:        uuid.New().String(),
		Name:      name,
		Rule:      rule,
		Timezone:  "UTC",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func mustDailyRule(t *testing.T) models.Rule {
	t.Helper()
	rule, err := models.NewDailyRule(1, nil)
	if err != nil {
		t.Fatalf("failed to build daily rule: %v", err)
	}
	return rule
}

func TestInitSeedsDefaultSettings(t *testing.T) {
	store := setupTestStore(t)

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone == "" {
		t.Error("expected default timezone to be seeded")
	}
	if settings.DefaultTimeframe == "" {
		t.Error("expected default timeframe to be seeded")
	}
	if settings.MaxBackups == 0 {
		t.Error("expected default max backups to be seeded")
	}
}

func TestLoadRequiresInit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "missing.db")
	store := NewStore(dbPath)

	err := store.Load()
	if err == nil {
		t.Fatal("expected Load to fail on an uninitialized path")
	}
	if !strings.Contains(err.Error(), "not initialized") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHabitCRUD(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Morning meditation", mustDailyRule(t))

	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	retrieved, err := store.GetHabit(habit.ID)
	if err != nil {
		t.Fatalf("failed to get habit: %v", err)
	}
	if retrieved.Name != habit.Name {
		t.Errorf("expected name %q, got %q", habit.Name, retrieved.Name)
	}
	if retrieved.Rule.Kind != models.KindDaily {
		t.Errorf("expected daily rule, got %q", retrieved.Rule.Kind)
	}
	if retrieved.Timezone != "UTC" {
		t.Errorf("expected timezone UTC, got %q", retrieved.Timezone)
	}

	byName, err := store.GetHabitByName(habit.Name)
	if err != nil {
		t.Fatalf("failed to get habit by name: %v", err)
	}
	if byName.ID != habit.ID {
		t.Errorf("expected ID %q, got %q", habit.ID, byName.ID)
	}

	weekly, err := models.NewWeeklyRule(1, []time.Weekday{time.Monday, time.Thursday})
	if err != nil {
		t.Fatalf("failed to build weekly rule: %v", err)
	}
	habit.Name = "Evening meditation"
	habit.Rule = weekly
	if err := store.UpdateHabit(habit); err != nil {
		t.Fatalf("failed to update habit: %v", err)
	}

	updated, err := store.GetHabit(habit.ID)
	if err != nil {
		t.Fatalf("failed to get updated habit: %v", err)
	}
	if updated.Name != "Evening meditation" {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.Rule.Kind != models.KindWeekly {
		t.Errorf("expected weekly rule after update, got %q", updated.Rule.Kind)
	}
	if len(updated.Rule.Days) != 2 || updated.Rule.Days[0] != time.Monday || updated.Rule.Days[1] != time.Thursday {
		t.Errorf("expected days [Monday Thursday], got %v", updated.Rule.Days)
	}
}

func TestHabitRuleRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	daily, err := models.NewDailyRule(1, nil)
	if err != nil {
		t.Fatalf("failed to build daily rule: %v", err)
	}
	weekly, err := models.NewWeeklyRule(2, []time.Weekday{time.Wednesday})
	if err != nil {
		t.Fatalf("failed to build weekly rule: %v", err)
	}
	custom, err := models.NewCustomRule(1, "07:30", []time.Weekday{time.Tuesday, time.Saturday})
	if err != nil {
		t.Fatalf("failed to build custom rule: %v", err)
	}

	tests := []struct {
		name string
		rule models.Rule
	}{
		{"daily", daily},
		{"weekly", weekly},
		{"custom", custom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			habit := testHabit(t, "habit-"+tt.name, tt.rule)
			if err := store.AddHabit(habit); err != nil {
				t.Fatalf("failed to add habit: %v", err)
			}

			got, err := store.GetHabit(habit.ID)
			if err != nil {
				t.Fatalf("failed to get habit: %v", err)
			}

			if got.Rule.Kind != tt.rule.Kind {
				t.Errorf("expected kind %q, got %q", tt.rule.Kind, got.Rule.Kind)
			}
			if got.Rule.Value != tt.rule.Value {
				t.Errorf("expected value %d, got %d", tt.rule.Value, got.Rule.Value)
			}
			if len(got.Rule.Days) != len(tt.rule.Days) {
				t.Errorf("expected %d days, got %d", len(tt.rule.Days), len(got.Rule.Days))
			}

			if tt.rule.Custom == nil {
				if got.Rule.Custom != nil {
					t.Error("expected no custom schedule")
				}
				return
			}
			if got.Rule.Custom == nil {
				t.Fatal("expected custom schedule to survive the round trip")
			}
			if got.Rule.Custom.Time != tt.rule.Custom.Time {
				t.Errorf("expected custom time %q, got %q", tt.rule.Custom.Time, got.Rule.Custom.Time)
			}
			if len(got.Rule.Custom.Days) != len(tt.rule.Custom.Days) {
				t.Errorf("expected %d custom days, got %d", len(tt.rule.Custom.Days), len(got.Rule.Custom.Days))
			}

			if err := got.Rule.Validate(); err != nil {
				t.Errorf("round-tripped rule failed validation: %v", err)
			}
		})
	}
}

func TestHabitRejectsInvalidRule(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Broken habit", models.Rule{Kind: models.KindCustom, Value: 1})
	if err := store.AddHabit(habit); err == nil {
		t.Error("expected AddHabit to reject a custom rule without a schedule")
	}
}

func TestHabitArchive(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Test habit", mustDailyRule(t))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	if err := store.ArchiveHabit(habit.ID); err != nil {
		t.Fatalf("failed to archive habit: %v", err)
	}

	active, err := store.GetAllHabits(false, false)
	if err != nil {
		t.Fatalf("failed to get habits: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("expected archived habit to be excluded, got %d habits", len(active))
	}

	all, err := store.GetAllHabits(true, false)
	if err != nil {
		t.Fatalf("failed to get habits including archived: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 habit including archived, got %d", len(all))
	}
	if all[0].ArchivedAt == nil {
		t.Error("expected archived_at to be set")
	}

	// Archiving twice should fail
	if err := store.ArchiveHabit(habit.ID); err == nil {
		t.Error("expected second archive to fail")
	}

	if err := store.UnarchiveHabit(habit.ID); err != nil {
		t.Fatalf("failed to unarchive habit: %v", err)
	}

	restored, err := store.GetHabit(habit.ID)
	if err != nil {
		t.Fatalf("failed to get unarchived habit: %v", err)
	}
	if restored.ArchivedAt != nil {
		t.Error("expected archived_at to be cleared")
	}
}

func TestHabitSoftDelete(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Test habit", mustDailyRule(t))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	if err := store.DeleteHabit(habit.ID); err != nil {
		t.Fatalf("failed to delete habit: %v", err)
	}

	if _, err := store.GetHabit(habit.ID); err == nil {
		t.Error("expected deleted habit to be invisible")
	}

	deleted, err := store.GetAllHabits(false, true)
	if err != nil {
		t.Fatalf("failed to get habits including deleted: %v", err)
	}
	if len(deleted) != 1 || deleted[0].DeletedAt == nil {
		t.Error("expected deleted habit to be retrievable with includeDeleted")
	}

	if err := store.DeleteHabit(habit.ID); err == nil {
		t.Error("expected second delete to fail")
	}

	if err := store.RestoreHabit(habit.ID); err != nil {
		t.Fatalf("failed to restore habit: %v", err)
	}

	restored, err := store.GetHabit(habit.ID)
	if err != nil {
		t.Fatalf("failed to get restored habit: %v", err)
	}
	if restored.DeletedAt != nil {
		t.Error("expected deleted_at to be cleared")
	}
}

func TestCompletionCRUD(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Test habit", mustDailyRule(t))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	now := time.Now()
	completion := models.Completion{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		Day:         "2025-12-31",
		CompletedAt: now,
		Note:        "Morning session",
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := store.AddCompletion(completion); err != nil {
		t.Fatalf("failed to add completion: %v", err)
	}

	retrieved, err := store.GetCompletion(habit.ID, "2025-12-31")
	if err != nil {
		t.Fatalf("failed to get completion: %v", err)
	}
	if retrieved.Note != "Morning session" {
		t.Errorf("expected note %q, got %q", "Morning session", retrieved.Note)
	}

	dayCompletions, err := store.GetCompletionsForDay("2025-12-31")
	if err != nil {
		t.Fatalf("failed to get completions for day: %v", err)
	}
	if len(dayCompletions) != 1 {
		t.Errorf("expected 1 completion, got %d", len(dayCompletions))
	}

	habitCompletions, err := store.GetCompletionsForHabit(habit.ID, "2025-12-01", "2025-12-31")
	if err != nil {
		t.Fatalf("failed to get completions for habit: %v", err)
	}
	if len(habitCompletions) != 1 {
		t.Errorf("expected 1 completion, got %d", len(habitCompletions))
	}
}

func TestCompletionUniqueness(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Test habit", mustDailyRule(t))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	now := time.Now()
	first := models.Completion{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		Day:         "2025-12-31",
		CompletedAt: now,
		Note:        "First",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.AddCompletion(first); err != nil {
		t.Fatalf("failed to add first completion: %v", err)
	}

	// A second completion for the same habit and day updates in place
	second := first
	second.Note = "Updated"
	second.UpdatedAt = time.Now()
	if err := store.AddCompletion(second); err != nil {
		t.Fatalf("failed to upsert completion: %v", err)
	}

	all, err := store.GetCompletionsForHabit(habit.ID, "", "")
	if err != nil {
		t.Fatalf("failed to get completions: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 completion after upsert, got %d", len(all))
	}
	if all[0].Note != "Updated" {
		t.Errorf("expected updated note, got %q", all[0].Note)
	}
}

func TestCompletionSoftDelete(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Test habit", mustDailyRule(t))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	now := time.Now()
	completion := models.Completion{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		Day:         "2025-12-31",
		CompletedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.AddCompletion(completion); err != nil {
		t.Fatalf("failed to add completion: %v", err)
	}

	if err := store.DeleteCompletion(habit.ID, "2025-12-31"); err != nil {
		t.Fatalf("failed to delete completion: %v", err)
	}

	if _, err := store.GetCompletion(habit.ID, "2025-12-31"); err == nil {
		t.Error("expected deleted completion to be invisible")
	}

	if err := store.DeleteCompletion(habit.ID, "2025-12-31"); err == nil {
		t.Error("expected second delete to fail")
	}

	// Completing the same day again revives the row
	revived := completion
	revived.UpdatedAt = time.Now()
	if err := store.AddCompletion(revived); err != nil {
		t.Fatalf("failed to re-add completion: %v", err)
	}

	got, err := store.GetCompletion(habit.ID, "2025-12-31")
	if err != nil {
		t.Fatalf("failed to get revived completion: %v", err)
	}
	if got.DeletedAt != nil {
		t.Error("expected deleted_at to be cleared after re-completion")
	}
}

func TestCompletionRestore(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Test habit", mustDailyRule(t))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	now := time.Now()
	completion := models.Completion{
		ID:          uuid.New().String(),
		HabitID:     habit.ID,
		Day:         "2025-12-30",
		CompletedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.AddCompletion(completion); err != nil {
		t.Fatalf("failed to add completion: %v", err)
	}

	if err := store.DeleteCompletion(habit.ID, "2025-12-30"); err != nil {
		t.Fatalf("failed to delete completion: %v", err)
	}
	if err := store.RestoreCompletion(habit.ID, "2025-12-30"); err != nil {
		t.Fatalf("failed to restore completion: %v", err)
	}

	if _, err := store.GetCompletion(habit.ID, "2025-12-30"); err != nil {
		t.Errorf("expected restored completion to be visible: %v", err)
	}

	if err := store.RestoreCompletion(habit.ID, "2025-12-30"); err == nil {
		t.Error("expected restore of a live completion to fail")
	}
}

func TestGetCompletionsForHabitOpenBounds(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Test habit", mustDailyRule(t))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	now := time.Now()
	for _, day := range []string{"2025-12-29", "2025-12-30", "2025-12-31"} {
		completion := models.Completion{
			ID:          uuid.New().String(),
			HabitID:     habit.ID,
			Day:         day,
			CompletedAt: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := store.AddCompletion(completion); err != nil {
			t.Fatalf("failed to add completion for %s: %v", day, err)
		}
	}

	all, err := store.GetCompletionsForHabit(habit.ID, "", "")
	if err != nil {
		t.Fatalf("failed to get completions: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 completions with open bounds, got %d", len(all))
	}
	// Newest day first
	if all[0].Day != "2025-12-31" {
		t.Errorf("expected newest day first, got %q", all[0].Day)
	}

	fromDay, err := store.GetCompletionsForHabit(habit.ID, "2025-12-30", "")
	if err != nil {
		t.Fatalf("failed to get completions from start day: %v", err)
	}
	if len(fromDay) != 2 {
		t.Errorf("expected 2 completions from 2025-12-30, got %d", len(fromDay))
	}
}

func TestCountCompletions(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Test habit", mustDailyRule(t))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	now := time.Now()
	for _, day := range []string{"2025-12-29", "2025-12-30", "2025-12-31"} {
		completion := models.Completion{
			ID:          uuid.New().String(),
			HabitID:     habit.ID,
			Day:         day,
			CompletedAt: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := store.AddCompletion(completion); err != nil {
			t.Fatalf("failed to add completion for %s: %v", day, err)
		}
	}

	count, err := store.CountCompletions(habit.ID, "", "")
	if err != nil {
		t.Fatalf("failed to count completions: %v", err)
	}
	if count != 3 {
		t.Errorf("expected 3 completions with open bounds, got %d", count)
	}

	ranged, err := store.CountCompletions(habit.ID, "2025-12-30", "2025-12-31")
	if err != nil {
		t.Fatalf("failed to count ranged completions: %v", err)
	}
	if ranged != 2 {
		t.Errorf("expected 2 completions in range, got %d", ranged)
	}

	// Soft-deleted completions do not count
	if err := store.DeleteCompletion(habit.ID, "2025-12-31"); err != nil {
		t.Fatalf("failed to delete completion: %v", err)
	}
	remaining, err := store.CountCompletions(habit.ID, "", "")
	if err != nil {
		t.Fatalf("failed to count completions after delete: %v", err)
	}
	if remaining != 2 {
		t.Errorf("expected 2 completions after delete, got %d", remaining)
	}
}

func TestGetAllCompletionsIncludesDeleted(t *testing.T) {
	store := setupTestStore(t)

	habit := testHabit(t, "Test habit", mustDailyRule(t))
	if err := store.AddHabit(habit); err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}

	now := time.Now()
	for _, day := range []string{"2025-12-30", "2025-12-31"} {
		completion := models.Completion{
			ID:          uuid.New().String(),
			HabitID:     habit.ID,
			Day:         day,
			CompletedAt: now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := store.AddCompletion(completion); err != nil {
			t.Fatalf("failed to add completion for %s: %v", day, err)
		}
	}

	if err := store.DeleteCompletion(habit.ID, "2025-12-30"); err != nil {
		t.Fatalf("failed to delete completion: %v", err)
	}

	all, err := store.GetAllCompletions()
	if err != nil {
		t.Fatalf("failed to get all completions: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 completions including deleted, got %d", len(all))
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	settings := models.Settings{
		Timezone:         "America/New_York",
		DefaultTimeframe: "monthly",
		AutoBackup:       false,
		MaxBackups:       7,
	}
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	got, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if got.Timezone != "America/New_York" {
		t.Errorf("expected timezone America/New_York, got %q", got.Timezone)
	}
	if got.DefaultTimeframe != "monthly" {
		t.Errorf("expected timeframe monthly, got %q", got.DefaultTimeframe)
	}
	if got.AutoBackup {
		t.Error("expected auto backup to be disabled")
	}
	if got.MaxBackups != 7 {
		t.Errorf("expected max backups 7, got %d", got.MaxBackups)
	}
}
