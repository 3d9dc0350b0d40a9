package storage

import "ritual/internal/models"

// Provider is the storage contract shared by the SQLite and PostgreSQL
// backends. Day arguments are calendar days in YYYY-MM-DD form.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// Habits
	AddHabit(models.Habit) error
	GetHabit(id string) (models.Habit, error)
	GetHabitByName(name string) (models.Habit, error)
	GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error)
	UpdateHabit(models.Habit) error
	ArchiveHabit(id string) error
	UnarchiveHabit(id string) error
	DeleteHabit(id string) error
	RestoreHabit(id string) error

	// Completions
	AddCompletion(models.Completion) error
	GetCompletion(habitID, day string) (models.Completion, error)
	GetCompletionsForDay(day string) ([]models.Completion, error)
	// GetCompletionsForHabit returns the habit's completions with day between
	// startDay and endDay inclusive. Empty bounds leave that side open.
	GetCompletionsForHabit(habitID, startDay, endDay string) ([]models.Completion, error)
	// CountCompletions counts the habit's completions in the same bounds.
	CountCompletions(habitID, startDay, endDay string) (int, error)
	UpdateCompletion(models.Completion) error
	DeleteCompletion(habitID, day string) error
	RestoreCompletion(habitID, day string) error

	// Bulk retrieval for backups and diagnostics
	GetAllCompletions() ([]models.Completion, error)

	// Utils
	GetConfigPath() string
}
