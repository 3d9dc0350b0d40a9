package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"ritual/internal/models"
)

func (s *Store) AddHabit(habit models.Habit) error {
	return s.UpdateHabit(habit)
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`
SELECT id, name, notes, kind, value, days, custom_time, custom_days, timezone,
       created_at, updated_at, archived_at, deleted_at
FROM habits WHERE id = $1 AND deleted_at IS NULL`, id)

	return scanHabitRow(row)
}

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`
SELECT id, name, notes, kind, value, days, custom_time, custom_days, timezone,
       created_at, updated_at, archived_at, deleted_at
FROM habits WHERE name = $1 AND deleted_at IS NULL`, name)

	return scanHabitRow(row)
}

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	query := `SELECT id, name, notes, kind, value, days, custom_time, custom_days, timezone,
       created_at, updated_at, archived_at, deleted_at
FROM habits WHERE 1=1`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	if !includeArchived {
		query += " AND archived_at IS NULL"
	}
	query += " ORDER BY created_at"

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabitRow(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}

	return habits, rows.Err()
}

func (s *Store) UpdateHabit(habit models.Habit) error {
	if err := habit.Rule.Validate(); err != nil {
		return err
	}

	daysJSON, err := json.Marshal(habit.Rule.Days)
	if err != nil {
		return fmt.Errorf("failed to marshal days: %w", err)
	}

	customTime := ""
	customDaysJSON := []byte("[]")
	if habit.Rule.Custom != nil {
		customTime = habit.Rule.Custom.Time
		customDaysJSON, err = json.Marshal(habit.Rule.Custom.Days)
		if err != nil {
			return fmt.Errorf("failed to marshal custom days: %w", err)
		}
	}

	var archivedAt, deletedAt sql.NullString
	if habit.ArchivedAt != nil {
		archivedAt = sql.NullString{String: habit.ArchivedAt.Format(time.RFC3339), Valid: true}
	}
	if habit.DeletedAt != nil {
		deletedAt = sql.NullString{String: habit.DeletedAt.Format(time.RFC3339), Valid: true}
	}

	_, err = s.db.Exec(`
INSERT INTO habits (id, name, notes, kind, value, days, custom_time, custom_days, timezone,
	created_at, updated_at, archived_at, deleted_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (id) DO UPDATE SET
	name = EXCLUDED.name,
	notes = EXCLUDED.notes,
	kind = EXCLUDED.kind,
	value = EXCLUDED.value,
	days = EXCLUDED.days,
	custom_time = EXCLUDED.custom_time,
	custom_days = EXCLUDED.custom_days,
	timezone = EXCLUDED.timezone,
	updated_at = EXCLUDED.updated_at,
	archived_at = EXCLUDED.archived_at,
	deleted_at = EXCLUDED.deleted_at`,
		habit.ID, habit.Name, habit.Notes, string(habit.Rule.Kind), habit.Rule.Value,
		string(daysJSON), customTime, string(customDaysJSON), habit.Timezone,
		habit.CreatedAt.Format(time.RFC3339), habit.UpdatedAt.Format(time.RFC3339),
		archivedAt, deletedAt)

	return err
}

func (s *Store) ArchiveHabit(id string) error {
	now := time.Now().Format(time.RFC3339)
	result, err := s.db.Exec(`
UPDATE habits SET archived_at = $1, updated_at = $2
WHERE id = $3 AND deleted_at IS NULL AND archived_at IS NULL`,
		now, now, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit not found or already archived/deleted")
	}

	return nil
}

func (s *Store) UnarchiveHabit(id string) error {
	result, err := s.db.Exec(`
UPDATE habits SET archived_at = NULL, updated_at = $1
WHERE id = $2 AND deleted_at IS NULL AND archived_at IS NOT NULL`,
		time.Now().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit not found or not archived")
	}

	return nil
}

func (s *Store) DeleteHabit(id string) error {
	now := time.Now().Format(time.RFC3339)
	result, err := s.db.Exec(`
UPDATE habits SET deleted_at = $1, updated_at = $2 WHERE id = $3 AND deleted_at IS NULL`,
		now, now, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit not found or already deleted")
	}

	return nil
}

func (s *Store) RestoreHabit(id string) error {
	result, err := s.db.Exec(`
UPDATE habits SET deleted_at = NULL, updated_at = $1 WHERE id = $2 AND deleted_at IS NOT NULL`,
		time.Now().Format(time.RFC3339), id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("habit not found or not deleted")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanHabitRow(row rowScanner) (models.Habit, error) {
	var h models.Habit
	var kind, daysJSON, customTime, customDaysJSON string
	var createdAt, updatedAt string
	var archivedAt, deletedAt sql.NullString

	err := row.Scan(&h.ID, &h.Name, &h.Notes, &kind, &h.Rule.Value, &daysJSON,
		&customTime, &customDaysJSON, &h.Timezone, &createdAt, &updatedAt, &archivedAt, &deletedAt)
	if err != nil {
		return models.Habit{}, err
	}

	h.Rule.Kind = models.RuleKind(kind)
	if daysJSON != "" {
		if err := json.Unmarshal([]byte(daysJSON), &h.Rule.Days); err != nil {
			return models.Habit{}, fmt.Errorf("failed to unmarshal days: %w", err)
		}
	}
	if h.Rule.Kind == models.KindCustom {
		custom := models.CustomSchedule{Time: customTime}
		if customDaysJSON != "" {
			if err := json.Unmarshal([]byte(customDaysJSON), &custom.Days); err != nil {
				return models.Habit{}, fmt.Errorf("failed to unmarshal custom days: %w", err)
			}
		}
		h.Rule.Custom = &custom
	}

	h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	h.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if archivedAt.Valid {
		t, err := time.Parse(time.RFC3339, archivedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse archived_at: %w", err)
		}
		h.ArchivedAt = &t
	}
	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339, deletedAt.String)
		if err != nil {
			return models.Habit{}, fmt.Errorf("failed to parse deleted_at: %w", err)
		}
		h.DeletedAt = &t
	}

	return h, nil
}
