package sqlite

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
		FROM habits WHERE id = ? AND deleted_at IS NULL`, id)

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

func (s *Store) GetHabitByName(name string) (models.Habit, error) {
	row := s.db.QueryRow(`
		SELECT id, name, notes, kind, value, days, custom_time, custom_days, timezone,
		       created_at, updated_at, archived_at, deleted_at
		FROM habits WHERE name = ? AND deleted_at IS NULL`, name)

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

func (s *Store) GetAllHabits(includeArchived, includeDeleted bool) ([]models.Habit, error) {
	exists, err := s.tableExists("habits")
	if err != nil || !exists {
		return []models.Habit{}, nil
	}

	query := `SELECT id, name, notes, kind, value, days, custom_time, custom_days, timezone,
		created_at, updated_at, archived_at, deleted_at FROM habits WHERE 1=1`
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
		var h models.Habit
		var kind, daysJSON, customTime, customDaysJSON string
		var createdAt, updatedAt string
		var archivedAt, deletedAt sql.NullString

		err := rows.Scan(&h.ID, &h.Name, &h.Notes, &kind, &h.Rule.Value, &daysJSON,
			&customTime, &customDaysJSON, &h.Timezone, &createdAt, &updatedAt, &archivedAt, &deletedAt)
		if err != nil {
			return nil, err
		}

		h.Rule.Kind = models.RuleKind(kind)
		if daysJSON != "" {
			if err := json.Unmarshal([]byte(daysJSON), &h.Rule.Days); err != nil {
				return nil, fmt.Errorf("failed to unmarshal days for habit %s: %w", h.ID, err)
			}
		}
		if h.Rule.Kind == models.KindCustom {
			custom := models.CustomSchedule{Time: customTime}
			if customDaysJSON != "" {
				if err := json.Unmarshal([]byte(customDaysJSON), &custom.Days); err != nil {
					return nil, fmt.Errorf("failed to unmarshal custom days for habit %s: %w", h.ID, err)
				}
			}
			h.Rule.Custom = &custom
		}

		h.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for habit %s: %w", h.ID, err)
		}
		h.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at for habit %s: %w", h.ID, err)
		}
		if archivedAt.Valid {
			t, err := time.Parse(time.RFC3339, archivedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse archived_at for habit %s: %w", h.ID, err)
			}
			h.ArchivedAt = &t
		}
		if deletedAt.Valid {
			t, err := time.Parse(time.RFC3339, deletedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse deleted_at for habit %s: %w", h.ID, err)
			}
			h.DeletedAt = &t
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
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			notes = excluded.notes,
			kind = excluded.kind,
			value = excluded.value,
			days = excluded.days,
			custom_time = excluded.custom_time,
			custom_days = excluded.custom_days,
			timezone = excluded.timezone,
			updated_at = excluded.updated_at,
			archived_at = excluded.archived_at,
			deleted_at = excluded.deleted_at`,
		habit.ID, habit.Name, habit.Notes, string(habit.Rule.Kind), habit.Rule.Value,
		string(daysJSON), customTime, string(customDaysJSON), habit.Timezone,
		habit.CreatedAt.Format(time.RFC3339), habit.UpdatedAt.Format(time.RFC3339),
		archivedAt, deletedAt)

	return err
}

func (s *Store) ArchiveHabit(id string) error {
	now := time.Now().Format(time.RFC3339)
	result, err := s.db.Exec(`
		UPDATE habits SET archived_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL AND archived_at IS NULL`,
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
		UPDATE habits SET archived_at = NULL, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL AND archived_at IS NOT NULL`,
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
		UPDATE habits SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
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
		UPDATE habits SET deleted_at = NULL, updated_at = ? WHERE id = ? AND deleted_at IS NOT NULL`,
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
