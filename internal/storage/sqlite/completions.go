package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"ritual/internal/models"
)

func (s *Store) AddCompletion(completion models.Completion) error {
	return s.UpdateCompletion(completion)
}

func (s *Store) GetCompletion(habitID, day string) (models.Completion, error) {
	row := s.db.QueryRow(`
		SELECT id, habit_id, day, completed_at, note, created_at, updated_at, deleted_at
		FROM completions WHERE habit_id = ? AND day = ? AND deleted_at IS NULL`,
		habitID, day)

	var c models.Completion
	var completedAt, createdAt, updatedAt string
	var deletedAt sql.NullString

	err := row.Scan(&c.ID, &c.HabitID, &c.Day, &completedAt, &c.Note, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return models.Completion{}, err
	}

	c.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse completed_at: %w", err)
	}
	c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return models.Completion{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	if deletedAt.Valid {
		t, err := time.Parse(time.RFC3339, deletedAt.String)
		if err != nil {
			return models.Completion{}, fmt.Errorf("failed to parse deleted_at: %w", err)
		}
		c.DeletedAt = &t
	}

	return c, nil
}

func (s *Store) GetCompletionsForDay(day string) ([]models.Completion, error) {
	rows, err := s.db.Query(`
		SELECT id, habit_id, day, completed_at, note, created_at, updated_at, deleted_at
		FROM completions WHERE day = ? AND deleted_at IS NULL
		ORDER BY created_at`, day)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCompletions(rows)
}

func (s *Store) GetCompletionsForHabit(habitID, startDay, endDay string) ([]models.Completion, error) {
	query := `SELECT id, habit_id, day, completed_at, note, created_at, updated_at, deleted_at
		FROM completions WHERE habit_id = ? AND deleted_at IS NULL`
	args := []interface{}{habitID}
	if startDay != "" {
		query += " AND day >= ?"
		args = append(args, startDay)
	}
	if endDay != "" {
		query += " AND day <= ?"
		args = append(args, endDay)
	}
	query += " ORDER BY day DESC"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCompletions(rows)
}

func (s *Store) CountCompletions(habitID, startDay, endDay string) (int, error) {
	query := `SELECT COUNT(*) FROM completions WHERE habit_id = ? AND deleted_at IS NULL`
	args := []interface{}{habitID}
	if startDay != "" {
		query += " AND day >= ?"
		args = append(args, startDay)
	}
	if endDay != "" {
		query += " AND day <= ?"
		args = append(args, endDay)
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) UpdateCompletion(completion models.Completion) error {
	var deletedAt sql.NullString
	if completion.DeletedAt != nil {
		deletedAt = sql.NullString{String: completion.DeletedAt.Format(time.RFC3339), Valid: true}
	}

	// The conflict target is (habit_id, day): re-completing a day revives the
	// soft-deleted row instead of violating the unique constraint.
	_, err := s.db.Exec(`
		INSERT INTO completions (id, habit_id, day, completed_at, note, created_at, updated_at, deleted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(habit_id, day) DO UPDATE SET
			completed_at = excluded.completed_at,
			note = excluded.note,
			updated_at = excluded.updated_at,
			deleted_at = excluded.deleted_at`,
		completion.ID, completion.HabitID, completion.Day,
		completion.CompletedAt.Format(time.RFC3339), completion.Note,
		completion.CreatedAt.Format(time.RFC3339), completion.UpdatedAt.Format(time.RFC3339),
		deletedAt)

	return err
}

func (s *Store) DeleteCompletion(habitID, day string) error {
	now := time.Now().Format(time.RFC3339)
	result, err := s.db.Exec(`
		UPDATE completions SET deleted_at = ?, updated_at = ?
		WHERE habit_id = ? AND day = ? AND deleted_at IS NULL`,
		now, now, habitID, day)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("completion not found or already deleted")
	}

	return nil
}

func (s *Store) RestoreCompletion(habitID, day string) error {
	result, err := s.db.Exec(`
		UPDATE completions SET deleted_at = NULL, updated_at = ?
		WHERE habit_id = ? AND day = ? AND deleted_at IS NOT NULL`,
		time.Now().Format(time.RFC3339), habitID, day)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("completion not found or not deleted")
	}

	return nil
}

func scanCompletions(rows *sql.Rows) ([]models.Completion, error) {
	var completions []models.Completion
	for rows.Next() {
		var c models.Completion
		var completedAt, createdAt, updatedAt string
		var deletedAt sql.NullString

		err := rows.Scan(&c.ID, &c.HabitID, &c.Day, &completedAt, &c.Note, &createdAt, &updatedAt, &deletedAt)
		if err != nil {
			return nil, err
		}

		c.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse completed_at for completion %s: %w", c.ID, err)
		}
		c.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at for completion %s: %w", c.ID, err)
		}
		c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse updated_at for completion %s: %w", c.ID, err)
		}
		if deletedAt.Valid {
			t, err := time.Parse(time.RFC3339, deletedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse deleted_at for completion %s: %w", c.ID, err)
			}
			c.DeletedAt = &t
		}

		completions = append(completions, c)
	}

	return completions, rows.Err()
}
