package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"ritual/internal/models"
)

// GetAllCompletions retrieves every completion including soft-deleted ones,
// for backups and diagnostics.
func (s *Store) GetAllCompletions() ([]models.Completion, error) {
	exists, err := s.tableExists("completions")
	if err != nil || !exists {
		return []models.Completion{}, nil
	}

	rows, err := s.db.Query(`
		SELECT id, habit_id, day, completed_at, note, created_at, updated_at, deleted_at
		FROM completions
		ORDER BY day, habit_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var completions []models.Completion
	for rows.Next() {
		var c models.Completion
		var completedAt, createdAt, updatedAt string
		var deletedAt sql.NullString

		if err := rows.Scan(&c.ID, &c.HabitID, &c.Day, &completedAt, &c.Note,
			&createdAt, &updatedAt, &deletedAt); err != nil {
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
