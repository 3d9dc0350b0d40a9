package models

import "time"

// Completion records one fulfillment of a habit on a calendar day. Day is
// the date in the habit's timezone; CompletedAt is the instant handed to the
// streak calculator. One completion per habit per day.
type Completion struct {
	ID          string     `json:"id"`
	HabitID     string     `json:"habit_id"`
	Day         string     `json:"day"` // YYYY-MM-DD format
	CompletedAt time.Time  `json:"completed_at"`
	Note        string     `json:"note"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}
