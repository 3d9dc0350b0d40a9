package models

import "time"

// Habit represents a recurring practice to track. Timezone is the IANA zone
// the habit's rule is evaluated in ("Local" for the system zone); all
// day-of-week and same-day comparisons for this habit happen there.
type Habit struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Notes      string     `json:"notes,omitempty"`
	Rule       Rule       `json:"rule"`
	Timezone   string     `json:"timezone"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty"`
}
