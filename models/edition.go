package models

import "time"

// Edition is one yearly instance of the competition. Every project,
// assignment and settings entry belongs to exactly one edition, so
// editions are fully isolated datasets.
type Edition struct {
	ID        int       `json:"id"`
	Year      int       `json:"year"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
