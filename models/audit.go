package models

import "time"

// AuditEntry is one append-only record of an administrative action.
type AuditEntry struct {
	ID        int       `json:"id"`
	ActorID   int       `json:"actor_id"`
	Action    string    `json:"action"`
	Scope     string    `json:"scope"`
	EditionID int       `json:"edition_id"`
	CreatedAt time.Time `json:"created_at"`
}
