package models

import "time"

// Project is one competition entry, registered by a patron at Sub-County
// level. The geographic tuple is fixed at registration; CurrentLevel and
// IsEliminated are mutated only by the level publisher (and its rollback).
type Project struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`

	Region    string `json:"region"`
	County    string `json:"county"`
	SubCounty string `json:"sub_county"`
	Zone      string `json:"zone"`
	School    string `json:"school"`

	Students []string `json:"students"`
	PatronID int      `json:"patron_id"`

	CurrentLevel CompetitionLevel `json:"current_level"`
	IsEliminated bool             `json:"is_eliminated"`

	EditionID int       `json:"edition_id"`
	CreatedAt time.Time `json:"created_at"`

	// Optional related entity, not mapped directly.
	Patron *User `json:"patron,omitempty"`
}
