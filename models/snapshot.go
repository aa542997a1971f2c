package models

// RoleSnapshotEntry captures one judge's role state immediately before a
// publish, so a rollback can restore it exactly.
type RoleSnapshotEntry struct {
	UserID              int        `json:"user_id"`
	Roles               []UserRole `json:"roles"`
	CurrentRole         UserRole   `json:"current_role"`
	CoordinatedCategory *string    `json:"coordinated_category,omitempty"`
}

// RoleSnapshot is the settings-store record keyed by (edition, level).
// Created at publish time, consumed and deleted at rollback time.
type RoleSnapshot struct {
	EditionID int                 `json:"edition_id"`
	Level     CompetitionLevel    `json:"level"`
	Users     []RoleSnapshotEntry `json:"users"`
}
