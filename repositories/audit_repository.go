package repositories

import (
	"context"
	"database/sql"

	"github.com/Omondi01/sciencefair-system/models"
)

type AuditRepository interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	ListByEdition(ctx context.Context, editionID int, limit int) ([]models.AuditEntry, error)
}

type postgresAuditRepository struct {
	db *sql.DB
}

func NewPostgresAuditRepository(db *sql.DB) AuditRepository {
	return &postgresAuditRepository{db: db}
}

func (r *postgresAuditRepository) Append(ctx context.Context, entry *models.AuditEntry) error {
	query := `
		INSERT INTO audit_log (actor_id, action, scope, edition_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	return r.db.QueryRowContext(ctx, query,
		entry.ActorID,
		entry.Action,
		entry.Scope,
		entry.EditionID,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *postgresAuditRepository) ListByEdition(ctx context.Context, editionID int, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, actor_id, action, scope, edition_id, created_at
		FROM audit_log
		WHERE edition_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, editionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0)
	for rows.Next() {
		var e models.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.Action, &e.Scope, &e.EditionID, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
