package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Omondi01/sciencefair-system/models"
)

var (
	ErrSettingNotFound = errors.New("setting not found")

	// ErrRoleSnapshotCorrupt marks a snapshot entry that exists but no
	// longer parses. Rollback treats it as a warning, not a failure.
	ErrRoleSnapshotCorrupt = errors.New("role snapshot corrupt")
)

// SettingsRepository is the durable key-value store behind the role
// snapshots and the edition-completed flag. Keys are built internally
// from (edition, level); callers never concatenate key strings.
type SettingsRepository interface {
	SaveRoleSnapshot(ctx context.Context, snapshot *models.RoleSnapshot) error
	GetRoleSnapshot(ctx context.Context, editionID int, level models.CompetitionLevel) (*models.RoleSnapshot, error)
	DeleteRoleSnapshot(ctx context.Context, editionID int, level models.CompetitionLevel) error

	SetEditionCompleted(ctx context.Context, editionID int, completed bool) error
	EditionCompleted(ctx context.Context, editionID int) (bool, error)
}

type postgresSettingsRepository struct {
	db *sql.DB
}

func NewPostgresSettingsRepository(db *sql.DB) SettingsRepository {
	return &postgresSettingsRepository{db: db}
}

func roleSnapshotKey(editionID int, level models.CompetitionLevel) string {
	return fmt.Sprintf("role_snapshot_%d_%s", editionID, level)
}

func editionCompletedKey(editionID int) string {
	return fmt.Sprintf("edition_completed_%d", editionID)
}

func (r *postgresSettingsRepository) SaveRoleSnapshot(ctx context.Context, snapshot *models.RoleSnapshot) error {
	value, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal role snapshot: %w", err)
	}
	return r.set(ctx, roleSnapshotKey(snapshot.EditionID, snapshot.Level), string(value))
}

func (r *postgresSettingsRepository) GetRoleSnapshot(ctx context.Context, editionID int, level models.CompetitionLevel) (*models.RoleSnapshot, error) {
	value, err := r.get(ctx, roleSnapshotKey(editionID, level))
	if err != nil {
		return nil, err
	}

	snapshot := &models.RoleSnapshot{}
	if err := json.Unmarshal([]byte(value), snapshot); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRoleSnapshotCorrupt, err)
	}
	return snapshot, nil
}

func (r *postgresSettingsRepository) DeleteRoleSnapshot(ctx context.Context, editionID int, level models.CompetitionLevel) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, roleSnapshotKey(editionID, level))
	return err
}

func (r *postgresSettingsRepository) SetEditionCompleted(ctx context.Context, editionID int, completed bool) error {
	if !completed {
		_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = $1`, editionCompletedKey(editionID))
		return err
	}
	return r.set(ctx, editionCompletedKey(editionID), "true")
}

func (r *postgresSettingsRepository) EditionCompleted(ctx context.Context, editionID int) (bool, error) {
	value, err := r.get(ctx, editionCompletedKey(editionID))
	if err != nil {
		if errors.Is(err, ErrSettingNotFound) {
			return false, nil
		}
		return false, err
	}
	return value == "true", nil
}

func (r *postgresSettingsRepository) set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	_, err := r.db.ExecContext(ctx, query, key, value)
	return err
}

func (r *postgresSettingsRepository) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrSettingNotFound
		}
		return "", err
	}
	return value, nil
}
