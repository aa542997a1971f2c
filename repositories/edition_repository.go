package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/Omondi01/sciencefair-system/models"
)

var (
	ErrEditionNotFound     = errors.New("edition not found")
	ErrNoActiveEdition     = errors.New("no active edition")
	ErrEditionYearConflict = errors.New("edition year conflict")
)

type EditionRepository interface {
	Create(ctx context.Context, edition *models.Edition) error
	GetByID(ctx context.Context, id int) (*models.Edition, error)
	// GetActive returns the single edition currently open for judging.
	GetActive(ctx context.Context) (*models.Edition, error)
	List(ctx context.Context) ([]models.Edition, error)
}

type postgresEditionRepository struct {
	db *sql.DB
}

func NewPostgresEditionRepository(db *sql.DB) EditionRepository {
	return &postgresEditionRepository{db: db}
}

func (r *postgresEditionRepository) Create(ctx context.Context, edition *models.Edition) error {
	query := `
		INSERT INTO editions (year, name, is_active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, edition.Year, edition.Name, edition.IsActive).
		Scan(&edition.ID, &edition.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" && pqErr.Constraint == "editions_year_key" {
			return ErrEditionYearConflict
		}
		return err
	}
	return nil
}

func (r *postgresEditionRepository) GetByID(ctx context.Context, id int) (*models.Edition, error) {
	query := `SELECT id, year, name, is_active, created_at FROM editions WHERE id = $1`
	return r.scanEdition(ctx, query, ErrEditionNotFound, id)
}

func (r *postgresEditionRepository) GetActive(ctx context.Context) (*models.Edition, error) {
	query := `SELECT id, year, name, is_active, created_at FROM editions WHERE is_active = true ORDER BY year DESC LIMIT 1`
	return r.scanEdition(ctx, query, ErrNoActiveEdition)
}

func (r *postgresEditionRepository) List(ctx context.Context) ([]models.Edition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, year, name, is_active, created_at FROM editions ORDER BY year DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	editions := make([]models.Edition, 0)
	for rows.Next() {
		var e models.Edition
		if err := rows.Scan(&e.ID, &e.Year, &e.Name, &e.IsActive, &e.CreatedAt); err != nil {
			return nil, err
		}
		editions = append(editions, e)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return editions, nil
}

func (r *postgresEditionRepository) scanEdition(ctx context.Context, query string, notFound error, args ...interface{}) (*models.Edition, error) {
	edition := &models.Edition{}
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&edition.ID, &edition.Year, &edition.Name, &edition.IsActive, &edition.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound
		}
		return nil, err
	}
	return edition, nil
}
