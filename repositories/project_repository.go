package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Omondi01/sciencefair-system/models"
)

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrProjectTitleConflict = errors.New("project title conflict")
	ErrProjectPatronInvalid = errors.New("project patron invalid")
)

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id int) (*models.Project, error)
	ListByEdition(ctx context.Context, editionID int) ([]models.Project, error)
	Update(ctx context.Context, project *models.Project) error
	// UpdatePromotion mutates the two publisher-owned fields only.
	UpdatePromotion(ctx context.Context, id int, level models.CompetitionLevel, eliminated bool) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context, editionID int, eliminated *bool) (int, error)
}

type postgresProjectRepository struct {
	db *sql.DB
}

func NewPostgresProjectRepository(db *sql.DB) ProjectRepository {
	return &postgresProjectRepository{db: db}
}

const projectColumns = `id, title, category, region, county, sub_county, zone, school, students, patron_id, current_level, is_eliminated, edition_id, created_at`

func (r *postgresProjectRepository) Create(ctx context.Context, project *models.Project) error {
	query := `
		INSERT INTO projects (title, category, region, county, sub_county, zone, school, students, patron_id, current_level, is_eliminated, edition_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		project.Title,
		project.Category,
		project.Region,
		project.County,
		project.SubCounty,
		project.Zone,
		project.School,
		pq.Array(project.Students),
		project.PatronID,
		string(project.CurrentLevel),
		project.IsEliminated,
		project.EditionID,
	).Scan(&project.ID, &project.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "projects_title_edition_key" {
					return ErrProjectTitleConflict
				}
			case "23503":
				if pqErr.Constraint == "projects_patron_id_fkey" {
					return ErrProjectPatronInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresProjectRepository) GetByID(ctx context.Context, id int) (*models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	project, err := r.scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (r *postgresProjectRepository) ListByEdition(ctx context.Context, editionID int) ([]models.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE edition_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, editionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]models.Project, 0)
	for rows.Next() {
		project, scanErr := r.scanProject(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		projects = append(projects, *project)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *postgresProjectRepository) Update(ctx context.Context, project *models.Project) error {
	query := `
		UPDATE projects SET
			title = $1,
			category = $2,
			school = $3,
			students = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query,
		project.Title,
		project.Category,
		project.School,
		pq.Array(project.Students),
		project.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProjectNotFound)
}

func (r *postgresProjectRepository) UpdatePromotion(ctx context.Context, id int, level models.CompetitionLevel, eliminated bool) error {
	query := `UPDATE projects SET current_level = $1, is_eliminated = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, string(level), eliminated, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProjectNotFound)
}

func (r *postgresProjectRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrProjectNotFound)
}

func (r *postgresProjectRepository) Count(ctx context.Context, editionID int, eliminated *bool) (int, error) {
	var count int
	if eliminated == nil {
		err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects WHERE edition_id = $1`, editionID).Scan(&count)
		return count, err
	}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM projects WHERE edition_id = $1 AND is_eliminated = $2`,
		editionID, *eliminated,
	).Scan(&count)
	return count, err
}

func (r *postgresProjectRepository) scanProject(row rowScanner) (*models.Project, error) {
	project := &models.Project{}
	var students pq.StringArray
	var level string

	err := row.Scan(
		&project.ID,
		&project.Title,
		&project.Category,
		&project.Region,
		&project.County,
		&project.SubCounty,
		&project.Zone,
		&project.School,
		&students,
		&project.PatronID,
		&level,
		&project.IsEliminated,
		&project.EditionID,
		&project.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	project.Students = students
	project.CurrentLevel = models.CompetitionLevel(level)
	return project, nil
}
