package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Omondi01/sciencefair-system/models"
)

var (
	ErrAssignmentNotFound       = errors.New("judge assignment not found")
	ErrAssignmentProjectInvalid = errors.New("judge assignment project invalid")
	ErrAssignmentJudgeInvalid   = errors.New("judge assignment judge invalid")
)

type AssignmentRepository interface {
	// Upsert creates the assignment or, when one already exists for the
	// (project, judge, section, level, edition) key, returns it unchanged.
	Upsert(ctx context.Context, assignment *models.JudgeAssignment) error
	GetByID(ctx context.Context, id int) (*models.JudgeAssignment, error)
	ListByEdition(ctx context.Context, editionID int) ([]models.JudgeAssignment, error)
	ListByJudge(ctx context.Context, judgeID, editionID int) ([]models.JudgeAssignment, error)
	UpdateScore(ctx context.Context, assignment *models.JudgeAssignment) error
	// SetArchivedByProjects flips the archived flag for all non-matching
	// records of the given projects at one level, as a single bulk update.
	SetArchivedByProjects(ctx context.Context, projectIDs []int, level models.CompetitionLevel, editionID int, archive bool) error
	// SetArchivedByLevel flips the archived flag for every record at the
	// level, regardless of project. Used by the global National publish
	// and by rollback.
	SetArchivedByLevel(ctx context.Context, level models.CompetitionLevel, editionID int, archive bool) error
	CountByLevelAndStatuses(ctx context.Context, level models.CompetitionLevel, editionID int, statuses []models.AssignmentStatus) (int, error)
	Count(ctx context.Context, editionID int, status *models.AssignmentStatus) (int, error)
}

type postgresAssignmentRepository struct {
	db *sql.DB
}

func NewPostgresAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &postgresAssignmentRepository{db: db}
}

const assignmentColumns = `id, project_id, judge_id, assigned_section, status, score, score_breakdown, comments, recommendations, is_archived, competition_level, edition_id, created_at, updated_at`

func (r *postgresAssignmentRepository) Upsert(ctx context.Context, assignment *models.JudgeAssignment) error {
	query := `
		INSERT INTO judge_assignments (project_id, judge_id, assigned_section, status, is_archived, competition_level, edition_id)
		VALUES ($1, $2, $3, $4, false, $5, $6)
		ON CONFLICT (project_id, judge_id, assigned_section, competition_level, edition_id) DO UPDATE
			SET updated_at = now()
		RETURNING id, status, is_archived, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		assignment.ProjectID,
		assignment.JudgeID,
		string(assignment.Section),
		string(models.StatusNotStarted),
		string(assignment.Level),
		assignment.EditionID,
	).Scan(&assignment.ID, &assignment.Status, &assignment.IsArchived, &assignment.CreatedAt, &assignment.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "judge_assignments_project_id_fkey":
				return ErrAssignmentProjectInvalid
			case "judge_assignments_judge_id_fkey":
				return ErrAssignmentJudgeInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresAssignmentRepository) GetByID(ctx context.Context, id int) (*models.JudgeAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM judge_assignments WHERE id = $1`
	assignment, err := r.scanAssignment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	return assignment, nil
}

func (r *postgresAssignmentRepository) ListByEdition(ctx context.Context, editionID int) ([]models.JudgeAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM judge_assignments WHERE edition_id = $1 ORDER BY id ASC`
	return r.list(ctx, query, editionID)
}

func (r *postgresAssignmentRepository) ListByJudge(ctx context.Context, judgeID, editionID int) ([]models.JudgeAssignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM judge_assignments WHERE judge_id = $1 AND edition_id = $2 ORDER BY id ASC`
	return r.list(ctx, query, judgeID, editionID)
}

func (r *postgresAssignmentRepository) UpdateScore(ctx context.Context, assignment *models.JudgeAssignment) error {
	breakdown, err := json.Marshal(assignment.ScoreBreakdown)
	if err != nil {
		return fmt.Errorf("failed to marshal score breakdown: %w", err)
	}

	query := `
		UPDATE judge_assignments SET
			status = $1,
			score = $2,
			score_breakdown = $3,
			comments = $4,
			recommendations = $5,
			updated_at = now()
		WHERE id = $6 AND is_archived = false`

	result, err := r.db.ExecContext(ctx, query,
		string(assignment.Status),
		assignment.Score,
		breakdown,
		assignment.Comments,
		assignment.Recommendations,
		assignment.ID,
	)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrAssignmentNotFound)
}

func (r *postgresAssignmentRepository) SetArchivedByProjects(ctx context.Context, projectIDs []int, level models.CompetitionLevel, editionID int, archive bool) error {
	if len(projectIDs) == 0 {
		return nil
	}
	query := `
		UPDATE judge_assignments
		SET is_archived = $1, updated_at = now()
		WHERE project_id = ANY($2) AND competition_level = $3 AND edition_id = $4 AND is_archived = NOT $1`

	_, err := r.db.ExecContext(ctx, query, archive, pq.Array(projectIDs), string(level), editionID)
	return err
}

func (r *postgresAssignmentRepository) SetArchivedByLevel(ctx context.Context, level models.CompetitionLevel, editionID int, archive bool) error {
	query := `
		UPDATE judge_assignments
		SET is_archived = $1, updated_at = now()
		WHERE competition_level = $2 AND edition_id = $3 AND is_archived = NOT $1`

	_, err := r.db.ExecContext(ctx, query, archive, string(level), editionID)
	return err
}

func (r *postgresAssignmentRepository) CountByLevelAndStatuses(ctx context.Context, level models.CompetitionLevel, editionID int, statuses []models.AssignmentStatus) (int, error) {
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM judge_assignments WHERE competition_level = $1 AND edition_id = $2 AND status = ANY($3)`,
		string(level), editionID, pq.Array(values),
	).Scan(&count)
	return count, err
}

func (r *postgresAssignmentRepository) Count(ctx context.Context, editionID int, status *models.AssignmentStatus) (int, error) {
	var count int
	if status == nil {
		err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM judge_assignments WHERE edition_id = $1`, editionID).Scan(&count)
		return count, err
	}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM judge_assignments WHERE edition_id = $1 AND status = $2`,
		editionID, string(*status),
	).Scan(&count)
	return count, err
}

func (r *postgresAssignmentRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.JudgeAssignment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	assignments := make([]models.JudgeAssignment, 0)
	for rows.Next() {
		assignment, scanErr := r.scanAssignment(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		assignments = append(assignments, *assignment)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *postgresAssignmentRepository) scanAssignment(row rowScanner) (*models.JudgeAssignment, error) {
	assignment := &models.JudgeAssignment{}
	var section, status, level string
	var breakdown []byte

	err := row.Scan(
		&assignment.ID,
		&assignment.ProjectID,
		&assignment.JudgeID,
		&section,
		&status,
		&assignment.Score,
		&breakdown,
		&assignment.Comments,
		&assignment.Recommendations,
		&assignment.IsArchived,
		&level,
		&assignment.EditionID,
		&assignment.CreatedAt,
		&assignment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan judge assignment: %w", err)
	}

	assignment.Section = models.Section(section)
	assignment.Status = models.AssignmentStatus(status)
	assignment.Level = models.CompetitionLevel(level)
	if len(breakdown) > 0 {
		if err := json.Unmarshal(breakdown, &assignment.ScoreBreakdown); err != nil {
			return nil, fmt.Errorf("failed to unmarshal score breakdown: %w", err)
		}
	}
	return assignment, nil
}
