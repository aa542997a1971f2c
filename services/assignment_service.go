package services

import (
	"context"
	"errors"

	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/repositories"
)

type AssignJudgesInput struct {
	Category string `json:"category"`
	Section  string `json:"section"`
	Level    string `json:"level"`
	JudgeIDs []int  `json:"judge_ids"`
}

type SubmitScoreInput struct {
	Score           float64            `json:"score"`
	ScoreBreakdown  map[string]float64 `json:"score_breakdown"`
	Comments        *string            `json:"comments"`
	Recommendations *string            `json:"recommendations"`
}

type AssignmentService struct {
	assignmentRepo repositories.AssignmentRepository
	projectRepo    repositories.ProjectRepository
	userRepo       repositories.UserRepository
	editionRepo    repositories.EditionRepository
}

func NewAssignmentService(
	assignmentRepo repositories.AssignmentRepository,
	projectRepo repositories.ProjectRepository,
	userRepo repositories.UserRepository,
	editionRepo repositories.EditionRepository,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		projectRepo:    projectRepo,
		userRepo:       userRepo,
		editionRepo:    editionRepo,
	}
}

// AssignJudges creates one assignment per (surviving project in the
// category at the level, judge). Existing assignments are left untouched
// thanks to the repository's upsert key, so re-running an assignment
// batch is safe.
func (s *AssignmentService) AssignJudges(ctx context.Context, actor *models.User, input AssignJudgesInput) ([]models.JudgeAssignment, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRoleRequired
	}

	section, ok := models.ParseSection(input.Section)
	if !ok {
		return nil, ErrInvalidSection
	}
	level, err := models.ParseLevel(input.Level)
	if err != nil {
		return nil, ErrInvalidLevel
	}

	edition, err := s.editionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveEdition) {
			return nil, ErrNoActiveEdition
		}
		return nil, err
	}

	for _, judgeID := range input.JudgeIDs {
		judge, err := s.userRepo.GetByID(ctx, judgeID)
		if err != nil {
			if errors.Is(err, repositories.ErrUserNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if !judge.HasRole(models.RoleJudge) && !judge.HasRole(models.RoleCoordinator) {
			return nil, ErrJudgeRoleRequired
		}
	}

	projects, err := s.projectRepo.ListByEdition(ctx, edition.ID)
	if err != nil {
		return nil, err
	}

	created := make([]models.JudgeAssignment, 0)
	for _, p := range projects {
		if p.Category != input.Category || p.CurrentLevel != level || p.IsEliminated {
			continue
		}
		for _, judgeID := range input.JudgeIDs {
			assignment := models.JudgeAssignment{
				ProjectID: p.ID,
				JudgeID:   judgeID,
				Section:   section,
				Level:     level,
				EditionID: edition.ID,
			}
			if err := s.assignmentRepo.Upsert(ctx, &assignment); err != nil {
				return nil, err
			}
			created = append(created, assignment)
		}
	}
	return created, nil
}

// SubmitScore records a judge's completed evaluation of one assignment.
// Archived assignments are immutable history and reject updates.
func (s *AssignmentService) SubmitScore(ctx context.Context, assignmentID int, judgeID int, input SubmitScoreInput) (*models.JudgeAssignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.JudgeID != judgeID {
		return nil, ErrForbiddenOperation
	}
	if assignment.IsArchived {
		return nil, ErrAssignmentArchived
	}
	if input.Score < 0 || input.Score > 100 {
		return nil, ErrInvalidScore
	}

	score := input.Score
	assignment.Score = &score
	assignment.ScoreBreakdown = input.ScoreBreakdown
	assignment.Comments = input.Comments
	assignment.Recommendations = input.Recommendations
	assignment.Status = models.StatusCompleted

	if err := s.assignmentRepo.UpdateScore(ctx, assignment); err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, ErrAssignmentArchived
		}
		return nil, err
	}
	return assignment, nil
}

// MarkInProgress flips a fresh assignment to in-progress when the judge
// opens a judging session.
func (s *AssignmentService) MarkInProgress(ctx context.Context, assignmentID int, judgeID int) (*models.JudgeAssignment, error) {
	assignment, err := s.assignmentRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, repositories.ErrAssignmentNotFound) {
			return nil, ErrAssignmentNotFound
		}
		return nil, err
	}
	if assignment.JudgeID != judgeID {
		return nil, ErrForbiddenOperation
	}
	if assignment.IsArchived {
		return nil, ErrAssignmentArchived
	}
	if assignment.Status == models.StatusNotStarted {
		assignment.Status = models.StatusInProgress
		if err := s.assignmentRepo.UpdateScore(ctx, assignment); err != nil {
			return nil, err
		}
	}
	return assignment, nil
}

// ListMyAssignments returns the judge's live assignments for the active
// edition, oldest first.
func (s *AssignmentService) ListMyAssignments(ctx context.Context, judgeID int) ([]models.JudgeAssignment, error) {
	edition, err := s.editionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveEdition) {
			return nil, ErrNoActiveEdition
		}
		return nil, err
	}
	assignments, err := s.assignmentRepo.ListByJudge(ctx, judgeID, edition.ID)
	if err != nil {
		return nil, err
	}

	live := make([]models.JudgeAssignment, 0, len(assignments))
	for _, a := range assignments {
		if !a.IsArchived {
			live = append(live, a)
		}
	}
	return live, nil
}
