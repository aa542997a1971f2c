package services

import (
	"context"
	"errors"

	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/repositories"
)

type DashboardService struct {
	userRepo       repositories.UserRepository
	projectRepo    repositories.ProjectRepository
	assignmentRepo repositories.AssignmentRepository
	editionRepo    repositories.EditionRepository
	auditRepo      repositories.AuditRepository
}

func NewDashboardService(
	userRepo repositories.UserRepository,
	projectRepo repositories.ProjectRepository,
	assignmentRepo repositories.AssignmentRepository,
	editionRepo repositories.EditionRepository,
	auditRepo repositories.AuditRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:       userRepo,
		projectRepo:    projectRepo,
		assignmentRepo: assignmentRepo,
		editionRepo:    editionRepo,
		auditRepo:      auditRepo,
	}
}

func (s *DashboardService) GetStats(ctx context.Context) (models.DashboardStats, error) {
	edition, err := s.editionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveEdition) {
			return models.DashboardStats{}, ErrNoActiveEdition
		}
		return models.DashboardStats{}, err
	}

	eliminated := true
	completedStatus := models.StatusCompleted
	judgeRole := models.RoleJudge

	projectsTotal, _ := s.projectRepo.Count(ctx, edition.ID, nil)
	projectsEliminated, _ := s.projectRepo.Count(ctx, edition.ID, &eliminated)
	assignmentsTotal, _ := s.assignmentRepo.Count(ctx, edition.ID, nil)
	assignmentsCompleted, _ := s.assignmentRepo.Count(ctx, edition.ID, &completedStatus)
	usersTotal, _ := s.userRepo.Count(ctx, nil)
	judgesTotal, _ := s.userRepo.Count(ctx, &judgeRole)

	return models.DashboardStats{
		ProjectsTotal:        projectsTotal,
		ProjectsEliminated:   projectsEliminated,
		AssignmentsTotal:     assignmentsTotal,
		AssignmentsCompleted: assignmentsCompleted,
		UsersTotal:           usersTotal,
		JudgesTotal:          judgesTotal,
	}, nil
}

// RecentActivity returns the latest publish/rollback audit entries for
// the active edition, newest first.
func (s *DashboardService) RecentActivity(ctx context.Context, limit int) ([]models.AuditEntry, error) {
	edition, err := s.editionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveEdition) {
			return nil, ErrNoActiveEdition
		}
		return nil, err
	}
	return s.auditRepo.ListByEdition(ctx, edition.ID, limit)
}
