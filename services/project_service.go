package services

import (
	"context"
	"errors"
	"strings"

	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/repositories"
)

type CreateProjectInput struct {
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Region    string   `json:"region"`
	County    string   `json:"county"`
	SubCounty string   `json:"sub_county"`
	Zone      string   `json:"zone"`
	School    string   `json:"school"`
	Students  []string `json:"students"`
}

type UpdateProjectInput struct {
	Title    *string   `json:"title"`
	Category *string   `json:"category"`
	School   *string   `json:"school"`
	Students *[]string `json:"students"`
}

type ProjectService struct {
	projectRepo repositories.ProjectRepository
	editionRepo repositories.EditionRepository
}

func NewProjectService(projectRepo repositories.ProjectRepository, editionRepo repositories.EditionRepository) *ProjectService {
	return &ProjectService{projectRepo: projectRepo, editionRepo: editionRepo}
}

// CreateProject registers a new entry for the active edition. Every
// project starts at Sub-County level; its geographic tuple is fixed here
// and never updated afterwards.
func (s *ProjectService) CreateProject(ctx context.Context, patronID int, input CreateProjectInput) (*models.Project, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrProjectTitleMissing
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, ErrCategoryMissing
	}

	edition, err := s.activeEdition(ctx)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Title:        strings.TrimSpace(input.Title),
		Category:     strings.TrimSpace(input.Category),
		Region:       input.Region,
		County:       input.County,
		SubCounty:    input.SubCounty,
		Zone:         input.Zone,
		School:       input.School,
		Students:     input.Students,
		PatronID:     patronID,
		CurrentLevel: models.LevelSubCounty,
		EditionID:    edition.ID,
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		if errors.Is(err, repositories.ErrProjectTitleConflict) {
			return nil, ErrProjectTitleConflict
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) GetProjectByID(ctx context.Context, id int) (*models.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

// ListProjectsFilter narrows the active edition's project list.
type ListProjectsFilter struct {
	Level      *models.CompetitionLevel
	Category   *string
	PatronID   *int
	Eliminated *bool
}

func (s *ProjectService) ListProjects(ctx context.Context, filter ListProjectsFilter) ([]models.Project, error) {
	edition, err := s.activeEdition(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.projectRepo.ListByEdition(ctx, edition.ID)
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if filter.Level != nil && p.CurrentLevel != *filter.Level {
			continue
		}
		if filter.Category != nil && p.Category != *filter.Category {
			continue
		}
		if filter.PatronID != nil && p.PatronID != *filter.PatronID {
			continue
		}
		if filter.Eliminated != nil && p.IsEliminated != *filter.Eliminated {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered, nil
}

// UpdateProject lets the owning patron amend details that do not affect
// placement. Only the project's own patron (or an admin) may update it.
func (s *ProjectService) UpdateProject(ctx context.Context, id int, actor *models.User, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project.PatronID != actor.ID && !actor.IsAdmin() {
		return nil, ErrForbiddenOperation
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrProjectTitleMissing
		}
		project.Title = strings.TrimSpace(*input.Title)
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, ErrCategoryMissing
		}
		project.Category = strings.TrimSpace(*input.Category)
	}
	if input.School != nil {
		project.School = *input.School
	}
	if input.Students != nil {
		project.Students = *input.Students
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, id int, actor *models.User) error {
	project, err := s.GetProjectByID(ctx, id)
	if err != nil {
		return err
	}
	if project.PatronID != actor.ID && !actor.IsAdmin() {
		return ErrForbiddenOperation
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	return nil
}

func (s *ProjectService) activeEdition(ctx context.Context) (*models.Edition, error) {
	edition, err := s.editionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveEdition) {
			return nil, ErrNoActiveEdition
		}
		return nil, err
	}
	return edition, nil
}
