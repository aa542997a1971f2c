package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/repositories"
)

type CreateEditionInput struct {
	Year     int    `json:"year"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type EditionService struct {
	editionRepo  repositories.EditionRepository
	settingsRepo repositories.SettingsRepository
}

func NewEditionService(editionRepo repositories.EditionRepository, settingsRepo repositories.SettingsRepository) *EditionService {
	return &EditionService{editionRepo: editionRepo, settingsRepo: settingsRepo}
}

// CreateEdition opens a new yearly competition instance.
func (s *EditionService) CreateEdition(ctx context.Context, actor *models.User, input CreateEditionInput) (*models.Edition, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRoleRequired
	}
	currentYear := time.Now().Year()
	if input.Year < 2000 || input.Year > currentYear+1 {
		return nil, ErrValidationFailed
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrValidationFailed
	}

	edition := &models.Edition{
		Year:     input.Year,
		Name:     strings.TrimSpace(input.Name),
		IsActive: input.IsActive,
	}
	if err := s.editionRepo.Create(ctx, edition); err != nil {
		if errors.Is(err, repositories.ErrEditionYearConflict) {
			return nil, ErrEditionYearConflict
		}
		return nil, err
	}
	return edition, nil
}

func (s *EditionService) ListEditions(ctx context.Context) ([]models.Edition, error) {
	return s.editionRepo.List(ctx)
}

func (s *EditionService) GetEditionByID(ctx context.Context, id int) (*models.Edition, error) {
	edition, err := s.editionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrEditionNotFound) {
			return nil, ErrEditionNotFound
		}
		return nil, err
	}
	return edition, nil
}

// GetActiveEdition returns the open edition plus whether its National
// results have been published.
func (s *EditionService) GetActiveEdition(ctx context.Context) (*models.Edition, bool, error) {
	edition, err := s.editionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveEdition) {
			return nil, false, ErrNoActiveEdition
		}
		return nil, false, err
	}
	completed, err := s.settingsRepo.EditionCompleted(ctx, edition.ID)
	if err != nil {
		return nil, false, err
	}
	return edition, completed, nil
}
