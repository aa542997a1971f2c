package services

import (
	"context"
	"errors"

	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/repositories"
)

type UpdateUserRolesInput struct {
	Roles               []models.UserRole `json:"roles"`
	CurrentRole         models.UserRole   `json:"current_role"`
	CoordinatedCategory *string           `json:"coordinated_category"`
}

type UserService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.List(ctx)
}

// UpdateUserRoles provisions judges, coordinators and admins. A
// coordinator must name the category they coordinate.
func (s *UserService) UpdateUserRoles(ctx context.Context, actor *models.User, id int, input UpdateUserRolesInput) (*models.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminRoleRequired
	}
	if len(input.Roles) == 0 || !models.ValidRole(input.CurrentRole) {
		return nil, ErrValidationFailed
	}
	for _, role := range input.Roles {
		if !models.ValidRole(role) {
			return nil, ErrValidationFailed
		}
	}

	hasCoordinator := false
	for _, role := range input.Roles {
		if role == models.RoleCoordinator {
			hasCoordinator = true
		}
	}
	if hasCoordinator && (input.CoordinatedCategory == nil || *input.CoordinatedCategory == "") {
		return nil, ErrValidationFailed
	}
	if !hasCoordinator {
		input.CoordinatedCategory = nil
	}

	if err := s.userRepo.UpdateRoles(ctx, id, input.Roles, input.CurrentRole, input.CoordinatedCategory); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUserByID(ctx, id)
}
