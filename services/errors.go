package services

import "errors"

// Shared errors used across services and HTTP mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed    = errors.New("validation failed")
	ErrPasswordTooShort    = errors.New("password is too short")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrProjectTitleMissing = errors.New("project title is required")
	ErrCategoryMissing     = errors.New("project category is required")
	ErrInvalidLevel        = errors.New("invalid competition level")
	ErrInvalidSection      = errors.New("invalid judging section")
	ErrInvalidScore        = errors.New("score must be between 0 and 100")
	ErrAssignmentArchived  = errors.New("assignment belongs to a published result and is read-only")

	// Conflicts
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrProjectTitleConflict = errors.New("a project with this title is already registered for the edition")
	ErrEditionYearConflict  = errors.New("an edition for this year already exists")

	// Authentication and authorization
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrForbiddenOperation   = errors.New("operation not allowed for the current user")
	ErrAdminRoleRequired    = errors.New("an administrative role is required for this action")
	ErrJudgeRoleRequired    = errors.New("a judge role is required for this action")

	// Entity-specific not-found errors
	ErrUserNotFound       = errors.New("user not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrAssignmentNotFound = errors.New("judge assignment not found")
	ErrEditionNotFound    = errors.New("edition not found")
	ErrNoActiveEdition    = errors.New("no active competition edition")

	// Publish / rollback
	ErrLevelAlreadyCompleted = errors.New("edition already completed at national level")
	ErrNothingToPublish      = errors.New("no eligible projects at this level for your jurisdiction")
	ErrRollbackUnsafe        = errors.New("judging has already started at the next level")
)
