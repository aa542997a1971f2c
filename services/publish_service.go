package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/repositories"
	"github.com/Omondi01/sciencefair-system/scoring"
)

// ResultsBroadcaster pushes leaderboard updates to connected clients.
// Implemented by live.Hub; a no-op implementation is fine for tests.
type ResultsBroadcaster interface {
	BroadcastLevel(level models.CompetitionLevel, message interface{})
}

// PublishResult reports what a publish or rollback changed. Warnings
// carry recoverable conditions (e.g. a missing role snapshot during
// rollback) that the administrator should see but that do not fail the
// operation.
type PublishResult struct {
	Level      models.CompetitionLevel  `json:"level"`
	NextLevel  *models.CompetitionLevel `json:"next_level,omitempty"`
	EditionID  int                      `json:"edition_id"`
	Promoted   []models.Project         `json:"promoted"`
	Eliminated []models.Project         `json:"eliminated"`
	Restored   []models.Project         `json:"restored,omitempty"`
	RolesReset []int                    `json:"roles_reset,omitempty"`
	Ranking    *scoring.RankingData     `json:"ranking,omitempty"`
	Warnings   []string                 `json:"warnings,omitempty"`
}

// PublishService is the level publisher: the one component with side
// effects. It finalizes a level's judging round into promotions and
// eliminations, archives the assignments that produced the result, and
// supports the inverse rollback.
//
// The write phase is a sequence of independent persistence calls with no
// cross-call transaction. On the first failed write the service stops
// and returns the error; writes already committed are NOT compensated.
// A single administrative actor at a time is assumed; concurrent
// publishes for the same (edition, level) are prevented procedurally,
// not structurally.
type PublishService struct {
	ranking        *RankingService
	projectRepo    repositories.ProjectRepository
	assignmentRepo repositories.AssignmentRepository
	userRepo       repositories.UserRepository
	editionRepo    repositories.EditionRepository
	settingsRepo   repositories.SettingsRepository
	auditRepo      repositories.AuditRepository
	hub            ResultsBroadcaster
	logger         *slog.Logger
}

func NewPublishService(
	ranking *RankingService,
	projectRepo repositories.ProjectRepository,
	assignmentRepo repositories.AssignmentRepository,
	userRepo repositories.UserRepository,
	editionRepo repositories.EditionRepository,
	settingsRepo repositories.SettingsRepository,
	auditRepo repositories.AuditRepository,
	hub ResultsBroadcaster,
	logger *slog.Logger,
) *PublishService {
	return &PublishService{
		ranking:        ranking,
		projectRepo:    projectRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		editionRepo:    editionRepo,
		settingsRepo:   settingsRepo,
		auditRepo:      auditRepo,
		hub:            hub,
		logger:         logger,
	}
}

// visibleTo reports whether the project falls inside the acting admin's
// jurisdiction. Super and national admins see everything; lower admins
// see their own region/county/sub-county.
func visibleTo(actor *models.User, p *models.Project) bool {
	switch {
	case actor.HasRole(models.RoleSuperAdmin), actor.HasRole(models.RoleNationalAdmin):
		return true
	case actor.HasRole(models.RoleRegionalAdmin):
		return actor.Region != nil && p.Region == *actor.Region
	case actor.HasRole(models.RoleCountyAdmin):
		return actor.County != nil && p.County == *actor.County
	case actor.HasRole(models.RoleSubCountyAdmin):
		return actor.SubCounty != nil && p.SubCounty == *actor.SubCounty
	}
	return false
}

func scopeDescription(actor *models.User) string {
	switch {
	case actor.HasRole(models.RoleSuperAdmin), actor.HasRole(models.RoleNationalAdmin):
		return "national"
	case actor.HasRole(models.RoleRegionalAdmin) && actor.Region != nil:
		return "region " + *actor.Region
	case actor.HasRole(models.RoleCountyAdmin) && actor.County != nil:
		return "county " + *actor.County
	case actor.HasRole(models.RoleSubCountyAdmin) && actor.SubCounty != nil:
		return "sub-county " + *actor.SubCounty
	}
	return "unknown"
}

// Publish finalizes the level's judging round within the actor's
// jurisdiction: top four per category advance to the next level,
// everyone else ranked is eliminated, the round's assignments are
// archived, coordinator roles are snapshotted and reset, and the action
// is audited.
func (s *PublishService) Publish(ctx context.Context, actorID int, level models.CompetitionLevel) (*PublishResult, error) {
	actor, edition, err := s.authorize(ctx, actorID)
	if err != nil {
		return nil, err
	}

	completed, err := s.settingsRepo.EditionCompleted(ctx, edition.ID)
	if err != nil {
		return nil, err
	}
	if completed {
		return nil, ErrLevelAlreadyCompleted
	}

	snap, err := s.ranking.LoadSnapshot(ctx, edition.ID)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{Level: level, EditionID: edition.ID}
	nextLevel, hasNext := models.NextLevel(level)
	if hasNext {
		result.NextLevel = &nextLevel
	}

	var inScope []models.Project
	scopeIDs := make(map[int]struct{})
	for _, p := range snap.Projects {
		if p.CurrentLevel == level && !p.IsEliminated && visibleTo(actor, &p) {
			inScope = append(inScope, p)
			scopeIDs[p.ID] = struct{}{}
		}
	}
	if len(inScope) == 0 {
		return nil, ErrNothingToPublish
	}

	ranking := scoring.Rank(snap, inScope, level)
	result.Ranking = &ranking

	// Promote or eliminate each ranked project. Stops on the first
	// failed write; earlier writes stay committed.
	for _, ranked := range ranking.Categories {
		for _, rp := range ranked {
			p := rp.Project
			if rp.CategoryRank <= 4 {
				if hasNext {
					if err := s.projectRepo.UpdatePromotion(ctx, p.ID, nextLevel, false); err != nil {
						return result, fmt.Errorf("failed to promote project %d: %w", p.ID, err)
					}
					p.CurrentLevel = nextLevel
				}
				// National winners keep their level; the rank itself is
				// the final result.
				result.Promoted = append(result.Promoted, p)
			} else {
				if err := s.projectRepo.UpdatePromotion(ctx, p.ID, level, true); err != nil {
					return result, fmt.Errorf("failed to eliminate project %d: %w", p.ID, err)
				}
				p.IsEliminated = true
				result.Eliminated = append(result.Eliminated, p)
			}
		}
	}

	// Archive the round. A national publish is global: every live
	// assignment at National level is archived regardless of scope.
	var archivedBatch []models.JudgeAssignment
	for _, a := range snap.Assignments {
		if a.Level != level || a.IsArchived {
			continue
		}
		if level != models.LevelNational {
			if _, ok := scopeIDs[a.ProjectID]; !ok {
				continue
			}
		}
		archivedBatch = append(archivedBatch, a)
	}

	if level == models.LevelNational {
		err = s.assignmentRepo.SetArchivedByLevel(ctx, level, edition.ID, true)
	} else {
		ids := make([]int, 0, len(scopeIDs))
		for id := range scopeIDs {
			ids = append(ids, id)
		}
		err = s.assignmentRepo.SetArchivedByProjects(ctx, ids, level, edition.ID, true)
	}
	if err != nil {
		return result, fmt.Errorf("failed to archive assignments: %w", err)
	}

	if err := s.snapshotAndResetRoles(ctx, edition.ID, level, archivedBatch, result); err != nil {
		return result, err
	}

	if level == models.LevelNational {
		if err := s.settingsRepo.SetEditionCompleted(ctx, edition.ID, true); err != nil {
			return result, fmt.Errorf("failed to set edition completed flag: %w", err)
		}
	}

	s.audit(ctx, actor, edition.ID, fmt.Sprintf("published %s level results", level))
	s.broadcast(level, "RESULTS_PUBLISHED", result)

	s.logger.Info("level published",
		slog.String("level", level.String()),
		slog.Int("edition", edition.ID),
		slog.Int("promoted", len(result.Promoted)),
		slog.Int("eliminated", len(result.Eliminated)),
	)
	return result, nil
}

// snapshotAndResetRoles records the pre-publish role state of every
// judge in the archived batch, then strips the Coordinator role from
// judges who acted as coordinators in this round (both sections of at
// least one project).
func (s *PublishService) snapshotAndResetRoles(ctx context.Context, editionID int, level models.CompetitionLevel, batch []models.JudgeAssignment, result *PublishResult) error {
	judgeIDs := make(map[int]struct{})
	for i := range batch {
		judgeIDs[batch[i].JudgeID] = struct{}{}
	}
	if len(judgeIDs) == 0 {
		return nil
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users for role snapshot: %w", err)
	}
	byID := make(map[int]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	snapshot := &models.RoleSnapshot{EditionID: editionID, Level: level}
	for id := range judgeIDs {
		u, ok := byID[id]
		if !ok {
			continue
		}
		snapshot.Users = append(snapshot.Users, models.RoleSnapshotEntry{
			UserID:              u.ID,
			Roles:               u.Roles,
			CurrentRole:         u.CurrentRole,
			CoordinatedCategory: u.CoordinatedCategory,
		})
	}
	if err := s.settingsRepo.SaveRoleSnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save role snapshot: %w", err)
	}

	for id := range judgeIDs {
		if !scoring.IsActingCoordinator(id, batch) {
			continue
		}
		u, ok := byID[id]
		if !ok {
			continue
		}

		roles := make([]models.UserRole, 0, len(u.Roles))
		hasJudge := false
		for _, role := range u.Roles {
			if role == models.RoleCoordinator {
				continue
			}
			if role == models.RoleJudge {
				hasJudge = true
			}
			roles = append(roles, role)
		}
		if !hasJudge {
			roles = append(roles, models.RoleJudge)
		}
		currentRole := u.CurrentRole
		if currentRole == models.RoleCoordinator {
			currentRole = models.RoleJudge
		}

		if err := s.userRepo.UpdateRoles(ctx, id, roles, currentRole, nil); err != nil {
			return fmt.Errorf("failed to reset roles for user %d: %w", id, err)
		}
		result.RolesReset = append(result.RolesReset, id)
	}
	return nil
}

// Rollback is the inverse of Publish: it restores every project at the
// level (and its promoted top-four one level up), unarchives the level's
// assignments, and restores the snapshotted roles. Rollback is not
// jurisdiction-filtered.
func (s *PublishService) Rollback(ctx context.Context, actorID int, level models.CompetitionLevel) (*PublishResult, error) {
	actor, edition, err := s.authorize(ctx, actorID)
	if err != nil {
		return nil, err
	}

	result := &PublishResult{Level: level, EditionID: edition.ID}

	if level == models.LevelNational {
		if err := s.settingsRepo.SetEditionCompleted(ctx, edition.ID, false); err != nil {
			return result, fmt.Errorf("failed to clear edition completed flag: %w", err)
		}
	}

	projects, err := s.projectRepo.ListByEdition(ctx, edition.ID)
	if err != nil {
		return result, err
	}

	nextLevel, hasNext := models.NextLevel(level)
	for _, p := range projects {
		affected := p.CurrentLevel == level || (hasNext && p.CurrentLevel == nextLevel)
		if !affected {
			continue
		}
		if err := s.projectRepo.UpdatePromotion(ctx, p.ID, level, false); err != nil {
			return result, fmt.Errorf("failed to restore project %d: %w", p.ID, err)
		}
		p.CurrentLevel = level
		p.IsEliminated = false
		result.Restored = append(result.Restored, p)
	}

	if err := s.assignmentRepo.SetArchivedByLevel(ctx, level, edition.ID, false); err != nil {
		return result, fmt.Errorf("failed to unarchive assignments: %w", err)
	}

	snapshot, err := s.settingsRepo.GetRoleSnapshot(ctx, edition.ID, level)
	switch {
	case errors.Is(err, repositories.ErrSettingNotFound):
		result.Warnings = append(result.Warnings, "no role snapshot found; judge roles were not restored")
	case errors.Is(err, repositories.ErrRoleSnapshotCorrupt):
		result.Warnings = append(result.Warnings, "role snapshot could not be parsed; judge roles were not restored")
	case err != nil:
		return result, err
	default:
		for _, entry := range snapshot.Users {
			if err := s.userRepo.UpdateRoles(ctx, entry.UserID, entry.Roles, entry.CurrentRole, entry.CoordinatedCategory); err != nil {
				return result, fmt.Errorf("failed to restore roles for user %d: %w", entry.UserID, err)
			}
		}
		if err := s.settingsRepo.DeleteRoleSnapshot(ctx, edition.ID, level); err != nil {
			return result, fmt.Errorf("failed to delete role snapshot: %w", err)
		}
	}

	s.audit(ctx, actor, edition.ID, fmt.Sprintf("rolled back %s level results", level))
	s.broadcast(level, "RESULTS_ROLLED_BACK", result)

	s.logger.Info("level rolled back",
		slog.String("level", level.String()),
		slog.Int("edition", edition.ID),
		slog.Int("restored", len(result.Restored)),
		slog.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// CanRollback is the advisory rollback guard: a level is safe to roll
// back while no assignment one level up has judging in progress or
// completed. National has no next level and is always eligible. The
// check is advisory only; nothing at the data layer enforces it.
func (s *PublishService) CanRollback(ctx context.Context, level models.CompetitionLevel) (bool, error) {
	nextLevel, hasNext := models.NextLevel(level)
	if !hasNext {
		return true, nil
	}
	edition, err := s.editionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveEdition) {
			return false, ErrNoActiveEdition
		}
		return false, err
	}
	count, err := s.assignmentRepo.CountByLevelAndStatuses(ctx, nextLevel, edition.ID,
		[]models.AssignmentStatus{models.StatusInProgress, models.StatusCompleted})
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (s *PublishService) authorize(ctx context.Context, actorID int) (*models.User, *models.Edition, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}
	if !actor.IsAdmin() {
		return nil, nil, ErrAdminRoleRequired
	}
	edition, err := s.editionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveEdition) {
			return nil, nil, ErrNoActiveEdition
		}
		return nil, nil, err
	}
	return actor, edition, nil
}

// audit appends the action to the audit log. The append is
// fire-and-forget: a failure is logged, never surfaced.
func (s *PublishService) audit(ctx context.Context, actor *models.User, editionID int, action string) {
	entry := &models.AuditEntry{
		ActorID:   actor.ID,
		Action:    action,
		Scope:     scopeDescription(actor),
		EditionID: editionID,
	}
	if err := s.auditRepo.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append audit log entry", slog.Any("error", err))
	}
}

func (s *PublishService) broadcast(level models.CompetitionLevel, messageType string, result *PublishResult) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastLevel(level, map[string]interface{}{
		"type":    messageType,
		"payload": result,
	})
}
