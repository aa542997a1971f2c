package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Omondi01/sciencefair-system/models"
)

type publishFixture struct {
	users       *fakeUserRepo
	projects    *fakeProjectRepo
	assignments *fakeAssignmentRepo
	editions    *fakeEditionRepo
	settings    *fakeSettingsRepo
	audit       *fakeAuditRepo
	hub         *fakeBroadcaster
	publish     *PublishService
}

const (
	adminID       = 1
	coordinatorID = 7
)

func newPublishFixture(t *testing.T) *publishFixture {
	t.Helper()

	f := &publishFixture{
		users:       newFakeUserRepo(),
		projects:    newFakeProjectRepo(),
		assignments: newFakeAssignmentRepo(),
		editions:    newFakeEditionRepo(),
		settings:    newFakeSettingsRepo(),
		audit:       &fakeAuditRepo{},
		hub:         &fakeBroadcaster{},
	}

	ranking := NewRankingService(f.editions, f.projects, f.assignments, f.users)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.publish = NewPublishService(ranking, f.projects, f.assignments, f.users, f.editions, f.settings, f.audit, f.hub, logger)

	f.users.put(models.User{
		ID:          adminID,
		FirstName:   "Achieng",
		Email:       "achieng@fair.test",
		Roles:       []models.UserRole{models.RoleSuperAdmin},
		CurrentRole: models.RoleSuperAdmin,
	})
	category := "Physics"
	f.users.put(models.User{
		ID:                  coordinatorID,
		FirstName:           "Wanjiru",
		Email:               "wanjiru@fair.test",
		Roles:               []models.UserRole{models.RoleJudge, models.RoleCoordinator},
		CurrentRole:         models.RoleCoordinator,
		CoordinatedCategory: &category,
	})
	for _, id := range []int{11, 12, 13, 14} {
		f.users.put(models.User{
			ID:          id,
			Email:       fmt.Sprintf("judge%d@fair.test", id),
			Roles:       []models.UserRole{models.RoleJudge},
			CurrentRole: models.RoleJudge,
		})
	}

	require.NoError(t, f.editions.Create(context.Background(), &models.Edition{ID: 1, Year: 2026, Name: "KSEF 2026", IsActive: true}))
	return f
}

func (f *publishFixture) addProject(id int, level models.CompetitionLevel) {
	f.projects.put(models.Project{
		ID:           id,
		Title:        fmt.Sprintf("Project %d", id),
		Category:     "Physics",
		Region:       "Nyanza",
		County:       "Kisumu",
		SubCounty:    "Kisumu East",
		Zone:         "Kajulu",
		School:       "Obambo Secondary",
		PatronID:     adminID,
		CurrentLevel: level,
		EditionID:    1,
	})
}

func (f *publishFixture) addScore(projectID, judgeID int, section models.Section, score float64, level models.CompetitionLevel) {
	s := score
	f.assignments.put(models.JudgeAssignment{
		ProjectID: projectID,
		JudgeID:   judgeID,
		Section:   section,
		Status:    models.StatusCompleted,
		Score:     &s,
		Level:     level,
		EditionID: 1,
	})
}

// fullyJudge gives a project two agreeing judges per section plus a
// completed coordinator pass on both sections.
func (f *publishFixture) fullyJudge(projectID int, scoreA, scoreBC float64, level models.CompetitionLevel) {
	f.addScore(projectID, 11, models.SectionPartA, scoreA, level)
	f.addScore(projectID, 12, models.SectionPartA, scoreA, level)
	f.addScore(projectID, 13, models.SectionPartBC, scoreBC, level)
	f.addScore(projectID, 14, models.SectionPartBC, scoreBC, level)
	f.addScore(projectID, coordinatorID, models.SectionPartA, scoreA, level)
	f.addScore(projectID, coordinatorID, models.SectionPartBC, scoreBC, level)
}

// seedSubCountyRound sets up five fully judged Physics projects whose
// totals produce the rank sequence 1, 2, 2, 4, 5.
func (f *publishFixture) seedSubCountyRound() {
	totals := [][2]float64{{45, 45}, {40, 45}, {45, 40}, {35, 35}, {30, 30}}
	for i, scores := range totals {
		id := i + 1
		f.addProject(id, models.LevelSubCounty)
		f.fullyJudge(id, scores[0], scores[1], models.LevelSubCounty)
	}
}

func TestPublish_PromotesTopFourAndEliminatesRest(t *testing.T) {
	f := newPublishFixture(t)
	f.seedSubCountyRound()
	ctx := context.Background()

	result, err := f.publish.Publish(ctx, adminID, models.LevelSubCounty)
	require.NoError(t, err)

	require.NotNil(t, result.NextLevel)
	assert.Equal(t, models.LevelCounty, *result.NextLevel)
	assert.Len(t, result.Promoted, 4)
	require.Len(t, result.Eliminated, 1)
	assert.Equal(t, 5, result.Eliminated[0].ID)

	for id := 1; id <= 4; id++ {
		p, err := f.projects.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.LevelCounty, p.CurrentLevel, "project %d should advance", id)
		assert.False(t, p.IsEliminated)
	}
	last, err := f.projects.GetByID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, models.LevelSubCounty, last.CurrentLevel)
	assert.True(t, last.IsEliminated)
}

func TestPublish_ArchivesTheRound(t *testing.T) {
	f := newPublishFixture(t)
	f.seedSubCountyRound()
	ctx := context.Background()

	_, err := f.publish.Publish(ctx, adminID, models.LevelSubCounty)
	require.NoError(t, err)

	assignments, err := f.assignments.ListByEdition(ctx, 1)
	require.NoError(t, err)
	require.NotEmpty(t, assignments)
	for _, a := range assignments {
		assert.True(t, a.IsArchived, "assignment %d should be archived", a.ID)
	}
}

func TestPublish_ResetsActingCoordinatorRoles(t *testing.T) {
	f := newPublishFixture(t)
	f.seedSubCountyRound()
	ctx := context.Background()

	result, err := f.publish.Publish(ctx, adminID, models.LevelSubCounty)
	require.NoError(t, err)

	assert.Contains(t, result.RolesReset, coordinatorID)

	coordinator, err := f.users.GetByID(ctx, coordinatorID)
	require.NoError(t, err)
	assert.False(t, coordinator.HasRole(models.RoleCoordinator))
	assert.True(t, coordinator.HasRole(models.RoleJudge))
	assert.Equal(t, models.RoleJudge, coordinator.CurrentRole)
	assert.Nil(t, coordinator.CoordinatedCategory)

	// Regular judges keep their roles.
	judge, err := f.users.GetByID(ctx, 11)
	require.NoError(t, err)
	assert.True(t, judge.HasRole(models.RoleJudge))

	snapshot, err := f.settings.GetRoleSnapshot(ctx, 1, models.LevelSubCounty)
	require.NoError(t, err)
	assert.Equal(t, models.LevelSubCounty, snapshot.Level)
	assert.NotEmpty(t, snapshot.Users)
}

func TestPublish_NothingInScope(t *testing.T) {
	f := newPublishFixture(t)
	f.seedSubCountyRound()

	_, err := f.publish.Publish(context.Background(), adminID, models.LevelCounty)
	assert.ErrorIs(t, err, ErrNothingToPublish)
}

func TestPublish_OutsideJurisdiction(t *testing.T) {
	f := newPublishFixture(t)
	f.seedSubCountyRound()
	county := "Mombasa"
	f.users.put(models.User{
		ID:          30,
		Email:       "mombasa@fair.test",
		Roles:       []models.UserRole{models.RoleCountyAdmin},
		CurrentRole: models.RoleCountyAdmin,
		County:      &county,
	})

	// All seeded projects are in Kisumu, so a Mombasa county admin has
	// nothing to publish.
	_, err := f.publish.Publish(context.Background(), 30, models.LevelSubCounty)
	assert.ErrorIs(t, err, ErrNothingToPublish)
}

func TestPublish_RequiresAdminRole(t *testing.T) {
	f := newPublishFixture(t)
	f.seedSubCountyRound()

	_, err := f.publish.Publish(context.Background(), 11, models.LevelSubCounty)
	assert.ErrorIs(t, err, ErrAdminRoleRequired)
}

func TestPublish_NationalCompletesEdition(t *testing.T) {
	f := newPublishFixture(t)
	ctx := context.Background()
	for id := 1; id <= 2; id++ {
		f.addProject(id, models.LevelNational)
		f.fullyJudge(id, 40+float64(id), 40, models.LevelNational)
	}

	result, err := f.publish.Publish(ctx, adminID, models.LevelNational)
	require.NoError(t, err)

	// National has no next level: winners stay at National.
	assert.Nil(t, result.NextLevel)
	assert.Len(t, result.Promoted, 2)
	for _, p := range result.Promoted {
		assert.Equal(t, models.LevelNational, p.CurrentLevel)
	}

	completed, err := f.settings.EditionCompleted(ctx, 1)
	require.NoError(t, err)
	assert.True(t, completed)

	// A completed edition accepts no further publishes.
	_, err = f.publish.Publish(ctx, adminID, models.LevelNational)
	assert.ErrorIs(t, err, ErrLevelAlreadyCompleted)
}

func TestRollback_RestoresThePublishedRound(t *testing.T) {
	f := newPublishFixture(t)
	f.seedSubCountyRound()
	ctx := context.Background()

	_, err := f.publish.Publish(ctx, adminID, models.LevelSubCounty)
	require.NoError(t, err)

	result, err := f.publish.Rollback(ctx, adminID, models.LevelSubCounty)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
	assert.Len(t, result.Restored, 5)

	for id := 1; id <= 5; id++ {
		p, err := f.projects.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.LevelSubCounty, p.CurrentLevel, "project %d should be back at sub-county", id)
		assert.False(t, p.IsEliminated)
	}

	assignments, err := f.assignments.ListByEdition(ctx, 1)
	require.NoError(t, err)
	for _, a := range assignments {
		assert.False(t, a.IsArchived)
	}

	coordinator, err := f.users.GetByID(ctx, coordinatorID)
	require.NoError(t, err)
	assert.True(t, coordinator.HasRole(models.RoleCoordinator))
	assert.Equal(t, models.RoleCoordinator, coordinator.CurrentRole)
	require.NotNil(t, coordinator.CoordinatedCategory)
	assert.Equal(t, "Physics", *coordinator.CoordinatedCategory)

	// The consumed snapshot is gone; a second rollback only warns.
	second, err := f.publish.Rollback(ctx, adminID, models.LevelSubCounty)
	require.NoError(t, err)
	assert.NotEmpty(t, second.Warnings)
}

func TestRollback_MissingSnapshotIsAWarning(t *testing.T) {
	f := newPublishFixture(t)
	f.addProject(1, models.LevelSubCounty)

	result, err := f.publish.Rollback(context.Background(), adminID, models.LevelSubCounty)
	require.NoError(t, err)
	assert.Contains(t, result.Warnings[0], "no role snapshot")
}

func TestRollback_NationalClearsCompletedFlag(t *testing.T) {
	f := newPublishFixture(t)
	ctx := context.Background()
	f.addProject(1, models.LevelNational)
	f.fullyJudge(1, 40, 40, models.LevelNational)

	_, err := f.publish.Publish(ctx, adminID, models.LevelNational)
	require.NoError(t, err)

	_, err = f.publish.Rollback(ctx, adminID, models.LevelNational)
	require.NoError(t, err)

	completed, err := f.settings.EditionCompleted(ctx, 1)
	require.NoError(t, err)
	assert.False(t, completed)
}

func TestCanRollback(t *testing.T) {
	f := newPublishFixture(t)
	f.seedSubCountyRound()
	ctx := context.Background()

	_, err := f.publish.Publish(ctx, adminID, models.LevelSubCounty)
	require.NoError(t, err)

	ok, err := f.publish.CanRollback(ctx, models.LevelSubCounty)
	require.NoError(t, err)
	assert.True(t, ok, "no judging at county yet")

	// Judging starts at the next level.
	f.addScore(1, 11, models.SectionPartA, 50, models.LevelCounty)

	ok, err = f.publish.CanRollback(ctx, models.LevelSubCounty)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = f.publish.CanRollback(ctx, models.LevelNational)
	require.NoError(t, err)
	assert.True(t, ok, "national is always eligible")
}

func TestPublish_BroadcastsAndAudits(t *testing.T) {
	f := newPublishFixture(t)
	f.seedSubCountyRound()

	_, err := f.publish.Publish(context.Background(), adminID, models.LevelSubCounty)
	require.NoError(t, err)

	require.Len(t, f.hub.messages, 1)
	assert.Equal(t, models.LevelSubCounty, f.hub.messages[0].Level)
	require.Len(t, f.audit.entries, 1)
	assert.Equal(t, "national", f.audit.entries[0].Scope)
}
