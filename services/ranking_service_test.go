package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Omondi01/sciencefair-system/models"
)

func TestGetRankings_OnlySurvivingProjectsAtLevel(t *testing.T) {
	f := newPublishFixture(t)
	f.seedSubCountyRound()
	ctx := context.Background()

	ranking := NewRankingService(f.editions, f.projects, f.assignments, f.users)

	data, err := ranking.GetRankings(ctx, models.LevelSubCounty)
	require.NoError(t, err)
	require.Contains(t, data.Categories, "Physics")
	assert.Len(t, data.Categories["Physics"], 5)

	_, err = f.publish.Publish(ctx, adminID, models.LevelSubCounty)
	require.NoError(t, err)

	// Promotion moved the top four to County and eliminated the rest, so
	// nothing ranks at Sub-County any more.
	data, err = ranking.GetRankings(ctx, models.LevelSubCounty)
	require.NoError(t, err)
	assert.Empty(t, data.Categories, "eliminated and promoted projects no longer rank at sub-county")
}

func TestGetProjectScore_NotFound(t *testing.T) {
	f := newPublishFixture(t)
	ranking := NewRankingService(f.editions, f.projects, f.assignments, f.users)

	_, err := ranking.GetProjectScore(context.Background(), 404, models.LevelSubCounty)
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestListArbitrationQueue(t *testing.T) {
	f := newPublishFixture(t)
	ctx := context.Background()

	// Project 1: Part A judges disagree by 10 with no coordinator score.
	f.addProject(1, models.LevelSubCounty)
	f.addScore(1, 11, models.SectionPartA, 50, models.LevelSubCounty)
	f.addScore(1, 12, models.SectionPartA, 60, models.LevelSubCounty)
	f.addScore(1, 13, models.SectionPartBC, 40, models.LevelSubCounty)
	f.addScore(1, 14, models.SectionPartBC, 40, models.LevelSubCounty)

	// Project 2: everyone agrees.
	f.addProject(2, models.LevelSubCounty)
	f.fullyJudge(2, 45, 45, models.LevelSubCounty)

	ranking := NewRankingService(f.editions, f.projects, f.assignments, f.users)

	queue, err := ranking.ListArbitrationQueue(ctx, "")
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, 1, queue[0].Project.ID)
	assert.True(t, queue[0].Score.NeedsArbitration)

	// A coordinator score on the contested section settles it.
	f.addScore(1, coordinatorID, models.SectionPartA, 52, models.LevelSubCounty)

	queue, err = ranking.ListArbitrationQueue(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestListArbitrationQueue_CategoryFilter(t *testing.T) {
	f := newPublishFixture(t)
	f.addProject(1, models.LevelSubCounty)
	f.addScore(1, 11, models.SectionPartA, 50, models.LevelSubCounty)
	f.addScore(1, 12, models.SectionPartA, 60, models.LevelSubCounty)

	ranking := NewRankingService(f.editions, f.projects, f.assignments, f.users)

	queue, err := ranking.ListArbitrationQueue(context.Background(), "Chemistry")
	require.NoError(t, err)
	assert.Empty(t, queue)
}
