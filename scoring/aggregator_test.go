package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Omondi01/sciencefair-system/models"
)

func TestComputeScores(t *testing.T) {
	level := models.LevelSubCounty

	t.Run("averages both sections into a total", func(t *testing.T) {
		assignments := []models.JudgeAssignment{
			completed(1, 1, models.SectionPartA, 70, level),
			completed(1, 2, models.SectionPartA, 74, level),
			completed(1, 1, models.SectionPartBC, 60, level),
			completed(1, 2, models.SectionPartBC, 62, level),
		}
		snap := snapshotOf(assignments, project(1, "Physics", level))

		score := snap.ComputeScores(1, level)
		require.NotNil(t, score.ScoreA)
		require.NotNil(t, score.ScoreBC)
		assert.Equal(t, 72.0, *score.ScoreA)
		assert.Equal(t, 61.0, *score.ScoreBC)
		assert.Equal(t, 133.0, score.Total)
		assert.True(t, score.IsFullyJudged)
		assert.False(t, score.NeedsArbitration)
	})

	t.Run("one unjudged section leaves the project partially judged", func(t *testing.T) {
		assignments := []models.JudgeAssignment{
			completed(1, 1, models.SectionPartBC, 60, level),
			completed(1, 2, models.SectionPartBC, 62, level),
		}
		snap := snapshotOf(assignments, project(1, "Physics", level))

		score := snap.ComputeScores(1, level)
		assert.Nil(t, score.ScoreA)
		require.NotNil(t, score.ScoreBC)
		assert.Equal(t, 61.0, score.Total)
		assert.False(t, score.IsFullyJudged)
	})

	t.Run("unresolved three-way arbitration averages all scores", func(t *testing.T) {
		assignments := []models.JudgeAssignment{
			completed(1, 1, models.SectionPartA, 60, level),
			completed(1, 2, models.SectionPartA, 70, level),
			completed(1, coordinatorID, models.SectionPartA, 65, level),
		}
		snap := snapshotOf(assignments, project(1, "Physics", level))

		score := snap.ComputeScores(1, level)
		require.NotNil(t, score.ScoreA)
		assert.Equal(t, 65.0, *score.ScoreA)
	})
}

func TestNeedsArbitration(t *testing.T) {
	level := models.LevelSubCounty

	tests := []struct {
		name        string
		assignments []models.JudgeAssignment
		want        bool
	}{
		{
			name: "single judge never needs arbitration",
			assignments: []models.JudgeAssignment{
				completed(1, 1, models.SectionPartA, 60, level),
			},
			want: false,
		},
		{
			name: "two judges within the threshold",
			assignments: []models.JudgeAssignment{
				completed(1, 1, models.SectionPartA, 60, level),
				completed(1, 2, models.SectionPartA, 64.5, level),
			},
			want: false,
		},
		{
			name: "two judges at the threshold with no coordinator",
			assignments: []models.JudgeAssignment{
				completed(1, 1, models.SectionPartA, 60, level),
				completed(1, 2, models.SectionPartA, 65, level),
			},
			want: true,
		},
		{
			name: "disagreement on the combined section",
			assignments: []models.JudgeAssignment{
				completed(1, 1, models.SectionPartBC, 40, level),
				completed(1, 2, models.SectionPartBC, 55, level),
			},
			want: true,
		},
		{
			name: "a completed coordinator score clears the flag",
			assignments: []models.JudgeAssignment{
				completed(1, 1, models.SectionPartA, 60, level),
				completed(1, 2, models.SectionPartA, 70, level),
				completed(1, coordinatorID, models.SectionPartA, 66, level),
			},
			want: false,
		},
		{
			name: "archived disagreement is history, not a queue item",
			assignments: []models.JudgeAssignment{
				completed(1, 1, models.SectionPartA, 60, level, archived()),
				completed(1, 2, models.SectionPartA, 70, level, archived()),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := snapshotOf(tt.assignments, project(1, "Physics", level))
			assert.Equal(t, tt.want, snap.ComputeScores(1, level).NeedsArbitration)
		})
	}
}

func TestComputeScoresWithBreakdown(t *testing.T) {
	level := models.LevelSubCounty

	t.Run("standard rubric splits oral criteria into Part B", func(t *testing.T) {
		breakdown := map[string]float64{
			"oral_presentation":    10,
			"communication":        8,
			"knowledge_of_project": 7,
			"scientific_thought":   20,
			"methodology":          15,
		}
		assignments := []models.JudgeAssignment{
			completed(1, 1, models.SectionPartA, 70, level),
			completed(1, 2, models.SectionPartA, 72, level),
			completed(1, 1, models.SectionPartBC, 60, level, withBreakdown(breakdown)),
			completed(1, 2, models.SectionPartBC, 60, level, withBreakdown(breakdown)),
		}
		snap := snapshotOf(assignments, project(1, "Physics", level))

		result := snap.ComputeScoresWithBreakdown(1, level)
		require.True(t, result.IsFullyJudged)
		require.NotNil(t, result.ScoreB)
		require.NotNil(t, result.ScoreC)
		assert.Equal(t, 25.0, *result.ScoreB)
		assert.Equal(t, 35.0, *result.ScoreC)
	})

	t.Run("robotics category uses its own partition", func(t *testing.T) {
		breakdown := map[string]float64{
			"robot_design":       12,
			"demonstration":      10,
			"team_interaction":   8,
			"scientific_thought": 25,
		}
		assignments := []models.JudgeAssignment{
			completed(1, 1, models.SectionPartA, 70, level),
			completed(1, 2, models.SectionPartA, 72, level),
			completed(1, 1, models.SectionPartBC, 55, level, withBreakdown(breakdown)),
			completed(1, 2, models.SectionPartBC, 55, level, withBreakdown(breakdown)),
		}
		snap := snapshotOf(assignments, project(1, RoboticsCategory, level))

		result := snap.ComputeScoresWithBreakdown(1, level)
		require.NotNil(t, result.ScoreB)
		require.NotNil(t, result.ScoreC)
		assert.Equal(t, 30.0, *result.ScoreB)
		assert.Equal(t, 25.0, *result.ScoreC)
	})

	t.Run("partially judged projects get no breakdown", func(t *testing.T) {
		assignments := []models.JudgeAssignment{
			completed(1, 1, models.SectionPartBC, 60, level),
			completed(1, 2, models.SectionPartBC, 62, level),
		}
		snap := snapshotOf(assignments, project(1, "Physics", level))

		result := snap.ComputeScoresWithBreakdown(1, level)
		assert.False(t, result.IsFullyJudged)
		assert.Nil(t, result.ScoreB)
		assert.Nil(t, result.ScoreC)
	})
}
