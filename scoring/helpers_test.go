package scoring

import (
	"github.com/Omondi01/sciencefair-system/models"
)

// Test fixture vocabulary shared by the scoring tests. Judge 99 and 98
// are coordinators; everyone else is a regular judge.

const (
	coordinatorID      = 99
	otherCoordinatorID = 98
)

var testUsers = []models.User{
	{ID: 1, Roles: []models.UserRole{models.RoleJudge}},
	{ID: 2, Roles: []models.UserRole{models.RoleJudge}},
	{ID: 3, Roles: []models.UserRole{models.RoleJudge}},
	{ID: coordinatorID, Roles: []models.UserRole{models.RoleJudge, models.RoleCoordinator}},
	{ID: otherCoordinatorID, Roles: []models.UserRole{models.RoleJudge, models.RoleCoordinator}},
}

type assignmentOpt func(*models.JudgeAssignment)

func archived() assignmentOpt {
	return func(a *models.JudgeAssignment) { a.IsArchived = true }
}

func withStatus(status models.AssignmentStatus) assignmentOpt {
	return func(a *models.JudgeAssignment) { a.Status = status }
}

func withBreakdown(breakdown map[string]float64) assignmentOpt {
	return func(a *models.JudgeAssignment) { a.ScoreBreakdown = breakdown }
}

func completed(projectID, judgeID int, section models.Section, score float64, level models.CompetitionLevel, opts ...assignmentOpt) models.JudgeAssignment {
	a := models.JudgeAssignment{
		ProjectID: projectID,
		JudgeID:   judgeID,
		Section:   section,
		Status:    models.StatusCompleted,
		Score:     &score,
		Level:     level,
		EditionID: 1,
	}
	for _, opt := range opts {
		opt(&a)
	}
	return a
}

func project(id int, category string, level models.CompetitionLevel) models.Project {
	return models.Project{
		ID:           id,
		Title:        "Project",
		Category:     category,
		Region:       "Nyanza",
		County:       "Kisumu",
		SubCounty:    "Kisumu East",
		Zone:         "Kajulu",
		School:       "Obambo Secondary",
		CurrentLevel: level,
		EditionID:    1,
	}
}

// fullyJudged returns two agreeing regular-judge assignments per section,
// giving the project scoreA and scoreBC exactly.
func fullyJudged(projectID int, level models.CompetitionLevel, scoreA, scoreBC float64) []models.JudgeAssignment {
	return []models.JudgeAssignment{
		completed(projectID, 1, models.SectionPartA, scoreA, level),
		completed(projectID, 2, models.SectionPartA, scoreA, level),
		completed(projectID, 1, models.SectionPartBC, scoreBC, level),
		completed(projectID, 2, models.SectionPartBC, scoreBC, level),
	}
}

func snapshotOf(assignments []models.JudgeAssignment, projects ...models.Project) *Snapshot {
	return NewSnapshot(assignments, projects, testUsers)
}
