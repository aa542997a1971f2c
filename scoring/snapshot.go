// Package scoring implements the competition scoring engine: selecting
// the authoritative judge assignments for a project, aggregating them
// into section scores, and ranking scored projects into category and
// entity leaderboards. Everything in this package is a pure computation
// over an in-memory snapshot; persistence and side effects stay in the
// service layer.
package scoring

import (
	"github.com/Omondi01/sciencefair-system/models"
)

// Snapshot is the read model the engine operates on: all assignments,
// projects and the coordinator id set for one edition, loaded once at
// the start of a ranking or publish call.
type Snapshot struct {
	Assignments    []models.JudgeAssignment
	Projects       []models.Project
	CoordinatorIDs map[int]struct{}

	highest      models.CompetitionLevel
	highestKnown bool
}

// NewSnapshot builds a snapshot from freshly listed records. The
// coordinator set is precomputed from the users' persisted roles.
func NewSnapshot(assignments []models.JudgeAssignment, projects []models.Project, users []models.User) *Snapshot {
	coordinators := make(map[int]struct{})
	for i := range users {
		if users[i].HasRole(models.RoleCoordinator) {
			coordinators[users[i].ID] = struct{}{}
		}
	}
	return &Snapshot{
		Assignments:    assignments,
		Projects:       projects,
		CoordinatorIDs: coordinators,
	}
}

// OverallHighestLevel returns the highest level at which any
// non-eliminated project currently sits. An edition with no surviving
// projects reports Sub-County.
func (s *Snapshot) OverallHighestLevel() models.CompetitionLevel {
	if s.highestKnown {
		return s.highest
	}
	highest := models.LevelSubCounty
	for i := range s.Projects {
		p := &s.Projects[i]
		if p.IsEliminated {
			continue
		}
		if models.LevelRank(p.CurrentLevel) > models.LevelRank(highest) {
			highest = p.CurrentLevel
		}
	}
	s.highest = highest
	s.highestKnown = true
	return highest
}

// IsCoordinator reports whether the judge belongs to the precomputed
// coordinator set.
func (s *Snapshot) IsCoordinator(judgeID int) bool {
	_, ok := s.CoordinatorIDs[judgeID]
	return ok
}

// IsActingCoordinator reports whether the judge acted as coordinator
// within the given assignment batch: holding assignments for both
// sections of at least one project. Coordinator-ness for a round is
// always derived this way at evaluation time, never read back from a
// stored flag.
func IsActingCoordinator(judgeID int, batch []models.JudgeAssignment) bool {
	type sections struct{ a, bc bool }
	byProject := make(map[int]*sections)
	for i := range batch {
		as := &batch[i]
		if as.JudgeID != judgeID {
			continue
		}
		sec, ok := byProject[as.ProjectID]
		if !ok {
			sec = &sections{}
			byProject[as.ProjectID] = sec
		}
		switch as.Section {
		case models.SectionPartA:
			sec.a = true
		case models.SectionPartBC:
			sec.bc = true
		}
		if sec.a && sec.bc {
			return true
		}
	}
	return false
}

// projectByID returns the snapshot's project with the given id, or nil.
func (s *Snapshot) projectByID(id int) *models.Project {
	for i := range s.Projects {
		if s.Projects[i].ID == id {
			return &s.Projects[i]
		}
	}
	return nil
}
