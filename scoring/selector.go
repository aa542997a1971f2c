package scoring

import (
	"math"
	"sort"

	"github.com/Omondi01/sciencefair-system/models"
)

// DisagreementThreshold is the score gap between two regular judges that
// triggers coordinator arbitration for a section.
const DisagreementThreshold = 5.0

// SelectFinalAssignments determines which judge assignments are
// authoritative for scoring one section of a project at a level.
//
// The default policy is a two-judge average. When the two judges
// disagree by DisagreementThreshold or more, a completed coordinator
// score resolves the dispute: the coordinator pairs with the judge whose
// score matches or sits closer to its own. If both judges are equally
// close, all three scores count. Disagreement with no coordinator score
// yet returns nothing: arbitration is pending and the project is not
// fully judged.
//
// A completed coordinator review is never silently dropped: with one or
// zero regular judges it always participates.
func (s *Snapshot) SelectFinalAssignments(projectID int, section models.Section, level models.CompetitionLevel) []models.JudgeAssignment {
	archived := s.useArchived(projectID, level)

	var regulars []models.JudgeAssignment
	var coordinator *models.JudgeAssignment
	for i := range s.Assignments {
		a := &s.Assignments[i]
		if a.ProjectID != projectID || a.Level != level || a.Section != section {
			continue
		}
		if a.IsArchived != archived || !a.Completed() {
			continue
		}
		if s.IsCoordinator(a.JudgeID) {
			if coordinator == nil {
				coordinator = a
			}
			continue
		}
		regulars = append(regulars, *a)
	}

	sort.SliceStable(regulars, func(i, j int) bool {
		return *regulars[i].Score < *regulars[j].Score
	})

	switch {
	case len(regulars) >= 2:
		first, second := regulars[0], regulars[1]
		diff := math.Abs(*first.Score - *second.Score)
		if diff < DisagreementThreshold {
			return []models.JudgeAssignment{first, second}
		}
		if coordinator == nil {
			// Arbitration pending.
			return nil
		}
		coordScore := *coordinator.Score
		if coordScore == *first.Score {
			return []models.JudgeAssignment{*coordinator, first}
		}
		if coordScore == *second.Score {
			return []models.JudgeAssignment{*coordinator, second}
		}
		distFirst := math.Abs(coordScore - *first.Score)
		distSecond := math.Abs(coordScore - *second.Score)
		switch {
		case distFirst < distSecond:
			return []models.JudgeAssignment{*coordinator, first}
		case distSecond < distFirst:
			return []models.JudgeAssignment{*coordinator, second}
		default:
			// Equidistant: the dispute stays unresolved, average all three.
			return []models.JudgeAssignment{first, second, *coordinator}
		}

	case len(regulars) == 1 && coordinator != nil:
		return []models.JudgeAssignment{regulars[0], *coordinator}

	case len(regulars) == 0 && coordinator != nil:
		return []models.JudgeAssignment{*coordinator}

	default:
		// A single uncorroborated judge score does not count.
		return nil
	}
}

// useArchived decides whether the archived or the live assignment set is
// authoritative for (project, level). Levels strictly below the overall
// highest level are always read from the archive. The highest level
// itself reads from the archive only once every assignment recorded for
// the project at that level has been archived, i.e. its results were
// published but no project has advanced past it yet.
func (s *Snapshot) useArchived(projectID int, level models.CompetitionLevel) bool {
	highest := s.OverallHighestLevel()
	if models.LevelRank(level) < models.LevelRank(highest) {
		return true
	}
	if level != highest {
		return false
	}
	seen := false
	for i := range s.Assignments {
		a := &s.Assignments[i]
		if a.ProjectID != projectID || a.Level != level {
			continue
		}
		if !a.IsArchived {
			return false
		}
		seen = true
	}
	return seen
}
