package scoring

import (
	"math"
	"sort"

	"github.com/Omondi01/sciencefair-system/models"
)

// ProjectScore is the aggregated judging result for one project at one
// level. ScoreA and ScoreBC are nil until the corresponding section has
// an authoritative assignment set.
type ProjectScore struct {
	ProjectID int      `json:"project_id"`
	ScoreA    *float64 `json:"score_a"`
	ScoreBC   *float64 `json:"score_bc"`
	Total     float64  `json:"total_score"`

	// IsFullyJudged is true once both sections carry a score.
	IsFullyJudged bool `json:"is_fully_judged"`

	// NeedsArbitration is true while two regular judges disagree beyond
	// the threshold on either section and no coordinator has scored it
	// yet. It drives the coordinators' work queue and stays true until a
	// qualifying coordinator score lands.
	NeedsArbitration bool `json:"needs_arbitration"`
}

// ProjectScoreBreakdown extends ProjectScore with the Part B / Part C
// split of the combined section. The split is only available once the
// project is fully judged.
type ProjectScoreBreakdown struct {
	ProjectScore
	ScoreB *float64 `json:"score_b"`
	ScoreC *float64 `json:"score_c"`
}

// ComputeScores aggregates the authoritative assignments for both
// sections into section means and a total.
func (s *Snapshot) ComputeScores(projectID int, level models.CompetitionLevel) ProjectScore {
	scoreA := meanScore(s.SelectFinalAssignments(projectID, models.SectionPartA, level))
	scoreBC := meanScore(s.SelectFinalAssignments(projectID, models.SectionPartBC, level))

	total := 0.0
	if scoreA != nil {
		total += *scoreA
	}
	if scoreBC != nil {
		total += *scoreBC
	}

	return ProjectScore{
		ProjectID:        projectID,
		ScoreA:           scoreA,
		ScoreBC:          scoreBC,
		Total:            total,
		IsFullyJudged:    scoreA != nil && scoreBC != nil,
		NeedsArbitration: s.needsArbitration(projectID, level),
	}
}

// ComputeScoresWithBreakdown additionally splits the Part B & C score
// breakdown into Part B and Part C sub-totals, averaged over the
// authoritative assignments. The criterion partition depends on the
// project's category (the Robotics rubric differs from the standard one).
func (s *Snapshot) ComputeScoresWithBreakdown(projectID int, level models.CompetitionLevel) ProjectScoreBreakdown {
	result := ProjectScoreBreakdown{ProjectScore: s.ComputeScores(projectID, level)}
	if !result.IsFullyJudged {
		return result
	}

	partB := standardPartBCriteria
	if p := s.projectByID(projectID); p != nil && p.Category == RoboticsCategory {
		partB = roboticsPartBCriteria
	}

	selected := s.SelectFinalAssignments(projectID, models.SectionPartBC, level)
	if len(selected) == 0 {
		return result
	}

	var sumB, sumC float64
	for i := range selected {
		for criterion, awarded := range selected[i].ScoreBreakdown {
			if partB[criterion] {
				sumB += awarded
			} else {
				sumC += awarded
			}
		}
	}
	b := sumB / float64(len(selected))
	c := sumC / float64(len(selected))
	result.ScoreB = &b
	result.ScoreC = &c
	return result
}

// needsArbitration is evaluated over the live, non-archived assignments
// at the given level only, independent of which set the selector deems
// authoritative.
func (s *Snapshot) needsArbitration(projectID int, level models.CompetitionLevel) bool {
	for _, section := range []models.Section{models.SectionPartA, models.SectionPartBC} {
		var regulars []float64
		coordinatorDone := false
		for i := range s.Assignments {
			a := &s.Assignments[i]
			if a.ProjectID != projectID || a.Level != level || a.Section != section {
				continue
			}
			if a.IsArchived || !a.Completed() {
				continue
			}
			if s.IsCoordinator(a.JudgeID) {
				coordinatorDone = true
				continue
			}
			regulars = append(regulars, *a.Score)
		}
		if coordinatorDone || len(regulars) < 2 {
			continue
		}
		sort.Float64s(regulars)
		if math.Abs(regulars[0]-regulars[1]) >= DisagreementThreshold {
			return true
		}
	}
	return false
}

func meanScore(assignments []models.JudgeAssignment) *float64 {
	if len(assignments) == 0 {
		return nil
	}
	sum := 0.0
	for i := range assignments {
		sum += *assignments[i].Score
	}
	mean := sum / float64(len(assignments))
	return &mean
}
