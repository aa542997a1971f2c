package models

import "time"

// Section is a judged component of a project. Part A is the written
// report; Part B & C covers the oral presentation and scientific thought.
type Section string

const (
	SectionPartA  Section = "Part A"
	SectionPartBC Section = "Part B & C"
)

// ParseSection validates a section value received from the outside.
func ParseSection(s string) (Section, bool) {
	switch Section(s) {
	case SectionPartA, SectionPartBC:
		return Section(s), true
	}
	return "", false
}

// AssignmentStatus represents the judging progress of one assignment,
// corresponding to the ENUM in the database.
type AssignmentStatus string

const (
	StatusNotStarted    AssignmentStatus = "not_started"
	StatusInProgress    AssignmentStatus = "in_progress"
	StatusCompleted     AssignmentStatus = "completed"
	StatusReviewPending AssignmentStatus = "review_pending"
)

// JudgeAssignment records one judge's obligation to score one section of
// one project at one level, and the score once completed. At most one
// assignment exists per (project, judge, section, level, edition).
//
// Archived assignments are the immutable record of a published result;
// non-archived ones belong to the currently live judging round. Level
// never changes after creation.
type JudgeAssignment struct {
	ID        int              `json:"id"`
	ProjectID int              `json:"project_id"`
	JudgeID   int              `json:"judge_id"`
	Section   Section          `json:"assigned_section"`
	Status    AssignmentStatus `json:"status"`

	Score          *float64           `json:"score,omitempty"`
	ScoreBreakdown map[string]float64 `json:"score_breakdown,omitempty"`

	Comments        *string `json:"comments,omitempty"`
	Recommendations *string `json:"recommendations,omitempty"`

	IsArchived bool             `json:"is_archived"`
	Level      CompetitionLevel `json:"competition_level"`
	EditionID  int              `json:"edition_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Completed reports whether the assignment carries a usable score.
func (a *JudgeAssignment) Completed() bool {
	return a.Status == StatusCompleted && a.Score != nil
}
