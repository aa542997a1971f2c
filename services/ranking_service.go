package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Omondi01/sciencefair-system/models"
	"github.com/Omondi01/sciencefair-system/repositories"
	"github.com/Omondi01/sciencefair-system/scoring"
)

// RankingService loads edition snapshots and exposes the pure scoring
// engine over them. It never mutates anything: callers re-invoke it
// whenever they need fresh numbers, because archival state changes the
// selector's output after every publish or rollback.
type RankingService struct {
	editionRepo    repositories.EditionRepository
	projectRepo    repositories.ProjectRepository
	assignmentRepo repositories.AssignmentRepository
	userRepo       repositories.UserRepository
}

func NewRankingService(
	editionRepo repositories.EditionRepository,
	projectRepo repositories.ProjectRepository,
	assignmentRepo repositories.AssignmentRepository,
	userRepo repositories.UserRepository,
) *RankingService {
	return &RankingService{
		editionRepo:    editionRepo,
		projectRepo:    projectRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
	}
}

// LoadSnapshot reads all assignments, projects and users for the edition
// in parallel and builds the engine's read model.
func (s *RankingService) LoadSnapshot(ctx context.Context, editionID int) (*scoring.Snapshot, error) {
	var (
		assignments []models.JudgeAssignment
		projects    []models.Project
		users       []models.User
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if assignments, err = s.assignmentRepo.ListByEdition(gCtx, editionID); err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if projects, err = s.projectRepo.ListByEdition(gCtx, editionID); err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if users, err = s.userRepo.List(gCtx); err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return scoring.NewSnapshot(assignments, projects, users), nil
}

// GetRankings computes the full leaderboard for the level over the
// active edition's surviving projects at that level.
func (s *RankingService) GetRankings(ctx context.Context, level models.CompetitionLevel) (*scoring.RankingData, error) {
	edition, err := s.activeEdition(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.LoadSnapshot(ctx, edition.ID)
	if err != nil {
		return nil, err
	}

	var inScope []models.Project
	for _, p := range snap.Projects {
		if p.CurrentLevel == level && !p.IsEliminated {
			inScope = append(inScope, p)
		}
	}

	data := scoring.Rank(snap, inScope, level)
	return &data, nil
}

// GetProjectScore returns the aggregated score of one project at a
// level, including the Part B / Part C breakdown when available.
func (s *RankingService) GetProjectScore(ctx context.Context, projectID int, level models.CompetitionLevel) (*scoring.ProjectScoreBreakdown, error) {
	edition, err := s.activeEdition(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		if errors.Is(err, repositories.ErrProjectNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	snap, err := s.LoadSnapshot(ctx, edition.ID)
	if err != nil {
		return nil, err
	}

	result := snap.ComputeScoresWithBreakdown(projectID, level)
	return &result, nil
}

// ArbitrationItem is one entry of the coordinators' work queue.
type ArbitrationItem struct {
	Project models.Project       `json:"project"`
	Score   scoring.ProjectScore `json:"score"`
}

// ListArbitrationQueue returns the projects awaiting a coordinator
// tie-break at the overall highest level, optionally filtered to one
// category.
func (s *RankingService) ListArbitrationQueue(ctx context.Context, category string) ([]ArbitrationItem, error) {
	edition, err := s.activeEdition(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.LoadSnapshot(ctx, edition.ID)
	if err != nil {
		return nil, err
	}

	level := snap.OverallHighestLevel()
	queue := make([]ArbitrationItem, 0)
	for _, p := range snap.Projects {
		if p.IsEliminated || p.CurrentLevel != level {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		score := snap.ComputeScores(p.ID, level)
		if score.NeedsArbitration {
			queue = append(queue, ArbitrationItem{Project: p, Score: score})
		}
	}
	return queue, nil
}

func (s *RankingService) activeEdition(ctx context.Context) (*models.Edition, error) {
	edition, err := s.editionRepo.GetActive(ctx)
	if err != nil {
		if errors.Is(err, repositories.ErrNoActiveEdition) {
			return nil, ErrNoActiveEdition
		}
		return nil, err
	}
	return edition, nil
}
