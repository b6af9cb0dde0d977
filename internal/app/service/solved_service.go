package service

import (
	"context"
	"fmt"

	"algorace/internal/common"
	"algorace/internal/domain/model"
	"algorace/internal/domain/repository"
)

type SolvedService struct {
	solvedRepo  repository.SolvedRepository
	problemRepo repository.ProblemRepository
}

func NewSolvedService(solvedRepo repository.SolvedRepository, problemRepo repository.ProblemRepository) *SolvedService {
	return &SolvedService{solvedRepo: solvedRepo, problemRepo: problemRepo}
}

type ToggleResponse struct {
	ProblemID   string `json:"problem_id"`
	Solved      bool   `json:"solved"`
	SolvedCount int    `json:"solved_count"`
}

// Toggle flips the caller's solved marker for the problem and returns the new
// state along with a fresh count, so clients need no second read after a toggle.
func (s *SolvedService) Toggle(ctx context.Context, userID, problemID string) (*ToggleResponse, error) {
	problem, err := s.problemRepo.FindByID(ctx, problemID)
	if err != nil {
		return nil, fmt.Errorf("problem not found: %w", err)
	}

	marker := &model.SolvedMarker{
		UserID:      userID,
		ProblemID:   problem.ID,
		ProblemName: problem.Name,
	}
	solved, err := s.solvedRepo.Toggle(ctx, marker)
	if err != nil {
		return nil, common.Errorf("failed to toggle solved marker: %w", err)
	}

	count, err := s.solvedRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, common.Errorf("failed to count solved markers: %w", err)
	}

	return &ToggleResponse{ProblemID: problem.ID, Solved: solved, SolvedCount: count}, nil
}

func (s *SolvedService) ListMine(ctx context.Context, userID string) ([]model.SolvedMarker, error) {
	return s.solvedRepo.ListByUser(ctx, userID)
}

func (s *SolvedService) Count(ctx context.Context, userID string) (int, error) {
	return s.solvedRepo.CountByUser(ctx, userID)
}
