package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"algorace/internal/catalog"
	"algorace/internal/common"
	"algorace/internal/domain/model"
	"algorace/internal/domain/repository"
)

type ProblemService struct {
	problemRepo repository.ProblemRepository
	userRepo    repository.UserRepository
}

func NewProblemService(problemRepo repository.ProblemRepository, userRepo repository.UserRepository) *ProblemService {
	return &ProblemService{problemRepo: problemRepo, userRepo: userRepo}
}

func (s *ProblemService) List(ctx context.Context) ([]model.Problem, error) {
	return s.problemRepo.List(ctx)
}

func (s *ProblemService) GetByID(ctx context.Context, id string) (*model.Problem, error) {
	return s.problemRepo.FindByID(ctx, id)
}

type PostProblemRequest struct {
	Name       string   `json:"problem_name"`
	URL        string   `json:"url"`
	DatePosted string   `json:"date_posted"`
	Difficulty string   `json:"difficulty"`
	Tags       []string `json:"tags"`
}

// Post writes a new catalog entry at runtime. The poster tag is the posting
// admin's display name.
func (s *ProblemService) Post(ctx context.Context, userID string, req PostProblemRequest) (*model.Problem, error) {
	if req.Name == "" || req.URL == "" {
		return nil, common.ErrBadRequest
	}
	if _, err := time.Parse(model.DateOnly, req.DatePosted); err != nil {
		return nil, fmt.Errorf("invalid date_posted %q: %w", req.DatePosted, common.ErrValidation)
	}
	switch model.ProblemDifficulty(req.Difficulty) {
	case "", model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return nil, fmt.Errorf("unknown difficulty %q: %w", req.Difficulty, common.ErrValidation)
	}

	poster, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find posting user: %w", err)
	}

	problem := &model.Problem{
		ID:         uuid.NewString(),
		Slug:       slug.Make(req.Name),
		Name:       req.Name,
		URL:        req.URL,
		DatePosted: req.DatePosted,
		PostedBy:   poster.DisplayName,
		Difficulty: model.ProblemDifficulty(req.Difficulty),
		Tags:       req.Tags,
	}

	if err := s.problemRepo.Create(ctx, problem); err != nil {
		return nil, fmt.Errorf("failed to create problem: %w", err)
	}
	return s.problemRepo.FindByID(ctx, problem.ID)
}

// SyncCatalog upserts the YAML seed entries into the database. Existing slugs
// are left untouched; the catalog file never mutates a posted problem.
func (s *ProblemService) SyncCatalog(ctx context.Context, loader *catalog.Loader) (int, error) {
	seeded := 0
	for _, problem := range loader.List() {
		inserted, err := s.problemRepo.Seed(ctx, problem)
		if err != nil {
			return seeded, fmt.Errorf("failed to seed problem %s: %w", problem.Slug, err)
		}
		if inserted {
			seeded++
		}
	}
	log.Printf("Catalog sync complete: %d new problems seeded", seeded)
	return seeded, nil
}
