package service

import (
	"context"
	"fmt"

	"algorace/internal/common"
	"algorace/internal/domain/model"
	"algorace/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	return s.userRepo.FindByID(ctx, userID)
}

type UpdateSettingsRequest struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

func (s *UserService) UpdateSettings(ctx context.Context, userID string, req UpdateSettingsRequest) (*model.UserProfile, error) {
	if req.Theme != model.ThemeLight && req.Theme != model.ThemeDark {
		return nil, fmt.Errorf("unknown theme %q: %w", req.Theme, common.ErrValidation)
	}
	if err := s.userRepo.UpdateSettings(ctx, userID, req.Theme, req.Notifications); err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	return s.userRepo.FindByID(ctx, userID)
}

func (s *UserService) ListAll(ctx context.Context) ([]model.UserProfile, error) {
	return s.userRepo.ListAll(ctx)
}

func (s *UserService) UpdateRole(ctx context.Context, userID, role string) error {
	if role != model.RoleAdmin && role != model.RoleParticipant {
		return fmt.Errorf("unknown role %q: %w", role, common.ErrValidation)
	}
	return s.userRepo.UpdateRole(ctx, userID, role)
}
