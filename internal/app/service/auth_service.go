package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"algorace/internal/common"
	"algorace/internal/common/security"
	"algorace/internal/domain/model"
	"algorace/internal/domain/repository"
	"algorace/internal/platform/identity"
)

type AuthService struct {
	userRepo   repository.UserRepository
	verifier   identity.TokenVerifier
	adminEmail string
}

func NewAuthService(userRepo repository.UserRepository, verifier identity.TokenVerifier, adminEmail string) *AuthService {
	return &AuthService{userRepo: userRepo, verifier: verifier, adminEmail: adminEmail}
}

type SessionRequest struct {
	IDToken string `json:"id_token"`
}

type SessionResponse struct {
	User  *model.UserProfile `json:"user"`
	Token string             `json:"token"`
}

// EstablishSession exchanges a provider ID token for a session token. A
// UserProfile is created lazily on first sign-in; the role claim is resolved
// here and carried in the token, so later authorization checks never compare
// identity literals.
func (s *AuthService) EstablishSession(ctx context.Context, req SessionRequest) (*SessionResponse, error) {
	if req.IDToken == "" {
		return nil, common.ErrBadRequest
	}

	ident, err := s.verifier.Verify(ctx, req.IDToken)
	if err != nil {
		return nil, fmt.Errorf("identity verification failed: %w", common.ErrUnauthorized)
	}
	if ident.Email == "" {
		return nil, fmt.Errorf("identity has no email claim: %w", common.ErrUnauthorized)
	}

	user, err := s.userRepo.FindByID(ctx, ident.UID)
	switch {
	case err == nil:
		if role := s.resolveRole(user.Email); role == model.RoleAdmin && user.Role != model.RoleAdmin {
			if err := s.userRepo.UpdateRole(ctx, user.ID, model.RoleAdmin); err != nil {
				return nil, fmt.Errorf("failed to update role: %w", err)
			}
			user.Role = model.RoleAdmin
		}
	case errors.Is(err, common.ErrNotFound):
		user = s.newProfile(ident)
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("failed to create user profile: %w", err)
		}
		log.Printf("Created profile for %s (%s)", user.DisplayName, user.ID)
	default:
		return nil, fmt.Errorf("failed to look up user profile: %w", err)
	}

	token, err := security.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &SessionResponse{User: user, Token: token}, nil
}

func (s *AuthService) newProfile(ident *identity.Identity) *model.UserProfile {
	displayName := ident.DisplayName
	if displayName == "" {
		displayName = localPart(ident.Email)
	}
	return &model.UserProfile{
		ID:            ident.UID,
		Email:         ident.Email,
		DisplayName:   displayName,
		Role:          s.resolveRole(ident.Email),
		Theme:         model.ThemeLight,
		Notifications: true,
	}
}

func (s *AuthService) resolveRole(email string) string {
	if s.adminEmail != "" && email == s.adminEmail {
		return model.RoleAdmin
	}
	return model.RoleParticipant
}

func localPart(email string) string {
	return strings.SplitN(email, "@", 2)[0]
}
