package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"algorace/internal/common"
	"algorace/internal/common/security"
	"algorace/internal/domain/model"
	"algorace/internal/platform/config"
	"algorace/internal/platform/identity"
)

type fakeVerifier struct {
	identities map[string]*identity.Identity
}

func (f *fakeVerifier) Verify(ctx context.Context, idToken string) (*identity.Identity, error) {
	if ident, ok := f.identities[idToken]; ok {
		return ident, nil
	}
	return nil, errors.New("invalid token")
}

func initTestJWT(t *testing.T) {
	t.Helper()
	config.AppConfig = &config.Config{
		JWTKey: []byte("test-secret"),
		JWTExp: time.Hour,
	}
	security.InitJWT()
}

func newAuthFixture(t *testing.T, adminEmail string) (*AuthService, *fakeUserRepo, *fakeVerifier) {
	initTestJWT(t)
	users := &fakeUserRepo{}
	verifier := &fakeVerifier{identities: map[string]*identity.Identity{}}
	return NewAuthService(users, verifier, adminEmail), users, verifier
}

func TestEstablishSessionCreatesProfileLazily(t *testing.T) {
	svc, users, verifier := newAuthFixture(t, "ganesh@example.com")
	verifier.identities["tok"] = &identity.Identity{
		UID: "uid-1", Email: "vaishnavi@example.com",
	}

	resp, err := svc.EstablishSession(context.Background(), SessionRequest{IDToken: "tok"})
	if err != nil {
		t.Fatalf("EstablishSession failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a session token")
	}
	if resp.User.DisplayName != "vaishnavi" {
		t.Errorf("expected display name from email local part, got %q", resp.User.DisplayName)
	}
	if resp.User.Role != model.RoleParticipant {
		t.Errorf("expected participant role, got %q", resp.User.Role)
	}
	if resp.User.Theme != model.ThemeLight || !resp.User.Notifications {
		t.Errorf("expected default settings, got theme=%q notifications=%v", resp.User.Theme, resp.User.Notifications)
	}
	if len(users.users) != 1 {
		t.Errorf("expected one stored profile, got %d", len(users.users))
	}
}

func TestEstablishSessionReusesExistingProfile(t *testing.T) {
	svc, users, verifier := newAuthFixture(t, "")
	verifier.identities["tok"] = &identity.Identity{
		UID: "uid-1", Email: "vaishnavi@example.com", DisplayName: "Vaishnavi",
	}

	if _, err := svc.EstablishSession(context.Background(), SessionRequest{IDToken: "tok"}); err != nil {
		t.Fatalf("first session failed: %v", err)
	}
	if _, err := svc.EstablishSession(context.Background(), SessionRequest{IDToken: "tok"}); err != nil {
		t.Fatalf("second session failed: %v", err)
	}
	if len(users.users) != 1 {
		t.Errorf("expected one stored profile after repeat sign-in, got %d", len(users.users))
	}
}

func TestEstablishSessionResolvesAdminRole(t *testing.T) {
	svc, _, verifier := newAuthFixture(t, "ganesh@example.com")
	verifier.identities["tok"] = &identity.Identity{
		UID: "uid-admin", Email: "ganesh@example.com", DisplayName: "Ganesh",
	}

	resp, err := svc.EstablishSession(context.Background(), SessionRequest{IDToken: "tok"})
	if err != nil {
		t.Fatalf("EstablishSession failed: %v", err)
	}
	if resp.User.Role != model.RoleAdmin {
		t.Errorf("expected admin role for configured email, got %q", resp.User.Role)
	}
}

func TestEstablishSessionUpgradesRoleForConfiguredAdmin(t *testing.T) {
	svc, users, verifier := newAuthFixture(t, "ganesh@example.com")
	users.users = []model.UserProfile{
		{ID: "uid-admin", Email: "ganesh@example.com", DisplayName: "Ganesh", Role: model.RoleParticipant},
	}
	verifier.identities["tok"] = &identity.Identity{
		UID: "uid-admin", Email: "ganesh@example.com",
	}

	resp, err := svc.EstablishSession(context.Background(), SessionRequest{IDToken: "tok"})
	if err != nil {
		t.Fatalf("EstablishSession failed: %v", err)
	}
	if resp.User.Role != model.RoleAdmin {
		t.Errorf("expected role upgraded to admin, got %q", resp.User.Role)
	}
}

func TestEstablishSessionRejectsBadToken(t *testing.T) {
	svc, _, _ := newAuthFixture(t, "")

	_, err := svc.EstablishSession(context.Background(), SessionRequest{IDToken: "garbage"})
	if !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	_, err = svc.EstablishSession(context.Background(), SessionRequest{})
	if !errors.Is(err, common.ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for empty token, got %v", err)
	}
}
