package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"algorace/internal/domain/model"
)

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func requestWithRole(role string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/admin/endday", nil)
	ctx := context.WithValue(req.Context(), UserIDCtxKey, "uid-1")
	ctx = context.WithValue(ctx, UserRoleCtxKey, role)
	return req.WithContext(ctx)
}

func TestAdminOnlyAllowsAdminRole(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()

	AdminOnly(next).ServeHTTP(rec, requestWithRole(model.RoleAdmin))

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !*called {
		t.Error("expected handler to run for admin")
	}
}

func TestAdminOnlyRejectsParticipant(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()

	AdminOnly(next).ServeHTTP(rec, requestWithRole(model.RoleParticipant))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if *called {
		t.Error("expected handler not to run for participant")
	}
}

func TestAdminOnlyRejectsMissingRole(t *testing.T) {
	next, called := okHandler()
	rec := httptest.NewRecorder()

	AdminOnly(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/admin/endday", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
	if *called {
		t.Error("expected handler not to run without a role")
	}
}
