package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"algorace/internal/app/service"
	"algorace/internal/common"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/session", h.establishSession)
	r.Post("/auth/signout", h.signOut)
}

func (h *AuthHandler) establishSession(w http.ResponseWriter, r *http.Request) {
	var req service.SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	resp, err := h.authService.EstablishSession(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

// Sessions are stateless; sign-out is an acknowledgment and the token simply
// expires.
func (h *AuthHandler) signOut(w http.ResponseWriter, r *http.Request) {
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
