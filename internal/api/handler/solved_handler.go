package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"algorace/internal/api/middleware"
	"algorace/internal/app/service"
	"algorace/internal/common"
)

type SolvedHandler struct {
	solvedService *service.SolvedService
}

func NewSolvedHandler(solvedService *service.SolvedService) *SolvedHandler {
	return &SolvedHandler{solvedService: solvedService}
}

func (h *SolvedHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/", h.listMine)
	r.Get("/count", h.count)
}

func (h *SolvedHandler) listMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	markers, err := h.solvedService.ListMine(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, markers)
}

func (h *SolvedHandler) count(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	count, err := h.solvedService.Count(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]int{"solved_count": count})
}
