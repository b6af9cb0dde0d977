package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"algorace/internal/api/middleware"
	"algorace/internal/app/service"
	"algorace/internal/common"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Get("/cumulative", h.cumulative)
	r.Get("/calendar", h.calendar)
	r.Get("/progress", h.progress)
}

func (h *StatsHandler) cumulative(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Cumulative(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *StatsHandler) calendar(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	dates, err := h.statsService.Calendar(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string][]string{"activity_dates": dates})
}

func (h *StatsHandler) progress(w http.ResponseWriter, r *http.Request) {
	series, err := h.statsService.Progress(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, series)
}
