package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"algorace/internal/api/middleware"
	"algorace/internal/app/service"
	"algorace/internal/common"
)

type AdminHandler struct {
	userService  *service.UserService
	statsService *service.StatsService
}

func NewAdminHandler(userService *service.UserService, statsService *service.StatsService) *AdminHandler {
	return &AdminHandler{userService: userService, statsService: statsService}
}

func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Use(middleware.AdminOnly)
	r.Post("/endday", h.endDay)
	r.Post("/reset", h.reset)
	r.Get("/users", h.listUsers)
	r.Put("/users/{uid}/role", h.updateRole)
	r.Get("/overview", h.overview)
}

func (h *AdminHandler) endDay(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.EndDay(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) reset(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Reset(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListAll(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, users)
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (h *AdminHandler) updateRole(w http.ResponseWriter, r *http.Request) {
	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	if err := h.userService.UpdateRole(r.Context(), chi.URLParam(r, "uid"), req.Role); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "role updated"})
}

func (h *AdminHandler) overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.statsService.Overview(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, overview)
}
