package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"algorace/internal/api/middleware"
	"algorace/internal/app/service"
	"algorace/internal/common"
)

type ProblemHandler struct {
	problemService *service.ProblemService
	solvedService  *service.SolvedService
}

func NewProblemHandler(problemService *service.ProblemService, solvedService *service.SolvedService) *ProblemHandler {
	return &ProblemHandler{problemService: problemService, solvedService: solvedService}
}

func (h *ProblemHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/", h.list)
		authed.Get("/{id}", h.get)
		authed.Post("/{id}/toggle", h.toggle)

		authed.Group(func(admin chi.Router) {
			admin.Use(middleware.AdminOnly)
			admin.Post("/", h.post)
		})
	})
}

func (h *ProblemHandler) list(w http.ResponseWriter, r *http.Request) {
	problems, err := h.problemService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problems)
}

func (h *ProblemHandler) get(w http.ResponseWriter, r *http.Request) {
	problem, err := h.problemService.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, problem)
}

func (h *ProblemHandler) post(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var req service.PostProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	problem, err := h.problemService.Post(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, problem)
}

func (h *ProblemHandler) toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	resp, err := h.solvedService.Toggle(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}
