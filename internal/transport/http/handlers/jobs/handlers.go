package jobshandler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/auth"
	"workforce/internal/platform/jobs"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *jobs.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *jobs.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermJobsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermJobsRead, h.Perms)).Get("/{jobID}", h.handleGet)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	validator := shared.NewValidator()
	page := validator.Page(r, 50, 200)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	runs, err := h.Service.List(r.Context(), user.TenantID, r.URL.Query().Get("type"), page.Limit, page.Offset)
	if err != nil {
		slog.Warn("job list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "job_list_failed", "failed to list jobs", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, runs, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	run, err := h.Service.Get(r.Context(), user.TenantID, chi.URLParam(r, "jobID"))
	if errors.Is(err, jobs.ErrJobNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "job not found", middleware.GetRequestID(r.Context()))
		return
	}
	if err != nil {
		slog.Warn("job fetch failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "job_fetch_failed", "failed to load job", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, run, middleware.GetRequestID(r.Context()))
}
