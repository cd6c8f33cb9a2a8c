package assessmentshandler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/assessments"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/clients"
	"workforce/internal/domain/kpi"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

// AuditRecorder is satisfied by audit.Service.
type AuditRecorder interface {
	Record(ctx context.Context, tenantID, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

type Handler struct {
	Service *assessments.Service
	Perms   middleware.PermissionStore
	Audit   AuditRecorder
}

func NewHandler(service *assessments.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/assessments", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAssessmentsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermAssessmentsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermAssessmentsRead, h.Perms)).Get("/{assessmentID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermAssessmentsWrite, h.Perms)).Put("/{assessmentID}/kpis/{code}", h.handleSaveKPIData)
		r.With(middleware.RequirePermission(auth.PermAssessmentsRead, h.Perms)).Get("/{assessmentID}/scores", h.handleScores)
		r.With(middleware.RequirePermission(auth.PermAssessmentsWrite, h.Perms)).Post("/{assessmentID}/complete", h.handleComplete)
		r.With(middleware.RequirePermission(auth.PermAssessmentsManage, h.Perms)).Post("/{assessmentID}/archive", h.handleArchive)
	})
}

var statusNames = []string{
	string(assessments.StatusInProgress),
	string(assessments.StatusCompleted),
	string(assessments.StatusArchived),
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	validator := shared.NewValidator()
	page := validator.Page(r, 50, 200)
	rawStatus := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	validator.Enum("status", rawStatus, statusNames, "must be one of "+strings.Join(statusNames, ", "))
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	filter := assessments.ListFilter{ClientID: r.URL.Query().Get("clientId")}
	if status, ok := assessments.ParseStatus(rawStatus); ok {
		filter.Status = status
	}

	items, err := h.Service.List(r.Context(), user.TenantID, filter, page.Limit, page.Offset)
	if err != nil {
		slog.Warn("assessment list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "assessment_list_failed", "failed to list assessments", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var payload struct {
		ClientID string `json:"clientId"`
		Title    string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("clientId", payload.ClientID, "is required")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	a, err := h.Service.Create(r.Context(), user.TenantID, user.UserID, payload.ClientID, payload.Title)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "assessment.create", a.ID, nil, map[string]any{"clientId": a.ClientID, "title": a.Title})
	api.Created(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	a, err := h.Service.Get(r.Context(), user.TenantID, chi.URLParam(r, "assessmentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSaveKPIData(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	var inputs kpi.InputSet
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	id := chi.URLParam(r, "assessmentID")
	code := chi.URLParam(r, "code")
	a, err := h.Service.SaveKPIData(r.Context(), user.TenantID, id, code, inputs)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, "assessment.kpi_data", a.ID, nil, map[string]any{"code": code})
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleScores(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	eval, err := h.Service.Evaluate(r.Context(), user.TenantID, chi.URLParam(r, "assessmentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, eval, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "assessment.complete", h.Service.Complete)
}

func (h *Handler) handleArchive(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "assessment.archive", h.Service.Archive)
}

type transitionFunc func(ctx context.Context, tenantID, id string) (assessments.Assessment, error)

func (h *Handler) transition(w http.ResponseWriter, r *http.Request, action string, fn transitionFunc) {
	user, _ := middleware.GetUser(r.Context())
	a, err := fn(r.Context(), user.TenantID, chi.URLParam(r, "assessmentID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.record(r, action, a.ID, nil, map[string]any{"status": a.Status})
	api.Success(w, a, middleware.GetRequestID(r.Context()))
}

func (h *Handler) record(r *http.Request, action, entityID string, before, after any) {
	if h.Audit == nil {
		return
	}
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	if err := h.Audit.Record(r.Context(), user.TenantID, user.UserID, action, "assessment", entityID, reqID, r.RemoteAddr, before, after); err != nil {
		slog.Warn("audit record failed", "action", action, "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, assessments.ErrAssessmentNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "assessment not found", reqID)
	case errors.Is(err, clients.ErrClientNotFound):
		api.Fail(w, http.StatusNotFound, "client_not_found", "client not found", reqID)
	case errors.Is(err, kpi.ErrUnknownMetric):
		api.Fail(w, http.StatusNotFound, "unknown_metric", err.Error(), reqID)
	case errors.Is(err, assessments.ErrInvalidAssessment):
		api.Fail(w, http.StatusBadRequest, "invalid_assessment", err.Error(), reqID)
	case errors.Is(err, assessments.ErrAssessmentLocked):
		api.Fail(w, http.StatusConflict, "assessment_locked", "assessment is not in progress", reqID)
	case errors.Is(err, assessments.ErrInvalidTransition):
		api.Fail(w, http.StatusConflict, "invalid_transition", err.Error(), reqID)
	case errors.Is(err, assessments.ErrConcurrentUpdate):
		api.Fail(w, http.StatusConflict, "concurrent_update", "assessment was modified concurrently, retry", reqID)
	default:
		slog.Warn("assessment request failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "assessment_failed", "assessment request failed", reqID)
	}
}
