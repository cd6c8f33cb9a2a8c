package reportshandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/assessments"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/clients"
	"workforce/internal/domain/reports"
	"workforce/internal/domain/reports/export"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

const generateEndpoint = "reports.generate"

type Handler struct {
	Service     *reports.Service
	Perms       middleware.PermissionStore
	Idempotency *middleware.IdempotencyStore
}

func NewHandler(service *reports.Service, perms middleware.PermissionStore, idem *middleware.IdempotencyStore) *Handler {
	return &Handler{Service: service, Perms: perms, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermReportsGenerate, h.Perms)).Post("/", h.handleGenerate)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/{reportID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/{reportID}/summary", h.handleSummary)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/{reportID}/download", h.handleDownload)
		r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/{reportID}/compare/{otherID}", h.handleCompare)
	})
}

type generateRequest struct {
	AssessmentID string `json:"assessmentId"`
	Async        bool   `json:"async"`
}

// handleGenerate creates a report synchronously, or queues it when async is
// set. An Idempotency-Key header replays the first response for the same body.
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	var payload generateRequest
	if err := json.Unmarshal(raw, &payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", reqID)
		return
	}
	if async := r.URL.Query().Get("async"); async != "" {
		payload.Async, _ = strconv.ParseBool(async)
	}
	validator := shared.NewValidator()
	validator.Required("assessmentId", payload.AssessmentID, "is required")
	if validator.Reject(w, reqID) {
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	hash := middleware.RequestHash(append(raw, []byte(strconv.FormatBool(payload.Async))...))
	stored, found, err := h.Idempotency.Check(r.Context(), user.TenantID, user.UserID, generateEndpoint, key, hash)
	if errors.Is(err, middleware.ErrIdempotencyConflict) {
		api.Fail(w, http.StatusConflict, "idempotency_conflict", err.Error(), reqID)
		return
	}
	if err != nil {
		slog.Warn("idempotency check failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "idempotency_failed", "failed to check idempotency key", reqID)
		return
	}
	if found {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Idempotent-Replay", "true")
		w.WriteHeader(stored.Status)
		_, _ = w.Write(stored.Body)
		return
	}

	req := reports.Request{
		TenantID:     user.TenantID,
		AssessmentID: payload.AssessmentID,
		ActorID:      user.UserID,
		RequestID:    reqID,
		IP:           r.RemoteAddr,
	}

	var status int
	var data any
	if payload.Async {
		jobID, err := h.Service.GenerateAsync(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		status, data = http.StatusAccepted, map[string]string{"jobId": jobID, "status": "queued"}
	} else {
		report, err := h.Service.GenerateReport(r.Context(), req)
		if err != nil {
			writeError(w, r, err)
			return
		}
		status, data = http.StatusCreated, report
	}

	body, err := json.Marshal(api.Envelope{Success: true, Data: data, RequestID: reqID})
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "encode_failed", "failed to encode response", reqID)
		return
	}
	if err := h.Idempotency.Save(r.Context(), user.TenantID, user.UserID, generateEndpoint, key, hash, middleware.StoredResponse{Status: status, Body: body}); err != nil {
		slog.Warn("idempotency save failed", "err", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(body, '\n'))
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	assessmentID := r.URL.Query().Get("assessmentId")
	validator := shared.NewValidator()
	validator.Required("assessmentId", assessmentID, "is required")
	page := validator.Page(r, 20, 100)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	items, err := h.Service.ListReports(r.Context(), user.TenantID, assessmentID, page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	report, err := h.Service.GetReport(r.Context(), user.TenantID, chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, report, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	report, err := h.Service.GetReport(r.Context(), user.TenantID, chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	api.Success(w, map[string]any{
		"summary":   report.ExecutiveSummary,
		"text":      report.ExecutiveSummary.Text(),
		"narrative": report.Narrative,
	}, middleware.GetRequestID(r.Context()))
}

// handleDownload renders the report in the requested format. PDF requests are
// served from the archived artifact when one exists.
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "unsupported_format", "format must be one of pdf, xlsx, md, json", reqID)
		return
	}
	report, err := h.Service.GetReport(r.Context(), user.TenantID, chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	d := report.Downloadable()
	var data []byte
	if format == export.FormatPDF && report.ArtifactKey != "" {
		data, err = h.Service.Artifact(r.Context(), report)
		if err != nil {
			slog.Warn("report artifact unavailable, rendering", "reportId", report.ID, "err", err)
			data = nil
		}
	}
	if data == nil {
		data, err = export.Render(format, d)
		if err != nil {
			slog.Warn("report render failed", "reportId", report.ID, "format", format, "err", err)
			api.Fail(w, http.StatusInternalServerError, "render_failed", "failed to render report", reqID)
			return
		}
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(d, format)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		slog.Warn("report download write failed", "reportId", report.ID, "err", err)
	}
}

func (h *Handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	reqID := middleware.GetRequestID(r.Context())
	a, err := h.Service.GetReport(r.Context(), user.TenantID, chi.URLParam(r, "reportID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	b, err := h.Service.GetReport(r.Context(), user.TenantID, chi.URLParam(r, "otherID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	diff, err := export.Diff(a.Downloadable(), b.Downloadable(), a.ID, b.ID)
	if err != nil {
		slog.Warn("report compare failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "compare_failed", "failed to compare reports", reqID)
		return
	}
	api.Success(w, map[string]any{
		"from":       a.ID,
		"to":         b.ID,
		"identical":  diff == "",
		"scoreDelta": b.Scores.OverallScore - a.Scores.OverallScore,
		"diff":       diff,
	}, reqID)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, reports.ErrReportNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "report not found", reqID)
	case errors.Is(err, assessments.ErrAssessmentNotFound):
		api.Fail(w, http.StatusNotFound, "assessment_not_found", "assessment not found", reqID)
	case errors.Is(err, clients.ErrClientNotFound):
		api.Fail(w, http.StatusNotFound, "client_not_found", "client not found", reqID)
	case errors.Is(err, reports.ErrAssessmentArchived):
		api.Fail(w, http.StatusConflict, "assessment_archived", "archived assessments cannot be reported on", reqID)
	default:
		slog.Warn("report request failed", "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, "report_failed", err.Error(), reqID)
	}
}
