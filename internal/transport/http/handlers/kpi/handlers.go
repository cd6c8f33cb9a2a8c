package kpihandler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/auth"
	"workforce/internal/domain/kpi"
	"workforce/internal/platform/metrics"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Engine  *kpi.Engine
	Perms   middleware.PermissionStore
	Metrics *metrics.Collector
}

func NewHandler(engine *kpi.Engine, perms middleware.PermissionStore) *Handler {
	return &Handler{Engine: engine, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kpi", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/definitions", h.handleDefinitions)
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/policy", h.handlePolicy)
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Post("/{code}/validate", h.handleValidate)
		r.With(middleware.RequirePermission(auth.PermKPICalculate, h.Perms)).Post("/{code}/calculate", h.handleCalculateOne)
		r.With(middleware.RequirePermission(auth.PermKPICalculate, h.Perms)).Post("/calculate", h.handleCalculateAll)
	})
}

func (h *Handler) handleDefinitions(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Engine.Catalog().Definitions(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handlePolicy(w http.ResponseWriter, r *http.Request) {
	api.Success(w, h.Engine.Policy(), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	code, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var inputs kpi.InputSet
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, h.Engine.ValidateInput(code, inputs), middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCalculateOne(w http.ResponseWriter, r *http.Request) {
	code, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var inputs kpi.InputSet
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	result := h.Engine.Calculate(code, inputs)
	if result.Success {
		h.Metrics.RecordKPIs(1, 0)
	} else {
		h.Metrics.RecordKPIs(0, 1)
	}
	api.Success(w, result, middleware.GetRequestID(r.Context()))
}

type calculateResponse struct {
	Results kpi.Results     `json:"results"`
	Scores  kpi.ScoreReport `json:"scores"`
}

// handleCalculateAll scores an ad-hoc set of inputs keyed by metric code.
// Metrics without inputs surface as errors in the response.
func (h *Handler) handleCalculateAll(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Inputs map[string]kpi.InputSet `json:"inputs"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}

	validator := shared.NewValidator()
	inputs := make(map[kpi.Code]kpi.InputSet, len(payload.Inputs))
	keys := make([]string, 0, len(payload.Inputs))
	for raw := range payload.Inputs {
		keys = append(keys, raw)
	}
	sort.Strings(keys)
	for _, raw := range keys {
		code, ok := kpi.ParseCode(raw)
		if !ok {
			validator.Add("inputs."+raw, "unknown metric code")
			continue
		}
		if _, ok := h.Engine.Catalog().Lookup(code); !ok {
			validator.Add("inputs."+raw, "unknown metric code")
			continue
		}
		inputs[code] = payload.Inputs[raw]
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	results := h.Engine.CalculateAll(inputs)
	scores := h.Engine.GenerateScores(results)
	h.Metrics.RecordKPIs(scores.CalculatedCount, len(results)-scores.CalculatedCount)
	api.Success(w, calculateResponse{Results: results, Scores: scores}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (kpi.Code, bool) {
	raw := chi.URLParam(r, "code")
	code, ok := kpi.ParseCode(raw)
	if ok {
		_, ok = h.Engine.Catalog().Lookup(code)
	}
	if !ok {
		api.Fail(w, http.StatusNotFound, "unknown_metric", "unknown kpi code: "+raw, middleware.GetRequestID(r.Context()))
		return "", false
	}
	return code, true
}
