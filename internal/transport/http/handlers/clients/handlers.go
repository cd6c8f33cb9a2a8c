package clientshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/auth"
	"workforce/internal/domain/clients"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *clients.Service
	Perms   middleware.PermissionStore
}

func NewHandler(service *clients.Service, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermClientsRead, h.Perms)).Get("/", h.handleList)
		r.With(middleware.RequirePermission(auth.PermClientsWrite, h.Perms)).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermClientsRead, h.Perms)).Get("/{clientID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermClientsWrite, h.Perms)).Put("/{clientID}", h.handleUpdate)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	validator := shared.NewValidator()
	page := validator.Page(r, 50, 200)
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}
	items, err := h.Service.List(r.Context(), user.TenantID, page.Limit, page.Offset)
	if err != nil {
		slog.Warn("client list failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "client_list_failed", "failed to list clients", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, items, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	client, err := h.Service.Create(r.Context(), user.TenantID, in)
	if err != nil {
		writeError(w, r, err, "client_create_failed", "failed to create client")
		return
	}
	api.Created(w, client, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	client, err := h.Service.Get(r.Context(), user.TenantID, chi.URLParam(r, "clientID"))
	if err != nil {
		writeError(w, r, err, "client_fetch_failed", "failed to load client")
		return
	}
	api.Success(w, client, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	user, _ := middleware.GetUser(r.Context())
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	client, err := h.Service.Update(r.Context(), user.TenantID, chi.URLParam(r, "clientID"), in)
	if err != nil {
		writeError(w, r, err, "client_update_failed", "failed to update client")
		return
	}
	api.Success(w, client, middleware.GetRequestID(r.Context()))
}

func decodeInput(w http.ResponseWriter, r *http.Request) (clients.Input, bool) {
	var in clients.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return clients.Input{}, false
	}
	validator := shared.NewValidator()
	validator.Required("name", in.Name, "is required")
	if in.EmployeeCount < 0 {
		validator.Add("employeeCount", "must not be negative")
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return clients.Input{}, false
	}
	return in, true
}

func writeError(w http.ResponseWriter, r *http.Request, err error, code, message string) {
	reqID := middleware.GetRequestID(r.Context())
	switch {
	case errors.Is(err, clients.ErrClientNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "client not found", reqID)
	case errors.Is(err, clients.ErrInvalidClient):
		api.Fail(w, http.StatusBadRequest, "invalid_client", err.Error(), reqID)
	default:
		slog.Warn(message, "err", err, "requestId", reqID)
		api.Fail(w, http.StatusInternalServerError, code, message, reqID)
	}
}
