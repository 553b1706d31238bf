// Package handler exposes the incorporation-request endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pfaportal/internal/application/models"
	"pfaportal/internal/transport/http/shared"
	dErrors "pfaportal/pkg/domain-errors"
	"pfaportal/pkg/requestcontext"
)

// Service defines the interface for application operations.
type Service interface {
	Create(ctx context.Context, req *models.CreateApplicationRequest) (*models.Application, error)
	GetByTrackingCode(ctx context.Context, code string) (*models.Application, error)
	Search(ctx context.Context, searchTerm, statusTerm string) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Application, error)
}

// Middleware is a single HTTP middleware, as produced by the platform
// middleware constructors.
type Middleware func(http.Handler) http.Handler

// Handler handles incorporation-request endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the routes. Staff routes go through requireAuth; the
// public submission route goes through the intake rate limit.
func (h *Handler) Register(r chi.Router, requireAuth, intakeLimit Middleware) {
	r.With(intakeLimit).Post("/api/incorporation-requests", h.handleCreate)
	r.Get("/api/incorporation-requests/{trackingCode}", h.handleGetByCode)
	r.With(requireAuth).Get("/api/incorporation-requests", h.handleList)
	r.With(requireAuth).Patch("/api/incorporation-requests/{id}/status", h.handleUpdateStatus)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateApplicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	app, err := h.service.Create(ctx, &req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) {
			h.logger.WarnContext(ctx, "invalid incorporation request",
				"request_id", requestcontext.RequestID(ctx),
				"fields", len(dErrors.FieldsOf(err)),
			)
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create incorporation request",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to create incorporation request"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) handleGetByCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	code := chi.URLParam(r, "trackingCode")

	app, err := h.service.GetByTrackingCode(ctx, code)
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to fetch incorporation request",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, app)
}

// handleList returns all applications; ?search= and ?status= apply the
// dashboard filter server-side.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	apps, err := h.service.Search(ctx, r.URL.Query().Get("search"), r.URL.Query().Get("status"))
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list incorporation requests",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	if apps == nil {
		apps = []*models.Application{}
	}
	shared.WriteJSON(w, http.StatusOK, apps)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Status is required"))
		return
	}

	app, err := h.service.UpdateStatus(ctx, id, body.Status)
	if err != nil {
		switch {
		case dErrors.Is(err, dErrors.CodeBadRequest), dErrors.Is(err, dErrors.CodeNotFound):
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "failed to update request status",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to update status"))
		}
		return
	}

	shared.WriteJSON(w, http.StatusOK, app)
}
