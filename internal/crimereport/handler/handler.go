// Package handler exposes the crime-report endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pfaportal/internal/crimereport/models"
	"pfaportal/internal/transport/http/shared"
	dErrors "pfaportal/pkg/domain-errors"
	"pfaportal/pkg/requestcontext"
)

// Service defines the interface for crime-report operations.
type Service interface {
	Create(ctx context.Context, req *models.CreateCrimeReportRequest) (*models.CrimeReport, error)
	GetByReportCode(ctx context.Context, code string) (*models.CrimeReport, error)
	List(ctx context.Context) ([]*models.CrimeReport, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.CrimeReport, error)
}

// Middleware is a single HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Handler handles crime-report endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the routes. Listing and status changes are staff-only; the
// public submission route goes through the intake rate limit.
func (h *Handler) Register(r chi.Router, requireAuth, intakeLimit Middleware) {
	r.With(intakeLimit).Post("/api/crime-reports", h.handleCreate)
	r.Get("/api/crime-reports/{reportCode}", h.handleGetByCode)
	r.With(requireAuth).Get("/api/crime-reports", h.handleList)
	r.With(requireAuth).Patch("/api/crime-reports/{id}/status", h.handleUpdateStatus)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateCrimeReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	report, err := h.service.Create(ctx, &req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create crime report",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to create crime report"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleGetByCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.service.GetByReportCode(ctx, chi.URLParam(r, "reportCode"))
	if err != nil {
		if !dErrors.Is(err, dErrors.CodeNotFound) {
			h.logger.ErrorContext(ctx, "failed to fetch crime report",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
		}
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reports, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list crime reports",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	if reports == nil {
		reports = []*models.CrimeReport{}
	}
	shared.WriteJSON(w, http.StatusOK, reports)
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Status is required"))
		return
	}

	report, err := h.service.UpdateStatus(ctx, chi.URLParam(r, "id"), body.Status)
	if err != nil {
		switch {
		case dErrors.Is(err, dErrors.CodeBadRequest), dErrors.Is(err, dErrors.CodeNotFound):
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "failed to update report status",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to update status"))
		}
		return
	}

	shared.WriteJSON(w, http.StatusOK, report)
}
