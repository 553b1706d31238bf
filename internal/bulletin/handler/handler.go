// Package handler exposes the bulletin-board endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pfaportal/internal/bulletin/models"
	"pfaportal/internal/transport/http/shared"
	dErrors "pfaportal/pkg/domain-errors"
	"pfaportal/pkg/requestcontext"
)

// Service defines the interface for bulletin operations.
type Service interface {
	Create(ctx context.Context, req *models.CreateBulletinRequest) (*models.Bulletin, error)
	Publish(ctx context.Context, id string) (*models.Bulletin, error)
	List(ctx context.Context) ([]*models.Bulletin, error)
	ListPublished(ctx context.Context) ([]*models.Bulletin, error)
}

// Middleware is a single HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Handler handles bulletin endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the routes. Only the published feed is public.
func (h *Handler) Register(r chi.Router, requireAuth Middleware) {
	r.Get("/api/bulletins/published", h.handleListPublished)
	r.With(requireAuth).Post("/api/bulletins", h.handleCreate)
	r.With(requireAuth).Post("/api/bulletins/{id}/publish", h.handlePublish)
	r.With(requireAuth).Get("/api/bulletins", h.handleList)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.CreateBulletinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	bulletin, err := h.service.Create(ctx, &req)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeValidation) {
			shared.WriteError(w, err)
			return
		}
		h.logger.ErrorContext(ctx, "failed to create bulletin",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to create bulletin"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, bulletin)
}

func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	bulletin, err := h.service.Publish(ctx, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case dErrors.Is(err, dErrors.CodeNotFound), dErrors.Is(err, dErrors.CodeConflict):
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "failed to publish bulletin",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to publish bulletin"))
		}
		return
	}

	shared.WriteJSON(w, http.StatusOK, bulletin)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.service.List)
}

func (h *Handler) handleListPublished(w http.ResponseWriter, r *http.Request) {
	h.writeList(w, r, h.service.ListPublished)
}

func (h *Handler) writeList(w http.ResponseWriter, r *http.Request, list func(context.Context) ([]*models.Bulletin, error)) {
	ctx := r.Context()

	bulletins, err := list(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list bulletins",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	if bulletins == nil {
		bulletins = []*models.Bulletin{}
	}
	shared.WriteJSON(w, http.StatusOK, bulletins)
}
