// Package handler exposes the staff login endpoint.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pfaportal/internal/account/models"
	"pfaportal/internal/transport/http/shared"
	dErrors "pfaportal/pkg/domain-errors"
	"pfaportal/pkg/requestcontext"
)

// Service defines the interface for account operations.
type Service interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}

// Middleware is a single HTTP middleware.
type Middleware func(http.Handler) http.Handler

// Handler handles authentication endpoints.
type Handler struct {
	logger  *slog.Logger
	service Service
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{logger: logger, service: service}
}

// Register mounts the routes. Login goes through its own, tighter rate
// limit.
func (h *Handler) Register(r chi.Router, loginLimit Middleware) {
	r.With(loginLimit).Post("/api/auth/login", h.handleLogin)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	resp, err := h.service.Login(ctx, &req)
	if err != nil {
		switch {
		case dErrors.Is(err, dErrors.CodeBadRequest), dErrors.Is(err, dErrors.CodeUnauthorized):
			shared.WriteError(w, err)
		default:
			h.logger.ErrorContext(ctx, "login failed",
				"request_id", requestcontext.RequestID(ctx),
				"error", err.Error(),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "login failed"))
		}
		return
	}

	shared.WriteJSON(w, http.StatusOK, resp)
}
