// Package http assembles the portal's HTTP surface.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	accounthandler "pfaportal/internal/account/handler"
	applicationhandler "pfaportal/internal/application/handler"
	bulletinhandler "pfaportal/internal/bulletin/handler"
	crimereporthandler "pfaportal/internal/crimereport/handler"
	"pfaportal/internal/platform/metrics"
	"pfaportal/internal/platform/middleware"
	"pfaportal/internal/ratelimit"
	"pfaportal/internal/transport/http/shared"
)

// Deps carries everything the router mounts.
type Deps struct {
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
	Tokens       middleware.TokenValidator
	RateLimit    *ratelimit.Middleware
	Applications *applicationhandler.Handler
	CrimeReports *crimereporthandler.Handler
	Bulletins    *bulletinhandler.Handler
	Accounts     *accounthandler.Handler

	// Health reports dependency status for /healthz.
	Health func() map[string]string
}

const requestTimeout = 30 * time.Second

// NewRouter wires the global middleware chain and mounts every handler.
func NewRouter(deps Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Metadata)
	r.Use(middleware.Logger(deps.Logger))
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Latency(deps.Metrics))

	requireAuth := middleware.RequireAuth(deps.Tokens, deps.Logger)
	intakeLimit := deps.RateLimit.Limit(ratelimit.ClassIntake)
	loginLimit := deps.RateLimit.Limit(ratelimit.ClassLogin)

	deps.Applications.Register(r, requireAuth, intakeLimit)
	deps.CrimeReports.Register(r, requireAuth, intakeLimit)
	deps.Bulletins.Register(r, requireAuth)
	deps.Accounts.Register(r, loginLimit)

	r.Get("/healthz", handleHealth(deps.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

func handleHealth(health func() map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok"}
		if health != nil {
			deps := health()
			body["dependencies"] = deps
			for _, state := range deps {
				if state != "ok" && state != "disabled" {
					body["status"] = "degraded"
				}
			}
		}
		shared.WriteJSON(w, http.StatusOK, body)
	}
}
