package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"pfaportal/internal/transport/http/shared"
	dErrors "pfaportal/pkg/domain-errors"
	"pfaportal/pkg/requestcontext"
)

// Checker is the limiter contract the middleware uses.
type Checker interface {
	Check(ctx context.Context, class Class, ip string) (*Result, error)
}

// Middleware applies per-class limits to routes. A nil checker, or the
// disabled flag, turns every check into a pass-through, and so does a
// checker error: availability wins over strictness here.
type Middleware struct {
	checker  Checker
	logger   *slog.Logger
	disabled bool
}

type Option func(*Middleware)

// WithDisabled disables rate limiting entirely (for testing/demo mode).
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) {
		m.disabled = disabled
	}
}

func New(checker Checker, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{checker: checker, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

func (m *Middleware) Limit(class Class) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled || m.checker == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			result, err := m.checker.Check(ctx, class, ip)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check rate limit",
					"class", string(class),
					"error", err.Error(),
				)
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)

			if !result.Allowed {
				shared.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "Too many requests, try again later"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func addRateLimitHeaders(w http.ResponseWriter, result *Result) {
	if result.Limit <= 0 {
		return
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	if result.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())+1))
	}
}
