package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type stubChecker struct {
	result *Result
	err    error
	calls  int
}

func (c *stubChecker) Check(_ context.Context, _ Class, _ string) (*Result, error) {
	c.calls++
	return c.result, c.err
}

type MiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(MiddlewareSuite))
}

func (s *MiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.DiscardHandler)
}

func (s *MiddlewareSuite) serve(m *Middleware) *httptest.ResponseRecorder {
	handler := m.Limit(ClassIntake)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/crime-reports", nil))
	return rec
}

func (s *MiddlewareSuite) TestAllowedRequestPassesWithHeaders() {
	checker := &stubChecker{result: &Result{Allowed: true, Limit: 10, Remaining: 7}}
	rec := s.serve(New(checker, s.logger))

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("10", rec.Header().Get("X-RateLimit-Limit"))
	s.Equal("7", rec.Header().Get("X-RateLimit-Remaining"))
}

func (s *MiddlewareSuite) TestExceededRequestGets429() {
	checker := &stubChecker{result: &Result{Limit: 10, RetryAfter: 30 * time.Second}}
	rec := s.serve(New(checker, s.logger))

	s.Equal(http.StatusTooManyRequests, rec.Code)
	s.Equal("31", rec.Header().Get("Retry-After"))
	s.Contains(rec.Body.String(), "rate_limit_exceeded")
}

func (s *MiddlewareSuite) TestCheckerErrorFailsOpen() {
	checker := &stubChecker{err: errors.New("redis down")}
	rec := s.serve(New(checker, s.logger))
	s.Equal(http.StatusOK, rec.Code)
}

func (s *MiddlewareSuite) TestDisabledSkipsTheChecker() {
	checker := &stubChecker{result: &Result{Allowed: false, Limit: 1}}
	rec := s.serve(New(checker, s.logger, WithDisabled(true)))
	s.Equal(http.StatusOK, rec.Code)
	s.Zero(checker.calls)
}

func (s *MiddlewareSuite) TestNilCheckerPassesThrough() {
	rec := s.serve(New(nil, s.logger))
	s.Equal(http.StatusOK, rec.Code)
}
