package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"pfaportal/internal/account/models"
	"pfaportal/internal/account/service"
	"pfaportal/internal/account/store"
	"pfaportal/internal/jwttoken"
)

type HandlerSuite struct {
	suite.Suite
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	accounts := store.NewInMemory()
	tokens := jwttoken.NewJWTService("test-key", "test-issuer", "test-audience")
	svc := service.New(accounts, tokens, time.Hour, logger)
	s.Require().NoError(svc.EnsureSeed(s.T().Context(), "admin", "admin"))

	s.router = chi.NewRouter()
	New(svc, logger).Register(s.router, func(next http.Handler) http.Handler { return next })
}

func (s *HandlerSuite) login(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestLoginSucceeds() {
	rec := s.login(`{"username": "admin", "password": "admin"}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp models.LoginResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("admin", resp.Username)
	s.Equal(models.RankComisarioGeneral, resp.Role)
	s.NotEmpty(resp.Token)
}

func (s *HandlerSuite) TestLoginFailures() {
	s.Run("wrong password is 401", func() {
		rec := s.login(`{"username": "admin", "password": "nope"}`)
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Contains(rec.Body.String(), "Invalid credentials")
	})

	s.Run("missing fields are 400", func() {
		rec := s.login(`{"username": "admin"}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("malformed body is 400", func() {
		rec := s.login(`{broken`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}
