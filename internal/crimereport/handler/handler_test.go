package handler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"pfaportal/internal/crimereport/models"
	"pfaportal/internal/crimereport/service"
	"pfaportal/internal/crimereport/store"
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
	svc := service.New(store.NewInMemory(), logger)
	h := New(svc, logger)

	s.router = chi.NewRouter()
	h.Register(s.router, allowAuth, passthrough)
}

func passthrough(next http.Handler) http.Handler { return next }

func allowAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HandlerSuite) submit(body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/crime-reports", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) TestSubmitAndTrack() {
	rec := s.submit(`{
		"crimeType": "Robo",
		"description": "Robo de vehículo en la vía pública",
		"location": "Av. Corrientes 1000"
	}`)
	s.Require().Equal(http.StatusOK, rec.Code)

	var created models.CrimeReport
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))
	s.Regexp(`^DEN-\d{4}$`, created.ReportCode)
	s.Equal(models.StatusRegistrada, created.Status)
	s.Equal(models.PriorityNormal, created.Priority)

	s.Run("tracking is public", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/crime-reports/"+created.ReportCode, nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Require().Equal(http.StatusOK, rec.Code)

		var got models.CrimeReport
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
		s.Equal(created.ID, got.ID)
	})

	s.Run("unknown code is 404", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/crime-reports/DEN-0000", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestSubmitValidation() {
	rec := s.submit(`{"crimeType": "Inventado", "description": "", "location": ""}`)
	s.Require().Equal(http.StatusBadRequest, rec.Code)

	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("validation_error", body.Error)
	s.NotEmpty(body.Details)
}

func (s *HandlerSuite) TestStaffRoutesRequireAuth() {
	s.Run("list without token is 401", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/crime-reports", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("list with token succeeds", func() {
		req := httptest.NewRequest(http.MethodGet, "/api/crime-reports", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Require().Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	})
}

func (s *HandlerSuite) TestUpdateStatus() {
	rec := s.submit(`{
		"crimeType": "Fraude",
		"description": "Estafa telefónica reiterada",
		"location": "Microcentro"
	}`)
	s.Require().Equal(http.StatusOK, rec.Code)
	var created models.CrimeReport
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))

	patch := func(id, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/crime-reports/"+id+"/status", bytes.NewBufferString(body))
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	s.Run("moves the workflow forward", func() {
		rec := patch(created.ID, `{"status": "En Investigación"}`)
		s.Require().Equal(http.StatusOK, rec.Code)

		var got models.CrimeReport
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &got))
		s.Equal(models.StatusEnInvestigacion, got.Status)
	})

	s.Run("missing status is 400", func() {
		rec := patch(created.ID, `{}`)
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("unknown record is 404", func() {
		rec := patch("missing", `{"status": "Resuelta"}`)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}
