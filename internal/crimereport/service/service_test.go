package service

import (
	"context"
	"log/slog"
	"regexp"
	"testing"

	"github.com/stretchr/testify/suite"

	"pfaportal/internal/crimereport/models"
	"pfaportal/internal/crimereport/store"
	dErrors "pfaportal/pkg/domain-errors"
)

var codeRe = regexp.MustCompile(`^DEN-[1-9]\d{3}$`)

type ServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *store.InMemory
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	s.service = New(s.store, slog.New(slog.DiscardHandler))
}

func (s *ServiceSuite) validRequest() *models.CreateCrimeReportRequest {
	return &models.CreateCrimeReportRequest{
		CrimeType:   "Robo",
		Description: "Robo de vehículo en la vía pública",
		Location:    "Av. Corrientes 1000",
	}
}

func (s *ServiceSuite) TestCreate() {
	s.Run("assigns a four digit report code and defaults", func() {
		created, err := s.service.Create(s.ctx, s.validRequest())
		s.Require().NoError(err)
		s.Regexp(codeRe, created.ReportCode)
		s.Equal(models.StatusRegistrada, created.Status)
		s.Equal(models.PriorityNormal, created.Priority)
	})

	s.Run("keeps a reporter-graded priority", func() {
		req := s.validRequest()
		req.Priority = string(models.PriorityAlta)
		created, err := s.service.Create(s.ctx, req)
		s.Require().NoError(err)
		s.Equal(models.PriorityAlta, created.Priority)
	})

	s.Run("rejects an unknown crime type", func() {
		req := s.validRequest()
		req.CrimeType = "Inventado"
		_, err := s.service.Create(s.ctx, req)
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeValidation))
	})

	s.Run("retries on a code collision", func() {
		codes := []string{"DEN-1111", "DEN-1111", "DEN-2222"}
		svc := New(s.store, slog.New(slog.DiscardHandler), WithCodeGenerator(func() string {
			code := codes[0]
			if len(codes) > 1 {
				codes = codes[1:]
			}
			return code
		}))

		first, err := svc.Create(s.ctx, s.validRequest())
		s.Require().NoError(err)
		s.Equal("DEN-1111", first.ReportCode)

		second, err := svc.Create(s.ctx, s.validRequest())
		s.Require().NoError(err)
		s.Equal("DEN-2222", second.ReportCode)
	})
}

func (s *ServiceSuite) TestWorkflow() {
	created, err := s.service.Create(s.ctx, s.validRequest())
	s.Require().NoError(err)

	investigating, err := s.service.UpdateStatus(s.ctx, created.ID, string(models.StatusEnInvestigacion))
	s.Require().NoError(err)
	s.Equal(models.StatusEnInvestigacion, investigating.Status)

	resolved, err := s.service.UpdateStatus(s.ctx, created.ID, string(models.StatusResuelta))
	s.Require().NoError(err)
	s.Equal(models.StatusResuelta, resolved.Status)
	s.False(resolved.UpdatedAt.Before(investigating.UpdatedAt))

	s.Run("empty status is a bad request", func() {
		_, err := s.service.UpdateStatus(s.ctx, created.ID, "")
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	})
}

func (s *ServiceSuite) TestLookupIsCaseInsensitiveOnInput() {
	created, err := s.service.Create(s.ctx, s.validRequest())
	s.Require().NoError(err)

	got, err := s.service.GetByReportCode(s.ctx, "den-"+created.ReportCode[4:])
	s.Require().NoError(err)
	s.Equal(created.ID, got.ID)
}

func (s *ServiceSuite) TestUpdateFields() {
	created, err := s.service.Create(s.ctx, s.validRequest())
	s.Require().NoError(err)

	officer := "Of. Martínez"
	priority := models.PriorityCritica
	updated, err := s.service.UpdateFields(s.ctx, created.ID, store.FieldPatch{
		AssignedOfficer: &officer,
		Priority:        &priority,
	})
	s.Require().NoError(err)
	s.Equal(officer, updated.AssignedOfficer)
	s.Equal(models.PriorityCritica, updated.Priority)
}

func TestNewReportCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		if code := NewReportCode(); !codeRe.MatchString(code) {
			t.Fatalf("unexpected report code %q", code)
		}
	}
}
