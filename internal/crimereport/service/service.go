// Package service implements crime-report intake, tracking and the staff
// status workflow.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"pfaportal/internal/crimereport/models"
	"pfaportal/internal/crimereport/store"
	"pfaportal/internal/platform/metrics"
	dErrors "pfaportal/pkg/domain-errors"
	audit "pfaportal/pkg/platform/audit"
	"pfaportal/pkg/platform/sentinel"
	"pfaportal/pkg/requestcontext"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Create(ctx context.Context, report *models.CrimeReport) (*models.CrimeReport, error)
	GetByID(ctx context.Context, id string) (*models.CrimeReport, error)
	GetByCode(ctx context.Context, code string) (*models.CrimeReport, error)
	ListAll(ctx context.Context) ([]*models.CrimeReport, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.CrimeReport, error)
	UpdateFields(ctx context.Context, id string, patch store.FieldPatch) (*models.CrimeReport, error)
}

// AuditEmitter is the slice of the audit publisher the service uses.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

const codeAttempts = 5

type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditEmitter
	newCode func() string
}

type Option func(*Service)

// WithMetrics attaches the prometheus registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditor attaches the audit publisher.
func WithAuditor(a AuditEmitter) Option {
	return func(s *Service) { s.auditor = a }
}

// WithCodeGenerator overrides report-code generation. Test hook.
func WithCodeGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newCode = gen
		}
	}
}

func New(st Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:   st,
		logger:  logger,
		newCode: NewReportCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewReportCode returns "DEN-" plus a random 4-digit number in [1000, 9999].
func NewReportCode() string {
	return fmt.Sprintf("DEN-%d", 1000+rand.IntN(9000))
}

// Create validates the submission, assigns a unique report code and persists
// the record as Registrada with Normal priority unless the reporter graded
// it.
func (s *Service) Create(ctx context.Context, req *models.CreateCrimeReportRequest) (*models.CrimeReport, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	report := req.ToReport()
	var created *models.CrimeReport
	for attempt := 0; attempt < codeAttempts; attempt++ {
		report.ReportCode = s.newCode()
		var err error
		created, err = s.store.Create(ctx, report)
		if err == nil {
			break
		}
		if errors.Is(err, sentinel.ErrCodeTaken) {
			continue
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store crime report")
	}
	if created == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "could not assign a unique report code")
	}

	if s.metrics != nil {
		s.metrics.IncrementCrimeReportsCreated()
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionCrimeReportSubmitted,
		Subject: created.ReportCode,
		Detail:  created.CrimeType,
	})
	return created, nil
}

// GetByReportCode uppercases the caller-supplied code before the exact
// lookup.
func (s *Service) GetByReportCode(ctx context.Context, code string) (*models.CrimeReport, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	report, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Report not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch crime report")
	}
	return report, nil
}

// List returns every report ordered by creation time ascending.
func (s *Service) List(ctx context.Context) ([]*models.CrimeReport, error) {
	reports, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list crime reports")
	}
	return reports, nil
}

// UpdateStatus overwrites the status unconditionally and refreshes
// updatedAt; unknown statuses are stored as given.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*models.CrimeReport, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Status is required")
	}

	report, err := s.store.UpdateStatus(ctx, id, models.Status(status))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Report not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update status")
	}

	if s.metrics != nil {
		s.metrics.IncrementStatusTransition("crime_report", status)
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionCrimeReportStatusChanged,
		Subject: report.ReportCode,
		Detail:  status,
	})
	return report, nil
}

// UpdateFields applies staff triage adjustments.
func (s *Service) UpdateFields(ctx context.Context, id string, patch store.FieldPatch) (*models.CrimeReport, error) {
	report, err := s.store.UpdateFields(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Report not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update fields")
	}
	return report, nil
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	if s.auditor == nil {
		return
	}
	event.Timestamp = requestcontext.Now(ctx)
	event.ActorID = requestcontext.AccountID(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.ClientIP = requestcontext.ClientIP(ctx)
	event.UserAgent = requestcontext.UserAgent(ctx)
	_ = s.auditor.Emit(ctx, event)
}
