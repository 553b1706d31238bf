// Package service implements the incorporation-request workflow: validated
// intake, tracking-code assignment, the status engine, and the staff query
// surface.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"pfaportal/internal/application/models"
	"pfaportal/internal/application/store"
	"pfaportal/internal/platform/metrics"
	dErrors "pfaportal/pkg/domain-errors"
	audit "pfaportal/pkg/platform/audit"
	"pfaportal/pkg/platform/sentinel"
	"pfaportal/pkg/requestcontext"
)

// Store is the persistence contract the service depends on. Both the
// in-memory and the postgres stores satisfy it.
type Store interface {
	Create(ctx context.Context, app *models.Application) (*models.Application, error)
	GetByID(ctx context.Context, id string) (*models.Application, error)
	GetByCode(ctx context.Context, code string) (*models.Application, error)
	ListAll(ctx context.Context) ([]*models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Application, error)
	UpdateFields(ctx context.Context, id string, patch store.FieldPatch) (*models.Application, error)
}

// AuditEmitter is the slice of the audit publisher the service uses.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

// codeAttempts bounds the generate-insert retry loop. Collisions are rare
// (at most 900k codes) but the store contract does not assume zero.
const codeAttempts = 5

type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditEmitter
	tracer  trace.Tracer

	// newCode is swappable in tests to force collisions.
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

// WithCodeGenerator overrides tracking-code generation. Test hook.
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
		tracer:  otel.Tracer("pfaportal/application"),
		newCode: NewTrackingCode,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewTrackingCode returns "INC-" plus a uniformly random 6-digit number in
// [100000, 999999]. Of the two generators the portal historically used, the
// uniform one is kept; zero-padded codes below 100000 no longer occur but
// remain valid lookups for data that already holds them.
func NewTrackingCode() string {
	return fmt.Sprintf("INC-%d", 100000+rand.IntN(900000))
}

// Create validates the submission, assigns a unique tracking code and
// persists the record in its initial state. Validation failures are reported
// before any store mutation is attempted.
func (s *Service) Create(ctx context.Context, req *models.CreateApplicationRequest) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.Create")
	defer span.End()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	app := req.ToApplication()
	var created *models.Application
	for attempt := 0; attempt < codeAttempts; attempt++ {
		app.TrackingCode = s.newCode()
		var err error
		created, err = s.store.Create(ctx, app)
		if err == nil {
			break
		}
		if errors.Is(err, sentinel.ErrCodeTaken) {
			continue
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store incorporation request")
	}
	if created == nil {
		return nil, dErrors.New(dErrors.CodeInternal, "could not assign a unique tracking code")
	}

	span.SetAttributes(attribute.String("tracking_code", created.TrackingCode))
	if s.metrics != nil {
		s.metrics.IncrementApplicationsCreated()
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionApplicationSubmitted,
		Subject: created.TrackingCode,
	})
	return created, nil
}

// GetByTrackingCode uppercases the caller-supplied code before the exact
// lookup, so codes typed in lowercase on the public tracking page still
// resolve.
func (s *Service) GetByTrackingCode(ctx context.Context, code string) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.GetByTrackingCode")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	app, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch incorporation request")
	}
	return app, nil
}

// List returns every application ordered by creation time ascending.
func (s *Service) List(ctx context.Context) ([]*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.List")
	defer span.End()

	apps, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list incorporation requests")
	}
	return apps, nil
}

// Search lists and filters in one call. The filter is the same pure
// predicate the dashboard applies client-side; running it server-side does
// not change observable results.
func (s *Service) Search(ctx context.Context, searchTerm, statusTerm string) ([]*models.Application, error) {
	apps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if statusTerm == "" {
		statusTerm = "all"
	}
	return models.Filter(apps, searchTerm, statusTerm), nil
}

// UpdateStatus is the workflow transition: the requested status overwrites
// the current one unconditionally and updatedAt is refreshed, including when
// the value is unchanged. There is no adjacency guard and terminal states do
// not lock the record; that matches how staff have always operated the
// dashboard. Tightening it is a known hardening opportunity.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.UpdateStatus")
	defer span.End()

	status = strings.TrimSpace(status)
	if status == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Status is required")
	}
	if !models.Status(status).IsKnown() {
		s.logger.WarnContext(ctx, "unknown application status accepted",
			"status", status,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	app, err := s.store.UpdateStatus(ctx, id, models.Status(status))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update status")
	}

	span.SetAttributes(attribute.String("status", status))
	if s.metrics != nil {
		s.metrics.IncrementStatusTransition("application", status)
	}
	s.emit(ctx, audit.Event{
		Action:  audit.ActionApplicationStatusChanged,
		Subject: app.TrackingCode,
		Detail:  status,
	})
	return app, nil
}

// UpdateFields applies staff contact corrections.
func (s *Service) UpdateFields(ctx context.Context, id string, patch store.FieldPatch) (*models.Application, error) {
	app, err := s.store.UpdateFields(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Request not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update fields")
	}
	return app, nil
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
