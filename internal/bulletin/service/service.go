// Package service implements the bulletin board: staff drafting and the
// publish-once lifecycle behind the public feed.
package service

import (
	"context"
	"errors"
	"log/slog"

	"pfaportal/internal/bulletin/models"
	"pfaportal/internal/bulletin/store"
	"pfaportal/internal/platform/metrics"
	dErrors "pfaportal/pkg/domain-errors"
	audit "pfaportal/pkg/platform/audit"
	"pfaportal/pkg/platform/sentinel"
	"pfaportal/pkg/requestcontext"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Create(ctx context.Context, b *models.Bulletin) (*models.Bulletin, error)
	GetByID(ctx context.Context, id string) (*models.Bulletin, error)
	ListAll(ctx context.Context) ([]*models.Bulletin, error)
	ListPublished(ctx context.Context) ([]*models.Bulletin, error)
	Publish(ctx context.Context, id string) (*models.Bulletin, error)
	UpdateFields(ctx context.Context, id string, patch store.FieldPatch) (*models.Bulletin, error)
}

// AuditEmitter is the slice of the audit publisher the service uses.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditEmitter
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

func New(st Store, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{store: st, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and stores a bulletin. When the payload asks for
// immediate publication the store stamps publishedAt at creation.
func (s *Service) Create(ctx context.Context, req *models.CreateBulletinRequest) (*models.Bulletin, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Author == "" {
		req.Author = requestcontext.Username(ctx)
	}

	created, err := s.store.Create(ctx, req.ToBulletin())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store bulletin")
	}

	s.emit(ctx, audit.Event{
		Action:  audit.ActionBulletinCreated,
		Subject: created.ID,
		Detail:  created.Title,
	})
	if created.Published {
		s.metrics.IncrementBulletinsPublished()
		s.emit(ctx, audit.Event{
			Action:  audit.ActionBulletinPublished,
			Subject: created.ID,
			Detail:  created.Title,
		})
	}
	return created, nil
}

// Publish moves a draft to published exactly once.
func (s *Service) Publish(ctx context.Context, id string) (*models.Bulletin, error) {
	published, err := s.store.Publish(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "Bulletin not found")
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "Bulletin is already published")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to publish bulletin")
	}

	s.metrics.IncrementBulletinsPublished()
	s.emit(ctx, audit.Event{
		Action:  audit.ActionBulletinPublished,
		Subject: published.ID,
		Detail:  published.Title,
	})
	return published, nil
}

// GetByID fetches one bulletin, drafts included.
func (s *Service) GetByID(ctx context.Context, id string) (*models.Bulletin, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Bulletin not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch bulletin")
	}
	return b, nil
}

// List returns every bulletin, drafts included, by creation time ascending.
func (s *Service) List(ctx context.Context) ([]*models.Bulletin, error) {
	bulletins, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bulletins")
	}
	return bulletins, nil
}

// ListPublished returns the public feed, newest publication first.
func (s *Service) ListPublished(ctx context.Context) ([]*models.Bulletin, error) {
	bulletins, err := s.store.ListPublished(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list bulletins")
	}
	return bulletins, nil
}

// UpdateFields edits bulletin content.
func (s *Service) UpdateFields(ctx context.Context, id string, patch store.FieldPatch) (*models.Bulletin, error) {
	b, err := s.store.UpdateFields(ctx, id, patch)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "Bulletin not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update bulletin")
	}
	return b, nil
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
