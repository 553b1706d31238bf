// Package service implements staff authentication and account
// provisioning.
package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"pfaportal/internal/account/models"
	"pfaportal/internal/platform/metrics"
	dErrors "pfaportal/pkg/domain-errors"
	audit "pfaportal/pkg/platform/audit"
	"pfaportal/pkg/platform/sentinel"
	"pfaportal/pkg/requestcontext"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByUsername(ctx context.Context, username string) (*models.Account, error)
	Count(ctx context.Context) (int, error)
}

// TokenIssuer mints access tokens for authenticated accounts.
type TokenIssuer interface {
	GenerateAccessToken(accountID, username, role string, expiresIn time.Duration) (string, error)
}

// AuditEmitter is the slice of the audit publisher the service uses.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store    Store
	logger   *slog.Logger
	tokens   TokenIssuer
	tokenTTL time.Duration
	metrics  *metrics.Metrics
	auditor  AuditEmitter
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

func New(st Store, tokens TokenIssuer, tokenTTL time.Duration, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:    st,
		logger:   logger,
		tokens:   tokens,
		tokenTTL: tokenTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the credentials and mints an access token. Credentials are
// compared against the stored password as-is; accounts are provisioned by
// command staff, the portal never handles self-service registration.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "Username and password are required")
	}

	account, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.failLogin(ctx, username)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to fetch account")
	}
	if subtle.ConstantTimeCompare([]byte(account.Password), []byte(req.Password)) != 1 {
		return nil, s.failLogin(ctx, username)
	}

	token, err := s.tokens.GenerateAccessToken(account.ID, account.Username, string(account.Rank), s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}

	s.metrics.IncrementLogin("success")
	s.emit(ctx, audit.Event{
		Action:  audit.ActionLoginSucceeded,
		Subject: account.Username,
	})
	return &models.LoginResponse{
		ID:         account.ID,
		Username:   account.Username,
		Role:       account.Rank,
		Department: account.Department,
		Token:      token,
	}, nil
}

func (s *Service) failLogin(ctx context.Context, username string) error {
	s.metrics.IncrementLogin("failure")
	s.emit(ctx, audit.Event{
		Action:  audit.ActionLoginFailed,
		Subject: username,
	})
	// Same message for unknown user and wrong password.
	return dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials")
}

// EnsureSeed provisions the configured admin account when it does not exist
// yet, so a fresh deployment is immediately usable.
func (s *Service) EnsureSeed(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	if _, err := s.store.GetByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check seed account")
	}

	_, err := s.store.Create(ctx, &models.Account{
		Username:   username,
		Password:   password,
		Rank:       models.RankComisarioGeneral,
		Department: models.DepartmentIncorporaciones,
	})
	if errors.Is(err, sentinel.ErrConflict) {
		// Another instance seeded first.
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to seed account")
	}
	s.logger.InfoContext(ctx, "seeded staff account", "username", username)
	return nil
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
