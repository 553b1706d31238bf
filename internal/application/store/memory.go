// Package store provides the durable record stores for incorporation
// requests: an in-memory implementation for development and tests, and a
// PostgreSQL implementation for deployments.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pfaportal/internal/application/models"
	"pfaportal/pkg/platform/sentinel"
)

// Clock lets tests pin record timestamps.
type Clock func() time.Time

// InMemory keeps applications in process, preserving insertion order so
// ListAll returns records by creation time ascending.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[string]*models.Application
	byCode map[string]string // tracking code -> id
	order  []string
	clock  Clock
}

// InMemoryOption configures an InMemory store.
type InMemoryOption func(*InMemory)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) InMemoryOption {
	return func(s *InMemory) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemory(opts ...InMemoryOption) *InMemory {
	s := &InMemory{
		byID:   make(map[string]*models.Application),
		byCode: make(map[string]string),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create assigns the server-side id and timestamps atomically with the
// insert. The tracking code must already be set by the caller; a collision
// fails the insert with ErrCodeTaken instead of overwriting.
func (s *InMemory) Create(_ context.Context, app *models.Application) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byCode[app.TrackingCode]; taken {
		return nil, sentinel.ErrCodeTaken
	}

	now := s.clock()
	stored := *app
	stored.ID = uuid.NewString()
	if stored.Status == "" {
		stored.Status = models.StatusEnRevision
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.byID[stored.ID] = &stored
	s.byCode[stored.TrackingCode] = stored.ID
	s.order = append(s.order, stored.ID)

	out := stored
	return &out, nil
}

// GetByID returns the record or ErrNotFound.
func (s *InMemory) GetByID(_ context.Context, id string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	app, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *app
	return &out, nil
}

// GetByCode performs an exact match on the stored tracking code.
func (s *InMemory) GetByCode(_ context.Context, code string) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

// ListAll returns every record in insertion order.
func (s *InMemory) ListAll(_ context.Context) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Application, 0, len(s.order))
	for _, id := range s.order {
		app := *s.byID[id]
		out = append(out, &app)
	}
	return out, nil
}

// UpdateStatus overwrites the status unconditionally and refreshes
// updatedAt. No adjacency or terminal-state guard: staff supply the status
// and the record takes it.
func (s *InMemory) UpdateStatus(_ context.Context, id string, status models.Status) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	app.Status = status
	app.UpdatedAt = s.clock()

	out := *app
	return &out, nil
}

// FieldPatch carries the contact corrections staff may apply to a stored
// application. Nil pointers leave the field untouched.
type FieldPatch struct {
	Email   *string
	Discord *string
	Roblox  *string
	Photo   *string
}

// UpdateFields applies a partial update and refreshes updatedAt.
func (s *InMemory) UpdateFields(_ context.Context, id string, patch FieldPatch) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if patch.Email != nil {
		app.Email = *patch.Email
	}
	if patch.Discord != nil {
		app.Discord = *patch.Discord
	}
	if patch.Roblox != nil {
		app.Roblox = *patch.Roblox
	}
	if patch.Photo != nil {
		app.Photo = *patch.Photo
	}
	app.UpdatedAt = s.clock()

	out := *app
	return &out, nil
}
