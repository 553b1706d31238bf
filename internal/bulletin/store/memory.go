package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"pfaportal/internal/bulletin/models"
	"pfaportal/pkg/platform/sentinel"
)

type Clock func() time.Time

// InMemory keeps bulletins in insertion order. Useful for tests and for
// running the portal without a database.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[string]*models.Bulletin
	order []string
	clock Clock
}

type InMemoryOption func(*InMemory)

func WithClock(clock Clock) InMemoryOption {
	return func(s *InMemory) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemory(opts ...InMemoryOption) *InMemory {
	s := &InMemory{
		byID:  make(map[string]*models.Bulletin),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Create(_ context.Context, b *models.Bulletin) (*models.Bulletin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	stored := *b
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.Published {
		at := now
		stored.PublishedAt = &at
	} else {
		stored.PublishedAt = nil
	}

	s.byID[stored.ID] = &stored
	s.order = append(s.order, stored.ID)

	out := stored
	return &out, nil
}

func (s *InMemory) GetByID(_ context.Context, id string) (*models.Bulletin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *b
	return &out, nil
}

func (s *InMemory) ListAll(_ context.Context) ([]*models.Bulletin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Bulletin, 0, len(s.order))
	for _, id := range s.order {
		b := *s.byID[id]
		out = append(out, &b)
	}
	return out, nil
}

// ListPublished returns published bulletins, newest publication first.
func (s *InMemory) ListPublished(_ context.Context) ([]*models.Bulletin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Bulletin, 0)
	for _, id := range s.order {
		b := s.byID[id]
		if !b.Published {
			continue
		}
		copied := *b
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PublishedAt.After(*out[j].PublishedAt)
	})
	return out, nil
}

// Publish marks a draft as published and stamps publishedAt. Publishing an
// already-published bulletin fails with ErrConflict.
func (s *InMemory) Publish(_ context.Context, id string) (*models.Bulletin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if b.Published {
		return nil, sentinel.ErrConflict
	}
	now := s.clock()
	b.Published = true
	b.PublishedAt = &now
	b.UpdatedAt = now

	out := *b
	return &out, nil
}

// FieldPatch updates draft content. Nil fields are left untouched.
type FieldPatch struct {
	Title    *string
	Content  *string
	Category *models.Category
}

func (s *InMemory) UpdateFields(_ context.Context, id string, patch FieldPatch) (*models.Bulletin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Content != nil {
		b.Content = *patch.Content
	}
	if patch.Category != nil {
		b.Category = *patch.Category
	}
	b.UpdatedAt = s.clock()

	out := *b
	return &out, nil
}
