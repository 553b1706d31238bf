package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pfaportal/internal/account/models"
	"pfaportal/pkg/platform/sentinel"
)

type Clock func() time.Time

// InMemory keeps staff accounts keyed by lowercased username.
type InMemory struct {
	mu         sync.RWMutex
	byID       map[string]*models.Account
	byUsername map[string]string
	clock      Clock
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
		byID:       make(map[string]*models.Account),
		byUsername: make(map[string]string),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *InMemory) Create(_ context.Context, account *models.Account) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := usernameKey(account.Username)
	if _, taken := s.byUsername[key]; taken {
		return nil, sentinel.ErrConflict
	}

	now := s.clock()
	stored := *account
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.byID[stored.ID] = &stored
	s.byUsername[key] = stored.ID

	out := stored
	return &out, nil
}

func (s *InMemory) GetByID(_ context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *account
	return &out, nil
}

// GetByUsername matches usernames case-insensitively.
func (s *InMemory) GetByUsername(_ context.Context, username string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byUsername[usernameKey(username)]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

func (s *InMemory) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID), nil
}

func usernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
