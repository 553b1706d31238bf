// Package store provides the crime-report record stores.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"pfaportal/internal/crimereport/models"
	"pfaportal/pkg/platform/sentinel"
)

// Clock lets tests pin record timestamps.
type Clock func() time.Time

// InMemory keeps reports in process, preserving insertion order.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[string]*models.CrimeReport
	byCode map[string]string
	order  []string
	clock  Clock
}

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
		byID:   make(map[string]*models.CrimeReport),
		byCode: make(map[string]string),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create assigns id and timestamps atomically with the insert; a report code
// collision fails with ErrCodeTaken.
func (s *InMemory) Create(_ context.Context, report *models.CrimeReport) (*models.CrimeReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byCode[report.ReportCode]; taken {
		return nil, sentinel.ErrCodeTaken
	}

	now := s.clock()
	stored := *report
	stored.ID = uuid.NewString()
	if stored.Status == "" {
		stored.Status = models.StatusRegistrada
	}
	if stored.Priority == "" {
		stored.Priority = models.PriorityNormal
	}
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.byID[stored.ID] = &stored
	s.byCode[stored.ReportCode] = stored.ID
	s.order = append(s.order, stored.ID)

	out := stored
	return &out, nil
}

func (s *InMemory) GetByID(_ context.Context, id string) (*models.CrimeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *report
	return &out, nil
}

func (s *InMemory) GetByCode(_ context.Context, code string) (*models.CrimeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

func (s *InMemory) ListAll(_ context.Context) ([]*models.CrimeReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.CrimeReport, 0, len(s.order))
	for _, id := range s.order {
		report := *s.byID[id]
		out = append(out, &report)
	}
	return out, nil
}

// UpdateStatus overwrites the status unconditionally and refreshes
// updatedAt.
func (s *InMemory) UpdateStatus(_ context.Context, id string, status models.Status) (*models.CrimeReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	report.Status = status
	report.UpdatedAt = s.clock()

	out := *report
	return &out, nil
}

// FieldPatch carries the triage fields staff may adjust on a stored report.
type FieldPatch struct {
	AssignedOfficer *string
	Priority        *models.Priority
	EvidenceNote    *string
}

// UpdateFields applies a partial update and refreshes updatedAt.
func (s *InMemory) UpdateFields(_ context.Context, id string, patch FieldPatch) (*models.CrimeReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if patch.AssignedOfficer != nil {
		report.AssignedOfficer = *patch.AssignedOfficer
	}
	if patch.Priority != nil {
		report.Priority = *patch.Priority
	}
	if patch.EvidenceNote != nil {
		report.EvidenceNote = *patch.EvidenceNote
	}
	report.UpdatedAt = s.clock()

	out := *report
	return &out, nil
}
