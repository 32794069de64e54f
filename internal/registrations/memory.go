package registrations

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eventpass/backend/internal/models"
)

// MemoryStore is an in-process Store for tests and local runs without PostgreSQL.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]*models.AttendeeRegistration
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[uuid.UUID]*models.AttendeeRegistration),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func (s *MemoryStore) Insert(_ context.Context, reg *models.AttendeeRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byEmail[reg.Email]; ok {
		return ErrDuplicateEmail
	}
	if reg.CreatedAt.IsZero() {
		reg.CreatedAt = s.now()
	}
	reg.UpdatedAt = reg.CreatedAt
	stored := *reg
	s.byID[reg.ID] = &stored
	s.byEmail[reg.Email] = reg.ID
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id uuid.UUID) (*models.AttendeeRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *reg
	return &out, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*models.AttendeeRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s.byID[id]
	return &out, nil
}

func (s *MemoryStore) List(_ context.Context, f Filter, limit, offset int) ([]models.AttendeeRegistration, error) {
	limit, offset = Page(limit, offset)
	s.mu.RLock()
	matched := make([]models.AttendeeRegistration, 0, len(s.byID))
	for _, reg := range s.byID {
		if containsFold(reg.Email, f.Email) && containsFold(reg.FirstName, f.FirstName) && containsFold(reg.LastName, f.LastName) {
			matched = append(matched, *reg)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() > matched[j].ID.String()
	})
	if offset >= len(matched) {
		return []models.AttendeeRegistration{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], nil
}

func (s *MemoryStore) CountApprox(_ context.Context, bucket Bucket, now time.Time) (int, error) {
	from, to, bounded, err := bucket.Window(now)
	if err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !bounded {
		return len(s.byID), nil
	}
	n := 0
	for _, reg := range s.byID {
		if !reg.CreatedAt.Before(from) && reg.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func containsFold(s, substr string) bool {
	return substr == "" || strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
