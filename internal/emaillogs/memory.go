package emaillogs

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/eventpass/backend/internal/models"
)

// MemoryRepository keeps email logs in process.
type MemoryRepository struct {
	mu   sync.Mutex
	logs []*models.EmailLog
}

// NewMemoryRepository creates an empty repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Record(_ context.Context, el *models.EmailLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *el
	r.logs = append(r.logs, &cp)
	return nil
}

func (r *MemoryRepository) ListByRegistration(_ context.Context, registrationID uuid.UUID) ([]*models.EmailLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*models.EmailLog{}
	for _, el := range r.logs {
		if el.RegistrationID == registrationID {
			cp := *el
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
