package registrations

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/eventpass/backend/internal/models"
	"github.com/eventpass/backend/internal/notify"
	"github.com/eventpass/backend/internal/qrcode"
)

type recordingSender struct {
	mu     sync.Mutex
	sent   []notify.Message
	result notify.Result
}

func (s *recordingSender) SendConfirmation(_ context.Context, msg notify.Message) notify.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return s.result
}

type failingEncoder struct{}

func (failingEncoder) Generate(qrcode.Attendee, time.Time) (*qrcode.Code, error) {
	return nil, qrcode.ErrEncoding
}

type fakeArchiver struct {
	keys []uuid.UUID
	err  error
}

func (a *fakeArchiver) ArchiveQRCode(_ context.Context, id uuid.UUID, _ []byte) (string, error) {
	a.keys = append(a.keys, id)
	if a.err != nil {
		return "", a.err
	}
	return "qr-codes/" + id.String() + ".png", nil
}

type fakeRecorder struct {
	logs []*models.EmailLog
	err  error
}

func (r *fakeRecorder) Record(_ context.Context, el *models.EmailLog) error {
	r.logs = append(r.logs, el)
	return r.err
}

// racingStore hides existing rows from the pre-check, as a concurrent insert would.
type racingStore struct {
	*MemoryStore
}

func (racingStore) FindByEmail(context.Context, string) (*models.AttendeeRegistration, error) {
	return nil, ErrNotFound
}

var errStoreDown = errors.New("connection refused")

// brokenStore fails the given operation.
type brokenStore struct {
	*MemoryStore
	failFind   bool
	failInsert bool
}

func (s brokenStore) FindByEmail(ctx context.Context, email string) (*models.AttendeeRegistration, error) {
	if s.failFind {
		return nil, errStoreDown
	}
	return s.MemoryStore.FindByEmail(ctx, email)
}

func (s brokenStore) Insert(ctx context.Context, reg *models.AttendeeRegistration) error {
	if s.failInsert {
		return errStoreDown
	}
	return s.MemoryStore.Insert(ctx, reg)
}
