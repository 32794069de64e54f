package emaillogs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventpass/backend/internal/models"
	"github.com/eventpass/backend/internal/notify"
	"github.com/eventpass/backend/pkg/queue"
)

func TestNewEntry(t *testing.T) {
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	id := uuid.New()

	sent := NewEntry(id, models.EmailTypeRegistrationConfirmation, "a@x.com", "Subj", notify.Result{Success: true, MessageID: "m1"}, at)
	assert.Equal(t, models.EmailLogStatusSent, sent.Status)
	assert.Equal(t, "m1", sent.MessageID)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, at, *sent.SentAt)
	assert.Empty(t, sent.ErrorMessage)
	assert.NotEqual(t, uuid.Nil, sent.ID)

	failed := NewEntry(id, models.EmailTypeResend, "a@x.com", "Subj", notify.Result{Error: "network error while sending email"}, at)
	assert.Equal(t, models.EmailLogStatusFailed, failed.Status)
	assert.Nil(t, failed.SentAt)
	assert.Equal(t, "network error while sending email", failed.ErrorMessage)
}

type stubQueue struct {
	payloads []queue.EmailResendPayload
	err      error
}

func (q *stubQueue) EnqueueEmailResend(_ context.Context, p queue.EmailResendPayload) error {
	q.payloads = append(q.payloads, p)
	return q.err
}

func newRouter(h *Handler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/registrations/:id/emails", h.ListByRegistration)
	r.POST("/registrations/:id/emails/resend", h.Resend)
	return r
}

func serve(r *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func existsOnly(id uuid.UUID) RegistrationExists {
	return func(_ context.Context, got uuid.UUID) error {
		if got == id {
			return nil
		}
		return ErrRegistrationNotFound
	}
}

func TestHandler_ListByRegistration(t *testing.T) {
	repo := NewMemoryRepository()
	id := uuid.New()
	at := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Record(context.Background(), NewEntry(id, models.EmailTypeRegistrationConfirmation, "a@x.com", "S", notify.Result{Success: true, MessageID: "m1"}, at)))
	require.NoError(t, repo.Record(context.Background(), NewEntry(uuid.New(), models.EmailTypeRegistrationConfirmation, "b@x.com", "S", notify.Result{Success: true}, at)))

	r := newRouter(NewHandler(repo, existsOnly(id), nil, nil))
	w := serve(r, http.MethodGet, "/registrations/"+id.String()+"/emails")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"message_id":"m1"`)
	assert.NotContains(t, w.Body.String(), "b@x.com")

	w = serve(r, http.MethodGet, "/registrations/bad/emails")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Resend(t *testing.T) {
	id := uuid.New()
	q := &stubQueue{}
	r := newRouter(NewHandler(NewMemoryRepository(), existsOnly(id), q, nil))

	w := serve(r, http.MethodPost, "/registrations/"+id.String()+"/emails/resend")
	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, q.payloads, 1)
	assert.Equal(t, id, q.payloads[0].RegistrationID)

	w = serve(r, http.MethodPost, "/registrations/"+uuid.NewString()+"/emails/resend")
	assert.Equal(t, http.StatusNotFound, w.Code)

	q.err = errors.New("redis down")
	w = serve(r, http.MethodPost, "/registrations/"+id.String()+"/emails/resend")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHandler_ResendWithoutQueue(t *testing.T) {
	id := uuid.New()
	r := newRouter(NewHandler(NewMemoryRepository(), existsOnly(id), nil, nil))
	w := serve(r, http.MethodPost, "/registrations/"+id.String()+"/emails/resend")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
