package emaillogs

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpass/backend/internal/models"
	"github.com/eventpass/backend/pkg/queue"
	"github.com/eventpass/backend/pkg/response"
)

// ErrRegistrationNotFound is returned by a RegistrationExists implementation when no row matches.
var ErrRegistrationNotFound = errors.New("registration not found")

// Lister reads delivery logs.
type Lister interface {
	ListByRegistration(ctx context.Context, registrationID uuid.UUID) ([]*models.EmailLog, error)
}

// RegistrationExists reports whether a registration is present.
type RegistrationExists func(ctx context.Context, id uuid.UUID) error

// Enqueuer schedules a resend. *queue.Queue implements it.
type Enqueuer interface {
	EnqueueEmailResend(ctx context.Context, payload queue.EmailResendPayload) error
}

// Handler handles email log HTTP endpoints.
type Handler struct {
	repo   Lister
	exists RegistrationExists
	queue  Enqueuer
	logger *zap.Logger
}

// NewHandler creates an email logs handler. q may be nil when Redis is not configured.
func NewHandler(repo Lister, exists RegistrationExists, q Enqueuer, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{repo: repo, exists: exists, queue: q, logger: logger}
}

// ListByRegistration handles GET /registrations/:id/emails.
func (h *Handler) ListByRegistration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return
	}
	logs, err := h.repo.ListByRegistration(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("list email logs failed", zap.Error(err), zap.String("registration_id", id.String()))
		response.Internal(c, "failed to load email logs")
		return
	}
	response.OK(c, logs)
}

// Resend handles POST /registrations/:id/emails/resend. Enqueues a resend for the worker.
func (h *Handler) Resend(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid registration id")
		return
	}
	if h.queue == nil {
		response.ServiceUnavailable(c, "email resend is not available")
		return
	}
	ctx := c.Request.Context()
	if err := h.exists(ctx, id); err != nil {
		if errors.Is(err, ErrRegistrationNotFound) {
			response.NotFound(c, "registration not found")
			return
		}
		h.logger.Error("resend lookup failed", zap.Error(err), zap.String("registration_id", id.String()))
		response.Internal(c, "failed to queue resend")
		return
	}
	if err := h.queue.EnqueueEmailResend(ctx, queue.EmailResendPayload{RegistrationID: id}); err != nil {
		h.logger.Error("enqueue resend failed", zap.Error(err), zap.String("registration_id", id.String()))
		response.Internal(c, "failed to queue resend")
		return
	}
	response.Accepted(c, gin.H{"message": "resend queued"})
}
