package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpass/backend/internal/emaillogs"
	"github.com/eventpass/backend/internal/models"
	"github.com/eventpass/backend/internal/notify"
	"github.com/eventpass/backend/internal/qrcode"
	"github.com/eventpass/backend/pkg/queue"
)

const (
	// DequeueTimeout is how long one BLPOP waits before the loop checks ctx again.
	DequeueTimeout = 5 * time.Second
	// ErrorBackoff is the pause after a queue read error.
	ErrorBackoff = 10 * time.Second
)

// RegistrationFinder loads a registration by id.
type RegistrationFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.AttendeeRegistration, error)
}

// Encoder regenerates a code when none is stored.
type Encoder interface {
	Generate(a qrcode.Attendee, now time.Time) (*qrcode.Code, error)
}

// DeliveryRecorder stores email delivery attempts.
type DeliveryRecorder interface {
	Record(ctx context.Context, log *models.EmailLog) error
}

// JobQueue is the subset of *queue.Queue the processor needs.
type JobQueue interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*queue.Job, error)
	DeadLetter(ctx context.Context, job *queue.Job, reason string) error
}

// EmailProcessor resends confirmation emails requested by staff.
type EmailProcessor struct {
	regs     RegistrationFinder
	encoder  Encoder
	sender   notify.Sender
	recorder DeliveryRecorder
	queue    JobQueue
	subject  string
	now      func() time.Time
	backoff  time.Duration
	logger   *zap.Logger
}

// NewEmailProcessor creates an email resend processor. recorder may be nil.
func NewEmailProcessor(regs RegistrationFinder, encoder Encoder, sender notify.Sender, recorder DeliveryRecorder, q JobQueue, subject string, logger *zap.Logger) *EmailProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailProcessor{
		regs:     regs,
		encoder:  encoder,
		sender:   sender,
		recorder: recorder,
		queue:    q,
		subject:  subject,
		now:      time.Now,
		backoff:  ErrorBackoff,
		logger:   logger,
	}
}

// Process executes one resend job. A returned error means the job belongs on the DLQ.
func (p *EmailProcessor) Process(ctx context.Context, job *queue.Job) error {
	payload, err := queue.DecodeEmailResend(job)
	if err != nil {
		return err
	}
	reg, err := p.regs.FindByID(ctx, payload.RegistrationID)
	if err != nil {
		return fmt.Errorf("load registration %s: %w", payload.RegistrationID, err)
	}

	png, err := p.image(reg)
	if err != nil {
		return err
	}

	res := p.sender.SendConfirmation(ctx, notify.Message{
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
		Phone:     reg.Phone,
		QRCodePNG: png,
	})
	if p.recorder != nil {
		entry := emaillogs.NewEntry(reg.ID, models.EmailTypeResend, reg.Email, p.subject, res, p.now())
		if err := p.recorder.Record(ctx, entry); err != nil {
			p.logger.Warn("record email delivery failed", zap.Error(err), zap.String("registration_id", reg.ID.String()))
		}
	}
	if !res.Success {
		return errors.New(res.Error)
	}
	p.logger.Info("confirmation resent", zap.String("registration_id", reg.ID.String()), zap.String("message_id", res.MessageID))
	return nil
}

// image returns the stored code image, regenerating it when missing or unreadable.
func (p *EmailProcessor) image(reg *models.AttendeeRegistration) ([]byte, error) {
	if reg.QRCode != nil {
		png, err := qrcode.ParseDataURL(*reg.QRCode)
		if err == nil {
			return png, nil
		}
		p.logger.Warn("stored qr code unreadable, regenerating", zap.Error(err), zap.String("registration_id", reg.ID.String()))
	}
	code, err := p.encoder.Generate(qrcode.Attendee{
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
		Phone:     reg.Phone,
	}, reg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("regenerate qr code: %w", err)
	}
	return code.PNG, nil
}

// Run starts the worker loop: dequeue, process, dead-letter on error. No automatic retries.
func (p *EmailProcessor) Run(ctx context.Context) {
	p.logger.Info("email worker started")
	for {
		select {
		case <-ctx.Done():
			p.logger.Info("email worker stopping")
			return
		default:
		}

		job, err := p.queue.Dequeue(ctx, DequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			p.logger.Warn("dequeue error", zap.Error(err))
			p.sleep(ctx, p.backoff)
			continue
		}
		if job == nil {
			continue
		}

		p.logger.Debug("processing job", zap.String("job_id", job.ID), zap.String("type", string(job.Type)))
		if err := p.Process(ctx, job); err != nil {
			p.logger.Error("job failed", zap.String("job_id", job.ID), zap.Error(err))
			if dlqErr := p.queue.DeadLetter(context.WithoutCancel(ctx), job, err.Error()); dlqErr != nil {
				p.logger.Error("dead-letter failed", zap.Error(dlqErr))
			}
		}
	}
}

func (p *EmailProcessor) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
