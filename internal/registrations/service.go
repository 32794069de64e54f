package registrations

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eventpass/backend/internal/emaillogs"
	"github.com/eventpass/backend/internal/models"
	"github.com/eventpass/backend/internal/notify"
	"github.com/eventpass/backend/internal/qrcode"
)

// notifyTimeout bounds the confirmation send, which outlives the request context.
const notifyTimeout = 30 * time.Second

// Encoder generates the attendee code. *qrcode.Generator implements it.
type Encoder interface {
	Generate(a qrcode.Attendee, now time.Time) (*qrcode.Code, error)
}

// Archiver keeps a copy of the code image. *storage.S3 implements it.
type Archiver interface {
	ArchiveQRCode(ctx context.Context, registrationID uuid.UUID, png []byte) (string, error)
}

// DeliveryRecorder stores email delivery attempts. *emaillogs.Repository implements it.
type DeliveryRecorder interface {
	Record(ctx context.Context, log *models.EmailLog) error
}

// Service runs the registration workflow:
// received → validated → uniqueness checked → persisted → notified → done.
type Service struct {
	store    Store
	encoder  Encoder
	sender   notify.Sender
	archiver Archiver
	recorder DeliveryRecorder
	subject  string
	now      func() time.Time
	newID    func() uuid.UUID
	logger   *zap.Logger
}

// NewService creates the registration workflow.
func NewService(store Store, encoder Encoder, sender notify.Sender, subject string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:   store,
		encoder: encoder,
		sender:  sender,
		subject: subject,
		now:     time.Now,
		newID:   uuid.New,
		logger:  logger,
	}
}

// SetArchiver enables best-effort archiving of generated code images.
func (s *Service) SetArchiver(a Archiver) { s.archiver = a }

// SetDeliveryRecorder enables the email delivery log.
func (s *Service) SetDeliveryRecorder(r DeliveryRecorder) { s.recorder = r }

// Register validates, persists and notifies. It never returns an error:
// every outcome is a Result. Notification failure does not fail the registration.
func (s *Service) Register(ctx context.Context, raw Input) Result {
	in := Normalize(raw)
	log := s.logger.With(zap.String("email", in.Email))

	if fields := Validate(in); len(fields) > 0 {
		log.Debug("registration rejected", zap.String("stage", string(StageReceived)), zap.Any("fields", fields))
		return failed(FailureValidation, StageReceived, MessageValidation, fields)
	}
	log.Debug("registration stage", zap.String("stage", string(StageValidated)))

	existing, err := s.store.FindByEmail(ctx, in.Email)
	switch {
	case err == nil && existing != nil:
		log.Info("duplicate registration", zap.String("registration_id", existing.ID.String()))
		return failed(FailureConflict, StageValidated, MessageDuplicate, nil)
	case err != nil && !errors.Is(err, ErrNotFound):
		log.Error("uniqueness check failed", zap.Error(err))
		return failed(FailureDependency, StageValidated, MessageRetry, nil)
	}
	log.Debug("registration stage", zap.String("stage", string(StageUniquenessChecked)))

	now := s.now()
	attendee := qrcode.Attendee{FirstName: in.FirstName, LastName: in.LastName, Email: in.Email, Phone: in.Phone}
	code, err := s.encoder.Generate(attendee, now)
	if err != nil {
		log.Error("qr code generation failed", zap.Error(err))
		return failed(FailureDependency, StageUniquenessChecked, MessageRetry, nil)
	}

	reg := &models.AttendeeRegistration{
		ID:        s.newID(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     in.Email,
		Phone:     in.Phone,
		QRCode:    &code.DataURL,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Insert(ctx, reg); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			log.Info("duplicate registration on insert")
			return failed(FailureConflict, StageUniquenessChecked, MessageDuplicate, nil)
		}
		log.Error("persist registration failed", zap.Error(err))
		return failed(FailureDependency, StageUniquenessChecked, MessageRetry, nil)
	}
	log = log.With(zap.String("registration_id", reg.ID.String()))
	log.Debug("registration stage", zap.String("stage", string(StagePersisted)))

	// The registration is committed; the remaining steps must not be cut short by the caller going away.
	bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	if s.archiver != nil {
		if _, err := s.archiver.ArchiveQRCode(bgCtx, reg.ID, code.PNG); err != nil {
			log.Warn("archive qr code failed", zap.Error(err))
		}
	}

	res := s.sender.SendConfirmation(bgCtx, notify.Message{
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
		Phone:     reg.Phone,
		QRCodePNG: code.PNG,
	})
	if !res.Success {
		log.Warn("confirmation email failed", zap.String("error", res.Error))
	}
	if s.recorder != nil {
		entry := emaillogs.NewEntry(reg.ID, models.EmailTypeRegistrationConfirmation, reg.Email, s.subject, res, s.now())
		if err := s.recorder.Record(bgCtx, entry); err != nil {
			log.Warn("record email delivery failed", zap.Error(err))
		}
	}
	log.Debug("registration stage", zap.String("stage", string(StageNotified)))

	log.Info("registration completed", zap.Bool("email_sent", res.Success))
	return succeeded(Success{Registration: reg, QRCode: code.DataURL, Notification: res})
}
