package emaillogs

import (
	"time"

	"github.com/google/uuid"

	"github.com/eventpass/backend/internal/models"
	"github.com/eventpass/backend/internal/notify"
)

// NewEntry builds the log row for one send attempt.
func NewEntry(registrationID uuid.UUID, emailType, recipient, subject string, res notify.Result, at time.Time) *models.EmailLog {
	el := &models.EmailLog{
		ID:             uuid.New(),
		RegistrationID: registrationID,
		EmailType:      emailType,
		RecipientEmail: recipient,
		Subject:        subject,
		CreatedAt:      at,
	}
	if res.Success {
		el.Status = models.EmailLogStatusSent
		el.MessageID = res.MessageID
		el.SentAt = &at
	} else {
		el.Status = models.EmailLogStatusFailed
		el.ErrorMessage = res.Error
	}
	return el
}
