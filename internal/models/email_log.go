package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailType for confirmation deliveries.
const (
	EmailTypeRegistrationConfirmation = "registration_confirmation"
	EmailTypeResend                   = "registration_resend"
)

// EmailLogStatus for delivery.
const (
	EmailLogStatusSent   = "sent"
	EmailLogStatusFailed = "failed"
)

// EmailLog records one attempt to deliver a confirmation email.
type EmailLog struct {
	ID             uuid.UUID  `json:"id"`
	RegistrationID uuid.UUID  `json:"registration_id"`
	EmailType      string     `json:"email_type"`
	RecipientEmail string     `json:"recipient_email"`
	Subject        string     `json:"subject,omitempty"`
	Status         string     `json:"status"`
	MessageID      string     `json:"message_id,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}
