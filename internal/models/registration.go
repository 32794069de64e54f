package models

import (
	"time"

	"github.com/google/uuid"
)

// AttendeeRegistration is a single event attendee. Rows are written once and never updated.
type AttendeeRegistration struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	QRCode    *string   `json:"qrCode,omitempty"` // data:image/png;base64,...
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"` // equals CreatedAt; there is no update path
}

// FullName returns "First Last".
func (r *AttendeeRegistration) FullName() string {
	return r.FirstName + " " + r.LastName
}
