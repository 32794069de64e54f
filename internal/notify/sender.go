// Package notify delivers registration confirmation emails.
package notify

import (
	"context"
)

// ContentID is the inline attachment id the HTML body references as cid:qr-code-image.
const ContentID = "qr-code-image"

// AttachmentName is the filename of the inline code image.
const AttachmentName = "qr-code.png"

// Message is one confirmation email.
type Message struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	QRCodePNG []byte
}

// Result is the outcome of a send. Senders report failures here instead of returning errors.
type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Sender sends confirmation emails. Implementations must not panic or block past ctx.
type Sender interface {
	SendConfirmation(ctx context.Context, msg Message) Result
}
