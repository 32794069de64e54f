// Package qrcode builds the scannable attendee code: a JSON payload and its
// PNG (email attachment) and SVG (on-page) renderings.
package qrcode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout matches ISO-8601 with millisecond precision in UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Attendee holds the business fields carried by a code.
type Attendee struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Payload is the decoded content of a code. Field order is the wire order.
type Payload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Timestamp string `json:"timestamp"`
}

// Attendee drops the generation time.
func (p Payload) Attendee() Attendee {
	return Attendee{FirstName: p.FirstName, LastName: p.LastName, Email: p.Email, Phone: p.Phone}
}

// GeneratedAt parses Timestamp.
func (p Payload) GeneratedAt() (time.Time, error) {
	return time.Parse(time.RFC3339Nano, p.Timestamp)
}

// EncodePayload serializes the attendee and generation time into canonical JSON.
// The payload is not signed: anyone able to read a code can produce an equivalent one.
func EncodePayload(a Attendee, generatedAt time.Time) (string, error) {
	p := Payload{
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Email:     a.Email,
		Phone:     a.Phone,
		Timestamp: generatedAt.UTC().Format(TimestampLayout),
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// DecodePayload parses a payload produced by EncodePayload.
func DecodePayload(s string) (Payload, error) {
	var p Payload
	if err := json.Unmarshal([]byte(s), &p); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	if _, err := p.GeneratedAt(); err != nil {
		return Payload{}, fmt.Errorf("decode payload timestamp: %w", err)
	}
	return p, nil
}
