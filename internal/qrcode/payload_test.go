package qrcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePayload_CanonicalJSON(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.FixedZone("X", 2*3600))
	got, err := EncodePayload(Attendee{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", Phone: "5551234567"}, at)
	require.NoError(t, err)
	assert.Equal(t,
		`{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","phone":"5551234567","timestamp":"2026-03-14T07:26:53.589Z"}`,
		got)
}

func TestEncodePayload_NoHTMLEscaping(t *testing.T) {
	got, err := EncodePayload(Attendee{FirstName: "A&B", LastName: "<Doe>", Email: "a@b.co", Phone: "5551234567"}, time.Unix(0, 0))
	require.NoError(t, err)
	assert.Contains(t, got, `"firstName":"A&B"`)
	assert.Contains(t, got, `"lastName":"<Doe>"`)
}

func TestDecodePayload_RoundTrip(t *testing.T) {
	a := Attendee{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", Phone: "5551234567"}
	now := time.Now()
	s, err := EncodePayload(a, now)
	require.NoError(t, err)

	p, err := DecodePayload(s)
	require.NoError(t, err)
	assert.Equal(t, a, p.Attendee())
	generated, err := p.GeneratedAt()
	require.NoError(t, err)
	assert.WithinDuration(t, now, generated, time.Millisecond)
}

func TestDecodePayload_Rejects(t *testing.T) {
	_, err := DecodePayload("not json")
	assert.Error(t, err)

	_, err = DecodePayload(`{"firstName":"Jane","timestamp":"yesterday"}`)
	assert.Error(t, err)
}

func TestParseDataURL(t *testing.T) {
	b, err := ParseDataURL(ToDataURL([]byte{0x89, 'P', 'N', 'G'}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, b)

	_, err = ParseDataURL("data:image/jpeg;base64,AAAA")
	assert.ErrorIs(t, err, ErrInvalidDataURL)
	_, err = ParseDataURL(DataURLPrefix + "%%%")
	assert.ErrorIs(t, err, ErrInvalidDataURL)
	_, err = ParseDataURL(DataURLPrefix)
	assert.ErrorIs(t, err, ErrInvalidDataURL)
}
