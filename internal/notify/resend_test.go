package notify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testMessage() Message {
	return Message{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com", Phone: "5551234567", QRCodePNG: []byte("png-bytes")}
}

func newTestSender(url string) *ResendSender {
	return NewResendSender(ResendConfig{
		BaseURL: url,
		APIKey:  "re_test",
		From:    "Event Registration <events@example.com>",
		Subject: "Event Registration Confirmation",
	}, zap.NewNop())
}

func TestResendSender_Success(t *testing.T) {
	var got resendRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_123"}`))
	}))
	defer srv.Close()

	res := newTestSender(srv.URL).SendConfirmation(context.Background(), testMessage())

	assert.Equal(t, Result{Success: true, MessageID: "msg_123"}, res)
	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, []string{"jane@x.com"}, got.To)
	assert.Equal(t, "Event Registration <events@example.com>", got.From)
	assert.Equal(t, "Event Registration Confirmation", got.Subject)
	assert.Contains(t, got.HTML, `src="cid:qr-code-image"`)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "qr-code.png", got.Attachments[0].Filename)
	assert.Equal(t, "qr-code-image", got.Attachments[0].ContentID)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png-bytes")), got.Attachments[0].Content)
}

func TestResendSender_ProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"bad from"}`))
	}))
	defer srv.Close()

	res := newTestSender(srv.URL).SendConfirmation(context.Background(), testMessage())

	assert.False(t, res.Success)
	assert.Equal(t, "failed to send email", res.Error)
	assert.Empty(t, res.MessageID)
}

func TestResendSender_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := newTestSender(url).SendConfirmation(context.Background(), testMessage())

	assert.False(t, res.Success)
	assert.Equal(t, "network error while sending email", res.Error)
}

func TestResendSender_MissingImage(t *testing.T) {
	msg := testMessage()
	msg.QRCodePNG = nil
	res := newTestSender("http://127.0.0.1:1").SendConfirmation(context.Background(), msg)
	assert.False(t, res.Success)
}

func TestRenderHTML_EscapesAttendeeFields(t *testing.T) {
	msg := testMessage()
	msg.FirstName = `<script>alert(1)</script>`
	html, err := RenderHTML("Subject", msg)
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "cid:qr-code-image")
	assert.Contains(t, html, "jane@x.com")
}

func TestLogSender(t *testing.T) {
	res := NewLogSender(nil).SendConfirmation(context.Background(), testMessage())
	assert.True(t, res.Success)
}

func TestNewSender_PicksImplementation(t *testing.T) {
	_, isLog := NewSender(ResendConfig{}, nil).(*LogSender)
	assert.True(t, isLog)
	_, isResend := NewSender(ResendConfig{APIKey: "re_123", BaseURL: "http://localhost"}, nil).(*ResendSender)
	assert.True(t, isResend)
}
