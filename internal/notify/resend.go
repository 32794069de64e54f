package notify

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	errSendFailed   = "failed to send email"
	errNetwork      = "network error while sending email"
	errMissingImage = "missing qr code image"
)

type resendAttachment struct {
	Filename  string `json:"filename"`
	Content   string `json:"content"`
	ContentID string `json:"content_id"`
}

type resendRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	Attachments []resendAttachment `json:"attachments"`
}

type resendResponse struct {
	ID string `json:"id"`
}

type resendError struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}

// ResendConfig configures ResendSender.
type ResendConfig struct {
	BaseURL string
	APIKey  string
	From    string
	Subject string
	Timeout time.Duration
}

// ResendSender sends through the Resend HTTP API.
type ResendSender struct {
	client  *resty.Client
	from    string
	subject string
	logger  *zap.Logger
}

// NewResendSender creates a Resend-backed sender. Requests are never retried.
func NewResendSender(cfg ResendConfig, logger *zap.Logger) *ResendSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &ResendSender{client: client, from: cfg.From, subject: cfg.Subject, logger: logger}
}

// SendConfirmation implements Sender.
func (s *ResendSender) SendConfirmation(ctx context.Context, msg Message) Result {
	if len(msg.QRCodePNG) == 0 {
		return Result{Success: false, Error: errMissingImage}
	}
	html, err := RenderHTML(s.subject, msg)
	if err != nil {
		s.logger.Error("render confirmation email", zap.Error(err))
		return Result{Success: false, Error: errSendFailed}
	}
	req := resendRequest{
		From:    s.from,
		To:      []string{msg.Email},
		Subject: s.subject,
		HTML:    html,
		Attachments: []resendAttachment{{
			Filename:  AttachmentName,
			Content:   base64.StdEncoding.EncodeToString(msg.QRCodePNG),
			ContentID: ContentID,
		}},
	}

	var out resendResponse
	var apiErr resendError
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&apiErr).
		Post("/emails")
	if err != nil {
		s.logger.Error("resend request failed", zap.Error(err), zap.String("email", msg.Email))
		return Result{Success: false, Error: errNetwork}
	}
	if resp.IsError() {
		s.logger.Error("resend returned error",
			zap.Int("status_code", resp.StatusCode()),
			zap.String("name", apiErr.Name),
			zap.String("message", apiErr.Message),
			zap.String("email", msg.Email),
		)
		return Result{Success: false, Error: errSendFailed}
	}

	s.logger.Info("confirmation email sent", zap.String("message_id", out.ID), zap.String("email", msg.Email))
	return Result{Success: true, MessageID: out.ID}
}
