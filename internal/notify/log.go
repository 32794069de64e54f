package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogSender only logs. Used when no email provider is configured.
type LogSender struct {
	logger *zap.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *zap.Logger) *LogSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSender{logger: logger}
}

// SendConfirmation implements Sender.
func (s *LogSender) SendConfirmation(_ context.Context, msg Message) Result {
	s.logger.Info("email provider not configured, skipping confirmation email",
		zap.String("email", msg.Email), zap.Int("image_bytes", len(msg.QRCodePNG)))
	return Result{Success: true}
}

// NewSender returns a ResendSender, or a LogSender when cfg has no API key.
func NewSender(cfg ResendConfig, logger *zap.Logger) Sender {
	if cfg.APIKey == "" {
		return NewLogSender(logger)
	}
	return NewResendSender(cfg, logger)
}
