package auth

import (
	"context"
	"strings"

	"github.com/kejahlabs/kejah-backend/pkg/logger"
)

// LogSMSSender writes the message to the service log instead of a carrier
// gateway. Demo installs have no carrier, so the log line is where the
// one-time code can be read.
type LogSMSSender struct {
	logg *logger.Logger
}

func NewLogSMSSender(logg *logger.Logger) *LogSMSSender {
	return &LogSMSSender{logg: logg}
}

func (s *LogSMSSender) SendSMS(ctx context.Context, phone, message string) error {
	if s.logg == nil {
		return nil
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"phone":   maskPhone(phone),
		"message": message,
	})
	s.logg.Info(ctx, "sms dispatched")
	return nil
}

func maskPhone(phone string) string {
	trimmed := strings.TrimSpace(phone)
	if len(trimmed) <= 3 {
		return "***"
	}
	return strings.Repeat("*", len(trimmed)-3) + trimmed[len(trimmed)-3:]
}
