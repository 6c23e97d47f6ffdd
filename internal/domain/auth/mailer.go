package auth

import (
	"context"

	"meditrack/pkg/logger"
)

// LogMailer is the default Mailer: it records the notification instead of
// delivering it. Real delivery is wired by the deployment, not by this core.
type LogMailer struct{}

// NewLogMailer creates a log-backed mailer.
func NewLogMailer() *LogMailer {
	return &LogMailer{}
}

// Send logs the outgoing notification.
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	logger.Info(ctx, "mail notification",
		"to", to,
		"subject", subject,
		"body_len", len(body),
	)
	return nil
}
