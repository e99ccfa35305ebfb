package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendMailer sends email through the Resend transactional mail API.
// Each send is bounded by a timeout so a hanging provider cannot stall
// the request indefinitely.
type ResendMailer struct {
	client  *resend.Client
	timeout time.Duration
	logger  *slog.Logger
}

// NewResend creates a ResendMailer. An empty apiKey yields a mailer whose
// Send always returns ErrNotConfigured without any outbound call.
func NewResend(apiKey string, timeout time.Duration, logger *slog.Logger) *ResendMailer {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &ResendMailer{client: client, timeout: timeout, logger: logger}
}

// Configured reports whether an API key was provided
func (m *ResendMailer) Configured() bool {
	return m.client != nil
}

// Send dispatches one email through Resend
func (m *ResendMailer) Send(ctx context.Context, email Email) (DispatchResult, error) {
	if m.client == nil {
		return DispatchResult{}, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	})
	if err != nil {
		return DispatchResult{}, fmt.Errorf("resend send failed: %w", err)
	}

	m.logger.Debug("Email dispatched", "provider_id", sent.Id, "subject", email.Subject)
	return DispatchResult{ID: sent.Id}, nil
}
