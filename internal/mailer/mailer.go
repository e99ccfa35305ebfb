// Package mailer dispatches transactional email through the Resend API.
package mailer

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned when no mail provider API key is present.
// It is a hard precondition failure: no outbound call is attempted.
var ErrNotConfigured = errors.New("mail provider is not configured")

// Email is one outbound email document with both HTML and plain-text bodies
type Email struct {
	From    string
	To      []string
	Subject string
	HTML    string
	Text    string
}

// DispatchResult carries the provider metadata for a successful send
type DispatchResult struct {
	ID string `json:"id"`
}

// Mailer sends a single email and reports the provider result
type Mailer interface {
	Send(ctx context.Context, email Email) (DispatchResult, error)
}
