package contact

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dantemoss/moss/internal/antispam"
	"github.com/dantemoss/moss/internal/config"
	"github.com/dantemoss/moss/internal/mailer"
)

// fakeMailer records dispatched emails; failAfter controls which send
// fails (0 = never, 1 = first send, 2 = second send, ...).
type fakeMailer struct {
	sent      []mailer.Email
	failAfter int
	err       error
}

func (m *fakeMailer) Send(_ context.Context, email mailer.Email) (mailer.DispatchResult, error) {
	call := len(m.sent) + 1
	if m.failAfter != 0 && call == m.failAfter {
		return mailer.DispatchResult{}, m.err
	}
	m.sent = append(m.sent, email)
	return mailer.DispatchResult{ID: "msg-test"}, nil
}

type serviceFixture struct {
	svc   *Service
	mail  *fakeMailer
	cfg   *config.Config
	clock time.Time
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		mail:  &fakeMailer{},
		cfg:   config.Load(),
		clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.cfg.Mail.APIKey = "re_test_key"
	f.svc = NewService(f.cfg, f.mail, antispam.NewMemoryStore(), nil, func() time.Time { return f.clock })
	return f
}

func validRequest() ContactRequest {
	return ContactRequest{
		Name:    "Ana María",
		Email:   "ana@example.com",
		Message: "Hello, I would like to work with you on a project.",
	}
}

func testMeta() RequestMeta {
	return RequestMeta{IP: "203.0.113.7", UserAgent: "test-agent/1.0"}
}

func TestProcess_DispatchesBothEmails(t *testing.T) {
	f := newServiceFixture(t)

	if err := f.svc.Process(context.Background(), validRequest(), testMeta()); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(f.mail.sent) != 2 {
		t.Fatalf("expected 2 emails, got %d", len(f.mail.sent))
	}

	notification := f.mail.sent[0]
	if notification.To[0] != f.cfg.Mail.OwnerEmail {
		t.Errorf("notification recipient = %q, want owner %q", notification.To[0], f.cfg.Mail.OwnerEmail)
	}
	if !strings.Contains(notification.Subject, "Ana María") {
		t.Errorf("notification subject %q does not carry the sender name", notification.Subject)
	}
	if !strings.Contains(notification.HTML, "203.0.113.7") {
		t.Error("notification HTML is missing the sender IP")
	}
	if !strings.Contains(notification.HTML, "test-agent/1.0") {
		t.Error("notification HTML is missing the user agent")
	}

	confirmation := f.mail.sent[1]
	if confirmation.To[0] != "ana@example.com" {
		t.Errorf("confirmation recipient = %q, want the sender", confirmation.To[0])
	}
	if !strings.Contains(confirmation.HTML, "Ana María") {
		t.Error("confirmation HTML is missing the sender name")
	}
}

func TestProcess_NoOutboundCallWithoutAPIKey(t *testing.T) {
	f := newServiceFixture(t)
	f.cfg.Mail.APIKey = ""

	err := f.svc.Process(context.Background(), validRequest(), testMeta())
	if !errors.Is(err, mailer.ErrNotConfigured) {
		t.Fatalf("Process without API key = %v, want ErrNotConfigured", err)
	}
	if len(f.mail.sent) != 0 {
		t.Fatalf("expected zero outbound calls, got %d", len(f.mail.sent))
	}
}

func TestProcess_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*ContactRequest)
		wantErr error
	}{
		{"missing name", func(r *ContactRequest) { r.Name = "" }, ErrMissingFields},
		{"missing email", func(r *ContactRequest) { r.Email = "" }, ErrMissingFields},
		{"missing message", func(r *ContactRequest) { r.Message = "" }, ErrMissingFields},
		{"name over limit", func(r *ContactRequest) { r.Name = strings.Repeat("a", 101) }, ErrNameTooLong},
		{"email over limit", func(r *ContactRequest) { r.Email = strings.Repeat("a", 250) + "@x.co" }, ErrEmailTooLong},
		{"message over limit", func(r *ContactRequest) { r.Message = strings.Repeat("a", 2001) }, ErrMessageTooLong},
		{"malformed email", func(r *ContactRequest) { r.Email = "not-an-email" }, ErrInvalidEmail},
		{"blocked word", func(r *ContactRequest) { r.Message = "win big at my online casino tonight" }, ErrBlockedContent},
		{"blocked word case-insensitive", func(r *ContactRequest) { r.Message = "cheap VIAGRA for sale right here" }, ErrBlockedContent},
		{"suspicious pattern", func(r *ContactRequest) { r.Message = "you should buy   now before the price goes up" }, ErrSuspiciousContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			req := validRequest()
			tt.mutate(&req)

			err := f.svc.Process(context.Background(), req, testMeta())
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Process = %v, want %v", err, tt.wantErr)
			}
			if len(f.mail.sent) != 0 {
				t.Fatalf("rejected submission still sent %d emails", len(f.mail.sent))
			}
		})
	}
}

// The server maxima count characters; multibyte text close to the cap
// must pass even though its byte length is double.
func TestProcess_LengthMaximaCountRunes(t *testing.T) {
	f := newServiceFixture(t)

	req := validRequest()
	req.Message = strings.Repeat("á", 1500) // 3000 bytes, 1500 characters
	if err := f.svc.Process(context.Background(), req, testMeta()); err != nil {
		t.Fatalf("1500-character accented message rejected: %v", err)
	}

	f = newServiceFixture(t)
	req = validRequest()
	req.Message = strings.Repeat("á", 2001)
	if err := f.svc.Process(context.Background(), req, testMeta()); !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("2001-character message = %v, want ErrMessageTooLong", err)
	}

	f = newServiceFixture(t)
	req = validRequest()
	req.Name = strings.Repeat("é", 100) // 200 bytes, 100 characters
	if err := f.svc.Process(context.Background(), req, testMeta()); err != nil {
		t.Fatalf("100-character accented name rejected: %v", err)
	}
}

func TestProcess_HourlySubmissionGate(t *testing.T) {
	f := newServiceFixture(t)

	for i := 0; i < 5; i++ {
		if err := f.svc.Process(context.Background(), validRequest(), testMeta()); err != nil {
			t.Fatalf("submission %d failed: %v", i+1, err)
		}
		f.clock = f.clock.Add(time.Minute)
	}

	err := f.svc.Process(context.Background(), validRequest(), testMeta())
	if !errors.Is(err, ErrTooManySubmits) {
		t.Fatalf("6th submission inside the hour = %v, want ErrTooManySubmits", err)
	}

	// A different IP is unaffected
	other := testMeta()
	other.IP = "198.51.100.4"
	if err := f.svc.Process(context.Background(), validRequest(), other); err != nil {
		t.Fatalf("submission from another IP failed: %v", err)
	}

	// The hourly window rolls over
	f.clock = f.clock.Add(time.Hour)
	if err := f.svc.Process(context.Background(), validRequest(), testMeta()); err != nil {
		t.Fatalf("submission after the hour rolled over failed: %v", err)
	}
}

func TestProcess_DailySubmissionGate(t *testing.T) {
	f := newServiceFixture(t)

	// 20 spread wide enough to never trip the hourly gate
	for i := 0; i < 20; i++ {
		if err := f.svc.Process(context.Background(), validRequest(), testMeta()); err != nil {
			t.Fatalf("submission %d failed: %v", i+1, err)
		}
		f.clock = f.clock.Add(30 * time.Minute)
	}

	err := f.svc.Process(context.Background(), validRequest(), testMeta())
	if !errors.Is(err, ErrTooManySubmits) {
		t.Fatalf("21st submission inside the day = %v, want ErrTooManySubmits", err)
	}
}

func TestProcess_NotificationFailureFailsRequest(t *testing.T) {
	f := newServiceFixture(t)
	f.mail.failAfter = 1
	f.mail.err = errors.New("provider down")

	err := f.svc.Process(context.Background(), validRequest(), testMeta())
	if err == nil {
		t.Fatal("expected an error when the owner notification fails")
	}
	if len(f.mail.sent) != 0 {
		t.Fatalf("confirmation was attempted after the notification failed: %d emails", len(f.mail.sent))
	}
}

func TestProcess_ConfirmationFailureIsSwallowed(t *testing.T) {
	f := newServiceFixture(t)
	f.mail.failAfter = 2
	f.mail.err = errors.New("provider down")

	if err := f.svc.Process(context.Background(), validRequest(), testMeta()); err != nil {
		t.Fatalf("confirmation failure must not fail the request, got %v", err)
	}
	if len(f.mail.sent) != 1 {
		t.Fatalf("expected only the notification to be delivered, got %d", len(f.mail.sent))
	}
	if f.mail.sent[0].To[0] != f.cfg.Mail.OwnerEmail {
		t.Errorf("delivered email went to %q, want the owner", f.mail.sent[0].To[0])
	}
}
