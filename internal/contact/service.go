// Package contact implements the delivery endpoint of the contact form
// pipeline: redundant server-side validation, content gating, and the
// dispatch of the two templated emails through the transactional mail API.
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dantemoss/moss/internal/antispam"
	"github.com/dantemoss/moss/internal/config"
	"github.com/dantemoss/moss/internal/mailer"
	"github.com/dantemoss/moss/internal/metrics"
	"github.com/dantemoss/moss/internal/validation"
)

// Submission-gate key prefixes track two windows as separate series so
// hourly pruning cannot eat entries the daily window still needs.
const (
	hourlyKeyPrefix = "contactSubmits:1h:"
	dailyKeyPrefix  = "contactSubmits:24h:"
)

// Service validates submissions and dispatches the notification and
// confirmation emails. It holds no state of its own beyond the injected
// submission-gate store.
type Service struct {
	cfg      *config.Config
	mail     mailer.Mailer
	renderer *Renderer
	store    antispam.CounterStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates a Service. A nil now defaults to time.Now.
func NewService(cfg *config.Config, mail mailer.Mailer, store antispam.CounterStore, logger *slog.Logger, now func() time.Time) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Service{
		cfg:      cfg,
		mail:     mail,
		renderer: NewRenderer(cfg.Mail.Timezone),
		store:    store,
		logger:   logger,
		now:      now,
	}
}

// Process runs the full delivery pipeline for one submission. Every
// check must pass before any email is sent. The returned error is one of
// the package sentinels, mailer.ErrNotConfigured, or a wrapped dispatch
// failure.
func (s *Service) Process(ctx context.Context, req ContactRequest, meta RequestMeta) error {
	ref := uuid.NewString()
	log := s.logger.With("submission_ref", ref, "ip", meta.IP)

	if s.gateSubmission(meta.IP) {
		log.Warn("Submission rate gate tripped")
		metrics.SubmissionsRejected.WithLabelValues("rate").Inc()
		return ErrTooManySubmits
	}

	if err := s.validate(req); err != nil {
		log.Warn("Submission rejected by server-side validation", "reason", err.Error())
		metrics.SubmissionsRejected.WithLabelValues("validation").Inc()
		return err
	}

	// Hard precondition: without an API key no outbound call happens.
	if s.cfg.Mail.APIKey == "" {
		log.Error("Mail provider API key is not configured")
		return mailer.ErrNotConfigured
	}

	if err := s.dispatch(ctx, req, meta, log); err != nil {
		return err
	}

	metrics.SubmissionsAccepted.Inc()
	log.Info("Contact submission delivered", "sender_email", req.Email)
	return nil
}

// validate performs the ordered server-side checks: presence, length
// maxima, email shape, blocked words, suspicious patterns.
func (s *Service) validate(req ContactRequest) error {
	if req.Name == "" || req.Email == "" || req.Message == "" {
		return ErrMissingFields
	}

	// Maxima count characters, not bytes
	v := s.cfg.Validation
	if utf8.RuneCountInString(req.Name) > v.MaxNameLength {
		return ErrNameTooLong
	}
	if utf8.RuneCountInString(req.Email) > v.MaxEmailLength {
		return ErrEmailTooLong
	}
	if utf8.RuneCountInString(req.Message) > v.MaxMessageLength {
		return ErrMessageTooLong
	}

	if !validation.EmailShape(req.Email) {
		return ErrInvalidEmail
	}

	lowerMessage := strings.ToLower(req.Message)
	for _, word := range v.BlockedWords {
		if strings.Contains(lowerMessage, strings.ToLower(word)) {
			return ErrBlockedContent
		}
	}

	for _, pattern := range s.cfg.Antispam.SuspiciousPatterns {
		if pattern.MatchString(req.Message) {
			return ErrSuspiciousContent
		}
	}

	return nil
}

// gateSubmission enforces the per-IP submission limits (hourly and
// daily). Both windows stack with the coarser edge limiter.
func (s *Service) gateSubmission(ip string) bool {
	if ip == "" || s.store == nil {
		return false
	}
	now := s.now()

	if s.store.Count(hourlyKeyPrefix+ip, now.Add(-time.Hour)) >= s.cfg.Antispam.MaxSubmissionsPerHr {
		return true
	}
	if s.store.Count(dailyKeyPrefix+ip, now.Add(-24*time.Hour)) >= s.cfg.Antispam.MaxSubmissionsPerDay {
		return true
	}

	s.store.Record(hourlyKeyPrefix+ip, now)
	s.store.Record(dailyKeyPrefix+ip, now)
	return false
}

// dispatch renders and sends the owner notification and the sender
// confirmation, sequentially. A failed notification fails the request; a
// failed confirmation after a delivered notification is logged and
// swallowed, since the sender's intent has been satisfied.
func (s *Service) dispatch(ctx context.Context, req ContactRequest, meta RequestMeta, log *slog.Logger) error {
	ownerHTML, ownerText, err := s.renderer.OwnerNotification(req, meta, s.now())
	if err != nil {
		return fmt.Errorf("render owner notification: %w", err)
	}
	confHTML, confText, err := s.renderer.SenderConfirmation(req)
	if err != nil {
		return fmt.Errorf("render sender confirmation: %w", err)
	}

	notification := mailer.Email{
		From:    s.cfg.Mail.From,
		To:      []string{s.cfg.Mail.OwnerEmail},
		Subject: "New contact message from your portfolio - " + req.Name,
		HTML:    ownerHTML,
		Text:    ownerText,
	}
	result, err := s.mail.Send(ctx, notification)
	if err != nil {
		metrics.EmailsFailed.WithLabelValues("notification").Inc()
		return fmt.Errorf("send owner notification: %w", err)
	}
	metrics.EmailsSent.WithLabelValues("notification").Inc()
	log.Info("Owner notification sent", "provider_id", result.ID)

	confirmation := mailer.Email{
		From:    s.cfg.Mail.From,
		To:      []string{req.Email},
		Subject: "Message received - Dante Moscoso's portfolio",
		HTML:    confHTML,
		Text:    confText,
	}
	result, err = s.mail.Send(ctx, confirmation)
	if err != nil {
		// Owner already notified; the confirmation is best-effort.
		metrics.EmailsFailed.WithLabelValues("confirmation").Inc()
		log.Warn("Sender confirmation failed after successful notification", "error", err)
		return nil
	}
	metrics.EmailsSent.WithLabelValues("confirmation").Inc()
	log.Info("Sender confirmation sent", "provider_id", result.ID)
	return nil
}
