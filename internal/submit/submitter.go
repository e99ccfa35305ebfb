// Package submit implements the client-side submission orchestrator: a
// small state machine that sequences validation, spam gating,
// sanitization and the network call, and owns the form state the UI
// renders from.
package submit

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dantemoss/moss/internal/antispam"
	"github.com/dantemoss/moss/internal/messages"
	"github.com/dantemoss/moss/internal/sanitize"
	"github.com/dantemoss/moss/internal/validation"
)

// State is the orchestrator state
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSuccess    State = "success"
	StateError      State = "error"
)

// successResetDelay is how long the success state shows before the form
// returns to idle.
const successResetDelay = 5 * time.Second

// ErrSubmitUnavailable is returned when the submit action is disabled:
// the form is invalid, unchanged from its initial state, or a
// submission is already in flight.
var ErrSubmitUnavailable = errors.New("submit is unavailable")

// UserError carries a message safe to show the user. Diagnostic detail
// is logged, never surfaced; spam rejections stay deliberately vague.
type UserError struct {
	Message string
}

func (e *UserError) Error() string { return e.Message }

// Form is the contact form content including the hidden honeypot field
type Form struct {
	Name    string
	Email   string
	Message string
	Website string // honeypot, never legitimately filled
}

// Poster posts the sanitized payload to the delivery endpoint
type Poster interface {
	Post(ctx context.Context, submission validation.ContactSubmission) error
}

// Orchestrator coordinates the submission pipeline for one client.
type Orchestrator struct {
	mu          sync.Mutex
	state       State
	form        Form
	fieldErrors map[string]string
	dirty       bool

	clientID  string
	engine    *antispam.Engine
	validator *validation.Validator
	sanitizer *sanitize.Sanitizer
	poster    Poster
	catalog   *messages.Catalog
	logger    *slog.Logger
	after     func(time.Duration, func()) *time.Timer
}

// Options configures an Orchestrator
type Options struct {
	ClientID  string
	Engine    *antispam.Engine
	Validator *validation.Validator
	Sanitizer *sanitize.Sanitizer
	Poster    Poster
	Catalog   *messages.Catalog
	Logger    *slog.Logger
	// After schedules the success-to-idle reset; nil uses time.AfterFunc.
	After func(time.Duration, func()) *time.Timer
}

// New creates an Orchestrator in the idle state.
func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	after := opts.After
	if after == nil {
		after = time.AfterFunc
	}
	return &Orchestrator{
		state:       StateIdle,
		fieldErrors: make(map[string]string),
		clientID:    opts.ClientID,
		engine:      opts.Engine,
		validator:   opts.Validator,
		sanitizer:   opts.Sanitizer,
		poster:      opts.Poster,
		catalog:     opts.Catalog,
		logger:      logger,
		after:       after,
	}
}

// State returns the current orchestrator state
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Form returns a copy of the current form content
func (o *Orchestrator) Form() Form {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.form
}

// FieldErrors returns the current field-level validation errors
func (o *Orchestrator) FieldErrors() map[string]string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]string, len(o.fieldErrors))
	for k, v := range o.fieldErrors {
		out[k] = v
	}
	return out
}

// UpdateField sets a form field and re-validates the whole form, the
// validate-on-change behavior. It returns the field errors after the
// change.
func (o *Orchestrator) UpdateField(field, value string) map[string]string {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch field {
	case validation.FieldName:
		o.form.Name = value
	case validation.FieldEmail:
		o.form.Email = value
	case validation.FieldMessage:
		o.form.Message = value
	case antispam.DefaultHoneypotField:
		o.form.Website = value
	}
	o.dirty = true
	o.fieldErrors = o.validator.Validate(o.submission())

	out := make(map[string]string, len(o.fieldErrors))
	for k, v := range o.fieldErrors {
		out[k] = v
	}
	return out
}

// CanSubmit reports whether the submit action is enabled
func (o *Orchestrator) CanSubmit() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.canSubmitLocked()
}

func (o *Orchestrator) canSubmitLocked() bool {
	return o.state != StateSubmitting && o.dirty && len(o.fieldErrors) == 0
}

// AllowClick records a tracked call-to-action click and reports whether
// the action may proceed. When the rolling one-minute window is full the
// click short-circuits with a warning for the user.
func (o *Orchestrator) AllowClick() error {
	if o.engine.IsClickSpam(o.clientID) {
		return &UserError{Message: o.catalog.Get(messages.KeyTooManyClicks)}
	}
	return nil
}

// TrackMouse records passive mouse movement for the bot heuristics
func (o *Orchestrator) TrackMouse() {
	o.engine.RecordMouseInteraction(o.clientID)
}

// Submit runs the submission pipeline: spam gates, field-level spam
// validation, sanitization, then the network POST. On success the form
// clears and the state returns to idle after five seconds; on failure
// the form is retained so the user can correct and resubmit.
func (o *Orchestrator) Submit(ctx context.Context, signals antispam.ClientSignals) error {
	o.mu.Lock()
	if !o.canSubmitLocked() {
		o.mu.Unlock()
		return ErrSubmitUnavailable
	}
	o.state = StateSubmitting
	form := o.form
	o.mu.Unlock()

	if err := o.runPipeline(ctx, form, signals); err != nil {
		o.mu.Lock()
		o.state = StateError
		o.mu.Unlock()
		return err
	}

	o.mu.Lock()
	o.state = StateSuccess
	o.form = Form{}
	o.dirty = false
	o.fieldErrors = make(map[string]string)
	o.mu.Unlock()

	o.after(successResetDelay, func() {
		o.mu.Lock()
		if o.state == StateSuccess {
			o.state = StateIdle
		}
		o.mu.Unlock()
	})
	return nil
}

// runPipeline performs the ordered checks and the network call. Every
// rejection surfaces the same generic message; the real reason is only
// logged.
func (o *Orchestrator) runPipeline(ctx context.Context, form Form, signals antispam.ClientSignals) error {
	honeypot := map[string]string{antispam.DefaultHoneypotField: form.Website}
	if o.engine.IsHoneypotFilled(honeypot) {
		o.logger.Warn("Honeypot field filled, rejecting submission", "client_id", o.clientID)
		return &UserError{Message: o.catalog.Get(messages.KeySpamRejected)}
	}
	if o.engine.IsBot(signals) {
		o.logger.Warn("Bot signals detected, rejecting submission", "client_id", o.clientID)
		return &UserError{Message: o.catalog.Get(messages.KeySpamRejected)}
	}
	if o.engine.IsFormSpam(o.clientID) {
		o.logger.Warn("Submission rate gate tripped", "client_id", o.clientID)
		return &UserError{Message: o.catalog.Get(messages.KeySpamRejected)}
	}

	if !antispam.ValidateEmailForSpam(form.Email) {
		o.logger.Warn("Email failed spam validation", "client_id", o.clientID)
		return &UserError{Message: o.catalog.Get(messages.KeySpamRejected)}
	}
	if !antispam.ValidateMessageForSpam(form.Message) {
		o.logger.Warn("Message failed spam validation", "client_id", o.clientID)
		return &UserError{Message: o.catalog.Get(messages.KeySpamRejected)}
	}

	clean := validation.ContactSubmission{}
	clean.Name, clean.Email, clean.Message = o.sanitizer.CleanAll(form.Name, form.Email, form.Message)

	if err := o.poster.Post(ctx, clean); err != nil {
		o.logger.Error("Contact submission failed", "client_id", o.clientID, "error", err)
		return &UserError{Message: o.catalog.Get(messages.KeySendError)}
	}
	return nil
}

func (o *Orchestrator) submission() validation.ContactSubmission {
	return validation.ContactSubmission{
		Name:    o.form.Name,
		Email:   o.form.Email,
		Message: o.form.Message,
	}
}
