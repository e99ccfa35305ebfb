// Package antispam implements the spam and bot heuristics guarding the
// contact form: honeypot detection, rolling click and submission gates,
// and behavioral bot-likelihood signals. Every check is advisory; a
// failing check blocks submission with a generic error so abusers get no
// hint of which heuristic fired.
package antispam

import (
	"time"
)

// Storage key prefixes, one counter series per client
const (
	clickKeyPrefix      = "emailClicks:"
	submissionKeyPrefix = "formSubmissions:"
	mouseKeyPrefix      = "mouseInteraction:"
)

// DefaultHoneypotField is the hidden form field name bots tend to fill
const DefaultHoneypotField = "website"

// MinInteractionDelay is the shortest plausible render-to-interaction
// time for a human; anything faster marks the client as a bot.
const MinInteractionDelay = 100 * time.Millisecond

// Config bounds the rolling-window gates
type Config struct {
	MaxClicksPerMinute        int
	MaxFormSubmissionsPerHour int
	HoneypotField             string
}

// DefaultConfig returns the gate limits used in production
func DefaultConfig() Config {
	return Config{
		MaxClicksPerMinute:        10,
		MaxFormSubmissionsPerHour: 5,
		HoneypotField:             DefaultHoneypotField,
	}
}

// ClientSignals carries the passive bot-likelihood observations collected
// from the client environment.
type ClientSignals struct {
	// ScriptContext is false when no script execution context exists.
	ScriptContext bool
	// RenderToInteraction is the time from page render to first interaction.
	RenderToInteraction time.Duration
	// CookiesEnabled is false when the client disables persistent storage.
	CookiesEnabled bool
}

// Engine runs the spam heuristics against an injected store and clock so
// tests can substitute both.
type Engine struct {
	cfg   Config
	store CounterStore
	now   func() time.Time
}

// NewEngine creates an Engine. A nil now defaults to time.Now.
func NewEngine(cfg Config, store CounterStore, now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	if cfg.HoneypotField == "" {
		cfg.HoneypotField = DefaultHoneypotField
	}
	return &Engine{cfg: cfg, store: store, now: now}
}

// IsHoneypotFilled reports whether the hidden honeypot field carries any
// value. Humans never fill it; a non-empty value marks the request as
// bot-originated.
func (e *Engine) IsHoneypotFilled(form map[string]string) bool {
	return form[e.cfg.HoneypotField] != ""
}

// IsClickSpam records a tracked click for the client and reports whether
// the rolling one-minute window already held the maximum. The triggering
// click is not recorded once the limit is reached, so the window rolls
// over cleanly.
func (e *Engine) IsClickSpam(clientID string) bool {
	now := e.now()
	key := clickKeyPrefix + clientID
	if e.store.Count(key, now.Add(-time.Minute)) >= e.cfg.MaxClicksPerMinute {
		return true
	}
	e.store.Record(key, now)
	return false
}

// IsFormSpam records a submission attempt for the client and reports
// whether the rolling one-hour window already held the maximum.
func (e *Engine) IsFormSpam(clientID string) bool {
	now := e.now()
	key := submissionKeyPrefix + clientID
	if e.store.Count(key, now.Add(-time.Hour)) >= e.cfg.MaxFormSubmissionsPerHour {
		return true
	}
	e.store.Record(key, now)
	return false
}

// IsBot evaluates the passive bot-likelihood signals. Mouse interaction
// is recorded for potential future gating but does not itself block.
func (e *Engine) IsBot(sig ClientSignals) bool {
	if !sig.ScriptContext {
		return true
	}
	if sig.RenderToInteraction < MinInteractionDelay {
		return true
	}
	if !sig.CookiesEnabled {
		return true
	}
	return false
}

// RecordMouseInteraction marks that the client produced mouse movement.
func (e *Engine) RecordMouseInteraction(clientID string) {
	e.store.SetFlag(mouseKeyPrefix+clientID, true)
}

// HasMouseInteraction reports whether mouse movement was ever observed
// for the client.
func (e *Engine) HasMouseInteraction(clientID string) bool {
	return e.store.Flag(mouseKeyPrefix + clientID)
}
