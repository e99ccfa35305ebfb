package antispam

import (
	"testing"
	"time"
)

// fakeClock is an adjustable clock for window tests
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestEngine(clock *fakeClock) *Engine {
	return NewEngine(DefaultConfig(), NewMemoryStore(), clock.Now)
}

func TestIsHoneypotFilled(t *testing.T) {
	e := newTestEngine(newFakeClock())

	tests := []struct {
		name string
		form map[string]string
		want bool
	}{
		{"empty honeypot passes", map[string]string{"website": ""}, false},
		{"absent honeypot passes", map[string]string{}, false},
		{"filled honeypot caught", map[string]string{"website": "http://spam.example"}, true},
		{"whitespace counts as filled", map[string]string{"website": " "}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.IsHoneypotFilled(tt.form); got != tt.want {
				t.Errorf("IsHoneypotFilled(%v) = %v, want %v", tt.form, got, tt.want)
			}
		})
	}
}

func TestIsClickSpam_WindowLimit(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(clock)

	for i := 0; i < 10; i++ {
		if e.IsClickSpam("client-a") {
			t.Fatalf("click %d within limit was flagged as spam", i+1)
		}
		clock.Advance(time.Second)
	}

	if !e.IsClickSpam("client-a") {
		t.Fatal("11th click inside the minute was not flagged")
	}

	// Another client is unaffected
	if e.IsClickSpam("client-b") {
		t.Fatal("unrelated client was flagged")
	}

	// Once the window rolls past the earliest clicks, clicking resumes
	clock.Advance(time.Minute)
	if e.IsClickSpam("client-a") {
		t.Fatal("click after the window rolled over was still flagged")
	}
}

func TestIsClickSpam_RejectedClickNotRecorded(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(clock)

	for i := 0; i < 10; i++ {
		e.IsClickSpam("client-a")
	}
	// Hammering while blocked must not extend the block
	for i := 0; i < 5; i++ {
		if !e.IsClickSpam("client-a") {
			t.Fatal("expected click to stay blocked inside the window")
		}
	}

	clock.Advance(61 * time.Second)
	if e.IsClickSpam("client-a") {
		t.Fatal("window rolled over but client is still blocked; rejected clicks were recorded")
	}
}

func TestIsFormSpam_HourlyLimit(t *testing.T) {
	clock := newFakeClock()
	e := newTestEngine(clock)

	for i := 0; i < 5; i++ {
		if e.IsFormSpam("client-a") {
			t.Fatalf("submission %d within limit was flagged", i+1)
		}
		clock.Advance(time.Minute)
	}

	if !e.IsFormSpam("client-a") {
		t.Fatal("6th submission inside the hour was not flagged")
	}

	clock.Advance(time.Hour)
	if e.IsFormSpam("client-a") {
		t.Fatal("submission after the hour rolled over was still flagged")
	}
}

func TestIsBot(t *testing.T) {
	e := newTestEngine(newFakeClock())

	human := ClientSignals{
		ScriptContext:       true,
		RenderToInteraction: 2 * time.Second,
		CookiesEnabled:      true,
	}

	tests := []struct {
		name   string
		mutate func(*ClientSignals)
		want   bool
	}{
		{"human signals pass", func(s *ClientSignals) {}, false},
		{"no script context", func(s *ClientSignals) { s.ScriptContext = false }, true},
		{"instant interaction", func(s *ClientSignals) { s.RenderToInteraction = 50 * time.Millisecond }, true},
		{"cookies disabled", func(s *ClientSignals) { s.CookiesEnabled = false }, true},
		{"interaction exactly at threshold", func(s *ClientSignals) { s.RenderToInteraction = MinInteractionDelay }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := human
			tt.mutate(&sig)
			if got := e.IsBot(sig); got != tt.want {
				t.Errorf("IsBot(%+v) = %v, want %v", sig, got, tt.want)
			}
		})
	}
}

func TestMouseInteractionFlag(t *testing.T) {
	e := newTestEngine(newFakeClock())

	if e.HasMouseInteraction("client-a") {
		t.Fatal("mouse interaction reported before any was recorded")
	}
	e.RecordMouseInteraction("client-a")
	if !e.HasMouseInteraction("client-a") {
		t.Fatal("recorded mouse interaction not reported")
	}
	if e.HasMouseInteraction("client-b") {
		t.Fatal("mouse interaction leaked to another client")
	}
}

func TestMemoryStore_CountPrunes(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	store.Record("k", base)
	store.Record("k", base.Add(30*time.Second))
	store.Record("k", base.Add(90*time.Second))

	if got := store.Count("k", base.Add(time.Minute)); got != 1 {
		t.Errorf("Count after cutoff = %d, want 1", got)
	}
	// Pruned entries stay gone even with an earlier cutoff
	if got := store.Count("k", base.Add(-time.Hour)); got != 1 {
		t.Errorf("Count with earlier cutoff = %d, want 1 (pruning must be permanent)", got)
	}
}
