package middleware

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// errStore always fails, simulating a degraded shared store
type errStore struct{}

func (errStore) Tally(context.Context, string, time.Time, time.Duration) (int, error) {
	return 0, errors.New("store down")
}

func TestMemoryStore_TallyCountsWindow(t *testing.T) {
	store := NewMemoryStore(0)
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	window := time.Minute

	for i := 0; i < 3; i++ {
		at := base.Add(time.Duration(i) * 10 * time.Second)
		count, err := store.Tally(context.Background(), "ip", at, window)
		if err != nil {
			t.Fatalf("Tally returned error: %v", err)
		}
		if count != i+1 {
			t.Errorf("count after event %d = %d, want %d", i+1, count, i+1)
		}
	}

	// Events outside the window are pruned
	count, err := store.Tally(context.Background(), "ip", base.Add(70*time.Second), window)
	if err != nil {
		t.Fatalf("Tally returned error: %v", err)
	}
	if count != 2 {
		t.Errorf("count after window moved = %d, want 2 (one old kept, one new)", count)
	}
}

func TestMemoryStore_KeysAreIndependent(t *testing.T) {
	store := NewMemoryStore(0)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	_, _ = store.Tally(context.Background(), "a", now, time.Minute)
	count, _ := store.Tally(context.Background(), "b", now, time.Minute)
	if count != 1 {
		t.Errorf("count for fresh key = %d, want 1", count)
	}
}

func TestRateLimiter_EnforcesLimit(t *testing.T) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(NewMemoryStore(0), 3, time.Minute, "slow down", nil, clock.Now)

	for i := 0; i < 3; i++ {
		allowed, remaining := rl.Allow(context.Background(), "ip")
		if !allowed {
			t.Fatalf("request %d blocked inside the limit", i+1)
		}
		if remaining != 3-(i+1) {
			t.Errorf("remaining after request %d = %d, want %d", i+1, remaining, 3-(i+1))
		}
	}

	allowed, remaining := rl.Allow(context.Background(), "ip")
	if allowed {
		t.Fatal("request over the limit was allowed")
	}
	if remaining != 0 {
		t.Errorf("remaining over the limit = %d, want 0", remaining)
	}

	clock.Advance(2 * time.Minute)
	if allowed, _ := rl.Allow(context.Background(), "ip"); !allowed {
		t.Fatal("request after the window rolled over was blocked")
	}
}

func TestRateLimiter_FailsOpenOnStoreError(t *testing.T) {
	rl := NewRateLimiter(errStore{}, 1, time.Minute, "slow down", nil, nil)

	for i := 0; i < 5; i++ {
		if allowed, _ := rl.Allow(context.Background(), "ip"); !allowed {
			t.Fatal("degraded store must not block requests")
		}
	}
}
