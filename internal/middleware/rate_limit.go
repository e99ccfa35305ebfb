package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dantemoss/moss/internal/metrics"
)

// RateStore records one request event and reports how many events remain
// inside the trailing window. Implementations prune expired entries on
// every call. The in-process store is only correct for a single
// instance; multi-instance deployments use the Redis store.
type RateStore interface {
	Tally(ctx context.Context, key string, now time.Time, window time.Duration) (int, error)
}

// MemoryStore is the in-process RateStore: per-key timestamp slices
// pruned on access, with a background sweep evicting idle keys.
type MemoryStore struct {
	mu       sync.Mutex
	requests map[string][]time.Time
}

// NewMemoryStore creates a MemoryStore and starts its sweep goroutine.
func NewMemoryStore(sweepEvery time.Duration) *MemoryStore {
	s := &MemoryStore{requests: make(map[string][]time.Time)}
	if sweepEvery > 0 {
		go s.sweep(sweepEvery)
	}
	return s
}

// Tally records the request and returns the in-window count including it
func (s *MemoryStore) Tally(_ context.Context, key string, now time.Time, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := now.Add(-window)
	valid := s.requests[key][:0]
	for _, t := range s.requests[key] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	valid = append(valid, now)
	s.requests[key] = valid
	return len(valid), nil
}

// sweep periodically drops keys whose newest entry is stale
func (s *MemoryStore) sweep(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-every)
		s.mu.Lock()
		for key, times := range s.requests {
			if len(times) == 0 || !times[len(times)-1].After(cutoff) {
				delete(s.requests, key)
			}
		}
		s.mu.Unlock()
	}
}

// RateLimiter enforces a sliding-window per-IP request limit for API
// paths. The store and clock are injected so tests can fake both.
type RateLimiter struct {
	store   RateStore
	limit   int
	window  time.Duration
	message string
	now     func() time.Time
	logger  *slog.Logger
}

// NewRateLimiter creates a RateLimiter. A nil now defaults to time.Now.
func NewRateLimiter(store RateStore, limit int, window time.Duration, message string, logger *slog.Logger, now func() time.Time) *RateLimiter {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RateLimiter{
		store:   store,
		limit:   limit,
		window:  window,
		message: message,
		now:     now,
		logger:  logger,
	}
}

// Allow records a request for key and reports whether it stays within
// the limit. A store failure fails open so a degraded cache never takes
// the API down.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int) {
	count, err := rl.store.Tally(ctx, key, rl.now(), rl.window)
	if err != nil {
		rl.logger.Error("Rate limit store unavailable, allowing request", "error", err)
		return true, 0
	}
	remaining := rl.limit - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.limit, remaining
}

// reject writes the fixed 429 response
func (rl *RateLimiter) reject(w http.ResponseWriter) {
	metrics.RateLimitHits.Inc()
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(int(rl.window.Seconds())))
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": rl.message})
}
