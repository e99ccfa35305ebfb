package antispam

import (
	"sync"
	"time"
)

// CounterStore persists per-client rolling event timestamps and flags.
// Implementations prune expired entries on access; callers never see
// timestamps older than the cutoff they pass.
type CounterStore interface {
	// Record appends an event timestamp for key.
	Record(key string, at time.Time)
	// Count drops entries at or before cutoff and returns how many remain.
	Count(key string, cutoff time.Time) int
	// SetFlag stores a named boolean flag.
	SetFlag(key string, value bool)
	// Flag returns a named boolean flag, false when unset.
	Flag(key string) bool
}

// MemoryStore is the in-process CounterStore. Counters live for the
// process lifetime and are only trimmed by pruning.
type MemoryStore struct {
	mu     sync.Mutex
	events map[string][]time.Time
	flags  map[string]bool
}

// NewMemoryStore creates an empty in-process store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events: make(map[string][]time.Time),
		flags:  make(map[string]bool),
	}
}

// Record appends an event timestamp for key
func (m *MemoryStore) Record(key string, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[key] = append(m.events[key], at)
}

// Count prunes entries at or before cutoff and returns the remainder
func (m *MemoryStore) Count(key string, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	events := m.events[key]
	valid := events[:0]
	for _, t := range events {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		delete(m.events, key)
		return 0
	}
	m.events[key] = valid
	return len(valid)
}

// SetFlag stores a named boolean flag
func (m *MemoryStore) SetFlag(key string, value bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flags[key] = value
}

// Flag returns a named boolean flag, false when unset
func (m *MemoryStore) Flag(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.flags[key]
}
