// Package ratelimiter throttles protected actions with a sliding window of
// attempt timestamps per identifier (client IP). Registration and login each
// get their own Limiter so their counters stay independent.
package ratelimiter

import (
	"sync"
	"time"
)

// AttemptStore persists attempt timestamps per identifier. The in-memory
// implementation below is safe for a single instance; a multi-instance
// deployment needs a shared TTL-capable store behind the same interface.
type AttemptStore interface {
	// Prune drops attempts older than cutoff and returns the remaining
	// ones, oldest first.
	Prune(identifier string, cutoff time.Time) []time.Time
	Append(identifier string, t time.Time)
	Clear(identifier string)
}

type Limiter struct {
	store       AttemptStore
	maxAttempts int
	window      time.Duration

	now func() time.Time // injectable for tests
}

func New(maxAttempts int, window time.Duration, store AttemptStore) *Limiter {
	return &Limiter{
		store:       store,
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

// Allow reports whether the identifier is under its attempt budget for the
// trailing window. It does not record anything.
func (l *Limiter) Allow(identifier string) bool {
	now := l.now()
	remaining := l.store.Prune(identifier, now.Add(-l.window))
	return len(remaining) < l.maxAttempts
}

// RecordAttempt appends the current time to the identifier's history.
func (l *Limiter) RecordAttempt(identifier string) {
	now := l.now()
	l.store.Append(identifier, now)
	l.store.Prune(identifier, now.Add(-l.window))
}

// Reset clears all attempts for the identifier. Called after a successful
// action so legitimate users are not penalized by earlier failures.
func (l *Limiter) Reset(identifier string) {
	l.store.Clear(identifier)
}

// RetryAfter returns how long until the oldest counted attempt leaves the
// window, clamped to zero.
func (l *Limiter) RetryAfter(identifier string) time.Duration {
	now := l.now()
	remaining := l.store.Prune(identifier, now.Add(-l.window))
	if len(remaining) == 0 {
		return 0
	}
	retryAfter := l.window - now.Sub(remaining[0])
	if retryAfter < 0 {
		return 0
	}
	return retryAfter
}

// MemoryStore keeps attempt history in a map behind a mutex. Identifiers
// whose history prunes to empty are removed so the map does not grow
// unbounded across distinct IPs.
type MemoryStore struct {
	mu       sync.Mutex
	attempts map[string][]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{attempts: make(map[string][]time.Time)}
}

func (s *MemoryStore) Prune(identifier string, cutoff time.Time) []time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.attempts[identifier]
	i := 0
	for i < len(history) && !history[i].After(cutoff) {
		i++
	}
	remaining := history[i:]
	if len(remaining) == 0 {
		delete(s.attempts, identifier)
		return nil
	}
	s.attempts[identifier] = remaining

	out := make([]time.Time, len(remaining))
	copy(out, remaining)
	return out
}

func (s *MemoryStore) Append(identifier string, t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts[identifier] = append(s.attempts[identifier], t)
}

func (s *MemoryStore) Clear(identifier string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, identifier)
}
