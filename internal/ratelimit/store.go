// Package ratelimit tracks failed login attempts per client key and blocks
// keys that fail too often. State is held in process memory and resets on
// restart, which is acceptable for a low-traffic portal behind a single
// instance.
package ratelimit

import (
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultMaxAttempts is the number of consecutive failures before a
	// key is blocked.
	DefaultMaxAttempts = 3

	// DefaultBlockDuration is how long a blocked key stays blocked. Idle
	// unblocked windows expire after the same duration.
	DefaultBlockDuration = 15 * time.Minute
)

// Config holds tunables for the failed-login store
type Config struct {
	MaxAttempts   int
	BlockDuration time.Duration
}

// entry is the per-key attempt state. blockedSince is zero while the key
// is not blocked. attempts stops incrementing once the key is blocked.
type entry struct {
	attempts      int
	windowStarted time.Time
	blockedSince  time.Time
}

func (e *entry) blocked() bool {
	return !e.blockedSince.IsZero()
}

// Store is a mutex-guarded map of client key to attempt state. Each
// operation locks independently; nothing holds the lock across the
// caller's check-verify-record sequence, so concurrent failures from one
// key can overshoot the threshold by the number of in-flight requests.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	config  Config
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore creates a Store with the given config, applying defaults for
// zero values. Construct once at process start and share.
func NewStore(config Config, logger *slog.Logger) *Store {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = DefaultMaxAttempts
	}
	if config.BlockDuration <= 0 {
		config.BlockDuration = DefaultBlockDuration
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		entries: make(map[string]*entry),
		config:  config,
		logger:  logger,
		now:     time.Now,
	}
}

// RecordFailure records a verified-wrong password for key and returns the
// current failure count. The count freezes once the key is blocked;
// failures submitted while blocked do not increment it.
func (s *Store) RecordFailure(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	e, ok := s.entries[key]
	if !ok {
		s.entries[key] = &entry{attempts: 1, windowStarted: now}
		return 1
	}

	if e.blocked() {
		return e.attempts
	}

	e.attempts++
	if e.attempts >= s.config.MaxAttempts {
		e.blockedSince = now
		s.logger.Warn("client blocked after repeated login failures",
			slog.String("client_key", key),
			slog.Int("attempts", e.attempts),
			slog.Duration("block_duration", s.config.BlockDuration))
	}
	return e.attempts
}

// IsBlocked reports whether key is currently blocked. An expired block is
// removed as a side effect.
func (s *Store) IsBlocked(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.sweepLocked(now)

	e, ok := s.entries[key]
	if !ok || !e.blocked() {
		return false
	}

	if now.Sub(e.blockedSince) >= s.config.BlockDuration {
		delete(s.entries, key)
		return false
	}
	return true
}

// Reset drops all attempt state for key. Called on successful login.
func (s *Store) Reset(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// BlockTimeRemaining returns whole minutes (rounded up) until key is
// unblocked, or 0 if key is not blocked. An expired block is removed.
func (s *Store) BlockTimeRemaining(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || !e.blocked() {
		return 0
	}

	remaining := s.config.BlockDuration - s.now().Sub(e.blockedSince)
	if remaining <= 0 {
		delete(s.entries, key)
		return 0
	}
	return int((remaining + time.Minute - 1) / time.Minute)
}

// FailedAttempts returns the current failure count for key, or 0 if none.
// Read-only: no sweep, no mutation.
func (s *Store) FailedAttempts(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return 0
	}
	return e.attempts
}

// Sweep removes expired blocks and stale unblocked windows. Runs
// opportunistically inside RecordFailure and IsBlocked, and periodically
// from the background sweeper.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.now())
}

// sweepLocked removes every entry whose block has fully elapsed, and every
// unblocked entry whose failure window is older than the block duration.
// Caller must hold mu.
func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	for key, e := range s.entries {
		if e.blocked() {
			if now.Sub(e.blockedSince) >= s.config.BlockDuration {
				delete(s.entries, key)
				removed++
			}
			continue
		}
		if now.Sub(e.windowStarted) >= s.config.BlockDuration {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Size returns the number of tracked keys. Diagnostic only.
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
