package ratelimit

import (
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock lets tests advance time without sleeping
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(Config{}, slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	store.now = clock.Now
	return store, clock
}

func TestRecordFailure_BlocksOnThirdAttempt(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Equal(t, 1, store.RecordFailure("10.0.0.1"))
	assert.False(t, store.IsBlocked("10.0.0.1"))

	assert.Equal(t, 2, store.RecordFailure("10.0.0.1"))
	assert.False(t, store.IsBlocked("10.0.0.1"))

	assert.Equal(t, 3, store.RecordFailure("10.0.0.1"))
	assert.True(t, store.IsBlocked("10.0.0.1"))
}

func TestRecordFailure_CountFrozenWhileBlocked(t *testing.T) {
	store, _ := newTestStore(t)

	for i := 0; i < 3; i++ {
		store.RecordFailure("10.0.0.1")
	}

	// Further failures while blocked do not increment
	assert.Equal(t, 3, store.RecordFailure("10.0.0.1"))
	assert.Equal(t, 3, store.RecordFailure("10.0.0.1"))
	assert.Equal(t, 3, store.FailedAttempts("10.0.0.1"))
}

func TestRecordFailure_KeysAreIndependent(t *testing.T) {
	store, _ := newTestStore(t)

	for i := 0; i < 3; i++ {
		store.RecordFailure("10.0.0.1")
	}

	assert.True(t, store.IsBlocked("10.0.0.1"))
	assert.False(t, store.IsBlocked("10.0.0.2"))
	assert.Equal(t, 1, store.RecordFailure("10.0.0.2"))
}

func TestIsBlocked_UnknownKey(t *testing.T) {
	store, _ := newTestStore(t)

	assert.False(t, store.IsBlocked("10.0.0.1"))
	assert.Equal(t, 0, store.FailedAttempts("10.0.0.1"))
}

func TestIsBlocked_BlockExpiresAfterDuration(t *testing.T) {
	store, clock := newTestStore(t)

	for i := 0; i < 3; i++ {
		store.RecordFailure("10.0.0.1")
	}
	assert.True(t, store.IsBlocked("10.0.0.1"))

	clock.Advance(14 * time.Minute)
	assert.True(t, store.IsBlocked("10.0.0.1"))

	clock.Advance(1 * time.Minute)
	assert.False(t, store.IsBlocked("10.0.0.1"))

	// Expired block was removed entirely, not just unblocked
	assert.Equal(t, 0, store.FailedAttempts("10.0.0.1"))
}

func TestReset_ClearsAllState(t *testing.T) {
	store, _ := newTestStore(t)

	for i := 0; i < 3; i++ {
		store.RecordFailure("10.0.0.1")
	}
	assert.True(t, store.IsBlocked("10.0.0.1"))

	store.Reset("10.0.0.1")

	assert.False(t, store.IsBlocked("10.0.0.1"))
	assert.Equal(t, 0, store.FailedAttempts("10.0.0.1"))

	// Counter starts over after a reset
	assert.Equal(t, 1, store.RecordFailure("10.0.0.1"))
}

func TestBlockTimeRemaining_CeilingAndMonotonicDecrease(t *testing.T) {
	store, clock := newTestStore(t)

	assert.Equal(t, 0, store.BlockTimeRemaining("10.0.0.1"))

	for i := 0; i < 3; i++ {
		store.RecordFailure("10.0.0.1")
	}
	assert.Equal(t, 15, store.BlockTimeRemaining("10.0.0.1"))

	clock.Advance(30 * time.Second)
	assert.Equal(t, 15, store.BlockTimeRemaining("10.0.0.1"), "partial minutes round up")

	clock.Advance(30 * time.Second)
	assert.Equal(t, 14, store.BlockTimeRemaining("10.0.0.1"))

	clock.Advance(13 * time.Minute)
	assert.Equal(t, 1, store.BlockTimeRemaining("10.0.0.1"))

	clock.Advance(1 * time.Minute)
	assert.Equal(t, 0, store.BlockTimeRemaining("10.0.0.1"))

	// Lazy expiry removed the record
	assert.Equal(t, 0, store.FailedAttempts("10.0.0.1"))
}

func TestSweep_PurgesIdleUnblockedWindows(t *testing.T) {
	store, clock := newTestStore(t)

	store.RecordFailure("10.0.0.1")
	store.RecordFailure("10.0.0.1")
	assert.Equal(t, 2, store.FailedAttempts("10.0.0.1"))

	clock.Advance(15 * time.Minute)

	// A subsequent operation on any key purges the stale window
	store.RecordFailure("10.0.0.2")
	assert.Equal(t, 0, store.FailedAttempts("10.0.0.1"))

	// The counter restarted from scratch for the original key
	assert.Equal(t, 1, store.RecordFailure("10.0.0.1"))
}

func TestSweep_ExplicitRemovesExpiredEntries(t *testing.T) {
	store, clock := newTestStore(t)

	for i := 0; i < 3; i++ {
		store.RecordFailure("10.0.0.1")
	}
	store.RecordFailure("10.0.0.2")
	assert.Equal(t, 2, store.Size())

	clock.Advance(15 * time.Minute)

	assert.Equal(t, 2, store.Sweep())
	assert.Equal(t, 0, store.Size())
}

func TestSweep_KeepsActiveEntries(t *testing.T) {
	store, clock := newTestStore(t)

	store.RecordFailure("10.0.0.1")
	clock.Advance(5 * time.Minute)

	assert.Equal(t, 0, store.Sweep())
	assert.Equal(t, 1, store.FailedAttempts("10.0.0.1"))
}

func TestStore_ConcurrentAccessIsSafe(t *testing.T) {
	store, _ := newTestStore(t)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(n int) {
			defer func() { done <- struct{}{} }()
			key := fmt.Sprintf("10.0.0.%d", n%4)
			for j := 0; j < 100; j++ {
				store.RecordFailure(key)
				store.IsBlocked(key)
				store.BlockTimeRemaining(key)
				store.FailedAttempts(key)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}

func TestNewStore_AppliesDefaults(t *testing.T) {
	store := NewStore(Config{}, nil)

	assert.Equal(t, DefaultMaxAttempts, store.config.MaxAttempts)
	assert.Equal(t, DefaultBlockDuration, store.config.BlockDuration)
}

func TestNewStore_CustomThreshold(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(Config{MaxAttempts: 5, BlockDuration: time.Minute}, nil)
	store.now = clock.Now

	for i := 0; i < 4; i++ {
		store.RecordFailure("10.0.0.1")
	}
	assert.False(t, store.IsBlocked("10.0.0.1"))

	store.RecordFailure("10.0.0.1")
	assert.True(t, store.IsBlocked("10.0.0.1"))
	assert.Equal(t, 1, store.BlockTimeRemaining("10.0.0.1"))
}
