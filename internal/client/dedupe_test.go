package client

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fakeClock is a manually advanced logical clock for dedupe tests.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time { return f.t }

func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func TestDedupe_SuppressesRepeatWithinWindow(t *testing.T) {
	clock := newFakeClock()
	cache := newDedupeCache(clock.Now)

	assert.False(t, cache.Seen("msg-1"))
	assert.True(t, cache.Seen("msg-1"))

	clock.Advance(5 * time.Second)
	assert.True(t, cache.Seen("msg-1"))
}

func TestDedupe_ExpiresAfterWindow(t *testing.T) {
	clock := newFakeClock()
	cache := newDedupeCache(clock.Now)

	assert.False(t, cache.Seen("msg-1"))

	clock.Advance(dedupeWindow)
	assert.False(t, cache.Seen("msg-1"))
}

func TestDedupe_KindIsPartOfKey(t *testing.T) {
	clock := newFakeClock()
	cache := newDedupeCache(clock.Now)

	created := Event{Kind: "new-message", MessageID: "msg-1"}
	deleted := Event{Kind: "message-deleted", MessageID: "msg-1"}

	assert.False(t, cache.Seen(dedupeKey(created)))
	assert.True(t, cache.Seen(dedupeKey(created)))

	// A deletion sharing the message id is a distinct event, not a duplicate.
	assert.False(t, cache.Seen(dedupeKey(deleted)))
	assert.True(t, cache.Seen(dedupeKey(deleted)))
}

func TestDedupe_EventsWithoutMessageIDPassThrough(t *testing.T) {
	cache := newDedupeCache(newFakeClock().Now)

	snapshot := Event{Kind: "presence-snapshot"}
	assert.False(t, cache.Seen(dedupeKey(snapshot)))
	assert.False(t, cache.Seen(dedupeKey(snapshot)))
}

func TestDedupe_EmptyIDNeverDeduped(t *testing.T) {
	cache := newDedupeCache(newFakeClock().Now)

	assert.False(t, cache.Seen(""))
	assert.False(t, cache.Seen(""))
}

func TestDedupe_EvictsAtCapacity(t *testing.T) {
	clock := newFakeClock()
	cache := newDedupeCache(clock.Now)

	for i := 0; i < dedupeCap; i++ {
		// Spread timestamps so eviction order is well defined.
		clock.Advance(time.Millisecond)
		assert.False(t, cache.Seen(fmt.Sprintf("msg-%d", i)))
	}

	// The next insert evicts the oldest entry, so msg-0 reads as unseen
	// while a recent id is still suppressed.
	clock.Advance(time.Millisecond)
	assert.False(t, cache.Seen("overflow"))
	assert.True(t, cache.Seen(fmt.Sprintf("msg-%d", dedupeCap-1)))
	assert.False(t, cache.Seen("msg-0"))
}
