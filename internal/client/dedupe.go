package client

import (
	"sync"
	"time"
)

const (
	// dedupeWindow is how long a message id is remembered. Redeliveries of
	// the same id inside this window are suppressed.
	dedupeWindow = 10 * time.Second

	// dedupeCap bounds the seen-set. When full, the oldest entries are
	// evicted to make room.
	dedupeCap = 1024
)

// dedupeCache is a TTL seen-set over delivery keys. Server-side fanout can
// deliver the same event more than once to the same connection (for example
// when a reconnect races a redelivery), so the client suppresses repeats
// within a short window.
type dedupeCache struct {
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

func newDedupeCache(now func() time.Time) *dedupeCache {
	if now == nil {
		now = time.Now
	}
	return &dedupeCache{
		seen: make(map[string]time.Time),
		now:  now,
	}
}

// Seen records key and reports whether it was already seen within the
// window. Empty keys are never deduplicated; events without a message id
// (presence, typing, group lifecycle) always pass through.
func (d *dedupeCache) Seen(key string) bool {
	if key == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if at, ok := d.seen[key]; ok && now.Sub(at) < dedupeWindow {
		return true
	}

	d.sweep(now)
	d.seen[key] = now
	return false
}

// sweep drops expired entries, then evicts the oldest live entries if the
// set is still at capacity. Caller holds the lock.
func (d *dedupeCache) sweep(now time.Time) {
	for id, at := range d.seen {
		if now.Sub(at) >= dedupeWindow {
			delete(d.seen, id)
		}
	}

	for len(d.seen) >= dedupeCap {
		oldestID := ""
		var oldestAt time.Time
		for id, at := range d.seen {
			if oldestID == "" || at.Before(oldestAt) {
				oldestID, oldestAt = id, at
			}
		}
		delete(d.seen, oldestID)
	}
}
