package events

import (
	"sync"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// Tracker keeps the latest applied snapshot of a shift and rejects stale ones.
// Events may arrive out of order when two writers publish concurrently, and a
// polling refresh may race a push; only strictly newer snapshots are applied.
type Tracker struct {
	mu      sync.Mutex
	current *domain.ShiftEvent
}

// Apply stores ev if it is newer than the current snapshot and reports whether it did.
// An ended shift is terminal: an active snapshot is never applied over it.
func (t *Tracker) Apply(ev domain.ShiftEvent) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.current != nil {
		if t.current.Status == domain.ShiftEnded && ev.Status != domain.ShiftEnded {
			return false
		}
		newer := ev.Seq > t.current.Seq ||
			(ev.Seq == t.current.Seq && ev.Status == domain.ShiftEnded && t.current.Status != domain.ShiftEnded)
		if !newer {
			return false
		}
	}
	t.current = &ev
	return true
}

// Current returns the latest applied snapshot.
func (t *Tracker) Current() (domain.ShiftEvent, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return domain.ShiftEvent{}, false
	}
	return *t.current, true
}
