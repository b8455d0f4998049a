// Package events fans shift snapshots out to subscribers keyed by shift id.
package events

import (
	"log/slog"
	"sync"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

const defaultBuffer = 16

// Broker is an in-process publish/subscribe hub for shift events.
// Publish never blocks: a subscriber whose buffer is full misses the event and
// catches up on the next one, since each event is a full snapshot.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[int]chan domain.ShiftEvent
	nextID int
	buffer int
	logger *slog.Logger
}

// NewBroker creates a Broker. A non-positive buffer uses the default.
func NewBroker(buffer int, logger *slog.Logger) *Broker {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker{
		subs:   make(map[string]map[int]chan domain.ShiftEvent),
		buffer: buffer,
		logger: logger.With(slog.String("component", "shift_events")),
	}
}

// Subscribe returns a channel of events for the shift and a cancel func that
// unsubscribes and closes the channel. Cancel is safe to call more than once.
func (b *Broker) Subscribe(shiftID string) (<-chan domain.ShiftEvent, func()) {
	ch := make(chan domain.ShiftEvent, b.buffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.subs[shiftID] == nil {
		b.subs[shiftID] = make(map[int]chan domain.ShiftEvent)
	}
	b.subs[shiftID][id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if shiftSubs, ok := b.subs[shiftID]; ok {
				delete(shiftSubs, id)
				if len(shiftSubs) == 0 {
					delete(b.subs, shiftID)
				}
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of its shift.
func (b *Broker) Publish(event domain.ShiftEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs[event.ShiftID] {
		select {
		case ch <- event:
		default:
			b.logger.Warn("Dropping shift event for slow subscriber",
				slog.String("shift_id", event.ShiftID),
				slog.Int("subscriber", id),
				slog.Int("seq", event.Seq),
			)
		}
	}
}

// Subscribers returns the number of live subscribers of a shift.
func (b *Broker) Subscribers(shiftID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[shiftID])
}
