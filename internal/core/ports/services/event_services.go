package services

import "github.com/Africall/sote-minimart/internal/core/domain"

// ShiftEventPublisher pushes shift snapshots to live subscribers.
type ShiftEventPublisher interface {
	Publish(event domain.ShiftEvent)
}

// ShiftEventSubscriber hands out per-shift event streams.
type ShiftEventSubscriber interface {
	Subscribe(shiftID string) (<-chan domain.ShiftEvent, func())
}
