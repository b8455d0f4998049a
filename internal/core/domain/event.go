package domain

import "time"

// ShiftEvent is a snapshot of a shift's till position pushed to live subscribers.
// Seq is the number of ledger entries in the snapshot; the ledger is append-only,
// so a larger Seq is always a newer snapshot.
type ShiftEvent struct {
	ShiftID string         `json:"shiftID"`
	Seq     int            `json:"seq"`
	Status  ShiftStatus    `json:"status"`
	Summary BalanceSummary `json:"summary"`
	At      time.Time      `json:"at"`
}
