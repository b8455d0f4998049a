package domain

import "time"

// AuditFields holds standard audit information for domain entities.
// Ledger rows are append-only, so there is no last-updated pair.
type AuditFields struct {
	CreatedAt time.Time `json:"createdAt"`
	CreatedBy string    `json:"createdBy"` // Cashier or system actor ID
}

// SystemActor is recorded as CreatedBy for rows written by background jobs.
const SystemActor = "system"
