package domain

import "time"

// Cashier is a till operator. The PIN hash is never serialised.
type Cashier struct {
	CashierID string    `json:"cashierID"`
	Name      string    `json:"name"`
	PINHash   string    `json:"-"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}
