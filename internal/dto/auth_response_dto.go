package dto

import "time"

// LoginRequest is a cashier signing in at the till.
type LoginRequest struct {
	CashierID string `json:"cashierID" binding:"required"`
	PIN       string `json:"pin" binding:"required,min=4,max=12"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
