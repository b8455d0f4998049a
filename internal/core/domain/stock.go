package domain

import "github.com/shopspring/decimal"

// Error codes reported by the stock adjustment procedure.
const (
	StockErrInsufficient    = "INSUFFICIENT_STOCK"
	StockErrProductNotFound = "PRODUCT_NOT_FOUND"
	StockErrStore           = "STORE_ERROR"
)

// Product is the slice of the catalogue the till needs.
type Product struct {
	ProductID string           `json:"productID"`
	Name      string           `json:"name"`
	Stock     int              `json:"stock"`
	CostPrice *decimal.Decimal `json:"costPrice,omitempty"`
}

// StockAdjustment is the outcome of one atomic check-and-adjust on a product's stock.
type StockAdjustment struct {
	Success      bool   `json:"success"`
	CurrentStock *int   `json:"currentStock,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
	Error        string `json:"error,omitempty"`
}

// StockShortfallPolicy decides what checkout does when a line item cannot be fulfilled.
type StockShortfallPolicy string

const (
	// StockBestEffort completes the sale and reports shortfalls per line item.
	StockBestEffort StockShortfallPolicy = "best_effort"
	// StockStrict aborts the whole checkout and persists nothing.
	StockStrict StockShortfallPolicy = "strict"
)

// IsValid reports whether p is a known policy.
func (p StockShortfallPolicy) IsValid() bool {
	switch p {
	case StockBestEffort, StockStrict:
		return true
	default:
		return false
	}
}

// StockWarning reports a line item whose stock effect did not apply.
type StockWarning struct {
	ProductID    string `json:"productID"`
	Quantity     int    `json:"quantity"`
	ErrorCode    string `json:"errorCode"`
	CurrentStock *int   `json:"currentStock,omitempty"`
	Message      string `json:"message"`
}
