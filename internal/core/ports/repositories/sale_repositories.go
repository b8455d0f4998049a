package repositories

import (
	"context"
	"time"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SaleReader defines read operations for sales
type SaleReader interface {
	// FindSaleDetail returns the sale with its line items (unit cost joined from the
	// product catalogue) and payment rows.
	FindSaleDetail(ctx context.Context, saleID string) (*domain.SaleDetail, error)

	// FindDailySales returns the aggregate for the given day, zero if absent.
	FindDailySales(ctx context.Context, day time.Time) (decimal.Decimal, error)
}

// SaleWriter defines write operations for sales
type SaleWriter interface {
	SaveSale(ctx context.Context, sale domain.Sale) error
	SavePaymentTransactions(ctx context.Context, payments []domain.PaymentTransaction) error
	SaveSaleLineItem(ctx context.Context, item domain.SaleLineItem) error

	// IncrementDailySales creates the day's aggregate or adds amount to it.
	IncrementDailySales(ctx context.Context, day time.Time, amount decimal.Decimal) error
}

// SaleRepositoryFacade combines all sale-related repository interfaces
type SaleRepositoryFacade interface {
	SaleReader
	SaleWriter
}
