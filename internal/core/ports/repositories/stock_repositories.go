package repositories

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// StockRepositoryFacade exposes the atomic stock adjustment procedure.
type StockRepositoryFacade interface {
	// AdjustStock applies quantityChange (negative for a sale) as one check-and-update
	// statement. It never lets stock go negative; a refused change is reported in the
	// result with current_stock, not as an error. Errors are store failures only.
	AdjustStock(ctx context.Context, productID string, quantityChange int) (domain.StockAdjustment, error)

	FindProductByID(ctx context.Context, productID string) (*domain.Product, error)

	// UpsertProduct creates the product or replaces its name, stock and cost.
	UpsertProduct(ctx context.Context, product domain.Product) error
}
