package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type stockRepository struct {
	q dbtx
}

var _ portsrepo.StockRepositoryFacade = (*stockRepository)(nil)

// AdjustStock checks and updates in one statement; a refused change leaves the row untouched.
func (r *stockRepository) AdjustStock(ctx context.Context, productID string, quantityChange int) (domain.StockAdjustment, error) {
	var stock int
	err := r.q.QueryRowContext(ctx, `
		UPDATE products SET stock = stock + ?
		WHERE product_id = ? AND stock + ? >= 0
		RETURNING stock`, quantityChange, productID, quantityChange).Scan(&stock)
	if err == nil {
		return domain.StockAdjustment{Success: true, CurrentStock: &stock}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return domain.StockAdjustment{}, fmt.Errorf("failed to adjust stock: %w", err)
	}

	product, err := r.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.StockAdjustment{
				ErrorCode: domain.StockErrProductNotFound,
				Error:     fmt.Sprintf("product %s not found", productID),
			}, nil
		}
		return domain.StockAdjustment{}, err
	}
	current := product.Stock
	return domain.StockAdjustment{
		CurrentStock: &current,
		ErrorCode:    domain.StockErrInsufficient,
		Error:        fmt.Sprintf("product %s has %d in stock, change of %d refused", productID, current, quantityChange),
	}, nil
}

func (r *stockRepository) FindProductByID(ctx context.Context, productID string) (*domain.Product, error) {
	var (
		p    domain.Product
		cost decimal.NullDecimal
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT product_id, name, stock, cost_price FROM products WHERE product_id = ?`, productID).
		Scan(&p.ProductID, &p.Name, &p.Stock, &cost)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("product", productID)
		}
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if cost.Valid {
		c := cost.Decimal
		p.CostPrice = &c
	}
	return &p, nil
}

func (r *stockRepository) UpsertProduct(ctx context.Context, product domain.Product) error {
	if product.Stock < 0 {
		return apperrors.NewValidationError("stock must not be negative")
	}
	var cost decimal.NullDecimal
	if product.CostPrice != nil {
		cost = decimal.NewNullDecimal(*product.CostPrice)
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO products (product_id, name, stock, cost_price) VALUES (?, ?, ?, ?)
		ON CONFLICT (product_id) DO UPDATE SET name = excluded.name, stock = excluded.stock, cost_price = excluded.cost_price`,
		product.ProductID, product.Name, product.Stock, cost)
	if err != nil {
		return fmt.Errorf("failed to upsert product: %w", err)
	}
	return nil
}
