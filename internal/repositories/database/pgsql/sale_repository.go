package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PgxSaleRepository struct {
	BaseRepository
}

var _ portsrepo.SaleRepositoryFacade = (*PgxSaleRepository)(nil)

func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func (r *PgxSaleRepository) SaveSale(ctx context.Context, sale domain.Sale) error {
	var shiftID *string
	if sale.ShiftID != "" {
		shiftID = &sale.ShiftID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO sales (sale_id, cashier_id, shift_id, total_amount, payment_method, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sale.SaleID, sale.CashierID, shiftID, sale.TotalAmount,
		sale.PaymentMethod, sale.PaymentStatus, sale.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sale %s", apperrors.ErrDuplicate, sale.SaleID)
		}
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

// SavePaymentTransactions sends all rows in one batch.
func (r *PgxSaleRepository) SavePaymentTransactions(ctx context.Context, payments []domain.PaymentTransaction) error {
	if len(payments) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, p := range payments {
		batch.Queue(`
			INSERT INTO payment_transactions (payment_transaction_id, sale_id, method, amount, reference, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			p.PaymentTransactionID, p.SaleID, p.Method, p.Amount, p.Reference, p.CreatedAt)
	}
	if err := r.q.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert payment transactions: %w", err)
	}
	return nil
}

func (r *PgxSaleRepository) SaveSaleLineItem(ctx context.Context, item domain.SaleLineItem) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO sale_line_items (sale_id, product_id, quantity, unit_price, total_price)
		VALUES ($1, $2, $3, $4, $5)`,
		item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice)
	if err != nil {
		return fmt.Errorf("failed to insert sale line item: %w", err)
	}
	return nil
}

func (r *PgxSaleRepository) IncrementDailySales(ctx context.Context, day time.Time, amount decimal.Decimal) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO daily_sales (day, total_sales, sale_count) VALUES ($1::date, $2, 1)
		ON CONFLICT (day) DO UPDATE SET total_sales = daily_sales.total_sales + EXCLUDED.total_sales,
			sale_count = daily_sales.sale_count + 1`,
		dayKey(day), amount)
	if err != nil {
		return fmt.Errorf("failed to update daily sales: %w", err)
	}
	return nil
}

func (r *PgxSaleRepository) FindDailySales(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT total_sales FROM daily_sales WHERE day = $1::date`, dayKey(day)).Scan(&total)
	if isNoRow(err) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read daily sales: %w", err)
	}
	return total, nil
}

func (r *PgxSaleRepository) FindSaleDetail(ctx context.Context, saleID string) (*domain.SaleDetail, error) {
	var d domain.SaleDetail
	err := r.q.QueryRow(ctx, `
		SELECT sale_id::text, cashier_id, COALESCE(shift_id::text, ''), total_amount,
			payment_method, payment_status, created_at
		FROM sales WHERE sale_id = $1`, saleID).Scan(
		&d.Sale.SaleID, &d.Sale.CashierID, &d.Sale.ShiftID, &d.Sale.TotalAmount,
		&d.Sale.PaymentMethod, &d.Sale.PaymentStatus, &d.Sale.CreatedAt)
	if err != nil {
		if isNoRow(err) {
			return nil, apperrors.NewNotFoundError("sale", saleID)
		}
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}

	if d.LineItems, err = r.lineItems(ctx, saleID); err != nil {
		return nil, err
	}
	if d.Payments, err = r.payments(ctx, saleID); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *PgxSaleRepository) lineItems(ctx context.Context, saleID string) ([]domain.SaleLineItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT li.sale_id::text, li.product_id, li.quantity, li.unit_price, li.total_price, p.cost_price
		FROM sale_line_items li
		LEFT JOIN products p ON p.product_id = li.product_id
		WHERE li.sale_id = $1 ORDER BY li.line_item_id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	var items []domain.SaleLineItem
	for rows.Next() {
		var (
			it   domain.SaleLineItem
			cost decimal.NullDecimal
		)
		if err := rows.Scan(&it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &cost); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		if cost.Valid {
			c := cost.Decimal
			it.UnitCost = &c
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PgxSaleRepository) payments(ctx context.Context, saleID string) ([]domain.PaymentTransaction, error) {
	rows, err := r.q.Query(ctx, `
		SELECT payment_transaction_id::text, sale_id::text, method, amount, reference, created_at
		FROM payment_transactions WHERE sale_id = $1 ORDER BY created_at, payment_transaction_id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.PaymentTransaction
	for rows.Next() {
		var p domain.PaymentTransaction
		if err := rows.Scan(&p.PaymentTransactionID, &p.SaleID, &p.Method, &p.Amount, &p.Reference, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
