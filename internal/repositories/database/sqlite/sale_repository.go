package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type saleRepository struct {
	q dbtx
}

var _ portsrepo.SaleRepositoryFacade = (*saleRepository)(nil)

func dayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

func (r *saleRepository) SaveSale(ctx context.Context, sale domain.Sale) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sales (sale_id, cashier_id, shift_id, total_amount, payment_method, payment_status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sale.SaleID, sale.CashierID, nullString(sale.ShiftID), sale.TotalAmount,
		sale.PaymentMethod, sale.PaymentStatus, formatTime(sale.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: sale %s", apperrors.ErrDuplicate, sale.SaleID)
		}
		return fmt.Errorf("failed to insert sale: %w", err)
	}
	return nil
}

func (r *saleRepository) SavePaymentTransactions(ctx context.Context, payments []domain.PaymentTransaction) error {
	for _, p := range payments {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO payment_transactions (payment_transaction_id, sale_id, method, amount, reference, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			p.PaymentTransactionID, p.SaleID, p.Method, p.Amount, p.Reference, formatTime(p.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert payment transaction: %w", err)
		}
	}
	return nil
}

func (r *saleRepository) SaveSaleLineItem(ctx context.Context, item domain.SaleLineItem) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO sale_line_items (sale_id, product_id, quantity, unit_price, total_price)
		VALUES (?, ?, ?, ?, ?)`,
		item.SaleID, item.ProductID, item.Quantity, item.UnitPrice, item.TotalPrice)
	if err != nil {
		return fmt.Errorf("failed to insert sale line item: %w", err)
	}
	return nil
}

// IncrementDailySales adds in Go rather than in SQL so the total stays an exact
// decimal; callers run it inside the checkout transaction.
func (r *saleRepository) IncrementDailySales(ctx context.Context, day time.Time, amount decimal.Decimal) error {
	current, err := r.FindDailySales(ctx, day)
	if err != nil {
		return err
	}
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO daily_sales (day, total_sales, sale_count) VALUES (?, ?, 1)
		ON CONFLICT (day) DO UPDATE SET total_sales = excluded.total_sales, sale_count = sale_count + 1`,
		dayKey(day), current.Add(amount))
	if err != nil {
		return fmt.Errorf("failed to update daily sales: %w", err)
	}
	return nil
}

func (r *saleRepository) FindDailySales(ctx context.Context, day time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRowContext(ctx, `SELECT total_sales FROM daily_sales WHERE day = ?`, dayKey(day)).Scan(&total)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read daily sales: %w", err)
	}
	return total, nil
}

func (r *saleRepository) FindSaleDetail(ctx context.Context, saleID string) (*domain.SaleDetail, error) {
	var (
		d         domain.SaleDetail
		shiftID   sql.NullString
		createdAt string
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT sale_id, cashier_id, shift_id, total_amount, payment_method, payment_status, created_at
		FROM sales WHERE sale_id = ?`, saleID).Scan(
		&d.Sale.SaleID, &d.Sale.CashierID, &shiftID, &d.Sale.TotalAmount,
		&d.Sale.PaymentMethod, &d.Sale.PaymentStatus, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("sale", saleID)
		}
		return nil, fmt.Errorf("failed to load sale: %w", err)
	}
	d.Sale.ShiftID = shiftID.String
	if d.Sale.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	if d.LineItems, err = r.lineItems(ctx, saleID); err != nil {
		return nil, err
	}
	if d.Payments, err = r.payments(ctx, saleID); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *saleRepository) lineItems(ctx context.Context, saleID string) ([]domain.SaleLineItem, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT li.sale_id, li.product_id, li.quantity, li.unit_price, li.total_price, p.cost_price
		FROM sale_line_items li
		LEFT JOIN products p ON p.product_id = li.product_id
		WHERE li.sale_id = ? ORDER BY li.line_item_id`, saleID)
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

func (r *saleRepository) payments(ctx context.Context, saleID string) ([]domain.PaymentTransaction, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT payment_transaction_id, sale_id, method, amount, reference, created_at
		FROM payment_transactions WHERE sale_id = ? ORDER BY created_at, payment_transaction_id`, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []domain.PaymentTransaction
	for rows.Next() {
		var (
			p         domain.PaymentTransaction
			createdAt string
		)
		if err := rows.Scan(&p.PaymentTransactionID, &p.SaleID, &p.Method, &p.Amount, &p.Reference, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
