package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
)

type invoiceRepository struct {
	q dbtx
}

var _ portsrepo.InvoiceRepositoryFacade = (*invoiceRepository)(nil)

func (r *invoiceRepository) SaveInvoice(ctx context.Context, inv domain.Invoice) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invoices (invoice_id, customer_name, total_amount, amount_paid, status, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		inv.InvoiceID, inv.CustomerName, inv.TotalAmount, inv.AmountPaid,
		domain.InvoiceStatusFor(inv.TotalAmount, inv.AmountPaid), formatTime(inv.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrDuplicate, inv.InvoiceID)
		}
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	var (
		inv       domain.Invoice
		updatedAt string
	)
	err := r.q.QueryRowContext(ctx, `
		SELECT invoice_id, customer_name, total_amount, amount_paid, status, updated_at
		FROM invoices WHERE invoice_id = ?`, invoiceID).
		Scan(&inv.InvoiceID, &inv.CustomerName, &inv.TotalAmount, &inv.AmountPaid, &inv.Status, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("invoice", invoiceID)
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	if inv.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ApplyInvoicePayment reads and updates inside one transaction; the update is
// conditional on the amount it read, so a lost race surfaces as a conflict.
func (r *invoiceRepository) ApplyInvoicePayment(ctx context.Context, payment domain.InvoicePayment) (*domain.Invoice, error) {
	var updated *domain.Invoice
	err := inTx(ctx, r.q, func(tx dbtx) error {
		txRepo := &invoiceRepository{q: tx}
		inv, err := txRepo.FindInvoiceByID(ctx, payment.InvoiceID)
		if err != nil {
			return err
		}
		paid := inv.AmountPaid.Add(payment.Amount)
		if paid.GreaterThan(inv.TotalAmount) {
			return apperrors.NewValidationError("payment of %s exceeds the outstanding %s on invoice %s",
				payment.Amount, inv.TotalAmount.Sub(inv.AmountPaid), inv.InvoiceID)
		}
		status := domain.InvoiceStatusFor(inv.TotalAmount, paid)

		res, err := tx.ExecContext(ctx, `
			UPDATE invoices SET amount_paid = ?, status = ?, updated_at = ?
			WHERE invoice_id = ? AND amount_paid = ?`,
			paid, status, formatTime(payment.PaidAt), inv.InvoiceID, inv.AmountPaid)
		if err != nil {
			return fmt.Errorf("failed to update invoice: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return err
		} else if n == 0 {
			return fmt.Errorf("%w: invoice %s changed concurrently", apperrors.ErrConflict, inv.InvoiceID)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO invoice_payments (invoice_id, amount, method, paid_at) VALUES (?, ?, ?, ?)`,
			inv.InvoiceID, payment.Amount, payment.Method, formatTime(payment.PaidAt)); err != nil {
			return fmt.Errorf("failed to record invoice payment: %w", err)
		}

		inv.AmountPaid = paid
		inv.Status = status
		inv.UpdatedAt = payment.PaidAt.UTC()
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
