package pgsql

import (
	"context"
	"fmt"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
)

type PgxInvoiceRepository struct {
	BaseRepository
}

var _ portsrepo.InvoiceRepositoryFacade = (*PgxInvoiceRepository)(nil)

const invoiceColumns = `invoice_id, customer_name, total_amount, amount_paid, status, updated_at`

func scanInvoice(row pgx.Row) (*domain.Invoice, error) {
	var inv domain.Invoice
	if err := row.Scan(&inv.InvoiceID, &inv.CustomerName, &inv.TotalAmount, &inv.AmountPaid,
		&inv.Status, &inv.UpdatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PgxInvoiceRepository) SaveInvoice(ctx context.Context, inv domain.Invoice) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		inv.InvoiceID, inv.CustomerName, inv.TotalAmount, inv.AmountPaid,
		domain.InvoiceStatusFor(inv.TotalAmount, inv.AmountPaid), inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: invoice %s", apperrors.ErrDuplicate, inv.InvoiceID)
		}
		return fmt.Errorf("failed to insert invoice: %w", err)
	}
	return nil
}

func (r *PgxInvoiceRepository) FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE invoice_id = $1`, invoiceID))
	if err != nil {
		if isNoRow(err) {
			return nil, apperrors.NewNotFoundError("invoice", invoiceID)
		}
		return nil, fmt.Errorf("failed to load invoice: %w", err)
	}
	return inv, nil
}

// ApplyInvoicePayment adds the payment and recomputes the status in a single
// UPDATE; the overpayment guard is part of its WHERE clause.
func (r *PgxInvoiceRepository) ApplyInvoicePayment(ctx context.Context, payment domain.InvoicePayment) (*domain.Invoice, error) {
	var updated *domain.Invoice
	err := r.inTx(ctx, func(tx pgx.Tx) error {
		inv, err := scanInvoice(tx.QueryRow(ctx, `
			UPDATE invoices SET
				amount_paid = amount_paid + $2,
				status = CASE
					WHEN amount_paid + $2 >= total_amount THEN $4::varchar
					WHEN amount_paid + $2 > 0 THEN $5::varchar
					ELSE $6::varchar
				END,
				updated_at = $3
			WHERE invoice_id = $1 AND amount_paid + $2 <= total_amount
			RETURNING `+invoiceColumns,
			payment.InvoiceID, payment.Amount, payment.PaidAt,
			domain.InvoicePaid, domain.InvoicePartiallyPaid, domain.InvoiceUnpaid))
		if err != nil {
			if !isNoRow(err) {
				return fmt.Errorf("failed to update invoice: %w", err)
			}
			current, findErr := (&PgxInvoiceRepository{BaseRepository: BaseRepository{q: tx}}).FindInvoiceByID(ctx, payment.InvoiceID)
			if findErr != nil {
				return findErr
			}
			return apperrors.NewValidationError("payment of %s exceeds the outstanding %s on invoice %s",
				payment.Amount, current.TotalAmount.Sub(current.AmountPaid), current.InvoiceID)
		}

		if _, err := tx.Exec(ctx, `
			INSERT INTO invoice_payments (invoice_id, amount, method, paid_at) VALUES ($1, $2, $3, $4)`,
			payment.InvoiceID, payment.Amount, payment.Method, payment.PaidAt); err != nil {
			return fmt.Errorf("failed to record invoice payment: %w", err)
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
