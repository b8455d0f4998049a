package repositories

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
)

// InvoiceRepositoryFacade exposes the payment confirmation procedure.
type InvoiceRepositoryFacade interface {
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// SaveInvoice records a new credit sale. Returns apperrors.ErrDuplicate if the ID is taken.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	// ApplyInvoicePayment adds the payment to amount_paid and recomputes the status
	// in one conditional update. Returns apperrors.ErrNotFound for an unknown invoice
	// and apperrors.ErrValidation when the payment would exceed the outstanding amount.
	ApplyInvoicePayment(ctx context.Context, payment domain.InvoicePayment) (*domain.Invoice, error)
}
