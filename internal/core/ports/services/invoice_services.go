package services

import (
	"context"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/dto"
)

// InvoiceSvcFacade confirms payments against credit sales.
type InvoiceSvcFacade interface {
	ConfirmPayment(ctx context.Context, invoiceID string, req dto.ConfirmPaymentRequest) (*domain.PaymentConfirmation, error)
}
