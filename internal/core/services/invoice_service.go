package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/dto"
)

type invoiceService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepositoryFacade
}

// NewInvoiceService creates a new instance of InvoiceService.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, opts ...Option) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		BaseService: newBaseService(opts),
		invoiceRepo: invoiceRepo,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

// ConfirmPayment applies a payment through the store's single conditional update,
// so two confirmations racing on one invoice cannot overpay it.
func (s *invoiceService) ConfirmPayment(ctx context.Context, invoiceID string, req dto.ConfirmPaymentRequest) (*domain.PaymentConfirmation, error) {
	logger := s.GetLogger(ctx).With(slog.String("invoice_id", invoiceID))

	if req.Amount == nil {
		return nil, fmt.Errorf("%w: amount is required", ErrInvalidAmount)
	}
	if err := checkPositiveMoney("amount", *req.Amount); err != nil {
		return nil, err
	}
	if !req.Method.IsComponent() {
		return nil, apperrors.NewValidationError("payment method %q cannot settle an invoice", req.Method)
	}
	paidAt := time.Now().UTC()
	if req.PaidAt != nil {
		paidAt = req.PaidAt.UTC()
	}

	invoice, err := s.invoiceRepo.ApplyInvoicePayment(ctx, domain.InvoicePayment{
		InvoiceID: invoiceID,
		Amount:    *req.Amount,
		Method:    req.Method,
		PaidAt:    paidAt,
	})
	if err != nil {
		logger.Warn("Invoice payment rejected", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Invoice payment confirmed",
		slog.String("amount", req.Amount.String()),
		slog.String("status", string(invoice.Status)))
	return &domain.PaymentConfirmation{Success: true, Invoice: invoice}, nil
}
