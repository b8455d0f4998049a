package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentLineItems bounds the stock updates a best-effort checkout runs at once.
const maxConcurrentLineItems = 8

type checkoutService struct {
	BaseService
	repos    portsrepo.RepositoryProvider
	uow      portsrepo.UnitOfWork
	policy   domain.StockShortfallPolicy
	validate *validator.Validate
}

// NewCheckoutService creates a new instance of CheckoutService.
func NewCheckoutService(repos portsrepo.RepositoryProvider, uow portsrepo.UnitOfWork, policy domain.StockShortfallPolicy, opts ...Option) portssvc.CheckoutSvcFacade {
	v := validator.New()
	v.SetTagName("binding")
	return &checkoutService{
		BaseService: newBaseService(opts),
		repos:       repos,
		uow:         uow,
		policy:      policy,
		validate:    v,
	}
}

var _ portssvc.CheckoutSvcFacade = (*checkoutService)(nil)

type paymentComponent struct {
	method domain.PaymentMethod
	amount decimal.Decimal
}

// checkoutPlan is a validated cart with everything derived before the first write.
type checkoutPlan struct {
	items      []domain.SaleLineItem
	total      decimal.Decimal
	components []paymentComponent
	cashDue    decimal.Decimal
	change     decimal.Decimal
}

// Checkout completes a sale. Validation and preconditions run before anything is
// written. The sale, its line items, payments, cash entries and daily aggregate
// commit together; stock follows according to the stock shortfall policy.
func (s *checkoutService) Checkout(ctx context.Context, req dto.CheckoutRequest) (*domain.CheckoutResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("cashier_id", req.CashierID))

	plan, err := s.plan(req)
	if err != nil {
		return nil, err
	}

	// A cash component needs an open drawer. Non-cash sales are still tied to the
	// cashier's shift when one is open.
	var shift *domain.Shift
	active, err := s.repos.ShiftRepo.FindActiveShiftByCashier(ctx, req.CashierID)
	switch {
	case err == nil:
		shift = active
	case errors.Is(err, apperrors.ErrNotFound):
		if plan.cashDue.IsPositive() {
			return nil, fmt.Errorf("%w: cashier %s", ErrNoActiveShift, req.CashierID)
		}
	default:
		return nil, fmt.Errorf("failed to look up active shift: %w", err)
	}

	now := time.Now().UTC()
	sale := domain.Sale{
		SaleID:        uuid.NewString(),
		CashierID:     req.CashierID,
		TotalAmount:   plan.total,
		PaymentMethod: req.PaymentMethod,
		PaymentStatus: domain.PaymentCompleted,
		CreatedAt:     now,
	}
	if shift != nil {
		sale.ShiftID = shift.ShiftID
	}
	for i := range plan.items {
		plan.items[i].SaleID = sale.SaleID
	}

	payments := make([]domain.PaymentTransaction, 0, len(plan.components))
	for _, c := range plan.components {
		payments = append(payments, domain.PaymentTransaction{
			PaymentTransactionID: newLedgerID(),
			SaleID:               sale.SaleID,
			Method:               c.method,
			Amount:               c.amount,
			Reference:            req.Reference,
			CreatedAt:            now,
		})
	}

	var cashEntries []domain.CashTransaction
	if plan.cashDue.IsPositive() {
		cashEntries = append(cashEntries, newCashTransaction(shift.ShiftID, req.CashierID, domain.CashSale,
			domain.DirectionIn, plan.cashDue, "Sale "+sale.SaleID, sale.SaleID, now))
		if plan.change.IsPositive() {
			cashEntries = append(cashEntries, newCashTransaction(shift.ShiftID, req.CashierID, domain.CashChange,
				domain.DirectionOut, plan.change, "Change for sale "+sale.SaleID, sale.SaleID, now))
		}
	}

	result := &domain.CheckoutResult{
		Sale:        sale,
		LineItems:   plan.items,
		Payments:    payments,
		CashEntries: cashEntries,
		Change:      plan.change,
	}

	err = s.uow.WithinTx(ctx, func(repos portsrepo.RepositoryProvider) error {
		if err := repos.SaleRepo.SaveSale(ctx, sale); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		if err := repos.SaleRepo.SavePaymentTransactions(ctx, payments); err != nil {
			return fmt.Errorf("failed to save payments: %w", err)
		}
		for _, entry := range cashEntries {
			if err := appendCash(ctx, repos.CashTransactionRepo, entry); err != nil {
				return err
			}
		}
		if err := repos.SaleRepo.IncrementDailySales(ctx, now, plan.total); err != nil {
			return fmt.Errorf("failed to update daily sales: %w", err)
		}
		for _, item := range plan.items {
			if err := repos.SaleRepo.SaveSaleLineItem(ctx, item); err != nil {
				return fmt.Errorf("failed to save line item for product %s: %w", item.ProductID, err)
			}
		}

		switch s.policy {
		case domain.StockStrict:
			for _, item := range plan.items {
				warning, err := takeStock(ctx, repos, item)
				if err != nil {
					return err
				}
				if warning != nil {
					return fmt.Errorf("%w: %s", ErrInsufficientStock, warning.Message)
				}
			}
			return nil
		case domain.StockBestEffort:
			return nil
		default:
			return fmt.Errorf("unknown stock shortfall policy %q", s.policy)
		}
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) || errors.Is(err, ErrNoActiveShift) {
			logger.Warn("Checkout rejected", slog.String("error", err.Error()))
		} else {
			logger.Error("Checkout failed", slog.String("error", err.Error()))
		}
		return nil, err
	}

	if s.policy == domain.StockBestEffort {
		result.StockWarnings = s.takeStockBestEffort(context.WithoutCancel(ctx), plan.items)
	}

	logger.Info("Sale completed",
		slog.String("sale_id", sale.SaleID),
		slog.String("total", plan.total.String()),
		slog.String("payment_method", string(req.PaymentMethod)),
		slog.Int("stock_warnings", len(result.StockWarnings)))

	s.enqueuePosting(ctx, domain.SourceSale, sale.SaleID)
	if len(cashEntries) > 0 {
		result.ShiftBalance = s.publishShift(ctx, s.repos, shift.ShiftID)
	}
	return result, nil
}

// plan validates the request and derives totals, payment components and change.
func (s *checkoutService) plan(req dto.CheckoutRequest) (*checkoutPlan, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if req.CashierID == "" {
		return nil, apperrors.NewValidationError("cashier ID is required")
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	p := &checkoutPlan{
		items:   make([]domain.SaleLineItem, 0, len(req.Items)),
		total:   decimal.Zero,
		cashDue: decimal.Zero,
		change:  decimal.Zero,
	}
	for _, it := range req.Items {
		if err := checkMoney("unit price for "+it.ProductID, it.UnitPrice); err != nil {
			return nil, err
		}
		item, err := domain.NewSaleLineItem("", it.ProductID, it.Quantity, it.UnitPrice)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		p.items = append(p.items, item)
		p.total = p.total.Add(item.TotalPrice)
	}
	if !p.total.IsPositive() {
		return nil, fmt.Errorf("%w: sale total must be positive", ErrEmptyCart)
	}

	switch req.PaymentMethod {
	case domain.PaymentCash, domain.PaymentMpesa, domain.PaymentCard:
		p.components = []paymentComponent{{method: req.PaymentMethod, amount: p.total}}
	case domain.PaymentSplit:
		if req.Split == nil {
			return nil, apperrors.NewValidationError("split payment requires payment components")
		}
		sum := decimal.Zero
		for _, c := range []paymentComponent{
			{method: domain.PaymentCash, amount: req.Split.Cash},
			{method: domain.PaymentMpesa, amount: req.Split.Mpesa},
			{method: domain.PaymentCard, amount: req.Split.Card},
		} {
			if err := checkMoney(string(c.method)+" component", c.amount); err != nil {
				return nil, err
			}
			if c.amount.IsPositive() {
				p.components = append(p.components, c)
				sum = sum.Add(c.amount)
			}
		}
		if !sum.Equal(p.total) {
			return nil, fmt.Errorf("%w: components sum to %s, total is %s", ErrSplitMismatch, sum, p.total)
		}
	default:
		return nil, apperrors.NewValidationError("unknown payment method %q", req.PaymentMethod)
	}

	for _, c := range p.components {
		if c.method == domain.PaymentCash {
			p.cashDue = c.amount
		}
	}
	if p.cashDue.IsPositive() {
		received := p.cashDue
		if req.CashReceived != nil {
			if err := checkMoney("cash received", *req.CashReceived); err != nil {
				return nil, err
			}
			received = *req.CashReceived
		}
		if received.LessThan(p.cashDue) {
			return nil, fmt.Errorf("%w: received %s, due %s", ErrInsufficientPayment, received, p.cashDue)
		}
		p.change = received.Sub(p.cashDue)
	}
	return p, nil
}

// takeStockBestEffort decrements stock for a committed sale concurrently. Each item
// succeeds or fails on its own; failures come back as warnings.
func (s *checkoutService) takeStockBestEffort(ctx context.Context, items []domain.SaleLineItem) []domain.StockWarning {
	slots := make([]*domain.StockWarning, len(items))
	var g errgroup.Group
	g.SetLimit(maxConcurrentLineItems)
	for i, item := range items {
		g.Go(func() error {
			warning, err := takeStock(ctx, s.repos, item)
			if err != nil {
				s.LogError(ctx, err, "Stock update failed", slog.String("sale_id", item.SaleID), slog.String("product_id", item.ProductID))
				warning = &domain.StockWarning{
					ProductID: item.ProductID,
					Quantity:  item.Quantity,
					ErrorCode: domain.StockErrStore,
					Message:   err.Error(),
				}
			}
			slots[i] = warning
			return nil
		})
	}
	_ = g.Wait()

	var warnings []domain.StockWarning
	for _, w := range slots {
		if w != nil {
			warnings = append(warnings, *w)
		}
	}
	return warnings
}

// takeStock takes one line item's quantity out of stock.
// A refused stock change is a warning; a store failure is an error.
func takeStock(ctx context.Context, repos portsrepo.RepositoryProvider, item domain.SaleLineItem) (*domain.StockWarning, error) {
	adj, err := repos.StockRepo.AdjustStock(ctx, item.ProductID, -item.Quantity)
	if err != nil {
		return nil, fmt.Errorf("failed to adjust stock for product %s: %w", item.ProductID, err)
	}
	if adj.Success {
		return nil, nil
	}
	msg := adj.Error
	if msg == "" {
		msg = fmt.Sprintf("product %s: %s", item.ProductID, adj.ErrorCode)
	}
	return &domain.StockWarning{
		ProductID:    item.ProductID,
		Quantity:     item.Quantity,
		ErrorCode:    adj.ErrorCode,
		CurrentStock: adj.CurrentStock,
		Message:      msg,
	}, nil
}
