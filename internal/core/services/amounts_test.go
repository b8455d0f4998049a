package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/core/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Amounts are kept to the cent everywhere they are stored, so anything finer is
// refused at the service boundary instead of being rounded row by row.
func TestAmounts_FinerThanCentsRejected(t *testing.T) {
	ctx := context.Background()
	env := newTillEnv(t, domain.StockBestEffort)
	shift := env.startShift(t, "cashier-1", "1000")
	env.addProduct(t, "bread", 10, nil)

	_, err := env.shifts.StartShift(ctx, "cashier-2", dec("100.005"))
	assert.ErrorIs(t, err, services.ErrInvalidAmount, "float")

	_, err = env.ledger.Record(ctx, shift.ShiftID, "cashier-1", domain.CashIn, dec("0.004"), "coins")
	assert.ErrorIs(t, err, services.ErrInvalidAmount, "cash_in")

	_, err = env.recon.Reconcile(ctx, shift.ShiftID, "cashier-1", dec("999.999"))
	assert.ErrorIs(t, err, services.ErrInvalidAmount, "declared amount")

	checkouts := map[string]dto.CheckoutRequest{
		"unit price": {
			CashierID:     "cashier-1",
			Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 3, UnitPrice: dec("0.005")}},
			PaymentMethod: domain.PaymentCard,
		},
		"split components": {
			CashierID:     "cashier-1",
			Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 1, UnitPrice: dec("0.02")}},
			PaymentMethod: domain.PaymentSplit,
			Split:         &dto.SplitPayment{Cash: dec("0.005"), Mpesa: dec("0.015")},
		},
		"cash received": {
			CashierID:     "cashier-1",
			Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 1, UnitPrice: dec("50")}},
			PaymentMethod: domain.PaymentCash,
			CashReceived:  decPtr("50.001"),
		},
	}
	for name, req := range checkouts {
		_, err := env.checkout.Checkout(ctx, req)
		assert.ErrorIs(t, err, services.ErrInvalidAmount, name)
	}

	_, err = env.expenses.RecordExpense(ctx, dto.CreateExpenseRequest{
		Amount:   decPtr("12.345"),
		Category: "Transport",
		PaidFrom: domain.FundedByMpesa,
	}, "cashier-1")
	assert.ErrorIs(t, err, services.ErrInvalidAmount, "expense")

	_, err = env.invoices.ConfirmPayment(ctx, "INV-1", dto.ConfirmPaymentRequest{
		Amount: decPtr("10.001"),
		Method: domain.PaymentMpesa,
	})
	assert.ErrorIs(t, err, services.ErrInvalidAmount, "invoice payment")

	assert.True(t, env.balance(t, shift.ShiftID).Equal(dec("1000")))
	assert.Equal(t, 10, env.stock(t, "bread"))
	total, err := env.repos.SaleRepo.FindDailySales(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestAmounts_TrailingZerosAccepted(t *testing.T) {
	ctx := context.Background()
	env := newTillEnv(t, domain.StockBestEffort)
	shift := env.startShift(t, "cashier-1", "100.500")

	_, err := env.ledger.Record(ctx, shift.ShiftID, "cashier-1", domain.CashIn, dec("0.1000"), "coins")
	require.NoError(t, err)
	assert.True(t, env.balance(t, shift.ShiftID).Equal(dec("100.60")))
}
