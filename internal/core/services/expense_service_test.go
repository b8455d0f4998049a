package services_test

import (
	"context"
	"testing"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/core/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordExpense_CashLeavesTheDrawer(t *testing.T) {
	ctx := context.Background()
	env := newTillEnv(t, domain.StockBestEffort)
	shift := env.startShift(t, "cashier-1", "800")

	expense, err := env.expenses.RecordExpense(ctx, dto.CreateExpenseRequest{
		Amount:      decPtr("120"),
		Category:    " Transport ",
		PaidFrom:    domain.FundedByCash,
		Description: "Boda to the wholesaler",
	}, "cashier-1")
	require.NoError(t, err)

	assert.Equal(t, shift.ShiftID, expense.ShiftID)
	assert.Equal(t, "Transport", expense.Category)
	assert.Equal(t, "cashier-1", expense.CreatedBy)
	assert.True(t, env.balance(t, shift.ShiftID).Equal(dec("680")))

	entries, err := env.repos.CashTransactionRepo.ListCashTransactionsByShift(ctx, shift.ShiftID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.CashOut, entries[1].Type)
	assert.Equal(t, expense.ExpenseID, entries[1].ReferenceID)

	assert.Contains(t, env.queue.Tasks(), portssvc.PostingTask{Source: domain.SourceExpense, SourceID: expense.ExpenseID})

	stored, err := env.expenses.GetExpense(ctx, expense.ExpenseID)
	require.NoError(t, err)
	assert.True(t, stored.Amount.Equal(dec("120")))
	assert.Equal(t, domain.FundedByCash, stored.PaidFrom)
}

func TestRecordExpense_NonCashNeedsNoShift(t *testing.T) {
	env := newTillEnv(t, domain.StockBestEffort)

	expense, err := env.expenses.RecordExpense(context.Background(), dto.CreateExpenseRequest{
		Amount:   decPtr("1500"),
		Category: "Rent",
		PaidFrom: domain.FundedByBank,
	}, "cashier-1")
	require.NoError(t, err)
	assert.Empty(t, expense.ShiftID)
}

func TestRecordExpense_Rejects(t *testing.T) {
	ctx := context.Background()
	env := newTillEnv(t, domain.StockBestEffort)

	tests := []struct {
		name    string
		req     dto.CreateExpenseRequest
		wantErr error
	}{
		{name: "missing amount", req: dto.CreateExpenseRequest{Category: "Rent", PaidFrom: domain.FundedByBank}, wantErr: services.ErrInvalidAmount},
		{name: "zero amount", req: dto.CreateExpenseRequest{Amount: decPtr("0"), Category: "Rent", PaidFrom: domain.FundedByBank}, wantErr: services.ErrInvalidAmount},
		{name: "unknown source", req: dto.CreateExpenseRequest{Amount: decPtr("10"), Category: "Rent", PaidFrom: "card"}, wantErr: apperrors.ErrValidation},
		{name: "blank category", req: dto.CreateExpenseRequest{Amount: decPtr("10"), Category: "  ", PaidFrom: domain.FundedByBank}, wantErr: apperrors.ErrValidation},
		{name: "cash without shift", req: dto.CreateExpenseRequest{Amount: decPtr("10"), Category: "Water", PaidFrom: domain.FundedByCash}, wantErr: services.ErrNoActiveShift},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.expenses.RecordExpense(ctx, tt.req, "cashier-1")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
	assert.Empty(t, env.queue.Tasks())
}

func TestGetExpense_NotFound(t *testing.T) {
	env := newTillEnv(t, domain.StockBestEffort)
	_, err := env.expenses.GetExpense(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
