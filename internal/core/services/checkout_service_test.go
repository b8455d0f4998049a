package services_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/core/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/Africall/sote-minimart/internal/platform/chart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CheckoutServiceTestSuite struct {
	suite.Suite
	env   *tillEnv
	ctx   context.Context
	shift *domain.Shift
}

func (suite *CheckoutServiceTestSuite) SetupTest() {
	suite.env = newTillEnv(suite.T(), domain.StockBestEffort)
	suite.ctx = context.Background()
	suite.shift = suite.env.startShift(suite.T(), "cashier-1", "1000")
	suite.env.addProduct(suite.T(), "bread", 10, decPtr("35"))
	suite.env.addProduct(suite.T(), "milk", 1, nil)
}

func (suite *CheckoutServiceTestSuite) dailySales() string {
	total, err := suite.env.repos.SaleRepo.FindDailySales(suite.ctx, time.Now().UTC())
	suite.Require().NoError(err)
	return total.String()
}

func (suite *CheckoutServiceTestSuite) TestCashSaleWithChange() {
	res, err := suite.env.checkout.Checkout(suite.ctx, dto.CheckoutRequest{
		CashierID:     "cashier-1",
		Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 2, UnitPrice: dec("50")}},
		PaymentMethod: domain.PaymentCash,
		CashReceived:  decPtr("150"),
	})
	suite.Require().NoError(err)

	suite.Equal(suite.shift.ShiftID, res.Sale.ShiftID)
	suite.Equal(domain.PaymentCompleted, res.Sale.PaymentStatus)
	suite.True(res.Sale.TotalAmount.Equal(dec("100")))
	suite.True(res.Change.Equal(dec("50")))
	suite.Empty(res.StockWarnings)

	suite.Require().Len(res.CashEntries, 2)
	suite.Equal(domain.CashSale, res.CashEntries[0].Type)
	suite.True(res.CashEntries[0].Amount.Equal(dec("100")))
	suite.Equal(domain.CashChange, res.CashEntries[1].Type)
	suite.True(res.CashEntries[1].Amount.Equal(dec("50")))

	suite.Require().NotNil(res.ShiftBalance)
	suite.True(res.ShiftBalance.Balance.Equal(dec("1050")))
	suite.True(suite.env.balance(suite.T(), suite.shift.ShiftID).Equal(dec("1050")))
	suite.Equal(8, suite.env.stock(suite.T(), "bread"))
	suite.Equal("100", suite.dailySales())
	suite.Contains(suite.env.queue.Tasks(), portssvc.PostingTask{Source: domain.SourceSale, SourceID: res.Sale.SaleID})
}

func (suite *CheckoutServiceTestSuite) TestExactCashHasNoChangeEntry() {
	res, err := suite.env.checkout.Checkout(suite.ctx, dto.CheckoutRequest{
		CashierID:     "cashier-1",
		Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 1, UnitPrice: dec("50")}},
		PaymentMethod: domain.PaymentCash,
	})
	suite.Require().NoError(err)
	suite.True(res.Change.IsZero())
	suite.Len(res.CashEntries, 1)
	suite.True(suite.env.balance(suite.T(), suite.shift.ShiftID).Equal(dec("1050")))
}

func (suite *CheckoutServiceTestSuite) TestSplitPayment() {
	res, err := suite.env.checkout.Checkout(suite.ctx, dto.CheckoutRequest{
		CashierID:     "cashier-1",
		Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 2, UnitPrice: dec("50")}},
		PaymentMethod: domain.PaymentSplit,
		Split:         &dto.SplitPayment{Cash: dec("60"), Mpesa: dec("40")},
		CashReceived:  decPtr("70"),
	})
	suite.Require().NoError(err)

	suite.Require().Len(res.Payments, 2)
	suite.Equal(domain.PaymentCash, res.Payments[0].Method)
	suite.True(res.Payments[0].Amount.Equal(dec("60")))
	suite.Equal(domain.PaymentMpesa, res.Payments[1].Method)
	suite.True(res.Payments[1].Amount.Equal(dec("40")))
	suite.True(res.Change.Equal(dec("10")))

	// Only the cash component touches the drawer.
	suite.True(suite.env.balance(suite.T(), suite.shift.ShiftID).Equal(dec("1050")))
}

func (suite *CheckoutServiceTestSuite) TestRejectedBeforeAnyWrite() {
	tests := []struct {
		name    string
		req     dto.CheckoutRequest
		wantErr error
	}{
		{
			name:    "empty cart",
			req:     dto.CheckoutRequest{CashierID: "cashier-1", PaymentMethod: domain.PaymentCash},
			wantErr: services.ErrEmptyCart,
		},
		{
			name: "insufficient cash",
			req: dto.CheckoutRequest{
				CashierID:     "cashier-1",
				Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 2, UnitPrice: dec("50")}},
				PaymentMethod: domain.PaymentCash,
				CashReceived:  decPtr("99.99"),
			},
			wantErr: services.ErrInsufficientPayment,
		},
		{
			name: "split does not add up",
			req: dto.CheckoutRequest{
				CashierID:     "cashier-1",
				Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 2, UnitPrice: dec("50")}},
				PaymentMethod: domain.PaymentSplit,
				Split:         &dto.SplitPayment{Cash: dec("60"), Card: dec("30")},
			},
			wantErr: services.ErrSplitMismatch,
		},
		{
			name: "split without components",
			req: dto.CheckoutRequest{
				CashierID:     "cashier-1",
				Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 1, UnitPrice: dec("50")}},
				PaymentMethod: domain.PaymentSplit,
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "zero quantity",
			req: dto.CheckoutRequest{
				CashierID:     "cashier-1",
				Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 0, UnitPrice: dec("50")}},
				PaymentMethod: domain.PaymentCard,
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "unknown method",
			req: dto.CheckoutRequest{
				CashierID:     "cashier-1",
				Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 1, UnitPrice: dec("50")}},
				PaymentMethod: "cheque",
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "cash without open shift",
			req: dto.CheckoutRequest{
				CashierID:     "cashier-2",
				Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 1, UnitPrice: dec("50")}},
				PaymentMethod: domain.PaymentCash,
			},
			wantErr: services.ErrNoActiveShift,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.env.checkout.Checkout(suite.ctx, tt.req)
			suite.ErrorIs(err, tt.wantErr)
			suite.Equal("0", suite.dailySales())
			suite.Equal(10, suite.env.stock(suite.T(), "bread"))
			suite.True(suite.env.balance(suite.T(), suite.shift.ShiftID).Equal(dec("1000")))
		})
	}
}

func (suite *CheckoutServiceTestSuite) TestNonCashSaleWithoutShift() {
	res, err := suite.env.checkout.Checkout(suite.ctx, dto.CheckoutRequest{
		CashierID:     "cashier-2",
		Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 1, UnitPrice: dec("50")}},
		PaymentMethod: domain.PaymentMpesa,
		Reference:     "QGH7XK2L9P",
	})
	suite.Require().NoError(err)
	suite.Empty(res.Sale.ShiftID)
	suite.Empty(res.CashEntries)
	suite.Nil(res.ShiftBalance)
	suite.Equal("QGH7XK2L9P", res.Payments[0].Reference)
	suite.Equal(9, suite.env.stock(suite.T(), "bread"))
}

func (suite *CheckoutServiceTestSuite) TestBestEffortReportsShortfalls() {
	res, err := suite.env.checkout.Checkout(suite.ctx, dto.CheckoutRequest{
		CashierID: "cashier-1",
		Items: []dto.CheckoutItem{
			{ProductID: "bread", Quantity: 1, UnitPrice: dec("50")},
			{ProductID: "milk", Quantity: 3, UnitPrice: dec("60")},
			{ProductID: "ghost", Quantity: 1, UnitPrice: dec("10")},
		},
		PaymentMethod: domain.PaymentCard,
	})
	suite.Require().NoError(err)
	suite.True(res.Sale.TotalAmount.Equal(dec("240")))

	warnings := map[string]domain.StockWarning{}
	for _, w := range res.StockWarnings {
		warnings[w.ProductID] = w
	}
	suite.Require().Len(warnings, 2)
	suite.Equal(domain.StockErrInsufficient, warnings["milk"].ErrorCode)
	suite.Require().NotNil(warnings["milk"].CurrentStock)
	suite.Equal(1, *warnings["milk"].CurrentStock)
	suite.Equal(domain.StockErrProductNotFound, warnings["ghost"].ErrorCode)

	suite.Equal(9, suite.env.stock(suite.T(), "bread"))
	suite.Equal(1, suite.env.stock(suite.T(), "milk"))
	suite.Equal("240", suite.dailySales())
}

func TestCheckoutServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutServiceTestSuite))
}

// sweepBeforeStock runs a journal sweep just before each stock decrement, the
// way the background sweeper can land between a sale's commit and its stock update.
type sweepBeforeStock struct {
	portsrepo.StockRepositoryFacade
	sweep func()
}

func (r *sweepBeforeStock) AdjustStock(ctx context.Context, productID string, quantityChange int) (domain.StockAdjustment, error) {
	r.sweep()
	return r.StockRepositoryFacade.AdjustStock(ctx, productID, quantityChange)
}

func TestCheckout_BestEffortSaleCarriesLineItemsAtCommit(t *testing.T) {
	ctx := context.Background()
	env := newTillEnv(t, domain.StockBestEffort)
	env.addProduct(t, "sugar-1kg", 10, decPtr("45"))

	var swept *domain.PostAllResult
	repos := env.repos
	repos.StockRepo = &sweepBeforeStock{
		StockRepositoryFacade: env.repos.StockRepo,
		sweep: func() {
			if swept != nil {
				return
			}
			res, err := env.journals.PostAll(ctx, domain.SourceSale)
			require.NoError(t, err)
			swept = res
		},
	}
	checkout := services.NewCheckoutService(repos, env.store, domain.StockBestEffort)

	sale, err := checkout.Checkout(ctx, dto.CheckoutRequest{
		CashierID:     "cashier-1",
		Items:         []dto.CheckoutItem{{ProductID: "sugar-1kg", Quantity: 2, UnitPrice: dec("58")}},
		PaymentMethod: domain.PaymentMpesa,
	})
	require.NoError(t, err)
	require.NotNil(t, swept)
	assert.Equal(t, 1, swept.Posted)
	assert.Equal(t, 8, env.stock(t, "sugar-1kg"))

	res, err := env.journals.PostSale(ctx, sale.Sale.SaleID)
	require.NoError(t, err)
	assert.Equal(t, domain.PostAlreadyPosted, res.Status)

	journal, err := env.journals.GetJournal(ctx, res.JournalID)
	require.NoError(t, err)
	cogs := env.chart.Account(chart.RoleCOGS)
	inventory := env.chart.Account(chart.RoleInventory)
	var cogsDebit, inventoryCredit int
	for _, line := range journal.Lines {
		switch {
		case line.AccountID == cogs && line.Debit.Equal(dec("90")):
			cogsDebit++
		case line.AccountID == inventory && line.Credit.Equal(dec("90")):
			inventoryCredit++
		}
	}
	assert.Equal(t, 1, cogsDebit, "cost of goods sold")
	assert.Equal(t, 1, inventoryCredit, "inventory")
}

func TestCheckout_StrictPolicyPersistsNothingOnShortfall(t *testing.T) {
	ctx := context.Background()
	env := newTillEnv(t, domain.StockStrict)
	shift := env.startShift(t, "cashier-1", "1000")
	env.addProduct(t, "bread", 10, nil)
	env.addProduct(t, "milk", 1, nil)

	_, err := env.checkout.Checkout(ctx, dto.CheckoutRequest{
		CashierID: "cashier-1",
		Items: []dto.CheckoutItem{
			{ProductID: "bread", Quantity: 2, UnitPrice: dec("50")},
			{ProductID: "milk", Quantity: 2, UnitPrice: dec("60")},
		},
		PaymentMethod: domain.PaymentCash,
		CashReceived:  decPtr("500"),
	})
	require.ErrorIs(t, err, services.ErrInsufficientStock)

	assert.Equal(t, 10, env.stock(t, "bread"))
	assert.Equal(t, 1, env.stock(t, "milk"))
	assert.True(t, env.balance(t, shift.ShiftID).Equal(dec("1000")))
	total, err := env.repos.SaleRepo.FindDailySales(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, total.IsZero())
	assert.Empty(t, env.queue.Tasks())

	res, err := env.checkout.Checkout(ctx, dto.CheckoutRequest{
		CashierID:     "cashier-1",
		Items:         []dto.CheckoutItem{{ProductID: "milk", Quantity: 1, UnitPrice: dec("60")}},
		PaymentMethod: domain.PaymentCash,
	})
	require.NoError(t, err)
	assert.Empty(t, res.StockWarnings)
	assert.Equal(t, 0, env.stock(t, "milk"))
}

func TestCheckout_ConcurrentSalesNeverOversell(t *testing.T) {
	ctx := context.Background()
	env := newTillEnv(t, domain.StockBestEffort)
	env.addProduct(t, "bread", 5, nil)

	const buyers = 12
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		fulfiled int
		short    int
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := env.checkout.Checkout(ctx, dto.CheckoutRequest{
				CashierID:     "cashier-1",
				Items:         []dto.CheckoutItem{{ProductID: "bread", Quantity: 1, UnitPrice: dec("50")}},
				PaymentMethod: domain.PaymentMpesa,
			})
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if len(res.StockWarnings) == 0 {
				fulfiled++
			} else {
				short++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, fulfiled)
	assert.Equal(t, buyers-5, short)
	assert.Equal(t, 0, env.stock(t, "bread"))
}
