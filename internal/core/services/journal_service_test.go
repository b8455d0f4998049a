package services_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/Africall/sote-minimart/internal/apperrors"
	"github.com/Africall/sote-minimart/internal/core/domain"
	"github.com/Africall/sote-minimart/internal/core/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/Africall/sote-minimart/internal/utils/accounting"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/suite"
)

// renderLines prints journal lines one per row with a totals footer, for golden comparison.
func renderLines(lines []domain.JournalLine) []byte {
	var b strings.Builder
	for _, l := range lines {
		side, amount := "DR", l.Debit
		if l.Credit.IsPositive() {
			side, amount = "CR", l.Credit
		}
		fmt.Fprintf(&b, "%s %-4s %10s  %s\n", side, l.AccountID, amount.StringFixed(2), l.Memo)
	}
	debit, credit := accounting.Totals(lines)
	fmt.Fprintf(&b, "total   %10s %10s\n", debit.StringFixed(2), credit.StringFixed(2))
	return []byte(b.String())
}

type JournalServiceTestSuite struct {
	suite.Suite
	env *tillEnv
	ctx context.Context
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.env = newTillEnv(suite.T(), domain.StockBestEffort)
	suite.ctx = context.Background()
}

func (suite *JournalServiceTestSuite) assertGolden(name string, journalID string) *domain.JournalEntry {
	journal, err := suite.env.journals.GetJournal(suite.ctx, journalID)
	suite.Require().NoError(err)
	suite.Require().NoError(accounting.ValidateJournalBalance(journal.Lines))

	g := goldie.New(suite.T(),
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(suite.T(), name, renderLines(journal.Lines))
	return journal
}

func (suite *JournalServiceTestSuite) mpesaSale(amount string) *domain.CheckoutResult {
	res, err := suite.env.checkout.Checkout(suite.ctx, dtoMpesaSale(amount))
	suite.Require().NoError(err)
	return res
}

func (suite *JournalServiceTestSuite) TestPostSale_SplitWithCost() {
	suite.env.startShift(suite.T(), "cashier-1", "0")
	suite.env.addProduct(suite.T(), "sugar-1kg", 10, decPtr("45"))
	sale, err := suite.env.checkout.Checkout(suite.ctx, dto.CheckoutRequest{
		CashierID:     "cashier-1",
		Items:         []dto.CheckoutItem{{ProductID: "sugar-1kg", Quantity: 2, UnitPrice: dec("58")}},
		PaymentMethod: domain.PaymentSplit,
		Split:         &dto.SplitPayment{Cash: dec("66"), Mpesa: dec("50")},
		CashReceived:  decPtr("100"),
	})
	suite.Require().NoError(err)

	res, err := suite.env.journals.PostSale(suite.ctx, sale.Sale.SaleID)
	suite.Require().NoError(err)
	suite.Equal(domain.PostPosted, res.Status)

	journal := suite.assertGolden("sale_split_with_cost", res.JournalID)
	suite.Equal(domain.SourceSale, journal.Source)
	suite.Equal(sale.Sale.SaleID, journal.SourceID)
	suite.True(journal.Locked)
	suite.NotNil(journal.PostedAt)
	suite.True(strings.HasPrefix(journal.Ref, "SALE-"))
	suite.Equal(domain.SystemActor, journal.CreatedBy)
}

func (suite *JournalServiceTestSuite) TestPostSale_WithoutCostSkipsCOGS() {
	sale := suite.mpesaSale("116")

	res, err := suite.env.journals.Post(suite.ctx, domain.SourceSale, sale.Sale.SaleID)
	suite.Require().NoError(err)

	journal, err := suite.env.journals.GetJournal(suite.ctx, res.JournalID)
	suite.Require().NoError(err)
	suite.Len(journal.Lines, 3)
	for _, l := range journal.Lines {
		suite.NotEqual("5000", l.AccountID)
	}
}

func (suite *JournalServiceTestSuite) TestPost_IsIdempotent() {
	sale := suite.mpesaSale("50")

	first, err := suite.env.journals.PostSale(suite.ctx, sale.Sale.SaleID)
	suite.Require().NoError(err)
	second, err := suite.env.journals.PostSale(suite.ctx, sale.Sale.SaleID)
	suite.Require().NoError(err)

	suite.Equal(domain.PostPosted, first.Status)
	suite.Equal(domain.PostAlreadyPosted, second.Status)
	suite.Equal(first.JournalID, second.JournalID)
}

func (suite *JournalServiceTestSuite) TestPost_ConcurrentAttemptsWriteOneJournal() {
	sale := suite.mpesaSale("75")

	const posters = 8
	var wg sync.WaitGroup
	results := make([]*domain.PostResult, posters)
	for i := 0; i < posters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := suite.env.journals.PostSale(suite.ctx, sale.Sale.SaleID)
			suite.NoError(err)
			results[i] = res
		}()
	}
	wg.Wait()

	posted := 0
	for _, res := range results {
		suite.Require().NotNil(res)
		suite.Equal(results[0].JournalID, res.JournalID)
		if res.Status == domain.PostPosted {
			posted++
		}
	}
	suite.Equal(1, posted)

	page, err := suite.env.journals.ListJournals(suite.ctx, dto.ListJournalsParams{})
	suite.Require().NoError(err)
	suite.Len(page.Journals, 1)
}

func (suite *JournalServiceTestSuite) TestPostExpense() {
	expense, err := suite.env.expenses.RecordExpense(suite.ctx, dto.CreateExpenseRequest{
		Amount:      decPtr("1500"),
		Category:    "Rent",
		PaidFrom:    domain.FundedByBank,
		Description: "June rent",
	}, "cashier-1")
	suite.Require().NoError(err)

	res, err := suite.env.journals.PostExpense(suite.ctx, expense.ExpenseID)
	suite.Require().NoError(err)
	journal := suite.assertGolden("expense_rent_from_bank", res.JournalID)
	suite.Equal("Rent: June rent", journal.Memo)
}

func (suite *JournalServiceTestSuite) TestPostShift_ManualMovementsOnly() {
	shift := suite.env.startShift(suite.T(), "cashier-1", "500")
	_, err := suite.env.ledger.Record(suite.ctx, shift.ShiftID, "cashier-1", domain.CashIn, dec("200"), "From safe")
	suite.Require().NoError(err)
	_, err = suite.env.ledger.Record(suite.ctx, shift.ShiftID, "cashier-1", domain.CashOut, dec("50"), "To owner")
	suite.Require().NoError(err)
	_, err = suite.env.expenses.RecordExpense(suite.ctx, dto.CreateExpenseRequest{
		Amount: decPtr("30"), Category: "Water", PaidFrom: domain.FundedByCash,
	}, "cashier-1")
	suite.Require().NoError(err)

	_, err = suite.env.journals.PostShift(suite.ctx, shift.ShiftID)
	suite.ErrorIs(err, services.ErrShiftStillOpen)

	_, err = suite.env.shifts.EndShift(suite.ctx, shift.ShiftID, "cashier-1")
	suite.Require().NoError(err)

	res, err := suite.env.journals.PostShift(suite.ctx, shift.ShiftID)
	suite.Require().NoError(err)
	suite.Equal(domain.PostPosted, res.Status)
	suite.assertGolden("shift_cash_transfers", res.JournalID)
}

func (suite *JournalServiceTestSuite) TestPostShift_FloatOnlyIsSkipped() {
	shift := suite.env.startShift(suite.T(), "cashier-1", "500")
	_, err := suite.env.shifts.EndShift(suite.ctx, shift.ShiftID, "cashier-1")
	suite.Require().NoError(err)

	res, err := suite.env.journals.PostShift(suite.ctx, shift.ShiftID)
	suite.Require().NoError(err)
	suite.Equal(domain.PostSkipped, res.Status)
	suite.Empty(res.JournalID)

	all, err := suite.env.journals.PostAll(suite.ctx, domain.SourceShift)
	suite.Require().NoError(err)
	suite.Equal(domain.PostAllResult{Source: domain.SourceShift}, *all)
}

func (suite *JournalServiceTestSuite) TestPostReconciliation() {
	tests := []struct {
		golden   string
		declared string
	}{
		{golden: "recon_short", declared: "480"},
		{golden: "recon_over", declared: "510"},
	}
	for _, tt := range tests {
		suite.Run(tt.golden, func() {
			suite.SetupTest()
			shift := suite.env.startShift(suite.T(), "cashier-1", "500")
			rec, err := suite.env.recon.Reconcile(suite.ctx, shift.ShiftID, "cashier-1", dec(tt.declared))
			suite.Require().NoError(err)

			res, err := suite.env.journals.PostReconciliation(suite.ctx, rec.Reconciliation.ReconciliationID)
			suite.Require().NoError(err)
			suite.assertGolden(tt.golden, res.JournalID)
		})
	}
}

func (suite *JournalServiceTestSuite) TestPostReconciliation_BalancedIsSkipped() {
	shift := suite.env.startShift(suite.T(), "cashier-1", "500")
	rec, err := suite.env.recon.Reconcile(suite.ctx, shift.ShiftID, "cashier-1", dec("500"))
	suite.Require().NoError(err)

	res, err := suite.env.journals.PostReconciliation(suite.ctx, rec.Reconciliation.ReconciliationID)
	suite.Require().NoError(err)
	suite.Equal(domain.PostSkipped, res.Status)
}

func (suite *JournalServiceTestSuite) TestPost_UnknownOrUnpostableSource() {
	_, err := suite.env.journals.Post(suite.ctx, domain.SourceAdjust, "x")
	suite.ErrorIs(err, services.ErrUnsupportedSource)

	_, err = suite.env.journals.Post(suite.ctx, "PAYROLL", "x")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.env.journals.PostAll(suite.ctx, domain.SourceAdjust)
	suite.ErrorIs(err, services.ErrUnsupportedSource)

	_, err = suite.env.journals.PostSale(suite.ctx, "missing-sale")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestPostAll_PostsEachEventOnce() {
	suite.mpesaSale("10")
	suite.mpesaSale("20")
	_, err := suite.env.expenses.RecordExpense(suite.ctx, dto.CreateExpenseRequest{
		Amount: decPtr("5"), Category: "Transport", PaidFrom: domain.FundedByMpesa,
	}, "cashier-1")
	suite.Require().NoError(err)

	sales, err := suite.env.journals.PostAll(suite.ctx, domain.SourceSale)
	suite.Require().NoError(err)
	suite.Equal(2, sales.Posted)
	suite.Zero(sales.Failed)

	again, err := suite.env.journals.PostAll(suite.ctx, domain.SourceSale)
	suite.Require().NoError(err)
	suite.Equal(domain.PostAllResult{Source: domain.SourceSale}, *again)

	expenses, err := suite.env.journals.PostAll(suite.ctx, domain.SourceExpense)
	suite.Require().NoError(err)
	suite.Equal(1, expenses.Posted)
}

func (suite *JournalServiceTestSuite) TestReverse() {
	sale := suite.mpesaSale("116")
	posted, err := suite.env.journals.PostSale(suite.ctx, sale.Sale.SaleID)
	suite.Require().NoError(err)
	original, err := suite.env.journals.GetJournal(suite.ctx, posted.JournalID)
	suite.Require().NoError(err)

	reversal, err := suite.env.journals.Reverse(suite.ctx, posted.JournalID, "supervisor-1")
	suite.Require().NoError(err)
	suite.Equal(domain.SourceAdjust, reversal.Source)
	suite.Equal(posted.JournalID, reversal.SourceID)
	suite.Equal("supervisor-1", reversal.CreatedBy)
	suite.Equal("REV-"+original.Ref, reversal.Ref)
	suite.Require().Len(reversal.Lines, len(original.Lines))
	for i, l := range reversal.Lines {
		suite.Equal(original.Lines[i].AccountID, l.AccountID)
		suite.True(original.Lines[i].Debit.Equal(l.Credit))
		suite.True(original.Lines[i].Credit.Equal(l.Debit))
	}

	// The original is untouched.
	again, err := suite.env.journals.GetJournal(suite.ctx, posted.JournalID)
	suite.Require().NoError(err)
	suite.Equal(renderLines(original.Lines), renderLines(again.Lines))

	_, err = suite.env.journals.Reverse(suite.ctx, posted.JournalID, "supervisor-1")
	suite.ErrorIs(err, services.ErrAlreadyReversed)

	_, err = suite.env.journals.Reverse(suite.ctx, reversal.JournalID, "supervisor-1")
	suite.ErrorIs(err, services.ErrReverseCorrection)

	_, err = suite.env.journals.Reverse(suite.ctx, "missing", "supervisor-1")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *JournalServiceTestSuite) TestListJournals_Pages() {
	for _, amount := range []string{"10", "20", "30"} {
		sale := suite.mpesaSale(amount)
		_, err := suite.env.journals.PostSale(suite.ctx, sale.Sale.SaleID)
		suite.Require().NoError(err)
	}

	first, err := suite.env.journals.ListJournals(suite.ctx, dto.ListJournalsParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Len(first.Journals, 2)
	suite.Require().NotNil(first.NextToken)

	second, err := suite.env.journals.ListJournals(suite.ctx, dto.ListJournalsParams{Limit: 2, NextToken: first.NextToken})
	suite.Require().NoError(err)
	suite.Len(second.Journals, 1)
	suite.Nil(second.NextToken)
	suite.False(second.Journals[0].Date.IsZero())

	bad := "not-a-token"
	_, err = suite.env.journals.ListJournals(suite.ctx, dto.ListJournalsParams{NextToken: &bad})
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
