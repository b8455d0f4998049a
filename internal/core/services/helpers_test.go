package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/core/services"
	"github.com/Africall/sote-minimart/internal/dto"
	"github.com/Africall/sote-minimart/internal/platform/chart"
	"github.com/Africall/sote-minimart/internal/repositories/database/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

// recordingQueue captures posting tasks instead of running them.
type recordingQueue struct {
	mu    sync.Mutex
	tasks []portssvc.PostingTask
}

func (q *recordingQueue) Enqueue(task portssvc.PostingTask) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return true
}

func (q *recordingQueue) Tasks() []portssvc.PostingTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]portssvc.PostingTask(nil), q.tasks...)
}

// recordingPublisher captures published shift events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ShiftEvent
}

func (p *recordingPublisher) Publish(event domain.ShiftEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Last() (domain.ShiftEvent, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return domain.ShiftEvent{}, false
	}
	return p.events[len(p.events)-1], true
}

// tillEnv is a full set of services over an in-memory store.
type tillEnv struct {
	store  *sqlite.Store
	repos  portsrepo.RepositoryProvider
	chart  *chart.Chart
	queue  *recordingQueue
	events *recordingPublisher

	shifts   portssvc.ShiftSvcFacade
	ledger   portssvc.CashLedgerSvcFacade
	recon    portssvc.ReconciliationSvcFacade
	checkout portssvc.CheckoutSvcFacade
	expenses portssvc.ExpenseSvcFacade
	journals portssvc.JournalSvcFacade
	invoices portssvc.InvoiceSvcFacade
}

func newTillEnv(t *testing.T, policy domain.StockShortfallPolicy) *tillEnv {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	coa, err := chart.Default()
	require.NoError(t, err)
	repos := store.Repositories()
	require.NoError(t, repos.AccountRepo.UpsertAccounts(context.Background(), coa.Accounts))

	env := &tillEnv{
		store:  store,
		repos:  repos,
		chart:  coa,
		queue:  &recordingQueue{},
		events: &recordingPublisher{},
	}
	opts := []services.Option{services.WithPostingQueue(env.queue), services.WithEventPublisher(env.events)}
	env.shifts = services.NewShiftService(repos, store, opts...)
	env.ledger = services.NewCashLedgerService(repos, opts...)
	env.recon = services.NewReconciliationService(repos, store, opts...)
	env.checkout = services.NewCheckoutService(repos, store, policy, opts...)
	env.expenses = services.NewExpenseService(repos, store, opts...)
	env.journals = services.NewJournalService(repos, coa, dec("0.16"))
	env.invoices = services.NewInvoiceService(repos.InvoiceRepo)
	return env
}

func (e *tillEnv) startShift(t *testing.T, cashierID, float string) *domain.Shift {
	t.Helper()
	shift, err := e.shifts.StartShift(context.Background(), cashierID, dec(float))
	require.NoError(t, err)
	return shift
}

func (e *tillEnv) addProduct(t *testing.T, productID string, stock int, cost *decimal.Decimal) {
	t.Helper()
	require.NoError(t, e.repos.StockRepo.UpsertProduct(context.Background(), domain.Product{
		ProductID: productID,
		Name:      productID,
		Stock:     stock,
		CostPrice: cost,
	}))
}

func (e *tillEnv) balance(t *testing.T, shiftID string) decimal.Decimal {
	t.Helper()
	summary, err := e.ledger.Balance(context.Background(), shiftID)
	require.NoError(t, err)
	return summary.Balance
}

func (e *tillEnv) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := e.repos.StockRepo.FindProductByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

// dtoMpesaSale is a one-line mpesa checkout for a product the catalogue does not carry.
func dtoMpesaSale(amount string) dto.CheckoutRequest {
	return dto.CheckoutRequest{
		CashierID:     "cashier-1",
		Items:         []dto.CheckoutItem{{ProductID: "airtime", Quantity: 1, UnitPrice: dec(amount)}},
		PaymentMethod: domain.PaymentMpesa,
	}
}
