package services

import (
	"fmt"
	"log/slog"

	"github.com/Africall/sote-minimart/internal/core/domain"
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
	portssvc "github.com/Africall/sote-minimart/internal/core/ports/services"
	"github.com/Africall/sote-minimart/internal/events"
	"github.com/Africall/sote-minimart/internal/platform/chart"
	"github.com/Africall/sote-minimart/internal/platform/config"
)

// Runtime is the wired service container plus the background posting machinery
// its owner has to start and stop.
type Runtime struct {
	Services *portssvc.ServiceContainer
	Queue    *PostingQueue
	Sweeper  *PostingSweeper
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, uow portsrepo.UnitOfWork, coa *chart.Chart, broker *events.Broker, logger *slog.Logger) (*Runtime, error) {
	policy := domain.StockShortfallPolicy(cfg.StockShortfallPolicy)
	if policy == "" {
		policy = domain.StockBestEffort
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("unknown stock shortfall policy %q", cfg.StockShortfallPolicy)
	}

	// The poster comes first; the queue feeds it and every writer feeds the queue.
	journal := NewJournalService(repos, coa, cfg.VATRate)
	queue := NewPostingQueue(journal, cfg.PostingQueueSize, cfg.PostingWorkers, logger)
	sweeper := NewPostingSweeper(journal, cfg.PostingSweepInterval, logger)

	opts := []Option{WithPostingQueue(queue), WithEventPublisher(broker)}

	container := &portssvc.ServiceContainer{
		Auth:           NewAuthService(cfg, repos.CashierRepo),
		Shift:          NewShiftService(repos, uow, opts...),
		CashLedger:     NewCashLedgerService(repos, opts...),
		Reconciliation: NewReconciliationService(repos, uow, opts...),
		Checkout:       NewCheckoutService(repos, uow, policy, opts...),
		Journal:        journal,
		Expense:        NewExpenseService(repos, uow, opts...),
		Invoice:        NewInvoiceService(repos.InvoiceRepo),
		Events:         broker,
	}
	return &Runtime{Services: container, Queue: queue, Sweeper: sweeper}, nil
}
