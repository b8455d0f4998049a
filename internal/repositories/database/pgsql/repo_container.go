package pgsql

import (
	portsrepo "github.com/Africall/sote-minimart/internal/core/ports/repositories"
)

func newRepositoryProvider(q querier) portsrepo.RepositoryProvider {
	base := BaseRepository{q: q}
	return portsrepo.RepositoryProvider{
		AccountRepo:         &PgxAccountRepository{BaseRepository: base},
		CashierRepo:         &PgxCashierRepository{BaseRepository: base},
		ShiftRepo:           &PgxShiftRepository{BaseRepository: base},
		CashTransactionRepo: &PgxCashTransactionRepository{BaseRepository: base},
		ReconciliationRepo:  &PgxReconciliationRepository{BaseRepository: base},
		SaleRepo:            &PgxSaleRepository{BaseRepository: base},
		StockRepo:           &PgxStockRepository{BaseRepository: base},
		ExpenseRepo:         &PgxExpenseRepository{BaseRepository: base},
		InvoiceRepo:         &PgxInvoiceRepository{BaseRepository: base},
		JournalRepo:         &PgxJournalRepository{BaseRepository: base},
	}
}
