package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	AccountRepo         AccountRepositoryFacade
	CashierRepo         CashierRepositoryFacade
	ShiftRepo           ShiftRepositoryFacade
	CashTransactionRepo CashTransactionRepositoryFacade
	ReconciliationRepo  ReconciliationRepositoryFacade
	SaleRepo            SaleRepositoryFacade
	StockRepo           StockRepositoryFacade
	ExpenseRepo         ExpenseRepositoryFacade
	InvoiceRepo         InvoiceRepositoryFacade
	JournalRepo         JournalRepositoryFacade
}
