package services

// ServiceContainer holds all service interfaces used by the handlers.
type ServiceContainer struct {
	Auth           AuthSvcFacade
	Shift          ShiftSvcFacade
	CashLedger     CashLedgerSvcFacade
	Reconciliation ReconciliationSvcFacade
	Checkout       CheckoutSvcFacade
	Journal        JournalSvcFacade
	Expense        ExpenseSvcFacade
	Invoice        InvoiceSvcFacade
	Events         ShiftEventSubscriber
}
