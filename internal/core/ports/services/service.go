package services

// ServiceContainer holds instances of all application services. It is the main
// entry point for accessing service functionality, particularly in handlers.
type ServiceContainer struct {
	Account AccountSvcFacade
	TaxRate TaxRateSvcFacade
	Journal JournalSvcFacade
	Invoice InvoiceSvcFacade
	Expense ExpenseSvcFacade
	Audit   AuditSink
}
