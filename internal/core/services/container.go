package services

import (
	"log/slog"

	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Audit = NewSlogAuditSink(logger)

	// Account service first since the posting paths depend on it
	container.Account = NewAccountService(repos.AccountRepo)
	container.TaxRate = NewTaxRateService(repos.TaxRateRepo)
	container.Journal = NewJournalService(repos.JournalRepo, container.Account, container.Audit)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.JournalRepo, repos.TaxRateRepo, container.Account, container.Audit)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.JournalRepo, repos.TaxRateRepo, container.Account, container.Audit)

	return container
}
