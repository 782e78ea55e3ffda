package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	taxRateRepo := newPgxTaxRateRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	expenseRepo := newPgxExpenseRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo: accountRepo,
		JournalRepo: journalRepo,
		TaxRateRepo: taxRateRepo,
		InvoiceRepo: invoiceRepo,
		ExpenseRepo: expenseRepo,
	}
}
