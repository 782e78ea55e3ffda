package repositories

import (
	"context"

	"github.com/openclerk/ledger/internal/core/domain"
)

// InvoiceRepositoryFacade defines persistence operations for invoices.
type InvoiceRepositoryFacade interface {
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error
	FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context, tenantID string, limit, offset int) ([]domain.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID string, status domain.DocumentStatus, userID string) error
}

// ExpenseRepositoryFacade defines persistence operations for expenses.
type ExpenseRepositoryFacade interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	FindExpenseByID(ctx context.Context, tenantID, expenseID string) (*domain.Expense, error)
	ListExpenses(ctx context.Context, tenantID string, limit, offset int) ([]domain.Expense, error)
	UpdateExpenseStatus(ctx context.Context, tenantID, expenseID string, status domain.DocumentStatus, userID string) error
}
