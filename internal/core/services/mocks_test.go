package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/dto"
)

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindFirstActiveByType(ctx context.Context, tenantID string, accountType domain.AccountType, nameContains string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountType, nameContains)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, tenantID, accountID, userID string, now time.Time) error {
	args := m.Called(ctx, tenantID, accountID, userID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalance decimal.Decimal, expectedVersion int64, userID string, now time.Time) error {
	args := m.Called(ctx, tx, accountID, newBalance, expectedVersion, userID, now)
	return args.Error(0)
}

// --- Mock JournalRepository ---

type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryFacade = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindEntryByReference(ctx context.Context, tenantID, reference string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalLine), args.Error(1)
}

func (m *MockJournalRepository) ListEntriesByTenant(ctx context.Context, tenantID string, limit, offset int, includeReversals bool) ([]domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, limit, offset, includeReversals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) PostExistingEntry(ctx context.Context, entry domain.JournalEntry, stamp *portsrepo.DocumentStamp) error {
	args := m.Called(ctx, entry, stamp)
	return args.Error(0)
}

func (m *MockJournalRepository) SavePostedEntry(ctx context.Context, entry domain.JournalEntry, stamp *portsrepo.DocumentStamp) error {
	args := m.Called(ctx, entry, stamp)
	return args.Error(0)
}

func (m *MockJournalRepository) MarkEntryReversed(ctx context.Context, entryID, reversingEntryID, userID string) error {
	args := m.Called(ctx, entryID, reversingEntryID, userID)
	return args.Error(0)
}

func (m *MockJournalRepository) DeleteDraftEntry(ctx context.Context, tenantID, entryID string) error {
	args := m.Called(ctx, tenantID, entryID)
	return args.Error(0)
}

// --- Mock TaxRateRepository ---

type MockTaxRateRepository struct {
	mock.Mock
}

var _ portsrepo.TaxRateRepositoryFacade = (*MockTaxRateRepository)(nil)

func (m *MockTaxRateRepository) FindTaxRateByID(ctx context.Context, tenantID, rateID string) (*domain.TaxRate, error) {
	args := m.Called(ctx, tenantID, rateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindTaxRateByCode(ctx context.Context, tenantID, code string) (*domain.TaxRate, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) FindDefaultTaxRate(ctx context.Context, tenantID, appliesTo string) (*domain.TaxRate, error) {
	args := m.Called(ctx, tenantID, appliesTo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) ListTaxRates(ctx context.Context, tenantID string) ([]domain.TaxRate, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TaxRate), args.Error(1)
}

func (m *MockTaxRateRepository) SaveTaxRate(ctx context.Context, rate domain.TaxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockTaxRateRepository) UpdateTaxRate(ctx context.Context, rate domain.TaxRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

// --- Mock InvoiceRepository ---

type MockInvoiceRepository struct {
	mock.Mock
}

var _ portsrepo.InvoiceRepositoryFacade = (*MockInvoiceRepository)(nil)

func (m *MockInvoiceRepository) SaveInvoice(ctx context.Context, invoice domain.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) FindInvoiceByID(ctx context.Context, tenantID, invoiceID string) (*domain.Invoice, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) ListInvoices(ctx context.Context, tenantID string, limit, offset int) ([]domain.Invoice, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) UpdateInvoiceStatus(ctx context.Context, tenantID, invoiceID string, status domain.DocumentStatus, userID string) error {
	args := m.Called(ctx, tenantID, invoiceID, status, userID)
	return args.Error(0)
}

// --- Mock ExpenseRepository ---

type MockExpenseRepository struct {
	mock.Mock
}

var _ portsrepo.ExpenseRepositoryFacade = (*MockExpenseRepository)(nil)

func (m *MockExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	args := m.Called(ctx, expense)
	return args.Error(0)
}

func (m *MockExpenseRepository) FindExpenseByID(ctx context.Context, tenantID, expenseID string) (*domain.Expense, error) {
	args := m.Called(ctx, tenantID, expenseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) ListExpenses(ctx context.Context, tenantID string, limit, offset int) ([]domain.Expense, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockExpenseRepository) UpdateExpenseStatus(ctx context.Context, tenantID, expenseID string, status domain.DocumentStatus, userID string) error {
	args := m.Called(ctx, tenantID, expenseID, status, userID)
	return args.Error(0)
}

// --- Mock AccountService ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) FindOrCreate(ctx context.Context, tenantID string, selector domain.AccountSelector, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, selector, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountBalance(ctx context.Context, tenantID, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string, limit, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, tenantID, accountID, actorID string) error {
	args := m.Called(ctx, tenantID, accountID, actorID)
	return args.Error(0)
}

// --- Mock AuditSink ---

type MockAuditSink struct {
	mock.Mock
}

var _ portssvc.AuditSink = (*MockAuditSink)(nil)

func (m *MockAuditSink) Record(ctx context.Context, rec domain.AuditRecord) {
	m.Called(ctx, rec)
}
