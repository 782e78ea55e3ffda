package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/openclerk/ledger/internal/core/services"
)

type EntryBuilderTestSuite struct {
	suite.Suite
	mockAccountSvc *MockAccountService
	ctx            context.Context

	tenantID string
	actorID  string
}

func (suite *EntryBuilderTestSuite) SetupTest() {
	suite.mockAccountSvc = new(MockAccountService)
	suite.ctx = context.Background()
	suite.tenantID = uuid.NewString()
	suite.actorID = uuid.NewString()
}

func (suite *EntryBuilderTestSuite) namedAccount(code, name string, accountType domain.AccountType) *domain.Account {
	return &domain.Account{
		AccountID:     uuid.NewString(),
		TenantID:      suite.tenantID,
		Code:          code,
		Name:          name,
		AccountType:   accountType,
		NormalBalance: accountType.DefaultNormalBalance(),
		IsActive:      true,
	}
}

func (suite *EntryBuilderTestSuite) TestInvoiceBuilderBalancedEntry() {
	receivable := suite.namedAccount("1100", "Accounts Receivable", domain.AccountTypeAsset)
	revenue := suite.namedAccount("4000", "Sales Revenue", domain.AccountTypeRevenue)
	invoice := &domain.Invoice{
		InvoiceID:    uuid.NewString(),
		TenantID:     suite.tenantID,
		Reference:    "INV-001",
		CustomerName: "Acme Corp",
		InvoiceDate:  time.Now().UTC(),
		Subtotal:     decimal.RequireFromString("1000.00"),
		TaxAmount:    decimal.RequireFromString("120.00"),
		Total:        decimal.RequireFromString("1120.00"),
		TaxRateCode:  "VAT12",
		Status:       domain.DocApproved,
	}
	suite.mockAccountSvc.On("FindOrCreate", suite.ctx, suite.tenantID, mock.MatchedBy(func(sel domain.AccountSelector) bool {
		return sel.Code == "1100"
	}), suite.actorID).Return(receivable, nil).Once()
	suite.mockAccountSvc.On("FindOrCreate", suite.ctx, suite.tenantID, mock.MatchedBy(func(sel domain.AccountSelector) bool {
		return sel.Type == domain.AccountTypeRevenue
	}), suite.actorID).Return(revenue, nil).Once()

	builder := &services.InvoiceEntryBuilder{Accounts: suite.mockAccountSvc, Invoice: invoice}
	entry, err := builder.BuildEntry(suite.ctx, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.Equal(domain.SourceInvoice, entry.SourceType)
	suite.Equal(invoice.InvoiceID, entry.SourceID)
	suite.Require().Len(entry.Lines, 2)
	// AR is debited and revenue credited for the tax-inclusive total.
	suite.Equal(receivable.AccountID, entry.Lines[0].AccountID)
	suite.True(invoice.Total.Equal(entry.Lines[0].Debit))
	suite.Equal(revenue.AccountID, entry.Lines[1].AccountID)
	suite.True(invoice.Total.Equal(entry.Lines[1].Credit))
	suite.True(entry.IsBalanced())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *EntryBuilderTestSuite) TestInvoiceBuilderHonorsAccountOverrides() {
	receivable := suite.namedAccount("1150", "Trade Receivables", domain.AccountTypeAsset)
	revenue := suite.namedAccount("4100", "Service Revenue", domain.AccountTypeRevenue)
	invoice := &domain.Invoice{
		InvoiceID:           uuid.NewString(),
		TenantID:            suite.tenantID,
		Reference:           "INV-002",
		CustomerName:        "Acme Corp",
		InvoiceDate:         time.Now().UTC(),
		Subtotal:            decimal.RequireFromString("500.00"),
		Total:               decimal.RequireFromString("500.00"),
		Status:              domain.DocApproved,
		ReceivableAccountID: receivable.AccountID,
		RevenueAccountID:    revenue.AccountID,
	}
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.tenantID, receivable.AccountID).Return(receivable, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.tenantID, revenue.AccountID).Return(revenue, nil).Once()

	builder := &services.InvoiceEntryBuilder{Accounts: suite.mockAccountSvc, Invoice: invoice}
	entry, err := builder.BuildEntry(suite.ctx, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(receivable.AccountID, entry.Lines[0].AccountID)
	suite.Equal(revenue.AccountID, entry.Lines[1].AccountID)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "FindOrCreate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *EntryBuilderTestSuite) TestInvoiceBuilderRejectsNonPositiveTotal() {
	invoice := &domain.Invoice{
		InvoiceID: uuid.NewString(),
		TenantID:  suite.tenantID,
		Reference: "INV-003",
		Total:     decimal.Zero,
	}

	builder := &services.InvoiceEntryBuilder{Accounts: suite.mockAccountSvc, Invoice: invoice}
	entry, err := builder.BuildEntry(suite.ctx, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
}

func (suite *EntryBuilderTestSuite) TestExpenseBuilderBalancedEntry() {
	expenseAcc := suite.namedAccount("5000", "General Expense", domain.AccountTypeExpense)
	payable := suite.namedAccount("2000", "Accounts Payable", domain.AccountTypeLiability)
	expense := &domain.Expense{
		ExpenseID:   uuid.NewString(),
		TenantID:    suite.tenantID,
		Reference:   "EXP-001",
		Payee:       "Office Depot",
		ExpenseDate: time.Now().UTC(),
		Amount:      decimal.RequireFromString("200.00"),
		TaxAmount:   decimal.RequireFromString("24.00"),
		Status:      domain.DocApproved,
	}
	suite.mockAccountSvc.On("FindOrCreate", suite.ctx, suite.tenantID, mock.MatchedBy(func(sel domain.AccountSelector) bool {
		return sel.Type == domain.AccountTypeExpense
	}), suite.actorID).Return(expenseAcc, nil).Once()
	suite.mockAccountSvc.On("FindOrCreate", suite.ctx, suite.tenantID, mock.MatchedBy(func(sel domain.AccountSelector) bool {
		return sel.Type == domain.AccountTypeLiability
	}), suite.actorID).Return(payable, nil).Once()

	builder := &services.ExpenseEntryBuilder{Accounts: suite.mockAccountSvc, Expense: expense}
	entry, err := builder.BuildEntry(suite.ctx, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.SourceExpense, entry.SourceType)
	suite.Require().Len(entry.Lines, 2)
	// Expense account debited for amount plus tax, payment account credited.
	total := decimal.RequireFromString("224.00")
	suite.True(total.Equal(entry.Lines[0].Debit))
	suite.True(total.Equal(entry.Lines[1].Credit))
	suite.True(entry.IsBalanced())
}

func (suite *EntryBuilderTestSuite) TestManualBuilderBalancedEntry() {
	cash := suite.namedAccount("1000", "Cash", domain.AccountTypeAsset)
	equity := suite.namedAccount("3000", "Owner Equity", domain.AccountTypeEquity)
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.tenantID, cash.AccountID).Return(cash, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.tenantID, equity.AccountID).Return(equity, nil).Once()

	builder := &services.ManualEntryBuilder{
		Accounts:        suite.mockAccountSvc,
		TenantID:        suite.tenantID,
		Reference:       "JE-OPEN",
		Date:            time.Now().UTC(),
		Description:     "Opening capital",
		DebitAccountID:  cash.AccountID,
		CreditAccountID: equity.AccountID,
		Amount:          decimal.RequireFromString("5000.00"),
		Memo:            "Initial deposit",
	}
	entry, err := builder.BuildEntry(suite.ctx, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().Len(entry.Lines, 2)
	suite.Equal(cash.AccountID, entry.Lines[0].AccountID)
	suite.Equal(equity.AccountID, entry.Lines[1].AccountID)
	suite.True(entry.IsBalanced())
	// Denormalized code and name survive later account renames.
	suite.Equal("1000", entry.Lines[0].AccountCode)
	suite.Equal("Cash", entry.Lines[0].AccountName)
}

func (suite *EntryBuilderTestSuite) TestManualBuilderRejectsNonPositiveAmount() {
	builder := &services.ManualEntryBuilder{
		Accounts:        suite.mockAccountSvc,
		TenantID:        suite.tenantID,
		DebitAccountID:  uuid.NewString(),
		CreditAccountID: uuid.NewString(),
		Amount:          decimal.Zero,
	}
	entry, err := builder.BuildEntry(suite.ctx, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
}

func (suite *EntryBuilderTestSuite) TestManualBuilderRejectsSameAccount() {
	accountID := uuid.NewString()
	builder := &services.ManualEntryBuilder{
		Accounts:        suite.mockAccountSvc,
		TenantID:        suite.tenantID,
		DebitAccountID:  accountID,
		CreditAccountID: accountID,
		Amount:          decimal.RequireFromString("100.00"),
	}
	entry, err := builder.BuildEntry(suite.ctx, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccountByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestEntryBuilderTestSuite(t *testing.T) {
	suite.Run(t, new(EntryBuilderTestSuite))
}
