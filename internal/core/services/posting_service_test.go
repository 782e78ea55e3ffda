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
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/core/services"
	"github.com/openclerk/ledger/internal/dto"
)

type JournalServiceTestSuite struct {
	suite.Suite
	mockJournalRepo *MockJournalRepository
	mockAccountSvc  *MockAccountService
	mockAudit       *MockAuditSink
	service         portssvc.JournalSvcFacade
	ctx             context.Context

	tenantID string
	actorID  string
	cash     domain.Account
	payable  domain.Account
}

func (suite *JournalServiceTestSuite) SetupTest() {
	suite.mockJournalRepo = new(MockJournalRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockAudit = new(MockAuditSink)
	suite.service = services.NewJournalService(suite.mockJournalRepo, suite.mockAccountSvc, suite.mockAudit)
	suite.ctx = context.Background()

	suite.tenantID = uuid.NewString()
	suite.actorID = uuid.NewString()
	suite.cash = domain.Account{
		AccountID:     uuid.NewString(),
		TenantID:      suite.tenantID,
		Code:          "1000",
		Name:          "Cash",
		AccountType:   domain.AccountTypeAsset,
		NormalBalance: domain.DebitNormal,
		IsActive:      true,
		Balance:       decimal.Zero,
		Version:       1,
	}
	suite.payable = domain.Account{
		AccountID:     uuid.NewString(),
		TenantID:      suite.tenantID,
		Code:          "2000",
		Name:          "Accounts Payable",
		AccountType:   domain.AccountTypeLiability,
		NormalBalance: domain.CreditNormal,
		IsActive:      true,
		Balance:       decimal.Zero,
		Version:       1,
	}
}

// draftEntry builds a stored two-line draft moving amount from cash (credit)
// to payable settlement (debit side on payable is unusual but balanced).
func (suite *JournalServiceTestSuite) draftEntry(debit, credit string) *domain.JournalEntry {
	entryID := uuid.NewString()
	return &domain.JournalEntry{
		EntryID:     entryID,
		TenantID:    suite.tenantID,
		Reference:   "JE-100",
		EntryDate:   time.Now().UTC(),
		Description: "Settle supplier invoice",
		Status:      domain.Draft,
		SourceType:  domain.SourceManual,
		Lines: []domain.JournalLine{
			{
				LineID:      uuid.NewString(),
				EntryID:     entryID,
				AccountID:   suite.payable.AccountID,
				AccountCode: suite.payable.Code,
				AccountName: suite.payable.Name,
				Debit:       decimal.RequireFromString(debit),
				Credit:      decimal.Zero,
			},
			{
				LineID:      uuid.NewString(),
				EntryID:     entryID,
				AccountID:   suite.cash.AccountID,
				AccountCode: suite.cash.Code,
				AccountName: suite.cash.Name,
				Debit:       decimal.Zero,
				Credit:      decimal.RequireFromString(credit),
			},
		},
	}
}

func (suite *JournalServiceTestSuite) expectLoad(entry *domain.JournalEntry) {
	header := *entry
	header.Lines = nil
	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(&header, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", suite.ctx, entry.EntryID).Return(entry.Lines, nil).Once()
}

func (suite *JournalServiceTestSuite) TestPostSuccess() {
	entry := suite.draftEntry("1000.00", "1000.00")
	suite.expectLoad(entry)
	suite.mockJournalRepo.On("PostExistingEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry"), (*portsrepo.DocumentStamp)(nil)).
		Run(func(args mock.Arguments) {
			posted := args.Get(1).(domain.JournalEntry)
			suite.Equal(domain.Posted, posted.Status)
			suite.NotNil(posted.PostedAt)
			suite.Equal(suite.actorID, posted.PostedBy)
		}).
		Return(nil).Once()
	suite.mockAudit.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditRecord")).Once()

	posted, err := suite.service.Post(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID, portssvc.PostOptions{})

	suite.Require().NoError(err)
	suite.Equal(domain.Posted, posted.Status)
	suite.Equal(suite.actorID, posted.PostedBy)
	suite.mockJournalRepo.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestPostImbalancedEntryFails() {
	entry := suite.draftEntry("500.00", "400.00")
	suite.expectLoad(entry)

	posted, err := suite.service.Post(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID, portssvc.PostOptions{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrImbalancedEntry)
	suite.Nil(posted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostExistingEntry", mock.Anything, mock.Anything, mock.Anything)
	suite.mockAudit.AssertNotCalled(suite.T(), "Record", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostAlreadyPostedFails() {
	entry := suite.draftEntry("1000.00", "1000.00")
	entry.Status = domain.Posted
	suite.expectLoad(entry)

	posted, err := suite.service.Post(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID, portssvc.PostOptions{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
	suite.Nil(posted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostExistingEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostIdempotentReturnsExisting() {
	entry := suite.draftEntry("1000.00", "1000.00")
	entry.Status = domain.Posted
	suite.expectLoad(entry)

	posted, err := suite.service.Post(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID, portssvc.PostOptions{Idempotent: true})

	suite.Require().NoError(err)
	suite.Equal(entry.EntryID, posted.EntryID)
	suite.Equal(domain.Posted, posted.Status)
	// Balances are never applied a second time.
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "PostExistingEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestPostCrossTenantIsNotFound() {
	entry := suite.draftEntry("1000.00", "1000.00")
	header := *entry
	header.Lines = nil
	header.TenantID = uuid.NewString()
	suite.mockJournalRepo.On("FindEntryByID", suite.ctx, entry.EntryID).Return(&header, nil).Once()

	posted, err := suite.service.Post(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID, portssvc.PostOptions{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(posted)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "FindLinesByEntryID", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestReverseSuccess() {
	entry := suite.draftEntry("1000.00", "1000.00")
	entry.Status = domain.Posted
	suite.expectLoad(entry)
	suite.mockJournalRepo.On("SavePostedEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry"), (*portsrepo.DocumentStamp)(nil)).
		Run(func(args mock.Arguments) {
			reversing := args.Get(1).(domain.JournalEntry)
			suite.Equal(domain.Posted, reversing.Status)
			suite.Equal("REV-"+entry.Reference, reversing.Reference)
			suite.Require().Len(reversing.Lines, 2)
			// Debits and credits swap line by line.
			suite.True(entry.Lines[0].Debit.Equal(reversing.Lines[0].Credit))
			suite.True(entry.Lines[0].Credit.Equal(reversing.Lines[0].Debit))
			suite.True(entry.Lines[1].Debit.Equal(reversing.Lines[1].Credit))
			suite.True(entry.Lines[1].Credit.Equal(reversing.Lines[1].Debit))
		}).
		Return(nil).Once()
	suite.mockJournalRepo.On("MarkEntryReversed", suite.ctx, entry.EntryID, mock.AnythingOfType("string"), suite.actorID).Return(nil).Once()
	suite.mockAudit.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditRecord")).Once()

	reversing, err := suite.service.Reverse(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(reversing.OriginalEntryID)
	suite.Equal(entry.EntryID, *reversing.OriginalEntryID)
	suite.True(reversing.IsBalanced())
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestReverseDraftFails() {
	entry := suite.draftEntry("1000.00", "1000.00")
	suite.expectLoad(entry)

	reversing, err := suite.service.Reverse(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(reversing)
}

func (suite *JournalServiceTestSuite) TestReverseAlreadyReversedFails() {
	entry := suite.draftEntry("1000.00", "1000.00")
	entry.Status = domain.Reversed
	suite.expectLoad(entry)

	reversing, err := suite.service.Reverse(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(reversing)
}

func (suite *JournalServiceTestSuite) TestReverseOfReversalFails() {
	entry := suite.draftEntry("1000.00", "1000.00")
	entry.Status = domain.Posted
	originalID := uuid.NewString()
	entry.OriginalEntryID = &originalID
	suite.expectLoad(entry)

	reversing, err := suite.service.Reverse(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(reversing)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SavePostedEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournalEntrySuccess() {
	req := dto.CreateJournalEntryRequest{
		Reference:   "JE-200",
		Date:        time.Now().UTC(),
		Description: "Office supplies",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.payable.AccountID, Debit: decimal.RequireFromString("150.00")},
			{AccountID: suite.cash.AccountID, Credit: decimal.RequireFromString("150.00")},
		},
	}
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.tenantID, suite.payable.AccountID).Return(&suite.payable, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.tenantID, suite.cash.AccountID).Return(&suite.cash, nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.CreateJournalEntry(suite.ctx, suite.tenantID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Equal(domain.Draft, entry.Status)
	suite.Len(entry.Lines, 2)
	suite.Equal(suite.payable.Code, entry.Lines[0].AccountCode)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateJournalEntryRejectsNegativeLine() {
	req := dto.CreateJournalEntryRequest{
		Reference:   "JE-201",
		Date:        time.Now().UTC(),
		Description: "Bad entry",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.payable.AccountID, Debit: decimal.RequireFromString("-10.00")},
			{AccountID: suite.cash.AccountID, Credit: decimal.RequireFromString("10.00")},
		},
	}

	entry, err := suite.service.CreateJournalEntry(suite.ctx, suite.tenantID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "SaveDraftEntry", mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestCreateJournalEntryAcceptsTwoSidedLine() {
	// A contra line carrying both sides is unusual but legal; only the
	// entry-level balance is enforced.
	req := dto.CreateJournalEntryRequest{
		Reference:   "JE-202",
		Date:        time.Now().UTC(),
		Description: "Partial offset",
		Lines: []dto.JournalLineRequest{
			{AccountID: suite.payable.AccountID, Debit: decimal.RequireFromString("25.00"), Credit: decimal.RequireFromString("10.00")},
			{AccountID: suite.cash.AccountID, Credit: decimal.RequireFromString("15.00")},
		},
	}
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.tenantID, suite.payable.AccountID).Return(&suite.payable, nil).Once()
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.tenantID, suite.cash.AccountID).Return(&suite.cash, nil).Once()
	suite.mockJournalRepo.On("SaveDraftEntry", suite.ctx, mock.AnythingOfType("domain.JournalEntry")).Return(nil).Once()

	entry, err := suite.service.CreateJournalEntry(suite.ctx, suite.tenantID, req, suite.actorID)

	suite.Require().NoError(err)
	suite.Len(entry.Lines, 2)
	suite.True(entry.TotalDebits().Equal(entry.TotalCredits()))
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestCreateJournalEntryRejectsInactiveAccount() {
	closed := suite.cash
	closed.IsActive = false
	req := dto.CreateJournalEntryRequest{
		Reference:   "JE-203",
		Date:        time.Now().UTC(),
		Description: "Entry on closed account",
		Lines: []dto.JournalLineRequest{
			{AccountID: closed.AccountID, Debit: decimal.RequireFromString("10.00")},
			{AccountID: suite.payable.AccountID, Credit: decimal.RequireFromString("10.00")},
		},
	}
	suite.mockAccountSvc.On("GetAccountByID", suite.ctx, suite.tenantID, closed.AccountID).Return(&closed, nil).Once()

	entry, err := suite.service.CreateJournalEntry(suite.ctx, suite.tenantID, req, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(entry)
}

func (suite *JournalServiceTestSuite) TestDeleteDraftEntrySuccess() {
	entry := suite.draftEntry("100.00", "100.00")
	suite.expectLoad(entry)
	suite.mockJournalRepo.On("DeleteDraftEntry", suite.ctx, suite.tenantID, entry.EntryID).Return(nil).Once()
	suite.mockAudit.On("Record", suite.ctx, mock.AnythingOfType("domain.AuditRecord")).Once()

	err := suite.service.DeleteDraftEntry(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID)

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestDeletePostedEntryFails() {
	entry := suite.draftEntry("100.00", "100.00")
	entry.Status = domain.Posted
	suite.expectLoad(entry)

	err := suite.service.DeleteDraftEntry(suite.ctx, suite.tenantID, entry.EntryID, suite.actorID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.mockJournalRepo.AssertNotCalled(suite.T(), "DeleteDraftEntry", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *JournalServiceTestSuite) TestGetJournalEntryByReference() {
	entry := suite.draftEntry("100.00", "100.00")
	header := *entry
	header.Lines = nil
	suite.mockJournalRepo.On("FindEntryByReference", suite.ctx, suite.tenantID, entry.Reference).Return(&header, nil).Once()
	suite.mockJournalRepo.On("FindLinesByEntryID", suite.ctx, entry.EntryID).Return(entry.Lines, nil).Once()

	found, err := suite.service.GetJournalEntryByReference(suite.ctx, suite.tenantID, entry.Reference)

	suite.Require().NoError(err)
	suite.Equal(entry.EntryID, found.EntryID)
	suite.Len(found.Lines, 2)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestGetJournalEntryByReferenceNotFound() {
	suite.mockJournalRepo.On("FindEntryByReference", suite.ctx, suite.tenantID, "JE-MISSING").
		Return(nil, apperrors.ErrNotFound).Once()

	found, err := suite.service.GetJournalEntryByReference(suite.ctx, suite.tenantID, "JE-MISSING")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(found)
}

func (suite *JournalServiceTestSuite) TestListJournalEntriesDefaultsLimit() {
	suite.mockJournalRepo.On("ListEntriesByTenant", suite.ctx, suite.tenantID, 50, 0, false).
		Return([]domain.JournalEntry{}, nil).Once()

	entries, err := suite.service.ListJournalEntries(suite.ctx, suite.tenantID, dto.ListEntriesParams{})

	suite.Require().NoError(err)
	suite.Empty(entries)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func (suite *JournalServiceTestSuite) TestListJournalEntriesCapsLimit() {
	suite.mockJournalRepo.On("ListEntriesByTenant", suite.ctx, suite.tenantID, 200, 0, true).
		Return([]domain.JournalEntry{}, nil).Once()

	_, err := suite.service.ListJournalEntries(suite.ctx, suite.tenantID, dto.ListEntriesParams{Limit: 5000, IncludeReversals: true})

	suite.Require().NoError(err)
	suite.mockJournalRepo.AssertExpectations(suite.T())
}

func TestJournalServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JournalServiceTestSuite))
}
