package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/openclerk/ledger/internal/dto"
)

// AccountRegistrySvc is the account resolution surface used by the document
// adapters: lookup by selector criteria with deterministic default creation.
type AccountRegistrySvc interface {
	// FindOrCreate resolves an account for a selector. Explicit code misses
	// return apperrors.ErrNotFound; pattern misses fall back to creating the
	// selector's well-known default. Creation races against the (tenant, code)
	// uniqueness constraint are recovered by a single re-fetch.
	FindOrCreate(ctx context.Context, tenantID string, selector domain.AccountSelector, actorID string) (*domain.Account, error)
}

// AccountReaderSvc defines read-only account operations.
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)
	GetAccountBalance(ctx context.Context, tenantID, accountID string) (decimal.Decimal, error)
	ListAccounts(ctx context.Context, tenantID string, limit, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines account management operations.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// UpdateAccount renames an account and updates its description. Code,
	// type and balance are immutable here; balances only move by posting.
	UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error)
	DeactivateAccount(ctx context.Context, tenantID, accountID, actorID string) error
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountRegistrySvc
	AccountReaderSvc
	AccountWriterSvc
}
