package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier within a tenant.
	FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its ledger code within a tenant.
	FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error)

	// FindFirstActiveByType retrieves the first active account of the given type,
	// optionally filtered by a case-insensitive name substring. Returns
	// apperrors.ErrNotFound when no account matches.
	FindFirstActiveByType(ctx context.Context, tenantID string, accountType domain.AccountType, nameContains string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of active accounts for a tenant.
	ListAccounts(ctx context.Context, tenantID string, limit, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount inserts a new account. A (tenant_id, code) unique violation
	// surfaces as apperrors.ErrDuplicate so callers can recover creation races.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates mutable non-balance fields of an account.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount soft-deletes an account.
	DeactivateAccount(ctx context.Context, tenantID, accountID, userID string, now time.Time) error
}

// AccountLocker defines the balance-write operations used inside the posting
// transaction. All methods must be called with the posting engine's pgx.Tx.
type AccountLocker interface {
	// FindAccountsByIDsForUpdate locks the given account rows FOR UPDATE and
	// returns them keyed by account ID. Callers must pass IDs in sorted order
	// so concurrent postings acquire locks in the same sequence.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalanceInTx writes a new balance guarded by the expected
	// version; a stale version surfaces as apperrors.ErrConflict.
	UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalance decimal.Decimal, expectedVersion int64, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountLocker
}
