package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	"github.com/openclerk/ledger/internal/models"
	"github.com/openclerk/ledger/internal/utils/mapping"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, tenant_id, code, name, account_type, normal_balance, description, is_active, balance, version, created_at, created_by, last_updated_at, last_updated_by`

// scanAccount scans one account row in accountColumns order.
func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.NormalBalance,
		&m.Description,
		&m.IsActive,
		&m.Balance,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.TenantID,
		m.Code,
		m.Name,
		m.AccountType,
		m.NormalBalance,
		m.Description,
		m.IsActive,
		m.Balance,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account code %s already exists in tenant %s", apperrors.ErrDuplicate, m.Code, m.TenantID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID within a tenant.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND account_id = $2;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, tenantID, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindAccountByCode retrieves an account by its ledger code within a tenant.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND code = $2;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by code %s: %w", code, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindFirstActiveByType retrieves the first active account of a type, ordered
// by code so the result is deterministic across calls.
func (r *PgxAccountRepository) FindFirstActiveByType(ctx context.Context, tenantID string, accountType domain.AccountType, nameContains string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND account_type = $2 AND is_active = TRUE
		  AND ($3 = '' OR name ILIKE '%' || $3 || '%')
		ORDER BY code
		LIMIT 1;
	`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, tenantID, string(accountType), nameContains))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find active %s account: %w", accountType, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// ListAccounts retrieves a paginated list of active accounts for a tenant.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND is_active = TRUE
		ORDER BY code
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for tenant %s: %w", tenantID, err)
		}
		accounts = append(accounts, mapping.ToDomainAccount(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for tenant %s: %w", tenantID, rows.Err())
	}
	return accounts, nil
}

// UpdateAccount updates mutable non-balance fields of an account. Balance and
// version are only ever written through UpdateAccountBalanceInTx.
func (r *PgxAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		UPDATE accounts
		SET name = $3, description = $4, is_active = $5, last_updated_at = $6, last_updated_by = $7
		WHERE tenant_id = $1 AND account_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.TenantID,
		m.AccountID,
		m.Name,
		m.Description,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", m.AccountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateAccount soft-deletes an account.
func (r *PgxAccountRepository) DeactivateAccount(ctx context.Context, tenantID, accountID, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_active = FALSE, last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $1 AND account_id = $2 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, tenantID, accountID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsByIDsForUpdate retrieves accounts by IDs and locks the rows for
// update. Must be called within a transaction, with IDs in sorted order so
// concurrent postings acquire locks in the same sequence.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE tenant_id = $1 AND account_id = ANY($2)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, tenantID, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	defer rows.Close()

	accountsMap := make(map[string]domain.Account)
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accountsMap[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	if len(accountsMap) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, found := accountsMap[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}

	return accountsMap, nil
}

// UpdateAccountBalanceInTx writes a new balance guarded by the expected
// version. A zero row count means another writer got there first; the caller
// sees ErrConflict and can retry the whole posting.
func (r *PgxAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, newBalance decimal.Decimal, expectedVersion int64, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1 AND version = $5;
	`
	cmdTag, err := tx.Exec(ctx, query, accountID, newBalance, now, userID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s version changed since read", apperrors.ErrConflict, accountID)
	}
	return nil
}
