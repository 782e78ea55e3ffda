package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/apperrors"
	"github.com/openclerk/ledger/internal/core/domain"
	portsrepo "github.com/openclerk/ledger/internal/core/ports/repositories"
	portssvc "github.com/openclerk/ledger/internal/core/ports/services"
	"github.com/openclerk/ledger/internal/dto"
	"github.com/openclerk/ledger/internal/middleware"
)

// accountService is the account registry: explicit account management plus the
// selector-based resolution used by the document adapters.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: repo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount creates an account from an explicit operator request.
func (s *accountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	accountType := domain.AccountType(req.AccountType)
	normal := domain.NormalBalance(req.NormalBalance)
	if normal == "" {
		normal = accountType.DefaultNormalBalance()
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		TenantID:      tenantID,
		Code:          req.Code,
		Name:          req.Name,
		AccountType:   accountType,
		NormalBalance: normal,
		Description:   req.Description,
		IsActive:      true,
		Balance:       decimal.Zero,
		Version:       1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, req.Code)
		}
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", req.Code))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("code", account.Code))
	return &account, nil
}

// FindOrCreate resolves an account for a selector: explicit code first, then
// the first active account of the selector's type matching the name pattern,
// and finally the selector's well-known default is created. A concurrent
// creation of the same default loses the uniqueness race and recovers by
// re-fetching the row the winner inserted.
func (s *accountService) FindOrCreate(ctx context.Context, tenantID string, selector domain.AccountSelector, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if selector.Code != "" {
		account, err := s.accountRepo.FindAccountByCode(ctx, tenantID, selector.Code)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		// An explicit code with no fallback is a hard miss.
		if selector.Fallback == (domain.AccountSpec{}) {
			return nil, fmt.Errorf("%w: account code %s", apperrors.ErrNotFound, selector.Code)
		}
	}

	if selector.Type != "" {
		account, err := s.accountRepo.FindFirstActiveByType(ctx, tenantID, selector.Type, selector.NameContains)
		if err == nil {
			return account, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	if selector.Fallback == (domain.AccountSpec{}) {
		return nil, fmt.Errorf("%w: no account matches selector", apperrors.ErrNotFound)
	}

	account, err := s.provisionDefault(ctx, tenantID, selector.Fallback, actorID)
	if err != nil {
		return nil, err
	}
	logger.Info("Default account provisioned",
		slog.String("tenant_id", tenantID),
		slog.String("code", account.Code),
		slog.String("account_type", string(account.AccountType)))
	return account, nil
}

// provisionDefault creates a well-known default account, resolving creation
// races through the (tenant_id, code) uniqueness constraint: on ErrDuplicate
// the now-existing row is fetched and returned.
func (s *accountService) provisionDefault(ctx context.Context, tenantID string, spec domain.AccountSpec, actorID string) (*domain.Account, error) {
	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		TenantID:      tenantID,
		Code:          spec.Code,
		Name:          spec.Name,
		AccountType:   spec.Type,
		NormalBalance: spec.NormalBalance(),
		IsActive:      true,
		Balance:       decimal.Zero,
		Version:       1,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	err := s.accountRepo.SaveAccount(ctx, account)
	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, apperrors.ErrDuplicate) {
		return nil, fmt.Errorf("failed to provision default account %s: %w", spec.Code, err)
	}

	// Lost the creation race; the winner's row must exist now.
	existing, fetchErr := s.accountRepo.FindAccountByCode(ctx, tenantID, spec.Code)
	if fetchErr != nil {
		return nil, fmt.Errorf("default account %s conflicted but refetch failed: %w", spec.Code, fetchErr)
	}
	return existing, nil
}

// UpdateAccount renames an account and updates its description. The code,
// type, normal balance and running balance are never touched here.
func (s *accountService) UpdateAccount(ctx context.Context, tenantID, accountID string, req dto.UpdateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return nil, err
	}

	account.Name = req.Name
	account.Description = req.Description
	account.LastUpdatedAt = time.Now().UTC()
	account.LastUpdatedBy = actorID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, err
	}

	logger.Info("Account updated", slog.String("account_id", accountID), slog.String("name", account.Name))
	return account, nil
}

// GetAccountByID retrieves a single account.
func (s *accountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find account by ID", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// GetAccountBalance returns the materialized running balance of an account.
func (s *accountService) GetAccountBalance(ctx context.Context, tenantID, accountID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// ListAccounts retrieves a paginated list of active accounts.
func (s *accountService) ListAccounts(ctx context.Context, tenantID string, limit, offset int) ([]domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	accounts, err := s.accountRepo.ListAccounts(ctx, tenantID, limit, offset)
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()), slog.String("tenant_id", tenantID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// DeactivateAccount soft-deletes an account. Accounts referenced by posted
// lines are never hard-deleted.
func (s *accountService) DeactivateAccount(ctx context.Context, tenantID, accountID, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.accountRepo.DeactivateAccount(ctx, tenantID, accountID, actorID, time.Now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrValidation) {
			logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		}
		return err
	}
	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
