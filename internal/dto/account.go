package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/core/domain"
)

// CreateAccountRequest is the payload for explicitly creating a ledger account.
type CreateAccountRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	AccountType   string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	NormalBalance string `json:"normalBalance" binding:"omitempty,oneof=DEBIT CREDIT"` // Defaults by account type when omitted
	Description   string `json:"description"`
}

// UpdateAccountRequest renames an account. Code, type and balance stay fixed.
type UpdateAccountRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AccountResponse is the data returned for an account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	AccountType   string          `json:"accountType"`
	NormalBalance string          `json:"normalBalance"`
	Description   string          `json:"description,omitempty"`
	IsActive      bool            `json:"isActive"`
	Balance       decimal.Decimal `json:"balance"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// BalanceResponse is the data returned for a balance query.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	Code      string          `json:"code"`
	Balance   decimal.Decimal `json:"balance"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     a.AccountID,
		Code:          a.Code,
		Name:          a.Name,
		AccountType:   string(a.AccountType),
		NormalBalance: string(a.NormalBalance),
		Description:   a.Description,
		IsActive:      a.IsActive,
		Balance:       a.Balance,
		CreatedAt:     a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
