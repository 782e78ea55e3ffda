package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account naturally increases.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// DefaultNormalBalance returns the conventional normal balance side for the type:
// Assets and Expenses increase on debit, everything else on credit.
func (t AccountType) DefaultNormalBalance() NormalBalance {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return DebitNormal
	default:
		return CreditNormal
	}
}

// Account represents a ledger account within the core domain.
// Balance is a materialized view over posted line effects; it is only ever
// written by the posting engine, inside the posting transaction.
type Account struct {
	AccountID     string          `json:"accountID"` // Primary Key (UUID)
	TenantID      string          `json:"tenantID"`  // Scope for code uniqueness and default provisioning
	Code          string          `json:"code"`      // Unique per tenant (e.g. "1100")
	Name          string          `json:"name"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	Description   string          `json:"description"` // Nullable user description
	IsActive      bool            `json:"isActive"`    // Soft delete flag
	Balance       decimal.Decimal `json:"balance"`     // Persisted running balance
	Version       int64           `json:"version"`     // Bumped on every balance write
	AuditFields
}
