package models

import (
	"github.com/shopspring/decimal"
)

// AccountType mirrors the domain account type for DB storage.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// NormalBalance mirrors the domain normal balance side for DB storage.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "DEBIT"
	CreditNormal NormalBalance = "CREDIT"
)

// Account is the persistence shape of a ledger account.
type Account struct {
	AccountID     string          `db:"account_id"`
	TenantID      string          `db:"tenant_id"`
	Code          string          `db:"code"` // Unique per tenant
	Name          string          `db:"name"`
	AccountType   AccountType     `db:"account_type"`
	NormalBalance NormalBalance   `db:"normal_balance"`
	Description   string          `db:"description"`
	IsActive      bool            `db:"is_active"`
	Balance       decimal.Decimal `db:"balance"`
	Version       int64           `db:"version"` // Incremented on every balance write
	AuditFields
}
