package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaxRateType distinguishes percentage rates from fixed-amount charges.
type TaxRateType string

const (
	Percentage TaxRateType = "PERCENTAGE"
	Fixed      TaxRateType = "FIXED"
)

// TaxRate is the persistence shape of a tax rate definition.
type TaxRate struct {
	RateID        string          `db:"rate_id"`
	TenantID      string          `db:"tenant_id"`
	Code          string          `db:"code"` // Unique per tenant
	Name          string          `db:"name"`
	RateType      TaxRateType     `db:"rate_type"`
	Rate          decimal.Decimal `db:"rate"`
	FixedAmount   decimal.Decimal `db:"fixed_amount"`
	IsInclusive   bool            `db:"is_inclusive"`
	AppliesTo     string          `db:"applies_to"`
	EffectiveFrom *time.Time      `db:"effective_from"`
	EffectiveTo   *time.Time      `db:"effective_to"`
	IsDefault     bool            `db:"is_default"`
	IsActive      bool            `db:"is_active"`
	AuditFields
}
