package domain

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

// TaxRate is a pure calculation object: given a subtotal it deterministically
// yields a tax amount and a total. It carries no ledger state.
type TaxRate struct {
	RateID        string          `json:"rateID"`   // Primary Key (UUID)
	TenantID      string          `json:"tenantID"` // Scope for code uniqueness and defaults
	Code          string          `json:"code"`     // Unique per tenant (e.g. "VAT12")
	Name          string          `json:"name"`
	RateType      TaxRateType     `json:"rateType"`
	Rate          decimal.Decimal `json:"rate"`        // Percentage value, e.g. 12 for 12%
	FixedAmount   decimal.Decimal `json:"fixedAmount"` // Used when RateType == Fixed
	IsInclusive   bool            `json:"isInclusive"` // Tax already embedded in stated totals
	AppliesTo     string          `json:"appliesTo"`   // Scope label (sales, purchases, all)
	EffectiveFrom *time.Time      `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time      `json:"effectiveTo,omitempty"`
	IsDefault     bool            `json:"isDefault"` // At most one default per tenant+scope
	IsActive      bool            `json:"isActive"`
	AuditFields
}

// TaxAmount computes the tax for a subtotal: percentage rates round
// subtotal * rate / 100 to two decimal places, fixed rates return the fixed
// amount verbatim. Negative or zero subtotals compute normally; effectiveness
// gating is the caller's responsibility.
func (r TaxRate) TaxAmount(subtotal decimal.Decimal) decimal.Decimal {
	if r.RateType == Fixed {
		return r.FixedAmount
	}
	return subtotal.Mul(r.Rate).Div(decimal.NewFromInt(100)).Round(2)
}

// TotalWithTax computes the grand total for a subtotal. For inclusive rates
// the subtotal already embeds the tax and is returned unchanged.
func (r TaxRate) TotalWithTax(subtotal decimal.Decimal) decimal.Decimal {
	if r.IsInclusive {
		return subtotal
	}
	return subtotal.Add(r.TaxAmount(subtotal))
}

// SubtotalFromTotal is the inverse of TotalWithTax. Inclusive rates return
// the total unchanged (the stated amount is the subtotal); exclusive
// percentage rates reverse total = subtotal * (1 + rate/100).
func (r TaxRate) SubtotalFromTotal(total decimal.Decimal) decimal.Decimal {
	if r.IsInclusive {
		return total
	}
	if r.RateType == Fixed {
		return total.Sub(r.FixedAmount)
	}
	divisor := decimal.NewFromInt(1).Add(r.Rate.Div(decimal.NewFromInt(100)))
	return total.Div(divisor).Round(2)
}

// InclusiveTaxPortion is the tax embedded in a tax-inclusive stated amount:
// total * rate / (100 + rate) for percentage rates, the fixed amount for
// fixed rates.
func (r TaxRate) InclusiveTaxPortion(total decimal.Decimal) decimal.Decimal {
	if r.RateType == Fixed {
		return r.FixedAmount
	}
	hundred := decimal.NewFromInt(100)
	return total.Mul(r.Rate).Div(hundred.Add(r.Rate)).Round(2)
}

// IsEffective reports whether the rate may be used on the given date.
// An unset boundary is open-ended on that side.
func (r TaxRate) IsEffective(on time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.EffectiveFrom != nil && on.Before(*r.EffectiveFrom) {
		return false
	}
	if r.EffectiveTo != nil && on.After(*r.EffectiveTo) {
		return false
	}
	return true
}
