package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/openclerk/ledger/internal/core/domain"
)

// CreateTaxRateRequest is the payload for defining a tax rate.
type CreateTaxRateRequest struct {
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	RateType      string          `json:"rateType" binding:"required,oneof=PERCENTAGE FIXED"`
	Rate          decimal.Decimal `json:"rate"`
	FixedAmount   decimal.Decimal `json:"fixedAmount"`
	IsInclusive   bool            `json:"isInclusive"`
	AppliesTo     string          `json:"appliesTo" binding:"omitempty,oneof=sales purchases all"`
	EffectiveFrom *time.Time      `json:"effectiveFrom"`
	EffectiveTo   *time.Time      `json:"effectiveTo"`
	IsDefault     bool            `json:"isDefault"`
}

// UpdateTaxRateRequest replaces the mutable fields of an existing tax rate.
// Code and rate type cannot change after creation.
type UpdateTaxRateRequest struct {
	Name          string          `json:"name" binding:"required"`
	Rate          decimal.Decimal `json:"rate"`
	FixedAmount   decimal.Decimal `json:"fixedAmount"`
	IsInclusive   bool            `json:"isInclusive"`
	AppliesTo     string          `json:"appliesTo" binding:"omitempty,oneof=sales purchases all"`
	EffectiveFrom *time.Time      `json:"effectiveFrom"`
	EffectiveTo   *time.Time      `json:"effectiveTo"`
	IsDefault     bool            `json:"isDefault"`
	IsActive      *bool           `json:"isActive"` // nil leaves the flag unchanged
}

// TaxRateResponse is the data returned for a tax rate.
type TaxRateResponse struct {
	RateID        string          `json:"rateID"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	RateType      string          `json:"rateType"`
	Rate          decimal.Decimal `json:"rate"`
	FixedAmount   decimal.Decimal `json:"fixedAmount"`
	IsInclusive   bool            `json:"isInclusive"`
	AppliesTo     string          `json:"appliesTo"`
	EffectiveFrom *time.Time      `json:"effectiveFrom,omitempty"`
	EffectiveTo   *time.Time      `json:"effectiveTo,omitempty"`
	IsDefault     bool            `json:"isDefault"`
	IsActive      bool            `json:"isActive"`
}

// CalculateTaxRequest asks for a tax computation against a subtotal.
type CalculateTaxRequest struct {
	RateCode string          `json:"rateCode" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Date     *time.Time      `json:"date"` // Effectiveness check date, defaults to today
}

// CalculateTaxResponse is the result of a tax computation.
type CalculateTaxResponse struct {
	RateCode  string          `json:"rateCode"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
	Inclusive bool            `json:"inclusive"`
}

// ToTaxRateResponse converts a domain.TaxRate.
func ToTaxRateResponse(r *domain.TaxRate) TaxRateResponse {
	return TaxRateResponse{
		RateID:        r.RateID,
		Code:          r.Code,
		Name:          r.Name,
		RateType:      string(r.RateType),
		Rate:          r.Rate,
		FixedAmount:   r.FixedAmount,
		IsInclusive:   r.IsInclusive,
		AppliesTo:     r.AppliesTo,
		EffectiveFrom: r.EffectiveFrom,
		EffectiveTo:   r.EffectiveTo,
		IsDefault:     r.IsDefault,
		IsActive:      r.IsActive,
	}
}
