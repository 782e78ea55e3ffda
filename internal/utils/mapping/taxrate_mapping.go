package mapping

import (
	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/openclerk/ledger/internal/models"
)

// ToModelTaxRate converts a domain TaxRate to a model TaxRate.
func ToModelTaxRate(d domain.TaxRate) models.TaxRate {
	return models.TaxRate{
		RateID:        d.RateID,
		TenantID:      d.TenantID,
		Code:          d.Code,
		Name:          d.Name,
		RateType:      models.TaxRateType(d.RateType),
		Rate:          d.Rate,
		FixedAmount:   d.FixedAmount,
		IsInclusive:   d.IsInclusive,
		AppliesTo:     d.AppliesTo,
		EffectiveFrom: d.EffectiveFrom,
		EffectiveTo:   d.EffectiveTo,
		IsDefault:     d.IsDefault,
		IsActive:      d.IsActive,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTaxRate converts a model TaxRate to a domain TaxRate.
func ToDomainTaxRate(m models.TaxRate) domain.TaxRate {
	return domain.TaxRate{
		RateID:        m.RateID,
		TenantID:      m.TenantID,
		Code:          m.Code,
		Name:          m.Name,
		RateType:      domain.TaxRateType(m.RateType),
		Rate:          m.Rate,
		FixedAmount:   m.FixedAmount,
		IsInclusive:   m.IsInclusive,
		AppliesTo:     m.AppliesTo,
		EffectiveFrom: m.EffectiveFrom,
		EffectiveTo:   m.EffectiveTo,
		IsDefault:     m.IsDefault,
		IsActive:      m.IsActive,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
