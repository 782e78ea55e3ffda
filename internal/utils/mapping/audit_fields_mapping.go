package mapping

import (
	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/openclerk/ledger/internal/models"
)

// ToModelAuditFields converts domain audit fields to the model shape.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	return models.AuditFields{
		CreatedAt:     d.CreatedAt,
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: d.LastUpdatedAt,
		LastUpdatedBy: d.LastUpdatedBy,
	}
}

// ToDomainAuditFields converts model audit fields to the domain shape.
func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     m.CreatedAt,
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: m.LastUpdatedAt,
		LastUpdatedBy: m.LastUpdatedBy,
	}
}
