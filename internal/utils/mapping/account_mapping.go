package mapping

import (
	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/openclerk/ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:     d.AccountID,
		TenantID:      d.TenantID,
		Code:          d.Code,
		Name:          d.Name,
		AccountType:   models.AccountType(d.AccountType),
		NormalBalance: models.NormalBalance(d.NormalBalance),
		Description:   d.Description,
		IsActive:      d.IsActive,
		Balance:       d.Balance,
		Version:       d.Version,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:     m.AccountID,
		TenantID:      m.TenantID,
		Code:          m.Code,
		Name:          m.Name,
		AccountType:   domain.AccountType(m.AccountType),
		NormalBalance: domain.NormalBalance(m.NormalBalance),
		Description:   m.Description,
		IsActive:      m.IsActive,
		Balance:       m.Balance,
		Version:       m.Version,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
