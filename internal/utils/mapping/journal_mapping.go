package mapping

import (
	"github.com/openclerk/ledger/internal/core/domain"
	"github.com/openclerk/ledger/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		TenantID:         d.TenantID,
		Reference:        d.Reference,
		EntryDate:        d.EntryDate,
		Description:      d.Description,
		Status:           models.EntryStatus(d.Status),
		SourceType:       string(d.SourceType),
		SourceID:         d.SourceID,
		PostedAt:         d.PostedAt,
		PostedBy:         d.PostedBy,
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry header.
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		TenantID:         m.TenantID,
		Reference:        m.Reference,
		EntryDate:        m.EntryDate,
		Description:      m.Description,
		Status:           domain.EntryStatus(m.Status),
		SourceType:       domain.SourceType(m.SourceType),
		SourceID:         m.SourceID,
		PostedAt:         m.PostedAt,
		PostedBy:         m.PostedBy,
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine.
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		EntryID:     d.EntryID,
		AccountID:   d.AccountID,
		AccountCode: d.AccountCode,
		AccountName: d.AccountName,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Memo:        d.Memo,
		TaxLabel:    d.TaxLabel,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine.
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		EntryID:     m.EntryID,
		AccountID:   m.AccountID,
		AccountCode: m.AccountCode,
		AccountName: m.AccountName,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Memo:        m.Memo,
		TaxLabel:    m.TaxLabel,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model lines to domain lines.
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
