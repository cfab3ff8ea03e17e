package mapping

import (
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry to a model JournalEntry
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:          d.EntryID,
		CompanyID:        d.CompanyID,
		JournalNumber:    d.JournalNumber,
		EntryDate:        d.EntryDate,
		FinancialYear:    d.FinancialYear,
		PeriodMonth:      d.PeriodMonth,
		EntryType:        string(d.EntryType),
		SourceType:       d.SourceType,
		SourceID:         d.SourceID,
		Status:           string(d.Status),
		Narration:        d.Narration,
		TotalDebit:       d.TotalDebit,
		TotalCredit:      d.TotalCredit,
		PostingRuleID:    d.PostingRuleID,
		RuleCode:         d.RuleCode,
		OriginalEntryID:  d.OriginalEntryID,
		ReversingEntryID: d.ReversingEntryID,
		PostedAt:         d.PostedAt,
		PostedBy:         d.PostedBy,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry
func ToDomainJournalEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:          m.EntryID,
		CompanyID:        m.CompanyID,
		JournalNumber:    m.JournalNumber,
		EntryDate:        m.EntryDate,
		FinancialYear:    m.FinancialYear,
		PeriodMonth:      m.PeriodMonth,
		EntryType:        domain.EntryType(m.EntryType),
		SourceType:       m.SourceType,
		SourceID:         m.SourceID,
		Status:           domain.EntryStatus(m.Status),
		Narration:        m.Narration,
		TotalDebit:       m.TotalDebit,
		TotalCredit:      m.TotalCredit,
		PostingRuleID:    m.PostingRuleID,
		RuleCode:         m.RuleCode,
		OriginalEntryID:  m.OriginalEntryID,
		ReversingEntryID: m.ReversingEntryID,
		PostedAt:         m.PostedAt,
		PostedBy:         m.PostedBy,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelJournalLine converts a domain JournalLine to a model JournalLine
func ToModelJournalLine(d domain.JournalLine) models.JournalLine {
	var subledgerType *string
	if d.SubledgerType != nil {
		s := string(*d.SubledgerType)
		subledgerType = &s
	}
	return models.JournalLine{
		LineID:        d.LineID,
		EntryID:       d.EntryID,
		AccountID:     d.AccountID,
		AccountCode:   d.AccountCode,
		DebitAmount:   d.DebitAmount,
		CreditAmount:  d.CreditAmount,
		Description:   d.Description,
		CurrencyCode:  d.CurrencyCode,
		ExchangeRate:  d.ExchangeRate,
		SubledgerType: subledgerType,
		SubledgerID:   d.SubledgerID,
		LineOrder:     d.LineOrder,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainJournalLine converts a model JournalLine to a domain JournalLine
func ToDomainJournalLine(m models.JournalLine) domain.JournalLine {
	var subledgerType *domain.SubledgerType
	if m.SubledgerType != nil {
		s := domain.SubledgerType(*m.SubledgerType)
		subledgerType = &s
	}
	return domain.JournalLine{
		LineID:        m.LineID,
		EntryID:       m.EntryID,
		AccountID:     m.AccountID,
		AccountCode:   m.AccountCode,
		DebitAmount:   m.DebitAmount,
		CreditAmount:  m.CreditAmount,
		Description:   m.Description,
		CurrencyCode:  m.CurrencyCode,
		ExchangeRate:  m.ExchangeRate,
		SubledgerType: subledgerType,
		SubledgerID:   m.SubledgerID,
		LineOrder:     m.LineOrder,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainJournalLineSlice converts a slice of model JournalLines to domain JournalLines
func ToDomainJournalLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalLine(m)
	}
	return ds
}
