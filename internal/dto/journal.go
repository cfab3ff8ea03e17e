package dto

import (
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ManualLineRequest is one line of a manually keyed journal entry.
type ManualLineRequest struct {
	AccountCode   string                `json:"accountCode" binding:"required"`
	DebitAmount   decimal.Decimal       `json:"debitAmount"`
	CreditAmount  decimal.Decimal       `json:"creditAmount"`
	Description   string                `json:"description"`
	SubledgerType *domain.SubledgerType `json:"subledgerType,omitempty"`
	SubledgerID   *string               `json:"subledgerID,omitempty"`
}

// CreateManualEntryRequest creates a journal entry outside the rule engine.
// It still goes through the same validate-and-persist path as auto-posting.
type CreateManualEntryRequest struct {
	EntryDate time.Time `json:"entryDate" binding:"required"`
	Narration string    `json:"narration" binding:"required"`
	// CurrencyCode, when set, must match the ledger's base currency.
	CurrencyCode string              `json:"currencyCode"`
	Lines        []ManualLineRequest `json:"lines" binding:"required,min=2,dive"`
	AutoPost     bool                `json:"autoPost"`
}

// ListEntriesParams carries pagination and filter options for entry listing.
type ListEntriesParams struct {
	Limit            int     `form:"limit"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals"`
	IncludeLines     bool    `form:"includeLines"`
}

// JournalLineResponse is the API shape of one journal line.
type JournalLineResponse struct {
	LineID        string                `json:"lineID"`
	AccountID     string                `json:"accountID"`
	AccountCode   string                `json:"accountCode"`
	DebitAmount   decimal.Decimal       `json:"debitAmount"`
	CreditAmount  decimal.Decimal       `json:"creditAmount"`
	Description   string                `json:"description"`
	CurrencyCode  string                `json:"currencyCode"`
	SubledgerType *domain.SubledgerType `json:"subledgerType,omitempty"`
	SubledgerID   *string               `json:"subledgerID,omitempty"`
	LineOrder     int                   `json:"lineOrder"`
}

// JournalEntryResponse is the API shape of one journal entry.
type JournalEntryResponse struct {
	EntryID         string                `json:"entryID"`
	CompanyID       string                `json:"companyID"`
	JournalNumber   int64                 `json:"journalNumber"`
	EntryDate       time.Time             `json:"entryDate"`
	FinancialYear   string                `json:"financialYear"`
	PeriodMonth     int                   `json:"periodMonth"`
	EntryType       domain.EntryType      `json:"entryType"`
	SourceType      string                `json:"sourceType,omitempty"`
	SourceID        *string               `json:"sourceID,omitempty"`
	Status          domain.EntryStatus    `json:"status"`
	Narration       string                `json:"narration"`
	TotalDebit      decimal.Decimal       `json:"totalDebit"`
	TotalCredit     decimal.Decimal       `json:"totalCredit"`
	RuleCode        string                `json:"ruleCode,omitempty"`
	OriginalEntryID *string               `json:"originalEntryID,omitempty"`
	Lines           []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt       time.Time             `json:"createdAt"`
}

// ListEntriesResponse is a paginated page of entries.
type ListEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain line to its API shape.
func ToJournalLineResponse(l domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:        l.LineID,
		AccountID:     l.AccountID,
		AccountCode:   l.AccountCode,
		DebitAmount:   l.DebitAmount,
		CreditAmount:  l.CreditAmount,
		Description:   l.Description,
		CurrencyCode:  l.CurrencyCode,
		SubledgerType: l.SubledgerType,
		SubledgerID:   l.SubledgerID,
		LineOrder:     l.LineOrder,
	}
}

// ToJournalEntryResponse converts a domain entry to its API shape.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	resp := JournalEntryResponse{
		EntryID:         e.EntryID,
		CompanyID:       e.CompanyID,
		JournalNumber:   e.JournalNumber,
		EntryDate:       e.EntryDate,
		FinancialYear:   e.FinancialYear,
		PeriodMonth:     e.PeriodMonth,
		EntryType:       e.EntryType,
		SourceType:      e.SourceType,
		SourceID:        e.SourceID,
		Status:          e.Status,
		Narration:       e.Narration,
		TotalDebit:      e.TotalDebit,
		TotalCredit:     e.TotalCredit,
		RuleCode:        e.RuleCode,
		OriginalEntryID: e.OriginalEntryID,
		CreatedAt:       e.CreatedAt,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(e.Lines))
		for i, l := range e.Lines {
			resp.Lines[i] = ToJournalLineResponse(l)
		}
	}
	return resp
}
