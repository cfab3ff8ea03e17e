package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the persisted header of a balanced entry. Posted rows are
// immutable except for the status flip a reversal performs.
type JournalEntry struct {
	EntryID          string          `db:"entry_id"`
	CompanyID        string          `db:"company_id"`
	JournalNumber    int64           `db:"journal_number"` // Per-company sequence; gaps allowed
	EntryDate        time.Time       `db:"entry_date"`
	FinancialYear    string          `db:"financial_year"`
	PeriodMonth      int             `db:"period_month"`
	EntryType        string          `db:"entry_type"`
	SourceType       string          `db:"source_type"`
	SourceID         *string         `db:"source_id"` // Nullable; unique with source_type per company
	Status           string          `db:"status"`
	Narration        string          `db:"narration"`
	TotalDebit       decimal.Decimal `db:"total_debit"`
	TotalCredit      decimal.Decimal `db:"total_credit"`
	PostingRuleID    *string         `db:"posting_rule_id"`
	RuleCode         string          `db:"rule_code"`
	OriginalEntryID  *string         `db:"original_entry_id"`
	ReversingEntryID *string         `db:"reversing_entry_id"`
	PostedAt         *time.Time      `db:"posted_at"`
	PostedBy         string          `db:"posted_by"`
	AuditFields
}

// JournalLine is one persisted debit or credit against a single account.
type JournalLine struct {
	LineID        string          `db:"line_id"`
	EntryID       string          `db:"entry_id"`
	AccountID     string          `db:"account_id"`
	AccountCode   string          `db:"account_code"` // Denormalized for reporting
	DebitAmount   decimal.Decimal `db:"debit_amount"`
	CreditAmount  decimal.Decimal `db:"credit_amount"`
	Description   string          `db:"description"`
	CurrencyCode  string          `db:"currency_code"`
	ExchangeRate  decimal.Decimal `db:"exchange_rate"`
	SubledgerType *string         `db:"subledger_type"` // Both set or both null
	SubledgerID   *string         `db:"subledger_id"`
	LineOrder     int             `db:"line_order"`
	AuditFields
}
