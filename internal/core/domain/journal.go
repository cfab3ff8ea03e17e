package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "DRAFT"
	Posted   EntryStatus = "POSTED"
	Reversed EntryStatus = "REVERSED"
)

// EntryType distinguishes manually keyed entries from rule-driven ones.
type EntryType string

const (
	EntryManual   EntryType = "MANUAL"
	EntryAutoPost EntryType = "AUTO_POST"
)

// PostOutcome describes what the posting engine did with an event. Both
// ALREADY_POSTED and NO_MATCHING_RULE are normal outcomes, not errors.
type PostOutcome string

const (
	OutcomePosted        PostOutcome = "POSTED"
	OutcomeAlreadyPosted PostOutcome = "ALREADY_POSTED"
	OutcomeNoRule        PostOutcome = "NO_MATCHING_RULE"
)

// JournalEntry is a balanced set of debit/credit lines recording one
// business event. Posted entries are immutable except for the status flip
// performed by a reversal.
type JournalEntry struct {
	EntryID          string          `json:"entryID"` // Primary Key (UUID)
	CompanyID        string          `json:"companyID"`
	JournalNumber    int64           `json:"journalNumber"` // Per-company monotonic; gaps allowed
	EntryDate        time.Time       `json:"entryDate"`
	FinancialYear    string          `json:"financialYear"` // "2025-26", April-start
	PeriodMonth      int             `json:"periodMonth"`   // 1..12, April = 1
	EntryType        EntryType       `json:"entryType"`
	SourceType       string          `json:"sourceType"` // e.g. sales_invoice, vendor_payment
	SourceID         *string         `json:"sourceID,omitempty"`
	Status           EntryStatus     `json:"status"`
	Narration        string          `json:"narration"`
	TotalDebit       decimal.Decimal `json:"totalDebit"`
	TotalCredit      decimal.Decimal `json:"totalCredit"`
	PostingRuleID    *string         `json:"postingRuleID,omitempty"` // Rule provenance
	RuleCode         string          `json:"ruleCode,omitempty"`
	OriginalEntryID  *string         `json:"originalEntryID,omitempty"`  // Set on reversal entries
	ReversingEntryID *string         `json:"reversingEntryID,omitempty"` // Set on reversed originals
	PostedAt         *time.Time      `json:"postedAt,omitempty"`
	PostedBy         string          `json:"postedBy,omitempty"`
	Lines            []JournalLine   `json:"lines,omitempty"`
	AuditFields
}

// IsReversal reports whether this entry compensates another entry.
func (e *JournalEntry) IsReversal() bool {
	return e.OriginalEntryID != nil
}

// Balanced checks the debit/credit totals against the given tolerance.
func (e *JournalEntry) Balanced(tolerance decimal.Decimal) bool {
	return e.TotalDebit.Sub(e.TotalCredit).Abs().LessThanOrEqual(tolerance)
}

// JournalLine is one debit or credit against a single account. Exactly one
// of DebitAmount/CreditAmount is positive; the other is zero.
type JournalLine struct {
	LineID        string          `json:"lineID"` // Primary Key (UUID)
	EntryID       string          `json:"entryID"`
	AccountID     string          `json:"accountID"`
	AccountCode   string          `json:"accountCode"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Description   string          `json:"description"`
	CurrencyCode  string          `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	SubledgerType *SubledgerType  `json:"subledgerType,omitempty"` // Both set or both null
	SubledgerID   *string         `json:"subledgerID,omitempty"`
	LineOrder     int             `json:"lineOrder"`
	AuditFields
}

// Validate enforces the line invariants: one positive side, and subledger
// fields set together or not at all.
func (l JournalLine) Validate() error {
	debitSet := l.DebitAmount.IsPositive()
	creditSet := l.CreditAmount.IsPositive()
	if l.DebitAmount.IsNegative() || l.CreditAmount.IsNegative() {
		return fmt.Errorf("line %s: amounts must not be negative", l.LineID)
	}
	if debitSet == creditSet {
		return fmt.Errorf("line %s: exactly one of debit/credit must be positive", l.LineID)
	}
	if (l.SubledgerType == nil) != (l.SubledgerID == nil) {
		return fmt.Errorf("line %s: subledger type and id must be set together", l.LineID)
	}
	return nil
}

// Negated returns the line-wise reversal: debit and credit swapped, same
// account, amount and subledger tag.
func (l JournalLine) Negated() JournalLine {
	rev := l
	rev.DebitAmount, rev.CreditAmount = l.CreditAmount, l.DebitAmount
	return rev
}
