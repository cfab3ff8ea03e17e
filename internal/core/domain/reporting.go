package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertSeverity grades data-quality findings surfaced inside reports.
type AlertSeverity string

const (
	SeverityWarning  AlertSeverity = "WARNING"
	SeverityCritical AlertSeverity = "CRITICAL"
)

// DataQualityAlert is an integrity finding carried inside a report rather
// than thrown: the report is still delivered so operators can drill in.
type DataQualityAlert struct {
	Code      string          `json:"code"` // e.g. TRIAL_BALANCE_MISMATCH, CONTROL_SUBLEDGER_DRIFT
	Severity  AlertSeverity   `json:"severity"`
	Message   string          `json:"message"`
	AccountID string          `json:"accountID,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// TrialBalanceRow carries one account's movement and presentation columns.
// Closing = Opening + PeriodDebit - PeriodCredit (in raw debit-minus-credit
// terms); the Debit/Credit presentation columns split the closing balance by
// the account's normal balance.
type TrialBalanceRow struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	AccountType    AccountType     `json:"accountType"`
	NormalBalance  NormalBalance   `json:"normalBalance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	PeriodDebit    decimal.Decimal `json:"periodDebit"`
	PeriodCredit   decimal.Decimal `json:"periodCredit"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	DebitColumn    decimal.Decimal `json:"debitColumn"`
	CreditColumn   decimal.Decimal `json:"creditColumn"`
}

// TrialBalanceReport is the full trial balance with reconciliation totals.
type TrialBalanceReport struct {
	CompanyID   string             `json:"companyID"`
	AsOf        time.Time          `json:"asOf"`
	Rows        []TrialBalanceRow  `json:"rows"`
	TotalDebit  decimal.Decimal    `json:"totalDebit"`
	TotalCredit decimal.Decimal    `json:"totalCredit"`
	Alerts      []DataQualityAlert `json:"alerts,omitempty"`
}

// ActivityTotal is the raw per-account debit/credit aggregate the reporting
// repository returns; report math happens in the service layer.
type ActivityTotal struct {
	AccountID   string          `json:"accountID"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
}

// SubledgerLine is one party-tagged movement, either read off a control
// account's lines or synthesized from a legacy per-party account, so both
// chart regimes can be queried uniformly.
type SubledgerLine struct {
	EntryID       string          `json:"entryID"`
	JournalNumber int64           `json:"journalNumber"`
	EntryDate     time.Time       `json:"entryDate"`
	AccountID     string          `json:"accountID"`
	AccountCode   string          `json:"accountCode"`
	PartyType     SubledgerType   `json:"partyType"`
	PartyID       string          `json:"partyID"`
	Debit         decimal.Decimal `json:"debit"`
	Credit        decimal.Decimal `json:"credit"`
	Description   string          `json:"description"`
}

// LedgerLine is one movement in an account or party ledger with a running
// balance in the account's presentation convention.
type LedgerLine struct {
	EntryID        string          `json:"entryID"`
	JournalNumber  int64           `json:"journalNumber"`
	EntryDate      time.Time       `json:"entryDate"`
	Description    string          `json:"description"`
	Debit          decimal.Decimal `json:"debit"`
	Credit         decimal.Decimal `json:"credit"`
	RunningBalance decimal.Decimal `json:"runningBalance"`
}

// AccountLedgerReport is the drill-down view for one account over a period.
type AccountLedgerReport struct {
	Account        Account         `json:"account"`
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	OpeningBalance decimal.Decimal `json:"openingBalance"` // All activity strictly before From
	Lines          []LedgerLine    `json:"lines"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
}

// AccountAmount is one account's contribution to a grouped statement.
type AccountAmount struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
}

// SubtypeGroup groups statement accounts by their chart subtype.
type SubtypeGroup struct {
	SubType  string          `json:"subType"`
	Accounts []AccountAmount `json:"accounts"`
	Total    decimal.Decimal `json:"total"`
}

// IncomeStatementReport summarizes income and expense activity for a period.
type IncomeStatementReport struct {
	CompanyID    string          `json:"companyID"`
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Income       []SubtypeGroup  `json:"income"`
	Expenses     []SubtypeGroup  `json:"expenses"`
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	NetProfit    decimal.Decimal `json:"netProfit"`
}

// BalanceSheetReport is a point-in-time statement. Difference is reported,
// never force-balanced: fixing a discrepancy takes an explicit correcting
// entry.
type BalanceSheetReport struct {
	CompanyID        string             `json:"companyID"`
	AsOf             time.Time          `json:"asOf"`
	Assets           []SubtypeGroup     `json:"assets"`
	Liabilities      []SubtypeGroup     `json:"liabilities"`
	Equity           []SubtypeGroup     `json:"equity"`
	TotalAssets      decimal.Decimal    `json:"totalAssets"`
	TotalLiabilities decimal.Decimal    `json:"totalLiabilities"`
	TotalEquity      decimal.Decimal    `json:"totalEquity"`
	Difference       decimal.Decimal    `json:"difference"` // Assets - (Liabilities + Equity)
	Alerts           []DataQualityAlert `json:"alerts,omitempty"`
}

// AbnormalAccount is an account whose actual balance sign contradicts its
// normal balance.
type AbnormalAccount struct {
	AccountID     string          `json:"accountID"`
	AccountCode   string          `json:"accountCode"`
	AccountName   string          `json:"accountName"`
	AccountType   AccountType     `json:"accountType"`
	NormalBalance NormalBalance   `json:"normalBalance"`
	Balance       decimal.Decimal `json:"balance"` // In presentation convention, so negative here is abnormal
	Severity      AlertSeverity   `json:"severity"`
	ProbableCause string          `json:"probableCause"`
}

// AbnormalBalanceReport lists sign anomalies, contra accounts excluded.
type AbnormalBalanceReport struct {
	CompanyID string            `json:"companyID"`
	AsOf      time.Time         `json:"asOf"`
	Accounts  []AbnormalAccount `json:"accounts"`
}

// PartyAgingRow buckets one party's outstanding balance by age.
type PartyAgingRow struct {
	PartyType  SubledgerType   `json:"partyType"`
	PartyID    string          `json:"partyID"`
	Current    decimal.Decimal `json:"current"`
	Days1To30  decimal.Decimal `json:"days1to30"`
	Days31To60 decimal.Decimal `json:"days31to60"`
	Days61To90 decimal.Decimal `json:"days61to90"`
	Over90     decimal.Decimal `json:"over90"`
	Total      decimal.Decimal `json:"total"`
}

// AgingReport is the AP or AR aging summary as of a reference date.
type AgingReport struct {
	CompanyID string          `json:"companyID"`
	PartyType SubledgerType   `json:"partyType"`
	AsOf      time.Time       `json:"asOf"`
	Rows      []PartyAgingRow `json:"rows"`
	Totals    PartyAgingRow   `json:"totals"`
}

// PartyLedgerReport is the drill-down of subledger-tagged movements for one
// party across control accounts, plus any legacy per-party account activity.
type PartyLedgerReport struct {
	CompanyID string          `json:"companyID"`
	PartyType SubledgerType   `json:"partyType"`
	PartyID   string          `json:"partyID"`
	From      time.Time       `json:"from"`
	To        time.Time       `json:"to"`
	Lines     []LedgerLine    `json:"lines"`
	Balance   decimal.Decimal `json:"balance"`
}

// ControlReconciliationRow compares one control account's computed balance
// against the sum of its subledger-tagged line movements.
type ControlReconciliationRow struct {
	AccountID      string          `json:"accountID"`
	AccountCode    string          `json:"accountCode"`
	AccountName    string          `json:"accountName"`
	ControlType    SubledgerType   `json:"controlType"`
	ControlBalance decimal.Decimal `json:"controlBalance"` // Opening + debits - credits
	SubledgerTotal decimal.Decimal `json:"subledgerTotal"`
	Difference     decimal.Decimal `json:"difference"`
	Reconciled     bool            `json:"reconciled"`
}

// ControlReconciliationReport surfaces control/subledger drift as findings,
// never as silent fixes.
type ControlReconciliationReport struct {
	CompanyID string                     `json:"companyID"`
	AsOf      time.Time                  `json:"asOf"`
	Rows      []ControlReconciliationRow `json:"rows"`
	Alerts    []DataQualityAlert         `json:"alerts,omitempty"`
}
