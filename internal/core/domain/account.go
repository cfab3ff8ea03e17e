package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// NormalBalance is the side on which an account's balance is conventionally presented.
type NormalBalance string

const (
	NormalDebit  NormalBalance = "DEBIT"
	NormalCredit NormalBalance = "CREDIT"
)

// SubledgerType identifies the party dimension carried on a journal line
// against a control account.
type SubledgerType string

const (
	SubledgerVendor   SubledgerType = "VENDOR"
	SubledgerCustomer SubledgerType = "CUSTOMER"
)

// AccountClass is the tagged variant behind the two coexisting chart regimes:
// modern control accounts with subledger detail on lines, and legacy
// per-party ledger accounts.
type AccountClass int

const (
	ClassRegular AccountClass = iota
	ClassControl
	ClassLegacyParty
)

// Account represents one row in a company's chart of accounts.
type Account struct {
	AccountID          string          `json:"accountID"` // Primary Key (UUID)
	CompanyID          string          `json:"companyID"`
	Code               string          `json:"code"` // Unique per company
	Name               string          `json:"name"`
	AccountType        AccountType     `json:"accountType"`
	SubType            string          `json:"subType"` // e.g. CURRENT_ASSET, DUTIES_AND_TAXES
	NormalBalance      NormalBalance   `json:"normalBalance"`
	IsControlAccount   bool            `json:"isControlAccount"`
	ControlAccountType SubledgerType   `json:"controlAccountType,omitempty"` // VENDOR or CUSTOMER when control
	IsLegacyParty      bool            `json:"isLegacyParty"`                // one ledger row per party (old regime)
	PartyType          SubledgerType   `json:"partyType,omitempty"`          // set on legacy party accounts
	PartyID            string          `json:"partyID,omitempty"`
	IsContra           bool            `json:"isContra"` // balance legitimately runs against NormalBalance
	OpeningBalance     decimal.Decimal `json:"openingBalance"`
	CurrentBalance     decimal.Decimal `json:"currentBalance"`
	ParentAccountID    *string         `json:"parentAccountID,omitempty"`
	Depth              int             `json:"depth"`
	IsActive           bool            `json:"isActive"`
	AuditFields
}

// Classification resolves the account's regime. Reporting code switches on
// this variant instead of inspecting the raw flags.
func (a Account) Classification() AccountClass {
	switch {
	case a.IsControlAccount:
		return ClassControl
	case a.IsLegacyParty:
		return ClassLegacyParty
	default:
		return ClassRegular
	}
}

// DefaultNormalBalance returns the conventional balance side for an account type.
func DefaultNormalBalance(t AccountType) NormalBalance {
	switch t {
	case Asset, Expense:
		return NormalDebit
	default:
		return NormalCredit
	}
}

// SignedDelta converts a (debit, credit) pair into a balance movement in the
// account's presentation convention: debit-normal accounts grow with debits,
// credit-normal accounts grow with credits.
func (a Account) SignedDelta(debit, credit decimal.Decimal) decimal.Decimal {
	if a.NormalBalance == NormalCredit {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// ValidSubledgerFor reports whether a line tagged with the given subledger
// type may sit against this account.
func (a Account) ValidSubledgerFor(st SubledgerType) bool {
	return a.IsControlAccount && (a.ControlAccountType == "" || a.ControlAccountType == st)
}
