package models

import (
	"github.com/shopspring/decimal"
)

// Account is the persisted shape of a chart-of-accounts row.
// Note: ParentAccountID uses a pointer for the nullable foreign key.
type Account struct {
	AccountID          string          `db:"account_id"`
	CompanyID          string          `db:"company_id"`
	Code               string          `db:"code"` // Unique per company
	Name               string          `db:"name"`
	AccountType        string          `db:"account_type"`
	SubType            string          `db:"sub_type"`
	NormalBalance      string          `db:"normal_balance"`
	IsControlAccount   bool            `db:"is_control_account"`
	ControlAccountType string          `db:"control_account_type"` // Empty when not a control account
	IsLegacyParty      bool            `db:"is_legacy_party"`
	PartyType          string          `db:"party_type"`
	PartyID            string          `db:"party_id"`
	IsContra           bool            `db:"is_contra"`
	OpeningBalance     decimal.Decimal `db:"opening_balance"`
	CurrentBalance     decimal.Decimal `db:"current_balance"`
	ParentAccountID    *string         `db:"parent_account_id"` // Nullable
	Depth              int             `db:"depth"`
	IsActive           bool            `db:"is_active"`
	AuditFields
}
