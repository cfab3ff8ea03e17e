package dto

// TrialBalanceParams are the query options for the trial balance report.
type TrialBalanceParams struct {
	AsOf                string `form:"asOf"` // YYYY-MM-DD, defaults to today
	IncludeZeroBalances bool   `form:"includeZeroBalances"`
}

// PeriodParams are the query options for period reports (income statement,
// account ledger, party ledger).
type PeriodParams struct {
	From string `form:"from" binding:"required"` // YYYY-MM-DD
	To   string `form:"to" binding:"required"`   // YYYY-MM-DD
}

// AsOfParams are the query options for point-in-time reports.
type AsOfParams struct {
	AsOf string `form:"asOf"` // YYYY-MM-DD, defaults to today
}

// AgingParams are the query options for the AP/AR aging report.
type AgingParams struct {
	PartyType string `form:"partyType" binding:"required,oneof=VENDOR CUSTOMER"`
	AsOf      string `form:"asOf"`
}
