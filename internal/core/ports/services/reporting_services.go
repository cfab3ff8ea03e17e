package services

import (
	"context"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
)

// ReportingSvcFacade computes financial reports over committed entries.
// Integrity violations found at reporting time ride along inside the report
// as data-quality alerts instead of failing the request.
type ReportingSvcFacade interface {
	TrialBalance(ctx context.Context, companyID string, asOf time.Time, includeZeroBalances bool) (*domain.TrialBalanceReport, error)
	AccountLedger(ctx context.Context, companyID, accountID string, from, to time.Time) (*domain.AccountLedgerReport, error)
	IncomeStatement(ctx context.Context, companyID string, from, to time.Time) (*domain.IncomeStatementReport, error)
	BalanceSheet(ctx context.Context, companyID string, asOf time.Time) (*domain.BalanceSheetReport, error)
	AbnormalBalances(ctx context.Context, companyID string) (*domain.AbnormalBalanceReport, error)
	Aging(ctx context.Context, companyID string, partyType domain.SubledgerType, asOf time.Time) (*domain.AgingReport, error)
	PartyLedger(ctx context.Context, companyID string, partyType domain.SubledgerType, partyID string, from, to time.Time) (*domain.PartyLedgerReport, error)
	ControlAccountReconciliation(ctx context.Context, companyID string, asOf time.Time) (*domain.ControlReconciliationReport, error)
}
