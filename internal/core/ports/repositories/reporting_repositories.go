package repositories

import (
	"context"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
)

// ReportingRepository supplies raw aggregates over committed (non-draft)
// entries. All report arithmetic lives in the reporting service; the
// repository only sums what SQL sums well. Reversed originals and their
// reversal entries both remain visible so that they net to zero.
type ReportingRepository interface {
	// GetActivityTotalsAsOf returns per-account debit/credit totals over all
	// posted activity on or before asOf, keyed by account ID.
	GetActivityTotalsAsOf(ctx context.Context, companyID string, asOf time.Time) (map[string]domain.ActivityTotal, error)

	// GetActivityTotalsBetween returns per-account totals for posted activity
	// within [from, to], keyed by account ID.
	GetActivityTotalsBetween(ctx context.Context, companyID string, from, to time.Time) (map[string]domain.ActivityTotal, error)

	// GetActivityTotalBefore returns one account's totals over all posted
	// activity strictly before the given date (ledger opening balances).
	GetActivityTotalBefore(ctx context.Context, companyID, accountID string, before time.Time) (domain.ActivityTotal, error)

	// GetAccountLedgerLines returns chronological posted lines for one
	// account within [from, to]. Running balances are not populated.
	GetAccountLedgerLines(ctx context.Context, companyID, accountID string, from, to time.Time) ([]domain.LedgerLine, error)

	// GetSubledgerLines returns all party-tagged movements of the given party
	// type on or before asOf: control-account lines carrying a subledger tag
	// plus legacy per-party account lines mapped into the same shape.
	GetSubledgerLines(ctx context.Context, companyID string, partyType domain.SubledgerType, asOf time.Time) ([]domain.SubledgerLine, error)

	// GetPartyLedgerLines returns one party's movements within [from, to],
	// across both chart regimes, in chronological order.
	GetPartyLedgerLines(ctx context.Context, companyID string, partyType domain.SubledgerType, partyID string, from, to time.Time) ([]domain.SubledgerLine, error)
}
