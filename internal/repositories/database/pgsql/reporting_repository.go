package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository returns raw aggregates over committed entries; all
// report arithmetic happens in the reporting service. Drafts are excluded.
// Reversed originals and their reversal entries both stay visible so that
// they net to zero.
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

func collectActivityTotals(rows pgx.Rows) (map[string]domain.ActivityTotal, error) {
	defer rows.Close()
	totals := make(map[string]domain.ActivityTotal)
	for rows.Next() {
		var t domain.ActivityTotal
		if err := rows.Scan(&t.AccountID, &t.TotalDebit, &t.TotalCredit); err != nil {
			return nil, fmt.Errorf("error scanning activity total row: %w", err)
		}
		totals[t.AccountID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity total rows: %w", err)
	}
	return totals, nil
}

// GetActivityTotalsAsOf returns per-account debit/credit totals over all
// committed activity on or before asOf.
func (r *reportingRepository) GetActivityTotalsAsOf(ctx context.Context, companyID string, asOf time.Time) (map[string]domain.ActivityTotal, error) {
	query := `
		SELECT
			l.account_id,
			COALESCE(SUM(l.debit_amount), 0) AS total_debit,
			COALESCE(SUM(l.credit_amount), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.company_id = $1
			AND e.entry_date <= $2
			AND e.status != 'DRAFT'
		GROUP BY l.account_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying activity totals: %w", err)
	}
	return collectActivityTotals(rows)
}

// GetActivityTotalsBetween returns per-account totals for committed activity
// within [from, to].
func (r *reportingRepository) GetActivityTotalsBetween(ctx context.Context, companyID string, from, to time.Time) (map[string]domain.ActivityTotal, error) {
	query := `
		SELECT
			l.account_id,
			COALESCE(SUM(l.debit_amount), 0) AS total_debit,
			COALESCE(SUM(l.credit_amount), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.company_id = $1
			AND e.entry_date BETWEEN $2 AND $3
			AND e.status != 'DRAFT'
		GROUP BY l.account_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying activity totals for period: %w", err)
	}
	return collectActivityTotals(rows)
}

// GetActivityTotalBefore returns one account's totals over all committed
// activity strictly before the given date.
func (r *reportingRepository) GetActivityTotalBefore(ctx context.Context, companyID, accountID string, before time.Time) (domain.ActivityTotal, error) {
	query := `
		SELECT
			COALESCE(SUM(l.debit_amount), 0) AS total_debit,
			COALESCE(SUM(l.credit_amount), 0) AS total_credit
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.company_id = $1
			AND l.account_id = $2
			AND e.entry_date < $3
			AND e.status != 'DRAFT';
	`
	total := domain.ActivityTotal{AccountID: accountID}
	if err := r.Pool.QueryRow(ctx, query, companyID, accountID, before).Scan(&total.TotalDebit, &total.TotalCredit); err != nil {
		return domain.ActivityTotal{}, fmt.Errorf("error querying activity total before %s for account %s: %w", before.Format(time.DateOnly), accountID, err)
	}
	return total, nil
}

// GetAccountLedgerLines returns chronological committed lines for one
// account within [from, to]. Running balances are not populated here.
func (r *reportingRepository) GetAccountLedgerLines(ctx context.Context, companyID, accountID string, from, to time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT
			e.entry_id,
			e.journal_number,
			e.entry_date,
			COALESCE(NULLIF(l.description, ''), e.narration) AS description,
			l.debit_amount,
			l.credit_amount
		FROM journal_lines l
		JOIN journal_entries e ON l.entry_id = e.entry_id
		WHERE e.company_id = $1
			AND l.account_id = $2
			AND e.entry_date BETWEEN $3 AND $4
			AND e.status != 'DRAFT'
		ORDER BY e.entry_date, e.journal_number, l.line_order;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying ledger lines for account %s: %w", accountID, err)
	}
	defer rows.Close()

	lines := []domain.LedgerLine{}
	for rows.Next() {
		var line domain.LedgerLine
		if err := rows.Scan(
			&line.EntryID,
			&line.JournalNumber,
			&line.EntryDate,
			&line.Description,
			&line.Debit,
			&line.Credit,
		); err != nil {
			return nil, fmt.Errorf("error scanning ledger line row: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger line rows: %w", err)
	}
	return lines, nil
}

// subledgerUnionQuery merges the two chart regimes into one shape: lines on
// control accounts carrying a subledger tag, plus lines on legacy per-party
// accounts where the party comes from the account row itself.
const subledgerUnionQuery = `
	SELECT
		e.entry_id,
		e.journal_number,
		e.entry_date,
		l.account_id,
		a.code,
		l.subledger_type AS party_type,
		l.subledger_id AS party_id,
		l.debit_amount,
		l.credit_amount,
		COALESCE(NULLIF(l.description, ''), e.narration) AS description
	FROM journal_lines l
	JOIN journal_entries e ON l.entry_id = e.entry_id
	JOIN accounts a ON l.account_id = a.account_id
	WHERE e.company_id = $1
		AND e.status != 'DRAFT'
		AND l.subledger_type = $2
	UNION ALL
	SELECT
		e.entry_id,
		e.journal_number,
		e.entry_date,
		l.account_id,
		a.code,
		a.party_type,
		a.party_id,
		l.debit_amount,
		l.credit_amount,
		COALESCE(NULLIF(l.description, ''), e.narration) AS description
	FROM journal_lines l
	JOIN journal_entries e ON l.entry_id = e.entry_id
	JOIN accounts a ON l.account_id = a.account_id
	WHERE e.company_id = $1
		AND e.status != 'DRAFT'
		AND a.is_legacy_party = TRUE
		AND a.party_type = $2
`

func collectSubledgerLines(rows pgx.Rows) ([]domain.SubledgerLine, error) {
	defer rows.Close()
	lines := []domain.SubledgerLine{}
	for rows.Next() {
		var line domain.SubledgerLine
		var partyType, partyID string
		if err := rows.Scan(
			&line.EntryID,
			&line.JournalNumber,
			&line.EntryDate,
			&line.AccountID,
			&line.AccountCode,
			&partyType,
			&partyID,
			&line.Debit,
			&line.Credit,
			&line.Description,
		); err != nil {
			return nil, fmt.Errorf("error scanning subledger line row: %w", err)
		}
		line.PartyType = domain.SubledgerType(partyType)
		line.PartyID = partyID
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subledger line rows: %w", err)
	}
	return lines, nil
}

// GetSubledgerLines returns all party-tagged movements of the given party
// type on or before asOf, across both chart regimes.
func (r *reportingRepository) GetSubledgerLines(ctx context.Context, companyID string, partyType domain.SubledgerType, asOf time.Time) ([]domain.SubledgerLine, error) {
	query := `
		SELECT * FROM (` + subledgerUnionQuery + `) s
		WHERE s.entry_date <= $3
		ORDER BY s.entry_date, s.journal_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, string(partyType), asOf)
	if err != nil {
		return nil, fmt.Errorf("error querying subledger lines for party type %s: %w", partyType, err)
	}
	return collectSubledgerLines(rows)
}

// GetPartyLedgerLines returns one party's movements within [from, to],
// across both chart regimes, in chronological order.
func (r *reportingRepository) GetPartyLedgerLines(ctx context.Context, companyID string, partyType domain.SubledgerType, partyID string, from, to time.Time) ([]domain.SubledgerLine, error) {
	query := `
		SELECT * FROM (` + subledgerUnionQuery + `) s
		WHERE s.party_id = $3 AND s.entry_date BETWEEN $4 AND $5
		ORDER BY s.entry_date, s.journal_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, string(partyType), partyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying party ledger lines for %s %s: %w", partyType, partyID, err)
	}
	return collectSubledgerLines(rows)
}
