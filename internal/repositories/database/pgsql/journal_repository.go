package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks-app/finbooks_backend/internal/models"
	"github.com/finbooks-app/finbooks_backend/internal/utils/mapping"
	"github.com/finbooks-app/finbooks_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, company_id, journal_number, entry_date, financial_year, period_month,
	entry_type, source_type, source_id, status, narration, total_debit, total_credit,
	posting_rule_id, rule_code, original_entry_id, reversing_entry_id, posted_at, posted_by,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, account_code, debit_amount, credit_amount,
	description, currency_code, exchange_rate, subledger_type, subledger_id, line_order,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
	tolerance   decimal.Decimal
}

// newPgxJournalRepository creates a new repository for journal entry and line data.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade, tolerance decimal.Decimal) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
		tolerance:      tolerance,
	}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.JournalNumber,
		&m.EntryDate,
		&m.FinancialYear,
		&m.PeriodMonth,
		&m.EntryType,
		&m.SourceType,
		&m.SourceID,
		&m.Status,
		&m.Narration,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.PostingRuleID,
		&m.RuleCode,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.PostedAt,
		&m.PostedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLine(row pgx.Row) (models.JournalLine, error) {
	var m models.JournalLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.AccountID,
		&m.AccountCode,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.Description,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.SubledgerType,
		&m.SubledgerID,
		&m.LineOrder,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// validateEntryForWrite re-checks the structural invariants before anything
// touches the database. The builder already enforced these; a mismatch here
// indicates a bug upstream and must fail loudly.
func (r *PgxJournalRepository) validateEntryForWrite(entry domain.JournalEntry) error {
	if len(entry.Lines) == 0 {
		return fmt.Errorf("%w: entry %s has no lines", apperrors.ErrValidation, entry.EntryID)
	}
	sumDebit := decimal.Zero
	sumCredit := decimal.Zero
	for _, line := range entry.Lines {
		sumDebit = sumDebit.Add(line.DebitAmount)
		sumCredit = sumCredit.Add(line.CreditAmount)
	}
	if !sumDebit.Equal(entry.TotalDebit) || !sumCredit.Equal(entry.TotalCredit) {
		return fmt.Errorf("%w: entry %s header totals do not match its lines", apperrors.ErrValidation, entry.EntryID)
	}
	if !entry.Balanced(r.tolerance) {
		return fmt.Errorf("%w: entry %s debits and credits differ beyond tolerance", apperrors.ErrValidation, entry.EntryID)
	}
	return nil
}

// nextJournalNumber allocates the per-company journal number. The upsert
// takes a row lock on the sequence row that is held until the surrounding
// transaction commits, so concurrent posts for one company serialize here.
// Numbers of rolled-back transactions are lost; gaps are acceptable.
func nextJournalNumber(ctx context.Context, tx pgx.Tx, companyID string) (int64, error) {
	query := `
		INSERT INTO journal_sequences (company_id, last_number)
		VALUES ($1, 1)
		ON CONFLICT (company_id)
		DO UPDATE SET last_number = journal_sequences.last_number + 1
		RETURNING last_number;
	`
	var number int64
	if err := tx.QueryRow(ctx, query, companyID).Scan(&number); err != nil {
		return 0, fmt.Errorf("failed to allocate journal number for company %s: %w", companyID, err)
	}
	return number, nil
}

func insertEntry(ctx context.Context, tx pgx.Tx, m models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.CompanyID,
		m.JournalNumber,
		m.EntryDate,
		m.FinancialYear,
		m.PeriodMonth,
		m.EntryType,
		m.SourceType,
		m.SourceID,
		m.Status,
		m.Narration,
		m.TotalDebit,
		m.TotalCredit,
		m.PostingRuleID,
		m.RuleCode,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.PostedAt,
		m.PostedBy,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// The partial unique index on (company_id, source_type, source_id)
			// caught a concurrent post for the same business event.
			return fmt.Errorf("%w: an entry for this source already exists", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, err)
	}
	return nil
}

func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	for _, line := range lines {
		m := mapping.ToModelJournalLine(line)
		batch.Queue(query,
			m.LineID,
			m.EntryID,
			m.AccountID,
			m.AccountCode,
			m.DebitAmount,
			m.CreditAmount,
			m.Description,
			m.CurrencyCode,
			m.ExchangeRate,
			m.SubledgerType,
			m.SubledgerID,
			m.LineOrder,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to execute line insert batch: %w", err)
	}
	return nil
}

func insertUsageLog(ctx context.Context, tx pgx.Tx, usage domain.PostingRuleUsageLog) error {
	m, err := mapping.ToModelRuleUsageLog(usage)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO posting_rule_usage_logs (log_id, rule_id, rule_code, entry_id, source_type, source_id, event_snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	if _, err := tx.Exec(ctx, query,
		m.LogID, m.RuleID, m.RuleCode, m.EntryID, m.SourceType, m.SourceID, m.EventSnapshot, m.CreatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert rule usage log %s: %w", m.LogID, err)
	}
	return nil
}

// applyBalanceChanges locks the touched accounts and applies the deltas
// inside the given transaction.
func (r *PgxJournalRepository) applyBalanceChanges(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, actor string, now time.Time) error {
	if len(balanceChanges) == 0 {
		return nil
	}
	accountIDs := make([]string, 0, len(balanceChanges))
	for accID := range balanceChanges {
		accountIDs = append(accountIDs, accID)
	}
	if _, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs); err != nil {
		return fmt.Errorf("failed to lock accounts for balance update: %w", err)
	}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, actor, now); err != nil {
		return fmt.Errorf("failed to update account balances: %w", err)
	}
	return nil
}

// SaveEntry persists an entry with its lines, allocates the journal number,
// applies balance deltas and records the optional rule usage log, all in one
// transaction.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, balanceChanges map[string]decimal.Decimal, usage *domain.PostingRuleUsageLog) (*domain.JournalEntry, error) {
	if err := r.validateEntryForWrite(entry); err != nil {
		return nil, err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	number, err := nextJournalNumber(ctx, tx, entry.CompanyID)
	if err != nil {
		return nil, err
	}
	entry.JournalNumber = number

	if err := insertEntry(ctx, tx, mapping.ToModelJournalEntry(entry)); err != nil {
		return nil, err
	}
	if err := insertLines(ctx, tx, entry.Lines); err != nil {
		return nil, err
	}
	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, entry.CreatedBy, entry.CreatedAt); err != nil {
		return nil, err
	}
	if usage != nil {
		usage.EntryID = entry.EntryID
		if err := insertUsageLog(ctx, tx, *usage); err != nil {
			return nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SaveReversalEntry persists a reversal entry and flips the original entry's
// status to REVERSED in the same transaction. The original's lines are never
// touched.
func (r *PgxJournalRepository) SaveReversalEntry(ctx context.Context, reversal domain.JournalEntry, originalEntryID string, balanceChanges map[string]decimal.Decimal) (*domain.JournalEntry, error) {
	if err := r.validateEntryForWrite(reversal); err != nil {
		return nil, err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	number, err := nextJournalNumber(ctx, tx, reversal.CompanyID)
	if err != nil {
		return nil, err
	}
	reversal.JournalNumber = number

	if err := insertEntry(ctx, tx, mapping.ToModelJournalEntry(reversal)); err != nil {
		return nil, err
	}
	if err := insertLines(ctx, tx, reversal.Lines); err != nil {
		return nil, err
	}

	// Guarded update: only a POSTED, not-yet-reversed entry may flip. A
	// concurrent reversal loses here with zero rows affected.
	flipQuery := `
		UPDATE journal_entries
		SET status = 'REVERSED', reversing_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED' AND reversing_entry_id IS NULL;
	`
	cmdTag, err := tx.Exec(ctx, flipQuery, originalEntryID, reversal.EntryID, reversal.CreatedAt, reversal.CreatedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to mark entry %s reversed: %w", originalEntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: entry %s is not in a reversible state", apperrors.ErrConflict, originalEntryID)
	}

	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, reversal.CreatedBy, reversal.CreatedAt); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &reversal, nil
}

// MarkEntryPosted transitions a draft entry to POSTED and applies its balance
// deltas in the same transaction.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, entryID string, balanceChanges map[string]decimal.Decimal, actor string, now time.Time) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE journal_entries
		SET status = 'POSTED', posted_at = $2, posted_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query, entryID, now, actor)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s posted: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not a draft", apperrors.ErrConflict, entryID)
	}

	if err := r.applyBalanceChanges(ctx, tx, balanceChanges, actor, now); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves a journal entry header by its ID.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}
	d := mapping.ToDomainJournalEntry(m)
	return &d, nil
}

// FindLinesByEntryID retrieves all lines of a single entry in line order.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = $1 ORDER BY line_order;`
	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row for entry %s: %w", entryID, err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows for entry %s: %w", entryID, err)
	}
	return lines, nil
}

// FindLinesByEntryIDs retrieves lines for multiple entries, grouped by entry ID.
func (r *PgxJournalRepository) FindLinesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]domain.JournalLine, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalLine{}, nil
	}
	query := `SELECT ` + lineColumns + ` FROM journal_lines WHERE entry_id = ANY($1) ORDER BY entry_id, line_order;`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines for entries: %w", err)
	}
	defer rows.Close()

	linesMap := make(map[string][]domain.JournalLine)
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line row during batch fetch: %w", err)
		}
		d := mapping.ToDomainJournalLine(m)
		linesMap[d.EntryID] = append(linesMap[d.EntryID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating line rows during batch fetch: %w", err)
	}

	for _, id := range entryIDs {
		if _, exists := linesMap[id]; !exists {
			linesMap[id] = []domain.JournalLine{}
		}
	}
	return linesMap, nil
}

// FindEntryBySource retrieves the non-reversal entry generated for a business
// event, if any.
func (r *PgxJournalRepository) FindEntryBySource(ctx context.Context, companyID, sourceType, sourceID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries
		WHERE company_id = $1 AND source_type = $2 AND source_id = $3 AND original_entry_id IS NULL;`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, companyID, sourceType, sourceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry for source %s/%s: %w", sourceType, sourceID, err)
	}
	d := mapping.ToDomainJournalEntry(m)
	return &d, nil
}

// HasPostedFor reports whether a non-reversal entry already exists for the
// given business event.
func (r *PgxJournalRepository) HasPostedFor(ctx context.Context, companyID, sourceType, sourceID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM journal_entries
			WHERE company_id = $1 AND source_type = $2 AND source_id = $3 AND original_entry_id IS NULL
		);
	`
	var exists bool
	if err := r.Pool.QueryRow(ctx, query, companyID, sourceType, sourceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check existing entry for source %s/%s: %w", sourceType, sourceID, err)
	}
	return exists, nil
}

// ListEntries retrieves a paginated list of entries for a company using
// token-based pagination on (entry_date, journal_number).
func (r *PgxJournalRepository) ListEntries(ctx context.Context, companyID string, limit int, nextToken *string, includeReversals bool) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra row to determine whether a next page exists.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + entryColumns + ` FROM journal_entries`
	filterClause := `WHERE company_id = $1`
	if !includeReversals {
		filterClause += ` AND status != 'REVERSED' AND original_entry_id IS NULL`
	}
	orderByClause := `ORDER BY entry_date DESC, journal_number DESC`

	var rows pgx.Rows
	var err error
	args := []interface{}{companyID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastNumber, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		cursorClause := `AND (entry_date, journal_number) < ($2, $3)`
		args = append(args, lastDate, lastNumber)

		query := baseQuery + " " + filterClause + " " + cursorClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	} else {
		query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)+1) + ";"
		args = append(args, fetchLimit)
		rows, err = r.Pool.Query(ctx, query, args...)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for company %s: %w", companyID, err)
	}
	defer rows.Close()

	modelEntries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row for company %s: %w", companyID, scanErr)
		}
		modelEntries = append(modelEntries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows for company %s: %w", companyID, err)
	}

	var nextTokenVal *string
	results := modelEntries
	if len(modelEntries) > limit {
		last := modelEntries[limit-1]
		newToken := pagination.EncodeToken(last.EntryDate, last.JournalNumber)
		nextTokenVal = &newToken
		results = modelEntries[:limit]
	}

	entries := make([]domain.JournalEntry, len(results))
	for i, m := range results {
		entries[i] = mapping.ToDomainJournalEntry(m)
	}
	return entries, nextTokenVal, nil
}
