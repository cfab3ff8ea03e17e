package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	// ErrEntryUnbalanced rejects an entry whose debits and credits differ
	// beyond tolerance. The event stays un-posted; nothing is persisted.
	ErrEntryUnbalanced = fmt.Errorf("%w: journal entry debits and credits do not balance", apperrors.ErrValidation)

	// ErrNoLines rejects an entry left with zero lines after resolution.
	ErrNoLines = fmt.Errorf("%w: journal entry has no postable lines", apperrors.ErrValidation)

	// ErrInvalidLine rejects a line violating the one-sided-amount or
	// subledger pairing invariants.
	ErrInvalidLine = fmt.Errorf("%w: invalid journal line", apperrors.ErrValidation)

	// ErrUnsupportedCurrency rejects entries requested in anything but the
	// ledger's base currency.
	ErrUnsupportedCurrency = fmt.Errorf("%w: unsupported currency", apperrors.ErrValidation)
)

// entryBuilder assembles resolved lines into one balanced journal entry.
type entryBuilder struct {
	accountRepo  portsrepo.AccountReader
	tolerance    decimal.Decimal
	baseCurrency string
}

// NewEntryBuilder creates an entry builder. The balance tolerance comes from
// configuration; it absorbs rounding residue from upstream tax math, nothing
// more.
func NewEntryBuilder(accountRepo portsrepo.AccountReader, tolerance decimal.Decimal, baseCurrency string) portssvc.EntryBuilder {
	return &entryBuilder{accountRepo: accountRepo, tolerance: tolerance, baseCurrency: baseCurrency}
}

var _ portssvc.EntryBuilder = (*entryBuilder)(nil)

// Build looks up each line's account by code, computes the fiscal period and
// assembles the entry. Lines against unknown accounts are dropped and
// logged. The balance invariant is checked over the surviving lines; any
// violation rejects the entry as a whole. Zero surviving lines is rejected
// as a no-op.
func (b *entryBuilder) Build(ctx context.Context, params portssvc.BuildParams) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if params.CurrencyCode != "" && params.CurrencyCode != b.baseCurrency {
		return nil, fmt.Errorf("%w: got %s, ledger is kept in %s",
			ErrUnsupportedCurrency, params.CurrencyCode, b.baseCurrency)
	}

	codes := make([]string, 0, len(params.Lines))
	for _, line := range params.Lines {
		codes = append(codes, line.AccountCode)
	}
	accounts, err := b.accountRepo.FindAccountsByCodes(ctx, params.CompanyID, uniqueStrings(codes))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for entry: %w", err)
	}

	now := time.Now().UTC()
	entryID := uuid.NewString()
	period := domain.FiscalPeriodOf(params.EntryDate)

	lines := make([]domain.JournalLine, 0, len(params.Lines))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for i, resolved := range params.Lines {
		account, found := accounts[resolved.AccountCode]
		if !found {
			logger.Warn("Entry line dropped: account code not in chart",
				slog.String("account_code", resolved.AccountCode),
				slog.String("company_id", params.CompanyID),
				slog.Int("line_index", i))
			continue
		}
		if !account.IsActive {
			logger.Warn("Entry line dropped: account inactive",
				slog.String("account_code", resolved.AccountCode),
				slog.String("account_id", account.AccountID))
			continue
		}
		if resolved.SubledgerType != nil && !account.ValidSubledgerFor(*resolved.SubledgerType) {
			return nil, fmt.Errorf("%w: account %s does not accept %s subledger lines",
				ErrInvalidLine, account.Code, *resolved.SubledgerType)
		}

		line := domain.JournalLine{
			LineID:        uuid.NewString(),
			EntryID:       entryID,
			AccountID:     account.AccountID,
			AccountCode:   account.Code,
			DebitAmount:   resolved.DebitAmount,
			CreditAmount:  resolved.CreditAmount,
			Description:   resolved.Description,
			CurrencyCode:  b.baseCurrency,
			ExchangeRate:  decimal.NewFromInt(1),
			SubledgerType: resolved.SubledgerType,
			SubledgerID:   resolved.SubledgerID,
			LineOrder:     len(lines) + 1,
			AuditFields:   domain.NewAuditFields(params.Actor, now),
		}
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLine, err)
		}
		totalDebit = totalDebit.Add(line.DebitAmount)
		totalCredit = totalCredit.Add(line.CreditAmount)
		lines = append(lines, line)
	}

	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	if totalDebit.Sub(totalCredit).Abs().GreaterThan(b.tolerance) {
		return nil, fmt.Errorf("%w: debits %s, credits %s",
			ErrEntryUnbalanced, totalDebit.String(), totalCredit.String())
	}

	entry := &domain.JournalEntry{
		EntryID:       entryID,
		CompanyID:     params.CompanyID,
		EntryDate:     params.EntryDate,
		FinancialYear: period.FinancialYear,
		PeriodMonth:   period.PeriodMonth,
		EntryType:     params.EntryType,
		SourceType:    params.SourceType,
		SourceID:      params.SourceID,
		Status:        domain.Draft,
		Narration:     params.Narration,
		TotalDebit:    totalDebit,
		TotalCredit:   totalCredit,
		Lines:         lines,
		AuditFields:   domain.NewAuditFields(params.Actor, now),
	}
	if params.Rule != nil {
		ruleID := params.Rule.RuleID
		entry.PostingRuleID = &ruleID
		entry.RuleCode = params.Rule.RuleCode
	}
	if params.AutoPost {
		entry.Status = domain.Posted
		postedAt := now
		entry.PostedAt = &postedAt
		entry.PostedBy = params.Actor
	}
	return entry, nil
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
