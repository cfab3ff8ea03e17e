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
	"github.com/finbooks-app/finbooks_backend/internal/dto"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

var (
	// ErrEntryNotPosted rejects reversal of draft entries.
	ErrEntryNotPosted = fmt.Errorf("%w: entry must be posted to be reversed", apperrors.ErrConflict)

	// ErrEntryAlreadyReversed rejects a second reversal of the same entry.
	ErrEntryAlreadyReversed = fmt.Errorf("%w: entry has already been reversed", apperrors.ErrConflict)

	// ErrCannotReverseReversal blocks reversing a reversal entry; correcting
	// one takes a new, independent entry.
	ErrCannotReverseReversal = fmt.Errorf("%w: a reversal entry cannot itself be reversed", apperrors.ErrConflict)

	// ErrEntryNotDraft rejects posting an entry that is not in draft state.
	ErrEntryNotDraft = fmt.Errorf("%w: entry must be a draft to be posted", apperrors.ErrConflict)
)

// sourceTypeManual marks entries keyed by hand rather than by an adapter event.
const sourceTypeManual = "manual"

// journalService covers manual entries, drafts, reversal and the read side
// of the ledger.
type journalService struct {
	builder     portssvc.EntryBuilder
	journalRepo portsrepo.JournalRepositoryFacade
	accountRepo portsrepo.AccountReader
}

// NewJournalService creates a new JournalService.
func NewJournalService(builder portssvc.EntryBuilder, journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader) portssvc.JournalSvcFacade {
	return &journalService{
		builder:     builder,
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateManualEntry validates and persists a manually keyed entry. It runs
// through the same builder and store as auto-posting, so every invariant
// (balance, one-sided lines, subledger pairing) holds identically.
func (s *journalService) CreateManualEntry(ctx context.Context, companyID string, req dto.CreateManualEntryRequest, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	lines := make([]domain.ResolvedLine, len(req.Lines))
	for i, lineReq := range req.Lines {
		lines[i] = domain.ResolvedLine{
			AccountCode:   lineReq.AccountCode,
			DebitAmount:   lineReq.DebitAmount,
			CreditAmount:  lineReq.CreditAmount,
			Description:   lineReq.Description,
			SubledgerType: lineReq.SubledgerType,
			SubledgerID:   lineReq.SubledgerID,
		}
	}

	entry, err := s.builder.Build(ctx, portssvc.BuildParams{
		CompanyID:    companyID,
		SourceType:   sourceTypeManual,
		EntryDate:    req.EntryDate,
		EntryType:    domain.EntryManual,
		Narration:    req.Narration,
		CurrencyCode: req.CurrencyCode,
		Lines:        lines,
		Actor:        actor,
		AutoPost:     req.AutoPost,
	})
	if err != nil {
		return nil, err
	}

	// Drafts do not touch account balances until they are posted.
	var balanceChanges map[string]decimal.Decimal
	if entry.Status == domain.Posted {
		balanceChanges, err = balanceChangesFor(ctx, s.accountRepo, entry.Lines)
		if err != nil {
			return nil, err
		}
	}

	stored, err := s.journalRepo.SaveEntry(ctx, *entry, balanceChanges, nil)
	if err != nil {
		logger.Error("Failed to save manual entry", slog.String("error", err.Error()), slog.String("company_id", companyID))
		return nil, fmt.Errorf("failed to save manual entry: %w", err)
	}

	logger.Info("Manual journal entry created",
		slog.String("entry_id", stored.EntryID),
		slog.Int64("journal_number", stored.JournalNumber),
		slog.String("status", string(stored.Status)))
	return stored, nil
}

// PostDraftEntry transitions a draft to POSTED and applies its balance
// deltas atomically.
func (s *journalService) PostDraftEntry(ctx context.Context, companyID, entryID, actor string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, fmt.Errorf("%w: status is %s", ErrEntryNotDraft, entry.Status)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for draft entry %s: %w", entryID, err)
	}
	balanceChanges, err := balanceChangesFor(ctx, s.accountRepo, lines)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.journalRepo.MarkEntryPosted(ctx, entryID, balanceChanges, actor, now); err != nil {
		logger.Error("Failed to post draft entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to post draft entry: %w", err)
	}

	entry.Status = domain.Posted
	entry.PostedAt = &now
	entry.PostedBy = actor
	entry.Lines = lines
	logger.Info("Draft entry posted", slog.String("entry_id", entryID))
	return entry, nil
}

// ReverseEntry creates the exact line-wise negation of a posted entry and
// marks the original REVERSED. The original's lines are never touched; only
// its status and reversal link change.
func (s *journalService) ReverseEntry(ctx context.Context, companyID, entryID, actor, reason string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, originalLines, err := s.validateReversal(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()
	period := domain.FiscalPeriodOf(original.EntryDate)

	reversalLines := make([]domain.JournalLine, len(originalLines))
	for i, origLine := range originalLines {
		rev := origLine.Negated()
		rev.LineID = uuid.NewString()
		rev.EntryID = reversalID
		rev.AuditFields = domain.NewAuditFields(actor, now)
		reversalLines[i] = rev
	}

	narration := fmt.Sprintf("Reversal of journal #%d: %s", original.JournalNumber, original.Narration)
	if reason != "" {
		narration = fmt.Sprintf("%s (%s)", narration, reason)
	}

	reversal := domain.JournalEntry{
		EntryID:         reversalID,
		CompanyID:       companyID,
		EntryDate:       original.EntryDate,
		FinancialYear:   period.FinancialYear,
		PeriodMonth:     period.PeriodMonth,
		EntryType:       original.EntryType,
		SourceType:      original.SourceType,
		SourceID:        original.SourceID,
		Status:          domain.Posted,
		Narration:       narration,
		TotalDebit:      original.TotalCredit,
		TotalCredit:     original.TotalDebit,
		OriginalEntryID: &original.EntryID,
		PostedAt:        &now,
		PostedBy:        actor,
		Lines:           reversalLines,
		AuditFields:     domain.NewAuditFields(actor, now),
	}

	balanceChanges, err := balanceChangesFor(ctx, s.accountRepo, reversalLines)
	if err != nil {
		return nil, err
	}

	stored, err := s.journalRepo.SaveReversalEntry(ctx, reversal, original.EntryID, balanceChanges)
	if err != nil {
		logger.Error("Failed to save reversal entry",
			slog.String("original_entry_id", original.EntryID),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversal entry: %w", err)
	}

	logger.Info("Journal entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversal_entry_id", stored.EntryID))
	return stored, nil
}

// validateReversal enforces the reversal preconditions and returns the
// original entry with its lines. Each rejection carries a distinguishing
// reason.
func (s *journalService) validateReversal(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, []domain.JournalLine, error) {
	original, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, nil, err
	}
	if original.IsReversal() {
		return nil, nil, fmt.Errorf("%w: %s", ErrCannotReverseReversal, entryID)
	}
	switch original.Status {
	case domain.Posted:
		// reversible
	case domain.Reversed:
		return nil, nil, fmt.Errorf("%w: %s", ErrEntryAlreadyReversed, entryID)
	default:
		return nil, nil, fmt.Errorf("%w: status is %s", ErrEntryNotPosted, original.Status)
	}

	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	return original, lines, nil
}

// GetEntryByID retrieves an entry with its lines.
func (s *journalService) GetEntryByID(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.findCompanyEntry(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	entry.Lines = lines
	return entry, nil
}

// ListEntries retrieves a paginated list of entries for a company.
func (s *journalService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	entries, nextToken, err := s.journalRepo.ListEntries(ctx, companyID, limit, params.NextToken, params.IncludeReversals)
	if err != nil {
		logger.Error("Failed to list entries", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to retrieve entries: %w", err)
	}

	var linesMap map[string][]domain.JournalLine
	if params.IncludeLines && len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i, entry := range entries {
			entryIDs[i] = entry.EntryID
		}
		linesMap, err = s.journalRepo.FindLinesByEntryIDs(ctx, entryIDs)
		if err != nil {
			logger.Warn("Failed to fetch lines for entries", slog.String("error", err.Error()))
			// Deliver the page without lines rather than failing the request.
		}
	}

	responses := make([]dto.JournalEntryResponse, len(entries))
	for i := range entries {
		if linesMap != nil {
			entries[i].Lines = linesMap[entries[i].EntryID]
		}
		responses[i] = dto.ToJournalEntryResponse(&entries[i])
	}

	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// findCompanyEntry fetches an entry and verifies company ownership,
// obscuring cross-company existence as not-found.
func (s *journalService) findCompanyEntry(ctx context.Context, companyID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return entry, nil
}
