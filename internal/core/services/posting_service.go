package services

import (
	"context"
	"errors"
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

// ErrMissingSource rejects posting requests without a source identity; the
// idempotency gate is keyed on it.
var ErrMissingSource = errors.New("source type and source id are required")

// postingService runs the rule-driven posting pipeline: idempotency gate,
// rule selection, template resolution, entry build and atomic persistence.
type postingService struct {
	ruleSelector portssvc.RuleSelector
	resolver     portssvc.TemplateResolver
	builder      portssvc.EntryBuilder
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountReader
}

// NewPostingService creates the posting orchestrator.
func NewPostingService(
	ruleSelector portssvc.RuleSelector,
	resolver portssvc.TemplateResolver,
	builder portssvc.EntryBuilder,
	journalRepo portsrepo.JournalRepositoryFacade,
	accountRepo portsrepo.AccountReader,
) portssvc.PostingSvcFacade {
	return &postingService{
		ruleSelector: ruleSelector,
		resolver:     resolver,
		builder:      builder,
		journalRepo:  journalRepo,
		accountRepo:  accountRepo,
	}
}

var _ portssvc.PostingSvcFacade = (*postingService)(nil)

// PostEvent posts one business event. At most one entry ever exists per
// (sourceType, sourceID): a repeat attempt returns the existing entry as a
// success-no-op, and a concurrent race is settled by the storage-layer
// uniqueness constraint rather than the pre-check alone.
func (s *postingService) PostEvent(ctx context.Context, companyID string, req dto.PostEventRequest, actor string) (*domain.JournalEntry, domain.PostOutcome, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.SourceType == "" || req.SourceID == "" {
		return nil, "", fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrMissingSource)
	}

	// Idempotency gate. A lost race past this check is caught again at persist.
	exists, err := s.journalRepo.HasPostedFor(ctx, companyID, req.SourceType, req.SourceID)
	if err != nil {
		return nil, "", fmt.Errorf("idempotency check failed: %w", err)
	}
	if exists {
		return s.alreadyPosted(ctx, companyID, req)
	}

	rule, err := s.ruleSelector.SelectRule(ctx, companyID, req.SourceType, req.TriggerEvent, req.EventData, req.EventDate)
	if err != nil {
		return nil, "", err
	}
	if rule == nil {
		// No auto-posting configured for this event shape.
		return nil, domain.OutcomeNoRule, nil
	}

	resolvedLines := s.resolver.Resolve(ctx, rule.Template, req.EventData)
	narration := s.resolver.ResolveNarration(rule.Template.NarrationTemplate, req.EventData)

	sourceID := req.SourceID
	entry, err := s.builder.Build(ctx, portssvc.BuildParams{
		CompanyID:  companyID,
		SourceType: req.SourceType,
		SourceID:   &sourceID,
		EntryDate:  req.EventDate,
		EntryType:  domain.EntryAutoPost,
		Narration:  narration,
		Lines:      resolvedLines,
		Rule:       rule,
		Actor:      actor,
		AutoPost:   true,
	})
	if err != nil {
		return nil, "", err
	}

	balanceChanges, err := balanceChangesFor(ctx, s.accountRepo, entry.Lines)
	if err != nil {
		return nil, "", err
	}

	usage := &domain.PostingRuleUsageLog{
		LogID:         uuid.NewString(),
		RuleID:        rule.RuleID,
		RuleCode:      rule.RuleCode,
		EntryID:       entry.EntryID,
		SourceType:    req.SourceType,
		SourceID:      req.SourceID,
		EventSnapshot: req.EventData,
		CreatedAt:     time.Now().UTC(),
	}

	stored, err := s.journalRepo.SaveEntry(ctx, *entry, balanceChanges, usage)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// A concurrent posting for the same event won the race.
			logger.Info("Concurrent duplicate posting detected, treating as no-op",
				slog.String("source_type", req.SourceType),
				slog.String("source_id", req.SourceID))
			return s.alreadyPosted(ctx, companyID, req)
		}
		return nil, "", fmt.Errorf("failed to persist journal entry: %w", err)
	}

	logger.Info("Journal entry auto-posted",
		slog.String("entry_id", stored.EntryID),
		slog.Int64("journal_number", stored.JournalNumber),
		slog.String("rule_code", rule.RuleCode),
		slog.String("source_type", req.SourceType),
		slog.String("source_id", req.SourceID),
		slog.String("total_debit", stored.TotalDebit.String()))
	return stored, domain.OutcomePosted, nil
}

// PostEventBestEffort is the fire-and-report variant for triggering
// adapters: a posting failure must never block the primary business action
// (invoice finalization and the like), so errors are logged and swallowed.
func (s *postingService) PostEventBestEffort(ctx context.Context, companyID string, req dto.PostEventRequest, actor string) {
	logger := middleware.GetLoggerFromCtx(ctx)
	_, outcome, err := s.PostEvent(ctx, companyID, req, actor)
	if err != nil {
		logger.Error("Auto-posting failed; source event left un-posted for manual remediation",
			slog.String("company_id", companyID),
			slog.String("source_type", req.SourceType),
			slog.String("source_id", req.SourceID),
			slog.String("error", err.Error()))
		return
	}
	logger.Debug("Auto-posting completed",
		slog.String("source_type", req.SourceType),
		slog.String("source_id", req.SourceID),
		slog.String("outcome", string(outcome)))
}

// alreadyPosted loads the entry that won for this source and reports the
// idempotent no-op outcome.
func (s *postingService) alreadyPosted(ctx context.Context, companyID string, req dto.PostEventRequest) (*domain.JournalEntry, domain.PostOutcome, error) {
	existing, err := s.journalRepo.FindEntryBySource(ctx, companyID, req.SourceType, req.SourceID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load existing entry for duplicate event: %w", err)
	}
	return existing, domain.OutcomeAlreadyPosted, nil
}

// balanceChangesFor folds entry lines into per-account balance deltas in
// each account's presentation convention.
func balanceChangesFor(ctx context.Context, accountRepo portsrepo.AccountReader, lines []domain.JournalLine) (map[string]decimal.Decimal, error) {
	accountIDs := make([]string, 0, len(lines))
	for _, line := range lines {
		accountIDs = append(accountIDs, line.AccountID)
	}
	accounts, err := accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts for balance changes: %w", err)
	}
	changes := make(map[string]decimal.Decimal, len(accounts))
	for _, line := range lines {
		account, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s disappeared during posting", apperrors.ErrInternal, line.AccountID)
		}
		delta := account.SignedDelta(line.DebitAmount, line.CreditAmount)
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}
