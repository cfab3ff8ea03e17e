package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
)

// ruleEngineService selects the best-matching posting rule for an event.
type ruleEngineService struct {
	ruleRepo portsrepo.RuleReader
}

// NewRuleEngineService creates a new rule selector over the given rule store.
func NewRuleEngineService(ruleRepo portsrepo.RuleReader) portssvc.RuleSelector {
	return &ruleEngineService{ruleRepo: ruleRepo}
}

var _ portssvc.RuleSelector = (*ruleEngineService)(nil)

// candidate pairs a matching rule with its specificity score.
type candidate struct {
	rule  domain.PostingRule
	score int
}

// SelectRule retrieves the active rules scoped to the financial year of the
// posting date, evaluates each rule's conditions against the event data and
// picks the most specific match: most matched condition keys first, then
// declared priority, then most recent effective date. A nil result means no
// auto-posting is configured for this event, which is a normal outcome.
func (s *ruleEngineService) SelectRule(ctx context.Context, companyID, sourceType, triggerEvent string, eventData domain.EventData, date time.Time) (*domain.PostingRule, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	financialYear := domain.FinancialYearOf(date)
	rules, err := s.ruleRepo.ListActiveRules(ctx, companyID, sourceType, triggerEvent, financialYear)
	if err != nil {
		return nil, fmt.Errorf("failed to load posting rules: %w", err)
	}
	if len(rules) == 0 {
		logger.Debug("No active posting rules configured",
			slog.String("company_id", companyID),
			slog.String("source_type", sourceType),
			slog.String("trigger_event", triggerEvent),
			slog.String("financial_year", financialYear))
		return nil, nil
	}

	candidates := make([]candidate, 0, len(rules))
	for _, rule := range rules {
		if rule.EffectiveFrom.After(date) {
			continue
		}
		score, ok := rule.MatchScore(eventData)
		if !ok {
			continue
		}
		candidates = append(candidates, candidate{rule: rule, score: score})
	}
	if len(candidates) == 0 {
		logger.Debug("No posting rule matched event data",
			slog.String("company_id", companyID),
			slog.String("source_type", sourceType),
			slog.Int("rules_evaluated", len(rules)))
		return nil, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.rule.Priority != b.rule.Priority {
			return a.rule.Priority > b.rule.Priority
		}
		return a.rule.EffectiveFrom.After(b.rule.EffectiveFrom)
	})

	selected := candidates[0].rule
	logger.Debug("Posting rule selected",
		slog.String("rule_id", selected.RuleID),
		slog.String("rule_code", selected.RuleCode),
		slog.Int("matched_conditions", candidates[0].score),
		slog.Int("candidates", len(candidates)))
	return &selected, nil
}
