package services

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/apperrors"
	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks-app/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
)

// ruleService exposes the read side of externally authored posting rules
// plus their usage audit trail.
type ruleService struct {
	ruleRepo portsrepo.RuleRepositoryFacade
}

// NewRuleService creates a new RuleService.
func NewRuleService(ruleRepo portsrepo.RuleRepositoryFacade) portssvc.RuleSvcFacade {
	return &ruleService{ruleRepo: ruleRepo}
}

var _ portssvc.RuleSvcFacade = (*ruleService)(nil)

func (s *ruleService) GetRuleByID(ctx context.Context, companyID, ruleID string) (*domain.PostingRule, error) {
	rule, err := s.ruleRepo.FindRuleByID(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	if rule.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	return rule, nil
}

func (s *ruleService) ListRules(ctx context.Context, companyID, sourceType string) ([]domain.PostingRule, error) {
	return s.ruleRepo.ListRules(ctx, companyID, sourceType)
}

func (s *ruleService) ListRuleUsage(ctx context.Context, companyID, ruleID string, limit int) ([]domain.PostingRuleUsageLog, error) {
	// Verify ownership before exposing the audit trail.
	if _, err := s.GetRuleByID(ctx, companyID, ruleID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 50
	}
	return s.ruleRepo.ListUsageLogsByRule(ctx, ruleID, limit)
}

func (s *ruleService) GetUsageForSource(ctx context.Context, sourceType, sourceID string) ([]domain.PostingRuleUsageLog, error) {
	return s.ruleRepo.FindUsageLogsBySource(ctx, sourceType, sourceID)
}
