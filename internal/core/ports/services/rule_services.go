package services

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
)

// RuleSvcFacade is the read-side surface over externally authored posting
// rules and their usage audit trail.
type RuleSvcFacade interface {
	GetRuleByID(ctx context.Context, companyID, ruleID string) (*domain.PostingRule, error)
	ListRules(ctx context.Context, companyID, sourceType string) ([]domain.PostingRule, error)
	ListRuleUsage(ctx context.Context, companyID, ruleID string, limit int) ([]domain.PostingRuleUsageLog, error)
	GetUsageForSource(ctx context.Context, sourceType, sourceID string) ([]domain.PostingRuleUsageLog, error)
}
