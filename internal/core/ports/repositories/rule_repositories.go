package repositories

import (
	"context"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
)

// RuleReader defines read-only access to externally authored posting rules.
type RuleReader interface {
	// ListActiveRules retrieves active rules for one (company, source type,
	// trigger event) scoped to a financial year.
	ListActiveRules(ctx context.Context, companyID, sourceType, triggerEvent, financialYear string) ([]domain.PostingRule, error)

	// FindRuleByID retrieves a single rule.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.PostingRule, error)

	// ListRules retrieves all rules for a company, optionally filtered by
	// source type (empty means all).
	ListRules(ctx context.Context, companyID string, sourceType string) ([]domain.PostingRule, error)
}

// RuleUsageReader defines read access to the posting audit trail.
type RuleUsageReader interface {
	// ListUsageLogsByRule retrieves recent applications of one rule.
	ListUsageLogsByRule(ctx context.Context, ruleID string, limit int) ([]domain.PostingRuleUsageLog, error)

	// FindUsageLogsBySource retrieves the audit trail for one business event.
	FindUsageLogsBySource(ctx context.Context, sourceType, sourceID string) ([]domain.PostingRuleUsageLog, error)
}

// RuleRepositoryFacade combines rule and usage-log access.
type RuleRepositoryFacade interface {
	RuleReader
	RuleUsageReader
}
