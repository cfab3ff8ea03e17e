package dto

import (
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
)

// PostingRuleResponse is the read-side API shape of a configured rule.
// Rules are authored externally; this surface only exposes them.
type PostingRuleResponse struct {
	RuleID          string                 `json:"ruleID"`
	CompanyID       string                 `json:"companyID"`
	RuleCode        string                 `json:"ruleCode"`
	SourceType      string                 `json:"sourceType"`
	TriggerEvent    string                 `json:"triggerEvent"`
	Conditions      []domain.RuleCondition `json:"conditions"`
	Template        domain.PostingTemplate `json:"template"`
	Priority        int                    `json:"priority"`
	RulePackVersion string                 `json:"rulePackVersion"`
	FinancialYear   string                 `json:"financialYear"`
	EffectiveFrom   time.Time              `json:"effectiveFrom"`
	IsActive        bool                   `json:"isActive"`
}

// RuleUsageResponse is one audit-trail record of a rule application.
type RuleUsageResponse struct {
	LogID      string    `json:"logID"`
	RuleID     string    `json:"ruleID"`
	RuleCode   string    `json:"ruleCode"`
	EntryID    string    `json:"entryID"`
	SourceType string    `json:"sourceType"`
	SourceID   string    `json:"sourceID"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToPostingRuleResponse converts a domain rule to its API shape.
func ToPostingRuleResponse(r *domain.PostingRule) PostingRuleResponse {
	return PostingRuleResponse{
		RuleID:          r.RuleID,
		CompanyID:       r.CompanyID,
		RuleCode:        r.RuleCode,
		SourceType:      r.SourceType,
		TriggerEvent:    r.TriggerEvent,
		Conditions:      r.Conditions,
		Template:        r.Template,
		Priority:        r.Priority,
		RulePackVersion: r.RulePackVersion,
		FinancialYear:   r.FinancialYear,
		EffectiveFrom:   r.EffectiveFrom,
		IsActive:        r.IsActive,
	}
}

// ToRuleUsageResponses converts usage logs, dropping the event snapshot
// payload from the list view.
func ToRuleUsageResponses(logs []domain.PostingRuleUsageLog) []RuleUsageResponse {
	out := make([]RuleUsageResponse, len(logs))
	for i, l := range logs {
		out[i] = RuleUsageResponse{
			LogID:      l.LogID,
			RuleID:     l.RuleID,
			RuleCode:   l.RuleCode,
			EntryID:    l.EntryID,
			SourceType: l.SourceType,
			SourceID:   l.SourceID,
			CreatedAt:  l.CreatedAt,
		}
	}
	return out
}
