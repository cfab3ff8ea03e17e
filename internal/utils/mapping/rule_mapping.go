package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/models"
)

// ToModelPostingRule converts a domain PostingRule to a model PostingRule,
// encoding conditions and template into their JSONB columns.
func ToModelPostingRule(d domain.PostingRule) (models.PostingRule, error) {
	conditions, err := json.Marshal(d.Conditions)
	if err != nil {
		return models.PostingRule{}, fmt.Errorf("failed to encode rule conditions: %w", err)
	}
	template, err := json.Marshal(d.Template)
	if err != nil {
		return models.PostingRule{}, fmt.Errorf("failed to encode rule template: %w", err)
	}
	return models.PostingRule{
		RuleID:          d.RuleID,
		CompanyID:       d.CompanyID,
		RuleCode:        d.RuleCode,
		SourceType:      d.SourceType,
		TriggerEvent:    d.TriggerEvent,
		Conditions:      conditions,
		Template:        template,
		Priority:        d.Priority,
		RulePackVersion: d.RulePackVersion,
		FinancialYear:   d.FinancialYear,
		EffectiveFrom:   d.EffectiveFrom,
		IsActive:        d.IsActive,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainPostingRule converts a model PostingRule to a domain PostingRule,
// decoding the JSONB condition and template documents.
func ToDomainPostingRule(m models.PostingRule) (domain.PostingRule, error) {
	var conditions []domain.RuleCondition
	if len(m.Conditions) > 0 {
		if err := json.Unmarshal(m.Conditions, &conditions); err != nil {
			return domain.PostingRule{}, fmt.Errorf("failed to decode conditions for rule %s: %w", m.RuleID, err)
		}
	}
	var template domain.PostingTemplate
	if len(m.Template) > 0 {
		if err := json.Unmarshal(m.Template, &template); err != nil {
			return domain.PostingRule{}, fmt.Errorf("failed to decode template for rule %s: %w", m.RuleID, err)
		}
	}
	return domain.PostingRule{
		RuleID:          m.RuleID,
		CompanyID:       m.CompanyID,
		RuleCode:        m.RuleCode,
		SourceType:      m.SourceType,
		TriggerEvent:    m.TriggerEvent,
		Conditions:      conditions,
		Template:        template,
		Priority:        m.Priority,
		RulePackVersion: m.RulePackVersion,
		FinancialYear:   m.FinancialYear,
		EffectiveFrom:   m.EffectiveFrom,
		IsActive:        m.IsActive,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToModelRuleUsageLog converts a domain usage log, encoding the event snapshot.
func ToModelRuleUsageLog(d domain.PostingRuleUsageLog) (models.PostingRuleUsageLog, error) {
	snapshot, err := json.Marshal(d.EventSnapshot)
	if err != nil {
		return models.PostingRuleUsageLog{}, fmt.Errorf("failed to encode event snapshot: %w", err)
	}
	return models.PostingRuleUsageLog{
		LogID:         d.LogID,
		RuleID:        d.RuleID,
		RuleCode:      d.RuleCode,
		EntryID:       d.EntryID,
		SourceType:    d.SourceType,
		SourceID:      d.SourceID,
		EventSnapshot: snapshot,
		CreatedAt:     d.CreatedAt,
	}, nil
}

// ToDomainRuleUsageLog converts a model usage log, decoding the event snapshot.
func ToDomainRuleUsageLog(m models.PostingRuleUsageLog) (domain.PostingRuleUsageLog, error) {
	var snapshot domain.EventData
	if len(m.EventSnapshot) > 0 {
		if err := json.Unmarshal(m.EventSnapshot, &snapshot); err != nil {
			return domain.PostingRuleUsageLog{}, fmt.Errorf("failed to decode event snapshot for log %s: %w", m.LogID, err)
		}
	}
	return domain.PostingRuleUsageLog{
		LogID:         m.LogID,
		RuleID:        m.RuleID,
		RuleCode:      m.RuleCode,
		EntryID:       m.EntryID,
		SourceType:    m.SourceType,
		SourceID:      m.SourceID,
		EventSnapshot: snapshot,
		CreatedAt:     m.CreatedAt,
	}, nil
}
