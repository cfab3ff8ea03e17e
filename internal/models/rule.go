package models

import (
	"time"
)

// PostingRule is the persisted shape of a rule. Conditions and the line
// template live in JSONB columns; the engine treats both as opaque documents
// decoded at the mapping layer.
type PostingRule struct {
	RuleID          string    `db:"rule_id"`
	CompanyID       string    `db:"company_id"`
	RuleCode        string    `db:"rule_code"`
	SourceType      string    `db:"source_type"`
	TriggerEvent    string    `db:"trigger_event"`
	Conditions      []byte    `db:"conditions"` // JSONB
	Template        []byte    `db:"template"`   // JSONB
	Priority        int       `db:"priority"`
	RulePackVersion string    `db:"rule_pack_version"`
	FinancialYear   string    `db:"financial_year"`
	EffectiveFrom   time.Time `db:"effective_from"`
	IsActive        bool      `db:"is_active"`
	AuditFields
}

// PostingRuleUsageLog records one rule application and the entry it produced.
type PostingRuleUsageLog struct {
	LogID         string    `db:"log_id"`
	RuleID        string    `db:"rule_id"`
	RuleCode      string    `db:"rule_code"`
	EntryID       string    `db:"entry_id"`
	SourceType    string    `db:"source_type"`
	SourceID      string    `db:"source_id"`
	EventSnapshot []byte    `db:"event_snapshot"` // JSONB
	CreatedAt     time.Time `db:"created_at"`
}
