package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConditionOperator enumerates the predicate checks a posting rule may apply
// to event data.
type ConditionOperator string

const (
	OpEquals ConditionOperator = "equals"
	OpIn     ConditionOperator = "in"
	OpTruthy ConditionOperator = "truthy"
)

// RuleCondition is one predicate over a single event field.
type RuleCondition struct {
	Field    string            `json:"field"`
	Operator ConditionOperator `json:"operator"`
	Value    Value             `json:"value,omitempty"`
	Values   []Value           `json:"values,omitempty"` // For OpIn
}

// Matches evaluates the condition against event data. Unknown operators fail
// closed.
func (c RuleCondition) Matches(data EventData) bool {
	v, ok := data.Get(c.Field)
	if !ok {
		return false
	}
	switch c.Operator {
	case OpEquals:
		return v.Equal(c.Value)
	case OpIn:
		for _, candidate := range c.Values {
			if v.Equal(candidate) {
				return true
			}
		}
		return false
	case OpTruthy:
		return v.IsTruthy()
	default:
		return false
	}
}

// TemplateSide is the legacy single-amount-field template form.
type TemplateSide string

const (
	SideDebit  TemplateSide = "DEBIT"
	SideCredit TemplateSide = "CREDIT"
)

// TemplateLine is one line spec inside a posting template. Account code
// resolution priority: AccountCodeField value from the event, then the
// static AccountCode, then AccountCodeFallback. Amounts come from
// DebitField/CreditField, or from the legacy Side+AmountField pair.
type TemplateLine struct {
	AccountCodeField    string         `json:"accountCodeField,omitempty"`
	AccountCode         string         `json:"accountCode,omitempty"`
	AccountCodeFallback string         `json:"accountCodeFallback,omitempty"`
	DebitField          string         `json:"debitField,omitempty"`
	CreditField         string         `json:"creditField,omitempty"`
	Side                TemplateSide   `json:"side,omitempty"` // Legacy form
	AmountField         string         `json:"amountField,omitempty"`
	DescriptionTemplate string         `json:"descriptionTemplate,omitempty"` // "{field}" placeholders
	SubledgerType       *SubledgerType `json:"subledgerType,omitempty"`
	SubledgerIDField    string         `json:"subledgerIdField,omitempty"`
}

// PostingTemplate is the ordered set of line specs a rule instantiates.
type PostingTemplate struct {
	NarrationTemplate string         `json:"narrationTemplate,omitempty"`
	Lines             []TemplateLine `json:"lines"`
}

// PostingRule maps a business-event shape to a journal-entry template. Rules
// are authored externally; the engine only reads them.
type PostingRule struct {
	RuleID          string          `json:"ruleID"` // Primary Key (UUID)
	CompanyID       string          `json:"companyID"`
	RuleCode        string          `json:"ruleCode"`
	SourceType      string          `json:"sourceType"`
	TriggerEvent    string          `json:"triggerEvent"` // e.g. on_submit, on_payment
	Conditions      []RuleCondition `json:"conditions"`
	Template        PostingTemplate `json:"template"`
	Priority        int             `json:"priority"`
	RulePackVersion string          `json:"rulePackVersion"`
	FinancialYear   string          `json:"financialYear"` // Rules are scoped per financial year
	EffectiveFrom   time.Time       `json:"effectiveFrom"`
	IsActive        bool            `json:"isActive"`
	AuditFields
}

// MatchScore evaluates all conditions against the event data. A rule is a
// candidate only when every condition passes; the score (matched condition
// count) drives specificity ordering among candidates.
func (r PostingRule) MatchScore(data EventData) (int, bool) {
	for _, cond := range r.Conditions {
		if !cond.Matches(data) {
			return 0, false
		}
	}
	return len(r.Conditions), true
}

// ResolvedLine is the template resolver's output for one surviving template
// line: concrete account code, one-sided amount and optional subledger tag.
type ResolvedLine struct {
	AccountCode   string          `json:"accountCode"`
	DebitAmount   decimal.Decimal `json:"debitAmount"`
	CreditAmount  decimal.Decimal `json:"creditAmount"`
	Description   string          `json:"description"`
	SubledgerType *SubledgerType  `json:"subledgerType,omitempty"`
	SubledgerID   *string         `json:"subledgerID,omitempty"`
}

// PostingRuleUsageLog links a rule application to the entry it produced,
// with a snapshot of the event data for audit.
type PostingRuleUsageLog struct {
	LogID         string    `json:"logID"`
	RuleID        string    `json:"ruleID"`
	RuleCode      string    `json:"ruleCode"`
	EntryID       string    `json:"entryID"`
	SourceType    string    `json:"sourceType"`
	SourceID      string    `json:"sourceID"`
	EventSnapshot EventData `json:"eventSnapshot"`
	CreatedAt     time.Time `json:"createdAt"`
}
