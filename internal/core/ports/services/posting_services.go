package services

import (
	"context"
	"time"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/dto"
)

// RuleSelector picks the best-matching posting rule for a business event.
type RuleSelector interface {
	// SelectRule returns the most specific matching rule, or nil when no
	// auto-posting is configured for this event (a normal outcome).
	SelectRule(ctx context.Context, companyID, sourceType, triggerEvent string, eventData domain.EventData, date time.Time) (*domain.PostingRule, error)
}

// TemplateResolver turns a rule's template into concrete line assignments
// using event data.
type TemplateResolver interface {
	// Resolve instantiates each template line; unresolvable or non-applicable
	// lines are dropped, not errored.
	Resolve(ctx context.Context, template domain.PostingTemplate, eventData domain.EventData) []domain.ResolvedLine

	// ResolveNarration substitutes {field} placeholders in the narration
	// template.
	ResolveNarration(template string, eventData domain.EventData) string
}

// BuildParams carries everything the entry builder needs for one entry.
type BuildParams struct {
	CompanyID  string
	SourceType string
	SourceID   *string
	EntryDate  time.Time
	EntryType  domain.EntryType
	Narration  string

	// CurrencyCode is optional; when set it must equal the ledger's base
	// currency, the only currency entries are kept in.
	CurrencyCode string

	Lines []domain.ResolvedLine
	Rule       *domain.PostingRule
	Actor      string
	AutoPost   bool
}

// EntryBuilder assembles resolved lines into one balanced journal entry.
type EntryBuilder interface {
	// Build looks up accounts, computes the fiscal period and validates the
	// balance invariant. Unknown accounts drop their line; an unbalanced or
	// empty result rejects the entry as a whole.
	Build(ctx context.Context, params BuildParams) (*domain.JournalEntry, error)
}

// PostingSvcFacade is the rule-driven posting entry point used by event
// adapters.
type PostingSvcFacade interface {
	// PostEvent runs the full pipeline: idempotency gate, rule selection,
	// template resolution, entry build and atomic persistence.
	PostEvent(ctx context.Context, companyID string, req dto.PostEventRequest, actor string) (*domain.JournalEntry, domain.PostOutcome, error)

	// PostEventBestEffort is the fire-and-report variant for triggering
	// adapters: posting failures are logged, never propagated.
	PostEventBestEffort(ctx context.Context, companyID string, req dto.PostEventRequest, actor string)
}
