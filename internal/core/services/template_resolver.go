package services

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	portssvc "github.com/finbooks-app/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks-app/finbooks_backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// defaultLineDescription labels lines whose template gives no description.
const defaultLineDescription = "Auto posting"

var placeholderPattern = regexp.MustCompile(`\{([a-zA-Z0-9_\.]+)\}`)

// templateResolver instantiates posting templates against event data.
type templateResolver struct{}

// NewTemplateResolver creates the template resolver.
func NewTemplateResolver() portssvc.TemplateResolver {
	return &templateResolver{}
}

var _ portssvc.TemplateResolver = (*templateResolver)(nil)

// Resolve walks the template lines in order and produces concrete resolved
// lines. A line that cannot resolve an account code or whose amount is not
// positive is dropped and logged; dropping is non-fatal here. Whether the
// survivors still form a balanced entry is the builder's concern.
func (r *templateResolver) Resolve(ctx context.Context, template domain.PostingTemplate, eventData domain.EventData) []domain.ResolvedLine {
	logger := middleware.GetLoggerFromCtx(ctx)

	resolved := make([]domain.ResolvedLine, 0, len(template.Lines))
	for i, spec := range template.Lines {
		accountCode := resolveAccountCode(spec, eventData)
		if accountCode == "" {
			logger.Warn("Template line dropped: account code unresolved",
				slog.Int("line_index", i),
				slog.String("account_code_field", spec.AccountCodeField))
			continue
		}

		debit, credit, ok := resolveAmount(spec, eventData)
		if !ok {
			logger.Debug("Template line dropped: no applicable amount",
				slog.Int("line_index", i),
				slog.String("account_code", accountCode))
			continue
		}

		line := domain.ResolvedLine{
			AccountCode:  accountCode,
			DebitAmount:  debit,
			CreditAmount: credit,
			Description:  r.ResolveNarration(spec.DescriptionTemplate, eventData),
		}

		if spec.SubledgerType != nil && spec.SubledgerIDField != "" {
			if partyID, ok := eventData.StringField(spec.SubledgerIDField); ok {
				st := *spec.SubledgerType
				line.SubledgerType = &st
				line.SubledgerID = &partyID
			}
			// No party in the event: the line stays control-account-only.
		}

		resolved = append(resolved, line)
	}
	return resolved
}

// resolveAccountCode applies the resolution priority: dynamic field value
// first, then the static code, then the fallback.
func resolveAccountCode(spec domain.TemplateLine, eventData domain.EventData) string {
	if spec.AccountCodeField != "" {
		if code, ok := eventData.StringField(spec.AccountCodeField); ok {
			return code
		}
	}
	if spec.AccountCode != "" {
		return spec.AccountCode
	}
	return spec.AccountCodeFallback
}

// resolveAmount reads the line amount from DebitField/CreditField, falling
// back to the legacy Side+AmountField form. Amounts that fail to coerce or
// are not positive report not-applicable.
func resolveAmount(spec domain.TemplateLine, eventData domain.EventData) (debit, credit decimal.Decimal, ok bool) {
	if spec.DebitField != "" {
		if amount, found := eventData.DecimalField(spec.DebitField); found && amount.IsPositive() {
			return amount, decimal.Zero, true
		}
	}
	if spec.CreditField != "" {
		if amount, found := eventData.DecimalField(spec.CreditField); found && amount.IsPositive() {
			return decimal.Zero, amount, true
		}
	}
	if spec.AmountField != "" {
		amount, found := eventData.DecimalField(spec.AmountField)
		if !found || !amount.IsPositive() {
			return decimal.Zero, decimal.Zero, false
		}
		if spec.Side == domain.SideCredit {
			return decimal.Zero, amount, true
		}
		if spec.Side == domain.SideDebit {
			return amount, decimal.Zero, true
		}
	}
	return decimal.Zero, decimal.Zero, false
}

// ResolveNarration substitutes {field} placeholders with event values.
// Unknown fields render empty; an empty result falls back to a generic label.
func (r *templateResolver) ResolveNarration(template string, eventData domain.EventData) string {
	if strings.TrimSpace(template) == "" {
		return defaultLineDescription
	}
	out := placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		field := strings.Trim(match, "{}")
		if v, ok := eventData.Get(field); ok {
			return v.AsString()
		}
		return ""
	})
	out = strings.TrimSpace(out)
	if out == "" {
		return defaultLineDescription
	}
	return out
}
