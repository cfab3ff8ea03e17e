package services_test

import (
	"context"
	"testing"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/finbooks-app/finbooks_backend/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vendorTypePtr() *domain.SubledgerType {
	st := domain.SubledgerVendor
	return &st
}

func TestTemplateResolver_Resolve(t *testing.T) {
	ctx := context.Background()
	resolver := services.NewTemplateResolver()

	template := domain.PostingTemplate{
		Lines: []domain.TemplateLine{
			{AccountCode: "1200", DebitField: "grandTotal", DescriptionTemplate: "Invoice {invoiceNumber}"},
			{AccountCode: "4000", CreditField: "netAmount"},
			{AccountCode: "2310", CreditField: "cgstAmount"},
			{AccountCode: "2320", CreditField: "sgstAmount"},
		},
	}
	eventData := domain.EventData{
		"invoiceNumber": domain.StringValue("INV-001"),
		"grandTotal":    domain.NumberFromFloat(11800),
		"netAmount":     domain.NumberFromFloat(10000),
		"cgstAmount":    domain.NumberFromFloat(900),
		"sgstAmount":    domain.NumberFromFloat(900),
	}

	lines := resolver.Resolve(ctx, template, eventData)

	require.Len(t, lines, 4)
	assert.Equal(t, "1200", lines[0].AccountCode)
	assert.True(t, lines[0].DebitAmount.Equal(decimal.NewFromInt(11800)))
	assert.Equal(t, "Invoice INV-001", lines[0].Description)
	assert.True(t, lines[1].CreditAmount.Equal(decimal.NewFromInt(10000)))
}

func TestTemplateResolver_Resolve_ZeroTaxLineDropped(t *testing.T) {
	ctx := context.Background()
	resolver := services.NewTemplateResolver()

	template := domain.PostingTemplate{
		Lines: []domain.TemplateLine{
			{AccountCode: "1200", DebitField: "grandTotal"},
			{AccountCode: "4000", CreditField: "netAmount"},
			{AccountCode: "2310", CreditField: "cgstAmount"}, // zero in a tax-free sale
		},
	}
	eventData := domain.EventData{
		"grandTotal": domain.NumberFromFloat(100),
		"netAmount":  domain.NumberFromFloat(100),
		"cgstAmount": domain.NumberFromFloat(0),
	}

	lines := resolver.Resolve(ctx, template, eventData)

	require.Len(t, lines, 2)
	assert.Equal(t, "1200", lines[0].AccountCode)
	assert.Equal(t, "4000", lines[1].AccountCode)
}

func TestTemplateResolver_Resolve_AccountCodePriority(t *testing.T) {
	ctx := context.Background()
	resolver := services.NewTemplateResolver()

	template := domain.PostingTemplate{
		Lines: []domain.TemplateLine{
			{AccountCodeField: "expenseAccount", AccountCode: "5000", DebitField: "amount"},
		},
	}

	// Dynamic field value wins over the static code.
	lines := resolver.Resolve(ctx, template, domain.EventData{
		"expenseAccount": domain.StringValue("5150"),
		"amount":         domain.NumberFromFloat(75),
	})
	require.Len(t, lines, 1)
	assert.Equal(t, "5150", lines[0].AccountCode)

	// Without the field the static code applies.
	lines = resolver.Resolve(ctx, template, domain.EventData{
		"amount": domain.NumberFromFloat(75),
	})
	require.Len(t, lines, 1)
	assert.Equal(t, "5000", lines[0].AccountCode)

	// No resolvable code at all drops the line.
	bare := domain.PostingTemplate{
		Lines: []domain.TemplateLine{{AccountCodeField: "expenseAccount", DebitField: "amount"}},
	}
	lines = resolver.Resolve(ctx, bare, domain.EventData{"amount": domain.NumberFromFloat(75)})
	assert.Empty(t, lines)
}

func TestTemplateResolver_Resolve_LegacySideForm(t *testing.T) {
	ctx := context.Background()
	resolver := services.NewTemplateResolver()

	template := domain.PostingTemplate{
		Lines: []domain.TemplateLine{
			{AccountCode: "5100", Side: domain.SideDebit, AmountField: "amount"},
			{AccountCode: "1000", Side: domain.SideCredit, AmountField: "amount"},
		},
	}
	eventData := domain.EventData{"amount": domain.NumberFromFloat(250)}

	lines := resolver.Resolve(ctx, template, eventData)

	require.Len(t, lines, 2)
	assert.True(t, lines[0].DebitAmount.Equal(decimal.NewFromInt(250)))
	assert.True(t, lines[0].CreditAmount.IsZero())
	assert.True(t, lines[1].CreditAmount.Equal(decimal.NewFromInt(250)))
}

func TestTemplateResolver_Resolve_SubledgerTag(t *testing.T) {
	ctx := context.Background()
	resolver := services.NewTemplateResolver()

	template := domain.PostingTemplate{
		Lines: []domain.TemplateLine{
			{AccountCode: "2100", CreditField: "amount", SubledgerType: vendorTypePtr(), SubledgerIDField: "vendorID"},
		},
	}

	// Party present: the line carries the subledger tag.
	lines := resolver.Resolve(ctx, template, domain.EventData{
		"amount":   domain.NumberFromFloat(500),
		"vendorID": domain.StringValue("vendor-42"),
	})
	require.Len(t, lines, 1)
	require.NotNil(t, lines[0].SubledgerType)
	assert.Equal(t, domain.SubledgerVendor, *lines[0].SubledgerType)
	require.NotNil(t, lines[0].SubledgerID)
	assert.Equal(t, "vendor-42", *lines[0].SubledgerID)

	// Party absent: the line still posts, untagged.
	lines = resolver.Resolve(ctx, template, domain.EventData{
		"amount": domain.NumberFromFloat(500),
	})
	require.Len(t, lines, 1)
	assert.Nil(t, lines[0].SubledgerType)
	assert.Nil(t, lines[0].SubledgerID)
}

func TestTemplateResolver_ResolveNarration(t *testing.T) {
	resolver := services.NewTemplateResolver()

	eventData := domain.EventData{
		"invoiceNumber": domain.StringValue("INV-007"),
		"partyName":     domain.StringValue("Acme Traders"),
	}

	assert.Equal(t, "Sales INV-007 to Acme Traders",
		resolver.ResolveNarration("Sales {invoiceNumber} to {partyName}", eventData))

	// Unknown fields render empty; a fully empty result falls back.
	assert.Equal(t, "Auto posting", resolver.ResolveNarration("{missing}", eventData))
	assert.Equal(t, "Auto posting", resolver.ResolveNarration("", eventData))
	assert.Equal(t, "Auto posting", resolver.ResolveNarration("   ", eventData))
}
