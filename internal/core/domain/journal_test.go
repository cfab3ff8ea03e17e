package domain_test

import (
	"testing"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func subledgerTypePtr(st domain.SubledgerType) *domain.SubledgerType { return &st }
func stringPtr(s string) *string                                     { return &s }

func TestJournalLine_Validate(t *testing.T) {
	tests := []struct {
		name    string
		line    domain.JournalLine
		wantErr bool
	}{
		{
			name: "valid debit line",
			line: domain.JournalLine{DebitAmount: decimal.NewFromInt(100)},
		},
		{
			name: "valid credit line with subledger pair",
			line: domain.JournalLine{
				CreditAmount:  decimal.NewFromInt(100),
				SubledgerType: subledgerTypePtr(domain.SubledgerVendor),
				SubledgerID:   stringPtr("vendor-1"),
			},
		},
		{
			name:    "both sides positive",
			line:    domain.JournalLine{DebitAmount: decimal.NewFromInt(100), CreditAmount: decimal.NewFromInt(100)},
			wantErr: true,
		},
		{
			name:    "both sides zero",
			line:    domain.JournalLine{},
			wantErr: true,
		},
		{
			name:    "negative amount",
			line:    domain.JournalLine{DebitAmount: decimal.NewFromInt(-5)},
			wantErr: true,
		},
		{
			name: "subledger type without id",
			line: domain.JournalLine{
				DebitAmount:   decimal.NewFromInt(100),
				SubledgerType: subledgerTypePtr(domain.SubledgerCustomer),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.line.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJournalLine_Negated(t *testing.T) {
	line := domain.JournalLine{
		AccountID:     "acc-1",
		DebitAmount:   decimal.NewFromInt(250),
		CreditAmount:  decimal.Zero,
		SubledgerType: subledgerTypePtr(domain.SubledgerVendor),
		SubledgerID:   stringPtr("vendor-9"),
	}

	neg := line.Negated()
	assert.True(t, neg.DebitAmount.IsZero())
	assert.True(t, neg.CreditAmount.Equal(decimal.NewFromInt(250)))
	assert.Equal(t, "acc-1", neg.AccountID)
	assert.Equal(t, line.SubledgerType, neg.SubledgerType)
	assert.Equal(t, line.SubledgerID, neg.SubledgerID)

	// Negating twice restores the original sides.
	back := neg.Negated()
	assert.True(t, back.DebitAmount.Equal(line.DebitAmount))
	assert.True(t, back.CreditAmount.Equal(line.CreditAmount))
}

func TestJournalEntry_Balanced(t *testing.T) {
	tolerance := decimal.RequireFromString("0.01")

	entry := domain.JournalEntry{
		TotalDebit:  decimal.RequireFromString("118.00"),
		TotalCredit: decimal.RequireFromString("118.00"),
	}
	assert.True(t, entry.Balanced(tolerance))

	entry.TotalCredit = decimal.RequireFromString("117.99")
	assert.True(t, entry.Balanced(tolerance), "rounding residue within tolerance")

	entry.TotalCredit = decimal.RequireFromString("117.98")
	assert.False(t, entry.Balanced(tolerance))
}

func TestAccount_SignedDelta(t *testing.T) {
	debitNormal := domain.Account{NormalBalance: domain.NormalDebit}
	creditNormal := domain.Account{NormalBalance: domain.NormalCredit}

	d100 := decimal.NewFromInt(100)

	assert.True(t, debitNormal.SignedDelta(d100, decimal.Zero).Equal(d100))
	assert.True(t, debitNormal.SignedDelta(decimal.Zero, d100).Equal(d100.Neg()))
	assert.True(t, creditNormal.SignedDelta(decimal.Zero, d100).Equal(d100))
	assert.True(t, creditNormal.SignedDelta(d100, decimal.Zero).Equal(d100.Neg()))
}

func TestAccount_Classification(t *testing.T) {
	assert.Equal(t, domain.ClassControl, domain.Account{IsControlAccount: true}.Classification())
	assert.Equal(t, domain.ClassLegacyParty, domain.Account{IsLegacyParty: true}.Classification())
	assert.Equal(t, domain.ClassRegular, domain.Account{}.Classification())
}

func TestAccount_ValidSubledgerFor(t *testing.T) {
	vendorControl := domain.Account{IsControlAccount: true, ControlAccountType: domain.SubledgerVendor}
	assert.True(t, vendorControl.ValidSubledgerFor(domain.SubledgerVendor))
	assert.False(t, vendorControl.ValidSubledgerFor(domain.SubledgerCustomer))

	untyped := domain.Account{IsControlAccount: true}
	assert.True(t, untyped.ValidSubledgerFor(domain.SubledgerCustomer))

	regular := domain.Account{}
	assert.False(t, regular.ValidSubledgerFor(domain.SubledgerVendor))
}

func TestPostingRule_MatchScore(t *testing.T) {
	rule := domain.PostingRule{
		Conditions: []domain.RuleCondition{
			{Field: "status", Operator: domain.OpEquals, Value: domain.StringValue("submitted")},
			{Field: "taxable", Operator: domain.OpTruthy},
		},
	}

	score, ok := rule.MatchScore(domain.EventData{
		"status":  domain.StringValue("submitted"),
		"taxable": domain.BoolValue(true),
	})
	assert.True(t, ok)
	assert.Equal(t, 2, score)

	_, ok = rule.MatchScore(domain.EventData{
		"status":  domain.StringValue("draft"),
		"taxable": domain.BoolValue(true),
	})
	assert.False(t, ok, "every condition must pass")

	unconditional := domain.PostingRule{}
	score, ok = unconditional.MatchScore(domain.EventData{})
	assert.True(t, ok)
	assert.Equal(t, 0, score)
}

func TestRuleCondition_Matches(t *testing.T) {
	data := domain.EventData{
		"type":   domain.StringValue("gst"),
		"amount": domain.NumberFromFloat(500),
	}

	inCond := domain.RuleCondition{
		Field:    "type",
		Operator: domain.OpIn,
		Values:   []domain.Value{domain.StringValue("vat"), domain.StringValue("gst")},
	}
	assert.True(t, inCond.Matches(data))

	eqCoerced := domain.RuleCondition{Field: "amount", Operator: domain.OpEquals, Value: domain.StringValue("500")}
	assert.True(t, eqCoerced.Matches(data))

	missing := domain.RuleCondition{Field: "absent", Operator: domain.OpTruthy}
	assert.False(t, missing.Matches(data))

	unknown := domain.RuleCondition{Field: "type", Operator: domain.ConditionOperator("regex")}
	assert.False(t, unknown.Matches(data), "unknown operators fail closed")
}
