package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/finbooks-app/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_AsDecimal(t *testing.T) {
	tests := []struct {
		name   string
		value  domain.Value
		want   string
		wantOK bool
	}{
		{"number", domain.NumberFromFloat(118.5), "118.5", true},
		{"numeric string", domain.StringValue("42.10"), "42.1", true},
		{"padded numeric string", domain.StringValue("  7 "), "7", true},
		{"non-numeric string", domain.StringValue("abc"), "0", false},
		{"empty string", domain.StringValue(""), "0", false},
		{"bool", domain.BoolValue(true), "0", false},
		{"null", domain.NullValue(), "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.value.AsDecimal()
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s", got)
		})
	}
}

func TestValue_Equal_CoercesStringAndNumber(t *testing.T) {
	assert.True(t, domain.StringValue("1").Equal(domain.NumberFromFloat(1)))
	assert.True(t, domain.NumberFromFloat(1).Equal(domain.StringValue("1.00")))
	assert.False(t, domain.StringValue("1").Equal(domain.NumberFromFloat(2)))
	assert.False(t, domain.NullValue().Equal(domain.StringValue("")))
	assert.True(t, domain.NullValue().Equal(domain.NullValue()))
	assert.True(t, domain.BoolValue(true).Equal(domain.BoolValue(true)))
}

func TestValue_IsTruthy(t *testing.T) {
	assert.True(t, domain.BoolValue(true).IsTruthy())
	assert.False(t, domain.BoolValue(false).IsTruthy())
	assert.True(t, domain.NumberFromFloat(0.01).IsTruthy())
	assert.False(t, domain.NumberFromFloat(0).IsTruthy())
	assert.True(t, domain.StringValue("yes").IsTruthy())
	assert.False(t, domain.StringValue("false").IsTruthy())
	assert.False(t, domain.StringValue("0").IsTruthy())
	assert.False(t, domain.StringValue(" ").IsTruthy())
	assert.False(t, domain.NullValue().IsTruthy())
}

func TestEventData_UnmarshalJSON(t *testing.T) {
	payload := []byte(`{
		"invoiceNumber": "INV-001",
		"grandTotal": 11800,
		"taxable": true,
		"discount": null,
		"structured": {"value": "4001"}
	}`)

	var data domain.EventData
	require.NoError(t, json.Unmarshal(payload, &data))

	s, ok := data.StringField("invoiceNumber")
	assert.True(t, ok)
	assert.Equal(t, "INV-001", s)

	total, ok := data.DecimalField("grandTotal")
	assert.True(t, ok)
	assert.True(t, total.Equal(decimal.NewFromInt(11800)))

	taxable, ok := data.Get("taxable")
	assert.True(t, ok)
	assert.True(t, taxable.IsTruthy())

	// Null fields behave like absent fields.
	_, ok = data.Get("discount")
	assert.False(t, ok)
	_, ok = data.Get("missing")
	assert.False(t, ok)

	// Structured-number objects collapse to their inner value.
	inner, ok := data.StringField("structured")
	assert.True(t, ok)
	assert.Equal(t, "4001", inner)
}

func TestEventData_RoundTripJSON(t *testing.T) {
	data := domain.EventData{
		"code":   domain.StringValue("4001"),
		"amount": domain.NumberFromFloat(99.95),
		"flag":   domain.BoolValue(false),
	}

	raw, err := json.Marshal(data)
	require.NoError(t, err)

	var back domain.EventData
	require.NoError(t, json.Unmarshal(raw, &back))

	s, _ := back.StringField("code")
	assert.Equal(t, "4001", s)
	amount, ok := back.DecimalField("amount")
	assert.True(t, ok)
	assert.True(t, amount.Equal(decimal.NewFromFloat(99.95)))
	flag, ok := back.Get("flag")
	assert.True(t, ok)
	assert.False(t, flag.IsTruthy())
}
