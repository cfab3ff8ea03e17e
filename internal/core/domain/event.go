package domain

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ValueKind enumerates the closed set of types an event field may carry.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
)

// Value is a tagged union over the field types adapters are allowed to send
// (string, number, bool, null). Rule conditions and posting templates are
// evaluated against Values instead of raw interface{} data.
type Value struct {
	kind ValueKind
	str  string
	num  decimal.Decimal
	b    bool
}

func NullValue() Value           { return Value{kind: KindNull} }
func StringValue(s string) Value { return Value{kind: KindString, str: s} }
func BoolValue(b bool) Value     { return Value{kind: KindBool, b: b} }

func NumberValue(d decimal.Decimal) Value {
	return Value{kind: KindNumber, num: d}
}

// NumberFromFloat is a convenience constructor for test fixtures and adapters.
func NumberFromFloat(f float64) Value {
	return NumberValue(decimal.NewFromFloat(f))
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsNull() bool    { return v.kind == KindNull }

// AsString renders the value as a string; numbers and bools are formatted,
// null renders empty.
func (v Value) AsString() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return v.num.String()
	case KindBool:
		if v.b {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// AsDecimal coerces the value to a decimal amount. Numeric strings are
// parsed; anything else reports false.
func (v Value) AsDecimal() (decimal.Decimal, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		trimmed := strings.TrimSpace(v.str)
		if trimmed == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(trimmed)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}

// IsTruthy implements the boolean check used by rule conditions: true bools,
// non-zero numbers and non-empty strings (other than "false"/"0") are truthy.
func (v Value) IsTruthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return !v.num.IsZero()
	case KindString:
		s := strings.TrimSpace(strings.ToLower(v.str))
		return s != "" && s != "false" && s != "0"
	default:
		return false
	}
}

// Equal compares two values, coercing across string/number so that a rule
// condition "status == 1" matches an adapter sending "1".
func (v Value) Equal(o Value) bool {
	if v.kind == o.kind {
		switch v.kind {
		case KindString:
			return v.str == o.str
		case KindNumber:
			return v.num.Equal(o.num)
		case KindBool:
			return v.b == o.b
		default:
			return true // both null
		}
	}
	vd, vok := v.AsDecimal()
	od, ook := o.AsDecimal()
	if vok && ook {
		return vd.Equal(od)
	}
	if v.kind == KindNull || o.kind == KindNull {
		return false
	}
	return v.AsString() == o.AsString()
}

// MarshalJSON renders the value as its plain JSON counterpart.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return []byte(v.num.String()), nil
	case KindBool:
		return json.Marshal(v.b)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON maps JSON scalars onto the union. Objects carrying a "value"
// key (structured-number representations from some adapters) collapse to the
// inner value; other composites are treated as null.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("invalid event field value: %w", err)
	}
	*v = fromJSONValue(raw)
	return nil
}

func fromJSONValue(raw interface{}) Value {
	switch t := raw.(type) {
	case nil:
		return NullValue()
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case json.Number:
		d, err := decimal.NewFromString(t.String())
		if err != nil {
			return StringValue(t.String())
		}
		return NumberValue(d)
	case map[string]interface{}:
		if inner, ok := t["value"]; ok {
			return fromJSONValue(inner)
		}
		return NullValue()
	default:
		return NullValue()
	}
}

// EventData is the flat field map an adapter supplies for one business event.
type EventData map[string]Value

// Get returns the value for a field; absent and null fields both report false.
func (e EventData) Get(field string) (Value, bool) {
	v, ok := e[field]
	if !ok || v.IsNull() {
		return Value{}, false
	}
	return v, true
}

// StringField returns a non-empty string rendering of a field.
func (e EventData) StringField(field string) (string, bool) {
	v, ok := e.Get(field)
	if !ok {
		return "", false
	}
	s := v.AsString()
	return s, s != ""
}

// DecimalField coerces a field to a decimal amount.
func (e EventData) DecimalField(field string) (decimal.Decimal, bool) {
	v, ok := e.Get(field)
	if !ok {
		return decimal.Zero, false
	}
	return v.AsDecimal()
}
