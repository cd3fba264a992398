package statement

import (
	"encoding/json"
	"strings"

	"github.com/etnz/statement/date"
	"github.com/shopspring/decimal"
)

// Value is one normalized field of a record. Its zero value is null.
type Value struct {
	kind   Kind
	valid  bool
	text   string
	num    decimal.Decimal
	parsed bool // date text is canonical YYYY-MM-DD
}

// NullValue returns a null value of kind k.
func NullValue(k Kind) Value { return Value{kind: k} }

// TextValue returns a text value.
func TextValue(s string) Value { return Value{kind: KindText, valid: true, text: s} }

// NumberValue returns a number value.
func NumberValue(d decimal.Decimal) Value {
	return Value{kind: KindNumber, valid: true, num: d, text: d.String()}
}

// DateValue returns a date value. parsed tells whether s is a canonical
// YYYY-MM-DD date or the original unparsed text.
func DateValue(s string, parsed bool) Value {
	return Value{kind: KindDate, valid: true, text: s, parsed: parsed}
}

// normalizeValue turns the raw text of a cell into a value of kind k.
// Parse failures degrade to null (numbers) or to the original text (dates).
func normalizeValue(k Kind, raw string) Value {
	s := strings.TrimSpace(CollapseLines(raw))
	if s == "" {
		return NullValue(k)
	}
	switch k {
	case KindNumber:
		d, ok := ParseAmount(s)
		if !ok {
			return NullValue(k)
		}
		return NumberValue(d)
	case KindDate:
		norm, ok := NormalizeDate(s)
		return DateValue(norm, ok)
	default:
		return TextValue(s)
	}
}

func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return !v.valid }

// Decimal returns the number held by v.
func (v Value) Decimal() (decimal.Decimal, bool) {
	if !v.valid || v.kind != KindNumber {
		return decimal.Zero, false
	}
	return v.num, true
}

// Date returns the date held by v, only if it was parsed.
func (v Value) Date() (date.Date, bool) {
	if !v.valid || v.kind != KindDate || !v.parsed {
		return date.Date{}, false
	}
	d, err := date.Parse(v.text)
	if err != nil {
		return date.Date{}, false
	}
	return d, true
}

// String returns the text of v, "" when null.
func (v Value) String() string { return v.text }

// Cell returns v as a spreadsheet cell value: nil, string, decimal.Decimal or
// date.Date.
func (v Value) Cell() any {
	if !v.valid {
		return nil
	}
	if v.kind == KindNumber {
		return v.num
	}
	if d, ok := v.Date(); ok {
		return d
	}
	return v.text
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch {
	case !v.valid:
		return []byte("null"), nil
	case v.kind == KindNumber:
		return json.Marshal(json.Number(v.num.String()))
	default:
		return json.Marshal(v.text)
	}
}
