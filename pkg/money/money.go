// pkg/money/money.go

// Package money converts amounts between decimals and the pt-BR currency
// notation used on receipts ("1.234,50", "R$ 1.234,50").
package money

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	CurrencySymbol     = "R$"
	ThousandsSeparator = "."
	DecimalSeparator   = ","

	// MaxIntegerDigits bounds the whole part of an accepted amount. Larger
	// values are treated as unreadable.
	MaxIntegerDigits = 15

	maxInputLength = 64
)

// Parse converts raw into a non-negative amount. Accepted types are nil,
// decimal.Decimal, json.Number, string and the built-in integer and float
// types. Strings use "." for thousands and "," for decimals. Exponent
// notation is not accepted. Anything it cannot read, or whose whole part
// exceeds MaxIntegerDigits, is zero.
func Parse(raw any) decimal.Decimal {
	var d decimal.Decimal

	switch v := raw.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		d = v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat(v)
	case float32:
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return decimal.Zero
		}
		d = decimal.NewFromFloat32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case int8:
		d = decimal.NewFromInt(int64(v))
	case int16:
		d = decimal.NewFromInt(int64(v))
	case int32:
		d = decimal.NewFromInt32(v)
	case int64:
		d = decimal.NewFromInt(v)
	case uint:
		d = decimal.NewFromUint64(uint64(v))
	case uint8:
		d = decimal.NewFromUint64(uint64(v))
	case uint16:
		d = decimal.NewFromUint64(uint64(v))
	case uint32:
		d = decimal.NewFromUint64(uint64(v))
	case uint64:
		d = decimal.NewFromUint64(v)
	case json.Number:
		d = parseString(v.String(), false)
	case string:
		d = parseString(v, true)
	default:
		return decimal.Zero
	}

	if d.IsNegative() || integerDigits(d) > MaxIntegerDigits {
		return decimal.Zero
	}
	return d
}

// integerDigits counts the digits left of the decimal point.
func integerDigits(d decimal.Decimal) int {
	return d.NumDigits() + int(d.Exponent())
}

func parseString(s string, localized bool) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxInputLength || strings.ContainsAny(s, "eE") {
		return decimal.Zero
	}
	if localized {
		s = strings.ReplaceAll(s, ThousandsSeparator, "")
		s = strings.ReplaceAll(s, DecimalSeparator, ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Format renders d with two decimals, e.g. "R$ 1.234,50".
func Format(d decimal.Decimal) string {
	fixed := d.Abs().StringFixed(2)

	whole, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(CurrencySymbol)
	b.WriteByte(' ')
	if d.Round(2).IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(groupThousands(whole))
	b.WriteString(DecimalSeparator)
	b.WriteString(frac)
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(ThousandsSeparator)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
