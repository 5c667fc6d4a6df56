package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal is the fixed-point type used for every amount, quantity and rate
type Decimal = decimal.Decimal

// Zero is decimal zero
var Zero = decimal.Zero

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// CentPlaces is the number of fractional digits of the smallest currency unit
const CentPlaces = 2

// FromInt creates decimal from int
func FromInt(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}

// FromString parses decimal from string.
// Surrounding whitespace is ignored, an empty string is an error.
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// RoundCents rounds to the smallest currency unit, half away from zero
func RoundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(CentPlaces)
}

// ExclusiveOf backs the tax out of a VAT-inclusive amount:
// inclusive / (1 + ratePercent/100), rounded to cents.
// A zero rate returns the inclusive amount untouched.
func ExclusiveOf(inclusive, ratePercent decimal.Decimal) decimal.Decimal {
	if ratePercent.IsZero() {
		return inclusive
	}
	divisor := one.Add(ratePercent.Div(hundred))
	return RoundCents(inclusive.Div(divisor))
}

// Sum sums a slice of decimals
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}

// InRange reports lo <= d <= hi
func InRange(d, lo, hi decimal.Decimal) bool {
	return d.GreaterThanOrEqual(lo) && d.LessThanOrEqual(hi)
}

// FormatMoney renders a fixed-point 2-decimal amount prefixed with the currency marker
func FormatMoney(symbol string, d decimal.Decimal) string {
	return symbol + d.StringFixed(CentPlaces)
}

// FormatPercent renders a rate as its shortest decimal form followed by %
func FormatPercent(d decimal.Decimal) string {
	return d.String() + "%"
}

// FormatQuantity renders a quantity without trailing zeros
func FormatQuantity(d decimal.Decimal) string {
	return d.String()
}
