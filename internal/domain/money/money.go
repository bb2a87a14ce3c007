// Package money holds the decimal helpers used for cart arithmetic.
//
// Amounts are github.com/shopspring/decimal values so that running totals,
// the percentage discount and tendered change never pick up binary
// floating-point residue (0.1 + 0.2 stays 0.3).
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for numeric input that cannot be used as a
// monetary amount.
var ErrInvalidAmount = errors.New("invalid amount")

// Cents is the display precision for formatted amounts.
const Cents int32 = 2

// ParseAmount parses user-entered text into an amount.
// Surrounding whitespace is ignored; anything else that is not a plain
// decimal number is rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return decimal.Zero, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseRate parses a fractional rate such as "0.20" and checks it lies in [0, 1].
func ParseRate(s string) (decimal.Decimal, error) {
	rate, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.Zero, fmt.Errorf("%w: rate %s outside [0, 1]", ErrInvalidAmount, rate)
	}
	return rate, nil
}

// Format renders an amount in its shortest form: 50, 12.5, 0.35.
func Format(d decimal.Decimal) string {
	return d.String()
}

// FormatFixed renders an amount with exactly two decimal places.
func FormatFixed(d decimal.Decimal) string {
	return d.StringFixed(Cents)
}

// RoundToCents rounds half away from zero to two decimal places.
func RoundToCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(Cents)
}

// Sum adds amounts together.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
