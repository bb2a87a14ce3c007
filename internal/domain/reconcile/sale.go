// Package reconcile checks that the amounts of a finished sale agree with
// each other before the sale is recorded.
package reconcile

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/pos-register/internal/domain/money"
)

// SaleAmounts are the figures of a sale that must agree.
type SaleAmounts struct {
	Subtotal    decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
	Payment     decimal.Decimal
	Change      decimal.Decimal
	ListPrices  []decimal.Decimal
	LineAmounts []decimal.Decimal

	// DiscountRate is the fraction taken off when DiscountApplied is set.
	DiscountRate    decimal.Decimal
	DiscountApplied bool
}

// Result contains the result of reconciling a sale.
type Result struct {
	// Valid is true if every check passed
	Valid bool

	// LinesSum is the sum of the per-line charged amounts
	LinesSum decimal.Decimal

	// Difference is LinesSum minus Total
	Difference decimal.Decimal

	// Reason explains the first failed check (empty if valid)
	Reason string
}

// Sale checks, in order:
//
//	sum(ListPrices)  == Subtotal
//	Subtotal - Discount == Total
//	Total == Subtotal less DiscountRate (if DiscountApplied), to the cent
//	sum(LineAmounts) == Total
//	Payment - Change == Total
//
// Amounts are compared exactly at cent precision.
func Sale(a SaleAmounts) *Result {
	linesSum := money.RoundToCents(money.Sum(a.LineAmounts...))
	total := money.RoundToCents(a.Total)
	result := &Result{
		LinesSum:   linesSum,
		Difference: linesSum.Sub(total),
	}

	listSum := money.Sum(a.ListPrices...)
	expected := money.RoundToCents(a.Subtotal)
	if a.DiscountApplied {
		expected = money.RoundToCents(a.Subtotal.Sub(a.Subtotal.Mul(a.DiscountRate)))
	}

	switch {
	case !listSum.Equal(a.Subtotal):
		result.Reason = fmt.Sprintf("list prices (%s) do not add up to the subtotal (%s)",
			money.FormatFixed(listSum), money.FormatFixed(a.Subtotal))
	case !money.RoundToCents(a.Subtotal.Sub(a.Discount)).Equal(total):
		result.Reason = fmt.Sprintf("subtotal %s less discount %s is not the total %s",
			money.FormatFixed(a.Subtotal), money.FormatFixed(a.Discount), money.FormatFixed(total))
	case !expected.Equal(total):
		result.Reason = fmt.Sprintf("total %s is not the subtotal %s at discount rate %s (expected %s)",
			money.FormatFixed(total), money.FormatFixed(a.Subtotal), appliedRate(a), money.FormatFixed(expected))
	case !result.Difference.IsZero():
		result.Reason = fmt.Sprintf("line amounts (%s) differ from the total (%s) by %s",
			money.FormatFixed(linesSum), money.FormatFixed(total), money.FormatFixed(result.Difference))
	case a.Change.IsNegative():
		result.Reason = fmt.Sprintf("negative change %s", money.FormatFixed(a.Change))
	case !money.RoundToCents(a.Payment.Sub(a.Change)).Equal(total):
		result.Reason = fmt.Sprintf("payment %s less change %s is not the total %s",
			money.FormatFixed(a.Payment), money.FormatFixed(a.Change), money.FormatFixed(total))
	default:
		result.Valid = true
	}
	return result
}

func appliedRate(a SaleAmounts) string {
	if !a.DiscountApplied {
		return "0"
	}
	return a.DiscountRate.String()
}
