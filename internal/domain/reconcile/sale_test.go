package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func riceAndEgg() SaleAmounts {
	return SaleAmounts{
		Subtotal:    d("62"),
		Discount:    d("12.4"),
		Total:       d("49.6"),
		Payment:     d("60"),
		Change:      d("10.4"),
		ListPrices:  []decimal.Decimal{d("50"), d("12")},
		LineAmounts: []decimal.Decimal{d("40"), d("9.6")},

		DiscountRate:    d("0.2"),
		DiscountApplied: true,
	}
}

func TestSale_Valid(t *testing.T) {
	result := Sale(riceAndEgg())

	assert.True(t, result.Valid)
	assert.Empty(t, result.Reason)
	assert.Equal(t, "49.6", result.LinesSum.String())
	assert.True(t, result.Difference.IsZero())
}

func TestSale_ThirdDecimalRoundsToDisplayedTotal(t *testing.T) {
	result := Sale(SaleAmounts{
		Subtotal:        d("62.99"),
		Discount:        d("12.6"),
		Total:           d("50.39"),
		Payment:         d("50.39"),
		Change:          decimal.Zero,
		DiscountRate:    d("0.2"),
		DiscountApplied: true,
		ListPrices:      []decimal.Decimal{d("62.99")},
		LineAmounts:     []decimal.Decimal{d("50.39")},
	})
	assert.True(t, result.Valid, result.Reason)
}

func TestSale_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(a *SaleAmounts)
		reason string
	}{
		{
			name:   "list prices off",
			mutate: func(a *SaleAmounts) { a.ListPrices = []decimal.Decimal{d("50")} },
			reason: "do not add up to the subtotal",
		},
		{
			name:   "discount off",
			mutate: func(a *SaleAmounts) { a.Discount = d("12") },
			reason: "less discount",
		},
		{
			name: "discount does not follow the rate",
			mutate: func(a *SaleAmounts) {
				a.Subtotal = d("50")
				a.ListPrices = []decimal.Decimal{d("50")}
				a.Discount = d("-30")
				a.Total = d("80")
				a.LineAmounts = []decimal.Decimal{d("80")}
				a.Payment = d("100")
				a.Change = d("20")
			},
			reason: "at discount rate 0.2 (expected 40.00)",
		},
		{
			name:   "discount without applying one",
			mutate: func(a *SaleAmounts) { a.DiscountApplied = false },
			reason: "at discount rate 0 (expected 62.00)",
		},
		{
			name:   "lines short a cent",
			mutate: func(a *SaleAmounts) { a.LineAmounts = []decimal.Decimal{d("40"), d("9.59")} },
			reason: "differ from the total (49.60) by -0.01",
		},
		{
			name:   "negative change",
			mutate: func(a *SaleAmounts) { a.Payment = d("40"); a.Change = d("-9.6") },
			reason: "negative change",
		},
		{
			name:   "change off",
			mutate: func(a *SaleAmounts) { a.Change = d("10") },
			reason: "less change",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := riceAndEgg()
			tt.mutate(&a)

			result := Sale(a)
			assert.False(t, result.Valid)
			assert.Contains(t, result.Reason, tt.reason)
		})
	}
}
