// Package allocator spreads a sale total across its line items.
//
// The pro-rata allocator distributes the amount actually charged across
// items proportionally to their shelf prices. A whole-sale discount lands on
// every line in the same ratio:
//
//	multiplier = sale_total / sum(item_list_prices)
//	item_cost  = item_list_price * multiplier
package allocator

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/pos-register/internal/domain/money"
)

// Item represents an item to allocate costs to.
type Item struct {
	Name      string
	ListPrice decimal.Decimal
}

// Allocation represents the allocated cost for a single item.
type Allocation struct {
	Name          string
	ListPrice     decimal.Decimal
	AllocatedCost decimal.Decimal
}

// Result contains the allocation results.
type Result struct {
	Multiplier     decimal.Decimal
	Allocations    []Allocation
	TotalAllocated decimal.Decimal
}

// Allocate distributes total across items proportionally to their list prices.
// Allocations are rounded to cents and always sum exactly to the rounded total.
func Allocate(items []Item, total decimal.Decimal) (*Result, error) {
	if len(items) == 0 {
		return nil, errors.New("no items to allocate")
	}
	if total.IsNegative() {
		return nil, errors.New("sale total cannot be negative")
	}

	totalListPrice := decimal.Zero
	for _, item := range items {
		if item.ListPrice.IsNegative() {
			return nil, errors.New("item list price cannot be negative")
		}
		totalListPrice = totalListPrice.Add(item.ListPrice)
	}

	if totalListPrice.IsZero() {
		// All items are free - distribute nothing
		allocations := make([]Allocation, len(items))
		for i, item := range items {
			allocations[i] = Allocation{Name: item.Name, ListPrice: decimal.Zero, AllocatedCost: decimal.Zero}
		}
		return &Result{
			Multiplier:     decimal.Zero,
			Allocations:    allocations,
			TotalAllocated: decimal.Zero,
		}, nil
	}

	target := money.RoundToCents(total)
	multiplier := total.Div(totalListPrice)

	allocations := make([]Allocation, len(items))
	totalAllocated := decimal.Zero
	for i, item := range items {
		allocated := money.RoundToCents(item.ListPrice.Mul(total).Div(totalListPrice))
		allocations[i] = Allocation{
			Name:          item.Name,
			ListPrice:     item.ListPrice,
			AllocatedCost: allocated,
		}
		totalAllocated = totalAllocated.Add(allocated)
	}

	// Fix rounding - the largest item absorbs the leftover cents
	diff := target.Sub(totalAllocated)
	if !diff.IsZero() {
		maxIdx := 0
		for i, a := range allocations {
			if a.AllocatedCost.GreaterThan(allocations[maxIdx].AllocatedCost) {
				maxIdx = i
			}
		}
		allocations[maxIdx].AllocatedCost = allocations[maxIdx].AllocatedCost.Add(diff)
		totalAllocated = target
	}

	return &Result{
		Multiplier:     multiplier,
		Allocations:    allocations,
		TotalAllocated: totalAllocated,
	}, nil
}
