// Package cart implements the register's cart session: line items, the
// running total, the receipt opened at checkout and the once-per-checkout
// discount.
//
// A Session is owned by a single caller and is not safe for concurrent use.
package cart

import (
	"github.com/shopspring/decimal"
)

// DefaultDiscountRate is the fraction taken off the total by ApplyDiscount.
var DefaultDiscountRate = decimal.RequireFromString("0.20")

// LineItem is one product entry in the cart.
type LineItem struct {
	Item  string          `json:"item"`
	Price decimal.Decimal `json:"price"`
}

// State is the authoritative cart. Total always equals the sum of the item prices.
type State struct {
	Items           []LineItem
	Total           decimal.Decimal
	DiscountApplied bool
}

// Receipt is the receipt view state captured at checkout.
type Receipt struct {
	Open            bool
	Items           []LineItem
	Total           decimal.Decimal
	DiscountedTotal decimal.Decimal
	// Discounted reports whether DiscountedTotal came from ApplyDiscount
	// rather than the checkout baseline.
	Discounted       bool
	ChangeCalculated bool
	Change           decimal.Decimal
	PaymentInput     string
	Payment          decimal.Decimal
	PaymentAccepted  bool
	DiscountChecked  bool
}

// Snapshot is a copy of a session's state that callers may keep and render.
type Snapshot struct {
	State   State
	Receipt Receipt
}

func copyItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	return out
}
