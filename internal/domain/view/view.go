// Package view projects a cart snapshot into the text shown at the register.
//
// Rendering is a pure function of cart.Snapshot: calling it any number of
// times never changes the cart.
package view

import (
	"fmt"

	"github.com/eshaffer321/pos-register/internal/domain/cart"
	"github.com/eshaffer321/pos-register/internal/domain/money"
)

// DefaultCurrencySymbol prefixes every rendered amount.
const DefaultCurrencySymbol = "₱"

// Region identifiers, one per element of the register page.
const (
	RegionCartList         = "cart-list"
	RegionTotalPrice       = "total-price"
	RegionReceiptList      = "receipt-list"
	RegionReceiptTotal     = "receipt-total"
	RegionDiscountedTotal  = "discounted-total"
	RegionChangeDisplay    = "change-display"
	RegionPaymentInput     = "payment-input"
	RegionDiscountCheckbox = "discount-checkbox"
	RegionReceiptModal     = "receipt-modal"
)

// CartView is the live cart list and its total label.
type CartView struct {
	Lines      []string `json:"lines"`
	TotalLabel string   `json:"total_label"`
}

// ReceiptView is the receipt shown after checkout.
type ReceiptView struct {
	Visible              bool     `json:"visible"`
	Lines                []string `json:"lines"`
	TotalLabel           string   `json:"total_label"`
	DiscountedTotalLabel string   `json:"discounted_total_label"`
	ChangeLabel          string   `json:"change_label"`
	PaymentInput         string   `json:"payment_input"`
	DiscountChecked      bool     `json:"discount_checked"`
}

// Renderer formats amounts with a currency symbol.
type Renderer struct {
	Symbol string
}

// NewRenderer returns a Renderer; an empty symbol falls back to DefaultCurrencySymbol.
func NewRenderer(symbol string) Renderer {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return Renderer{Symbol: symbol}
}

// Cart renders the live cart.
func (r Renderer) Cart(snap cart.Snapshot) CartView {
	return CartView{
		Lines:      r.lines(snap.State.Items),
		TotalLabel: fmt.Sprintf("Total: %s%s", r.Symbol, money.Format(snap.State.Total)),
	}
}

// Receipt renders the receipt view. A closed receipt renders hidden with
// the same empty labels checkout would reset to.
func (r Renderer) Receipt(snap cart.Snapshot) ReceiptView {
	rc := snap.Receipt

	discounted := money.Format(rc.DiscountedTotal)
	if rc.Discounted {
		discounted = money.FormatFixed(rc.DiscountedTotal)
	}

	change := "0"
	if rc.ChangeCalculated && !rc.Change.IsNegative() {
		change = money.FormatFixed(rc.Change)
	}

	return ReceiptView{
		Visible:              rc.Open,
		Lines:                r.lines(rc.Items),
		TotalLabel:           fmt.Sprintf("Total: %s%s", r.Symbol, money.Format(rc.Total)),
		DiscountedTotalLabel: fmt.Sprintf("Discounted Total: %s%s", r.Symbol, discounted),
		ChangeLabel:          fmt.Sprintf("Change: %s%s", r.Symbol, change),
		PaymentInput:         rc.PaymentInput,
		DiscountChecked:      rc.DiscountChecked,
	}
}

// Line renders a single cart entry.
func (r Renderer) Line(item cart.LineItem) string {
	return fmt.Sprintf("%s - %s%s", item.Item, r.Symbol, money.Format(item.Price))
}

func (r Renderer) lines(items []cart.LineItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, r.Line(it))
	}
	return out
}

// Regions flattens both views into values keyed by page region identifier.
// List regions map to []string, the checkbox and modal to bool, the rest to string.
func Regions(cv CartView, rv ReceiptView) map[string]any {
	return map[string]any{
		RegionCartList:         cv.Lines,
		RegionTotalPrice:       cv.TotalLabel,
		RegionReceiptList:      rv.Lines,
		RegionReceiptTotal:     rv.TotalLabel,
		RegionDiscountedTotal:  rv.DiscountedTotalLabel,
		RegionChangeDisplay:    rv.ChangeLabel,
		RegionPaymentInput:     rv.PaymentInput,
		RegionDiscountCheckbox: rv.DiscountChecked,
		RegionReceiptModal:     rv.Visible,
	}
}
