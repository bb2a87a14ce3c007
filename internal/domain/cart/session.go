package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/pos-register/internal/domain/money"
)

// Session owns one cart and its receipt view.
type Session struct {
	state        State
	receipt      Receipt
	discountRate decimal.Decimal
	notifier     Notifier
}

// NewSession creates an empty session. A nil notifier discards notices.
func NewSession(discountRate decimal.Decimal, notifier Notifier) *Session {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Session{
		state:        State{Items: []LineItem{}},
		discountRate: discountRate,
		notifier:     notifier,
	}
}

// Restore replaces the cart contents with items, recomputing the total.
// The receipt is closed.
func (s *Session) Restore(items []LineItem) error {
	total := decimal.Zero
	for _, it := range items {
		if it.Price.IsNegative() {
			return fmt.Errorf("%w: negative price for %q", ErrInvalidAmount, it.Item)
		}
		total = total.Add(it.Price)
	}
	s.state = State{Items: copyItems(items), Total: total}
	s.receipt = Receipt{}
	return nil
}

// AddItem appends a line item and adds its price to the running total.
// An open receipt is brought up to date with the cart; an applied discount
// is recomputed and any entered payment has to be entered again.
func (s *Session) AddItem(item string, price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: negative price %s", ErrInvalidAmount, price)
	}
	s.state.Items = append(s.state.Items, LineItem{Item: item, Price: price})
	s.state.Total = s.state.Total.Add(price)
	if s.receipt.Open {
		s.refreshReceipt()
	}
	return nil
}

func (s *Session) refreshReceipt() {
	rc := &s.receipt
	rc.Items = copyItems(s.state.Items)
	rc.Total = s.state.Total
	rc.DiscountedTotal = s.state.Total
	if rc.Discounted {
		rc.DiscountedTotal = s.discounted(s.state.Total)
	}
	rc.ChangeCalculated = false
	rc.Change = decimal.Zero
	rc.PaymentInput = ""
	rc.Payment = decimal.Zero
	rc.PaymentAccepted = false
}

// discounted returns total less the discount, rounded to cents as displayed.
func (s *Session) discounted(total decimal.Decimal) decimal.Decimal {
	return money.RoundToCents(total.Sub(total.Mul(s.discountRate)))
}

// Checkout opens the receipt over the current cart and starts a new
// discount cycle. Items and total are not changed.
func (s *Session) Checkout() {
	s.state.DiscountApplied = false
	s.receipt = Receipt{
		Open:            true,
		Items:           copyItems(s.state.Items),
		Total:           s.state.Total,
		DiscountedTotal: s.state.Total,
	}
}

// ApplyDiscount takes the discount rate off the total, once per checkout.
// The discounted total is rounded to cents so change is computed against
// the amount the customer sees.
// A repeated call notifies the operator and returns ErrDiscountAlreadyApplied.
func (s *Session) ApplyDiscount() error {
	if !s.receipt.Open {
		return ErrReceiptNotOpen
	}
	if s.state.DiscountApplied {
		s.notifier.Notify(DuplicateDiscountNotice)
		return ErrDiscountAlreadyApplied
	}

	s.receipt.DiscountedTotal = s.discounted(s.state.Total)
	s.receipt.Discounted = true
	s.receipt.DiscountChecked = true
	s.state.DiscountApplied = true
	return nil
}

// CalculateChange records the tendered payment text and computes the change
// against the discounted total.
//
// Unparsable payment leaves the change display untouched. Underpayment is
// recorded (the display clamps to zero) and reported as ErrInsufficientPayment.
func (s *Session) CalculateChange(payment string) (decimal.Decimal, error) {
	if !s.receipt.Open {
		return decimal.Zero, ErrReceiptNotOpen
	}
	s.receipt.PaymentInput = payment

	paid, err := money.ParseAmount(payment)
	if err != nil {
		s.receipt.PaymentAccepted = false
		return decimal.Zero, err
	}

	s.receipt.Payment = paid
	s.receipt.PaymentAccepted = true
	change := paid.Sub(s.receipt.DiscountedTotal)
	s.receipt.Change = change
	s.receipt.ChangeCalculated = true

	if change.IsNegative() {
		return change, fmt.Errorf("%w: short by %s", ErrInsufficientPayment, money.FormatFixed(change.Neg()))
	}
	return change, nil
}

// CloseReceipt hides the receipt and empties the cart, whether or not the
// sale was paid.
func (s *Session) CloseReceipt() {
	s.receipt = Receipt{}
	s.state = State{Items: []LineItem{}}
}

// Payment returns the tendered amount if the current payment input parsed.
func (s *Session) Payment() (decimal.Decimal, bool) {
	return s.receipt.Payment, s.receipt.PaymentAccepted
}

// Total returns the running total.
func (s *Session) Total() decimal.Decimal {
	return s.state.Total
}

// DiscountRate returns the fraction ApplyDiscount takes off.
func (s *Session) DiscountRate() decimal.Decimal {
	return s.discountRate
}

// Items returns a copy of the cart's line items.
func (s *Session) Items() []LineItem {
	return copyItems(s.state.Items)
}

// Snapshot returns a copy of the session state for rendering.
func (s *Session) Snapshot() Snapshot {
	st := s.state
	st.Items = copyItems(s.state.Items)
	rc := s.receipt
	rc.Items = copyItems(s.receipt.Items)
	return Snapshot{State: st, Receipt: rc}
}
