package register

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/pos-register/internal/domain/cart"
	"github.com/eshaffer321/pos-register/internal/domain/view"
)

// DraftKey is the draft store key holding the unsold cart.
const DraftKey = "cart"

// Order types
const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeOut  = "take-out"
	OrderTypeDelivery = "delivery"
)

// Payment methods
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentOnline = "online"
)

var (
	// ErrInvalidOrderType is returned by CompleteSale for an unknown order type.
	ErrInvalidOrderType = errors.New("invalid order type")
	// ErrInvalidPaymentMethod is returned by CompleteSale for an unknown payment method.
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrProductUnavailable is returned by AddProduct for a product taken off the menu.
	ErrProductUnavailable = errors.New("product unavailable")
)

// Options configures a Service.
type Options struct {
	// DiscountRate is the fraction ApplyDiscount takes off; nil means
	// cart.DefaultDiscountRate. A zero rate disables the discount.
	DiscountRate   *decimal.Decimal
	CurrencySymbol string
	PersistDraft   bool
	// Notifier also receives operator notices, e.g. a terminal printer.
	Notifier cart.Notifier
	// Now is the clock used for sale timestamps and order numbers.
	Now func() time.Time
}

// CompleteRequest describes how a paid sale is recorded. Status is the
// order's initial status: completed when served at the counter (the
// default), pending or in-progress when it still has to be prepared.
type CompleteRequest struct {
	OrderType     string
	PaymentMethod string
	Status        string
}

// State is everything a client needs to draw the register after an operation.
type State struct {
	Cart            view.CartView    `json:"cart"`
	Receipt         view.ReceiptView `json:"receipt"`
	Regions         map[string]any   `json:"regions"`
	ItemCount       int              `json:"item_count"`
	Total           decimal.Decimal  `json:"total"`
	DiscountedTotal decimal.Decimal  `json:"discounted_total"`
	Change          decimal.Decimal  `json:"change"`
	DiscountApplied bool             `json:"discount_applied"`
	// Notice is the operator message raised by the operation, if any.
	Notice string `json:"notice,omitempty"`
}
