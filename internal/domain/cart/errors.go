package cart

import (
	"errors"

	"github.com/eshaffer321/pos-register/internal/domain/money"
)

// Sentinel errors returned by Session operations.
var (
	ErrInvalidAmount          = money.ErrInvalidAmount
	ErrInsufficientPayment    = errors.New("insufficient payment")
	ErrDiscountAlreadyApplied = errors.New("discount already applied")
	ErrReceiptNotOpen         = errors.New("receipt is not open")
	ErrEmptyCart              = errors.New("cart is empty")
	ErrReceiptOutOfDate       = errors.New("receipt does not match the cart")
)

// DuplicateDiscountNotice is shown when a second discount is attempted in
// the same checkout cycle.
const DuplicateDiscountNotice = "Discount already applied to this transaction!"
