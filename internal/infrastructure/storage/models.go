package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale statuses. A sale moves pending -> in-progress -> completed, and may
// be cancelled until it is completed.
const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var statusTransitions = map[string][]string{
	StatusPending:    {StatusInProgress, StatusCompleted, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
	StatusCompleted:  nil,
	StatusCancelled:  nil,
}

// ValidStatus reports whether status is a known sale status.
func ValidStatus(status string) bool {
	_, ok := statusTransitions[status]
	return ok
}

// CanTransition reports whether a sale in status from may move to status to.
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Sale is a completed register transaction.
type Sale struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"order_number"`
	OrderType       string          `json:"order_type"`
	Status          string          `json:"status"`
	PaymentMethod   string          `json:"payment_method"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"discount"`
	Total           decimal.Decimal `json:"total"`
	Payment         decimal.Decimal `json:"payment"`
	Change          decimal.Decimal `json:"change"`
	DiscountApplied bool            `json:"discount_applied"`
	ItemCount       int             `json:"item_count"`
	CreatedAt       time.Time       `json:"created_at"`
	CompletedAt     *time.Time      `json:"completed_at,omitempty"`

	// Detailed data stored as JSON
	Items []SaleItem `json:"items"`
}

// SaleItem is one line of a sale. Amount is the line's share of the
// charged total after any discount.
type SaleItem struct {
	Name      string          `json:"name"`
	ListPrice decimal.Decimal `json:"list_price"`
	Amount    decimal.Decimal `json:"amount"`
}

// Product is a catalog entry the register can add by name.
type Product struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

// DraftLine is one line of a cart that has not been sold yet.
type DraftLine struct {
	Item  string          `json:"item"`
	Price decimal.Decimal `json:"price"`
}

// Stats contains aggregate statistics over completed sales.
type Stats struct {
	SaleCount      int                       `json:"sale_count"`
	ItemCount      int                       `json:"item_count"`
	GrossAmount    decimal.Decimal           `json:"gross_amount"`
	DiscountAmount decimal.Decimal           `json:"discount_amount"`
	NetAmount      decimal.Decimal           `json:"net_amount"`
	AverageSale    decimal.Decimal           `json:"average_sale"`
	DiscountedSale int                       `json:"discounted_sales"`
	ByOrderType    map[string]OrderTypeStats `json:"by_order_type"`
}

// OrderTypeStats breaks totals down per order type.
type OrderTypeStats struct {
	Count     int             `json:"count"`
	NetAmount decimal.Decimal `json:"net_amount"`
}
