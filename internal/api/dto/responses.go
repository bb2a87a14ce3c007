package dto

import (
	"time"

	"github.com/eshaffer321/pos-register/internal/domain/view"
)

// Health statuses
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Timestamp string `json:"timestamp"`
}

// NewHealthResponse reports the register healthy when the database answered.
func NewHealthResponse(dbErr error) HealthResponse {
	resp := HealthResponse{
		Status:    HealthOK,
		Database:  HealthOK,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if dbErr != nil {
		resp.Status = HealthDegraded
		resp.Database = "unavailable"
	}
	return resp
}

// RegisterResponse is the register state returned by every register endpoint.
// Amounts are decimal strings. Error is set when the operation was refused
// but the state is still worth drawing (underpayment, repeated discount).
type RegisterResponse struct {
	Cart            view.CartView    `json:"cart"`
	Receipt         view.ReceiptView `json:"receipt"`
	Regions         map[string]any   `json:"regions"`
	ItemCount       int              `json:"item_count"`
	Total           string           `json:"total"`
	DiscountedTotal string           `json:"discounted_total"`
	Change          string           `json:"change"`
	DiscountApplied bool             `json:"discount_applied"`
	Notice          string           `json:"notice,omitempty"`
	Error           *APIError        `json:"error,omitempty"`
}

// SaleItemResponse is one line of a recorded sale.
type SaleItemResponse struct {
	Name      string `json:"name"`
	ListPrice string `json:"list_price"`
	Amount    string `json:"amount"`
}

// SaleResponse represents a recorded sale.
type SaleResponse struct {
	OrderNumber     string             `json:"order_number"`
	OrderType       string             `json:"order_type"`
	Status          string             `json:"status"`
	PaymentMethod   string             `json:"payment_method"`
	Subtotal        string             `json:"subtotal"`
	Discount        string             `json:"discount"`
	Total           string             `json:"total"`
	Payment         string             `json:"payment"`
	Change          string             `json:"change"`
	DiscountApplied bool               `json:"discount_applied"`
	ItemCount       int                `json:"item_count"`
	CreatedAt       string             `json:"created_at"`
	CompletedAt     string             `json:"completed_at,omitempty"`
	Items           []SaleItemResponse `json:"items"`
}

// ProductResponse represents a catalog product.
type ProductResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Price     string `json:"price"`
	Available bool   `json:"available"`
}

// ProductListResponse is returned when listing products.
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
}

// CompleteSaleResponse is returned when a sale is recorded.
type CompleteSaleResponse struct {
	Sale     SaleResponse     `json:"sale"`
	Register RegisterResponse `json:"register"`
}

// SaleListResponse is returned when listing sales.
type SaleListResponse struct {
	Sales      []SaleResponse `json:"sales"`
	TotalCount int            `json:"total_count"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

// OrderTypeStatsResponse breaks stats down per order type.
type OrderTypeStatsResponse struct {
	OrderType string `json:"order_type"`
	Count     int    `json:"count"`
	NetAmount string `json:"net_amount"`
}

// StatsResponse contains aggregate sale statistics.
type StatsResponse struct {
	SaleCount       int                      `json:"sale_count"`
	ItemCount       int                      `json:"item_count"`
	GrossAmount     string                   `json:"gross_amount"`
	DiscountAmount  string                   `json:"discount_amount"`
	NetAmount       string                   `json:"net_amount"`
	AverageSale     string                   `json:"average_sale"`
	DiscountedSales int                      `json:"discounted_sales"`
	ByOrderType     []OrderTypeStatsResponse `json:"by_order_type"`
}
