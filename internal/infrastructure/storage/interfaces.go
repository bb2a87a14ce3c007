package storage

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a sale, product or draft does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidStatus is returned for an unknown sale status.
	ErrInvalidStatus = errors.New("invalid sale status")
	// ErrInvalidTransition is returned when a sale cannot move to the requested status.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory)
// and makes testing with mocks straightforward.
type Repository interface {
	SaleRepository
	ProductRepository
	DraftRepository
	Ping() error
	Close() error
}

// SaleRepository handles completed sales
type SaleRepository interface {
	// SaveSale inserts a sale and sets its ID
	SaveSale(sale *Sale) error

	// GetSale retrieves a sale by order number (ErrNotFound if missing)
	GetSale(orderNumber string) (*Sale, error)

	// ListSales returns sales matching the given filters with pagination
	ListSales(filters SaleFilters) (*SaleListResult, error)

	// UpdateSaleStatus moves a sale to status, stamping CompletedAt with at
	// when it becomes completed
	UpdateSaleStatus(orderNumber, status string, at time.Time) (*Sale, error)

	// GetStats returns aggregate statistics over completed sales
	GetStats() (*Stats, error)
}

// SaleFilters defines filters for listing sales
type SaleFilters struct {
	OrderType string // Filter by order type (empty = all)
	Status    string // Filter by status (empty = all)
	Search    string // Substring of the order number or an item name
	DaysBack  int    // How many days back to look (0 = all time)
	Limit     int    // Max results (0 = default 50)
	Offset    int    // Pagination offset
	OrderDesc bool   // Newest first
}

// SaleListResult contains paginated sale results
type SaleListResult struct {
	Sales      []*Sale `json:"sales"`
	TotalCount int     `json:"total_count"`
	Limit      int     `json:"limit"`
	Offset     int     `json:"offset"`
}

// ProductRepository holds the product catalog
type ProductRepository interface {
	// SaveProduct inserts or updates a product by name and sets its ID
	SaveProduct(product *Product) error

	// GetProduct finds a product by name, ignoring case (ErrNotFound if missing)
	GetProduct(name string) (*Product, error)

	// ListProducts returns products ordered by name
	ListProducts(filters ProductFilters) ([]*Product, error)
}

// ProductFilters defines filters for listing products
type ProductFilters struct {
	Category      string // Filter by category (empty = all)
	AvailableOnly bool
}

// DraftRepository keeps an unsold cart under a key so it survives restarts
type DraftRepository interface {
	// SaveDraft replaces the lines stored under key
	SaveDraft(key string, lines []DraftLine) error

	// LoadDraft returns the lines stored under key (ErrNotFound if missing)
	LoadDraft(key string) ([]DraftLine, error)

	// DeleteDraft removes key; deleting a missing key is not an error
	DeleteDraft(key string) error
}

// DefaultLimit applies when SaleFilters.Limit is zero.
const DefaultLimit = 50

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > 500 {
		return 500
	}
	return limit
}
