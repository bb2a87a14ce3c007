package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	mu     sync.Mutex
	sales    []*Sale
	products map[string]*Product
	drafts   map[string][]DraftLine
	nextID   int64

	// Hooks for test assertions
	SaveSaleCalled  bool
	LastSavedSale   *Sale
	SaveDraftCalls  int
	DeleteDraftCall int

	// Error injection for testing error paths
	SaveSaleErr  error
	GetSaleErr   error
	ListSalesErr error
	GetStatsErr  error
	UpdateErr    error
	ProductErr   error
	SaveDraftErr error
	LoadDraftErr error
	PingErr      error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		products: make(map[string]*Product),
		drafts:   make(map[string][]DraftLine),
		nextID:   1,
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Ping returns PingErr
func (m *MockRepository) Ping() error {
	return m.PingErr
}

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SaveSale stores a copy of the sale
func (m *MockRepository) SaveSale(sale *Sale) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveSaleCalled = true
	m.LastSavedSale = sale
	if m.SaveSaleErr != nil {
		return m.SaveSaleErr
	}

	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	if sale.Status == "" {
		sale.Status = StatusCompleted
	}
	if !ValidStatus(sale.Status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, sale.Status)
	}
	if sale.Status == StatusCompleted && sale.CompletedAt == nil {
		completed := sale.CreatedAt
		sale.CompletedAt = &completed
	}
	sale.ItemCount = len(sale.Items)
	sale.ID = m.nextID
	m.nextID++

	// Deep copy to avoid test mutations
	copied := *sale
	copied.Items = append([]SaleItem(nil), sale.Items...)
	m.sales = append(m.sales, &copied)
	return nil
}

// AddSale seeds a sale directly (test helper)
func (m *MockRepository) AddSale(sale *Sale) {
	_ = m.SaveSale(sale)
}

// GetSale finds a sale by order number
func (m *MockRepository) GetSale(orderNumber string) (*Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetSaleErr != nil {
		return nil, m.GetSaleErr
	}
	for _, s := range m.sales {
		if s.OrderNumber == orderNumber {
			copied := *s
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// ListSales filters in memory with the same semantics as the SQLite store
func (m *MockRepository) ListSales(filters SaleFilters) (*SaleListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListSalesErr != nil {
		return nil, m.ListSalesErr
	}

	var cutoff time.Time
	if filters.DaysBack > 0 {
		cutoff = time.Now().AddDate(0, 0, -filters.DaysBack)
	}

	matched := make([]*Sale, 0, len(m.sales))
	for _, s := range m.sales {
		if filters.OrderType != "" && s.OrderType != filters.OrderType {
			continue
		}
		if filters.Status != "" && s.Status != filters.Status {
			continue
		}
		if filters.Search != "" && !saleMatches(s, filters.Search) {
			continue
		}
		if !cutoff.IsZero() && s.CreatedAt.Before(cutoff) {
			continue
		}
		matched = append(matched, s)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if filters.OrderDesc {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})

	limit := normalizeLimit(filters.Limit)
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}
	result := &SaleListResult{Sales: make([]*Sale, 0), TotalCount: len(matched), Limit: limit, Offset: offset}
	for i := offset; i < len(matched) && i < offset+limit; i++ {
		result.Sales = append(result.Sales, matched[i])
	}
	return result, nil
}

func saleMatches(s *Sale, search string) bool {
	if strings.Contains(s.OrderNumber, search) {
		return true
	}
	for _, it := range s.Items {
		if strings.Contains(it.Name, search) {
			return true
		}
	}
	return false
}

// GetStats aggregates the stored sales
func (m *MockRepository) GetStats() (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetStatsErr != nil {
		return nil, m.GetStatsErr
	}
	acc := newStatsAccumulator()
	for _, s := range m.sales {
		if s.Status != StatusCompleted {
			continue
		}
		acc.add(s.OrderType, s.Subtotal, s.Discount, s.Total, s.DiscountApplied, s.ItemCount)
	}
	return acc.stats(), nil
}

// UpdateSaleStatus applies the same lifecycle rules as the SQLite store
func (m *MockRepository) UpdateSaleStatus(orderNumber, status string, at time.Time) (*Sale, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.UpdateErr != nil {
		return nil, m.UpdateErr
	}
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	for _, s := range m.sales {
		if s.OrderNumber != orderNumber {
			continue
		}
		if !CanTransition(s.Status, status) {
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.Status, status)
		}
		s.Status = status
		if status == StatusCompleted {
			completed := at
			s.CompletedAt = &completed
		}
		copied := *s
		return &copied, nil
	}
	return nil, ErrNotFound
}

// SaveProduct stores a copy of product keyed by lower-cased name
func (m *MockRepository) SaveProduct(product *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ProductErr != nil {
		return m.ProductErr
	}
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" {
		return errors.New("product name is required")
	}
	key := strings.ToLower(product.Name)
	if existing, ok := m.products[key]; ok {
		product.ID = existing.ID
	} else {
		product.ID = m.nextID
		m.nextID++
	}
	copied := *product
	m.products[key] = &copied
	return nil
}

// AddProduct seeds a product directly (test helper)
func (m *MockRepository) AddProduct(name, category, price string) *Product {
	p := &Product{Name: name, Category: category, Price: decimalFromString(price), Available: true}
	_ = m.SaveProduct(p)
	return p
}

// GetProduct finds a product by name, ignoring case
func (m *MockRepository) GetProduct(name string) (*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ProductErr != nil {
		return nil, m.ProductErr
	}
	p, ok := m.products[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

// ListProducts returns products ordered by category and name
func (m *MockRepository) ListProducts(filters ProductFilters) ([]*Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ProductErr != nil {
		return nil, m.ProductErr
	}
	products := make([]*Product, 0, len(m.products))
	for _, p := range m.products {
		if filters.Category != "" && p.Category != filters.Category {
			continue
		}
		if filters.AvailableOnly && !p.Available {
			continue
		}
		copied := *p
		products = append(products, &copied)
	}
	sort.Slice(products, func(i, j int) bool {
		if products[i].Category != products[j].Category {
			return products[i].Category < products[j].Category
		}
		return products[i].Name < products[j].Name
	})
	return products, nil
}

// SaveDraft stores a copy of lines under key
func (m *MockRepository) SaveDraft(key string, lines []DraftLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveDraftCalls++
	if m.SaveDraftErr != nil {
		return m.SaveDraftErr
	}
	m.drafts[key] = append([]DraftLine{}, lines...)
	return nil
}

// LoadDraft returns the lines stored under key
func (m *MockRepository) LoadDraft(key string) ([]DraftLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadDraftErr != nil {
		return nil, m.LoadDraftErr
	}
	lines, ok := m.drafts[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]DraftLine{}, lines...), nil
}

// DeleteDraft removes key
func (m *MockRepository) DeleteDraft(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteDraftCall++
	delete(m.drafts, key)
	return nil
}

// SaleCount returns how many sales are stored (test helper)
func (m *MockRepository) SaleCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sales)
}

func decimalFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
