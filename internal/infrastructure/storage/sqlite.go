package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

// Storage provides SQLite database access for sales, products and draft carts.
// It implements the Repository interface.
type Storage struct {
	db     *sql.DB
	logger *slog.Logger
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	return NewStorageWithLogger(dbPath, slog.Default())
}

// NewStorageWithLogger is NewStorage with an explicit logger for migration output.
func NewStorageWithLogger(dbPath string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign key constraints (SQLite-specific)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := &Storage{db: db, logger: logger}

	if err := s.runMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Ping checks that the database is reachable
func (s *Storage) Ping() error {
	return s.db.Ping()
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveSale inserts a completed sale
func (s *Storage) SaveSale(sale *Sale) error {
	itemsJSON, err := json.Marshal(sale.Items)
	if err != nil {
		return fmt.Errorf("failed to encode sale items: %w", err)
	}
	if sale.CreatedAt.IsZero() {
		sale.CreatedAt = time.Now()
	}
	sale.CreatedAt = sale.CreatedAt.UTC()
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

	query := `
	INSERT INTO sales
	(order_number, order_type, status, payment_method,
	 subtotal, discount, total, payment, change_due,
	 discount_applied, item_count, items_json, created_at, completed_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		sale.OrderNumber,
		sale.OrderType,
		sale.Status,
		sale.PaymentMethod,
		sale.Subtotal,
		sale.Discount,
		sale.Total,
		sale.Payment,
		sale.Change,
		sale.DiscountApplied,
		sale.ItemCount,
		string(itemsJSON),
		sale.CreatedAt,
		nullTime(sale.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert sale %s: %w", sale.OrderNumber, err)
	}

	sale.ID, err = result.LastInsertId()
	return err
}

const saleColumns = `id, order_number, order_type, status, payment_method,
	subtotal, discount, total, payment, change_due,
	discount_applied, item_count, items_json, created_at, completed_at`

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSale(row rowScanner) (*Sale, error) {
	sale := &Sale{}
	var itemsJSON string
	var completedAt sql.NullTime
	err := row.Scan(
		&sale.ID,
		&sale.OrderNumber,
		&sale.OrderType,
		&sale.Status,
		&sale.PaymentMethod,
		&sale.Subtotal,
		&sale.Discount,
		&sale.Total,
		&sale.Payment,
		&sale.Change,
		&sale.DiscountApplied,
		&sale.ItemCount,
		&itemsJSON,
		&sale.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		sale.CompletedAt = &completedAt.Time
	}

	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &sale.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items of sale %s: %w", sale.OrderNumber, err)
		}
	}
	return sale, nil
}

// GetSale retrieves a sale by order number
func (s *Storage) GetSale(orderNumber string) (*Sale, error) {
	row := s.db.QueryRow(`SELECT `+saleColumns+` FROM sales WHERE order_number = ?`, orderNumber)

	sale, err := scanSale(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// ListSales returns sales matching filters, newest first unless OrderDesc is false
func (s *Storage) ListSales(filters SaleFilters) (*SaleListResult, error) {
	var where []string
	var args []any

	if filters.OrderType != "" {
		where = append(where, "order_type = ?")
		args = append(args, filters.OrderType)
	}
	if filters.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filters.Status)
	}
	if filters.Search != "" {
		like := "%" + escapeLike(filters.Search) + "%"
		where = append(where, `(order_number LIKE ? ESCAPE '\' OR items_json LIKE ? ESCAPE '\')`)
		args = append(args, like, like)
	}
	if filters.DaysBack > 0 {
		where = append(where, "created_at >= ?")
		args = append(args, time.Now().UTC().AddDate(0, 0, -filters.DaysBack))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sales`+whereClause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	direction := "ASC"
	if filters.OrderDesc {
		direction = "DESC"
	}
	limit := normalizeLimit(filters.Limit)
	offset := filters.Offset
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + saleColumns + ` FROM sales` + whereClause +
		` ORDER BY created_at ` + direction + `, id ` + direction + ` LIMIT ? OFFSET ?`
	rows, err := s.db.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := &SaleListResult{
		Sales:      make([]*Sale, 0),
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		result.Sales = append(result.Sales, sale)
	}
	return result, rows.Err()
}

// escapeLike makes LIKE wildcards in user text match literally.
func escapeLike(text string) string {
	return likeEscaper.Replace(text)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// UpdateSaleStatus moves a sale along the status lifecycle
func (s *Storage) UpdateSaleStatus(orderNumber, status string, at time.Time) (*Sale, error) {
	if !ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	sale, err := scanSale(tx.QueryRow(`SELECT `+saleColumns+` FROM sales WHERE order_number = ?`, orderNumber))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if !CanTransition(sale.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, sale.Status, status)
	}

	sale.Status = status
	if status == StatusCompleted {
		completed := at.UTC()
		sale.CompletedAt = &completed
	}
	_, err = tx.Exec(`UPDATE sales SET status = ?, completed_at = ? WHERE id = ?`,
		sale.Status, nullTime(sale.CompletedAt), sale.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update sale %s: %w", orderNumber, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return sale, nil
}

// GetStats aggregates every completed sale. Amounts are summed as decimals
// rather than in SQL so no precision is lost on TEXT columns.
func (s *Storage) GetStats() (*Stats, error) {
	rows, err := s.db.Query(`SELECT order_type, subtotal, discount, total, discount_applied, item_count
		FROM sales WHERE status = ?`, StatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	acc := newStatsAccumulator()
	for rows.Next() {
		var (
			orderType                 string
			subtotal, discount, total decimal.Decimal
			discounted                bool
			items                     int
		)
		if err := rows.Scan(&orderType, &subtotal, &discount, &total, &discounted, &items); err != nil {
			return nil, err
		}
		acc.add(orderType, subtotal, discount, total, discounted, items)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return acc.stats(), nil
}

// SaveProduct inserts a product or updates the one with the same name
func (s *Storage) SaveProduct(product *Product) error {
	name := strings.TrimSpace(product.Name)
	if name == "" {
		return errors.New("product name is required")
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("negative price for product %q", name)
	}
	product.Name = name

	err := s.db.QueryRow(`
		INSERT INTO products (name, category, price, available, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			category = excluded.category,
			price = excluded.price,
			available = excluded.available,
			updated_at = CURRENT_TIMESTAMP
		RETURNING id
	`, product.Name, product.Category, product.Price, product.Available).Scan(&product.ID)
	if err != nil {
		return fmt.Errorf("failed to save product %q: %w", name, err)
	}
	return nil
}

const productColumns = `id, name, category, price, available`

func scanProduct(row rowScanner) (*Product, error) {
	p := &Product{}
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.Price, &p.Available); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct finds a product by name, ignoring case
func (s *Storage) GetProduct(name string) (*Product, error) {
	row := s.db.QueryRow(`SELECT `+productColumns+` FROM products WHERE name = ?`, strings.TrimSpace(name))
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return p, err
}

// ListProducts returns the catalog ordered by category and name
func (s *Storage) ListProducts(filters ProductFilters) ([]*Product, error) {
	var where []string
	var args []any
	if filters.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filters.Category)
	}
	if filters.AvailableOnly {
		where = append(where, "available = 1")
	}
	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY category, name"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	products := make([]*Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// SaveDraft replaces the draft stored under key
func (s *Storage) SaveDraft(key string, lines []DraftLine) error {
	if lines == nil {
		lines = []DraftLine{}
	}
	linesJSON, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO drafts (draft_key, lines_json, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(draft_key) DO UPDATE SET
			lines_json = excluded.lines_json,
			updated_at = CURRENT_TIMESTAMP
	`, key, string(linesJSON))
	return err
}

// LoadDraft returns the draft stored under key
func (s *Storage) LoadDraft(key string) ([]DraftLine, error) {
	var linesJSON string
	err := s.db.QueryRow(`SELECT lines_json FROM drafts WHERE draft_key = ?`, key).Scan(&linesJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var lines []DraftLine
	if err := json.Unmarshal([]byte(linesJSON), &lines); err != nil {
		return nil, fmt.Errorf("failed to decode draft %q: %w", key, err)
	}
	return lines, nil
}

// DeleteDraft removes the draft stored under key
func (s *Storage) DeleteDraft(key string) error {
	_, err := s.db.Exec(`DELETE FROM drafts WHERE draft_key = ?`, key)
	return err
}
