// Package register hosts the single cart session of a point-of-sale
// register. It serializes operations, renders the views after each one,
// keeps the unsold cart in the draft store and records completed sales.
package register

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/eshaffer321/pos-register/internal/domain/cart"
	"github.com/eshaffer321/pos-register/internal/domain/view"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// Service is safe for concurrent use. Every operation runs to completion
// before the next one starts.
type Service struct {
	mu           sync.Mutex
	session      *cart.Session
	notices      *noticeRecorder
	renderer     view.Renderer
	repo         storage.Repository
	logger       *slog.Logger
	now          func() time.Time
	persistDraft bool
}

// NewService creates a register over repo and restores the saved draft
// cart when draft persistence is enabled. A draft that cannot be read is
// logged and the register starts empty.
func NewService(repo storage.Repository, logger *slog.Logger, opts Options) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	rate := cart.DefaultDiscountRate
	if opts.DiscountRate != nil {
		rate = *opts.DiscountRate
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	notices := &noticeRecorder{logger: logger, forward: opts.Notifier}
	s := &Service{
		session:      cart.NewSession(rate, notices),
		notices:      notices,
		renderer:     view.NewRenderer(opts.CurrencySymbol),
		repo:         repo,
		logger:       logger,
		now:          now,
		persistDraft: opts.PersistDraft,
	}

	if s.persistDraft {
		s.restoreDraft()
	}
	return s
}

func (s *Service) restoreDraft() {
	lines, err := s.repo.LoadDraft(DraftKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("Failed to load draft cart", "error", err)
		return
	}

	items := make([]cart.LineItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, cart.LineItem{Item: l.Item, Price: l.Price})
	}
	if err := s.session.Restore(items); err != nil {
		s.logger.Warn("Discarding invalid draft cart", "error", err)
		return
	}
	s.logger.Info("Restored draft cart", "items", len(items), "total", s.session.Total().String())
}

func (s *Service) saveDraft() {
	if !s.persistDraft {
		return
	}
	items := s.session.Items()
	lines := make([]storage.DraftLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, storage.DraftLine{Item: it.Item, Price: it.Price})
	}
	if err := s.repo.SaveDraft(DraftKey, lines); err != nil {
		s.logger.Warn("Failed to save draft cart", "error", err)
	}
}

func (s *Service) deleteDraft() {
	if !s.persistDraft {
		return
	}
	if err := s.repo.DeleteDraft(DraftKey); err != nil {
		s.logger.Warn("Failed to delete draft cart", "error", err)
	}
}

// State returns the current register state without changing the cart.
func (s *Service) State() State {
	defer s.begin()()
	return s.stateLocked()
}

// DiscountRate returns the fraction taken off by ApplyDiscount.
func (s *Service) DiscountRate() decimal.Decimal {
	return s.session.DiscountRate()
}

func (s *Service) stateLocked() State {
	snap := s.session.Snapshot()
	cv := s.renderer.Cart(snap)
	rv := s.renderer.Receipt(snap)
	return State{
		Cart:            cv,
		Receipt:         rv,
		Regions:         view.Regions(cv, rv),
		ItemCount:       len(snap.State.Items),
		Total:           snap.State.Total,
		DiscountedTotal: snap.Receipt.DiscountedTotal,
		Change:          snap.Receipt.Change,
		DiscountApplied: snap.State.DiscountApplied,
		Notice:          s.notices.last,
	}
}

// begin locks the register for one operation. The returned func unlocks it.
func (s *Service) begin() func() {
	s.mu.Lock()
	s.notices.reset()
	return s.mu.Unlock
}

// AddItem adds a line to the cart.
func (s *Service) AddItem(ctx context.Context, item string, price decimal.Decimal) (State, error) {
	defer s.begin()()
	if err := ctx.Err(); err != nil {
		return s.stateLocked(), err
	}

	if err := s.session.AddItem(item, price); err != nil {
		return s.stateLocked(), err
	}
	s.logger.Debug("Added item", "item", item, "price", price.String(), "total", s.session.Total().String())
	s.saveDraft()
	return s.stateLocked(), nil
}

// AddProduct adds the catalog product called name at its catalog price.
func (s *Service) AddProduct(ctx context.Context, name string) (State, error) {
	defer s.begin()()
	if err := ctx.Err(); err != nil {
		return s.stateLocked(), err
	}

	product, err := s.repo.GetProduct(name)
	if err != nil {
		return s.stateLocked(), fmt.Errorf("product %q: %w", name, err)
	}
	if !product.Available {
		return s.stateLocked(), fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
	}
	if err := s.session.AddItem(product.Name, product.Price); err != nil {
		return s.stateLocked(), err
	}
	s.logger.Debug("Added product", "product", product.Name, "price", product.Price.String(), "total", s.session.Total().String())
	s.saveDraft()
	return s.stateLocked(), nil
}

// Products lists the catalog products that can be added.
func (s *Service) Products(ctx context.Context, category string) ([]*storage.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.repo.ListProducts(storage.ProductFilters{Category: category, AvailableOnly: true})
}

// Checkout opens the receipt over the current cart.
func (s *Service) Checkout(ctx context.Context) (State, error) {
	defer s.begin()()
	if err := ctx.Err(); err != nil {
		return s.stateLocked(), err
	}

	s.session.Checkout()
	s.logger.Debug("Checkout", "items", len(s.session.Items()), "total", s.session.Total().String())
	return s.stateLocked(), nil
}

// ApplyDiscount applies the checkout's one discount. A repeat sets
// State.Notice and returns cart.ErrDiscountAlreadyApplied.
func (s *Service) ApplyDiscount(ctx context.Context) (State, error) {
	defer s.begin()()
	if err := ctx.Err(); err != nil {
		return s.stateLocked(), err
	}

	if err := s.session.ApplyDiscount(); err != nil {
		return s.stateLocked(), err
	}
	st := s.stateLocked()
	s.logger.Debug("Applied discount", "rate", s.session.DiscountRate().String(), "discounted_total", st.DiscountedTotal.String())
	return st, nil
}

// CalculateChange records the tendered payment and computes change.
// The returned State is valid even when err is cart.ErrInsufficientPayment.
func (s *Service) CalculateChange(ctx context.Context, payment string) (State, error) {
	defer s.begin()()
	if err := ctx.Err(); err != nil {
		return s.stateLocked(), err
	}

	change, err := s.session.CalculateChange(payment)
	if err != nil {
		return s.stateLocked(), err
	}
	s.logger.Debug("Calculated change", "payment", payment, "change", change.String())
	return s.stateLocked(), nil
}

// CloseReceipt abandons the receipt and empties the cart.
func (s *Service) CloseReceipt(ctx context.Context) (State, error) {
	defer s.begin()()
	if err := ctx.Err(); err != nil {
		return s.stateLocked(), err
	}

	s.session.CloseReceipt()
	s.deleteDraft()
	s.logger.Debug("Closed receipt")
	return s.stateLocked(), nil
}
