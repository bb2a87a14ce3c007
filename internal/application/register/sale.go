package register

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eshaffer321/pos-register/internal/domain/allocator"
	"github.com/eshaffer321/pos-register/internal/domain/cart"
	"github.com/eshaffer321/pos-register/internal/domain/money"
	"github.com/eshaffer321/pos-register/internal/domain/reconcile"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// NewOrderNumber returns an order number such as ORD-261018-1A2B3C4D.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", now.Format("060102"), suffix)
}

func normalizeRequest(req CompleteRequest) (CompleteRequest, error) {
	switch req.OrderType {
	case "":
		req.OrderType = OrderTypeDineIn
	case OrderTypeDineIn, OrderTypeTakeOut, OrderTypeDelivery:
	default:
		return req, fmt.Errorf("%w: %q", ErrInvalidOrderType, req.OrderType)
	}

	switch req.PaymentMethod {
	case "":
		req.PaymentMethod = PaymentCash
	case PaymentCash, PaymentCard, PaymentOnline:
	default:
		return req, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, req.PaymentMethod)
	}

	switch req.Status {
	case "":
		req.Status = storage.StatusCompleted
	case storage.StatusPending, storage.StatusInProgress, storage.StatusCompleted:
	default:
		return req, fmt.Errorf("%w: %q", storage.ErrInvalidStatus, req.Status)
	}
	return req, nil
}

// CompleteSale records the open receipt as a paid sale, then closes the
// receipt and empties the cart. The payment entered with CalculateChange
// must cover the discounted total; otherwise nothing changes.
func (s *Service) CompleteSale(ctx context.Context, req CompleteRequest) (*storage.Sale, State, error) {
	defer s.begin()()
	if err := ctx.Err(); err != nil {
		return nil, s.stateLocked(), err
	}

	req, err := normalizeRequest(req)
	if err != nil {
		return nil, s.stateLocked(), err
	}

	snap := s.session.Snapshot()
	rc := snap.Receipt
	if !rc.Open {
		return nil, s.stateLocked(), cart.ErrReceiptNotOpen
	}
	if len(rc.Items) == 0 {
		return nil, s.stateLocked(), cart.ErrEmptyCart
	}
	if !rc.Total.Equal(snap.State.Total) || len(rc.Items) != len(snap.State.Items) {
		return nil, s.stateLocked(), cart.ErrReceiptOutOfDate
	}

	paid, ok := s.session.Payment()
	if !ok {
		return nil, s.stateLocked(), fmt.Errorf("%w: no payment entered", cart.ErrInsufficientPayment)
	}
	if paid.LessThan(rc.DiscountedTotal) {
		short := rc.DiscountedTotal.Sub(paid)
		return nil, s.stateLocked(), fmt.Errorf("%w: short by %s", cart.ErrInsufficientPayment, money.FormatFixed(short))
	}

	sale, err := s.buildSale(rc, paid, snap.State.DiscountApplied, req)
	if err != nil {
		return nil, s.stateLocked(), err
	}
	if err := s.repo.SaveSale(sale); err != nil {
		return nil, s.stateLocked(), fmt.Errorf("failed to save sale %s: %w", sale.OrderNumber, err)
	}

	s.session.CloseReceipt()
	s.deleteDraft()

	s.logger.Info("Sale completed",
		"order_number", sale.OrderNumber,
		"order_type", sale.OrderType,
		"status", sale.Status,
		"payment_method", sale.PaymentMethod,
		"items", sale.ItemCount,
		"total", sale.Total.String(),
		"change", sale.Change.String(),
	)
	return sale, s.stateLocked(), nil
}

func (s *Service) buildSale(rc cart.Receipt, paid decimal.Decimal, discounted bool, req CompleteRequest) (*storage.Sale, error) {
	total := money.RoundToCents(rc.DiscountedTotal)

	items := make([]allocator.Item, 0, len(rc.Items))
	for _, it := range rc.Items {
		items = append(items, allocator.Item{Name: it.Item, ListPrice: it.Price})
	}
	result, err := allocator.Allocate(items, total)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate sale total: %w", err)
	}

	saleItems := make([]storage.SaleItem, 0, len(result.Allocations))
	listPrices := make([]decimal.Decimal, 0, len(result.Allocations))
	amounts := make([]decimal.Decimal, 0, len(result.Allocations))
	for _, a := range result.Allocations {
		saleItems = append(saleItems, storage.SaleItem{
			Name:      a.Name,
			ListPrice: a.ListPrice,
			Amount:    a.AllocatedCost,
		})
		listPrices = append(listPrices, a.ListPrice)
		amounts = append(amounts, a.AllocatedCost)
	}

	// Rounding the total up by half a cent must not produce negative change.
	change := decimal.Max(money.RoundToCents(paid.Sub(total)), decimal.Zero)

	check := reconcile.Sale(reconcile.SaleAmounts{
		Subtotal:        rc.Total,
		Discount:        rc.Total.Sub(total),
		Total:           total,
		Payment:         paid,
		Change:          change,
		ListPrices:      listPrices,
		LineAmounts:     amounts,
		DiscountRate:    s.session.DiscountRate(),
		DiscountApplied: discounted,
	})
	if !check.Valid {
		return nil, fmt.Errorf("sale does not reconcile: %s", check.Reason)
	}

	now := s.now()
	return &storage.Sale{
		OrderNumber:     NewOrderNumber(now),
		OrderType:       req.OrderType,
		Status:          req.Status,
		PaymentMethod:   req.PaymentMethod,
		Subtotal:        rc.Total,
		Discount:        rc.Total.Sub(total),
		Total:           total,
		Payment:         paid,
		Change:          change,
		DiscountApplied: discounted,
		CreatedAt:       now,
		Items:           saleItems,
	}, nil
}

// UpdateSaleStatus moves a recorded sale along its status lifecycle.
func (s *Service) UpdateSaleStatus(ctx context.Context, orderNumber, status string) (*storage.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sale, err := s.repo.UpdateSaleStatus(orderNumber, status, s.now())
	if err != nil {
		return nil, err
	}
	s.logger.Info("Sale status changed", "order_number", sale.OrderNumber, "status", sale.Status)
	return sale, nil
}
