package register

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/pos-register/internal/domain/cart"
	"github.com/eshaffer321/pos-register/internal/infrastructure/logging"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestService(t *testing.T, repo *storage.MockRepository, opts Options) *Service {
	t.Helper()
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return NewService(repo, logging.Discard(), opts)
}

func checkout(t *testing.T, s *Service) State {
	t.Helper()
	st, err := s.Checkout(context.Background())
	require.NoError(t, err)
	return st
}

func ringUpRiceAndEgg(t *testing.T, s *Service) {
	t.Helper()
	ctx := context.Background()
	_, err := s.AddItem(ctx, "Rice", d("50"))
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "Egg", d("12"))
	require.NoError(t, err)
}

func TestService_FullTransaction(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMockRepository()
	s := newTestService(t, repo, Options{PersistDraft: true})

	ringUpRiceAndEgg(t, s)
	st := s.State()
	assert.Equal(t, []string{"Rice - ₱50", "Egg - ₱12"}, st.Cart.Lines)
	assert.Equal(t, "Total: ₱62", st.Cart.TotalLabel)
	assert.False(t, st.Receipt.Visible)

	st = checkout(t, s)
	assert.True(t, st.Receipt.Visible)
	assert.Equal(t, "Discounted Total: ₱62", st.Receipt.DiscountedTotalLabel)
	assert.Equal(t, "Change: ₱0", st.Receipt.ChangeLabel)

	st, err := s.ApplyDiscount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Discounted Total: ₱49.60", st.Receipt.DiscountedTotalLabel)
	assert.True(t, st.Receipt.DiscountChecked)
	assert.Equal(t, true, st.Regions["discount-checkbox"])

	st, err = s.CalculateChange(ctx, "60")
	require.NoError(t, err)
	assert.Equal(t, "Change: ₱10.40", st.Receipt.ChangeLabel)
	assert.Equal(t, "60", st.Receipt.PaymentInput)

	sale, st, err := s.CompleteSale(ctx, CompleteRequest{})
	require.NoError(t, err)
	assert.Equal(t, OrderTypeDineIn, sale.OrderType)
	assert.Equal(t, PaymentCash, sale.PaymentMethod)
	assert.Equal(t, "62", sale.Subtotal.String())
	assert.Equal(t, "12.4", sale.Discount.String())
	assert.Equal(t, "49.6", sale.Total.String())
	assert.Equal(t, "10.4", sale.Change.String())
	assert.True(t, sale.DiscountApplied)
	require.Len(t, sale.Items, 2)
	assert.Equal(t, "40", sale.Items[0].Amount.String())
	assert.Equal(t, "9.6", sale.Items[1].Amount.String())
	assert.Regexp(t, regexp.MustCompile(`^ORD-261018-[0-9A-F]{8}$`), sale.OrderNumber)

	assert.Empty(t, st.Cart.Lines)
	assert.Equal(t, "Total: ₱0", st.Cart.TotalLabel)
	assert.False(t, st.Receipt.Visible)
	assert.Equal(t, 1, repo.SaleCount())

	_, err = repo.LoadDraft(DraftKey)
	assert.ErrorIs(t, err, storage.ErrNotFound, "draft removed after sale")
}

func TestService_DuplicateDiscountSetsNotice(t *testing.T) {
	ctx := context.Background()
	var forwarded []string
	s := newTestService(t, storage.NewMockRepository(), Options{
		Notifier: cart.NotifierFunc(func(m string) { forwarded = append(forwarded, m) }),
	})
	ringUpRiceAndEgg(t, s)
	checkout(t, s)

	st, err := s.ApplyDiscount(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.Notice)

	st, err = s.ApplyDiscount(ctx)
	assert.ErrorIs(t, err, cart.ErrDiscountAlreadyApplied)
	assert.Equal(t, cart.DuplicateDiscountNotice, st.Notice)
	assert.Equal(t, "Discounted Total: ₱49.60", st.Receipt.DiscountedTotalLabel)
	assert.Equal(t, []string{cart.DuplicateDiscountNotice}, forwarded)

	// notices do not leak into later operations
	assert.Empty(t, s.State().Notice)
}

func TestService_CalculateChange_Underpayment(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, storage.NewMockRepository(), Options{})
	ringUpRiceAndEgg(t, s)
	checkout(t, s)

	st, err := s.CalculateChange(ctx, "50")
	assert.ErrorIs(t, err, cart.ErrInsufficientPayment)
	assert.Equal(t, "Change: ₱0", st.Receipt.ChangeLabel)
	assert.Equal(t, "-12", st.Change.String())
}

func TestService_CompleteSale_Preconditions(t *testing.T) {
	ctx := context.Background()

	t.Run("receipt not open", func(t *testing.T) {
		s := newTestService(t, storage.NewMockRepository(), Options{})
		ringUpRiceAndEgg(t, s)
		_, _, err := s.CompleteSale(ctx, CompleteRequest{})
		assert.ErrorIs(t, err, cart.ErrReceiptNotOpen)
	})

	t.Run("empty cart", func(t *testing.T) {
		s := newTestService(t, storage.NewMockRepository(), Options{})
		checkout(t, s)
		_, _, err := s.CompleteSale(ctx, CompleteRequest{})
		assert.ErrorIs(t, err, cart.ErrEmptyCart)
	})

	t.Run("no payment", func(t *testing.T) {
		s := newTestService(t, storage.NewMockRepository(), Options{})
		ringUpRiceAndEgg(t, s)
		checkout(t, s)
		_, _, err := s.CompleteSale(ctx, CompleteRequest{})
		assert.ErrorIs(t, err, cart.ErrInsufficientPayment)
	})

	t.Run("underpaid keeps the cart", func(t *testing.T) {
		repo := storage.NewMockRepository()
		s := newTestService(t, repo, Options{})
		ringUpRiceAndEgg(t, s)
		checkout(t, s)
		_, _ = s.CalculateChange(ctx, "10")

		_, st, err := s.CompleteSale(ctx, CompleteRequest{})
		assert.ErrorIs(t, err, cart.ErrInsufficientPayment)
		assert.Contains(t, err.Error(), "52.00")
		assert.Len(t, st.Cart.Lines, 2)
		assert.True(t, st.Receipt.Visible)
		assert.False(t, repo.SaveSaleCalled)
	})

	t.Run("unknown order type", func(t *testing.T) {
		s := newTestService(t, storage.NewMockRepository(), Options{})
		_, _, err := s.CompleteSale(ctx, CompleteRequest{OrderType: "drive-thru"})
		assert.ErrorIs(t, err, ErrInvalidOrderType)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		s := newTestService(t, storage.NewMockRepository(), Options{})
		_, _, err := s.CompleteSale(ctx, CompleteRequest{PaymentMethod: "barter"})
		assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	})

	t.Run("save failure keeps the cart", func(t *testing.T) {
		repo := storage.NewMockRepository()
		repo.SaveSaleErr = errors.New("disk full")
		s := newTestService(t, repo, Options{})
		ringUpRiceAndEgg(t, s)
		checkout(t, s)
		_, err := s.CalculateChange(ctx, "100")
		require.NoError(t, err)

		_, st, err := s.CompleteSale(ctx, CompleteRequest{OrderType: OrderTypeTakeOut, PaymentMethod: PaymentCard})
		assert.ErrorContains(t, err, "disk full")
		assert.Len(t, st.Cart.Lines, 2)
	})
}

func TestService_CloseReceipt_ClearsRegardlessOfPayment(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMockRepository()
	s := newTestService(t, repo, Options{PersistDraft: true})
	ringUpRiceAndEgg(t, s)
	checkout(t, s)

	st, err := s.CloseReceipt(ctx)
	require.NoError(t, err)
	assert.Empty(t, st.Cart.Lines)
	assert.True(t, st.Total.IsZero())
	assert.False(t, st.Receipt.Visible)
	assert.Equal(t, 1, repo.DeleteDraftCall)
	assert.False(t, repo.SaveSaleCalled)
}

func TestService_DraftPersistence(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMockRepository()

	s := newTestService(t, repo, Options{PersistDraft: true})
	ringUpRiceAndEgg(t, s)
	assert.Equal(t, 2, repo.SaveDraftCalls)

	restored := newTestService(t, repo, Options{PersistDraft: true})
	st := restored.State()
	assert.Equal(t, []string{"Rice - ₱50", "Egg - ₱12"}, st.Cart.Lines)
	assert.Equal(t, "62", st.Total.String())

	// disabled persistence neither reads nor writes drafts
	fresh := newTestService(t, repo, Options{})
	assert.Empty(t, fresh.State().Cart.Lines)
	_, err := fresh.AddItem(ctx, "Tea", d("3"))
	require.NoError(t, err)
	assert.Equal(t, 2, repo.SaveDraftCalls)
}

func TestService_DraftLoadFailureStartsEmpty(t *testing.T) {
	repo := storage.NewMockRepository()
	repo.LoadDraftErr = errors.New("corrupt")

	s := newTestService(t, repo, Options{PersistDraft: true})
	assert.Empty(t, s.State().Cart.Lines)
}

func TestService_AddItem_Errors(t *testing.T) {
	s := newTestService(t, storage.NewMockRepository(), Options{})

	_, err := s.AddItem(context.Background(), "Refund", d("-1"))
	assert.ErrorIs(t, err, cart.ErrInvalidAmount)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.AddItem(ctx, "Rice", d("50"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.State().Cart.Lines)
}

func TestService_ConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t, storage.NewMockRepository(), Options{PersistDraft: true})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.AddItem(ctx, "Candy", d("0.1"))
		}()
	}
	wg.Wait()

	st := s.State()
	assert.Equal(t, 50, st.ItemCount)
	assert.Equal(t, "5", st.Total.String())
}

func TestService_CustomOptions(t *testing.T) {
	ctx := context.Background()
	rate := d("0.05")
	s := newTestService(t, storage.NewMockRepository(), Options{
		DiscountRate:   &rate,
		CurrencySymbol: "$",
	})
	assert.Equal(t, "0.05", s.DiscountRate().String())

	_, err := s.AddItem(ctx, "Coffee", d("120"))
	require.NoError(t, err)
	checkout(t, s)
	st, err := s.ApplyDiscount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Discounted Total: $114.00", st.Receipt.DiscountedTotalLabel)
}

func TestService_ZeroDiscountRate(t *testing.T) {
	ctx := context.Background()
	zero := decimal.Zero
	s := newTestService(t, storage.NewMockRepository(), Options{DiscountRate: &zero})
	assert.True(t, s.DiscountRate().IsZero())

	_, err := s.AddItem(ctx, "Rice", d("50"))
	require.NoError(t, err)
	checkout(t, s)
	st, err := s.ApplyDiscount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Discounted Total: ₱50.00", st.Receipt.DiscountedTotalLabel)

	_, err = s.CalculateChange(ctx, "50")
	require.NoError(t, err)
	sale, _, err := s.CompleteSale(ctx, CompleteRequest{})
	require.NoError(t, err)
	assert.True(t, sale.Discount.IsZero())
	assert.Equal(t, "50", sale.Total.String())
}

func TestService_DefaultDiscountRate(t *testing.T) {
	s := newTestService(t, storage.NewMockRepository(), Options{})
	assert.Equal(t, "0.2", s.DiscountRate().String())
}

func TestService_PayingDisplayedDiscountedTotal(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMockRepository()
	s := newTestService(t, repo, Options{})

	_, err := s.AddItem(ctx, "Meal", d("62.99"))
	require.NoError(t, err)
	checkout(t, s)
	st, err := s.ApplyDiscount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Discounted Total: ₱50.39", st.Receipt.DiscountedTotalLabel)

	st, err = s.CalculateChange(ctx, "50.39")
	require.NoError(t, err)
	assert.Equal(t, "Change: ₱0.00", st.Receipt.ChangeLabel)

	sale, _, err := s.CompleteSale(ctx, CompleteRequest{})
	require.NoError(t, err)
	assert.Equal(t, "62.99", sale.Subtotal.String())
	assert.Equal(t, "12.6", sale.Discount.String())
	assert.Equal(t, "50.39", sale.Total.String())
	assert.True(t, sale.Change.IsZero())
}

func TestService_AddItemAfterCheckout(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMockRepository()
	s := newTestService(t, repo, Options{})

	_, err := s.AddItem(ctx, "Rice", d("50"))
	require.NoError(t, err)
	checkout(t, s)
	st, err := s.AddItem(ctx, "Egg", d("50"))
	require.NoError(t, err)
	assert.Equal(t, "Total: ₱100", st.Receipt.TotalLabel)
	assert.Equal(t, []string{"Rice - ₱50", "Egg - ₱50"}, st.Receipt.Lines)

	st, err = s.ApplyDiscount(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Discounted Total: ₱80.00", st.Receipt.DiscountedTotalLabel)

	_, err = s.CalculateChange(ctx, "100")
	require.NoError(t, err)
	sale, st, err := s.CompleteSale(ctx, CompleteRequest{})
	require.NoError(t, err)
	assert.Equal(t, "100", sale.Subtotal.String())
	assert.Equal(t, "20", sale.Discount.String())
	assert.Equal(t, "80", sale.Total.String())
	assert.Equal(t, 2, sale.ItemCount)
	assert.Empty(t, st.Cart.Lines)
}

func TestService_AddItemAfterPaymentRequiresNewPayment(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMockRepository()
	s := newTestService(t, repo, Options{})

	ringUpRiceAndEgg(t, s)
	checkout(t, s)
	_, err := s.CalculateChange(ctx, "62")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, "Tea", d("30"))
	require.NoError(t, err)

	_, st, err := s.CompleteSale(ctx, CompleteRequest{})
	assert.ErrorIs(t, err, cart.ErrInsufficientPayment)
	assert.Len(t, st.Cart.Lines, 3)
	assert.False(t, repo.SaveSaleCalled)
}

func TestService_AddProduct(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMockRepository()
	repo.AddProduct("Cola Can", "Beverages", "50")
	repo.AddProduct("French Fries", "Appetizers", "80")
	soldOut := &storage.Product{Name: "Ice Cream Scoop", Category: "Desserts", Price: d("70")}
	require.NoError(t, repo.SaveProduct(soldOut))
	s := newTestService(t, repo, Options{PersistDraft: true})

	st, err := s.AddProduct(ctx, "cola can")
	require.NoError(t, err)
	assert.Equal(t, []string{"Cola Can - ₱50"}, st.Cart.Lines)
	assert.Equal(t, 1, repo.SaveDraftCalls)

	_, err = s.AddProduct(ctx, "Pizza")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = s.AddProduct(ctx, "Ice Cream Scoop")
	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.Equal(t, 1, s.State().ItemCount)

	products, err := s.Products(ctx, "")
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "French Fries", products[0].Name)
}

func TestService_SaleStatus(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewMockRepository()
	s := newTestService(t, repo, Options{})

	ringUpRiceAndEgg(t, s)
	checkout(t, s)
	_, err := s.CalculateChange(ctx, "100")
	require.NoError(t, err)
	sale, _, err := s.CompleteSale(ctx, CompleteRequest{OrderType: OrderTypeTakeOut, Status: storage.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, storage.StatusPending, sale.Status)
	assert.Nil(t, sale.CompletedAt)

	updated, err := s.UpdateSaleStatus(ctx, sale.OrderNumber, storage.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, storage.StatusInProgress, updated.Status)

	updated, err = s.UpdateSaleStatus(ctx, sale.OrderNumber, storage.StatusCompleted)
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedAt)
	assert.True(t, fixedNow.Equal(*updated.CompletedAt))

	_, err = s.UpdateSaleStatus(ctx, sale.OrderNumber, storage.StatusPending)
	assert.ErrorIs(t, err, storage.ErrInvalidTransition)

	t.Run("cancelled is not a starting status", func(t *testing.T) {
		s := newTestService(t, storage.NewMockRepository(), Options{})
		_, _, err := s.CompleteSale(ctx, CompleteRequest{Status: storage.StatusCancelled})
		assert.ErrorIs(t, err, storage.ErrInvalidStatus)
	})
}

func TestService_CancelledContext(t *testing.T) {
	s := newTestService(t, storage.NewMockRepository(), Options{})
	ringUpRiceAndEgg(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Checkout(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.State().Receipt.Visible)

	checkout(t, s)
	_, err = s.ApplyDiscount(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, s.State().DiscountApplied)

	_, err = s.CalculateChange(ctx, "100")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.State().Receipt.PaymentInput)

	_, err = s.CloseReceipt(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, s.State().Cart.Lines, 2)

	_, err = s.AddProduct(ctx, "Rice")
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.UpdateSaleStatus(ctx, "ORD-1", storage.StatusCompleted)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewOrderNumber(t *testing.T) {
	a := NewOrderNumber(fixedNow)
	b := NewOrderNumber(fixedNow)
	assert.Regexp(t, `^ORD-261018-[0-9A-F]{8}$`, a)
	assert.NotEqual(t, a, b)
}
