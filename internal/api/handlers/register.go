package handlers

import (
	"errors"
	"net/http"

	"github.com/eshaffer321/pos-register/internal/api/dto"
	"github.com/eshaffer321/pos-register/internal/application/register"
	"github.com/eshaffer321/pos-register/internal/domain/cart"
	"github.com/eshaffer321/pos-register/internal/domain/money"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// RegisterHandler handles the cart and receipt operations of the register.
type RegisterHandler struct {
	*Base
	register *register.Service
}

// NewRegisterHandler creates a new register handler.
func NewRegisterHandler(repo storage.Repository, svc *register.Service) *RegisterHandler {
	return &RegisterHandler{
		Base:     NewBase(repo),
		register: svc,
	}
}

// Get handles GET /api/register - returns the current register state.
func (h *RegisterHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, toRegisterResponse(h.register.State()))
}

// AddItem handles POST /api/register/items. A request without a price adds
// the catalog product named by item.
func (h *RegisterHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddItemRequest
	if !h.DecodeBody(w, r, &req) {
		return
	}

	if req.Price == "" {
		state, err := h.register.AddProduct(r.Context(), req.Item)
		h.writeState(w, http.StatusCreated, state, err)
		return
	}

	price, err := money.ParseAmount(string(req.Price))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}

	state, err := h.register.AddItem(r.Context(), req.Item, price)
	h.writeState(w, http.StatusCreated, state, err)
}

// Checkout handles POST /api/register/checkout - opens the receipt.
func (h *RegisterHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	state, err := h.register.Checkout(r.Context())
	h.writeState(w, http.StatusOK, state, err)
}

// ApplyDiscount handles POST /api/register/discount.
func (h *RegisterHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	state, err := h.register.ApplyDiscount(r.Context())
	h.writeState(w, http.StatusOK, state, err)
}

// CalculateChange handles POST /api/register/change.
func (h *RegisterHandler) CalculateChange(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateChangeRequest
	if !h.DecodeBody(w, r, &req) {
		return
	}

	state, err := h.register.CalculateChange(r.Context(), string(req.Payment))
	h.writeState(w, http.StatusOK, state, err)
}

// Close handles POST /api/register/close - abandons the receipt and empties the cart.
func (h *RegisterHandler) Close(w http.ResponseWriter, r *http.Request) {
	state, err := h.register.CloseReceipt(r.Context())
	h.writeState(w, http.StatusOK, state, err)
}

// Complete handles POST /api/register/complete - records the paid sale.
func (h *RegisterHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req dto.CompleteSaleRequest
	if !h.DecodeBody(w, r, &req) {
		return
	}

	sale, state, err := h.register.CompleteSale(r.Context(), req.ToCompleteRequest())
	if err != nil {
		h.writeState(w, http.StatusOK, state, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, dto.CompleteSaleResponse{
		Sale:     toSaleResponse(sale),
		Register: toRegisterResponse(state),
	})
}

// writeState writes the register state. When err is set the state is
// still returned, with the error attached and a status matching its kind.
func (h *RegisterHandler) writeState(w http.ResponseWriter, okStatus int, state register.State, err error) {
	resp := toRegisterResponse(state)
	if err == nil {
		h.WriteJSON(w, okStatus, resp)
		return
	}

	status, apiErr := registerError(err)
	if status == http.StatusInternalServerError {
		h.WriteError(w, status, apiErr)
		return
	}
	resp.Error = &apiErr
	h.WriteJSON(w, status, resp)
}

// registerError maps register errors onto HTTP statuses and API codes.
func registerError(err error) (int, dto.APIError) {
	switch {
	case errors.Is(err, cart.ErrInvalidAmount),
		errors.Is(err, register.ErrInvalidOrderType),
		errors.Is(err, register.ErrInvalidPaymentMethod),
		errors.Is(err, storage.ErrInvalidStatus):
		return http.StatusBadRequest, dto.ValidationError(err.Error())
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, dto.NewAPIError(dto.ErrCodeNotFound, err.Error())
	case errors.Is(err, cart.ErrInsufficientPayment):
		return http.StatusUnprocessableEntity, dto.NewAPIError(dto.ErrCodeInsufficientPayment, err.Error())
	case errors.Is(err, cart.ErrDiscountAlreadyApplied):
		return http.StatusConflict, dto.NewAPIError(dto.ErrCodeDiscountAlreadyApplied, cart.DuplicateDiscountNotice)
	case errors.Is(err, cart.ErrReceiptNotOpen),
		errors.Is(err, cart.ErrEmptyCart),
		errors.Is(err, cart.ErrReceiptOutOfDate),
		errors.Is(err, register.ErrProductUnavailable),
		errors.Is(err, storage.ErrInvalidTransition):
		return http.StatusConflict, dto.ConflictError(err.Error())
	default:
		return http.StatusInternalServerError, dto.InternalError()
	}
}

func toRegisterResponse(st register.State) dto.RegisterResponse {
	return dto.RegisterResponse{
		Cart:            st.Cart,
		Receipt:         st.Receipt,
		Regions:         st.Regions,
		ItemCount:       st.ItemCount,
		Total:           money.Format(st.Total),
		DiscountedTotal: money.Format(st.DiscountedTotal),
		Change:          money.Format(st.Change),
		DiscountApplied: st.DiscountApplied,
		Notice:          st.Notice,
	}
}
