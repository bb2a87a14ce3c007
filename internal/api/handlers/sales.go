package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/pos-register/internal/api/dto"
	"github.com/eshaffer321/pos-register/internal/application/register"
	"github.com/eshaffer321/pos-register/internal/domain/money"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// SalesHandler handles sale history and order status requests.
type SalesHandler struct {
	*Base
	register *register.Service
}

// NewSalesHandler creates a new sales handler.
func NewSalesHandler(repo storage.Repository, svc *register.Service) *SalesHandler {
	return &SalesHandler{
		Base:     NewBase(repo),
		register: svc,
	}
}

// List handles GET /api/sales - returns a paginated list of sales.
func (h *SalesHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.SaleFilters{
		OrderType: r.URL.Query().Get("type"),
		Status:    r.URL.Query().Get("status"),
		Search:    r.URL.Query().Get("search"),
		DaysBack:  ParseIntParam(r, "days_back", 0),
		Limit:     ParseIntParam(r, "limit", storage.DefaultLimit),
		Offset:    ParseIntParam(r, "offset", 0),
		OrderDesc: ParseBoolParam(r, "order_desc", true),
	}
	if filters.OrderType == "all" {
		filters.OrderType = ""
	}
	if filters.Status == "all" {
		filters.Status = ""
	}

	result, err := h.repo.ListSales(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.SaleListResponse{
		Sales:      make([]dto.SaleResponse, 0, len(result.Sales)),
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	}
	for _, sale := range result.Sales {
		response.Sales = append(response.Sales, toSaleResponse(sale))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/sales/{orderNumber} - returns a single sale.
func (h *SalesHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	if orderNumber == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("order number is required"))
		return
	}

	sale, err := h.repo.GetSale(orderNumber)
	if errors.Is(err, storage.ErrNotFound) {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("sale"))
		return
	}
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toSaleResponse(sale))
}

// UpdateStatus handles POST /api/sales/{orderNumber}/status.
func (h *SalesHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderNumber := chi.URLParam(r, "orderNumber")
	var req dto.UpdateSaleStatusRequest
	if !h.DecodeBody(w, r, &req) {
		return
	}

	sale, err := h.register.UpdateSaleStatus(r.Context(), orderNumber, req.Status)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("sale"))
	case errors.Is(err, storage.ErrInvalidStatus):
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
	case errors.Is(err, storage.ErrInvalidTransition):
		h.WriteError(w, http.StatusConflict, dto.ConflictError(err.Error()))
	case err != nil:
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	default:
		h.WriteJSON(w, http.StatusOK, toSaleResponse(sale))
	}
}

// toSaleResponse converts a stored sale to an API response.
func toSaleResponse(sale *storage.Sale) dto.SaleResponse {
	response := dto.SaleResponse{
		OrderNumber:     sale.OrderNumber,
		OrderType:       sale.OrderType,
		Status:          sale.Status,
		PaymentMethod:   sale.PaymentMethod,
		Subtotal:        money.FormatFixed(sale.Subtotal),
		Discount:        money.FormatFixed(sale.Discount),
		Total:           money.FormatFixed(sale.Total),
		Payment:         money.FormatFixed(sale.Payment),
		Change:          money.FormatFixed(sale.Change),
		DiscountApplied: sale.DiscountApplied,
		ItemCount:       sale.ItemCount,
		CreatedAt:       sale.CreatedAt.UTC().Format(time.RFC3339),
		Items:           make([]dto.SaleItemResponse, 0, len(sale.Items)),
	}
	if sale.CompletedAt != nil {
		response.CompletedAt = sale.CompletedAt.UTC().Format(time.RFC3339)
	}

	for _, item := range sale.Items {
		response.Items = append(response.Items, dto.SaleItemResponse{
			Name:      item.Name,
			ListPrice: money.FormatFixed(item.ListPrice),
			Amount:    money.FormatFixed(item.Amount),
		})
	}

	return response
}
