package handlers

import (
	"net/http"

	"github.com/eshaffer321/pos-register/internal/api/dto"
	"github.com/eshaffer321/pos-register/internal/domain/money"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// ProductsHandler serves the product catalog.
type ProductsHandler struct {
	*Base
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(repo storage.Repository) *ProductsHandler {
	return &ProductsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/products - returns the catalog, optionally one
// category or only available products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	filters := storage.ProductFilters{
		Category:      r.URL.Query().Get("category"),
		AvailableOnly: ParseBoolParam(r, "available", false),
	}

	products, err := h.repo.ListProducts(filters)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.ProductListResponse{Products: make([]dto.ProductResponse, 0, len(products))}
	for _, p := range products {
		response.Products = append(response.Products, toProductResponse(p))
	}
	h.WriteJSON(w, http.StatusOK, response)
}

// Save handles POST /api/products - creates or updates a product by name.
func (h *ProductsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req dto.SaveProductRequest
	if !h.DecodeBody(w, r, &req) {
		return
	}

	price, err := money.ParseAmount(string(req.Price))
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
		return
	}
	if price.IsNegative() {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("price must not be negative"))
		return
	}

	product := &storage.Product{
		Name:      req.Name,
		Category:  req.Category,
		Price:     price,
		Available: req.Available == nil || *req.Available,
	}
	if err := h.repo.SaveProduct(product); err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	h.WriteJSON(w, http.StatusOK, toProductResponse(product))
}

func toProductResponse(p *storage.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:        p.ID,
		Name:      p.Name,
		Category:  p.Category,
		Price:     money.FormatFixed(p.Price),
		Available: p.Available,
	}
}
