package handlers

import (
	"net/http"
	"sort"

	"github.com/eshaffer321/pos-register/internal/api/dto"
	"github.com/eshaffer321/pos-register/internal/domain/money"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// StatsHandler handles stats-related HTTP requests.
type StatsHandler struct {
	*Base
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(repo storage.Repository) *StatsHandler {
	return &StatsHandler{
		Base: NewBase(repo),
	}
}

// Get handles GET /api/stats - returns aggregate sale statistics.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.repo.GetStats()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	// Convert order type map to a sorted slice for easier frontend consumption
	byType := make([]dto.OrderTypeStatsResponse, 0, len(stats.ByOrderType))
	for orderType, ts := range stats.ByOrderType {
		byType = append(byType, dto.OrderTypeStatsResponse{
			OrderType: orderType,
			Count:     ts.Count,
			NetAmount: money.FormatFixed(ts.NetAmount),
		})
	}
	sort.Slice(byType, func(i, j int) bool { return byType[i].OrderType < byType[j].OrderType })

	response := dto.StatsResponse{
		SaleCount:       stats.SaleCount,
		ItemCount:       stats.ItemCount,
		GrossAmount:     money.FormatFixed(stats.GrossAmount),
		DiscountAmount:  money.FormatFixed(stats.DiscountAmount),
		NetAmount:       money.FormatFixed(stats.NetAmount),
		AverageSale:     money.FormatFixed(stats.AverageSale),
		DiscountedSales: stats.DiscountedSale,
		ByOrderType:     byType,
	}

	h.WriteJSON(w, http.StatusOK, response)
}
