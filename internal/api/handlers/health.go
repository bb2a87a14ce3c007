package handlers

import (
	"net/http"

	"github.com/eshaffer321/pos-register/internal/api/dto"
	"github.com/eshaffer321/pos-register/internal/infrastructure/storage"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	*Base
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(repo storage.Repository) *HealthHandler {
	return &HealthHandler{Base: NewBase(repo)}
}

// ServeHTTP handles the health check request. An unreachable database
// answers 503 so load balancers stop routing to this register.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	err := h.repo.Ping()
	response := dto.NewHealthResponse(err)

	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, status, response)
}
