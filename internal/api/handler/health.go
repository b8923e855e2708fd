package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/mcoot/tetrisparty/internal/api/response"
	"github.com/mcoot/tetrisparty/internal/services/arcade"
)

// StatusProvider reports the arcade's current state
type StatusProvider interface {
	Status(ctx context.Context) (arcade.Status, error)
}

// HealthHandler reports liveness
type HealthHandler struct {
	arcade StatusProvider
}

// NewHealthHandler creates a new health handler. arcade may be nil.
func NewHealthHandler(arcade StatusProvider) *HealthHandler {
	return &HealthHandler{arcade: arcade}
}

// Get handles GET /api/v1/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.arcade == nil {
		response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, err := h.arcade.Status(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Health{Status: "ok", Arcade: &status})
}
