package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/apna-store/internal/checkout"
	"github.com/fjod/apna-store/internal/domain"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req checkout.Request) (domain.Order, error)
}

type CheckoutHandler struct {
	checkout OrderPlacer
	timeout  time.Duration
}

func NewCheckoutHandler(placer OrderPlacer, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: placer,
		timeout:  timeout,
	}
}

// POST /api/v1/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req checkout.Request
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if verr := validateCheckout(&req); verr != nil {
		respondValidation(w, verr)
		return
	}

	order, err := h.checkout.PlaceOrder(ctx, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, order)
}
