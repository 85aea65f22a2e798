package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/apna-store/internal/domain"
)

type OrderReader interface {
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetRecent(ctx context.Context, limit int) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (domain.Order, error)
}

type OrdersHandler struct {
	orders  OrderReader
	timeout time.Duration
}

func NewOrdersHandler(orders OrderReader, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		orders:  orders,
		timeout: timeout,
	}
}

type OrdersResponse struct {
	Orders []domain.Order `json:"orders"`
}

// GET /api/v1/orders?limit=
// Without a limit every order is listed in creation order; with one, the newest limit orders.
func (h *OrdersHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	limit, ok := queryLimit(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
		return
	}

	var (
		list []domain.Order
		err  error
	)
	if limit == 0 {
		list, err = h.orders.GetAll(ctx)
	} else {
		list, err = h.orders.GetRecent(ctx, limit)
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: list})
}

// GET /api/v1/orders/{id}
func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a positive integer")
		return
	}

	order, err := h.orders.GetByID(ctx, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
