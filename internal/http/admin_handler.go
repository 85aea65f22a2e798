package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/apna-store/internal/admin"
	"github.com/fjod/apna-store/internal/domain"
)

type ProductWriter interface {
	Create(ctx context.Context, p domain.Product) (domain.Product, error)
	Update(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error)
	Delete(ctx context.Context, id int64) (domain.Product, error)
}

type OrderAdmin interface {
	List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error)
}

type StatsReader interface {
	Stats(ctx context.Context) (admin.Stats, error)
}

type AdminHandler struct {
	products  ProductWriter
	orders    OrderAdmin
	dashboard StatsReader
	timeout   time.Duration
}

func NewAdminHandler(products ProductWriter, orders OrderAdmin, dashboard StatsReader, timeout time.Duration) *AdminHandler {
	return &AdminHandler{
		products:  products,
		orders:    orders,
		dashboard: dashboard,
		timeout:   timeout,
	}
}

type UpdateStatusRequestDTO struct {
	Status domain.OrderStatus `json:"status"`
}

// POST /api/v1/admin/products
func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var p domain.Product
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if verr := validateProduct(p); verr != nil {
		respondValidation(w, verr)
		return
	}

	created, err := h.products.Create(ctx, p)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// PUT /api/v1/admin/products/{id}
// Only the fields present in the body are changed.
func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	var patch domain.ProductPatch
	if err := decodeJSON(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if verr := validateProductPatch(patch); verr != nil {
		respondValidation(w, verr)
		return
	}

	updated, err := h.products.Update(ctx, id, patch)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// DELETE /api/v1/admin/products/{id}
func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	deleted, err := h.products.Delete(ctx, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, deleted)
}

// GET /api/v1/admin/orders?status=
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := domain.OrderStatus(r.URL.Query().Get("status"))
	if status != "" && !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown order status")
		return
	}

	list, err := h.orders.List(ctx, status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, OrdersResponse{Orders: list})
}

// PATCH /api/v1/admin/orders/{id}/status
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a positive integer")
		return
	}

	var req UpdateStatusRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	order, err := h.orders.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	stats, err := h.dashboard.Stats(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
