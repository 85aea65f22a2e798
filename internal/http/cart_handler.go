package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/apna-store/internal/cart"
	"github.com/fjod/apna-store/internal/domain"
)

const maxLineQuantity = 99

type Cart interface {
	AddToCart(line domain.CartLine)
	UpdateQuantity(productID int64, quantity int)
	RemoveFromCart(productID int64)
	ClearCart()
	ItemQuantity(productID int64) int
	Snapshot() cart.Snapshot
}

type ProductLookup interface {
	GetByID(ctx context.Context, id int64) (domain.Product, error)
}

type CartHandler struct {
	cart     Cart
	products ProductLookup
	timeout  time.Duration
}

func NewCartHandler(c Cart, products ProductLookup, timeout time.Duration) *CartHandler {
	return &CartHandler{
		cart:     c,
		products: products,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.cart.Snapshot())
}

// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req AddItemRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity <= 0 || req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.products.GetByID(ctx, req.ProductID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !product.IsActive {
		respondError(w, http.StatusNotFound, "not_found", "product is not available")
		return
	}
	if product.Stock != nil && h.cart.ItemQuantity(product.ID)+req.Quantity > *product.Stock {
		respondError(w, http.StatusConflict, "insufficient_stock", "not enough stock for requested quantity")
		return
	}

	h.cart.AddToCart(domain.LineFromProduct(product, req.Quantity))
	respondJSON(w, http.StatusCreated, h.cart.Snapshot())
}

// PUT /api/v1/cart/items/{product_id}
// A quantity of 0 removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "product_id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Quantity < 0 || req.Quantity > maxLineQuantity {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	h.cart.UpdateQuantity(productID, req.Quantity)
	respondJSON(w, http.StatusOK, h.cart.Snapshot())
}

// DELETE /api/v1/cart/items/{product_id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "product_id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	h.cart.RemoveFromCart(productID)
	respondJSON(w, http.StatusOK, h.cart.Snapshot())
}

// DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.ClearCart()
	respondJSON(w, http.StatusOK, h.cart.Snapshot())
}
