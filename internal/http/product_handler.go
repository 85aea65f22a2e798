package http

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fjod/apna-store/internal/domain"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"
)

type Catalog interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id int64) (domain.Product, error)
	GetByCategory(ctx context.Context, category string) ([]domain.Product, error)
	GetFeatured(ctx context.Context, limit int) ([]domain.Product, error)
	GetCategories(ctx context.Context) ([]domain.CategoryCount, error)
	Search(ctx context.Context, query string) ([]domain.Product, error)
}

type ProductHandler struct {
	catalog Catalog
	timeout time.Duration
	group   singleflight.Group
}

func NewProductHandler(catalog Catalog, timeout time.Duration) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

type ProductsResponse struct {
	Products []domain.Product `json:"products"`
}

type CategoriesResponse struct {
	Categories []domain.CategoryCount `json:"categories"`
}

// GET /api/v1/products
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.catalog.GetAll(ctx)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

// GET /api/v1/products/featured?limit=
func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	limit, ok := queryLimit(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
		return
	}

	products, err := h.catalog.GetFeatured(ctx, limit)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

// GET /api/v1/products/search?q=
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		respondError(w, http.StatusBadRequest, "missing_query", "q is required")
		return
	}

	products, err := h.catalog.Search(ctx, query)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ProductsResponse{Products: products})
}

// GET /api/v1/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, ok := pathID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	product, err := h.catalog.GetByID(ctx, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// GET /api/v1/categories
// Concurrent requests share one store read.
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	ch := h.group.DoChan("categories", func() (any, error) {
		// the shared read is not tied to any single caller
		readCtx, readCancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer readCancel()
		return h.catalog.GetCategories(readCtx)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			handleError(w, r, res.Err)
			return
		}
		respondJSON(w, http.StatusOK, CategoriesResponse{Categories: res.Val.([]domain.CategoryCount)})
	case <-ctx.Done():
		handleError(w, r, ctx.Err())
	}
}

// GET /api/v1/categories/{name}/products
func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil || name == "" {
		respondError(w, http.StatusBadRequest, "invalid_category", "category name is required")
		return
	}

	products, err := h.catalog.GetByCategory(ctx, name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, ProductsResponse{Products: products})
}
