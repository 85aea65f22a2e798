package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Handlers struct {
	Products *ProductHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrdersHandler
	Admin    *AdminHandler
}

type RouterConfig struct {
	RequestTimeout     time.Duration
	MaxRequestBodySize int64
}

// NewRouter mounts every storefront route under /api/v1 plus /health.
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.Compress(5))
	if cfg.MaxRequestBodySize > 0 {
		r.Use(MaxBodySize(cfg.MaxRequestBodySize))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.Products.List)
			r.Get("/featured", h.Products.Featured)
			r.Get("/search", h.Products.Search)
			r.Get("/{id}", h.Products.Get)
		})
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Products.Categories)
			r.Get("/{name}/products", h.Products.ByCategory)
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.GetCart)
			r.Delete("/", h.Cart.ClearCart)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{product_id}", h.Cart.UpdateQuantity)
			r.Delete("/items/{product_id}", h.Cart.RemoveItem)
		})

		r.Post("/checkout", h.Checkout.PlaceOrder)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List)
			r.Get("/{id}", h.Orders.Get)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/products", h.Admin.CreateProduct)
			r.Put("/products/{id}", h.Admin.UpdateProduct)
			r.Delete("/products/{id}", h.Admin.DeleteProduct)
			r.Get("/orders", h.Admin.ListOrders)
			r.Patch("/orders/{id}/status", h.Admin.UpdateOrderStatus)
			r.Get("/dashboard", h.Admin.Dashboard)
		})
	})

	return otelhttp.NewHandler(r, "storefront",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
}
