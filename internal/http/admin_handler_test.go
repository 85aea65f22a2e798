package http

import (
	"net/http"
	"testing"

	"github.com/fjod/apna-store/internal/admin"
	"github.com/fjod/apna-store/internal/domain"
)

func TestAdminCreateProduct(t *testing.T) {
	s := newTestServer(t)

	recorder := s.do(t, http.MethodPost, "/api/v1/admin/products", domain.Product{
		Name:     "Masala Chai",
		Category: "Beverages",
		Price:    180,
		IsActive: true,
	})
	expectStatus(t, recorder, http.StatusCreated)

	created := decode[domain.Product](t, recorder)
	if created.ID != 5 {
		t.Errorf("Expected id 5, got %d", created.ID)
	}
	if created.CreatedAt.IsZero() {
		t.Error("Expected createdAt to be set")
	}
}

func TestAdminCreateProduct_Validation(t *testing.T) {
	s := newTestServer(t)

	recorder := s.do(t, http.MethodPost, "/api/v1/admin/products", domain.Product{Category: "Beverages", Price: 10})
	expectStatus(t, recorder, http.StatusBadRequest)
	expectErrorCode(t, recorder, "validation_failed")

	recorder = s.do(t, http.MethodPost, "/api/v1/admin/products", domain.Product{Name: "Tea", Category: "Beverages", Price: -1})
	expectStatus(t, recorder, http.StatusBadRequest)
}

func TestAdminUpdateProduct_PartialMerge(t *testing.T) {
	s := newTestServer(t)

	recorder := s.do(t, http.MethodPut, "/api/v1/admin/products/2", map[string]any{"price": 95.5})
	expectStatus(t, recorder, http.StatusOK)

	updated := decode[domain.Product](t, recorder)
	if updated.Price != 95.5 {
		t.Errorf("Expected price 95.5, got %v", updated.Price)
	}
	if updated.Name != "Basmati Rice" || updated.ID != 2 {
		t.Errorf("Expected other fields untouched, got %+v", updated)
	}

	recorder = s.do(t, http.MethodPut, "/api/v1/admin/products/99", map[string]any{"price": 1})
	expectStatus(t, recorder, http.StatusNotFound)
}

func TestAdminDeleteProduct(t *testing.T) {
	s := newTestServer(t)

	recorder := s.do(t, http.MethodDelete, "/api/v1/admin/products/4", nil)
	expectStatus(t, recorder, http.StatusOK)

	recorder = s.do(t, http.MethodGet, "/api/v1/products/4", nil)
	expectStatus(t, recorder, http.StatusNotFound)

	recorder = s.do(t, http.MethodDelete, "/api/v1/admin/products/4", nil)
	expectStatus(t, recorder, http.StatusNotFound)
}

func TestAdminOrders(t *testing.T) {
	s := newTestServer(t)
	seedOrders(t, s, 2)

	recorder := s.do(t, http.MethodPatch, "/api/v1/admin/orders/1/status", UpdateStatusRequestDTO{Status: domain.OrderStatusShipped})
	expectStatus(t, recorder, http.StatusOK)

	recorder = s.do(t, http.MethodGet, "/api/v1/admin/orders?status=shipped", nil)
	expectStatus(t, recorder, http.StatusOK)
	response := decode[OrdersResponse](t, recorder)
	if len(response.Orders) != 1 || response.Orders[0].ID != 1 {
		t.Errorf("Expected only order 1 to be shipped, got %+v", response.Orders)
	}

	recorder = s.do(t, http.MethodGet, "/api/v1/admin/orders?status=teleported", nil)
	expectStatus(t, recorder, http.StatusBadRequest)

	recorder = s.do(t, http.MethodPatch, "/api/v1/admin/orders/1/status", UpdateStatusRequestDTO{Status: "teleported"})
	expectStatus(t, recorder, http.StatusBadRequest)
	expectErrorCode(t, recorder, "invalid_status")

	recorder = s.do(t, http.MethodPatch, "/api/v1/admin/orders/9/status", UpdateStatusRequestDTO{Status: domain.OrderStatusDelivered})
	expectStatus(t, recorder, http.StatusNotFound)
}

func TestAdminDashboard(t *testing.T) {
	s := newTestServer(t)
	seedOrders(t, s, 2)

	recorder := s.do(t, http.MethodGet, "/api/v1/admin/dashboard", nil)
	expectStatus(t, recorder, http.StatusOK)

	stats := decode[admin.Stats](t, recorder)
	if stats.TotalProducts != 4 || stats.ActiveProducts != 3 {
		t.Errorf("Unexpected product counts %+v", stats)
	}
	if stats.TotalOrders != 2 || stats.PendingOrders != 2 || stats.TotalRevenue != 300 {
		t.Errorf("Unexpected order stats %+v", stats)
	}
	if stats.Categories != 2 {
		t.Errorf("Expected 2 categories, got %d", stats.Categories)
	}
}
