package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/apna-store/internal/admin"
	"github.com/fjod/apna-store/internal/cart"
	"github.com/fjod/apna-store/internal/catalog"
	"github.com/fjod/apna-store/internal/checkout"
	"github.com/fjod/apna-store/internal/domain"
	"github.com/fjod/apna-store/internal/orders"
	"github.com/fjod/apna-store/internal/store"
)

type testServer struct {
	handler  http.Handler
	cart     *cart.Manager
	products *catalog.ProductStore
	orders   *orders.OrderStore
}

func intPtr(n int) *int { return &n }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	opts := store.Options{Latency: store.NoLatency}

	products := catalog.NewProductStore([]domain.Product{
		{ID: 1, Name: "Aashirvaad Atta", Category: "Grains", Price: 250, IsActive: true, Stock: intPtr(10)},
		{ID: 2, Name: "Basmati Rice", Category: "Grains", Price: 90, IsActive: true},
		{ID: 3, Name: "Amul Ghee", Category: "Dairy Products", Price: 550, IsActive: true, Stock: intPtr(2)},
		{ID: 4, Name: "Discontinued Namkeen", Category: "Snacks", Price: 20, IsActive: false},
	}, opts)
	orderStore := orders.NewOrderStore(nil, opts)

	c := cart.NewManager(context.Background(), cart.NewMemoryStorage())
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	timeout := 5 * time.Second
	handler := NewRouter(Handlers{
		Products: NewProductHandler(products, timeout),
		Cart:     NewCartHandler(c, products, timeout),
		Checkout: NewCheckoutHandler(checkout.NewService(orderStore, c, nil, nil), timeout),
		Orders:   NewOrdersHandler(orderStore, timeout),
		Admin: NewAdminHandler(products, admin.NewOrders(orderStore, nil, nil),
			admin.NewDashboard(products, orderStore), timeout),
	}, RouterConfig{RequestTimeout: timeout, MaxRequestBodySize: 1 << 20})

	return &testServer{handler: handler, cart: c, products: products, orders: orderStore}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	s.handler.ServeHTTP(recorder, request)
	return recorder
}

func decode[T any](t *testing.T, recorder *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(recorder.Body).Decode(&v); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, recorder *httptest.ResponseRecorder, want int) {
	t.Helper()
	if recorder.Code != want {
		t.Fatalf("Expected status code %d, got %d: %s", want, recorder.Code, recorder.Body.String())
	}
}

func expectErrorCode(t *testing.T, recorder *httptest.ResponseRecorder, want string) {
	t.Helper()
	response := decode[ErrorResponse](t, recorder)
	if response.Code != want {
		t.Errorf("Expected error code '%s', got '%s'", want, response.Code)
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	recorder := s.do(t, http.MethodGet, "/health", nil)
	expectStatus(t, recorder, http.StatusOK)
	if recorder.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header to be set")
	}
}

func TestRequestID_Propagated(t *testing.T) {
	s := newTestServer(t)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	request.Header.Set("X-Request-ID", "test-request-123")
	s.handler.ServeHTTP(recorder, request)

	if got := recorder.Header().Get("X-Request-ID"); got != "test-request-123" {
		t.Errorf("Expected request id 'test-request-123', got '%s'", got)
	}
}
