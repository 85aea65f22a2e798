package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fjod/apna-store/internal/cart"
	"github.com/fjod/apna-store/internal/domain"
	"github.com/fjod/apna-store/internal/events"
	"github.com/fjod/apna-store/pkg/logger"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// Request carries the contact, address and payment fields entered at checkout.
type Request struct {
	CustomerName  string               `json:"customerName"`
	CustomerPhone string               `json:"customerPhone"`
	Email         string               `json:"email,omitempty"`
	Address       string               `json:"address"`
	City          string               `json:"city"`
	Pincode       string               `json:"pincode"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
}

// DeliveryAddress joins the address parts the way orders store them.
func (r Request) DeliveryAddress() string {
	return strings.Join([]string{r.Address, r.City, r.Pincode}, ", ")
}

type OrderCreator interface {
	Create(ctx context.Context, o domain.Order) (domain.Order, error)
}

type Cart interface {
	Snapshot() cart.Snapshot
	RemoveLines(lines []domain.CartLine)
}

type Service struct {
	orders    OrderCreator
	cart      Cart
	publisher events.Publisher
	log       *slog.Logger
}

func NewService(orders OrderCreator, c Cart, publisher events.Publisher, log *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		orders:    orders,
		cart:      c,
		publisher: publisher,
		log:       logger.OrDefault(log).With("component", "checkout"),
	}
}

// PlaceOrder turns the current cart into a pending order and takes the ordered
// lines out of the cart. Items added while the order is being created stay.
// The cart is left untouched when the order cannot be created.
func (s *Service) PlaceOrder(ctx context.Context, req Request) (domain.Order, error) {
	snapshot := s.cart.Snapshot()
	if len(snapshot.Lines) == 0 {
		return domain.Order{}, ErrEmptyCart
	}

	payment := req.PaymentMethod
	if payment == "" {
		payment = domain.PaymentCOD
	}

	order, err := s.orders.Create(ctx, domain.Order{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Email:           req.Email,
		DeliveryAddress: req.DeliveryAddress(),
		Items:           snapshot.Lines,
		TotalAmount:     snapshot.TotalAmount,
		PaymentMethod:   payment,
		Status:          domain.OrderStatusPending,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.cart.RemoveLines(snapshot.Lines)
	s.log.InfoContext(ctx, "order placed",
		"order_id", order.ID,
		"total_amount", order.TotalAmount,
		"items", len(order.Items),
		"payment_method", order.PaymentMethod)

	if err := s.publisher.PublishOrderEvent(ctx, events.NewOrderEvent(events.TypeOrderPlaced, order)); err != nil {
		s.log.WarnContext(ctx, "order placed event not published", "order_id", order.ID, "error", err)
	}
	return order, nil
}
