package events

import (
	"context"
	"time"

	"github.com/fjod/apna-store/internal/domain"
	"github.com/google/uuid"
)

const (
	TopicOrders = "storefront.orders"

	TypeOrderPlaced        = "order.placed"
	TypeOrderStatusChanged = "order.status_changed"
)

type OrderEvent struct {
	EventID     string             `json:"event_id"`
	Type        string             `json:"type"`
	OrderID     int64              `json:"order_id"`
	Status      domain.OrderStatus `json:"status"`
	TotalAmount float64            `json:"total_amount"`
	ItemCount   int                `json:"item_count"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// NewOrderEvent describes order as an event of the given type.
func NewOrderEvent(eventType string, order domain.Order) OrderEvent {
	return OrderEvent{
		EventID:     uuid.NewString(),
		Type:        eventType,
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ItemCount:   domain.TotalItems(order.Items),
		OccurredAt:  time.Now().UTC(),
	}
}

type Publisher interface {
	PublishOrderEvent(ctx context.Context, event OrderEvent) error
	Close() error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishOrderEvent(context.Context, OrderEvent) error { return nil }

func (NopPublisher) Close() error { return nil }
