package admin

import (
	"context"
	"log/slog"

	"github.com/fjod/apna-store/internal/domain"
	"github.com/fjod/apna-store/internal/events"
	"github.com/fjod/apna-store/pkg/logger"
)

type OrderStatusStore interface {
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error)
}

// Orders is the back-office view of the order store.
type Orders struct {
	store     OrderStatusStore
	publisher events.Publisher
	log       *slog.Logger
}

func NewOrders(store OrderStatusStore, publisher events.Publisher, log *slog.Logger) *Orders {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Orders{store: store, publisher: publisher, log: logger.OrDefault(log).With("component", "admin")}
}

// List returns every order, or only those with the given status when it is set.
func (o *Orders) List(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	if status == "" {
		return o.store.GetAll(ctx)
	}
	return o.store.GetByStatus(ctx, status)
}

// UpdateStatus moves an order to status and announces the change.
func (o *Orders) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	order, err := o.store.UpdateStatus(ctx, id, status)
	if err != nil {
		return domain.Order{}, err
	}

	o.log.InfoContext(ctx, "order status updated", "order_id", id, "status", status)
	if err := o.publisher.PublishOrderEvent(ctx, events.NewOrderEvent(events.TypeOrderStatusChanged, order)); err != nil {
		o.log.WarnContext(ctx, "status change event not published", "order_id", id, "error", err)
	}
	return order, nil
}
