package orders

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fjod/apna-store/internal/domain"
	"github.com/fjod/apna-store/internal/store"
)

// DefaultRecentLimit is used when GetRecent is called with a non-positive limit
const DefaultRecentLimit = 10

var (
	ErrOrderNotFound = fmt.Errorf("order %w", store.ErrNotFound)
	ErrInvalidStatus = errors.New("invalid order status")
)

type OrderStore struct {
	records store.RecordStore[domain.Order]
}

func NewOrderStore(initial []domain.Order, opts store.Options) *OrderStore {
	return &OrderStore{records: store.NewMemoryStore[domain.Order](initial, opts)}
}

func (s *OrderStore) GetAll(ctx context.Context) ([]domain.Order, error) {
	return s.records.All(ctx)
}

func (s *OrderStore) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	o, err := s.records.Get(ctx, id)
	return o, notFound(err)
}

func (s *OrderStore) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	return s.records.Filter(ctx, func(o domain.Order) bool { return o.Status == status })
}

// GetRecent returns up to limit orders, newest first. Storage order is left unchanged.
func (s *OrderStore) GetRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	all, err := s.records.All(ctx)
	if err != nil {
		return nil, err
	}
	return Recent(all, limit), nil
}

// Create stores the order. The items are copied, so later cart changes do not reach the order.
func (s *OrderStore) Create(ctx context.Context, o domain.Order) (domain.Order, error) {
	return s.records.Create(ctx, o)
}

func (s *OrderStore) Update(ctx context.Context, id int64, patch domain.OrderPatch) (domain.Order, error) {
	o, err := s.records.Update(ctx, id, func(o *domain.Order) { patch.Apply(o) })
	return o, notFound(err)
}

// UpdateStatus sets the status unconditionally; any enum value may follow any other.
func (s *OrderStore) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.Update(ctx, id, domain.OrderPatch{Status: &status})
}

func (s *OrderStore) Delete(ctx context.Context, id int64) (domain.Order, error) {
	o, err := s.records.Delete(ctx, id)
	return o, notFound(err)
}

// Recent sorts a copy of orders newest first and keeps at most limit.
func Recent(orders []domain.Order, limit int) []domain.Order {
	sorted := make([]domain.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}
