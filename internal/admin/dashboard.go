package admin

import (
	"context"
	"fmt"

	"github.com/fjod/apna-store/internal/domain"
	"github.com/fjod/apna-store/internal/orders"
	"golang.org/x/sync/errgroup"
)

const recentOrdersLimit = 5

type ProductReader interface {
	GetAll(ctx context.Context) ([]domain.Product, error)
	GetCategories(ctx context.Context) ([]domain.CategoryCount, error)
}

type OrderReader interface {
	GetAll(ctx context.Context) ([]domain.Order, error)
}

type Stats struct {
	TotalProducts  int            `json:"totalProducts"`
	ActiveProducts int            `json:"activeProducts"`
	TotalOrders    int            `json:"totalOrders"`
	PendingOrders  int            `json:"pendingOrders"`
	TotalRevenue   float64        `json:"totalRevenue"`
	Categories     int            `json:"categories"`
	RecentOrders   []domain.Order `json:"recentOrders"`
}

type Dashboard struct {
	products ProductReader
	orders   OrderReader
}

func NewDashboard(products ProductReader, orders OrderReader) *Dashboard {
	return &Dashboard{products: products, orders: orders}
}

// Stats loads products, orders and categories concurrently and aggregates them.
func (d *Dashboard) Stats(ctx context.Context) (Stats, error) {
	var (
		products   []domain.Product
		allOrders  []domain.Order
		categories []domain.CategoryCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = d.products.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		allOrders, err = d.orders.GetAll(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = d.products.GetCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("load dashboard: %w", err)
	}

	stats := Stats{
		TotalProducts: len(products),
		TotalOrders:   len(allOrders),
		Categories:    len(categories),
		RecentOrders:  orders.Recent(allOrders, recentOrdersLimit),
	}
	for _, p := range products {
		if p.IsActive {
			stats.ActiveProducts++
		}
	}
	for _, o := range allOrders {
		if o.Status == domain.OrderStatusPending {
			stats.PendingOrders++
		}
		stats.TotalRevenue += o.TotalAmount
	}
	return stats, nil
}
