package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/apna-store/internal/domain"
	"github.com/fjod/apna-store/internal/store"
)

// DefaultFeaturedLimit is used when GetFeatured is called with a non-positive limit
const DefaultFeaturedLimit = 8

var ErrProductNotFound = fmt.Errorf("product %w", store.ErrNotFound)

type ProductStore struct {
	records store.RecordStore[domain.Product]
}

// NewProductStore creates a product store seeded with initial.
func NewProductStore(initial []domain.Product, opts store.Options) *ProductStore {
	return &ProductStore{records: store.NewMemoryStore[domain.Product](initial, opts)}
}

func (s *ProductStore) GetAll(ctx context.Context) ([]domain.Product, error) {
	return s.records.All(ctx)
}

func (s *ProductStore) GetByID(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.records.Get(ctx, id)
	return p, notFound(err)
}

// GetByCategory returns active products in the category.
func (s *ProductStore) GetByCategory(ctx context.Context, category string) ([]domain.Product, error) {
	return s.records.Filter(ctx, func(p domain.Product) bool {
		return p.IsActive && p.Category == category
	})
}

// GetFeatured returns the first limit active products in storage order.
func (s *ProductStore) GetFeatured(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}

	active, err := s.records.Filter(ctx, func(p domain.Product) bool { return p.IsActive })
	if err != nil {
		return nil, err
	}
	if len(active) > limit {
		active = active[:limit]
	}
	return active, nil
}

// GetCategories counts active products per category in first-seen order.
func (s *ProductStore) GetCategories(ctx context.Context) ([]domain.CategoryCount, error) {
	active, err := s.records.Filter(ctx, func(p domain.Product) bool { return p.IsActive })
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	categories := make([]domain.CategoryCount, 0)
	for _, p := range active {
		i, ok := index[p.Category]
		if !ok {
			i = len(categories)
			index[p.Category] = i
			categories = append(categories, domain.CategoryCount{Name: p.Category})
		}
		categories[i].Count++
	}
	return categories, nil
}

// Search matches query case-insensitively against name, display name, description and category of active products.
func (s *ProductStore) Search(ctx context.Context, query string) ([]domain.Product, error) {
	lower := strings.ToLower(query)
	return s.records.Filter(ctx, func(p domain.Product) bool {
		return p.IsActive && p.Matches(lower)
	})
}

func (s *ProductStore) Create(ctx context.Context, p domain.Product) (domain.Product, error) {
	return s.records.Create(ctx, p)
}

// Update merges the non-nil patch fields over the stored product.
func (s *ProductStore) Update(ctx context.Context, id int64, patch domain.ProductPatch) (domain.Product, error) {
	p, err := s.records.Update(ctx, id, func(p *domain.Product) { patch.Apply(p) })
	return p, notFound(err)
}

func (s *ProductStore) Delete(ctx context.Context, id int64) (domain.Product, error) {
	p, err := s.records.Delete(ctx, id)
	return p, notFound(err)
}

func notFound(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}
