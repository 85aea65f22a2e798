package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/fjod/apna-store/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, initial ...domain.Product) *MemoryStore[domain.Product, *domain.Product] {
	t.Helper()
	return NewMemoryStore[domain.Product](initial, Options{Latency: NoLatency})
}

func ids(products []domain.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}

func TestMemoryStore_Create_AssignsMaxPlusOne(t *testing.T) {
	store := setupStore(t,
		domain.Product{ID: 1, Name: "Rice"},
		domain.Product{ID: 3, Name: "Dal"},
		domain.Product{ID: 5, Name: "Ghee"},
	)

	created, err := store.Create(context.Background(), domain.Product{Name: "Atta"})
	require.NoError(t, err)
	assert.Equal(t, int64(6), created.ID)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestMemoryStore_Create_EmptyStoreStartsAtOne(t *testing.T) {
	store := setupStore(t)

	created, err := store.Create(context.Background(), domain.Product{Name: "Atta"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestMemoryStore_Create_IgnoresCallerID(t *testing.T) {
	store := setupStore(t, domain.Product{ID: 2})

	created, err := store.Create(context.Background(), domain.Product{ID: 99, Name: "Atta"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
}

func TestMemoryStore_Create_DoesNotReuseDeletedMax(t *testing.T) {
	store := setupStore(t, domain.Product{ID: 1}, domain.Product{ID: 2})
	ctx := context.Background()

	_, err := store.Delete(ctx, 2)
	require.NoError(t, err)

	created, err := store.Create(ctx, domain.Product{Name: "Atta"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
}

func TestMemoryStore_InitialRecordsWithoutID(t *testing.T) {
	store := setupStore(t, domain.Product{ID: 4}, domain.Product{Name: "no id"})

	all, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5}, ids(all))
}

func TestMemoryStore_All_InsertionOrder(t *testing.T) {
	store := setupStore(t, domain.Product{ID: 9}, domain.Product{ID: 2}, domain.Product{ID: 5})

	all, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{9, 2, 5}, ids(all))
}

func TestMemoryStore_NotFound_DoesNotMutate(t *testing.T) {
	store := setupStore(t, domain.Product{ID: 1, Name: "Rice"})
	ctx := context.Background()

	_, err := store.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Update(ctx, 42, func(p *domain.Product) { p.Name = "changed" })
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Delete(ctx, 42)
	assert.ErrorIs(t, err, ErrNotFound)

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Rice", all[0].Name)
}

func TestMemoryStore_CopyIsolation(t *testing.T) {
	stock := 10
	store := setupStore(t, domain.Product{ID: 1, Name: "Rice", Stock: &stock})
	ctx := context.Background()

	all, err := store.All(ctx)
	require.NoError(t, err)
	all[0].Name = "mutated"
	*all[0].Stock = 0

	got, err := store.Get(ctx, 1)
	require.NoError(t, err)
	got.Name = "mutated again"

	again, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Rice", again[0].Name)
	assert.Equal(t, 10, *again[0].Stock)

	// the caller's initial value is not aliased either
	stock = 1
	again, err = store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, *again[0].Stock)
}

func TestMemoryStore_Update_KeepsIDAndStampsUpdatedAt(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store := NewMemoryStore[domain.Product]([]domain.Product{{ID: 7, Name: "Rice", Price: 50}},
		Options{Latency: NoLatency, Now: func() time.Time { return fixed }})

	updated, err := store.Update(context.Background(), 7, func(p *domain.Product) {
		p.ID = 100
		p.Price = 60
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), updated.ID)
	assert.Equal(t, 60.0, updated.Price)
	assert.Equal(t, "Rice", updated.Name)
	assert.Equal(t, fixed, updated.UpdatedAt)

	_, err = store.Get(context.Background(), 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Delete_ReturnsRemoved(t *testing.T) {
	store := setupStore(t, domain.Product{ID: 1, Name: "Rice"}, domain.Product{ID: 2, Name: "Dal"})
	ctx := context.Background()

	removed, err := store.Delete(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Rice", removed.Name)

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids(all))
}

func TestMemoryStore_Filter(t *testing.T) {
	store := setupStore(t,
		domain.Product{ID: 1, Category: "grains"},
		domain.Product{ID: 2, Category: "oil"},
		domain.Product{ID: 3, Category: "grains"},
	)

	got, err := store.Filter(context.Background(), func(p domain.Product) bool { return p.Category == "grains" })
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids(got))
}

func TestMemoryStore_CancelledContext(t *testing.T) {
	store := setupStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Create(ctx, domain.Product{Name: "Atta"})
	assert.ErrorIs(t, err, context.Canceled)

	all, err := store.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryStore_CancelDuringLatency(t *testing.T) {
	store := NewMemoryStore[domain.Product](nil, Options{Latency: Uniform(time.Second, 2*time.Second)})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := store.Create(ctx, domain.Product{Name: "Atta"})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryStore_LatencyIsApplied(t *testing.T) {
	store := NewMemoryStore[domain.Product](nil, Options{Latency: Uniform(20*time.Millisecond, 30*time.Millisecond)})

	start := time.Now()
	_, err := store.All(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestUniform_Bounds(t *testing.T) {
	latency := Uniform(DefaultMinLatency, DefaultMaxLatency)
	for i := 0; i < 1000; i++ {
		d := latency()
		assert.GreaterOrEqual(t, d, DefaultMinLatency)
		assert.Less(t, d, DefaultMaxLatency)
	}
}

func TestMemoryStore_ConcurrentCreates_UniqueIDs(t *testing.T) {
	store := NewMemoryStore[domain.Product](nil, Options{Latency: Uniform(0, 5*time.Millisecond)})

	var wg sync.WaitGroup
	var mu sync.Mutex
	seen := make(map[int64]bool)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			created, err := store.Create(context.Background(), domain.Product{Name: "p"})
			if err != nil {
				return
			}
			mu.Lock()
			seen[created.ID] = true
			mu.Unlock()
		}()
	}

	wg.Wait()
	assert.Len(t, seen, 50)
}
