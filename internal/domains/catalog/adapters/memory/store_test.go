package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
)

func seedProduct(t *testing.T, store *Store, stock ...domain.StockEntry) *domain.Product {
	t.Helper()
	product, err := domain.NewProduct("p-1", "Linen shirt", "", decimal.NewFromInt(20), "c-1", "uploads/p.png", stock)
	require.NoError(t, err)
	_, err = store.SaveProduct(context.Background(), product)
	require.NoError(t, err)
	return product
}

func TestStore_DeductAndRestore(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedProduct(t, store, domain.StockEntry{Size: "M", Color: "red", Quantity: 5})

	receipt, err := store.Deduct(ctx, domain.StockMovement{ProductID: "p-1", Size: "M", Color: "red", Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, receipt.Remaining)

	_, err = store.Deduct(ctx, domain.StockMovement{ProductID: "p-1", Size: "M", Color: "red", Quantity: 3})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	got, err := store.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Entity.Stock[0].Quantity)

	require.NoError(t, store.Restore(ctx, domain.StockMovement{ProductID: "p-1", Size: "M", Color: "red", Quantity: 3}))
	got, err = store.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.Entity.Stock[0].Quantity)
}

func TestStore_DeductErrors(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedProduct(t, store, domain.StockEntry{Size: "M", Color: "red", Quantity: 5})

	_, err := store.Deduct(ctx, domain.StockMovement{ProductID: "missing", Size: "M", Color: "red", Quantity: 1})
	require.ErrorIs(t, err, ports.ErrProductNotFound)

	_, err = store.Deduct(ctx, domain.StockMovement{ProductID: "p-1", Size: "XL", Color: "red", Quantity: 1})
	require.ErrorIs(t, err, domain.ErrStockEntryNotFound)

	_, err = store.Deduct(ctx, domain.StockMovement{ProductID: "p-1", Size: "M", Color: "red", Quantity: 0})
	require.ErrorIs(t, err, domain.ErrInvalidMovement)
}

func TestStore_ReturnedProductsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedProduct(t, store, domain.StockEntry{Size: "M", Color: "red", Quantity: 5})

	got, err := store.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	got.Entity.Stock[0].Quantity = 100

	again, err := store.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 5, again.Entity.Stock[0].Quantity)
}

func TestStore_ConcurrentDeductNeverOversells(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	store := NewStore()
	seedProduct(t, store, domain.StockEntry{Size: "M", Color: "red", Quantity: 10})

	var wg sync.WaitGroup
	var accepted atomic.Int64
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Deduct(ctx, domain.StockMovement{ProductID: "p-1", Size: "M", Color: "red", Quantity: 3}); err == nil {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	got, err := store.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), accepted.Load())
	assert.Equal(t, 1, got.Entity.Stock[0].Quantity)
}

func TestStore_ListProductsFiltersByCategory(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	for _, p := range []struct{ id, category string }{{"a", "c-1"}, {"b", "c-2"}, {"c", "c-1"}} {
		product, err := domain.NewProduct(p.id, "t", "", decimal.NewFromInt(1), p.category, "img", nil)
		require.NoError(t, err)
		_, err = store.SaveProduct(ctx, product)
		require.NoError(t, err)
	}

	list, err := store.ListProducts(ctx, ports.ProductFilter{CategoryID: "c-1"})
	require.NoError(t, err)
	require.Len(t, list, 2)

	count, err := store.CountProductsInCategory(ctx, "c-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestStore_UpdateProductSeesLatestStock(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	seedProduct(t, store, domain.StockEntry{Size: "M", Color: "red", Quantity: 5})

	_, err := store.Deduct(ctx, domain.StockMovement{ProductID: "p-1", Size: "M", Color: "red", Quantity: 3})
	require.NoError(t, err)

	updated, err := store.UpdateProduct(ctx, "p-1", func(product *domain.Product) error {
		assert.Equal(t, 2, product.Stock[0].Quantity)
		product.Title = "Linen shirt v2"
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "Linen shirt v2", updated.Entity.Title)
	assert.Equal(t, 2, updated.Entity.Stock[0].Quantity)

	_, err = store.UpdateProduct(ctx, "p-1", func(product *domain.Product) error {
		product.Title = "discarded"
		return domain.ErrEmptyTitle
	})
	require.ErrorIs(t, err, domain.ErrEmptyTitle)
	got, err := store.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Linen shirt v2", got.Entity.Title)

	_, err = store.UpdateProduct(ctx, "missing", func(*domain.Product) error { return nil })
	require.ErrorIs(t, err, ports.ErrProductNotFound)
}

func TestStore_UpdateProductSerializesWithDeduct(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	store := NewStore()
	seedProduct(t, store, domain.StockEntry{Size: "M", Color: "red", Quantity: 30})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := store.Deduct(ctx, domain.StockMovement{ProductID: "p-1", Size: "M", Color: "red", Quantity: 1})
			assert.NoError(t, err)
		}()
		go func() {
			defer wg.Done()
			_, err := store.UpdateProduct(ctx, "p-1", func(product *domain.Product) error {
				product.Description = "edited"
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := store.GetProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, 20, got.Entity.Stock[0].Quantity)
}
