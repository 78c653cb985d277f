package application

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
)

func newTestService() *Service {
	store := memory.NewStore()
	seq := 0
	return NewService(store, store, WithIDGenerator(func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}))
}

func TestCreateProduct_RequiresExistingCategory(t *testing.T) {
	svc := newTestService()
	_, err := svc.CreateProduct(context.Background(), ports.ProductInput{
		Title: "Shirt", Price: decimal.NewFromInt(10), CategoryID: "nope", Image: "img",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrCategoryNotFound)
}

func TestCreateProduct_RejectsDuplicateVariants(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	category, err := svc.CreateCategory(ctx, "Shirts")
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, ports.ProductInput{
		Title: "Shirt", Price: decimal.NewFromInt(10), CategoryID: category.Entity.ID, Image: "img",
		Stock: []domain.StockEntry{{Size: "M", Color: "red", Quantity: 1}, {Size: "M", Color: "red", Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrDuplicateStockEntry)
}

func TestUpdateProduct_PatchesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	category, err := svc.CreateCategory(ctx, "Shirts")
	require.NoError(t, err)
	created, err := svc.CreateProduct(ctx, ports.ProductInput{
		Title: "Shirt", Description: "cotton", Price: decimal.NewFromInt(10), CategoryID: category.Entity.ID, Image: "img",
		Stock: []domain.StockEntry{{Size: "M", Color: "red", Quantity: 4}},
	})
	require.NoError(t, err)

	price := decimal.RequireFromString("12.50")
	updated, err := svc.UpdateProduct(ctx, created.Entity.ID, ports.ProductPatch{Price: &price})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Entity.Price))
	assert.Equal(t, "cotton", updated.Entity.Description)
	assert.Equal(t, 4, updated.Entity.Stock[0].Quantity)

	missing := "missing"
	_, err = svc.UpdateProduct(ctx, created.Entity.ID, ports.ProductPatch{CategoryID: &missing})
	require.ErrorIs(t, err, ports.ErrCategoryNotFound)
}

// deductingStore sells stock between the moment the service starts an edit and
// the moment the store applies it.
type deductingStore struct {
	*memory.Store
	movement domain.StockMovement
	done     bool
}

func (d *deductingStore) sell(ctx context.Context) error {
	if d.done {
		return nil
	}
	d.done = true
	_, err := d.Store.Deduct(ctx, d.movement)
	return err
}

func (d *deductingStore) GetProduct(ctx context.Context, id string) (*ports.ProductProjection, error) {
	current, err := d.Store.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return current, d.sell(ctx)
}

func (d *deductingStore) UpdateProduct(ctx context.Context, id string, mutate ports.ProductMutation) (*ports.ProductProjection, error) {
	if err := d.sell(ctx); err != nil {
		return nil, err
	}
	return d.Store.UpdateProduct(ctx, id, mutate)
}

func TestUpdateProduct_TitleEditKeepsConcurrentDeduction(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	seeding := NewService(store, store)
	category, err := seeding.CreateCategory(ctx, "Shirts")
	require.NoError(t, err)
	created, err := seeding.CreateProduct(ctx, ports.ProductInput{
		Title: "Shirt", Price: decimal.NewFromInt(10), CategoryID: category.Entity.ID, Image: "img",
		Stock: []domain.StockEntry{{Size: "M", Color: "red", Quantity: 5}},
	})
	require.NoError(t, err)

	racing := &deductingStore{Store: store, movement: domain.StockMovement{
		ProductID: created.Entity.ID, Size: "M", Color: "red", Quantity: 3,
	}}
	svc := NewService(store, racing)
	title := "Linen shirt"
	updated, err := svc.UpdateProduct(ctx, created.Entity.ID, ports.ProductPatch{Title: &title})
	require.NoError(t, err)
	require.True(t, racing.done)
	assert.Equal(t, "Linen shirt", updated.Entity.Title)
	require.Len(t, updated.Entity.Stock, 1)
	assert.Equal(t, 2, updated.Entity.Stock[0].Quantity)

	stored, err := store.GetProduct(ctx, created.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Entity.Stock[0].Quantity)
}

func TestUpdateProduct_InvalidPatchLeavesProductUntouched(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	category, err := svc.CreateCategory(ctx, "Shirts")
	require.NoError(t, err)
	created, err := svc.CreateProduct(ctx, ports.ProductInput{
		Title: "Shirt", Price: decimal.NewFromInt(10), CategoryID: category.Entity.ID, Image: "img",
		Stock: []domain.StockEntry{{Size: "M", Color: "red", Quantity: 5}},
	})
	require.NoError(t, err)

	empty := ""
	_, err = svc.UpdateProduct(ctx, created.Entity.ID, ports.ProductPatch{Title: &empty})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = svc.UpdateProduct(ctx, "nope", ports.ProductPatch{Title: &empty})
	require.ErrorIs(t, err, ports.ErrProductNotFound)

	current, err := svc.GetProduct(ctx, created.Entity.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shirt", current.Entity.Title)
}

func TestDeleteCategory_RefusesWhenProductsReferenceIt(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	category, err := svc.CreateCategory(ctx, "Shirts")
	require.NoError(t, err)
	product, err := svc.CreateProduct(ctx, ports.ProductInput{
		Title: "Shirt", Price: decimal.NewFromInt(10), CategoryID: category.Entity.ID, Image: "img",
	})
	require.NoError(t, err)

	err = svc.DeleteCategory(ctx, category.Entity.ID)
	require.ErrorIs(t, err, ErrCategoryInUse)

	require.NoError(t, svc.DeleteProduct(ctx, product.Entity.ID))
	require.NoError(t, svc.DeleteCategory(ctx, category.Entity.ID))

	count, err := svc.CountCategories(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRenameCategory(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()
	category, err := svc.CreateCategory(ctx, "Shirts")
	require.NoError(t, err)

	renamed, err := svc.RenameCategory(ctx, category.Entity.ID, " Tops ")
	require.NoError(t, err)
	assert.Equal(t, "Tops", renamed.Entity.Name)

	_, err = svc.RenameCategory(ctx, category.Entity.ID, "")
	require.ErrorIs(t, err, domain.ErrEmptyCategoryName)

	_, err = svc.RenameCategory(ctx, "nope", "x")
	require.ErrorIs(t, err, ports.ErrCategoryNotFound)
}
