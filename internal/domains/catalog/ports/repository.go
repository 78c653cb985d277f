package ports

import (
	"context"
	"errors"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrProductNotFound  = errors.New("product not found")
	// ErrPersistence marks a store that is unreachable or rejected the write.
	ErrPersistence = errors.New("catalog store unavailable")
)

type CategoryProjection = projection.Projection[domain.Category]
type ProductProjection = projection.Projection[domain.Product]

// CategoryRepository persists categories.
type CategoryRepository interface {
	SaveCategory(ctx context.Context, category *domain.Category) (*CategoryProjection, error)
	GetCategory(ctx context.Context, id string) (*CategoryProjection, error)
	ListCategories(ctx context.Context) ([]*CategoryProjection, error)
	CountCategories(ctx context.Context) (int64, error)
	DeleteCategory(ctx context.Context, id string) error
}

// ProductFilter narrows product listings. Empty fields match everything.
type ProductFilter struct {
	CategoryID string
}

// ProductMutation edits a product in place. A returned error aborts the
// update and is passed back unchanged.
type ProductMutation func(product *domain.Product) error

// ProductRepository persists products including their stock sequence.
type ProductRepository interface {
	SaveProduct(ctx context.Context, product *domain.Product) (*ProductProjection, error)
	// UpdateProduct applies mutate to the current product while holding the
	// same lock the StockLedger takes. Stock is rewritten only when mutate
	// changed it.
	UpdateProduct(ctx context.Context, id string, mutate ProductMutation) (*ProductProjection, error)
	GetProduct(ctx context.Context, id string) (*ProductProjection, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*ProductProjection, error)
	CountProductsInCategory(ctx context.Context, categoryID string) (int64, error)
	DeleteProduct(ctx context.Context, id string) error
}

// StockLedger applies stock movements as single conditional store operations.
// Deduct is not idempotent; callers guarantee at-most-once per invoice line.
type StockLedger interface {
	Deduct(ctx context.Context, movement domain.StockMovement) (*domain.StockReceipt, error)
	Restore(ctx context.Context, movement domain.StockMovement) error
}
