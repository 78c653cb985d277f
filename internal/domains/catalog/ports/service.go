package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
)

// ProductInput carries the writable product fields.
type ProductInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	CategoryID  string
	Image       string
	Stock       []domain.StockEntry
}

// ProductPatch updates only the fields that are set.
type ProductPatch struct {
	Title       *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *string
	Image       *string
	Stock       *[]domain.StockEntry
}

// Service exposes catalog use cases to adapters.
type Service interface {
	CreateCategory(ctx context.Context, name string) (*CategoryProjection, error)
	RenameCategory(ctx context.Context, id, name string) (*CategoryProjection, error)
	GetCategory(ctx context.Context, id string) (*CategoryProjection, error)
	ListCategories(ctx context.Context) ([]*CategoryProjection, error)
	CountCategories(ctx context.Context) (int64, error)
	DeleteCategory(ctx context.Context, id string) error

	CreateProduct(ctx context.Context, input ProductInput) (*ProductProjection, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*ProductProjection, error)
	GetProduct(ctx context.Context, id string) (*ProductProjection, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]*ProductProjection, error)
	DeleteProduct(ctx context.Context, id string) error
}
