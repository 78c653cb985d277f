package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
)

// Service orchestrates category and product use cases.
type Service struct {
	categories ports.CategoryRepository
	products   ports.ProductRepository
	newID      func() string
}

type Option func(*Service)

// WithIDGenerator overrides uuid-based identifiers.
func WithIDGenerator(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newID = fn
		}
	}
}

func NewService(categories ports.CategoryRepository, products ports.ProductRepository, opts ...Option) *Service {
	s := &Service{categories: categories, products: products, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*ports.CategoryProjection, error) {
	category, err := domain.NewCategory(s.newID(), name)
	if err != nil {
		return nil, mapError(err)
	}
	return s.categories.SaveCategory(ctx, category)
}

func (s *Service) RenameCategory(ctx context.Context, id, name string) (*ports.CategoryProjection, error) {
	current, err := s.categories.GetCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	category := current.Entity
	if err := category.Rename(name); err != nil {
		return nil, mapError(err)
	}
	return s.categories.SaveCategory(ctx, &category)
}

func (s *Service) GetCategory(ctx context.Context, id string) (*ports.CategoryProjection, error) {
	return s.categories.GetCategory(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]*ports.CategoryProjection, error) {
	return s.categories.ListCategories(ctx)
}

func (s *Service) CountCategories(ctx context.Context) (int64, error) {
	return s.categories.CountCategories(ctx)
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetCategory(ctx, id); err != nil {
		return err
	}
	inUse, err := s.products.CountProductsInCategory(ctx, id)
	if err != nil {
		return err
	}
	if inUse > 0 {
		return fmt.Errorf("%w: %d products reference category %s", ErrCategoryInUse, inUse, id)
	}
	return s.categories.DeleteCategory(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, input ports.ProductInput) (*ports.ProductProjection, error) {
	product, err := domain.NewProduct(s.newID(), input.Title, input.Description, input.Price, input.CategoryID, input.Image, input.Stock)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.ensureCategory(ctx, product.CategoryID); err != nil {
		return nil, err
	}
	return s.products.SaveProduct(ctx, product)
}

// UpdateProduct applies the patch under the repository's product lock so a
// concurrent stock movement is never overwritten. Stock rows change only when
// the patch carries a stock list.
func (s *Service) UpdateProduct(ctx context.Context, id string, patch ports.ProductPatch) (*ports.ProductProjection, error) {
	if patch.CategoryID != nil {
		if err := s.ensureCategory(ctx, *patch.CategoryID); err != nil {
			return nil, err
		}
	}
	return s.products.UpdateProduct(ctx, id, func(product *domain.Product) error {
		if patch.Title != nil {
			product.Title = *patch.Title
		}
		if patch.Description != nil {
			product.Description = *patch.Description
		}
		if patch.Price != nil {
			product.Price = *patch.Price
		}
		if patch.Image != nil {
			product.Image = *patch.Image
		}
		if patch.CategoryID != nil {
			product.CategoryID = *patch.CategoryID
		}
		if patch.Stock != nil {
			if err := product.ReplaceStock(*patch.Stock); err != nil {
				return mapError(err)
			}
		}
		if err := product.Validate(); err != nil {
			return mapError(err)
		}
		return nil
	})
}

func (s *Service) GetProduct(ctx context.Context, id string) (*ports.ProductProjection, error) {
	return s.products.GetProduct(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context, filter ports.ProductFilter) ([]*ports.ProductProjection, error) {
	return s.products.ListProducts(ctx, filter)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.DeleteProduct(ctx, id)
}

func (s *Service) ensureCategory(ctx context.Context, id string) error {
	if _, err := s.categories.GetCategory(ctx, id); err != nil {
		if errors.Is(err, ports.ErrCategoryNotFound) {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return err
	}
	return nil
}

var _ ports.Service = (*Service)(nil)
