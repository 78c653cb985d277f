package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

var (
	_ ports.CategoryRepository = (*Store)(nil)
	_ ports.ProductRepository  = (*Store)(nil)
	_ ports.StockLedger        = (*Store)(nil)
)

type categoryRow struct {
	category  domain.Category
	createdAt time.Time
	updatedAt time.Time
}

type productRow struct {
	product   *domain.Product
	createdAt time.Time
	updatedAt time.Time
}

// Store keeps categories, products and their stock in memory. A single mutex
// guards everything so a ledger movement is one indivisible step.
type Store struct {
	mu         sync.RWMutex
	categories map[string]*categoryRow
	products   map[string]*productRow
	now        func() time.Time
}

func NewStore() *Store {
	return &Store{
		categories: map[string]*categoryRow{},
		products:   map[string]*productRow{},
		now:        time.Now,
	}
}

func (s *Store) SaveCategory(ctx context.Context, category *domain.Category) (*ports.CategoryProjection, error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	row, ok := s.categories[category.ID]
	if !ok {
		row = &categoryRow{createdAt: now}
		s.categories[category.ID] = row
	}
	row.category = *category
	row.updatedAt = now
	return projection.New(row.category, row.createdAt, row.updatedAt), nil
}

func (s *Store) GetCategory(_ context.Context, id string) (*ports.CategoryProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.categories[id]
	if !ok {
		return nil, ports.ErrCategoryNotFound
	}
	return projection.New(row.category, row.createdAt, row.updatedAt), nil
}

func (s *Store) ListCategories(_ context.Context) ([]*ports.CategoryProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*ports.CategoryProjection, 0, len(s.categories))
	for _, row := range s.categories {
		list = append(list, projection.New(row.category, row.createdAt, row.updatedAt))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Metadata.CreatedAt.Equal(list[j].Metadata.CreatedAt) {
			return list[i].Entity.ID < list[j].Entity.ID
		}
		return list[i].Metadata.CreatedAt.Before(list[j].Metadata.CreatedAt)
	})
	return list, nil
}

func (s *Store) CountCategories(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.categories)), nil
}

func (s *Store) DeleteCategory(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return ports.ErrCategoryNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *Store) SaveProduct(ctx context.Context, product *domain.Product) (*ports.ProductProjection, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	row, ok := s.products[product.ID]
	if !ok {
		row = &productRow{createdAt: now}
		s.products[product.ID] = row
	}
	row.product = product.Clone()
	row.updatedAt = now
	return row.project(), nil
}

// UpdateProduct runs mutate under the write lock, so ledger movements land
// either before the edit is read or after it is stored.
func (s *Store) UpdateProduct(ctx context.Context, id string, mutate ports.ProductMutation) (*ports.ProductProjection, error) {
	if mutate == nil {
		return nil, errors.New("product mutation is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	product := row.product.Clone()
	if err := mutate(product); err != nil {
		return nil, err
	}
	product.ID = id
	row.product = product
	row.updatedAt = s.now().UTC()
	return row.project(), nil
}

func (s *Store) GetProduct(_ context.Context, id string) (*ports.ProductProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.products[id]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	return row.project(), nil
}

func (s *Store) ListProducts(_ context.Context, filter ports.ProductFilter) ([]*ports.ProductProjection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*ports.ProductProjection, 0, len(s.products))
	for _, row := range s.products {
		if filter.CategoryID != "" && row.product.CategoryID != filter.CategoryID {
			continue
		}
		list = append(list, row.project())
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Metadata.CreatedAt.Equal(list[j].Metadata.CreatedAt) {
			return list[i].Entity.ID < list[j].Entity.ID
		}
		return list[i].Metadata.CreatedAt.Before(list[j].Metadata.CreatedAt)
	})
	return list, nil
}

func (s *Store) CountProductsInCategory(_ context.Context, categoryID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, row := range s.products {
		if row.product.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (s *Store) DeleteProduct(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return ports.ErrProductNotFound
	}
	delete(s.products, id)
	return nil
}

// Deduct checks and decrements the first matching entry under the write lock.
func (s *Store) Deduct(ctx context.Context, movement domain.StockMovement) (*domain.StockReceipt, error) {
	if err := movement.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.products[movement.ProductID]
	if !ok {
		return nil, ports.ErrProductNotFound
	}
	receipt, err := row.product.Deduct(movement.Size, movement.Color, movement.Quantity)
	if err != nil {
		return nil, err
	}
	row.updatedAt = s.now().UTC()
	return &receipt, nil
}

func (s *Store) Restore(ctx context.Context, movement domain.StockMovement) error {
	if err := movement.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.products[movement.ProductID]
	if !ok {
		return ports.ErrProductNotFound
	}
	if err := row.product.Restore(movement.Size, movement.Color, movement.Quantity); err != nil {
		return err
	}
	row.updatedAt = s.now().UTC()
	return nil
}

func (r *productRow) project() *ports.ProductProjection {
	return projection.New(*r.product.Clone(), r.createdAt, r.updatedAt)
}
