package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/Apurer/clothes-shop-api/internal/domains/companies/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/companies/ports"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps companies in memory for development and tests.
type Repository struct {
	mu   sync.RWMutex
	rows map[string]*ports.CompanyProjection
}

func NewRepository() *Repository {
	return &Repository{rows: make(map[string]*ports.CompanyProjection)}
}

func (r *Repository) Save(_ context.Context, company *domain.Company) (*ports.CompanyProjection, error) {
	if company == nil {
		return nil, errors.New("company is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	createdAt := now
	if existing, ok := r.rows[company.ID]; ok {
		createdAt = existing.Metadata.CreatedAt
	}
	row := projection.New(*company, createdAt, now)
	r.rows[company.ID] = row
	return copyOf(row), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*ports.CompanyProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	row, ok := r.rows[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return copyOf(row), nil
}

func (r *Repository) List(_ context.Context) ([]*ports.CompanyProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.CompanyProjection, 0, len(r.rows))
	for _, row := range r.rows {
		list = append(list, copyOf(row))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Metadata.CreatedAt.Equal(list[j].Metadata.CreatedAt) {
			return list[i].Entity.ID < list[j].Entity.ID
		}
		return list[i].Metadata.CreatedAt.Before(list[j].Metadata.CreatedAt)
	})
	return list, nil
}

func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func copyOf(row *ports.CompanyProjection) *ports.CompanyProjection {
	clone := *row
	return &clone
}
