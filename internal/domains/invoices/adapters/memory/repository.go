package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory invoice persistence adapter.
type Repository struct {
	mu       sync.RWMutex
	invoices map[string]*domain.Invoice
	failNext error
}

func NewRepository() *Repository {
	return &Repository{invoices: map[string]*domain.Invoice{}}
}

// FailNextSave makes the next Save return err. Tests use it to exercise
// compensation after the stock has been applied.
func (r *Repository) FailNextSave(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = err
}

func (r *Repository) Save(ctx context.Context, invoice *domain.Invoice) (*ports.InvoiceProjection, error) {
	if invoice == nil {
		return nil, errors.New("invoice is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return nil, err
	}
	clone := invoice.Clone()
	r.invoices[clone.ID] = clone
	return project(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*ports.InvoiceProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	invoice, ok := r.invoices[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return project(invoice), nil
}

// List returns invoices newest first.
func (r *Repository) List(_ context.Context) ([]*ports.InvoiceProjection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*ports.InvoiceProjection, 0, len(r.invoices))
	for _, invoice := range r.invoices {
		list = append(list, project(invoice))
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].Entity, list[j].Entity
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	return list, nil
}

func project(invoice *domain.Invoice) *ports.InvoiceProjection {
	return projection.New(*invoice.Clone(), invoice.CreatedAt, invoice.CreatedAt)
}
