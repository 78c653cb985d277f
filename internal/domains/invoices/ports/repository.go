package ports

import (
	"context"
	"errors"

	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/domain"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

var ErrNotFound = errors.New("invoice not found")

type InvoiceProjection = projection.Projection[domain.Invoice]

// Repository stores invoices. Invoices are append-only.
type Repository interface {
	Save(ctx context.Context, invoice *domain.Invoice) (*InvoiceProjection, error)
	GetByID(ctx context.Context, id string) (*InvoiceProjection, error)
	List(ctx context.Context) ([]*InvoiceProjection, error)
}

// Transactor runs fn inside a single store transaction; a non-nil error
// rolls back every write made through ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
