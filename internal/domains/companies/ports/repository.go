package ports

import (
	"context"
	"errors"

	"github.com/Apurer/clothes-shop-api/internal/domains/companies/domain"
	"github.com/Apurer/clothes-shop-api/internal/shared/projection"
)

var (
	ErrNotFound    = errors.New("company not found")
	ErrPersistence = errors.New("company store unavailable")
)

type CompanyProjection = projection.Projection[domain.Company]

// Repository persists supplier companies.
type Repository interface {
	Save(ctx context.Context, company *domain.Company) (*CompanyProjection, error)
	GetByID(ctx context.Context, id string) (*CompanyProjection, error)
	List(ctx context.Context) ([]*CompanyProjection, error)
	Delete(ctx context.Context, id string) error
}
