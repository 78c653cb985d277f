package application

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/clothes-shop-api/internal/domains/companies/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/companies/ports"
)

var _ ports.Service = (*Service)(nil)

// Service orchestrates supplier company use cases.
type Service struct {
	repo  ports.Repository
	newID func() string
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

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) CreateCompany(ctx context.Context, input ports.CompanyInput) (*ports.CompanyProjection, error) {
	company, err := domain.NewCompany(s.newID(), input.CompanyName, input.PhoneNumber, input.Address, input.Image)
	if err != nil {
		return nil, mapError(err)
	}
	return s.repo.Save(ctx, company)
}

func (s *Service) GetCompany(ctx context.Context, id string) (*ports.CompanyProjection, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListCompanies(ctx context.Context) ([]*ports.CompanyProjection, error) {
	return s.repo.List(ctx)
}

func (s *Service) DeleteCompany(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
