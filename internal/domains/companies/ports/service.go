package ports

import "context"

// CompanyInput carries the fields of a new company. Image is the stored upload path.
type CompanyInput struct {
	CompanyName string
	PhoneNumber string
	Address     string
	Image       string
}

// Service exposes company use cases to adapters.
type Service interface {
	CreateCompany(ctx context.Context, input CompanyInput) (*CompanyProjection, error)
	GetCompany(ctx context.Context, id string) (*CompanyProjection, error)
	ListCompanies(ctx context.Context) ([]*CompanyProjection, error)
	DeleteCompany(ctx context.Context, id string) error
}
