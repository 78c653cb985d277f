package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/clothes-shop-api/internal/domains/companies/adapters/memory"
	"github.com/Apurer/clothes-shop-api/internal/domains/companies/domain"
	"github.com/Apurer/clothes-shop-api/internal/domains/companies/ports"
)

func newTestService() *Service {
	return NewService(memory.NewRepository(), WithIDGenerator(func() string { return "co-1" }))
}

func TestCreateCompany_Persists(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	created, err := svc.CreateCompany(ctx, ports.CompanyInput{
		CompanyName: "Acme Textiles", PhoneNumber: "555-0101", Address: "1 Mill Road", Image: "uploads/acme.png",
	})
	require.NoError(t, err)
	assert.Equal(t, "co-1", created.Entity.ID)
	assert.False(t, created.Metadata.CreatedAt.IsZero())

	got, err := svc.GetCompany(ctx, "co-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Textiles", got.Entity.CompanyName)

	list, err := svc.ListCompanies(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCreateCompany_RejectsMissingImage(t *testing.T) {
	svc := newTestService()

	_, err := svc.CreateCompany(context.Background(), ports.CompanyInput{
		CompanyName: "Acme", PhoneNumber: "555", Address: "addr",
	})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrEmptyImage)
}

func TestDeleteCompany(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	_, err := svc.CreateCompany(ctx, ports.CompanyInput{CompanyName: "Acme", PhoneNumber: "555", Address: "addr", Image: "img.png"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCompany(ctx, "co-1"))
	assert.ErrorIs(t, svc.DeleteCompany(ctx, "co-1"), ports.ErrNotFound)
	_, err = svc.GetCompany(ctx, "co-1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
