package invoices

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	catalogmemory "github.com/Apurer/clothes-shop-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/Apurer/clothes-shop-api/internal/domains/catalog/domain"
	invoicememory "github.com/Apurer/clothes-shop-api/internal/domains/invoices/adapters/memory"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/application"
	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/domain"
	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
	invoiceactivities "github.com/Apurer/clothes-shop-api/internal/platform/temporal/activities/invoices"
)

type workflowFixture struct {
	catalog *catalogmemory.Store
	env     *testsuite.TestWorkflowEnvironment
}

func newWorkflowFixture(t *testing.T) *workflowFixture {
	t.Helper()
	catalog := catalogmemory.NewStore()
	product, err := catalogdomain.NewProduct("p-1", "Linen shirt", "", decimal.NewFromInt(20), "c-1", "uploads/p-1.png",
		[]catalogdomain.StockEntry{{Size: "M", Color: "red", Quantity: 2}})
	require.NoError(t, err)
	_, err = catalog.SaveProduct(context.Background(), product)
	require.NoError(t, err)

	service := application.NewService(invoicememory.NewRepository(), catalog)
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	env.RegisterWorkflow(InvoicePostingWorkflow)
	env.RegisterActivityWithOptions(invoiceactivities.NewActivities(service).PostInvoice,
		activity.RegisterOptions{Name: invoiceactivities.PostInvoiceActivityName})
	return &workflowFixture{catalog: catalog, env: env}
}

func (f *workflowFixture) available(t *testing.T) int {
	t.Helper()
	product, err := f.catalog.GetProduct(context.Background(), "p-1")
	require.NoError(t, err)
	return product.Entity.Stock[0].Quantity
}

func posting(quantity int) InvoicePostingWorkflowInput {
	return InvoicePostingWorkflowInput{
		TraceID: "trace-1",
		Command: invoiceports.CreateInvoiceInput{
			CustomerName: "Ana",
			Lines: []invoiceports.LineInput{{
				ProductID: "p-1", Size: "M", Color: "red", Quantity: quantity, Price: decimal.NewFromInt(20),
			}},
		},
	}
}

func TestInvoicePostingWorkflow_PostsInvoice(t *testing.T) {
	f := newWorkflowFixture(t)

	f.env.ExecuteWorkflow(InvoicePostingWorkflow, posting(2))

	require.True(t, f.env.IsWorkflowCompleted())
	require.NoError(t, f.env.GetWorkflowError())
	var result invoiceports.PostingResult
	require.NoError(t, f.env.GetWorkflowResult(&result))
	assert.Equal(t, domain.StateApplied, result.State)
	require.NotNil(t, result.Invoice)
	assert.True(t, decimal.NewFromInt(40).Equal(result.Invoice.Entity.TotalAmount))
	assert.Equal(t, 0, f.available(t))
}

func TestInvoicePostingWorkflow_InsufficientStockIsNotRetried(t *testing.T) {
	f := newWorkflowFixture(t)

	f.env.ExecuteWorkflow(InvoicePostingWorkflow, posting(3))

	require.True(t, f.env.IsWorkflowCompleted())
	err := invoiceactivities.DecodeError(f.env.GetWorkflowError())
	require.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
	var insufficient *catalogdomain.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Available)
	assert.Equal(t, 3, insufficient.Requested)
	var lineErr *application.LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 0, lineErr.Index)
	assert.Equal(t, 2, f.available(t))
}
