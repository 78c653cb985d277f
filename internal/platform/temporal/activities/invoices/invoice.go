package invoices

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

// PostInvoiceActivityName posts an invoice: stock movements plus the insert.
const PostInvoiceActivityName = "invoices.activities.PostInvoice"

// Activities groups activities that operate on the invoices bounded context.
type Activities struct {
	service invoiceports.Service
}

// NewActivities wires the invoice service into the Temporal activities bundle.
func NewActivities(service invoiceports.Service) *Activities {
	return &Activities{service: service}
}

// PostInvoice runs the posting use case. Business failures come back as
// non-retryable application errors so the workflow never deducts twice.
func (a *Activities) PostInvoice(ctx context.Context, input invoiceports.CreateInvoiceInput) (*invoiceports.PostingResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("invoice posting activity not initialized")
		return nil, errors.New("invoice posting activity not initialized")
	}
	logger.Info("PostInvoice activity started", "lines", len(input.Lines), "customer", input.CustomerName)
	result, err := a.service.CreateInvoice(ctx, input)
	if err != nil {
		logger.Error("PostInvoice activity failed", "error", err)
		return nil, EncodeError(err)
	}
	logger.Info("PostInvoice activity completed", "invoiceId", result.Invoice.Entity.ID, "replayed", result.Replayed)
	return result, nil
}
