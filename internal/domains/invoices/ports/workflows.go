package ports

import "context"

// WorkflowOrchestrator posts invoices either durably or inline.
type WorkflowOrchestrator interface {
	PostInvoice(ctx context.Context, input CreateInvoiceInput) (*PostingResult, error)
}
