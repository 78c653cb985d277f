package invoices

import (
	"go.temporal.io/sdk/workflow"

	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
	"github.com/Apurer/clothes-shop-api/internal/durable/temporal/sequences"
)

const (
	// InvoicePostingWorkflowName is the public identifier for registering the workflow.
	InvoicePostingWorkflowName = "invoices.workflows.Posting"
	// InvoicePostingTaskQueue is the queue consumed by the worker posting invoices.
	InvoicePostingTaskQueue = "INVOICE_POSTING"
)

// InvoicePostingWorkflowInput captures the posting request and the caller's trace.
type InvoicePostingWorkflowInput struct {
	Command invoiceports.CreateInvoiceInput
	TraceID string
}

// InvoicePostingWorkflow runs the posting sequence for a single invoice.
func InvoicePostingWorkflow(ctx workflow.Context, input InvoicePostingWorkflowInput) (*invoiceports.PostingResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("InvoicePostingWorkflow started", withTraceID(input.TraceID, "customer", input.Command.CustomerName)...)
	result, err := sequences.RunInvoicePostingSequence(ctx, input.Command)
	if err != nil {
		logger.Error("InvoicePostingWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("InvoicePostingWorkflow completed", withTraceID(input.TraceID, "invoiceId", result.Invoice.Entity.ID, "replayed", result.Replayed)...)
	return result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
