package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
	invoiceactivities "github.com/Apurer/clothes-shop-api/internal/platform/temporal/activities/invoices"
)

// RunInvoicePostingSequence executes the posting activity exactly once.
// Stock movements are not idempotent, so a failed attempt is never retried here;
// the caller retries with the same idempotency key instead.
func RunInvoicePostingSequence(ctx workflow.Context, input invoiceports.CreateInvoiceInput) (*invoiceports.PostingResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("invoice posting sequence started", "lines", len(input.Lines))
	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var result invoiceports.PostingResult
	err := workflow.ExecuteActivity(ctx, invoiceactivities.PostInvoiceActivityName, input).Get(ctx, &result)
	if err != nil {
		logger.Error("invoice posting sequence failed", "error", err)
		return nil, err
	}
	logger.Info("invoice posting sequence completed", "invoiceId", result.Invoice.Entity.ID, "state", result.State)
	return &result, nil
}
