package api

import (
	"context"
	"fmt"
	"log/slog"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	invoiceworkflows "github.com/Apurer/clothes-shop-api/internal/durable/temporal/workflows/invoices"
	invoiceactivities "github.com/Apurer/clothes-shop-api/internal/platform/temporal/activities/invoices"
)

const workerServiceName = "clothes-shop-worker"

// RunWorker serves the invoice posting workflow on its task queue until ctx
// is cancelled.
func RunWorker(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := initObservability(ctx, cfg, workerServiceName)
	if err != nil {
		return err
	}
	defer shutdown()
	logger := instruments.Logger

	stack, err := BuildStack(ctx, cfg, instruments)
	if err != nil {
		return err
	}
	defer stack.Close()
	if stack.DB == nil {
		logger.Warn("worker running on in-memory stores, postings are not visible to the API")
	}

	temporalClient, err := connectTemporalClient(cfg, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	activities := invoiceactivities.NewActivities(stack.Invoices)
	w := worker.New(temporalClient, invoiceworkflows.InvoicePostingTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(invoiceworkflows.InvoicePostingWorkflow, workflow.RegisterOptions{Name: invoiceworkflows.InvoicePostingWorkflowName})
	w.RegisterActivityWithOptions(activities.PostInvoice, activity.RegisterOptions{Name: invoiceactivities.PostInvoiceActivityName})

	stop := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()
	logger.Info("worker listening", slog.String("taskQueue", invoiceworkflows.InvoicePostingTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(stop); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
