package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
	invoiceworkflows "github.com/Apurer/clothes-shop-api/internal/durable/temporal/workflows/invoices"
	invoiceactivities "github.com/Apurer/clothes-shop-api/internal/platform/temporal/activities/invoices"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalInvoiceWorkflows)(nil)
	_ ports.WorkflowOrchestrator = (*InlineInvoiceWorkflows)(nil)
)

// TemporalInvoiceWorkflows posts invoices through a Temporal cluster.
type TemporalInvoiceWorkflows struct {
	client    client.Client
	taskQueue string
}

// NewTemporalInvoiceWorkflows wires a Temporal client into the orchestrator.
func NewTemporalInvoiceWorkflows(c client.Client) *TemporalInvoiceWorkflows {
	return &TemporalInvoiceWorkflows{client: c, taskQueue: invoiceworkflows.InvoicePostingTaskQueue}
}

// PostInvoice starts the posting workflow and waits for its outcome.
// A second request carrying a key whose workflow is still running joins
// that run and reports the result as a replay.
func (o *TemporalInvoiceWorkflows) PostInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*ports.PostingResult, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal invoice workflows not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildInvoicePostingWorkflowID(input, traceComponent)
	options := client.StartWorkflowOptions{
		ID:                                       workflowID,
		TaskQueue:                                o.taskQueue,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		invoiceworkflows.InvoicePostingWorkflow,
		invoiceworkflows.InvoicePostingWorkflowInput{Command: input, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var result ports.PostingResult
			if err := existingRun.Get(ctx, &result); err != nil {
				return nil, invoiceactivities.DecodeError(err)
			}
			result.Replayed = true
			return &result, nil
		}
		return nil, err
	}
	var result ports.PostingResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, invoiceactivities.DecodeError(err)
	}
	return &result, nil
}

// InlineInvoiceWorkflows posts invoices in-process, for tests and when Temporal is disabled.
type InlineInvoiceWorkflows struct {
	service ports.Service
}

// NewInlineInvoiceWorkflows wraps the invoices service for synchronous execution.
func NewInlineInvoiceWorkflows(service ports.Service) *InlineInvoiceWorkflows {
	return &InlineInvoiceWorkflows{service: service}
}

// PostInvoice delegates to the application service.
func (o *InlineInvoiceWorkflows) PostInvoice(ctx context.Context, input ports.CreateInvoiceInput) (*ports.PostingResult, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline invoice workflows not configured")
	}
	return o.service.CreateInvoice(ctx, input)
}

func buildInvoicePostingWorkflowID(input ports.CreateInvoiceInput, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("invoice-posting-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("invoice-posting-%d-%s", time.Now().UnixNano(), traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
