package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/clothes-shop-api/internal/domains/invoices/application"
	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
)

const tracerName = "github.com/Apurer/clothes-shop-api/internal/domains/invoices/adapters/observability/service"

// Service decorates the invoice service with tracing, logging, and metrics.
type Service struct {
	inner   invoiceports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core invoice service.
func New(inner invoiceports.Service, opts ...Option) invoiceports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) CreateInvoice(ctx context.Context, input invoiceports.CreateInvoiceInput) (*invoiceports.PostingResult, error) {
	ctx, span := s.tracer.Start(ctx, "InvoiceService.CreateInvoice",
		trace.WithAttributes(attribute.Int("invoice.lines", len(input.Lines)), attribute.Bool("invoice.idempotent", input.IdempotencyKey != "")))
	defer span.End()

	s.logInfo(ctx, "posting invoice", slog.Int("invoice.lines", len(input.Lines)))
	result, err := s.inner.CreateInvoice(ctx, input)
	if err != nil {
		state := application.FailedState(err)
		span.SetAttributes(attribute.String("invoice.state", string(state)))
		s.metrics.recordFailed(ctx, string(state))
		attrs := []slog.Attr{slog.String("invoice.state", string(state))}
		var lineErr *application.LineError
		if errors.As(err, &lineErr) {
			attrs = append(attrs,
				slog.Int("line.index", lineErr.Index),
				slog.String("product.id", lineErr.ProductID),
				slog.String("size", lineErr.Size),
				slog.String("color", lineErr.Color))
		}
		return nil, s.handleError(ctx, span, err, "invoice posting failed", attrs...)
	}
	invoice := result.Invoice.Entity
	span.SetAttributes(
		attribute.String("invoice.id", invoice.ID),
		attribute.String("invoice.state", string(result.State)),
		attribute.Bool("invoice.replayed", result.Replayed))
	if !result.Replayed {
		s.metrics.recordPosted(ctx, int64(invoice.Units()))
	}
	s.logInfo(ctx, "invoice posted",
		slog.String("invoice.id", invoice.ID),
		slog.String("invoice.state", string(result.State)),
		slog.String("invoice.total", invoice.TotalAmount.StringFixed(2)),
		slog.Bool("invoice.replayed", result.Replayed))
	return result, nil
}

func (s *Service) GetInvoice(ctx context.Context, id string) (*invoiceports.InvoiceProjection, error) {
	ctx, span := s.tracer.Start(ctx, "InvoiceService.GetInvoice", trace.WithAttributes(attribute.String("invoice.id", id)))
	defer span.End()

	result, err := s.inner.GetInvoice(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load invoice", slog.String("invoice.id", id))
	}
	return result, nil
}

func (s *Service) ListInvoices(ctx context.Context) ([]*invoiceports.InvoiceProjection, error) {
	ctx, span := s.tracer.Start(ctx, "InvoiceService.ListInvoices")
	defer span.End()

	result, err := s.inner.ListInvoices(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list invoices")
	}
	span.SetAttributes(attribute.Int("invoice.count", len(result)))
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	invoicesPosted metric.Int64Counter
	invoicesFailed metric.Int64Counter
	unitsDeducted  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	posted, _ := m.Int64Counter("invoices.service.invoices_posted", metric.WithDescription("Number of invoices posted"))
	failed, _ := m.Int64Counter("invoices.service.invoices_failed", metric.WithDescription("Number of invoice postings that failed"))
	units, _ := m.Int64Counter("invoices.service.stock_units_deducted", metric.WithDescription("Stock units deducted by posted invoices"))
	return serviceMetrics{invoicesPosted: posted, invoicesFailed: failed, unitsDeducted: units}
}

func (m serviceMetrics) recordPosted(ctx context.Context, units int64) {
	if m.invoicesPosted != nil {
		m.invoicesPosted.Add(ctx, 1)
	}
	if m.unitsDeducted != nil {
		m.unitsDeducted.Add(ctx, units)
	}
}

func (m serviceMetrics) recordFailed(ctx context.Context, state string) {
	if m.invoicesFailed != nil {
		m.invoicesFailed.Add(ctx, 1, metric.WithAttributes(attribute.String("invoice.state", state)))
	}
}

var _ invoiceports.Service = (*Service)(nil)
