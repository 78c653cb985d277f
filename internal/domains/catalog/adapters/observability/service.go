package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/clothes-shop-api/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) CreateCategory(ctx context.Context, name string) (*catalogports.CategoryProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateCategory")
	defer span.End()

	result, err := s.inner.CreateCategory(ctx, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create category", slog.String("category.name", name))
	}
	span.SetAttributes(attribute.String("category.id", result.Entity.ID))
	s.logInfo(ctx, "category created", slog.String("category.id", result.Entity.ID))
	return result, nil
}

func (s *Service) RenameCategory(ctx context.Context, id, name string) (*catalogports.CategoryProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.RenameCategory", trace.WithAttributes(attribute.String("category.id", id)))
	defer span.End()

	result, err := s.inner.RenameCategory(ctx, id, name)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to rename category", slog.String("category.id", id))
	}
	s.logInfo(ctx, "category renamed", slog.String("category.id", id))
	return result, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (*catalogports.CategoryProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetCategory", trace.WithAttributes(attribute.String("category.id", id)))
	defer span.End()

	result, err := s.inner.GetCategory(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load category", slog.String("category.id", id))
	}
	return result, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]*catalogports.CategoryProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListCategories")
	defer span.End()

	result, err := s.inner.ListCategories(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list categories")
	}
	span.SetAttributes(attribute.Int("category.count", len(result)))
	return result, nil
}

func (s *Service) CountCategories(ctx context.Context) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CountCategories")
	defer span.End()

	result, err := s.inner.CountCategories(ctx)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to count categories")
	}
	return result, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteCategory", trace.WithAttributes(attribute.String("category.id", id)))
	defer span.End()

	if err := s.inner.DeleteCategory(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete category", slog.String("category.id", id))
	}
	s.logInfo(ctx, "category deleted", slog.String("category.id", id))
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, input catalogports.ProductInput) (*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct",
		trace.WithAttributes(attribute.String("product.category_id", input.CategoryID), attribute.Int("product.variants", len(input.Stock))))
	defer span.End()

	result, err := s.inner.CreateProduct(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create product", slog.String("product.title", input.Title))
	}
	s.metrics.recordProductCreated(ctx, result.Entity.CategoryID)
	s.logInfo(ctx, "product created", slog.String("product.id", result.Entity.ID), slog.Int("product.units", result.Entity.TotalUnits()))
	return result, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id string, patch catalogports.ProductPatch) (*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	result, err := s.inner.UpdateProduct(ctx, id, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update product", slog.String("product.id", id))
	}
	s.logInfo(ctx, "product updated", slog.String("product.id", id), slog.Bool("stock.replaced", patch.Stock != nil))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id))
	}
	return result, nil
}

func (s *Service) ListProducts(ctx context.Context, filter catalogports.ProductFilter) ([]*catalogports.ProductProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts", trace.WithAttributes(attribute.String("filter.category_id", filter.CategoryID)))
	defer span.End()

	result, err := s.inner.ListProducts(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products")
	}
	span.SetAttributes(attribute.Int("product.count", len(result)))
	return result, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CatalogService.DeleteProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	if err := s.inner.DeleteProduct(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete product", slog.String("product.id", id))
	}
	s.metrics.recordProductDeleted(ctx)
	s.logInfo(ctx, "product deleted", slog.String("product.id", id))
	return nil
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
	productsCreated metric.Int64Counter
	productsDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("catalog.service.products_created", metric.WithDescription("Number of products created"))
	deleted, _ := m.Int64Counter("catalog.service.products_deleted", metric.WithDescription("Number of products deleted"))
	return serviceMetrics{productsCreated: created, productsDeleted: deleted}
}

func (m serviceMetrics) recordProductCreated(ctx context.Context, categoryID string) {
	if m.productsCreated != nil {
		m.productsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("product.category_id", categoryID)))
	}
}

func (m serviceMetrics) recordProductDeleted(ctx context.Context) {
	if m.productsDeleted != nil {
		m.productsDeleted.Add(ctx, 1)
	}
}

var _ catalogports.Service = (*Service)(nil)
