package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	companyports "github.com/Apurer/clothes-shop-api/internal/domains/companies/ports"
)

const tracerName = "github.com/Apurer/clothes-shop-api/internal/domains/companies/adapters/observability/service"

var _ companyports.Service = (*Service)(nil)

// Service decorates the companies service with tracing and logging.
type Service struct {
	inner  companyports.Service
	tracer trace.Tracer
	logger *slog.Logger
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

func New(inner companyports.Service, opts ...Option) companyports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s
}

func (s *Service) CreateCompany(ctx context.Context, input companyports.CompanyInput) (*companyports.CompanyProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CompaniesService.CreateCompany")
	defer span.End()

	result, err := s.inner.CreateCompany(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create company", slog.String("company.name", input.CompanyName))
	}
	span.SetAttributes(attribute.String("company.id", result.Entity.ID))
	s.logger.InfoContext(ctx, "company created", slog.String("company.id", result.Entity.ID))
	return result, nil
}

func (s *Service) GetCompany(ctx context.Context, id string) (*companyports.CompanyProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CompaniesService.GetCompany", trace.WithAttributes(attribute.String("company.id", id)))
	defer span.End()

	result, err := s.inner.GetCompany(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load company", slog.String("company.id", id))
	}
	return result, nil
}

func (s *Service) ListCompanies(ctx context.Context) ([]*companyports.CompanyProjection, error) {
	ctx, span := s.tracer.Start(ctx, "CompaniesService.ListCompanies")
	defer span.End()

	result, err := s.inner.ListCompanies(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list companies")
	}
	span.SetAttributes(attribute.Int("company.count", len(result)))
	return result, nil
}

func (s *Service) DeleteCompany(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CompaniesService.DeleteCompany", trace.WithAttributes(attribute.String("company.id", id)))
	defer span.End()

	if err := s.inner.DeleteCompany(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete company", slog.String("company.id", id))
	}
	s.logger.InfoContext(ctx, "company deleted", slog.String("company.id", id))
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	args := make([]any, 0, len(attrs)+1)
	for _, attr := range attrs {
		args = append(args, attr)
	}
	args = append(args, slog.Any("error", err))
	s.logger.ErrorContext(ctx, msg, args...)
	return err
}
