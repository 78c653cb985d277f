package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	shopserver "github.com/Apurer/clothes-shop-api/go"
	invoiceworkflows "github.com/Apurer/clothes-shop-api/internal/domains/invoices/adapters/workflows"
	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
	platformobservability "github.com/Apurer/clothes-shop-api/internal/platform/observability"
	"github.com/Apurer/clothes-shop-api/internal/platform/uploads"
)

const (
	apiServiceName  = "clothes-shop-api"
	shutdownTimeout = 5 * time.Second
)

// Run boots the shop HTTP API and blocks until ctx is cancelled or the
// server fails.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := initObservability(ctx, cfg, apiServiceName)
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

	invoiceWorkflows, closeWorkflows := invoiceWorkflowsFor(stack, func() (client.Client, error) {
		return connectTemporalClient(cfg, instruments, "temporal-client")
	}, logger)
	defer closeWorkflows()
	if _, ok := invoiceWorkflows.(*invoiceworkflows.TemporalInvoiceWorkflows); ok {
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	images := uploads.NewStore(cfg.UploadDir)
	handlers := shopserver.ApiHandleFunctions{
		CategoryAPI: shopserver.NewCategoryAPI(stack.Catalog),
		ProductAPI:  shopserver.NewProductAPI(stack.Catalog, images),
		CompanyAPI:  shopserver.NewCompanyAPI(stack.Companies, images),
		InvoiceAPI:  shopserver.NewInvoiceAPI(stack.Invoices, invoiceWorkflows),
		AuthAPI:     shopserver.NewAuthAPI(stack.Users),
	}
	opts := shopserver.RouterOptions{
		UploadDir:  images.Dir(),
		Middleware: []gin.HandlerFunc{otelgin.Middleware(apiServiceName)},
	}
	if cfg.AuthDisabled {
		logger.Warn("authentication disabled, write routes are open")
	} else {
		opts.Auth = shopserver.RequireAuth(stack.Users)
	}
	if cfg.Environment != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           shopserver.NewRouter(handlers, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("shop API listening", slog.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("shop API server exited", slog.String("addr", srv.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down shop API")
		return srv.Shutdown(shutdownCtx)
	}
}

// invoiceWorkflowsFor posts through Temporal only when the stack is backed by
// PostgreSQL. The worker builds its own stack, so with in-memory stores its
// activities would see none of the API's products.
func invoiceWorkflowsFor(stack *Stack, connect func() (client.Client, error), logger *slog.Logger) (invoiceports.WorkflowOrchestrator, func()) {
	inline := invoiceworkflows.NewInlineInvoiceWorkflows(stack.Invoices)
	if stack.DB == nil {
		logger.Warn("Temporal posting needs PostgreSQL shared with the worker, posting invoices inline")
		return inline, func() {}
	}
	temporalClient, err := connect()
	if err != nil {
		logger.Warn("Temporal workflows unavailable, posting invoices inline", slog.String("error", err.Error()))
		return inline, func() {}
	}
	return invoiceworkflows.NewTemporalInvoiceWorkflows(temporalClient), temporalClient.Close
}

func initObservability(ctx context.Context, cfg Config, serviceName string) (*platformobservability.Instruments, func(), error) {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.Settings{
		ServiceName:  serviceName,
		Environment:  cfg.Environment,
		LogLevel:     cfg.LogLevel,
		OTLPEndpoint: cfg.OTLPEndpoint,
		OTLPInsecure: cfg.OTLPInsecure,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize observability: %w", err)
	}
	return instruments, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}, nil
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments, tracerName string) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(temporalotel.TracerOptions{
		Tracer: instruments.Tracer(tracerName),
	})
	if err != nil {
		return nil, err
	}
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
