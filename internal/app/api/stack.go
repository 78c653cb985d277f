package api

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	catalogmemory "github.com/Apurer/clothes-shop-api/internal/domains/catalog/adapters/memory"
	catalogobs "github.com/Apurer/clothes-shop-api/internal/domains/catalog/adapters/observability"
	catalogpostgres "github.com/Apurer/clothes-shop-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/Apurer/clothes-shop-api/internal/domains/catalog/application"
	catalogports "github.com/Apurer/clothes-shop-api/internal/domains/catalog/ports"
	companymemory "github.com/Apurer/clothes-shop-api/internal/domains/companies/adapters/memory"
	companyobs "github.com/Apurer/clothes-shop-api/internal/domains/companies/adapters/observability"
	companypostgres "github.com/Apurer/clothes-shop-api/internal/domains/companies/adapters/persistence/postgres"
	companyapp "github.com/Apurer/clothes-shop-api/internal/domains/companies/application"
	companyports "github.com/Apurer/clothes-shop-api/internal/domains/companies/ports"
	invoicememory "github.com/Apurer/clothes-shop-api/internal/domains/invoices/adapters/memory"
	invoiceobs "github.com/Apurer/clothes-shop-api/internal/domains/invoices/adapters/observability"
	invoicepostgres "github.com/Apurer/clothes-shop-api/internal/domains/invoices/adapters/persistence/postgres"
	invoiceapp "github.com/Apurer/clothes-shop-api/internal/domains/invoices/application"
	invoiceports "github.com/Apurer/clothes-shop-api/internal/domains/invoices/ports"
	usermemory "github.com/Apurer/clothes-shop-api/internal/domains/users/adapters/memory"
	userobs "github.com/Apurer/clothes-shop-api/internal/domains/users/adapters/observability"
	userpostgres "github.com/Apurer/clothes-shop-api/internal/domains/users/adapters/persistence/postgres"
	userredis "github.com/Apurer/clothes-shop-api/internal/domains/users/adapters/redis"
	userapp "github.com/Apurer/clothes-shop-api/internal/domains/users/application"
	userports "github.com/Apurer/clothes-shop-api/internal/domains/users/ports"
	"github.com/Apurer/clothes-shop-api/internal/platform/migrations"
	platformobservability "github.com/Apurer/clothes-shop-api/internal/platform/observability"
	platformpostgres "github.com/Apurer/clothes-shop-api/internal/platform/postgres"
)

// Stack holds the decorated services every process shares.
type Stack struct {
	Catalog   catalogports.Service
	Companies companyports.Service
	Invoices  invoiceports.Service
	Users     userports.Service
	// DB is nil when the stack runs on in-memory adapters.
	DB *gorm.DB

	cleanups []func()
}

// Close releases connections in reverse order of acquisition.
func (s *Stack) Close() {
	for i := len(s.cleanups) - 1; i >= 0; i-- {
		s.cleanups[i]()
	}
}

// BuildStack picks PostgreSQL adapters when the DSN dials and in-memory ones
// otherwise. Sessions go to Redis whenever RedisURL is set.
func BuildStack(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) (*Stack, error) {
	logger := instruments.Logger
	stack := &Stack{}

	db, cleanupDB := platformpostgres.ConnectOrFallback(ctx, cfg.PostgresDSN, logger)
	stack.cleanups = append(stack.cleanups, cleanupDB)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			stack.Close()
			return nil, fmt.Errorf("migrate schema: %w", err)
		}
		stack.DB = db
	}

	var (
		categories  catalogports.CategoryRepository
		products    catalogports.ProductRepository
		ledger      catalogports.StockLedger
		companyRepo companyports.Repository
		invoiceRepo invoiceports.Repository
		userRepo    userports.Repository
		sessions    userports.SessionStore
	)
	invoiceOpts := []invoiceapp.Option{invoiceapp.WithStoreTimeout(cfg.StoreTimeout)}
	if db != nil {
		categories = catalogpostgres.NewCategoryRepository(db)
		products = catalogpostgres.NewProductRepository(db)
		ledger = catalogpostgres.NewStockLedger(db)
		companyRepo = companypostgres.NewRepository(db)
		invoiceRepo = invoicepostgres.NewRepository(db)
		userRepo = userpostgres.NewRepository(db)
		sessions = userpostgres.NewSessionStore(db)
		invoiceOpts = append(invoiceOpts,
			invoiceapp.WithTransactor(platformpostgres.NewTransactor(db)),
			invoiceapp.WithIdempotencyStore(invoicepostgres.NewIdempotencyStore(db)),
		)
	} else {
		store := catalogmemory.NewStore()
		categories, products, ledger = store, store, store
		companyRepo = companymemory.NewRepository()
		invoiceRepo = invoicememory.NewRepository()
		userRepo = usermemory.NewRepository()
		sessions = usermemory.NewSessionStore()
		invoiceOpts = append(invoiceOpts, invoiceapp.WithIdempotencyStore(invoicememory.NewIdempotencyStore()))
	}

	if cfg.RedisURL != "" {
		redisClient, err := userredis.NewClientFromURL(cfg.RedisURL)
		if err != nil {
			stack.Close()
			return nil, fmt.Errorf("redis session store: %w", err)
		}
		stack.cleanups = append(stack.cleanups, func() { _ = redisClient.Close() })
		sessions = userredis.NewSessionStore(redisClient, userredis.DefaultKeyPrefix)
		logger.Info("sessions stored in redis")
	}

	stack.Catalog = catalogobs.New(
		catalogapp.NewService(categories, products),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	stack.Companies = companyobs.New(
		companyapp.NewService(companyRepo),
		companyobs.WithLogger(logger),
		companyobs.WithTracer(instruments.Tracer("internal.companies.application")),
	)
	stack.Invoices = invoiceobs.New(
		invoiceapp.NewService(invoiceRepo, ledger, invoiceOpts...),
		invoiceobs.WithLogger(logger),
		invoiceobs.WithTracer(instruments.Tracer("internal.invoices.application")),
		invoiceobs.WithMeter(instruments.Meter("internal.invoices.application")),
	)
	stack.Users = userobs.New(
		userapp.NewService(userRepo, sessions, userapp.WithSessionTTL(cfg.SessionTTL)),
		userobs.WithLogger(logger),
		userobs.WithTracer(instruments.Tracer("internal.users.application")),
		userobs.WithMeter(instruments.Meter("internal.users.application")),
	)
	logger.Info("service stack ready", slog.Bool("postgres", db != nil), slog.Bool("redisSessions", cfg.RedisURL != ""))
	return stack, nil
}
