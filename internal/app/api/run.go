package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	bookstoreserver "github.com/bookhaven/bookstore-api/go"

	catalogmemory "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/bookhaven/bookstore-api/internal/domains/catalog/application"
	catalogports "github.com/bookhaven/bookstore-api/internal/domains/catalog/ports"

	promomemory "github.com/bookhaven/bookstore-api/internal/domains/promotions/adapters/memory"
	promopostgres "github.com/bookhaven/bookstore-api/internal/domains/promotions/adapters/persistence/postgres"
	promoapp "github.com/bookhaven/bookstore-api/internal/domains/promotions/application"
	promoports "github.com/bookhaven/bookstore-api/internal/domains/promotions/ports"

	ordersmemory "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/bookhaven/bookstore-api/internal/domains/orders/application"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"

	usersmemory "github.com/bookhaven/bookstore-api/internal/domains/users/adapters/memory"
	userspostgres "github.com/bookhaven/bookstore-api/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/bookhaven/bookstore-api/internal/domains/users/application"
	usersports "github.com/bookhaven/bookstore-api/internal/domains/users/ports"

	"github.com/bookhaven/bookstore-api/internal/platform/migrations"
	platformobservability "github.com/bookhaven/bookstore-api/internal/platform/observability"
	platformpostgres "github.com/bookhaven/bookstore-api/internal/platform/postgres"
	"github.com/bookhaven/bookstore-api/internal/shared/cache"
	cachememory "github.com/bookhaven/bookstore-api/internal/shared/cache/memory"
)

// Run boots the bookstore HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "bookstore-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, cleanupDB := connectDatabase(ctx, cfg, logger)
	defer cleanupDB()

	repos := buildRepositories(db)

	catalogService := catalogapp.NewService(repos.catalog)
	promoService := promoapp.NewService(repos.promotions, repos.catalog)

	coreOrderService := ordersapp.NewService(repos.orders, repos.assignments, repos.catalog, repos.ledger(), repos.promotions)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.WorkflowOrchestrator = ordersworkflows.NewInlineInvoiceWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running inline invoice creation", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalInvoiceWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	userCache := cache.Noop
	if !cfg.CacheDisabled {
		userCache = cachememory.NewCache()
	}
	userService := usersapp.NewService(repos.users, userCache)

	handlers := bookstoreserver.ApiHandleFunctions{
		BooksAPI:      bookstoreserver.NewBooksAPI(catalogService),
		PromotionsAPI: bookstoreserver.NewPromotionsAPI(promoService),
		OrdersAPI:     bookstoreserver.NewOrdersAPI(orderService, orderWorkflows),
		UsersAPI:      bookstoreserver.NewUsersAPI(userService),
	}

	// gin bakes the handler chain per route at registration, so the middleware
	// has to be on the engine before the routes are added.
	engine := gin.Default()
	engine.Use(otelgin.Middleware(serviceName))
	router := bookstoreserver.NewRouterWithGinEngine(engine, handlers)
	addr := ":" + cfg.Port
	logger.Info("bookstore API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("bookstore API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// catalogStore is the catalog adapter surface the API needs: book persistence
// plus the stock ledger, both backed by the same store.
type catalogStore interface {
	catalogports.Repository
	catalogports.StockLedger
}

type repositories struct {
	catalog     catalogStore
	promotions  promoports.Repository
	orders      ordersports.Repository
	assignments ordersports.AssignmentRepository
	users       usersports.Repository
}

// ledger exposes the catalog store under the orders-side contract.
func (r repositories) ledger() ordersports.StockLedger { return r.catalog }

func buildRepositories(db *gorm.DB) repositories {
	if db == nil {
		orderRepo := ordersmemory.NewRepository()
		return repositories{
			catalog:     catalogmemory.NewRepository(),
			promotions:  promomemory.NewRepository(),
			orders:      orderRepo,
			assignments: orderRepo,
			users:       usersmemory.NewRepository(),
		}
	}
	orderRepo := orderspostgres.NewRepository(db)
	return repositories{
		catalog:     catalogpostgres.NewRepository(db),
		promotions:  promopostgres.NewRepository(db),
		orders:      orderRepo,
		assignments: orderRepo,
		users:       userspostgres.NewRepository(db),
	}
}

func connectDatabase(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, using in-memory repositories")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, using in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, using in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, using in-memory repositories", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("repositories configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
