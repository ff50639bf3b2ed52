package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/bookhaven/bookstore-api/internal/domains/catalog/adapters/persistence/postgres"
	ordersmemory "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/bookhaven/bookstore-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/bookhaven/bookstore-api/internal/domains/orders/application"
	ordersports "github.com/bookhaven/bookstore-api/internal/domains/orders/ports"
	promomemory "github.com/bookhaven/bookstore-api/internal/domains/promotions/adapters/memory"
	promopostgres "github.com/bookhaven/bookstore-api/internal/domains/promotions/adapters/persistence/postgres"
	"github.com/bookhaven/bookstore-api/internal/platform/migrations"
	platformobservability "github.com/bookhaven/bookstore-api/internal/platform/observability"
	platformpostgres "github.com/bookhaven/bookstore-api/internal/platform/postgres"
	orderactivities "github.com/bookhaven/bookstore-api/internal/platform/temporal/activities/orders"
	invoiceworkflows "github.com/bookhaven/bookstore-api/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "bookstore-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	orderService, cleanupRepo := buildOrderService(ctx, logger, instruments)
	defer cleanupRepo()
	activities := orderactivities.NewActivities(orderService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, invoiceworkflows.InvoiceCreationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(invoiceworkflows.InvoiceCreationWorkflow, workflow.RegisterOptions{Name: invoiceworkflows.InvoiceCreationWorkflowName})
	w.RegisterActivityWithOptions(activities.CreateInvoice, activity.RegisterOptions{Name: orderactivities.CreateInvoiceActivityName})

	logger.Info("worker listening", slog.String("taskQueue", invoiceworkflows.InvoiceCreationTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildOrderService(ctx context.Context, logger *slog.Logger, instruments *platformobservability.Instruments) (ordersports.Service, func()) {
	var (
		orders      ordersports.Repository
		assignments ordersports.AssignmentRepository
		catalog     ordersports.BookCatalog
		ledger      ordersports.StockLedger
		promotions  ordersports.PromotionResolver
		cleanup     = func() {}
	)
	dsn := strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	if dsn == "" {
		logger.Warn("POSTGRES_DSN not set, worker using in-memory repositories")
		orderRepo := ordersmemory.NewRepository()
		catalogRepo := catalogmemory.NewRepository()
		orders, assignments = orderRepo, orderRepo
		catalog, ledger = catalogRepo, catalogRepo
		promotions = promomemory.NewRepository()
	} else {
		db, err := platformpostgres.Connect(ctx, dsn)
		if err != nil {
			logger.Error("worker failed to connect to postgres", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := migrations.Run(db); err != nil {
			logger.Error("worker failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		orderRepo := orderspostgres.NewRepository(db)
		catalogRepo := catalogpostgres.NewRepository(db)
		orders, assignments = orderRepo, orderRepo
		catalog, ledger = catalogRepo, catalogRepo
		promotions = promopostgres.NewRepository(db)
		if sqlDB, err := db.DB(); err == nil {
			cleanup = func() { _ = sqlDB.Close() }
		}
		logger.Info("worker repositories configured with postgres")
	}
	core := ordersapp.NewService(orders, assignments, catalog, ledger, promotions)
	service := ordersobs.New(
		core,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	return service, cleanup
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
