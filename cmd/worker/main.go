package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	catalogmemory "github.com/shopsphere/commerce-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/shopsphere/commerce-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/shopsphere/commerce-api/internal/domains/catalog/ports"
	notifamqp "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/amqp"
	notifmemory "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/memory"
	notifredis "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/redis"
	notifapp "github.com/shopsphere/commerce-api/internal/domains/notifications/application"
	notifports "github.com/shopsphere/commerce-api/internal/domains/notifications/ports"
	ordersmemory "github.com/shopsphere/commerce-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/shopsphere/commerce-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/shopsphere/commerce-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/shopsphere/commerce-api/internal/domains/orders/application"
	ordersports "github.com/shopsphere/commerce-api/internal/domains/orders/ports"
	orderactivities "github.com/shopsphere/commerce-api/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/shopsphere/commerce-api/internal/durable/temporal/workflows/orders"
	"github.com/shopsphere/commerce-api/internal/platform/migrations"
	platformobservability "github.com/shopsphere/commerce-api/internal/platform/observability"
	platformpostgres "github.com/shopsphere/commerce-api/internal/platform/postgres"
	platformrabbitmq "github.com/shopsphere/commerce-api/internal/platform/rabbitmq"
)

func main() {
	ctx := context.Background()
	const serviceName = "commerce-worker"
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

	orderService, cleanupService := buildOrderService(ctx, instruments, logger)
	defer cleanupService()
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

	w := worker.New(temporalClient, orderworkflows.OrderPlacementTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderPlacementWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderPlacementWorkflowName})
	w.RegisterActivityWithOptions(activities.PlaceOrder, activity.RegisterOptions{Name: orderactivities.PlaceOrderActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderPlacementTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

// buildOrderService wires the order workflow engine the activity executes
// against, using the same fallback rules as the API process.
func buildOrderService(ctx context.Context, instruments *platformobservability.Instruments, logger *slog.Logger) (ordersports.Service, func()) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var (
		catalogRepo catalogports.Repository
		orderRepo   ordersports.OrderRepository
		itemRepo    ordersports.OrderItemRepository
		idemStore   ordersports.IdempotencyStore
	)
	db, closeDB := platformpostgres.ConnectFromEnv(ctx, logger)
	cleanups = append(cleanups, closeDB)
	if db != nil {
		if err := migrations.Run(db); err != nil {
			logger.Error("failed to run migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		catalogRepo = catalogpostgres.NewRepository(db)
		orderRepo = orderspostgres.NewOrderRepository(db)
		itemRepo = orderspostgres.NewOrderItemRepository(db)
		idemStore = orderspostgres.NewIdempotencyStore(db)
	} else {
		catalogRepo = catalogmemory.NewRepository()
		orderRepo = ordersmemory.NewOrderRepository()
		itemRepo = ordersmemory.NewOrderItemRepository()
		idemStore = ordersmemory.NewIdempotencyStore()
	}

	var tokenStore notifports.TokenStore = notifmemory.NewTokenStore()
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
		cleanups = append(cleanups, func() { _ = redisClient.Close() })
		tokenStore = notifredis.NewTokenStore(redisClient)
	}
	notifOptions := []notifapp.Option{notifapp.WithLogger(logger)}
	if url := strings.TrimSpace(os.Getenv("RABBITMQ_URL")); url != "" {
		if conn, err := platformrabbitmq.Connect(url); err != nil {
			logger.Warn("worker failed to connect to rabbitmq, notifications will be logged and dropped", slog.String("error", err.Error()))
		} else if publisher, err := notifamqp.NewPublisher(conn.Channel, envOrDefault("NOTIFY_EXCHANGE", "order.notifications")); err != nil {
			logger.Warn("worker failed to declare notification exchange", slog.String("error", err.Error()))
			conn.Close()
		} else {
			cleanups = append(cleanups, conn.Close)
			notifOptions = append(notifOptions, notifapp.WithPublisher(publisher))
		}
	}
	notifService := notifapp.NewService(tokenStore, notifOptions...)

	core := ordersapp.NewService(orderRepo, itemRepo, catalogRepo,
		ordersapp.WithNotifier(notifService),
		ordersapp.WithTokenDirectory(notifService),
		ordersapp.WithIdempotencyStore(idemStore),
		ordersapp.WithLogger(logger),
	)
	service := ordersobs.New(core,
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
