package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	catalogmemory "github.com/shopsphere/commerce-api/internal/domains/catalog/adapters/memory"
	catalogpostgres "github.com/shopsphere/commerce-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/shopsphere/commerce-api/internal/domains/catalog/ports"
	notifamqp "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/amqp"
	notifhttp "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/http"
	notifmemory "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/memory"
	notifredis "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/redis"
	notifapp "github.com/shopsphere/commerce-api/internal/domains/notifications/application"
	notifports "github.com/shopsphere/commerce-api/internal/domains/notifications/ports"
	ordershttp "github.com/shopsphere/commerce-api/internal/domains/orders/adapters/http"
	ordersmemory "github.com/shopsphere/commerce-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/shopsphere/commerce-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/shopsphere/commerce-api/internal/domains/orders/adapters/persistence/postgres"
	ordersworkflows "github.com/shopsphere/commerce-api/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/shopsphere/commerce-api/internal/domains/orders/application"
	ordersports "github.com/shopsphere/commerce-api/internal/domains/orders/ports"
	"github.com/shopsphere/commerce-api/internal/platform/migrations"
	platformobservability "github.com/shopsphere/commerce-api/internal/platform/observability"
	platformpostgres "github.com/shopsphere/commerce-api/internal/platform/postgres"
	platformrabbitmq "github.com/shopsphere/commerce-api/internal/platform/rabbitmq"
	"github.com/shopsphere/commerce-api/internal/shared/httpauth"
)

// Run boots the commerce HTTP API with observability, repositories, and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "commerce-api"
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

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	stores, cleanupStores := buildStores(ctx, cfg, logger)
	defer cleanupStores()

	tokenStore, cleanupTokens := buildTokenStore(cfg, logger)
	defer cleanupTokens()
	notifOptions := []notifapp.Option{notifapp.WithLogger(logger)}
	publisher, cleanupPublisher := buildPublisher(cfg, logger)
	defer cleanupPublisher()
	if publisher != nil {
		notifOptions = append(notifOptions, notifapp.WithPublisher(publisher))
	}
	notifService := notifapp.NewService(tokenStore, notifOptions...)

	orderOptions := []ordersapp.Option{
		ordersapp.WithNotifier(notifService),
		ordersapp.WithTokenDirectory(notifService),
		ordersapp.WithIdempotencyStore(stores.idempotency),
		ordersapp.WithLogger(logger),
	}
	if cfg.LowStockThreshold > 0 {
		orderOptions = append(orderOptions, ordersapp.WithLowStockThreshold(cfg.LowStockThreshold))
	}
	coreOrderService := ordersapp.NewService(stores.orders, stores.items, stores.catalog, orderOptions...)
	orderService := ordersobs.New(
		coreOrderService,
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	var orderWorkflows ordersports.PlacementOrchestrator = ordersworkflows.NewInlineOrderWorkflows(orderService)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, placing orders inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		orderWorkflows = ordersworkflows.NewTemporalOrderWorkflows(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	handlers := Handlers{
		Orders:        ordershttp.NewOrderAPI(orderService, orderWorkflows),
		OrderItems:    ordershttp.NewOrderItemAPI(orderService),
		Notifications: notifhttp.NewNotificationAPI(notifService),
	}
	router := NewRouter(handlers,
		otelgin.Middleware(serviceName),
		prometheusMiddleware(),
		httpauth.Middleware(cfg.JWTSecret),
	)

	addr := ":" + cfg.Port
	logger.Info("commerce API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("commerce API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

type stores struct {
	catalog     catalogports.Repository
	orders      ordersports.OrderRepository
	items       ordersports.OrderItemRepository
	idempotency ordersports.IdempotencyStore
}

// buildStores wires the Postgres repositories when a DSN is configured and
// falls back to in-memory adapters otherwise.
func buildStores(ctx context.Context, cfg Config, logger *slog.Logger) (stores, func()) {
	db, cleanup := connectPostgres(ctx, cfg, logger)
	if db == nil {
		return stores{
			catalog:     catalogmemory.NewRepository(),
			orders:      ordersmemory.NewOrderRepository(),
			items:       ordersmemory.NewOrderItemRepository(),
			idempotency: ordersmemory.NewIdempotencyStore(),
		}, cleanup
	}
	return stores{
		catalog:     catalogpostgres.NewRepository(db),
		orders:      orderspostgres.NewOrderRepository(db),
		items:       orderspostgres.NewOrderItemRepository(db),
		idempotency: orderspostgres.NewIdempotencyStore(db),
	}, cleanup
}

func connectPostgres(ctx context.Context, cfg Config, logger *slog.Logger) (*gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory stores")
		return nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return nil, func() {}
	}
	logger.Info("stores configured with postgres")
	return db, func() { _ = sqlDB.Close() }
}

func buildTokenStore(cfg Config, logger *slog.Logger) (notifports.TokenStore, func()) {
	if cfg.RedisAddr == "" {
		logger.Warn("REDIS_ADDR not set, falling back to in-memory token store")
		return notifmemory.NewTokenStore(), func() {}
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	logger.Info("token store configured with redis", slog.String("addr", cfg.RedisAddr))
	return notifredis.NewTokenStore(client), func() { _ = client.Close() }
}

func buildPublisher(cfg Config, logger *slog.Logger) (notifports.Publisher, func()) {
	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL not set, notifications will be logged and dropped")
		return nil, func() {}
	}
	conn, err := platformrabbitmq.Connect(cfg.RabbitMQURL)
	if err != nil {
		logger.Warn("failed to connect to rabbitmq, notifications will be logged and dropped", slog.String("error", err.Error()))
		return nil, func() {}
	}
	publisher, err := notifamqp.NewPublisher(conn.Channel, cfg.NotifyExchange)
	if err != nil {
		logger.Warn("failed to declare notification exchange, notifications will be logged and dropped", slog.String("error", err.Error()))
		conn.Close()
		return nil, func() {}
	}
	logger.Info("notification publisher configured with rabbitmq", slog.String("exchange", cfg.NotifyExchange))
	return publisher, conn.Close
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
