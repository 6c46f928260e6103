package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"

	catalogpostgres "github.com/shopsphere/commerce-api/internal/domains/catalog/adapters/persistence/postgres"
	catalogapp "github.com/shopsphere/commerce-api/internal/domains/catalog/application"
	catalogdomain "github.com/shopsphere/commerce-api/internal/domains/catalog/domain"
	notifamqp "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/amqp"
	notifmemory "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/memory"
	notifredis "github.com/shopsphere/commerce-api/internal/domains/notifications/adapters/redis"
	notifapp "github.com/shopsphere/commerce-api/internal/domains/notifications/application"
	notifports "github.com/shopsphere/commerce-api/internal/domains/notifications/ports"
	ordersapp "github.com/shopsphere/commerce-api/internal/domains/orders/application"
	platformpostgres "github.com/shopsphere/commerce-api/internal/platform/postgres"
	platformrabbitmq "github.com/shopsphere/commerce-api/internal/platform/rabbitmq"
)

// One-shot low-stock sweep: scans the catalog for products at or below the
// threshold and re-sends the stock alert to each vendor. Meant to run on a
// schedule as a safety net behind the inline alerts the order workflow sends.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot scan stock")
	}

	catalog := catalogapp.NewService(catalogpostgres.NewRepository(db), nil)
	notifier, cleanupNotifier := buildNotifier(logger)
	defer cleanupNotifier()

	threshold := thresholdFromEnv()
	products, err := catalog.LowStock(ctx, threshold)
	if err != nil {
		log.Fatalf("failed to list low-stock products: %v", err)
	}

	alerted := 0
	for _, product := range products {
		tokens, err := notifier.VendorTokens(ctx, product.VendorID)
		if err != nil {
			logger.Warn("failed to resolve vendor tokens",
				slog.String("vendorId", product.VendorID), slog.String("error", err.Error()))
			continue
		}
		body := fmt.Sprintf("Stock for product %s has dropped below %d. Current stock: %d",
			product.Name, threshold, product.Quantity)
		if err := notifier.Notify(ctx, tokens, "Stock Alert", body); err != nil {
			logger.Warn("failed to send stock alert",
				slog.String("productCode", product.Code), slog.String("error", err.Error()))
			continue
		}
		alerted++
	}
	notifyCSRs(ctx, logger, notifier, products, threshold)
	log.Printf("stock sweep completed: %d low-stock products, %d alerts sent", len(products), alerted)
}

// notifyCSRs sends customer-service reps one summary alert per sweep so they
// can chase vendors that ignore their own notifications.
func notifyCSRs(ctx context.Context, logger *slog.Logger, notifier *notifapp.Service, products []*catalogdomain.Product, threshold int) {
	if len(products) == 0 {
		return
	}
	tokens, err := notifier.RoleTokens(ctx, "csr")
	if err != nil {
		logger.Warn("failed to resolve csr tokens", slog.String("error", err.Error()))
		return
	}
	if len(tokens) == 0 {
		return
	}
	names := make([]string, 0, len(products))
	for _, product := range products {
		names = append(names, product.Name)
	}
	body := fmt.Sprintf("%d products are at or below the stock threshold of %d: %s",
		len(products), threshold, strings.Join(names, ", "))
	if err := notifier.Notify(ctx, tokens, "Low Stock Summary", body); err != nil {
		logger.Warn("failed to send csr stock summary", slog.String("error", err.Error()))
	}
}

func buildNotifier(logger *slog.Logger) (*notifapp.Service, func()) {
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	var tokens notifports.TokenStore = notifmemory.NewTokenStore()
	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD")})
		cleanups = append(cleanups, func() { _ = client.Close() })
		tokens = notifredis.NewTokenStore(client)
	}

	options := []notifapp.Option{notifapp.WithLogger(logger)}
	if url := strings.TrimSpace(os.Getenv("RABBITMQ_URL")); url != "" {
		if conn, err := platformrabbitmq.Connect(url); err != nil {
			logger.Warn("failed to connect to rabbitmq, alerts will be logged and dropped", slog.String("error", err.Error()))
		} else {
			exchange := os.Getenv("NOTIFY_EXCHANGE")
			if exchange == "" {
				exchange = "order.notifications"
			}
			if publisher, err := notifamqp.NewPublisher(conn.Channel, exchange); err != nil {
				logger.Warn("failed to declare notification exchange", slog.String("error", err.Error()))
				conn.Close()
			} else {
				cleanups = append(cleanups, conn.Close)
				options = append(options, notifapp.WithPublisher(publisher))
			}
		}
	}
	return notifapp.NewService(tokens, options...), cleanup
}

func thresholdFromEnv() int {
	raw := strings.TrimSpace(os.Getenv("LOW_STOCK_THRESHOLD"))
	if raw == "" {
		return ordersapp.DefaultLowStockThreshold
	}
	threshold, err := strconv.Atoi(raw)
	if err != nil || threshold < 0 {
		return ordersapp.DefaultLowStockThreshold
	}
	return threshold
}
