package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.temporal.io/sdk/client"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port              string
	PostgresDSN       string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
	RabbitMQURL       string
	NotifyExchange    string
	RedisAddr         string
	RedisPassword     string
	JWTSecret         string
	LowStockThreshold int
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
// Secrets may be supplied indirectly via *_FILE variables pointing at mounted files.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		RabbitMQURL:       strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		NotifyExchange:    envDefault("NOTIFY_EXCHANGE", "order.notifications"),
		RedisAddr:         strings.TrimSpace(os.Getenv("REDIS_ADDR")),
	}
	secret, err := envOrFile("JWT_SECRET")
	if err != nil {
		return Config{}, err
	}
	cfg.JWTSecret = secret

	password, err := envOrFile("REDIS_PASSWORD")
	if err != nil {
		return Config{}, err
	}
	cfg.RedisPassword = password

	if raw := strings.TrimSpace(os.Getenv("LOW_STOCK_THRESHOLD")); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil || threshold < 0 {
			return Config{}, fmt.Errorf("LOW_STOCK_THRESHOLD must be a non-negative integer")
		}
		cfg.LowStockThreshold = threshold
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

// envOrFile resolves KEY, falling back to reading the file named by KEY_FILE.
func envOrFile(key string) (string, error) {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val, nil
	}
	path := strings.TrimSpace(os.Getenv(key + "_FILE"))
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s_FILE: %w", key, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
