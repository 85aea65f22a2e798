package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	CartBackendMemory = "memory"
	CartBackendRedis  = "redis"
	CartBackendMongo  = "mongo"
)

type Config struct {
	HTTPPort           string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64

	CartBackend   string
	CartKey       string
	RedisAddr     string
	RedisPassword string
	MongoURI      string
	MongoDBName   string

	CatalogDBPath  string
	MigrationsPath string

	KafkaBrokers []string

	StoreLatencyMin time.Duration
	StoreLatencyMax time.Duration

	LogLevel string
}

// Load reads the environment, after merging a .env file when one exists.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		MaxRequestBodySize: 1 << 20, // 1MB

		CartBackend:   strings.ToLower(getEnv("CART_BACKEND", CartBackendMemory)),
		CartKey:       getEnv("CART_KEY", "rl-apna-store-cart"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:   getEnv("MONGO_DB_NAME", "storefront"),

		CatalogDBPath:  getEnv("CATALOG_DB_PATH", ":memory:"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./internal/repository/migrations"),

		KafkaBrokers: splitCSV(getEnv("KAFKA_BROKERS", "")),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.RequestTimeout, err = getDuration("REQUEST_TIMEOUT", 30*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.StoreLatencyMin, err = getDuration("STORE_LATENCY_MIN", 200*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.StoreLatencyMax, err = getDuration("STORE_LATENCY_MAX", 500*time.Millisecond); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.CartBackend {
	case CartBackendMemory, CartBackendRedis, CartBackendMongo:
	default:
		return fmt.Errorf("unknown CART_BACKEND %q", c.CartBackend)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	if c.StoreLatencyMin < 0 || c.StoreLatencyMax < c.StoreLatencyMin {
		return fmt.Errorf("invalid store latency range %s..%s", c.StoreLatencyMin, c.StoreLatencyMax)
	}
	if _, err := strconv.Atoi(c.HTTPPort); err != nil {
		return fmt.Errorf("invalid HTTP_PORT %q: %w", c.HTTPPort, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
