package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/apna-store/internal/admin"
	"github.com/fjod/apna-store/internal/cache"
	"github.com/fjod/apna-store/internal/cart"
	"github.com/fjod/apna-store/internal/catalog"
	"github.com/fjod/apna-store/internal/checkout"
	"github.com/fjod/apna-store/internal/config"
	"github.com/fjod/apna-store/internal/events"
	h "github.com/fjod/apna-store/internal/http"
	"github.com/fjod/apna-store/internal/orders"
	"github.com/fjod/apna-store/internal/repository"
	"github.com/fjod/apna-store/internal/store"
	"github.com/fjod/apna-store/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if err := run(cfg, log); err != nil {
		log.Error("storefront stopped", "error", err)
		os.Exit(1)
	}
}

// run serves until a signal arrives or the listener fails. Every exit path
// shuts the server down, persists the cart and closes the backends.
func run(cfg config.Config, log *slog.Logger) error {
	ctx := context.Background()

	seed, err := repository.LoadCatalog(ctx, cfg.CatalogDBPath, cfg.MigrationsPath)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	log.Info("catalog loaded", "products", len(seed))

	storeOpts := store.Options{Latency: store.Uniform(cfg.StoreLatencyMin, cfg.StoreLatencyMax)}
	products := catalog.NewProductStore(seed, storeOpts)
	orderStore := orders.NewOrderStore(nil, storeOpts)

	storage, closeStorage, err := openCartStorage(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open cart storage: %w", err)
	}
	defer closeStorage()

	cartManager := cart.NewManager(ctx, storage,
		cart.WithKey(cfg.CartKey),
		cart.WithLogger(log),
	)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(log, cfg.KafkaBrokers...)
		log.Info("publishing order events", "brokers", cfg.KafkaBrokers, "topic", events.TopicOrders)

		consumer := events.NewConsumer(events.AuditLog(log), log, "storefront-audit", cfg.KafkaBrokers...)
		consumerCtx, stopConsumer := context.WithCancel(ctx)
		go consumer.Run(consumerCtx)
		defer func() {
			stopConsumer()
			consumer.Close()
		}()
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("failed to close event publisher", "error", err)
		}
	}()

	checkoutService := checkout.NewService(orderStore, cartManager, publisher, log)
	adminOrders := admin.NewOrders(orderStore, publisher, log)
	dashboard := admin.NewDashboard(products, orderStore)

	router := h.NewRouter(h.Handlers{
		Products: h.NewProductHandler(products, cfg.RequestTimeout),
		Cart:     h.NewCartHandler(cartManager, products, cfg.RequestTimeout),
		Checkout: h.NewCheckoutHandler(checkoutService, cfg.RequestTimeout),
		Orders:   h.NewOrdersHandler(orderStore, cfg.RequestTimeout),
		Admin:    h.NewAdminHandler(products, adminOrders, dashboard, cfg.RequestTimeout),
	}, h.RouterConfig{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("storefront starting", "port", cfg.HTTPPort, "cart_backend", cfg.CartBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	var runErr error
	select {
	case <-quit:
	case err := <-serverErr:
		runErr = fmt.Errorf("server error: %w", err)
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	if err := cartManager.Close(shutdownCtx); err != nil {
		log.Error("cart not fully persisted", "error", err)
	}

	log.Info("server exited")
	return runErr
}

// openCartStorage connects the configured cart backend and returns its cleanup.
func openCartStorage(ctx context.Context, cfg config.Config, log *slog.Logger) (cart.Storage, func(), error) {
	switch cfg.CartBackend {
	case config.CartBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		log.Info("cart stored in redis", "addr", cfg.RedisAddr)
		return cache.NewRedisStorage(client), func() { _ = client.Close() }, nil

	case config.CartBackendMongo:
		db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, nil, err
		}
		storage := repository.NewMongoStorage(db)
		if err := storage.CreateIndexes(ctx); err != nil {
			_ = db.Client().Disconnect(ctx)
			return nil, nil, err
		}
		log.Info("cart stored in mongodb", "database", cfg.MongoDBName)
		return storage, func() { _ = db.Client().Disconnect(context.Background()) }, nil

	default:
		log.Info("cart stored in memory")
		return cart.NewMemoryStorage(), func() {}, nil
	}
}
