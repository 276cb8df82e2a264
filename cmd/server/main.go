package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Skotchmaster/ecommerce_api/internal/cache"
	"github.com/Skotchmaster/ecommerce_api/internal/config"
	"github.com/Skotchmaster/ecommerce_api/internal/db"
	"github.com/Skotchmaster/ecommerce_api/internal/hash"
	"github.com/Skotchmaster/ecommerce_api/internal/httpserver"
	"github.com/Skotchmaster/ecommerce_api/internal/logging"
	"github.com/Skotchmaster/ecommerce_api/internal/middleware/auth"
	"github.com/Skotchmaster/ecommerce_api/internal/middleware/csrf"
	"github.com/Skotchmaster/ecommerce_api/internal/mykafka"
	"github.com/Skotchmaster/ecommerce_api/internal/repo"
	"github.com/Skotchmaster/ecommerce_api/internal/search"
	"github.com/Skotchmaster/ecommerce_api/internal/seed"
	"github.com/Skotchmaster/ecommerce_api/internal/service"
	"github.com/Skotchmaster/ecommerce_api/internal/tokens"
)

func main() {
	cfg := config.Load()
	cfg.MustValidate()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)

	initCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	hasher, err := hash.New(cfg.PasswordHasher)
	if err != nil {
		log.Fatalf("password hasher: %v", err)
	}
	signer := tokens.NewSigner(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.AccessTokenTTL)

	// Redis, Elasticsearch and Kafka are optional; the service degrades to
	// SQL reads and no events when they are not configured.
	var productCache service.ProductCache
	if cfg.RedisURL != "" {
		rdb, err := cache.Connect(initCtx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis_unavailable", "error", err)
		} else {
			defer rdb.Close()
			productCache = cache.NewProductCache(rdb, cfg.ProductCacheTTL)
		}
	}

	var productIndex service.ProductIndex
	if cfg.ESURL != "" {
		es, err := search.NewClient(initCtx, search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, logger)
		if err != nil {
			logger.Warn("elasticsearch_unavailable", "error", err)
		} else {
			productIndex = search.NewProductIndex(es, cfg.ESIndex)
		}
	}

	var events service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.Warn("kafka_unavailable", "error", err)
		} else {
			defer producer.Close()
			events = producer
		}
	}

	store := repo.New(gdb)
	authSvc := service.NewAuthService(store, hasher, signer, cfg.RefreshTTL, events, logger)
	cartSvc := service.NewCartService(store, logger)
	orderSvc := service.NewOrderService(store, productCache, events, logger)
	catalogSvc := service.NewCatalogService(store, productCache, productIndex, logger)

	if cfg.SeedProducts {
		if _, err := seed.Products(initCtx, store, logger); err != nil {
			log.Fatalf("seed products: %v", err)
		}
		if err := catalogSvc.InvalidateCache(initCtx); err != nil {
			logger.Warn("product_cache_invalidate_failed", "error", err)
		}
	}
	if err := catalogSvc.Reindex(initCtx); err != nil {
		logger.Warn("reindex_failed", "error", err)
	}

	deps := &httpserver.Deps{
		AuthHandler:    &httpserver.AuthHTTP{Svc: authSvc, RefreshTTL: cfg.RefreshTTL},
		CartHandler:    &httpserver.CartHTTP{Svc: cartSvc},
		OrderHandler:   &httpserver.OrderHTTP{Svc: orderSvc},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalogSvc},
		RequireAuth:    auth.NewRequireAuth(authSvc).Middleware,
		AllowOrigins:   cfg.CORSOrigins,
		DB:             gdb,
	}
	if cfg.CSRFEnabled {
		deps.CSRF = csrf.Middleware(csrf.Config{
			SkipPaths: []string{"/api/auth/register", "/api/auth/login"},
		})
	}
	e := httpserver.New(logger, deps)

	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	go func() {
		logger.Info("server_starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "error", err)
	}
	logger.Info("server_stopped")
}
