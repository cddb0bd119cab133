package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/wataburguer/backend/internal/assistant"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/config"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/handlers"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/middleware"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/models"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/order"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/repository"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/service"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/session"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/storage"
	"github.com/Lixing-Zhang/wataburguer/backend/internal/view"
	"github.com/Lixing-Zhang/wataburguer/backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration from file and environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.NewWithFile(cfg.LogLevel, cfg.LogFile)
	slog.SetDefault(log)

	log.Info("starting wataburguer storefront server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"storage", cfg.Storage.Backend,
	)

	if cfg.Admin.JWTSecret == config.DefaultJWTSecret {
		log.Warn("ADMIN_JWT_SECRET is the default value; admin tokens can be forged by anyone who knows it")
	}

	ctx := context.Background()

	// Initialize storage
	store, pinger, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", "backend", cfg.Storage.Backend, "error", err)
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Order.Timezone)
	if err != nil {
		log.Error("failed to load order timezone", "timezone", cfg.Order.Timezone, "error", err)
		os.Exit(1)
	}

	// Initialize description assistant
	generator, describer := newAssistant(ctx, cfg.Assistant, order.DisplayName(cfg.Order.Brand), log)

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(store, log, repository.WithDefaultImage(cfg.Catalog.DefaultImageURL))

	// Initialize services
	productService := service.NewProductService(catalogRepo, log)
	formatter := order.NewFormatter(cfg.Order.Brand, cfg.Order.IDPrefix, loc)
	cartService := service.NewCartService(productService, formatter, order.NewLinkBuilder(cfg.Order.WhatsAppBaseURL), cfg.Order.WhatsAppNumber, log)
	draftService := service.NewDraftService(describer, productService, models.ProductDraft{
		Category: models.CategorySignature,
		Image:    cfg.Catalog.DefaultImageURL,
	}, log)

	sessions := session.NewManager(store, session.Config{
		PIN:      cfg.Admin.PIN,
		Secret:   cfg.Admin.JWTSecret,
		Issuer:   cfg.Admin.Issuer,
		TokenTTL: time.Duration(cfg.Admin.TokenTTL) * time.Minute,
	}, log)
	controller := view.NewController()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(pinger, log)
	api := &handlers.API{
		Products:         handlers.NewProductHandler(productService, log),
		Cart:             handlers.NewCartHandler(cartService, log),
		Orders:           handlers.NewOrderHandler(cartService, log),
		Description:      handlers.NewDescriptionHandler(generator, cfg.Assistant.Timeout, log),
		View:             handlers.NewViewHandler(controller, sessions, log),
		Admin:            handlers.NewAdminHandler(sessions, productService, draftService, controller, log),
		RequireAdmin:     middleware.RequireAdmin(sessions, log),
		DescriptionLimit: middleware.NewRateLimiter(cfg.Assistant.RateRPS, cfg.Assistant.RateBurst, 10*time.Minute).Handler,
	}

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Metrics)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check and metrics endpoints
	r.Get("/health", healthHandler.ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())

	// API routes
	r.Route("/api", api.Routes)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}

// openStorage builds the configured slot store. The returned pinger is nil
// for the in-memory backend.
func openStorage(ctx context.Context, cfg config.StorageConfig) (storage.Store, handlers.Pinger, error) {
	if cfg.Backend != "redis" {
		return storage.NewMemoryStore(), nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	store := storage.NewRedisStore(client, cfg.Prefix)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return store, store, nil
}

// newAssistant returns the in-process generator (nil without an API key) and
// the describer used by the admin draft. A configured endpoint takes
// precedence over in-process generation for the draft.
func newAssistant(ctx context.Context, cfg config.AssistantConfig, brand string, log *slog.Logger) (assistant.Generator, assistant.Describer) {
	var generator assistant.Generator
	if gemini, err := assistant.NewGeminiGenerator(ctx, cfg.APIKey, cfg.Model, brand); err != nil {
		log.Warn("description generator disabled, fallback text will be used", "error", err)
	} else {
		generator = gemini
	}

	if cfg.Endpoint != "" {
		log.Info("using remote description endpoint", "endpoint", cfg.Endpoint)
		return generator, assistant.NewClient(cfg.Endpoint, &http.Client{Timeout: cfg.Timeout}, log)
	}
	return generator, assistant.New(generator, cfg.Timeout, log)
}
