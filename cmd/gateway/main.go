package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/wearly/storefront-admin/internal/cache"
	"github.com/wearly/storefront-admin/internal/config"
	"github.com/wearly/storefront-admin/internal/gateway"
	"github.com/wearly/storefront-admin/internal/messaging"
	"github.com/wearly/storefront-admin/internal/middleware"
	"github.com/wearly/storefront-admin/internal/telemetry"
	"github.com/wearly/storefront-admin/internal/upstream"
)

const serviceName = "dashboard-gateway"

func main() {
	cfg, err := config.LoadGateway()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := telemetry.InitTracerProvider(ctx, serviceName, cfg.Telemetry.ServiceVersion, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		logger.Error("failed to init tracer provider", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			logger.Error("failed to shut down tracer provider", "error", err)
		}
	}()

	metricsHandler, shutdownMeter, err := telemetry.InitMeterProvider(serviceName, cfg.Telemetry.ServiceVersion)
	if err != nil {
		logger.Error("failed to init meter provider", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownMeter(shutdownCtx); err != nil {
			logger.Error("failed to shut down meter provider", "error", err)
		}
	}()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	metrics, err := telemetry.NewMetrics()
	if err != nil {
		logger.Error("failed to create metrics", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{
		Timeout:   time.Duration(cfg.Upstream.TimeoutSeconds) * time.Second,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	admin := upstream.NewAdminAPI(cfg.Upstream.AdminURL, httpClient)
	storefront := upstream.NewStorefrontAPI(cfg.Upstream.StorefrontURL, httpClient)
	authProxy := gateway.NewServiceProxy(cfg.Upstream.AdminURL, httpClient)

	var sections gateway.SectionCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer func() { _ = rdb.Close() }()
		sections = cache.NewSectionStore(rdb, time.Duration(cfg.Redis.SectionTTLSeconds)*time.Second)
		logger.Info("section cache enabled", "addr", cfg.Redis.Addr, "ttl_seconds", cfg.Redis.SectionTTLSeconds)
	} else {
		logger.Warn("REDIS_ADDR not set, section cache disabled")
	}

	var publisher gateway.ActivityPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := messaging.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.ActivityTopic)
		defer func() { _ = producer.Close() }()
		publisher = producer
		logger.Info("activity publishing enabled", "topic", cfg.Kafka.ActivityTopic)
	} else {
		logger.Warn("KAFKA_BROKERS not set, activity publishing disabled")
	}

	handler := gateway.NewHandler(admin, storefront, authProxy, sections, publisher, metrics, logger)

	router := newRouter(cfg, handler, metricsHandler, logger)

	server := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:      otelhttp.NewHandler(router, "gateway"),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("gateway listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down server", "error", err)
	}
	logger.Info("gateway stopped")
}

func newRouter(cfg *config.Gateway, h *gateway.Handler, metricsHandler http.Handler, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(telemetry.RouteAttribute)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Api-Key", "X-Admin-User"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", metricsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.HandleListOrders)
			r.Get("/{orderID}", h.HandleOrderDetails)
			r.Put("/{orderID}/approve", h.HandleApproveOrder)
			r.Put("/{orderID}/reject", h.HandleRejectOrder)
			r.Post("/{orderID}/ship", h.HandleShipOrder)
			r.Put("/{orderID}/status", h.HandleUpdateOrderStatus)
		})

		r.Post("/coupons", h.HandleCreateCoupon)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.HandleListProducts)
			r.Post("/", h.HandleCreateProduct)
			r.Get("/{productID}", h.HandleGetProduct)
			r.Put("/{productID}", h.HandleUpdateProduct)
			r.Delete("/{productID}", h.HandleDeleteProduct)
		})

		r.Route("/home-cms", func(r chi.Router) {
			r.Get("/sections", h.HandleListSections)
			r.Post("/sections", h.HandleCreateSection)
			r.Get("/sections/{sectionID}", h.HandleGetSection)
			r.Put("/sections/{sectionID}", h.HandleUpdateSection)
			r.Delete("/sections/{sectionID}", h.HandleDeleteSection)
			r.Get("/sections/{sectionID}/items", h.HandleListSectionItems)
			r.Post("/sections/{sectionID}/items", h.HandleCreateSectionItem)
			r.Put("/items/{itemID}", h.HandleUpdateSectionItem)
			r.Delete("/items/{itemID}", h.HandleDeleteSectionItem)
		})

		r.Post("/auth/forgot-password", h.HandleAuth)
		r.Post("/auth/reset-password", h.HandleAuth)
	})

	return r
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
