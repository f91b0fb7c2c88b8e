package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"proximart/webclient/internal/config"
	"proximart/webclient/internal/handler"
	"proximart/webclient/internal/logging"
	"proximart/webclient/internal/observability"
	"proximart/webclient/internal/repository"
	"proximart/webclient/internal/service"
	"proximart/webclient/internal/service/proximart"
	"proximart/webclient/internal/session"
	"proximart/webclient/internal/view"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	// 2. Setup draft storage
	ctx := context.Background()
	drafts, closeDrafts, err := newDraftStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up draft store", slog.String("backend", cfg.DraftBackend), slog.Any("error", err))
		os.Exit(1)
	}
	defer closeDrafts()

	// 3. Setup Logic
	metrics := observability.NewMetrics()
	client := proximart.NewClient(proximart.Config{
		APIURL:   cfg.ProxiMart.APIURL,
		APIKey:   cfg.ProxiMart.APIKey,
		Timeout:  cfg.ProxiMart.Timeout,
		Observer: metrics,
	})
	vendor := service.Vendor{ID: cfg.VendorID}

	location, err := time.LoadLocation(cfg.DisplayTimezone)
	if err != nil {
		logger.Warn("unknown display time zone, using UTC", slog.String("timezone", cfg.DisplayTimezone))
		location = time.UTC
	}
	views, err := view.NewEngine(view.NewFormatter(cfg.DisplayLocale, location))
	if err != nil {
		logger.Error("failed to parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	csrf, err := session.NewCSRF(cfg.CSRFSecret)
	if err != nil {
		logger.Error("failed to set up csrf protection", slog.Any("error", err))
		os.Exit(1)
	}
	if cfg.CSRFSecret == "" {
		logger.Warn("CSRF_SECRET not set, form tokens reset on restart")
	}

	h := handler.NewHandler(handler.Options{
		Suppliers:          service.NewSupplierService(client, drafts, vendor, logger),
		Orders:             service.NewOrderService(client, vendor, logger),
		Inventory:          service.NewInventoryService(client, vendor, logger),
		Help:               service.NewHelpService(client, logger),
		Views:              views,
		Sessions:           session.NewManager(cfg.SessionCookie, cfg.SessionTTL, cfg.SecureCookies),
		CSRF:               csrf,
		Metrics:            metrics,
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		SecureCookies:      cfg.SecureCookies,
	})

	// 4. Setup Server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 5. Run Server with Graceful Shutdown
	go func() {
		logger.Info("starting server", slog.String("port", cfg.ServerPort), slog.String("api_url", cfg.ProxiMart.APIURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", slog.Any("error", err))
		return
	}

	logger.Info("server exiting")
}

func newDraftStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.DraftStore, func(), error) {
	switch cfg.DraftBackend {
	case config.DraftBackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		repo := repository.NewDraftRepository(pool, cfg.DraftTTL)
		if err := repo.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		logger.Info("connected to database")
		return repo, pool.Close, nil

	case config.DraftBackendRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		logger.Info("connected to redis", slog.String("addr", cfg.RedisAddr))
		return repository.NewRedisDraftStore(client, cfg.DraftTTL), func() { _ = client.Close() }, nil

	default:
		return repository.NewMemoryDraftStore(cfg.DraftTTL), func() {}, nil
	}
}
