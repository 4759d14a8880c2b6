package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/farmapunto/pos-backend/api/routes"
	"github.com/farmapunto/pos-backend/internal/catalog"
	"github.com/farmapunto/pos-backend/internal/loyalty"
	"github.com/farmapunto/pos-backend/internal/pos"
	"github.com/farmapunto/pos-backend/internal/pos/sessionstore"
	"github.com/farmapunto/pos-backend/internal/promotions"
	"github.com/farmapunto/pos-backend/internal/sales"
	"github.com/farmapunto/pos-backend/internal/shifts"
	"github.com/farmapunto/pos-backend/pkg/config"
	"github.com/farmapunto/pos-backend/pkg/db"
	"github.com/farmapunto/pos-backend/pkg/logger"
	"github.com/farmapunto/pos-backend/pkg/metrics"
	"github.com/farmapunto/pos-backend/pkg/migrate"
	"github.com/farmapunto/pos-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pos-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pos-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	posMetrics := metrics.NewPOSMetrics(registry)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	promotionSource, err := promotions.NewService(promotions.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create promotion source", err)
		os.Exit(1)
	}
	loyaltyService, err := loyalty.NewService(loyalty.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create loyalty service", err)
		os.Exit(1)
	}
	shiftService, err := shifts.NewService(shifts.NewRepository(dbClient.DB()), posMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create shift service", err)
		os.Exit(1)
	}
	sessionStore, err := sessionstore.NewRedisStore(redisClient, cfg.POS.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}
	posService, err := pos.NewService(
		sessionStore,
		catalogService,
		promotionSource,
		loyaltyService,
		sales.NewRepository(dbClient.DB()),
		shiftService,
		posMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create pos service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting pos api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, dbClient, redisClient, posService, shiftService, registry),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "pos api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-stopCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var closeErr error
	closeErr = multierr.Append(closeErr, server.Shutdown(shutdownCtx))
	closeErr = multierr.Append(closeErr, redisClient.Close())
	closeErr = multierr.Append(closeErr, dbClient.Close())
	if closeErr != nil {
		logg.Error(ctx, "shutdown finished with errors", closeErr)
		os.Exit(1)
	}
	logg.Info(ctx, "shutdown complete")
}
