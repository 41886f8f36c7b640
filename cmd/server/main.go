package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"cafepos/backend/internal/config"
	"cafepos/backend/internal/httpapi"
	"cafepos/backend/internal/logging"
	"cafepos/backend/internal/service"
	"cafepos/backend/internal/store"
	"cafepos/backend/internal/store/memory"
	pgstore "cafepos/backend/internal/store/postgres"
	redisstore "cafepos/backend/internal/store/redis"
	sqlitestore "cafepos/backend/internal/store/sqlite"
	"cafepos/backend/internal/telemetry"
)

const serviceName = "cafe-pos"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("invalid configuration: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	shutdownTracer, err := telemetry.SetupTracer(ctx, telemetry.Options{
		ServiceName: serviceName,
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.OTLPEndpoint,
	})
	if err != nil {
		logger.WithError(err).Fatal("tracing setup failed")
	}

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("startup failed")
	}

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           otelhttp.NewHandler(app.handler, serviceName),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.WithField("addr", cfg.Address()).Info("cafe POS backend listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("shutdown error")
	}
	app.close()
	if err := shutdownTracer(shutdownCtx); err != nil {
		logger.WithError(err).Warn("tracer shutdown error")
	}

	logger.Info("server stopped")
}

type app struct {
	handler http.Handler
	closers []func() error
	log     logrus.FieldLogger
}

// newApp opens the configured store and builds both services exactly once.
func newApp(ctx context.Context, cfg config.Config, logger logrus.FieldLogger) (*app, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	kv, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.WithField("driver", cfg.StorageDriver).Info("storage ready")

	opts := []service.Option{
		service.WithLogger(logger),
		service.WithLocation(loc),
		service.WithStoreTimeout(cfg.StoreTimeout()),
	}
	catalog := service.NewCatalogService(kv, opts...)
	orders := service.NewOrderService(kv, opts...)

	api := httpapi.New(catalog, orders, httpapi.Config{
		AllowedOrigin: cfg.AllowedOrigin,
		Location:      loc,
		Logger:        logger,
	})

	return &app{
		handler: api.Handler(),
		closers: []func() error{
			func() error { api.Close(); return nil },
			kv.Close,
		},
		log: logger,
	}, nil
}

func (a *app) close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.log.WithError(err).Warn("close error")
		}
	}
}

func openStore(ctx context.Context, cfg config.Config) (store.KV, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory, "":
		return memory.New(), nil
	case config.DriverSQLite:
		s, err := sqlitestore.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverRedis:
		rs := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("redis unavailable at %s: %w", cfg.RedisAddr, err)
		}
		return rs, nil
	default:
		return nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrInvalidConfig, cfg.StorageDriver)
	}
}
