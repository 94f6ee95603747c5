package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/couchcryptid/vegetation-risk-locations/internal/adapter/gateway"
	"github.com/couchcryptid/vegetation-risk-locations/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/vegetation-risk-locations/internal/adapter/kafka"
	"github.com/couchcryptid/vegetation-risk-locations/internal/config"
	"github.com/couchcryptid/vegetation-risk-locations/internal/domain"
	"github.com/couchcryptid/vegetation-risk-locations/internal/locations"
	"github.com/couchcryptid/vegetation-risk-locations/internal/observability"
	"github.com/couchcryptid/vegetation-risk-locations/internal/watch"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	client := gateway.NewClient(cfg.GatewayEndpoint, cfg.GatewayTimeout, logger, metrics)
	if !client.Configured() {
		logger.Warn("LOCATIONS_API_ENDPOINT not set, watcher will never become ready")
	}
	svc := locations.NewService(client, logger, metrics,
		locations.WithTTL(cfg.CacheTTL),
		locations.WithDefaultLimit(cfg.FetchLimit),
	)

	// Snapshot publishing is feature-flagged via KAFKA_BROKERS.
	var (
		publisher watch.SnapshotPublisher
		writer    *kafkaadapter.Writer
	)
	if cfg.PublishingEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	w := watch.New(svc, publisher, logger, metrics, cfg.PollInterval,
		watch.WithQuery(domain.Query{Limit: cfg.FetchLimit}),
	)

	srv := httpadapter.NewServer(cfg.HTTPAddr, w, svc, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start watcher.
	go func() {
		if err := w.Run(ctx); err != nil {
			logger.Error("watcher error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
