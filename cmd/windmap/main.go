package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/checklist-wind-map/internal/adapter/herbie"
	httpadapter "github.com/couchcryptid/checklist-wind-map/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/checklist-wind-map/internal/adapter/kafka"
	"github.com/couchcryptid/checklist-wind-map/internal/adapter/mapbox"
	"github.com/couchcryptid/checklist-wind-map/internal/config"
	"github.com/couchcryptid/checklist-wind-map/internal/observability"
	"github.com/couchcryptid/checklist-wind-map/internal/orchestrator"
	"github.com/couchcryptid/checklist-wind-map/internal/panel"
	"github.com/couchcryptid/checklist-wind-map/internal/relay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Level requests cross the bridge to a single worker that talks to the
	// wind-data server.
	upstream := herbie.NewClient(cfg.RelayURL, herbie.Options{
		Timeout:         cfg.RelayTimeout,
		BreakerFailures: cfg.RelayBreakerFailures,
		BreakerTimeout:  cfg.RelayBreakerTimeout,
	}, logger)
	bridge := relay.NewBridge(upstream, cfg.RelayQueueSize, logger, metrics)
	fetcher := relay.NewCachedRequester(relay.NewRequester(bridge), cfg.LevelCacheSize, cfg.LevelCacheTTL, nil, metrics)

	opts := orchestrator.Options{Libraries: cfg.MapLibraries}

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		opts.Geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled() {
		writer = kafkaadapter.NewWriter(cfg, logger)
		opts.Publisher = writer
		logger.Info("kafka record publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaRecordTopic)
	}

	renderer := panel.NewRenderer(cfg.WeatherSiteURL, cfg.DisplayTimezone, cfg.DisplayDateLayout, cfg.DisplayTimeLayout)
	o := orchestrator.New(orchestrator.NewRegistry(), renderer, fetcher, opts, logger, metrics)
	api := httpadapter.NewAPI(o, fetcher, cfg.WeatherSiteURL, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, bridge, api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start relay worker.
	go func() {
		if err := bridge.Serve(ctx); err != nil {
			logger.Error("relay bridge error", "error", err)
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
