// Package main provides the entrypoint for the monitor watch worker. It
// polls the traffic IQ monitor feed and publishes anomaly transitions to
// Pub/Sub.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/BMTushyath/smart-travel-planner/internal/provider/resilience"
	"github.com/BMTushyath/smart-travel-planner/internal/tripintel/trafficiq"
	"github.com/BMTushyath/smart-travel-planner/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "smart-travel-worker"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting monitor watch worker")

	// Worker also exposes a health endpoint for Cloud Run
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	providerMetrics, err := resilience.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	// Background polling tolerates retries, unlike interactive planning calls
	trips := trafficiq.NewClient(trafficiq.ClientConfig{
		BaseURL:    os.Getenv("TRAFFIC_IQ_URL"),
		HTTPClient: resilience.NewClient(resilience.DefaultClientConfig(trafficiq.ProviderName)),
		Metrics:    providerMetrics,
		Logger:     log,
	})

	// Pub/Sub publishing is optional; without a project the worker only logs
	// transitions.
	var publisher worker.AnomalyPublisher
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	if projectID != "" {
		topic := os.Getenv("PUBSUB_ANOMALY_TOPIC")
		if topic == "" {
			topic = "trip-monitor-anomalies"
		}

		pubsubPublisher, err := worker.NewPubSubPublisher(ctx, worker.PubSubPublisherConfig{
			ProjectID: projectID,
			TopicName: topic,
			Logger:    log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub publisher")
		}
		defer func() {
			if closeErr := pubsubPublisher.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("failed to close pubsub publisher")
			}
		}()

		publisher = pubsubPublisher
		log.Info().Str("topic", topic).Msg("pubsub publisher initialized")
	} else {
		log.Warn().Msg("PUBSUB_PROJECT_ID not set - anomaly events will only be logged")
	}

	cfg := worker.DefaultWatchConfig()
	if raw := os.Getenv("WATCH_INTERVAL"); raw != "" {
		if interval, err := time.ParseDuration(raw); err == nil {
			cfg.Interval = interval
		} else {
			log.Warn().Str("value", raw).Msg("invalid WATCH_INTERVAL, using default")
		}
	}
	cfg.PublishAnomalies = publisher != nil

	job := worker.NewWatchJob(worker.WatchJobConfig{
		Config:    cfg,
		Source:    trips,
		Publisher: publisher,
		Logger:    log,
	})

	// Health check server
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "healthy",
			"version": Version,
			"metrics": job.MetricsSnapshot(),
		})
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("health server error")
		}
	}()

	// Run the watch loop until shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := job.Run(ctx); err != nil && err != context.Canceled {
			log.Error().Err(err).Msg("watch job exited")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()
	<-done

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
