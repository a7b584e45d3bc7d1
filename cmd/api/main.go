// Package main provides the entrypoint for the smart travel planner API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/BMTushyath/smart-travel-planner/internal/api"
	"github.com/BMTushyath/smart-travel-planner/internal/api/handler"
	"github.com/BMTushyath/smart-travel-planner/internal/api/middleware"
	"github.com/BMTushyath/smart-travel-planner/internal/auth"
	"github.com/BMTushyath/smart-travel-planner/internal/database"
	"github.com/BMTushyath/smart-travel-planner/internal/fuel"
	"github.com/BMTushyath/smart-travel-planner/internal/planner"
	"github.com/BMTushyath/smart-travel-planner/internal/provider/resilience"
	"github.com/BMTushyath/smart-travel-planner/internal/telemetry"
	"github.com/BMTushyath/smart-travel-planner/internal/tripintel/trafficiq"
	"github.com/BMTushyath/smart-travel-planner/internal/vehicle"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "smart-travel-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting smart travel planner API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize auth repositories and service
	authUserRepo := auth.NewPostgresUserRepository(pool)
	authRefreshRepo := auth.NewPostgresRefreshTokenRepository(pool)

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
	})

	authService := auth.NewService(auth.ServiceConfig{
		JWTService:  jwtService,
		UserRepo:    authUserRepo,
		RefreshRepo: authRefreshRepo,
	})
	log.Info().Msg("auth service initialized")

	// Initialize vehicle registry
	vehicleRepo := vehicle.NewPostgresRepository(pool)
	vehicleService := vehicle.NewService(vehicleRepo)
	log.Info().Msg("vehicle service initialized")

	// Initialize provider metrics, shared by all upstream clients
	providerMetrics, err := resilience.NewProviderMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize provider metrics")
	}

	// Initialize traffic IQ client and planning orchestrator
	trips := trafficiq.NewClient(trafficiq.ClientConfig{
		BaseURL: os.Getenv("TRAFFIC_IQ_URL"),
		Metrics: providerMetrics,
		Logger:  log,
	})

	orchestrator := planner.New(planner.Config{
		Routes:      trips,
		Predictions: trips,
		Weather:     trips,
		Laps:        trips,
		Monitor:     trips,
		Logger:      log,
	})
	log.Info().Msg("planning orchestrator initialized")

	// Initialize fuel price client and cost estimator
	fuelClient := fuel.NewClient(fuel.ClientConfig{
		BaseURL: os.Getenv("FUEL_PRICE_URL"),
		Metrics: providerMetrics,
		Logger:  log,
	})
	estimator := fuel.NewEstimator(fuelClient)
	log.Info().Msg("fuel cost estimator initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:        Version,
		BuildTime:      BuildTime,
		Logger:         log,
		ServiceName:    serviceName,
		Metrics:        metrics,
		AuthService:    authService,
		VehicleService: vehicleService,
		Orchestrator:   orchestrator,
		Routes:         trips,
		Estimator:      estimator,
		DB:             pool,
		Providers:      []handler.ProviderProbe{trips, fuelClient},
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
