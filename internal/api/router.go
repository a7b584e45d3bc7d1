// Package api provides the HTTP API for the smart travel planner.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/BMTushyath/smart-travel-planner/internal/api/handler"
	"github.com/BMTushyath/smart-travel-planner/internal/api/middleware"
	"github.com/BMTushyath/smart-travel-planner/internal/auth"
	"github.com/BMTushyath/smart-travel-planner/internal/fuel"
	"github.com/BMTushyath/smart-travel-planner/internal/planner"
	"github.com/BMTushyath/smart-travel-planner/internal/vehicle"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	ServiceName    string
	Metrics        *middleware.Metrics
	AuthService    *auth.Service
	VehicleService *vehicle.Service
	Orchestrator   *planner.Orchestrator
	Routes         planner.RouteFetcher
	Estimator      *fuel.Estimator
	DB             handler.Pinger
	Providers      []handler.ProviderProbe
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "smart-travel-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(handler.OpsHandlerConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		DB:        cfg.DB,
		Providers: cfg.Providers,
		Logger:    cfg.Logger,
	})
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	vehicleHandler := handler.NewVehicleHandler(cfg.VehicleService, cfg.Logger)
	tripHandler := handler.NewTripHandler(handler.TripHandlerConfig{
		Orchestrator: cfg.Orchestrator,
		Routes:       cfg.Routes,
		Vehicles:     cfg.VehicleService,
		Estimator:    cfg.Estimator,
		Logger:       cfg.Logger,
	})

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
			// logout-all requires authentication
			r.With(authMiddleware).Post("/logout-all", authHandler.LogoutAll)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.Health)
			r.Get("/ready", opsHandler.Ready)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.Status)
		})

		// Vehicle registry (authenticated) - user-based rate limiting
		r.Route("/me/vehicles", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Get("/", vehicleHandler.List)
			r.Post("/", vehicleHandler.Create)
			r.Route("/{vehicleID}", func(r chi.Router) {
				r.Get("/", vehicleHandler.Get)
				r.Patch("/", vehicleHandler.Update)
				r.Delete("/", vehicleHandler.Delete)
			})
		})

		// Planning endpoint - expensive upstream fan-out, strict rate limiting
		r.With(authMiddleware, expensiveRateLimit).Post("/trips:plan", tripHandler.Plan)

		// Cost estimation - resolves vehicle and route
		r.With(authMiddleware, expensiveRateLimit).Post("/trips:estimate-cost", tripHandler.EstimateCost)

		// Live monitor feed - cheap idempotent read
		r.With(standardRateLimit).Get("/monitor", tripHandler.Monitor)
	})

	return r
}
