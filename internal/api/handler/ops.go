package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/BMTushyath/smart-travel-planner/internal/api/models"
	"github.com/BMTushyath/smart-travel-planner/internal/api/response"
)

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderProbe exposes the circuit breaker state of an upstream provider
// client for the status endpoint.
type ProviderProbe interface {
	Name() string
	CircuitBreakerState() gobreaker.State
}

// OpsHandler handles operational endpoints (health, readiness, status).
type OpsHandler struct {
	version   string
	buildTime string
	db        Pinger
	providers []ProviderProbe
	logger    zerolog.Logger
}

// OpsHandlerConfig holds configuration for the ops handler.
type OpsHandlerConfig struct {
	Version   string
	BuildTime string
	DB        Pinger
	Providers []ProviderProbe
	Logger    zerolog.Logger
}

// NewOpsHandler creates a new ops handler.
func NewOpsHandler(cfg OpsHandlerConfig) *OpsHandler {
	return &OpsHandler{
		version:   cfg.Version,
		buildTime: cfg.BuildTime,
		db:        cfg.DB,
		providers: cfg.Providers,
		logger:    cfg.Logger,
	}
}

// Health handles GET /v1/ops/health. It is a liveness probe: it reports
// OK whenever the process is serving requests.
func (h *OpsHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	})
}

// Ready handles GET /v1/ops/ready. It is a readiness probe: it fails when
// the database is unreachable.
func (h *OpsHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.db.Ping(ctx); err != nil {
			h.logger.Warn().Err(err).Msg("readiness check failed")
			response.ServiceUnavailable(w, r, "Database unavailable")
			return
		}
	}

	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
	})
}

// Status handles GET /v1/ops/status. It reports per-subsystem and
// per-provider health; an open circuit breaker degrades the overall status.
func (h *OpsHandler) Status(w http.ResponseWriter, r *http.Request) {
	overall := models.HealthStatusOK

	var subsystems []models.SubsystemStatus
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := models.HealthStatusOK
		var detail *string
		if err := h.db.Ping(ctx); err != nil {
			dbStatus = models.HealthStatusFail
			overall = models.HealthStatusDegraded
			msg := err.Error()
			detail = &msg
		}
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "database",
			Status: dbStatus,
			Detail: detail,
		})
	}

	providers := make([]models.ProviderStatus, 0, len(h.providers))
	for _, p := range h.providers {
		status := models.HealthStatusOK
		var message *string

		switch p.CircuitBreakerState() {
		case gobreaker.StateOpen:
			status = models.HealthStatusFail
			overall = models.HealthStatusDegraded
			msg := "circuit breaker open"
			message = &msg
		case gobreaker.StateHalfOpen:
			status = models.HealthStatusDegraded
			if overall == models.HealthStatusOK {
				overall = models.HealthStatusDegraded
			}
			msg := "circuit breaker half-open"
			message = &msg
		}

		providers = append(providers, models.ProviderStatus{
			Provider: p.Name(),
			Status:   status,
			Message:  message,
		})
	}

	response.JSON(w, r, http.StatusOK, models.SystemStatus{
		Status:     overall,
		Time:       models.Timestamp(time.Now()),
		Subsystems: subsystems,
		Providers:  providers,
	})
}
