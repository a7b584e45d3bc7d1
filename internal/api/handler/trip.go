package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/BMTushyath/smart-travel-planner/internal/api/middleware"
	"github.com/BMTushyath/smart-travel-planner/internal/api/models"
	"github.com/BMTushyath/smart-travel-planner/internal/api/response"
	"github.com/BMTushyath/smart-travel-planner/internal/fuel"
	"github.com/BMTushyath/smart-travel-planner/internal/planner"
	"github.com/BMTushyath/smart-travel-planner/internal/tripintel"
	"github.com/BMTushyath/smart-travel-planner/internal/vehicle"
)

// TripHandler handles planning, monitoring, and cost estimation endpoints.
type TripHandler struct {
	orchestrator *planner.Orchestrator
	routes       planner.RouteFetcher
	vehicles     *vehicle.Service
	estimator    *fuel.Estimator
	logger       zerolog.Logger
}

// TripHandlerConfig holds the trip handler's collaborators.
type TripHandlerConfig struct {
	Orchestrator *planner.Orchestrator
	Routes       planner.RouteFetcher
	Vehicles     *vehicle.Service
	Estimator    *fuel.Estimator
	Logger       zerolog.Logger
}

// NewTripHandler creates a new trip handler.
func NewTripHandler(cfg TripHandlerConfig) *TripHandler {
	return &TripHandler{
		orchestrator: cfg.Orchestrator,
		routes:       cfg.Routes,
		vehicles:     cfg.Vehicles,
		estimator:    cfg.Estimator,
		logger:       cfg.Logger,
	}
}

// Plan handles POST /v1/trips:plan. It runs one planning session to
// completion and returns the settled panels; the asynchronous monitor
// refresh triggered by a successful prediction is reported as pending.
func (h *TripHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req models.PlanTripRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, r, "Invalid JSON body", nil)
		return
	}

	query := tripintel.TripQuery{
		Origin:      req.Origin,
		Destination: req.Destination,
		Date:        req.Date,
		StartHour:   req.StartHour,
		EndHour:     req.EndHour,
		VehicleID:   req.VehicleID,
	}

	if err := query.Validate(); err != nil {
		response.BadRequest(w, r, err.Error(), nil)
		return
	}

	// Vehicle-aware planning requires that the vehicle belongs to the caller.
	if req.VehicleID != "" {
		if _, err := h.vehicles.Get(r.Context(), userID(r), req.VehicleID); err != nil {
			if errors.Is(err, vehicle.ErrVehicleNotFound) {
				response.NotFound(w, r, "Vehicle not found")
				return
			}
			h.logger.Error().Err(err).Msg("vehicle lookup failed")
			response.InternalError(w, r, "Internal error")
			return
		}
	}

	view := planner.NewMemoryView()
	result, err := h.orchestrator.Plan(r.Context(), query, view)
	if err != nil {
		// A route failure aborts the session; the validation path was
		// already handled above.
		traceID := middleware.GetRequestID(r.Context())
		problem := models.NewUpstreamUnavailable(traceID, "Route lookup failed: "+err.Error())
		response.Error(w, r, problem)
		return
	}

	response.JSON(w, r, http.StatusOK, toPlanResponse(result))
}

// Monitor handles GET /v1/monitor. It reads the live monitor feed on demand;
// the read has no pipeline dependency.
func (h *TripHandler) Monitor(w http.ResponseWriter, r *http.Request) {
	view := planner.NewMemoryView()
	status, panel := h.orchestrator.RefreshMonitor(r.Context(), view)

	resp := models.MonitorResponse{
		Panel: toPanelView(panel),
	}
	if status != nil {
		resp.Anomalous = status.Anomalous()
		if status.SpeedDrop.Detected {
			resp.Alerts = append(resp.Alerts, models.AlertDetail{
				Kind:    "speed_drop",
				Message: status.SpeedDrop.Message,
			})
		}
		if status.OffPeakCongestion.Detected {
			resp.Alerts = append(resp.Alerts, models.AlertDetail{
				Kind:    "off_peak_congestion",
				Message: status.OffPeakCongestion.Message,
			})
		}
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// EstimateCost handles POST /v1/trips:estimate-cost. It resolves the
// caller's vehicle, fetches the route distance, and prices the fuel burn.
func (h *TripHandler) EstimateCost(w http.ResponseWriter, r *http.Request) {
	var req models.CostEstimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, r, "Invalid JSON body", nil)
		return
	}

	var fieldErrors []models.FieldError
	if req.Origin == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "origin", Message: "is required"})
	}
	if req.Destination == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "destination", Message: "is required"})
	}
	if req.VehicleID == "" {
		fieldErrors = append(fieldErrors, models.FieldError{Field: "vehicleId", Message: "is required"})
	}
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "Validation failed", fieldErrors)
		return
	}

	v, err := h.vehicles.Get(r.Context(), userID(r), req.VehicleID)
	if err != nil {
		if errors.Is(err, vehicle.ErrVehicleNotFound) {
			response.NotFound(w, r, "Vehicle not found")
			return
		}
		h.logger.Error().Err(err).Msg("vehicle lookup failed")
		response.InternalError(w, r, "Internal error")
		return
	}

	route, err := h.routes.GetRoute(r.Context(), req.Origin, req.Destination)
	if err != nil {
		traceID := middleware.GetRequestID(r.Context())
		problem := models.NewUpstreamUnavailable(traceID, "Route lookup failed: "+err.Error())
		response.Error(w, r, problem)
		return
	}

	estimate, err := h.estimator.Estimate(r.Context(), v, route.DistanceKm)
	if err != nil {
		h.logger.Error().Err(err).Str("vehicle_id", v.ID).Msg("cost estimate failed")
		response.InternalError(w, r, "Failed to estimate trip cost")
		return
	}

	response.JSON(w, r, http.StatusOK, models.CostEstimateResponse{
		DistanceKm:   estimate.DistanceKm,
		FuelType:     string(estimate.FuelType),
		FuelNeeded:   estimate.FuelNeeded,
		PricePerUnit: estimate.PricePerUnit,
		Cost:         estimate.Cost,
		Currency:     "INR",
	})
}

func toPlanResponse(result *planner.PlanResult) models.PlanTripResponse {
	resp := models.PlanTripResponse{
		Trip:       toPanelView(result.Trip),
		Prediction: toPanelView(result.Prediction),
		Weather:    toPanelView(result.Weather),
		Laps:       toPanelView(result.Laps),
		Monitor:    toPanelView(result.Monitor),
	}

	if result.Route != nil {
		resp.Route = &models.RouteSummary{
			DistanceKm:  result.Route.DistanceKm,
			Duration:    result.Route.DurationFormatted,
			AvgSpeedKmh: result.Route.AvgSpeedKmh,
		}
	}

	return resp
}

func toPanelView(p planner.Panel) models.PanelView {
	return models.PanelView{
		State:  string(p.State),
		HTML:   p.HTML,
		Detail: p.Detail,
	}
}
