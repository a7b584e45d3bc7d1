package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/BMTushyath/smart-travel-planner/internal/api/models"
	"github.com/BMTushyath/smart-travel-planner/internal/api/response"
	"github.com/BMTushyath/smart-travel-planner/internal/vehicle"
)

// Default and maximum page sizes for vehicle listing.
const (
	defaultVehiclePageSize = 20
	maxVehiclePageSize     = 100
)

// VehicleHandler handles the vehicle registry endpoints.
type VehicleHandler struct {
	service *vehicle.Service
	logger  zerolog.Logger
}

// NewVehicleHandler creates a new vehicle handler.
func NewVehicleHandler(service *vehicle.Service, logger zerolog.Logger) *VehicleHandler {
	return &VehicleHandler{
		service: service,
		logger:  logger,
	}
}

// List handles GET /v1/me/vehicles.
func (h *VehicleHandler) List(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	limit := defaultVehiclePageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxVehiclePageSize {
			response.BadRequest(w, r, "Invalid limit parameter", []models.FieldError{
				{Field: "limit", Message: "must be an integer between 1 and 100"},
			})
			return
		}
		limit = parsed
	}

	result, err := h.service.List(r.Context(), uid, limit)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", uid).Msg("listing vehicles failed")
		response.InternalError(w, r, "Failed to list vehicles")
		return
	}

	items := make([]models.Vehicle, 0, len(result.Items))
	for _, v := range result.Items {
		items = append(items, toVehicleModel(v))
	}

	resp := models.PagedVehicles{
		Items: items,
		Meta:  models.PagedResponseMeta{Limit: limit},
	}
	if result.NextCursor != "" {
		resp.Meta.NextCursor = &result.NextCursor
	}

	response.JSON(w, r, http.StatusOK, resp)
}

// Get handles GET /v1/me/vehicles/{vehicleID}.
func (h *VehicleHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	vehicleID := chi.URLParam(r, "vehicleID")

	v, err := h.service.Get(r.Context(), uid, vehicleID)
	if err != nil {
		h.writeServiceError(w, r, err, "fetching vehicle")
		return
	}

	response.JSON(w, r, http.StatusOK, toVehicleModel(v))
}

// Create handles POST /v1/me/vehicles.
func (h *VehicleHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)

	var req models.VehicleCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, r, "Invalid JSON body", nil)
		return
	}

	v, err := h.service.Create(r.Context(), uid, vehicle.CreateInput{
		Name:     req.Name,
		Type:     vehicle.Type(req.Type),
		FuelType: vehicle.FuelType(req.FuelType),
		Mileage:  req.Mileage,
	})
	if err != nil {
		h.writeServiceError(w, r, err, "creating vehicle")
		return
	}

	h.logger.Info().Str("user_id", uid).Str("vehicle_id", v.ID).Msg("vehicle registered")
	response.Created(w, r, "/v1/me/vehicles/"+v.ID, toVehicleModel(v))
}

// Update handles PATCH /v1/me/vehicles/{vehicleID}.
func (h *VehicleHandler) Update(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	vehicleID := chi.URLParam(r, "vehicleID")

	var req models.VehicleUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.BadRequest(w, r, "Invalid JSON body", nil)
		return
	}

	input := vehicle.UpdateInput{
		Name:    req.Name,
		Mileage: req.Mileage,
	}
	if req.Type != nil {
		t := vehicle.Type(*req.Type)
		input.Type = &t
	}
	if req.FuelType != nil {
		ft := vehicle.FuelType(*req.FuelType)
		input.FuelType = &ft
	}

	v, err := h.service.Update(r.Context(), uid, vehicleID, input)
	if err != nil {
		h.writeServiceError(w, r, err, "updating vehicle")
		return
	}

	response.JSON(w, r, http.StatusOK, toVehicleModel(v))
}

// Delete handles DELETE /v1/me/vehicles/{vehicleID}.
func (h *VehicleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	vehicleID := chi.URLParam(r, "vehicleID")

	if err := h.service.Delete(r.Context(), uid, vehicleID); err != nil {
		h.writeServiceError(w, r, err, "deleting vehicle")
		return
	}

	response.NoContent(w, r)
}

// writeServiceError maps vehicle service errors to Problem responses.
func (h *VehicleHandler) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	var vErr *vehicle.ValidationError
	switch {
	case errors.As(err, &vErr):
		response.BadRequest(w, r, "Validation failed", toVehicleFieldErrors(vErr.Errors))
	case errors.Is(err, vehicle.ErrVehicleNotFound):
		response.NotFound(w, r, "Vehicle not found")
	default:
		h.logger.Error().Err(err).Msg(op + " failed")
		response.InternalError(w, r, "Internal error")
	}
}

func toVehicleModel(v *vehicle.Vehicle) models.Vehicle {
	return models.Vehicle{
		ID:        v.ID,
		Name:      v.Name,
		Type:      string(v.Type),
		FuelType:  string(v.FuelType),
		Mileage:   v.Mileage,
		CreatedAt: models.Timestamp(v.CreatedAt),
		UpdatedAt: models.Timestamp(v.UpdatedAt),
	}
}

func toVehicleFieldErrors(errs []vehicle.FieldError) []models.FieldError {
	out := make([]models.FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, models.FieldError{Field: e.Field, Message: e.Message})
	}
	return out
}
