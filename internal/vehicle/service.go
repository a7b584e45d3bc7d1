package vehicle

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service errors.
var (
	ErrNotAuthorized = errors.New("not authorized to access this vehicle")
)

// Validation constants.
const (
	MaxNameLength = 80
	MaxMileage    = 150
)

// FieldError describes a single invalid input field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError represents validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

// CreateInput is the input for creating a vehicle.
type CreateInput struct {
	Name     string
	Type     Type
	FuelType FuelType
	Mileage  float64
}

// UpdateInput is the input for updating a vehicle. Nil fields are unchanged.
type UpdateInput struct {
	Name     *string
	Type     *Type
	FuelType *FuelType
	Mileage  *float64
}

// Service provides vehicle registry operations.
type Service struct {
	repo Repository
}

// NewService creates a new vehicle service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List retrieves all vehicles for a user.
func (s *Service) List(ctx context.Context, userID string, limit int) (*ListResult, error) {
	return s.repo.List(ctx, userID, ListOptions{Limit: limit})
}

// Get retrieves a vehicle by ID for a user.
func (s *Service) Get(ctx context.Context, userID, vehicleID string) (*Vehicle, error) {
	return s.repo.GetByUserAndID(ctx, userID, vehicleID)
}

// Create registers a new vehicle for a user.
func (s *Service) Create(ctx context.Context, userID string, input CreateInput) (*Vehicle, error) {
	if fieldErrors := s.validateCreateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	now := time.Now()
	vehicle := &Vehicle{
		ID:        "veh_" + uuid.New().String()[:22],
		UserID:    userID,
		Name:      input.Name,
		Type:      input.Type,
		FuelType:  input.FuelType,
		Mileage:   input.Mileage,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// Update updates an existing vehicle for a user.
func (s *Service) Update(ctx context.Context, userID, vehicleID string, input UpdateInput) (*Vehicle, error) {
	vehicle, err := s.repo.GetByUserAndID(ctx, userID, vehicleID)
	if err != nil {
		return nil, err
	}

	if fieldErrors := s.validateUpdateInput(input); len(fieldErrors) > 0 {
		return nil, &ValidationError{Errors: fieldErrors}
	}

	if input.Name != nil {
		vehicle.Name = *input.Name
	}
	if input.Type != nil {
		vehicle.Type = *input.Type
	}
	if input.FuelType != nil {
		vehicle.FuelType = *input.FuelType
	}
	if input.Mileage != nil {
		vehicle.Mileage = *input.Mileage
	}
	vehicle.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// Delete deletes a vehicle for a user.
func (s *Service) Delete(ctx context.Context, userID, vehicleID string) error {
	// Verify ownership
	_, err := s.repo.GetByUserAndID(ctx, userID, vehicleID)
	if err != nil {
		return err
	}

	return s.repo.Delete(ctx, vehicleID)
}

// validateCreateInput validates the create vehicle input.
func (s *Service) validateCreateInput(input CreateInput) []FieldError {
	var errs []FieldError

	if input.Name == "" {
		errs = append(errs, FieldError{Field: "name", Message: "is required"})
	} else if len(input.Name) > MaxNameLength {
		errs = append(errs, FieldError{Field: "name", Message: "must be at most 80 characters"})
	}

	if !input.Type.Valid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be one of car, bike, ev"})
	}

	if !input.FuelType.Valid() {
		errs = append(errs, FieldError{Field: "fuelType", Message: "must be one of petrol, diesel, cng, ev"})
	}

	errs = append(errs, s.validateMileage(input.Mileage)...)

	return errs
}

// validateUpdateInput validates the update vehicle input.
func (s *Service) validateUpdateInput(input UpdateInput) []FieldError {
	var errs []FieldError

	if input.Name != nil {
		if *input.Name == "" {
			errs = append(errs, FieldError{Field: "name", Message: "cannot be empty"})
		} else if len(*input.Name) > MaxNameLength {
			errs = append(errs, FieldError{Field: "name", Message: "must be at most 80 characters"})
		}
	}

	if input.Type != nil && !input.Type.Valid() {
		errs = append(errs, FieldError{Field: "type", Message: "must be one of car, bike, ev"})
	}

	if input.FuelType != nil && !input.FuelType.Valid() {
		errs = append(errs, FieldError{Field: "fuelType", Message: "must be one of petrol, diesel, cng, ev"})
	}

	if input.Mileage != nil {
		errs = append(errs, s.validateMileage(*input.Mileage)...)
	}

	return errs
}

// validateMileage validates a mileage value (km per liter, or km per kWh for
// electric vehicles).
func (s *Service) validateMileage(mileage float64) []FieldError {
	if mileage <= 0 {
		return []FieldError{{Field: "mileage", Message: "must be greater than zero"}}
	}
	if mileage > MaxMileage {
		return []FieldError{{Field: "mileage", Message: "must be at most 150"}}
	}
	return nil
}
