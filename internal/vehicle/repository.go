package vehicle

import "context"

// ListOptions contains options for listing vehicles.
type ListOptions struct {
	Limit  int
	Cursor string
}

// ListResult contains the results of listing vehicles.
type ListResult struct {
	Items      []*Vehicle
	NextCursor string
}

// Repository defines the interface for vehicle data persistence.
type Repository interface {
	// Get retrieves a vehicle by ID.
	Get(ctx context.Context, id string) (*Vehicle, error)

	// GetByUserAndID retrieves a vehicle by user ID and vehicle ID.
	// Returns ErrVehicleNotFound if the vehicle doesn't exist or doesn't belong to the user.
	GetByUserAndID(ctx context.Context, userID, vehicleID string) (*Vehicle, error)

	// List retrieves all vehicles for a user with pagination.
	List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error)

	// Create creates a new vehicle.
	Create(ctx context.Context, vehicle *Vehicle) error

	// Update updates an existing vehicle.
	Update(ctx context.Context, vehicle *Vehicle) error

	// Delete deletes a vehicle by ID.
	Delete(ctx context.Context, id string) error
}
