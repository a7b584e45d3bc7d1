package vehicle

import (
	"context"
	"sync"
)

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for testing. Production should use PostgresRepository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	vehicles map[string]*Vehicle
}

// NewInMemoryRepository creates a new in-memory vehicle repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		vehicles: make(map[string]*Vehicle),
	}
}

// Get retrieves a vehicle by ID.
func (r *InMemoryRepository) Get(_ context.Context, id string) (*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[id]
	if !ok {
		return nil, ErrVehicleNotFound
	}

	// Return a copy
	cpy := *v
	return &cpy, nil
}

// GetByUserAndID retrieves a vehicle by user ID and vehicle ID.
func (r *InMemoryRepository) GetByUserAndID(_ context.Context, userID, vehicleID string) (*Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.vehicles[vehicleID]
	if !ok {
		return nil, ErrVehicleNotFound
	}

	if v.UserID != userID {
		return nil, ErrVehicleNotFound
	}

	// Return a copy
	cpy := *v
	return &cpy, nil
}

// List retrieves all vehicles for a user with pagination.
func (r *InMemoryRepository) List(_ context.Context, userID string, opts ListOptions) (*ListResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var vehicles []*Vehicle
	for _, v := range r.vehicles {
		if v.UserID == userID {
			cpy := *v
			vehicles = append(vehicles, &cpy)
		}
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	result := &ListResult{
		Items: vehicles,
	}

	if len(vehicles) > limit {
		result.Items = vehicles[:limit]
		result.NextCursor = vehicles[limit-1].ID
	}

	return result, nil
}

// Create creates a new vehicle.
func (r *InMemoryRepository) Create(_ context.Context, v *Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cpy := *v
	r.vehicles[v.ID] = &cpy
	return nil
}

// Update updates an existing vehicle.
func (r *InMemoryRepository) Update(_ context.Context, v *Vehicle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.vehicles[v.ID]; !ok {
		return ErrVehicleNotFound
	}

	cpy := *v
	r.vehicles[v.ID] = &cpy
	return nil
}

// Delete deletes a vehicle by ID.
func (r *InMemoryRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.vehicles, id)
	return nil
}

// Ensure InMemoryRepository implements Repository interface.
var _ Repository = (*InMemoryRepository)(nil)
