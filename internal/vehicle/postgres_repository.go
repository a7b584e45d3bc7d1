package vehicle

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL vehicle repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a vehicle by ID.
func (r *PostgresRepository) Get(ctx context.Context, id string) (*Vehicle, error) {
	query := `
		SELECT id, user_id, name, type, fuel_type, mileage, created_at, updated_at
		FROM vehicles
		WHERE id = $1
	`

	return r.scanVehicle(ctx, query, id)
}

// GetByUserAndID retrieves a vehicle by user ID and vehicle ID.
func (r *PostgresRepository) GetByUserAndID(ctx context.Context, userID, vehicleID string) (*Vehicle, error) {
	query := `
		SELECT id, user_id, name, type, fuel_type, mileage, created_at, updated_at
		FROM vehicles
		WHERE id = $1 AND user_id = $2
	`

	return r.scanVehicle(ctx, query, vehicleID, userID)
}

// scanVehicle scans a vehicle from a query result.
func (r *PostgresRepository) scanVehicle(ctx context.Context, query string, args ...interface{}) (*Vehicle, error) {
	var vehicle Vehicle

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&vehicle.ID,
		&vehicle.UserID,
		&vehicle.Name,
		&vehicle.Type,
		&vehicle.FuelType,
		&vehicle.Mileage,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}

	return &vehicle, nil
}

// List retrieves all vehicles for a user with pagination.
func (r *PostgresRepository) List(ctx context.Context, userID string, opts ListOptions) (*ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	// Fetch one extra to determine if there are more results
	fetchLimit := limit + 1

	query := `
		SELECT id, user_id, name, type, fuel_type, mileage, created_at, updated_at
		FROM vehicles
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, fetchLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*Vehicle
	for rows.Next() {
		var vehicle Vehicle
		err := rows.Scan(
			&vehicle.ID,
			&vehicle.UserID,
			&vehicle.Name,
			&vehicle.Type,
			&vehicle.FuelType,
			&vehicle.Mileage,
			&vehicle.CreatedAt,
			&vehicle.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, &vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := &ListResult{
		Items: vehicles,
	}

	// If we got more results than the limit, there are more pages
	if len(vehicles) > limit {
		result.Items = vehicles[:limit]
		result.NextCursor = vehicles[limit-1].ID
	}

	return result, nil
}

// Create creates a new vehicle.
func (r *PostgresRepository) Create(ctx context.Context, vehicle *Vehicle) error {
	query := `
		INSERT INTO vehicles (id, user_id, name, type, fuel_type, mileage, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.pool.Exec(ctx, query,
		vehicle.ID,
		vehicle.UserID,
		vehicle.Name,
		vehicle.Type,
		vehicle.FuelType,
		vehicle.Mileage,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)
	return err
}

// Update updates an existing vehicle.
func (r *PostgresRepository) Update(ctx context.Context, vehicle *Vehicle) error {
	query := `
		UPDATE vehicles SET
			name = $2,
			type = $3,
			fuel_type = $4,
			mileage = $5,
			updated_at = $6
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		vehicle.ID,
		vehicle.Name,
		vehicle.Type,
		vehicle.FuelType,
		vehicle.Mileage,
		vehicle.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return ErrVehicleNotFound
	}

	return nil
}

// Delete deletes a vehicle by ID.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM vehicles WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
