package fuel

import (
	"context"
	"errors"
	"fmt"

	"github.com/BMTushyath/smart-travel-planner/internal/vehicle"
)

// Estimator errors.
var (
	ErrInvalidDistance = errors.New("distance must be greater than zero")
	ErrInvalidMileage  = errors.New("vehicle mileage must be greater than zero")
	ErrUnknownFuelType = errors.New("no price available for fuel type")
)

// Estimate is the projected cost of one trip with a specific vehicle.
type Estimate struct {
	// DistanceKm is the trip distance used for the estimate.
	DistanceKm float64

	// FuelNeeded is liters (or kWh for EVs) consumed over the distance.
	FuelNeeded float64

	// PricePerUnit is the per-liter (or per-kWh) price applied.
	PricePerUnit float64

	// Cost is the total trip cost: FuelNeeded × PricePerUnit.
	Cost float64

	// FuelType echoes the vehicle's fuel type.
	FuelType vehicle.FuelType
}

// Estimator computes trip fuel costs from vehicle mileage and current prices.
type Estimator struct {
	prices PriceSource
}

// NewEstimator creates a new estimator backed by the given price source.
func NewEstimator(prices PriceSource) *Estimator {
	return &Estimator{prices: prices}
}

// Estimate computes the fuel cost of driving distanceKm with the given
// vehicle. Fuel needed is distance divided by mileage.
func (e *Estimator) Estimate(ctx context.Context, v *vehicle.Vehicle, distanceKm float64) (*Estimate, error) {
	if distanceKm <= 0 {
		return nil, ErrInvalidDistance
	}
	if v.Mileage <= 0 {
		return nil, ErrInvalidMileage
	}

	prices, err := e.prices.GetPrices(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching fuel prices: %w", err)
	}

	price, ok := prices[v.FuelType]
	if !ok || price <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFuelType, v.FuelType)
	}

	fuelNeeded := distanceKm / v.Mileage

	return &Estimate{
		DistanceKm:   distanceKm,
		FuelNeeded:   fuelNeeded,
		PricePerUnit: price,
		Cost:         fuelNeeded * price,
		FuelType:     v.FuelType,
	}, nil
}
