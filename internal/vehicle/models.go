// Package vehicle provides vehicle registry services. Registered vehicles
// feed vehicle-aware trip predictions and fuel cost estimates.
package vehicle

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrVehicleNotFound = errors.New("vehicle not found")
)

// Type classifies a vehicle.
type Type string

// Known vehicle types.
const (
	TypeCar  Type = "car"
	TypeBike Type = "bike"
	TypeEV   Type = "ev"
)

// FuelType is the energy source a vehicle runs on.
type FuelType string

// Known fuel types. Electric vehicles use FuelEV; Mileage is then km/kWh.
const (
	FuelPetrol FuelType = "petrol"
	FuelDiesel FuelType = "diesel"
	FuelCNG    FuelType = "cng"
	FuelEV     FuelType = "ev"
)

// Valid reports whether t is a known vehicle type.
func (t Type) Valid() bool {
	switch t {
	case TypeCar, TypeBike, TypeEV:
		return true
	}
	return false
}

// Valid reports whether f is a known fuel type.
func (f FuelType) Valid() bool {
	switch f {
	case FuelPetrol, FuelDiesel, FuelCNG, FuelEV:
		return true
	}
	return false
}

// Vehicle represents a registered vehicle.
type Vehicle struct {
	ID        string
	UserID    string
	Name      string
	Type      Type
	FuelType  FuelType
	Mileage   float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
