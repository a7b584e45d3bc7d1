package models

// Vehicle is the API representation of a registered vehicle.
type Vehicle struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	FuelType  string    `json:"fuelType"`
	Mileage   float64   `json:"mileage"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// VehicleCreateRequest is the body for registering a vehicle.
type VehicleCreateRequest struct {
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	FuelType string  `json:"fuelType"`
	Mileage  float64 `json:"mileage"`
}

// VehicleUpdateRequest is the body for updating a vehicle. All fields are
// optional; absent fields are left unchanged.
type VehicleUpdateRequest struct {
	Name     *string  `json:"name,omitempty"`
	Type     *string  `json:"type,omitempty"`
	FuelType *string  `json:"fuelType,omitempty"`
	Mileage  *float64 `json:"mileage,omitempty"`
}

// PagedVehicles is a cursor-paged list of vehicles.
type PagedVehicles struct {
	Items []Vehicle         `json:"items"`
	Meta  PagedResponseMeta `json:"meta"`
}
