package models

// PlanTripRequest is the body of a trip-planning submission.
type PlanTripRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	Date        string `json:"date,omitempty"`
	StartHour   string `json:"startHour,omitempty"`
	EndHour     string `json:"endHour,omitempty"`
	VehicleID   string `json:"vehicleId,omitempty"`
}

// PanelView is the rendered outcome of one dashboard panel.
type PanelView struct {
	// State is one of "ok", "failed", "skipped", "pending".
	State string `json:"state"`

	// HTML is the rendered panel fragment. Empty for skipped panels.
	HTML string `json:"html,omitempty"`

	// Detail carries the failure reason for failed panels.
	Detail string `json:"detail,omitempty"`
}

// PlanTripResponse is the settled outcome of a planning session. Each panel
// fails independently; only a route failure aborts the session before any
// panel is populated.
type PlanTripResponse struct {
	Trip       PanelView `json:"trip"`
	Prediction PanelView `json:"prediction"`
	Weather    PanelView `json:"weather"`
	Laps       PanelView `json:"laps"`
	Monitor    PanelView `json:"monitor"`

	Route *RouteSummary `json:"route,omitempty"`
}

// RouteSummary is the structured route data accompanying the trip panel.
type RouteSummary struct {
	DistanceKm  float64 `json:"distanceKm"`
	Duration    string  `json:"duration"`
	AvgSpeedKmh float64 `json:"avgSpeedKmh"`
}

// MonitorResponse is the on-demand monitor feed read.
type MonitorResponse struct {
	Panel     PanelView     `json:"panel"`
	Anomalous bool          `json:"anomalous"`
	Alerts    []AlertDetail `json:"alerts,omitempty"`
}

// AlertDetail is one active monitor alert.
type AlertDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// CostEstimateRequest asks for a fuel cost estimate over a route.
type CostEstimateRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	VehicleID   string `json:"vehicleId"`
}

// CostEstimateResponse is the computed fuel cost for the trip.
type CostEstimateResponse struct {
	DistanceKm   float64 `json:"distanceKm"`
	FuelType     string  `json:"fuelType"`
	FuelNeeded   float64 `json:"fuelNeeded"`
	PricePerUnit float64 `json:"pricePerUnit"`
	Cost         float64 `json:"cost"`
	Currency     string  `json:"currency"`
}
