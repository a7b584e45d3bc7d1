// Package tripintel defines the domain model for trip intelligence data
// served by the upstream traffic IQ service: routes, departure predictions,
// travel-window weather, late-arrival risk scores, and the live monitor feed.
package tripintel

import (
	"errors"
	"fmt"
	"strings"
)

// Predefined errors, one per upstream capability. Each is local to its own
// panel in the planning pipeline; only a route failure aborts a session.
var (
	ErrRouteUnavailable      = errors.New("route service unavailable")
	ErrPredictionUnavailable = errors.New("prediction service unavailable")
	ErrWeatherUnavailable    = errors.New("weather service unavailable")
	ErrLapsUnavailable       = errors.New("laps service unavailable")
	ErrMonitorUnavailable    = errors.New("monitor service unavailable")
)

// TripQuery describes one planning submission. It is constructed fresh per
// submission and never mutated afterwards.
type TripQuery struct {
	// Origin and Destination are free-form place names (required).
	Origin      string
	Destination string

	// Date is an optional target date in YYYY-MM-DD.
	Date string

	// StartHour and EndHour bound the travel window (HH:MM, optional).
	StartHour string
	EndHour   string

	// VehicleID selects a registered vehicle for vehicle-aware planning.
	VehicleID string
}

// Validate checks the query before any network call is made.
func (q TripQuery) Validate() error {
	if strings.TrimSpace(q.Origin) == "" {
		return fmt.Errorf("origin is required")
	}
	if strings.TrimSpace(q.Destination) == "" {
		return fmt.Errorf("destination is required")
	}
	return nil
}

// RouteResult is the primary route summary between origin and destination.
type RouteResult struct {
	DistanceKm        float64
	DurationFormatted string
	AvgSpeedKmh       float64
}

// TrafficLevel classifies expected congestion for a departure window.
type TrafficLevel string

// Traffic levels, ordered by severity.
const (
	TrafficLow      TrafficLevel = "Low"
	TrafficMedium   TrafficLevel = "Medium"
	TrafficHigh     TrafficLevel = "High"
	TrafficCritical TrafficLevel = "Critical"
)

// HighAttention reports whether the level warrants the emphasized render
// style. High and Critical share it.
func (l TrafficLevel) HighAttention() bool {
	return l == TrafficHigh || l == TrafficCritical
}

// RouteLeg describes one suggested route in a prediction: its via point,
// savings relative to the baseline, and known jam spots in order.
type RouteLeg struct {
	ViaPoint         string
	RoadType         string
	FuelSavedLiters  float64
	TimeSavedSeconds int
	JamSpots         []string
}

// DateInsight carries a calendar-driven traffic note (holiday, event).
type DateInsight struct {
	Type   string
	Event  string
	Impact string
}

// PredictionResult is the smart-plan recommendation for a travel window.
type PredictionResult struct {
	Message      string
	TrafficLevel TrafficLevel
	Reason       string
	BestAltTime  string
	BestAltSpeed float64
	Primary      RouteLeg
	Alternative  *RouteLeg
	DateInsight  *DateInsight
}

// Condition is the dominant weather condition over the travel window.
type Condition string

// Known conditions.
const (
	ConditionSunny    Condition = "sunny"
	ConditionPleasant Condition = "pleasant"
	ConditionCold     Condition = "cold"
	ConditionRainy    Condition = "rainy"
	ConditionWindy    Condition = "windy"
)

// WeatherResult summarizes forecast data for the travel window.
type WeatherResult struct {
	Condition       Condition
	Label           string
	Emoji           string
	ImagePath       string
	TemperatureC    float64
	WindSpeedKmh    float64
	HumidityPct     float64
	VisibilityKm    float64
	VisibilityDesc  string
	TrafficSpikePct float64
	Message         string
	HoursAnalyzed   int
}

// LapsEntry is the late-arrival probability for one hour slot.
type LapsEntry struct {
	TimeLabel string
	RiskPct   float64
	JamSpots  []string
}

// LapsResult holds one entry per analyzed hour, in chronological order.
type LapsResult []LapsEntry

// SpeedDropAlert reports an unexpected drop in observed route speed.
type SpeedDropAlert struct {
	Detected  bool
	Message   string
	AmountKmh float64
}

// CongestionAlert reports congestion outside the usual peak hours.
type CongestionAlert struct {
	Detected bool
	Message  string
}

// MonitorStatus is the polled anomaly feed for a route.
type MonitorStatus struct {
	SpeedDrop         SpeedDropAlert
	OffPeakCongestion CongestionAlert
}

// Anomalous reports whether any monitor alert is active.
func (m MonitorStatus) Anomalous() bool {
	return m.SpeedDrop.Detected || m.OffPeakCongestion.Detected
}
