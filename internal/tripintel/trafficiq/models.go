package trafficiq

import (
	"github.com/BMTushyath/smart-travel-planner/internal/tripintel"
)

// Traffic IQ API request and response structures.

type routeRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
}

type routeResponse struct {
	DistanceKm        float64 `json:"distance_km"`
	DurationFormatted string  `json:"duration_formatted"`
	AvgSpeedKmh       float64 `json:"avg_speed_kmh"`
}

type planRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	StartHour   string `json:"start_hour"`
	EndHour     string `json:"end_hour"`
	Date        string `json:"date,omitempty"`
	VehicleID   string `json:"vehicle_id,omitempty"`
}

// windowRequest is shared by the weather and laps endpoints.
type windowRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	StartHour   string `json:"start_hour"`
	EndHour     string `json:"end_hour"`
	Date        string `json:"date,omitempty"`
}

type legPayload struct {
	ViaPoint     string   `json:"via_point"`
	RoadType     string   `json:"road_type,omitempty"`
	FuelSaved    float64  `json:"fuel_saved"`
	TimeSavedSec int      `json:"time_saved_sec"`
	JamSpots     []string `json:"jam_spots"`
}

func (p legPayload) toDomain() tripintel.RouteLeg {
	return tripintel.RouteLeg{
		ViaPoint:         p.ViaPoint,
		RoadType:         p.RoadType,
		FuelSavedLiters:  p.FuelSaved,
		TimeSavedSeconds: p.TimeSavedSec,
		JamSpots:         p.JamSpots,
	}
}

type insightPayload struct {
	Type   string `json:"type"`
	Event  string `json:"event"`
	Impact string `json:"impact"`
}

type planResponse struct {
	Message      string          `json:"message"`
	TrafficLevel string          `json:"traffic_level"`
	Reason       string          `json:"reason"`
	BestAltTime  string          `json:"best_alt_time"`
	BestAltSpeed float64         `json:"best_alt_speed"`
	Primary      legPayload      `json:"primary"`
	Alternative  *legPayload     `json:"alternative"`
	DateInsights *insightPayload `json:"date_insights"`
}

func (p *planResponse) toDomain() *tripintel.PredictionResult {
	result := &tripintel.PredictionResult{
		Message:      p.Message,
		TrafficLevel: mapTrafficLevel(p.TrafficLevel),
		Reason:       p.Reason,
		BestAltTime:  p.BestAltTime,
		BestAltSpeed: p.BestAltSpeed,
		Primary:      p.Primary.toDomain(),
	}

	if p.Alternative != nil {
		alt := p.Alternative.toDomain()
		result.Alternative = &alt
	}

	if p.DateInsights != nil {
		result.DateInsight = &tripintel.DateInsight{
			Type:   p.DateInsights.Type,
			Event:  p.DateInsights.Event,
			Impact: p.DateInsights.Impact,
		}
	}

	return result
}

// mapTrafficLevel maps an upstream traffic level to the domain enum.
// Unknown values default to Low, matching the reference behavior.
func mapTrafficLevel(level string) tripintel.TrafficLevel {
	switch level {
	case "Medium":
		return tripintel.TrafficMedium
	case "High":
		return tripintel.TrafficHigh
	case "Critical":
		return tripintel.TrafficCritical
	default:
		return tripintel.TrafficLow
	}
}

type weatherResponse struct {
	Condition       string  `json:"condition"`
	Label           string  `json:"label"`
	Emoji           string  `json:"emoji"`
	Image           string  `json:"image"`
	Temperature     float64 `json:"temperature"`
	WindSpeed       float64 `json:"wind_speed"`
	Humidity        float64 `json:"humidity"`
	VisibilityKm    float64 `json:"visibility_km"`
	VisibilityDesc  string  `json:"visibility_desc"`
	TrafficSpikePct float64 `json:"traffic_spike_pct"`
	Message         string  `json:"message"`
	HoursAnalyzed   int     `json:"hours_analyzed"`
}

func (p *weatherResponse) toDomain() *tripintel.WeatherResult {
	return &tripintel.WeatherResult{
		Condition:       mapCondition(p.Condition),
		Label:           p.Label,
		Emoji:           p.Emoji,
		ImagePath:       p.Image,
		TemperatureC:    p.Temperature,
		WindSpeedKmh:    p.WindSpeed,
		HumidityPct:     p.Humidity,
		VisibilityKm:    p.VisibilityKm,
		VisibilityDesc:  p.VisibilityDesc,
		TrafficSpikePct: p.TrafficSpikePct,
		Message:         p.Message,
		HoursAnalyzed:   p.HoursAnalyzed,
	}
}

// mapCondition maps an upstream condition to the domain enum. Unknown
// values default to sunny, matching the upstream's WMO-code fallback.
func mapCondition(cond string) tripintel.Condition {
	switch cond {
	case "pleasant":
		return tripintel.ConditionPleasant
	case "cold":
		return tripintel.ConditionCold
	case "rainy":
		return tripintel.ConditionRainy
	case "windy":
		return tripintel.ConditionWindy
	default:
		return tripintel.ConditionSunny
	}
}

type lapsEntryPayload struct {
	TimeLabel string   `json:"time_label"`
	Risk      float64  `json:"risk"`
	JamSpots  []string `json:"jam_spots"`
}

type monitorResponse struct {
	SpeedDrop struct {
		Detected bool    `json:"detected"`
		Message  string  `json:"message"`
		Amount   float64 `json:"amount"`
	} `json:"speed_drop"`
	OffPeakCongestion struct {
		Detected bool   `json:"detected"`
		Message  string `json:"message"`
	} `json:"off_peak_congestion"`
}

func (p *monitorResponse) toDomain() *tripintel.MonitorStatus {
	return &tripintel.MonitorStatus{
		SpeedDrop: tripintel.SpeedDropAlert{
			Detected:  p.SpeedDrop.Detected,
			Message:   p.SpeedDrop.Message,
			AmountKmh: p.SpeedDrop.Amount,
		},
		OffPeakCongestion: tripintel.CongestionAlert{
			Detected: p.OffPeakCongestion.Detected,
			Message:  p.OffPeakCongestion.Message,
		},
	}
}

type errorResponse struct {
	Error string `json:"error"`
}
