package planner

import (
	"fmt"
	"html"
	"strings"

	"github.com/BMTushyath/smart-travel-planner/internal/risk"
	"github.com/BMTushyath/smart-travel-planner/internal/tripintel"
)

// Placeholder texts for panel-local failures.
const (
	placeholderPrediction = "Could not fetch prediction data."
	placeholderWeather    = "Could not fetch weather data."
	placeholderLaps       = "Could not fetch LAPS data."
	placeholderMonitor    = "No monitor data available."
)

func renderPlaceholder(message string) string {
	return fmt.Sprintf(`<div class="loader-placeholder">%s</div>`, html.EscapeString(message))
}

// renderTrip builds the trip-details fragment: distance, current ETA, and
// average speed from the primary route.
func renderTrip(query tripintel.TripQuery, route *tripintel.RouteResult) string {
	var b strings.Builder
	b.WriteString(`<div class="trip-details">`)
	fmt.Fprintf(&b, `<div class="trip-endpoints">%s → %s</div>`,
		html.EscapeString(query.Origin), html.EscapeString(query.Destination))
	fmt.Fprintf(&b, `<div class="trip-stat">Distance: %.1f km</div>`, route.DistanceKm)
	fmt.Fprintf(&b, `<div class="trip-stat">Current ETA: %s</div>`, html.EscapeString(route.DurationFormatted))
	fmt.Fprintf(&b, `<div class="trip-stat">Avg Speed: %.1f km/h</div>`, route.AvgSpeedKmh)
	b.WriteString(`</div>`)
	return b.String()
}

// renderPrediction builds the smart-plan fragment: suggested departure,
// traffic level with emphasis for High/Critical, route legs with savings and
// jam spots, and an optional date insight.
func renderPrediction(pred *tripintel.PredictionResult) string {
	levelClass := "level-" + strings.ToLower(string(pred.TrafficLevel))
	attention := ""
	if pred.TrafficLevel.HighAttention() {
		attention = " traffic-attention"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="prediction%s">`, attention)
	fmt.Fprintf(&b, `<div class="best-time">Suggested time to start: %s</div>`, html.EscapeString(pred.BestAltTime))
	fmt.Fprintf(&b, `<div class="best-speed">Avg Speed: %.1f km/h</div>`, pred.BestAltSpeed)
	fmt.Fprintf(&b, `<span class="traffic-level %s">%s Traffic</span>`, levelClass, pred.TrafficLevel)
	fmt.Fprintf(&b, `<div class="traffic-reason">%s</div>`, html.EscapeString(pred.Reason))
	fmt.Fprintf(&b, `<div class="plan-message">%s</div>`, html.EscapeString(pred.Message))

	b.WriteString(renderLeg("Optimal Route", pred.Primary))
	if pred.Alternative != nil {
		b.WriteString(renderLeg("Best Alternate Route", *pred.Alternative))
	}

	if pred.DateInsight != nil {
		fmt.Fprintf(&b, `<div class="date-insight"><strong>%s</strong>: %s (%s)</div>`,
			html.EscapeString(pred.DateInsight.Event),
			html.EscapeString(pred.DateInsight.Impact),
			html.EscapeString(pred.DateInsight.Type))
	}

	b.WriteString(`</div>`)
	return b.String()
}

func renderLeg(title string, leg tripintel.RouteLeg) string {
	var b strings.Builder
	b.WriteString(`<div class="traffic-alt">`)
	fmt.Fprintf(&b, `<strong>%s</strong>`, html.EscapeString(title))
	via := leg.ViaPoint
	if via == "" {
		via = "Primary Route"
	}
	fmt.Fprintf(&b, `<span>Via: %s</span>`, html.EscapeString(via))
	if leg.RoadType != "" {
		fmt.Fprintf(&b, `<span class="road-type">%s</span>`, html.EscapeString(leg.RoadType))
	}
	if leg.FuelSavedLiters > 0 {
		fmt.Fprintf(&b, `<span class="saving">Fuel saved: %.1f L</span>`, leg.FuelSavedLiters)
	}
	if leg.TimeSavedSeconds > 0 {
		fmt.Fprintf(&b, `<span class="saving">Time saved: %d min</span>`, leg.TimeSavedSeconds/60)
	}
	b.WriteString(renderJamSpots(leg.JamSpots))
	b.WriteString(`</div>`)
	return b.String()
}

func renderJamSpots(spots []string) string {
	if len(spots) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<div class="jam-spots">`)
	for _, spot := range spots {
		fmt.Fprintf(&b, `<span class="jam-spot-badge">%s</span>`, html.EscapeString(spot))
	}
	b.WriteString(`</div>`)
	return b.String()
}

// renderWeather builds the weather fragment: condition badge, stats, the
// upstream message, and the locally derived advisory tip.
func renderWeather(weather *tripintel.WeatherResult) string {
	condClass := "weather-" + string(weather.Condition)

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="weather-display %s">`, condClass)
	fmt.Fprintf(&b, `<span class="weather-emoji">%s</span>`, weather.Emoji)
	fmt.Fprintf(&b, `<span class="weather-condition-badge">%s</span>`, html.EscapeString(weather.Label))
	fmt.Fprintf(&b, `<div class="weather-stat">%.1f°C</div>`, weather.TemperatureC)
	fmt.Fprintf(&b, `<div class="weather-stat">%.1f km/h wind</div>`, weather.WindSpeedKmh)
	fmt.Fprintf(&b, `<div class="weather-stat">%.0f%% humidity</div>`, weather.HumidityPct)
	if weather.VisibilityDesc != "" {
		fmt.Fprintf(&b, `<div class="weather-stat">Visibility: %.1f km (%s)</div>`,
			weather.VisibilityKm, html.EscapeString(weather.VisibilityDesc))
	}
	if weather.TrafficSpikePct > 0 {
		fmt.Fprintf(&b, `<div class="weather-traffic">Weather may add %.0f%% to traffic</div>`, weather.TrafficSpikePct)
	}
	fmt.Fprintf(&b, `<div class="weather-message">%s %s</div>`, weather.Emoji, html.EscapeString(weather.Message))
	fmt.Fprintf(&b, `<div class="weather-tip">%s</div>`, html.EscapeString(tripintel.TravelTip(weather.Condition, weather.TemperatureC)))
	fmt.Fprintf(&b, `<div class="weather-meta">Based on %d hours of forecast data</div>`, weather.HoursAnalyzed)
	b.WriteString(`</div>`)
	return b.String()
}

// renderLaps builds the late-arrival fragment: one bar per hour slot,
// colored by severity tier, with jam-spot badges where reported.
func renderLaps(laps tripintel.LapsResult) string {
	var b strings.Builder
	b.WriteString(`<div class="laps-display">`)
	for _, entry := range laps {
		tier := risk.For(entry.RiskPct)
		fmt.Fprintf(&b, `<div class="laps-hour-item laps-%s">`, tier)
		fmt.Fprintf(&b, `<div class="laps-time">%s</div>`, html.EscapeString(entry.TimeLabel))
		fmt.Fprintf(&b, `<div class="laps-bar" style="width: %.0f%%; background-color: %s;"></div>`,
			entry.RiskPct, tier.Color())
		fmt.Fprintf(&b, `<div class="laps-score" style="color: %s">%.0f%%</div>`, tier.Color(), entry.RiskPct)
		b.WriteString(renderJamSpots(entry.JamSpots))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

// renderMonitor builds the monitor fragment. Speed-drop severity reuses the
// shared risk tiering on the drop magnitude.
func renderMonitor(status *tripintel.MonitorStatus) string {
	var b strings.Builder
	b.WriteString(`<div class="monitor-display">`)

	if status.SpeedDrop.Detected {
		tier := risk.For(status.SpeedDrop.AmountKmh)
		fmt.Fprintf(&b, `<div class="monitor-alert monitor-%s" style="color: %s">⚠ %s</div>`,
			tier, tier.Color(), html.EscapeString(status.SpeedDrop.Message))
	} else {
		b.WriteString(`<div class="monitor-ok">Speeds look normal.</div>`)
	}

	if status.OffPeakCongestion.Detected {
		fmt.Fprintf(&b, `<div class="monitor-alert">⚠ %s</div>`, html.EscapeString(status.OffPeakCongestion.Message))
	} else {
		b.WriteString(`<div class="monitor-ok">No off-peak congestion.</div>`)
	}

	b.WriteString(`</div>`)
	return b.String()
}
