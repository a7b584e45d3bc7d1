// Package planner orchestrates one trip-planning session: a route lookup
// followed by an independent fan-out to prediction, weather, and late-arrival
// scoring, with an on-demand monitor refresh. Results are rendered into
// per-panel view sinks and collected into a PlanResult.
package planner

import (
	"github.com/BMTushyath/smart-travel-planner/internal/tripintel"
)

// PanelState is the terminal state of one panel in a planning session.
type PanelState string

// Panel states. A failed panel never affects its siblings; skipped panels
// were short-circuited by a route failure; a pending panel is refreshed
// asynchronously after the session settles.
const (
	PanelOK      PanelState = "ok"
	PanelFailed  PanelState = "failed"
	PanelSkipped PanelState = "skipped"
	PanelPending PanelState = "pending"
)

// Panel holds the outcome of one sub-pipeline: its state, the rendered
// fragment written to the view, and a failure detail if any.
type Panel struct {
	State  PanelState
	HTML   string
	Detail string
}

// PlanResult is the assembled outcome of one planning session. Each panel is
// owned exclusively by the sub-pipeline that produced it.
type PlanResult struct {
	Query tripintel.TripQuery

	Trip       Panel
	Prediction Panel
	Weather    Panel
	Laps       Panel
	Monitor    Panel

	// Structured results for callers that want data, not fragments.
	Route            *tripintel.RouteResult
	PredictionResult *tripintel.PredictionResult
	WeatherResult    *tripintel.WeatherResult
	LapsResult       tripintel.LapsResult
}
