package planner

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/BMTushyath/smart-travel-planner/internal/tripintel"
)

// RouteFetcher wraps the route lookup.
type RouteFetcher interface {
	GetRoute(ctx context.Context, origin, destination string) (*tripintel.RouteResult, error)
}

// PredictionFetcher wraps the smart-plan lookup.
type PredictionFetcher interface {
	GetPrediction(ctx context.Context, query tripintel.TripQuery) (*tripintel.PredictionResult, error)
}

// WeatherFetcher wraps the travel-window weather lookup.
type WeatherFetcher interface {
	GetWeather(ctx context.Context, query tripintel.TripQuery) (*tripintel.WeatherResult, error)
}

// LapsFetcher wraps the late-arrival score lookup.
type LapsFetcher interface {
	GetLaps(ctx context.Context, query tripintel.TripQuery) (tripintel.LapsResult, error)
}

// MonitorFetcher wraps the monitor feed read.
type MonitorFetcher interface {
	GetMonitorStatus(ctx context.Context) (*tripintel.MonitorStatus, error)
}

// Config holds the orchestrator's collaborators.
type Config struct {
	Routes      RouteFetcher
	Predictions PredictionFetcher
	Weather     WeatherFetcher
	Laps        LapsFetcher
	Monitor     MonitorFetcher
	Logger      zerolog.Logger

	// MonitorRefreshTimeout bounds the fire-and-forget monitor refresh
	// triggered by a successful prediction (default: 10 seconds).
	MonitorRefreshTimeout time.Duration
}

// Orchestrator runs trip-planning sessions. A session fetches the route
// first; on success it fans out concurrently to prediction, weather, and
// late-arrival scoring, each owning exactly one panel. Session state lives
// on the ViewBinding: resubmitting against the same view cancels the
// in-flight session and discards its stale renders, while concurrent
// sessions on distinct views run independently. The orchestrator itself is
// stateless and safe to share across callers.
type Orchestrator struct {
	routes      RouteFetcher
	predictions PredictionFetcher
	weather     WeatherFetcher
	laps        LapsFetcher
	monitor     MonitorFetcher
	logger      zerolog.Logger

	monitorRefreshTimeout time.Duration
}

// New creates a new orchestrator.
func New(cfg Config) *Orchestrator {
	timeout := cfg.MonitorRefreshTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Orchestrator{
		routes:                cfg.Routes,
		predictions:           cfg.Predictions,
		weather:               cfg.Weather,
		laps:                  cfg.Laps,
		monitor:               cfg.Monitor,
		logger:                cfg.Logger,
		monitorRefreshTimeout: timeout,
	}
}

// Plan runs one planning session against the view. It returns the assembled
// result; the returned error is non-nil only for an invalid query or a route
// failure, which short-circuits the session. Panel-local failures (prediction,
// weather, laps) are reported inside the result, never as an error.
func (o *Orchestrator) Plan(ctx context.Context, query tripintel.TripQuery, view *ViewBinding) (*PlanResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	gen, ctx := view.begin(ctx)
	view.Reset()

	result := &PlanResult{Query: query}

	o.logger.Debug().
		Uint64("session", gen).
		Str("origin", query.Origin).
		Str("destination", query.Destination).
		Msg("planning session started")

	route, err := o.routes.GetRoute(ctx, query.Origin, query.Destination)
	if err != nil {
		// A failed route short-circuits the whole session: no downstream
		// panel is populated.
		o.logger.Warn().Err(err).Uint64("session", gen).Msg("route lookup failed")
		result.Trip = Panel{State: PanelFailed, Detail: err.Error()}
		result.Prediction = Panel{State: PanelSkipped}
		result.Weather = Panel{State: PanelSkipped}
		result.Laps = Panel{State: PanelSkipped}
		result.Monitor = Panel{State: PanelSkipped}
		return result, err
	}

	result.Route = route
	result.Trip = Panel{State: PanelOK, HTML: renderTrip(query, route)}
	o.writePanel(view, gen, view.Trip, result.Trip.HTML)

	// The three sub-pipelines are mutually independent; run them
	// concurrently. Each always returns nil so a panel failure never
	// cancels its siblings.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		o.runPrediction(gctx, gen, query, view, result)
		return nil
	})
	g.Go(func() error {
		o.runWeather(gctx, gen, query, view, result)
		return nil
	})
	g.Go(func() error {
		o.runLaps(gctx, gen, query, view, result)
		return nil
	})

	_ = g.Wait()

	o.logger.Debug().Uint64("session", gen).Msg("planning session settled")
	return result, nil
}

// RefreshMonitor reads the monitor feed and renders it. It has no pipeline
// dependency and may be invoked directly (status panel) or as a side effect
// of a successful prediction.
func (o *Orchestrator) RefreshMonitor(ctx context.Context, view *ViewBinding) (*tripintel.MonitorStatus, Panel) {
	status, err := o.monitor.GetMonitorStatus(ctx)
	if err != nil {
		o.logger.Warn().Err(err).Msg("monitor read failed")
		panel := Panel{State: PanelFailed, HTML: renderPlaceholder(placeholderMonitor), Detail: err.Error()}
		o.writePanel(view, view.currentGeneration(), view.Monitor, panel.HTML)
		return nil, panel
	}

	panel := Panel{State: PanelOK, HTML: renderMonitor(status)}
	o.writePanel(view, view.currentGeneration(), view.Monitor, panel.HTML)
	return status, panel
}

func (o *Orchestrator) runPrediction(ctx context.Context, gen uint64, query tripintel.TripQuery, view *ViewBinding, result *PlanResult) {
	pred, err := o.predictions.GetPrediction(ctx, query)
	if err != nil {
		o.logger.Warn().Err(err).Uint64("session", gen).Msg("prediction fetch failed")
		result.Prediction = Panel{State: PanelFailed, HTML: renderPlaceholder(placeholderPrediction), Detail: err.Error()}
		o.writePanel(view, gen, view.Prediction, result.Prediction.HTML)
		return
	}

	result.PredictionResult = pred
	result.Prediction = Panel{State: PanelOK, HTML: renderPrediction(pred)}
	o.writePanel(view, gen, view.Prediction, result.Prediction.HTML)

	// A successful prediction render triggers a fire-and-forget monitor
	// refresh on a context detached from the submission.
	result.Monitor = Panel{State: PanelPending}
	go func() {
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.monitorRefreshTimeout)
		defer cancel()
		o.RefreshMonitor(refreshCtx, view)
	}()
}

func (o *Orchestrator) runWeather(ctx context.Context, gen uint64, query tripintel.TripQuery, view *ViewBinding, result *PlanResult) {
	weather, err := o.weather.GetWeather(ctx, query)
	if err != nil {
		o.logger.Warn().Err(err).Uint64("session", gen).Msg("weather fetch failed")
		result.Weather = Panel{State: PanelFailed, HTML: renderPlaceholder(placeholderWeather), Detail: err.Error()}
		o.writePanel(view, gen, view.Weather, result.Weather.HTML)
		return
	}

	result.WeatherResult = weather
	result.Weather = Panel{State: PanelOK, HTML: renderWeather(weather)}
	o.writePanel(view, gen, view.Weather, result.Weather.HTML)
}

func (o *Orchestrator) runLaps(ctx context.Context, gen uint64, query tripintel.TripQuery, view *ViewBinding, result *PlanResult) {
	laps, err := o.laps.GetLaps(ctx, query)
	if err != nil {
		o.logger.Warn().Err(err).Uint64("session", gen).Msg("laps fetch failed")
		result.Laps = Panel{State: PanelFailed, HTML: renderPlaceholder(placeholderLaps), Detail: err.Error()}
		o.writePanel(view, gen, view.Laps, result.Laps.HTML)
		return
	}

	result.LapsResult = laps
	result.Laps = Panel{State: PanelOK, HTML: renderLaps(laps)}
	o.writePanel(view, gen, view.Laps, result.Laps.HTML)
}

// writePanel writes a fragment to a sink unless the session that produced it
// is no longer current on its view. This prevents a slow response from an
// abandoned submission from overwriting the latest one.
func (o *Orchestrator) writePanel(view *ViewBinding, gen uint64, sink PanelSink, html string) {
	if sink == nil {
		return
	}

	if !view.isCurrent(gen) {
		o.logger.Debug().Uint64("session", gen).Msg("discarding stale render")
		return
	}

	sink.Set(html)
}
