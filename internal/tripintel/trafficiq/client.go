// Package trafficiq is a client for the upstream traffic IQ service, which
// owns routing, departure prediction, travel-window weather, late-arrival
// scoring, and the live route monitor. Only its JSON contract matters here;
// none of its algorithms are reimplemented.
package trafficiq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/BMTushyath/smart-travel-planner/internal/provider/resilience"
	"github.com/BMTushyath/smart-travel-planner/internal/tripintel"
)

const (
	// ProviderName identifies this provider in logs and breaker names.
	ProviderName = "trafficiq"

	// DefaultBaseURL is the traffic IQ API base URL.
	DefaultBaseURL = "http://localhost:5000"
)

// ClientConfig holds configuration for the traffic IQ client.
type ClientConfig struct {
	// BaseURL is the API base URL (optional, defaults to DefaultBaseURL).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional). If nil, uses a
	// single-attempt resilient client: planning calls are never retried.
	HTTPClient *resilience.Client

	// Metrics records per-operation request metrics (optional).
	Metrics *resilience.ProviderMetrics

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a traffic IQ API client.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	metrics    *resilience.ProviderMetrics
	logger     zerolog.Logger
}

// NewClient creates a new traffic IQ client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.SingleAttemptConfig(ProviderName))
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		metrics:    cfg.Metrics,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// CircuitBreakerState returns the state of the underlying circuit breaker.
func (c *Client) CircuitBreakerState() gobreaker.State {
	return c.httpClient.CircuitBreakerState()
}

// GetRoute fetches the primary route between two place names. A non-2xx
// status, a transport failure, or a payload without a positive distance all
// surface as ErrRouteUnavailable.
func (c *Client) GetRoute(ctx context.Context, origin, destination string) (*tripintel.RouteResult, error) {
	req := routeRequest{Origin: origin, Destination: destination}

	var resp routeResponse
	if err := c.postJSON(ctx, "/api/route", req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", tripintel.ErrRouteUnavailable, err)
	}

	if resp.DistanceKm <= 0 {
		return nil, fmt.Errorf("%w: malformed payload, missing distance_km", tripintel.ErrRouteUnavailable)
	}

	return &tripintel.RouteResult{
		DistanceKm:        resp.DistanceKm,
		DurationFormatted: resp.DurationFormatted,
		AvgSpeedKmh:       resp.AvgSpeedKmh,
	}, nil
}

// GetPrediction fetches the smart-plan recommendation for the query's
// travel window. Failure is local to the prediction panel.
func (c *Client) GetPrediction(ctx context.Context, query tripintel.TripQuery) (*tripintel.PredictionResult, error) {
	req := planRequest{
		Origin:      query.Origin,
		Destination: query.Destination,
		StartHour:   query.StartHour,
		EndHour:     query.EndHour,
		Date:        query.Date,
		VehicleID:   query.VehicleID,
	}

	var resp planResponse
	if err := c.postJSON(ctx, "/api/smart_plan", req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", tripintel.ErrPredictionUnavailable, err)
	}

	return resp.toDomain(), nil
}

// GetWeather fetches the travel-window weather summary.
func (c *Client) GetWeather(ctx context.Context, query tripintel.TripQuery) (*tripintel.WeatherResult, error) {
	req := windowRequest{
		Origin:      query.Origin,
		Destination: query.Destination,
		StartHour:   query.StartHour,
		EndHour:     query.EndHour,
		Date:        query.Date,
	}

	var resp weatherResponse
	if err := c.postJSON(ctx, "/api/weather", req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", tripintel.ErrWeatherUnavailable, err)
	}

	return resp.toDomain(), nil
}

// GetLaps fetches the late-arrival probability score per hour slot, in
// chronological order.
func (c *Client) GetLaps(ctx context.Context, query tripintel.TripQuery) (tripintel.LapsResult, error) {
	req := windowRequest{
		Origin:      query.Origin,
		Destination: query.Destination,
		StartHour:   query.StartHour,
		EndHour:     query.EndHour,
		Date:        query.Date,
	}

	var resp []lapsEntryPayload
	if err := c.postJSON(ctx, "/api/laps", req, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", tripintel.ErrLapsUnavailable, err)
	}

	result := make(tripintel.LapsResult, 0, len(resp))
	for _, e := range resp {
		result = append(result, tripintel.LapsEntry{
			TimeLabel: e.TimeLabel,
			RiskPct:   e.Risk,
			JamSpots:  e.JamSpots,
		})
	}

	return result, nil
}

// GetMonitorStatus fetches the live monitor anomaly feed. This is an
// idempotent read with no pipeline dependency.
func (c *Client) GetMonitorStatus(ctx context.Context) (*tripintel.MonitorStatus, error) {
	url := c.baseURL + "/api/monitor"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %w", tripintel.ErrMonitorUnavailable, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordRequest(ctx, ProviderName, "/api/monitor", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", tripintel.ErrMonitorUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s", tripintel.ErrMonitorUnavailable, c.upstreamError(resp))
	}

	var payload monitorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %w", tripintel.ErrMonitorUnavailable, err)
	}

	return payload.toDomain(), nil
}

// postJSON issues a POST with a JSON body and decodes a JSON response into
// out. Non-2xx statuses and malformed JSON are reported as errors; the
// caller maps them to its panel-local sentinel.
func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordRequest(ctx, ProviderName, path, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().
			Str("path", path).
			Int("status", resp.StatusCode).
			Msg("upstream returned non-success status")
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, c.upstreamError(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

// upstreamError extracts the error field from a failure body, if present.
func (c *Client) upstreamError(resp *http.Response) string {
	var payload errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		return "no error detail"
	}
	return payload.Error
}
