package trafficiq_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/BMTushyath/smart-travel-planner/internal/provider/resilience"
	"github.com/BMTushyath/smart-travel-planner/internal/tripintel"
	"github.com/BMTushyath/smart-travel-planner/internal/tripintel/trafficiq"
)

func newClient(serverURL string) *trafficiq.Client {
	return trafficiq.NewClient(trafficiq.ClientConfig{
		BaseURL:    serverURL,
		HTTPClient: resilience.NewClient(resilience.SingleAttemptConfig("test")),
	})
}

func TestClient_GetRoute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/route", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Delhi", body["origin"])
		assert.Equal(t, "Agra", body["destination"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"distance_km":        12.3,
			"duration_formatted": "25 min",
			"avg_speed_kmh":      30.0,
		})
	}))
	defer server.Close()

	route, err := newClient(server.URL).GetRoute(context.Background(), "Delhi", "Agra")
	require.NoError(t, err)
	require.NotNil(t, route)

	assert.Equal(t, 12.3, route.DistanceKm)
	assert.Equal(t, "25 min", route.DurationFormatted)
	assert.Equal(t, 30.0, route.AvgSpeedKmh)
}

func TestClient_GetRoute_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Could not find location: Nowhere"})
	}))
	defer server.Close()

	route, err := newClient(server.URL).GetRoute(context.Background(), "Nowhere", "Agra")
	assert.Nil(t, route)
	assert.ErrorIs(t, err, tripintel.ErrRouteUnavailable)
	assert.Contains(t, err.Error(), "Could not find location")
}

func TestClient_GetRoute_MissingDistanceIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"duration_formatted": "25 min",
		})
	}))
	defer server.Close()

	route, err := newClient(server.URL).GetRoute(context.Background(), "Delhi", "Agra")
	assert.Nil(t, route)
	assert.ErrorIs(t, err, tripintel.ErrRouteUnavailable)
}

func TestClient_GetRoute_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	_, err := newClient(server.URL).GetRoute(context.Background(), "Delhi", "Agra")
	assert.ErrorIs(t, err, tripintel.ErrRouteUnavailable)
}

func TestClient_GetPrediction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/smart_plan", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "08:00", body["start_hour"])
		assert.Equal(t, "veh_1", body["vehicle_id"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"message":        "Best time to leave is around 8:00 AM.",
			"traffic_level":  "High",
			"reason":         "Heavy congestion detected.",
			"best_alt_time":  "8:00 AM",
			"best_alt_speed": 42.5,
			"primary": map[string]interface{}{
				"via_point":      "NH48",
				"road_type":      "highway",
				"fuel_saved":     0.8,
				"time_saved_sec": 540,
				"jam_spots":      []string{"Gurgaon Toll", "Manesar"},
			},
			"alternative": map[string]interface{}{
				"via_point": "Old Delhi Road",
				"jam_spots": []string{},
			},
			"date_insights": map[string]string{
				"type":   "holiday",
				"event":  "Diwali",
				"impact": "Evening rush expected to start early",
			},
		})
	}))
	defer server.Close()

	query := tripintel.TripQuery{
		Origin: "Delhi", Destination: "Agra",
		StartHour: "08:00", EndHour: "09:00", VehicleID: "veh_1",
	}

	pred, err := newClient(server.URL).GetPrediction(context.Background(), query)
	require.NoError(t, err)
	require.NotNil(t, pred)

	assert.Equal(t, tripintel.TrafficHigh, pred.TrafficLevel)
	assert.Equal(t, "NH48", pred.Primary.ViaPoint)
	assert.Equal(t, 540, pred.Primary.TimeSavedSeconds)
	assert.Equal(t, []string{"Gurgaon Toll", "Manesar"}, pred.Primary.JamSpots)
	require.NotNil(t, pred.Alternative)
	assert.Equal(t, "Old Delhi Road", pred.Alternative.ViaPoint)
	require.NotNil(t, pred.DateInsight)
	assert.Equal(t, "Diwali", pred.DateInsight.Event)
}

func TestClient_GetPrediction_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Could not calculate best time."})
	}))
	defer server.Close()

	_, err := newClient(server.URL).GetPrediction(context.Background(), tripintel.TripQuery{Origin: "A", Destination: "B"})
	assert.ErrorIs(t, err, tripintel.ErrPredictionUnavailable)
}

func TestClient_GetWeather(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/weather", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"condition":         "rainy",
			"label":             "Rainy",
			"emoji":             "🌧️",
			"image":             "rainy.webp",
			"temperature":       24.5,
			"wind_speed":        12.0,
			"humidity":          88.0,
			"visibility_km":     4.0,
			"visibility_desc":   "Reduced",
			"traffic_spike_pct": 18.0,
			"message":           "You might soak in rain",
			"hours_analyzed":    3,
		})
	}))
	defer server.Close()

	weather, err := newClient(server.URL).GetWeather(context.Background(), tripintel.TripQuery{Origin: "A", Destination: "B"})
	require.NoError(t, err)

	assert.Equal(t, tripintel.ConditionRainy, weather.Condition)
	assert.Equal(t, 24.5, weather.TemperatureC)
	assert.Equal(t, 3, weather.HoursAnalyzed)
	assert.Equal(t, 18.0, weather.TrafficSpikePct)
}

func TestClient_GetWeather_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := newClient(server.URL).GetWeather(context.Background(), tripintel.TripQuery{Origin: "A", Destination: "B"})
	assert.ErrorIs(t, err, tripintel.ErrWeatherUnavailable)
}

func TestClient_GetLaps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/laps", r.URL.Path)
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"time_label": "8 AM", "risk": 20, "jam_spots": []string{}},
			{"time_label": "9 AM", "risk": 75, "jam_spots": []string{"Main St"}},
		})
	}))
	defer server.Close()

	laps, err := newClient(server.URL).GetLaps(context.Background(), tripintel.TripQuery{Origin: "A", Destination: "B"})
	require.NoError(t, err)
	require.Len(t, laps, 2)

	assert.Equal(t, "8 AM", laps[0].TimeLabel)
	assert.Equal(t, 20.0, laps[0].RiskPct)
	assert.Equal(t, 75.0, laps[1].RiskPct)
	assert.Equal(t, []string{"Main St"}, laps[1].JamSpots)
}

func TestClient_GetMonitorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/monitor", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"speed_drop": map[string]interface{}{
				"detected": true,
				"message":  "Speed dropped 22 km/h below typical",
				"amount":   22.0,
			},
			"off_peak_congestion": map[string]interface{}{
				"detected": false,
				"message":  "",
			},
		})
	}))
	defer server.Close()

	status, err := newClient(server.URL).GetMonitorStatus(context.Background())
	require.NoError(t, err)

	assert.True(t, status.SpeedDrop.Detected)
	assert.Equal(t, 22.0, status.SpeedDrop.AmountKmh)
	assert.False(t, status.OffPeakCongestion.Detected)
	assert.True(t, status.Anomalous())
}

func TestClient_GetMonitorStatus_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := newClient(server.URL).GetMonitorStatus(context.Background())
	assert.ErrorIs(t, err, tripintel.ErrMonitorUnavailable)
}

func TestClient_RecordsRequestMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	prev := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(prev) })

	metrics, err := resilience.NewProviderMetrics()
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"distance_km":        12.3,
			"duration_formatted": "25 min",
			"avg_speed_kmh":      30.0,
		})
	}))
	defer server.Close()

	client := trafficiq.NewClient(trafficiq.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: resilience.NewClient(resilience.SingleAttemptConfig("test")),
		Metrics:    metrics,
	})

	_, err = client.GetRoute(context.Background(), "Delhi", "Agra")
	require.NoError(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	var names []string
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			names = append(names, m.Name)
		}
	}
	assert.Contains(t, names, "provider.request.duration")
	assert.Contains(t, names, "provider.request.total")
}
