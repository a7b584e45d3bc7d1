package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BMTushyath/smart-travel-planner/internal/api"
	"github.com/BMTushyath/smart-travel-planner/internal/api/handler"
	"github.com/BMTushyath/smart-travel-planner/internal/api/models"
	"github.com/BMTushyath/smart-travel-planner/internal/auth"
	"github.com/BMTushyath/smart-travel-planner/internal/fuel"
	"github.com/BMTushyath/smart-travel-planner/internal/planner"
	"github.com/BMTushyath/smart-travel-planner/internal/tripintel"
	"github.com/BMTushyath/smart-travel-planner/internal/vehicle"
)

// testAuthService creates an auth service for testing.
func testAuthService() *auth.Service {
	return auth.NewService(auth.ServiceConfig{
		JWTService:  testJWTService(),
		UserRepo:    auth.NewInMemoryUserRepository(),
		RefreshRepo: auth.NewInMemoryRefreshTokenRepository(),
	})
}

// testJWTService creates a JWT service for generating test tokens.
func testJWTService() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{
		SigningKey: "test-secret-key-for-testing-only",
		Issuer:     "https://api.smart-travel.app",
		Audience:   "smart-travel-api",
	})
}

// generateTestToken generates a valid test token for a user.
func generateTestToken(t *testing.T) string {
	t.Helper()
	jwtService := testJWTService()
	user := &auth.User{
		ID:        "usr_testuser123",
		Username:  "tester",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	token, _, err := jwtService.GenerateAccessToken(user)
	require.NoError(t, err)
	return token
}

// stubTrips serves canned trip intelligence for the router tests.
type stubTrips struct {
	routeErr error
}

func (s *stubTrips) GetRoute(context.Context, string, string) (*tripintel.RouteResult, error) {
	if s.routeErr != nil {
		return nil, s.routeErr
	}
	return &tripintel.RouteResult{DistanceKm: 100, DurationFormatted: "2 hr 5 min", AvgSpeedKmh: 48}, nil
}

func (s *stubTrips) GetPrediction(context.Context, tripintel.TripQuery) (*tripintel.PredictionResult, error) {
	return &tripintel.PredictionResult{
		Message:      "Leave by 7:30 AM",
		TrafficLevel: tripintel.TrafficLow,
		Primary:      tripintel.RouteLeg{ViaPoint: "Ring Road"},
	}, nil
}

func (s *stubTrips) GetWeather(context.Context, tripintel.TripQuery) (*tripintel.WeatherResult, error) {
	return &tripintel.WeatherResult{
		Condition:     tripintel.ConditionPleasant,
		Label:         "Pleasant",
		TemperatureC:  24,
		HoursAnalyzed: 4,
	}, nil
}

func (s *stubTrips) GetLaps(context.Context, tripintel.TripQuery) (tripintel.LapsResult, error) {
	return tripintel.LapsResult{{TimeLabel: "8 AM", RiskPct: 20}}, nil
}

func (s *stubTrips) GetMonitorStatus(context.Context) (*tripintel.MonitorStatus, error) {
	return &tripintel.MonitorStatus{}, nil
}

// okPinger always reports a healthy database.
type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// closedProbe reports a closed circuit breaker.
type closedProbe struct{ name string }

func (p closedProbe) Name() string { return p.name }

func (p closedProbe) CircuitBreakerState() gobreaker.State { return gobreaker.StateClosed }

func newTestRouterWith(trips *stubTrips) http.Handler {
	logger := zerolog.New(io.Discard)
	vehicleService := vehicle.NewService(vehicle.NewInMemoryRepository())
	orchestrator := planner.New(planner.Config{
		Routes:      trips,
		Predictions: trips,
		Weather:     trips,
		Laps:        trips,
		Monitor:     trips,
		Logger:      logger,
	})

	return api.NewRouter(api.RouterConfig{
		Version:        "test",
		BuildTime:      "2024-01-01T00:00:00Z",
		Logger:         logger,
		AuthService:    testAuthService(),
		VehicleService: vehicleService,
		Orchestrator:   orchestrator,
		Routes:         trips,
		Estimator:      fuel.NewEstimator(fuel.StaticPrices{}),
		DB:             okPinger{},
		Providers:      []handler.ProviderProbe{closedProbe{name: "trafficiq"}},
	})
}

func newTestRouter() http.Handler {
	return newTestRouterWith(&stubTrips{})
}

// addAuthHeader adds a valid Bearer token to the request.
func addAuthHeader(t *testing.T, req *http.Request) {
	t.Helper()
	token := generateTestToken(t)
	req.Header.Set("Authorization", "Bearer "+token)
}

func postJSON(t *testing.T, router http.Handler, path string, payload interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authed {
		addAuthHeader(t, req)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouter_HealthCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
	assert.NotEmpty(t, health.Time)
}

func TestRouter_ReadinessCheck(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var health models.Health
	err := json.Unmarshal(w.Body.Bytes(), &health)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, health.Status)
}

func TestRouter_SystemStatus(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/status", http.NoBody)
	addAuthHeader(t, req)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var status models.SystemStatus
	err := json.Unmarshal(w.Body.Bytes(), &status)
	require.NoError(t, err)

	assert.Equal(t, models.HealthStatusOK, status.Status)
	assert.NotEmpty(t, status.Subsystems)
	assert.NotEmpty(t, status.Providers)
}

func TestRouter_SignupAndLogin(t *testing.T) {
	router := newTestRouter()

	creds := auth.CredentialsRequest{Username: "daily_commuter", Password: "s3cret-pass"}

	w := postJSON(t, router, "/v1/auth/signup", creds, false)
	assert.Equal(t, http.StatusCreated, w.Code)

	var tokens auth.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tokens))
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "daily_commuter", tokens.User.Username)

	w = postJSON(t, router, "/v1/auth/login", creds, false)
	assert.Equal(t, http.StatusOK, w.Code)

	// Duplicate signup conflicts
	w = postJSON(t, router, "/v1/auth/signup", creds, false)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_LoginWrongPassword(t *testing.T) {
	router := newTestRouter()

	creds := auth.CredentialsRequest{Username: "daily_commuter", Password: "s3cret-pass"}
	w := postJSON(t, router, "/v1/auth/signup", creds, false)
	require.Equal(t, http.StatusCreated, w.Code)

	creds.Password = "wrong-password"
	w = postJSON(t, router, "/v1/auth/login", creds, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeUnauthorized, problem.Type)
}

func TestRouter_SignupValidationError(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/auth/signup", auth.CredentialsRequest{Username: "ab", Password: "short"}, false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.Errors)
	assert.NotEmpty(t, problem.TraceID)
}

func TestRouter_VehicleCRUD(t *testing.T) {
	router := newTestRouter()

	input := models.VehicleCreateRequest{
		Name:     "Daily Hatchback",
		Type:     "car",
		FuelType: "petrol",
		Mileage:  20,
	}

	w := postJSON(t, router, "/v1/me/vehicles", input, true)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, w.Header().Get("Location"))

	var created models.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Daily Hatchback", created.Name)
	assert.NotEmpty(t, created.ID)

	// List includes the new vehicle
	req := httptest.NewRequest(http.MethodGet, "/v1/me/vehicles", http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var page models.PagedVehicles
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, created.ID, page.Items[0].ID)

	// Update mileage
	newMileage := 18.5
	body, _ := json.Marshal(models.VehicleUpdateRequest{Mileage: &newMileage})
	req = httptest.NewRequest(http.MethodPatch, "/v1/me/vehicles/"+created.ID, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, 18.5, updated.Mileage)

	// Delete
	req = httptest.NewRequest(http.MethodDelete, "/v1/me/vehicles/"+created.ID, http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Gone afterwards
	req = httptest.NewRequest(http.MethodGet, "/v1/me/vehicles/"+created.ID, http.NoBody)
	addAuthHeader(t, req)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_VehicleValidationError(t *testing.T) {
	router := newTestRouter()

	input := models.VehicleCreateRequest{
		Name:     "",
		Type:     "rocket",
		FuelType: "petrol",
		Mileage:  20,
	}

	w := postJSON(t, router, "/v1/me/vehicles", input, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
	assert.NotEmpty(t, problem.Errors)
}

func TestRouter_VehicleRequiresAuth(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/me/vehicles", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
}

func TestRouter_PlanTrip(t *testing.T) {
	router := newTestRouter()

	input := models.PlanTripRequest{
		Origin:      "Indiranagar",
		Destination: "Whitefield",
		StartHour:   "08:00",
		EndHour:     "11:00",
	}

	w := postJSON(t, router, "/v1/trips:plan", input, true)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.PlanTripResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "ok", resp.Trip.State)
	assert.Equal(t, "ok", resp.Prediction.State)
	assert.Equal(t, "ok", resp.Weather.State)
	assert.Equal(t, "ok", resp.Laps.State)
	assert.Equal(t, "pending", resp.Monitor.State)

	require.NotNil(t, resp.Route)
	assert.Equal(t, 100.0, resp.Route.DistanceKm)
	assert.Equal(t, "2 hr 5 min", resp.Route.Duration)
}

func TestRouter_PlanTrip_ValidationError(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/trips:plan", models.PlanTripRequest{Destination: "Whitefield"}, true)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeValidation, problem.Type)
}

func TestRouter_PlanTrip_RouteFailure(t *testing.T) {
	router := newTestRouterWith(&stubTrips{routeErr: errors.New("connection refused")})

	input := models.PlanTripRequest{Origin: "Indiranagar", Destination: "Whitefield"}
	w := postJSON(t, router, "/v1/trips:plan", input, true)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var problem models.Problem
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	assert.Equal(t, models.ProblemTypeUpstream, problem.Type)
}

func TestRouter_Monitor(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/monitor", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.MonitorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Panel.State)
	assert.False(t, resp.Anomalous)
	assert.Empty(t, resp.Alerts)
}

func TestRouter_EstimateCost(t *testing.T) {
	router := newTestRouter()

	// Register a vehicle first
	w := postJSON(t, router, "/v1/me/vehicles", models.VehicleCreateRequest{
		Name:     "Daily Hatchback",
		Type:     "car",
		FuelType: "petrol",
		Mileage:  20,
	}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var created models.Vehicle
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = postJSON(t, router, "/v1/trips:estimate-cost", models.CostEstimateRequest{
		Origin:      "Indiranagar",
		Destination: "Whitefield",
		VehicleID:   created.ID,
	}, true)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.CostEstimateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	// 100 km at 20 km/l burns 5 liters; petrol fallback is 104.61/l
	assert.Equal(t, 100.0, resp.DistanceKm)
	assert.Equal(t, "petrol", resp.FuelType)
	assert.InDelta(t, 5.0, resp.FuelNeeded, 0.001)
	assert.InDelta(t, 523.05, resp.Cost, 0.01)
	assert.Equal(t, "INR", resp.Currency)
}

func TestRouter_EstimateCost_UnknownVehicle(t *testing.T) {
	router := newTestRouter()

	w := postJSON(t, router, "/v1/trips:estimate-cost", models.CostEstimateRequest{
		Origin:      "Indiranagar",
		Destination: "Whitefield",
		VehicleID:   "veh_doesnotexist",
	}, true)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_RequestID_Generated(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	requestID := w.Header().Get("X-Request-Id")
	assert.NotEmpty(t, requestID)
	assert.Contains(t, requestID, "req_")
}

func TestRouter_RequestID_Preserved(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	req.Header.Set("X-Request-Id", "custom_request_id")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, "custom_request_id", w.Header().Get("X-Request-Id"))
}

func TestRouter_NotFound(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/nonexistent", http.NoBody)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
