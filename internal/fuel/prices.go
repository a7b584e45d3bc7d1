// Package fuel provides fuel price lookup and trip cost estimation.
package fuel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/BMTushyath/smart-travel-planner/internal/provider/resilience"
	"github.com/BMTushyath/smart-travel-planner/internal/vehicle"
)

// ProviderName identifies the fuel price provider.
const ProviderName = "fuelprices"

// DefaultBaseURL is the default fuel price service URL.
const DefaultBaseURL = "https://api.fuelpriceindia.example.com"

// fallbackPrices are per-unit prices used when the price service is
// unavailable and no cached quote exists. Petrol/diesel/CNG are ₹ per liter
// (CNG per kg); EV is ₹ per kWh.
var fallbackPrices = Prices{
	vehicle.FuelPetrol: 104.61,
	vehicle.FuelDiesel: 92.27,
	vehicle.FuelCNG:    76.59,
	vehicle.FuelEV:     9.50,
}

// Prices maps a fuel type to its current per-unit price.
type Prices map[vehicle.FuelType]float64

// PriceSource provides current fuel prices.
type PriceSource interface {
	GetPrices(ctx context.Context) (Prices, error)
}

// ClientConfig holds configuration for the price client.
type ClientConfig struct {
	// BaseURL is the price service base URL.
	BaseURL string

	// HTTPClient is the resilient HTTP client to use.
	HTTPClient *resilience.Client

	// CacheTTL is how long a fetched quote stays fresh (default: 1 hour).
	CacheTTL time.Duration

	// Metrics records request and cache metrics (optional).
	Metrics *resilience.ProviderMetrics

	// Logger is the logger for client operations.
	Logger zerolog.Logger
}

// Client fetches fuel prices from the upstream price service. Quotes are
// cached; a stale quote is still preferred over the static fallback when the
// service is down, since prices move slowly.
type Client struct {
	baseURL    string
	httpClient *resilience.Client
	cacheTTL   time.Duration
	metrics    *resilience.ProviderMetrics
	logger     zerolog.Logger

	mu        sync.Mutex
	lastGood  Prices
	fetchedAt time.Time
}

// NewClient creates a new fuel price client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.DefaultClientConfig(ProviderName))
	}

	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 1 * time.Hour
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		cacheTTL:   cacheTTL,
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

type pricesResponse struct {
	Petrol float64 `json:"petrol"`
	Diesel float64 `json:"diesel"`
	CNG    float64 `json:"cng"`
	EV     float64 `json:"ev"`
}

// GetPrices returns current fuel prices. It serves from cache while fresh,
// falls back to the last good quote on fetch errors, and to static defaults
// when no quote was ever fetched.
func (c *Client) GetPrices(ctx context.Context) (Prices, error) {
	c.mu.Lock()
	if c.lastGood != nil && time.Since(c.fetchedAt) < c.cacheTTL {
		prices := c.lastGood
		c.mu.Unlock()
		c.metrics.RecordCacheHit(ctx, ProviderName, "get-prices")
		return prices, nil
	}
	c.mu.Unlock()
	c.metrics.RecordCacheMiss(ctx, ProviderName, "get-prices")

	prices, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("fuel price fetch failed, using last good quote")

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.lastGood != nil {
			return c.lastGood, nil
		}
		return fallbackPrices, nil
	}

	c.mu.Lock()
	c.lastGood = prices
	c.fetchedAt = time.Now()
	c.mu.Unlock()

	return prices, nil
}

func (c *Client) fetch(ctx context.Context) (Prices, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/prices", nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordRequest(ctx, ProviderName, "/v1/prices", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("price service returned status %d", resp.StatusCode)
	}

	var body pricesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding prices: %w", err)
	}

	prices := Prices{
		vehicle.FuelPetrol: body.Petrol,
		vehicle.FuelDiesel: body.Diesel,
		vehicle.FuelCNG:    body.CNG,
		vehicle.FuelEV:     body.EV,
	}
	for fuelType, price := range prices {
		if price <= 0 {
			return nil, fmt.Errorf("price service returned non-positive price for %s", fuelType)
		}
	}

	return prices, nil
}

// StaticPrices is a PriceSource serving a fixed price table. Used in tests
// and as a deployment option when no price service is configured.
type StaticPrices Prices

// GetPrices returns the static price table, or the built-in fallback when
// empty.
func (s StaticPrices) GetPrices(context.Context) (Prices, error) {
	if len(s) == 0 {
		return fallbackPrices, nil
	}
	return Prices(s), nil
}
