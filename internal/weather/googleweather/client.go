// Package googleweather provides a client for the Google Weather API.
package googleweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthroute/healthroute/internal/provider/resilience"
	"github.com/healthroute/healthroute/internal/weather"
)

const (
	// ProviderName identifies this weather provider.
	ProviderName = "google-weather"

	// DefaultBaseURL is the Google Weather API base URL.
	DefaultBaseURL = "https://weather.googleapis.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Google Weather client.
type ClientConfig struct {
	// APIKey is the Google Maps Platform API key (required).
	APIKey string

	// BaseURL is the API base URL (optional, defaults to the public API).
	BaseURL string

	// HTTPClient is the HTTP client to use (optional).
	// If nil, uses a resilient client with defaults.
	HTTPClient HTTPDoer

	// Timeout is the request timeout (optional, defaults to 10s).
	Timeout time.Duration

	// Registry is the provider registry for health tracking (optional).
	Registry *resilience.Registry

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client is a Google Weather API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Google Weather client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		clientCfg := resilience.DefaultClientConfig(ProviderName)
		if cfg.Timeout != 0 {
			clientCfg.Timeout = cfg.Timeout
		}
		clientCfg.Registry = cfg.Registry
		httpClient = resilience.NewClient(clientCfg)
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
		logger:     cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// currentConditionsResponse is the subset of the API response we read.
// Temperature is a structured value object, not a bare number; extraction
// must unwrap Degrees rather than treat the object as numeric.
type currentConditionsResponse struct {
	Temperature *struct {
		Degrees *float64 `json:"degrees"`
		Unit    string   `json:"unit"`
	} `json:"temperature"`
}

// FetchTemperature fetches the current temperature in Celsius at a point.
// A response without a usable temperature yields
// weather.DefaultTemperatureCelsius; only transport and HTTP failures
// propagate as errors.
func (c *Client) FetchTemperature(ctx context.Context, lat, lon float64) (float64, error) {
	url := fmt.Sprintf(
		"%s/v1/currentConditions:lookup?key=%s&location.latitude=%.6f&location.longitude=%.6f&unitsSystem=METRIC",
		c.baseURL, c.apiKey, lat, lon,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &weather.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach weather provider",
			Err:      weather.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &weather.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("weather provider returned status %d", resp.StatusCode),
			Err:      weather.ErrProviderUnavailable,
		}
	}

	var conditions currentConditionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&conditions); err != nil {
		return 0, &weather.Error{
			Provider: ProviderName,
			Code:     "DECODE_FAILED",
			Message:  "decoding weather response",
			Err:      weather.ErrProviderUnavailable,
		}
	}

	if conditions.Temperature == nil || conditions.Temperature.Degrees == nil {
		c.logger.Warn().
			Float64("lat", lat).
			Float64("lon", lon).
			Msg("no temperature in response, using fallback")
		return weather.DefaultTemperatureCelsius, nil
	}

	return *conditions.Temperature.Degrees, nil
}
