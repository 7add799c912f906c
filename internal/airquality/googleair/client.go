// Package googleair provides a client for the Google Air Quality API.
package googleair

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthroute/healthroute/internal/airquality"
	"github.com/healthroute/healthroute/internal/provider/resilience"
)

const (
	// ProviderName identifies this air quality provider.
	ProviderName = "google-air-quality"

	// DefaultBaseURL is the Google Air Quality API base URL.
	DefaultBaseURL = "https://airquality.googleapis.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Google Air Quality client.
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

// Client is a Google Air Quality API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	logger     zerolog.Logger
}

// NewClient creates a new Google Air Quality client.
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

// API request/response structures.

type lookupRequest struct {
	Location          latLng   `json:"location"`
	ExtraComputations []string `json:"extraComputations"`
}

type latLng struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type lookupResponse struct {
	Pollutants []pollutantEntry `json:"pollutants"`
}

type pollutantEntry struct {
	Code          string `json:"code"`
	Concentration *struct {
		Value *float64 `json:"value"`
		Units string   `json:"units"`
	} `json:"concentration"`
}

// FetchPM25 fetches the current PM2.5 concentration at a point.
//
// The request asks for POLLUTANT_CONCENTRATION explicitly; without it the API
// responds successfully but omits concentration values entirely. A response
// that lacks a usable PM2.5 entry yields airquality.DefaultPM25 rather than
// an error; only transport and HTTP failures propagate.
func (c *Client) FetchPM25(ctx context.Context, lat, lon float64) (float64, error) {
	reqBody := lookupRequest{
		Location:          latLng{Latitude: lat, Longitude: lon},
		ExtraComputations: []string{"POLLUTANT_CONCENTRATION"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/currentConditions:lookup?key=%s", c.baseURL, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, &airquality.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach air quality provider",
			Err:      airquality.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, &airquality.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("air quality provider returned status %d", resp.StatusCode),
			Err:      airquality.ErrProviderUnavailable,
		}
	}

	var lookup lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return 0, &airquality.Error{
			Provider: ProviderName,
			Code:     "DECODE_FAILED",
			Message:  "decoding air quality response",
			Err:      airquality.ErrProviderUnavailable,
		}
	}

	for _, p := range lookup.Pollutants {
		if !strings.EqualFold(p.Code, "pm25") {
			continue
		}
		if p.Concentration == nil || p.Concentration.Value == nil {
			break
		}
		return *p.Concentration.Value, nil
	}

	c.logger.Warn().
		Float64("lat", lat).
		Float64("lon", lon).
		Msg("no PM2.5 concentration in response, using fallback")

	return airquality.DefaultPM25, nil
}
