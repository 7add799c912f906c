// Package mapbox provides a client for the Mapbox Geocoding API.
package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/healthroute/healthroute/internal/geocoding"
	"github.com/healthroute/healthroute/internal/provider/resilience"
)

const (
	// ProviderName identifies this geocoding provider.
	ProviderName = "mapbox-geocoding"

	// DefaultBaseURL is the Mapbox API base URL.
	DefaultBaseURL = "https://api.mapbox.com"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second

	// defaultLimit caps the number of matches requested.
	defaultLimit = 5
)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the Mapbox geocoding client.
type ClientConfig struct {
	// AccessToken is the Mapbox access token (required).
	AccessToken string

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

// Client is a Mapbox forward geocoding client.
type Client struct {
	accessToken string
	baseURL     string
	httpClient  HTTPDoer
	logger      zerolog.Logger
}

// NewClient creates a new Mapbox geocoding client.
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
		accessToken: cfg.AccessToken,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// geocodeResponse is the subset of the Mapbox response we read.
// Feature centers are [lon, lat] pairs.
type geocodeResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Relevance float64   `json:"relevance"`
		Center    []float64 `json:"center"`
	} `json:"features"`
}

// Search performs forward geocoding for a free-text query, best match first.
func (c *Client) Search(ctx context.Context, query string, proximity *geocoding.Coordinate) ([]geocoding.Match, error) {
	params := url.Values{}
	params.Set("access_token", c.accessToken)
	params.Set("limit", fmt.Sprintf("%d", defaultLimit))
	if proximity != nil {
		params.Set("proximity", fmt.Sprintf("%f,%f", proximity.Lon, proximity.Lat))
	}

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.baseURL, url.PathEscape(query), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &geocoding.Error{
			Provider: ProviderName,
			Code:     "REQUEST_FAILED",
			Message:  "failed to reach geocoding provider",
			Err:      geocoding.ErrProviderUnavailable,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &geocoding.Error{
			Provider: ProviderName,
			Code:     fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message:  fmt.Sprintf("geocoding provider returned status %d", resp.StatusCode),
			Err:      geocoding.ErrProviderUnavailable,
		}
	}

	var geocoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&geocoded); err != nil {
		return nil, &geocoding.Error{
			Provider: ProviderName,
			Code:     "DECODE_FAILED",
			Message:  "decoding geocoding response",
			Err:      geocoding.ErrProviderUnavailable,
		}
	}

	matches := make([]geocoding.Match, 0, len(geocoded.Features))
	for _, f := range geocoded.Features {
		if len(f.Center) < 2 {
			continue
		}
		matches = append(matches, geocoding.Match{
			Coordinate: geocoding.Coordinate{Lat: f.Center[1], Lon: f.Center[0]},
			PlaceName:  f.PlaceName,
			Relevance:  f.Relevance,
		})
	}

	c.logger.Debug().
		Str("query", query).
		Int("matches", len(matches)).
		Msg("geocoding search complete")

	return matches, nil
}
